package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"wallet-credit-lab/internal/decode"
	"wallet-credit-lab/internal/observability"
)

// FeedConfig configures WebSocket feed behavior.
type FeedConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultFeedConfig returns default feed configuration.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// FeedSource streams raw transactions from a WebSocket endpoint.
// Each text message carries either a single raw transaction object or a
// JSON array of them. The source reconnects with exponential backoff and
// never drops a received record: sends block until the consumer keeps up.
type FeedSource struct {
	endpoint string
	config   FeedConfig
	logger   *zap.Logger

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	done chan struct{}
	wg   sync.WaitGroup
}

var _ TransactionSource = (*FeedSource)(nil)

// NewFeedSource creates a feed source for the given WebSocket endpoint.
func NewFeedSource(endpoint string, config *FeedConfig, logger *zap.Logger) *FeedSource {
	cfg := DefaultFeedConfig()
	if config != nil {
		cfg = *config
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FeedSource{
		endpoint: endpoint,
		config:   cfg,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Subscribe connects to the feed and returns the raw transaction channel.
// The channel is closed when the context is cancelled or Close is called.
func (f *FeedSource) Subscribe(ctx context.Context) (<-chan decode.RawTransaction, error) {
	if f.closed.Load() {
		return nil, fmt.Errorf("feed closed")
	}

	if err := f.connect(ctx); err != nil {
		return nil, err
	}

	// Buffer absorbs bursts; blocking send ensures no record loss.
	ch := make(chan decode.RawTransaction, 10000)

	f.wg.Add(1)
	go f.readLoop(ctx, ch)

	f.wg.Add(1)
	go f.pingLoop()

	return ch, nil
}

// Close shuts down the feed connection.
func (f *FeedSource) Close() error {
	if f.closed.Swap(true) {
		return nil // Already closed
	}

	close(f.done)

	f.connMu.Lock()
	if f.conn != nil {
		f.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		f.conn.Close()
	}
	f.connMu.Unlock()

	f.wg.Wait()
	return nil
}

// connect establishes the WebSocket connection.
func (f *FeedSource) connect(ctx context.Context) error {
	f.connMu.Lock()
	defer f.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, f.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	f.conn = conn
	return nil
}

// readLoop reads messages from the feed and forwards decoded raw
// transactions, reconnecting with exponential backoff on errors.
func (f *FeedSource) readLoop(ctx context.Context, out chan<- decode.RawTransaction) {
	defer f.wg.Done()
	defer close(out)

	reconnectDelay := f.config.ReconnectDelay

	for !f.closed.Load() {
		select {
		case <-ctx.Done():
			return
		case <-f.done:
			return
		default:
		}

		f.connMu.Lock()
		conn := f.conn
		f.connMu.Unlock()

		if conn == nil {
			if !f.reconnect(ctx, reconnectDelay) {
				return
			}
			reconnectDelay = backoff(reconnectDelay, f.config.MaxReconnectDelay)
			continue
		}

		conn.SetReadDeadline(time.Now().Add(f.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if f.closed.Load() || ctx.Err() != nil {
				return
			}

			f.logger.Warn("feed read error, reconnecting",
				zap.Error(err),
				zap.Duration("delay", reconnectDelay))

			f.connMu.Lock()
			f.conn.Close()
			f.conn = nil
			f.connMu.Unlock()

			if !f.reconnect(ctx, reconnectDelay) {
				return
			}
			reconnectDelay = backoff(reconnectDelay, f.config.MaxReconnectDelay)
			continue
		}

		// Reset delay on successful read
		reconnectDelay = f.config.ReconnectDelay

		observability.DefaultMetrics.FeedMessagesReceived.Inc()

		for _, raw := range parseFeedMessage(message, f.logger) {
			select {
			case out <- raw:
			case <-ctx.Done():
				return
			case <-f.done:
				return
			}
		}
	}
}

// reconnect waits for the delay and re-dials. Returns false on shutdown.
func (f *FeedSource) reconnect(ctx context.Context, delay time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-f.done:
		return false
	case <-time.After(delay):
	}

	observability.RecordFeedReconnect()

	dialCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := f.connect(dialCtx); err != nil {
		f.logger.Warn("feed reconnect failed", zap.Error(err))
		// Will retry on next loop iteration
		return !f.closed.Load() && ctx.Err() == nil
	}

	f.logger.Info("feed reconnected", zap.String("endpoint", f.endpoint))
	return true
}

// pingLoop sends periodic ping frames to keep the connection alive.
func (f *FeedSource) pingLoop() {
	defer f.wg.Done()

	ticker := time.NewTicker(f.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-f.done:
			return
		case <-ticker.C:
			f.connMu.Lock()
			if f.conn != nil {
				f.conn.SetWriteDeadline(time.Now().Add(f.config.WriteTimeout))
				if err := f.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					// Connection might be dead, reader will handle reconnect
				}
			}
			f.connMu.Unlock()
		}
	}
}

// parseFeedMessage decodes a feed message into raw transactions.
// Messages that are neither an object nor an array are counted and skipped.
func parseFeedMessage(message []byte, logger *zap.Logger) []decode.RawTransaction {
	var batch []decode.RawTransaction
	if err := json.Unmarshal(message, &batch); err == nil {
		return batch
	}

	var single decode.RawTransaction
	if err := json.Unmarshal(message, &single); err == nil {
		return []decode.RawTransaction{single}
	}

	observability.RecordIngestionError("malformed_message")
	logger.Warn("malformed feed message", zap.Int("bytes", len(message)))
	return nil
}

func backoff(current, max time.Duration) time.Duration {
	next := current * 2
	if next > max {
		return max
	}
	return next
}

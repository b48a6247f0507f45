package observability

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDBQuery_ObservesDuration(t *testing.T) {
	before := testutil.CollectAndCount(DefaultMetrics.DBQueryDuration)

	RecordDBQuery("postgres", "get_all_scores", 0.042, nil)

	after := testutil.CollectAndCount(DefaultMetrics.DBQueryDuration)
	if after != before+1 {
		t.Errorf("expected one new duration series, got %d (was %d)", after, before)
	}
}

func TestRecordDBQuery_ErrorsCountedOnlyOnFailure(t *testing.T) {
	errCounter := DefaultMetrics.DBQueryErrors.WithLabelValues("postgres", "insert_score")
	before := testutil.ToFloat64(errCounter)

	RecordDBQuery("postgres", "insert_score", 0.01, nil)
	if got := testutil.ToFloat64(errCounter); got != before {
		t.Errorf("successful query counted as error: got %f, want %f", got, before)
	}

	RecordDBQuery("postgres", "insert_score", 0.01, errors.New("connection reset"))
	if got := testutil.ToFloat64(errCounter); got != before+1 {
		t.Errorf("failed query not counted: got %f, want %f", got, before+1)
	}
}

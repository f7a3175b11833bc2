package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordStage(t *testing.T) {
	before := testutil.ToFloat64(PipelineStageRuns.WithLabelValues("immediate", "failure"))
	RecordStage("immediate", 10*time.Millisecond, errors.New("boom"))
	after := testutil.ToFloat64(PipelineStageRuns.WithLabelValues("immediate", "failure"))
	assert.Equal(t, before+1, after)
}

func TestRecordCache(t *testing.T) {
	before := testutil.ToFloat64(CacheOperations.WithLabelValues("get", "success"))
	RecordCache("get", true)
	RecordCache("get", true)
	assert.Equal(t, before+2, testutil.ToFloat64(CacheOperations.WithLabelValues("get", "success")))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "success", outcome(true))
	assert.Equal(t, "failure", outcome(false))
}

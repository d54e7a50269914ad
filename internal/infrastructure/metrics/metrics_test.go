package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRun(t *testing.T) {
	before := testutil.ToFloat64(JobRunsTotal.WithLabelValues("stocks", "hardware", "success"))

	RecordRun("stocks", "hardware", "success", 3*time.Second)

	after := testutil.ToFloat64(JobRunsTotal.WithLabelValues("stocks", "hardware", "success"))
	assert.Equal(t, before+1, after)
}

func TestRecordRows(t *testing.T) {
	RecordRows("category", "hardware", 2, 1, 3)

	assert.GreaterOrEqual(t,
		testutil.ToFloat64(JobRowsTotal.WithLabelValues("category", "hardware", "created")), 2.0)
	assert.GreaterOrEqual(t,
		testutil.ToFloat64(JobRowsTotal.WithLabelValues("category", "hardware", "deleted")), 3.0)
}

func TestRecordLockSkipped(t *testing.T) {
	before := testutil.ToFloat64(JobLockSkipped.WithLabelValues("prices"))
	RecordLockSkipped("prices")
	assert.Equal(t, before+1, testutil.ToFloat64(JobLockSkipped.WithLabelValues("prices")))
}

func TestHandler(t *testing.T) {
	assert.NotNil(t, Handler())
}

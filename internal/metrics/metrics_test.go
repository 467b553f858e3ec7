package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordPlanRun(t *testing.T) {
	before := testutil.ToFloat64(PlanRunsTotal.WithLabelValues(OutcomeInfeasible))
	RecordPlanRun(OutcomeInfeasible, 5*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(PlanRunsTotal.WithLabelValues(OutcomeInfeasible)))
}

func TestRecordSnapshotReplacesTruckSeries(t *testing.T) {
	RecordSnapshot(1, 30, map[int]float64{1: 10, 2: 20})
	RecordSnapshot(2, 12.5, map[int]float64{3: 12.5})

	assert.Equal(t, 2.0, testutil.ToFloat64(SnapshotGeneration))
	assert.Equal(t, 12.5, testutil.ToFloat64(TotalMileage))
	assert.Equal(t, 1, testutil.CollectAndCount(TruckMileage))
	assert.Equal(t, 12.5, testutil.ToFloat64(TruckMileage.WithLabelValues("3")))
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestTotal.WithLabelValues("GET", "/health", "200"))
	RecordHTTPRequest("GET", "/health", 200, time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestTotal.WithLabelValues("GET", "/health", "200")))
}

package metrics

import (
	"testing"
	"time"

	"github.com/dukex/workflow-dto/pkg/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusRecorder_RecordConversion(t *testing.T) {
	r := NewPrometheusRecorder()

	dto := &models.FullWorkflowContainerDto{
		States:      []*models.StateRecord{{}, {}},
		Transitions: []*models.TransitionRecord{{}},
		Criterias:   []*models.CriteriaRecord{{}, {}, {}, {}},
	}

	r.RecordConversion("basic", StatusSuccess, 10*time.Millisecond, dto)
	r.RecordConversion("basic", StatusFailure, time.Millisecond, nil)

	assert.InDelta(t, 1, testutil.ToFloat64(r.conversionsTotal.WithLabelValues("basic", StatusSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.conversionsTotal.WithLabelValues("basic", StatusFailure)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(r.recordsEmitted.WithLabelValues("basic", "state")), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(r.recordsEmitted.WithLabelValues("basic", "criteria")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(r.recordsEmitted.WithLabelValues("basic", "process")), 0)

	families, err := r.Registry().Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}

	assert.NotPanics(t, func() {
		r.RecordConversion("basic", StatusSuccess, time.Second, nil)
	})
}

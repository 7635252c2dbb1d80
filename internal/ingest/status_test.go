package ingest

import (
	"context"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestStatusRecorder_DisabledIsNoOp(t *testing.T) {
	var r *StatusRecorder

	// must not panic when recording is disabled
	r.Record(context.Background(), Summary{CycleID: "cycle-1"})

	_, err := r.Last(context.Background())
	assert.Equal(t, ErrNoStatus, err)

	r = NewStatusRecorder(nil)
	r.Record(context.Background(), Summary{CycleID: "cycle-1"})

	_, err = r.Last(context.Background())
	assert.Equal(t, ErrNoStatus, err)
}

package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracer_EnterLeaveTracksDepth(t *testing.T) {
	tr := NewTracer(true)

	assert.Equal(t, 0, tr.depth)
	tr.Enter("FnImpl")
	assert.Equal(t, 1, tr.depth)
	tr.Enter("Branch")
	assert.Equal(t, 2, tr.depth)
	tr.Leave()
	assert.Equal(t, 1, tr.depth)
	tr.Leave()
	assert.Equal(t, 0, tr.depth)
}

func TestTracer_LeaveNeverGoesNegative(t *testing.T) {
	tr := NewTracer(false)

	tr.Leave()
	assert.Equal(t, 0, tr.depth)
}

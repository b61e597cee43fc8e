package path

import (
	"testing"

	"github.com/KnoooW/spf-wca/internal/decision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHistoryContextFree(t *testing.T) {
	frameA, frameB := "A", "B"
	hist := []decision.Decision{
		decision.New("a", 0, frameA),
		decision.New("b", 1, frameB),
		decision.New("c", 0, frameA),
	}

	p := FromHistory(hist, false, 0)
	require.Equal(t, 3, p.Len())
	assert.Equal(t, hist[0], p.At(0))
	assert.Equal(t, hist[2], p.At(2))
}

func TestFromHistoryContextPreservingStopsAtForeignFrame(t *testing.T) {
	frameA, frameB := "A", "B"
	hist := []decision.Decision{
		decision.New("a", 0, frameA),
		decision.New("b", 1, frameB),
		decision.New("c", 0, frameB),
	}

	p := FromHistory(hist, true, 0)
	require.Equal(t, 2, p.Len())
	assert.Equal(t, hist[1], p.At(0))
	assert.Equal(t, hist[2], p.At(1))
}

func TestFromHistoryBoundedByMaxSize(t *testing.T) {
	frame := "A"
	hist := []decision.Decision{
		decision.New("a", 0, frame),
		decision.New("b", 1, frame),
		decision.New("c", 0, frame),
	}

	p := FromHistory(hist, true, 2)
	require.Equal(t, 2, p.Len())
	assert.Equal(t, hist[1], p.At(0))
	assert.Equal(t, hist[2], p.At(1))
}

func TestFromHistoryEmpty(t *testing.T) {
	p := FromHistory(nil, true, 5)
	assert.Equal(t, 0, p.Len())
	_, ok := p.Last()
	assert.False(t, ok)
}

func TestCtxPreservingSuffixBefore(t *testing.T) {
	frameA, frameB := "A", "B"
	p := Of(
		decision.New("outer", 1, frameA),
		decision.New("a", 1, frameB),
		decision.New("b", 0, frameB),
	)

	suffix := p.CtxPreservingSuffixBefore(2, 0)
	require.Equal(t, 1, suffix.Len())
	assert.Equal(t, p.At(1), suffix.At(0))
}

func TestCtxPreservingSuffixBeforeOutOfRange(t *testing.T) {
	p := Of(decision.New("a", 0, "A"))
	assert.Equal(t, 0, p.CtxPreservingSuffixBefore(0, 5).Len())
	assert.Equal(t, 0, p.CtxPreservingSuffixBefore(5, 5).Len())
}

package policy

import (
	"bytes"
	"testing"

	"github.com/KnoooW/spf-wca/internal/decision"
	"github.com/KnoooW/spf-wca/internal/hostapi"
	"github.com/KnoooW/spf-wca/internal/path"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorRemembersHeaviestPath(t *testing.T) {
	frame := "frame"
	light := []decision.Decision{decision.New("b", 0, frame)}
	heavy := []decision.Decision{decision.New("b", 1, frame)}

	g := NewGenerator(nil, 0)
	g.OnTerminal(hostapi.TerminalEvent{Cost: 3, History: fakeHistory(light)})
	g.OnTerminal(hostapi.TerminalEvent{Cost: 9, History: fakeHistory(heavy)})
	g.OnTerminal(hostapi.TerminalEvent{Cost: 1, History: fakeHistory(light)})

	var buf bytes.Buffer
	trie, err := g.Finish(&buf)
	require.NoError(t, err)

	got := trie.ChoicesForLongestSuffix(path.Of())
	assert.Contains(t, got, 1) // choiceIndex of the heavy decision at the empty-prefix key
}

func TestGeneratorTieBreaksToEarliestDiscovered(t *testing.T) {
	frame := "frame"
	first := []decision.Decision{decision.New("b", 0, frame)}
	second := []decision.Decision{decision.New("b", 1, frame)}

	g := NewGenerator(nil, 0)
	g.OnTerminal(hostapi.TerminalEvent{Cost: 5, History: fakeHistory(first)})
	g.OnTerminal(hostapi.TerminalEvent{Cost: 5, History: fakeHistory(second)})

	trie, err := g.Finish(nil)
	require.NoError(t, err)

	got := trie.ChoicesForLongestSuffix(path.Of())
	assert.Equal(t, map[int]struct{}{0: {}}, got)
}

func TestGeneratorEmptyExplorationYieldsEmptyTrie(t *testing.T) {
	g := NewGenerator(nil, 0)
	trie, err := g.Finish(nil)
	require.NoError(t, err)
	assert.Empty(t, trie.ChoicesForLongestSuffix(path.Of()))
}

func TestGeneratorContextPreservingKeyConstruction(t *testing.T) {
	frame := "frame"
	a := decision.New("a", 1, frame)
	b := decision.New("b", 0, frame)
	heavy := []decision.Decision{a, b}

	g := NewGenerator(nil, 0)
	g.OnTerminal(hostapi.TerminalEvent{Cost: 10, History: fakeHistory(heavy)})

	trie, err := g.Finish(nil)
	require.NoError(t, err)

	// Decision b was preceded in-frame by a, so querying with the history
	// that precedes b (not including b itself) recommends b's choice.
	got := trie.ChoicesForLongestSuffix(path.Of(a))
	assert.Contains(t, got, 0)
}

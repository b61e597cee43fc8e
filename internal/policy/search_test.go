package policy

import (
	"testing"

	"github.com/KnoooW/spf-wca/internal/decision"
	"github.com/KnoooW/spf-wca/internal/hostapi"
	"github.com/KnoooW/spf-wca/internal/path"
	"github.com/stretchr/testify/assert"
)

func TestSearchRestrictsToRecommendedChoice(t *testing.T) {
	frame := "frame"
	a := decision.New("a", 1, frame)

	trie := NewBuilder().Put(path.Of(a), 0).Build()
	search := NewSearch(trie, 0, ExploreAll, nil)

	decider := &fakeDecider{}
	search.OnBranch(hostapi.BranchEvent{
		BranchID:         "b",
		AvailableChoices: []int{0, 1},
		Context:          frame,
		History:          fakeHistory([]decision.Decision{a}),
	}, decider)

	assert.True(t, decider.called)
	assert.Equal(t, []int{0}, decider.restricted)
	assert.Equal(t, 0, search.Misses())
}

func TestSearchFallsBackToExploreAllOnMiss(t *testing.T) {
	trie := NewBuilder().Build()
	search := NewSearch(trie, 0, ExploreAll, nil)

	decider := &fakeDecider{}
	search.OnBranch(hostapi.BranchEvent{
		BranchID:         "b",
		AvailableChoices: []int{0, 1},
		History:          fakeHistory(nil),
	}, decider)

	assert.False(t, decider.called)
	assert.Equal(t, 1, search.Misses())
}

func TestSearchFallsBackToFirstChoiceOnMiss(t *testing.T) {
	trie := NewBuilder().Build()
	search := NewSearch(trie, 0, FirstChoice, nil)

	decider := &fakeDecider{}
	search.OnBranch(hostapi.BranchEvent{
		BranchID:         "b",
		AvailableChoices: []int{2, 3},
		History:          fakeHistory(nil),
	}, decider)

	assert.True(t, decider.called)
	assert.Equal(t, []int{2}, decider.restricted)
}

func TestSearchTracksHeaviestPath(t *testing.T) {
	trie := NewBuilder().Build()
	search := NewSearch(trie, 0, ExploreAll, nil)

	light := []decision.Decision{decision.New("b", 0, "frame")}
	heavy := []decision.Decision{decision.New("b", 1, "frame")}

	search.OnTerminal(hostapi.TerminalEvent{Cost: 4, History: fakeHistory(light)})
	search.OnTerminal(hostapi.TerminalEvent{Cost: 12, History: fakeHistory(heavy)})
	search.OnTerminal(hostapi.TerminalEvent{Cost: 2, History: fakeHistory(light)})

	assert.Equal(t, 12, search.WC())
	assert.Equal(t, heavy, search.Decisions())
}

func TestSearchRecommendationNotAmongAvailableFallsBack(t *testing.T) {
	frame := "frame"
	a := decision.New("a", 1, frame)

	// Policy recommends choice 9, but the host only offers 0 and 1 at this
	// branch (a stale or mismatched policy) — must fall back, not restrict
	// to an impossible empty set.
	trie := NewBuilder().Put(path.Of(a), 9).Build()
	search := NewSearch(trie, 0, ExploreAll, nil)

	decider := &fakeDecider{}
	search.OnBranch(hostapi.BranchEvent{
		BranchID:         "b",
		AvailableChoices: []int{0, 1},
		History:          fakeHistory([]decision.Decision{a}),
	}, decider)

	assert.False(t, decider.called)
	assert.Equal(t, 1, search.Misses())
}

package policy

import (
	"bytes"
	"testing"

	"github.com/KnoooW/spf-wca/internal/decision"
	"github.com/KnoooW/spf-wca/internal/path"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyOf(decs ...decision.Decision) path.Path {
	return path.Of(decs...)
}

func TestTrieShapeReachesTerminal(t *testing.T) {
	a := decision.New("a", 0, nil)
	b := decision.New("b", 1, nil)

	trie := NewBuilder().Put(keyOf(a, b), 7).Build()

	got := trie.ChoicesForLongestSuffix(keyOf(a, b))
	assert.Contains(t, got, 7)
}

func TestCountConservation(t *testing.T) {
	a := decision.New("a", 0, nil)
	b := decision.New("b", 1, nil)

	b1 := NewBuilder()
	b1.Put(keyOf(a), 1)
	b1.Put(keyOf(a), 1)
	b1.Put(keyOf(b), 2)
	trie := b1.Build()

	total := trie.CountForChoice(1) + trie.CountForChoice(2)
	assert.Equal(t, 3, total)
	assert.Equal(t, 2, trie.CountForChoice(1))
	assert.Equal(t, 1, trie.CountForChoice(2))
	assert.Equal(t, 0, trie.CountForChoice(99))
}

func TestSuffixLookupCorrectness(t *testing.T) {
	a := decision.New("a", 0, nil)
	b := decision.New("b", 1, nil)
	c := decision.New("c", 0, nil)

	trie := NewBuilder().Put(keyOf(a, b), 5).Build()

	history := keyOf(c, a, b)
	got := trie.ChoicesForLongestSuffix(history)
	assert.Contains(t, got, 5)
}

func TestLongestMatchDominance(t *testing.T) {
	a := decision.New("a", 0, nil)
	b := decision.New("b", 1, nil)

	builder := NewBuilder()
	builder.Put(keyOf(b), 1)    // length-1 key, choice 1
	builder.Put(keyOf(a, b), 2) // length-2 key sharing the same last decision, choice 2

	trie := builder.Build()

	got := trie.ChoicesForLongestSuffix(keyOf(a, b))
	assert.Equal(t, map[int]struct{}{2: {}}, got)
}

func TestTiesAreUnioned(t *testing.T) {
	p := decision.New("p", 0, nil)
	q := decision.New("q", 0, nil)
	d := decision.New("d", 1, nil)

	builder := NewBuilder()
	builder.Put(keyOf(p, d), 1)
	builder.Put(keyOf(q, d), 2)
	trie := builder.Build()

	// History's last decision is d, but whichever of p/d or q/d preceded it
	// is unknown to this shorter history — both length-1 matches tie, so
	// both recommendations are kept.
	got := trie.ChoicesForLongestSuffix(keyOf(d))
	assert.Equal(t, map[int]struct{}{1: {}, 2: {}}, got)
}

func TestEmptyHistoryBehavior(t *testing.T) {
	trie := NewBuilder().Build()
	assert.Empty(t, trie.ChoicesForLongestSuffix(path.Path{}))

	a := decision.New("a", 0, nil)
	nonEmpty := NewBuilder().Put(keyOf(a), 1).Build()
	assert.Empty(t, nonEmpty.ChoicesForLongestSuffix(path.Path{}))
}

func TestEmptyKeyInsertsAtRoot(t *testing.T) {
	trie := NewBuilder().Put(path.Path{}, 9).Build()
	got := trie.ChoicesForLongestSuffix(path.Path{})
	assert.Equal(t, map[int]struct{}{9: {}}, got)
}

func TestShortHistoryIsNonFatal(t *testing.T) {
	a := decision.New("a", 0, nil)
	b := decision.New("b", 1, nil)

	trie := NewBuilder().Put(keyOf(a, b), 1).Build()

	// History shorter than the inserted key must not panic; it should just
	// cap how far the suffix match can extend.
	require.NotPanics(t, func() {
		got := trie.ChoicesForLongestSuffix(keyOf(b))
		assert.Contains(t, got, 1)
	})
}

func TestPutIsIdempotentInStructure(t *testing.T) {
	a := decision.New("a", 0, nil)

	b1 := NewBuilder()
	b1.Put(keyOf(a), 1)
	t1 := b1.Build()

	b2 := NewBuilder()
	b2.Put(keyOf(a), 1)
	b2.Put(keyOf(a), 1)
	t2 := b2.Build()

	assert.Equal(t, len(t1.nodes), len(t2.nodes))
	assert.Equal(t, t1.ChoicesForLongestSuffix(keyOf(a)), t2.ChoicesForLongestSuffix(keyOf(a)))
	assert.Equal(t, 1, t1.CountForChoice(1))
	assert.Equal(t, 2, t2.CountForChoice(1))
}

func TestSerializationRoundTrip(t *testing.T) {
	a := decision.New("a", 0, nil)
	b := decision.New("b", 1, nil)

	builder := NewBuilder()
	builder.Put(keyOf(a), 1)
	builder.Put(keyOf(a, b), 2)
	builder.Put(path.Path{}, 3)
	original := builder.Build()

	var buf bytes.Buffer
	require.NoError(t, Serialize(original, &buf))

	restored, err := Deserialize(&buf)
	require.NoError(t, err)

	for _, key := range []path.Path{keyOf(a), keyOf(a, b), path.Path{}} {
		assert.Equal(t, original.ChoicesForLongestSuffix(key), restored.ChoicesForLongestSuffix(key))
	}
	assert.Equal(t, original.CountForChoice(1), restored.CountForChoice(1))
	assert.Equal(t, original.CountForChoice(2), restored.CountForChoice(2))
	assert.Equal(t, original.CountForChoice(3), restored.CountForChoice(3))
}

func TestDeserializeRejectsBadMagic(t *testing.T) {
	_, err := Deserialize(bytes.NewReader([]byte("not a policy file")))
	assert.Error(t, err)
}

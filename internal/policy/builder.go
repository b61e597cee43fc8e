package policy

import (
	"github.com/KnoooW/spf-wca/internal/decision"
	"github.com/KnoooW/spf-wca/internal/path"
)

// Builder accumulates Put calls and yields an immutable Trie. It is the
// only way to construct a non-empty Trie; once Build returns, the Builder
// must not be reused.
type Builder struct {
	t *Trie
}

// NewBuilder returns a Builder over an empty trie (a lone root).
func NewBuilder() *Builder {
	return &Builder{t: newTrie()}
}

// Put inserts choice at the terminal reached by following key's decisions
// from the root, creating intermediate nodes as needed. The last decision
// of key labels the edge into the terminal; an empty key
// targets the root itself. Repeated calls with the same (key, choice) leave
// the trie structurally identical but increment choiceCounts[choice] again
// — counts are a raw insertion frequency, not a distinct-recommendation
// count.
func (b *Builder) Put(key path.Path, choice int) *Builder {
	t := b.t
	cur := rootID
	n := key.Len()
	for i := 0; i < n; i++ {
		dec := key.At(i)
		node := &t.nodes[cur]
		child, ok := node.edges[dec.Key]
		if !ok {
			child = nodeID(len(t.nodes))
			t.nodes = append(t.nodes, trieNode{
				choices: map[int]struct{}{},
				edges:   map[decision.Key]nodeID{},
				parent:  cur,
				label:   dec.Key,
			})
			node.edges[dec.Key] = child
		}
		cur = child
	}

	t.nodes[cur].choices[choice] = struct{}{}
	if n == 0 {
		t.emptyKeyEnds = appendUniqueNode(t.emptyKeyEnds, cur)
	} else {
		lastKey := key.At(n - 1).Key
		t.endIndex[lastKey] = appendUniqueNode(t.endIndex[lastKey], cur)
	}
	t.choiceCounts[choice]++
	return b
}

// Build finalizes and returns the trie. The Builder must not be used again.
func (b *Builder) Build() *Trie {
	t := b.t
	b.t = nil
	return t
}

func appendUniqueNode(nodes []nodeID, n nodeID) []nodeID {
	for _, existing := range nodes {
		if existing == n {
			return nodes
		}
	}
	return append(nodes, n)
}

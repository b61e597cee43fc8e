package policy

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/KnoooW/spf-wca/internal/decision"
)

// magic identifies a serialized policy file; version lets a future format
// change be detected instead of silently misread. This format makes no
// stability promise across versions — the header just lets a reader fail
// fast on a foreign or stale file.
var magic = [4]byte{'w', 'c', 'p', 'o'}

const formatVersion byte = 1

// wireNode mirrors trieNode but swaps the set-as-map representation for
// slices, since gob can't encode map[int]struct{} or map[decision.Key]T
// directly without a registered concrete type for the zero-size struct.
type wireNode struct {
	Choices []int
	Edges   []wireEdge
	Parent  nodeID
	Label   decision.Key
	IsRoot  bool
}

type wireEdge struct {
	Key   decision.Key
	Child nodeID
}

type wireTrie struct {
	Nodes        []wireNode
	EndIndex     []wireEndEntry
	EmptyKeyEnds []nodeID
	ChoiceCounts map[int]int
}

type wireEndEntry struct {
	Key   decision.Key
	Nodes []nodeID
}

// Serialize writes t to w as a magic header, a version byte and a gob-
// encoded body, so a policy written by one run can be byte-for-byte reused
// by a later one. Node parent links and endIndex are both rebuildable on
// load, but both are still written verbatim to avoid recomputation at load
// time.
func Serialize(t *Trie, w io.Writer) error {
	if _, err := w.Write(magic[:]); err != nil {
		return fmt.Errorf("policy: write magic: %w", err)
	}
	if _, err := w.Write([]byte{formatVersion}); err != nil {
		return fmt.Errorf("policy: write version: %w", err)
	}

	wire := wireTrie{
		ChoiceCounts: t.choiceCounts,
		EmptyKeyEnds: t.emptyKeyEnds,
	}
	for id, n := range t.nodes {
		wn := wireNode{Parent: n.parent, Label: n.label, IsRoot: nodeID(id) == rootID}
		for c := range n.choices {
			wn.Choices = append(wn.Choices, c)
		}
		for k, child := range n.edges {
			wn.Edges = append(wn.Edges, wireEdge{Key: k, Child: child})
		}
		wire.Nodes = append(wire.Nodes, wn)
	}
	for k, nodes := range t.endIndex {
		wire.EndIndex = append(wire.EndIndex, wireEndEntry{Key: k, Nodes: nodes})
	}

	enc := gob.NewEncoder(w)
	if err := enc.Encode(&wire); err != nil {
		return fmt.Errorf("policy: encode: %w", err)
	}
	return nil
}

// Deserialize reads back a Trie written by Serialize, rebuilding endIndex
// and node maps from the wire representation. It returns an error if the
// header is missing, the magic doesn't match, or the version is one this
// build doesn't understand.
func Deserialize(r io.Reader) (*Trie, error) {
	header := make([]byte, len(magic)+1)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("policy: read header: %w", err)
	}
	if !bytes.Equal(header[:len(magic)], magic[:]) {
		return nil, fmt.Errorf("policy: not a policy file (bad magic)")
	}
	if header[len(magic)] != formatVersion {
		return nil, fmt.Errorf("policy: unsupported format version %d", header[len(magic)])
	}

	var wire wireTrie
	if err := gob.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("policy: decode: %w", err)
	}

	t := &Trie{
		endIndex:     map[decision.Key][]nodeID{},
		emptyKeyEnds: wire.EmptyKeyEnds,
		choiceCounts: wire.ChoiceCounts,
	}
	if t.choiceCounts == nil {
		t.choiceCounts = map[int]int{}
	}
	for _, wn := range wire.Nodes {
		n := trieNode{
			choices: map[int]struct{}{},
			edges:   map[decision.Key]nodeID{},
			parent:  wn.Parent,
			label:   wn.Label,
		}
		for _, c := range wn.Choices {
			n.choices[c] = struct{}{}
		}
		for _, e := range wn.Edges {
			n.edges[e.Key] = e.Child
		}
		t.nodes = append(t.nodes, n)
	}
	for _, entry := range wire.EndIndex {
		t.endIndex[entry.Key] = entry.Nodes
	}
	return t, nil
}

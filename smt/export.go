// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package smt

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/luxfi/geth/common/hexutil"
	"github.com/zeebo/blake3"
)

var (
	ErrBadChecksum = errors.New("smt export: checksum mismatch")
	ErrBadExport   = errors.New("smt export: malformed node set")
)

// ExportNode is one node of the serialized tree. Internal nodes carry their
// children hashes; leaves carry the key/value pair. All values are decimal
// strings.
type ExportNode struct {
	Hash  string `json:"hash"`
	Left  string `json:"left,omitempty"`
	Right string `json:"right,omitempty"`
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"`
	Leaf  bool   `json:"leaf,omitempty"`
}

// Export is the JSON form of a tree: the full node set sufficient to
// reconstruct it without rebuilding from the source list, plus the root
// reported separately for on-chain comparison and a blake3 checksum over the
// node set.
type Export struct {
	Root     string       `json:"root"`
	Depth    int          `json:"depth"`
	Size     int          `json:"size"`
	Nodes    []ExportNode `json:"nodes"`
	Checksum string       `json:"checksum"`
}

// Export serializes the tree.
func (t *Tree) Export() (*Export, error) {
	var nodes []ExportNode
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil {
			return
		}
		en := ExportNode{Hash: n.hash.String()}
		if n.leaf {
			en.Leaf = true
			en.Key = n.key.String()
			en.Value = n.value.String()
		} else {
			en.Left = hashOf(n.left).String()
			en.Right = hashOf(n.right).String()
			walk(n.left)
			walk(n.right)
		}
		nodes = append(nodes, en)
	}
	walk(t.root)

	e := &Export{
		Root:  t.Root().String(),
		Depth: t.depth,
		Size:  t.size,
		Nodes: nodes,
	}
	sum, err := e.checksum()
	if err != nil {
		return nil, err
	}
	e.Checksum = hexutil.Encode(sum)
	return e, nil
}

func (e *Export) checksum() ([]byte, error) {
	h := blake3.New()
	fmt.Fprintf(h, "%s/%d/%d", e.Root, e.Depth, e.Size)
	for _, n := range e.Nodes {
		fmt.Fprintf(h, "/%s:%s:%s:%s:%s:%t", n.Hash, n.Left, n.Right, n.Key, n.Value, n.Leaf)
	}
	return h.Sum(nil), nil
}

// MarshalJSON is the wire form consumed by the registry tooling.
func (t *Tree) MarshalJSON() ([]byte, error) {
	e, err := t.Export()
	if err != nil {
		return nil, err
	}
	return json.Marshal(e)
}

// Import reconstructs a tree from an export without re-inserting leaves. The
// checksum must match; node hashes are trusted after that, so imports from
// untrusted sources should compare Root against the on-chain value.
func Import(e *Export) (*Tree, error) {
	sum, err := e.checksum()
	if err != nil {
		return nil, err
	}
	if e.Checksum != hexutil.Encode(sum) {
		return nil, ErrBadChecksum
	}

	byHash := make(map[string]ExportNode, len(e.Nodes))
	for _, n := range e.Nodes {
		byHash[n.Hash] = n
	}

	t := New(e.Depth)
	t.size = e.Size
	if e.Root == "0" {
		return t, nil
	}

	var build func(hash string) (*node, error)
	build = func(hash string) (*node, error) {
		if hash == "0" {
			return nil, nil
		}
		en, ok := byHash[hash]
		if !ok {
			return nil, fmt.Errorf("%w: missing node %s", ErrBadExport, hash)
		}
		h, ok := new(big.Int).SetString(en.Hash, 10)
		if !ok {
			return nil, ErrBadExport
		}
		if en.Leaf {
			key, okK := new(big.Int).SetString(en.Key, 10)
			value, okV := new(big.Int).SetString(en.Value, 10)
			if !okK || !okV {
				return nil, ErrBadExport
			}
			return &node{leaf: true, key: key, value: value, hash: h}, nil
		}
		left, err := build(en.Left)
		if err != nil {
			return nil, err
		}
		right, err := build(en.Right)
		if err != nil {
			return nil, err
		}
		return &node{left: left, right: right, hash: h}, nil
	}

	root, err := build(e.Root)
	if err != nil {
		return nil, err
	}
	t.root = root
	return t, nil
}

// UnmarshalJSON mirrors MarshalJSON.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var e Export
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}
	imported, err := Import(&e)
	if err != nil {
		return err
	}
	*t = *imported
	return nil
}

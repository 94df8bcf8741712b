// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ofac

import (
	"fmt"
	"sync"

	log "github.com/luxfi/log"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/identity/codec"
	"github.com/luxfi/identity/smt"
)

// Builder constructs sanctions tree sets from a sanctions list. Builds are
// periodic bulk rebuilds, never incremental updates: a new list produces new
// trees and the old set is swapped out atomically by the caller.
type Builder struct {
	depth int
	log   log.Logger
}

// NewBuilder returns a builder producing trees of the given depth (0 selects
// smt.DefaultDepth).
func NewBuilder(depth int, logger log.Logger) *Builder {
	if logger == nil {
		logger = log.NewTestLogger(log.InfoLevel)
	}
	return &Builder{depth: depth, log: logger}
}

// Build constructs the two granularity trees from the entries. Duplicate
// leaf keys within a granularity (several entries normalizing to one
// key) collapse to a single leaf.
func (b *Builder) Build(entries []Entry) (*TreeSet, error) {
	dobEntries := make([]smt.Entry, 0, len(entries))
	yobEntries := make([]smt.Entry, 0, len(entries))
	seenDOB := make(map[string]bool, len(entries))
	seenYOB := make(map[string]bool, len(entries))

	for _, e := range entries {
		dobKey, err := LeafKeyNameDOB(e.Name, e.DOB)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.Name, err)
		}
		yobKey, err := LeafKeyNameYOB(e.Name, e.DOB[:4])
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.Name, err)
		}
		if k := dobKey.String(); !seenDOB[k] {
			seenDOB[k] = true
			dobEntries = append(dobEntries, smt.Entry{Key: dobKey})
		}
		if k := yobKey.String(); !seenYOB[k] {
			seenYOB[k] = true
			yobEntries = append(yobEntries, smt.Entry{Key: yobKey})
		}
	}

	set := &TreeSet{
		NameDOB: smt.New(b.depth),
		NameYOB: smt.New(b.depth),
	}

	// The two granularity trees are independent; build them in parallel.
	var g errgroup.Group
	g.Go(func() error { return set.NameDOB.BulkInsert(dobEntries) })
	g.Go(func() error { return set.NameYOB.BulkInsert(yobEntries) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b.log.Info("built sanctions trees",
		"entries", len(entries),
		"dobLeaves", set.NameDOB.Size(),
		"yobLeaves", set.NameYOB.Size(),
		"dobRoot", set.NameDOB.Root().String(),
		"yobRoot", set.NameYOB.Root().String(),
	)
	return set, nil
}

// BuildAll rebuilds tree sets for several schemes in parallel. Scheme
// rebuilds are independent of each other.
func (b *Builder) BuildAll(lists map[codec.DocumentScheme][]Entry) (map[codec.DocumentScheme]*TreeSet, error) {
	var (
		mu   sync.Mutex
		sets = make(map[codec.DocumentScheme]*TreeSet, len(lists))
		g    errgroup.Group
	)
	for scheme, entries := range lists {
		g.Go(func() error {
			set, err := b.Build(entries)
			if err != nil {
				return fmt.Errorf("scheme %s: %w", scheme, err)
			}
			mu.Lock()
			sets[scheme] = set
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sets, nil
}

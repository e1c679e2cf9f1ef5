// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package rewrite implements the descendant rebaser: given a set of
// declared commit replacements it walks every descendant of a replaced
// commit and rewrites it so that the history becomes consistent with
// the replacements, the way `zeta rebase` rewrites a branch onto a new
// base but applied transitively to an entire subgraph at once.
package rewrite

import (
	"context"
	"errors"
	"fmt"

	"github.com/antgroup/hugescm/modules/plumbing"
	"github.com/antgroup/hugescm/modules/zeta/object"
)

// Kind identifies which of the four ways a pending commit can be
// disposed of by a single call to Rebaser.Next.
type Kind int

const (
	// None is returned once the pending set has been drained.
	None Kind = iota
	// Rebased means a new commit was written with a substituted parent list.
	Rebased
	// AncestorOfDestination means the commit sits between a replaced
	// commit and one of its replacements; it is left unwritten but its
	// identity is still threaded through later substitutions.
	AncestorOfDestination
	// AlreadyInPlace means substitution produced exactly the commit's
	// original parent list; nothing needed to change.
	AlreadyInPlace
)

func (k Kind) String() string {
	switch k {
	case Rebased:
		return "Rebased"
	case AncestorOfDestination:
		return "AncestorOfDestination"
	case AlreadyInPlace:
		return "AlreadyInPlace"
	default:
		return "None"
	}
}

// Classification is the value produced by one call to Rebaser.Next.
type Classification struct {
	Kind Kind
	Old  *object.Commit
	// New is only set when Kind == Rebased.
	New *object.Commit
}

var (
	// ErrInvalidReplacement is returned at construction time when a
	// replacement entry is malformed (empty value list, or a key that
	// also appears among its own values).
	ErrInvalidReplacement = errors.New("rewrite: invalid replacement entry")
)

// Store is the commit-store contract the rebaser consumes: read a
// commit by id, write a new one and learn its content-addressed id.
type Store interface {
	GetCommit(ctx context.Context, id plumbing.Hash) (*object.Commit, error)
	WriteCommit(ctx context.Context, rec *object.Commit) (*object.Commit, error)
}

// RepoView is the exclusive mutable view of the repository the rebaser
// borrows for its lifetime: children lookup and ancestry queries over
// the DAG's current state, including commits this run has already
// written.
type RepoView interface {
	ChildrenOf(ctx context.Context, id plumbing.Hash) ([]plumbing.Hash, error)
	IsAncestor(ctx context.Context, ancestor, descendant plumbing.Hash) (bool, error)
}

// TreeMerger is the three-way tree merge collaborator. Conflicts are
// not errors: the merger encodes them into the returned tree.
type TreeMerger interface {
	MergeTrees(ctx context.Context, base, ours, theirs plumbing.Hash) (plumbing.Hash, error)
}

// Rebaser drives the descendant rebase. Construct with NewRebaser,
// then drain with Next or RebaseAll.
type Rebaser struct {
	store      Store
	view       RepoView
	merger     TreeMerger
	replace    *replacementMap
	driver     *topoDriver
	rebased    map[plumbing.Hash]plumbing.Hash // old -> new for Rebased, old -> matched destination for AncestorOfDestination
	rebasedLog map[plumbing.Hash]plumbing.Hash // Rebased-only, exposed via Rebased()
	done       bool
}

// NewRebaser constructs a rebaser over the transitive descendants of
// replacements' keys. replacements maps an old commit id to the
// ordered list of commit ids that now replace it (length >= 1).
func NewRebaser(ctx context.Context, store Store, view RepoView, merger TreeMerger, replacements map[plumbing.Hash][]plumbing.Hash) (*Rebaser, error) {
	rm, err := newReplacementMap(replacements)
	if err != nil {
		return nil, err
	}
	pending, err := computePending(ctx, view, rm.keys())
	if err != nil {
		return nil, fmt.Errorf("rewrite: computing pending set: %w", err)
	}
	driver, err := newTopoDriver(ctx, store, pending)
	if err != nil {
		return nil, fmt.Errorf("rewrite: building topological driver: %w", err)
	}
	return &Rebaser{
		store:      store,
		view:       view,
		merger:     merger,
		replace:    rm,
		driver:     driver,
		rebased:    make(map[plumbing.Hash]plumbing.Hash),
		rebasedLog: make(map[plumbing.Hash]plumbing.Hash),
	}, nil
}

// Next classifies and, if required, rewrites the next pending commit.
// It returns a zero-Kind (None) Classification once the pending set is
// exhausted; subsequent calls keep returning None.
func (r *Rebaser) Next(ctx context.Context) (Classification, error) {
	if r.done {
		return Classification{Kind: None}, nil
	}
	c, ok := r.driver.next()
	if !ok {
		r.done = true
		return Classification{Kind: None}, nil
	}
	return r.classify(ctx, c)
}

// RebaseAll drains the rebaser, invoking Next until iteration
// completes.
func (r *Rebaser) RebaseAll(ctx context.Context) ([]Classification, error) {
	var out []Classification
	for {
		cl, err := r.Next(ctx)
		if err != nil {
			return out, err
		}
		if cl.Kind == None {
			return out, nil
		}
		out = append(out, cl)
	}
}

// Pending returns how many descendants remain to be classified.
func (r *Rebaser) Pending() int {
	return len(r.driver.pending)
}

// Rebased returns the accumulated old-id -> new-id mapping for every
// Rebased classification yielded so far.
func (r *Rebaser) Rebased() map[plumbing.Hash]plumbing.Hash {
	out := make(map[plumbing.Hash]plumbing.Hash, len(r.rebasedLog))
	for k, v := range r.rebasedLog {
		out[k] = v
	}
	return out
}

func (r *Rebaser) classify(ctx context.Context, c *object.Commit) (Classification, error) {
	substituted := make([]plumbing.Hash, 0, len(c.Parents))
	for _, p := range c.Parents {
		substituted = append(substituted, r.substitute(p)...)
	}
	deduped := dedup(substituted)
	simplified, err := r.simplify(ctx, deduped)
	if err != nil {
		return Classification{}, err
	}

	if sameSequence(simplified, c.Parents) {
		return Classification{Kind: AlreadyInPlace, Old: c}, nil
	}

	if matched, ok, err := r.matchesDestination(ctx, c.Hash, simplified); err != nil {
		return Classification{}, err
	} else if ok {
		r.rebased[c.Hash] = matched
		return Classification{Kind: AncestorOfDestination, Old: c}, nil
	}

	newCommit, err := r.rewriteCommit(ctx, c, simplified)
	if err != nil {
		return Classification{}, fmt.Errorf("rewrite: rebasing %s: %w", c.Hash, err)
	}
	r.rebased[c.Hash] = newCommit.Hash
	r.rebasedLog[c.Hash] = newCommit.Hash
	return Classification{Kind: Rebased, Old: c, New: newCommit}, nil
}

// substitute resolves a single parent id: the already-rebased map
// (built by this run) takes precedence, then a single hop through the
// replacement map, then the id passes through unchanged. This is
// intentionally not recursive through the replacement map itself --
// see replacement.go for why.
func (r *Rebaser) substitute(id plumbing.Hash) []plumbing.Hash {
	if v, ok := r.rebased[id]; ok {
		return []plumbing.Hash{v}
	}
	return r.replace.substitute(id)
}

// simplify removes, from a >= 2 element parent list, any parent that
// is a strict ancestor of another parent in the same list. Order of
// the surviving parents is preserved.
func (r *Rebaser) simplify(ctx context.Context, parents []plumbing.Hash) ([]plumbing.Hash, error) {
	if len(parents) < 2 {
		return parents, nil
	}
	out := make([]plumbing.Hash, 0, len(parents))
	for i, p := range parents {
		isAncestorOfAnother := false
		for j, q := range parents {
			if i == j {
				continue
			}
			ok, err := r.view.IsAncestor(ctx, p, q)
			if err != nil {
				return nil, err
			}
			if ok {
				isAncestorOfAnother = true
				break
			}
		}
		if !isAncestorOfAnother {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		// Every parent is pairwise-equal or forms a cycle of mutual
		// ancestry, which cannot happen in an acyclic graph; fall back
		// to the untouched list rather than drop everything.
		return parents, nil
	}
	return out, nil
}

// matchesDestination implements the AncestorOfDestination test: C
// qualifies either because substitution produced C itself as one of
// its own new parents (it sits directly between a replacement's source
// and target), or because C is a strict ancestor of one of the
// replacement map's declared destinations. The matched value -- C
// itself in the first case, the destination in the second -- is what
// later substitutions must see in C's place.
func (r *Rebaser) matchesDestination(ctx context.Context, c plumbing.Hash, parents []plumbing.Hash) (plumbing.Hash, bool, error) {
	for _, p := range parents {
		if p == c {
			return c, true, nil
		}
	}
	for d := range r.replace.destinations {
		ok, err := r.view.IsAncestor(ctx, c, d)
		if err != nil {
			return plumbing.Hash{}, false, err
		}
		if ok {
			return d, true, nil
		}
	}
	return plumbing.Hash{}, false, nil
}

func dedup(ids []plumbing.Hash) []plumbing.Hash {
	seen := make(map[plumbing.Hash]bool, len(ids))
	out := make([]plumbing.Hash, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func sameSequence(a, b []plumbing.Hash) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package odb

import (
	"context"
	"fmt"

	"github.com/antgroup/hugescm/modules/plumbing"
	"github.com/antgroup/hugescm/modules/zeta/object"
	"github.com/antgroup/hugescm/modules/zeta/rewrite"
)

// commitStore adapts the ODB's commit read/write surface to
// rewrite.Store.
type commitStore struct {
	odb *ODB
}

func (s *commitStore) GetCommit(ctx context.Context, id plumbing.Hash) (*object.Commit, error) {
	return s.odb.Commit(ctx, id)
}

func (s *commitStore) WriteCommit(ctx context.Context, rec *object.Commit) (*object.Commit, error) {
	oid, err := s.odb.WriteEncoded(rec)
	if err != nil {
		return nil, err
	}
	return s.odb.Commit(ctx, oid)
}

// repoView adapts the ODB's commit graph to rewrite.RepoView. Children
// are indexed once, from a fixed set of starting heads, at
// construction time: the descendant rebaser only ever queries
// ChildrenOf while computing its initial pending set (see
// modules/zeta/rewrite/driver.go), before any commit has been
// rewritten, so a point-in-time snapshot is exactly what the contract
// calls for. IsAncestor, by contrast, is queried throughout the run
// against commits this run has itself just written, so it always walks
// the live store instead of the snapshot.
type repoView struct {
	odb      *ODB
	children map[plumbing.Hash][]plumbing.Hash
}

// NewRepoView indexes the ancestry graph reachable from heads (typically
// every branch and tag tip) into a children-of index suitable for
// driving a rewrite.Rebaser.
func NewRepoView(ctx context.Context, o *ODB, heads []plumbing.Hash) (*repoView, error) {
	v := &repoView{odb: o, children: make(map[plumbing.Hash][]plumbing.Hash)}
	seen := make(map[plumbing.Hash]bool)
	queue := append([]plumbing.Hash(nil), heads...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		c, err := o.Commit(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("rewrite: indexing %s: %w", id, err)
		}
		for _, p := range c.Parents {
			v.children[p] = append(v.children[p], id)
			queue = append(queue, p)
		}
	}
	return v, nil
}

func (v *repoView) ChildrenOf(_ context.Context, id plumbing.Hash) ([]plumbing.Hash, error) {
	return v.children[id], nil
}

func (v *repoView) IsAncestor(ctx context.Context, ancestor, descendant plumbing.Hash) (bool, error) {
	if ancestor == descendant {
		return false, nil
	}
	visited := make(map[plumbing.Hash]bool)
	queue := []plumbing.Hash{descendant}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		c, err := v.odb.Commit(ctx, cur)
		if err != nil {
			return false, err
		}
		for _, p := range c.Parents {
			if p == ancestor {
				return true, nil
			}
			if !visited[p] {
				visited[p] = true
				queue = append(queue, p)
			}
		}
	}
	return false, nil
}

// treeMerger adapts the ODB's three-way tree merge to rewrite.TreeMerger.
type treeMerger struct {
	odb  *ODB
	opts *MergeOptions
}

// NewTreeMerger wraps an ODB's MergeTree behind the rewrite engine's
// narrow TreeMerger contract. opts, if nil, uses MergeTree's defaults.
func NewTreeMerger(o *ODB, opts *MergeOptions) *treeMerger {
	if opts == nil {
		opts = &MergeOptions{}
	}
	return &treeMerger{odb: o, opts: opts}
}

func (m *treeMerger) MergeTrees(ctx context.Context, base, ours, theirs plumbing.Hash) (plumbing.Hash, error) {
	o, err := m.odb.Tree(ctx, base)
	if err != nil {
		return plumbing.Hash{}, fmt.Errorf("rewrite: loading base tree %s: %w", base, err)
	}
	a, err := m.odb.Tree(ctx, ours)
	if err != nil {
		return plumbing.Hash{}, fmt.Errorf("rewrite: loading ours tree %s: %w", ours, err)
	}
	b, err := m.odb.Tree(ctx, theirs)
	if err != nil {
		return plumbing.Hash{}, fmt.Errorf("rewrite: loading theirs tree %s: %w", theirs, err)
	}
	result, err := m.odb.MergeTree(ctx, o, a, b, m.opts)
	if err != nil {
		return plumbing.Hash{}, err
	}
	return result.NewTree, nil
}

// NewDescendantRebaser wires the real commit store, repository view and
// tree merger together into a rewrite.Rebaser. heads should be every
// branch and tag tip that might have descendants of a replaced commit;
// the caller is responsible for discovering them (see
// pkg/command/command_rebase_descendants.go for the CLI's use of
// modules/zeta/refs to do so).
func NewDescendantRebaser(ctx context.Context, o *ODB, mergeOpts *MergeOptions, heads []plumbing.Hash, replacements map[plumbing.Hash][]plumbing.Hash) (*rewrite.Rebaser, error) {
	view, err := NewRepoView(ctx, o, heads)
	if err != nil {
		return nil, err
	}
	store := &commitStore{odb: o}
	merger := NewTreeMerger(o, mergeOpts)
	return rewrite.NewRebaser(ctx, store, view, merger, replacements)
}

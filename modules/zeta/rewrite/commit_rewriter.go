// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package rewrite

import (
	"context"

	"github.com/antgroup/hugescm/modules/plumbing"
	"github.com/antgroup/hugescm/modules/zeta/object"
)

// rewriteCommit is the Commit Rewriter: given the original commit and
// its already-substituted-and-simplified new parent list, it computes
// the rewritten tree and writes the new commit record. change_id,
// author, committer, extra headers and message are carried over
// verbatim -- this is the same contract
// pkg/zeta/worktree_rebase.go's rebaseInternal follows for a single
// linear rebase, generalized here to an arbitrary new parent count.
func (r *Rebaser) rewriteCommit(ctx context.Context, old *object.Commit, newParents []plumbing.Hash) (*object.Commit, error) {
	mergeTarget, err := r.mergeTargetTree(ctx, newParents)
	if err != nil {
		return nil, err
	}

	oldBase, err := r.store.GetCommit(ctx, old.Parents[0])
	if err != nil {
		return nil, err
	}

	newTree, err := r.merger.MergeTrees(ctx, oldBase.Tree, old.Tree, mergeTarget)
	if err != nil {
		return nil, err
	}

	rec := &object.Commit{
		Change:       old.Change,
		Author:       old.Author,
		Committer:    old.Committer,
		Parents:      newParents,
		Tree:         newTree,
		ExtraHeaders: old.ExtraHeaders,
		Message:      old.Message,
	}
	return r.store.WriteCommit(ctx, rec)
}

// mergeTargetTree produces the tree side of the rebase merge's
// "theirs" argument. With a single new parent it is just that
// parent's tree. With two or more (a merge commit being rebased onto
// a widened or otherwise changed parent set) there is no single
// "theirs" tree to merge against, so one is built by folding the new
// parents' trees together: the first new parent's tree anchors the
// fold as both base and initial accumulator, and each subsequent
// parent's tree is merged in against that same anchor. This mirrors
// how a plain merge commit's tree is itself the product of combining
// its parents, just run ahead of time over the *new* parent set
// instead of the original one.
func (r *Rebaser) mergeTargetTree(ctx context.Context, newParents []plumbing.Hash) (plumbing.Hash, error) {
	first, err := r.store.GetCommit(ctx, newParents[0])
	if err != nil {
		return plumbing.Hash{}, err
	}
	if len(newParents) == 1 {
		return first.Tree, nil
	}

	anchor := first.Tree
	acc := anchor
	for _, p := range newParents[1:] {
		pc, err := r.store.GetCommit(ctx, p)
		if err != nil {
			return plumbing.Hash{}, err
		}
		acc, err = r.merger.MergeTrees(ctx, anchor, acc, pc.Tree)
		if err != nil {
			return plumbing.Hash{}, err
		}
	}
	return acc, nil
}

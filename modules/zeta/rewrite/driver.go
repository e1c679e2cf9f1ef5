// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package rewrite

import (
	"context"

	"github.com/antgroup/hugescm/modules/plumbing"
	"github.com/antgroup/hugescm/modules/zeta/object"
	"github.com/emirpasic/gods/trees/binaryheap"
)

// computePending returns the transitive descendant closure of keys,
// within the given view, excluding the keys themselves -- a key is
// still walked through to reach its own descendants, it is just never
// added to the resulting pending set (it is never itself a candidate
// for rebasing; only what comes after it is).
func computePending(ctx context.Context, view RepoView, keys []plumbing.Hash) (map[plumbing.Hash]bool, error) {
	keySet := make(map[plumbing.Hash]bool, len(keys))
	for _, k := range keys {
		keySet[k] = true
	}
	pending := make(map[plumbing.Hash]bool)
	visited := make(map[plumbing.Hash]bool, len(keys))
	queue := append([]plumbing.Hash(nil), keys...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		children, err := view.ChildrenOf(ctx, cur)
		if err != nil {
			return nil, err
		}
		for _, ch := range children {
			if visited[ch] {
				continue
			}
			visited[ch] = true
			if !keySet[ch] {
				pending[ch] = true
			}
			queue = append(queue, ch)
		}
	}
	return pending, nil
}

// topoDriver yields pending commits in an order where every commit
// comes after all of its original parents that are themselves pending,
// using Kahn's algorithm: an in-degree count restricted to pending
// parents, and a min-heap of zero-in-degree commits ordered by
// committer timestamp (oldest first) to break ties deterministically.
//
// This mirrors commitTopoOrderIterator in
// modules/zeta/object/commit_walker_topo_order.go, with the direction
// of travel reversed (children instead of parents, ascending time
// instead of descending) and the frontier bounded up front by the
// already-computed pending set rather than discovered lazily.
type topoDriver struct {
	pending    map[plumbing.Hash]bool
	commits    map[plumbing.Hash]*object.Commit
	indegree   map[plumbing.Hash]int
	childrenOf map[plumbing.Hash][]plumbing.Hash
	ready      *binaryheap.Heap
}

func byCommitterTimeAsc(a, b any) int {
	ca, cb := a.(*object.Commit), b.(*object.Commit)
	if cmp := ca.Committer.When.Compare(cb.Committer.When); cmp != 0 {
		return cmp
	}
	return compareHash(ca.Hash, cb.Hash)
}

func compareHash(a, b plumbing.Hash) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func newTopoDriver(ctx context.Context, store Store, pending map[plumbing.Hash]bool) (*topoDriver, error) {
	commits := make(map[plumbing.Hash]*object.Commit, len(pending))
	for id := range pending {
		c, err := store.GetCommit(ctx, id)
		if err != nil {
			return nil, err
		}
		commits[id] = c
	}

	indegree := make(map[plumbing.Hash]int, len(pending))
	childrenOf := make(map[plumbing.Hash][]plumbing.Hash, len(pending))
	for id, c := range commits {
		for _, p := range c.Parents {
			if pending[p] {
				indegree[id]++
				childrenOf[p] = append(childrenOf[p], id)
			}
		}
	}

	ready := binaryheap.NewWith(byCommitterTimeAsc)
	for id, c := range commits {
		if indegree[id] == 0 {
			ready.Push(c)
		}
	}

	return &topoDriver{
		pending:    pending,
		commits:    commits,
		indegree:   indegree,
		childrenOf: childrenOf,
		ready:      ready,
	}, nil
}

// next pops the next commit ready to visit, or reports false once the
// pending set is exhausted.
func (d *topoDriver) next() (*object.Commit, bool) {
	v, ok := d.ready.Pop()
	if !ok {
		return nil, false
	}
	c := v.(*object.Commit)
	delete(d.pending, c.Hash)
	for _, child := range d.childrenOf[c.Hash] {
		d.indegree[child]--
		if d.indegree[child] == 0 {
			d.ready.Push(d.commits[child])
		}
	}
	return c, true
}

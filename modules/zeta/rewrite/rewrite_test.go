// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package rewrite

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/antgroup/hugescm/modules/plumbing"
	"github.com/antgroup/hugescm/modules/zeta/object"
)

// fakeRepo is an in-memory Store + RepoView + TreeMerger used to drive
// the rebaser in tests without a real on-disk backend. Trees are kept
// as plain path -> content maps rather than real object.Tree values:
// the rebaser core only ever handles tree ids as opaque hashes, so a
// lightweight stand-in is enough to exercise both the classification
// logic and, for the content test, a genuine three-way per-path merge.
type fakeRepo struct {
	commits map[plumbing.Hash]*object.Commit
	trees   map[plumbing.Hash]map[string]string
	seq     int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		commits: make(map[plumbing.Hash]*object.Commit),
		trees:   make(map[plumbing.Hash]map[string]string),
	}
}

func (f *fakeRepo) hashOf(b []byte) plumbing.Hash {
	h := plumbing.NewHasher()
	_, _ = h.Write(b)
	return h.Sum()
}

// tree registers a tree made of exactly the given path -> content
// pairs and returns its content hash.
func (f *fakeRepo) tree(files map[string]string) plumbing.Hash {
	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	sort.Strings(names)
	var buf []byte
	for _, n := range names {
		buf = append(buf, []byte(n+"="+files[n]+"\n")...)
	}
	id := f.hashOf(buf)
	f.trees[id] = files
	return id
}

// commit creates and stores a new commit with a strictly increasing
// Committer timestamp (seq order == creation order, matching the order
// the end-to-end scenarios in §8 declare commits in), and returns it.
func (f *fakeRepo) commit(parents []plumbing.Hash, treeID plumbing.Hash) *object.Commit {
	f.seq++
	when := time.Unix(1700000000+int64(f.seq)*60, 0).UTC()
	c := &object.Commit{
		Change:    f.hashOf([]byte(fmt.Sprintf("change-%d", f.seq))),
		Author:    object.Signature{Name: "tester", Email: "tester@example.com", When: when},
		Committer: object.Signature{Name: "tester", Email: "tester@example.com", When: when},
		Parents:   parents,
		Tree:      treeID,
		Message:   fmt.Sprintf("commit %d\n", f.seq),
	}
	var buf []byte
	_ = c.Encode(writerFunc(func(p []byte) (int, error) {
		buf = append(buf, p...)
		return len(p), nil
	}))
	c.Hash = f.hashOf(buf)
	f.commits[c.Hash] = c
	return c
}

type writerFunc func(p []byte) (int, error)

func (w writerFunc) Write(p []byte) (int, error) { return w(p) }

func (f *fakeRepo) GetCommit(_ context.Context, id plumbing.Hash) (*object.Commit, error) {
	c, ok := f.commits[id]
	if !ok {
		return nil, fmt.Errorf("no such commit: %s", id)
	}
	return c, nil
}

func (f *fakeRepo) WriteCommit(_ context.Context, rec *object.Commit) (*object.Commit, error) {
	return f.commit(rec.Parents, rec.Tree), nil
}

func (f *fakeRepo) ChildrenOf(_ context.Context, id plumbing.Hash) ([]plumbing.Hash, error) {
	var out []plumbing.Hash
	for _, c := range f.commits {
		for _, p := range c.Parents {
			if p == id {
				out = append(out, c.Hash)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) IsAncestor(_ context.Context, ancestor, descendant plumbing.Hash) (bool, error) {
	visited := make(map[plumbing.Hash]bool)
	queue := []plumbing.Hash{descendant}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		c, ok := f.commits[cur]
		if !ok {
			continue
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

// MergeTrees performs a plain three-way merge over path->content maps:
// a path keeps its common value when both sides agree, takes whichever
// side changed when only one side differs from base, and defaults to
// "ours" on a genuine conflict (not exercised by these tests).
func (f *fakeRepo) MergeTrees(_ context.Context, base, ours, theirs plumbing.Hash) (plumbing.Hash, error) {
	b := f.trees[base]
	o := f.trees[ours]
	t := f.trees[theirs]
	names := make(map[string]bool)
	for n := range b {
		names[n] = true
	}
	for n := range o {
		names[n] = true
	}
	for n := range t {
		names[n] = true
	}
	out := make(map[string]string)
	for n := range names {
		bv, ov, tv := b[n], o[n], t[n]
		var result string
		switch {
		case ov == tv:
			result = ov
		case ov == bv:
			result = tv
		case tv == bv:
			result = ov
		default:
			result = ov
		}
		if result != "" {
			out[n] = result
		}
	}
	return f.tree(out), nil
}

func mustRebaser(t *testing.T, repo *fakeRepo, replacements map[plumbing.Hash][]plumbing.Hash) *Rebaser {
	t.Helper()
	r, err := NewRebaser(context.Background(), repo, repo, repo, replacements)
	if err != nil {
		t.Fatalf("NewRebaser: %v", err)
	}
	return r
}

func wantRebased(t *testing.T, cl Classification, old *object.Commit, wantParents []plumbing.Hash) *object.Commit {
	t.Helper()
	if cl.Kind != Rebased {
		t.Fatalf("want Rebased, got %s", cl.Kind)
	}
	if cl.Old.Hash != old.Hash {
		t.Fatalf("want old commit %s, got %s", old.Hash, cl.Old.Hash)
	}
	if cl.New.Change != old.Change {
		t.Fatalf("change_id not preserved: %s != %s", cl.New.Change, old.Change)
	}
	if !sameSequence(cl.New.Parents, wantParents) {
		t.Fatalf("want new parents %v, got %v", wantParents, cl.New.Parents)
	}
	return cl.New
}

func wantAncestor(t *testing.T, cl Classification, old *object.Commit) {
	t.Helper()
	if cl.Kind != AncestorOfDestination {
		t.Fatalf("want AncestorOfDestination, got %s", cl.Kind)
	}
	if cl.Old.Hash != old.Hash {
		t.Fatalf("want old commit %s, got %s", old.Hash, cl.Old.Hash)
	}
}

func wantInPlace(t *testing.T, cl Classification, old *object.Commit) {
	t.Helper()
	if cl.Kind != AlreadyInPlace {
		t.Fatalf("want AlreadyInPlace, got %s", cl.Kind)
	}
	if cl.Old.Hash != old.Hash {
		t.Fatalf("want old commit %s, got %s", old.Hash, cl.Old.Hash)
	}
}

func wantDone(t *testing.T, r *Rebaser) {
	t.Helper()
	cl, err := r.Next(context.Background())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if cl.Kind != None {
		t.Fatalf("want iteration complete, got %s", cl.Kind)
	}
}

// Graph: 1<-2<-3<-4, 1<-2<-5, 1<-6. Replacement 2->[6].
func TestRebaseDescendantsSideways(t *testing.T) {
	repo := newFakeRepo()
	marker := func(n string) plumbing.Hash { return repo.tree(map[string]string{"marker": n}) }
	c1 := repo.commit(nil, marker("1"))
	c2 := repo.commit([]plumbing.Hash{c1.Hash}, marker("2"))
	c3 := repo.commit([]plumbing.Hash{c2.Hash}, marker("3"))
	c4 := repo.commit([]plumbing.Hash{c3.Hash}, marker("4"))
	c5 := repo.commit([]plumbing.Hash{c2.Hash}, marker("5"))
	c6 := repo.commit([]plumbing.Hash{c1.Hash}, marker("6"))

	r := mustRebaser(t, repo, map[plumbing.Hash][]plumbing.Hash{c2.Hash: {c6.Hash}})
	ctx := context.Background()

	cl, err := r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	newC3 := wantRebased(t, cl, c3, []plumbing.Hash{c6.Hash})

	cl, err = r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantRebased(t, cl, c4, []plumbing.Hash{newC3.Hash})

	cl, err = r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantRebased(t, cl, c5, []plumbing.Hash{c6.Hash})

	wantDone(t, r)
	if n := len(r.Rebased()); n != 3 {
		t.Fatalf("want 3 rebased entries, got %d", n)
	}
}

// Graph: 1<-2<-3, 1<-2<-4, 2<-(via4)<-5,6; 4<-5, 4<-6, 6<-7. Replacement 2->[6].
func TestRebaseDescendantsForward(t *testing.T) {
	repo := newFakeRepo()
	marker := func(n string) plumbing.Hash { return repo.tree(map[string]string{"marker": n}) }
	c1 := repo.commit(nil, marker("1"))
	c2 := repo.commit([]plumbing.Hash{c1.Hash}, marker("2"))
	c3 := repo.commit([]plumbing.Hash{c2.Hash}, marker("3"))
	c4 := repo.commit([]plumbing.Hash{c2.Hash}, marker("4"))
	c5 := repo.commit([]plumbing.Hash{c4.Hash}, marker("5"))
	c6 := repo.commit([]plumbing.Hash{c4.Hash}, marker("6"))
	c7 := repo.commit([]plumbing.Hash{c6.Hash}, marker("7"))

	r := mustRebaser(t, repo, map[plumbing.Hash][]plumbing.Hash{c2.Hash: {c6.Hash}})
	ctx := context.Background()

	cl, err := r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantRebased(t, cl, c3, []plumbing.Hash{c6.Hash})

	cl, err = r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantAncestor(t, cl, c4)

	cl, err = r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantRebased(t, cl, c5, []plumbing.Hash{c6.Hash})

	cl, err = r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantAncestor(t, cl, c6)

	cl, err = r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantInPlace(t, cl, c7)

	wantDone(t, r)
	if n := len(r.Rebased()); n != 2 {
		t.Fatalf("want 2 rebased entries, got %d", n)
	}
}

// Graph: 1<-2<-3<-4. Replacement 3->[2].
func TestRebaseDescendantsBackward(t *testing.T) {
	repo := newFakeRepo()
	marker := func(n string) plumbing.Hash { return repo.tree(map[string]string{"marker": n}) }
	c1 := repo.commit(nil, marker("1"))
	c2 := repo.commit([]plumbing.Hash{c1.Hash}, marker("2"))
	c3 := repo.commit([]plumbing.Hash{c2.Hash}, marker("3"))
	c4 := repo.commit([]plumbing.Hash{c3.Hash}, marker("4"))

	r := mustRebaser(t, repo, map[plumbing.Hash][]plumbing.Hash{c3.Hash: {c2.Hash}})
	ctx := context.Background()

	cl, err := r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantRebased(t, cl, c4, []plumbing.Hash{c2.Hash})

	wantDone(t, r)
	if n := len(r.Rebased()); n != 1 {
		t.Fatalf("want 1 rebased entry, got %d", n)
	}
}

// Graph: 1<-2,1<-3,1<-4; 5=[2,3]; 6=[5,4]. Replacement 5->[2,3].
func TestRebaseDescendantsWidenMerge(t *testing.T) {
	repo := newFakeRepo()
	marker := func(n string) plumbing.Hash { return repo.tree(map[string]string{"marker": n}) }
	c1 := repo.commit(nil, marker("1"))
	c2 := repo.commit([]plumbing.Hash{c1.Hash}, marker("2"))
	c3 := repo.commit([]plumbing.Hash{c1.Hash}, marker("3"))
	c4 := repo.commit([]plumbing.Hash{c1.Hash}, marker("4"))
	c5 := repo.commit([]plumbing.Hash{c2.Hash, c3.Hash}, marker("5"))
	c6 := repo.commit([]plumbing.Hash{c5.Hash, c4.Hash}, marker("6"))

	r := mustRebaser(t, repo, map[plumbing.Hash][]plumbing.Hash{c5.Hash: {c2.Hash, c3.Hash}})
	ctx := context.Background()

	cl, err := r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantRebased(t, cl, c6, []plumbing.Hash{c2.Hash, c3.Hash, c4.Hash})

	wantDone(t, r)
	if n := len(r.Rebased()); n != 1 {
		t.Fatalf("want 1 rebased entry, got %d", n)
	}
}

// Graph: 1<-2, 1<-3; 4=[2,3]. Replacement 2->[1].
func TestRebaseDescendantsDegenerateMerge(t *testing.T) {
	repo := newFakeRepo()
	marker := func(n string) plumbing.Hash { return repo.tree(map[string]string{"marker": n}) }
	c1 := repo.commit(nil, marker("1"))
	c2 := repo.commit([]plumbing.Hash{c1.Hash}, marker("2"))
	c3 := repo.commit([]plumbing.Hash{c1.Hash}, marker("3"))
	c4 := repo.commit([]plumbing.Hash{c2.Hash, c3.Hash}, marker("4"))

	r := mustRebaser(t, repo, map[plumbing.Hash][]plumbing.Hash{c2.Hash: {c1.Hash}})
	ctx := context.Background()

	cl, err := r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantRebased(t, cl, c4, []plumbing.Hash{c3.Hash})

	wantDone(t, r)
	if n := len(r.Rebased()); n != 1 {
		t.Fatalf("want 1 rebased entry, got %d", n)
	}
}

// Graph: 1<-2<-3<-5(merge w/4), 2<-4. Replacement 2->[6], 6=1<-6.
func TestRebaseDescendantsInternalMerge(t *testing.T) {
	repo := newFakeRepo()
	marker := func(n string) plumbing.Hash { return repo.tree(map[string]string{"marker": n}) }
	c1 := repo.commit(nil, marker("1"))
	c2 := repo.commit([]plumbing.Hash{c1.Hash}, marker("2"))
	c3 := repo.commit([]plumbing.Hash{c2.Hash}, marker("3"))
	c4 := repo.commit([]plumbing.Hash{c2.Hash}, marker("4"))
	c5 := repo.commit([]plumbing.Hash{c3.Hash, c4.Hash}, marker("5"))
	c6 := repo.commit([]plumbing.Hash{c1.Hash}, marker("6"))

	r := mustRebaser(t, repo, map[plumbing.Hash][]plumbing.Hash{c2.Hash: {c6.Hash}})
	ctx := context.Background()

	cl, err := r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	newC3 := wantRebased(t, cl, c3, []plumbing.Hash{c6.Hash})

	cl, err = r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	newC4 := wantRebased(t, cl, c4, []plumbing.Hash{c6.Hash})

	cl, err = r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantRebased(t, cl, c5, []plumbing.Hash{newC3.Hash, newC4.Hash})

	wantDone(t, r)
	if n := len(r.Rebased()); n != 3 {
		t.Fatalf("want 3 rebased entries, got %d", n)
	}
}

// Same graph as the internal-merge case, but 3 (not 2) is replaced, so
// 5's first parent becomes the replacement and its second parent (4)
// is untouched: an "external" merge.
func TestRebaseDescendantsExternalMerge(t *testing.T) {
	repo := newFakeRepo()
	marker := func(n string) plumbing.Hash { return repo.tree(map[string]string{"marker": n}) }
	c1 := repo.commit(nil, marker("1"))
	c2 := repo.commit([]plumbing.Hash{c1.Hash}, marker("2"))
	c3 := repo.commit([]plumbing.Hash{c2.Hash}, marker("3"))
	c4 := repo.commit([]plumbing.Hash{c2.Hash}, marker("4"))
	c5 := repo.commit([]plumbing.Hash{c3.Hash, c4.Hash}, marker("5"))
	c6 := repo.commit([]plumbing.Hash{c1.Hash}, marker("6"))

	r := mustRebaser(t, repo, map[plumbing.Hash][]plumbing.Hash{c3.Hash: {c6.Hash}})
	ctx := context.Background()

	cl, err := r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantRebased(t, cl, c5, []plumbing.Hash{c6.Hash, c4.Hash})

	wantDone(t, r)
	if n := len(r.Rebased()); n != 1 {
		t.Fatalf("want 1 rebased entry, got %d", n)
	}
}

// Graph: 1<-2<-3, 1<-4<-5. Replacements 2->[6] and 4->[6] (both onto a
// fresh sideways commit 6).
func TestRebaseDescendantsMultipleSideways(t *testing.T) {
	repo := newFakeRepo()
	marker := func(n string) plumbing.Hash { return repo.tree(map[string]string{"marker": n}) }
	c1 := repo.commit(nil, marker("1"))
	c2 := repo.commit([]plumbing.Hash{c1.Hash}, marker("2"))
	c3 := repo.commit([]plumbing.Hash{c2.Hash}, marker("3"))
	c4 := repo.commit([]plumbing.Hash{c1.Hash}, marker("4"))
	c5 := repo.commit([]plumbing.Hash{c4.Hash}, marker("5"))
	c6 := repo.commit([]plumbing.Hash{c1.Hash}, marker("6"))

	r := mustRebaser(t, repo, map[plumbing.Hash][]plumbing.Hash{
		c2.Hash: {c6.Hash},
		c4.Hash: {c6.Hash},
	})
	ctx := context.Background()

	cl, err := r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantRebased(t, cl, c3, []plumbing.Hash{c6.Hash})

	cl, err = r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantRebased(t, cl, c5, []plumbing.Hash{c6.Hash})

	wantDone(t, r)
	if n := len(r.Rebased()); n != 2 {
		t.Fatalf("want 2 rebased entries, got %d", n)
	}
}

// Graph: 1<-2<-3, 1<-4<-5. Replacements swap 2<->4.
func TestRebaseDescendantsMultipleSwap(t *testing.T) {
	repo := newFakeRepo()
	marker := func(n string) plumbing.Hash { return repo.tree(map[string]string{"marker": n}) }
	c1 := repo.commit(nil, marker("1"))
	c2 := repo.commit([]plumbing.Hash{c1.Hash}, marker("2"))
	c3 := repo.commit([]plumbing.Hash{c2.Hash}, marker("3"))
	c4 := repo.commit([]plumbing.Hash{c1.Hash}, marker("4"))
	c5 := repo.commit([]plumbing.Hash{c4.Hash}, marker("5"))

	r := mustRebaser(t, repo, map[plumbing.Hash][]plumbing.Hash{
		c2.Hash: {c4.Hash},
		c4.Hash: {c2.Hash},
	})
	ctx := context.Background()

	cl, err := r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantRebased(t, cl, c3, []plumbing.Hash{c4.Hash})

	cl, err = r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantRebased(t, cl, c5, []plumbing.Hash{c2.Hash})

	wantDone(t, r)
	if n := len(r.Rebased()); n != 2 {
		t.Fatalf("want 2 rebased entries, got %d", n)
	}
}

// Graph: 1<-2<-3<-4<-5<-6<-7, 2<-8. Replacements 2->[4] and 6->[3].
func TestRebaseDescendantsMultipleForwardAndBackward(t *testing.T) {
	repo := newFakeRepo()
	marker := func(n string) plumbing.Hash { return repo.tree(map[string]string{"marker": n}) }
	c1 := repo.commit(nil, marker("1"))
	c2 := repo.commit([]plumbing.Hash{c1.Hash}, marker("2"))
	c3 := repo.commit([]plumbing.Hash{c2.Hash}, marker("3"))
	c4 := repo.commit([]plumbing.Hash{c3.Hash}, marker("4"))
	c5 := repo.commit([]plumbing.Hash{c4.Hash}, marker("5"))
	c6 := repo.commit([]plumbing.Hash{c5.Hash}, marker("6"))
	c7 := repo.commit([]plumbing.Hash{c6.Hash}, marker("7"))
	c8 := repo.commit([]plumbing.Hash{c2.Hash}, marker("8"))

	r := mustRebaser(t, repo, map[plumbing.Hash][]plumbing.Hash{
		c2.Hash: {c4.Hash},
		c6.Hash: {c3.Hash},
	})
	ctx := context.Background()

	cl, err := r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantAncestor(t, cl, c3)

	cl, err = r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantAncestor(t, cl, c4)

	cl, err = r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantInPlace(t, cl, c5)

	cl, err = r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantRebased(t, cl, c7, []plumbing.Hash{c3.Hash})

	cl, err = r.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantRebased(t, cl, c8, []plumbing.Hash{c4.Hash})

	wantDone(t, r)
	if n := len(r.Rebased()); n != 2 {
		t.Fatalf("want 2 rebased entries, got %d", n)
	}
}

// Commit 2 was replaced by commit 4. The rebased commit 3 should carry
// 3's own addition (file3) and 4's addition (file4), but not 2's
// addition (file2).
func TestRebaseDescendantsContents(t *testing.T) {
	repo := newFakeRepo()
	c1 := repo.commit(nil, repo.tree(map[string]string{"file1": "content"}))
	c2 := repo.commit([]plumbing.Hash{c1.Hash}, repo.tree(map[string]string{"file2": "content"}))
	c3 := repo.commit([]plumbing.Hash{c2.Hash}, repo.tree(map[string]string{"file3": "content"}))
	c4 := repo.commit([]plumbing.Hash{c1.Hash}, repo.tree(map[string]string{"file4": "content"}))

	r := mustRebaser(t, repo, map[plumbing.Hash][]plumbing.Hash{c2.Hash: {c4.Hash}})
	ctx := context.Background()

	classifications, err := r.RebaseAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(classifications) != 1 {
		t.Fatalf("want 1 classification, got %d", len(classifications))
	}
	rebased := r.Rebased()
	if len(rebased) != 1 {
		t.Fatalf("want 1 rebased entry, got %d", len(rebased))
	}
	newC3Hash, ok := rebased[c3.Hash]
	if !ok {
		t.Fatalf("commit 3 was not rebased")
	}
	newC3, err := repo.GetCommit(ctx, newC3Hash)
	if err != nil {
		t.Fatal(err)
	}
	newTree := repo.trees[newC3.Tree]
	if newTree["file3"] != "content" {
		t.Fatalf("rebased commit 3 lost its own file3 addition")
	}
	if newTree["file4"] != "content" {
		t.Fatalf("rebased commit 3 did not pick up 4's file4 addition")
	}
	if _, ok := newTree["file2"]; ok {
		t.Fatalf("rebased commit 3 still carries 2's file2 addition")
	}
}

func TestRebaserEmptyReplacementMap(t *testing.T) {
	repo := newFakeRepo()
	marker := func(n string) plumbing.Hash { return repo.tree(map[string]string{"marker": n}) }
	repo.commit(nil, marker("1"))

	r := mustRebaser(t, repo, map[plumbing.Hash][]plumbing.Hash{})
	wantDone(t, r)
	if n := len(r.Rebased()); n != 0 {
		t.Fatalf("want 0 rebased entries, got %d", n)
	}
}

func TestRebaserInvalidReplacement(t *testing.T) {
	repo := newFakeRepo()
	c1 := repo.commit(nil, repo.tree(map[string]string{"marker": "1"}))
	_, err := NewRebaser(context.Background(), repo, repo, repo, map[plumbing.Hash][]plumbing.Hash{
		c1.Hash: {},
	})
	if err == nil {
		t.Fatal("want error for empty replacement value list")
	}
}

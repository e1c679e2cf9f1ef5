// Copyright 2018 Sourced Technologies, S.L.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"context"
	"sort"

	"github.com/antgroup/hugescm/modules/merkletrie/noder"
)

// DiffTreeOptions controls how DiffTreeWithOptions walks two trees.
type DiffTreeOptions struct {
	// DetectRenames is accepted for interface compatibility with callers
	// that configure rename detection; this walker does not attempt to
	// pair up deletions and insertions into renames.
	DetectRenames bool
}

// DefaultDiffTreeOptions are the options used by Tree.DiffContext.
var DefaultDiffTreeOptions = &DiffTreeOptions{}

// DiffTreeWithOptions walks the "from" and "to" trees entry by entry and
// returns the changes required to turn "from" into "to". Subtrees whose
// hash is unchanged are not descended into; subtrees whose hash differs
// are recursed into so that only the leaves that actually changed are
// reported.
func DiffTreeWithOptions(ctx context.Context, from, to *Tree, opts *DiffTreeOptions, m noder.Matcher) (Changes, error) {
	var changes Changes
	if err := diffTrees(ctx, "", from, to, m, &changes); err != nil {
		return nil, err
	}
	sort.Sort(changes)
	return changes, nil
}

func treeEntryMap(t *Tree) map[string]*TreeEntry {
	if t == nil {
		return nil
	}
	out := make(map[string]*TreeEntry, len(t.Entries))
	for _, e := range t.Entries {
		out[e.Name] = e
	}
	return out
}

func diffTrees(ctx context.Context, prefix string, from, to *Tree, m noder.Matcher, out *Changes) error {
	fromEntries := treeEntryMap(from)
	toEntries := treeEntryMap(to)

	names := make(map[string]bool, len(fromEntries)+len(toEntries))
	for n := range fromEntries {
		names[n] = true
	}
	for n := range toEntries {
		names[n] = true
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	for _, name := range sorted {
		var sub noder.Matcher
		if m != nil && m.Len() > 0 {
			var ok bool
			if sub, ok = m.Match(name); !ok {
				continue
			}
		}

		fe, fok := fromEntries[name]
		te, tok := toEntries[name]
		full := simpleJoin(prefix, name)

		switch {
		case fok && tok:
			if err := diffEntry(ctx, full, from, fe, to, te, sub, out); err != nil {
				return err
			}
		case fok && !tok:
			if fe.Type() == TreeObject {
				subtree, err := from.dir(ctx, name)
				if err != nil {
					return err
				}
				if err := diffTrees(ctx, full, subtree, nil, sub, out); err != nil {
					return err
				}
				continue
			}
			*out = append(*out, &Change{From: ChangeEntry{Name: full, Tree: from, TreeEntry: *fe}})
		case !fok && tok:
			if te.Type() == TreeObject {
				subtree, err := to.dir(ctx, name)
				if err != nil {
					return err
				}
				if err := diffTrees(ctx, full, nil, subtree, sub, out); err != nil {
					return err
				}
				continue
			}
			*out = append(*out, &Change{To: ChangeEntry{Name: full, Tree: to, TreeEntry: *te}})
		}
	}
	return nil
}

func diffEntry(ctx context.Context, full string, from *Tree, fe *TreeEntry, to *Tree, te *TreeEntry, m noder.Matcher, out *Changes) error {
	fromIsTree := fe.Type() == TreeObject
	toIsTree := te.Type() == TreeObject

	switch {
	case fromIsTree && toIsTree:
		if fe.Hash == te.Hash {
			return nil
		}
		fromSub, err := from.dir(ctx, fe.Name)
		if err != nil {
			return err
		}
		toSub, err := to.dir(ctx, te.Name)
		if err != nil {
			return err
		}
		return diffTrees(ctx, full, fromSub, toSub, m, out)
	case fromIsTree && !toIsTree:
		fromSub, err := from.dir(ctx, fe.Name)
		if err != nil {
			return err
		}
		if err := diffTrees(ctx, full, fromSub, nil, m, out); err != nil {
			return err
		}
		*out = append(*out, &Change{To: ChangeEntry{Name: full, Tree: to, TreeEntry: *te}})
		return nil
	case !fromIsTree && toIsTree:
		toSub, err := to.dir(ctx, te.Name)
		if err != nil {
			return err
		}
		*out = append(*out, &Change{From: ChangeEntry{Name: full, Tree: from, TreeEntry: *fe}})
		return diffTrees(ctx, full, nil, toSub, m, out)
	default:
		if fe.Equal(te) {
			return nil
		}
		*out = append(*out, &Change{
			From: ChangeEntry{Name: full, Tree: from, TreeEntry: *fe},
			To:   ChangeEntry{Name: full, Tree: to, TreeEntry: *te},
		})
		return nil
	}
}

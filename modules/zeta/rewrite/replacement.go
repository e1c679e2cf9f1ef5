// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package rewrite

import (
	"fmt"

	"github.com/antgroup/hugescm/modules/plumbing"
)

// replacementMap is the read-only `old -> [new...]` table supplied at
// construction. It never changes once built.
type replacementMap struct {
	entries map[plumbing.Hash][]plumbing.Hash
	// destinations is every value that appears in any entry, flattened.
	// It is computed once up front because the AncestorOfDestination
	// test needs a fixed target set, not whatever a given call happens
	// to substitute parents into.
	destinations map[plumbing.Hash]bool
}

func newReplacementMap(m map[plumbing.Hash][]plumbing.Hash) (*replacementMap, error) {
	entries := make(map[plumbing.Hash][]plumbing.Hash, len(m))
	destinations := make(map[plumbing.Hash]bool)
	for old, news := range m {
		if len(news) == 0 {
			return nil, fmt.Errorf("%w: %s has no replacement values", ErrInvalidReplacement, old)
		}
		entries[old] = append([]plumbing.Hash(nil), news...)
		for _, n := range news {
			if n == old {
				return nil, fmt.Errorf("%w: %s replaces itself", ErrInvalidReplacement, old)
			}
			destinations[n] = true
		}
	}
	return &replacementMap{entries: entries, destinations: destinations}, nil
}

func (r *replacementMap) keys() []plumbing.Hash {
	out := make([]plumbing.Hash, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	return out
}

// substitute resolves id through exactly one hop of the replacement
// map, or passes it through unchanged if it is not a key.
//
// One hop is the whole contract: a returned value that is itself a
// replacement key is NOT chased here, which is what keeps swap cycles
// like {A->[B], B->[A]} from looping. Further hops happen only when
// the already-rebased map (populated as commits are actually visited,
// see Rebaser.substitute) supplies one; a value that is a replacement
// key but never itself visited as a pending commit stays one hop deep.
func (r *replacementMap) substitute(id plumbing.Hash) []plumbing.Hash {
	if news, ok := r.entries[id]; ok {
		return append([]plumbing.Hash(nil), news...)
	}
	return []plumbing.Hash{id}
}

// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/antgroup/hugescm/modules/plumbing"
	"github.com/antgroup/hugescm/modules/zeta/refs"
	"github.com/antgroup/hugescm/modules/zeta/rewrite"
	"github.com/antgroup/hugescm/pkg/progress"
	"github.com/antgroup/hugescm/pkg/tr"
	"github.com/antgroup/hugescm/pkg/zeta/odb"
)

// RebaseDescendants rewrites every descendant of a replaced commit so
// that the repository's history becomes consistent with the given
// replacements.
type RebaseDescendants struct {
	Replace []string `name:"replace" placeholder:"<old>=<new>[,<new>...]" help:"Declare that <old> is replaced by one or more <new> commits; repeatable"`
}

func parseReplacement(s string) (plumbing.Hash, []plumbing.Hash, error) {
	old, rest, ok := strings.Cut(s, "=")
	if !ok || old == "" || rest == "" {
		return plumbing.Hash{}, nil, fmt.Errorf("bad --replace value %q, want <old>=<new>[,<new>...]", s)
	}
	oldID, err := plumbing.NewHashEx(old)
	if err != nil {
		return plumbing.Hash{}, nil, err
	}
	var news []plumbing.Hash
	for _, n := range strings.Split(rest, ",") {
		id, err := plumbing.NewHashEx(n)
		if err != nil {
			return plumbing.Hash{}, nil, err
		}
		news = append(news, id)
	}
	return oldID, news, nil
}

// findZetaDir walks up from cwd until it finds the repository's
// metadata directory, accepting either the worktree or the .zeta dir
// itself as a starting point.
func findZetaDir(cwd string) (string, error) {
	var err error
	if len(cwd) == 0 {
		if cwd, err = os.Getwd(); err != nil {
			return "", err
		}
	}
	current, err := filepath.Abs(cwd)
	if err != nil {
		return "", err
	}
	for {
		if odb.IsZetaDir(current) {
			return current, nil
		}
		zetaDir := filepath.Join(current, ".zeta")
		if odb.IsZetaDir(zetaDir) {
			return zetaDir, nil
		}
		parent := filepath.Dir(current)
		if current == parent {
			return "", fmt.Errorf("'%s' is not a zeta repository", cwd)
		}
		current = parent
	}
}

// heads collects the tip commit of every reference, the set of
// branches and tags whose descendants a rebase needs to consider.
func heads(zetaDir string) ([]plumbing.Hash, error) {
	db, err := refs.ReferencesDB(zetaDir)
	if err != nil {
		return nil, err
	}
	var out []plumbing.Hash
	for _, r := range db.References() {
		if r.Type() == plumbing.HashReference {
			out = append(out, r.Hash())
		}
	}
	return out, nil
}

func (c *RebaseDescendants) Run(g *Globals) error {
	if len(c.Replace) == 0 {
		diev("at least one --replace=<old>=<new>[,<new>...] is required")
		return ErrArgRequired
	}
	replacements := make(map[plumbing.Hash][]plumbing.Hash, len(c.Replace))
	for _, r := range c.Replace {
		old, news, err := parseReplacement(r)
		if err != nil {
			diev("%v", err)
			return err
		}
		replacements[old] = news
	}

	ctx := context.Background()
	zetaDir, err := findZetaDir(g.CWD)
	if err != nil {
		diev("%v", err)
		return err
	}
	o, err := odb.NewODB(zetaDir)
	if err != nil {
		return err
	}
	defer o.Close() // nolint

	tips, err := heads(zetaDir)
	if err != nil {
		return err
	}

	rebaser, err := odb.NewDescendantRebaser(ctx, o, nil, tips, replacements)
	if err != nil {
		return err
	}

	// the bar and the per-commit debug lines would trample each other
	bar := progress.NewBar(tr.W("Rebasing descendants"), rebaser.Pending(), g.Verbose)
	for {
		cl, err := rebaser.Next(ctx)
		if err != nil {
			bar.Exit()
			return err
		}
		if cl.Kind == rewrite.None {
			break
		}
		bar.Add(1)
		switch cl.Kind {
		case rewrite.Rebased:
			g.DbgPrint("rebased %s -> %s", cl.Old.Hash.Prefix(), cl.New.Hash.Prefix())
		case rewrite.AncestorOfDestination:
			g.DbgPrint("%s is an ancestor of a replacement destination, left unchanged", cl.Old.Hash.Prefix())
		case rewrite.AlreadyInPlace:
			g.DbgPrint("%s is already in place, left unchanged", cl.Old.Hash.Prefix())
		}
	}
	bar.Finish()
	fmt.Fprintf(os.Stderr, tr.W("rebased %d commits\n"), len(rebaser.Rebased()))
	return nil
}

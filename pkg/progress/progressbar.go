// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/antgroup/hugescm/modules/plumbing"
	"github.com/antgroup/hugescm/modules/term"
	"github.com/antgroup/hugescm/pkg/tr"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

var (
	blueColorMap = map[term.Level]string{
		term.Level256: "\x1b[36m",
		term.Level16M: "\x1b[38;2;72;198;239m",
	}
	endColorMap = map[term.Level]string{
		term.Level256: "\x1b[0m",
		term.Level16M: "\x1b[0m",
	}
)

type Bar struct {
	p     *mpb.Progress
	bar   *mpb.Bar
	total int
}

func makeBarStyle() mpb.BarStyleComposer {
	switch term.StderrLevel {
	case term.Level256:
		return mpb.BarStyle().Lbound("[").Rbound("]").
			Filler("\x1b[36m#\x1b[0m").Tip("\x1b[36m>\x1b[0m").Padding(" ")
	case term.Level16M:
		return mpb.BarStyle().Lbound("[").Rbound("]").
			Filler("\x1b[38;2;45;203;254m#\x1b[0m").Tip("\x1b[38;2;45;203;254m>\x1b[0m").Padding(" ")
	default:
	}
	return mpb.BarStyle().Lbound("[").Rbound("]").Filler("#").Tip(">").Padding(" ")
}

func wrapDescription(description string) string {
	if term.StderrLevel != term.LevelNone {
		return fmt.Sprintf("\x1b[0m%s...", description)
	}
	return description + "..."
}

func NewBar(description string, total int, quiet bool) *Bar {
	if quiet {
		return &Bar{}
	}
	description = wrapDescription(description)
	p := mpb.New(
		mpb.WithOutput(os.Stderr),
		mpb.WithAutoRefresh(),
	)
	bar := p.New(int64(total),
		makeBarStyle(),
		mpb.PrependDecorators(
			decor.Name(description, decor.WC{W: len(description) + 1, C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WCSyncSpace),
		),
	)
	return &Bar{p: p, bar: bar, total: total}
}

func NewUnknownBar(description string, quiet bool) *Bar {
	if quiet {
		return &Bar{}
	}
	p := mpb.New(
		mpb.WithOutput(os.Stderr),
		mpb.WithAutoRefresh(),
	)
	bar := p.New(-1,
		mpb.SpinnerStyle(selectedSpinner...),
		mpb.PrependDecorators(
			decor.Name(description, decor.WC{W: len(description) + 1, C: decor.DindentRight}),
			decor.Current(decor.SizeB1024(0), "% .2f", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.AverageSpeed(decor.SizeB1024(0), "% .2f", decor.WCSyncSpace),
		),
	)
	return &Bar{p: p, bar: bar}
}

func (b *Bar) NewTeeReader(r io.Reader) io.Reader {
	if b.bar == nil {
		return r
	}
	return b.bar.ProxyReader(r)
}

func (b *Bar) Add(n int) {
	if b.bar != nil {
		b.bar.IncrBy(n)
	}
}

func (b *Bar) Finish() {
	if b.bar == nil {
		return
	}
	b.bar.EnableTriggerComplete()
	b.bar.SetTotal(-1, true)
	b.p.Wait()
	fmt.Fprintf(os.Stderr, "%s\n", endColorMap[term.StderrLevel])
}

func (b *Bar) Exit() {
	if b.bar == nil {
		return
	}
	b.bar.Abort(true)
	b.p.Wait()
}

func makeSingleBarDesc(oid plumbing.Hash, round int) string {
	if round == 0 {
		return fmt.Sprintf("%s %s ...", tr.W("Downloading"), oid.String()[:8])
	}
	if term.StderrLevel == term.LevelNone {
		return fmt.Sprintf("%s %s %s ...", tr.W("Downloading"), oid.String()[:8], tr.W("retrying"))
	}
	return fmt.Sprintf("%s %s [\x1b[33m%s\x1b[0m] ...", tr.W("Downloading"), oid.String()[:8], tr.W("retrying"))
}

func NewSingleBar(r io.Reader, total int64, current int64, oid plumbing.Hash, round int) (io.Reader, io.Closer) {
	task := makeSingleBarDesc(oid, round)
	p := mpb.New(
		mpb.WithOutput(os.Stderr),
		mpb.WithAutoRefresh(),
	)
	bar := p.New(total,
		makeBarStyle(),
		mpb.PrependDecorators(
			decor.Name(task, decor.WC{W: len(task) + 1, C: decor.DindentRight}),
			decor.Total(decor.SizeB1024(0), "% .2f", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.EwmaSpeed(decor.SizeB1024(0), "% .2f ", 90),
			decor.OnComplete(decor.EwmaETA(decor.ET_STYLE_GO, 30), "done"),
		),
	)
	bar.SetCurrent(current)
	rc := bar.ProxyReader(r)
	return rc, rc
}

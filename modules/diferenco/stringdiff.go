package diferenco

import (
	"context"
	"strings"
	"unicode"
)

func stringDiffs(changes []Change, join1, join2 func(lo, hi int) string, n1 int) []StringDiff {
	sd := make([]StringDiff, 0, len(changes)*2+1)
	emit := func(t Operation, text string) {
		if len(text) == 0 {
			return
		}
		if len(sd) != 0 && sd[len(sd)-1].Type == t {
			sd[len(sd)-1].Text += text
			return
		}
		sd = append(sd, StringDiff{Type: t, Text: text})
	}
	p1 := 0
	for _, ch := range changes {
		emit(Equal, join1(p1, ch.P1))
		emit(Delete, join1(ch.P1, ch.P1+ch.Del))
		emit(Insert, join2(ch.P2, ch.P2+ch.Ins))
		p1 = ch.P1 + ch.Del
	}
	emit(Equal, join1(p1, n1))
	return sd
}

// DiffRunes diffs two strings rune by rune and stitches the result back
// into alternating equal/delete/insert text runs.
func DiffRunes(ctx context.Context, s1, s2 string, algo Algorithm) ([]StringDiff, error) {
	r1, r2 := []rune(s1), []rune(s2)
	changes, err := diffInternal(ctx, r1, r2, algo)
	if err != nil {
		return nil, err
	}
	join1 := func(lo, hi int) string { return string(r1[lo:hi]) }
	join2 := func(lo, hi int) string { return string(r2[lo:hi]) }
	return stringDiffs(changes, join1, join2, len(r1)), nil
}

// splitTokens splits s into maximal runs of delimiter and non-delimiter
// runes, so that concatenating the tokens reproduces s exactly.
func splitTokens(s string, isDelim func(rune) bool) []string {
	var tokens []string
	var b strings.Builder
	var inDelim bool
	for _, r := range s {
		d := isDelim(r)
		if b.Len() != 0 && d != inDelim {
			tokens = append(tokens, b.String())
			b.Reset()
		}
		inDelim = d
		b.WriteRune(r)
	}
	if b.Len() != 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}

// DiffWords diffs two strings token by token. isDelim decides which
// runes separate words; nil means Unicode whitespace. Delimiter runs
// are tokens too, so the output runs concatenate back to the inputs.
func DiffWords(ctx context.Context, s1, s2 string, algo Algorithm, isDelim func(rune) bool) ([]StringDiff, error) {
	if isDelim == nil {
		isDelim = unicode.IsSpace
	}
	w1, w2 := splitTokens(s1, isDelim), splitTokens(s2, isDelim)
	changes, err := diffInternal(ctx, w1, w2, algo)
	if err != nil {
		return nil, err
	}
	join1 := func(lo, hi int) string { return strings.Join(w1[lo:hi], "") }
	join2 := func(lo, hi int) string { return strings.Join(w2[lo:hi], "") }
	return stringDiffs(changes, join1, join2, len(w1)), nil
}

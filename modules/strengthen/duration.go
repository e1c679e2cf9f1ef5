// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package strengthen

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// validDurationByte marks every byte that may appear in a duration
// string: digits, the decimal point, a leading sign, and the unit
// letters (including the two UTF-8 bytes of 'µ').
var validDurationByte = func() (t [256]byte) {
	for _, c := range []byte("0123456789.+-nsumhdw") {
		t[c] = 1
	}
	t[0xC2] = 1 // first byte of 'µ'
	t[0xB5] = 1 // second byte of 'µ'
	return t
}()

var durationUnits = map[string]time.Duration{
	"ns": time.Nanosecond,
	"us": time.Microsecond,
	"µs": time.Microsecond,
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
	"d":  24 * time.Hour,
	"w":  7 * 24 * time.Hour,
}

// ParseDuration parses a duration string the way time.ParseDuration
// does, additionally accepting "d" (days) and "w" (weeks) units, as
// expiry settings are commonly written in days.
func ParseDuration(s string) (time.Duration, error) {
	orig := s
	for i := 0; i < len(s); i++ {
		if validDurationByte[s[i]] != 1 {
			return 0, fmt.Errorf("invalid duration '%s': bad character %q", orig, s[i])
		}
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	if s == "0" {
		return 0, nil
	}
	if len(s) == 0 {
		return 0, fmt.Errorf("invalid duration '%s'", orig)
	}
	var total time.Duration
	for len(s) != 0 {
		i := 0
		for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
			i++
		}
		if i == 0 {
			return 0, fmt.Errorf("invalid duration '%s': missing value", orig)
		}
		v, err := strconv.ParseFloat(s[:i], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration '%s': %w", orig, err)
		}
		s = s[i:]
		j := 0
		for j < len(s) && !(s[j] >= '0' && s[j] <= '9' || s[j] == '.') {
			j++
		}
		unit, ok := durationUnits[s[:j]]
		if !ok {
			return 0, fmt.Errorf("invalid duration '%s': unknown unit '%s'", orig, s[:j])
		}
		s = s[j:]
		total += time.Duration(v * float64(unit))
	}
	if neg {
		return -total, nil
	}
	return total, nil
}

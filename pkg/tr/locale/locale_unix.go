// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

//go:build !windows

package locale

import (
	"os"

	"golang.org/x/text/language"
)

// Detect resolves the display language from the POSIX locale
// environment, honoring the usual LC_ALL > LC_MESSAGES > LANG override
// order.
func Detect() (language.Tag, error) {
	for _, k := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if lang := os.Getenv(k); len(lang) != 0 {
			return parse(lang)
		}
	}
	return language.AmericanEnglish, nil
}

// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package locale detects the user's preferred display language.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// normalize turns a POSIX locale name like "zh_CN.UTF-8" into a BCP 47
// tag string like "zh-CN".
func normalize(lang string) string {
	if i := strings.IndexAny(lang, ".@"); i != -1 {
		lang = lang[:i]
	}
	return strings.ReplaceAll(lang, "_", "-")
}

func parse(lang string) (language.Tag, error) {
	switch strings.ToLower(lang) {
	case "", "c", "posix":
		return language.AmericanEnglish, nil
	}
	return language.Parse(normalize(lang))
}

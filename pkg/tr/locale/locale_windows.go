// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package locale

import (
	"os"

	"golang.org/x/sys/windows/registry"
	"golang.org/x/text/language"
)

// Detect resolves the display language: environment overrides first, so
// MSYS and Cygwin shells behave like Unix, then the user's configured
// Windows locale.
func Detect() (language.Tag, error) {
	for _, k := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if lang := os.Getenv(k); len(lang) != 0 {
			return parse(lang)
		}
	}
	k, err := registry.OpenKey(registry.CURRENT_USER, `Control Panel\International`, registry.QUERY_VALUE)
	if err != nil {
		return language.AmericanEnglish, nil
	}
	defer k.Close() // nolint
	if localeName, _, err := k.GetStringValue("LocaleName"); err == nil && len(localeName) != 0 {
		return parse(localeName)
	}
	return language.AmericanEnglish, nil
}

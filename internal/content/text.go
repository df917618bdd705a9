// Copyright (c) 2026 Companedia
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"strings"
)

// CollapseDuplicatedText repairs a text field whose second half repeats its
// first half, a known defect from upstream generation runs that appended
// their output to the original. The check splits on paragraph boundaries:
// an even paragraph count whose halves match case-insensitively collapses to
// the first half. Anything else is returned unchanged.
func CollapseDuplicatedText(s string) (string, bool) {
	paragraphs := splitParagraphs(s)
	n := len(paragraphs)
	if n < 2 || n%2 != 0 {
		return s, false
	}

	half := n / 2
	for i := 0; i < half; i++ {
		a := strings.ToLower(strings.TrimSpace(paragraphs[i]))
		b := strings.ToLower(strings.TrimSpace(paragraphs[half+i]))
		if a != b {
			return s, false
		}
	}

	return strings.Join(paragraphs[:half], "\n\n"), true
}

// splitParagraphs splits on blank lines, dropping empty segments so that
// trailing newlines don't skew the halving check.
func splitParagraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n") {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// SPDX-License-Identifier: MIT

// Package strutil holds small string helpers shared by the CLI layer.
package strutil

import "strings"

// SplitCSV splits a comma-separated value, trimming whitespace and dropping
// empty elements. Returns nil for an input with no usable elements.
func SplitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

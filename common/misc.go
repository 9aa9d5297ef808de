/*
Copyright 2022 Lee R. Boynton

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package common

import (
	"strings"
)

// FormatComment wraps the comment text at maxcol, prefixing every line with indent+prefix.
// Explicit newlines in the comment are kept.
func FormatComment(indent, prefix, comment string, maxcol int, extraPad bool) string {
	var b strings.Builder
	emptyPrefix := strings.TrimRight(prefix, " ")
	if extraPad {
		b.WriteString(indent + emptyPrefix + "\n")
	}
	width := maxcol - len(indent) - len(prefix)
	for _, para := range strings.Split(TrimSpace(comment), "\n") {
		line := ""
		for _, tok := range strings.Fields(para) {
			if line != "" && len(line)+1+len(tok) > width {
				b.WriteString(indent + prefix + line + "\n")
				line = ""
			}
			if line == "" {
				line = tok
			} else {
				line += " " + tok
			}
		}
		if line == "" {
			b.WriteString(indent + emptyPrefix + "\n")
		} else {
			b.WriteString(indent + prefix + line + "\n")
		}
	}
	if extraPad {
		b.WriteString(indent + emptyPrefix + "\n")
	}
	return b.String()
}

func TrimSpace(s string) string {
	return strings.Trim(s, " \t\n\v\f\r")
}

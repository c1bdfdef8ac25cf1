// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package translate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var protoNameReplacer = strings.NewReplacer(
	".", "_",
	"`", "_",
	"<", "_",
	">", "_",
	"/", "_",
)

// ProtoName returns the assembly function name of a method.
func ProtoName(owner, method string) string {
	return protoNameReplacer.Replace(owner + "__" + method)
}

// TypeConstructorName returns the assembly function name
// of the function that builds a class's method table.
func TypeConstructorName(class string) string {
	return protoNameReplacer.Replace(class)
}

// accessorField returns the field name an accessor method
// such as "getCount", "setCount" or "isReady" reads or writes.
func accessorField(method string) (prefix, field string, ok bool) {
	for _, prefix := range []string{"get", "set", "is"} {
		rest, found := strings.CutPrefix(method, prefix)
		if !found || rest == "" {
			continue
		}
		c, size := utf8.DecodeRuneInString(rest)
		return prefix, string(unicode.ToLower(c)) + rest[size:], true
	}
	return "", "", false
}

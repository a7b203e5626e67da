// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package formatutil renders strings for terminal output: ANSI styling that
// degrades to plain text when standard output is not a terminal, and
// sanitization of strings that may carry escape sequences.
package formatutil

import (
	"fmt"

	"golang.org/x/term"
)

var (
	// Bold marks section headers.
	Bold = Color("\033[1m%s\033[0m")
	// Red marks findings.
	Red = Color("\033[1;31m%s\033[0m")
	// Yellow marks warnings.
	Yellow = Color("\033[1;33m%s\033[0m")
)

// Color returns a formatter wrapping its arguments in the given ANSI format
// string on a terminal and passing them through unchanged otherwise.
func Color(wrap string) func(...any) string {
	return func(args ...any) string {
		s := fmt.Sprint(args...)
		if !term.IsTerminal(1) {
			return s
		}
		return fmt.Sprintf(wrap, s)
	}
}

// Sanitize quotes away any escape sequences in s.
func Sanitize(s string) string {
	r := fmt.Sprintf("%q", s)
	if len(r) >= 2 {
		return r[1 : len(r)-1]
	}
	return r
}

// SanitizeRepr sanitizes the string representation of an object.
func SanitizeRepr(s fmt.Stringer) string {
	return Sanitize(s.String())
}

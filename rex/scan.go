// Copyright 2023 Sneller, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

// Package rex rewrites the textual row-expression
// dialect emitted by the relational planner into
// the canonical prefix form consumed by the
// execution layer, and splits canonical text
// into operand and operator tokens.
//
// Every scanner in this package treats text
// between single quotes as an opaque literal;
// a doubled quote inside a literal is an
// escaped quote and does not end it.
package rex

import (
	"strings"
)

// skipQuote returns the index just past the
// literal that opens at text[i], or -1 if
// the literal is never closed.
func skipQuote(text string, i int) int {
	for j := i + 1; j < len(text); j++ {
		if text[j] != '\'' {
			continue
		}
		if j+1 < len(text) && text[j+1] == '\'' {
			j++
			continue
		}
		return j + 1
	}
	return -1
}

func isIdent(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func hasPrefix(s, prefix string, fold bool) bool {
	if len(s) < len(prefix) {
		return false
	}
	if fold {
		return strings.EqualFold(s[:len(prefix)], prefix)
	}
	return s[:len(prefix)] == prefix
}

// index returns the position of the first
// occurrence of word in s at or after from
// that lies outside quoted literals and, when
// word begins with an identifier character,
// does not continue a longer identifier.
// The fold flag selects case-insensitive
// matching. from must not point into a literal.
func index(s, word string, from int, fold bool) int {
	boundary := isIdent(word[0])
	for i := from; i+len(word) <= len(s); i++ {
		if s[i] == '\'' {
			end := skipQuote(s, i)
			if end < 0 {
				return -1
			}
			i = end - 1
			continue
		}
		if boundary && i > 0 && isIdent(s[i-1]) {
			continue
		}
		if hasPrefix(s[i:], word, fold) {
			return i
		}
	}
	return -1
}

// MatchingClose returns the index of the bracket
// that closes the '(' or '[' at text[open].
// Only brackets of the same kind are counted and
// brackets inside quoted literals are ignored.
// It returns false if text[open] is not an opening
// bracket or the bracket is never closed.
func MatchingClose(text string, open int) (int, bool) {
	if open < 0 || open >= len(text) {
		return -1, false
	}
	opener := text[open]
	var closer byte
	switch opener {
	case '(':
		closer = ')'
	case '[':
		closer = ']'
	default:
		return -1, false
	}
	depth := 1
	for i := open + 1; i < len(text); i++ {
		switch text[i] {
		case '\'':
			end := skipQuote(text, i)
			if end < 0 {
				return -1, false
			}
			i = end - 1
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return -1, false
}

// SplitList rewrites text with Rewrite and then
// splits it at every comma that is not nested
// inside brackets or a quoted literal. When trim
// is set each element is stripped of surrounding
// whitespace. A trailing element is produced only
// when the text does not end at a separator.
func SplitList(text string, trim bool) []string {
	return splitList(Rewrite(text), trim)
}

func splitList(text string, trim bool) []string {
	var out []string
	emit := func(s string) {
		if trim {
			s = strings.TrimSpace(s)
		}
		out = append(out, s)
	}
	paren, square, start := 0, 0, 0
scan:
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\'':
			end := skipQuote(text, i)
			if end < 0 {
				break scan
			}
			i = end - 1
		case '(':
			paren++
		case ')':
			paren--
		case '[':
			square++
		case ']':
			square--
		case ',':
			if paren == 0 && square == 0 {
				emit(text[start:i])
				start = i + 1
			}
		}
	}
	if start < len(text) {
		emit(text[start:])
	}
	return out
}

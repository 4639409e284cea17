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

package rex

import (
	"strings"
)

// planner spellings that map one-to-one
// onto engine operator names
var dialect = strings.NewReplacer(
	"IS NOT NULL", "IS_NOT_NULL",
	"IS NULL", "IS_NULL",
	" NOT NULL", "",
	"EXTRACT(FLAG(YEAR), ", "BL_YEAR(",
	"EXTRACT(FLAG(MONTH), ", "BL_MONTH(",
	"EXTRACT(FLAG(DAY), ", "BL_DAY(",
	"EXTRACT(FLAG(HOUR), ", "BL_HOUR(",
	"EXTRACT(FLAG(MINUTE), ", "BL_MINUTE(",
	"EXTRACT(FLAG(SECOND), ", "BL_SECOND(",
	"/INT(", "/(",
)

// Rewrite applies the context-free part of
// normalization: it collapses COUNT(DISTINCT x),
// strips type annotations the planner attaches
// to literals and type names, and renames the
// planner's null-check, extraction, floor and
// integer-division spellings. Text inside quoted
// literals is never rewritten.
//
// Rewrite(Rewrite(s)) == Rewrite(s) for every s.
func Rewrite(s string) string {
	s = countDistinct(s)
	return mapUnquoted(s, func(seg string, afterQuote bool) string {
		seg = stripCollation(seg)
		seg = stripPrecision(seg)
		seg = stripAnnotations(seg)
		if afterQuote && hasPrefix(seg, ":VARCHAR", true) {
			seg = seg[len(":VARCHAR"):]
		}
		seg = dialect.Replace(seg)
		return replaceWord(seg, "FLOOR(", "BL_FLOOR(")
	})
}

// Normalize rewrites a planner expression into
// canonical operator syntax. On top of Rewrite it
// turns CAST(x):TYPE into CAST_TYPE(x) and the
// single-operand -(x) into NEGATE(x). A CASE with
// an ELSE branch becomes a chain of MAGIC_IF_NOT
// and FIRST_NON_MAGIC:
//
//	CASE(c, a, b) -> FIRST_NON_MAGIC(MAGIC_IF_NOT(c, a), b)
//	CASE(c1, a1, c2, a2, b) -> FIRST_NON_MAGIC(MAGIC_IF_NOT(c1, a1), FIRST_NON_MAGIC(MAGIC_IF_NOT(c2, a2), b))
//
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(s string) string {
	return caseWhen(negate(collapseCasts(Rewrite(s))))
}

// mapUnquoted calls f on every run of s that is
// not inside a quoted literal and splices the
// results back together. afterQuote reports
// whether the run immediately follows a literal.
func mapUnquoted(s string, f func(seg string, afterQuote bool) string) string {
	var b strings.Builder
	b.Grow(len(s))
	start, after := 0, false
	for i := 0; i < len(s); {
		if s[i] != '\'' {
			i++
			continue
		}
		b.WriteString(f(s[start:i], after))
		end := skipQuote(s, i)
		if end < 0 {
			end = len(s)
		}
		b.WriteString(s[i:end])
		i, start, after = end, end, true
	}
	b.WriteString(f(s[start:], after))
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// digits returns the length of the run
// of decimal digits at the start of s
func digits(s string) int {
	n := 0
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	return n
}

func indexFold(s, sub string, from int) int {
	for i := from; i+len(sub) <= len(s); i++ {
		if hasPrefix(s[i:], sub, true) {
			return i
		}
	}
	return -1
}

func replaceWord(s, word, with string) string {
	for from := 0; ; {
		i := index(s, word, from, false)
		if i < 0 {
			return s
		}
		s = s[:i] + with + s[i+len(word):]
		from = i + len(with)
	}
}

func countDistinct(s string) string {
	const prefix = "COUNT(DISTINCT "
	for from := 0; ; {
		i := index(s, prefix, from, true)
		if i < 0 {
			return s
		}
		open := i + len("COUNT")
		end, ok := MatchingClose(s, open)
		if !ok {
			return s
		}
		s = s[:i] + "COUNT_DISTINCT(" + s[i+len(prefix):end] + s[end:]
		from = i + len("COUNT_DISTINCT(")
	}
}

// stripCollation removes
//
//	[(n)] CHARACTER SET "..." COLLATE "..."
func stripCollation(s string) string {
	const charset, collate = ` CHARACTER SET "`, ` COLLATE "`
	for from := 0; ; {
		i := indexFold(s, charset, from)
		if i < 0 {
			return s
		}
		j := i + len(charset)
		k := strings.IndexByte(s[j:], '"')
		if k < 0 || !hasPrefix(s[j+k+1:], collate, true) {
			from = i + 1
			continue
		}
		j += k + 1 + len(collate)
		k = strings.IndexByte(s[j:], '"')
		if k < 0 {
			from = i + 1
			continue
		}
		end := j + k + 1
		start := i
		if start > 0 && s[start-1] == ')' {
			p := strings.LastIndexByte(s[:start-1], '(')
			if p >= 0 && p+1 < start-1 && digits(s[p+1:start-1]) == start-1-(p+1) {
				start = p
			}
		}
		s = s[:start] + s[end:]
		from = start
	}
}

// stripPrecision turns TIMESTAMP(n) into TIMESTAMP
func stripPrecision(s string) string {
	const word = "TIMESTAMP("
	for from := 0; ; {
		i := index(s, word, from, true)
		if i < 0 {
			return s
		}
		j := i + len(word)
		n := digits(s[j:])
		if n > 0 && j+n < len(s) && s[j+n] == ')' {
			s = s[:j-1] + s[j+n+1:]
		}
		from = j - 1
	}
}

var numericAnnotations = []string{"INTEGER", "BIGINT", "FLOAT", "DOUBLE"}

// annotation returns the length of the numeric
// type annotation at the start of s, or zero
func annotation(s string) int {
	for _, kw := range numericAnnotations {
		if hasPrefix(s, kw, true) && (len(s) == len(kw) || !isIdent(s[len(kw)])) {
			return len(kw)
		}
	}
	const decimal = "DECIMAL("
	if !hasPrefix(s, decimal, true) {
		return 0
	}
	i := len(decimal)
	n := digits(s[i:])
	if n == 0 {
		return 0
	}
	i += n
	if i >= len(s) || s[i] != ',' {
		return 0
	}
	i++
	if i < len(s) && s[i] == ' ' {
		i++
	}
	n = digits(s[i:])
	if n == 0 || i+n >= len(s) || s[i+n] != ')' {
		return 0
	}
	return i + n + 1
}

// stripAnnotations removes the :TYPE suffix
// from numeric literals and from null
func stripAnnotations(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] != ':' {
			continue
		}
		literal := i > 0 && isDigit(s[i-1])
		if !literal && i >= 4 && strings.EqualFold(s[i-4:i], "null") {
			literal = i == 4 || !isIdent(s[i-5])
		}
		if !literal {
			continue
		}
		if n := annotation(s[i+1:]); n > 0 {
			s = s[:i] + s[i+1+n:]
		}
	}
	return s
}

// cast targets, in match order
var castTargets = []struct {
	spelling, name string
}{
	{"INTEGER", "INTEGER"},
	{"INT", "INTEGER"},
	{"BIGINT", "BIGINT"},
	{"FLOAT", "FLOAT"},
	{"REAL", "FLOAT"},
	{"DOUBLE", "DOUBLE"},
	{"DATE", "DATE"},
	{"TIMESTAMP", "TIMESTAMP"},
	{"VARCHAR", "VARCHAR"},
	{"CHAR", "VARCHAR"},
}

// castTarget parses ":TYPE[(n[, m])]" at the
// start of s and returns the canonical type
// name and the number of bytes consumed
func castTarget(s string) (string, int) {
	if len(s) == 0 || s[0] != ':' {
		return "", 0
	}
	rest := s[1:]
	for _, t := range castTargets {
		kw := t.spelling
		if !hasPrefix(rest, kw, true) || (len(rest) > len(kw) && isIdent(rest[len(kw)])) {
			continue
		}
		n := 1 + len(kw)
		if n < len(s) && s[n] == '(' {
			if end, ok := MatchingClose(s, n); ok {
				n = end + 1
			}
		}
		return t.name, n
	}
	return "", 0
}

func collapseCasts(s string) string {
	for from := 0; ; {
		i := index(s, "CAST(", from, true)
		if i < 0 {
			return s
		}
		open := i + len("CAST")
		end, ok := MatchingClose(s, open)
		if !ok {
			return s
		}
		name, n := castTarget(s[end+1:])
		if n == 0 {
			from = open + 1
			continue
		}
		head := "CAST_" + name + "("
		s = s[:i] + head + s[open+1:end] + ")" + s[end+1+n:]
		from = i + len(head)
	}
}

func negate(s string) string {
	for from := 0; ; {
		i := index(s, "-(", from, false)
		if i < 0 {
			return s
		}
		if i > 0 && isIdent(s[i-1]) {
			from = i + 1
			continue
		}
		end, ok := MatchingClose(s, i+1)
		if !ok {
			return s
		}
		if len(splitList(s[i+2:end], false)) != 1 {
			from = i + 2
			continue
		}
		s = s[:i] + "NEGATE(" + s[i+2:]
		from = i + len("NEGATE(")
	}
}

// whenChain folds the arguments of CASE, which
// alternate condition and value and end with the
// ELSE value, into nested FIRST_NON_MAGIC calls
func whenChain(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return "FIRST_NON_MAGIC(MAGIC_IF_NOT(" + args[0] + ", " + args[1] + "), " + whenChain(args[2:]) + ")"
}

func caseWhen(s string) string {
	for from := 0; ; {
		i := index(s, "CASE(", from, true)
		if i < 0 {
			return s
		}
		open := i + len("CASE")
		end, ok := MatchingClose(s, open)
		if !ok {
			return s
		}
		args := splitList(s[open+1:end], true)
		if len(args) < 3 || len(args)%2 == 0 {
			from = open + 1
			continue
		}
		s = s[:i] + whenChain(args) + s[end+1:]
		from = i
	}
}

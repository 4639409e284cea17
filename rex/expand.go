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
	"fmt"
	"strings"
)

// SyntaxError is returned when an expression
// is structurally malformed.
type SyntaxError struct {
	Expr string // the text being scanned
	Pos  int    // byte offset of the offending character
	Msg  string
}

func (s *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d in %q: %s", s.Pos, s.Expr, s.Msg)
}

func errsyntaxf(expr string, pos int, f string, args ...any) *SyntaxError {
	return &SyntaxError{Expr: expr, Pos: pos, Msg: fmt.Sprintf(f, args...)}
}

// nextLogical returns the position and name of
// the earliest AND( or OR( call at or after from
func nextLogical(s string, from int) (int, string) {
	and := index(s, "AND(", from, false)
	or := index(s, "OR(", from, false)
	switch {
	case and < 0 && or < 0:
		return -1, ""
	case or < 0 || (and >= 0 && and < or):
		return and, "AND"
	default:
		return or, "OR"
	}
}

// Expand rewrites every variadic AND(...) and
// OR(...) call in s into right-nested binary
// calls, so that AND(a, b, c, d) becomes
// AND(a, AND(b, AND(c, d))). Calls that already
// have two operands, and the arguments of every
// other function, are left as they are.
//
// The arguments of a call are split with SplitList,
// so they are rewritten as a side effect.
func Expand(s string) (string, error) {
	for from := 0; ; {
		at, op := nextLogical(s, from)
		if at < 0 {
			return s, nil
		}
		open := at + len(op)
		end, ok := MatchingClose(s, open)
		if !ok {
			return "", errsyntaxf(s, open, "unmatched '(' in %s call", op)
		}
		args := SplitList(s[open+1:end], false)
		if len(args) < 3 {
			from = open + 1
			continue
		}
		s = s[:at] + fold(op, args) + s[end+1:]
		from = open + 1
	}
}

// fold builds OP(a0, OP(a1, ... OP(an-2, an-1)))
func fold(op string, args []string) string {
	var b strings.Builder
	for i := 0; i < len(args)-1; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(op)
		b.WriteByte('(')
		b.WriteString(strings.TrimSpace(args[i]))
	}
	b.WriteString(", ")
	b.WriteString(strings.TrimSpace(args[len(args)-1]))
	b.WriteString(strings.Repeat(")", len(args)-1))
	return b.String()
}

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
	"strconv"
	"strings"

	"github.com/SnellerInc/rexpr/date"
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slices"
)

// Flatten turns canonical prefix text into a
// whitespace-separated stream: outside quoted
// literals every '(' becomes a space and every
// ',' and ')' is dropped.
func Flatten(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'':
			end := skipQuote(s, i)
			if end < 0 {
				end = len(s)
			}
			b.WriteString(s[i:end])
			i = end - 1
		case '(':
			b.WriteByte(' ')
		case ',', ')':
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Clean runs the whole text pipeline:
// Normalize, then Expand, then Flatten.
func Clean(s string) (string, error) {
	exp, err := Expand(Normalize(s))
	if err != nil {
		return "", err
	}
	return Flatten(exp), nil
}

func space(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// fields splits s at whitespace outside
// quoted literals, dropping empty fields
func fields(s string) []string {
	var out []string
	start := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		if space(c) {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
		if c == '\'' {
			end := skipQuote(s, i)
			if end < 0 {
				end = len(s)
			}
			i = end - 1
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

// Tokenize splits flattened text into tokens
// and returns them in reverse order, so that a
// left-to-right walk visits operands before
// the operator that consumes them.
func Tokenize(flat string) []string {
	toks := fields(flat)
	for i, j := 0, len(toks)-1; i < j; i, j = i+1, j-1 {
		toks[i], toks[j] = toks[j], toks[i]
	}
	return toks
}

func unquote(tok string) (string, bool) {
	if len(tok) >= 2 && tok[0] == '\'' && tok[len(tok)-1] == '\'' {
		return tok[1 : len(tok)-1], true
	}
	return tok, false
}

// RepairTimestamps fixes timestamp literals in a
// reversed token stream. It is a no-op unless
// hasTimestamp is set, which callers derive from
// whether any input column is a timestamp.
//
// A quoted token that is a timestamp once unquoted
// loses its quotes. A date token (optionally opening
// a quote) at position i followed in the reversed
// stream by a clock token (optionally closing the
// quote) at position i-1 is merged into a single
// "<date> <clock>" token at i-1. A quote pair that
// the merge closes is dropped.
//
// The returned slice does not alias tokens.
func RepairTimestamps(tokens []string, hasTimestamp bool) []string {
	out := slices.Clone(tokens)
	if !hasTimestamp {
		return out
	}
	for i, tok := range out {
		if inner, ok := unquote(tok); ok && IsTimestamp(inner) {
			out[i] = inner
		}
	}
	for i := 1; i < len(out); {
		day, open := strings.CutPrefix(out[i], "'")
		clock, closed := strings.CutSuffix(out[i-1], "'")
		if open != closed || !IsDate(day) || !IsHour(clock) {
			i++
			continue
		}
		out[i-1] = day + " " + clock
		out = slices.Delete(out, i, i+1)
	}
	return out
}

// ColumnIndex returns the ordinal named by an
// operand token. The empty token names column
// zero. A literal token is read as the ordinal
// itself; anything else is read after its
// one-character prefix, so "$3" names column 3.
// Ordinals above math.MaxInt32 are rejected with
// a range error, so the result fits an int on
// every platform.
func ColumnIndex(tok string) (int, error) {
	if tok == "" {
		return 0, nil
	}
	clean := strings.TrimSpace(Flatten(Rewrite(tok)))
	num := clean
	if !IsLiteral(clean) {
		if len(clean) < 2 {
			return 0, errsyntaxf(tok, 0, "%q is not a column reference", tok)
		}
		num = clean[1:]
	}
	n, err := strconv.ParseUint(num, 10, 31)
	if err != nil {
		return 0, errors.Wrapf(err, "column reference %q", tok)
	}
	return int(n), nil
}

// IsNull returns whether tok is the null literal.
func IsNull(tok string) bool { return strings.EqualFold(tok, "null") }

// IsBool returns whether tok is true or false.
func IsBool(tok string) bool {
	return strings.EqualFold(tok, "true") || strings.EqualFold(tok, "false")
}

// IsNumber returns whether tok is a decimal
// integer or floating-point literal:
//
//	[+-]?[0-9]*\.?[0-9]+([eE][+-]?[0-9]+)?
func IsNumber(tok string) bool {
	i := 0
	if i < len(tok) && (tok[i] == '+' || tok[i] == '-') {
		i++
	}
	whole := digits(tok[i:])
	i += whole
	if i < len(tok) && tok[i] == '.' {
		i++
		frac := digits(tok[i:])
		if frac == 0 {
			return false
		}
		i += frac
	} else if whole == 0 {
		return false
	}
	if i < len(tok) && (tok[i] == 'e' || tok[i] == 'E') {
		i++
		if i < len(tok) && (tok[i] == '+' || tok[i] == '-') {
			i++
		}
		exp := digits(tok[i:])
		if exp == 0 {
			return false
		}
		i += exp
	}
	return i == len(tok)
}

// IsDate returns whether tok is YYYY-MM-DD.
func IsDate(tok string) bool { return date.Classify(tok) == date.ShapeDate }

// IsHour returns whether tok is HH:MM:SS.
func IsHour(tok string) bool { return date.Classify(tok) == date.ShapeClock }

// IsTimestamp returns whether tok is
// YYYY-MM-DD HH:MM:SS.
func IsTimestamp(tok string) bool { return date.Classify(tok) == date.ShapeTimestamp }

// IsString returns whether tok is a quoted literal.
func IsString(tok string) bool {
	_, ok := unquote(tok)
	return ok
}

// IsLiteral returns whether tok is a constant.
func IsLiteral(tok string) bool {
	return IsNull(tok) || IsBool(tok) || IsNumber(tok) ||
		IsDate(tok) || IsTimestamp(tok) || IsString(tok)
}

// IsColumn returns whether tok is a
// column reference of the form $n.
func IsColumn(tok string) bool {
	return len(tok) >= 2 && tok[0] == '$' && digits(tok[1:]) == len(tok)-1
}

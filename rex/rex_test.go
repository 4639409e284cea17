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
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestMatchingClose(t *testing.T) {
	testcases := []struct {
		text string
		open int
		want int
		ok   bool
	}{
		{"(a(b)c)", 0, 6, true},
		{"(a(b)c)", 2, 4, true},
		{"f('(', x)", 1, 8, true},
		{"('it''s)')", 0, 9, true},
		{"[a[b]]", 0, 5, true},
		{"[a(b]", 0, 4, true},
		{"x(", 1, -1, false},
		{"abc", 0, -1, false},
		{"('abc)", 0, -1, false},
		{"()", 5, -1, false},
	}
	for i := range testcases {
		got, ok := MatchingClose(testcases[i].text, testcases[i].open)
		if got != testcases[i].want || ok != testcases[i].ok {
			t.Errorf("MatchingClose(%q, %d): got %d, %v; wanted %d, %v",
				testcases[i].text, testcases[i].open, got, ok, testcases[i].want, testcases[i].ok)
		}
	}
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"f(x,'a,b')", "g(1,2)"}, SplitList("f(x,'a,b'),g(1,2)", true))
	require.Equal(t, []string{"$0", " 5"}, SplitList("$0, 5", false))
	require.Equal(t, []string{"$0", "5"}, SplitList("$0, 5", true))
	require.Equal(t, []string{"'it''s, ok'", "$1"}, SplitList("'it''s, ok', $1", true))
	require.Equal(t, []string{"a[1,2]", "b"}, SplitList("a[1,2],b", true))
	require.Equal(t, []string{"a"}, SplitList("a,", true))
	require.Empty(t, SplitList("", true))
	// the list is rewritten before splitting
	require.Equal(t, []string{"$0", "5"}, SplitList("$0, 5:INTEGER", true))
}

func TestIsNumber(t *testing.T) {
	testcases := []struct {
		tok  string
		want bool
	}{
		{"5", true},
		{"-5", true},
		{"+1.5", true},
		{".5", true},
		{"1e10", true},
		{"1.5E-3", true},
		{"5.", false},
		{"e5", false},
		{"", false},
		{"-", false},
		{"1e", false},
		{"12a", false},
		{"$1", false},
		{"'5'", false},
	}
	for i := range testcases {
		if got := IsNumber(testcases[i].tok); got != testcases[i].want {
			t.Errorf("IsNumber(%q): got %v; wanted %v", testcases[i].tok, got, testcases[i].want)
		}
	}
}

func TestShapes(t *testing.T) {
	testcases := []struct {
		tok                   string
		literal, column, str  bool
		date, hour, timestamp bool
	}{
		{tok: "null", literal: true},
		{tok: "NULL", literal: true},
		{tok: "true", literal: true},
		{tok: "42", literal: true},
		{tok: "'x y'", literal: true, str: true},
		{tok: "''", literal: true, str: true},
		{tok: "2020-01-01", literal: true, date: true},
		{tok: "10:00:00", hour: true},
		{tok: "2020-01-01 10:00:00", literal: true, timestamp: true},
		{tok: "2024-02-29", literal: true, date: true},
		{tok: "23:59:59", hour: true},
		// out-of-range components are not temporal
		{tok: "2021-02-30"},
		{tok: "2020-13-45"},
		{tok: "25:61:61"},
		{tok: "2020-01-01 25:61:61"},
		{tok: "2021-02-30 10:00:00"},
		{tok: "$0", column: true},
		{tok: "$12", column: true},
		{tok: "$", column: false},
		{tok: "$a"},
		{tok: "AND"},
		{tok: "'"},
	}
	for _, tc := range testcases {
		if got := IsLiteral(tc.tok); got != tc.literal {
			t.Errorf("IsLiteral(%q): got %v", tc.tok, got)
		}
		if got := IsColumn(tc.tok); got != tc.column {
			t.Errorf("IsColumn(%q): got %v", tc.tok, got)
		}
		if got := IsString(tc.tok); got != tc.str {
			t.Errorf("IsString(%q): got %v", tc.tok, got)
		}
		if got := IsDate(tc.tok); got != tc.date {
			t.Errorf("IsDate(%q): got %v", tc.tok, got)
		}
		if got := IsHour(tc.tok); got != tc.hour {
			t.Errorf("IsHour(%q): got %v", tc.tok, got)
		}
		if got := IsTimestamp(tc.tok); got != tc.timestamp {
			t.Errorf("IsTimestamp(%q): got %v", tc.tok, got)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	corpus := []string{
		"COUNT(DISTINCT $0)",
		"COUNT(DISTINCT CAST($0):INTEGER)",
		"=($1, 'abc':VARCHAR(3) CHARACTER SET \"ISO-8859-1\" COLLATE \"ISO-8859-1$en_US$primary\")",
		"CAST($3):TIMESTAMP(0)",
		"+($0, 1.5:DECIMAL(2, 1))",
		"COALESCE($0, null:INTEGER)",
		"AND(IS NOT NULL($0), IS NULL($1))",
		"EXTRACT(FLAG(YEAR), $2)",
		"FLOOR(FLOOR($0))",
		"/INT(+($0, 1), 2)",
		"CAST(CAST($0):INTEGER):DOUBLE NOT NULL",
		"-(-($0))",
		"-($0, -(1))",
		"=($0, 'it''s IS NULL')",
		"LIKE($1, 'FLOOR(%')",
		"CAST($0):DECIMAL(10, 2)",
		"CASE(=($0, 1), 'a', =($0, 2), CASE(>($1, 0), 'b', 'c'), 'd')",
		"CASE($0, 1)",
		"",
	}
	for _, in := range corpus {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize(%q) = %q but Normalize of that is %q", in, once, twice)
		}
		if r := Rewrite(in); Rewrite(r) != r {
			t.Errorf("Rewrite is not idempotent on %q", in)
		}
	}
}

func TestNormalize(t *testing.T) {
	testcases := []struct {
		in, want string
	}{
		{"FLOOR(FLOOR($0))", "BL_FLOOR(BL_FLOOR($0))"},
		{"-(-($0))", "NEGATE(NEGATE($0))"},
		{"-($0, -(1))", "-($0, NEGATE(1))"},
		{"CAST(CAST($0):INTEGER):DOUBLE", "CAST_DOUBLE(CAST_INTEGER($0))"},
		{"CAST($0):VARCHAR(10)", "CAST_VARCHAR($0)"},
		{"CAST($0):DECIMAL(10, 2)", "CAST($0):DECIMAL(10, 2)"},
		{"LIKE($1, 'FLOOR(%')", "LIKE($1, 'FLOOR(%')"},
		{"COALESCE($0, null:INTEGER)", "COALESCE($0, null)"},
	}
	for i := range testcases {
		if got := Normalize(testcases[i].in); got != testcases[i].want {
			t.Errorf("Normalize(%q): got %q; wanted %q", testcases[i].in, got, testcases[i].want)
		}
	}
}

// walk every logical call in s and check
// that it has exactly two operands
func checkBinary(t *testing.T, s string) {
	t.Helper()
	for from := 0; ; {
		at, op := nextLogical(s, from)
		if at < 0 {
			return
		}
		open := at + len(op)
		end, ok := MatchingClose(s, open)
		require.True(t, ok)
		if n := len(splitList(s[open+1:end], false)); n != 2 {
			t.Errorf("%s call at %d in %q has %d operands", op, at, s, n)
		}
		from = open + 1
	}
}

func TestExpandBinary(t *testing.T) {
	inputs := []string{
		"AND($0, $1, $2, $3)",
		"OR(AND($0, $1, $2), AND($3, $4, $5, $6), $7)",
		"AND(OR(=($0, 1), =($0, 2), =($0, 3)), <($1, 'a,b,c'), >($2, 0))",
		"NOT(AND($0, $1, $2))",
	}
	for _, in := range inputs {
		out, err := Expand(in)
		require.NoError(t, err)
		checkBinary(t, out)
	}
	out, err := Expand("AND(a,b,c,d)")
	require.NoError(t, err)
	require.Equal(t, "AND(a, AND(b, AND(c, d)))", out)
}

func TestExpandError(t *testing.T) {
	_, err := Expand("AND($0, $1")
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	require.Equal(t, 3, se.Pos)
}

func TestRepairTimestamps(t *testing.T) {
	testcases := []struct {
		in, want []string
		ts       bool
	}{
		{
			in:   []string{"10:00:00'", "'2020-01-01", "$0", ">"},
			want: []string{"2020-01-01 10:00:00", "$0", ">"},
			ts:   true,
		},
		{
			in:   []string{"10:00:00", "2020-01-01", "$0", ">"},
			want: []string{"2020-01-01 10:00:00", "$0", ">"},
			ts:   true,
		},
		{
			in:   []string{"'2020-01-01 10:00:00'", "$0", "="},
			want: []string{"2020-01-01 10:00:00", "$0", "="},
			ts:   true,
		},
		{
			in:   []string{"10:00:00", "'2020-01-01", "$0", ">"},
			want: []string{"10:00:00", "'2020-01-01", "$0", ">"},
			ts:   true,
		},
		{
			in:   []string{"11:00:00", "2020-01-02", "10:00:00", "2020-01-01", "BETWEEN"},
			want: []string{"2020-01-02 11:00:00", "2020-01-01 10:00:00", "BETWEEN"},
			ts:   true,
		},
		{
			in:   []string{"10:00:00'", "'2020-01-01", "$0", ">"},
			want: []string{"10:00:00'", "'2020-01-01", "$0", ">"},
			ts:   false,
		},
	}
	for i := range testcases {
		in := append([]string(nil), testcases[i].in...)
		got := RepairTimestamps(in, testcases[i].ts)
		require.Equal(t, testcases[i].want, got, "case %d", i)
		require.Equal(t, testcases[i].in, in, "case %d: input modified", i)
	}
}

func TestColumnIndex(t *testing.T) {
	testcases := []struct {
		tok  string
		want int
	}{
		{"", 0},
		{"$0", 0},
		{"$3", 3},
		{"$17", 17},
		{"7", 7},
		{"$2147483647", 2147483647},
	}
	for i := range testcases {
		got, err := ColumnIndex(testcases[i].tok)
		if err != nil {
			t.Errorf("ColumnIndex(%q): %s", testcases[i].tok, err)
			continue
		}
		if got != testcases[i].want {
			t.Errorf("ColumnIndex(%q): got %d; wanted %d", testcases[i].tok, got, testcases[i].want)
		}
	}
	for _, bad := range []string{"$x", "$", "AND", "-1"} {
		if _, err := ColumnIndex(bad); err == nil {
			t.Errorf("ColumnIndex(%q): expected an error", bad)
		}
	}
	for _, big := range []string{"$2147483648", "$4294967296", "$18446744073709551616"} {
		_, err := ColumnIndex(big)
		if !errors.Is(err, strconv.ErrRange) {
			t.Errorf("ColumnIndex(%q): got %v; wanted a range error", big, err)
		}
	}
}

func TestTokenize(t *testing.T) {
	flat, err := Clean("AND(>($0, 5), <($1, 'x y'), IS NOT NULL($2))")
	require.NoError(t, err)
	require.Equal(t, "AND > $0 5 AND < $1 'x y' IS_NOT_NULL $2", flat)
	require.Equal(t,
		[]string{"$2", "IS_NOT_NULL", "'x y'", "$1", "<", "AND", "5", "$0", ">", "AND"},
		Tokenize(flat))
	require.Empty(t, Tokenize("   "))
}

func TestRedact(t *testing.T) {
	r := Redact("AND > $0 5 = $1 'secret'")
	require.Equal(t, "AND > $0 ‹5› = $1 ‹'secret'›", string(r))
	require.Equal(t, "AND > $0 ‹×› = $1 ‹×›", string(r.Redact()))
	require.Equal(t, "IS_NULL $0 = $1 null", string(Redact("IS_NULL $0 = $1 null")))
}

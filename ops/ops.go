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

// Package ops is the catalog of operators that
// may appear in a canonical row-expression.
//
// The unary and binary operator sets are disjoint
// closed enumerations; their name tables are built
// once at package initialization and never mutated.
package ops

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrUnknownOperator is the cause of every
// lookup failure in this package.
var ErrUnknownOperator = errors.New("unknown operator")

// UnaryOp is an operator that takes one operand.
type UnaryOp uint8

const (
	invalidUnary UnaryOp = iota
	Not
	Negate
	Sin
	Cos
	Tan
	Asin
	Acos
	Atan
	Cot
	Log
	Ln
	Abs
	Floor
	Ceil
	Year
	Month
	Day
	Hour
	Minute
	Second
	IsNull
	IsNotNull
	CastInteger
	CastBigint
	CastFloat
	CastDouble
	CastDate
	CastTimestamp
	CastVarchar

	maxUnary
)

var unary2Name = [maxUnary]string{
	Not:           "NOT",
	Negate:        "NEGATE",
	Sin:           "SIN",
	Cos:           "COS",
	Tan:           "TAN",
	Asin:          "ASIN",
	Acos:          "ACOS",
	Atan:          "ATAN",
	Cot:           "COT",
	Log:           "LOG10",
	Ln:            "LN",
	Abs:           "ABS",
	Floor:         "BL_FLOOR",
	Ceil:          "CEIL",
	Year:          "BL_YEAR",
	Month:         "BL_MONTH",
	Day:           "BL_DAY",
	Hour:          "BL_HOUR",
	Minute:        "BL_MINUTE",
	Second:        "BL_SECOND",
	IsNull:        "IS_NULL",
	IsNotNull:     "IS_NOT_NULL",
	CastInteger:   "CAST_INTEGER",
	CastBigint:    "CAST_BIGINT",
	CastFloat:     "CAST_FLOAT",
	CastDouble:    "CAST_DOUBLE",
	CastDate:      "CAST_DATE",
	CastTimestamp: "CAST_TIMESTAMP",
	CastVarchar:   "CAST_VARCHAR",
}

func (u UnaryOp) String() string {
	if u > invalidUnary && u < maxUnary {
		return unary2Name[u]
	}
	return fmt.Sprintf("<invalid unary op %d>", uint8(u))
}

// Trig returns whether u is a trigonometric function.
func (u UnaryOp) Trig() bool { return u >= Sin && u <= Cot }

// Logarithm returns whether u is LOG10 or LN.
func (u UnaryOp) Logarithm() bool { return u == Log || u == Ln }

// NullCheck returns whether u is IS_NULL or IS_NOT_NULL.
func (u UnaryOp) NullCheck() bool { return u == IsNull || u == IsNotNull }

// Cast returns whether u is one of the CAST_* operators.
func (u UnaryOp) Cast() bool { return u >= CastInteger && u <= CastVarchar }

// Extract returns whether u extracts a
// calendar or clock field from a temporal value.
func (u UnaryOp) Extract() bool { return u >= Year && u <= Second }

// BinaryOp is an operator that takes two operands.
type BinaryOp uint8

const (
	invalidBinary BinaryOp = iota
	Add
	Sub
	Mul
	Div
	Mod
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	Or
	Power
	Coalesce
	MagicIfNot
	FirstNonMagic
	Like
	Substring
	Concat

	maxBinary
)

var binary2Name = [maxBinary]string{
	Add:           "+",
	Sub:           "-",
	Mul:           "*",
	Div:           "/",
	Mod:           "MOD",
	Eq:            "=",
	Ne:            "<>",
	Lt:            "<",
	Le:            "<=",
	Gt:            ">",
	Ge:            ">=",
	Or:            "OR",
	Power:         "POWER",
	Coalesce:      "COALESCE",
	MagicIfNot:    "MAGIC_IF_NOT",
	FirstNonMagic: "FIRST_NON_MAGIC",
	Like:          "LIKE",
	Substring:     "SUBSTRING",
	Concat:        "||",
}

func (b BinaryOp) String() string {
	if b > invalidBinary && b < maxBinary {
		return binary2Name[b]
	}
	return fmt.Sprintf("<invalid binary op %d>", uint8(b))
}

// Arithmetic returns whether b is + - * / or MOD.
func (b BinaryOp) Arithmetic() bool { return b >= Add && b <= Mod }

// Comparison returns whether b is one of
// the six comparison operators.
func (b BinaryOp) Comparison() bool { return b >= Eq && b <= Ge }

// Logical returns whether b produces a boolean
// from a comparison or a disjunction.
func (b BinaryOp) Logical() bool { return b.Comparison() || b == Or }

// Exponential returns whether b is POWER.
func (b BinaryOp) Exponential() bool { return b == Power }

// MultiWay returns whether b selects one of its
// operands (COALESCE and the CASE helpers).
func (b BinaryOp) MultiWay() bool { return b >= Coalesce && b <= FirstNonMagic }

// OnStrings returns whether b is a string
// operator (LIKE, SUBSTRING, ||).
func (b BinaryOp) OnStrings() bool { return b >= Like && b <= Concat }

// alternative spellings accepted by the lookups
var (
	unaryAliases = map[string]UnaryOp{
		"LOG":     Log,
		"CEILING": Ceil,
	}
	binaryAliases = map[string]BinaryOp{
		// AND over booleans is evaluated as a product
		"AND":    Mul,
		"!=":     Ne,
		"POW":    Power,
		"CONCAT": Concat,
	}
)

var (
	name2Unary  = make(map[string]UnaryOp, maxUnary)
	name2Binary = make(map[string]BinaryOp, maxBinary)
)

func init() {
	for u := invalidUnary + 1; u < maxUnary; u++ {
		name2Unary[unary2Name[u]] = u
	}
	for k, v := range unaryAliases {
		name2Unary[k] = v
	}
	for b := invalidBinary + 1; b < maxBinary; b++ {
		name2Binary[binary2Name[b]] = b
	}
	for k, v := range binaryAliases {
		name2Binary[k] = v
	}
}

// LookupUnary returns the unary operator named by tok.
func LookupUnary(tok string) (UnaryOp, error) {
	if u, ok := name2Unary[tok]; ok {
		return u, nil
	}
	return invalidUnary, errors.Wrapf(ErrUnknownOperator, "unary %q", tok)
}

// LookupBinary returns the binary operator named by tok.
func LookupBinary(tok string) (BinaryOp, error) {
	if b, ok := name2Binary[tok]; ok {
		return b, nil
	}
	return invalidBinary, errors.Wrapf(ErrUnknownOperator, "binary %q", tok)
}

// IsUnary returns whether tok names a unary operator.
func IsUnary(tok string) bool {
	_, ok := name2Unary[tok]
	return ok
}

// IsBinary returns whether tok names a binary operator.
func IsBinary(tok string) bool {
	_, ok := name2Binary[tok]
	return ok
}

// IsOperator returns whether tok names any operator.
func IsOperator(tok string) bool { return IsUnary(tok) || IsBinary(tok) }

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

// Package infer statically computes the result
// type of canonical row-expressions.
//
// Every function in this package is pure: the
// only shared state it reads is the immutable
// operator catalog and the caller's schema.
package infer

import (
	"fmt"

	"github.com/SnellerInc/rexpr/dtype"
	"github.com/SnellerInc/rexpr/ops"
	"github.com/cockroachdb/errors"
)

var (
	// ErrArity is the cause of a TypeError raised
	// when an operator lacks operands, or when
	// operands are left over at the end.
	ErrArity = errors.New("wrong number of operands")
	// ErrInvalidOperands is the cause of a TypeError
	// raised when both operands of a binary operator
	// have no type.
	ErrInvalidOperands = errors.New("both operands are untyped")
	// ErrUnsupported is returned when no promotion
	// rule covers an operator and its operand types.
	ErrUnsupported = errors.New("unsupported type combination")
	// ErrNoCommonType is returned from Common
	// when two types cannot be reconciled.
	ErrNoCommonType = errors.New("no common type")
)

// TypeError is the error returned from
// Expression when a token is ill-typed.
type TypeError struct {
	Token string
	Msg   string
	Err   error
}

// Error implements error
func (t *TypeError) Error() string {
	return fmt.Sprintf("%q is ill-typed: %s", t.Token, t.Msg)
}

// Unwrap returns the cause of the error.
func (t *TypeError) Unwrap() error { return t.Err }

func errtypef(tok string, cause error, f string, args ...any) *TypeError {
	return &TypeError{Token: tok, Msg: fmt.Sprintf(f, args...), Err: cause}
}

var castResult = map[ops.UnaryOp]dtype.Type{
	ops.CastInteger:   dtype.Int32,
	ops.CastBigint:    dtype.Int64,
	ops.CastFloat:     dtype.Float32,
	ops.CastDouble:    dtype.Float64,
	ops.CastDate:      dtype.Date64,
	ops.CastTimestamp: dtype.Timestamp,
	ops.CastVarchar:   dtype.StringCategory,
}

// Unary returns the type produced by
// applying op to an operand of type in.
func Unary(in dtype.Type, op ops.UnaryOp) dtype.Type {
	switch {
	case op.Cast():
		return castResult[op]
	case op.Trig(), op.Logarithm():
		if in.Float() {
			return in
		}
		return dtype.Float64
	case op.NullCheck():
		return dtype.Bool8
	case in.Date():
		// field extraction and friends
		return dtype.Int16
	}
	return in
}

// Binary returns the type produced by applying
// op to operands of types l and r. It returns
// ErrUnsupported when no rule applies.
func Binary(l, r dtype.Type, op ops.BinaryOp) (dtype.Type, error) {
	switch {
	case op.Arithmetic():
		if !l.Numeric() || !r.Numeric() {
			break
		}
		return arithmetic(l, r), nil
	case op.Logical():
		return dtype.Bool8, nil
	case op.Exponential():
		if l.Float() || r.Float() {
			return dtype.Float64, nil
		}
		return dtype.Int64, nil
	case op == ops.Coalesce:
		return l, nil
	case op == ops.MagicIfNot:
		return r, nil
	case op == ops.FirstNonMagic:
		if l.Numeric() && r.Numeric() && l.Float() != r.Float() {
			if l.Float() {
				return l, nil
			}
			return r, nil
		}
		return dtype.Wider(l, r), nil
	case op == ops.Like:
		return dtype.Bool8, nil
	case op.OnStrings():
		return dtype.StringCategory, nil
	}
	return dtype.Invalid, errors.Wrapf(ErrUnsupported, "%s(%s, %s)", op, l, r)
}

// arithmetic promotes two numeric operands.
// Only signed kinds exist, so width alone
// decides between two non-float operands.
func arithmetic(l, r dtype.Type) dtype.Type {
	switch {
	case l.Float() && r.Float():
		return dtype.Wider(l, r)
	case l.Float():
		return l
	case r.Float():
		return r
	}
	return dtype.Wider(l, r)
}

func dateOnly(t dtype.Type) bool { return t == dtype.Date32 || t == dtype.Date64 }

// Common returns the type that values of
// both a and b can be represented as, or
// an error wrapping ErrNoCommonType.
func Common(a, b dtype.Desc) (dtype.Desc, error) {
	switch {
	case !a.Type.Valid() || !b.Type.Valid():
		// untyped sides cannot be reconciled
	case a.Type == b.Type:
		if a.Type == dtype.Timestamp {
			return dtype.TimestampOf(dtype.CommonUnit(a.Unit, b.Unit)), nil
		}
		return dtype.Of(a.Type), nil
	case a.Type.Integer() && b.Type.Integer(),
		a.Type.Float() && b.Type.Float(),
		dateOnly(a.Type) && dateOnly(b.Type):
		return dtype.Of(dtype.Wider(a.Type, b.Type)), nil
	case dateOnly(a.Type) && b.Type == dtype.Timestamp:
		return promoteDate(a.Type, b.Unit), nil
	case a.Type == dtype.Timestamp && dateOnly(b.Type):
		return promoteDate(b.Type, a.Unit), nil
	case a.Type.StringFamily() && b.Type.StringFamily():
		return dtype.Of(dtype.StringCategory), nil
	}
	return dtype.Desc{}, errors.Wrapf(ErrNoCommonType, "%s and %s", a, b)
}

// promoteDate combines a date-only type
// with a timestamp of unit u.
func promoteDate(d dtype.Type, u dtype.TimeUnit) dtype.Desc {
	if d == dtype.Date64 {
		return dtype.TimestampOf(dtype.CommonUnit(u, dtype.Millisecond))
	}
	return dtype.TimestampOf(u)
}

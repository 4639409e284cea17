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

package infer

import (
	"github.com/SnellerInc/rexpr/dtype"
	"github.com/SnellerInc/rexpr/ops"
	"github.com/SnellerInc/rexpr/rex"
	"github.com/SnellerInc/rexpr/schema"
	"github.com/cockroachdb/errors"
)

// Result is the outcome of Expression.
type Result struct {
	// Type is the type of the whole expression.
	Type dtype.Type
	// Widest is the widest type, by byte width,
	// of any value produced while evaluating the
	// expression. Callers size scratch buffers
	// from it. It is never narrower than Int8.
	Widest dtype.Type
}

type stack []dtype.Type

func (s *stack) push(t dtype.Type) { *s = append(*s, t) }

func (s *stack) pop() dtype.Type {
	t := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return t
}

// Expression computes the type of the expression
// whose reversed token stream is tokens (as
// returned by rex.Tokenize and, when the schema has
// timestamps, rex.RepairTimestamps). Column tokens
// are typed with s.
//
// The reversed stream is consumed front to back
// as postfix. For binary operators the first value
// popped is the left operand. An untyped operand
// (the null literal) takes the type of the other.
func Expression(tokens []string, s schema.Schema) (Result, error) {
	res := Result{Widest: dtype.Int8}
	st := make(stack, 0, len(tokens))
	push := func(t dtype.Type) {
		st.push(t)
		if t.Size() > res.Widest.Size() {
			res.Widest = t
		}
	}
	for _, tok := range tokens {
		if op, err := ops.LookupBinary(tok); err == nil {
			if len(st) < 2 {
				return Result{}, errtypef(tok, ErrArity, "binary operator has %d operand(s)", len(st))
			}
			l, r := st.pop(), st.pop()
			switch {
			case !l.Valid() && !r.Valid():
				return Result{}, errtypef(tok, ErrInvalidOperands, "cannot type %s(null, null)", op)
			case !l.Valid():
				l = r
			case !r.Valid():
				r = l
			}
			t, err := Binary(l, r, op)
			if err != nil {
				return Result{}, errtypef(tok, err, "%v", err)
			}
			push(t)
			continue
		}
		if op, err := ops.LookupUnary(tok); err == nil {
			if len(st) < 1 {
				return Result{}, errtypef(tok, ErrArity, "unary operator has no operand")
			}
			push(Unary(st.pop(), op))
			continue
		}
		if rex.IsLiteral(tok) {
			t, err := Literal(tok)
			if err != nil {
				return Result{}, err
			}
			push(t)
			continue
		}
		i, err := rex.ColumnIndex(tok)
		if err != nil {
			return Result{}, errors.Wrap(err, "resolving operand")
		}
		if i >= s.NumColumns() {
			return Result{}, errtypef(tok, nil, "column %d out of range (%d columns)", i, s.NumColumns())
		}
		push(s.Column(i).Type)
	}
	if len(st) != 1 {
		return Result{}, errtypef("", ErrArity, "expression leaves %d values", len(st))
	}
	res.Type = st[0]
	return res, nil
}

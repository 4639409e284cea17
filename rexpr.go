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

// Package rexpr normalizes planner row-expressions
// into canonical operator syntax and infers their
// result types against a column schema.
//
// The subpackages hold the individual stages;
// Analyzer runs all of them in order.
package rexpr

import (
	"log"
	"sync"

	"github.com/SnellerInc/rexpr/dtype"
	"github.com/SnellerInc/rexpr/infer"
	"github.com/SnellerInc/rexpr/ints"
	"github.com/SnellerInc/rexpr/ops"
	"github.com/SnellerInc/rexpr/rex"
	"github.com/SnellerInc/rexpr/scalar"
	"github.com/SnellerInc/rexpr/schema"
	"github.com/cockroachdb/errors"
	"github.com/dchest/siphash"
	"golang.org/x/exp/slices"
)

// MaxCache is the largest number of
// analyses an Analyzer will remember.
const MaxCache = 1 << 16

// Analysis is the result of Analyzer.Analyze.
type Analysis struct {
	// Input is the expression as supplied.
	Input string
	// Clean is the canonical, flattened
	// form of the expression.
	Clean string
	// Tokens is the reversed token stream,
	// after timestamp repair.
	Tokens []string
	// Type is the result type.
	Type dtype.Type
	// Widest is the widest intermediate type.
	Widest dtype.Type
}

func (a *Analysis) clone() *Analysis {
	c := *a
	c.Tokens = slices.Clone(a.Tokens)
	return &c
}

// Analyzer runs the normalization and type
// inference pipeline against one schema.
// An Analyzer is safe for concurrent use.
type Analyzer struct {
	schema       schema.Schema
	hasTimestamp bool
	fingerprint  uint64
	logger       *log.Logger

	lock      sync.Mutex
	cacheSize int
	cache     map[uint64]*Analysis
	order     []uint64
}

// Option is an optional argument to New.
type Option func(a *Analyzer)

// WithLogger is an option that can be
// passed to New to have the Analyzer log
// expressions it fails to analyze. Literals
// are redacted from logged expressions.
// If no logger is set, the Analyzer does
// not write out any diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// WithCache is an option that can be passed
// to New to have the Analyzer remember up to
// n successful analyses, evicting the oldest
// first. n is clamped to [0, MaxCache]; zero
// disables the cache.
func WithCache(n int) Option {
	return func(a *Analyzer) {
		a.cacheSize = ints.Clamp(n, 0, MaxCache)
	}
}

// New makes an Analyzer for expressions
// over the columns of s. The schema must not
// change while the Analyzer is in use.
func New(s schema.Schema, opts ...Option) *Analyzer {
	a := &Analyzer{
		schema:       s,
		hasTimestamp: schema.HasTimestamp(s),
		fingerprint:  schema.Fingerprint(s),
	}
	for _, o := range opts {
		o(a)
	}
	if a.cacheSize > 0 {
		a.cache = make(map[uint64]*Analysis, a.cacheSize)
	}
	return a
}

func (a *Analyzer) logf(f string, args ...any) {
	if a.logger != nil {
		a.logger.Printf(f, args...)
	}
}

func (a *Analyzer) key(expr string) uint64 {
	return siphash.Hash(a.fingerprint, 0, []byte(expr))
}

func (a *Analyzer) lookup(expr string) *Analysis {
	if a.cache == nil {
		return nil
	}
	a.lock.Lock()
	defer a.lock.Unlock()
	if an, ok := a.cache[a.key(expr)]; ok && an.Input == expr {
		return an.clone()
	}
	return nil
}

func (a *Analyzer) remember(an *Analysis) {
	if a.cache == nil {
		return
	}
	k := a.key(an.Input)
	a.lock.Lock()
	defer a.lock.Unlock()
	if _, ok := a.cache[k]; !ok {
		if len(a.order) >= a.cacheSize {
			delete(a.cache, a.order[0])
			a.order = slices.Delete(a.order, 0, 1)
		}
		a.order = append(a.order, k)
	}
	a.cache[k] = an.clone()
}

// Analyze normalizes, tokenizes and type-checks expr.
//
// Structural errors are returned as *rex.SyntaxError
// and typing errors as *infer.TypeError.
func (a *Analyzer) Analyze(expr string) (*Analysis, error) {
	if an := a.lookup(expr); an != nil {
		return an, nil
	}
	clean, err := rex.Clean(expr)
	if err != nil {
		a.logf("cannot normalize %s: %v", rex.Redact(rex.Flatten(expr)).Redact(), err)
		return nil, err
	}
	toks := rex.RepairTimestamps(rex.Tokenize(clean), a.hasTimestamp)
	res, err := infer.Expression(toks, a.schema)
	if err != nil {
		a.logf("cannot type %s: %v", rex.Redact(clean).Redact(), err)
		return nil, errors.Wrapf(err, "expression %q", clean)
	}
	an := &Analysis{
		Input:  expr,
		Clean:  clean,
		Tokens: toks,
		Type:   res.Type,
		Widest: res.Widest,
	}
	a.remember(an)
	return an, nil
}

type literal struct {
	tok    string
	target dtype.Desc
}

type operand struct {
	desc dtype.Desc
	lit  int // index of the literal, or -1
}

// Literals returns the literal operands of expr
// as typed scalars, in the order they appear in
// the text. A literal that is an operand of a
// binary operator whose other operand is not a
// literal is converted to the common type of the
// two, when there is one; every other literal is
// converted to its own inferred type.
func (a *Analyzer) Literals(expr string) ([]scalar.Scalar, error) {
	an, err := a.Analyze(expr)
	if err != nil {
		return nil, err
	}
	var lits []literal
	var st []operand
	pop := func() operand {
		o := st[len(st)-1]
		st = st[:len(st)-1]
		return o
	}
	retarget := func(lit, other operand) {
		if lit.lit < 0 || other.lit >= 0 {
			return
		}
		if c, err := infer.Common(lit.desc, other.desc); err == nil {
			lits[lit.lit].target = c
		}
	}
	for _, tok := range an.Tokens {
		if op, err := ops.LookupBinary(tok); err == nil {
			l, r := pop(), pop()
			retarget(l, r)
			retarget(r, l)
			lt, rt := l.desc.Type, r.desc.Type
			if !lt.Valid() {
				lt = rt
			} else if !rt.Valid() {
				rt = lt
			}
			t, err := infer.Binary(lt, rt, op)
			if err != nil {
				return nil, err
			}
			st = append(st, operand{desc: dtype.Of(t), lit: -1})
			continue
		}
		if op, err := ops.LookupUnary(tok); err == nil {
			x := pop()
			st = append(st, operand{desc: dtype.Of(infer.Unary(x.desc.Type, op)), lit: -1})
			continue
		}
		if rex.IsLiteral(tok) {
			t, err := infer.Literal(tok)
			if err != nil {
				return nil, err
			}
			d := dtype.Of(t)
			lits = append(lits, literal{tok: tok, target: d})
			st = append(st, operand{desc: d, lit: len(lits) - 1})
			continue
		}
		i, err := rex.ColumnIndex(tok)
		if err != nil {
			return nil, err
		}
		st = append(st, operand{desc: a.schema.Column(i), lit: -1})
	}
	out := make([]scalar.Scalar, 0, len(lits))
	for i := len(lits) - 1; i >= 0; i-- {
		s, err := scalar.Convert(lits[i].tok, lits[i].target)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// AggregateType returns the type produced by the
// aggregate annotated in text (see ops.ParseAggregate)
// applied to the column with the given ordinal.
// COUNT does not need an input column.
func (a *Analyzer) AggregateType(text string, ordinal int, grouped bool) (dtype.Type, error) {
	op, err := ops.ParseAggregate(text)
	if err != nil {
		return dtype.Invalid, err
	}
	var in dtype.Type
	if ordinal >= 0 && ordinal < a.schema.NumColumns() {
		in = a.schema.Column(ordinal).Type
	} else if op != ops.OpCount {
		return dtype.Invalid, errors.Newf("%s: input column %d out of range (%d columns)", op.DisplayName(), ordinal, a.schema.NumColumns())
	}
	return infer.Aggregate(in, op, grouped)
}

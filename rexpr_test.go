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

package rexpr

import (
	"bytes"
	"fmt"
	"log"
	"sync"
	"testing"

	"github.com/SnellerInc/rexpr/dtype"
	"github.com/SnellerInc/rexpr/infer"
	"github.com/SnellerInc/rexpr/rex"
	"github.com/SnellerInc/rexpr/schema"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestIntegerComparison(t *testing.T) {
	a := New(schema.Static{{Name: "x", Type: dtype.Int32}})
	an, err := a.Analyze(">($0, 5)")
	require.NoError(t, err)
	require.Equal(t, dtype.Bool8, an.Type)
	require.GreaterOrEqual(t, an.Widest.Size(), dtype.Int32.Size())
	require.Equal(t, []string{"5", "$0", ">"}, an.Tokens)
}

func TestTimestampRepair(t *testing.T) {
	withTS := schema.Static{{Name: "t", Type: dtype.Timestamp, Unit: dtype.Millisecond}}
	toks := rex.RepairTimestamps([]string{"10:00:00'", "'2020-01-01", "$0", "="}, schema.HasTimestamp(withTS))
	require.Equal(t, []string{"2020-01-01 10:00:00", "$0", "="}, toks)

	res, err := infer.Expression(toks, withTS)
	require.NoError(t, err)
	require.Equal(t, dtype.Bool8, res.Type)
}

func TestTemporalLiteralsAgree(t *testing.T) {
	a := New(schema.Static{{Name: "d", Type: dtype.Date64}, {Name: "t", Type: dtype.Timestamp, Unit: dtype.Second}})

	lits, err := a.Literals("AND(=($0, 2024-02-29), >($1, '2020-01-01 10:00:00'))")
	require.NoError(t, err)
	require.Len(t, lits, 2)
	require.Equal(t, dtype.Date64, lits[0].Type())
	require.Equal(t, dtype.Timestamp, lits[1].Type())
	require.Equal(t, int64(1577872800), lits[1].Int64())

	// out-of-range dates are rejected before typing,
	// so Analyze and Literals fail together
	for _, expr := range []string{"=($0, 2020-13-45)", "=($0, 2021-02-30)", ">($1, 2020-01-01 25:61:61)"} {
		_, aerr := a.Analyze(expr)
		_, lerr := a.Literals(expr)
		require.Error(t, aerr, expr)
		require.Error(t, lerr, expr)
		require.False(t, errors.HasAssertionFailure(lerr), "%s: %v", expr, lerr)
	}
}

func TestCaseExpression(t *testing.T) {
	a := New(schema.Static{{Name: "x", Type: dtype.Int32}, {Name: "p", Type: dtype.Float64}})

	an, err := a.Analyze("CASE(>($0, 1), $0, $1)")
	require.NoError(t, err)
	require.Equal(t, []string{"$1", "$0", "1", "$0", ">", "MAGIC_IF_NOT", "FIRST_NON_MAGIC"}, an.Tokens)
	require.Equal(t, dtype.Float64, an.Type)

	an, err = a.Analyze("case(>($0, 1), 1, 200)")
	require.NoError(t, err)
	require.Equal(t, dtype.Int16, an.Type)
}

func TestAnalyzeErrors(t *testing.T) {
	a := New(schema.Static{{Name: "x", Type: dtype.Int32}, {Name: "s", Type: dtype.String}})

	_, err := a.Analyze("AND($0, $1")
	var se *rex.SyntaxError
	require.True(t, errors.As(err, &se), "got %v", err)

	_, err = a.Analyze("+($1, 1)")
	var te *infer.TypeError
	require.True(t, errors.As(err, &te), "got %v", err)
	require.True(t, errors.Is(err, infer.ErrUnsupported))

	_, err = a.Analyze(">($0)")
	require.True(t, errors.Is(err, infer.ErrArity), "got %v", err)

	_, err = a.Analyze(">($7, 1)")
	require.Error(t, err)
}

func TestLogRedacts(t *testing.T) {
	var buf bytes.Buffer
	a := New(schema.Static{{Name: "s", Type: dtype.String}}, WithLogger(log.New(&buf, "", 0)))
	_, err := a.Analyze("+($0, 'hunter2')")
	require.Error(t, err)
	out := buf.String()
	require.Contains(t, out, "cannot type")
	require.Contains(t, out, "‹×›")
	require.NotContains(t, out, "hunter2")

	// silent without a logger
	a = New(schema.Static{{Name: "s", Type: dtype.String}})
	_, err = a.Analyze("+($0, 'hunter2')")
	require.Error(t, err)
}

func TestCache(t *testing.T) {
	a := New(schema.Static{{Name: "x", Type: dtype.Int64}}, WithCache(2))
	first, err := a.Analyze("+($0, 1)")
	require.NoError(t, err)
	first.Tokens[0] = "mutated"

	again, err := a.Analyze("+($0, 1)")
	require.NoError(t, err)
	require.Equal(t, []string{"1", "$0", "+"}, again.Tokens)
	require.Equal(t, dtype.Int64, again.Type)

	for i := 0; i < 5; i++ {
		_, err := a.Analyze(fmt.Sprintf("+($0, %d)", i))
		require.NoError(t, err)
	}
	require.Len(t, a.cache, 2)
	require.Len(t, a.order, 2)

	// failures are not remembered
	_, err = a.Analyze("NOT()")
	require.Error(t, err)
	require.Len(t, a.cache, 2)
}

func TestCacheDisabled(t *testing.T) {
	require.Nil(t, New(schema.Static{}, WithCache(0)).cache)
	require.Nil(t, New(schema.Static{}, WithCache(-5)).cache)
	a := New(schema.Static{}, WithCache(1<<30))
	require.Equal(t, MaxCache, a.cacheSize)
}

func TestConcurrentAnalyze(t *testing.T) {
	a := New(schema.Static{{Name: "x", Type: dtype.Int32}, {Name: "y", Type: dtype.Float64}}, WithCache(8))
	exprs := []string{">($0, 5)", "+($0, $1)", "POWER($0, 2)", "AND(>($0, 1), <($1, 2), =($0, 3))"}
	want := []dtype.Type{dtype.Bool8, dtype.Float64, dtype.Int64, dtype.Bool8}
	var wg sync.WaitGroup
	errs := make(chan error, 8*len(exprs))
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range exprs {
				an, err := a.Analyze(exprs[i])
				if err != nil {
					errs <- err
					continue
				}
				if an.Type != want[i] {
					errs <- fmt.Errorf("%s: got %s; wanted %s", exprs[i], an.Type, want[i])
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

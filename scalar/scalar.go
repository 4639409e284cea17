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

// Package scalar converts literal tokens
// into typed constant values.
package scalar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SnellerInc/rexpr/date"
	"github.com/SnellerInc/rexpr/dtype"
	"github.com/apache/arrow/go/v17/arrow"
	ascalar "github.com/apache/arrow/go/v17/arrow/scalar"
	"github.com/cockroachdb/errors"
)

// Scalar is a typed constant.
// The zero Scalar is the null Int8.
type Scalar struct {
	typ   dtype.Type
	unit  dtype.TimeUnit
	valid bool
	i     int64
	f     float64
	s     string
}

// Type returns the type of s.
func (s Scalar) Type() dtype.Type {
	if s.typ == dtype.Invalid {
		return dtype.Int8
	}
	return s.typ
}

// Unit returns the time unit of a Timestamp scalar.
func (s Scalar) Unit() dtype.TimeUnit { return s.unit }

// Valid returns false if s is null.
func (s Scalar) Valid() bool { return s.valid }

// Int64 returns the value of an integer or
// boolean scalar, the day count of a Date32,
// or the tick count of a Date64 or Timestamp.
func (s Scalar) Int64() int64 { return s.i }

// Float64 returns the value of a float scalar.
func (s Scalar) Float64() float64 { return s.f }

// Bool returns the value of a Bool8 scalar.
func (s Scalar) Bool() bool { return s.i != 0 }

// Str returns the unquoted text of a string scalar.
func (s Scalar) Str() string { return s.s }

func (s Scalar) String() string {
	if !s.valid {
		return "null"
	}
	switch {
	case s.typ == dtype.Float32:
		return strconv.FormatFloat(s.f, 'g', -1, 32)
	case s.typ == dtype.Float64:
		return strconv.FormatFloat(s.f, 'g', -1, 64)
	case s.typ == dtype.Bool8:
		return strconv.FormatBool(s.Bool())
	case s.typ.StringFamily():
		return "'" + strings.ReplaceAll(s.s, "'", "''") + "'"
	case s.typ == dtype.Timestamp:
		return fmt.Sprintf("%d[%s]", s.i, s.unit)
	}
	return strconv.FormatInt(s.i, 10)
}

// Convert parses the literal token tok as
// a constant described by d. The null literal
// converts to a null Int8 regardless of d.
//
// Dates and timestamps are read with
// date.Parse; a Date32 holds days since the
// epoch, a Date64 milliseconds, and a Timestamp
// ticks of d.Unit (milliseconds for UnitNone).
// Quoted strings lose their quotes and have
// doubled quotes collapsed.
//
// tok must already be known to be a literal
// of a shape compatible with d; a token that
// does not parse is an assertion failure.
func Convert(tok string, d dtype.Desc) (Scalar, error) {
	if strings.EqualFold(tok, "null") {
		return Scalar{typ: dtype.Int8}, nil
	}
	out := Scalar{typ: d.Type, valid: true}
	var err error
	switch d.Type {
	case dtype.Int8, dtype.Int16, dtype.Int32, dtype.Int64:
		out.i, err = strconv.ParseInt(tok, 10, 8*d.Type.Size())
	case dtype.Float32:
		out.f, err = strconv.ParseFloat(tok, 32)
	case dtype.Float64:
		out.f, err = strconv.ParseFloat(tok, 64)
	case dtype.Bool8:
		var b bool
		b, err = strconv.ParseBool(strings.ToLower(tok))
		if b {
			out.i = 1
		}
	case dtype.Date32, dtype.Date64, dtype.Timestamp:
		t, ok := date.Parse([]byte(unquote(tok)))
		if !ok {
			return Scalar{}, errors.AssertionFailedf("%q is not a valid %s", tok, d)
		}
		switch d.Type {
		case dtype.Date32:
			out.i = t.Days()
		case dtype.Date64:
			out.i = t.UnixMilli()
		default:
			out.unit = d.Unit
			out.i = ticks(t, d.Unit)
		}
	case dtype.String, dtype.StringCategory:
		out.s = strings.ReplaceAll(unquote(tok), "''", "'")
	default:
		return Scalar{}, errors.AssertionFailedf("cannot convert %q to %s", tok, d)
	}
	if err != nil {
		return Scalar{}, errors.AssertionFailedf("%q is not a valid %s: %v", tok, d, err)
	}
	return out, nil
}

func unquote(tok string) string {
	if len(tok) >= 2 && tok[0] == '\'' && tok[len(tok)-1] == '\'' {
		return tok[1 : len(tok)-1]
	}
	return tok
}

func ticks(t date.Time, u dtype.TimeUnit) int64 {
	switch u {
	case dtype.Second:
		return t.Unix()
	case dtype.Microsecond:
		return t.UnixMicro()
	case dtype.Nanosecond:
		return t.UnixNano()
	default:
		return t.UnixMilli()
	}
}

// Arrow returns s as an arrow scalar.
// String categories are exported as plain
// strings; the dictionary is built by the
// consumer.
func (s Scalar) Arrow() (ascalar.Scalar, error) {
	if !s.valid {
		return ascalar.MakeNullScalar(arrow.PrimitiveTypes.Int8), nil
	}
	switch s.typ {
	case dtype.Int8:
		return ascalar.NewInt8Scalar(int8(s.i)), nil
	case dtype.Int16:
		return ascalar.NewInt16Scalar(int16(s.i)), nil
	case dtype.Int32:
		return ascalar.NewInt32Scalar(int32(s.i)), nil
	case dtype.Int64:
		return ascalar.NewInt64Scalar(s.i), nil
	case dtype.Float32:
		return ascalar.NewFloat32Scalar(float32(s.f)), nil
	case dtype.Float64:
		return ascalar.NewFloat64Scalar(s.f), nil
	case dtype.Bool8:
		return ascalar.NewBooleanScalar(s.i != 0), nil
	case dtype.Date32:
		return ascalar.NewDate32Scalar(arrow.Date32(s.i)), nil
	case dtype.Date64:
		return ascalar.NewDate64Scalar(arrow.Date64(s.i)), nil
	case dtype.Timestamp:
		dt, err := dtype.ToArrow(dtype.TimestampOf(s.unit))
		if err != nil {
			return nil, err
		}
		return ascalar.NewTimestampScalar(arrow.Timestamp(s.i), dt), nil
	case dtype.String, dtype.StringCategory:
		return ascalar.NewStringScalar(s.s), nil
	}
	return nil, errors.Newf("scalar: no arrow representation for %s", s.typ)
}

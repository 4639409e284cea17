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

// Package dtype defines the closed set of
// scalar types understood by the columnar
// execution layer, along with the sub-day
// time units carried by temporal columns.
package dtype

import (
	"fmt"
	"strings"
)

// Type is a scalar column type.
type Type uint8

const (
	// Invalid is both the absent type
	// (the type of a NULL literal) and
	// the zero value of Type.
	Invalid Type = iota
	Int8
	Int16
	Int32
	Int64
	Float32
	Float64
	Bool8
	Date32    // days since the Unix epoch
	Date64    // milliseconds since the Unix epoch
	Timestamp // Unix time at the granularity of a TimeUnit
	String
	// StringCategory is a dictionary-encoded string
	StringCategory

	maxType
)

var type2Name = [maxType]string{
	Invalid:        "invalid",
	Int8:           "int8",
	Int16:          "int16",
	Int32:          "int32",
	Int64:          "int64",
	Float32:        "float32",
	Float64:        "float64",
	Bool8:          "bool8",
	Date32:         "date32",
	Date64:         "date64",
	Timestamp:      "timestamp",
	String:         "string",
	StringCategory: "category",
}

// byte width of each type; String is
// variable-width and reports zero
var type2Size = [maxType]int{
	Int8:           1,
	Int16:          2,
	Int32:          4,
	Int64:          8,
	Float32:        4,
	Float64:        8,
	Bool8:          1,
	Date32:         4,
	Date64:         8,
	Timestamp:      8,
	StringCategory: 4,
}

func (t Type) String() string {
	if t < maxType {
		return type2Name[t]
	}
	return fmt.Sprintf("<unknown type %d>", uint8(t))
}

// ParseType is the inverse of Type.String.
// It also accepts a handful of SQL spellings
// (INTEGER, BIGINT, DOUBLE, VARCHAR, ...).
func ParseType(s string) (Type, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t := Type(0); t < maxType; t++ {
		if type2Name[t] == s {
			return t, true
		}
	}
	switch s {
	case "tinyint":
		return Int8, true
	case "smallint":
		return Int16, true
	case "int", "integer":
		return Int32, true
	case "bigint", "long":
		return Int64, true
	case "float", "real":
		return Float32, true
	case "double":
		return Float64, true
	case "bool", "boolean":
		return Bool8, true
	case "date":
		return Date64, true
	case "varchar", "char", "text":
		return String, true
	case "dictionary", "string_category":
		return StringCategory, true
	}
	return Invalid, false
}

// MarshalText implements encoding.TextMarshaler
func (t Type) MarshalText() ([]byte, error) {
	if t >= maxType {
		return nil, fmt.Errorf("dtype: cannot marshal type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *Type) UnmarshalText(b []byte) error {
	nt, ok := ParseType(string(b))
	if !ok {
		return fmt.Errorf("dtype: unknown type %q", b)
	}
	*t = nt
	return nil
}

// Size returns the byte width of
// a single value of type t.
func (t Type) Size() int {
	if t < maxType {
		return type2Size[t]
	}
	return 0
}

// Valid returns whether t is
// a concrete (non-Invalid) type.
func (t Type) Valid() bool { return t > Invalid && t < maxType }

// Signed returns whether t is a signed
// representation. Every numeric, boolean
// and temporal type is signed; the engine
// has no unsigned integer kinds.
func (t Type) Signed() bool {
	switch t {
	case Int8, Int16, Int32, Int64, Bool8,
		Float32, Float64, Date32, Date64, Timestamp:
		return true
	}
	return false
}

// Float returns whether t is a
// floating-point type.
func (t Type) Float() bool { return t == Float32 || t == Float64 }

// Integer returns whether t is one
// of the integer types.
func (t Type) Integer() bool { return t >= Int8 && t <= Int64 }

// Date returns whether t is a temporal type.
func (t Type) Date() bool { return t == Date32 || t == Date64 || t == Timestamp }

// Numeric returns whether t takes part in
// arithmetic under the promotion rules.
func (t Type) Numeric() bool { return t.Signed() }

// StringFamily returns whether t is
// a plain or a dictionary-encoded string.
func (t Type) StringFamily() bool { return t == String || t == StringCategory }

// Kind is the classification of a Type;
// exactly one Kind applies to each Type.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInteger
	KindFloat
	KindBoolean
	KindTemporal
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindTemporal:
		return "temporal"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Kind returns the classification of t.
func (t Type) Kind() Kind {
	switch {
	case t.Integer():
		return KindInteger
	case t.Float():
		return KindFloat
	case t == Bool8:
		return KindBoolean
	case t.Date():
		return KindTemporal
	case t.StringFamily():
		return KindString
	}
	return KindInvalid
}

// Wider returns whichever of a and b has
// the larger byte width, preferring a on ties.
func Wider(a, b Type) Type {
	if a.Size() >= b.Size() {
		return a
	}
	return b
}

// Types returns every valid type, in declaration order.
func Types() []Type {
	out := make([]Type, 0, maxType-1)
	for t := Int8; t < maxType; t++ {
		out = append(out, t)
	}
	return out
}

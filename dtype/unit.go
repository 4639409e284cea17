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

package dtype

import (
	"fmt"
	"strings"
)

// TimeUnit is the sub-day granularity
// of a temporal column.
//
// Units are totally ordered:
//
//	UnitNone < Second < Millisecond < Microsecond < Nanosecond
type TimeUnit uint8

const (
	UnitNone TimeUnit = iota
	Second
	Millisecond
	Microsecond
	Nanosecond
)

func (u TimeUnit) String() string {
	switch u {
	case UnitNone:
		return "none"
	case Second:
		return "s"
	case Millisecond:
		return "ms"
	case Microsecond:
		return "us"
	case Nanosecond:
		return "ns"
	}
	return fmt.Sprintf("<unknown unit %d>", uint8(u))
}

// ParseUnit is the inverse of TimeUnit.String.
func ParseUnit(s string) (TimeUnit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return UnitNone, true
	case "s", "second", "seconds":
		return Second, true
	case "ms", "millisecond", "milliseconds":
		return Millisecond, true
	case "us", "µs", "microsecond", "microseconds":
		return Microsecond, true
	case "ns", "nanosecond", "nanoseconds":
		return Nanosecond, true
	}
	return UnitNone, false
}

// MarshalText implements encoding.TextMarshaler
func (u TimeUnit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (u *TimeUnit) UnmarshalText(b []byte) error {
	nu, ok := ParseUnit(string(b))
	if !ok {
		return fmt.Errorf("dtype: unknown time unit %q", b)
	}
	*u = nu
	return nil
}

// CommonUnit returns the unit that values
// carrying units a and b are combined at:
// the greater of the two in unit order, so
// that a nanosecond operand forces nanoseconds.
func CommonUnit(a, b TimeUnit) TimeUnit {
	if a >= b {
		return a
	}
	return b
}

// PerSecond returns the number of ticks
// of unit u in one second. UnitNone is
// treated as milliseconds.
func (u TimeUnit) PerSecond() int64 {
	switch u {
	case Second:
		return 1
	case Microsecond:
		return 1e6
	case Nanosecond:
		return 1e9
	default:
		return 1e3
	}
}

// Desc is a Type together with the
// time unit of temporal values.
// Non-temporal types carry UnitNone.
type Desc struct {
	Type Type
	Unit TimeUnit
}

// Of returns the Desc of a type with no unit.
func Of(t Type) Desc { return Desc{Type: t} }

// TimestampOf returns a Timestamp Desc with unit u.
func TimestampOf(u TimeUnit) Desc { return Desc{Type: Timestamp, Unit: u} }

func (d Desc) String() string {
	if d.Type == Timestamp && d.Unit != UnitNone {
		return d.Type.String() + "[" + d.Unit.String() + "]"
	}
	return d.Type.String()
}

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

package date

// Shape is the surface form of a
// temporal literal.
type Shape uint8

const (
	// NotTemporal is any text that is
	// not exactly one of the forms below.
	NotTemporal Shape = iota
	// ShapeDate is YYYY-MM-DD
	ShapeDate
	// ShapeClock is HH:MM:SS
	ShapeClock
	// ShapeTimestamp is YYYY-MM-DD HH:MM:SS
	ShapeTimestamp
)

func (s Shape) String() string {
	switch s {
	case ShapeDate:
		return "date"
	case ShapeClock:
		return "clock"
	case ShapeTimestamp:
		return "timestamp"
	}
	return "none"
}

func atoi(b string) (int, bool) {
	if len(b) == 0 {
		return 0, false
	}
	n := 0
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// ymd reads YYYY-MM-DD from the first
// ten bytes of s and checks its ranges
func ymd(s string) (year, month, day int, ok bool) {
	if len(s) < 10 || s[4] != '-' || s[7] != '-' {
		return 0, 0, 0, false
	}
	year, ok1 := atoi(s[:4])
	month, ok2 := atoi(s[5:7])
	day, ok3 := atoi(s[8:10])
	if !ok1 || !ok2 || !ok3 || month < 1 || month > 12 || day < 1 || day > daysin(year, month) {
		return 0, 0, 0, false
	}
	return year, month, day, true
}

// hms reads HH:MM:SS from the first
// eight bytes of s and checks its ranges
func hms(s string) (hour, min, sec int, ok bool) {
	if len(s) < 8 || s[2] != ':' || s[5] != ':' {
		return 0, 0, 0, false
	}
	hour, ok1 := atoi(s[:2])
	min, ok2 := atoi(s[3:5])
	sec, ok3 := atoi(s[6:8])
	if !ok1 || !ok2 || !ok3 || hour > 23 || min > 59 || sec > 59 {
		return 0, 0, 0, false
	}
	return hour, min, sec, true
}

func isDate(s string) bool {
	_, _, _, ok := ymd(s)
	return ok && len(s) == 10
}

func isClock(s string) bool {
	_, _, _, ok := hms(s)
	return ok && len(s) == 8
}

// Classify returns the fixed-width shape of s.
// Components are range-checked the same way
// Parse checks them, so every string that
// Classify accepts as a date or timestamp
// also parses.
func Classify(s string) Shape {
	switch len(s) {
	case 8:
		if isClock(s) {
			return ShapeClock
		}
	case 10:
		if isDate(s) {
			return ShapeDate
		}
	case 19:
		if s[10] == ' ' && isDate(s[:10]) && isClock(s[11:]) {
			return ShapeTimestamp
		}
	}
	return NotTemporal
}

func trim(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}
	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t') {
		b = b[:len(b)-1]
	}
	return b
}

// Parse parses a date or timestamp from data
// and returns the associated time and true,
// or the zero time value and false if the buffer
// did not contain a recognized format.
//
// Accepted forms are YYYY-MM-DD, optionally
// followed by a space or 'T' and HH:MM:SS,
// an optional fraction of up to nine digits,
// and an optional 'Z' or [+-]HH:MM offset.
// Leading and trailing whitespace is ignored.
func Parse(data []byte) (Time, bool) {
	b := string(trim(data))
	year, month, day, ok := ymd(b)
	if !ok {
		return Time{}, false
	}
	b = b[10:]
	if len(b) == 0 {
		return date(year, month, day, 0, 0, 0, 0), true
	}
	if b[0] != ' ' && b[0] != 'T' {
		return Time{}, false
	}
	b = b[1:]
	hour, min, sec, ok := hms(b)
	if !ok {
		return Time{}, false
	}
	b = b[8:]
	ns := 0
	if len(b) > 0 && b[0] == '.' {
		b = b[1:]
		n := 0
		for n < len(b) && b[n] >= '0' && b[n] <= '9' {
			n++
		}
		if n == 0 || n > 9 {
			return Time{}, false
		}
		ns, _ = atoi(b[:n])
		for i := n; i < 9; i++ {
			ns *= 10
		}
		b = b[n:]
	}
	switch {
	case len(b) == 0:
	case len(b) == 1 && b[0] == 'Z':
	case len(b) == 6 && (b[0] == '+' || b[0] == '-') && b[3] == ':':
		oh, ok1 := atoi(b[1:3])
		om, ok2 := atoi(b[4:6])
		if !ok1 || !ok2 || oh > 23 || om > 59 {
			return Time{}, false
		}
		if b[0] == '+' {
			oh, om = -oh, -om
		}
		return Date(year, month, day, hour+oh, min+om, sec, ns), true
	default:
		return Time{}, false
	}
	return date(year, month, day, hour, min, sec, ns), true
}

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
	"strconv"
	"strings"

	"github.com/SnellerInc/rexpr/dtype"
	"github.com/SnellerInc/rexpr/ints"
	"github.com/SnellerInc/rexpr/rex"
	"github.com/cockroachdb/errors"
)

var intWidths = [...]dtype.Type{
	1: dtype.Int8,
	2: dtype.Int16,
	4: dtype.Int32,
	8: dtype.Int64,
}

// Literal returns the type of a literal token.
// The null literal has type dtype.Invalid.
//
// Integers take the narrowest signed type
// that holds them exactly; floats are Float32
// when the value survives a round-trip through
// 32 bits and Float64 otherwise.
//
// A token that is not literal-shaped, or whose
// shape disagrees with its value, is a caller
// bug and produces an assertion failure.
func Literal(tok string) (dtype.Type, error) {
	switch {
	case rex.IsNull(tok):
		return dtype.Invalid, nil
	case rex.IsBool(tok):
		return dtype.Bool8, nil
	case rex.IsNumber(tok):
		if strings.ContainsAny(tok, ".eE") {
			f, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return dtype.Invalid, errors.AssertionFailedf("float literal %q: %v", tok, err)
			}
			if float64(float32(f)) == f {
				return dtype.Float32, nil
			}
			return dtype.Float64, nil
		}
		i, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return dtype.Invalid, errors.AssertionFailedf("integer literal %q: %v", tok, err)
		}
		return intWidths[ints.Width(i)], nil
	case rex.IsDate(tok):
		return dtype.Date64, nil
	case rex.IsTimestamp(tok):
		return dtype.Timestamp, nil
	case rex.IsString(tok):
		return dtype.StringCategory, nil
	}
	return dtype.Invalid, errors.AssertionFailedf("%q is not a literal", tok)
}

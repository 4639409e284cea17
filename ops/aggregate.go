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

package ops

import (
	"strings"

	"github.com/SnellerInc/rexpr/rex"
	"github.com/cockroachdb/errors"
)

// AggregateOp is one of the aggregation operations
type AggregateOp int

const (
	// OpNone is the zero value; it names no aggregation.
	OpNone AggregateOp = iota

	// OpSum is SUM(...)
	OpSum

	// OpAvg is AVG(...)
	OpAvg

	// OpMin is MIN(...)
	OpMin

	// OpMax is MAX(...)
	OpMax

	// OpCount is COUNT(...)
	OpCount

	// OpCountDistinct is COUNT(DISTINCT ...),
	// spelled COUNT_DISTINCT once normalized
	OpCountDistinct
)

func (a AggregateOp) String() string {
	switch a {
	case OpSum:
		return "SUM"
	case OpAvg:
		return "AVG"
	case OpMin:
		return "MIN"
	case OpMax:
		return "MAX"
	case OpCount:
		return "COUNT"
	case OpCountDistinct:
		return "COUNT_DISTINCT"
	default:
		return "NONE"
	}
}

// DisplayName returns the lowercase name of a,
// or the empty string for OpNone.
func (a AggregateOp) DisplayName() string {
	switch a {
	case OpSum:
		return "sum"
	case OpAvg:
		return "avg"
	case OpMin:
		return "min"
	case OpMax:
		return "max"
	case OpCount:
		return "count"
	case OpCountDistinct:
		return "count_distinct"
	default:
		return ""
	}
}

// LookupAggregate maps an aggregation function
// name to its AggregateOp. Names are matched
// case-insensitively.
func LookupAggregate(name string) (AggregateOp, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "SUM", "$SUM0":
		return OpSum, nil
	case "AVG":
		return OpAvg, nil
	case "MIN":
		return OpMin, nil
	case "MAX":
		return OpMax, nil
	case "COUNT":
		return OpCount, nil
	case "COUNT_DISTINCT":
		return OpCountDistinct, nil
	}
	return OpNone, errors.Wrapf(ErrUnknownOperator, "aggregation %q", name)
}

// ParseAggregate extracts the aggregation from a
// planner annotation such as
//
//	EXPR$0=[COUNT(DISTINCT $1)]
//
// When text has no "=[" annotation the whole text
// is taken as the call. The text is rewritten
// first, so COUNT(DISTINCT x) maps to OpCountDistinct.
func ParseAggregate(text string) (AggregateOp, error) {
	call := rex.Rewrite(text)
	if i := strings.Index(call, "=["); i >= 0 {
		call = call[i+2:]
		if j := strings.IndexByte(call, ']'); j >= 0 {
			call = call[:j]
		}
	}
	if j := strings.IndexByte(call, '('); j >= 0 {
		call = call[:j]
	}
	return LookupAggregate(call)
}

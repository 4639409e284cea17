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
	"github.com/cockroachdb/errors"
)

// Aggregate returns the type of applying
// the aggregate op to values of type in.
// Grouped sums keep their input type, since
// each group accumulates in place.
func Aggregate(in dtype.Type, op ops.AggregateOp, grouped bool) (dtype.Type, error) {
	switch op {
	case ops.OpCount, ops.OpCountDistinct:
		return dtype.Int64, nil
	case ops.OpSum:
		if grouped {
			return in, nil
		}
		if in.Float() {
			return dtype.Float64, nil
		}
		return dtype.Int64, nil
	case ops.OpMin, ops.OpMax:
		return in, nil
	case ops.OpAvg:
		return dtype.Float64, nil
	}
	return dtype.Invalid, errors.Wrapf(ErrUnsupported, "aggregate %s", op)
}

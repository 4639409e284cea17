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

	"github.com/apache/arrow/go/v17/arrow"
)

// ArrowUnit converts u to the equivalent
// arrow unit. UnitNone maps to milliseconds,
// which is how the engine stores timestamps
// that were declared without a unit.
func (u TimeUnit) ArrowUnit() arrow.TimeUnit {
	switch u {
	case Second:
		return arrow.Second
	case Microsecond:
		return arrow.Microsecond
	case Nanosecond:
		return arrow.Nanosecond
	default:
		return arrow.Millisecond
	}
}

// UnitFromArrow is the inverse of ArrowUnit.
func UnitFromArrow(u arrow.TimeUnit) TimeUnit {
	switch u {
	case arrow.Second:
		return Second
	case arrow.Millisecond:
		return Millisecond
	case arrow.Microsecond:
		return Microsecond
	case arrow.Nanosecond:
		return Nanosecond
	}
	return UnitNone
}

// ToArrow returns the arrow data type
// that holds values described by d.
func ToArrow(d Desc) (arrow.DataType, error) {
	switch d.Type {
	case Int8:
		return arrow.PrimitiveTypes.Int8, nil
	case Int16:
		return arrow.PrimitiveTypes.Int16, nil
	case Int32:
		return arrow.PrimitiveTypes.Int32, nil
	case Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case Float32:
		return arrow.PrimitiveTypes.Float32, nil
	case Float64:
		return arrow.PrimitiveTypes.Float64, nil
	case Bool8:
		return arrow.FixedWidthTypes.Boolean, nil
	case Date32:
		return arrow.PrimitiveTypes.Date32, nil
	case Date64:
		return arrow.PrimitiveTypes.Date64, nil
	case Timestamp:
		return &arrow.TimestampType{Unit: d.Unit.ArrowUnit()}, nil
	case String:
		return arrow.BinaryTypes.String, nil
	case StringCategory:
		return &arrow.DictionaryType{
			IndexType: arrow.PrimitiveTypes.Int32,
			ValueType: arrow.BinaryTypes.String,
		}, nil
	}
	return nil, fmt.Errorf("dtype: no arrow representation for %s", d)
}

// FromArrow returns the Desc that corresponds
// to the arrow data type dt. Dictionaries are
// accepted only when their values are strings.
func FromArrow(dt arrow.DataType) (Desc, error) {
	switch dt.ID() {
	case arrow.INT8:
		return Of(Int8), nil
	case arrow.INT16:
		return Of(Int16), nil
	case arrow.INT32:
		return Of(Int32), nil
	case arrow.INT64:
		return Of(Int64), nil
	case arrow.FLOAT32:
		return Of(Float32), nil
	case arrow.FLOAT64:
		return Of(Float64), nil
	case arrow.BOOL:
		return Of(Bool8), nil
	case arrow.DATE32:
		return Of(Date32), nil
	case arrow.DATE64:
		return Of(Date64), nil
	case arrow.TIMESTAMP:
		ts := dt.(*arrow.TimestampType)
		return TimestampOf(UnitFromArrow(ts.Unit)), nil
	case arrow.STRING, arrow.LARGE_STRING:
		return Of(String), nil
	case arrow.DICTIONARY:
		dict := dt.(*arrow.DictionaryType)
		switch dict.ValueType.ID() {
		case arrow.STRING, arrow.LARGE_STRING:
			return Of(StringCategory), nil
		}
	}
	return Desc{}, fmt.Errorf("dtype: unsupported arrow type %s", dt)
}

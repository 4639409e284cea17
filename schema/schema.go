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

// Package schema describes the input columns
// that row-expressions refer to by ordinal.
package schema

import (
	"encoding/binary"
	"os"

	"github.com/SnellerInc/rexpr/dtype"
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/cockroachdb/errors"
	"github.com/dchest/siphash"
	"sigs.k8s.io/yaml"
)

// Schema is a read-only, ordinal-indexed list
// of column types. Implementations must be
// safe for concurrent reads.
type Schema interface {
	// NumColumns returns the number of columns.
	NumColumns() int
	// Column returns the type of column i
	// for 0 <= i < NumColumns().
	Column(i int) dtype.Desc
}

// Column is one named, typed column.
type Column struct {
	Name string         `json:"name"`
	Type dtype.Type     `json:"type"`
	Unit dtype.TimeUnit `json:"unit,omitempty"`
}

// Desc returns the type descriptor of c.
func (c Column) Desc() dtype.Desc {
	return dtype.Desc{Type: c.Type, Unit: c.Unit}
}

// Static is a Schema held in memory.
type Static []Column

// NumColumns implements Schema.NumColumns
func (s Static) NumColumns() int { return len(s) }

// Column implements Schema.Column
func (s Static) Column(i int) dtype.Desc {
	if i < 0 || i >= len(s) {
		return dtype.Desc{}
	}
	return s[i].Desc()
}

// Index returns the ordinal of the
// column called name, or -1.
func (s Static) Index(name string) int {
	for i := range s {
		if s[i].Name == name {
			return i
		}
	}
	return -1
}

func (s Static) validate() error {
	for i := range s {
		c := &s[i]
		if !c.Type.Valid() {
			return errors.Newf("column %d (%q): missing or invalid type", i, c.Name)
		}
		if c.Unit != dtype.UnitNone && c.Type != dtype.Timestamp {
			return errors.Newf("column %d (%q): unit %s on non-timestamp type %s", i, c.Name, c.Unit, c.Type)
		}
	}
	return nil
}

type definition struct {
	Columns Static `json:"columns"`
}

// Decode parses a schema definition. The
// definition may be YAML or JSON:
//
//	columns:
//	  - name: id
//	    type: int64
//	  - name: created
//	    type: timestamp
//	    unit: ms
func Decode(buf []byte) (Static, error) {
	var def definition
	if err := yaml.UnmarshalStrict(buf, &def); err != nil {
		return nil, errors.Wrap(err, "schema: decoding definition")
	}
	if err := def.Columns.validate(); err != nil {
		return nil, errors.Wrap(err, "schema")
	}
	return def.Columns, nil
}

// Encode is the inverse of Decode.
// It produces YAML.
func Encode(s Static) ([]byte, error) {
	return yaml.Marshal(definition{Columns: s})
}

// Open reads and decodes the schema
// definition stored at path.
func Open(path string) (Static, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Decode(buf)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return s, nil
}

// FromArrow converts an arrow schema. Every
// field must have a type in the closed set
// understood by the engine.
func FromArrow(as *arrow.Schema) (Static, error) {
	out := make(Static, 0, as.NumFields())
	for i, f := range as.Fields() {
		d, err := dtype.FromArrow(f.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "field %d (%q)", i, f.Name)
		}
		out = append(out, Column{Name: f.Name, Type: d.Type, Unit: d.Unit})
	}
	return out, nil
}

// ToArrow converts s into an arrow schema
// with nullable fields.
func ToArrow(s Static) (*arrow.Schema, error) {
	fields := make([]arrow.Field, len(s))
	for i := range s {
		dt, err := dtype.ToArrow(s[i].Desc())
		if err != nil {
			return nil, errors.Wrapf(err, "column %d (%q)", i, s[i].Name)
		}
		fields[i] = arrow.Field{Name: s[i].Name, Type: dt, Nullable: true}
	}
	return arrow.NewSchema(fields, nil), nil
}

// HasTimestamp returns whether any
// column of s is a Timestamp.
func HasTimestamp(s Schema) bool {
	for i, n := 0, s.NumColumns(); i < n; i++ {
		if s.Column(i).Type == dtype.Timestamp {
			return true
		}
	}
	return false
}

const (
	k0, k1 = 0, 1
)

// Fingerprint returns a hash of the column
// types of s. Schemas with the same sequence
// of types and units have the same fingerprint
// regardless of column names.
func Fingerprint(s Schema) uint64 {
	n := s.NumColumns()
	buf := make([]byte, 4, 4+2*n)
	binary.LittleEndian.PutUint32(buf, uint32(n))
	for i := 0; i < n; i++ {
		d := s.Column(i)
		buf = append(buf, byte(d.Type), byte(d.Unit))
	}
	return siphash.Hash(k0, k1, buf)
}

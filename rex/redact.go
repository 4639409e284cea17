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

package rex

import (
	"github.com/cockroachdb/redact"
)

// Redact renders flattened text with every
// user-supplied constant marked as unsafe, so
// that log sinks can strip query literals while
// keeping operators and column references.
// null, true and false are not considered
// sensitive.
func Redact(flat string) redact.RedactableString {
	var b redact.StringBuilder
	for i, tok := range fields(flat) {
		if i > 0 {
			b.SafeString(" ")
		}
		if IsLiteral(tok) && !IsNull(tok) && !IsBool(tok) {
			b.UnsafeString(tok)
			continue
		}
		b.SafeString(redact.SafeString(tok))
	}
	return b.RedactableString()
}

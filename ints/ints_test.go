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

package ints

import (
	"math"
	"testing"
)

func TestWidth(t *testing.T) {
	testcases := []struct {
		v    int64
		want int
	}{
		{0, 1},
		{5, 1},
		{127, 1},
		{-128, 1},
		{128, 2},
		{-129, 2},
		{200, 2},
		{math.MaxInt16, 2},
		{40000, 4},
		{math.MinInt32, 4},
		{math.MaxInt32 + 1, 8},
		{3000000000, 8},
		{math.MinInt64, 8},
	}
	for i := range testcases {
		if got := Width(testcases[i].v); got != testcases[i].want {
			t.Errorf("Width(%d): got %d; wanted %d", testcases[i].v, got, testcases[i].want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(-5, 0, 10); got != 0 {
		t.Errorf("got %d; wanted 0", got)
	}
	if got := Clamp(50, 0, 10); got != 10 {
		t.Errorf("got %d; wanted 10", got)
	}
	if got := Clamp(7, 0, 10); got != 7 {
		t.Errorf("got %d; wanted 7", got)
	}
}

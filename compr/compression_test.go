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

package compr

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	testcases := []struct {
		path, want string
	}{
		{"exprs.txt", ""},
		{"exprs.txt.zst", "zstd"},
		{"dir.s2/exprs", ""},
		{"/tmp/exprs.s2", "s2"},
	}
	for i := range testcases {
		if got := Detect(testcases[i].path); got != testcases[i].want {
			t.Errorf("Detect(%q): got %q; wanted %q", testcases[i].path, got, testcases[i].want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	text := strings.Repeat(">($0, 5)\nAND(=($1, 'x'), <($2, 3))\n", 100)
	for _, name := range []string{"zstd", "zstd-better", "s2"} {
		var buf bytes.Buffer
		w, err := NewWriter(name, &buf)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.WriteString(w, text); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
		readname := name
		if name == "zstd-better" {
			readname = "zstd"
		}
		r, err := NewReader(readname, &buf)
		if err != nil {
			t.Fatal(err)
		}
		got, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			t.Fatalf("%s: %s", name, err)
		}
		if string(got) != text {
			t.Errorf("%s: round-trip mismatch", name)
		}
	}
}

func TestUnknown(t *testing.T) {
	if _, err := NewReader("lz4", strings.NewReader("")); err == nil {
		t.Error("expected an error for lz4")
	}
	if _, err := NewWriter("gzip", io.Discard); err == nil {
		t.Error("expected an error for gzip")
	}
	r, err := NewReader("", strings.NewReader("plain"))
	if err != nil {
		t.Fatal(err)
	}
	got, _ := io.ReadAll(r)
	if string(got) != "plain" {
		t.Errorf("got %q", got)
	}
}

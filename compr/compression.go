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

// Package compr provides a unified interface wrapping
// third-party compression libraries.
package compr

import (
	"fmt"
	"io"
	"path"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
)

// Detect returns the name of the compression
// algorithm implied by the extension of p,
// or the empty string if p looks uncompressed.
func Detect(p string) string {
	switch path.Ext(p) {
	case ".zst", ".zstd":
		return "zstd"
	case ".s2":
		return "s2"
	}
	return ""
}

// NewReader returns a reader that decompresses
// the stream r using the named algorithm.
// The empty name returns r unchanged.
func NewReader(name string, r io.Reader) (io.ReadCloser, error) {
	switch name {
	case "":
		return io.NopCloser(r), nil
	case "zstd":
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case "s2":
		return io.NopCloser(s2.NewReader(r)), nil
	}
	return nil, fmt.Errorf("compr: unknown compression %q", name)
}

// NewWriter returns a writer that compresses
// into w using the named algorithm. The caller
// must Close the returned writer to flush it.
func NewWriter(name string, w io.Writer) (io.WriteCloser, error) {
	switch name {
	case "zstd-better":
		return zstd.NewWriter(w,
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
			zstd.WithEncoderConcurrency(1))
	case "zstd":
		return zstd.NewWriter(w, zstd.WithEncoderConcurrency(1))
	case "s2":
		return s2.NewWriter(w), nil
	}
	return nil, fmt.Errorf("compr: unknown compression %q", name)
}

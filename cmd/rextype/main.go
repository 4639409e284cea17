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

// Command rextype prints the canonical form
// and inferred type of planner row-expressions.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/SnellerInc/rexpr"
	"github.com/SnellerInc/rexpr/compr"
	"github.com/SnellerInc/rexpr/rex"
	"github.com/SnellerInc/rexpr/schema"
	"github.com/google/uuid"
)

var (
	dashs string
	dashi string
	dashf bool
	dasha bool
	dashg bool
	dashv bool
	dashh bool
)

func init() {
	flag.StringVar(&dashs, "s", "", "schema definition file (YAML or JSON)")
	flag.StringVar(&dashi, "i", "", "read expressions from this file (or - for stdin), one per line")
	flag.BoolVar(&dashf, "f", false, "treat arguments as files of expressions, one per line")
	flag.BoolVar(&dasha, "a", false, "treat inputs as aggregation annotations")
	flag.BoolVar(&dashg, "g", false, "aggregations are grouped")
	flag.BoolVar(&dashv, "v", false, "verbose")
	flag.BoolVar(&dashh, "h", false, "show usage help")
}

func exitf(f string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, f, args...)
	os.Exit(1)
}

// runner analyzes inputs and writes one
// result line per input to out
type runner struct {
	a         *rexpr.Analyzer
	aggregate bool
	grouped   bool
	out       io.Writer
	errout    io.Writer
	failed    int
}

// aggregateInput returns the ordinal of the
// column an aggregation call reads, or -1
func aggregateInput(text string) int {
	i := strings.IndexByte(text, '(')
	j := strings.LastIndexByte(text, ')')
	if i < 0 || j <= i {
		return -1
	}
	arg := strings.TrimSpace(text[i+1 : j])
	if len(arg) > len("DISTINCT ") && strings.EqualFold(arg[:len("DISTINCT ")], "DISTINCT ") {
		arg = strings.TrimSpace(arg[len("DISTINCT "):])
	}
	if !rex.IsColumn(arg) {
		return -1
	}
	n, err := rex.ColumnIndex(arg)
	if err != nil {
		return -1
	}
	return n
}

func (r *runner) one(text string) {
	text = strings.TrimSpace(text)
	if text == "" || strings.HasPrefix(text, "#") {
		return
	}
	if r.aggregate {
		typ, err := r.a.AggregateType(text, aggregateInput(text), r.grouped)
		if err != nil {
			r.failed++
			fmt.Fprintf(r.errout, "%s: %s\n", text, err)
			return
		}
		fmt.Fprintf(r.out, "%s\t%s\n", text, typ)
		return
	}
	an, err := r.a.Analyze(text)
	if err != nil {
		r.failed++
		fmt.Fprintf(r.errout, "%s: %s\n", text, err)
		return
	}
	fmt.Fprintf(r.out, "%s\t%s\t%s\n", an.Clean, an.Type, an.Widest)
}

func (r *runner) lines(rd io.Reader) error {
	s := bufio.NewScanner(rd)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for s.Scan() {
		r.one(s.Text())
	}
	return s.Err()
}

// file reads expressions from path, decompressing
// it when its extension names a compression
func (r *runner) file(path string) error {
	var f io.ReadCloser = os.Stdin
	if path != "-" {
		fp, err := os.Open(path)
		if err != nil {
			return err
		}
		defer fp.Close()
		f = fp
	}
	rd, err := compr.NewReader(compr.Detect(path), f)
	if err != nil {
		return err
	}
	defer rd.Close()
	return r.lines(rd)
}

func main() {
	flag.Parse()
	args := flag.Args()
	if dashh || (len(args) == 0 && dashi == "") {
		fmt.Fprintf(os.Stderr, "usage:\n")
		fmt.Fprintf(os.Stderr, "    %s [-s schema.yaml] [-a [-g]] [-v] expr...\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "    %s [-s schema.yaml] [-a [-g]] [-v] -f file...\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "    %s [-s schema.yaml] [-a [-g]] [-v] -i file\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "flag usage:\n")
		flag.Usage()
		os.Exit(1)
	}

	var s schema.Static
	if dashs != "" {
		var err error
		s, err = schema.Open(dashs)
		if err != nil {
			exitf("%s\n", err)
		}
	}
	var opts []rexpr.Option
	if dashv {
		id := uuid.New().String()
		logger := log.New(os.Stderr, "rextype "+id[:8]+" ", log.Lmsgprefix)
		logger.Printf("schema %q: %d columns", dashs, len(s))
		opts = append(opts, rexpr.WithLogger(logger))
	}
	r := &runner{
		a:         rexpr.New(s, append(opts, rexpr.WithCache(1024))...),
		aggregate: dasha,
		grouped:   dashg,
		out:       os.Stdout,
		errout:    os.Stderr,
	}
	if dashi != "" {
		if err := r.file(dashi); err != nil {
			exitf("%s: %s\n", dashi, err)
		}
	}
	for _, arg := range args {
		if !dashf {
			r.one(arg)
			continue
		}
		if err := r.file(arg); err != nil {
			exitf("%s: %s\n", arg, err)
		}
	}
	if r.failed > 0 {
		os.Exit(1)
	}
}

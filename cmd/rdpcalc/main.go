package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"github.com/peterh/liner"

	"github.com/zephyrtronium/rdpcalc"
	"github.com/zephyrtronium/rdpcalc/internal/tape"
)

const historyFile = ".rdpcalc_history"

type definition struct {
	name, value string
	readOnly    bool
}

func main() {
	os.Exit(run())
}

func run() int {
	log.SetDefaultsForClientTools()
	var (
		inname, tapename string
		defs             []definition
		places, limit    int
		prec             uint
		interactive      bool
		verbose          bool
	)
	adddef := func(readOnly bool) func(string) error {
		return func(s string) error {
			d := strings.SplitN(s, "=", 2)
			if len(d) != 2 {
				return fmt.Errorf(`definitions must be "name=value", not %q`, s)
			}
			defs = append(defs, definition{strings.TrimSpace(d[0]), strings.TrimSpace(d[1]), readOnly})
			return nil
		}
	}
	flag.StringVar(&inname, "in", "", "input file (default first argument, or stdin)")
	flag.IntVar(&places, "places", 6, "digits after the decimal point in results")
	flag.IntVar(&limit, "limit", rdpcalc.DefaultInputLimit, "bytes of program text to read")
	flag.UintVar(&prec, "prec", 0, "bits of precision for powers, factorials, cube roots and logarithms (0 for float64)")
	flag.Func("given", "name=value variable definition (any number of times)", adddef(false))
	flag.Func("const", "name=value constant definition (any number of times)", adddef(true))
	flag.BoolVar(&interactive, "repl", false, "read programs interactively, one per line")
	flag.StringVar(&tapename, "tape", "", "SQLite file recording every evaluation")
	flag.BoolVar(&verbose, "v", false, "trace evaluation")
	flag.Parse()
	if verbose {
		log.SetLogLevel(log.Verbose)
	}
	if limit <= 0 {
		log.Errf("input limit (%d) must be positive", limit)
		return 1
	}

	ctx := rdpcalc.NewContext(rdpcalc.InputLimit(limit), rdpcalc.Prec(prec))
	for _, d := range defs {
		v, err := rdpcalc.EvalString(d.value, rdpcalc.Prec(prec))
		if err == nil {
			if d.readOnly {
				err = ctx.SetConst(d.name, v)
			} else {
				err = ctx.Set(d.name, v)
			}
		}
		if err != nil {
			log.Errf("setting %s: %v", d.name, err)
			return 1
		}
	}

	var tp *tape.Tape
	if tapename != "" {
		var err error
		tp, err = tape.Open(context.Background(), tapename)
		if err != nil {
			log.Errf("%v", err)
			return 1
		}
		defer tp.Close()
	}

	if interactive {
		return repl(ctx, tp, places)
	}

	in, err := infile(inname, flag.Args())
	if err != nil {
		log.Errf("%v", err)
		return 1
	}
	defer in.Close()
	src, err := io.ReadAll(io.LimitReader(in, int64(limit)))
	if err != nil {
		log.Errf("reading input: %v", err)
		return 1
	}
	v, err := ctx.Eval(bytes.NewReader(src))
	record(tp, string(src), v, err)
	if err != nil {
		log.Errf("%v", err)
		return 1
	}
	fmt.Printf("Value: %s.\n", rdpcalc.Format(v, places))
	return 0
}

// infile opens the program input: the -in file, else the first argument,
// else stdin.
func infile(inname string, args []string) (io.ReadCloser, error) {
	if inname == "" && len(args) > 0 {
		inname = args[0]
	}
	if inname == "" || inname == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(inname)
	if err != nil {
		return nil, fmt.Errorf("input stream %s could not be opened: %w", inname, err)
	}
	return f, nil
}

func record(tp *tape.Tape, src string, v float64, evalErr error) {
	if tp == nil {
		return
	}
	if _, err := tp.Record(context.Background(), src, v, evalErr); err != nil {
		log.Warnf("%v", err)
	}
}

func repl(ctx *rdpcalc.Context, tp *tape.Tape, places int) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sess := session{ctx: ctx, tp: tp, places: places, out: os.Stdout, errs: os.Stderr}
	for {
		line, err := ln.Prompt("> ")
		switch {
		case errors.Is(err, io.EOF):
			fmt.Println()
			return 0
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case err != nil:
			log.Errf("%v", err)
			return 1
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)
		if sess.exec(line) {
			return 0
		}
	}
}

// session executes REPL lines against one context.
type session struct {
	ctx    *rdpcalc.Context
	tp     *tape.Tape
	places int
	out    io.Writer
	errs   io.Writer
}

// exec runs one non-empty line, either a command or a program. It reports
// whether the line asked to quit.
func (s *session) exec(line string) bool {
	switch {
	case line == ":quit":
		return true
	case line == ":vars":
		for _, b := range s.ctx.Bindings() {
			kind := "var"
			if b.IsConst() {
				kind = "const"
			}
			fmt.Fprintf(s.out, "%-5s %s = %s\n", kind, b.Name, rdpcalc.Format(b.Value, s.places))
		}
	case line == ":tape":
		printTape(s.out, s.tp, s.places)
	case strings.HasPrefix(line, ":"):
		fmt.Fprintln(s.out, "unknown command; try :vars, :tape or :quit")
	default:
		v, err := s.ctx.EvalString(line)
		record(s.tp, line, v, err)
		if err != nil {
			fmt.Fprintln(s.errs, err)
		} else {
			fmt.Fprintf(s.out, "Value: %s.\n", rdpcalc.Format(v, s.places))
		}
	}
	return false
}

func printTape(w io.Writer, tp *tape.Tape, places int) {
	if tp == nil {
		fmt.Fprintln(w, "no tape; start with -tape to record evaluations")
		return
	}
	entries, err := tp.Recent(context.Background(), 10)
	if err != nil {
		log.Errf("%v", err)
		return
	}
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		res := rdpcalc.Format(e.Value, places)
		if e.Err != "" {
			res = e.Err
		}
		fmt.Fprintf(w, "%s  %s  =>  %s\n", e.At.Format("15:04:05"), e.Source, res)
	}
}

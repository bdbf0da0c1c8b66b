package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/byvalue"
	"github.com/wippyai/byvalue/engine"
	"github.com/wippyai/byvalue/layout"
)

type options struct {
	via         string
	capacity    uint
	showLayout  bool
	verbose     bool
	interactive bool
	record      byvalue.ByValue
}

func main() {
	os.Exit(realMain())
}

func realMain() int {
	opts := options{record: engine.Reference}
	flag.Var((*s32Flag)(&opts.record.Abcd), "abcd", "abcd (s32)")
	flag.Var((*s32Flag)(&opts.record.FirstStruct.A), "a", "first_struct.a (s32)")
	flag.Float64Var(&opts.record.FirstStruct.B, "b", opts.record.FirstStruct.B, "first_struct.b (f64)")
	flag.Float64Var(&opts.record.SecondStruct.C, "c", opts.record.SecondStruct.C, "second_struct.c (f64)")
	flag.Var((*s32Flag)(&opts.record.SecondStruct.D), "d", "second_struct.d (s32)")
	flag.StringVar(&opts.via, "via", "direct", "Boundary to render through: direct or wasm")
	flag.UintVar(&opts.capacity, "cap", 0, "Output capacity in bytes for -via wasm (0 = 1024)")
	flag.BoolVar(&opts.showLayout, "layout", false, "Print the record layout and exit")
	flag.BoolVar(&opts.verbose, "v", false, "Debug logging")
	flag.BoolVar(&opts.interactive, "i", false, "Interactive mode with TUI")
	if err := flag.CommandLine.Parse(os.Args[1:]); err != nil {
		return 2
	}

	if opts.verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: logger: %v\n", err)
			return 1
		}
		defer log.Sync()
		engine.SetLogger(log)
	}

	var err error
	if opts.interactive {
		err = runInteractive(opts)
	} else {
		err = run(context.Background(), opts, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, opts options, out io.Writer) error {
	if opts.showLayout {
		_, err := fmt.Fprint(out, layout.ByValue().String())
		return err
	}

	switch opts.via {
	case "direct":
		_, err := fmt.Fprintln(out, byvalue.Marshal(opts.record))
		return err

	case "wasm":
		return runWasm(ctx, opts, out)

	default:
		return fmt.Errorf("unknown -via %q (want direct or wasm)", opts.via)
	}
}

func runWasm(ctx context.Context, opts options, out io.Writer) (err error) {
	if opts.capacity > uint(engine.MaxOutputCapacity) {
		return fmt.Errorf("-cap %d exceeds %d", opts.capacity, engine.MaxOutputCapacity)
	}
	e, err := engine.New(ctx, &engine.Config{OutputCapacity: uint32(opts.capacity)})
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	defer func() {
		if closeErr := e.Close(ctx); closeErr != nil && err == nil {
			err = fmt.Errorf("close engine: %w", closeErr)
		}
	}()

	res, err := e.Call(ctx, opts.record)
	if err != nil {
		return fmt.Errorf("call: %w", err)
	}
	if truncErr := res.Err(); truncErr != nil {
		engine.Logger().Warn("output truncated",
			zap.Uint32("capacity", e.Capacity()),
			zap.Error(truncErr))
	}
	_, err = fmt.Fprintln(out, res.Text)
	return err
}

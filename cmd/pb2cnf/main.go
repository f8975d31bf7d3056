// Command pb2cnf encodes a pseudo-Boolean OPB instance to CNF, optionally
// alongside a VeriPB cutting-planes proof.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pflow-xyz/pb2cnf/encode"
	"github.com/pflow-xyz/pb2cnf/opb"
	"github.com/pflow-xyz/pb2cnf/stats"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "c ERROR! %v\n", err)
		fmt.Println("s UNKNOWN")
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("pb2cnf", flag.ContinueOnError)
	card := fs.Int("card", 0, "cardinality scheme: 0=sequential, 1=totalizer")
	pb := fs.Int("pb", 0, "pseudo-Boolean scheme: 0=gte, 1=adder")
	verified := fs.Int("verified", 0, "emit a cutting-planes proof: 0=no, 1=yes")
	proofOut := fs.Int("proof", 0, "write the .pbp proof file: 0=no, 1=yes")
	statsMode := fs.Int("stats", 0, "skip encoding, print size histograms: 0=no, 1=yes")
	outDir := fs.String("outdir", ".", "directory to write <name>.cnf/.pbp into")
	statsDB := fs.String("statsdb", "stats.db", "sqlite database path for --stats persistence")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: pb2cnf [options] <input.opb> [more.opb ...]

Encode pseudo-Boolean OPB instances to CNF, optionally with a VeriPB
cutting-planes proof.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return errors.New("at least one input.opb is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGXCPU)
	defer stop()
	done := make(chan struct{})
	defer close(done)
	go watchSignal(ctx, done)

	plan := encode.Plan{
		CardScheme: cardScheme(*card),
		PBScheme:   pbScheme(*pb),
		Verify:     *verified != 0,
	}

	if *statsMode != 0 {
		return runStats(fs.Args(), *statsDB, plan)
	}

	paths := fs.Args()
	if len(paths) == 1 {
		_, err := encode.EncodeFile(paths[0], *outDir, plan, *proofOut != 0)
		return err
	}
	_, err := encode.EncodeFiles(paths, *outDir, plan, *proofOut != 0)
	return err
}

func cardScheme(card int) encode.Scheme {
	if card == 1 {
		return encode.Totalizer
	}
	return encode.Sequential
}

func pbScheme(pb int) encode.Scheme {
	if pb == 1 {
		return encode.Adder
	}
	return encode.GTE
}

func runStats(paths []string, dbPath string, plan encode.Plan) error {
	store, err := stats.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return fmt.Errorf("opening %s: %w", p, err)
		}
		res, err := opb.Parse(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parsing %s: %w", p, err)
		}

		if err := res.Formula.CheckOverflow(); err != nil {
			return err
		}

		name := filepath.Base(p)
		if _, err := store.Record(name, plan, res.Formula); err != nil {
			return err
		}
		hist, err := store.Histogram(name)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d cardinality, %d pseudo-Boolean, histogram=%v\n",
			name, len(res.Formula.Cards), len(res.Formula.PBs), hist)
	}
	return nil
}

// watchSignal logs and exits with the required "s UNKNOWN" line the moment
// the installed SIGTERM/SIGXCPU/interrupt handler fires, unless the run
// already finished normally (done closes first).
func watchSignal(ctx context.Context, done chan struct{}) {
	select {
	case <-done:
		return
	case <-ctx.Done():
		slog.Error("received termination signal, aborting encode", "err", ctx.Err())
		fmt.Println("s UNKNOWN")
		os.Exit(1)
	}
}

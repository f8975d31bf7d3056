package encode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pflow-xyz/pb2cnf/ioformat"
	"github.com/pflow-xyz/pb2cnf/opb"
)

// FileResult is the outcome of encoding one OPB input file.
type FileResult struct {
	Input string
	Name  string
	Plan  Plan
}

// EncodeFile parses the OPB file at path, encodes every stored constraint
// per plan, and writes "<stem>.cnf" (and, if plan.Verify and writeProof,
// "<stem>.pbp") into outDir.
func EncodeFile(path, outDir string, plan Plan, writeProof bool) (*FileResult, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("encode: opening %s: %w", path, err)
	}
	defer in.Close()

	res, err := opb.Parse(in)
	if err != nil {
		return nil, fmt.Errorf("encode: parsing %s: %w", path, err)
	}
	if err := res.Formula.CheckOverflow(); err != nil {
		return nil, fmt.Errorf("encode: %s: %w", path, err)
	}

	FormulaWithPlan(res.Formula, plan)

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := ioformat.WriteResult(outDir, stem, res.Formula, plan.Verify && writeProof); err != nil {
		return nil, fmt.Errorf("encode: writing output for %s: %w", path, err)
	}

	return &FileResult{Input: path, Name: stem, Plan: plan}, nil
}

// EncodeFiles drives EncodeFile over every path concurrently via an
// errgroup: each path parses into its own Formula, so the concurrent runs
// share no mutable state. Every path is encoded to completion, even after
// one fails; the first error is returned, and output already written to
// disk for other paths is left in place.
func EncodeFiles(paths []string, outDir string, plan Plan, writeProof bool) ([]*FileResult, error) {
	results := make([]*FileResult, len(paths))

	var g errgroup.Group
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			res, err := EncodeFile(p, outDir, plan, writeProof)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Package ioformat serializes an encoded pbc.Formula to the two on-disk
// artifacts a run produces: a DIMACS-style .cnf file and, when a verified
// scheme was used, a .pbp cutting-planes proof.
package ioformat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pflow-xyz/pb2cnf/pbc"
)

// WriteCNF writes f's hard clauses in DIMACS form: a "p cnf V H" header,
// then one line per clause of space-separated signed integers terminated
// by 0. Variable ids are f's external (1-indexed, name-remapped) ids.
func WriteCNF(w io.Writer, f *pbc.Formula) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "p cnf %d %d\n", f.NVars(), f.NHard()); err != nil {
		return fmt.Errorf("ioformat: writing cnf header: %w", err)
	}
	for i := 0; i < f.NHard(); i++ {
		cl := f.Hard(i)
		for _, l := range cl {
			id := int(l.Var()) + 1
			if n, err := strconv.Atoi(strings.TrimPrefix(f.Name(l.Var()), "x")); err == nil {
				id = n
			}
			if l.Negated() {
				id = -id
			}
			if _, err := fmt.Fprintf(bw, "%d ", id); err != nil {
				return fmt.Errorf("ioformat: writing clause %d: %w", i, err)
			}
		}
		if _, err := bw.WriteString("0\n"); err != nil {
			return fmt.Errorf("ioformat: writing clause %d terminator: %w", i, err)
		}
	}
	return bw.Flush()
}

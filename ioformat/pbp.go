package ioformat

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pflow-xyz/pb2cnf/pbc"
	"github.com/pflow-xyz/pb2cnf/sat"
)

// WritePBP writes f's cutting-planes proof in the per-constraint block form:
// header lines, then for each constraint (in input order) its proof
// expressions under a "# 1" / "# 0" scope, its attributed hard clauses as
// RUP lines, and a closing "w 1" weakening marker. Clauses attributed to no
// constraint (id 0) are emitted last, outside any scope.
func WritePBP(w io.Writer, f *pbc.Formula) error {
	bw := bufio.NewWriter(w)
	name := f.Name

	if _, err := bw.WriteString("pseudo-Boolean proof version 1.2\nf\n"); err != nil {
		return fmt.Errorf("ioformat: writing pbp header: %w", err)
	}

	for _, ctr := range f.Order {
		if _, err := bw.WriteString("# 1\n"); err != nil {
			return err
		}
		for _, idx := range ctr.ProofExprIDList() {
			if _, err := fmt.Fprintln(bw, f.ProofExpr(idx).Print(name)); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("# 0\n"); err != nil {
			return err
		}
		for _, idx := range ctr.ClauseIDList() {
			if _, err := fmt.Fprintln(bw, ruLine(f.Hard(idx), name)); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("w 1\n"); err != nil {
			return err
		}
	}

	for i := 0; i < f.NHard(); i++ {
		if f.HardOwner(i) != 0 {
			continue
		}
		if _, err := fmt.Fprintln(bw, ruLine(f.Hard(i), name)); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// ruLine renders clause as a RUP proof line: "u 1 [~]xV ... >= 1 ;", the
// same shape the proof-expression algebra uses for a KindU line, built here
// directly because these clauses were never wrapped in a proof.Expr.
func ruLine(clause sat.Clause, name func(sat.Var) string) string {
	var b strings.Builder
	b.WriteString("u ")
	for _, l := range clause {
		if l.Negated() {
			fmt.Fprintf(&b, "1 ~%s ", name(l.Var()))
		} else {
			fmt.Fprintf(&b, "1 %s ", name(l.Var()))
		}
	}
	b.WriteString(">= 1 ;")
	return b.String()
}

package gte

import (
	"testing"

	"github.com/pflow-xyz/pb2cnf/pbc"
	"github.com/pflow-xyz/pb2cnf/pbenc"
	"github.com/pflow-xyz/pb2cnf/sat"
)

func weightedLits(f *pbc.Formula, n int) ([]sat.Lit, []uint64) {
	lits := make([]sat.Lit, n)
	coeffs := make([]uint64, n)
	for i := range lits {
		lits[i] = f.NewLiteral(false)
		coeffs[i] = uint64(i + 1)
	}
	return lits, coeffs
}

func TestPlainLEQ(t *testing.T) {
	f := pbc.New()
	lits, coeffs := weightedLits(f, 4)
	ctr := &pbc.PB{Lits: lits, Coeffs: coeffs, RHS: 5, Sign: sat.LEQ, ID: 1}
	Plain{}.Encode(f, ctr, &pbenc.Weighted{Lits: lits, Coeffs: coeffs, RHS: 5, Sign: sat.LEQ, ID: 1})
	if f.NHard() == 0 {
		t.Fatalf("expected clauses to be emitted")
	}
}

func TestPlainGEQ(t *testing.T) {
	f := pbc.New()
	lits, coeffs := weightedLits(f, 4)
	ctr := &pbc.PB{Lits: lits, Coeffs: coeffs, RHS: 3, Sign: sat.GEQ, ID: 1}
	Plain{}.Encode(f, ctr, &pbenc.Weighted{Lits: lits, Coeffs: coeffs, RHS: 3, Sign: sat.GEQ, ID: 1})
	if f.NHard() == 0 {
		t.Fatalf("expected clauses to be emitted")
	}
}

func TestTrivialGEQZero(t *testing.T) {
	f := pbc.New()
	lits, coeffs := weightedLits(f, 3)
	Plain{}.Encode(f, &pbc.PB{ID: 1}, &pbenc.Weighted{Lits: lits, Coeffs: coeffs, RHS: 0, Sign: sat.GEQ, ID: 1})
	if f.NHard() != 0 {
		t.Errorf("rhs=0,GEQ should be a no-op, got %d clauses", f.NHard())
	}
}

func TestVerifiedEmitsProofLines(t *testing.T) {
	f := pbc.New()
	lits, coeffs := weightedLits(f, 4)
	ctr := &pbc.PB{Lits: lits, Coeffs: coeffs, RHS: 5, Sign: sat.LEQ, ID: 1}
	Verified{}.Encode(f, ctr, &pbenc.Weighted{Lits: lits, Coeffs: coeffs, RHS: 5, Sign: sat.LEQ, ID: 1})
	if f.NProofExprs() == 0 {
		t.Fatalf("expected proof lines to be emitted")
	}
}

func TestKSimplifyKeepsOneAboveBound(t *testing.T) {
	out := outMap{1: sat.MkLit(0, false), 2: sat.MkLit(1, false), 5: sat.MkLit(2, false), 9: sat.MkLit(3, false)}
	kSimplify(out, 3)
	if _, ok := out[5]; !ok {
		t.Errorf("expected the smallest weight above k (5) to survive")
	}
	if _, ok := out[9]; ok {
		t.Errorf("expected weight 9 to be discarded")
	}
	if len(out) != 3 {
		t.Errorf("len(out) = %d, want 3 (weights 1,2,5)", len(out))
	}
}

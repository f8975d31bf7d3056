package totalizer

import (
	"testing"

	"github.com/pflow-xyz/pb2cnf/pbc"
	"github.com/pflow-xyz/pb2cnf/pbenc"
	"github.com/pflow-xyz/pb2cnf/sat"
)

func fiveLits(f *pbc.Formula) []sat.Lit {
	out := make([]sat.Lit, 5)
	for i := range out {
		out[i] = f.NewLiteral(false)
	}
	return out
}

func TestPlainLEQ(t *testing.T) {
	f := pbc.New()
	lits := fiveLits(f)
	ctr := &pbc.Card{Lits: lits, RHS: 2, Sign: sat.LEQ, ID: 1}
	before := f.NVars()
	Plain{}.Encode(f, ctr, &pbenc.Weighted{Lits: lits, RHS: 2, Sign: sat.LEQ, ID: 1})
	if f.NVars() <= before {
		t.Fatalf("expected fresh auxiliary variables to be allocated")
	}
	if f.NHard() == 0 {
		t.Fatalf("expected clauses to be emitted")
	}
}

func TestPlainGEQ(t *testing.T) {
	f := pbc.New()
	lits := fiveLits(f)
	ctr := &pbc.Card{Lits: lits, RHS: 3, Sign: sat.GEQ, ID: 1}
	Plain{}.Encode(f, ctr, &pbenc.Weighted{Lits: lits, RHS: 3, Sign: sat.GEQ, ID: 1})
	if f.NHard() == 0 {
		t.Fatalf("expected clauses to be emitted")
	}
}

func TestVerifiedEmitsProofLines(t *testing.T) {
	f := pbc.New()
	lits := fiveLits(f)
	ctr := &pbc.Card{Lits: lits, RHS: 2, Sign: sat.LEQ, ID: 1}
	Verified{}.Encode(f, ctr, &pbenc.Weighted{Lits: lits, RHS: 2, Sign: sat.LEQ, ID: 1})
	if f.NProofExprs() == 0 {
		t.Fatalf("expected proof lines to be emitted")
	}
}

func TestSingleLiteralIsNoop(t *testing.T) {
	f := pbc.New()
	lits := []sat.Lit{f.NewLiteral(false)}
	ctr := &pbc.Card{Lits: lits, RHS: 1, Sign: sat.LEQ, ID: 1}
	Plain{}.Encode(f, ctr, &pbenc.Weighted{Lits: lits, RHS: 1, Sign: sat.LEQ, ID: 1})
	if f.NHard() != 0 {
		t.Errorf("single-literal LEQ rhs=1 should be a no-op, got %d clauses", f.NHard())
	}
}

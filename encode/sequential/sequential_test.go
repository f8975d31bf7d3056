package sequential

import (
	"testing"

	"github.com/pflow-xyz/pb2cnf/pbc"
	"github.com/pflow-xyz/pb2cnf/pbenc"
	"github.com/pflow-xyz/pb2cnf/sat"
)

func threeLits(f *pbc.Formula) []sat.Lit {
	return []sat.Lit{f.NewLiteral(false), f.NewLiteral(false), f.NewLiteral(false)}
}

func TestPlainLEQProducesUnitOutput(t *testing.T) {
	f := pbc.New()
	lits := threeLits(f)
	ctr := &pbc.Card{Lits: lits, RHS: 1, Sign: sat.LEQ, ID: 1}
	Plain{}.Encode(f, ctr, &pbenc.Weighted{Lits: lits, RHS: 1, Sign: sat.LEQ, ID: 1})

	if f.NHard() == 0 {
		t.Fatalf("expected clauses to be emitted")
	}
	last := f.Hard(f.NHard() - 1)
	if len(last) != 1 {
		t.Errorf("final assertion clause = %v, want a unit clause", last)
	}
}

func TestPlainRhsZeroForcesAllFalse(t *testing.T) {
	f := pbc.New()
	lits := threeLits(f)
	Plain{}.Encode(f, &pbc.Card{ID: 1}, &pbenc.Weighted{Lits: lits, RHS: 0, Sign: sat.LEQ, ID: 1})
	if f.NHard() != len(lits) {
		t.Fatalf("NHard() = %d, want %d (one negated unit per literal)", f.NHard(), len(lits))
	}
	for i, l := range lits {
		if f.Hard(i)[0] != l.Negate() {
			t.Errorf("clause %d = %v, want unit ~%v", i, f.Hard(i), l)
		}
	}
}

func TestVerifiedEmitsProofLines(t *testing.T) {
	f := pbc.New()
	lits := threeLits(f)
	ctr := &pbc.Card{Lits: lits, RHS: 1, Sign: sat.LEQ, ID: 1}
	Verified{}.Encode(f, ctr, &pbenc.Weighted{Lits: lits, RHS: 1, Sign: sat.LEQ, ID: 1})

	if f.NHard() == 0 {
		t.Fatalf("expected clauses to be emitted")
	}
	if f.NProofExprs() == 0 {
		t.Fatalf("expected proof lines to be emitted")
	}
}

func TestEQRunsBothDirections(t *testing.T) {
	f := pbc.New()
	lits := threeLits(f)
	ctr := &pbc.Card{Lits: lits, RHS: 1, Sign: sat.EQ, ID: 1}
	before := f.NHard()
	Plain{}.Encode(f, ctr, &pbenc.Weighted{Lits: lits, RHS: 1, Sign: sat.EQ, ID: 1})
	if f.NHard() <= before {
		t.Fatalf("EQ encode emitted no clauses")
	}
}

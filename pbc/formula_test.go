package pbc

import (
	"testing"

	"github.com/pflow-xyz/pb2cnf/sat"
)

func TestAddPBEmptyBecomesFalsum(t *testing.T) {
	f := New()
	ctr := f.AddPB(&PB{Sign: sat.GEQ, RHS: 1})
	if f.NHard() != 1 {
		t.Fatalf("NHard() = %d, want 1", f.NHard())
	}
	if len(f.Hard(0)) != 0 {
		t.Errorf("empty constraint clause = %v, want empty", f.Hard(0))
	}
	if ctr.ConstraintID() == 0 {
		t.Errorf("ConstraintID() = 0, want a reserved proof id")
	}
}

func TestAddPBClauseFastPath(t *testing.T) {
	f := New()
	a := f.NewLiteral(false)
	b := f.NewLiteral(true)
	ctr := f.AddPB(&PB{Lits: []sat.Lit{a, b}, Coeffs: []uint64{1, 1}, Sign: sat.GEQ, RHS: 1})
	if f.NHard() != 1 {
		t.Fatalf("NHard() = %d, want 1", f.NHard())
	}
	got := f.Hard(0)
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("Hard(0) = %v, want [%v %v]", got, a, b)
	}
	if _, ok := ctr.(*PB); !ok {
		t.Errorf("AddPB clause fast path did not return the *PB itself")
	}
}

func TestAddPBCardinalityRoute(t *testing.T) {
	f := New()
	lits := []sat.Lit{f.NewLiteral(false), f.NewLiteral(false), f.NewLiteral(false)}
	ctr := f.AddPB(&PB{Lits: lits, Coeffs: []uint64{1, 1, 1}, Sign: sat.GEQ, RHS: 2})
	if len(f.Cards) != 1 {
		t.Fatalf("len(f.Cards) = %d, want 1", len(f.Cards))
	}
	if _, ok := ctr.(*Card); !ok {
		t.Errorf("AddPB cardinality route did not return a *Card")
	}
}

func TestAddPBGeneralRoute(t *testing.T) {
	f := New()
	lits := []sat.Lit{f.NewLiteral(false), f.NewLiteral(false)}
	f.AddPB(&PB{Lits: lits, Coeffs: []uint64{2, 3}, Sign: sat.GEQ, RHS: 3})
	if len(f.PBs) != 1 {
		t.Fatalf("len(f.PBs) = %d, want 1", len(f.PBs))
	}
}

func TestEQConsumesTwoIDs(t *testing.T) {
	f := New()
	lits := []sat.Lit{f.NewLiteral(false), f.NewLiteral(false)}
	f.AddPB(&PB{Lits: lits, Coeffs: []uint64{2, 3}, Sign: sat.EQ, RHS: 3})
	next := f.IncProofID()
	if next != 3 {
		t.Errorf("next proof id after an EQ PB = %d, want 3", next)
	}
}

func TestAddTermNormalizesNegativeCoeff(t *testing.T) {
	p := &PB{RHS: 5}
	l := sat.MkLit(0, false)
	p.AddTerm(l, -3)
	if len(p.Lits) != 1 || p.Lits[0] != l.Negate() {
		t.Errorf("AddTerm did not complement the literal")
	}
	if p.Coeffs[0] != 3 {
		t.Errorf("AddTerm coeff = %d, want 3", p.Coeffs[0])
	}
	if p.RHS != 8 {
		t.Errorf("AddTerm did not fold -c into RHS: got %d, want 8", p.RHS)
	}
}

func TestBindNameRoundTrip(t *testing.T) {
	f := New()
	v := f.NewVar()
	f.BindName(v, "x7")
	got, ok := f.VarByName("x7")
	if !ok || got != v {
		t.Errorf("VarByName(%q) = (%v,%v), want (%v,true)", "x7", got, ok, v)
	}
	if f.Name(v) != "x7" {
		t.Errorf("Name(v) = %q, want x7", f.Name(v))
	}
}

func TestNameFallback(t *testing.T) {
	f := New()
	v := f.NewVar()
	if got := f.Name(v); got != "x1" {
		t.Errorf("Name(unbound var 0) = %q, want x1", got)
	}
}

func TestOrderPreservesInputSequenceAcrossLists(t *testing.T) {
	f := New()
	lits2 := []sat.Lit{f.NewLiteral(false), f.NewLiteral(false)}
	lits3 := []sat.Lit{f.NewLiteral(false), f.NewLiteral(false), f.NewLiteral(false)}

	// A general PB first, then a cardinality-normalized PB: Order must
	// reflect this call sequence even though they land in different lists.
	general := f.AddPB(&PB{Lits: lits2, Coeffs: []uint64{2, 3}, Sign: sat.GEQ, RHS: 3})
	card := f.AddPB(&PB{Lits: lits3, Coeffs: []uint64{1, 1, 1}, Sign: sat.GEQ, RHS: 2})

	if len(f.Order) != 2 {
		t.Fatalf("len(f.Order) = %d, want 2", len(f.Order))
	}
	if f.Order[0].ConstraintID() != general.ConstraintID() {
		t.Errorf("Order[0] = %d, want the general PB's id %d", f.Order[0].ConstraintID(), general.ConstraintID())
	}
	if f.Order[1].ConstraintID() != card.ConstraintID() {
		t.Errorf("Order[1] = %d, want the cardinality PB's id %d", f.Order[1].ConstraintID(), card.ConstraintID())
	}
}

func TestCheckOverflowRejectsMaxCoefficient(t *testing.T) {
	f := New()
	l := f.NewLiteral(false)
	f.AddPB(&PB{Lits: []sat.Lit{l}, Coeffs: []uint64{^uint64(0)}, Sign: sat.GEQ, RHS: 1})
	if err := f.CheckOverflow(); err == nil {
		t.Errorf("expected CheckOverflow to reject a MaxUint64 coefficient")
	}
}

func TestCheckOverflowAcceptsOrdinaryConstraint(t *testing.T) {
	f := New()
	lits := []sat.Lit{f.NewLiteral(false), f.NewLiteral(false)}
	f.AddPB(&PB{Lits: lits, Coeffs: []uint64{2, 3}, Sign: sat.GEQ, RHS: 3})
	if err := f.CheckOverflow(); err != nil {
		t.Errorf("CheckOverflow rejected an ordinary constraint: %v", err)
	}
}

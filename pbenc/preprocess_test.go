package pbenc

import (
	"testing"

	"github.com/pflow-xyz/pb2cnf/pbc"
	"github.com/pflow-xyz/pb2cnf/sat"
)

func TestTrivialSimplifyLEQZero(t *testing.T) {
	f := pbc.New()
	a := f.NewLiteral(false)
	b := f.NewLiteral(false)
	e := NewEmitter(f)
	w := &Weighted{Lits: []sat.Lit{a, b}, Sign: sat.LEQ, RHS: 0}

	if !TrivialSimplify(e, nil, w) {
		t.Fatalf("TrivialSimplify did not discharge rhs=0,LEQ")
	}
	if f.NHard() != 2 {
		t.Fatalf("NHard() = %d, want 2", f.NHard())
	}
	if f.Hard(0)[0] != a.Negate() || f.Hard(1)[0] != b.Negate() {
		t.Errorf("expected negated units, got %v %v", f.Hard(0), f.Hard(1))
	}
}

func TestTrivialSimplifyGEQFull(t *testing.T) {
	f := pbc.New()
	a := f.NewLiteral(false)
	b := f.NewLiteral(false)
	e := NewEmitter(f)
	w := &Weighted{Lits: []sat.Lit{a, b}, Sign: sat.GEQ, RHS: 2}

	if !TrivialSimplify(e, nil, w) {
		t.Fatalf("TrivialSimplify did not discharge rhs=sum,GEQ")
	}
	if f.Hard(0)[0] != a || f.Hard(1)[0] != b {
		t.Errorf("expected positive units, got %v %v", f.Hard(0), f.Hard(1))
	}
}

func TestTrivialSimplifyNoop(t *testing.T) {
	f := pbc.New()
	a := f.NewLiteral(false)
	e := NewEmitter(f)
	w := &Weighted{Lits: []sat.Lit{a}, Sign: sat.LEQ, RHS: 1}
	if !TrivialSimplify(e, nil, w) {
		t.Fatalf("TrivialSimplify should discharge rhs=sum,LEQ as a no-op")
	}
	if f.NHard() != 0 {
		t.Errorf("no-op case emitted %d clauses, want 0", f.NHard())
	}
}

func TestTrivialSimplifyFallsThrough(t *testing.T) {
	f := pbc.New()
	a := f.NewLiteral(false)
	b := f.NewLiteral(false)
	e := NewEmitter(f)
	w := &Weighted{Lits: []sat.Lit{a, b}, Sign: sat.GEQ, RHS: 1}
	if TrivialSimplify(e, nil, w) {
		t.Fatalf("TrivialSimplify should not discharge a genuine counting case")
	}
}

func TestPolarityFlip(t *testing.T) {
	f := pbc.New()
	lits := make([]sat.Lit, 5)
	for i := range lits {
		lits[i] = f.NewLiteral(false)
	}
	w := &Weighted{Lits: append([]sat.Lit(nil), lits...), Sign: sat.GEQ, RHS: 4}
	PolarityFlip(w)
	if !w.Flipped {
		t.Fatalf("expected PolarityFlip to act when sum-rhs < rhs")
	}
	if w.Sign != sat.LEQ {
		t.Errorf("Sign = %v, want LEQ", w.Sign)
	}
	if w.RHS != 1 {
		t.Errorf("RHS = %d, want 1 (5-4)", w.RHS)
	}
	for i, l := range w.Lits {
		if l != lits[i].Negate() {
			t.Errorf("Lits[%d] = %v, want negated", i, l)
		}
	}
}

func TestPolarityFlipNoopWhenAlreadySmaller(t *testing.T) {
	f := pbc.New()
	lits := []sat.Lit{f.NewLiteral(false), f.NewLiteral(false)}
	w := &Weighted{Lits: lits, Sign: sat.GEQ, RHS: 1}
	PolarityFlip(w)
	if w.Flipped {
		t.Errorf("PolarityFlip should not act when rhs is already the smaller side")
	}
}

func TestPolarityFlipNeverTouchesEQ(t *testing.T) {
	w := &Weighted{Sign: sat.EQ, RHS: 1}
	PolarityFlip(w)
	if w.Flipped {
		t.Errorf("PolarityFlip must leave EQ constraints untouched")
	}
}

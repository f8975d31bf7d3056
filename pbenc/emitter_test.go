package pbenc

import (
	"testing"

	"github.com/pflow-xyz/pb2cnf/pbc"
	"github.com/pflow-xyz/pb2cnf/sat"
)

func TestEmitterFixedArity(t *testing.T) {
	f := pbc.New()
	a := f.NewLiteral(false)
	b := f.NewLiteral(true)
	c := f.NewLiteral(false)
	d := f.NewLiteral(true)
	e := NewEmitter(f)

	e.Unit(nil, a)
	e.Binary(nil, a, b)
	e.Ternary(nil, a, b, c)
	e.Quaternary(nil, a, b, c, d)

	if f.NHard() != 4 {
		t.Fatalf("NHard() = %d, want 4", f.NHard())
	}
	if len(f.Hard(0)) != 1 || len(f.Hard(1)) != 2 || len(f.Hard(2)) != 3 || len(f.Hard(3)) != 4 {
		t.Errorf("unexpected clause arities: %v %v %v %v", f.Hard(0), f.Hard(1), f.Hard(2), f.Hard(3))
	}
}

func TestEmitterUndefinedLiteralPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on undefined literal")
		}
	}()
	f := pbc.New()
	e := NewEmitter(f)
	e.Unit(nil, sat.LitUndef)
}

func TestEmitterAttributesToConstraint(t *testing.T) {
	f := pbc.New()
	a := f.NewLiteral(false)
	ctr := &pbc.Card{Lits: []sat.Lit{a}, RHS: 1, Sign: sat.GEQ, ID: 1}
	e := NewEmitter(f)
	e.Unit(ctr, a)
	if len(ctr.ClauseIDs) != 1 || ctr.ClauseIDs[0] != 0 {
		t.Errorf("ClauseIDs = %v, want [0]", ctr.ClauseIDs)
	}
}

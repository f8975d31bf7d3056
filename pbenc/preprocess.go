package pbenc

import (
	"github.com/pflow-xyz/pb2cnf/pbc"
	"github.com/pflow-xyz/pb2cnf/sat"
)

// Weighted is the scheme-agnostic working form of a constraint: every
// encoding scheme package operates on a Weighted rather than directly on
// pbc.Card / pbc.PB, so the preprocessing steps below need only one
// implementation. Coeffs is nil for a plain cardinality constraint (every
// literal implicitly weighs 1); schemes that need a uniform weight vector
// should call Weighted.Weight(i) rather than indexing Coeffs directly.
type Weighted struct {
	Lits    []sat.Lit
	Coeffs  []uint64
	RHS     int64
	Sign    sat.Sign
	ID      int
	Flipped bool
}

// Weight returns the coefficient of literal i, defaulting to 1 for a
// cardinality constraint.
func (w *Weighted) Weight(i int) uint64 {
	if w.Coeffs == nil {
		return 1
	}
	return w.Coeffs[i]
}

// Sum returns the sum of all coefficients (or the literal count, for a
// cardinality constraint).
func (w *Weighted) Sum() uint64 {
	if w.Coeffs == nil {
		return uint64(len(w.Lits))
	}
	var s uint64
	for _, c := range w.Coeffs {
		s += c
	}
	return s
}

// FromCard builds a Weighted view of a cardinality constraint.
func FromCard(c *pbc.Card) *Weighted {
	return &Weighted{Lits: append([]sat.Lit(nil), c.Lits...), RHS: c.RHS, Sign: c.Sign, ID: c.ID}
}

// FromPB builds a Weighted view of a general PB constraint.
func FromPB(p *pbc.PB) *Weighted {
	return &Weighted{
		Lits:   append([]sat.Lit(nil), p.Lits...),
		Coeffs: append([]uint64(nil), p.Coeffs...),
		RHS:    p.RHS,
		Sign:   p.Sign,
		ID:     p.ID,
	}
}

// TrivialSimplify applies the rhs/sum boundary rules that let an encoder
// skip tree construction entirely:
//   - rhs=0, LEQ: every literal must be false — emit each as a negated unit.
//   - rhs=sum, GEQ: every literal must be true — emit each as a unit.
//   - rhs=sum, LEQ or rhs=0, GEQ: the constraint is always satisfied, no-op.
//
// It reports whether it fully discharged the constraint; callers must not
// proceed to tree construction when it returns true.
func TrivialSimplify(e *Emitter, ctr pbc.Constraint, w *Weighted) bool {
	sum := w.Sum()
	switch {
	case w.RHS == 0 && w.Sign == sat.LEQ:
		for _, l := range w.Lits {
			e.Unit(ctr, l.Negate())
		}
		return true
	case int64(sum) == w.RHS && w.Sign == sat.GEQ:
		for _, l := range w.Lits {
			e.Unit(ctr, l)
		}
		return true
	case (int64(sum) == w.RHS && w.Sign == sat.LEQ) || (w.RHS == 0 && w.Sign == sat.GEQ):
		return true
	default:
		return false
	}
}

// PolarityFlip complements every literal and rewrites rhs/sign when doing
// so shrinks the side of the inequality the encoder must build a counting
// network for: if sum-rhs < rhs, the LEQ/GEQ side with the smaller target
// count is cheaper to encode directly. EQ constraints are never flipped.
// Sets w.Flipped when it acts.
func PolarityFlip(w *Weighted) {
	if w.Sign == sat.EQ {
		return
	}
	sum := int64(w.Sum())
	if sum-w.RHS >= w.RHS {
		return
	}
	for i, l := range w.Lits {
		w.Lits[i] = l.Negate()
	}
	w.RHS = sum - w.RHS
	w.Sign = w.Sign.Flip()
	w.Flipped = true
}

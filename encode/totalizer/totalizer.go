// Package totalizer implements the totalizer cardinality encoding (a
// balanced binary tree of adder nodes), in plain and verified variants.
// Like package sequential, it only ever receives cardinality constraints.
package totalizer

import (
	"github.com/pflow-xyz/pb2cnf/pbc"
	"github.com/pflow-xyz/pb2cnf/pbenc"
	"github.com/pflow-xyz/pb2cnf/proof"
	"github.com/pflow-xyz/pb2cnf/sat"
)

// node is one totalizer tree node's working state, kept around so the
// verified variant can walk the same tree a second time to derive proof
// lines without rebuilding it.
type node struct {
	left, right *node // nil for a leaf
	out         []sat.Lit
	nLeaves     int // original input literal count covered by this subtree
}

// build constructs the tree for lits, emitting the adder clauses for every
// internal node along the way, and pruning each node's output list to k+1
// entries (k-simplification: nothing past k+1 can ever affect the final
// rhs/rhs+1 fix-up, so larger indices are never allocated).
func build(e *pbenc.Emitter, ctr pbc.Constraint, lits []sat.Lit, k int) *node {
	if len(lits) == 1 {
		return &node{out: lits, nLeaves: 1}
	}
	split := len(lits) / 2
	left := build(e, ctr, lits[:split], k)
	right := build(e, ctr, lits[split:], k)

	size := len(left.out) + len(right.out)
	if size > k+1 {
		size = k + 1
	}
	out := make([]sat.Lit, size)
	for i := range out {
		out[i] = e.Formula().NewLiteral(false)
	}

	adder(e, ctr, left.out, right.out, out, k)
	return &node{left: left, right: right, out: out, nLeaves: left.nLeaves + right.nLeaves}
}

// adder emits the unary-sum clauses for one internal node, skipping any
// pair whose combined index exceeds k+1 (the counting bound this
// constraint ever needs to distinguish).
func adder(e *pbenc.Emitter, ctr pbc.Constraint, left, right, out []sat.Lit, k int) {
	for i := 0; i <= len(left); i++ {
		for j := 0; j <= len(right); j++ {
			if i == 0 && j == 0 {
				continue
			}
			if i+j > k+1 || i+j > len(out) {
				continue
			}
			switch {
			case i == 0:
				e.Binary(ctr, right[j-1].Negate(), out[j-1])
			case j == 0:
				e.Binary(ctr, left[i-1].Negate(), out[i-1])
			default:
				e.Ternary(ctr, left[i-1].Negate(), right[j-1].Negate(), out[i+j-1])
			}
		}
	}
}

func direction(e *pbenc.Emitter, ctr pbc.Constraint, w *pbenc.Weighted, dir sat.Sign) (lits []sat.Lit, rhs int, trivial bool) {
	lits = append([]sat.Lit(nil), w.Lits...)
	r := w.RHS
	if dir == sat.GEQ {
		sum := int64(w.Sum())
		for i := range lits {
			lits[i] = lits[i].Negate()
		}
		r = sum - r
	}
	if r <= 0 {
		for _, l := range lits {
			e.Unit(ctr, l.Negate())
		}
		return nil, 0, true
	}
	return lits, int(r), false
}

// Plain is the unverified totalizer (UTotalizer).
type Plain struct{}

func (Plain) Encode(f *pbc.Formula, ctr pbc.Constraint, w *pbenc.Weighted) {
	e := pbenc.NewEmitter(f)
	if w.Sign == sat.EQ {
		plainPass(e, ctr, w, sat.GEQ)
		plainPass(e, ctr, w, sat.LEQ)
		return
	}
	plainPass(e, ctr, w, w.Sign)
}

func plainPass(e *pbenc.Emitter, ctr pbc.Constraint, w *pbenc.Weighted, dir sat.Sign) {
	lits, k, trivial := direction(e, ctr, w, dir)
	if trivial {
		return
	}
	if len(lits) == 1 {
		return
	}
	root := build(e, ctr, lits, k)
	for i := k; i < len(root.out); i++ {
		e.Unit(ctr, root.out[i].Negate())
	}
}

// Verified is the totalizer with a per-node cutting-planes proof
// (VTotalizer): every internal node's output is certified via
// pbenc.DeriveUnarySum, and the GEQ ids of all those nodes are folded with
// pbenc.DeriveSum into the final propagation line on the constraint's id.
// The LEQ ids are not folded.
type Verified struct{}

func (Verified) Encode(f *pbc.Formula, ctr pbc.Constraint, w *pbenc.Weighted) {
	e := pbenc.NewEmitter(f)
	if w.Sign == sat.EQ {
		verifiedPass(e, ctr, w, sat.GEQ)
		verifiedPass(e, ctr, w, sat.LEQ)
		return
	}
	verifiedPass(e, ctr, w, w.Sign)
}

func verifiedPass(e *pbenc.Emitter, ctr pbc.Constraint, w *pbenc.Weighted, dir sat.Sign) {
	lits, k, trivial := direction(e, ctr, w, dir)
	if trivial {
		return
	}
	if len(lits) == 1 {
		return
	}
	root := build(e, ctr, lits, k)

	var geqIDs []int
	var walk func(n *node, leaves []sat.Lit)
	walk = func(n *node, leaves []sat.Lit) {
		if n.left == nil {
			return
		}
		geq, _ := pbenc.DeriveUnarySum(e.Formula(), ctr, leaves, n.out)
		geqIDs = append(geqIDs, geq)
		walk(n.left, leaves[:n.left.nLeaves])
		walk(n.right, leaves[n.left.nLeaves:])
	}
	walk(root, lits)

	for i := k; i < len(root.out); i++ {
		e.Unit(ctr, root.out[i].Negate())
	}

	folded := pbenc.DeriveSum(e.Formula(), ctr, geqIDs)
	id := e.Formula().IncProofID()
	p := proof.NewP(id)
	p.P.PushID(folded).PushID(ctr.ConstraintID()).Add()
	e.Formula().AddProofExpr(ctr, p)
}

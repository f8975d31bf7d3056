// Package gte implements the generalized totalizer encoding (GTE): the
// weighted analogue of package totalizer, where each tree node's output is
// a sparse map from reachable partial-sum weight to a literal meaning "the
// subtree sum is at least this weight", instead of one literal per unit
// count. Unlike sequential and totalizer, GTE is also used directly for
// general (non-cardinality) PB constraints.
package gte

import (
	"sort"

	"github.com/pflow-xyz/pb2cnf/pbc"
	"github.com/pflow-xyz/pb2cnf/pbenc"
	"github.com/pflow-xyz/pb2cnf/proof"
	"github.com/pflow-xyz/pb2cnf/sat"
)

// term is one input literal/weight pair, sorted ascending by weight before
// the tree is built (matching the reference implementation's pre-sort).
type term struct {
	weight uint64
	lit    sat.Lit
}

// outMap is a node's sparse unary output, weight -> literal.
type outMap map[uint64]sat.Lit

func (m outMap) sortedKeys() []uint64 {
	ks := make([]uint64, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Slice(ks, func(i, j int) bool { return ks[i] < ks[j] })
	return ks
}

// succ returns the smallest key strictly greater than w, and whether one
// exists (the top bucket of a node has no successor; callers must skip the
// ordering clause in that case rather than assume one always exists).
func (m outMap) succ(w uint64) (uint64, bool) {
	best := uint64(0)
	found := false
	for k := range m {
		if k > w && (!found || k < best) {
			best = k
			found = true
		}
	}
	return best, found
}

func (m outMap) getVar(f *pbc.Formula, w uint64) sat.Lit {
	if l, ok := m[w]; ok {
		return l
	}
	l := f.NewLiteral(false)
	m[w] = l
	return l
}

func sumWeight(in []term) uint64 {
	var s uint64
	for _, t := range in {
		s += t.weight
	}
	return s
}

// encodeLeq recursively builds the GTE tree bounded by k, returning the
// node's sparse output map. An empty or k=0 input produces no output,
// matching the reference encoder's early return.
func encodeLeq(e *pbenc.Emitter, ctr pbc.Constraint, k uint64, in []term) outMap {
	if len(in) == 0 || k == 0 {
		return nil
	}
	if len(in) == 1 {
		return outMap{in[0].weight: in[0].lit}
	}

	lsize := len(in) / 2
	linputs, rinputs := in[:lsize], in[lsize:]

	lk, rk := sumWeight(linputs), sumWeight(rinputs)
	if lk > k {
		lk = k
	}
	if rk > k {
		rk = k
	}

	lout := encodeLeq(e, ctr, lk, linputs)
	rout := encodeLeq(e, ctr, rk, rinputs)

	out := outMap{}
	for w, l := range lout {
		e.Binary(ctr, l.Negate(), out.getVar(e.Formula(), w))
	}
	for w, l := range rout {
		e.Binary(ctr, l.Negate(), out.getVar(e.Formula(), w))
	}
	for wl, ll := range lout {
		for wr, rl := range rout {
			e.Ternary(ctr, ll.Negate(), rl.Negate(), out.getVar(e.Formula(), wl+wr))
		}
	}

	leftKeys := lout.sortedKeys()
	rightKeys := rout.sortedKeys()
	leftMax := leftKeys[len(leftKeys)-1]
	rightMax := rightKeys[len(rightKeys)-1]

	prev := uint64(0)
	for _, w := range leftKeys {
		if target, ok := out.succ(prev + rightMax); ok {
			e.Binary(ctr, lout[w], out.getVar(e.Formula(), target).Negate())
		}
		prev = w
	}
	prev = 0
	for _, w := range rightKeys {
		if target, ok := out.succ(prev + leftMax); ok {
			e.Binary(ctr, rout[w], out.getVar(e.Formula(), target).Negate())
		}
		prev = w
	}

	prevLeft := uint64(0)
	for _, wl := range leftKeys {
		prevRight := uint64(0)
		for _, wr := range rightKeys {
			if target, ok := out.succ(prevLeft + prevRight); ok {
				e.Ternary(ctr, lout[wl], rout[wr], out.getVar(e.Formula(), target).Negate())
			}
			prevRight = wr
		}
		prevLeft = wl
	}

	kSimplify(out, k)
	return out
}

// kSimplify keeps at most one output entry with weight >= k (the smallest
// such), discarding the rest: nothing above the first "definitely reaches
// the bound" weight is ever distinguishable again by an ancestor node.
func kSimplify(out outMap, k uint64) {
	keys := out.sortedKeys()
	kept := false
	for _, w := range keys {
		if w < k {
			continue
		}
		if !kept {
			kept = true
			continue
		}
		delete(out, w)
	}
}

func toTerms(lits []sat.Lit, coeffs []uint64) []term {
	ts := make([]term, len(lits))
	for i, l := range lits {
		w := uint64(1)
		if coeffs != nil {
			w = coeffs[i]
		}
		ts[i] = term{weight: w, lit: l}
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].weight < ts[j].weight })
	return ts
}

// polarityFlip mirrors the reference transform: complement every literal
// and rewrite rhs to sum-rhs whenever that yields the smaller bound, even
// for an EQ constraint (EQ's sign is never swapped, only its literals and
// rhs are rewritten).
func polarityFlip(w *pbenc.Weighted) {
	sum := int64(w.Sum())
	if sum-w.RHS >= w.RHS {
		return
	}
	for i, l := range w.Lits {
		w.Lits[i] = l.Negate()
	}
	w.RHS = sum - w.RHS
	if w.Sign != sat.EQ {
		w.Sign = w.Sign.Flip()
	}
	w.Flipped = true
}

// fixOutput asserts the unit clauses that bound the root's sparse output
// map. For LEQ (and EQ) it scans from the highest weight downward, negating
// every entry above rhs and stopping at the first weight <= rhs; the scan
// walks a signed index, so it cannot run past zero. For GEQ (and EQ) it
// asserts the entry with the smallest weight >= rhs.
func fixOutput(e *pbenc.Emitter, ctr pbc.Constraint, out outMap, rhs int64, sign sat.Sign) {
	keys := out.sortedKeys()

	if sign == sat.LEQ || sign == sat.EQ {
		for i := len(keys) - 1; i >= 0; i-- {
			if int64(keys[i]) <= rhs {
				break
			}
			e.Unit(ctr, out[keys[i]].Negate())
		}
	}
	if sign == sat.GEQ || sign == sat.EQ {
		for _, w := range keys {
			if int64(w) >= rhs {
				e.Unit(ctr, out[w])
				break
			}
		}
	}
}

func run(e *pbenc.Emitter, ctr pbc.Constraint, w *pbenc.Weighted) outMap {
	if pbenc.TrivialSimplify(e, ctr, w) {
		return nil
	}
	polarityFlip(w)

	k := uint64(w.RHS)
	if w.Sign != sat.GEQ {
		k = uint64(w.RHS) + 1
	}

	terms := toTerms(w.Lits, w.Coeffs)
	out := encodeLeq(e, ctr, k, terms)
	fixOutput(e, ctr, out, w.RHS, w.Sign)
	return out
}

// Plain is the unverified generalized totalizer (UGTE).
type Plain struct{}

func (Plain) Encode(f *pbc.Formula, ctr pbc.Constraint, w *pbenc.Weighted) {
	run(pbenc.NewEmitter(f), ctr, w)
}

// Verified is the generalized totalizer with reified sparse-unary proof
// lines (VGTE): every output weight's literal is reified against the
// weighted partial sum it represents, the GEQ halves of consecutive weights
// are chained with pbenc.DeriveOrdering, and those GEQ halves are folded
// with pbenc.DeriveSum onto the constraint's own id. The LEQ halves are not
// chained or folded.
type Verified struct{}

func (Verified) Encode(f *pbc.Formula, ctr pbc.Constraint, w *pbenc.Weighted) {
	e := pbenc.NewEmitter(f)
	out := run(e, ctr, w)
	if len(out) == 0 {
		return
	}

	keys := out.sortedKeys()
	terms := make([]proof.Term, len(w.Lits))
	for i, l := range w.Lits {
		c := int64(1)
		if w.Coeffs != nil {
			c = int64(w.Coeffs[i])
		}
		terms[i] = proof.Term{Coeff: c, Lit: l}
	}

	geqIDs := make([]int, 0, len(keys))
	var prevID int
	for i, wkey := range keys {
		g, _ := pbenc.Reify(f, ctr, out[wkey].Var(), terms, int64(wkey))
		geqIDs = append(geqIDs, g)
		if i > 0 {
			pbenc.DeriveOrdering(f, ctr, prevID, g, int64(w.Sum()))
		}
		prevID = g
	}

	folded := pbenc.DeriveSum(f, ctr, geqIDs)
	id := f.IncProofID()
	p := proof.NewP(id)
	p.P.PushID(folded).PushID(ctr.ConstraintID()).Add()
	f.AddProofExpr(ctr, p)
}

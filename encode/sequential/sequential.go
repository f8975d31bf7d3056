// Package sequential implements the sequential-counter cardinality encoding
// (Sinz's counter network), in plain (CNF-only) and verified (CNF + cutting
// planes proof) variants. It only ever receives cardinality constraints —
// every literal weighs 1 — per the encoder dispatcher's routing rules.
package sequential

import (
	"github.com/pflow-xyz/pb2cnf/pbc"
	"github.com/pflow-xyz/pb2cnf/pbenc"
	"github.com/pflow-xyz/pb2cnf/proof"
	"github.com/pflow-xyz/pb2cnf/sat"
)

// grid holds the auxiliary counter variables s[i][j], 1-indexed: s[i][j]
// means "the running sum of the first i literals is at least j". Row 0 and
// column 0 hold no variables; every other cell does, matching the grid
// the reference counter builds (no attempt at diagonal truncation).
type grid struct {
	s [][]sat.Lit // s[i][j], i in 0..n, j in 0..K
	n int
	K int
}

func newGrid(f *pbc.Formula, n, K int) *grid {
	g := &grid{s: make([][]sat.Lit, n+1), n: n, K: K}
	for i := 1; i <= n; i++ {
		g.s[i] = make([]sat.Lit, K+1)
		for j := 1; j <= K; j++ {
			g.s[i][j] = f.NewLiteral(false)
		}
	}
	return g
}

// buildCounterLEQ builds the counter clauses for "Σ lits ≤ rhs" and returns
// the populated grid. It assumes rhs has already been incremented by the
// caller to K = rhs+1, matching the reference counter's column count.
func buildCounterLEQ(e *pbenc.Emitter, ctr pbc.Constraint, lits []sat.Lit, K int) *grid {
	n := len(lits)
	g := newGrid(e.Formula(), n, K)

	for i := 1; i <= n; i++ {
		li := lits[i-1]
		for j := 1; j <= K; j++ {
			if i >= 2 {
				e.Binary(ctr, g.s[i-1][j].Negate(), g.s[i][j])
			}
			if j <= 1 {
				e.Binary(ctr, li.Negate(), g.s[i][j])
			}
			if i >= 2 && j <= K-1 {
				e.Ternary(ctr, g.s[i-1][j].Negate(), li.Negate(), g.s[i][j+1])
			}
		}
		if i >= 2 {
			e.Binary(ctr, g.s[i-1][K].Negate(), li.Negate())
		}
	}
	e.Unit(ctr, g.s[g.n][K].Negate())
	return g
}

// direction runs one pass of the encoder for a single inequality direction,
// transforming a GEQ request into the LEQ form the counter natively builds
// (complementing every literal and rewriting rhs to sum-rhs), exactly as
// the reference counter does internally.
func direction(e *pbenc.Emitter, ctr pbc.Constraint, w *pbenc.Weighted, dir sat.Sign) (lits []sat.Lit, K int, trivial bool) {
	lits = append([]sat.Lit(nil), w.Lits...)
	rhs := w.RHS
	if dir == sat.GEQ {
		sum := int64(w.Sum())
		for i := range lits {
			lits[i] = lits[i].Negate()
		}
		rhs = sum - rhs
	}
	if rhs <= 0 {
		for _, l := range lits {
			e.Unit(ctr, l.Negate())
		}
		return nil, 0, true
	}
	return lits, int(rhs) + 1, false
}

// Plain is the unverified sequential counter (USequential).
type Plain struct{}

// Encode builds CNF only. w must be a cardinality constraint (Coeffs nil or
// uniformly 1).
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
	lits, K, trivial := direction(e, ctr, w, dir)
	if trivial {
		return
	}
	buildCounterLEQ(e, ctr, lits, K)
}

// Verified is the sequential counter with a per-row cutting-planes proof
// (VSequential): each row's s[i][1..K] is certified as a sorted unary
// representation of the running sum via pbenc.DeriveUnarySum, and the rows'
// GEQ derivations are folded with pbenc.DeriveSum into a single line added
// to the constraint's own id.
type Verified struct{}

// Encode builds CNF and appends the proof lines certifying it.
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
	lits, K, trivial := direction(e, ctr, w, dir)
	if trivial {
		return
	}
	g := buildCounterLEQ(e, ctr, lits, K)

	geqIDs := make([]int, 0, g.n)
	for i := 1; i <= g.n; i++ {
		geq, _ := pbenc.DeriveUnarySum(e.Formula(), ctr, lits[:i], g.s[i][1:K+1])
		geqIDs = append(geqIDs, geq)
	}
	folded := pbenc.DeriveSum(e.Formula(), ctr, geqIDs)

	id := e.Formula().IncProofID()
	p := proof.NewP(id)
	p.P.PushID(folded).PushID(ctr.ConstraintID()).Add()
	e.Formula().AddProofExpr(ctr, p)
}

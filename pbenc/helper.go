package pbenc

import (
	"github.com/pflow-xyz/pb2cnf/pbc"
	"github.com/pflow-xyz/pb2cnf/proof"
	"github.com/pflow-xyz/pb2cnf/sat"
)

// Reify emits the pair of Red proof lines that certify z ↔ (Σ terms ≥ rhs):
// a GEQ half derived under the witness z ↦ 0, and an LEQ half derived under
// the witness z ↦ 1. It returns the two freshly allocated proof-line ids, in
// (GEQ, LEQ) order — every verified encoder that introduces an auxiliary
// output variable calls this exactly once per variable.
func Reify(f *pbc.Formula, ctr pbc.Constraint, z sat.Var, terms []proof.Term, rhs int64) (geqID, leqID int) {
	var sum int64
	for _, t := range terms {
		sum += t.Coeff
	}

	geqTerms := append(append([]proof.Term(nil), terms...), proof.Term{Coeff: rhs, Lit: sat.MkLit(z, true)})
	geqID = f.IncProofID()
	f.AddProofExpr(ctr, proof.Red(geqID, proof.LinExpr{Terms: geqTerms, Sign: sat.GEQ, RHS: rhs}, z, 0))

	leqTerms := make([]proof.Term, len(terms), len(terms)+1)
	for i, t := range terms {
		leqTerms[i] = proof.Term{Coeff: t.Coeff, Lit: t.Lit.Negate()}
	}
	leqRHS := sum - rhs + 1
	leqTerms = append(leqTerms, proof.Term{Coeff: leqRHS, Lit: sat.MkLit(z, false)})
	leqID = f.IncProofID()
	f.AddProofExpr(ctr, proof.Red(leqID, proof.LinExpr{Terms: leqTerms, Sign: sat.GEQ, RHS: leqRHS}, z, 1))

	return geqID, leqID
}

// DeriveOrdering emits a single P-expression line enforcing monotonicity
// between two reifications of adjacent sparse-unary weights: p1.id p2.id +
// d / , where d is the sum of p1's own term coefficients excluding the
// coefficient on the reified variable itself (constant across the chain for
// a plain unary sum, where every input literal is weighted 1).
func DeriveOrdering(f *pbc.Formula, ctr pbc.Constraint, p1ID, p2ID int, d int64) int {
	id := f.IncProofID()
	e := proof.NewP(id)
	e.P.PushID(p1ID).PushID(p2ID).Add().PushConst(d).Div()
	f.AddProofExpr(ctr, e)
	return id
}

// DeriveSum folds a list of previously derived proof-line ids into one,
// using the recurrence cⱼ = ((j−1)·cⱼ₋₁ + idⱼ) / j, emitting one P line per
// step after the first. It returns the id of the final fold (ids[0]
// directly when len(ids) == 1, and 0 when ids is empty).
func DeriveSum(f *pbc.Formula, ctr pbc.Constraint, ids []int) int {
	if len(ids) == 0 {
		return 0
	}
	acc := ids[0]
	for j := 2; j <= len(ids); j++ {
		id := f.IncProofID()
		e := proof.NewP(id)
		e.P.PushID(acc).PushConst(int64(j - 1)).Mul().PushID(ids[j-1]).Add().PushConst(int64(j)).Div()
		f.AddProofExpr(ctr, e)
		acc = id
	}
	return acc
}

// DeriveUnarySum certifies that right is a sorted unary representation of
// left's sum: for every j < len(right), Σ left ≥ j+1 ↔ right[j]. It reifies
// each right[j] against the linear snapshot "Σ left ≥ j+1", folds the GEQ
// and LEQ reification chains with DeriveSum, and links consecutive weights
// with DeriveOrdering so the checker can walk from any one weight to any
// other. It returns the (GEQ, LEQ) ids of the folded chains.
func DeriveUnarySum(f *pbc.Formula, ctr pbc.Constraint, left, right []sat.Lit) (geqID, leqID int) {
	n := len(right)
	if n == 0 {
		return 0, 0
	}

	terms := make([]proof.Term, len(left))
	for i, l := range left {
		terms[i] = proof.Term{Coeff: 1, Lit: l}
	}

	geqIDs := make([]int, n)
	leqIDs := make([]int, n)
	for j := 0; j < n; j++ {
		g, l := Reify(f, ctr, right[j].Var(), terms, int64(j+1))
		geqIDs[j] = g
		leqIDs[j] = l
	}

	d := int64(len(left))
	for j := 0; j < n-1; j++ {
		DeriveOrdering(f, ctr, geqIDs[j], geqIDs[j+1], d)
		DeriveOrdering(f, ctr, leqIDs[j], leqIDs[j+1], d)
	}

	geqID = DeriveSum(f, ctr, geqIDs)
	leqID = DeriveSum(f, ctr, leqIDs)
	return geqID, leqID
}

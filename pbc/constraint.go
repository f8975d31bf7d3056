package pbc

import "github.com/pflow-xyz/pb2cnf/sat"

// Constraint is implemented by both Card and PB. It lets Formula attribute
// freshly emitted hard clauses and proof expressions to whichever input
// constraint produced them, per the attribution invariant in the data model:
// every hard clause and every proof expression produced while encoding a
// constraint is appended to that constraint's ClauseIDs / ProofExprIDs.
type Constraint interface {
	ConstraintID() int
	addClauseID(idx int)
	addProofExprID(idx int)
	ClauseIDList() []int
	ProofExprIDList() []int
}

// Card is a cardinality constraint: sum(L) sign RHS, with every literal
// weighted 1.
type Card struct {
	Lits []sat.Lit
	RHS  int64
	Sign sat.Sign
	ID   int

	ClauseIDs    []int
	ProofExprIDs []int
}

func (c *Card) ConstraintID() int         { return c.ID }
func (c *Card) addClauseID(idx int)       { c.ClauseIDs = append(c.ClauseIDs, idx) }
func (c *Card) addProofExprID(idx int)    { c.ProofExprIDs = append(c.ProofExprIDs, idx) }
func (c *Card) ClauseIDList() []int       { return c.ClauseIDs }
func (c *Card) ProofExprIDList() []int    { return c.ProofExprIDs }
func (c *Card) Len() int                  { return len(c.Lits) }

// IsClause reports whether this cardinality constraint reduces to a single
// CNF clause: GEQ with rhs 1, or a unit constraint under EQ.
func (c *Card) IsClause() bool {
	switch c.Sign {
	case sat.GEQ:
		return c.RHS == 1
	case sat.EQ:
		return len(c.Lits) == 1
	default:
		return false
	}
}

// PB is a general pseudo-Boolean constraint: sum(C[i]*L[i]) sign RHS, with
// every coefficient a nonnegative integer.
type PB struct {
	Lits   []sat.Lit
	Coeffs []uint64
	RHS    int64
	Sign   sat.Sign
	ID     int

	ClauseIDs    []int
	ProofExprIDs []int
}

func (p *PB) ConstraintID() int       { return p.ID }
func (p *PB) addClauseID(idx int)     { p.ClauseIDs = append(p.ClauseIDs, idx) }
func (p *PB) addProofExprID(idx int)  { p.ProofExprIDs = append(p.ProofExprIDs, idx) }
func (p *PB) ClauseIDList() []int     { return p.ClauseIDs }
func (p *PB) ProofExprIDList() []int  { return p.ProofExprIDs }

// Sum returns the sum of all coefficients.
func (p *PB) Sum() uint64 {
	var s uint64
	for _, c := range p.Coeffs {
		s += c
	}
	return s
}

// AddTerm appends a coeff*lit product, normalizing a negative source
// coefficient by complementing the literal, negating the coefficient, and
// folding the negated amount into RHS — the same normalization the
// constraint store applies when a PB line is parsed with negative
// coefficients.
func (p *PB) AddTerm(l sat.Lit, c int64) {
	if c >= 0 {
		p.Lits = append(p.Lits, l)
		p.Coeffs = append(p.Coeffs, uint64(c))
		return
	}
	p.Lits = append(p.Lits, l.Negate())
	p.Coeffs = append(p.Coeffs, uint64(-c))
	p.RHS += -c
}

// IsClause reports whether this PB constraint reduces to a single CNF
// clause: a single term with coefficient 1 under EQ, or every coefficient
// 1 under GEQ with rhs 1 (coefficients are already normalized to be
// nonnegative by AddTerm).
func (p *PB) IsClause() bool {
	switch p.Sign {
	case sat.EQ:
		return len(p.Coeffs) == 1 && p.Coeffs[0] == 1
	case sat.GEQ:
		rhs := int64(1)
		for _, c := range p.Coeffs {
			if c != 1 {
				return false
			}
		}
		return rhs == p.RHS
	default:
		return false
	}
}

// IsCardinality reports whether every coefficient equals 1.
func (p *PB) IsCardinality() bool {
	for _, c := range p.Coeffs {
		if c != 1 {
			return false
		}
	}
	return true
}

// AsCard converts a PB constraint recognized as a cardinality constraint
// into a Card, reusing its id and literal list. Coefficients are dropped.
func (p *PB) AsCard() *Card {
	return &Card{
		Lits: append([]sat.Lit(nil), p.Lits...),
		RHS:  p.RHS,
		Sign: p.Sign,
		ID:   p.ID,
	}
}

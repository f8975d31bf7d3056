// Package pbc is the constraint store: it owns variables, hard clauses,
// the proof-expression list, and the cardinality/PB constraints parsed from
// an OPB input. Nothing outlives a Formula; encoders borrow it mutably for
// the duration of a single encode call and must not retain references.
package pbc

import (
	"fmt"

	"github.com/pflow-xyz/pb2cnf/proof"
	"github.com/pflow-xyz/pb2cnf/sat"
)

// Formula is the single mutable value threaded through the encoding
// pipeline. It is not safe for concurrent use — see the encode package's
// batch driver for how independent Formulas are run concurrently instead.
type Formula struct {
	nVars int32

	hard      []sat.Clause
	hardOwner []int // ConstraintID of the owning constraint, or 0 if unattributed

	proofExprs []proof.Expr

	name2idx map[string]sat.Var
	idx2name map[sat.Var]string

	nextProofID int

	Cards []*Card
	PBs   []*PB

	// Order lists every constraint this Formula has stored, in the order
	// AddCardinality/AddPB were called — the serializer walks this, not
	// Cards/PBs separately, so a .pbp's per-constraint blocks appear in
	// input order regardless of which list a constraint normalized into.
	Order []Constraint

	scratch sat.Clause
}

// New returns an empty Formula, ready to be populated by a parser. Proof
// ids start at 1, so id 0 never names a constraint and stays free to mark
// an unattributed hard clause.
func New() *Formula {
	return &Formula{
		name2idx:    make(map[string]sat.Var),
		idx2name:    make(map[sat.Var]string),
		nextProofID: 1,
	}
}

// NewVar allocates a fresh variable index.
func (f *Formula) NewVar() sat.Var {
	v := sat.Var(f.nVars)
	f.nVars++
	return v
}

// NewLiteral allocates a fresh variable and returns its literal with the
// given polarity.
func (f *Formula) NewLiteral(negated bool) sat.Lit {
	return sat.MkLit(f.NewVar(), negated)
}

// NVars returns the number of variables allocated so far.
func (f *Formula) NVars() int { return int(f.nVars) }

// NHard returns the number of hard clauses emitted so far.
func (f *Formula) NHard() int { return len(f.hard) }

// Hard returns the hard clause at idx.
func (f *Formula) Hard(idx int) sat.Clause { return f.hard[idx] }

// HardOwner returns the ConstraintID that owns the hard clause at idx, or 0
// if it was never attributed to a constraint.
func (f *Formula) HardOwner(idx int) int { return f.hardOwner[idx] }

// ProofExpr returns the proof expression at idx.
func (f *Formula) ProofExpr(idx int) proof.Expr { return f.proofExprs[idx] }

// NProofExprs returns the number of proof expressions emitted so far.
func (f *Formula) NProofExprs() int { return len(f.proofExprs) }

// IncProofID returns the current proof-line counter and increments it. It
// must be called exactly once per emitted proof line (including the line
// implicitly reserved for a constraint itself when it is added to the
// Formula).
func (f *Formula) IncProofID() int {
	id := f.nextProofID
	f.nextProofID++
	return id
}

// BindName registers the external OPB identifier for v. The OPB parser
// calls this as it allocates variables; printing falls back to "xN" (1
// indexed) for any variable with no registered name, which is always
// correct for inputs using the "xN" naming convention and is the
// documented limitation for any other naming scheme (see Open Questions).
func (f *Formula) BindName(v sat.Var, name string) {
	f.idx2name[v] = name
	f.name2idx[name] = v
}

// VarByName resolves a previously bound external identifier.
func (f *Formula) VarByName(name string) (sat.Var, bool) {
	v, ok := f.name2idx[name]
	return v, ok
}

// Name returns the external identifier for v, defaulting to "xN" (1
// indexed) when none was registered.
func (f *Formula) Name(v sat.Var) string {
	if n, ok := f.idx2name[v]; ok {
		return n
	}
	return fmt.Sprintf("x%d", v+1)
}

// AddHardClause appends clause as a hard clause, attributing it to ctr (pass
// nil for clauses that belong to no input constraint). It returns the
// clause's index, which the caller's constraint record must keep in its
// ClauseIDs list — AddHardClause does that automatically when ctr != nil.
func (f *Formula) AddHardClause(ctr Constraint, clause sat.Clause) int {
	idx := len(f.hard)
	f.hard = append(f.hard, append(sat.Clause(nil), clause...))
	owner := 0
	if ctr != nil {
		owner = ctr.ConstraintID()
		ctr.addClauseID(idx)
	}
	f.hardOwner = append(f.hardOwner, owner)
	return idx
}

// AddProofExpr appends a cutting-planes proof line, attributing it to ctr.
// The expression's ID field must already hold the id returned by a prior
// IncProofID call.
func (f *Formula) AddProofExpr(ctr Constraint, e proof.Expr) int {
	idx := len(f.proofExprs)
	f.proofExprs = append(f.proofExprs, e)
	if ctr != nil {
		ctr.addProofExprID(idx)
	}
	return idx
}

// AddCardinality stores lits/rhs/sign as a new cardinality constraint,
// reserving its proof id (and, for EQ, the extra id its LEQ half consumes).
// Empty constraints are resolved immediately to the falsum clause.
func (f *Formula) AddCardinality(lits []sat.Lit, rhs int64, sign sat.Sign) *Card {
	id := f.IncProofID()
	c := &Card{Lits: lits, RHS: rhs, Sign: sign, ID: id}

	switch {
	case len(lits) == 0:
		f.AddHardClause(c, sat.Clause{})
	default:
		f.Cards = append(f.Cards, c)
	}
	f.Order = append(f.Order, c)

	if sign == sat.EQ {
		f.IncProofID()
	}
	return c
}

// AddPB stores a PB constraint, applying the normalization rules from the
// constraint store's design:
//  1. reserve a proof id for the constraint itself;
//  2. an empty constraint becomes a hard falsum clause;
//  3. a constraint that already IsClause becomes a single hard clause;
//  4. a constraint that IsCardinality is stored (as a Card) in the
//     cardinality list;
//  5. anything else is stored in the PB list;
//  6. an EQ constraint reserves one additional id (its LEQ half).
func (f *Formula) AddPB(p *PB) Constraint {
	id := f.IncProofID()
	p.ID = id

	switch {
	case len(p.Lits) == 0:
		f.AddHardClause(p, sat.Clause{})
		f.Order = append(f.Order, p)
		if p.Sign == sat.EQ {
			f.IncProofID()
		}
		return p

	case p.IsClause():
		switch p.Sign {
		case sat.EQ:
			f.AddHardClause(p, sat.Clause{p.Lits[0]})
		case sat.GEQ:
			f.AddHardClause(p, append(sat.Clause(nil), p.Lits...))
		case sat.LEQ:
			cl := make(sat.Clause, len(p.Lits))
			for i, l := range p.Lits {
				cl[i] = l.Negate()
			}
			f.AddHardClause(p, cl)
		}
		f.Order = append(f.Order, p)
		if p.Sign == sat.EQ {
			f.IncProofID()
		}
		return p

	case p.IsCardinality():
		c := p.AsCard()
		f.Cards = append(f.Cards, c)
		f.Order = append(f.Order, c)
		if p.Sign == sat.EQ {
			f.IncProofID()
		}
		return c

	default:
		f.PBs = append(f.PBs, p)
		f.Order = append(f.Order, p)
		if p.Sign == sat.EQ {
			f.IncProofID()
		}
		return p
	}
}

// CheckOverflow reports an error if any stored PB constraint's rhs or
// coefficients reach math.MaxUint64 — the Overflow error-handling kind
// (spec §7): the encoder must refuse such a constraint and produce no
// partial output, rather than silently wrapping during saturation or
// unary-sum folding.
func (f *Formula) CheckOverflow() error {
	const max = ^uint64(0)
	for _, p := range f.PBs {
		if p.RHS >= 0 && uint64(p.RHS) >= max {
			return fmt.Errorf("pbc: rhs %d overflows uint64 in constraint %d", p.RHS, p.ID)
		}
		for _, c := range p.Coeffs {
			if c >= max {
				return fmt.Errorf("pbc: coefficient %d overflows uint64 in constraint %d", c, p.ID)
			}
		}
	}
	return nil
}

// ConsumeIDsForClauses bumps the proof-id counter by n, preserving the
// invariant that RUP lines emitted per hard clause consume consecutive ids
// immediately following whatever proof expressions an encoder emitted.
func (f *Formula) ConsumeIDsForClauses(n int) {
	f.nextProofID += n
}

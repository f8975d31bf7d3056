// Package encode is the encoder dispatcher: it routes a constraint to one
// of the eight plain/verified x {sequential,totalizer,gte,adder} encoders,
// performs PB saturation and coefficient clamping ahead of time, and
// preserves the formula's proof-id bookkeeping invariant across the call.
package encode

import (
	"github.com/pflow-xyz/pb2cnf/encode/adder"
	"github.com/pflow-xyz/pb2cnf/encode/gte"
	"github.com/pflow-xyz/pb2cnf/encode/sequential"
	"github.com/pflow-xyz/pb2cnf/encode/totalizer"
	"github.com/pflow-xyz/pb2cnf/pbc"
	"github.com/pflow-xyz/pb2cnf/pbenc"
	"github.com/pflow-xyz/pb2cnf/proof"
	"github.com/pflow-xyz/pb2cnf/sat"
)

// Scheme selects which counting network encodes a constraint.
type Scheme int

const (
	Sequential Scheme = iota
	Totalizer
	GTE
	Adder
)

func (s Scheme) String() string {
	switch s {
	case Sequential:
		return "sequential"
	case Totalizer:
		return "totalizer"
	case GTE:
		return "gte"
	case Adder:
		return "adder"
	default:
		return "?"
	}
}

// Config selects one of the eight encoder variants: a Scheme crossed with
// whether a cutting-planes proof is emitted alongside the CNF.
type Config struct {
	Scheme Scheme
	Verify bool
}

// Encoder is satisfied by every scheme's Plain and Verified type.
type Encoder interface {
	Encode(f *pbc.Formula, ctr pbc.Constraint, w *pbenc.Weighted)
}

func (c Config) encoder() Encoder {
	switch c.Scheme {
	case Sequential:
		if c.Verify {
			return sequential.Verified{}
		}
		return sequential.Plain{}
	case Totalizer:
		if c.Verify {
			return totalizer.Verified{}
		}
		return totalizer.Plain{}
	case GTE:
		if c.Verify {
			return gte.Verified{}
		}
		return gte.Plain{}
	case Adder:
		if c.Verify {
			return adder.Verified{}
		}
		return adder.Plain{}
	default:
		return gte.Plain{}
	}
}

// Card encodes a cardinality constraint, then bumps the formula's proof-id
// counter by the number of hard clauses the scheme attributed to it — the
// RUP lines the proof writer will later emit for those clauses, one id per
// clause, must immediately follow whatever proof expressions the scheme
// itself appended.
func Card(f *pbc.Formula, c *pbc.Card, cfg Config) {
	w := pbenc.FromCard(c)
	cfg.encoder().Encode(f, c, w)
	f.ConsumeIDsForClauses(len(c.ClauseIDs))
}

// PB encodes a general pseudo-Boolean constraint. It first saturates and
// clamps p in place (see saturate), then dispatches to the selected scheme,
// then bumps the proof-id counter as Card does.
func PB(f *pbc.Formula, p *pbc.PB, cfg Config) {
	saturate(f, p)
	w := pbenc.FromPB(p)
	cfg.encoder().Encode(f, p, w)
	f.ConsumeIDsForClauses(len(p.ClauseIDs))
}

// saturate clamps every coefficient to at most rhs (GEQ) or rhs+1
// (LEQ/EQ), recording a P{saturation} proof line for each inequality
// direction the constraint carries (both, for EQ: its GEQ half is p.ID and
// its LEQ half p.ID+1) before mutating the stored coefficients — the proof
// must reference the unsaturated constraint before the coefficients it
// cites are rewritten underneath it.
func saturate(f *pbc.Formula, p *pbc.PB) {
	clamp := func(ref int, limit int64) {
		id := f.IncProofID()
		e := proof.NewP(id)
		e.P.PushID(ref).Sat()
		f.AddProofExpr(p, e)

		for i, c := range p.Coeffs {
			if int64(c) > limit {
				p.Coeffs[i] = uint64(limit)
			}
		}
	}

	switch p.Sign {
	case sat.GEQ:
		clamp(p.ID, p.RHS)
	case sat.LEQ:
		clamp(p.ID, p.RHS+1)
	case sat.EQ:
		clamp(p.ID, p.RHS+1)
		clamp(p.ID+1, p.RHS+1)
	}
}

// Formula encodes every stored constraint in f using cfg: all cardinality
// constraints first, then all PB constraints, each list in the order its
// constraints were added.
func Formula(f *pbc.Formula, cfg Config) {
	for _, c := range f.Cards {
		Card(f, c, cfg)
	}
	for _, p := range f.PBs {
		PB(f, p, cfg)
	}
}

// Plan selects independent schemes for cardinality constraints and weighted
// pseudo-Boolean constraints, mirroring the CLI's two separate --card/--pb
// flags (spec.md §6): a single run may encode its unweighted constraints
// with the sequential counter while its weighted ones go through GTE.
type Plan struct {
	CardScheme Scheme
	PBScheme   Scheme
	Verify     bool
}

// FormulaWithPlan encodes every stored constraint in f, dispatching
// cardinality constraints through p.CardScheme and PB constraints through
// p.PBScheme.
func FormulaWithPlan(f *pbc.Formula, p Plan) {
	cardCfg := Config{Scheme: p.CardScheme, Verify: p.Verify}
	pbCfg := Config{Scheme: p.PBScheme, Verify: p.Verify}
	for _, c := range f.Cards {
		Card(f, c, cardCfg)
	}
	for _, p := range f.PBs {
		PB(f, p, pbCfg)
	}
}

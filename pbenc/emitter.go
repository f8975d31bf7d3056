// Package pbenc holds the machinery every encoding scheme shares: the
// fixed-arity clause emitter, the trivial-simplification and polarity-flip
// preprocessing steps, and the proof-helper library the verified encoders
// call to derive their reification and unary-sum lines. It sits above pbc
// (it mutates a *pbc.Formula) and below the four encode/* scheme packages.
package pbenc

import (
	"fmt"

	"github.com/pflow-xyz/pb2cnf/pbc"
	"github.com/pflow-xyz/pb2cnf/sat"
)

// Emitter wraps a Formula with the reusable scratch clause buffer the
// fixed-arity helpers push into before handing off to AddHardClause. A
// zero Emitter is not usable; construct with NewEmitter.
type Emitter struct {
	f       *pbc.Formula
	scratch sat.Clause
}

// NewEmitter returns an Emitter writing into f.
func NewEmitter(f *pbc.Formula) *Emitter {
	return &Emitter{f: f, scratch: make(sat.Clause, 0, 8)}
}

func (e *Emitter) push(ctr pbc.Constraint, lits ...sat.Lit) int {
	if len(e.scratch) != 0 {
		panic("pbenc: scratch buffer not clear on entry")
	}
	e.scratch = append(e.scratch, lits...)
	for _, l := range e.scratch {
		if l == sat.LitUndef {
			panic("pbenc: undefined literal pushed to clause")
		}
		if int(l.Var()) >= e.f.NVars() {
			panic("pbenc: literal refers to an unallocated variable")
		}
	}
	idx := e.f.AddHardClause(ctr, e.scratch)
	e.scratch = e.scratch[:0]
	return idx
}

// Unit emits a single-literal clause.
func (e *Emitter) Unit(ctr pbc.Constraint, a sat.Lit) int { return e.push(ctr, a) }

// Binary emits a two-literal clause.
func (e *Emitter) Binary(ctr pbc.Constraint, a, b sat.Lit) int { return e.push(ctr, a, b) }

// Ternary emits a three-literal clause.
func (e *Emitter) Ternary(ctr pbc.Constraint, a, b, c sat.Lit) int { return e.push(ctr, a, b, c) }

// Quaternary emits a four-literal clause.
func (e *Emitter) Quaternary(ctr pbc.Constraint, a, b, c, d sat.Lit) int {
	return e.push(ctr, a, b, c, d)
}

// AddClause emits a clause of arbitrary arity.
func (e *Emitter) AddClause(ctr pbc.Constraint, lits ...sat.Lit) int { return e.push(ctr, lits...) }

// Formula returns the underlying Formula, for encoders that also need to
// allocate variables or append proof expressions directly.
func (e *Emitter) Formula() *pbc.Formula { return e.f }

// String implements fmt.Stringer for debugging test failures.
func (e *Emitter) String() string {
	return fmt.Sprintf("Emitter{nHard=%d}", e.f.NHard())
}

// Package adder implements the bit-serial binary adder encoding (a network
// of full/half adders reducing weighted input buckets to a bit vector,
// compared bitwise against the constant rhs), in plain and verified
// variants.
package adder

import (
	"math/bits"

	"github.com/bits-and-blooms/bitset"

	"github.com/pflow-xyz/pb2cnf/pbc"
	"github.com/pflow-xyz/pb2cnf/pbenc"
	"github.com/pflow-xyz/pb2cnf/proof"
	"github.com/pflow-xyz/pb2cnf/sat"
)

// faInstance records one full/half adder instance built during tree
// reduction, for the verified variant's second pass over the same
// positions. bitPos is the bucket the instance was built in; its inputs and
// sum output have place value 2^bitPos.
type faInstance struct {
	a, b, c    sat.Lit // c is LitUndef for a half adder
	carry, sum sat.Lit
	bitPos     int
}

func faCarry(e *pbenc.Emitter, ctr pbc.Constraint, a, b, c sat.Lit) sat.Lit {
	x := e.Formula().NewLiteral(false)
	e.Ternary(ctr, b, c, x.Negate())
	e.Ternary(ctr, a, c, x.Negate())
	e.Ternary(ctr, a, b, x.Negate())
	e.Ternary(ctr, b.Negate(), c.Negate(), x)
	e.Ternary(ctr, a.Negate(), c.Negate(), x)
	e.Ternary(ctr, a.Negate(), b.Negate(), x)
	return x
}

func faSum(e *pbenc.Emitter, ctr pbc.Constraint, a, b, c sat.Lit) sat.Lit {
	x := e.Formula().NewLiteral(false)
	e.Quaternary(ctr, a, b, c, x.Negate())
	e.Quaternary(ctr, a, b.Negate(), c.Negate(), x.Negate())
	e.Quaternary(ctr, a.Negate(), b, c.Negate(), x.Negate())
	e.Quaternary(ctr, a.Negate(), b.Negate(), c, x.Negate())
	e.Quaternary(ctr, a.Negate(), b.Negate(), c.Negate(), x)
	e.Quaternary(ctr, a.Negate(), b, c, x)
	e.Quaternary(ctr, a, b.Negate(), c, x)
	e.Quaternary(ctr, a, b, c.Negate(), x)
	return x
}

func faExtra(e *pbenc.Emitter, ctr pbc.Constraint, xc, xs, a, b, c sat.Lit) {
	e.Ternary(ctr, xc.Negate(), xs.Negate(), a)
	e.Ternary(ctr, xc.Negate(), xs.Negate(), b)
	e.Ternary(ctr, xc.Negate(), xs.Negate(), c)
	e.Ternary(ctr, xc, xs, a.Negate())
	e.Ternary(ctr, xc, xs, b.Negate())
	e.Ternary(ctr, xc, xs, c.Negate())
}

func haCarry(e *pbenc.Emitter, ctr pbc.Constraint, a, b sat.Lit) sat.Lit {
	x := e.Formula().NewLiteral(false)
	e.Binary(ctr, a, x.Negate())
	e.Binary(ctr, b, x.Negate())
	e.Ternary(ctr, a.Negate(), b.Negate(), x)
	return x
}

func haSum(e *pbenc.Emitter, ctr pbc.Constraint, a, b sat.Lit) sat.Lit {
	x := e.Formula().NewLiteral(false)
	e.Ternary(ctr, a.Negate(), b.Negate(), x.Negate())
	e.Ternary(ctr, a, b, x.Negate())
	e.Ternary(ctr, a.Negate(), b, x)
	e.Ternary(ctr, a, b.Negate(), x)
	return x
}

// adderTree reduces buckets (weighted by place value, LSB first) to a
// single literal per bucket, extending the bucket array by one place when
// the top bucket still holds 2 or more inputs. It returns the instances it
// built, for the verified variant to reify afterward.
func adderTree(e *pbenc.Emitter, ctr pbc.Constraint, buckets *[][]sat.Lit, result *[]sat.Lit) []faInstance {
	var instances []faInstance

	for i := 0; i < len(*buckets); i++ {
		b := (*buckets)[i]
		if len(b) == 0 {
			continue
		}
		if i == len(*buckets)-1 && len(b) >= 2 {
			*buckets = append(*buckets, nil)
			*result = append(*result, sat.LitUndef)
		}

		for len(b) >= 3 {
			x, y, z := b[0], b[1], b[2]
			b = b[3:]
			xc := faCarry(e, ctr, x, y, z)
			xs := faSum(e, ctr, x, y, z)
			faExtra(e, ctr, xc, xs, x, y, z)
			b = append(b, xs)
			(*buckets)[i+1] = append((*buckets)[i+1], xc)
			instances = append(instances, faInstance{a: x, b: y, c: z, carry: xc, sum: xs, bitPos: i})
		}

		if len(b) == 2 {
			x, y := b[0], b[1]
			b = b[2:]
			carry := haCarry(e, ctr, x, y)
			sum := haSum(e, ctr, x, y)
			(*buckets)[i+1] = append((*buckets)[i+1], carry)
			b = append(b, sum)
			instances = append(instances, faInstance{a: x, b: y, c: sat.LitUndef, carry: carry, sum: sum, bitPos: i})
		}

		(*result)[i] = b[0]
		(*buckets)[i] = b[1:]
	}
	return instances
}

// numToBits returns the n-bit, LSB-first binary representation of number as
// a bitset: bit i set means place value 2^i is present, the same LSB-first
// order as the adder's output buckets it is compared against.
func numToBits(n int, number uint64) *bitset.BitSet {
	bs := bitset.New(uint(n))
	for i := n - 1; i >= 0; i-- {
		tmp := uint64(1) << uint(i)
		if number >= tmp {
			bs.Set(uint(i))
			number -= tmp
		}
	}
	return bs
}

// lessThanOrEqual asserts xs <= ys bitwise, where ys is a constant 0/1
// vector: for each position where ys is 0, xs must be 0 unless some
// strictly more significant position of xs is also 0 where ys is 1.
func lessThanOrEqual(e *pbenc.Emitter, ctr pbc.Constraint, xs []sat.Lit, ys *bitset.BitSet) {
	for i := range xs {
		if ys.Test(uint(i)) || xs[i] == sat.LitUndef {
			continue
		}
		var clause []sat.Lit
		skip := false
		for j := i + 1; j < len(xs); j++ {
			if ys.Test(uint(j)) {
				if xs[j] == sat.LitUndef {
					skip = true
					break
				}
				clause = append(clause, xs[j].Negate())
			} else if xs[j] != sat.LitUndef {
				clause = append(clause, xs[j])
			}
		}
		if skip {
			continue
		}
		clause = append(clause, xs[i].Negate())
		e.AddClause(ctr, clause...)
	}
}

// greaterThanOrEqual asserts xs >= ys bitwise, the zero/one-swapped mirror
// of lessThanOrEqual.
func greaterThanOrEqual(e *pbenc.Emitter, ctr pbc.Constraint, xs []sat.Lit, ys *bitset.BitSet) {
	for i := range xs {
		if !ys.Test(uint(i)) || xs[i] == sat.LitUndef {
			continue
		}
		var clause []sat.Lit
		skip := false
		for j := i + 1; j < len(xs); j++ {
			if !ys.Test(uint(j)) {
				if xs[j] == sat.LitUndef {
					skip = true
					break
				}
				clause = append(clause, xs[j])
			} else if xs[j] != sat.LitUndef {
				clause = append(clause, xs[j].Negate())
			}
		}
		if skip {
			continue
		}
		clause = append(clause, xs[i])
		e.AddClause(ctr, clause...)
	}
}

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

type built struct {
	output    []sat.Lit
	buckets   [][]sat.Lit
	instances []faInstance
}

func run(e *pbenc.Emitter, ctr pbc.Constraint, w *pbenc.Weighted) *built {
	if pbenc.TrivialSimplify(e, ctr, w) {
		return nil
	}
	polarityFlip(w)

	nb := bits.Len64(uint64(w.RHS))
	buckets := make([][]sat.Lit, nb+1)
	output := make([]sat.Lit, nb+1)
	for i := range output {
		output[i] = sat.LitUndef
	}
	for iBit := 0; iBit <= nb; iBit++ {
		for iVar, l := range w.Lits {
			c := w.Weight(iVar)
			if (uint64(1)<<uint(iBit))&c != 0 {
				buckets[iBit] = append(buckets[iBit], l)
			}
		}
	}

	instances := adderTree(e, ctr, &buckets, &output)

	kBits := numToBits(len(buckets), uint64(w.RHS))
	if w.Sign == sat.GEQ || w.Sign == sat.EQ {
		greaterThanOrEqual(e, ctr, output, kBits)
	}
	if w.Sign == sat.LEQ || w.Sign == sat.EQ {
		lessThanOrEqual(e, ctr, output, kBits)
	}

	return &built{output: output, buckets: buckets, instances: instances}
}

// Plain is the unverified binary adder (UAdder).
type Plain struct{}

func (Plain) Encode(f *pbc.Formula, ctr pbc.Constraint, w *pbenc.Weighted) {
	run(pbenc.NewEmitter(f), ctr, w)
}

// Verified is the binary adder with a cutting-planes proof (VAdder): every
// full/half adder instance is reified (carry and sum each get a pair of
// Red lines from pbenc.Reify),
// folded into a "2*carry + sum >= a+b+c" cutting-planes fact, scaled by its
// bit's place value, and accumulated into a running sum seeded by the
// constraint's own id.
type Verified struct{}

func (Verified) Encode(f *pbc.Formula, ctr pbc.Constraint, w *pbenc.Weighted) {
	e := pbenc.NewEmitter(f)
	b := run(e, ctr, w)
	if b == nil {
		return
	}

	acc := ctr.ConstraintID()
	for _, inst := range b.instances {
		terms := []proof.Term{{Coeff: 1, Lit: inst.a}, {Coeff: 1, Lit: inst.b}}
		if inst.c != sat.LitUndef {
			terms = append(terms, proof.Term{Coeff: 1, Lit: inst.c})
		}
		carryGeq, _ := pbenc.Reify(f, ctr, inst.carry.Var(), terms, 2)
		sumGeq, _ := pbenc.Reify(f, ctr, inst.sum.Var(), terms, 1)

		id := f.IncProofID()
		p := proof.NewP(id)
		p.P.PushID(carryGeq).PushConst(2).Mul().PushID(sumGeq).Add()
		weight := int64(1) << uint(inst.bitPos)
		if weight != 1 {
			p.P.PushConst(weight).Mul()
		}
		p.P.PushID(acc).Add()
		f.AddProofExpr(ctr, p)
		acc = id
	}
}

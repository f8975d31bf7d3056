// Package sat defines the minimal Boolean literal and clause types shared by
// every layer of the encoder: the constraint store, the proof algebra, and
// the encoding schemes.
package sat

import "fmt"

// Var is a nonnegative internal variable index. Index 0 is the first
// variable allocated by a Formula; external formats add 1 when printing.
type Var int32

// Lit packs a variable and its polarity into a single int32, following the
// MiniSat convention the original cutting-planes encoder is built on:
// Var 0 has positive literal 0 and negative literal 1, Var 1 has positive
// literal 2 and negative literal 3, and so on.
type Lit int32

// LitUndef marks the absence of a literal (e.g. an adder bucket carry slot
// that was never populated). It is never a valid argument to Var or Negate.
const LitUndef Lit = -2

// MkLit builds the literal for v with the given polarity.
func MkLit(v Var, negated bool) Lit {
	l := Lit(v) << 1
	if negated {
		l |= 1
	}
	return l
}

// Var returns the variable underlying l.
func (l Lit) Var() Var { return Var(l >> 1) }

// Negated reports whether l is the complemented form of its variable.
func (l Lit) Negated() bool { return l&1 != 0 }

// Negate returns the complement of l. Complementation is an involution:
// l.Negate().Negate() == l.
func (l Lit) Negate() Lit { return l ^ 1 }

// String renders l using 1-based external variable numbering, e.g. "x3" or
// "~x3". It does not consult a Formula's name table; callers that need the
// original OPB identifier should use Formula.Name on l.Var() instead.
func (l Lit) String() string {
	if l.Negated() {
		return fmt.Sprintf("~x%d", l.Var()+1)
	}
	return fmt.Sprintf("x%d", l.Var()+1)
}

// Clause is an ordered disjunction of literals. An empty Clause is falsum.
type Clause []Lit

// Sign is the relational operator of a cardinality or PB constraint.
type Sign int

const (
	GEQ Sign = iota
	LEQ
	EQ
)

func (s Sign) String() string {
	switch s {
	case GEQ:
		return ">="
	case LEQ:
		return "<="
	case EQ:
		return "="
	default:
		return "?"
	}
}

// Flip returns the opposite inequality direction. EQ is its own flip: the
// sequential and totalizer schemes treat an EQ constraint as two separate
// passes, and the GTE and adder schemes handle both directions in one pass.
func (s Sign) Flip() Sign {
	switch s {
	case GEQ:
		return LEQ
	case LEQ:
		return GEQ
	default:
		return EQ
	}
}

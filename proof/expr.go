// Package proof implements the cutting-planes proof-expression algebra used
// to certify that the CNF produced by an encoding scheme is entailed by the
// original pseudo-Boolean constraint. An Expr is one line of the emitted
// .pbp proof; Formula (in package pbc) allocates the strictly monotonic
// proof-line ids these expressions carry.
package proof

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pflow-xyz/pb2cnf/sat"
)

// Kind discriminates the variant payload carried by an Expr.
type Kind int

const (
	// KindU is a reverse-unit-propagation lemma asserting a clause.
	KindU Kind = iota
	// KindRed introduces a fresh variable by reification witness.
	KindRed
	// KindE is an explicit equality check against a previously stored id.
	KindE
	// KindP is a reverse-Polish "pol" stack expression over derived ids.
	KindP
)

func (k Kind) String() string {
	switch k {
	case KindU:
		return "u"
	case KindRed:
		return "red"
	case KindE:
		return "e"
	case KindP:
		return "p"
	default:
		return "?"
	}
}

// Term is one coeff*literal product inside a linear constraint snapshot
// carried by a Red or E proof line.
type Term struct {
	Coeff int64
	Lit   sat.Lit
}

// LinExpr is a PB constraint snapshot, printed as
// "c1 [~]xV1 c2 [~]xV2 ... (>=|<=|=) r ;" wherever it appears inside a
// proof line.
type LinExpr struct {
	Terms []Term
	Sign  sat.Sign
	RHS   int64
}

// Print renders the constraint using the given variable-name function,
// which maps an internal variable to its external OPB identifier.
func (e LinExpr) Print(name func(sat.Var) string) string {
	var b strings.Builder
	for _, t := range e.Terms {
		fmt.Fprintf(&b, "%d ", t.Coeff)
		if t.Lit.Negated() {
			b.WriteByte('~')
		}
		b.WriteString(name(t.Lit.Var()))
		b.WriteByte(' ')
	}
	b.WriteString(e.Sign.String())
	fmt.Fprintf(&b, " %d ;", e.RHS)
	return b.String()
}

// Expr is a single cutting-planes proof line. Exactly one payload group
// (matching Kind) is populated.
type Expr struct {
	ID   int
	Kind Kind

	// KindU
	Clause sat.Clause

	// KindRed
	Red     LinExpr
	Var     sat.Var
	Witness int // 0 or 1

	// KindE
	Target int
	E      LinExpr

	// KindP
	P *PExpr
}

// U builds a RUP proof line for clause.
func U(id int, clause sat.Clause) Expr {
	return Expr{ID: id, Kind: KindU, Clause: append(sat.Clause(nil), clause...)}
}

// Red builds a reification-introduction line: var is bound to witness (0 or
// 1) and pb is the constraint the reification justifies.
func Red(id int, pb LinExpr, v sat.Var, witness int) Expr {
	return Expr{ID: id, Kind: KindRed, Red: pb, Var: v, Witness: witness}
}

// E builds an explicit-equality-check line against a previously stored id.
func E(id int, target int, pb LinExpr) Expr {
	return Expr{ID: id, Kind: KindE, Target: target, E: pb}
}

// NewP builds an empty pol-stack expression with the given id.
func NewP(id int) Expr {
	return Expr{ID: id, Kind: KindP, P: &PExpr{}}
}

// Print renders e in its canonical .pbp textual form, per the proof output
// grammar: U lines as RUP clauses, Red as "red <pb>; xV -> b", E as
// "e <id> <pb>;", P as "p <tok> <tok> ...".
func (e Expr) Print(name func(sat.Var) string) string {
	switch e.Kind {
	case KindU:
		return printU(e.Clause, name)
	case KindRed:
		return fmt.Sprintf("red %s x%d -> %d", e.Red.Print(name), e.Var+1, e.Witness)
	case KindE:
		return fmt.Sprintf("e %d %s", e.Target, e.E.Print(name))
	case KindP:
		return e.P.String()
	default:
		return ""
	}
}

func printU(clause sat.Clause, name func(sat.Var) string) string {
	var b strings.Builder
	b.WriteString("u ")
	for _, l := range clause {
		if l.Negated() {
			fmt.Fprintf(&b, "1 ~%s ", name(l.Var()))
		} else {
			fmt.Fprintf(&b, "1 %s ", name(l.Var()))
		}
	}
	b.WriteString(">= 1 ;")
	return b.String()
}

// PExpr is the reverse-Polish token stream of a "pol" expression. Pushing a
// previously-derived constraint id or a plain integer literal, followed by
// an operator that consumes the appropriate number of stack items, builds
// up the expression exactly as the canonical grammar requires: operators
// never carry an operand of their own beyond what was already pushed.
type PExpr struct {
	toks []string
}

// PushID pushes a reference to a previously emitted proof-line id.
func (p *PExpr) PushID(id int) *PExpr {
	p.toks = append(p.toks, strconv.Itoa(id))
	return p
}

// PushConst pushes a plain integer literal (not a constraint id) — used as
// the operand of a following Mul or Div.
func (p *PExpr) PushConst(v int64) *PExpr {
	p.toks = append(p.toks, strconv.FormatInt(v, 10))
	return p
}

// Add sums the top two stack items.
func (p *PExpr) Add() *PExpr {
	p.toks = append(p.toks, "+")
	return p
}

// Mul multiplies the top of stack by factor, which must be a positive
// integer already pushed via PushConst.
func (p *PExpr) Mul() *PExpr {
	p.toks = append(p.toks, "*")
	return p
}

// Div divides the top of stack by a positive divisor already pushed via
// PushConst, rounding up.
func (p *PExpr) Div() *PExpr {
	p.toks = append(p.toks, "d")
	return p
}

// Sat saturates the top of stack.
func (p *PExpr) Sat() *PExpr {
	p.toks = append(p.toks, "s")
	return p
}

func (p *PExpr) String() string {
	return "p " + strings.Join(p.toks, " ")
}

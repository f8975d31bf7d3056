package opb

import (
	"strings"
	"testing"

	"github.com/pflow-xyz/pb2cnf/sat"
)

func TestParseHeaderAndCardinality(t *testing.T) {
	src := `* #variable= 3 #constraint= 1
1 x1 1 x2 1 x3 >= 2 ;
`
	res, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.NVars != 3 || res.NConstraints != 1 {
		t.Fatalf("header = (%d,%d), want (3,1)", res.NVars, res.NConstraints)
	}
	// all-1 coefficients normalize into the cardinality list, not PBs.
	if len(res.Formula.Cards) != 1 {
		t.Fatalf("expected 1 cardinality constraint, got %d", len(res.Formula.Cards))
	}
	c := res.Formula.Cards[0]
	if c.RHS != 2 || c.Sign != sat.GEQ {
		t.Errorf("constraint = (rhs=%d sign=%v), want (2, >=)", c.RHS, c.Sign)
	}
}

func TestParseNegatedLiteral(t *testing.T) {
	src := `* #variable= 2 #constraint= 1
2 x1 3 ~x2 <= 4 ;
`
	res, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Formula.PBs) != 1 {
		t.Fatalf("expected 1 PB constraint, got %d", len(res.Formula.PBs))
	}
	p := res.Formula.PBs[0]
	if !p.Lits[1].Negated() {
		t.Errorf("expected second literal to be negated")
	}
}

func TestParseReusesVariableByName(t *testing.T) {
	src := `* #variable= 2 #constraint= 2
2 x1 1 x2 >= 1 ;
1 x1 2 x2 <= 3 ;
`
	res, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Formula.NVars() != 2 {
		t.Errorf("NVars() = %d, want 2 (x1/x2 reused across lines)", res.Formula.NVars())
	}
}

func TestParseRejectsMissingOperator(t *testing.T) {
	src := `* #variable= 1 #constraint= 1
1 x1 2 ;
`
	if _, err := Parse(strings.NewReader(src)); err == nil {
		t.Fatalf("expected an error for a line with no relational operator")
	}
}

func TestParseEqualityConstraint(t *testing.T) {
	src := `* #variable= 2 #constraint= 1
2 x1 1 x2 = 1 ;
`
	res, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Formula.PBs) != 1 || res.Formula.PBs[0].Sign != sat.EQ {
		t.Errorf("expected 1 PB constraint with Sign EQ")
	}
}

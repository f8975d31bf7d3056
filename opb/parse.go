// Package opb parses the OPB (pseudo-Boolean) input format into a
// pbc.Formula: a header line declaring the variable and constraint counts,
// followed by one constraint per line as a sequence of coeff*literal terms,
// a relational operator, and a terminating rhs.
package opb

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/holiman/uint256"

	"github.com/pflow-xyz/pb2cnf/pbc"
	"github.com/pflow-xyz/pb2cnf/sat"
)

// Result is a parsed OPB instance: the populated Formula plus the header
// counts it declared, so callers can sanity-check against what was
// actually built.
type Result struct {
	Formula      *pbc.Formula
	NVars        int
	NConstraints int
}

// Parse reads an OPB-formatted instance from r.
func Parse(r io.Reader) (*Result, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	f := pbc.New()
	res := &Result{Formula: f}

	lineNo := 0
	headerSeen := false
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "*") {
			if !headerSeen {
				nv, nc, err := parseHeader(line)
				if err != nil {
					return nil, fmt.Errorf("opb: line %d: %w", lineNo, err)
				}
				res.NVars, res.NConstraints = nv, nc
				headerSeen = true
			}
			continue
		}
		if err := parseConstraint(f, line); err != nil {
			return nil, fmt.Errorf("opb: line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("opb: reading input: %w", err)
	}
	return res, nil
}

// parseHeader extracts V and C from "* #variable= V #constraint= C".
func parseHeader(line string) (nVars, nConstraints int, err error) {
	fields := strings.Fields(line)
	for i, tok := range fields {
		switch tok {
		case "#variable=":
			if i+1 >= len(fields) {
				return 0, 0, fmt.Errorf("header: #variable= missing value")
			}
			nVars, err = strconv.Atoi(fields[i+1])
			if err != nil {
				return 0, 0, fmt.Errorf("header: invalid #variable= value: %w", err)
			}
		case "#constraint=":
			if i+1 >= len(fields) {
				return 0, 0, fmt.Errorf("header: #constraint= missing value")
			}
			nConstraints, err = strconv.Atoi(fields[i+1])
			if err != nil {
				return 0, 0, fmt.Errorf("header: invalid #constraint= value: %w", err)
			}
		}
	}
	return nVars, nConstraints, nil
}

// parseConstraint parses one "coeff xN | coeff ~xN ... (= | >= | <=) rhs ;"
// line and stores it into f. The running coefficient sum is accumulated in
// a uint256.Int so a file whose individual coefficients fit in 64 bits but
// whose sum does not is rejected as an overflow rather than silently
// wrapping.
func parseConstraint(f *pbc.Formula, line string) error {
	line = strings.TrimSuffix(strings.TrimSpace(line), ";")
	tokens := strings.Fields(line)

	var sign sat.Sign
	opIdx := -1
	for i, tok := range tokens {
		switch tok {
		case ">=":
			sign, opIdx = sat.GEQ, i
		case "<=":
			sign, opIdx = sat.LEQ, i
		case "=":
			sign, opIdx = sat.EQ, i
		}
		if opIdx >= 0 {
			break
		}
	}
	if opIdx < 0 {
		return fmt.Errorf("missing relational operator")
	}
	if opIdx+1 >= len(tokens) {
		return fmt.Errorf("missing rhs")
	}
	rhs, err := strconv.ParseInt(tokens[opIdx+1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid rhs %q: %w", tokens[opIdx+1], err)
	}

	p := &pbc.PB{Sign: sign, RHS: rhs}
	sum := new(uint256.Int)

	terms := tokens[:opIdx]
	for i := 0; i+1 < len(terms); i += 2 {
		coeffTok, varTok := terms[i], terms[i+1]
		coeff, err := strconv.ParseInt(coeffTok, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid coefficient %q: %w", coeffTok, err)
		}

		negated := strings.HasPrefix(varTok, "~")
		name := strings.TrimPrefix(varTok, "~")
		v, ok := f.VarByName(name)
		if !ok {
			v = f.NewVar()
			f.BindName(v, name)
		}
		lit := sat.MkLit(v, negated)

		sum.Add(sum, uint256.NewInt(uint64(abs(coeff))))
		if !sum.IsUint64() {
			return fmt.Errorf("coefficient sum overflows 64 bits")
		}

		p.AddTerm(lit, coeff)
	}

	f.AddPB(p)
	return nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

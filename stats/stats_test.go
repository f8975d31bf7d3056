package stats

import (
	"testing"

	"github.com/pflow-xyz/pb2cnf/encode"
	"github.com/pflow-xyz/pb2cnf/pbc"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	f := pbc.New()
	f.NewLiteral(false)

	id, err := s.Record("case.opb", encode.Plan{CardScheme: encode.Totalizer, PBScheme: encode.GTE, Verify: true}, f)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if id == 0 {
		t.Errorf("expected a nonzero row id")
	}

	runs, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Recent returned %d rows, want 1", len(runs))
	}
	if runs[0].Scheme != "totalizer" || !runs[0].Verified {
		t.Errorf("run = %+v, want scheme=totalizer verified=true", runs[0])
	}
}

func TestHistogramAggregatesByScheme(t *testing.T) {
	s := openTestStore(t)
	f := pbc.New()

	for i := 0; i < 3; i++ {
		f.Cards = append(f.Cards, nil)
	}
	if _, err := s.Record("batch.opb", encode.Plan{CardScheme: encode.Sequential, PBScheme: encode.GTE}, f); err != nil {
		t.Fatalf("Record: %v", err)
	}

	hist, err := s.Histogram("batch.opb")
	if err != nil {
		t.Fatalf("Histogram: %v", err)
	}
	if hist["sequential"] != 3 {
		t.Errorf("Histogram()[sequential] = %d, want 3", hist["sequential"])
	}
}

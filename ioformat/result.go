package ioformat

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/pflow-xyz/pb2cnf/pbc"
)

// WriteResult writes f's CNF to "<name>.cnf" and, when proof is true, its
// cutting-planes proof to "<name>.pbp". Each file is first written under a
// uuid-suffixed temp name in the same directory and then renamed into
// place, so two concurrent runs targeting the same output directory (the
// batch driver in package encode) never observe or collide on a
// partially-written file.
func WriteResult(dir, name string, f *pbc.Formula, proof bool) error {
	if err := writeAtomic(filepath.Join(dir, name+".cnf"), func(w *os.File) error {
		return WriteCNF(w, f)
	}); err != nil {
		return fmt.Errorf("ioformat: writing %s.cnf: %w", name, err)
	}

	if !proof {
		return nil
	}
	if err := writeAtomic(filepath.Join(dir, name+".pbp"), func(w *os.File) error {
		return WritePBP(w, f)
	}); err != nil {
		return fmt.Errorf("ioformat: writing %s.pbp: %w", name, err)
	}
	return nil
}

func writeAtomic(finalPath string, write func(*os.File) error) error {
	tmpPath := finalPath + "." + uuid.New().String() + ".tmp"

	tmp, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmpPath)

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}

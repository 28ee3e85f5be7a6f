package invest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FindLedger loads the ledger named 'name' from dir (a ledger name is
// its file name without the .jsonl extension). With an empty name: if
// the directory holds exactly one ledger it is returned, and if it
// holds none an empty default ledger is returned.
func FindLedger(dir, name string) (*Ledger, error) {
	paths, err := findLedgerPaths(dir, name)
	if err != nil {
		return nil, err
	}
	switch len(paths) {
	case 0:
		if name == "" {
			l := NewLedger()
			l.name = "transactions"
			return l, nil
		}
		return nil, fmt.Errorf("could not find ledger %q in %q", name, dir)
	case 1:
		return loadLedgerFile(paths[0])
	default:
		return nil, fmt.Errorf("multiple ledgers found in %q, pick one of them", dir)
	}
}

// loadLedgerFile opens, decodes, and names a ledger from a file path.
func loadLedgerFile(path string) (*Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", path, err)
	}
	defer f.Close()

	ledger, err := DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", path, err)
	}
	ledger.name = strings.TrimSuffix(filepath.Base(path), ".jsonl")
	return ledger, nil
}

// SaveLedger writes the ledger in canonical form to "<dir>/<name>.jsonl".
// The file is written to a temporary name and renamed over, so readers
// never observe a half-written ledger.
func SaveLedger(dir string, ledger *Ledger) error {
	if ledger.Name() == "" {
		return fmt.Errorf("cannot save ledger with an empty name")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create ledger directory %q: %w", dir, err)
	}

	path := filepath.Join(dir, ledger.Name()+".jsonl")
	tmp, err := os.CreateTemp(dir, ledger.Name()+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temporary ledger file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := ledger.Encode(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("could not encode ledger %q: %w", ledger.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// findLedgerPaths lists the ledger files of dir matching the name
// query (all of them when the query is empty). Cashflow files are not
// ledgers and are skipped.
func findLedgerPaths(dir, name string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not read ledger directory %q: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		if strings.HasSuffix(entry.Name(), cashflowSuffix) {
			continue
		}
		ledgerName := strings.TrimSuffix(entry.Name(), ".jsonl")
		if name == "" || name == ledgerName {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}

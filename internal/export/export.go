// Package export writes a full ledger dump as indented JSON.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"ledger/internal/core"
	"ledger/internal/settings"
)

// Document is the export file layout.
type Document struct {
	Transactions []core.Transaction `json:"transactions"`
	Accounts     []core.Account     `json:"accounts"`
	Settings     settings.Settings  `json:"settings"`
	Categories   []string           `json:"categories"`
}

// FileName returns ledger-export-YYYY-MM-DD.json for the given day.
func FileName(day time.Time) string {
	return fmt.Sprintf("ledger-export-%s.json", core.FormatDate(day))
}

// Write encodes doc to w with two-space indentation.
func Write(w io.Writer, doc Document) error {
	if doc.Transactions == nil {
		doc.Transactions = []core.Transaction{}
	}
	if doc.Accounts == nil {
		doc.Accounts = []core.Account{}
	}
	if doc.Categories == nil {
		doc.Categories = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// WriteFile writes doc into dir under FileName(day) and returns the path.
func WriteFile(dir string, day time.Time, doc Document) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(day))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := Write(f, doc); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}

package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
	"ledger/internal/settings"
)

func TestFileName(t *testing.T) {
	day := time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)
	if got := FileName(day); got != "ledger-export-2024-06-01.json" {
		t.Fatalf("FileName = %s", got)
	}
}

func TestWriteLayout(t *testing.T) {
	doc := Document{
		Transactions: []core.Transaction{{
			ID: 1, Type: core.Expense, Title: "Lunch", Category: "Food",
			Amount: decimal.NewFromInt(50000), Date: "2024-06-01",
		}},
		Settings:   settings.Default(),
		Categories: []string{"Food"},
	}
	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  \"transactions\": [") {
		t.Fatalf("expected indented output, got:\n%s", buf.String())
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"transactions", "accounts", "settings", "categories"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing %q", key)
		}
	}
	if string(decoded["accounts"]) != "[]" {
		t.Errorf("nil accounts should export as [], got %s", decoded["accounts"])
	}
	if !strings.Contains(string(decoded["transactions"]), `"amount": 50000`) {
		t.Errorf("amount should be a number: %s", decoded["transactions"])
	}
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	path, err := WriteFile(dir, day, Document{Settings: settings.Default()})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "ledger-export-2024-06-01.json" {
		t.Fatalf("unexpected path %s", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if doc.Settings.Currency != "IDR" {
		t.Fatalf("settings not exported: %+v", doc.Settings)
	}
}

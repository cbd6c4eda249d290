package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestT(t *testing.T) {
	tests := []struct {
		lang string
		key  string
		args []any
		want string
	}{
		{"id", Income, nil, "PEMASUKAN"},
		{"en", Income, nil, "INCOME"},
		{"id", Difference, nil, "SELISIH"},
		{"en", Report, nil, "Financial Report"},
		{"id", DeleteAllData, nil, "Hapus Semua Data"},
		{"", Save, nil, "Simpan"},
		{"fr", Cancel, nil, "Batal"},
		{"id", ExpenseChart, []any{"2024-06"}, "Pengeluaran per Kategori (2024-06)"},
		{"en", IncomeChart, []any{"2024-06"}, "Income by category (2024-06)"},
	}
	for _, tt := range tests {
		t.Run(tt.lang+"/"+tt.key, func(t *testing.T) {
			if got := T(tt.lang, tt.key, tt.args...); got != tt.want {
				t.Fatalf("T(%q, %q) = %q, want %q", tt.lang, tt.key, got, tt.want)
			}
		})
	}
}

func TestEveryKeyHasBothLanguages(t *testing.T) {
	for key, msgs := range entries {
		if msgs[0] == "" || msgs[1] == "" {
			t.Errorf("key %q is missing a translation", key)
		}
	}
}

func TestMatch(t *testing.T) {
	tests := map[string]language.Tag{
		"id":    language.Indonesian,
		"en":    language.English,
		"en-GB": language.English,
		"":      language.Indonesian,
		"zz!":   language.Indonesian,
	}
	for in, want := range tests {
		if got := Match(in); got != want {
			t.Errorf("Match(%q) = %v, want %v", in, got, want)
		}
	}
}

// Package i18n holds the user-facing strings in Indonesian and English.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	Income         = "INCOME"
	Expense        = "EXPENSE"
	Difference     = "DIFFERENCE"
	Accounts       = "Accounts"
	Report         = "Report"
	Settings       = "Settings"
	Transactions   = "Transactions"
	AccountsTab    = "AccountsTab"
	ReportTab      = "ReportTab"
	SettingsTab    = "SettingsTab"
	Save           = "Save"
	Cancel         = "Cancel"
	SaveSettings   = "Save Settings"
	ExportData     = "Export Data"
	DeleteAllData  = "Delete All Data"
	Edit           = "Edit"
	Delete         = "Delete"
	AddTransaction = "Add Transaction"
	EditTxTitle    = "Edit Transaction"
	SettingsSaved  = "Settings saved"
	DataCleared    = "Data cleared"
	ConfirmClear   = "Confirm clear"
	ExpenseChart   = "Expenses by category (%s)"
	IncomeChart    = "Income by category (%s)"
	NoTransactions = "No transactions"
	NetBalance     = "Net account balance"
)

var entries = map[string][2]string{ // key: {id, en}
	Income:         {"PEMASUKAN", "INCOME"},
	Expense:        {"PENGELUARAN", "EXPENSE"},
	Difference:     {"SELISIH", "DIFFERENCE"},
	Accounts:       {"Daftar Rekening", "Accounts"},
	Report:         {"Rekap Keuangan", "Financial Report"},
	Settings:       {"Pengaturan", "Settings"},
	Transactions:   {"Transaksi", "Transactions"},
	AccountsTab:    {"Rekening", "Accounts"},
	ReportTab:      {"Rekap", "Report"},
	SettingsTab:    {"Pengaturan", "Settings"},
	Save:           {"Simpan", "Save"},
	Cancel:         {"Batal", "Cancel"},
	SaveSettings:   {"Simpan Pengaturan", "Save Settings"},
	ExportData:     {"Export Data", "Export Data"},
	DeleteAllData:  {"Hapus Semua Data", "Delete All Data"},
	Edit:           {"Edit", "Edit"},
	Delete:         {"Hapus", "Delete"},
	AddTransaction: {"Tambah Transaksi", "Add Transaction"},
	EditTxTitle:    {"Edit Transaksi", "Edit Transaction"},
	SettingsSaved:  {"Pengaturan berhasil disimpan!", "Settings saved successfully!"},
	DataCleared:    {"Semua data berhasil dihapus!", "All data has been deleted!"},
	ConfirmClear: {
		"YAKIN ingin menghapus SEMUA data? Tindakan ini tidak dapat dibatalkan!",
		"Really delete ALL data? This cannot be undone!",
	},
	ExpenseChart:   {"Pengeluaran per Kategori (%s)", "Expenses by category (%s)"},
	IncomeChart:    {"Pemasukan per Kategori (%s)", "Income by category (%s)"},
	NoTransactions: {"Belum ada transaksi", "No transactions yet"},
	NetBalance:     {"Saldo bersih rekening", "Net account balance"},
}

var supported = []language.Tag{language.Indonesian, language.English}

var matcher = language.NewMatcher(supported)

// Catalog builds the translation catalog. Unknown languages fall back to
// Indonesian.
func Catalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.Indonesian))
	for key, msgs := range entries {
		// SetString only fails on malformed tags.
		_ = b.SetString(language.Indonesian, key, msgs[0])
		_ = b.SetString(language.English, key, msgs[1])
	}
	return b
}

var defaultCatalog = Catalog()

// Match maps a settings language code onto a supported tag.
func Match(lang string) language.Tag {
	tag, err := language.Parse(lang)
	if err != nil {
		return language.Indonesian
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.Indonesian
	}
	return supported[idx]
}

// Printer returns a message printer for the settings language code.
func Printer(lang string) *message.Printer {
	return message.NewPrinter(Match(lang), message.Catalog(defaultCatalog))
}

// T translates key, formatting args into it.
func T(lang, key string, args ...any) string {
	return Printer(lang).Sprintf(key, args...)
}

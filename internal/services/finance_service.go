// Package services composes the ledger, category and settings stores behind
// one facade used by the CLI and the HTTP API.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/cache"
	"ledger/internal/categories"
	"ledger/internal/core"
	"ledger/internal/export"
	"ledger/internal/i18n"
	"ledger/internal/ledger"
	"ledger/internal/log"
	"ledger/internal/records"
	"ledger/internal/report"
	"ledger/internal/settings"
)

const (
	reportCacheSize = 64
	reportCacheTTL  = 10 * time.Minute
)

// Publisher mirrors changes to an external broker.
type Publisher interface {
	Publish(ctx context.Context, change core.Change) error
}

type FinanceService struct {
	records    records.Store
	ledger     *ledger.Store
	categories *categories.Registry
	settings   *settings.Store
	formatter  *settings.Formatter
	publisher  Publisher
	logger     *log.Logger
	now        func() time.Time

	// cacheMu orders report cache writes against invalidation. generation
	// counts invalidations so a value computed from an older snapshot is
	// never stored.
	cacheMu    sync.Mutex
	generation uint64
	daily      *cache.LRUCache[core.DailySummary]
	monthly    *cache.LRUCache[core.MonthlyReport]

	mu          sync.Mutex
	nextSubID   int
	subscribers map[int]func(core.Change)
}

type Option func(*FinanceService)

func WithLogger(l *log.Logger) Option {
	return func(s *FinanceService) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *FinanceService) { s.now = now }
}

// WithPublisher mirrors every change to p. Publish failures are logged only.
func WithPublisher(p Publisher) Option {
	return func(s *FinanceService) { s.publisher = p }
}

// NewFinanceService loads every store from rs and wires the change hooks.
func NewFinanceService(ctx context.Context, rs records.Store, opts ...Option) *FinanceService {
	s := &FinanceService{
		records:     rs,
		logger:      log.Discard(),
		now:         time.Now,
		daily:       cache.NewLRUCache[core.DailySummary](reportCacheSize, reportCacheTTL),
		monthly:     cache.NewLRUCache[core.MonthlyReport](reportCacheSize, reportCacheTTL),
		subscribers: make(map[int]func(core.Change)),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.settings = settings.NewStore(ctx, rs, settings.WithLogger(s.logger))
	current := s.settings.Current()
	s.formatter = settings.NewFormatter(current)
	s.categories = categories.New(ctx, rs,
		categories.WithLogger(s.logger),
		categories.WithLanguage(i18n.Match(current.Language)))
	s.ledger = ledger.NewStore(ctx, rs,
		ledger.WithLogger(s.logger),
		ledger.WithClock(s.now),
		ledger.WithCategories(s.categories),
		ledger.WithListener(s.dispatch))

	s.settings.OnChange(func(next settings.Settings) {
		s.formatter.Refresh(next)
		s.categories.SetLanguage(context.Background(), i18n.Match(next.Language))
	})

	s.logger.WithComponent(log.ComponentService).InfoContext(ctx, "Finance service ready",
		"transactions", len(s.ledger.Transactions()),
		"accounts", len(s.ledger.Accounts()),
		"categories", len(s.categories.List()))
	return s
}

// Subscribe registers fn for every completed mutation and returns a function
// that removes it.
func (s *FinanceService) Subscribe(fn func(core.Change)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *FinanceService) dispatch(c core.Change) {
	if c.At.IsZero() {
		c.At = s.now()
	}
	s.invalidateReports()

	s.mu.Lock()
	subs := make([]func(core.Change), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(c)
	}

	if s.publisher != nil {
		ctx := context.Background()
		if err := s.publisher.Publish(ctx, c); err != nil {
			s.logger.WithComponent(log.ComponentAMQP).WarnContext(ctx, "Failed to publish change",
				"entity", c.Entity, "kind", string(c.Kind), log.FieldOperation, log.OpPublish, log.FieldError, err.Error())
		}
	}
}

// Reads.

func (s *FinanceService) Transactions() []core.Transaction { return s.ledger.Transactions() }
func (s *FinanceService) Accounts() []core.Account         { return s.ledger.Accounts() }
func (s *FinanceService) Categories() []string             { return s.categories.List() }
func (s *FinanceService) Settings() settings.Settings      { return s.settings.Current() }

func (s *FinanceService) Transaction(id int64) (core.Transaction, error) {
	tx, ok := s.ledger.Transaction(id)
	if !ok {
		return core.Transaction{}, &core.NotFoundError{Entity: core.EntityTransaction, ID: id}
	}
	return tx, nil
}

// Now reads the service clock.
func (s *FinanceService) Now() time.Time { return s.now() }

// Today is the default date selection for presentation layers.
func (s *FinanceService) Today() string {
	return core.FormatDate(s.now())
}

// Writes.

func (s *FinanceService) AddTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	return s.ledger.AddTransaction(ctx, in)
}

func (s *FinanceService) UpdateTransaction(ctx context.Context, id int64, edit core.TransactionEdit) (core.Transaction, error) {
	return s.ledger.UpdateTransaction(ctx, id, edit)
}

func (s *FinanceService) DeleteTransaction(ctx context.Context, id int64) bool {
	return s.ledger.DeleteTransaction(ctx, id)
}

func (s *FinanceService) AddAccount(ctx context.Context, name, balance string) (core.Account, error) {
	return s.ledger.AddAccount(ctx, name, balance)
}

func (s *FinanceService) DeleteAccount(ctx context.Context, id int64) bool {
	return s.ledger.DeleteAccount(ctx, id)
}

func (s *FinanceService) AddCategory(ctx context.Context, name string) error {
	if err := s.categories.Add(ctx, name); err != nil {
		return err
	}
	s.dispatch(core.Change{Kind: core.ChangeCreated, Entity: core.EntityCategory, Key: name})
	return nil
}

func (s *FinanceService) RemoveCategory(ctx context.Context, name string) {
	if !s.categories.Contains(name) {
		return
	}
	s.categories.Remove(ctx, name)
	s.dispatch(core.Change{Kind: core.ChangeDeleted, Entity: core.EntityCategory, Key: name})
}

// SaveSettings applies the non-blank fields and refreshes the formatter and
// category collation.
func (s *FinanceService) SaveSettings(ctx context.Context, currency, language, startDay string) settings.Settings {
	next := s.settings.Save(ctx, currency, language, startDay)
	s.dispatch(core.Change{Kind: core.ChangeUpdated, Entity: core.EntitySettings})
	return next
}

// ClearAll empties the ledger and restores the default categories. Settings
// are kept.
func (s *FinanceService) ClearAll(ctx context.Context) {
	s.ledger.Reset(ctx)
	s.categories.Reset(ctx)
	s.dispatch(core.Change{Kind: core.ChangeReset, Entity: core.EntityCategory})
	s.logger.WithComponent(log.ComponentService).InfoContext(ctx, "All ledger data cleared",
		log.FieldOperation, log.OpReset)
}

// Aggregations.

func (s *FinanceService) DailySummary(date string) (core.DailySummary, error) {
	if err := core.ValidateDate(date); err != nil {
		return core.DailySummary{}, err
	}
	if v, ok := s.daily.Get(date); ok {
		return v, nil
	}
	gen := s.reportGeneration()
	v := report.Daily(s.ledger.Transactions(), date)
	cacheIfCurrent(s, s.daily, gen, date, v)
	return v, nil
}

func (s *FinanceService) MonthlyReport(month string) (core.MonthlyReport, error) {
	if err := core.ValidateMonth(month); err != nil {
		return core.MonthlyReport{}, err
	}
	if v, ok := s.monthly.Get(month); ok {
		return v, nil
	}
	gen := s.reportGeneration()
	v := report.Monthly(s.ledger.Transactions(), s.ledger.Accounts(), month)
	cacheIfCurrent(s, s.monthly, gen, month, v)
	return v, nil
}

func (s *FinanceService) invalidateReports() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.generation++
	s.daily.Purge()
	s.monthly.Purge()
}

func (s *FinanceService) reportGeneration() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.generation
}

// cacheIfCurrent stores v unless the ledger changed since gen was read.
func cacheIfCurrent[T any](s *FinanceService, c *cache.LRUCache[T], gen uint64, key string, v T) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.generation == gen {
		c.Set(key, v)
	}
}

func (s *FinanceService) CategoryBreakdown(month string, typ core.TransactionType) (map[string]decimal.Decimal, error) {
	if err := core.ValidateMonth(month); err != nil {
		return nil, err
	}
	if !typ.Valid() {
		return nil, &core.ValidationError{Field: "type", Err: core.ErrInvalidType}
	}
	return report.CategoryBreakdown(s.ledger.Transactions(), month, typ), nil
}

func (s *FinanceService) DailyTransactions(date string) ([]core.Transaction, error) {
	if err := core.ValidateDate(date); err != nil {
		return nil, err
	}
	return report.DailyTransactions(s.ledger.Transactions(), date), nil
}

// Charts returns the expense and income series of month with titles in the
// configured language.
func (s *FinanceService) Charts(month string) ([]core.ChartSeries, error) {
	if err := core.ValidateMonth(month); err != nil {
		return nil, err
	}
	txs := s.ledger.Transactions()
	lang := s.settings.Current().Language
	return []core.ChartSeries{
		report.Series(i18n.T(lang, i18n.ExpenseChart, month), month, core.Expense,
			report.Breakdown(txs, month, core.Expense)),
		report.Series(i18n.T(lang, i18n.IncomeChart, month), month, core.Income,
			report.Breakdown(txs, month, core.Income)),
	}, nil
}

// Cleaners exposes the report caches to a periodic janitor.
func (s *FinanceService) Cleaners() []cache.Cleaner {
	return []cache.Cleaner{s.daily, s.monthly}
}

// FormatCurrency renders amount in the configured currency.
func (s *FinanceService) FormatCurrency(amount decimal.Decimal) string {
	return s.formatter.Format(amount)
}

// Export.

func (s *FinanceService) Document() export.Document {
	return export.Document{
		Transactions: s.ledger.Transactions(),
		Accounts:     s.ledger.Accounts(),
		Settings:     s.settings.Current(),
		Categories:   s.categories.List(),
	}
}

func (s *FinanceService) Export(w io.Writer) error {
	return export.Write(w, s.Document())
}

// ExportFile writes today's export into dir and returns its path.
func (s *FinanceService) ExportFile(ctx context.Context, dir string) (string, error) {
	path, err := export.WriteFile(dir, s.now(), s.Document())
	if err != nil {
		return "", err
	}
	s.logger.WithComponent(log.ComponentExport).InfoContext(ctx, "Ledger exported",
		"path", path, log.FieldOperation, log.OpExport)
	return path, nil
}

// Close releases the record store and the publisher.
func (s *FinanceService) Close() error {
	var errs []error
	if s.records != nil {
		if err := s.records.Close(); err != nil {
			errs = append(errs, fmt.Errorf("records: %w", err))
		}
	}
	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close finance service: %w", errors.Join(errs...))
	}
	return nil
}

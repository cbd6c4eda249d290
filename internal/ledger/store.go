// Package ledger holds the transaction and account collections and persists
// them together as a single snapshot record.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/records"
)

// CategoryChecker is satisfied by the category registry.
type CategoryChecker interface {
	Contains(name string) bool
}

type snapshot struct {
	Transactions []core.Transaction `json:"transactions"`
	Accounts     []core.Account     `json:"accounts"`
}

// Store keeps transactions newest first and accounts in creation order.
// Every mutation is written through to the record backend; a failed write is
// logged and the in-memory state stays authoritative.
type Store struct {
	mu         sync.Mutex
	records    records.Store
	logger     *log.Logger
	now        func() time.Time
	txIDs      *core.IDGenerator
	accountIDs *core.IDGenerator
	categories CategoryChecker
	listeners  []func(core.Change)

	transactions []core.Transaction
	accounts     []core.Account
}

type Option func(*Store)

// WithClock overrides time.Now for ids and default dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(log.ComponentLedger) }
}

// WithCategories makes AddTransaction and UpdateTransaction reject unknown categories.
func WithCategories(c CategoryChecker) Option {
	return func(s *Store) { s.categories = c }
}

func WithListener(fn func(core.Change)) Option {
	return func(s *Store) { s.listeners = append(s.listeners, fn) }
}

// NewStore builds a store and loads the persisted snapshot.
func NewStore(ctx context.Context, rs records.Store, opts ...Option) *Store {
	s := &Store{
		records: rs,
		logger:  log.Discard(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.txIDs = core.NewIDGenerator(s.now)
	s.accountIDs = core.NewIDGenerator(s.now)
	s.Load(ctx)
	return s
}

// OnChange registers fn to run after every completed mutation.
func (s *Store) OnChange(fn func(core.Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Load replaces the in-memory state with the persisted snapshot. A missing
// record yields an empty ledger; an unparsable one also erases the record.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions = []core.Transaction{}
	s.accounts = []core.Account{}

	snap, err := s.readSnapshot(ctx)
	if err != nil {
		var corrupt *core.CorruptStateError
		switch {
		case errors.Is(err, records.ErrNotFound):
		case errors.As(err, &corrupt):
			s.logger.WarnContext(ctx, "Ledger snapshot corrupt, starting empty",
				log.FieldKey, records.KeyLedger, log.FieldError, err.Error(),
				log.FieldErrorType, log.ErrorTypeCorruptState, log.FieldOperation, log.OpLoad)
			if derr := s.records.Delete(ctx, records.KeyLedger); derr != nil {
				s.logger.ErrorContext(ctx, "Failed to remove corrupt ledger snapshot", log.FieldError, derr.Error())
			}
		default:
			s.logger.ErrorContext(ctx, "Failed to read ledger snapshot",
				log.FieldKey, records.KeyLedger, log.FieldError, err.Error(), log.FieldOperation, log.OpLoad)
		}
		return
	}

	if snap.Transactions != nil {
		s.transactions = snap.Transactions
	}
	if snap.Accounts != nil {
		s.accounts = snap.Accounts
	}
	for _, tx := range s.transactions {
		s.txIDs.Observe(tx.ID)
	}
	for _, a := range s.accounts {
		s.accountIDs.Observe(a.ID)
	}
	s.logger.DebugContext(ctx, "Ledger loaded",
		"transactions", len(s.transactions), "accounts", len(s.accounts))
}

func (s *Store) readSnapshot(ctx context.Context) (snapshot, error) {
	var snap snapshot
	raw, err := s.records.Get(ctx, records.KeyLedger)
	if err != nil {
		return snap, err
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		return snap, &core.CorruptStateError{Key: records.KeyLedger, Err: err}
	}
	return snap, nil
}

// Save writes both collections as one record.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx)
}

func (s *Store) save(ctx context.Context) error {
	raw, err := json.Marshal(snapshot{Transactions: s.transactions, Accounts: s.accounts})
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := s.records.Put(ctx, records.KeyLedger, raw); err != nil {
		return &core.PersistenceError{Key: records.KeyLedger, Err: err}
	}
	return nil
}

// persist saves and swallows the failure after logging it.
func (s *Store) persist(ctx context.Context) {
	if err := s.save(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist ledger",
			log.FieldKey, records.KeyLedger, log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypePersistence)
	}
}

// AddTransaction validates in and prepends the new transaction.
func (s *Store) AddTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	if in.Date == "" {
		in.Date = core.FormatDate(s.now())
	}
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := core.ValidateDate(in.Date); err != nil {
		return core.Transaction{}, err
	}
	if err := s.checkCategory(in.Category); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	tx := core.Transaction{
		ID:       s.txIDs.Next(),
		Type:     in.Type,
		Title:    in.Title,
		Category: in.Category,
		Amount:   in.Amount,
		Date:     in.Date,
	}
	s.transactions = append([]core.Transaction{tx}, s.transactions...)
	s.persist(ctx)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Transaction added",
		log.FieldTransactionID, tx.ID, log.FieldType, tx.Type.String(),
		log.FieldCategory, tx.Category, log.FieldAmount, tx.Amount.String(), log.FieldDate, tx.Date)
	s.emit(core.Change{Kind: core.ChangeCreated, Entity: core.EntityTransaction, ID: tx.ID})
	return tx, nil
}

// UpdateTransaction replaces the editable fields of transaction id. The id is
// kept, and so is the date unless edit.Date is set.
func (s *Store) UpdateTransaction(ctx context.Context, id int64, edit core.TransactionEdit) (core.Transaction, error) {
	edit.Title = strings.TrimSpace(edit.Title)
	edit.Category = strings.TrimSpace(edit.Category)
	if err := edit.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.checkCategory(edit.Category); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	idx := s.indexOfTransaction(id)
	if idx < 0 {
		s.mu.Unlock()
		return core.Transaction{}, &core.NotFoundError{Entity: core.EntityTransaction, ID: id}
	}
	tx := &s.transactions[idx]
	tx.Type = edit.Type
	tx.Title = edit.Title
	tx.Category = edit.Category
	tx.Amount = edit.Amount
	if edit.Date != "" {
		tx.Date = edit.Date
	}
	updated := *tx
	s.persist(ctx)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Transaction updated", log.FieldTransactionID, id, log.FieldOperation, log.OpUpdate)
	s.emit(core.Change{Kind: core.ChangeUpdated, Entity: core.EntityTransaction, ID: id})
	return updated, nil
}

// DeleteTransaction removes transaction id and reports whether it existed.
// Deleting an unknown id changes nothing.
func (s *Store) DeleteTransaction(ctx context.Context, id int64) bool {
	s.mu.Lock()
	idx := s.indexOfTransaction(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.transactions = append(s.transactions[:idx:idx], s.transactions[idx+1:]...)
	s.persist(ctx)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Transaction deleted", log.FieldTransactionID, id, log.FieldOperation, log.OpDelete)
	s.emit(core.Change{Kind: core.ChangeDeleted, Entity: core.EntityTransaction, ID: id})
	return true
}

// AddAccount creates an account. An unparsable balance counts as zero. A
// positive balance also records an income transaction in the "Opening Balance"
// category dated today; both land in the same snapshot write.
func (s *Store) AddAccount(ctx context.Context, name, balance string) (core.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Account{}, &core.ValidationError{Field: "name", Err: core.ErrEmptyAccountName}
	}
	amount := core.ParseBalance(balance)

	s.mu.Lock()
	account := core.Account{ID: s.accountIDs.Next(), Name: name, Balance: amount}
	s.accounts = append(s.accounts, account)

	var opening *core.Transaction
	if amount.IsPositive() {
		tx := core.Transaction{
			ID:       s.txIDs.Next(),
			Type:     core.Income,
			Title:    core.OpeningBalanceTitle(name),
			Category: core.OpeningBalanceCategory,
			Amount:   amount,
			Date:     core.FormatDate(s.now()),
		}
		s.transactions = append([]core.Transaction{tx}, s.transactions...)
		opening = &tx
	}
	s.persist(ctx)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Account added",
		log.FieldAccountID, account.ID, "name", name, log.FieldAmount, amount.String())
	s.emit(core.Change{Kind: core.ChangeCreated, Entity: core.EntityAccount, ID: account.ID})
	if opening != nil {
		s.emit(core.Change{Kind: core.ChangeCreated, Entity: core.EntityTransaction, ID: opening.ID})
	}
	return account, nil
}

// DeleteAccount removes account id. Its opening balance transaction is left
// in place.
func (s *Store) DeleteAccount(ctx context.Context, id int64) bool {
	s.mu.Lock()
	idx := -1
	for i, a := range s.accounts {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.accounts = append(s.accounts[:idx:idx], s.accounts[idx+1:]...)
	s.persist(ctx)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Account deleted", log.FieldAccountID, id, log.FieldOperation, log.OpDelete)
	s.emit(core.Change{Kind: core.ChangeDeleted, Entity: core.EntityAccount, ID: id})
	return true
}

// Reset empties both collections and erases the snapshot record.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	s.transactions = []core.Transaction{}
	s.accounts = []core.Account{}
	if err := s.records.Delete(ctx, records.KeyLedger); err != nil {
		s.logger.ErrorContext(ctx, "Failed to erase ledger snapshot",
			log.FieldKey, records.KeyLedger, log.FieldError, err.Error())
	}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Ledger reset")
	s.emit(core.Change{Kind: core.ChangeReset, Entity: core.EntityLedger})
}

// Transactions returns a copy, newest first.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.transactions...)
}

// Accounts returns a copy in creation order.
func (s *Store) Accounts() []core.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Account(nil), s.accounts...)
}

func (s *Store) Transaction(id int64) (core.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOfTransaction(id); idx >= 0 {
		return s.transactions[idx], true
	}
	return core.Transaction{}, false
}

func (s *Store) Account(id int64) (core.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.ID == id {
			return a, true
		}
	}
	return core.Account{}, false
}

// OpeningBalanceTransaction finds the synthetic transaction of an account by
// its title and category. The match is by name only: renaming or deleting the
// account does not touch the transaction, and two accounts with the same name
// resolve to the newest one.
func (s *Store) OpeningBalanceTransaction(accountName string) (core.Transaction, bool) {
	title := core.OpeningBalanceTitle(strings.TrimSpace(accountName))
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.transactions {
		if tx.Category == core.OpeningBalanceCategory && tx.Title == title {
			return tx, true
		}
	}
	return core.Transaction{}, false
}

func (s *Store) indexOfTransaction(id int64) int {
	for i, tx := range s.transactions {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) checkCategory(category string) error {
	if s.categories == nil || category == core.OpeningBalanceCategory {
		return nil
	}
	if !s.categories.Contains(category) {
		return &core.ValidationError{Field: "category", Err: core.ErrUnknownCategory}
	}
	return nil
}

func (s *Store) emit(c core.Change) {
	c.At = s.now()
	s.mu.Lock()
	listeners := make([]func(core.Change), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(c)
	}
}

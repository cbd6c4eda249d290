// Package categories maintains the user's category labels.
//
// The registry is a deduplicated set kept in locale collation order. It is
// seeded from DefaultCategories when nothing usable is persisted and is
// written back after every change.
package categories

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/records"
)

// DefaultCategories covers common income and expense labels.
var DefaultCategories = []string{
	"Food", "Drinks", "Housing", "Transportation",
	"Health", "Debt", "Entertainment", "Hobbies", "Shopping",
	"Vacation", "Emergency Fund", "Investment", "Salary", "Bonus",
}

type Registry struct {
	mu       sync.Mutex
	store    records.Store
	logger   *log.Logger
	items    []string
	lang     language.Tag
	collator *collate.Collator
	folder   cases.Caser
}

type Option func(*Registry)

func WithLogger(l *log.Logger) Option {
	return func(r *Registry) { r.logger = l.WithComponent(log.ComponentCategories) }
}

// WithLanguage sets the initial collation locale.
func WithLanguage(tag language.Tag) Option {
	return func(r *Registry) { r.lang = tag }
}

// New loads the registry from store, seeding defaults on absence or corruption.
func New(ctx context.Context, store records.Store, opts ...Option) *Registry {
	r := &Registry{
		store:  store,
		logger: log.Discard(),
		lang:   language.Indonesian,
		folder: cases.Fold(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.collator = collate.New(r.lang)
	r.load(ctx)
	return r
}

func (r *Registry) load(ctx context.Context) {
	items, err := r.read(ctx)
	if err == nil {
		r.items = dedupe(items, r.folder)
		return
	}
	if !errors.Is(err, records.ErrNotFound) {
		r.logger.WarnContext(ctx, "Category record unusable, seeding defaults",
			log.FieldError, err.Error(), log.FieldErrorType, log.ErrorTypeCorruptState, log.FieldOperation, log.OpLoad)
	}
	r.items = append([]string(nil), DefaultCategories...)
	r.persist(ctx)
}

func (r *Registry) read(ctx context.Context) ([]string, error) {
	raw, err := r.store.Get(ctx, records.KeyCategories)
	if err != nil {
		return nil, err
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &core.CorruptStateError{Key: records.KeyCategories, Err: err}
	}
	if items == nil {
		return nil, &core.CorruptStateError{Key: records.KeyCategories, Err: errors.New("null category list")}
	}
	return items, nil
}

// Add inserts name and re-sorts. Blank names and case-insensitive duplicates
// are rejected with a ValidationError.
func (r *Registry) Add(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &core.ValidationError{Field: "category", Err: core.ErrCategoryEmpty}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	folded := r.folder.String(name)
	for _, existing := range r.items {
		if r.folder.String(existing) == folded {
			return &core.ValidationError{Field: "category", Err: core.ErrCategoryExists}
		}
	}

	r.items = append(r.items, name)
	r.collator.SortStrings(r.items)
	r.persist(ctx)
	r.logger.InfoContext(ctx, "Category added", log.FieldCategory, name)
	return nil
}

// Remove deletes an exact match. Missing names are ignored.
func (r *Registry) Remove(ctx context.Context, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.items[:0]
	removed := false
	for _, c := range r.items {
		if c == name {
			removed = true
			continue
		}
		out = append(out, c)
	}
	r.items = out
	if removed {
		r.persist(ctx)
		r.logger.InfoContext(ctx, "Category removed", log.FieldCategory, name)
	}
}

// List returns a copy of the registry in display order.
func (r *Registry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.items...)
}

// Contains reports whether name is registered exactly.
func (r *Registry) Contains(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c == name {
			return true
		}
	}
	return false
}

// SetLanguage switches the collation locale and re-sorts.
func (r *Registry) SetLanguage(ctx context.Context, tag language.Tag) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tag == r.lang {
		return
	}
	r.lang = tag
	r.collator = collate.New(tag)
	r.collator.SortStrings(r.items)
	r.persist(ctx)
}

// Reset restores the default categories.
func (r *Registry) Reset(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]string(nil), DefaultCategories...)
	if err := r.store.Delete(ctx, records.KeyCategories); err != nil {
		r.logger.WarnContext(ctx, "Failed to delete category record", log.FieldError, err.Error())
	}
	r.persist(ctx)
}

// persist writes the current list. Failures are logged; memory stays authoritative.
func (r *Registry) persist(ctx context.Context) {
	raw, err := json.Marshal(r.items)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to encode categories", log.FieldError, err.Error())
		return
	}
	if err := r.store.Put(ctx, records.KeyCategories, raw); err != nil {
		perr := &core.PersistenceError{Key: records.KeyCategories, Err: err}
		r.logger.ErrorContext(ctx, "Failed to persist categories",
			log.FieldError, perr.Error(), log.FieldErrorType, log.ErrorTypePersistence)
	}
}

func dedupe(in []string, folder cases.Caser) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := folder.String(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Package settings stores the user's display preferences and formats amounts
// for them.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/records"
)

const (
	DefaultCurrency = "IDR"
	DefaultLanguage = "id"
	DefaultStartDay = "1"
)

// Settings is persisted as-is; blank fields fall back to the defaults on read.
type Settings struct {
	Currency string `json:"currency,omitempty"`
	Language string `json:"language,omitempty"`
	StartDay string `json:"startDay,omitempty"`
}

func Default() Settings {
	return Settings{Currency: DefaultCurrency, Language: DefaultLanguage, StartDay: DefaultStartDay}
}

// WithDefaults fills blank fields.
func (s Settings) WithDefaults() Settings {
	if s.Currency == "" {
		s.Currency = DefaultCurrency
	}
	if s.Language == "" {
		s.Language = DefaultLanguage
	}
	if s.StartDay == "" {
		s.StartDay = DefaultStartDay
	}
	return s
}

// LanguageTag resolves the display language, falling back to Indonesian.
func (s Settings) LanguageTag() language.Tag {
	tag, err := language.Parse(s.WithDefaults().Language)
	if err != nil {
		return language.Indonesian
	}
	return tag
}

// Store holds the current settings and writes them to the settings record.
type Store struct {
	mu        sync.Mutex
	records   records.Store
	logger    *log.Logger
	stored    Settings
	listeners []func(Settings)
}

type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(log.ComponentSettings) }
}

func NewStore(ctx context.Context, rs records.Store, opts ...Option) *Store {
	s := &Store{records: rs, logger: log.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.Load(ctx)
	return s
}

// OnChange registers fn to run after each Save with the effective settings.
func (s *Store) OnChange(fn func(Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Load reads the record. A corrupt record is removed and treated as empty.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stored = Settings{}
	raw, err := s.records.Get(ctx, records.KeySettings)
	if err != nil {
		if !errors.Is(err, records.ErrNotFound) {
			s.logger.ErrorContext(ctx, "Failed to read settings", log.FieldError, err.Error())
		}
		return
	}
	var loaded Settings
	if err := json.Unmarshal(raw, &loaded); err != nil {
		cerr := &core.CorruptStateError{Key: records.KeySettings, Err: err}
		s.logger.WarnContext(ctx, "Settings record corrupt, using defaults",
			log.FieldError, cerr.Error(), log.FieldErrorType, log.ErrorTypeCorruptState, log.FieldOperation, log.OpLoad)
		if derr := s.records.Delete(ctx, records.KeySettings); derr != nil {
			s.logger.ErrorContext(ctx, "Failed to remove corrupt settings", log.FieldError, derr.Error())
		}
		return
	}
	s.stored = loaded
}

// Current returns the effective settings with defaults applied.
func (s *Store) Current() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stored.WithDefaults()
}

// Save updates the settings. Blank arguments keep the current value. Save
// always succeeds in memory; a failed write is logged.
func (s *Store) Save(ctx context.Context, currency, lang, startDay string) Settings {
	s.mu.Lock()
	next := s.stored.WithDefaults()
	if v := strings.ToUpper(strings.TrimSpace(currency)); v != "" {
		next.Currency = v
	}
	if v := strings.TrimSpace(lang); v != "" {
		next.Language = v
	}
	if v := strings.TrimSpace(startDay); v != "" {
		next.StartDay = v
	}
	s.stored = next

	if raw, err := json.Marshal(next); err != nil {
		s.logger.ErrorContext(ctx, "Failed to encode settings", log.FieldError, err.Error())
	} else if err := s.records.Put(ctx, records.KeySettings, raw); err != nil {
		perr := &core.PersistenceError{Key: records.KeySettings, Err: err}
		s.logger.ErrorContext(ctx, "Failed to persist settings",
			log.FieldError, perr.Error(), log.FieldErrorType, log.ErrorTypePersistence)
	}
	listeners := make([]func(Settings), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Settings saved",
		"currency", next.Currency, "language", next.Language, "start_day", next.StartDay)
	for _, fn := range listeners {
		fn(next)
	}
	return next
}

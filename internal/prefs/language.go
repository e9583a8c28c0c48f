package prefs

import (
	"context"
	"log/slog"
	"sync"

	"github.com/doudou-app/doudou/internal/domain"
	"github.com/doudou-app/doudou/internal/i18n"
)

// LanguageKey is the storage key of the persisted interface language.
const LanguageKey = "doudou_language"

// LanguageStore holds the active interface language. Changes apply in memory
// immediately and are persisted in the background.
type LanguageStore struct {
	storage Storage
	logger  *slog.Logger

	mu   sync.RWMutex
	lang domain.Language
	seq  uint64

	// writeMu orders writes; a write superseded by a newer SetLanguage is
	// dropped so storage ends on the latest value.
	writeMu sync.Mutex
	pending sync.WaitGroup
}

// NewLanguageStore creates a store starting at the default language.
func NewLanguageStore(storage Storage, logger *slog.Logger) *LanguageStore {
	return &LanguageStore{
		storage: storage,
		logger:  logger,
		lang:    domain.DefaultLanguage,
	}
}

// Language returns the active language.
func (s *LanguageStore) Language() domain.Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// SetLanguage switches the active language and starts persisting it. The
// write is not awaited; a failed write is logged and the in-memory value
// stays changed.
func (s *LanguageStore) SetLanguage(ctx context.Context, lang domain.Language) {
	s.mu.Lock()
	s.lang = lang
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		if !s.latest(seq) {
			return
		}
		if err := s.storage.Set(ctx, LanguageKey, string(lang)); err != nil {
			s.logger.ErrorContext(ctx, "failed to persist language",
				slog.String("language", string(lang)),
				slog.String("error", err.Error()),
			)
		}
	}()
}

func (s *LanguageStore) latest(seq uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq == seq
}

// Wait blocks until every persistence write started by SetLanguage returns.
func (s *LanguageStore) Wait() {
	s.pending.Wait()
}

// LoadLanguage adopts the persisted language when it is "en" or "fr". Missing
// or invalid values leave the current language alone; read errors are logged.
func (s *LanguageStore) LoadLanguage(ctx context.Context) {
	v, ok, err := s.storage.Get(ctx, LanguageKey)
	if err != nil {
		s.logger.WarnContext(ctx, "error loading language",
			slog.String("error", err.Error()),
		)
		return
	}
	if !ok {
		return
	}
	lang, valid := domain.ParseLanguage(v)
	if !valid {
		s.logger.DebugContext(ctx, "ignoring persisted language", slog.String("value", v))
		return
	}

	s.mu.Lock()
	s.lang = lang
	s.mu.Unlock()
}

// T translates key in the active language, falling back to the key.
func (s *LanguageStore) T(key string) string {
	return i18n.Translate(s.Language(), key)
}

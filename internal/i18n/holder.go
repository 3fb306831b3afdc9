package i18n

import (
	"context"
	"sync"
)

// PrefStore persists a language preference under a fixed namespace key.
// Absence of the key means "use the default language".
type PrefStore interface {
	Load(ctx context.Context) (Language, bool, error)
	Save(ctx context.Context, lang Language) error
}

// Holder is the single source of truth for the active language. Views that
// render localized strings subscribe to it and re-resolve on change.
// All mutation goes through Set/Toggle; persistence is centralized here so
// every entry point behaves the same way.
type Holder struct {
	mu    sync.RWMutex
	lang  Language
	subs  []func(Language)
	store PrefStore // nil disables persistence
}

// NewHolder starts at def, or at the persisted preference when the store has
// one. A store read failure is fail-soft: the default wins.
func NewHolder(ctx context.Context, def Language, store PrefStore) *Holder {
	h := &Holder{lang: def, store: store}
	if store != nil {
		if lang, ok, err := store.Load(ctx); err == nil && ok {
			h.lang = lang
		}
	}
	return h
}

func (h *Holder) Current() Language {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lang
}

// Set switches the active language. Anything outside es/en is rejected with
// ErrInvalidLanguage and leaves the state untouched.
func (h *Holder) Set(ctx context.Context, lang Language) error {
	if lang != ES && lang != EN {
		return ErrInvalidLanguage
	}
	h.mu.Lock()
	if lang == h.lang {
		h.mu.Unlock()
		return nil
	}
	h.lang = lang
	subs := append(([]func(Language))(nil), h.subs...)
	h.mu.Unlock()

	if h.store != nil {
		// best effort; a failed write must not block the switch
		_ = h.store.Save(ctx, lang)
	}
	for _, fn := range subs {
		fn(lang)
	}
	return nil
}

// Toggle flips es<->en and returns the new language.
func (h *Holder) Toggle(ctx context.Context) Language {
	next := h.Current().Other()
	_ = h.Set(ctx, next)
	return next
}

// Subscribe registers fn to run synchronously after every language change.
func (h *Holder) Subscribe(fn func(Language)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs = append(h.subs, fn)
}

package domain

import (
	"context"

	"visible_mx/internal/i18n"
)

type ContentRepository interface {
	// Write paths
	UpsertTranslations(ctx context.Context, entries []TranslationEntry) error
	UpsertMenuItem(ctx context.Context, item MenuItem) error
	UpsertPackage(ctx context.Context, p Package) error
	LogMiss(ctx context.Context, doc string, status int, reason string) error

	// Read paths
	GetNamespace(ctx context.Context, namespace string) (NamespaceContent, error)
	ListNamespaces(ctx context.Context) ([]string, error)
	ListMenuItems(ctx context.Context, catalog string) ([]MenuItem, error)
	ListPackages(ctx context.Context) ([]Package, error)
}

// ContentSource fetches the raw content documents (translations, menu,
// packages) published by the CMS. Shapes are loose JSON; the app layer maps
// them into domain types.
type ContentSource interface {
	FetchTranslations(ctx context.Context) (map[string]any, error)
	FetchMenu(ctx context.Context) ([]map[string]any, error)
	FetchPackages(ctx context.Context) ([]map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// SessionStore persists per-visitor state: the chosen language and the menu
// demo's cart quantities. A missing session yields zero values, not errors.
type SessionStore interface {
	LoadLanguage(ctx context.Context, sid string) (i18n.Language, bool, error)
	SaveLanguage(ctx context.Context, sid string, lang i18n.Language) error
	LoadCart(ctx context.Context, sid string) (map[int64]int, error)
	SaveCart(ctx context.Context, sid string, qty map[int64]int) error
	DeleteCart(ctx context.Context, sid string) error
}

// AnalyticsSink receives user-action events. Implementations may be a no-op,
// a log, or a metrics counter; handlers depend on the interface, never on a
// global.
type AnalyticsSink interface {
	Event(ctx context.Context, name string, props map[string]string)
}

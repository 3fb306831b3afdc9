package domain

import "visible_mx/internal/i18n"

// TranslationEntry is one flattened dictionary row: a dot-path inside a
// per-component namespace, with its literal for one language.
type TranslationEntry struct {
	Namespace string
	Lang      i18n.Language
	Path      string
	Value     string
}

// NamespaceContent is everything stored for one namespace, keyed language ->
// path -> literal.
type NamespaceContent map[i18n.Language]map[string]string

// MenuItem is a priced catalog entry from one of the demo menus. Prices are
// whole-peso amounts stored as MXN cents. Defined by content data, never
// mutated at runtime.
type MenuItem struct {
	ID         int64
	Catalog    string // e.g. "tacos", "sushi"
	Category   string
	Names      map[i18n.Language]string
	PriceCents int64
	Available  bool
}

// Package is a pricing-page offer. Its display prices are pre-formatted
// literals from the content data ("$1,799 MXN", "$99 USD"); RegularMXN is
// the optional struck-through price.
type Package struct {
	Slug       string
	Names      map[i18n.Language]string
	Features   map[i18n.Language][]string
	PriceMXN   string
	PriceUSD   string
	RegularMXN *string
	Featured   bool
}

// Name returns the localized name, falling back to the default language.
func (m MenuItem) Name(lang i18n.Language) string {
	if n, ok := m.Names[lang]; ok && n != "" {
		return n
	}
	return m.Names[i18n.Default]
}

func (p Package) Name(lang i18n.Language) string {
	if n, ok := p.Names[lang]; ok && n != "" {
		return n
	}
	return p.Names[i18n.Default]
}

func (p Package) FeatureList(lang i18n.Language) []string {
	if fs, ok := p.Features[lang]; ok && len(fs) > 0 {
		return fs
	}
	return p.Features[i18n.Default]
}

// ---- read models ----

type ContentView struct {
	Namespace string            `json:"namespace"`
	Language  i18n.Language     `json:"language"`
	Strings   map[string]string `json:"strings"`
}

type MenuItemView struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	PriceCents int64  `json:"price_cents"`
	Price      string `json:"price"`
}

type MenuView struct {
	Catalog       string         `json:"catalog"`
	Language      i18n.Language  `json:"language"`
	Items         []MenuItemView `json:"items"`
	MinOrderCents int64          `json:"min_order_cents"`
	MinOrder      string         `json:"min_order"`
}

type PackageView struct {
	Slug         string        `json:"slug"`
	Language     i18n.Language `json:"language"`
	Name         string        `json:"name"`
	Features     []string      `json:"features"`
	PriceLine    string        `json:"price_line"`
	RegularPrice *string       `json:"regular_price,omitempty"`
	Featured     bool          `json:"featured"`
}

type CartLineView struct {
	ItemID    int64  `json:"item_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitCents int64  `json:"unit_cents"`
	LineCents int64  `json:"line_cents"`
}

type CartSummary struct {
	Language      i18n.Language  `json:"language"`
	Lines         []CartLineView `json:"lines"`
	Count         int            `json:"count"`
	TotalCents    int64          `json:"total_cents"`
	Total         string         `json:"total"`
	CheckoutReady bool           `json:"checkout_ready"`
}

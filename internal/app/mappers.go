package app

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"visible_mx/internal/domain"
	"visible_mx/internal/i18n"
)

/********** alias registries (single source of truth) **********/

var menuAliases = map[string][]string{
	"id":       {"id", "item_id", "product_id"},
	"catalog":  {"catalog", "menu", "demo"},
	"category": {"category", "section", "type"},
	"price":    {"price", "price_mxn", "unit_price"},
	"cents":    {"price_cents", "cents"},
}

var packageAliases = map[string][]string{
	"slug":     {"slug", "id", "key"},
	"mxn":      {"price_mxn", "priceMXN", "mxn"},
	"usd":      {"price_usd", "priceUSD", "usd"},
	"regular":  {"regular_mxn", "regular_price", "regular"},
	"featured": {"featured", "highlight", "popular"},
}

/********** generic extractors **********/

// dig walks a dot-path through nested maps.
func dig(m map[string]any, path string) (any, bool) {
	var cur any = m
	for _, seg := range strings.Split(path, ".") {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = mm[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func firstStr(m map[string]any, aliases []string) (string, bool) {
	for _, a := range aliases {
		if v, ok := dig(m, a); ok {
			switch t := v.(type) {
			case string:
				if s := strings.TrimSpace(t); s != "" {
					return s, true
				}
			case float64:
				return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", t), "0"), "."), true
			}
		}
	}
	return "", false
}

func firstNum(m map[string]any, aliases []string) (float64, bool) {
	for _, a := range aliases {
		if v, ok := dig(m, a); ok {
			switch t := v.(type) {
			case float64:
				return t, true
			case int:
				return float64(t), true
			case string:
				var f float64
				if _, err := fmt.Sscanf(strings.TrimSpace(t), "%f", &f); err == nil {
					return f, true
				}
			}
		}
	}
	return 0, false
}

func firstBool(m map[string]any, aliases []string) bool {
	for _, a := range aliases {
		if v, ok := dig(m, a); ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
	}
	return false
}

// perLangStrings reads {"es": "...", "en": "..."} under field, also accepting
// the flat field_es/field_en convention.
func perLangStrings(m map[string]any, field string) map[i18n.Language]string {
	out := map[i18n.Language]string{}
	if v, ok := dig(m, field); ok {
		if mm, ok := v.(map[string]any); ok {
			for code, raw := range mm {
				lang, err := i18n.Parse(code)
				if err != nil {
					continue
				}
				if s, ok := raw.(string); ok {
					out[lang] = s
				}
			}
		}
	}
	for _, lang := range []i18n.Language{i18n.ES, i18n.EN} {
		if _, have := out[lang]; have {
			continue
		}
		if v, ok := dig(m, field+"_"+string(lang)); ok {
			if s, ok := v.(string); ok {
				out[lang] = s
			}
		}
	}
	return out
}

func perLangLists(m map[string]any, field string) map[i18n.Language][]string {
	out := map[i18n.Language][]string{}
	v, ok := dig(m, field)
	if !ok {
		return out
	}
	mm, ok := v.(map[string]any)
	if !ok {
		return out
	}
	for code, raw := range mm {
		lang, err := i18n.Parse(code)
		if err != nil {
			continue
		}
		items, ok := raw.([]any)
		if !ok {
			continue
		}
		var fs []string
		for _, it := range items {
			if s, ok := it.(string); ok {
				fs = append(fs, s)
			}
		}
		out[lang] = fs
	}
	return out
}

/********** document mappers **********/

// mapTranslations flattens the {"es": {...}, "en": {...}} document into
// per-namespace entries. The first path segment is the component namespace;
// top-level string leaves land in the "common" namespace.
func mapTranslations(raw map[string]any) []domain.TranslationEntry {
	var out []domain.TranslationEntry
	for code, sub := range raw {
		lang, err := i18n.Parse(code)
		if err != nil {
			continue
		}
		tree, ok := sub.(map[string]any)
		if !ok {
			continue
		}
		flat := i18n.Tree(tree).Flatten()
		paths := make([]string, 0, len(flat))
		for p := range flat {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			ns, rest, found := strings.Cut(p, ".")
			if !found {
				ns, rest = "common", p
			}
			out = append(out, domain.TranslationEntry{
				Namespace: ns,
				Lang:      lang,
				Path:      rest,
				Value:     flat[p],
			})
		}
	}
	return out
}

// mapMenuItem converts a raw menu record. Prices may come as whole pesos
// ("price": 35) or as cents ("price_cents": 3500); pesos win only when cents
// are absent.
func mapMenuItem(raw map[string]any) (domain.MenuItem, error) {
	id, ok := firstNum(raw, menuAliases["id"])
	if !ok || id <= 0 {
		return domain.MenuItem{}, fmt.Errorf("menu item without id: %v", raw)
	}
	item := domain.MenuItem{
		ID:        int64(id),
		Catalog:   "tacos",
		Available: true,
		Names:     perLangStrings(raw, "name"),
	}
	if cat, ok := firstStr(raw, menuAliases["catalog"]); ok {
		item.Catalog = cat
	}
	if c, ok := firstStr(raw, menuAliases["category"]); ok {
		item.Category = c
	}
	if cents, ok := firstNum(raw, menuAliases["cents"]); ok {
		item.PriceCents = int64(math.Round(cents))
	} else if pesos, ok := firstNum(raw, menuAliases["price"]); ok {
		item.PriceCents = int64(math.Round(pesos * 100))
	}
	if v, ok := dig(raw, "available"); ok {
		if b, ok := v.(bool); ok {
			item.Available = b
		}
	}
	if len(item.Names) == 0 {
		return domain.MenuItem{}, fmt.Errorf("menu item %d has no names", item.ID)
	}
	return item, nil
}

func mapPackage(raw map[string]any) (domain.Package, error) {
	slug, ok := firstStr(raw, packageAliases["slug"])
	if !ok {
		return domain.Package{}, fmt.Errorf("package without slug: %v", raw)
	}
	p := domain.Package{
		Slug:     slug,
		Names:    perLangStrings(raw, "name"),
		Features: perLangLists(raw, "features"),
		Featured: firstBool(raw, packageAliases["featured"]),
	}
	p.PriceMXN, _ = firstStr(raw, packageAliases["mxn"])
	p.PriceUSD, _ = firstStr(raw, packageAliases["usd"])
	if reg, ok := firstStr(raw, packageAliases["regular"]); ok {
		p.RegularMXN = &reg
	}
	if len(p.Names) == 0 {
		return domain.Package{}, fmt.Errorf("package %s has no names", slug)
	}
	return p, nil
}

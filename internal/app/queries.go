package app

import (
	"context"
	"fmt"
	"time"

	"visible_mx/internal/domain"
	"visible_mx/internal/i18n"
	"visible_mx/internal/pricing"
)

type QueryService struct {
	repo     domain.ContentRepository
	cache    domain.Cache
	cacheTTL time.Duration
	minOrder int64 // MXN cents, menu demo checkout floor
}

func NewQueryService(r domain.ContentRepository, c domain.Cache, ttl time.Duration, minOrderCents int64) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl, minOrder: minOrderCents}
}

func (s *QueryService) MinOrderCents() int64 { return s.minOrder }

// ContentBundle resolves every string of one namespace for the requested
// language. Keys missing in that language fall back to the default language;
// a key present nowhere simply isn't in the bundle. The resolved view is
// cached per (namespace, language).
func (s *QueryService) ContentBundle(ctx context.Context, namespace string, lang i18n.Language) (domain.ContentView, error) {
	key := fmt.Sprintf("content:%s:%s", namespace, lang)
	var cv domain.ContentView
	if ok, _ := s.cache.Get(ctx, key, &cv); ok {
		return cv, nil
	}

	nsc, err := s.repo.GetNamespace(ctx, namespace)
	if err != nil {
		return domain.ContentView{}, err
	}
	strings := map[string]string{}
	for _, m := range []map[string]string{nsc[i18n.Default], nsc[lang]} {
		for path, value := range m {
			strings[path] = value
		}
	}
	cv = domain.ContentView{Namespace: namespace, Language: lang, Strings: strings}
	_ = s.cache.Set(ctx, key, cv, int(s.cacheTTL.Seconds()))
	return cv, nil
}

// Namespaces lists the content namespaces that have at least one string.
func (s *QueryService) Namespaces(ctx context.Context) ([]string, error) {
	return s.repo.ListNamespaces(ctx)
}

// Menu returns the localized catalog for one demo menu. Unavailable items
// are filtered out before caching.
func (s *QueryService) Menu(ctx context.Context, catalog string, lang i18n.Language) (domain.MenuView, error) {
	key := fmt.Sprintf("menu:%s:%s", catalog, lang)
	var mv domain.MenuView
	if ok, _ := s.cache.Get(ctx, key, &mv); ok {
		return mv, nil
	}

	items, err := s.repo.ListMenuItems(ctx, catalog)
	if err != nil {
		return domain.MenuView{}, err
	}
	if len(items) == 0 {
		return domain.MenuView{}, domain.ErrNotFound
	}
	mv = domain.MenuView{
		Catalog:       catalog,
		Language:      lang,
		MinOrderCents: s.minOrder,
		MinOrder:      pricing.FormatMXN(s.minOrder),
	}
	for _, it := range items {
		if !it.Available {
			continue
		}
		mv.Items = append(mv.Items, domain.MenuItemView{
			ID:         it.ID,
			Name:       it.Name(lang),
			Category:   it.Category,
			PriceCents: it.PriceCents,
			Price:      pricing.FormatMXN(it.PriceCents),
		})
	}
	_ = s.cache.Set(ctx, key, deepCopyMenuView(mv), int(s.cacheTTL.Seconds()))
	return mv, nil
}

// Packages returns the pricing page offers with price lines ordered for the
// requested language (USD first for English readers, MXN first otherwise).
func (s *QueryService) Packages(ctx context.Context, lang i18n.Language) ([]domain.PackageView, error) {
	key := fmt.Sprintf("packages:%s", lang)
	var out []domain.PackageView
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	pkgs, err := s.repo.ListPackages(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range pkgs {
		out = append(out, domain.PackageView{
			Slug:         p.Slug,
			Language:     lang,
			Name:         p.Name(lang),
			Features:     p.FeatureList(lang),
			PriceLine:    pricing.FormatPriceLine(p.PriceMXN, p.PriceUSD, lang),
			RegularPrice: p.RegularMXN,
			Featured:     p.Featured,
		})
	}
	// copy slice to avoid aliasing the repo's backing array
	cp := make([]domain.PackageView, len(out))
	copy(cp, out)
	_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	return out, nil
}

// PriceMap returns item id -> MXN cents for cart totals, unavailable items
// excluded.
func (s *QueryService) PriceMap(ctx context.Context, catalog string) (map[int64]int64, error) {
	key := fmt.Sprintf("prices:%s", catalog)
	var prices map[int64]int64
	if ok, _ := s.cache.Get(ctx, key, &prices); ok {
		return prices, nil
	}

	items, err := s.repo.ListMenuItems(ctx, catalog)
	if err != nil {
		return nil, err
	}
	prices = make(map[int64]int64, len(items))
	for _, it := range items {
		if it.Available {
			prices[it.ID] = it.PriceCents
		}
	}
	_ = s.cache.Set(ctx, key, prices, int(s.cacheTTL.Seconds()))
	return prices, nil
}

// ItemNames returns id -> localized display name for one catalog.
func (s *QueryService) ItemNames(ctx context.Context, catalog string, lang i18n.Language) (map[int64]string, error) {
	items, err := s.repo.ListMenuItems(ctx, catalog)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(items))
	for _, it := range items {
		names[it.ID] = it.Name(lang)
	}
	return names, nil
}

func deepCopyMenuView(in domain.MenuView) domain.MenuView {
	out := in
	if n := len(in.Items); n > 0 {
		out.Items = make([]domain.MenuItemView, n)
		copy(out.Items, in.Items)
	}
	return out
}

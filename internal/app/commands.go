package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"visible_mx/internal/domain"
	"visible_mx/internal/i18n"
)

// IngestionService pulls the published content documents from the CMS and
// upserts them into storage. Document-level 404/401/403 are recorded as
// misses and do not fail the run; the site keeps serving whatever was
// ingested before.
type IngestionService struct {
	source domain.ContentSource
	repo   domain.ContentRepository
	cache  domain.Cache
}

func NewIngestionService(src domain.ContentSource, r domain.ContentRepository, cache domain.Cache) *IngestionService {
	return &IngestionService{source: src, repo: r, cache: cache}
}

// Docs lists the ingestable document names, in ingest order.
func (s *IngestionService) Docs() []string { return []string{"translations", "menu", "packages"} }

func (s *IngestionService) IngestDoc(ctx context.Context, doc string) error {
	switch doc {
	case "translations":
		return s.ingestTranslations(ctx)
	case "menu":
		return s.ingestMenu(ctx)
	case "packages":
		return s.ingestPackages(ctx)
	}
	return fmt.Errorf("unknown content document %q", doc)
}

func (s *IngestionService) ingestTranslations(ctx context.Context) error {
	raw, err := s.source.FetchTranslations(ctx)
	if err != nil {
		return s.handleFetchErr(ctx, "translations", err)
	}
	entries := mapTranslations(raw)
	if len(entries) == 0 {
		_ = s.repo.LogMiss(ctx, "translations", 200, "empty document")
		return nil
	}
	if err := s.repo.UpsertTranslations(ctx, entries); err != nil {
		return fmt.Errorf("upsert translations failed: %w", err)
	}

	// evict every (namespace, lang) bundle the document touched
	if s.cache != nil {
		seen := map[string]bool{}
		for _, e := range entries {
			if !seen[e.Namespace] {
				seen[e.Namespace] = true
				s.invalidateContent(ctx, e.Namespace)
			}
		}
	}
	return nil
}

func (s *IngestionService) ingestMenu(ctx context.Context) error {
	raw, err := s.source.FetchMenu(ctx)
	if err != nil {
		return s.handleFetchErr(ctx, "menu", err)
	}
	catalogs := map[string]bool{}
	for _, rec := range raw {
		item, merr := mapMenuItem(rec)
		if merr != nil {
			// one bad record must not sink the document
			_ = s.repo.LogMiss(ctx, "menu", 200, merr.Error())
			continue
		}
		if err := s.repo.UpsertMenuItem(ctx, item); err != nil {
			return fmt.Errorf("upsert menu item %d failed: %w", item.ID, err)
		}
		catalogs[item.Catalog] = true
	}
	if s.cache != nil {
		for cat := range catalogs {
			s.invalidateMenu(ctx, cat)
		}
	}
	return nil
}

func (s *IngestionService) ingestPackages(ctx context.Context) error {
	raw, err := s.source.FetchPackages(ctx)
	if err != nil {
		return s.handleFetchErr(ctx, "packages", err)
	}
	for _, rec := range raw {
		p, merr := mapPackage(rec)
		if merr != nil {
			_ = s.repo.LogMiss(ctx, "packages", 200, merr.Error())
			continue
		}
		if err := s.repo.UpsertPackage(ctx, p); err != nil {
			return fmt.Errorf("upsert package %s failed: %w", p.Slug, err)
		}
	}
	if s.cache != nil {
		s.invalidatePackages(ctx)
	}
	return nil
}

// handleFetchErr turns known document-level statuses into soft misses and
// bubbles everything else (network/5xx/JSON) up.
func (s *IngestionService) handleFetchErr(ctx context.Context, doc string, err error) error {
	low := strings.ToLower(err.Error())

	if errors.Is(err, domain.ErrNotFound) || strings.Contains(low, "not found") {
		_ = s.repo.LogMiss(ctx, doc, 404, "not found")
		return nil
	}
	if strings.Contains(low, "403") || strings.Contains(low, "forbidden") ||
		strings.Contains(low, "401") || strings.Contains(low, "unauthorized") {
		_ = s.repo.LogMiss(ctx, doc, 403, "inactive")
		return nil
	}
	return err
}

// ---- cache invalidation ----

func (s *IngestionService) invalidateContent(ctx context.Context, namespace string) {
	for _, lang := range []i18n.Language{i18n.ES, i18n.EN} {
		_ = s.cache.Del(ctx, fmt.Sprintf("content:%s:%s", namespace, lang))
	}
}

func (s *IngestionService) invalidateMenu(ctx context.Context, catalog string) {
	for _, lang := range []i18n.Language{i18n.ES, i18n.EN} {
		_ = s.cache.Del(ctx, fmt.Sprintf("menu:%s:%s", catalog, lang))
	}
	_ = s.cache.Del(ctx, fmt.Sprintf("prices:%s", catalog))
}

func (s *IngestionService) invalidatePackages(ctx context.Context) {
	for _, lang := range []i18n.Language{i18n.ES, i18n.EN} {
		_ = s.cache.Del(ctx, fmt.Sprintf("packages:%s", lang))
	}
}

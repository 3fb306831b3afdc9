package mysql

import (
	"context"
	"database/sql"
	"encoding/json"

	"visible_mx/internal/domain"
	"visible_mx/internal/i18n"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertTranslations(ctx context.Context, entries []domain.TranslationEntry) error {
	for _, e := range entries {
		if _, err := r.db.ExecContext(ctx, upsertTranslationSQL,
			e.Namespace, string(e.Lang), e.Path, e.Value,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) UpsertMenuItem(ctx context.Context, item domain.MenuItem) error {
	if _, err := r.db.ExecContext(ctx, upsertMenuItemSQL,
		item.ID, item.Catalog, item.Category, item.PriceCents, item.Available,
	); err != nil {
		return err
	}
	for lang, name := range item.Names {
		if _, err := r.db.ExecContext(ctx, upsertMenuItemI18nSQL,
			item.ID, string(lang), name,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) UpsertPackage(ctx context.Context, p domain.Package) error {
	if _, err := r.db.ExecContext(ctx, upsertPackageSQL,
		p.Slug, p.PriceMXN, p.PriceUSD, valStr(p.RegularMXN), p.Featured,
	); err != nil {
		return err
	}
	for lang, name := range p.Names {
		features, _ := json.Marshal(p.Features[lang])
		if _, err := r.db.ExecContext(ctx, upsertPackageI18nSQL,
			p.Slug, string(lang), name, string(features),
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) LogMiss(ctx context.Context, doc string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, doc, status, reason)
	return err
}

func (r *Repo) GetNamespace(ctx context.Context, namespace string) (domain.NamespaceContent, error) {
	rows, err := r.db.QueryContext(ctx, getNamespaceSQL, namespace)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := domain.NamespaceContent{}
	for rows.Next() {
		var langStr, path, value string
		if err := rows.Scan(&langStr, &path, &value); err != nil {
			return nil, err
		}
		lang, err := i18n.Parse(langStr)
		if err != nil {
			continue // unknown language rows are skipped, not fatal
		}
		if out[lang] == nil {
			out[lang] = map[string]string{}
		}
		out[lang][path] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

func (r *Repo) ListNamespaces(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, listNamespacesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var ns string
		if err := rows.Scan(&ns); err != nil {
			return nil, err
		}
		out = append(out, ns)
	}
	return out, rows.Err()
}

func (r *Repo) ListMenuItems(ctx context.Context, catalog string) ([]domain.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, listMenuItemsSQL, catalog)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MenuItem
	byID := map[int64]int{} // id -> index in out
	for rows.Next() {
		var (
			item       domain.MenuItem
			lang, name sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Catalog, &item.Category,
			&item.PriceCents, &item.Available, &lang, &name); err != nil {
			return nil, err
		}
		idx, seen := byID[item.ID]
		if !seen {
			item.Names = map[i18n.Language]string{}
			out = append(out, item)
			idx = len(out) - 1
			byID[item.ID] = idx
		}
		if lang.Valid && name.Valid {
			if l, err := i18n.Parse(lang.String); err == nil {
				out[idx].Names[l] = name.String
			}
		}
	}
	return out, rows.Err()
}

func (r *Repo) ListPackages(ctx context.Context) ([]domain.Package, error) {
	rows, err := r.db.QueryContext(ctx, listPackagesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Package
	bySlug := map[string]int{}
	for rows.Next() {
		var (
			p                    domain.Package
			regular              sql.NullString
			lang, name, features sql.NullString
		)
		if err := rows.Scan(&p.Slug, &p.PriceMXN, &p.PriceUSD, &regular,
			&p.Featured, &lang, &name, &features); err != nil {
			return nil, err
		}
		idx, seen := bySlug[p.Slug]
		if !seen {
			if regular.Valid {
				s := regular.String
				p.RegularMXN = &s
			}
			p.Names = map[i18n.Language]string{}
			p.Features = map[i18n.Language][]string{}
			out = append(out, p)
			idx = len(out) - 1
			bySlug[p.Slug] = idx
		}
		if lang.Valid {
			l, err := i18n.Parse(lang.String)
			if err != nil {
				continue
			}
			if name.Valid {
				out[idx].Names[l] = name.String
			}
			if features.Valid && features.String != "" {
				var fs []string
				_ = json.Unmarshal([]byte(features.String), &fs)
				out[idx].Features[l] = fs
			}
		}
	}
	return out, rows.Err()
}

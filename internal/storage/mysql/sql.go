package mysql

const upsertTranslationSQL = `
INSERT INTO translations
  (namespace, lang, path, value)
VALUES
  (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  value      = VALUES(value),
  updated_at = CURRENT_TIMESTAMP
`

const upsertMenuItemSQL = `
INSERT INTO menu_items
  (id, catalog, category, price_cents, available)
VALUES
  (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  catalog     = VALUES(catalog),
  category    = VALUES(category),
  price_cents = VALUES(price_cents),
  available   = VALUES(available),
  updated_at  = CURRENT_TIMESTAMP
`

const upsertMenuItemI18nSQL = `
INSERT INTO menu_item_i18n
  (item_id, lang, name)
VALUES
  (?, ?, ?)
ON DUPLICATE KEY UPDATE
  name = VALUES(name)
`

const upsertPackageSQL = `
INSERT INTO packages
  (slug, price_mxn, price_usd, regular_mxn, featured)
VALUES
  (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  price_mxn   = VALUES(price_mxn),
  price_usd   = VALUES(price_usd),
  regular_mxn = VALUES(regular_mxn),
  featured    = VALUES(featured),
  updated_at  = CURRENT_TIMESTAMP
`

const upsertPackageI18nSQL = `
INSERT INTO package_i18n
  (slug, lang, name, features)
VALUES
  (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name     = VALUES(name),
  features = VALUES(features)
`

const insertMissSQL = `
INSERT INTO ingest_misses (doc, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  http_status = VALUES(http_status),
  reason      = VALUES(reason),
  seen_at     = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const getNamespaceSQL = `
SELECT lang, path, value
FROM translations
WHERE namespace = ?
ORDER BY lang, path
`

const listNamespacesSQL = `
SELECT DISTINCT namespace
FROM translations
ORDER BY namespace
`

// One row per (item, lang); the repo folds the i18n rows into the item.
const listMenuItemsSQL = `
SELECT m.id, m.catalog, m.category, m.price_cents, m.available, i.lang, i.name
FROM menu_items m
LEFT JOIN menu_item_i18n i ON i.item_id = m.id
WHERE m.catalog = ?
ORDER BY m.id, i.lang
`

const listPackagesSQL = `
SELECT p.slug, p.price_mxn, p.price_usd, p.regular_mxn, p.featured, i.lang, i.name, i.features
FROM packages p
LEFT JOIN package_i18n i ON i.slug = p.slug
ORDER BY p.featured DESC, p.slug, i.lang
`

//go:build integration || !unit

package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	httpserver "visible_mx/internal/adapters/http_server"
	redisad "visible_mx/internal/adapters/redis"
	"visible_mx/internal/app"
	"visible_mx/internal/domain"
	"visible_mx/internal/i18n"
	mysqlrepo "visible_mx/internal/storage/mysql"
)

// ---------- helpers ----------

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// ---------- the test ----------

func TestHTTP_EndToEnd_MenuAndOrder(t *testing.T) {
	// Start isolated MySQL container
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=visible",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "visible")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Seed content: hero strings plus the taco menu
	if err := repo.UpsertTranslations(ctx, []domain.TranslationEntry{
		{Namespace: "hero", Lang: i18n.ES, Path: "title", Value: "Haz que te encuentren."},
		{Namespace: "hero", Lang: i18n.EN, Path: "title", Value: "Get found."},
	}); err != nil {
		t.Fatalf("UpsertTranslations: %v", err)
	}
	for _, it := range []domain.MenuItem{
		{ID: 5, Catalog: "tacos", Category: "tacos", Names: map[i18n.Language]string{
			i18n.ES: "Taco al Pastor",
		}, PriceCents: 3500, Available: true},
		{ID: 7, Catalog: "tacos", Category: "tacos", Names: map[i18n.Language]string{
			i18n.ES: "Taco de Asada",
		}, PriceCents: 3500, Available: true},
	} {
		if err := repo.UpsertMenuItem(ctx, it); err != nil {
			t.Fatalf("UpsertMenuItem %d: %v", it.ID, err)
		}
	}

	// Backing redis for cache and sessions
	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	sessions := redisad.NewSessions(cache.Client(), time.Hour)

	q := app.NewQueryService(repo, cache, 10*time.Minute, 10000)
	carts := app.NewCartService(sessions, q, nil, "tacos", "5215512345678")
	holder := i18n.NewHolder(ctx, i18n.ES, redisad.NewLangPref(cache.Client()))

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{Q: q, Carts: carts, Sessions: sessions, Holder: holder})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// localized content straight from the database
	res, err := http.Get(ts.URL + "/v1/content/hero?lang=en")
	if err != nil {
		t.Fatalf("GET content: %v", err)
	}
	var cv domain.ContentView
	if err := json.NewDecoder(res.Body).Decode(&cv); err != nil {
		t.Fatalf("decode content: %v", err)
	}
	res.Body.Close()
	if cv.Strings["title"] != "Get found." {
		t.Fatalf("content: %+v", cv)
	}

	// build an order through the cart routes
	base := ts.URL + "/v1/sessions/e2e"
	for _, id := range []int64{5, 5, 7} {
		body, _ := json.Marshal(map[string]int64{"item_id": id})
		r, err := http.Post(base+"/cart/items?lang=es", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("POST item %d: %v", id, err)
		}
		r.Body.Close()
	}

	orderBody, _ := json.Marshal(map[string]any{
		"fields": []map[string]string{{"label": "Nombre", "value": "Ana"}},
	})
	res, err = http.Post(base+"/order?lang=es", "application/json", bytes.NewReader(orderBody))
	if err != nil {
		t.Fatalf("POST order: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("order status %d", res.StatusCode)
	}
	var order struct {
		URL  string             `json:"url"`
		Cart domain.CartSummary `json:"cart"`
	}
	if err := json.NewDecoder(res.Body).Decode(&order); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if order.Cart.TotalCents != 10500 || !order.Cart.CheckoutReady {
		t.Fatalf("order cart: %+v", order.Cart)
	}
	if !strings.HasPrefix(order.URL, "https://wa.me/5215512345678?text=") {
		t.Fatalf("order URL: %q", order.URL)
	}
}

package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "visible_mx/internal/adapters/redis"
	"visible_mx/internal/i18n"
)

func newTestCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.New(mr.Addr(), "", 0), mr
}

func TestCache_SetGetDel(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Price int64  `json:"price"`
	}

	if err := c.Set(ctx, "k1", payload{Name: "Taco al Pastor", Price: 3500}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	var got payload
	ok, err := c.Get(ctx, "k1", &got)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Name != "Taco al Pastor" || got.Price != 3500 {
		t.Fatalf("roundtrip: %+v", got)
	}

	if err := c.Del(ctx, "k1"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, err = c.Get(ctx, "k1", &got)
	if err != nil {
		t.Fatalf("get after del: %v", err)
	}
	if ok {
		t.Fatal("key survived delete")
	}
}

func TestCache_Expiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", 10); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(11 * time.Second)

	var got string
	ok, err := c.Get(ctx, "k", &got)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("key survived TTL")
	}
}

func TestSessions_LanguageRoundtrip(t *testing.T) {
	c, _ := newTestCache(t)
	s := redisad.NewSessions(c.Client(), time.Hour)
	ctx := context.Background()

	_, ok, err := s.LoadLanguage(ctx, "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatal("fresh session must have no language")
	}

	if err := s.SaveLanguage(ctx, "s1", i18n.EN); err != nil {
		t.Fatalf("save: %v", err)
	}
	lang, ok, err := s.LoadLanguage(ctx, "s1")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if lang != i18n.EN {
		t.Fatalf("want en, got %s", lang)
	}
}

func TestSessions_GarbledLanguageIsUnset(t *testing.T) {
	c, mr := newTestCache(t)
	s := redisad.NewSessions(c.Client(), time.Hour)

	mr.Set("visible:session:s1:lang", "klingon")
	_, ok, err := s.LoadLanguage(context.Background(), "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatal("garbled value must read as unset")
	}
}

func TestSessions_CartRoundtrip(t *testing.T) {
	c, _ := newTestCache(t)
	s := redisad.NewSessions(c.Client(), time.Hour)
	ctx := context.Background()

	qty, err := s.LoadCart(ctx, "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(qty) != 0 {
		t.Fatalf("fresh cart not empty: %v", qty)
	}

	if err := s.SaveCart(ctx, "s1", map[int64]int{5: 2, 7: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}
	qty, err = s.LoadCart(ctx, "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if qty[5] != 2 || qty[7] != 1 {
		t.Fatalf("roundtrip: %v", qty)
	}

	if err := s.DeleteCart(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	qty, err = s.LoadCart(ctx, "s1")
	if err != nil {
		t.Fatalf("load after delete: %v", err)
	}
	if len(qty) != 0 {
		t.Fatalf("cart survived delete: %v", qty)
	}
}

func TestLangPref_BacksHolder(t *testing.T) {
	c, _ := newTestCache(t)
	pref := redisad.NewLangPref(c.Client())
	ctx := context.Background()

	_, ok, err := pref.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatal("no preference persisted yet")
	}

	if err := pref.Save(ctx, i18n.EN); err != nil {
		t.Fatalf("save: %v", err)
	}

	h := i18n.NewHolder(ctx, i18n.ES, pref)
	if h.Current() != i18n.EN {
		t.Fatalf("holder must boot from the persisted preference, got %s", h.Current())
	}
}

package i18n_test

import (
	"testing"

	"visible_mx/internal/i18n"
)

func dict() i18n.Dictionary {
	return i18n.Dictionary{
		i18n.ES: i18n.Tree{
			"hero": map[string]any{
				"title1": "Haz que te encuentren.",
				"title2": "Crece tu negocio.",
			},
			"nav": map[string]any{"contact": "Contacto"},
		},
		i18n.EN: i18n.Tree{
			"hero": map[string]any{
				"title1": "Get found.",
			},
		},
	}
}

func TestResolve_FullPath(t *testing.T) {
	d := dict()
	if got := d.Resolve(i18n.ES, "hero.title1"); got != "Haz que te encuentren." {
		t.Fatalf("unexpected resolution: %q", got)
	}
	if got := d.Resolve(i18n.EN, "hero.title1"); got != "Get found." {
		t.Fatalf("unexpected resolution: %q", got)
	}
}

func TestResolve_MissingKeyEchoesKey(t *testing.T) {
	d := dict()
	for _, key := range []string{
		"nonexistent.key",
		"hero.title3",
		"hero.title1.deeper", // descends past a string leaf
	} {
		if got := d.Resolve(i18n.EN, key); got != key {
			t.Fatalf("resolve(%q) = %q, want the key back", key, got)
		}
	}
}

func TestResolve_SubtreeTerminalEchoesKey(t *testing.T) {
	d := dict()
	// "hero" terminates on a subtree, not a string
	if got := d.Resolve(i18n.ES, "hero"); got != "hero" {
		t.Fatalf("resolve on subtree = %q, want key back", got)
	}
}

func TestResolveNS_FallsBackToDefaultLanguage(t *testing.T) {
	d := dict()
	// title2 only exists in Spanish; English readers still get a string
	if got := d.ResolveNS(i18n.EN, "hero", "title2"); got != "Crece tu negocio." {
		t.Fatalf("expected default-language fallback, got %q", got)
	}
	// missing everywhere echoes the namespaced key
	if got := d.ResolveNS(i18n.EN, "hero", "title9"); got != "hero.title9" {
		t.Fatalf("expected namespaced key echo, got %q", got)
	}
}

func TestDecodeDictionary(t *testing.T) {
	data := []byte(`{"es": {"nav": {"home": "Inicio"}}, "en": {"nav": {"home": "Home"}}, "xx": {"nav": {"home": "?"}}}`)
	d, err := i18n.DecodeDictionary(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := d.Resolve(i18n.ES, "nav.home"); got != "Inicio" {
		t.Fatalf("unexpected: %q", got)
	}
	if len(d) != 2 {
		t.Fatalf("unknown language should be dropped, got %d languages", len(d))
	}
}

func TestTreeFlatten(t *testing.T) {
	tr := i18n.Tree{
		"hero": map[string]any{"title1": "a", "sub": map[string]any{"x": "b"}},
		"flat": "c",
	}
	flat := tr.Flatten()
	want := map[string]string{"hero.title1": "a", "hero.sub.x": "b", "flat": "c"}
	if len(flat) != len(want) {
		t.Fatalf("flatten size %d, want %d: %v", len(flat), len(want), flat)
	}
	for k, v := range want {
		if flat[k] != v {
			t.Fatalf("flatten[%q] = %q, want %q", k, flat[k], v)
		}
	}
}

func TestParse(t *testing.T) {
	for in, want := range map[string]i18n.Language{
		"es": i18n.ES, "EN": i18n.EN, "en-US": i18n.EN, " es_MX ": i18n.ES,
	} {
		got, err := i18n.Parse(in)
		if err != nil || got != want {
			t.Fatalf("Parse(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := i18n.Parse("fr"); err == nil {
		t.Fatalf("expected error for unsupported language")
	}
}

func TestFromAcceptLanguage(t *testing.T) {
	if got := i18n.FromAcceptLanguage("en-US,en;q=0.9,es;q=0.8"); got != i18n.EN {
		t.Fatalf("got %v", got)
	}
	if got := i18n.FromAcceptLanguage("fr-FR,de;q=0.9"); got != i18n.ES {
		t.Fatalf("unsupported header should default to es, got %v", got)
	}
}

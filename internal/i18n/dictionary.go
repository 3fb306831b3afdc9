package i18n

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Tree is a nested mapping from key segment to either a literal string or a
// sub-tree. It is what a translations JSON document decodes into.
type Tree map[string]any

// Dictionary maps each language to its translation tree. It is built once at
// load time and never mutated afterwards.
type Dictionary map[Language]Tree

// DecodeDictionary parses a translations document shaped as
// {"es": {...}, "en": {...}}. Unknown top-level language codes are dropped.
func DecodeDictionary(data []byte) (Dictionary, error) {
	var raw map[string]Tree
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode dictionary: %w", err)
	}
	d := make(Dictionary, len(raw))
	for code, tree := range raw {
		lang, err := Parse(code)
		if err != nil {
			continue
		}
		d[lang] = tree
	}
	return d, nil
}

// Resolve walks the dot-delimited key through the tree for lang and returns
// the literal it terminates in. Any missing segment, or a path that ends on a
// sub-tree instead of a string, returns the key unchanged so a missing
// translation is visible but harmless.
func (d Dictionary) Resolve(lang Language, key string) string {
	if v, ok := d.lookup(lang, key); ok {
		return v
	}
	return key
}

// ResolveNS resolves key inside a per-component namespace, falling back to
// the default language before echoing the key. Components share one central
// dictionary keyed by namespace instead of carrying their own copies.
func (d Dictionary) ResolveNS(lang Language, namespace, key string) string {
	full := namespace + "." + key
	if v, ok := d.lookup(lang, full); ok {
		return v
	}
	if lang != Default {
		if v, ok := d.lookup(Default, full); ok {
			return v
		}
	}
	return full
}

func (d Dictionary) lookup(lang Language, key string) (string, bool) {
	node := any(d[lang])
	for _, seg := range strings.Split(key, ".") {
		t, ok := node.(map[string]any)
		if !ok {
			if t2, ok2 := node.(Tree); ok2 {
				t = map[string]any(t2)
			} else {
				return "", false
			}
		}
		node, ok = t[seg]
		if !ok {
			return "", false
		}
	}
	s, ok := node.(string)
	return s, ok
}

// Flatten returns every dot-path in the tree that terminates in a string,
// paired with its literal, in sorted path order.
func (t Tree) Flatten() map[string]string {
	out := map[string]string{}
	flattenInto(out, "", map[string]any(t))
	return out
}

func flattenInto(out map[string]string, prefix string, node map[string]any) {
	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		switch v := node[k].(type) {
		case string:
			out[path] = v
		case map[string]any:
			flattenInto(out, path, v)
		case Tree:
			flattenInto(out, path, map[string]any(v))
		}
	}
}

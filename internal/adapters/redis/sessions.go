package redisad

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"visible_mx/internal/i18n"
)

// Sessions stores per-visitor state under visible:session:<sid>:{lang,cart}.
// Entries expire with the session TTL; a missing key is "no state", never an
// error.
type Sessions struct {
	c   *redis.Client
	ttl time.Duration
}

func NewSessions(c *redis.Client, ttl time.Duration) *Sessions {
	return &Sessions{c: c, ttl: ttl}
}

func langKey(sid string) string { return fmt.Sprintf("visible:session:%s:lang", sid) }
func cartKey(sid string) string { return fmt.Sprintf("visible:session:%s:cart", sid) }

func (s *Sessions) LoadLanguage(ctx context.Context, sid string) (i18n.Language, bool, error) {
	v, err := s.c.Get(ctx, langKey(sid)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	lang, perr := i18n.Parse(v)
	if perr != nil {
		// stale or garbled value; treat as unset
		return "", false, nil
	}
	return lang, true, nil
}

func (s *Sessions) SaveLanguage(ctx context.Context, sid string, lang i18n.Language) error {
	return s.c.Set(ctx, langKey(sid), string(lang), s.ttl).Err()
}

func (s *Sessions) LoadCart(ctx context.Context, sid string) (map[int64]int, error) {
	v, err := s.c.Get(ctx, cartKey(sid)).Bytes()
	if err == redis.Nil {
		return map[int64]int{}, nil
	}
	if err != nil {
		return nil, err
	}
	var qty map[int64]int
	if err := json.Unmarshal(v, &qty); err != nil {
		return map[int64]int{}, nil
	}
	return qty, nil
}

func (s *Sessions) SaveCart(ctx context.Context, sid string, qty map[int64]int) error {
	b, _ := json.Marshal(qty)
	return s.c.Set(ctx, cartKey(sid), b, s.ttl).Err()
}

func (s *Sessions) DeleteCart(ctx context.Context, sid string) error {
	return s.c.Del(ctx, cartKey(sid)).Err()
}

// LangPref is the site-wide default-language preference, persisted under one
// fixed namespace key. It backs the i18n.Holder.
type LangPref struct{ c *redis.Client }

const langPrefKey = "visible:lang"

func NewLangPref(c *redis.Client) *LangPref { return &LangPref{c: c} }

func (p *LangPref) Load(ctx context.Context) (i18n.Language, bool, error) {
	v, err := p.c.Get(ctx, langPrefKey).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	lang, perr := i18n.Parse(v)
	if perr != nil {
		return "", false, nil
	}
	return lang, true, nil
}

func (p *LangPref) Save(ctx context.Context, lang i18n.Language) error {
	return p.c.Set(ctx, langPrefKey, string(lang), 0).Err()
}

package app

import (
	"context"
	"strconv"

	"visible_mx/internal/cart"
	"visible_mx/internal/domain"
	"visible_mx/internal/i18n"
	"visible_mx/internal/pricing"
	"visible_mx/internal/whatsapp"
)

// CartService drives the menu demo's cart: session-scoped quantities, totals
// against the live catalog, the minimum-order gate, and the WhatsApp order
// link on submit.
type CartService struct {
	sessions  domain.SessionStore
	queries   *QueryService
	analytics domain.AnalyticsSink
	catalog   string // which demo menu the cart sells from
	phone     string // digits only, country code included
}

func NewCartService(sessions domain.SessionStore, q *QueryService, sink domain.AnalyticsSink, catalog, phoneDigits string) *CartService {
	if sink == nil {
		sink = noopSink{}
	}
	return &CartService{sessions: sessions, queries: q, analytics: sink, catalog: catalog, phone: phoneDigits}
}

type noopSink struct{}

func (noopSink) Event(context.Context, string, map[string]string) {}

func (s *CartService) load(ctx context.Context, sid string) (*cart.Cart, error) {
	qty, err := s.sessions.LoadCart(ctx, sid)
	if err != nil {
		return nil, err
	}
	return cart.FromQuantities(qty), nil
}

// Add puts one unit of itemID in the session cart. Ids not present in the
// catalog are ignored: the cart never holds unpriceable entries.
func (s *CartService) Add(ctx context.Context, sid string, itemID int64, lang i18n.Language) (domain.CartSummary, error) {
	prices, err := s.queries.PriceMap(ctx, s.catalog)
	if err != nil {
		return domain.CartSummary{}, err
	}
	c, err := s.load(ctx, sid)
	if err != nil {
		return domain.CartSummary{}, err
	}
	if _, known := prices[itemID]; known {
		c.Add(itemID)
		if err := s.sessions.SaveCart(ctx, sid, c.Quantities()); err != nil {
			return domain.CartSummary{}, err
		}
		s.analytics.Event(ctx, "cart_add", map[string]string{"item": strconv.FormatInt(itemID, 10)})
	}
	return s.summarize(ctx, c, lang, prices)
}

// Remove takes one unit of itemID out, deleting the line when it hits zero.
// Absent ids are a no-op.
func (s *CartService) Remove(ctx context.Context, sid string, itemID int64, lang i18n.Language) (domain.CartSummary, error) {
	c, err := s.load(ctx, sid)
	if err != nil {
		return domain.CartSummary{}, err
	}
	before := c.Count()
	c.Remove(itemID)
	if c.Count() != before {
		if err := s.sessions.SaveCart(ctx, sid, c.Quantities()); err != nil {
			return domain.CartSummary{}, err
		}
		s.analytics.Event(ctx, "cart_remove", map[string]string{"item": strconv.FormatInt(itemID, 10)})
	}
	prices, err := s.queries.PriceMap(ctx, s.catalog)
	if err != nil {
		return domain.CartSummary{}, err
	}
	return s.summarize(ctx, c, lang, prices)
}

func (s *CartService) Get(ctx context.Context, sid string, lang i18n.Language) (domain.CartSummary, error) {
	c, err := s.load(ctx, sid)
	if err != nil {
		return domain.CartSummary{}, err
	}
	prices, err := s.queries.PriceMap(ctx, s.catalog)
	if err != nil {
		return domain.CartSummary{}, err
	}
	return s.summarize(ctx, c, lang, prices)
}

func (s *CartService) Clear(ctx context.Context, sid string) error {
	if err := s.sessions.DeleteCart(ctx, sid); err != nil {
		return err
	}
	s.analytics.Event(ctx, "cart_clear", nil)
	return nil
}

// OrderLink serializes the session cart plus the visitor's contact fields
// into a wa.me deep link. The link is built even for carts below the
// minimum: the caller decides whether to gate on CheckoutReady.
func (s *CartService) OrderLink(ctx context.Context, sid string, lang i18n.Language, fields []whatsapp.Field) (string, domain.CartSummary, error) {
	c, err := s.load(ctx, sid)
	if err != nil {
		return "", domain.CartSummary{}, err
	}
	prices, err := s.queries.PriceMap(ctx, s.catalog)
	if err != nil {
		return "", domain.CartSummary{}, err
	}
	names, err := s.queries.ItemNames(ctx, s.catalog, lang)
	if err != nil {
		return "", domain.CartSummary{}, err
	}

	msg := whatsapp.Message{Fields: fields}
	for _, line := range c.Lines() {
		unit, ok := prices[line.ItemID]
		if !ok {
			continue
		}
		msg.Items = append(msg.Items, whatsapp.LineItem{
			Label:          names[line.ItemID],
			Quantity:       line.Quantity,
			UnitPriceCents: unit,
		})
	}
	total := c.Total(prices)
	msg.TotalCents = &total

	url := whatsapp.BuildURL(s.phone, msg)
	s.analytics.Event(ctx, "order_link_built", map[string]string{
		"total_cents": strconv.FormatInt(total, 10),
	})

	summary, err := s.summarize(ctx, c, lang, prices)
	return url, summary, err
}

func (s *CartService) summarize(ctx context.Context, c *cart.Cart, lang i18n.Language, prices map[int64]int64) (domain.CartSummary, error) {
	names, err := s.queries.ItemNames(ctx, s.catalog, lang)
	if err != nil {
		return domain.CartSummary{}, err
	}
	min := s.queries.MinOrderCents()
	sum := domain.CartSummary{
		Language:      lang,
		Count:         c.Count(),
		TotalCents:    c.Total(prices),
		CheckoutReady: c.CheckoutReady(min, prices),
	}
	sum.Total = pricing.FormatMXN(sum.TotalCents)
	for _, line := range c.Lines() {
		unit := prices[line.ItemID]
		sum.Lines = append(sum.Lines, domain.CartLineView{
			ItemID:    line.ItemID,
			Name:      names[line.ItemID],
			Quantity:  line.Quantity,
			UnitCents: unit,
			LineCents: int64(line.Quantity) * unit,
		})
	}
	return sum, nil
}

// Package whatsapp builds wa.me deep links that pre-fill a chat with a
// structured order or contact message. The message is ephemeral: it is
// rendered, percent-encoded into the URL, and never stored.
package whatsapp

import (
	"net/url"
	"strconv"
	"strings"

	"visible_mx/internal/pricing"
)

type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type LineItem struct {
	Label          string
	Quantity       int
	UnitPriceCents int64
}

// Message is the newline-delimited template: one "*Label:* value" line per
// field, a blank separator, one "- {q}x {label} - ${q*unit}" line per item,
// then a TOTAL line when a total is set.
type Message struct {
	Fields     []Field
	Items      []LineItem
	TotalCents *int64
}

func (m Message) Render() string {
	var b strings.Builder
	for i, f := range m.Fields {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("*" + f.Label + ":* " + f.Value)
	}
	if len(m.Items) > 0 {
		if len(m.Fields) > 0 {
			b.WriteString("\n\n")
		}
		for i, it := range m.Items {
			if i > 0 {
				b.WriteByte('\n')
			}
			line := int64(it.Quantity) * it.UnitPriceCents
			b.WriteString("- " + strconv.Itoa(it.Quantity) + "x " + it.Label +
				" - " + pricing.FormatMXN(line))
		}
	}
	if m.TotalCents != nil {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("TOTAL: " + pricing.FormatMXN(*m.TotalCents) + " MXN")
	}
	return b.String()
}

// BuildURL assembles https://wa.me/{digits}?text={encoded}. The output is
// always a syntactically valid absolute URL, and percent-decoding its text
// parameter reproduces Render() byte-for-byte. Phone digits are not
// validated here; opening the link is the browser's business.
func BuildURL(phoneDigits string, m Message) string {
	q := url.Values{"text": {m.Render()}}
	return "https://wa.me/" + phoneDigits + "?" + q.Encode()
}

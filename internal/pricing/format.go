// Package pricing renders display prices. Stored amounts are integer MXN
// cents; package prices additionally carry pre-formatted MXN and USD strings
// supplied by the content data. Nothing here converts currency; only the
// ordering and presence of already-known strings is decided.
package pricing

import (
	"strconv"
	"strings"

	"visible_mx/internal/i18n"
)

// FormatPriceLine orders the two pre-formatted price strings for the active
// language: English readers see the USD figure first with MXN as a
// parenthetical, Spanish readers the reverse. A missing side is simply
// omitted.
func FormatPriceLine(mxn, usd string, lang i18n.Language) string {
	mxn = strings.TrimSpace(mxn)
	usd = strings.TrimSpace(usd)
	switch {
	case mxn == "" && usd == "":
		return ""
	case mxn == "":
		return usd
	case usd == "":
		return mxn
	}
	if lang == i18n.EN {
		return usd + " (" + mxn + ")"
	}
	return mxn + " (" + usd + ")"
}

// FormatMXN renders whole MXN pesos from cents with thousands grouping:
// 179900 -> "$1,799". Fractional cents are dropped; catalog prices are whole
// pesos.
func FormatMXN(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	pesos := strconv.FormatInt(cents/100, 10)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	lead := len(pesos) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(pesos[:lead])
	for i := lead; i < len(pesos); i += 3 {
		b.WriteByte(',')
		b.WriteString(pesos[i : i+3])
	}
	return b.String()
}

package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"visible_mx/internal/app"
	"visible_mx/internal/domain"
	"visible_mx/internal/i18n"
	"visible_mx/internal/whatsapp"
)

type Handlers struct {
	Q        *app.QueryService
	Carts    *app.CartService
	Sessions domain.SessionStore
	Holder   *i18n.Holder
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/v1/content", h.listContent)
	s.mux.Get("/v1/content/{namespace}", h.getContent)
	s.mux.Get("/v1/menu", h.getMenu)
	s.mux.Get("/v1/packages", h.getPackages)

	s.mux.Get("/v1/language", h.getDefaultLanguage)
	s.mux.Put("/v1/language", h.putDefaultLanguage)
	s.mux.Post("/v1/language/toggle", h.toggleDefaultLanguage)

	s.mux.Get("/v1/sessions/{sid}/language", h.getSessionLanguage)
	s.mux.Put("/v1/sessions/{sid}/language", h.putSessionLanguage)

	s.mux.Post("/v1/sessions/{sid}/cart/items", h.addCartItem)
	s.mux.Delete("/v1/sessions/{sid}/cart/items/{id}", h.removeCartItem)
	s.mux.Get("/v1/sessions/{sid}/cart", h.getCart)
	s.mux.Delete("/v1/sessions/{sid}/cart", h.clearCart)

	s.mux.Post("/v1/sessions/{sid}/order", h.buildOrderLink)
}

// language negotiates the display language for a request:
// explicit ?lang > the session's saved preference > Accept-Language >
// the site-wide default.
func (h *Handlers) language(r *http.Request, sid string) i18n.Language {
	if v := r.URL.Query().Get("lang"); v != "" {
		if lang, err := i18n.Parse(v); err == nil {
			return lang
		}
	}
	if sid != "" && h.Sessions != nil {
		if lang, ok, err := h.Sessions.LoadLanguage(r.Context(), sid); err == nil && ok {
			return lang
		}
	}
	if al := r.Header.Get("Accept-Language"); al != "" {
		return i18n.FromAcceptLanguage(al)
	}
	if h.Holder != nil {
		return h.Holder.Current()
	}
	return i18n.Default
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached writes v with an ETag, short-circuiting to 304 when the client
// already holds the same version.
func writeCached(w http.ResponseWriter, r *http.Request, v any, lang i18n.Language) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Language", lang.String())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// ---- content ----

type namespacesBody struct {
	Namespaces []string `json:"namespaces"`
}

func (h *Handlers) listContent(w http.ResponseWriter, r *http.Request) {
	nss, err := h.Q.Namespaces(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "failed to list namespaces")
		return
	}
	writeJSON(w, http.StatusOK, namespacesBody{Namespaces: nss})
}

func (h *Handlers) getContent(w http.ResponseWriter, r *http.Request) {
	ns := chi.URLParam(r, "namespace")
	lang := h.language(r, r.URL.Query().Get("sid"))
	cv, err := h.Q.ContentBundle(r.Context(), ns, lang)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "unknown content namespace")
		return
	}
	writeCached(w, r, cv, lang)
}

func (h *Handlers) getMenu(w http.ResponseWriter, r *http.Request) {
	catalog := r.URL.Query().Get("catalog")
	if catalog == "" {
		catalog = "tacos"
	}
	lang := h.language(r, r.URL.Query().Get("sid"))
	mv, err := h.Q.Menu(r.Context(), catalog, lang)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "unknown menu catalog")
		return
	}
	writeCached(w, r, mv, lang)
}

func (h *Handlers) getPackages(w http.ResponseWriter, r *http.Request) {
	lang := h.language(r, r.URL.Query().Get("sid"))
	pkgs, err := h.Q.Packages(r.Context(), lang)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "failed to load packages")
		return
	}
	writeCached(w, r, pkgs, lang)
}

// ---- site-wide default language ----

type languageBody struct {
	Language string `json:"language"`
}

func (h *Handlers) getDefaultLanguage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, languageBody{Language: h.Holder.Current().String()})
}

func (h *Handlers) putDefaultLanguage(w http.ResponseWriter, r *http.Request) {
	var body languageBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected {\"language\": \"es\"|\"en\"}")
		return
	}
	lang, err := i18n.Parse(body.Language)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid language", "supported languages: es, en")
		return
	}
	if err := h.Holder.Set(r.Context(), lang); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid language", "supported languages: es, en")
		return
	}
	writeJSON(w, http.StatusOK, languageBody{Language: lang.String()})
}

func (h *Handlers) toggleDefaultLanguage(w http.ResponseWriter, r *http.Request) {
	next := h.Holder.Toggle(r.Context())
	writeJSON(w, http.StatusOK, languageBody{Language: next.String()})
}

// ---- per-session language ----

func (h *Handlers) getSessionLanguage(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	lang, ok, err := h.Sessions.LoadLanguage(r.Context(), sid)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "session store unavailable")
		return
	}
	if !ok {
		lang = h.Holder.Current()
	}
	writeJSON(w, http.StatusOK, languageBody{Language: lang.String()})
}

func (h *Handlers) putSessionLanguage(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	var body languageBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected {\"language\": \"es\"|\"en\"}")
		return
	}
	lang, err := i18n.Parse(body.Language)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid language", "supported languages: es, en")
		return
	}
	if err := h.Sessions.SaveLanguage(r.Context(), sid, lang); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "failed to save preference")
		return
	}
	writeJSON(w, http.StatusOK, languageBody{Language: lang.String()})
}

// ---- cart ----

type cartItemBody struct {
	ItemID int64 `json:"item_id"`
}

func (h *Handlers) addCartItem(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	var body cartItemBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected {\"item_id\": n}")
		return
	}
	sum, err := h.Carts.Add(r.Context(), sid, body.ItemID, h.language(r, sid))
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "cart unavailable")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *Handlers) removeCartItem(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	sum, err := h.Carts.Remove(r.Context(), sid, id, h.language(r, sid))
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "cart unavailable")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *Handlers) getCart(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	sum, err := h.Carts.Get(r.Context(), sid, h.language(r, sid))
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "cart unavailable")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *Handlers) clearCart(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	if err := h.Carts.Clear(r.Context(), sid); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "cart unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- order deep link ----

type orderBody struct {
	Fields []whatsapp.Field `json:"fields"`
}

type orderResponse struct {
	URL  string             `json:"url"`
	Cart domain.CartSummary `json:"cart"`
}

func (h *Handlers) buildOrderLink(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	var body orderBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected {\"fields\": [{\"label\", \"value\"}]}")
		return
	}
	url, sum, err := h.Carts.OrderLink(r.Context(), sid, h.language(r, sid), body.Fields)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "failed to build order link")
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{URL: url, Cart: sum})
}

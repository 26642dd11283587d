package handlers

import (
	"bytes"
	"errors"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/workshop-quotes/httpx"
	"github.com/diewo77/workshop-quotes/internal/export"
	"github.com/diewo77/workshop-quotes/internal/models"
	"github.com/diewo77/workshop-quotes/internal/notify"
	"github.com/diewo77/workshop-quotes/internal/services"
	"github.com/diewo77/workshop-quotes/pdf"
	"github.com/diewo77/workshop-quotes/validation"
	"github.com/sirupsen/logrus"
)

// isoMillis matches what browsers produce for Date.toISOString().
const isoMillis = "2006-01-02T15:04:05.000Z"

// reservedNumbers collide with the fixed routes under /quotes/.
var reservedNumbers = map[string]bool{"pdf": true, "export.xlsx": true}

// QuoteHandler serves the quote JSON API, the PDF download and the XLSX export.
type QuoteHandler struct {
	Quotes   *services.QuoteService
	Notifier notify.Notifier
	Renderer *pdf.Renderer
	Log      logrus.FieldLogger
	Now      func() time.Time
}

func NewQuoteHandler(quotes *services.QuoteService, notifier notify.Notifier, renderer *pdf.Renderer, log logrus.FieldLogger) *QuoteHandler {
	return &QuoteHandler{Quotes: quotes, Notifier: notifier, Renderer: renderer, Log: log, Now: time.Now}
}

func (h *QuoteHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /quotes", h.List)
	mux.HandleFunc("POST /quotes", h.Save)
	mux.HandleFunc("GET /quotes/export.xlsx", h.Export)
	mux.HandleFunc("GET /quotes/pdf", h.PDF)
	mux.HandleFunc("GET /quotes/{number}", h.Get)
	mux.HandleFunc("GET /quotes/{number}/pdf", h.PDF)
	mux.HandleFunc("POST /quotes/{number}/send", h.Resend)
}

type quoteRequest struct {
	Number  string                 `json:"number" validate:"required"`
	Date    string                 `json:"date"`
	Company models.CompanySnapshot `json:"company"`
	Client  models.ClientData      `json:"client"`
	Items   []models.Item          `json:"items" validate:"required,dive"`
	Total   float64                `json:"total"`
}

type saveResponse struct {
	OK          bool   `json:"ok"`
	ID          string `json:"id"`
	Notified    bool   `json:"notified"`
	NotifyError string `json:"notifyError,omitempty"`
}

type resendResponse struct {
	OK           bool       `json:"ok"`
	ResendCount  int        `json:"resendCount"`
	LastResentAt *time.Time `json:"lastResentAt"`
}

// List: GET /quotes[?q=]
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.Quotes.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		failWith(w, r, h.Log, "QuoteHandler.List", err)
		return
	}
	if quotes == nil {
		quotes = []models.Quote{}
	}
	httpx.JSON(w, http.StatusOK, quotes)
}

// Save: POST /quotes, upsert on number, then notify the webhook.
// A failed notification does not fail the request.
func (h *QuoteHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	req.Number = strings.TrimSpace(req.Number)
	req.Client.Name = strings.TrimSpace(req.Client.Name)
	v := validation.Struct(req)
	validation.NonNegativeFloat("total", req.Total, v)
	if reservedNumbers[req.Number] {
		v["number"] = "reserved"
	}
	if !v.Empty() {
		fail(w, r, http.StatusBadRequest, "validation_error", v)
		return
	}
	if req.Date == "" {
		req.Date = h.Now().UTC().Format(isoMillis)
	}

	q := models.NewQuote(req.Number, req.Date, req.Company, req.Client, req.Items, req.Total)
	if err := h.Quotes.Save(r.Context(), q); err != nil {
		failWith(w, r, h.Log, "QuoteHandler.Save", err)
		return
	}

	resp := saveResponse{OK: true, ID: q.Number, Notified: true}
	if err := h.Notifier.Notify(r.Context(), notify.EventQuoteCreated, q); err != nil {
		h.Log.WithFields(logrus.Fields{"number": q.Number, "error": err}).Warn("quote saved but webhook not notified")
		resp.Notified = false
		resp.NotifyError = err.Error()
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// Get: GET /quotes/{number}
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := h.Quotes.Get(r.Context(), r.PathValue("number"))
	if err != nil {
		failWith(w, r, h.Log, "QuoteHandler.Get", err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

// PDF: GET /quotes/{number}/pdf or GET /quotes/pdf?number=
func (h *QuoteHandler) PDF(w http.ResponseWriter, r *http.Request) {
	number := strings.TrimSpace(r.PathValue("number"))
	if number == "" {
		number = strings.TrimSpace(r.URL.Query().Get("number"))
	}
	if number == "" {
		fail(w, r, http.StatusBadRequest, "missing_number", nil)
		return
	}
	q, err := h.Quotes.Get(r.Context(), number)
	if err != nil {
		failWith(w, r, h.Log, "QuoteHandler.PDF", err)
		return
	}
	out, err := h.Renderer.Render(q)
	if err != nil {
		h.Log.WithFields(logrus.Fields{"number": number, "error": err}).Error("pdf render failed")
		fail(w, r, http.StatusInternalServerError, "pdf_failed", nil)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", attachment(number+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// Resend: POST /quotes/{number}/send. The counter only moves when the webhook accepted the quote.
func (h *QuoteHandler) Resend(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("number")
	q, err := h.Quotes.Get(r.Context(), number)
	if err != nil {
		failWith(w, r, h.Log, "QuoteHandler.Resend", err)
		return
	}
	if err := h.Notifier.Notify(r.Context(), notify.EventQuoteResent, q); err != nil {
		if errors.Is(err, notify.ErrNotConfigured) {
			failWith(w, r, h.Log, "QuoteHandler.Resend", err)
			return
		}
		h.Log.WithFields(logrus.Fields{"number": number, "error": err}).Warn("webhook rejected resend")
		fail(w, r, http.StatusBadGateway, "webhook_failed", map[string]string{"webhook": err.Error()})
		return
	}
	q, err = h.Quotes.MarkResent(r.Context(), number, h.Now())
	if err != nil {
		failWith(w, r, h.Log, "QuoteHandler.Resend", err)
		return
	}
	httpx.JSON(w, http.StatusOK, resendResponse{OK: true, ResendCount: q.ResendCount, LastResentAt: q.LastResentAt})
}

// Export: GET /quotes/export.xlsx[?q=]
func (h *QuoteHandler) Export(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.Quotes.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		failWith(w, r, h.Log, "QuoteHandler.Export", err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteQuotes(&buf, quotes); err != nil {
		h.Log.WithField("error", err).Error("xlsx export failed")
		fail(w, r, http.StatusInternalServerError, "export_failed", nil)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", attachment("orcamentos.xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func attachment(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

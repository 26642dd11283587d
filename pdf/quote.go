// Package pdf renders a quote as a single fixed-layout A4 document.
//
// The renderer is a pure function of its input: the same quote always yields
// the same bytes, and concurrent calls share no state.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/diewo77/workshop-quotes/internal/models"
	"github.com/diewo77/workshop-quotes/internal/money"
	"github.com/phpdave11/gofpdf"
)

// ErrRender wraps every failure to produce a document.
var ErrRender = errors.New("pdf render failed")

// DefaultTimezone is where quote dates are displayed.
const DefaultTimezone = "America/Sao_Paulo"

// Page geometry, in points.
const (
	margin    = 50.0
	pageRight = 545.0 // A4 width 595 minus the right margin
	contentW  = pageRight - margin

	colDesc  = 280.0
	colQty   = 60.0
	colUnit  = 80.0
	colTotal = 80.0

	totalValueW = 120.0
)

// Labels printed on the document.
const (
	labelClient    = "Dados do Cliente"
	labelName      = "Nome:"
	labelPhone     = "Telefone:"
	labelVehicle   = "Veículo:"
	labelPlate     = "Placa:"
	labelItems     = "Itens do Orçamento"
	labelDesc      = "Descrição"
	labelQty       = "Qtd"
	labelUnit      = "Unitário"
	labelLineTotal = "Total"
	labelTotal     = "TOTAL:"
	labelQuote     = "Orçamento"
	footer         = "Orçamento válido por 15 dias."
)

// dateLayout mirrors the pt-BR locale string: "10/05/2024, 11:30:00".
const dateLayout = "02/01/2006, 15:04:05"

// Documents whose date cannot be parsed are stamped with this instant.
var fallbackStamp = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

type rgb struct{ r, g, b int }

var (
	black     = rgb{0, 0, 0}
	ink       = rgb{0x11, 0x11, 0x11}
	muted     = rgb{0x55, 0x55, 0x55}
	footGrey  = rgb{0x66, 0x66, 0x66}
	ruleColor = rgb{0xe5, 0xe7, 0xeb}
)

// Renderer draws quotes with dates shown in a fixed location.
type Renderer struct {
	loc          *time.Location
	uncompressed bool
}

// NewRenderer loads tz. An empty tz means DefaultTimezone.
func NewRenderer(tz string) (*Renderer, error) {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	return &Renderer{loc: loc}, nil
}

var defaultRenderer = func() *Renderer {
	r, err := NewRenderer(DefaultTimezone)
	if err != nil {
		return &Renderer{loc: time.UTC}
	}
	return r
}()

// QuotePDF renders q with the default timezone.
func QuotePDF(q *models.Quote) ([]byte, error) {
	return defaultRenderer.Render(q)
}

// Render returns the complete document, or an error and no bytes.
func (r *Renderer) Render(q *models.Quote) (out []byte, err error) {
	if q == nil {
		return nil, fmt.Errorf("%w: nil quote", ErrRender)
	}
	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, fmt.Errorf("%w: %v", ErrRender, rec)
		}
	}()

	stamp, ok := q.IssuedAt()
	if !ok {
		stamp = fallbackStamp
	}

	doc := gofpdf.New("P", "pt", "A4", "")
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(true, margin)
	doc.SetCreationDate(stamp)
	doc.SetCatalogSort(true)
	doc.SetCompression(!r.uncompressed)
	doc.SetTitle(labelQuote+" "+q.Number, true)
	doc.SetDrawColor(ruleColor.r, ruleColor.g, ruleColor.b)
	doc.SetLineWidth(1)
	doc.AddPage()

	w := &writer{doc: doc, tr: doc.UnicodeTranslatorFromDescriptor("")}
	w.header(q, r.dateText(q, stamp, ok))
	w.rule()
	w.client(q.Client.Data())
	w.rule()
	w.items(q.Items.Data())
	w.rule()
	w.total(q.Total)
	w.footer()

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) dateText(q *models.Quote, stamp time.Time, parsed bool) string {
	if !parsed {
		return q.Date
	}
	return stamp.In(r.loc).Format(dateLayout)
}

// writer keeps the drawing helpers for one document.
type writer struct {
	doc *gofpdf.Fpdf
	tr  func(string) string
}

func (w *writer) font(style string, size float64, c rgb) {
	w.doc.SetFont("Helvetica", style, size)
	w.doc.SetTextColor(c.r, c.g, c.b)
}

// line prints one line of text across the content width and moves down.
func (w *writer) line(text, align string, height float64) {
	w.doc.SetX(margin)
	w.doc.CellFormat(contentW, height, w.tr(text), "", 1, align, false, 0, "")
}

func (w *writer) rule() {
	w.doc.Ln(12)
	y := w.doc.GetY()
	w.doc.Line(margin, y, pageRight, y)
	w.doc.Ln(12)
}

func (w *writer) header(q *models.Quote, date string) {
	c := q.Company.Data()
	w.font("", 18, black)
	w.line(c.Name, "L", 22)
	w.doc.Ln(2)

	w.font("", 10, muted)
	w.line("CNPJ: "+c.CNPJ, "L", 12)
	w.line(c.Address, "L", 12)
	w.line(c.Phone+"  |  "+c.Email, "L", 12)
	w.doc.Ln(12)

	w.font("", 14, black)
	w.line(labelQuote+" "+q.Number, "R", 17)
	w.font("", 10, muted)
	w.line(date, "R", 12)
}

func (w *writer) client(c models.ClientData) {
	w.font("U", 12, black)
	w.line(labelClient, "L", 15)
	w.doc.Ln(4)

	w.font("", 10, ink)
	w.line(labelName+" "+c.Name, "L", 12)
	w.line(labelPhone+" "+c.Phone, "L", 12)
	w.line(labelVehicle+" "+c.Vehicle, "L", 12)
	w.line(labelPlate+" "+c.Plate, "L", 12)
}

func (w *writer) items(items []models.Item) {
	w.font("U", 12, black)
	w.line(labelItems, "L", 15)
	w.doc.Ln(6)

	w.font("", 10, ink)
	w.row(12, labelDesc, labelQty, labelUnit, labelLineTotal)
	w.doc.Ln(4)
	y := w.doc.GetY()
	w.doc.Line(margin, y, pageRight, y)

	for _, it := range items {
		w.doc.Ln(4)
		w.row(12,
			it.Description,
			strconv.FormatFloat(it.Quantity, 'f', -1, 64),
			money.FormatBRLFloat(it.UnitPrice),
			money.FormatBRL(it.LineTotal()),
		)
		w.doc.Ln(4)
	}
}

// row prints the four item columns. Descriptions wider than their column are clipped.
func (w *writer) row(height float64, desc, qty, unit, total string) {
	w.doc.SetX(margin)
	w.doc.CellFormat(colDesc, height, w.fit(w.tr(desc), colDesc-2), "", 0, "L", false, 0, "")
	w.doc.CellFormat(colQty, height, w.tr(qty), "", 0, "C", false, 0, "")
	w.doc.CellFormat(colUnit, height, w.tr(unit), "", 0, "R", false, 0, "")
	w.doc.CellFormat(colTotal, height, w.tr(total), "", 1, "R", false, 0, "")
}

func (w *writer) total(total float64) {
	w.font("", 12, black)
	w.doc.SetX(margin)
	w.doc.CellFormat(contentW-totalValueW, 15, labelTotal, "", 0, "R", false, 0, "")
	w.font("B", 12, black)
	w.doc.CellFormat(totalValueW, 15, w.tr(money.FormatBRLFloat(total)), "", 1, "R", false, 0, "")
	w.doc.Ln(24)
}

func (w *writer) footer() {
	w.font("", 9, footGrey)
	w.line(footer, "C", 11)
}

// fit trims already-translated text until it fits in width.
func (w *writer) fit(s string, width float64) string {
	if w.doc.GetStringWidth(s) <= width {
		return s
	}
	const ellipsis = "\x85" // "…" in cp1252
	for len(s) > 0 && w.doc.GetStringWidth(s+ellipsis) > width {
		s = s[:len(s)-1]
	}
	return s + ellipsis
}

// Package report renders interview reports as PDF documents.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	margin     = 20.0
	footerText = "VocalHire AI - Advanced Interview Analysis Platform"
)

type rgb struct{ r, g, b int }

var (
	colorBrand    = rgb{139, 92, 246}
	colorGreen    = rgb{34, 197, 94}
	colorBlue     = rgb{59, 130, 246}
	colorAmber    = rgb{245, 158, 11}
	colorRed      = rgb{239, 68, 68}
	colorAdaptive = rgb{168, 85, 247}
	colorMuted    = rgb{128, 128, 128}
)

type config struct {
	compress bool
	now      func() time.Time
}

type Option func(*config)

// WithCompression toggles stream compression. Uncompressed output is useful
// when inspecting the generated document.
func WithCompression(on bool) Option {
	return func(c *config) { c.compress = on }
}

// WithClock fixes the generation time printed in the report.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

func newConfig(opts []Option) config {
	cfg := config{compress: true, now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// document wraps fpdf with the layout helpers shared by both reports.
type document struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	width float64
}

func newDocument(cfg config, title string) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(cfg.compress)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(title, false)
	pdf.SetCreator("VocalHire", false)
	pdf.SetCreationDate(cfg.now())
	pdf.AliasNbPages("")

	d := &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	w, _ := pdf.GetPageSize()
	d.width = w - 2*margin

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 8)
		d.color(colorMuted)
		pdf.CellFormat(d.width/2, 6, footerText, "", 0, "L", false, 0, "")
		pdf.CellFormat(d.width/2, 6, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	return d
}

func (d *document) color(c rgb) {
	d.pdf.SetTextColor(c.r, c.g, c.b)
}

func (d *document) banner(title, subtitle string) {
	d.pdf.AddPage()
	d.pdf.SetFillColor(colorBrand.r, colorBrand.g, colorBrand.b)
	d.pdf.Rect(0, 0, d.width+2*margin, 45, "F")
	d.pdf.SetTextColor(255, 255, 255)
	d.pdf.SetXY(margin, 12)
	d.pdf.SetFont("Helvetica", "B", 24)
	d.pdf.CellFormat(d.width, 12, d.tr(title), "", 1, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 14)
	d.pdf.CellFormat(d.width, 8, d.tr(subtitle), "", 1, "L", false, 0, "")
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.SetY(55)
}

func (d *document) section(title string, c rgb) {
	d.ensure(30)
	d.pdf.Ln(4)
	d.pdf.SetFillColor(c.r, c.g, c.b)
	d.pdf.SetTextColor(255, 255, 255)
	d.pdf.SetFont("Helvetica", "B", 14)
	d.pdf.CellFormat(d.width, 9, "  "+d.tr(title), "", 1, "L", true, 0, "")
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.Ln(4)
}

func (d *document) heading(text string, size float64) {
	d.ensure(20)
	d.pdf.SetFont("Helvetica", "B", size)
	d.pdf.CellFormat(d.width, size/2+2, d.tr(text), "", 1, "L", false, 0, "")
}

func (d *document) text(text string, size float64) {
	d.pdf.SetFont("Helvetica", "", size)
	d.pdf.MultiCell(d.width, size/2+1, d.tr(text), "", "L", false)
}

func (d *document) bullets(items []string, size float64) {
	for _, item := range items {
		d.text("- "+item, size)
		d.pdf.Ln(1)
	}
}

func (d *document) numbered(items []string, size float64) {
	for i, item := range items {
		d.text(fmt.Sprintf("%d. %s", i+1, item), size)
		d.pdf.Ln(1)
	}
}

// ensure starts a new page when less than need millimetres remain.
func (d *document) ensure(need float64) {
	_, h := d.pdf.GetPageSize()
	if d.pdf.GetY()+need > h-margin {
		d.pdf.AddPage()
	}
}

func (d *document) newPage() {
	d.pdf.AddPage()
}

func (d *document) write(w io.Writer) error {
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func dateOnly(t time.Time) string {
	return t.Format("2006-01-02")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// Package view renders the console pages from embedded templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/herevemarket/admin_console/internal/models"
)

//go:embed templates/*
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Page names.
const (
	PageLogin    = "login"
	PageOrders   = "orders"
	PageProducts = "products"
	PageConfirm  = "confirm"
	PageAudit    = "audit"
)

var pages = []string{PageLogin, PageOrders, PageProducts, PageConfirm, PageAudit}

// Page is the data every template receives.
type Page struct {
	Title string
	// Nav is the active navigation entry.
	Nav   string
	Email string
	// Authenticated hides the navigation on the login page.
	Authenticated bool
	// Events enables the live activity banner.
	Events bool
	Audit  bool
	Alerts []string
	Body   any
}

// Renderer executes the page templates.
type Renderer struct {
	templates map[string]*template.Template
	formatter *Formatter
}

// NewRenderer parses every page together with the shared layout.
func NewRenderer(loc *time.Location) (*Renderer, error) {
	f := NewFormatter(loc)
	r := &Renderer{templates: make(map[string]*template.Template, len(pages)), formatter: f}
	for _, name := range pages {
		tmpl, err := template.New(name).Funcs(f.FuncMap()).ParseFS(templateFS,
			"templates/layout.gohtml",
			"templates/"+name+".gohtml",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

// Render writes page with status. Templates are executed into a buffer so a
// failing template never leaves a half-written page.
func (r *Renderer) Render(c *gin.Context, status int, name string, page Page) {
	tmpl, ok := r.templates[name]
	if !ok {
		log.Error().Str("page", name).Msg("Unknown page template")
		c.String(http.StatusInternalServerError, "unknown page")
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		log.Error().Err(err).Str("page", name).Msg("Failed to render page")
		c.String(http.StatusInternalServerError, "render failed")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// Static returns the embedded static assets.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Formatter holds the presentation rules for dates and money.
type Formatter struct {
	loc     *time.Location
	printer *message.Printer
}

// NewFormatter returns a Formatter rendering times in loc.
func NewFormatter(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.FixedZone("TRT", 3*3600)
	}
	return &Formatter{loc: loc, printer: message.NewPrinter(language.Turkish)}
}

// FuncMap exposes the formatter to templates.
func (f *Formatter) FuncMap() template.FuncMap {
	return template.FuncMap{
		"formatDateTime":   f.FormatDateTime,
		"formatTime":       f.FormatTime,
		"formatCurrency":   f.FormatCurrency,
		"statusBadgeClass": StatusBadgeClass,
		"statusLabel":      StatusLabel,
		"millis":           func(d time.Duration) int64 { return d.Milliseconds() },
	}
}

const dateTimeLayout = "02.01.2006 15:04:05"

// zonedLayouts carry their own offset; localLayouts are read in the display zone.
var (
	zonedLayouts = []string{time.RFC3339Nano}
	localLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
)

// FormatDateTime renders an API timestamp as dd.mm.yyyy hh:mm:ss in the
// display zone, "-" when missing or unparsable.
func (f *Formatter) FormatDateTime(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return f.FormatTime(t)
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, f.loc); err == nil {
			return f.FormatTime(t)
		}
	}
	return "-"
}

// FormatTime renders t in the display zone.
func (f *Formatter) FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(f.loc).Format(dateTimeLayout)
}

// FormatCurrency renders a lira amount as "₺1.234,56", "-" when the amount
// was not a number.
func (f *Formatter) FormatCurrency(a models.Amount) string {
	if !a.Valid {
		return "-"
	}
	v := a.Value.Round(2)
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}
	return sign + "₺" + f.printer.Sprintf("%.2f", v.InexactFloat64())
}

// StatusBadgeClass maps an order status to its badge class.
func StatusBadgeClass(s models.OrderStatus) string {
	return "badge " + string(s.Normalize())
}

// StatusLabel is the badge text: the raw status, or "Bilinmiyor" when absent.
func StatusLabel(s models.OrderStatus) string {
	if s == "" {
		return "Bilinmiyor"
	}
	return string(s)
}

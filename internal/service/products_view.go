package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/herevemarket/admin_console/internal/models"
)

// Save button states of a product row.
const (
	SaveIdle    = "idle"
	SavePending = "pending"
	SaveSaved   = "saved"
)

// ProductRow is one rendered products table row.
type ProductRow struct {
	ID            string
	Name          string
	Price         string
	CategoryLabel string
	ActiveLabel   string
	Brand         string
	Barcode       string
	StockInput    string
	IsCampaign    bool
	RowClass      string
	SaveState     string
	SaveLabel     string
	// SavedFor is what remains of the saved confirmation.
	SavedFor time.Duration
	Selected bool
}

// PageLink is a pagination button.
type PageLink struct {
	Label    string
	Page     int
	Disabled bool
}

// PaginationView is the pagination control.
type PaginationView struct {
	Label string
	Prev  PageLink
	Next  PageLink
}

// ProductFormView is the values a product form renders with.
type ProductFormView struct {
	ID          string
	Name        string
	Price       string
	Brand       string
	Barcode     string
	Stock       string
	ImageURL    string
	Description string
	IsCampaign  bool
	IsActive    bool
	Categories  []SelectOption
}

// ProductsView is everything the products template needs.
type ProductsView struct {
	Rows       []ProductRow
	Empty      string
	Pagination PaginationView
	TotalCount int
	Filter     []SelectOption
	Create     ProductFormView
	// Edit is nil while the edit panel is closed.
	Edit   *ProductFormView
	Status string
	Alerts []string
}

// Pagination renders the pagination control for the current page.
func (c *ProductsController) Pagination() PaginationView {
	cur, total := c.State.CurrentPage, c.State.TotalPages
	return PaginationView{
		Label: fmt.Sprintf("Page %d / %d", cur, total),
		Prev:  PageLink{Label: "Önceki", Page: cur - 1, Disabled: cur <= 1},
		Next:  PageLink{Label: "Sonraki", Page: cur + 1, Disabled: cur >= total},
	}
}

// Rows renders the listed products.
func (c *ProductsController) Rows() []ProductRow {
	now := c.svc.now()
	rows := make([]ProductRow, 0, len(c.State.Products))
	for _, p := range c.State.Products {
		row := ProductRow{
			ID:            p.ID,
			Name:          dashIfEmpty(p.Name),
			Price:         p.Price.String(),
			CategoryLabel: CategoryLabel(p.Category),
			ActiveLabel:   ActiveLabel(p.IsActive),
			Brand:         p.Brand,
			Barcode:       p.Barcode,
			StockInput:    p.Stock.Input(),
			IsCampaign:    p.IsCampaign,
			RowClass:      "product-row",
			SaveState:     SaveIdle,
			SaveLabel:     "Kaydet",
			Selected:      c.State.Selected != nil && c.State.Selected.ID == p.ID && p.ID != "",
		}
		if p.OutOfStock() {
			row.RowClass += " out-of-stock-row"
		}
		switch until, saved := c.State.SavedUntil[p.ID]; {
		case c.State.Pending[p.ID]:
			row.SaveState, row.SaveLabel = SavePending, "Kaydediliyor..."
		case saved && now.Before(until):
			row.SaveState, row.SaveLabel = SaveSaved, "Kaydedildi ✓"
			row.SavedFor = until.Sub(now)
		}
		rows = append(rows, row)
	}
	return rows
}

// View renders the whole page and consumes pending alerts. Expired saved
// confirmations are dropped from the state.
func (c *ProductsController) View() ProductsView {
	now := c.svc.now()
	for id, until := range c.State.SavedUntil {
		if !now.Before(until) {
			delete(c.State.SavedUntil, id)
		}
	}

	v := ProductsView{
		Rows:       c.Rows(),
		Pagination: c.Pagination(),
		TotalCount: c.State.TotalCount,
		Filter:     FilterSelect(c.State.Categories, c.State.CategoryFilter),
		Status:     c.State.Status,
		Alerts:     c.State.TakeAlerts(),
	}
	if len(v.Rows) == 0 {
		v.Empty = "Ürün yok"
	}

	d := c.State.CreateDraft
	v.Create = ProductFormView{
		Name:        d.Name,
		Price:       d.Price,
		Brand:       d.Brand,
		Barcode:     d.Barcode,
		Stock:       d.Stock,
		Description: d.Description,
		IsCampaign:  d.IsCampaign,
		IsActive:    true,
		Categories:  CategorySelect(c.State.Categories, d.Categories),
	}

	if sel := c.State.Selected; sel != nil {
		edit := ProductFormView{
			ID:          sel.ID,
			Name:        sel.Name,
			Price:       priceInput(sel.Price),
			Brand:       sel.Brand,
			Barcode:     sel.Barcode,
			Stock:       string(sel.Stock),
			ImageURL:    sel.ImageURL,
			Description: sel.Description,
			IsCampaign:  sel.IsCampaign,
			IsActive:    sel.IsActive,
		}
		selection := c.State.EditSelection
		if d := c.State.EditDraft; d != nil {
			edit.Name, edit.Price, edit.Brand, edit.Barcode = d.Name, d.Price, d.Brand, d.Barcode
			edit.Stock, edit.Description = d.Stock, d.Description
			edit.IsCampaign, edit.IsActive = d.IsCampaign, d.IsActive
			selection = d.Categories
		}
		edit.Categories = CategorySelect(c.State.EditCategories, selection)
		v.Edit = &edit
	}
	return v
}

// CategoryLabel joins category names, "-" when there are none.
func CategoryLabel(categories []string) string {
	if len(categories) == 0 {
		return "-"
	}
	return strings.Join(categories, ", ")
}

// ActiveLabel is the active/inactive label of a product.
func ActiveLabel(active bool) string {
	if active {
		return "Aktif"
	}
	return "Pasif"
}

func priceInput(a models.Amount) string {
	if !a.Valid {
		return ""
	}
	return a.Value.String()
}

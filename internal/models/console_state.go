package models

import "time"

// OrdersState is the persisted view state of the orders page.
type OrdersState struct {
	Orders []Order `json:"orders"`
	// LoadFailed appends the failure row below whatever is listed.
	LoadFailed bool   `json:"loadFailed"`
	Status     string `json:"status"`
}

// ProductsState is the persisted view state of the products page.
type ProductsState struct {
	Products    []Product `json:"products"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
	TotalCount  int       `json:"totalCount"`

	Categories     []Category `json:"categories"`
	CategoryFilter string     `json:"categoryFilter"`

	// Selected is the product open in the edit panel, nil when closed.
	Selected      *Product `json:"selected,omitempty"`
	EditSelection []string `json:"editSelection"`
	// EditCategories is the list fetched when the edit panel was opened.
	EditCategories []Category `json:"editCategories"`

	// EditDraft holds the edit form's typed values after a rejected submit.
	EditDraft   *ProductDraft `json:"editDraft,omitempty"`
	CreateDraft ProductDraft  `json:"createDraft"`

	Status string   `json:"status"`
	Alerts []string `json:"alerts"`

	Pending    map[string]bool      `json:"pending"`
	SavedUntil map[string]time.Time `json:"savedUntil"`
}

// ProductDraft holds the create form's typed values so they survive a
// rejected submit.
type ProductDraft struct {
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Brand       string   `json:"brand"`
	Barcode     string   `json:"barcode"`
	Description string   `json:"description"`
	Stock       string   `json:"stock"`
	Categories  []string `json:"categories"`
	IsCampaign  bool     `json:"isCampaign"`
	IsActive    bool     `json:"isActive"`
}

// NewProductsState returns the state of a page that has not loaded yet.
func NewProductsState() *ProductsState {
	return &ProductsState{
		CurrentPage: 1,
		TotalPages:  1,
		Pending:     map[string]bool{},
		SavedUntil:  map[string]time.Time{},
	}
}

// Normalize fills zero values left by decoding an older or empty document.
func (s *ProductsState) Normalize() {
	if s.CurrentPage < 1 {
		s.CurrentPage = 1
	}
	if s.TotalPages < 1 {
		s.TotalPages = 1
	}
	if s.Pending == nil {
		s.Pending = map[string]bool{}
	}
	if s.SavedUntil == nil {
		s.SavedUntil = map[string]time.Time{}
	}
}

// FindProduct returns the listed product with id, or nil.
func (s *ProductsState) FindProduct(id string) *Product {
	if id == "" {
		return nil
	}
	for i := range s.Products {
		if s.Products[i].ID == id {
			return &s.Products[i]
		}
	}
	return nil
}

// TakeAlerts returns and clears the pending alerts.
func (s *ProductsState) TakeAlerts() []string {
	alerts := s.Alerts
	s.Alerts = nil
	return alerts
}

// HasOrder reports whether id belongs to a listed order.
func (s *OrdersState) HasOrder(id string) bool {
	if id == "" {
		return false
	}
	for _, o := range s.Orders {
		if o.ID == id {
			return true
		}
	}
	return false
}

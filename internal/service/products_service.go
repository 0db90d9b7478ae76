package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/herevemarket/admin_console/internal/models"
	"github.com/herevemarket/admin_console/pkg/marketapi"
)

const (
	statusProductsLoading    = "Ürünler yükleniyor..."
	statusProductsLoadFailed = "Hata: ürünler getirilemedi"
	statusProductUpdated     = "Ürün güncellendi"
	statusProductDeactivated = "Ürün pasifleştirildi"
	statusProductSaveFailed  = "Hata: ürün kaydedilemedi: "

	alertMissingID       = "Ürün id yok"
	alertCampaignFailed  = "Kampanya güncellenemedi"
	alertInvalidStock    = "Stok 0 veya daha büyük olmalı"
	alertUpdateFailed    = "Güncelleme başarısız"
	alertDeleteFailed    = "Silme başarısız"
	alertCreatePrice     = "Fiyat sayı olmalı (örn 24.90)"
	alertEditPrice       = "Fiyat sayı olmalı"
	alertNoCategory      = "En az bir kategori seç"
	alertImageRequired   = "Görsel seçmelisiniz"
	confirmProductDelete = "Bu ürünü silmek istediğinize emin misiniz?"

	// SavedDuration is how long a quick-saved row shows its confirmation.
	SavedDuration = 2 * time.Second
)

// ProductsAPI is the part of the market API the products page uses.
type ProductsAPI interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListProducts(ctx context.Context, token string, q marketapi.ProductQuery) (*marketapi.ProductPage, error)
	CreateProduct(ctx context.Context, token string, form marketapi.ProductForm) error
	UpdateProduct(ctx context.Context, token, id string, form marketapi.ProductForm) error
	PatchProduct(ctx context.Context, token, id string, fields map[string]any) (*models.Product, error)
	DeleteProduct(ctx context.Context, token, id string) error
}

// ProductsSaver persists products page state mid-operation.
type ProductsSaver interface {
	SaveProducts(ctx context.Context, sessionID string, state *models.ProductsState) error
}

// ProductsService builds per-request products controllers.
type ProductsService struct {
	api      ProductsAPI
	recorder ActivityRecorder
	states   ProductsSaver
	now      clock
}

// NewProductsService constructs a ProductsService. states may be nil.
func NewProductsService(api ProductsAPI, recorder ActivityRecorder, states ProductsSaver) *ProductsService {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &ProductsService{api: api, recorder: recorder, states: states, now: time.Now}
}

// Controller returns a controller acting on state for sess.
func (s *ProductsService) Controller(sess Session, state *models.ProductsState) *ProductsController {
	state.Normalize()
	return &ProductsController{svc: s, sess: sess, State: state}
}

// ProductsController runs the products page operations against one
// session's state. Only ErrUnauthorized is returned as an error; every other
// failure ends up in the state as a status line or an alert.
type ProductsController struct {
	svc   *ProductsService
	sess  Session
	State *models.ProductsState
}

// ProductInput is a submitted create or edit form.
type ProductInput struct {
	Name        string
	Price       string
	Brand       string
	Barcode     string
	Description string
	Stock       string
	Categories  []string
	IsCampaign  bool
	IsActive    bool
	Image       *marketapi.ImageFile
}

// QuickSaveFields are the inline table inputs of one row.
type QuickSaveFields struct {
	Brand   string
	Barcode string
	Stock   string
}

func (c *ProductsController) alert(msg string) {
	c.State.Alerts = append(c.State.Alerts, msg)
}

func (c *ProductsController) checkpoint(ctx context.Context) {
	if c.svc.states == nil {
		return
	}
	if err := c.svc.states.SaveProducts(ctx, c.sess.ID, c.State); err != nil {
		log.Warn().Err(err).Str("session", c.sess.ID).Msg("Failed to checkpoint products state")
	}
}

func (c *ProductsController) record(ctx context.Context, action, id string) {
	c.svc.recorder.Record(ctx, models.Activity{
		Action:   action,
		TargetID: id,
		Actor:    c.sess.Actor,
		At:       c.svc.now(),
	})
}

// LoadCategories refreshes the category list the selectors are built from.
// The filter keeps its value iff that name is still among the categories; a
// failed fetch counts as an empty list.
func (c *ProductsController) LoadCategories(ctx context.Context) error {
	categories, err := c.svc.api.ListCategories(ctx)
	if err != nil {
		if IsUnauthorized(err) {
			return err
		}
		log.Error().Err(err).Msg("Failed to load categories")
		categories = nil
	}
	c.State.Categories = categories
	c.State.CategoryFilter = resolveFilter(categories, c.State.CategoryFilter)
	return nil
}

// LoadProducts loads page (1 when < 1) under the current category filter.
// On failure the listed products are left untouched.
func (c *ProductsController) LoadProducts(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	c.State.Status = statusProductsLoading
	c.checkpoint(ctx)

	result, err := c.svc.api.ListProducts(ctx, c.sess.Token, marketapi.ProductQuery{
		Page:     page,
		Limit:    models.PageSize,
		Category: c.State.CategoryFilter,
	})
	if err != nil {
		if IsUnauthorized(err) {
			return err
		}
		log.Error().Err(err).Int("page", page).Msg("Failed to load products")
		c.State.Status = statusProductsLoadFailed
		return nil
	}

	c.State.Products = result.Products
	p := result.Pagination
	c.State.CurrentPage = page
	if p.Page != nil {
		c.State.CurrentPage = *p.Page
	}
	c.State.TotalPages = 1
	if p.TotalPages != nil {
		c.State.TotalPages = *p.TotalPages
	}
	c.State.TotalCount = len(result.Products)
	if p.Total != nil {
		c.State.TotalCount = *p.Total
	}
	c.State.Status = ""
	return nil
}

// GoToPage loads an adjacent page. A target equal to the current page is a
// no-op.
func (c *ProductsController) GoToPage(ctx context.Context, page int) error {
	if page == c.State.CurrentPage {
		return nil
	}
	return c.LoadProducts(ctx, page)
}

// SetCategoryFilter changes the filter, which must name a known category or
// be empty, and reloads from page 1.
func (c *ProductsController) SetCategoryFilter(ctx context.Context, name string) error {
	c.State.CategoryFilter = resolveFilter(c.State.Categories, name)
	c.State.CurrentPage = 1
	return c.LoadProducts(ctx, 1)
}

// ToggleCampaign sets the campaign flag of a listed product to checked. The
// in-memory flag only changes once the API accepted it.
func (c *ProductsController) ToggleCampaign(ctx context.Context, id string, checked bool) error {
	if c.State.FindProduct(id) == nil {
		c.alert(alertMissingID)
		return nil
	}

	c.State.Pending[id] = true
	c.checkpoint(ctx)
	defer delete(c.State.Pending, id)

	log.Debug().Str("product_id", id).Bool("is_campaign", checked).Msg("Toggling campaign")
	_, err := c.svc.api.PatchProduct(ctx, c.sess.Token, id, map[string]any{"isCampaign": checked})
	if err != nil {
		c.alert(alertCampaignFailed)
		if IsUnauthorized(err) {
			return err
		}
		log.Error().Err(err).Str("product_id", id).Msg("Toggle campaign failed")
		return nil
	}

	if p := c.State.FindProduct(id); p != nil {
		p.IsCampaign = checked
	}
	c.record(ctx, models.ActivityCampaignToggled, id)
	return nil
}

// QuickSave saves the inline brand, barcode and stock of a listed product.
// The typed values are kept on the product even when the save is rejected.
func (c *ProductsController) QuickSave(ctx context.Context, id string, fields QuickSaveFields) error {
	p := c.State.FindProduct(id)
	if p == nil {
		c.alert(alertMissingID)
		return nil
	}
	p.Brand = fields.Brand
	p.Barcode = fields.Barcode
	p.Stock = models.StockValue(fields.Stock)

	stock, ok := ParseStock(fields.Stock)
	if !ok {
		c.alert(alertInvalidStock)
		return nil
	}
	payload := map[string]any{
		"stock":   stock,
		"brand":   NormalizeText(fields.Brand),
		"barcode": NormalizeText(fields.Barcode),
	}

	delete(c.State.SavedUntil, id)
	c.State.Pending[id] = true
	c.checkpoint(ctx)
	defer delete(c.State.Pending, id)

	log.Debug().Str("product_id", id).Interface("payload", payload).Msg("Quick save")
	updated, err := c.svc.api.PatchProduct(ctx, c.sess.Token, id, payload)
	if err != nil {
		if IsUnauthorized(err) {
			return err
		}
		log.Error().Err(err).Str("product_id", id).Msg("Quick save failed")
		c.alert(failureAlert(alertUpdateFailed, err))
		return nil
	}

	if updated != nil {
		for i := range c.State.Products {
			if c.State.Products[i].ID == id {
				c.State.Products[i] = *updated
				break
			}
		}
	}
	c.State.SavedUntil[id] = c.svc.now().Add(SavedDuration)
	c.State.Status = statusProductUpdated
	c.record(ctx, models.ActivityProductSaved, id)
	return nil
}

// SelectProduct opens the edit panel for a listed product and rebuilds the
// edit category selector from a fresh category list.
func (c *ProductsController) SelectProduct(ctx context.Context, id string) error {
	p := c.State.FindProduct(id)
	if p == nil {
		c.alert(alertMissingID)
		return nil
	}
	selected := *p
	selected.Category = append(models.CategoryList(nil), p.Category...)
	c.State.Selected = &selected
	c.State.EditDraft = nil
	c.State.EditSelection = NormalizeCategories(selected.Category)
	c.State.EditCategories = c.State.Categories

	categories, err := c.svc.api.ListCategories(ctx)
	if err != nil {
		if IsUnauthorized(err) {
			return err
		}
		log.Error().Err(err).Msg("Failed to load categories for edit panel")
		return nil
	}
	c.State.EditCategories = categories
	return nil
}

// CloseEditor closes the edit panel.
func (c *ProductsController) CloseEditor() {
	c.State.Selected = nil
	c.State.EditDraft = nil
	c.State.EditSelection = nil
}

// DeleteProduct soft-deletes a listed or selected product after confirmation
// and reloads the current page.
func (c *ProductsController) DeleteProduct(ctx context.Context, id string, confirmer Confirmer) error {
	known := c.State.FindProduct(id) != nil || (c.State.Selected != nil && id != "" && c.State.Selected.ID == id)
	if !known {
		c.alert(alertMissingID)
		return nil
	}
	if !confirmer.Confirm(confirmProductDelete) {
		return nil
	}

	if err := c.svc.api.DeleteProduct(ctx, c.sess.Token, id); err != nil {
		if IsUnauthorized(err) {
			return err
		}
		log.Error().Err(err).Str("product_id", id).Msg("Delete product failed")
		c.alert(failureAlert(alertDeleteFailed, err))
		return nil
	}

	if c.State.Selected != nil && c.State.Selected.ID == id {
		c.CloseEditor()
	}
	c.record(ctx, models.ActivityProductDeleted, id)

	if err := c.LoadProducts(ctx, c.State.CurrentPage); err != nil {
		return err
	}
	c.State.Status = statusProductDeactivated
	return nil
}

// validated is a ProductInput that passed validation.
type validated struct {
	price      decimal.Decimal
	stock      float64
	categories []string
}

func (c *ProductsController) validate(in ProductInput, priceAlert string) (validated, bool) {
	price, ok := ParsePrice(in.Price)
	if !ok {
		c.alert(priceAlert)
		return validated{}, false
	}
	stock, ok := ParseStock(in.Stock)
	if !ok {
		c.alert(alertInvalidStock)
		return validated{}, false
	}
	categories := NormalizeCategories(in.Categories)
	if len(categories) == 0 {
		c.alert(alertNoCategory)
		return validated{}, false
	}
	return validated{price: price, stock: stock, categories: categories}, true
}

func buildForm(in ProductInput, v validated, isActive bool) marketapi.ProductForm {
	isCampaign := in.IsCampaign
	return marketapi.ProductForm{
		Name:        in.Name,
		Price:       v.price,
		Brand:       NormalizeText(in.Brand),
		Barcode:     NormalizeText(in.Barcode),
		Description: NormalizeText(in.Description),
		Stock:       v.stock,
		Categories:  v.categories,
		IsCampaign:  &isCampaign,
		IsActive:    &isActive,
		Image:       in.Image,
	}
}

func draftOf(in ProductInput) models.ProductDraft {
	return models.ProductDraft{
		Name:        in.Name,
		Price:       in.Price,
		Brand:       in.Brand,
		Barcode:     in.Barcode,
		Description: in.Description,
		Stock:       in.Stock,
		Categories:  NormalizeCategories(in.Categories),
		IsCampaign:  in.IsCampaign,
		IsActive:    in.IsActive,
	}
}

// CreateProduct validates and submits the create form. Whatever the API
// answers, the form is reset and the current page reloaded; a rejected
// create is reported on the status line.
func (c *ProductsController) CreateProduct(ctx context.Context, in ProductInput) error {
	c.State.CreateDraft = draftOf(in)

	v, ok := c.validate(in, alertCreatePrice)
	if !ok {
		return nil
	}
	if in.Image == nil {
		c.alert(alertImageRequired)
		return nil
	}

	failure := ""
	if err := c.svc.api.CreateProduct(ctx, c.sess.Token, buildForm(in, v, true)); err != nil {
		if IsUnauthorized(err) {
			return err
		}
		log.Error().Err(err).Str("name", in.Name).Msg("Create product failed")
		failure = statusProductSaveFailed + marketapi.ErrorReason(err)
	} else {
		log.Info().Str("name", in.Name).Str("actor", c.sess.Actor).Msg("Product created")
		c.record(ctx, models.ActivityProductCreated, in.Name)
	}

	c.State.CreateDraft = models.ProductDraft{}
	if err := c.LoadProducts(ctx, c.State.CurrentPage); err != nil {
		return err
	}
	if failure != "" {
		c.State.Status = failure
	}
	return nil
}

// UpdateSelectedProduct submits the edit form for the product open in the
// edit panel. The product id always comes from the state, never the form.
func (c *ProductsController) UpdateSelectedProduct(ctx context.Context, in ProductInput) error {
	if c.State.Selected == nil {
		return nil
	}
	id := c.State.Selected.ID
	if id == "" {
		c.alert(alertMissingID)
		return nil
	}

	v, ok := c.validate(in, alertEditPrice)
	if !ok {
		draft := draftOf(in)
		c.State.EditDraft = &draft
		return nil
	}

	failure := ""
	if err := c.svc.api.UpdateProduct(ctx, c.sess.Token, id, buildForm(in, v, in.IsActive)); err != nil {
		if IsUnauthorized(err) {
			return err
		}
		log.Error().Err(err).Str("product_id", id).Msg("Update product failed")
		failure = statusProductSaveFailed + marketapi.ErrorReason(err)
		draft := draftOf(in)
		c.State.EditDraft = &draft
	} else {
		log.Info().Str("product_id", id).Str("actor", c.sess.Actor).Msg("Product updated")
		c.State.EditDraft = nil
		c.record(ctx, models.ActivityProductUpdated, id)
	}

	if err := c.LoadProducts(ctx, c.State.CurrentPage); err != nil {
		return err
	}
	if failure != "" {
		c.State.Status = failure
		return nil
	}
	if p := c.State.FindProduct(id); p != nil {
		refreshed := *p
		c.State.Selected = &refreshed
		c.State.EditSelection = NormalizeCategories(refreshed.Category)
	}
	return nil
}

// failureAlert formats "<prefix>: <reason>", or just prefix when the request
// never got an answer.
func failureAlert(prefix string, err error) string {
	var apiErr *marketapi.APIError
	if errors.As(err, &apiErr) {
		return prefix + ": " + apiErr.Reason()
	}
	return prefix
}

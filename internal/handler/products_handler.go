package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/herevemarket/admin_console/internal/cache"
	"github.com/herevemarket/admin_console/internal/models"
	"github.com/herevemarket/admin_console/internal/service"
	"github.com/herevemarket/admin_console/internal/view"
	"github.com/herevemarket/admin_console/pkg/marketapi"
)

const productsPath = "/admin/products"

// maxUploadMemory is how much of a multipart form is held in memory.
const maxUploadMemory = 8 << 20

// ProductsHandler serves the products page.
type ProductsHandler struct {
	pages    *Pages
	products *service.ProductsService
	states   cache.StateStore
}

// NewProductsHandler creates a new ProductsHandler.
func NewProductsHandler(pages *Pages, products *service.ProductsService, states cache.StateStore) *ProductsHandler {
	return &ProductsHandler{pages: pages, products: products, states: states}
}

// List handles GET /admin/products.
//
//	keep=1              re-render the stored state (after a redirect)
//	nav=1&page=N        go to page N
//	filter=1&category=X change the category filter
//	otherwise           fresh load of categories and products (page, category)
func (h *ProductsHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	sess := sessionOf(c)

	var state *models.ProductsState
	if c.Query("keep") == "1" || c.Query("nav") == "1" || c.Query("filter") == "1" {
		state = h.load(c, sess.ID)
	} else {
		state = models.NewProductsState()
	}
	ctrl := h.products.Controller(sess, state)

	var err error
	switch {
	case c.Query("keep") == "1":
	case c.Query("nav") == "1":
		err = ctrl.GoToPage(ctx, queryPage(c))
	case c.Query("filter") == "1":
		err = ctrl.SetCategoryFilter(ctx, c.Query("category"))
	default:
		state.CategoryFilter = c.Query("category")
		if err = ctrl.LoadCategories(ctx); err == nil {
			err = ctrl.LoadProducts(ctx, queryPage(c))
		}
	}
	if h.pages.Sessions.HandleUnauthorized(c, err) {
		return
	}

	h.renderList(c, sess.ID, ctrl)
}

// Edit handles GET /admin/products/:id/edit.
func (h *ProductsHandler) Edit(c *gin.Context) {
	h.mutate(c, func(ctrl *service.ProductsController) error {
		return ctrl.SelectProduct(c.Request.Context(), c.Param("id"))
	})
}

// CloseEditor handles POST /admin/products/edit/close.
func (h *ProductsHandler) CloseEditor(c *gin.Context) {
	h.mutate(c, func(ctrl *service.ProductsController) error {
		ctrl.CloseEditor()
		return nil
	})
}

// Create handles the multipart POST /admin/products.
func (h *ProductsHandler) Create(c *gin.Context) {
	in, cleanup, err := productInput(c)
	if err != nil {
		log.Warn().Err(err).Msg("Invalid product form")
		c.Redirect(http.StatusSeeOther, productsPath+"?keep=1")
		return
	}
	defer cleanup()

	h.mutate(c, func(ctrl *service.ProductsController) error {
		return ctrl.CreateProduct(c.Request.Context(), in)
	})
}

// Update handles the multipart POST /admin/products/edit for the product open
// in the edit panel.
func (h *ProductsHandler) Update(c *gin.Context) {
	in, cleanup, err := productInput(c)
	if err != nil {
		log.Warn().Err(err).Msg("Invalid product form")
		c.Redirect(http.StatusSeeOther, productsPath+"?keep=1")
		return
	}
	defer cleanup()
	in.IsActive = c.PostForm("isActive") != ""

	h.mutate(c, func(ctrl *service.ProductsController) error {
		return ctrl.UpdateSelectedProduct(c.Request.Context(), in)
	})
}

// ToggleCampaign handles POST /admin/products/:id/campaign with checked=true|false.
func (h *ProductsHandler) ToggleCampaign(c *gin.Context) {
	checked, _ := strconv.ParseBool(c.PostForm("checked"))
	h.mutate(c, func(ctrl *service.ProductsController) error {
		return ctrl.ToggleCampaign(c.Request.Context(), c.Param("id"), checked)
	})
}

// QuickSave handles POST /admin/products/:id/quick-save.
func (h *ProductsHandler) QuickSave(c *gin.Context) {
	fields := service.QuickSaveFields{
		Brand:   c.PostForm("brand"),
		Barcode: c.PostForm("barcode"),
		Stock:   c.PostForm("stock"),
	}
	h.mutate(c, func(ctrl *service.ProductsController) error {
		return ctrl.QuickSave(c.Request.Context(), c.Param("id"), fields)
	})
}

// Delete handles POST /admin/products/:id/delete.
func (h *ProductsHandler) Delete(c *gin.Context) {
	sess := sessionOf(c)
	state := h.load(c, sess.ID)
	ctrl := h.products.Controller(sess, state)

	confirm := newFormConfirmer(c)
	if err := ctrl.DeleteProduct(c.Request.Context(), c.Param("id"), confirm); h.pages.Sessions.HandleUnauthorized(c, err) {
		return
	}
	if confirm.pending() {
		h.pages.renderConfirm(c, confirm)
		return
	}
	h.save(c, sess.ID, state)
	c.Redirect(http.StatusSeeOther, productsPath+"?keep=1")
}

// mutate runs op against the stored state, saves it and redirects back to
// the list.
func (h *ProductsHandler) mutate(c *gin.Context, op func(*service.ProductsController) error) {
	sess := sessionOf(c)
	state := h.load(c, sess.ID)
	if err := op(h.products.Controller(sess, state)); h.pages.Sessions.HandleUnauthorized(c, err) {
		return
	}
	h.save(c, sess.ID, state)
	c.Redirect(http.StatusSeeOther, productsPath+"?keep=1")
}

func (h *ProductsHandler) renderList(c *gin.Context, sessionID string, ctrl *service.ProductsController) {
	v := ctrl.View()
	h.save(c, sessionID, ctrl.State)
	h.pages.render(c, http.StatusOK, view.PageProducts, "Ürünler", v, v.Alerts...)
}

func (h *ProductsHandler) load(c *gin.Context, sessionID string) *models.ProductsState {
	state, err := h.states.LoadProducts(c.Request.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Str("session", sessionID).Msg("Failed to load products state")
		return models.NewProductsState()
	}
	return state
}

func (h *ProductsHandler) save(c *gin.Context, sessionID string, state *models.ProductsState) {
	if err := h.states.SaveProducts(c.Request.Context(), sessionID, state); err != nil {
		log.Error().Err(err).Str("session", sessionID).Msg("Failed to save products state")
	}
}

func queryPage(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// productInput reads the create/edit multipart form. The returned cleanup
// closes the uploaded image.
func productInput(c *gin.Context) (service.ProductInput, func(), error) {
	noop := func() {}
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return service.ProductInput{}, noop, err
	}

	in := service.ProductInput{
		Name:        c.PostForm("name"),
		Price:       c.PostForm("price"),
		Brand:       c.PostForm("brand"),
		Barcode:     c.PostForm("barcode"),
		Description: c.PostForm("description"),
		Stock:       c.PostForm("stock"),
		Categories:  c.PostFormArray("category"),
		IsCampaign:  c.PostForm("isCampaign") != "",
	}

	fh, err := c.FormFile("image")
	if err != nil || fh.Size == 0 {
		return in, noop, nil
	}
	f, err := fh.Open()
	if err != nil {
		return in, noop, err
	}
	in.Image = &marketapi.ImageFile{
		Filename:    fh.Filename,
		ContentType: contentType(fh),
		Content:     f,
	}
	return in, func() { _ = f.Close() }, nil
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

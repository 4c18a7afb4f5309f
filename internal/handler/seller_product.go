package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Znarfieeee/Numsthrift/internal/model"
	"github.com/Znarfieeee/Numsthrift/internal/repository"
	"github.com/Znarfieeee/Numsthrift/internal/storage"
)

// SellerHandler manages the seller's own listings. Create and update accept
// multipart forms because they carry image uploads.
type SellerHandler struct {
	Products   *repository.ProductRepo
	Categories *repository.CategoryRepo
	Images     storage.ImageStore
}

func NewSellerHandler(p *repository.ProductRepo, cat *repository.CategoryRepo, img storage.ImageStore) *SellerHandler {
	if p == nil || cat == nil || img == nil {
		panic("nil dependency passed to NewSellerHandler")
	}
	return &SellerHandler{Products: p, Categories: cat, Images: img}
}

// ListMine handles GET /v1/seller/products: every listing of the caller,
// any status, newest first.
func (h *SellerHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Products.ListBySeller(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load listings failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// listingForm holds the validated multipart fields shared by create and
// update.
type listingForm struct {
	Title       string
	Description string
	PriceCents  int64
	Quantity    uint32
	CategoryID  *uint64
	Condition   model.Condition
	Brand       *string
	Size        *string
	Status      model.ProductStatus
}

// bindListingForm parses and validates the multipart fields. It returns a
// user-facing message when a field is invalid.
func (h *SellerHandler) bindListingForm(c echo.Context) (listingForm, string) {
	var f listingForm

	f.Title = strings.TrimSpace(c.FormValue("title"))
	if f.Title == "" {
		return f, "title is required"
	}
	f.Description = strings.TrimSpace(c.FormValue("description"))

	cents, err := strconv.ParseInt(strings.TrimSpace(c.FormValue("price_cents")), 10, 64)
	if err != nil || cents <= 0 {
		return f, "price_cents must be a positive integer"
	}
	f.PriceCents = cents

	f.Quantity = 1
	if raw := strings.TrimSpace(c.FormValue("quantity")); raw != "" {
		q, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || q == 0 {
			return f, "quantity must be a positive integer"
		}
		f.Quantity = uint32(q)
	}

	cond := strings.TrimSpace(c.FormValue("condition"))
	if !model.ValidCondition(cond) {
		return f, "invalid condition"
	}
	f.Condition = model.Condition(cond)

	if raw := strings.TrimSpace(c.FormValue("category_id")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return f, "invalid category_id"
		}
		exists, err := h.Categories.Exists(c.Request().Context(), id)
		if err != nil || !exists {
			return f, "unknown category"
		}
		f.CategoryID = &id
	}

	if b := strings.TrimSpace(c.FormValue("brand")); b != "" {
		f.Brand = &b
	}
	if s := strings.TrimSpace(c.FormValue("size")); s != "" {
		f.Size = &s
	}

	// empty means "not sent": create defaults it, update keeps the row's
	// current status
	if raw := strings.TrimSpace(c.FormValue("status")); raw != "" {
		if raw != string(model.ProductDraft) && raw != string(model.ProductAvailable) {
			return f, "status must be draft or available"
		}
		f.Status = model.ProductStatus(raw)
	}
	return f, ""
}

// resolveListingStatus decides the status an edit persists. An omitted
// status keeps the current one. A listing that an order has reserved or
// bought cannot be flipped back into the catalog through an edit; the
// order lifecycle owns those transitions.
func resolveListingStatus(current, requested model.ProductStatus) (model.ProductStatus, bool) {
	if requested == "" || requested == current {
		return current, true
	}
	if current == model.ProductPending || current == model.ProductSold {
		return current, false
	}
	return requested, true
}

// saveImages stores the uploaded files. The first file becomes the primary
// image and gets a thumbnail; the rest fill the gallery. At most five files
// are accepted.
func (h *SellerHandler) saveImages(c echo.Context) (primary, thumb *string, gallery []string, msg string) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, nil, ""
	}
	files := form.File["images"]
	if len(files) == 0 {
		return nil, nil, nil, ""
	}
	if len(files) > storage.MaxImagesPerListing {
		return nil, nil, nil, "at most 5 images per listing"
	}
	gallery = make([]string, 0, len(files)-1)
	for i, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return nil, nil, nil, "could not read uploaded file"
		}
		url, thumbURL, err := h.Images.Save(src, fh, i == 0)
		src.Close()
		if err != nil {
			if errors.Is(err, storage.ErrTooLarge) {
				return nil, nil, nil, "images must be 5MB or smaller"
			}
			if errors.Is(err, storage.ErrNotImage) {
				return nil, nil, nil, "only jpg, png and webp images are accepted"
			}
			return nil, nil, nil, "image upload failed"
		}
		if i == 0 {
			primary = &url
			if thumbURL != "" {
				t := thumbURL
				thumb = &t
			}
		} else {
			gallery = append(gallery, url)
		}
	}
	return primary, thumb, gallery, ""
}

// Create handles POST /v1/seller/products (multipart).
func (h *SellerHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	f, msg := h.bindListingForm(c)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if f.Status == "" {
		f.Status = model.ProductAvailable
	}
	primary, thumb, gallery, msg := h.saveImages(c)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	p := model.Product{
		SellerID:         uid,
		Title:            f.Title,
		Description:      f.Description,
		PriceCents:       f.PriceCents,
		Quantity:         f.Quantity,
		CategoryID:       f.CategoryID,
		Condition:        f.Condition,
		Brand:            f.Brand,
		Size:             f.Size,
		ImageURL:         primary,
		ThumbURL:         thumb,
		AdditionalImages: gallery,
		Status:           f.Status,
	}
	if err := h.Products.Create(c.Request().Context(), &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create listing failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": p})
}

// Update handles PUT /v1/seller/products/:id (multipart). Uploading new
// images replaces the existing set; omitting them keeps the current ones.
// The same goes for status: an edit that does not send one leaves the
// current status alone, so editing a reserved listing never puts it back
// in the catalog.
func (h *SellerHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	f, msg := h.bindListingForm(c)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx := c.Request().Context()
	existing, err := h.Products.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load listing failed"})
	}

	status, ok := resolveListingStatus(existing.Status, f.Status)
	if !ok {
		return c.JSON(http.StatusConflict, echo.Map{"error": "listing is tied to an order; its status cannot be changed here"})
	}
	f.Status = status

	primary, thumb, gallery, msg := h.saveImages(c)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if primary == nil {
		primary = existing.ImageURL
		thumb = existing.ThumbURL
		gallery = existing.AdditionalImages
	}

	p := model.Product{
		ID:               id,
		SellerID:         uid,
		Title:            f.Title,
		Description:      f.Description,
		PriceCents:       f.PriceCents,
		Quantity:         f.Quantity,
		CategoryID:       f.CategoryID,
		Condition:        f.Condition,
		Brand:            f.Brand,
		Size:             f.Size,
		ImageURL:         primary,
		ThumbURL:         thumb,
		AdditionalImages: gallery,
		Status:           f.Status,
	}
	if err := h.Products.Update(ctx, uid, &p); err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your listing"})
		}
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update listing failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": p})
}

// Delete handles DELETE /v1/seller/products/:id.
func (h *SellerHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	err = h.Products.Delete(c.Request().Context(), id, uid, false)
	if err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your listing"})
		}
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete listing failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

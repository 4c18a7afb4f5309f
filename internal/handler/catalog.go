package handler

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Znarfieeee/Numsthrift/internal/repository"
)

// CatalogHandler serves the public storefront: category list, listing browse
// and listing detail. All routes are unauthenticated and sit behind the
// response cache.
type CatalogHandler struct {
	Products   *repository.ProductRepo
	Categories *repository.CategoryRepo
}

func NewCatalogHandler(p *repository.ProductRepo, cat *repository.CategoryRepo) *CatalogHandler {
	if p == nil || cat == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Products: p, Categories: cat}
}

// priceBand translates a named price band into a cents range. The zero
// bounds mean unbounded on that side.
func priceBand(name string) (minCents, maxCents int64, ok bool) {
	switch name {
	case "under25":
		return 0, 2500, true
	case "25to50":
		return 2500, 5000, true
	case "50to100":
		return 5000, 10000, true
	case "over100":
		return 10000, 0, true
	}
	return 0, 0, false
}

// ListCategories handles GET /v1/categories.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	cats, err := h.Categories.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load categories failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": cats})
}

// Browse handles GET /v1/products. Supported query parameters:
//
//	category_id — numeric category filter
//	price_band  — under25 | 25to50 | 50to100 | over100
//	min_cents, max_cents — explicit range, overrides price_band
//	q           — substring match against title and description
//
// Only available listings are returned, newest first.
func (h *CatalogHandler) Browse(c echo.Context) error {
	var f repository.BrowseFilter

	if raw := c.QueryParam("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category_id"})
		}
		f.CategoryID = id
	}
	if band := c.QueryParam("price_band"); band != "" {
		minC, maxC, ok := priceBand(band)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price_band"})
		}
		f.MinPriceCents = minC
		f.MaxPriceCents = maxC
	}
	if raw := c.QueryParam("min_cents"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_cents"})
		}
		f.MinPriceCents = n
	}
	if raw := c.QueryParam("max_cents"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid max_cents"})
		}
		f.MaxPriceCents = n
	}
	f.Search = strings.TrimSpace(c.QueryParam("q"))

	items, err := h.Products.Browse(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "browse failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// GetProduct handles GET /v1/products/:id and returns the listing with
// seller and category names joined in.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	item, err := h.Products.GetDetail(c.Request().Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load product failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": item})
}

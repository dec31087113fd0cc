package fakeapi

import (
	"fmt"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/catalogo/storefront-client/internal/core/domain"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type catalogHandler struct {
	store     *Store
	maxUpload int64
}

type productRequest struct {
	Name        string  `json:"name"        validate:"required,min=2"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"gt=0"`
	Stock       int     `json:"stock"       validate:"gte=0"`
	CategoryID  int64   `json:"categoryId"  validate:"required"`
	Active      bool    `json:"active"`
}

type categoryRequest struct {
	Name        string `json:"name"        validate:"required,min=2"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// ── Products ──────────────────────────────────────────────────────────────────

func (h *catalogHandler) ListProducts(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Products(nil))
}

func (h *catalogHandler) SearchProducts(c echo.Context) error {
	term := strings.ToLower(strings.TrimSpace(c.QueryParam("name")))
	return c.JSON(http.StatusOK, h.store.Products(func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), term)
	}))
}

func (h *catalogHandler) ProductsByCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if _, err := h.store.Category(id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.store.Products(func(p domain.Product) bool { return p.CategoryID == id }))
}

func (h *catalogHandler) GetProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, err := h.store.Product(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *catalogHandler) CreateProduct(c echo.Context) error {
	return h.saveProduct(c, 0, http.StatusCreated)
}

func (h *catalogHandler) UpdateProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	return h.saveProduct(c, id, http.StatusOK)
}

func (h *catalogHandler) saveProduct(c echo.Context, id int64, status int) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	p, err := h.store.SaveProduct(domain.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		Active:      req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(status, p)
}

func (h *catalogHandler) DeleteProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.store.DeleteProduct(id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *catalogHandler) UploadProductImage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if _, err := h.store.Product(id); err != nil {
		return err
	}
	url, err := h.receiveImage(c, "products", id)
	if err != nil {
		return err
	}
	p, err := h.store.SetProductImage(id, url)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// ── Categories ────────────────────────────────────────────────────────────────

func (h *catalogHandler) ListCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Categories())
}

func (h *catalogHandler) GetCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	cat, err := h.store.Category(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *catalogHandler) CreateCategory(c echo.Context) error {
	return h.saveCategory(c, 0, http.StatusCreated)
}

func (h *catalogHandler) UpdateCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	return h.saveCategory(c, id, http.StatusOK)
}

func (h *catalogHandler) saveCategory(c echo.Context, id int64, status int) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	cat, err := h.store.SaveCategory(domain.Category{ID: id, Name: req.Name, Description: req.Description, Active: req.Active})
	if err != nil {
		return err
	}
	return c.JSON(status, cat)
}

func (h *catalogHandler) DeleteCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.store.DeleteCategory(id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *catalogHandler) UploadCategoryImage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if _, err := h.store.Category(id); err != nil {
		return err
	}
	url, err := h.receiveImage(c, "categories", id)
	if err != nil {
		return err
	}
	cat, err := h.store.SetCategoryImage(id, url)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cat)
}

// receiveImage checks the multipart "file" part and returns the URL the
// image is served under. Only the metadata is kept.
func (h *catalogHandler) receiveImage(c echo.Context, collection string, id int64) (string, error) {
	req := c.Request()
	mediaType, _, err := mime.ParseMediaType(req.Header.Get(echo.HeaderContentType))
	if err != nil || mediaType != echo.MIMEMultipartForm {
		return "", echo.NewHTTPError(http.StatusUnsupportedMediaType, "Content type must be multipart/form-data")
	}
	if req.ContentLength > h.maxUpload+1<<20 {
		return "", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "File exceeds the maximum allowed size")
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if fh.Size > h.maxUpload {
		return "", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "File exceeds the maximum allowed size")
	}
	if !allowedImageTypes[strings.ToLower(fh.Header.Get(echo.HeaderContentType))] {
		return "", echo.NewHTTPError(http.StatusUnsupportedMediaType, "Only JPEG, PNG, GIF and WEBP images are allowed")
	}

	name := uuid.NewString() + strings.ToLower(path.Ext(fh.Filename))
	return fmt.Sprintf("/uploads/%s/%d/%s", collection, id, name), nil
}

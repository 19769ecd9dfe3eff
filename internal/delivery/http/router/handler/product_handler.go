package handler

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"voltcart/internal/delivery/http/response"
	"voltcart/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ProductHandler holds dependencies for catalog handlers.
type ProductHandler struct {
	uc     usecase.ProductUsecase
	logger *slog.Logger
}

// NewProductHandler is the constructor for ProductHandler, injected by Fx.
func NewProductHandler(uc usecase.ProductUsecase, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, logger: logger}
}

// imageFromForm reads the optional "image" part of a multipart form.
// The caller owns the returned closer.
func imageFromForm(c echo.Context) (*usecase.ImageUpload, multipart.File, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		// Image is optional, a missing part is not an error.
		return nil, nil, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open uploaded image")
	}

	return &usecase.ImageUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Reader:      file,
	}, file, nil
}

// Create adds a product to the catalog. Admin only. Expects a multipart
// form with the product fields and an optional "image" file part.
func (h *ProductHandler) Create(c echo.Context) error {
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid price")
	}

	stock, err := strconv.Atoi(c.FormValue("stock"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid stock")
	}

	input := &usecase.CreateProductInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Price:       price,
		Stock:       stock,
	}

	image, file, err := imageFromForm(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Could not read image file")
	}
	if file != nil {
		defer file.Close()
	}
	input.Image = image

	product, err := h.uc.Create(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, product, "Product created successfully")
}

// Update modifies a product. Admin only. Form fields left empty keep the
// stored value.
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	input := &usecase.UpdateProductInput{}
	if v := c.FormValue("name"); v != "" {
		input.Name = &v
	}
	if v := c.FormValue("description"); v != "" {
		input.Description = &v
	}
	if v := c.FormValue("category"); v != "" {
		input.Category = &v
	}
	if v := c.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid price")
		}
		input.Price = &price
	}
	if v := c.FormValue("stock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid stock")
		}
		input.Stock = &stock
	}

	image, file, err := imageFromForm(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Could not read image file")
	}
	if file != nil {
		defer file.Close()
	}
	input.Image = image

	product, err := h.uc.Update(c.Request().Context(), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Product updated successfully")
}

// Delete removes a product from the catalog. Admin only.
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Product deleted successfully")
}

// GetByID returns a single product.
func (h *ProductHandler) GetByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	product, err := h.uc.GetByID(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Product retrieved successfully")
}

// GetAll returns the full catalog without pagination.
func (h *ProductHandler) GetAll(c echo.Context) error {
	products, err := h.uc.GetAll(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, products, "Products retrieved successfully")
}

// ListByCategory returns one page of a category listing together with the
// aggregated ratings for the page's products.
func (h *ProductHandler) ListByCategory(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	output, err := h.uc.ListByCategory(c.Request().Context(), &usecase.ListByCategoryInput{
		Category: c.Param("category"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Products retrieved successfully")
}

package handlers

import (
	"burningbros/internal/apperror"
	"burningbros/internal/middleware"
	"burningbros/internal/models"
	"burningbros/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes. Writes go through auth.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/search", h.HandleSearchProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Post("/", auth, h.HandleCreateProduct)
	productRoutes.Post("/:id/like", auth, h.HandleToggleLike)
}

// pageResponse is the body of listing and search replies.
type pageResponse struct {
	Data    []ProductView `json:"data"`
	Total   int64         `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}

// HandleCreateProduct creates a new product.
// @Summary Create product
// @Tags Products
// @Accept json
// @Produce json
// @Security Bearer
// @Param product body models.CreateProductInput true "Bilingual product"
// @Success 201 {object} map[string]interface{} "Created product under data"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /products [post]
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input models.CreateProductInput
	if err := decodeJSON(c, &input); err != nil {
		return err
	}

	product, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": product,
	})
}

// HandleGetProducts returns one page of products in the request language.
// @Summary List products
// @Tags Products
// @Produce json
// @Param page query int true "Page number, from 1"
// @Param per_page query int true "Page size, 1 to 100"
// @Param Accept-Language header string false "en or vi"
// @Success 200 {object} pageResponse
// @Failure 400 {object} ErrorResponse
// @Router /products [get]
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	var q PageQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}

	page, err := h.service.GetProducts(c.UserContext(), q.Page, q.PerPage)
	if err != nil {
		return err
	}

	return c.JSON(pageResponse{
		Data:    translateProducts(page.Products, middleware.CurrentLanguage(c)),
		Total:   page.Total,
		Page:    q.Page,
		PerPage: q.PerPage,
	})
}

// HandleSearchProducts searches product names in the request language.
// @Summary Search products by name
// @Tags Products
// @Produce json
// @Param q query string true "Case-insensitive name fragment"
// @Param page query int true "Page number, from 1"
// @Param per_page query int true "Page size, 1 to 100"
// @Param Accept-Language header string false "en or vi"
// @Success 200 {object} pageResponse
// @Failure 400 {object} ErrorResponse
// @Router /products/search [get]
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	var q SearchQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}

	lang := middleware.CurrentLanguage(c)
	page, err := h.service.SearchByName(c.UserContext(), q.Page, q.PerPage, q.Q, lang)
	if err != nil {
		return err
	}

	return c.JSON(pageResponse{
		Data:    translateProducts(page.Products, lang),
		Total:   page.Total,
		Page:    q.Page,
		PerPage: q.PerPage,
	})
}

// HandleGetProduct returns a single product in the request language.
// @Summary Get product
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]interface{} "Product view under data"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": translateProduct(product, middleware.CurrentLanguage(c)),
	})
}

// HandleToggleLike likes the product for the current user, or removes the
// like when it already exists.
// @Summary Toggle like
// @Tags Products
// @Produce json
// @Security Bearer
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]interface{} "Updated product view under data"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /products/{id}/like [post]
func (h *ProductHandler) HandleToggleLike(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return apperror.New(apperror.CodeAuthenticationRequired)
	}

	product, err := h.service.ToggleLike(c.UserContext(), c.Params("id"), *user)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": translateProduct(product, middleware.CurrentLanguage(c)),
	})
}

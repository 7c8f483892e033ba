package handlers

import (
	"errors"
	"strconv"

	"catalog/internal/middleware"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	msgProductNotFound = "Producto no encontrado"
	msgProductDeleted  = "Producto eliminado"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes binds the product routes to router. Each route runs its
// validation rules before the handler.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	validID := middleware.ValidateRequest(validation.ProductIDRules()...)

	router.Get("/", h.HandleGetProducts)
	router.Get("/:id", validID, h.HandleGetProductByID)
	router.Post("/", middleware.ValidateRequest(validation.CreateProductRules()...), h.HandleCreateProduct)
	router.Put("/:id", middleware.ValidateRequest(validation.UpdateProductRules()...), h.HandleUpdateProduct)
	router.Patch("/:id", validID, h.HandleUpdateAvailability)
	router.Delete("/:id", validID, h.HandleDeleteProduct)
}

// HandleGetProducts lists every product, highest ID first.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": products})
}

// HandleGetProductByID returns a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, id, err)
	}
	return c.JSON(fiber.Map{"data": product})
}

// HandleCreateProduct creates a product from the validated body.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	body := middleware.Body(c)
	price, _ := validation.ToDecimal(body["price"])

	// availability is optional on create and defaults to true.
	availability := true
	if value, ok := body["availability"]; ok && validation.IsBoolean(value, value != nil) {
		availability = validation.ToBool(value)
	}

	product, err := h.service.CreateProduct(c.UserContext(), services.ProductInput{
		Name:         validation.Stringify(body["name"]),
		Price:        price,
		Availability: availability,
	})
	if err != nil {
		return err
	}

	h.logger.Info("product created",
		zap.Uint("product_id", product.ID),
		zap.String("request_id", middleware.RequestID(c)),
	)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": product})
}

// HandleUpdateProduct overwrites name, price and availability.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	body := middleware.Body(c)
	price, _ := validation.ToDecimal(body["price"])
	input := services.ProductInput{
		Name:         validation.Stringify(body["name"]),
		Price:        price,
		Availability: validation.ToBool(body["availability"]),
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, input)
	if err != nil {
		return h.respondError(c, id, err)
	}
	return c.JSON(fiber.Map{"data": product})
}

// HandleUpdateAvailability flips the availability flag.
func (h *ProductHandler) HandleUpdateAvailability(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	product, err := h.service.ToggleAvailability(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, id, err)
	}
	return c.JSON(fiber.Map{"data": product})
}

// HandleDeleteProduct removes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return h.respondError(c, id, err)
	}

	h.logger.Info("product deleted",
		zap.Uint("product_id", id),
		zap.String("request_id", middleware.RequestID(c)),
	)
	return c.JSON(fiber.Map{"data": msgProductDeleted})
}

// respondError answers 404 for unknown products and hands anything else to the
// app error handler.
func (h *ProductHandler) respondError(c *fiber.Ctx, id uint, err error) error {
	if errors.Is(err, repositories.ErrProductNotFound) {
		h.logger.Debug("product not found",
			zap.Uint("product_id", id),
			zap.String("request_id", middleware.RequestID(c)),
		)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msgProductNotFound})
	}
	return err
}

// productID parses the :id parameter already checked by ProductIDRules.
// No row has a non-positive ID, so negative values are looked up as 0.
func productID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		// Valid integer, but no row can carry it.
		return 0, nil
	}
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, validation.MsgInvalidID)
	}
	if id < 0 {
		id = 0
	}
	return uint(id), nil
}

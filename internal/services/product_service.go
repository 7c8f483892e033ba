package services

import (
	"context"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EventPublisher publishes product change events.
type EventPublisher interface {
	PublishProductEvent(event models.ProductEvent) error
}

// ProductInput carries the writable fields of a product.
type ProductInput struct {
	Name         string
	Price        decimal.Decimal
	Availability bool
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher // optional
	logger    *zap.Logger
}

// NewProductService creates a new ProductService. publisher may be nil.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, logger *zap.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// GetAllProducts retrieves all products, newest first.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.FindAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateProduct stores a new product from input.
func (s *ProductService) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:         input.Name,
		Price:        input.Price,
		Availability: input.Availability,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.publish(models.ProductCreated, product)
	return product, nil
}

// UpdateProduct overwrites name, price and availability of an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, input ProductInput) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Price = input.Price
	product.Availability = input.Availability
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.publish(models.ProductUpdated, product)
	return product, nil
}

// ToggleAvailability flips the availability of an existing product.
func (s *ProductService) ToggleAvailability(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Availability = !product.Availability
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.publish(models.ProductAvailabilityToggled, product)
	return product, nil
}

// DeleteProduct removes an existing product.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, product.ID); err != nil {
		return err
	}
	s.publish(models.ProductDeleted, product)
	return nil
}

// publish sends an event for a completed write. Failures are logged only.
func (s *ProductService) publish(eventType string, product *models.Product) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishProductEvent(models.NewProductEvent(eventType, product)); err != nil {
		s.logger.Warn("failed to publish product event",
			zap.String("type", eventType),
			zap.Uint("product_id", product.ID),
			zap.Error(err),
		)
	}
}

package services_test

import (
	"context"
	"fmt"
	"testing"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishProductEvent(event models.ProductEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(e models.ProductEvent) bool { return e.Type == eventType })
}

var notFound = fmt.Errorf("product with ID 99: %w", repositories.ErrProductNotFound)

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, zap.NewNop())
	ctx := context.Background()

	expectedProducts := []models.Product{
		{ID: 2, Name: "Product B", Price: decimal.NewFromInt(20), Availability: true},
		{ID: 1, Name: "Product A", Price: decimal.NewFromInt(10), Availability: true},
	}
	mockRepo.On("FindAll", ctx).Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts(ctx)

	assert.NoError(t, err)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, zap.NewNop())
	ctx := context.Background()

	expectedProduct := &models.Product{ID: 1, Name: "Product A", Price: decimal.NewFromInt(10)}

	// Test successful retrieval
	mockRepo.On("FindByID", ctx, uint(1)).Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)

	// Test product not found
	mockRepo.On("FindByID", ctx, uint(99)).Return(nil, notFound).Once()
	product, err = service.GetProductByID(ctx, 99)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	publisher := new(MockPublisher)
	service := services.NewProductService(mockRepo, publisher, zap.NewNop())
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Product")).
		Run(func(args mock.Arguments) { args.Get(1).(*models.Product).ID = 5 }).
		Return(nil).Once()
	publisher.On("PublishProductEvent", eventOfType(models.ProductCreated)).Return(nil).Once()

	product, err := service.CreateProduct(ctx, services.ProductInput{Name: "Mouse", Price: decimal.NewFromInt(50), Availability: true})
	require.NoError(t, err)
	assert.Equal(t, uint(5), product.ID)
	assert.True(t, product.Availability)

	mockRepo.On("Create", ctx, mock.MatchedBy(func(p *models.Product) bool { return !p.Availability })).Return(nil).Once()
	publisher.On("PublishProductEvent", eventOfType(models.ProductCreated)).Return(nil).Once()
	product, err = service.CreateProduct(ctx, services.ProductInput{Name: "Mouse", Price: decimal.NewFromInt(50)})
	require.NoError(t, err)
	assert.False(t, product.Availability)

	// Test creation failure (e.g., database error)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Product")).Return(fmt.Errorf("database error")).Once()
	product, err = service.CreateProduct(ctx, services.ProductInput{Name: "Mouse", Price: decimal.NewFromInt(50), Availability: true})
	assert.Nil(t, product)
	assert.Contains(t, err.Error(), "database error")

	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	publisher := new(MockPublisher)
	service := services.NewProductService(mockRepo, publisher, zap.NewNop())
	ctx := context.Background()

	existing := &models.Product{ID: 1, Name: "Monitor", Price: decimal.NewFromInt(300), Availability: true}
	mockRepo.On("FindByID", ctx, uint(1)).Return(existing, nil).Once()
	mockRepo.On("Update", ctx, existing).Return(nil).Once()
	publisher.On("PublishProductEvent", eventOfType(models.ProductUpdated)).Return(nil).Once()

	product, err := service.UpdateProduct(ctx, 1, services.ProductInput{
		Name:         "Monitor curvo",
		Price:        decimal.NewFromInt(250),
		Availability: false,
	})
	require.NoError(t, err)
	assert.Equal(t, "Monitor curvo", product.Name)
	assert.True(t, decimal.NewFromInt(250).Equal(product.Price))
	assert.False(t, product.Availability)

	// Missing product never reaches Update
	mockRepo.On("FindByID", ctx, uint(99)).Return(nil, notFound).Once()
	_, err = service.UpdateProduct(ctx, 99, services.ProductInput{Name: "x", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestProductService_ToggleAvailability(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, zap.NewNop())
	ctx := context.Background()

	existing := &models.Product{ID: 1, Name: "Monitor", Price: decimal.NewFromInt(300), Availability: true}
	mockRepo.On("FindByID", ctx, uint(1)).Return(existing, nil).Twice()
	mockRepo.On("Update", ctx, existing).Return(nil).Twice()

	product, err := service.ToggleAvailability(ctx, 1)
	require.NoError(t, err)
	assert.False(t, product.Availability)

	product, err = service.ToggleAvailability(ctx, 1)
	require.NoError(t, err)
	assert.True(t, product.Availability)

	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	publisher := new(MockPublisher)
	service := services.NewProductService(mockRepo, publisher, zap.NewNop())
	ctx := context.Background()

	existing := &models.Product{ID: 1, Name: "Monitor", Price: decimal.NewFromInt(300)}
	mockRepo.On("FindByID", ctx, uint(1)).Return(existing, nil).Once()
	mockRepo.On("Delete", ctx, uint(1)).Return(nil).Once()
	publisher.On("PublishProductEvent", mock.MatchedBy(func(e models.ProductEvent) bool {
		return e.Type == models.ProductDeleted && e.ProductID == 1 && e.Product == nil
	})).Return(nil).Once()

	assert.NoError(t, service.DeleteProduct(ctx, 1))

	// Row removed between the lookup and the delete
	mockRepo.On("FindByID", ctx, uint(2)).Return(&models.Product{ID: 2}, nil).Once()
	mockRepo.On("Delete", ctx, uint(2)).Return(fmt.Errorf("product with ID 2 for deletion: %w", repositories.ErrProductNotFound)).Once()
	assert.ErrorIs(t, service.DeleteProduct(ctx, 2), repositories.ErrProductNotFound)

	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestProductService_PublishFailureIsNotReturned(t *testing.T) {
	mockRepo := new(MockProductRepository)
	publisher := new(MockPublisher)
	service := services.NewProductService(mockRepo, publisher, zap.NewNop())
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Product")).Return(nil).Once()
	publisher.On("PublishProductEvent", mock.Anything).Return(fmt.Errorf("channel closed")).Once()

	product, err := service.CreateProduct(ctx, services.ProductInput{Name: "Mouse", Price: decimal.NewFromInt(50), Availability: true})
	assert.NoError(t, err)
	assert.NotNil(t, product)
	publisher.AssertExpectations(t)
}

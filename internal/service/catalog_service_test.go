package service

import (
	"context"
	"testing"

	"bakehouse/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context, category string, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, category, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetFeatured(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) InsertMany(ctx context.Context, products []model.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

func TestCatalogService_GetAll_ClampsLimit(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		offset    int
		wantLimit int
		wantSkip  int
	}{
		{"defaults applied", 0, 0, 20, 0},
		{"negative offset clamped", 10, -5, 10, 0},
		{"oversized limit clamped", 500, 40, 20, 40},
		{"valid passthrough", 50, 100, 50, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockProductRepository)
			repo.On("GetAll", mock.Anything, "bread", tt.wantLimit, tt.wantSkip).
				Return([]model.Product{sourdough()}, nil)
			svc := NewCatalogService(repo, zerolog.Nop())

			products, err := svc.GetAll(context.Background(), "bread", tt.limit, tt.offset)
			require.NoError(t, err)
			assert.Len(t, products, 1)
			repo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_Resolve(t *testing.T) {
	product := croissant()

	repo := new(MockProductRepository)
	repo.On("GetByID", mock.Anything, "P-CROISSANT").Return(&product, nil)
	svc := NewCatalogService(repo, zerolog.Nop())

	snapshot, err := svc.Resolve(context.Background(), "P-CROISSANT")
	require.NoError(t, err)
	assert.Equal(t, "P-CROISSANT", snapshot.ProductID)
	assert.Equal(t, "Butter Croissant", snapshot.Name)
	assert.InDelta(t, 3.50, snapshot.Price, 1e-9)
	assert.Equal(t, "/img/croissant.jpg", snapshot.Image)
}

func TestCatalogService_Resolve_NotFound(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, nil)
	svc := NewCatalogService(repo, zerolog.Nop())

	_, err := svc.Resolve(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestCatalogService_ResolveMany_OmitsMissing(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("GetByIDs", mock.Anything, []string{"P-CROISSANT", "missing"}).
		Return([]model.Product{croissant()}, nil)
	svc := NewCatalogService(repo, zerolog.Nop())

	snapshots, err := svc.ResolveMany(context.Background(), []string{"P-CROISSANT", "missing"})
	require.NoError(t, err)
	assert.Len(t, snapshots, 1)
	assert.Contains(t, snapshots, "P-CROISSANT")
	assert.NotContains(t, snapshots, "missing")
}

func TestCatalogService_GetFeatured(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("GetFeatured", mock.Anything).
		Return([]model.Product{croissant(), carrotCake()}, nil)
	svc := NewCatalogService(repo, zerolog.Nop())

	products, err := svc.GetFeatured(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

package productservice

import (
	"context"

	"github.com/GlebRadaev/ordermart/internal/domain"
	"go.uber.org/zap"
)

//go:generate mockgen -source=productservice.go -destination=mock_productservice.go -package=productservice

type Repo interface {
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateStock(ctx context.Context, id string, stock int64) (*domain.Product, error)
}

type Service struct {
	repo Repo
}

func New(repo Repo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) CreateProduct(ctx context.Context, name string, price, stock int64) (*domain.Product, error) {
	product, err := s.repo.Create(ctx, &domain.Product{Name: name, Price: price, Stock: stock})
	if err != nil {
		return nil, err
	}
	zap.L().Info("product created", zap.String("product_id", product.ID))
	return product, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) UpdateStock(ctx context.Context, id string, stock int64) (*domain.Product, error) {
	product, err := s.repo.UpdateStock(ctx, id, stock)
	if err != nil {
		return nil, err
	}
	zap.L().Info("product stock set", zap.String("product_id", id), zap.Int64("stock", stock))
	return product, nil
}

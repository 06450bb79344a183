package service

import (
	"context"
	"log/slog"

	"github.com/mkravtsov/checkout-service/internal/entities"
)

type ProductRepo interface {
	GetProductByID(ctx context.Context, productID string) (entities.Product, error)
	ListProducts(ctx context.Context) ([]entities.Product, error)
}

type productService struct {
	logger *slog.Logger
	repo   ProductRepo
}

func NewProductService(logger *slog.Logger, repo ProductRepo) *productService {
	return &productService{
		logger: logger.With(slog.String("service", "product")),
		repo:   repo,
	}
}

func (s *productService) GetProductByID(ctx context.Context, productID string) (entities.Product, error) {
	return s.repo.GetProductByID(ctx, productID)
}

func (s *productService) ListProducts(ctx context.Context) ([]entities.Product, error) {
	return s.repo.ListProducts(ctx)
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"edu-store/config"
	"edu-store/models"
	"edu-store/repositories"
)

const productCacheTTL = 5 * time.Minute

type ProductService struct {
	productRepo *repositories.ProductRepository
}

func NewProductService() *ProductService {
	return &ProductService{
		productRepo: repositories.NewProductRepository(),
	}
}

func (s *ProductService) GetAllCategories() ([]models.Category, error) {
	return s.productRepo.GetAllCategories()
}

func (s *ProductService) GetAllProducts(page, limit int) (*models.PaginationResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("products:%d:%d", page, limit)
	if config.RedisClient != nil {
		cached, err := config.RedisClient.Get(context.Background(), cacheKey).Result()
		if err == nil {
			var response models.PaginationResponse
			if json.Unmarshal([]byte(cached), &response) == nil {
				return &response, nil
			}
		}
	}

	products, total, err := s.productRepo.GetAllProducts(page, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	response := &models.PaginationResponse{
		Success: true,
		Message: "Products retrieved successfully",
		Data:    products,
		Meta: models.MetaData{
			Page:       page,
			Limit:      limit,
			TotalItems: total,
			TotalPages: totalPages,
		},
	}

	if config.RedisClient != nil {
		if data, err := json.Marshal(response); err == nil {
			config.RedisClient.Set(context.Background(), cacheKey, data, productCacheTTL)
		}
	}

	return response, nil
}

func (s *ProductService) GetProductByID(id int) (*models.Product, error) {
	return s.productRepo.GetProductByID(id)
}

func (s *ProductService) CreateProduct(req models.CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		Stock:       req.Stock,
		Avatar:      req.Avatar,
		Unit:        req.Unit,
		IsActive:    true,
	}

	if err := s.productRepo.CreateProduct(product); err != nil {
		return nil, err
	}
	s.invalidateCache()
	return product, nil
}

func (s *ProductService) UpdateProduct(id int, req models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.productRepo.GetProductByID(id)
	if err != nil {
		return nil, errors.New("product not found")
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.CategoryID > 0 {
		product.CategoryID = req.CategoryID
	}
	if req.Price > 0 {
		product.Price = req.Price
	}
	if req.Stock >= 0 {
		product.Stock = req.Stock
	}
	if req.Avatar != "" {
		product.Avatar = req.Avatar
	}
	if req.Unit != "" {
		product.Unit = req.Unit
	}
	product.IsActive = req.IsActive

	if err := s.productRepo.UpdateProduct(product); err != nil {
		return nil, err
	}
	s.invalidateCache()
	return product, nil
}

func (s *ProductService) DeleteProduct(id int) error {
	if err := s.productRepo.DeleteProduct(id); err != nil {
		return err
	}
	s.invalidateCache()
	return nil
}

func (s *ProductService) invalidateCache() {
	if config.RedisClient == nil {
		return
	}
	ctx := context.Background()
	iter := config.RedisClient.Scan(ctx, 0, "products:*", 0).Iterator()
	for iter.Next(ctx) {
		config.RedisClient.Del(ctx, iter.Val())
	}
}

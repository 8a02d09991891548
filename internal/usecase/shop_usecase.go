package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"shopapi/internal/domain/model"
	repo "shopapi/internal/repository"
)

type ShopUsecase struct {
	shopRepo repo.ShopRepository
}

func NewShopUsecase(shopRepo repo.ShopRepository) *ShopUsecase {
	return &ShopUsecase{shopRepo: shopRepo}
}

type ShopInput struct {
	Name        string
	Slug        string
	Description string
}

type ShopListOutput struct {
	Items []model.Shop `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

func (u *ShopUsecase) Create(ctx context.Context, ownerID uuid.UUID, in ShopInput) (model.Shop, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Shop{}, NewValidationError("name is required")
	}
	if strings.TrimSpace(in.Slug) == "" {
		return model.Shop{}, NewValidationError("slug is required")
	}

	s := model.Shop{
		OwnerID:     ownerID,
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
	}
	if err := u.shopRepo.Create(ctx, &s); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return model.Shop{}, NewConflictError("shop slug already in use")
		}
		return model.Shop{}, NewInternalError("db error")
	}
	return s, nil
}

func (u *ShopUsecase) Get(ctx context.Context, id uuid.UUID) (model.Shop, error) {
	s, err := u.shopRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Shop{}, NewNotFoundError("shop not found")
	}
	if err != nil {
		return model.Shop{}, NewInternalError("db error")
	}
	return s, nil
}

func (u *ShopUsecase) List(ctx context.Context, page int, limit int) (ShopListOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	shops, total, err := u.shopRepo.List(ctx, page, limit)
	if err != nil {
		return ShopListOutput{}, NewInternalError("db error")
	}

	return ShopListOutput{Items: shops, Total: total, Page: page, Limit: limit}, nil
}

func (u *ShopUsecase) Update(ctx context.Context, id uuid.UUID, in ShopInput) (model.Shop, error) {
	s, err := u.Get(ctx, id)
	if err != nil {
		return model.Shop{}, err
	}

	if in.Name != "" {
		s.Name = in.Name
	}
	if in.Slug != "" {
		s.Slug = in.Slug
	}
	if in.Description != "" {
		s.Description = in.Description
	}

	if err := u.shopRepo.Update(ctx, s); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return model.Shop{}, NewConflictError("shop slug already in use")
		}
		if errors.Is(err, repo.ErrNotFound) {
			return model.Shop{}, NewNotFoundError("shop not found")
		}
		return model.Shop{}, NewInternalError("db error")
	}
	return s, nil
}

func (u *ShopUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	err := u.shopRepo.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError("shop not found")
	}
	if err != nil {
		return NewInternalError("db error")
	}
	return nil
}

type CategoryUsecase struct {
	categoryRepo repo.CategoryRepository
}

func NewCategoryUsecase(categoryRepo repo.CategoryRepository) *CategoryUsecase {
	return &CategoryUsecase{categoryRepo: categoryRepo}
}

type CategoryInput struct {
	Name        string
	Slug        string
	Description string
}

func (u *CategoryUsecase) Create(ctx context.Context, in CategoryInput) (model.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Category{}, NewValidationError("name is required")
	}
	if strings.TrimSpace(in.Slug) == "" {
		return model.Category{}, NewValidationError("slug is required")
	}

	c := model.Category{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
	}
	if err := u.categoryRepo.Create(ctx, &c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return model.Category{}, NewConflictError("category slug already in use")
		}
		return model.Category{}, NewInternalError("db error")
	}
	return c, nil
}

func (u *CategoryUsecase) Get(ctx context.Context, id uuid.UUID) (model.Category, error) {
	c, err := u.categoryRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, NewNotFoundError("category not found")
	}
	if err != nil {
		return model.Category{}, NewInternalError("db error")
	}
	return c, nil
}

func (u *CategoryUsecase) List(ctx context.Context) ([]model.Category, error) {
	cats, err := u.categoryRepo.List(ctx)
	if err != nil {
		return nil, NewInternalError("db error")
	}
	return cats, nil
}

func (u *CategoryUsecase) Update(ctx context.Context, id uuid.UUID, in CategoryInput) (model.Category, error) {
	c, err := u.Get(ctx, id)
	if err != nil {
		return model.Category{}, err
	}

	if in.Name != "" {
		c.Name = in.Name
	}
	if in.Slug != "" {
		c.Slug = in.Slug
	}
	if in.Description != "" {
		c.Description = in.Description
	}

	if err := u.categoryRepo.Update(ctx, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return model.Category{}, NewConflictError("category slug already in use")
		}
		if errors.Is(err, repo.ErrNotFound) {
			return model.Category{}, NewNotFoundError("category not found")
		}
		return model.Category{}, NewInternalError("db error")
	}
	return c, nil
}

func (u *CategoryUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	err := u.categoryRepo.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError("category not found")
	}
	if err != nil {
		return NewInternalError("db error")
	}
	return nil
}

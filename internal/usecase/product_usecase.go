package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopapi/internal/domain/model"
	repo "shopapi/internal/repository"
)

type ProductUsecase struct {
	productRepo  repo.ProductRepository
	variantRepo  repo.VariantRepository
	galleryRepo  repo.GalleryRepository
	shopRepo     repo.ShopRepository
	categoryRepo repo.CategoryRepository
}

func NewProductUsecase(
	productRepo repo.ProductRepository,
	variantRepo repo.VariantRepository,
	galleryRepo repo.GalleryRepository,
	shopRepo repo.ShopRepository,
	categoryRepo repo.CategoryRepository,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:  productRepo,
		variantRepo:  variantRepo,
		galleryRepo:  galleryRepo,
		shopRepo:     shopRepo,
		categoryRepo: categoryRepo,
	}
}

type ProductInput struct {
	ShopID         uuid.UUID
	CategoryID     uuid.UUID
	Title          string
	Slug           string
	Description    string
	DiscountType   string
	DiscountAmount decimal.Decimal
	Status         string
}

type ListProductsInput struct {
	Page       int
	Limit      int
	Q          string
	CategoryID *uuid.UUID
	ShopID     *uuid.UUID
	Status     string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func validateDiscount(discountType string, amount decimal.Decimal) error {
	switch model.DiscountType(discountType) {
	case model.DiscountTypeNone, model.DiscountTypeFlat, model.DiscountTypePercentage:
	default:
		return NewValidationError("invalid discount_type")
	}
	if amount.IsNegative() {
		return NewValidationError("discount_amount must be >= 0")
	}
	return nil
}

func validateProductStatus(status string) error {
	switch model.ProductStatus(status) {
	case model.ProductStatusActive, model.ProductStatusInactive, model.ProductStatusOutOfStock:
		return nil
	}
	return NewValidationError("invalid status")
}

func (u *ProductUsecase) Create(ctx context.Context, in ProductInput) (model.Product, error) {
	if strings.TrimSpace(in.Title) == "" {
		return model.Product{}, NewValidationError("title is required")
	}
	if strings.TrimSpace(in.Slug) == "" {
		return model.Product{}, NewValidationError("slug is required")
	}
	if err := validateDiscount(in.DiscountType, in.DiscountAmount); err != nil {
		return model.Product{}, err
	}
	if in.Status == "" {
		in.Status = string(model.ProductStatusActive)
	}
	if err := validateProductStatus(in.Status); err != nil {
		return model.Product{}, err
	}

	if _, err := u.shopRepo.FindByID(ctx, in.ShopID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewNotFoundError("shop not found")
		}
		return model.Product{}, NewInternalError("db error")
	}
	if _, err := u.categoryRepo.FindByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewNotFoundError("category not found")
		}
		return model.Product{}, NewInternalError("db error")
	}

	// discount_typeが無いならamountは常に0
	amount := in.DiscountAmount
	if model.DiscountType(in.DiscountType) == model.DiscountTypeNone {
		amount = decimal.Zero
	}

	p := model.Product{
		ShopID:         in.ShopID,
		CategoryID:     in.CategoryID,
		Title:          in.Title,
		Slug:           in.Slug,
		Description:    in.Description,
		DiscountType:   model.DiscountType(in.DiscountType),
		DiscountAmount: amount,
		Status:         model.ProductStatus(in.Status),
	}
	if err := u.productRepo.Create(ctx, &p); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return model.Product{}, NewConflictError("product slug already in use")
		}
		return model.Product{}, NewInternalError("db error")
	}
	return p, nil
}

func (u *ProductUsecase) List(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 || in.Limit > 100 {
		in.Limit = 20
	}
	if in.Status != "" {
		if err := validateProductStatus(in.Status); err != nil {
			return ProductListOutput{}, err
		}
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:       in.Page,
		Limit:      in.Limit,
		Q:          strings.TrimSpace(in.Q),
		CategoryID: in.CategoryID,
		ShopID:     in.ShopID,
		Status:     in.Status,
	})
	if err != nil {
		return ProductListOutput{}, NewInternalError("db error")
	}

	return ProductListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

// GetDetailはバリアントとギャラリー込み。
func (u *ProductUsecase) GetDetail(ctx context.Context, id uuid.UUID) (model.Product, error) {
	p, err := u.productRepo.FindByIDWithDetails(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewNotFoundError("product not found")
	}
	if err != nil {
		return model.Product{}, NewInternalError("db error")
	}
	return p, nil
}

func (u *ProductUsecase) Update(ctx context.Context, id uuid.UUID, in ProductInput) (model.Product, error) {
	p, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewNotFoundError("product not found")
	}
	if err != nil {
		return model.Product{}, NewInternalError("db error")
	}

	if in.Title != "" {
		p.Title = in.Title
	}
	if in.Slug != "" {
		p.Slug = in.Slug
	}
	if in.Description != "" {
		p.Description = in.Description
	}
	if in.CategoryID != uuid.Nil {
		p.CategoryID = in.CategoryID
	}
	if in.DiscountType != "" || !in.DiscountAmount.IsZero() {
		if err := validateDiscount(in.DiscountType, in.DiscountAmount); err != nil {
			return model.Product{}, err
		}
		p.DiscountType = model.DiscountType(in.DiscountType)
		p.DiscountAmount = in.DiscountAmount
		if p.DiscountType == model.DiscountTypeNone {
			p.DiscountAmount = decimal.Zero
		}
	}
	if in.Status != "" {
		if err := validateProductStatus(in.Status); err != nil {
			return model.Product{}, err
		}
		p.Status = model.ProductStatus(in.Status)
	}

	if err := u.productRepo.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return model.Product{}, NewConflictError("product slug already in use")
		}
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewNotFoundError("product not found")
		}
		return model.Product{}, NewInternalError("db error")
	}
	return p, nil
}

// Deleteは商品ごとバリアント・ギャラリーも消す。
func (u *ProductUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	err := u.productRepo.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError("product not found")
	}
	if err != nil {
		return NewInternalError("db error")
	}
	return nil
}

type VariantInput struct {
	Label     string
	Quantity  int64
	BasePrice decimal.Decimal
}

func (u *ProductUsecase) AddVariant(ctx context.Context, productID uuid.UUID, in VariantInput) (model.ProductVariant, error) {
	if strings.TrimSpace(in.Label) == "" {
		return model.ProductVariant{}, NewValidationError("label is required")
	}
	if in.Quantity < 0 {
		return model.ProductVariant{}, NewValidationError("quantity must be >= 0")
	}
	if in.BasePrice.IsNegative() {
		return model.ProductVariant{}, NewValidationError("base_price must be >= 0")
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.ProductVariant{}, NewNotFoundError("product not found")
		}
		return model.ProductVariant{}, NewInternalError("db error")
	}

	v := model.ProductVariant{
		ProductID: productID,
		Label:     in.Label,
		Quantity:  in.Quantity,
		BasePrice: in.BasePrice,
	}
	if err := u.variantRepo.Create(ctx, &v); err != nil {
		return model.ProductVariant{}, NewInternalError("db error")
	}
	return v, nil
}

func (u *ProductUsecase) UpdateVariant(ctx context.Context, variantID uuid.UUID, in VariantInput) (model.ProductVariant, error) {
	v, err := u.variantRepo.FindByID(ctx, variantID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.ProductVariant{}, NewNotFoundError("variant not found")
	}
	if err != nil {
		return model.ProductVariant{}, NewInternalError("db error")
	}

	if in.Label != "" {
		v.Label = in.Label
	}
	if in.Quantity >= 0 {
		v.Quantity = in.Quantity
	}
	if !in.BasePrice.IsNegative() {
		v.BasePrice = in.BasePrice
	}

	if err := u.variantRepo.Update(ctx, v); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.ProductVariant{}, NewNotFoundError("variant not found")
		}
		return model.ProductVariant{}, NewInternalError("db error")
	}
	return v, nil
}

func (u *ProductUsecase) DeleteVariant(ctx context.Context, variantID uuid.UUID) error {
	err := u.variantRepo.Delete(ctx, variantID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError("variant not found")
	}
	if err != nil {
		return NewInternalError("db error")
	}
	return nil
}

// AddGalleryImagesは画像URLをまとめて登録する。
// アップロード自体は外部の責務で、ここはURLを受けるだけ。
func (u *ProductUsecase) AddGalleryImages(ctx context.Context, productID uuid.UUID, urls []string) ([]model.ProductGallery, error) {
	if len(urls) == 0 {
		return nil, NewValidationError("at least one image url is required")
	}
	for _, url := range urls {
		if strings.TrimSpace(url) == "" {
			return nil, NewValidationError("image url must not be empty")
		}
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFoundError("product not found")
		}
		return nil, NewInternalError("db error")
	}

	existing, err := u.galleryRepo.ListByProductID(ctx, productID)
	if err != nil {
		return nil, NewInternalError("db error")
	}

	images := make([]model.ProductGallery, 0, len(urls))
	for i, url := range urls {
		images = append(images, model.ProductGallery{
			ProductID: productID,
			ImageURL:  url,
			SortOrder: len(existing) + i,
		})
	}
	if err := u.galleryRepo.CreateBulk(ctx, images); err != nil {
		return nil, NewInternalError("db error")
	}
	return images, nil
}

func (u *ProductUsecase) DeleteGalleryImage(ctx context.Context, imageID uuid.UUID) error {
	err := u.galleryRepo.Delete(ctx, imageID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError("gallery image not found")
	}
	if err != nil {
		return NewInternalError("db error")
	}
	return nil
}

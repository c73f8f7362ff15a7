package product

import "github.com/shopspring/decimal"

type ProductDTO struct {
	Name          string          `json:"name" validate:"required,max=150"`
	SKU           *string         `json:"sku" validate:"omitempty,max=64"`
	Description   string          `json:"description" validate:"max=1000"`
	CategoryID    *int64          `json:"categoryId" validate:"omitempty,gt=0"`
	TaxCategoryID *int64          `json:"taxCategoryId" validate:"omitempty,gt=0"`
	Price         decimal.Decimal `json:"price" validate:"gte=0"`
	Cost          decimal.Decimal `json:"cost" validate:"gte=0"`
	ImageURL      string          `json:"imageUrl" validate:"max=255"`
	IsActive      *bool           `json:"isActive"`
	Variants      []VariantDTO    `json:"variants" validate:"dive"`
	Stores        []StoreLinkDTO  `json:"stores" validate:"dive"`
	ModifierIDs   []int64         `json:"modifierIds" validate:"dive,gt=0"`
}

// VariantDTO.ID is set when updating an existing variant and zero for new ones.
type VariantDTO struct {
	ID    int64           `json:"id" validate:"gte=0"`
	Name  string          `json:"name" validate:"required,max=100"`
	SKU   *string         `json:"sku" validate:"omitempty,max=64"`
	Price decimal.Decimal `json:"price" validate:"gte=0"`
	Cost  decimal.Decimal `json:"cost" validate:"gte=0"`
}

type StoreLinkDTO struct {
	StoreID       int64            `json:"storeId" validate:"required,gt=0"`
	IsAvailable   *bool            `json:"isAvailable"`
	PriceOverride *decimal.Decimal `json:"priceOverride"`
}

type ModifierDTO struct {
	Name  string          `json:"name" validate:"required,max=100"`
	Price decimal.Decimal `json:"price" validate:"gte=0"`
}

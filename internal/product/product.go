package product

import (
	"time"

	productDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/product"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	SKU           *string         `json:"sku"`
	Description   string          `json:"description"`
	CategoryID    *int64          `json:"categoryId"`
	TaxCategoryID *int64          `json:"taxCategoryId"`
	Price         decimal.Decimal `json:"price"`
	Cost          decimal.Decimal `json:"cost"`
	ImageURL      string          `json:"imageUrl"`
	IsActive      bool            `json:"isActive"`
	Variants      []Variant       `json:"variants"`
	Stores        []StoreLink     `json:"stores"`
	ModifierIDs   []int64         `json:"modifierIds"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type Variant struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	SKU   *string         `json:"sku"`
	Price decimal.Decimal `json:"price"`
	Cost  decimal.Decimal `json:"cost"`
}

// StoreLink marks where a product is sold; PriceOverride replaces Price in that store.
type StoreLink struct {
	StoreID       int64            `json:"storeId"`
	IsAvailable   bool             `json:"isAvailable"`
	PriceOverride *decimal.Decimal `json:"priceOverride"`
}

type Modifier struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type ListFilter struct {
	CategoryID      *int64
	StoreID         *int64
	Search          string
	IncludeInactive bool
}

// PriceIn returns the selling price in storeID, honouring a store override.
func (p *Product) PriceIn(storeID int64) decimal.Decimal {
	for _, s := range p.Stores {
		if s.StoreID == storeID && s.PriceOverride != nil {
			return *s.PriceOverride
		}
	}
	return p.Price
}

func (p *Product) Variant(id int64) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

func ToDataModel(p *Product) *productDatamodel.Product {
	row := &productDatamodel.Product{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		TaxCategoryID: p.TaxCategoryID,
		Price:         p.Price,
		Cost:          p.Cost,
		ImageURL:      p.ImageURL,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	for _, v := range p.Variants {
		row.Variants = append(row.Variants, productDatamodel.Variant{
			ID:        v.ID,
			ProductID: p.ID,
			Name:      v.Name,
			SKU:       v.SKU,
			Price:     v.Price,
			Cost:      v.Cost,
		})
	}
	for _, s := range p.Stores {
		link := productDatamodel.ProductStore{ProductID: p.ID, StoreID: s.StoreID, IsAvailable: s.IsAvailable}
		if s.PriceOverride != nil {
			link.PriceOverride = decimal.NewNullDecimal(*s.PriceOverride)
		}
		row.Stores = append(row.Stores, link)
	}
	for _, id := range p.ModifierIDs {
		row.Modifiers = append(row.Modifiers, productDatamodel.ProductModifier{ProductID: p.ID, ModifierID: id})
	}
	return row
}

func FromDataModel(p *productDatamodel.Product) *Product {
	out := &Product{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		TaxCategoryID: p.TaxCategoryID,
		Price:         p.Price,
		Cost:          p.Cost,
		ImageURL:      p.ImageURL,
		IsActive:      p.IsActive,
		Variants:      make([]Variant, 0, len(p.Variants)),
		Stores:        make([]StoreLink, 0, len(p.Stores)),
		ModifierIDs:   make([]int64, 0, len(p.Modifiers)),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	for _, v := range p.Variants {
		out.Variants = append(out.Variants, Variant{ID: v.ID, Name: v.Name, SKU: v.SKU, Price: v.Price, Cost: v.Cost})
	}
	for _, s := range p.Stores {
		link := StoreLink{StoreID: s.StoreID, IsAvailable: s.IsAvailable}
		if s.PriceOverride.Valid {
			override := s.PriceOverride.Decimal
			link.PriceOverride = &override
		}
		out.Stores = append(out.Stores, link)
	}
	for _, m := range p.Modifiers {
		out.ModifierIDs = append(out.ModifierIDs, m.ModifierID)
	}
	return out
}

func ModifierFromDataModel(m *productDatamodel.Modifier) *Modifier {
	return &Modifier{
		ID:        m.ID,
		Name:      m.Name,
		Price:     m.Price,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

package product

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/pos-backoffice/internal"
	"github.com/frahmantamala/pos-backoffice/internal/core/common/validation"
	productDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/product"
)

// RepositoryAPI writes a product and all of its variants and links in one transaction.
// GetByIDs silently skips ids that do not exist.
type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*productDatamodel.Product, error)
	GetByID(ctx context.Context, id int64) (*productDatamodel.Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*productDatamodel.Product, error)
	Create(ctx context.Context, p *productDatamodel.Product) error
	Update(ctx context.Context, p *productDatamodel.Product) error
	Deactivate(ctx context.Context, id int64) error

	ListModifiers(ctx context.Context, includeInactive bool) ([]*productDatamodel.Modifier, error)
	GetModifier(ctx context.Context, id int64) (*productDatamodel.Modifier, error)
	CreateModifier(ctx context.Context, m *productDatamodel.Modifier) error
	DeactivateModifier(ctx context.Context, id int64) error
}

// CategoryChecker is satisfied by *category.Service.
type CategoryChecker interface {
	IsValidCategory(ctx context.Context, id int64) bool
}

var (
	ErrProductNotFound  = internal.NewNotFoundError("product not found", internal.ErrCodeProductNotFound)
	ErrModifierNotFound = internal.NewNotFoundError("modifier not found", internal.ErrCodeModifierNotFound)
	ErrSKUTaken         = internal.NewConflictError("sku already exists", internal.ErrCodeSKUTaken)
	ErrModifierExists   = internal.NewConflictError("modifier name already exists", internal.ErrCodeDuplicateKey)
)

type Service struct {
	repo       RepositoryAPI
	categories CategoryChecker
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, categories CategoryChecker, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		logger:     logger,
	}
}

func normalizeSKU(sku *string) *string {
	if sku == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*sku)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *Service) validate(ctx context.Context, dto *ProductDTO) error {
	dto.Name = strings.TrimSpace(dto.Name)
	dto.SKU = normalizeSKU(dto.SKU)
	for i := range dto.Variants {
		dto.Variants[i].SKU = normalizeSKU(dto.Variants[i].SKU)
	}

	b := validation.NewValidator().Merge(validation.Struct(*dto))
	if dto.CategoryID != nil && s.categories != nil {
		b.Check(s.categories.IsValidCategory(ctx, *dto.CategoryID),
			"categoryId", "category does not exist or is inactive", internal.ErrCodeInvalidRequest)
	}
	seen := make(map[int64]bool, len(dto.Stores))
	for _, link := range dto.Stores {
		b.Check(!seen[link.StoreID], "stores", "store listed twice", internal.ErrCodeInvalidRequest)
		seen[link.StoreID] = true
		b.Check(link.PriceOverride == nil || !link.PriceOverride.IsNegative(),
			"stores.priceOverride", "price override must not be negative", internal.ErrCodeInvalidAmount)
	}
	if err := b.Validate(); err != nil {
		return err
	}
	return nil
}

func (s *Service) apply(p *Product, dto ProductDTO) {
	p.Name = dto.Name
	p.SKU = dto.SKU
	p.Description = dto.Description
	p.CategoryID = dto.CategoryID
	p.TaxCategoryID = dto.TaxCategoryID
	p.Price = dto.Price
	p.Cost = dto.Cost
	p.ImageURL = dto.ImageURL
	if dto.IsActive != nil {
		p.IsActive = *dto.IsActive
	}

	p.Variants = make([]Variant, 0, len(dto.Variants))
	for _, v := range dto.Variants {
		p.Variants = append(p.Variants, Variant{ID: v.ID, Name: strings.TrimSpace(v.Name), SKU: v.SKU, Price: v.Price, Cost: v.Cost})
	}
	p.Stores = make([]StoreLink, 0, len(dto.Stores))
	for _, link := range dto.Stores {
		available := true
		if link.IsAvailable != nil {
			available = *link.IsAvailable
		}
		p.Stores = append(p.Stores, StoreLink{StoreID: link.StoreID, IsAvailable: available, PriceOverride: link.PriceOverride})
	}
	p.ModifierIDs = dedupe(dto.ModifierIDs)
}

func dedupe(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Product, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list products", "error", err)
		return nil, internal.NewInternalError("failed to list products", err)
	}
	out := make([]*Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load product", err)
	}
	if row == nil {
		return nil, ErrProductNotFound
	}
	return FromDataModel(row), nil
}

// GetMany returns the products found among ids keyed by id.
func (s *Service) GetMany(ctx context.Context, ids []int64) (map[int64]*Product, error) {
	rows, err := s.repo.GetByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, internal.NewInternalError("failed to load products", err)
	}
	out := make(map[int64]*Product, len(rows))
	for _, row := range rows {
		out[row.ID] = FromDataModel(row)
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, dto ProductDTO) (*Product, error) {
	if err := s.validate(ctx, &dto); err != nil {
		return nil, err
	}
	p := &Product{IsActive: true}
	s.apply(p, dto)

	row := ToDataModel(p)
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, s.writeError("create", err)
	}
	s.logger.Info("product created", "product_id", row.ID, "variants", len(row.Variants))
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto ProductDTO) (*Product, error) {
	if err := s.validate(ctx, &dto); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load product", err)
	}
	if existing == nil {
		return nil, ErrProductNotFound
	}

	p := FromDataModel(existing)
	for _, v := range dto.Variants {
		if v.ID == 0 {
			continue
		}
		if _, ok := p.Variant(v.ID); !ok {
			return nil, internal.NewValidationFieldError("variants.id", "variant does not belong to this product", internal.ErrCodeInvalidRequest)
		}
	}
	s.apply(p, dto)

	row := ToDataModel(p)
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, s.writeError("update", err)
	}
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return internal.NewInternalError("failed to delete product", err)
	}
	s.logger.Info("product deactivated", "product_id", id)
	return nil
}

func (s *Service) ListModifiers(ctx context.Context, includeInactive bool) ([]*Modifier, error) {
	rows, err := s.repo.ListModifiers(ctx, includeInactive)
	if err != nil {
		return nil, internal.NewInternalError("failed to list modifiers", err)
	}
	out := make([]*Modifier, 0, len(rows))
	for _, row := range rows {
		out = append(out, ModifierFromDataModel(row))
	}
	return out, nil
}

func (s *Service) CreateModifier(ctx context.Context, dto ModifierDTO) (*Modifier, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	row := &productDatamodel.Modifier{Name: dto.Name, Price: dto.Price, IsActive: true}
	if err := s.repo.CreateModifier(ctx, row); err != nil {
		return nil, s.writeError("create modifier", err)
	}
	return ModifierFromDataModel(row), nil
}

func (s *Service) DeleteModifier(ctx context.Context, id int64) error {
	row, err := s.repo.GetModifier(ctx, id)
	if err != nil {
		return internal.NewInternalError("failed to load modifier", err)
	}
	if row == nil {
		return ErrModifierNotFound
	}
	if err := s.repo.DeactivateModifier(ctx, id); err != nil {
		return internal.NewInternalError("failed to delete modifier", err)
	}
	return nil
}

func (s *Service) writeError(op string, err error) error {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}
	s.logger.Error("product write failed", "op", op, "error", err)
	return internal.NewInternalError("failed to "+op+" product", err)
}

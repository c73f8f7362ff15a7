package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/pos-backoffice/internal"
	"github.com/frahmantamala/pos-backoffice/internal/category"
	"github.com/frahmantamala/pos-backoffice/internal/core/common/validation"
	orderDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/order"
	"github.com/frahmantamala/pos-backoffice/internal/core/events"
	"github.com/frahmantamala/pos-backoffice/internal/discount"
	"github.com/frahmantamala/pos-backoffice/internal/product"
	"github.com/frahmantamala/pos-backoffice/internal/shift"
	"github.com/frahmantamala/pos-backoffice/internal/taxcategory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// RepositoryAPI.Refund applies the new refund total only while the stored one still equals
// previous, and reports whether a row was updated.
type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*orderDatamodel.Order, error)
	GetByID(ctx context.Context, id int64) (*orderDatamodel.Order, error)
	Create(ctx context.Context, o *orderDatamodel.Order) error
	Refund(ctx context.Context, id int64, previous, refunded decimal.Decimal, status, reason string) (bool, error)
}

type ProductReader interface {
	GetMany(ctx context.Context, ids []int64) (map[int64]*product.Product, error)
}

type CategoryReader interface {
	GetByID(ctx context.Context, id int64) (*category.Category, error)
}

type TaxCategoryReader interface {
	List(ctx context.Context, includeInactive bool) ([]*taxcategory.TaxCategory, error)
}

type DiscountReader interface {
	Get(ctx context.Context, id int64) (*discount.Discount, error)
}

type ShiftLocator interface {
	Current(ctx context.Context, userID int64) (*shift.Shift, error)
}

// Catalog groups the read sides an order snapshots at sale time.
type Catalog struct {
	Products   ProductReader
	Categories CategoryReader
	Taxes      TaxCategoryReader
	Discounts  DiscountReader
	Shifts     ShiftLocator
}

var (
	ErrOrderNotFound      = internal.NewNotFoundError("order not found", internal.ErrCodeOrderNotFound)
	ErrOrderNotRefundable = internal.NewConflictError("order has already been fully refunded", internal.ErrCodeOrderNotRefundable)
	ErrOrderChanged       = internal.NewConflictError("order was modified by another request, retry", internal.ErrCodeOrderNotRefundable)
)

type Service struct {
	repo    RepositoryAPI
	catalog Catalog
	events  events.Publisher
	now     func() time.Time
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, catalog Catalog, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:    repo,
		catalog: catalog,
		now:     time.Now,
		logger:  logger,
	}
}

func (s *Service) WithEvents(p events.Publisher) *Service {
	s.events = p
	return s
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Order, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internal.NewInternalError("failed to list orders", err)
	}
	out := make([]*Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load order", err)
	}
	if row == nil {
		return nil, ErrOrderNotFound
	}
	return FromDataModel(row), nil
}

// Create prices every line from the catalog, spreads the discount over the lines and taxes
// each line on its discounted amount.
func (s *Service) Create(ctx context.Context, userID int64, dto CreateOrderDTO) (*Order, error) {
	dto.Notes = strings.TrimSpace(dto.Notes)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(dto.Items))
	for _, it := range dto.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.catalog.Products.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	taxes, defaultTax, err := s.taxCategories(ctx)
	if err != nil {
		return nil, err
	}

	b := validation.NewValidator()
	names := map[int64]string{}
	items := make([]orderDatamodel.OrderItem, 0, len(dto.Items))
	subtotal := decimal.Zero

	for i, it := range dto.Items {
		field := fmt.Sprintf("items[%d]", i)
		p, ok := products[it.ProductID]
		if !ok || !p.IsActive {
			b.Check(false, field+".productId", "product not found or inactive", internal.ErrCodeProductNotFound)
			continue
		}
		if !availableIn(p, dto.StoreID) {
			b.Check(false, field+".productId", "product is not sold in this store", internal.ErrCodeProductNotFound)
			continue
		}

		line := orderDatamodel.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			CategoryID:  p.CategoryID,
			Quantity:    it.Quantity,
			UnitPrice:   p.PriceIn(dto.StoreID),
			UnitCost:    p.Cost,
		}
		if it.VariantID != nil {
			v, ok := p.Variant(*it.VariantID)
			if !ok {
				b.Check(false, field+".variantId", "variant does not belong to product", internal.ErrCodeValidationFailed)
				continue
			}
			line.VariantID = &v.ID
			line.ProductName = p.Name + " (" + v.Name + ")"
			line.UnitPrice = v.Price
			line.UnitCost = v.Cost
		}
		if p.CategoryID != nil {
			line.CategoryName = s.categoryName(ctx, *p.CategoryID, names)
		}

		tax := defaultTax
		if p.TaxCategoryID != nil {
			if t, ok := taxes[*p.TaxCategoryID]; ok {
				tax = t
			}
		}
		if tax != nil {
			line.TaxCategoryID = &tax.ID
			line.TaxName = tax.Name
			line.TaxRate = tax.Rate
		}

		line.GrossAmount = line.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))).Round(2)
		subtotal = subtotal.Add(line.GrossAmount)
		items = append(items, line)
	}

	var applied *discount.Discount
	if dto.DiscountID != nil {
		d, err := s.catalog.Discounts.Get(ctx, *dto.DiscountID)
		switch {
		case errors.Is(err, discount.ErrDiscountNotFound):
			b.Check(false, "discountId", "discount not found", internal.ErrCodeDiscountNotFound)
		case err != nil:
			return nil, err
		case !d.IsActive:
			b.Check(false, "discountId", "discount is inactive", internal.ErrCodeDiscountNotFound)
		default:
			applied = d
		}
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	row := &orderDatamodel.Order{
		OrderNumber:    s.orderNumber(),
		StoreID:        dto.StoreID,
		UserID:         userID,
		ShiftID:        dto.ShiftID,
		DiningOptionID: dto.DiningOptionID,
		Status:         orderDatamodel.StatusCompleted,
		PaymentMethod:  dto.PaymentMethod,
		Subtotal:       subtotal,
		DiscountAmount: decimal.Zero,
		RefundAmount:   decimal.Zero,
		Notes:          dto.Notes,
	}
	if row.ShiftID == nil {
		row.ShiftID = s.currentShift(ctx, userID)
	}
	if applied != nil {
		row.DiscountID = &applied.ID
		row.DiscountName = applied.Name
		row.DiscountAmount = applied.AmountFor(subtotal)
	}

	allocate(items, row.DiscountAmount, subtotal)
	taxTotal := decimal.Zero
	for i := range items {
		items[i].TaxAmount = taxcategory.TaxOn(items[i].TaxRate, items[i].GrossAmount.Sub(items[i].DiscountAmount))
		taxTotal = taxTotal.Add(items[i].TaxAmount)
	}
	row.TaxAmount = taxTotal
	row.Total = subtotal.Sub(row.DiscountAmount).Add(taxTotal)
	row.Items = items

	if err := s.repo.Create(ctx, row); err != nil {
		return nil, internal.NewInternalError("failed to create order", err)
	}

	s.logger.InfoContext(ctx, "order created",
		"order_id", row.ID,
		"order_number", row.OrderNumber,
		"store_id", row.StoreID,
		"total", row.Total.String())
	events.Emit(ctx, s.events, events.NewOrderCreatedEvent(row.ID, row.StoreID, row.PaymentMethod, row.Total.String()))

	return FromDataModel(row), nil
}

// Refund adds amount (or the remaining balance when zero) to the refunded total.
func (s *Service) Refund(ctx context.Context, id int64, dto RefundDTO) (*Order, error) {
	dto.Reason = strings.TrimSpace(dto.Reason)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	remaining := o.Refundable()
	if !remaining.IsPositive() || o.Status == orderDatamodel.StatusRefunded {
		return nil, ErrOrderNotRefundable
	}

	amount := dto.Amount
	if amount.IsZero() {
		amount = remaining
	}
	if amount.GreaterThan(remaining) {
		return nil, internal.NewValidationFieldError("amount",
			fmt.Sprintf("amount exceeds refundable balance of %s", remaining.StringFixed(2)),
			internal.ErrCodeInvalidAmount)
	}

	refunded := o.RefundAmount.Add(amount)
	status := orderDatamodel.StatusPartiallyRefunded
	if refunded.Equal(o.Total) {
		status = orderDatamodel.StatusRefunded
	}

	ok, err := s.repo.Refund(ctx, id, o.RefundAmount, refunded, status, dto.Reason)
	if err != nil {
		return nil, internal.NewInternalError("failed to refund order", err)
	}
	if !ok {
		return nil, ErrOrderChanged
	}

	s.logger.InfoContext(ctx, "order refunded",
		"order_id", id,
		"amount", amount.String(),
		"status", status)
	events.Emit(ctx, s.events, events.NewOrderRefundedEvent(o.ID, o.StoreID, o.PaymentMethod, amount.String()))

	return s.Get(ctx, id)
}

// allocate splits amount across lines by gross share; the last line takes the rounding remainder.
func allocate(items []orderDatamodel.OrderItem, amount, subtotal decimal.Decimal) {
	left := amount
	for i := range items {
		items[i].DiscountAmount = decimal.Zero
		if !amount.IsPositive() || !subtotal.IsPositive() {
			continue
		}
		if i == len(items)-1 {
			items[i].DiscountAmount = left
			continue
		}
		share := amount.Mul(items[i].GrossAmount).Div(subtotal).Round(2)
		items[i].DiscountAmount = share
		left = left.Sub(share)
	}
}

// availableIn treats a product without store links as sold everywhere.
func availableIn(p *product.Product, storeID int64) bool {
	if len(p.Stores) == 0 {
		return true
	}
	for _, link := range p.Stores {
		if link.StoreID == storeID {
			return link.IsAvailable
		}
	}
	return false
}

func (s *Service) taxCategories(ctx context.Context) (map[int64]*taxcategory.TaxCategory, *taxcategory.TaxCategory, error) {
	list, err := s.catalog.Taxes.List(ctx, false)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[int64]*taxcategory.TaxCategory, len(list))
	var def *taxcategory.TaxCategory
	for _, t := range list {
		byID[t.ID] = t
		if t.IsDefault && def == nil {
			def = t
		}
	}
	return byID, def, nil
}

func (s *Service) categoryName(ctx context.Context, id int64, cache map[int64]string) string {
	if name, ok := cache[id]; ok {
		return name
	}
	name := ""
	c, err := s.catalog.Categories.GetByID(ctx, id)
	if err == nil {
		name = c.Name
	} else {
		s.logger.WarnContext(ctx, "category lookup failed", "category_id", id, "error", err)
	}
	cache[id] = name
	return name
}

func (s *Service) currentShift(ctx context.Context, userID int64) *int64 {
	if s.catalog.Shifts == nil {
		return nil
	}
	sh, err := s.catalog.Shifts.Current(ctx, userID)
	if err != nil {
		if !errors.Is(err, shift.ErrShiftNotFound) {
			s.logger.WarnContext(ctx, "shift lookup failed", "user_id", userID, "error", err)
		}
		return nil
	}
	return &sh.ID
}

func (s *Service) orderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "ORD-" + s.now().Format("20060102") + "-" + suffix
}

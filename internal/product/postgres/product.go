package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/frahmantamala/pos-backoffice/internal/core/common/database"
	productDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/product"
	"github.com/frahmantamala/pos-backoffice/internal/product"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) product.RepositoryAPI {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Stores").
		Preload("Modifiers")
}

func (r *ProductRepository) List(ctx context.Context, filter product.ListFilter) ([]*productDatamodel.Product, error) {
	q := r.withAssociations(ctx)
	if !filter.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.StoreID != nil {
		q = q.Where("id IN (?)", r.db.Model(&productDatamodel.ProductStore{}).
			Select("product_id").
			Where("store_id = ? AND is_available = ?", *filter.StoreID, true))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(sku) LIKE ?)", like, like)
	}

	var rows []*productDatamodel.Product
	err := q.Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*productDatamodel.Product, error) {
	var p productDatamodel.Product
	if err := r.withAssociations(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) GetByIDs(ctx context.Context, ids []int64) ([]*productDatamodel.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []*productDatamodel.Product
	err := r.withAssociations(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

// Create inserts the product row first, then every child row, inside one transaction.
func (r *ProductRepository) Create(ctx context.Context, p *productDatamodel.Product) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(p).Error; err != nil {
			return err
		}
		return writeChildren(tx, p)
	})
	return mapWriteError(err)
}

// Update replaces store and modifier links, upserts listed variants and drops the rest.
func (r *ProductRepository) Update(ctx context.Context, p *productDatamodel.Product) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(p).Error; err != nil {
			return err
		}

		keep := make([]int64, 0, len(p.Variants))
		for _, v := range p.Variants {
			if v.ID != 0 {
				keep = append(keep, v.ID)
			}
		}
		stale := tx.Where("product_id = ?", p.ID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		if err := stale.Delete(&productDatamodel.Variant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", p.ID).Delete(&productDatamodel.ProductStore{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", p.ID).Delete(&productDatamodel.ProductModifier{}).Error; err != nil {
			return err
		}
		return writeChildren(tx, p)
	})
	return mapWriteError(err)
}

func writeChildren(tx *gorm.DB, p *productDatamodel.Product) error {
	for i := range p.Variants {
		p.Variants[i].ProductID = p.ID
		if err := tx.Save(&p.Variants[i]).Error; err != nil {
			return err
		}
	}
	for i := range p.Stores {
		p.Stores[i].ProductID = p.ID
	}
	if len(p.Stores) > 0 {
		if err := tx.Create(&p.Stores).Error; err != nil {
			return err
		}
	}
	for i := range p.Modifiers {
		p.Modifiers[i].ProductID = p.ID
	}
	if len(p.Modifiers) > 0 {
		if err := tx.Create(&p.Modifiers).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *ProductRepository) Deactivate(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&productDatamodel.Product{}).Where("id = ?", id).Update("is_active", false).Error
}

func (r *ProductRepository) ListModifiers(ctx context.Context, includeInactive bool) ([]*productDatamodel.Modifier, error) {
	q := r.db.WithContext(ctx)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var rows []*productDatamodel.Modifier
	err := q.Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *ProductRepository) GetModifier(ctx context.Context, id int64) (*productDatamodel.Modifier, error) {
	var m productDatamodel.Modifier
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *ProductRepository) CreateModifier(ctx context.Context, m *productDatamodel.Modifier) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return product.ErrModifierExists
		}
		return err
	}
	return nil
}

func (r *ProductRepository) DeactivateModifier(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&productDatamodel.Modifier{}).Where("id = ?", id).Update("is_active", false).Error
}

func mapWriteError(err error) error {
	if database.IsUniqueViolation(err) {
		return product.ErrSKUTaken
	}
	return err
}

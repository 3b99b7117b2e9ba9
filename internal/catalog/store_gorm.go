package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// productRow is the gorm mapping of Product.
type productRow struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"not null"`
	Description string `gorm:"not null"`
	Price       int    `gorm:"not null"`
	Quantity    int    `gorm:"not null"`
	Category    string `gorm:"not null"`
	CreatedAt   time.Time
}

func (productRow) TableName() string { return "products" }

func rowFromProduct(p Product) productRow {
	return productRow{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Category:    p.Category.String(),
	}
}

func (r productRow) product() (Product, error) {
	c, err := ParseCategory(r.Category)
	if err != nil {
		return Product{}, err
	}
	return Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Quantity:    r.Quantity,
		Category:    c,
	}, nil
}

// GormStore keeps products in a relational table through gorm. It works on
// any dialect gorm supports; the products schema comes from AutoMigrate or
// the SQL migrations.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates or updates the products table from productRow.
func (s *GormStore) AutoMigrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&productRow{})
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return withTimeout(ctx, pingTimeout, sqlDB.PingContext)
}

func (s *GormStore) List(ctx context.Context) ([]Product, error) {
	var rows []productRow
	if err := s.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	out := make([]Product, 0, len(rows))
	for _, r := range rows {
		p, err := r.product()
		if err != nil {
			return nil, fmt.Errorf("listing products: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *GormStore) Get(ctx context.Context, id string) (Product, bool, error) {
	if !validID(id) {
		return Product{}, false, nil
	}

	var row productRow
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, fmt.Errorf("getting product %s: %w", id, err)
	}

	p, err := row.product()
	if err != nil {
		return Product{}, false, fmt.Errorf("getting product %s: %w", id, err)
	}
	return p, true, nil
}

func (s *GormStore) Create(ctx context.Context, p Product) (Product, error) {
	row := rowFromProduct(p)
	row.ID = newID()

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return Product{}, fmt.Errorf("creating product: %w", err)
	}
	return row.product()
}

func (s *GormStore) Update(ctx context.Context, id string, p Product) (Product, bool, error) {
	if !validID(id) {
		return Product{}, false, nil
	}

	var (
		row   productRow
		found bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&productRow{}).Where("id = ?", id).Updates(map[string]any{
			"name":        p.Name,
			"description": p.Description,
			"price":       p.Price,
			"quantity":    p.Quantity,
			"category":    p.Category.String(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		found = true
		return tx.Where("id = ?", id).Take(&row).Error
	})
	if err != nil {
		return Product{}, false, fmt.Errorf("updating product %s: %w", id, err)
	}
	if !found {
		return Product{}, false, nil
	}

	updated, err := row.product()
	if err != nil {
		return Product{}, false, fmt.Errorf("updating product %s: %w", id, err)
	}
	return updated, true, nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&productRow{}).Error; err != nil {
		return fmt.Errorf("deleting product %s: %w", id, err)
	}
	return nil
}

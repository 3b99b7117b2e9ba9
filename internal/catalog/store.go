package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Store owns the authoritative product collection. Lookups report a missing
// product through the bool result, never through the error.
type Store interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, bool, error)
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, id string, p Product) (Product, bool, error)
	// Delete removes the product if present. A missing id is not an error.
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

func newID() string {
	return uuid.NewString()
}

// validID reports whether id could have been issued by a store. Anything
// else cannot match a product and is treated as not found.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// DemoProducts is the seed set used when a store starts empty.
func DemoProducts() []Product {
	return []Product{
		{Name: "Keyboard", Description: "Mechanical keyboard with brown switches.", Price: 4990, Quantity: 25, Category: Electronics},
		{Name: "Mouse", Description: "Wireless optical mouse.", Price: 1990, Quantity: 40, Category: Electronics},
		{Name: "Hoodie", Description: "Grey cotton hoodie, unisex fit.", Price: 3500, Quantity: 12, Category: Clothing},
		{Name: "Coffee", Description: "Whole bean medium roast, 1kg bag.", Price: 1800, Quantity: 30, Category: Food},
	}
}

// Seed creates products in s if it holds none yet.
func Seed(ctx context.Context, s Store, products []Product) error {
	existing, err := s.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, p := range products {
		if _, err := s.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

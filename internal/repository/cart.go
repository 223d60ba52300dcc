package repository

import (
	"context"
	"fmt"

	"branakids/navigation/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CartRepository interface {
	ListItems(ctx context.Context, cartID string) ([]domain.CartItem, error)
}

type cartRepository struct {
	db *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) CartRepository {
	return &cartRepository{
		db: db,
	}
}

func (r *cartRepository) ListItems(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	query := `
	SELECT product_id, name, quantity
	FROM cart_items
	WHERE cart_id = $1
	ORDER BY added_at`
	rows, err := r.db.Query(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.CartItem, 0)
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cart items: %w", err)
	}

	return items, nil
}

// CartView exposes one cart's items to the navigation shell.
type CartView struct {
	repository CartRepository
	cartID     string
}

func NewCartView(repository CartRepository, cartID string) *CartView {
	return &CartView{
		repository: repository,
		cartID:     cartID,
	}
}

// CurrentItems returns the cart's items. An anonymous visitor without a cart
// has no items.
func (v *CartView) CurrentItems(ctx context.Context) ([]domain.CartItem, error) {
	if v.cartID == "" {
		return nil, nil
	}
	return v.repository.ListItems(ctx, v.cartID)
}

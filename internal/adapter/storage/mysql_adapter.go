package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/port"
)

// MySQLAdapter is the system of record. Aggregates live in the products
// table with the ledger and history serialized as JSON columns; writes
// go through a compare-and-swap on updated_at.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) Create(ctx context.Context, p *domain.Product) error {
	colors, history, err := marshalAggregate(p)
	if err != nil {
		return err
	}

	_, err = m.db.ExecContext(ctx, `
		INSERT INTO products (id, name, image, colors, status, history, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Image, colors, p.Status, history, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) Get(ctx context.Context, id string) (*domain.Product, error) {
	row := m.db.QueryRowContext(ctx, `
		SELECT id, name, image, colors, status, history, created_at, updated_at
		FROM products WHERE id = ?`, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return p, nil
}

func (m *MySQLAdapter) Update(ctx context.Context, p *domain.Product, loadedAt time.Time) error {
	colors, history, err := marshalAggregate(p)
	if err != nil {
		return err
	}

	result, err := m.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, image = ?, colors = ?, status = ?, history = ?, updated_at = ?
		WHERE id = ? AND updated_at = ?`,
		p.Name, p.Image, colors, p.Status, history, p.UpdatedAt, p.ID, loadedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return port.ErrVersionConflict
	}
	return nil
}

func (m *MySQLAdapter) Delete(ctx context.Context, id string) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) List(ctx context.Context, filter port.ProductFilter) ([]*domain.Product, error) {
	query := `
		SELECT id, name, image, colors, status, history, created_at, updated_at
		FROM products WHERE 1=1`
	args := []any{}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.NameContains != "" {
		query += ` AND LOWER(name) LIKE CONCAT('%', LOWER(?), '%')`
		args = append(args, filter.NameContains)
	}
	query += ` ORDER BY created_at`

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (m *MySQLAdapter) GetUser(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := m.db.QueryRowContext(ctx, `
		SELECT username, password_hash, role FROM users WHERE username = ?`, username,
	).Scan(&u.Username, &u.PasswordHash, &u.Role)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

func marshalAggregate(p *domain.Product) (colors, history []byte, err error) {
	colors, err = json.Marshal(p.Colors)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal colors: %w", err)
	}
	history, err = json.Marshal(p.History)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal history: %w", err)
	}
	return colors, history, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var colors, history []byte
	err := row.Scan(&p.ID, &p.Name, &p.Image, &colors, &p.Status, &history, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(colors, &p.Colors); err != nil {
		return nil, fmt.Errorf("unmarshal colors: %w", err)
	}
	if err := json.Unmarshal(history, &p.History); err != nil {
		return nil, fmt.Errorf("unmarshal history: %w", err)
	}
	return &p, nil
}

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/models"
)

// FindOrCreateCustomer resolves a customer by phone number, creating a
// record when none exists. An existing customer is returned verbatim;
// name and email from the request are not merged into it.
func (db *DB) FindOrCreateCustomer(ctx context.Context, name, phone, email string) (*models.Customer, error) {
	existing, err := db.GetCustomerByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now()
	c := &models.Customer{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     phone,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO customers (id, name, phone, email, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, '', ?, ?)`,
		c.ID, c.Name, c.Phone, c.Email, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert customer: %w", err)
	}
	return c, nil
}

// GetCustomerByPhone returns the customer with the given phone, or nil.
func (db *DB) GetCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, name, phone, email, notes, created_at, updated_at
		FROM customers WHERE phone = ?`, phone,
	)
	return scanCustomerRow(row)
}

// GetCustomersByIDs returns the customers with the given ids, keyed by id.
func (db *DB) GetCustomersByIDs(ctx context.Context, ids []string) (map[string]models.Customer, error) {
	result := make(map[string]models.Customer, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := "SELECT id, name, phone, email, notes, created_at, updated_at FROM customers WHERE id IN ("
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += ")"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		result[c.ID] = *c
	}
	return result, rows.Err()
}

func scanCustomerRow(row *sql.Row) (*models.Customer, error) {
	c, err := scanCustomer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func scanCustomer(row rowScanner) (*models.Customer, error) {
	var c models.Customer
	var email, notes sql.NullString
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &email, &notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if email.Valid {
		c.Email = email.String
	}
	if notes.Valid {
		c.Notes = notes.String
	}
	return &c, nil
}

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/models"
)

// CreateReview stores a new customer review. Reviews are auto-approved
// on creation; the customer identifier is derived from the lowercased
// name and used to correlate repeat reviewers.
func (db *DB) CreateReview(ctx context.Context, customerName string, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}

	now := time.Now()
	r := &models.Review{
		ID:                 uuid.NewString(),
		CustomerName:       customerName,
		CustomerIdentifier: strings.ReplaceAll(strings.ToLower(customerName), " ", ""),
		Rating:             rating,
		Comment:            comment,
		Approved:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO reviews (id, customer_name, customer_identifier, rating, comment, approved, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CustomerName, r.CustomerIdentifier, r.Rating, r.Comment, r.Approved, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}
	return r, nil
}

// ListReviews returns reviews sorted newest first. When approvedOnly
// is set, unapproved reviews are filtered out.
func (db *DB) ListReviews(ctx context.Context, approvedOnly bool) ([]models.Review, error) {
	query := `SELECT id, customer_name, customer_identifier, rating, comment, approved, created_at, updated_at
		FROM reviews`
	if approvedOnly {
		query += " WHERE approved = 1"
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var r models.Review
		err := rows.Scan(&r.ID, &r.CustomerName, &r.CustomerIdentifier, &r.Rating, &r.Comment,
			&r.Approved, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// ApproveReview marks a review as approved. Unknown ids are a no-op.
func (db *DB) ApproveReview(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx,
		"UPDATE reviews SET approved = 1, updated_at = ? WHERE id = ?",
		time.Now(), id,
	)
	return err
}

// DeleteReview removes a review.
func (db *DB) DeleteReview(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx, "DELETE FROM reviews WHERE id = ?", id)
	return err
}

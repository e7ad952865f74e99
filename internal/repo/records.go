package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"aetv-bot/internal/domain"
)

// InsertLead stores a captured contact attempt. Leads are append-only.
func (s *PostgresStore) InsertLead(ctx context.Context, lead domain.Lead) (*domain.Lead, error) {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}
	const q = `
INSERT INTO leads (id, sender_id, contact_text, source, created_at)
VALUES ($1, $2, $3, $4, $5);
`
	if _, err := s.pool.Exec(ctx, q, lead.ID, lead.SenderID, lead.ContactText, string(lead.Source), lead.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}
	return &lead, nil
}

// InsertOrder stores a plan-selection event. Orders are append-only; status
// stays "initiated", payment confirmation lives outside this service.
func (s *PostgresStore) InsertOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusInitiated
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	const q = `
INSERT INTO orders (id, sender_id, plan, status, created_at)
VALUES ($1, $2, $3, $4, $5);
`
	if _, err := s.pool.Exec(ctx, q, order.ID, order.SenderID, order.Plan, order.Status, order.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return &order, nil
}

// ListLeads returns a sender's captured leads, oldest first.
func (s *PostgresStore) ListLeads(ctx context.Context, senderID string) ([]domain.Lead, error) {
	const q = `
SELECT id, contact_text, source, created_at
FROM leads
WHERE sender_id = $1
ORDER BY created_at ASC;
`
	rows, err := s.pool.Query(ctx, q, senderID)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []domain.Lead
	for rows.Next() {
		var lead domain.Lead
		var source string
		if err := rows.Scan(&lead.ID, &lead.ContactText, &source, &lead.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		lead.SenderID = senderID
		lead.Source = domain.LeadSource(source)
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

// ListOrders returns a sender's orders, oldest first.
func (s *PostgresStore) ListOrders(ctx context.Context, senderID string) ([]domain.Order, error) {
	const q = `
SELECT id, plan, status, created_at
FROM orders
WHERE sender_id = $1
ORDER BY created_at ASC;
`
	rows, err := s.pool.Query(ctx, q, senderID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.Plan, &order.Status, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		order.SenderID = senderID
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

// InsertMessage stores a message record for auditing purposes.
func (s *PostgresStore) InsertMessage(ctx context.Context, msg domain.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	const q = `
INSERT INTO messages (id, sender_id, direction, content, created_at)
VALUES ($1, $2, $3, $4, $5);
`
	if _, err := s.pool.Exec(ctx, q, msg.ID, msg.SenderID, msg.Direction, msg.Content, msg.CreatedAt); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListRecentMessages returns the latest messages exchanged with the sender.
func (s *PostgresStore) ListRecentMessages(ctx context.Context, senderID string, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `
SELECT id, direction, content, created_at
FROM messages
WHERE sender_id = $1
ORDER BY created_at DESC
LIMIT $2;
`
	rows, err := s.pool.Query(ctx, q, senderID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent messages: %w", err)
	}
	defer rows.Close()

	var records []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.Direction, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recent message: %w", err)
		}
		msg.SenderID = senderID
		records = append(records, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent messages: %w", err)
	}
	return records, nil
}

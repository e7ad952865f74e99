package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"aetv-bot/internal/domain"
	"aetv-bot/internal/lang"
)

// SQLiteStore implements Store against a local SQLite database, for deploys
// without a Postgres server.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLite opens a connection to the SQLite database at the given path.
func NewSQLite(ctx context.Context, databasePath string, logger *slog.Logger) (*SQLiteStore, error) {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		return nil, errors.New("sqlite database path is empty")
	}
	// Busy timeout and WAL mode are recommended for SQLite concurrency.
	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	dsn = fmt.Sprintf("%s%s_pragma=busy_timeout=10000&_pragma=journal_mode=WAL&_pragma=foreign_keys=ON", dsn, sep)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "repo_sqlite"),
	}, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// Ping ensures the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// RunMigrations applies embedded schema migrations from the sqlite variant
// directory in lexicographical order.
func (s *SQLiteStore) RunMigrations(ctx context.Context, filesystem fs.FS) error {
	sub, err := fs.Sub(filesystem, "sqlite")
	if err != nil {
		return fmt.Errorf("sqlite migrations dir: %w", err)
	}
	names, err := migrationFiles(sub)
	if err != nil {
		return err
	}
	for _, name := range names {
		sqlContent, err := fs.ReadFile(sub, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if len(sqlContent) == 0 {
			continue
		}
		if _, err := s.db.ExecContext(ctx, string(sqlContent)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}

// UpsertSeen creates or refreshes a user row on inbound contact.
func (s *SQLiteStore) UpsertSeen(ctx context.Context, senderID string, language lang.Language) error {
	if senderID == "" {
		return errors.New("upsert seen: empty sender id")
	}
	const q = `
INSERT INTO users (id, sender_id, language, conversation_state, created_at, last_seen_at)
VALUES (?, ?, ?, 'none', ?, ?)
ON CONFLICT (sender_id) DO UPDATE SET
    language = excluded.language,
    last_seen_at = excluded.last_seen_at;
`
	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx, q, uuid.NewString(), senderID, string(language), now, now); err != nil {
		return fmt.Errorf("upsert seen: %w", err)
	}
	return nil
}

// GetState returns the sender's conversation snapshot, with defaults for
// unseen senders.
func (s *SQLiteStore) GetState(ctx context.Context, senderID string) (domain.UserState, error) {
	const q = `
SELECT conversation_state, pending_plan, language
FROM users
WHERE sender_id = ?
LIMIT 1;
`
	var (
		stateTag    string
		pendingPlan *string
		langTag     string
	)
	err := s.db.QueryRowContext(ctx, q, senderID).Scan(&stateTag, &pendingPlan, &langTag)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserState{State: domain.StateNone, Language: lang.EN}, nil
	}
	if err != nil {
		return domain.UserState{}, fmt.Errorf("get state: %w", err)
	}

	state, err := domain.ParseState(stateTag)
	if err != nil {
		s.logger.Warn("unknown conversation state in storage", "sender", senderID, "tag", stateTag)
		state = domain.StateNone
	}

	language := lang.Language(langTag)
	if language != lang.AR {
		language = lang.EN
	}

	return domain.UserState{State: state, PendingPlan: pendingPlan, Language: language}, nil
}

// SetState overwrites the conversation state fields and refreshes last-seen.
func (s *SQLiteStore) SetState(ctx context.Context, senderID string, state domain.State, pendingPlan *string) error {
	const q = `
UPDATE users
SET conversation_state = ?,
    pending_plan = ?,
    last_seen_at = ?
WHERE sender_id = ?;
`
	res, err := s.db.ExecContext(ctx, q, state.String(), pendingPlan, time.Now().UTC(), senderID)
	if err != nil {
		return fmt.Errorf("set state: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set state rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set state: user not found: %s", senderID)
	}
	return nil
}

// InsertLead stores a captured contact attempt.
func (s *SQLiteStore) InsertLead(ctx context.Context, lead domain.Lead) (*domain.Lead, error) {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}
	const q = `INSERT INTO leads (id, sender_id, contact_text, source, created_at) VALUES (?, ?, ?, ?, ?);`
	if _, err := s.db.ExecContext(ctx, q, lead.ID, lead.SenderID, lead.ContactText, string(lead.Source), lead.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}
	return &lead, nil
}

// InsertOrder stores a plan-selection event.
func (s *SQLiteStore) InsertOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusInitiated
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	const q = `INSERT INTO orders (id, sender_id, plan, status, created_at) VALUES (?, ?, ?, ?, ?);`
	if _, err := s.db.ExecContext(ctx, q, order.ID, order.SenderID, order.Plan, order.Status, order.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return &order, nil
}

// ListLeads returns a sender's captured leads, oldest first.
func (s *SQLiteStore) ListLeads(ctx context.Context, senderID string) ([]domain.Lead, error) {
	const q = `
SELECT id, contact_text, source, created_at
FROM leads
WHERE sender_id = ?
ORDER BY created_at ASC;
`
	rows, err := s.db.QueryContext(ctx, q, senderID)
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
func (s *SQLiteStore) ListOrders(ctx context.Context, senderID string) ([]domain.Order, error) {
	const q = `
SELECT id, plan, status, created_at
FROM orders
WHERE sender_id = ?
ORDER BY created_at ASC;
`
	rows, err := s.db.QueryContext(ctx, q, senderID)
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
func (s *SQLiteStore) InsertMessage(ctx context.Context, msg domain.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	const q = `INSERT INTO messages (id, sender_id, direction, content, created_at) VALUES (?, ?, ?, ?, ?);`
	if _, err := s.db.ExecContext(ctx, q, msg.ID, msg.SenderID, msg.Direction, msg.Content, msg.CreatedAt); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListRecentMessages returns the latest messages exchanged with the sender.
func (s *SQLiteStore) ListRecentMessages(ctx context.Context, senderID string, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `
SELECT id, direction, content, created_at
FROM messages
WHERE sender_id = ?
ORDER BY created_at DESC
LIMIT ?;
`
	rows, err := s.db.QueryContext(ctx, q, senderID, limit)
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

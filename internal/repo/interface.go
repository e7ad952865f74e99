package repo

import (
	"context"
	"io/fs"

	"aetv-bot/internal/domain"
	"aetv-bot/internal/lang"
)

// Store defines the persistence capabilities the bot depends on. Postgres is
// the primary backend; an SQLite implementation covers single-node deploys
// without a database server.
type Store interface {
	// Lifecycle
	Close()
	Ping(ctx context.Context) error
	RunMigrations(ctx context.Context, filesystem fs.FS) error

	// Users / conversation state
	UpsertSeen(ctx context.Context, senderID string, language lang.Language) error
	GetState(ctx context.Context, senderID string) (domain.UserState, error)
	SetState(ctx context.Context, senderID string, state domain.State, pendingPlan *string) error

	// Recorder (append-only)
	InsertLead(ctx context.Context, lead domain.Lead) (*domain.Lead, error)
	InsertOrder(ctx context.Context, order domain.Order) (*domain.Order, error)
	ListLeads(ctx context.Context, senderID string) ([]domain.Lead, error)
	ListOrders(ctx context.Context, senderID string) ([]domain.Order, error)

	// Audit trail
	InsertMessage(ctx context.Context, msg domain.Message) error
	ListRecentMessages(ctx context.Context, senderID string, limit int) ([]domain.Message, error)
}

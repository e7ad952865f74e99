package repo

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aetv-bot/internal/domain"
	"aetv-bot/internal/lang"
)

func testTime(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresWithPool(mock, slog.Default()), mock
}

func TestUpsertSeen(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "+971500000001", "ar").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := store.UpsertSeen(context.Background(), "+971500000001", lang.AR)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertSeenEmptySenderID(t *testing.T) {
	store, _ := newMockStore(t)
	err := store.UpsertSeen(context.Background(), "", lang.EN)
	assert.Error(t, err)
}

func TestGetStateUnseenSenderReturnsDefaults(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT conversation_state, pending_plan, language").
		WithArgs("+971500000002").
		WillReturnError(pgx.ErrNoRows)

	got, err := store.GetState(context.Background(), "+971500000002")
	require.NoError(t, err)
	assert.Equal(t, domain.StateNone, got.State)
	assert.Nil(t, got.PendingPlan)
	assert.Equal(t, lang.EN, got.Language)
}

func TestGetStateKnownSender(t *testing.T) {
	store, mock := newMockStore(t)

	plan := "premium"
	mock.ExpectQuery("SELECT conversation_state, pending_plan, language").
		WithArgs("+971500000003").
		WillReturnRows(pgxmock.NewRows([]string{"conversation_state", "pending_plan", "language"}).
			AddRow("awaiting_package_choice", &plan, "ar"))

	got, err := store.GetState(context.Background(), "+971500000003")
	require.NoError(t, err)
	assert.Equal(t, domain.StateAwaitingPackageChoice, got.State)
	require.NotNil(t, got.PendingPlan)
	assert.Equal(t, "premium", *got.PendingPlan)
	assert.Equal(t, lang.AR, got.Language)
}

func TestGetStateUnknownTagFallsBackToNone(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT conversation_state, pending_plan, language").
		WithArgs("+971500000004").
		WillReturnRows(pgxmock.NewRows([]string{"conversation_state", "pending_plan", "language"}).
			AddRow("garbage", (*string)(nil), "en"))

	got, err := store.GetState(context.Background(), "+971500000004")
	require.NoError(t, err)
	assert.Equal(t, domain.StateNone, got.State)
}

func TestSetState(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE users").
		WithArgs("+971500000005", "support_open", (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := store.SetState(context.Background(), "+971500000005", domain.StateSupportOpen, nil)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStateUnknownSender(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE users").
		WithArgs("+971500000006", "none", (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := store.SetState(context.Background(), "+971500000006", domain.StateNone, nil)
	assert.ErrorContains(t, err, "user not found")
}

func TestInsertLead(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO leads").
		WithArgs(pgxmock.AnyArg(), "+971500000007", "user@email.com", "trial", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	lead, err := store.InsertLead(context.Background(), domain.Lead{
		SenderID:    "+971500000007",
		ContactText: "user@email.com",
		Source:      domain.LeadSourceTrial,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.False(t, lead.CreatedAt.IsZero())
}

func TestInsertOrderDefaultsStatus(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO orders").
		WithArgs(pgxmock.AnyArg(), "+971500000008", "kids", "initiated", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	order, err := store.InsertOrder(context.Background(), domain.Order{
		SenderID: "+971500000008",
		Plan:     "kids",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusInitiated, order.Status)
}

func TestInsertMessage(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO messages").
		WithArgs(pgxmock.AnyArg(), "+971500000009", "inbound", "hi", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := store.InsertMessage(context.Background(), domain.Message{
		SenderID:  "+971500000009",
		Direction: domain.DirectionInbound,
		Content:   "hi",
	})
	require.NoError(t, err)
}

func TestListLeads(t *testing.T) {
	store, mock := newMockStore(t)

	rows := pgxmock.NewRows([]string{"id", "contact_text", "source", "created_at"}).
		AddRow("l1", "user@email.com", "trial", testTime(t))
	mock.ExpectQuery("SELECT id, contact_text, source, created_at").
		WithArgs("+971500000011").
		WillReturnRows(rows)

	leads, err := store.ListLeads(context.Background(), "+971500000011")
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, domain.LeadSourceTrial, leads[0].Source)
	assert.Equal(t, "+971500000011", leads[0].SenderID)
}

func TestListOrders(t *testing.T) {
	store, mock := newMockStore(t)

	rows := pgxmock.NewRows([]string{"id", "plan", "status", "created_at"}).
		AddRow("o1", "premium", "initiated", testTime(t))
	mock.ExpectQuery("SELECT id, plan, status, created_at").
		WithArgs("+971500000012").
		WillReturnRows(rows)

	orders, err := store.ListOrders(context.Background(), "+971500000012")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "premium", orders[0].Plan)
}

func TestListRecentMessages(t *testing.T) {
	store, mock := newMockStore(t)

	rows := pgxmock.NewRows([]string{"id", "direction", "content", "created_at"}).
		AddRow("m2", "outbound", "welcome", testTime(t)).
		AddRow("m1", "inbound", "start", testTime(t))
	mock.ExpectQuery("SELECT id, direction, content, created_at").
		WithArgs("+971500000010", 10).
		WillReturnRows(rows)

	msgs, err := store.ListRecentMessages(context.Background(), "+971500000010", 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "outbound", msgs[0].Direction)
	assert.Equal(t, "+971500000010", msgs[0].SenderID)
}

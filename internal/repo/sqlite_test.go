package repo

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aetv-bot/internal/domain"
	"aetv-bot/internal/lang"
	"aetv-bot/migrations"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	ctx := context.Background()

	store, err := NewSQLite(ctx, filepath.Join(t.TempDir(), "bot.db"), slog.Default())
	require.NoError(t, err)
	t.Cleanup(store.Close)

	require.NoError(t, store.RunMigrations(ctx, migrations.Files))
	return store
}

func TestSQLiteStateLifecycle(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	sender := "+971500000100"

	// Unseen sender gets defaults without error.
	st, err := store.GetState(ctx, sender)
	require.NoError(t, err)
	assert.Equal(t, domain.StateNone, st.State)
	assert.Nil(t, st.PendingPlan)
	assert.Equal(t, lang.EN, st.Language)

	require.NoError(t, store.UpsertSeen(ctx, sender, lang.AR))

	plan := "premium"
	require.NoError(t, store.SetState(ctx, sender, domain.StateAwaitingPackageChoice, &plan))

	st, err = store.GetState(ctx, sender)
	require.NoError(t, err)
	assert.Equal(t, domain.StateAwaitingPackageChoice, st.State)
	require.NotNil(t, st.PendingPlan)
	assert.Equal(t, "premium", *st.PendingPlan)
	assert.Equal(t, lang.AR, st.Language)

	// Language refreshes on later contact, state untouched.
	require.NoError(t, store.UpsertSeen(ctx, sender, lang.EN))
	st, err = store.GetState(ctx, sender)
	require.NoError(t, err)
	assert.Equal(t, domain.StateAwaitingPackageChoice, st.State)
	assert.Equal(t, lang.EN, st.Language)
}

func TestSQLiteSetStateUnknownSender(t *testing.T) {
	store := newSQLiteStore(t)
	err := store.SetState(context.Background(), "+971500000199", domain.StateNone, nil)
	assert.ErrorContains(t, err, "user not found")
}

func TestSQLiteRecorder(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	sender := "+971500000101"

	require.NoError(t, store.UpsertSeen(ctx, sender, lang.EN))

	lead, err := store.InsertLead(ctx, domain.Lead{
		SenderID:    sender,
		ContactText: "user@email.com",
		Source:      domain.LeadSourceTrial,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, lead.ID)

	order, err := store.InsertOrder(ctx, domain.Order{SenderID: sender, Plan: "kids"})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusInitiated, order.Status)

	leads, err := store.ListLeads(ctx, sender)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, domain.LeadSourceTrial, leads[0].Source)

	orders, err := store.ListOrders(ctx, sender)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "kids", orders[0].Plan)
}

func TestSQLiteMessageAudit(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	sender := "+971500000102"

	require.NoError(t, store.InsertMessage(ctx, domain.Message{
		SenderID: sender, Direction: domain.DirectionInbound, Content: "start",
	}))
	require.NoError(t, store.InsertMessage(ctx, domain.Message{
		SenderID: sender, Direction: domain.DirectionOutbound, Content: "welcome",
	}))

	msgs, err := store.ListRecentMessages(ctx, sender, 5)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
}

package testutil

import (
	"context"
	"io/fs"

	"github.com/stretchr/testify/mock"

	"aetv-bot/internal/domain"
	"aetv-bot/internal/lang"
)

// MockStore is a testify mock for repo.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Close() {
	m.Called()
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStore) RunMigrations(ctx context.Context, filesystem fs.FS) error {
	args := m.Called(ctx, filesystem)
	return args.Error(0)
}

func (m *MockStore) UpsertSeen(ctx context.Context, senderID string, language lang.Language) error {
	args := m.Called(ctx, senderID, language)
	return args.Error(0)
}

func (m *MockStore) GetState(ctx context.Context, senderID string) (domain.UserState, error) {
	args := m.Called(ctx, senderID)
	return args.Get(0).(domain.UserState), args.Error(1)
}

func (m *MockStore) SetState(ctx context.Context, senderID string, state domain.State, pendingPlan *string) error {
	args := m.Called(ctx, senderID, state, pendingPlan)
	return args.Error(0)
}

func (m *MockStore) InsertLead(ctx context.Context, lead domain.Lead) (*domain.Lead, error) {
	args := m.Called(ctx, lead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *MockStore) InsertOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockStore) ListLeads(ctx context.Context, senderID string) ([]domain.Lead, error) {
	args := m.Called(ctx, senderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lead), args.Error(1)
}

func (m *MockStore) ListOrders(ctx context.Context, senderID string) ([]domain.Order, error) {
	args := m.Called(ctx, senderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockStore) InsertMessage(ctx context.Context, msg domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockStore) ListRecentMessages(ctx context.Context, senderID string, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, senderID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

// MockDeliverer is a testify mock for the outbound delivery capability.
type MockDeliverer struct {
	mock.Mock
}

func (m *MockDeliverer) SendText(ctx context.Context, to, body string) error {
	args := m.Called(ctx, to, body)
	return args.Error(0)
}

// MockNotifier is a testify mock for the operator notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

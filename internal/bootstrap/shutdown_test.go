package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/npcbot/internal/domain"
	"github.com/osse101/npcbot/internal/prompt"
	"github.com/osse101/npcbot/internal/purchase"
)

type recordingStopper struct {
	calls *[]string
	name  string
	err   error
}

func (s recordingStopper) Stop(context.Context) error {
	*s.calls = append(*s.calls, s.name)
	return s.err
}

type MockEngine struct {
	mock.Mock
	calls *[]string
}

func (m *MockEngine) Buy(ctx context.Context, req purchase.Request, p prompt.Prompter) (*domain.PurchaseResult, error) {
	args := m.Called(ctx, req, p)
	return nil, args.Error(1)
}

func (m *MockEngine) Shutdown(ctx context.Context) error {
	*m.calls = append(*m.calls, "purchase")
	return m.Called(ctx).Error(0)
}

func TestGracefulShutdown_Order(t *testing.T) {
	var calls []string
	engine := &MockEngine{calls: &calls}
	engine.On("Shutdown", mock.Anything).Return(errors.New("ledger post still running"))

	GracefulShutdown(context.Background(), ShutdownComponents{
		Stoppers: []Stopper{
			recordingStopper{calls: &calls, name: "health", err: errors.New("already closed")},
			recordingStopper{calls: &calls, name: "other"},
		},
		Purchases: engine,
	})

	// Failures are logged and the sequence carries on
	assert.Equal(t, []string{"health", "other", "purchase"}, calls)
	engine.AssertExpectations(t)
}

func TestGracefulShutdown_NilComponents(t *testing.T) {
	assert.NotPanics(t, func() {
		GracefulShutdown(context.Background(), ShutdownComponents{})
	})
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/npcbot/internal/character"
	"github.com/osse101/npcbot/internal/domain"
	"github.com/osse101/npcbot/internal/inventory"
	"github.com/osse101/npcbot/internal/prompt"
	"github.com/osse101/npcbot/internal/purchase"
)

// MockCharacterService mocks character.Service
type MockCharacterService struct {
	mock.Mock
}

func (m *MockCharacterService) Create(ctx context.Context, tenantID, name, imageURL, background, creator string) (*domain.Character, error) {
	args := m.Called(ctx, tenantID, name, imageURL, background, creator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Character), args.Error(1)
}

func (m *MockCharacterService) Edit(ctx context.Context, tenantID, name string, patch domain.CharacterPatch, actor string) (*domain.Character, error) {
	args := m.Called(ctx, tenantID, name, patch, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Character), args.Error(1)
}

func (m *MockCharacterService) GrantAccess(ctx context.Context, tenantID, name, actor, grantee string) (*domain.Character, error) {
	args := m.Called(ctx, tenantID, name, actor, grantee)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Character), args.Error(1)
}

func (m *MockCharacterService) Delete(ctx context.Context, tenantID, name, actor string) error {
	args := m.Called(ctx, tenantID, name, actor)
	return args.Error(0)
}

func (m *MockCharacterService) DeleteAll(ctx context.Context, tenantID, actor string, p prompt.Prompter) (character.DeleteAllResult, error) {
	args := m.Called(ctx, tenantID, actor, p)
	return args.Get(0).(character.DeleteAllResult), args.Error(1)
}

func (m *MockCharacterService) Get(ctx context.Context, tenantID, name string) (*domain.Character, error) {
	args := m.Called(ctx, tenantID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Character), args.Error(1)
}

func (m *MockCharacterService) ListAll(ctx context.Context, tenantID string) ([]domain.Character, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Character), args.Error(1)
}

func (m *MockCharacterService) Import(ctx context.Context, tenantID string, characters []domain.Character) (int, error) {
	args := m.Called(ctx, tenantID, characters)
	return args.Int(0), args.Error(1)
}

func (m *MockCharacterService) GetCacheStats() character.CacheStats {
	args := m.Called()
	return args.Get(0).(character.CacheStats)
}

// MockInventoryService mocks inventory.Service
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) AddItem(ctx context.Context, tenantID, characterName string, item inventory.NewItem, actor string) (*domain.InventoryItem, error) {
	args := m.Called(ctx, tenantID, characterName, item, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) EditItem(ctx context.Context, tenantID, characterName, itemName string, patch domain.ItemPatch, actor string) (*domain.InventoryItem, error) {
	args := m.Called(ctx, tenantID, characterName, itemName, patch, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) AddStock(ctx context.Context, tenantID, characterName, itemName string, delta int, actor string) (*domain.InventoryItem, error) {
	args := m.Called(ctx, tenantID, characterName, itemName, delta, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) RemoveItem(ctx context.Context, tenantID, characterName, itemName, actor string) error {
	args := m.Called(ctx, tenantID, characterName, itemName, actor)
	return args.Error(0)
}

func (m *MockInventoryService) ListItems(ctx context.Context, tenantID, characterName, viewer string) (*inventory.View, error) {
	args := m.Called(ctx, tenantID, characterName, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.View), args.Error(1)
}

func (m *MockInventoryService) GetItem(ctx context.Context, tenantID, characterName, itemName string) (*domain.Character, *domain.InventoryItem, error) {
	args := m.Called(ctx, tenantID, characterName, itemName)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Character), args.Get(1).(*domain.InventoryItem), args.Error(2)
}

// MockEngine mocks purchase.Engine. The prompter is answered inside Buy so
// tests can assert on the choice the handler derived from the request.
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Buy(ctx context.Context, req purchase.Request, p prompt.Prompter) (*domain.PurchaseResult, error) {
	choice := prompt.Ask(ctx, p, prompt.Question{Actor: req.BuyerID})
	args := m.Called(ctx, req, choice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseResult), args.Error(1)
}

func (m *MockEngine) Shutdown(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockBackupService mocks BackupService
type MockBackupService struct {
	mock.Mock
}

func (m *MockBackupService) Export(ctx context.Context, tenantID string) ([]byte, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockBackupService) Import(ctx context.Context, tenantID string, data []byte) (int, error) {
	args := m.Called(ctx, tenantID, data)
	return args.Int(0), args.Error(1)
}

// newRequest builds a request carrying chi route params and an optional actor.
// params alternate between key and value.
func newRequest(t *testing.T, method string, body any, actor string, params ...string) *http.Request {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, "/", reader)
	if actor != "" {
		req.Header.Set(HeaderActorID, actor)
	}

	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(params); i += 2 {
		rctx.URLParams.Add(params[i], params[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// answers matches a prompter that replies with want
func answers(want domain.Choice) func(prompt.Prompter) bool {
	return func(p prompt.Prompter) bool {
		return prompt.Ask(context.Background(), p, prompt.Question{}) == want
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

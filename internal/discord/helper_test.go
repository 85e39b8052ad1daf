package discord

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

const (
	testGuildID = "guild-1"
	testUserID  = "user-1"
	testAppID   = "app-1"
)

// MockRoundTripper implements http.RoundTripper for intercepting requests
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

// capturedRequest is one call the code under test made to the Discord API
type capturedRequest struct {
	Method string
	Path   string
	Body   []byte
}

// TestContext wires mocked services to a session whose REST calls are
// recorded instead of sent
type TestContext struct {
	Session      *discordgo.Session
	DiscordMocks *MockRoundTripper
	Characters   *MockCharacterService
	Inventory    *MockInventoryService
	Purchases    *MockEngine
	Backups      *MockBackupService
	Services     *Services

	// Reply overrides the canned Discord response for matching requests.
	// Returning ok=false falls back to 200 "{}".
	Reply func(req *http.Request) (status int, body string, ok bool)

	mu       sync.Mutex
	requests []capturedRequest
}

func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	session, err := discordgo.New("Bot test-token")
	require.NoError(t, err)

	tc := &TestContext{
		Session:    session,
		Characters: &MockCharacterService{},
		Inventory:  &MockInventoryService{},
		Purchases:  &MockEngine{},
		Backups:    &MockBackupService{},
	}
	// Backups stays unset so mutations skip the auto export unless a test opts in
	tc.Services = &Services{
		Characters: tc.Characters,
		Inventory:  tc.Inventory,
		Purchases:  tc.Purchases,
		Prompts:    NewPendingPrompts(),
	}

	tc.DiscordMocks = &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			tc.mu.Lock()
			tc.requests = append(tc.requests, capturedRequest{Method: req.Method, Path: req.URL.Path, Body: body})
			tc.mu.Unlock()

			status, payload := http.StatusOK, "{}"
			if tc.Reply != nil {
				if s, b, ok := tc.Reply(req); ok {
					status, payload = s, b
				}
			}
			return &http.Response{
				StatusCode: status,
				Body:       io.NopCloser(bytes.NewBufferString(payload)),
				Header:     http.Header{"Content-Type": []string{"application/json"}},
				Request:    req,
			}, nil
		},
	}
	session.Client = &http.Client{Transport: tc.DiscordMocks}

	return tc
}

// Requests returns the recorded calls whose path contains fragment
func (tc *TestContext) Requests(method, fragment string) []capturedRequest {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	var out []capturedRequest
	for _, r := range tc.requests {
		if r.Method == method && strings.Contains(r.Path, fragment) {
			out = append(out, r)
		}
	}
	return out
}

// LastResponse is the content of the last edit of the deferred response
func (tc *TestContext) LastResponse(t *testing.T) string {
	t.Helper()

	edits := tc.Requests(http.MethodPatch, "/messages/@original")
	require.NotEmpty(t, edits, "no response was sent")

	var body struct {
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(edits[len(edits)-1].Body, &body))
	return body.Content
}

// newCommand builds a guild slash command interaction from testUserID
func newCommand(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:        "interaction-1",
			AppID:     testAppID,
			Token:     "interaction-token",
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   testGuildID,
			ChannelID: "channel-1",
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: opts,
			},
			Member: &discordgo.Member{User: &discordgo.User{ID: testUserID, Username: "alice"}},
		},
	}
}

func strOpt(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: value}
}

// intOpt mirrors the gateway, which decodes integers as float64
func intOpt(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: float64(value)}
}

func userOpt(name, userID string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionUser, Value: userID}
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

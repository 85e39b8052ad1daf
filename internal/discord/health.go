package discord

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HealthStatus represents the bot's health status
type HealthStatus struct {
	Status           string    `json:"status"`
	Uptime           string    `json:"uptime"`
	Connected        bool      `json:"connected"`
	CommandsReceived int64     `json:"commands_received"`
	LastCommandTime  time.Time `json:"last_command_time,omitempty"`
	PendingPrompts   int       `json:"pending_prompts"`
}

var (
	startTime      = time.Now()
	commandCounter atomic.Int64

	lastCommandMu   sync.RWMutex
	lastCommandTime time.Time
)

// RecordCommand increments the command counter
func RecordCommand() {
	commandCounter.Add(1)
	lastCommandMu.Lock()
	lastCommandTime = time.Now()
	lastCommandMu.Unlock()
}

// HandleHealth reports whether the gateway connection is up
func (h *HTTPServer) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	connected := h.bot.Session != nil && h.bot.Session.DataReady

	lastCommandMu.RLock()
	last := lastCommandTime
	lastCommandMu.RUnlock()

	health := HealthStatus{
		Status:           "healthy",
		Uptime:           time.Since(startTime).String(),
		Connected:        connected,
		CommandsReceived: commandCounter.Load(),
		LastCommandTime:  last,
	}
	if h.bot.Services != nil && h.bot.Services.Prompts != nil {
		health.PendingPrompts = h.bot.Services.Prompts.Len()
	}

	w.Header().Set("Content-Type", "application/json")
	if !connected {
		health.Status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	// Headers are already sent; nothing useful to do with an encode error
	_ = json.NewEncoder(w).Encode(health)
}

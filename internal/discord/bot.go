package discord

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
)

// Bot represents the Discord bot
type Bot struct {
	Session  *discordgo.Session
	AppID    string
	Registry *CommandRegistry
	Services *Services
}

// Config holds the bot configuration
type Config struct {
	Token string
	AppID string
}

// New creates a new Discord bot with every command registered
func New(cfg Config, svcs *Services) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	if svcs.Prompts == nil {
		svcs.Prompts = NewPendingPrompts()
	}

	registry := NewCommandRegistry()
	registry.RegisterAll()

	return &Bot{
		Session:  s,
		AppID:    cfg.AppID,
		Registry: registry,
		Services: svcs,
	}, nil
}

// Start opens the gateway connection
func (b *Bot) Start() error {
	b.Session.AddHandler(b.ready)
	b.Session.AddHandler(b.interactionCreate)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	slog.Info(LogMsgBotRunning)
	return nil
}

// Stop closes the gateway connection
func (b *Bot) Stop() {
	if err := b.Session.Close(); err != nil {
		slog.Warn("Failed to close Discord session", "error", err)
	}
}

// Run runs the bot until ctx is cancelled or a signal is received
func (b *Bot) Run(ctx context.Context) error {
	if err := b.Start(); err != nil {
		return err
	}
	defer b.Stop()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()
	<-ctx.Done()

	return nil
}

func (b *Bot) ready(s *discordgo.Session, _ *discordgo.Ready) {
	slog.Info(LogMsgBotReady, "user", s.State.User.Username)
}

func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.Registry.Handle(s, i, b.Services)
	case discordgo.InteractionApplicationCommandAutocomplete:
		HandleAutocomplete(s, i, b.Services)
	case discordgo.InteractionMessageComponent:
		b.Services.Prompts.HandleComponent(s, i)
	}
}

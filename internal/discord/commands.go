package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/npcbot/internal/character"
	"github.com/osse101/npcbot/internal/inventory"
	"github.com/osse101/npcbot/internal/logger"
	"github.com/osse101/npcbot/internal/metrics"
	"github.com/osse101/npcbot/internal/purchase"
)

// BackupService exports and imports a guild's characters as a JSON document
type BackupService interface {
	Export(ctx context.Context, tenantID string) ([]byte, error)
	Import(ctx context.Context, tenantID string, data []byte) (int, error)
}

// Services are the domain services the commands call
type Services struct {
	Characters character.Service
	Inventory  inventory.Service
	Purchases  purchase.Engine
	Backups    BackupService
	Prompts    *PendingPrompts
}

// CommandHandler handles a slash command
type CommandHandler func(s *discordgo.Session, i *discordgo.InteractionCreate, svcs *Services)

// CommandRegistry holds the registered commands
type CommandRegistry struct {
	Commands map[string]*discordgo.ApplicationCommand
	Handlers map[string]CommandHandler
}

// NewCommandRegistry creates a new registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		Commands: make(map[string]*discordgo.ApplicationCommand),
		Handlers: make(map[string]CommandHandler),
	}
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(cmd *discordgo.ApplicationCommand, handler CommandHandler) {
	r.Commands[cmd.Name] = cmd
	r.Handlers[cmd.Name] = handler
}

// RegisterAll adds every command the bot serves
func (r *CommandRegistry) RegisterAll() {
	for _, build := range []func() (*discordgo.ApplicationCommand, CommandHandler){
		PingCommand,
		CreateCharacterCommand,
		EditCharacterCommand,
		DeleteCharacterCommand,
		DeleteAllCharactersCommand,
		AllowCharacterCommand,
		ViewCharacterCommand,
		AddInventoryCommand,
		EditInventoryCommand,
		RemoveInventoryCommand,
		AddStockCommand,
		SeeInventoryCommand,
		BuyItemCommand,
		SpeakAsCommand,
		InitCommand,
		ExportCharactersCommand,
		LoadCharactersFromMessageCommand,
	} {
		r.Register(build())
	}
}

// Handle processes an application command interaction
func (r *CommandRegistry) Handle(s *discordgo.Session, i *discordgo.InteractionCreate, svcs *Services) {
	name := i.ApplicationCommandData().Name
	h, ok := r.Handlers[name]
	if !ok {
		return
	}
	RecordCommand()
	metrics.DiscordCommandsTotal.WithLabelValues(name).Inc()
	h(s, i, svcs)
}

// RegisterCommands intelligently registers/updates commands with Discord
// Only performs updates if commands have changed to avoid rate limits
func (b *Bot) RegisterCommands(registry *CommandRegistry, forceUpdate bool) error {
	slog.Info("Checking Discord commands...")

	existingCmds, err := b.Session.ApplicationCommands(b.AppID, "")
	if err != nil {
		return fmt.Errorf("failed to fetch existing commands: %w", err)
	}

	desiredCmds := make([]*discordgo.ApplicationCommand, 0, len(registry.Commands))
	for _, cmd := range registry.Commands {
		desiredCmds = append(desiredCmds, cmd)
	}

	if !forceUpdate && commandsEqual(existingCmds, desiredCmds) {
		slog.Info("Commands unchanged, skipping registration", "count", len(existingCmds))
		return nil
	}

	slog.Info("Updating commands",
		"force", forceUpdate,
		"existing", len(existingCmds),
		"desired", len(desiredCmds))

	if _, err := b.Session.ApplicationCommandBulkOverwrite(b.AppID, "", desiredCmds); err != nil {
		return fmt.Errorf("failed to update commands: %w", err)
	}

	slog.Info("Commands updated successfully", "count", len(desiredCmds))
	return nil
}

// commandsEqual checks if two command sets are equivalent
func commandsEqual(existing, desired []*discordgo.ApplicationCommand) bool {
	if len(existing) != len(desired) {
		return false
	}

	existingMap := make(map[string]*discordgo.ApplicationCommand, len(existing))
	for _, cmd := range existing {
		existingMap[cmd.Name] = cmd
	}

	for _, d := range desired {
		e, ok := existingMap[d.Name]
		if !ok || !commandEqual(e, d) {
			return false
		}
	}
	return true
}

// commandEqual checks if two commands are equivalent
func commandEqual(a, b *discordgo.ApplicationCommand) bool {
	if a.Name != b.Name || a.Description != b.Description {
		return false
	}

	if (a.DefaultMemberPermissions == nil) != (b.DefaultMemberPermissions == nil) {
		return false
	}
	if a.DefaultMemberPermissions != nil && *a.DefaultMemberPermissions != *b.DefaultMemberPermissions {
		return false
	}

	if len(a.Options) != len(b.Options) {
		return false
	}
	for i := range a.Options {
		if !optionEqual(a.Options[i], b.Options[i]) {
			return false
		}
	}
	return true
}

// optionEqual checks if two command options are equivalent
func optionEqual(a, b *discordgo.ApplicationCommandOption) bool {
	if a.Type != b.Type || a.Name != b.Name || a.Description != b.Description ||
		a.Required != b.Required || a.Autocomplete != b.Autocomplete {
		return false
	}

	if len(a.Choices) != len(b.Choices) {
		return false
	}
	for i := range a.Choices {
		if a.Choices[i].Name != b.Choices[i].Name || a.Choices[i].Value != b.Choices[i].Value {
			return false
		}
	}
	return true
}

// commandContext returns a context carrying the interaction id as request id
func commandContext(i *discordgo.InteractionCreate) context.Context {
	return logger.WithRequestID(context.Background(), i.ID)
}

// deferResponse acknowledges an interaction with a deferred ephemeral message.
// Required before any operation that might take longer than 3 seconds.
// Returns false if deferral failed (should return early from handler).
func deferResponse(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		slog.Error("Failed to send deferred response", "error", err)
		return false
	}
	return true
}

// respond replaces the deferred response with message
func respond(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &message,
	}); err != nil {
		slog.Error(LogMsgRespondFailed, "error", err)
	}
}

// followup sends an additional ephemeral message after the deferred response
func followup(s *discordgo.Session, i *discordgo.InteractionCreate, message string) *discordgo.Message {
	msg, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: message,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		slog.Error(LogMsgFollowupFailed, "error", err)
		return nil
	}
	return msg
}

// respondServiceError logs err and shows its friendly form
func respondServiceError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, character, item string) {
	logger.FromContext(commandContext(i)).Warn(LogMsgCommandFailed,
		"command", i.ApplicationCommandData().Name,
		"guild_id", i.GuildID,
		"error", err)
	respond(s, i, describeError(err, character, item))
}

// requireGuild answers commands sent outside a guild. Returns false when
// the handler should stop.
func requireGuild(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.GuildID != "" {
		return true
	}
	respond(s, i, MsgGuildOnly)
	return false
}

// getInteractionUser extracts the user from an interaction.
// Handles both guild (i.Member.User) and DM (i.User) contexts.
func getInteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	if i.User != nil {
		return i.User
	}
	return &discordgo.User{}
}

// commandOptions indexes the options of a command by name
type commandOptions map[string]*discordgo.ApplicationCommandInteractionDataOption

func getOptions(i *discordgo.InteractionCreate) commandOptions {
	opts := make(commandOptions)
	for _, opt := range i.ApplicationCommandData().Options {
		opts[opt.Name] = opt
	}
	return opts
}

func (o commandOptions) String(name string) string {
	if opt, ok := o[name]; ok {
		return strings.TrimSpace(opt.StringValue())
	}
	return ""
}

// OptionalString is nil when the option was not passed
func (o commandOptions) OptionalString(name string) *string {
	if opt, ok := o[name]; ok {
		v := strings.TrimSpace(opt.StringValue())
		return &v
	}
	return nil
}

func (o commandOptions) Int(name string, fallback int) int {
	if opt, ok := o[name]; ok {
		return int(opt.IntValue())
	}
	return fallback
}

// OptionalInt is nil when the option was not passed
func (o commandOptions) OptionalInt(name string) *int {
	if opt, ok := o[name]; ok {
		v := int(opt.IntValue())
		return &v
	}
	return nil
}

// createEmbed creates a standard embed with the bot footer
func createEmbed(title, description string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Footer:      &discordgo.MessageEmbedFooter{Text: FooterNPC},
	}
}

// Option builders shared by several commands

func characterOption(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         name,
		Description:  description,
		Required:     true,
		Autocomplete: true,
		MaxLength:    50,
	}
}

func itemOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         OptItemName,
		Description:  description,
		Required:     true,
		Autocomplete: true,
		MaxLength:    100,
	}
}

func intOption(name, description string, required bool, minValue float64) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        name,
		Description: description,
		Required:    required,
		MinValue:    &minValue,
	}
}

func stringOption(name, description string, required bool, maxLength int) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    required,
		MaxLength:   maxLength,
	}
}

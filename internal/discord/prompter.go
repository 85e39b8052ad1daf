package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/osse101/npcbot/internal/domain"
	"github.com/osse101/npcbot/internal/prompt"
)

type pendingPrompt struct {
	actor  string
	answer chan domain.Choice
}

// PendingPrompts tracks prompts waiting for a button press
type PendingPrompts struct {
	mu      sync.Mutex
	pending map[string]*pendingPrompt
}

// NewPendingPrompts creates an empty registry
func NewPendingPrompts() *PendingPrompts {
	return &PendingPrompts{pending: make(map[string]*pendingPrompt)}
}

// open registers a prompt for actor and returns its id and answer channel
func (p *PendingPrompts) open(actor string) (string, <-chan domain.Choice) {
	id := uuid.NewString()
	pp := &pendingPrompt{actor: actor, answer: make(chan domain.Choice, 1)}

	p.mu.Lock()
	p.pending[id] = pp
	p.mu.Unlock()
	return id, pp.answer
}

func (p *PendingPrompts) close(id string) {
	p.mu.Lock()
	delete(p.pending, id)
	p.mu.Unlock()
}

// Len is the number of prompts still waiting
func (p *PendingPrompts) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

type resolveResult int

const (
	resolved resolveResult = iota
	resolveExpired
	resolveWrongUser
)

// resolve delivers choice to the prompt id if user may answer it. The
// prompt is removed so a second press finds it expired.
func (p *PendingPrompts) resolve(id, user string, choice domain.Choice) resolveResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	pp, ok := p.pending[id]
	if !ok {
		return resolveExpired
	}
	if pp.actor != "" && pp.actor != user {
		return resolveWrongUser
	}
	delete(p.pending, id)
	pp.answer <- choice
	return resolved
}

func promptCustomID(id, action string) string {
	return strings.Join([]string{promptPrefix, id, action}, ":")
}

// parsePromptCustomID splits prompt:<id>:<action>
func parsePromptCustomID(customID string) (id string, choice domain.Choice, ok bool) {
	parts := strings.Split(customID, ":")
	if len(parts) != 3 || parts[0] != promptPrefix || parts[1] == "" {
		return "", domain.ChoiceTimedOut, false
	}
	switch parts[2] {
	case promptAccept:
		return parts[1], domain.ChoiceAccepted, true
	case promptDecline:
		return parts[1], domain.ChoiceDeclined, true
	}
	return "", domain.ChoiceTimedOut, false
}

// HandleComponent answers a prompt button press
func (p *PendingPrompts) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	id, choice, ok := parsePromptCustomID(data.CustomID)
	if !ok {
		slog.Warn(LogMsgUnknownComponent, "custom_id", data.CustomID)
		return
	}

	user := getInteractionUser(i)
	switch p.resolve(id, user.ID, choice) {
	case resolveWrongUser:
		respondEphemeral(s, i, MsgPromptNotYours)
	case resolveExpired:
		updatePromptMessage(s, i, MsgPromptExpired)
	default:
		text := ""
		if i.Message != nil {
			text = i.Message.Content
		}
		updatePromptMessage(s, i, fmt.Sprintf(MsgPromptAnswered, text, choice))
	}
}

// ButtonPrompter asks questions as an ephemeral followup with two buttons
type ButtonPrompter struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
	prompts     *PendingPrompts
}

// NewButtonPrompter prompts within the deferred interaction i
func NewButtonPrompter(s *discordgo.Session, i *discordgo.Interaction, prompts *PendingPrompts) *ButtonPrompter {
	return &ButtonPrompter{session: s, interaction: i, prompts: prompts}
}

// Ask implements prompt.Prompter
func (b *ButtonPrompter) Ask(ctx context.Context, q prompt.Question) (domain.Choice, error) {
	id, answer := b.prompts.open(q.Actor)
	defer b.prompts.close(id)

	msg, err := b.session.FollowupMessageCreate(b.interaction, true, &discordgo.WebhookParams{
		Content: q.Text,
		Flags:   discordgo.MessageFlagsEphemeral,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: q.AcceptLabel, Style: discordgo.PrimaryButton, CustomID: promptCustomID(id, promptAccept)},
				discordgo.Button{Label: q.DeclineLabel, Style: discordgo.SecondaryButton, CustomID: promptCustomID(id, promptDecline)},
			}},
		},
	})
	if err != nil {
		slog.Error(LogMsgPromptSendFailed, "actor", q.Actor, "error", err)
		return domain.ChoiceTimedOut, fmt.Errorf("failed to send prompt: %w", err)
	}

	select {
	case choice := <-answer:
		return choice, nil
	case <-ctx.Done():
		if msg != nil {
			b.expire(msg.ID, q.Text)
		}
		return domain.ChoiceTimedOut, ctx.Err()
	}
}

// expire strips the buttons from an unanswered prompt
func (b *ButtonPrompter) expire(messageID, text string) {
	content := text + "\n" + MsgPromptExpired
	empty := []discordgo.MessageComponent{}
	if _, err := b.session.FollowupMessageEdit(b.interaction, messageID, &discordgo.WebhookEdit{
		Content:    &content,
		Components: &empty,
	}); err != nil {
		slog.Warn(LogMsgFollowupFailed, "error", err)
	}
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: message, Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		slog.Error(LogMsgRespondFailed, "error", err)
	}
}

func updatePromptMessage(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    message,
			Components: []discordgo.MessageComponent{},
		},
	}); err != nil {
		slog.Error(LogMsgRespondFailed, "error", err)
	}
}

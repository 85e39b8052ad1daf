package discord

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/npcbot/internal/permission"
)

// SpeakAsCommand relays a message into the channel under the character's name and avatar
func SpeakAsCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdSpeakAs,
		Description: "Send a message as a character",
		Options: []*discordgo.ApplicationCommandOption{
			characterOption(OptCharacter, "The character to speak as"),
			stringOption(OptMessage, "The message to send", true, 2000),
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svcs *Services) {
		if !deferResponse(s, i) || !requireGuild(s, i) {
			return
		}

		opts := getOptions(i)
		name := opts.String(OptCharacter)
		c, err := svcs.Characters.Get(commandContext(i), i.GuildID, name)
		if err == nil {
			err = permission.RequireAllowed(c, getInteractionUser(i).ID)
		}
		if err != nil {
			respondServiceError(s, i, err, name, "")
			return
		}

		hook, err := characterWebhook(s, i.ChannelID)
		if err == nil {
			_, err = s.WebhookExecute(hook.ID, hook.Token, false, &discordgo.WebhookParams{
				Content:   opts.String(OptMessage),
				Username:  c.Name,
				AvatarURL: c.ImageURL,
			})
		}
		if err != nil {
			slog.Error(LogMsgWebhookFailed, "channel_id", i.ChannelID, "character", c.Name, "error", err)
			respond(s, i, MsgSpeakFailed)
			return
		}

		respond(s, i, MsgSuccess)
		deleteResponseAfter(s, i, successDeleteDelay)
	}

	return cmd, handler
}

// characterWebhook returns the channel's relay webhook, creating it on first use
func characterWebhook(s *discordgo.Session, channelID string) (*discordgo.Webhook, error) {
	hooks, err := s.ChannelWebhooks(channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	for _, h := range hooks {
		if h.Name == CharacterWebhook && h.Token != "" {
			return h, nil
		}
	}

	hook, err := s.WebhookCreate(channelID, CharacterWebhook, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook: %w", err)
	}
	return hook, nil
}

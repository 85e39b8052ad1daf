package discord

import (
	"bytes"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// findChannel returns the guild text channel called name, or nil
func findChannel(s *discordgo.Session, guildID, name string) (*discordgo.Channel, error) {
	channels, err := s.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText && ch.Name == name {
			return ch, nil
		}
	}
	return nil, nil
}

// ensurePrivateChannel finds the named channel or creates it hidden from
// everyone but the bot
func ensurePrivateChannel(s *discordgo.Session, guildID, name, topic string) (*discordgo.Channel, bool, error) {
	ch, err := findChannel(s, guildID, name)
	if err != nil {
		return nil, false, err
	}
	if ch != nil {
		return ch, false, nil
	}

	// The @everyone role shares the guild's id
	overwrites := []*discordgo.PermissionOverwrite{{
		ID:   guildID,
		Type: discordgo.PermissionOverwriteTypeRole,
		Deny: discordgo.PermissionViewChannel,
	}}
	if s.State != nil && s.State.User != nil {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    s.State.User.ID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionAttachFiles | discordgo.PermissionReadMessageHistory,
		})
	}

	ch, err = s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                topic,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to create channel %s: %w", name, err)
	}
	return ch, true, nil
}

// sendJSONFile posts data to the channel as an attachment called filename
func sendJSONFile(s *discordgo.Session, channelID, filename string, data []byte) error {
	_, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Files: []*discordgo.File{{
			Name:        filename,
			ContentType: "application/json",
			Reader:      bytes.NewReader(data),
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to send %s: %w", filename, err)
	}
	return nil
}

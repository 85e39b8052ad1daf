package discord

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/npcbot/internal/backup"
	"github.com/osse101/npcbot/internal/domain"
	"github.com/osse101/npcbot/internal/logger"
)

var adminPermission int64 = discordgo.PermissionAdministrator

// InitCommand loads the latest backup from the backup channel, creating
// the channel when it does not exist yet
func InitCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:                     CmdInit,
		Description:              "Init or refresh the character data from the backup channel",
		DefaultMemberPermissions: &adminPermission,
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svcs *Services) {
		if !deferResponse(s, i) || !requireGuild(s, i) {
			return
		}

		ch, created, err := ensurePrivateChannel(s, i.GuildID, BackupChannel, backupChannelTopic)
		if err != nil {
			slog.Error(LogMsgCommandFailed, "command", CmdInit, "error", err)
			respond(s, i, MsgGenericError)
			return
		}
		if created {
			respond(s, i, MsgBackupCreated)
			return
		}

		messages, err := s.ChannelMessages(ch.ID, 1, "", "", "")
		if err != nil {
			slog.Error(LogMsgCommandFailed, "command", CmdInit, "error", err)
			respond(s, i, MsgGenericError)
			return
		}
		if len(messages) == 0 {
			respond(s, i, MsgNoBackupMessage)
			return
		}

		loadFromMessage(s, i, svcs, messages[0])
	}

	return cmd, handler
}

// LoadCharactersFromMessageCommand imports the backup attached to a message
// in the current channel
func LoadCharactersFromMessageCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:                     CmdLoadFromMessage,
		Description:              "Load characters from a JSON message",
		DefaultMemberPermissions: &adminPermission,
		Options: []*discordgo.ApplicationCommandOption{
			stringOption(OptMessageID, "The ID of the message containing the JSON data", true, 32),
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svcs *Services) {
		if !deferResponse(s, i) || !requireGuild(s, i) {
			return
		}

		messageID := getOptions(i).String(OptMessageID)
		msg, err := s.ChannelMessage(i.ChannelID, messageID)
		if err != nil {
			slog.Warn(LogMsgCommandFailed, "command", CmdLoadFromMessage, "message_id", messageID, "error", err)
			respond(s, i, fmt.Sprintf(MsgMessageNotFound, messageID))
			return
		}

		loadFromMessage(s, i, svcs, msg)
	}

	return cmd, handler
}

// ExportCharactersCommand posts the guild's characters to the backup channel
func ExportCharactersCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdExportCharacters,
		Description: "Export the list of characters as JSON to the back up channel",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svcs *Services) {
		if !deferResponse(s, i) || !requireGuild(s, i) {
			return
		}

		if err := exportCharacters(s, svcs, i, false); err != nil {
			respondServiceError(s, i, err, "", "")
			return
		}
		respond(s, i, MsgExported)
	}

	return cmd, handler
}

// exportCharacters writes the current backup document to the backup channel.
// With allowEmpty an empty guild exports "{}" instead of failing.
func exportCharacters(s *discordgo.Session, svcs *Services, i *discordgo.InteractionCreate, allowEmpty bool) error {
	ctx := commandContext(i)

	data, err := svcs.Backups.Export(ctx, i.GuildID)
	if allowEmpty && errors.Is(err, backup.ErrNoCharacters) {
		// An empty document keeps older backups recoverable in the history
		data, err = []byte("{}"), nil
	}
	if err != nil {
		return err
	}

	ch, _, err := ensurePrivateChannel(s, i.GuildID, BackupChannel, backupChannelTopic)
	if err != nil {
		return err
	}
	return sendJSONFile(s, ch.ID, backup.FileName, data)
}

// autoExport refreshes the backup after a character change. Failures are
// logged and never reach the user.
func autoExport(s *discordgo.Session, svcs *Services, i *discordgo.InteractionCreate) {
	if svcs.Backups == nil {
		return
	}
	if err := exportCharacters(s, svcs, i, true); err != nil {
		logger.FromContext(commandContext(i)).Warn(LogMsgAutoExportFailed, "guild_id", i.GuildID, "error", err)
	}
}

// loadFromMessage downloads the first attachment of msg and imports it
func loadFromMessage(s *discordgo.Session, i *discordgo.InteractionCreate, svcs *Services, msg *discordgo.Message) {
	if len(msg.Attachments) == 0 {
		respond(s, i, MsgNoAttachment)
		return
	}

	data, err := downloadAttachment(s, msg.Attachments[0])
	if err != nil {
		slog.Warn(LogMsgCommandFailed, "command", "load backup", "error", err)
		respond(s, i, MsgBackupUnreachable)
		return
	}

	imported, err := svcs.Backups.Import(commandContext(i), i.GuildID, data)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			respond(s, i, MsgInvalidBackup)
			return
		}
		respondServiceError(s, i, err, "", "")
		return
	}

	respond(s, i, fmt.Sprintf(MsgCharactersLoaded, imported))
}

// downloadAttachment fetches an attachment through the session's HTTP client
func downloadAttachment(s *discordgo.Session, a *discordgo.MessageAttachment) ([]byte, error) {
	if a.Size > maxBackupBytes {
		return nil, fmt.Errorf("attachment %s is %d bytes, limit is %d", a.Filename, a.Size, maxBackupBytes)
	}

	resp, err := s.Client.Get(a.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("attachment download returned status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBackupBytes))
}

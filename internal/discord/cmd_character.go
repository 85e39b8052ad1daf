package discord

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/npcbot/internal/backup"
	"github.com/osse101/npcbot/internal/character"
	"github.com/osse101/npcbot/internal/domain"
	"github.com/osse101/npcbot/internal/logger"
	"github.com/osse101/npcbot/internal/permission"
)

// CreateCharacterCommand returns the create_character command definition and handler
func CreateCharacterCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdCreateCharacter,
		Description: "Create a character specific to this guild.",
		Options: []*discordgo.ApplicationCommandOption{
			stringOption(OptName, "The name of the character (50 character limit)", true, domain.MaxCharacterNameLength),
			stringOption(OptImageURL, "Image URL for the character", false, domain.MaxImageURLLength),
			stringOption(OptBackground, "Description for the character (1000 character limit)", false, domain.MaxBackgroundLength),
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svcs *Services) {
		if !deferResponse(s, i) || !requireGuild(s, i) {
			return
		}

		opts := getOptions(i)
		name := opts.String(OptName)
		user := getInteractionUser(i)

		c, err := svcs.Characters.Create(commandContext(i), i.GuildID, name, opts.String(OptImageURL), opts.String(OptBackground), user.ID)
		if err != nil {
			respondServiceError(s, i, err, name, "")
			return
		}

		respond(s, i, fmt.Sprintf(MsgCharacterCreated, c.Name))
		autoExport(s, svcs, i)
	}

	return cmd, handler
}

// EditCharacterCommand returns the edit_character command definition and handler
func EditCharacterCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdEditCharacter,
		Description: "Edit a character's information.",
		Options: []*discordgo.ApplicationCommandOption{
			characterOption(OptName, "The name of the character to edit"),
			stringOption(OptNewName, "New name for the character (optional)", false, domain.MaxCharacterNameLength),
			stringOption(OptImageURL, "Image URL for the character (optional)", false, domain.MaxImageURLLength),
			stringOption(OptBackground, "New description for the character (optional)", false, domain.MaxBackgroundLength),
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svcs *Services) {
		if !deferResponse(s, i) || !requireGuild(s, i) {
			return
		}

		opts := getOptions(i)
		name := opts.String(OptName)
		patch := domain.CharacterPatch{
			NewName:    opts.OptionalString(OptNewName),
			ImageURL:   opts.OptionalString(OptImageURL),
			Background: opts.OptionalString(OptBackground),
		}
		if patch.IsEmpty() {
			respond(s, i, MsgNothingToChange)
			return
		}

		c, err := svcs.Characters.Edit(commandContext(i), i.GuildID, name, patch, getInteractionUser(i).ID)
		if err != nil {
			shown := name
			if patch.NewName != nil && errors.Is(err, domain.ErrDuplicateName) {
				shown = *patch.NewName
			}
			respondServiceError(s, i, err, shown, "")
			return
		}

		respond(s, i, fmt.Sprintf(MsgCharacterUpdated, c.Name))
		autoExport(s, svcs, i)
	}

	return cmd, handler
}

// DeleteCharacterCommand returns the delete_character command definition and handler
func DeleteCharacterCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdDeleteCharacter,
		Description: "Delete a character from this guild.",
		Options: []*discordgo.ApplicationCommandOption{
			characterOption(OptName, "The character to delete"),
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svcs *Services) {
		if !deferResponse(s, i) || !requireGuild(s, i) {
			return
		}

		name := getOptions(i).String(OptName)
		if err := svcs.Characters.Delete(commandContext(i), i.GuildID, name, getInteractionUser(i).ID); err != nil {
			respondServiceError(s, i, err, name, "")
			return
		}

		respond(s, i, fmt.Sprintf(MsgCharacterDeleted, name))
		autoExport(s, svcs, i)
	}

	return cmd, handler
}

// DeleteAllCharactersCommand asks for confirmation with buttons before
// wiping every character in the guild. No answer cancels.
func DeleteAllCharactersCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:                     CmdDeleteAll,
		Description:              "Delete all characters from this guild.",
		DefaultMemberPermissions: &adminPermission,
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svcs *Services) {
		if !deferResponse(s, i) || !requireGuild(s, i) {
			return
		}

		ctx := commandContext(i)
		user := getInteractionUser(i)
		prompter := NewButtonPrompter(s, i.Interaction, svcs.Prompts)

		result, err := svcs.Characters.DeleteAll(ctx, i.GuildID, user.ID, prompter)
		if err != nil {
			respondServiceError(s, i, err, "", "")
			return
		}

		if result.Outcome != character.DeleteAllConfirmed {
			respond(s, i, MsgDeleteAllCancel)
			return
		}

		logger.FromContext(ctx).Info("Deleted all characters", "guild_id", i.GuildID, "deleted", result.Deleted)
		respond(s, i, MsgDeleteAllDone)
		autoExport(s, svcs, i)
	}

	return cmd, handler
}

// AllowCharacterCommand returns the allow_character command definition and handler
func AllowCharacterCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdAllowCharacter,
		Description: "Allow another user to use a character in this guild.",
		Options: []*discordgo.ApplicationCommandOption{
			characterOption(OptCharacter, "The character to share"),
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        OptUser,
				Description: "The user to allow",
				Required:    true,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svcs *Services) {
		if !deferResponse(s, i) || !requireGuild(s, i) {
			return
		}

		opts := getOptions(i)
		name := opts.String(OptCharacter)
		opt, ok := opts[OptUser]
		if !ok {
			respond(s, i, fmt.Sprintf(MsgInvalidInput, "user is required"))
			return
		}
		// The id is all that is stored; skip the user lookup
		grantee := opt.UserValue(nil)

		if _, err := svcs.Characters.GrantAccess(commandContext(i), i.GuildID, name, getInteractionUser(i).ID, grantee.ID); err != nil {
			respondServiceError(s, i, err, name, "")
			return
		}

		respond(s, i, fmt.Sprintf(MsgAccessGranted, grantee.Mention(), name))
		autoExport(s, svcs, i)
	}

	return cmd, handler
}

// ViewCharacterCommand posts the character as a JSON file in the channel
func ViewCharacterCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdViewCharacter,
		Description: "View a character's information.",
		Options: []*discordgo.ApplicationCommandOption{
			characterOption(OptCharacter, "The character to view"),
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svcs *Services) {
		if !deferResponse(s, i) || !requireGuild(s, i) {
			return
		}

		name := getOptions(i).String(OptCharacter)
		c, err := svcs.Characters.Get(commandContext(i), i.GuildID, name)
		if err == nil {
			err = permission.RequireAllowed(c, getInteractionUser(i).ID)
		}
		if err != nil {
			respondServiceError(s, i, err, name, "")
			return
		}

		data, err := backup.Encode([]domain.Character{*c})
		if err == nil {
			err = sendJSONFile(s, i.ChannelID, backup.FileName, data)
		}
		if err != nil {
			slog.Error(LogMsgCommandFailed, "command", CmdViewCharacter, "error", err)
			respond(s, i, MsgGenericError)
			return
		}

		respond(s, i, MsgSuccess)
		deleteResponseAfter(s, i, successDeleteDelay)
	}

	return cmd, handler
}

// deleteResponseAfter removes the deferred response once delay has passed
func deleteResponseAfter(s *discordgo.Session, i *discordgo.InteractionCreate, delay time.Duration) {
	time.AfterFunc(delay, func() {
		if err := s.InteractionResponseDelete(i.Interaction); err != nil {
			slog.Debug(LogMsgRespondFailed, "error", err)
		}
	})
}

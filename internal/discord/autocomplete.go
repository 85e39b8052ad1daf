package discord

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
)

// HandleAutocomplete suggests character or item names for whichever option is focused
func HandleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate, svcs *Services) {
	if i.GuildID == "" {
		respondAutocomplete(s, i, nil)
		return
	}

	data := i.ApplicationCommandData()
	focused := focusedOption(data.Options)
	if focused == nil {
		slog.Warn(LogMsgUnhandledAutoc, "command", data.Name)
		respondAutocomplete(s, i, nil)
		return
	}

	var (
		names []string
		err   error
	)
	switch focused.Name {
	case OptCharacter, OptName:
		names, err = characterNames(i, svcs)
	case OptItemName:
		names, err = itemNames(i, svcs, getOptions(i).String(OptCharacter))
	default:
		slog.Warn(LogMsgUnhandledAutoc, "command", data.Name, "option", focused.Name)
	}
	if err != nil {
		slog.Debug(LogMsgAutocompleteFailed, "command", data.Name, "error", err)
	}

	respondAutocomplete(s, i, matchChoices(names, focused.StringValue()))
}

func focusedOption(options []*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range options {
		if opt.Focused {
			return opt
		}
	}
	return nil
}

func characterNames(i *discordgo.InteractionCreate, svcs *Services) ([]string, error) {
	characters, err := svcs.Characters.ListAll(commandContext(i), i.GuildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	names := make([]string, len(characters))
	for n, c := range characters {
		names[n] = c.Name
	}
	return names, nil
}

func itemNames(i *discordgo.InteractionCreate, svcs *Services, character string) ([]string, error) {
	if character == "" {
		return nil, nil
	}
	view, err := svcs.Inventory.ListItems(commandContext(i), i.GuildID, character, getInteractionUser(i).ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items of %s: %w", character, err)
	}
	names := make([]string, len(view.Items))
	for n, item := range view.Items {
		names[n] = item.Name
	}
	return names, nil
}

// matchChoices keeps the names containing typed, capped at Discord's choice limit
func matchChoices(names []string, typed string) []*discordgo.ApplicationCommandOptionChoice {
	// A Caser holds state, so each call gets its own
	fold := cases.Fold()
	needle := fold.String(typed)
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, min(len(names), maxAutocompleteChoices))
	for _, name := range names {
		if needle != "" && !strings.Contains(fold.String(name), needle) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: name})
		if len(choices) >= maxAutocompleteChoices {
			break
		}
	}
	return choices
}

func respondAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate, choices []*discordgo.ApplicationCommandOptionChoice) {
	if choices == nil {
		choices = []*discordgo.ApplicationCommandOptionChoice{}
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	})
	if err != nil {
		slog.Error(LogMsgRespondFailed, "error", err)
	}
}

package discord

import (
	"errors"
	"fmt"

	"github.com/osse101/npcbot/internal/backup"
	"github.com/osse101/npcbot/internal/domain"
)

// Friendly message constants for Discord responses
const (
	// Characters
	MsgCharacterNotFound = "Character `%s` does not exist in this guild."
	MsgDuplicateName     = "A character with the name `%s` already exists in this guild!"
	MsgNotOwner          = "You are not the owner of this character."
	MsgNotAllowed        = "You do not have permission to use this character."
	MsgCharacterCreated  = "Character `%s` created and saved for this guild."
	MsgCharacterUpdated  = "Character `%s` has been updated."
	MsgCharacterDeleted  = "Character `%s` has been deleted."
	MsgAccessGranted     = "User %s can now use the character `%s` in this guild."
	MsgNothingToChange   = "Nothing to change. Pass at least one field to edit."
	MsgDeleteAllDone     = "All characters have been deleted from this guild."
	MsgDeleteAllCancel   = "Deletion of all characters has been cancelled."
	MsgDeleteAllPending  = "A delete-all confirmation is already waiting for an answer."
	MsgGuildOnly         = "This command can only be used inside a server."

	// Inventory
	MsgItemNotFound      = "Item `%s` does not exist in character `%s`'s inventory."
	MsgDuplicateItem     = "Item `%s` already exists in character `%s`'s inventory."
	MsgItemAdded         = "Item `%s` added to character `%s`'s inventory."
	MsgItemEdited        = "Item `%s` edited in character `%s`'s inventory."
	MsgItemRemoved       = "Item `%s` removed from character `%s`'s inventory."
	MsgStockAdded        = "Stock of item `%s` in character `%s`'s inventory is now %d."
	MsgInsufficientStock = "Character `%s` does not have enough stock of item `%s`."
	MsgInventoryHeader   = "Character `%s`'s inventory:\n%s"

	// Purchases
	MsgBarterSuccess   = "Barter successful! Rolled %d. Price reduced to %d."
	MsgBarterFailure   = "Barter failed! Rolled %d. Price remains at %d."
	MsgItemBought      = "Bought %d of item `%s` from character `%s` for %d gold."
	MsgStockChanged    = "Purchase failed: the stock of `%s` changed while you were deciding."
	MsgItemGone        = "Purchase failed: `%s` was removed while you were deciding."
	MsgPurchaseFailure = "Purchase failed. Please try again."

	// Backups
	MsgNoCharacters      = "No characters to export."
	MsgExported          = "Characters exported successfully."
	MsgNoBackupMessage   = "No backup message found in the private channel."
	MsgBackupCreated     = "Backup channel created. Add a character JSON to that channel and rerun the command to upload."
	MsgNoAttachment      = "No file attachments found in the message."
	MsgInvalidBackup     = "The file content is not a valid character backup."
	MsgCharactersLoaded  = "Characters loaded successfully. %d added."
	MsgMessageNotFound   = "Could not find message `%s` in this channel."
	MsgBackupUnreachable = "Failed to load character data. The attachment could not be downloaded."

	// Prompts
	MsgPromptNotYours = "This prompt is not for you."
	MsgPromptExpired  = "This prompt has expired."
	MsgPromptAnswered = "%s\n**%s**"

	MsgSpeakFailed = "Failed to send message due to an error. Please check your character settings or try again later."

	MsgSuccess      = "Success!"
	MsgInvalidInput = "Invalid input: %s"
	MsgGenericError = "Something went wrong. Please try again later."
)

// describeError turns a service error into the message shown to the user.
// character and item are used to fill in the message when relevant.
func describeError(err error, character, item string) string {
	switch {
	case errors.Is(err, domain.ErrPurchaseFailed):
		if errors.Is(err, domain.ErrInsufficientStock) {
			return fmt.Sprintf(MsgStockChanged, item)
		}
		if errors.Is(err, domain.ErrItemNotFound) {
			return fmt.Sprintf(MsgItemGone, item)
		}
		return MsgPurchaseFailure
	case errors.Is(err, backup.ErrNoCharacters):
		return MsgNoCharacters
	case errors.Is(err, domain.ErrCharacterNotFound):
		return fmt.Sprintf(MsgCharacterNotFound, character)
	case errors.Is(err, domain.ErrItemNotFound):
		return fmt.Sprintf(MsgItemNotFound, item, character)
	case errors.Is(err, domain.ErrDuplicateName):
		return fmt.Sprintf(MsgDuplicateName, character)
	case errors.Is(err, domain.ErrDuplicateItem):
		return fmt.Sprintf(MsgDuplicateItem, item, character)
	case errors.Is(err, domain.ErrNotOwner):
		return MsgNotOwner
	case errors.Is(err, domain.ErrNotAllowed):
		return MsgNotAllowed
	case errors.Is(err, domain.ErrInsufficientStock):
		return fmt.Sprintf(MsgInsufficientStock, character, item)
	case errors.Is(err, domain.ErrConfirmationPending):
		return MsgDeleteAllPending
	case errors.Is(err, domain.ErrInvalidInput):
		return fmt.Sprintf(MsgInvalidInput, err.Error())
	}
	return MsgGenericError
}

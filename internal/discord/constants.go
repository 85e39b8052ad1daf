package discord

import "time"

// Channels and webhooks the bot creates on demand
const (
	BackupChannel      = "npc-character-backup"
	TransactionChannel = "npc-transactions"
	CharacterWebhook   = "NpcCharacterWebhook"

	backupChannelTopic      = "NPC-generated channel for storing character data backups."
	transactionChannelTopic = "NPC-generated channel for posting transaction data."
)

// Command names
const (
	CmdPing             = "ping"
	CmdCreateCharacter  = "create_character"
	CmdEditCharacter    = "edit_character"
	CmdDeleteCharacter  = "delete_character"
	CmdDeleteAll        = "delete_all_characters"
	CmdAllowCharacter   = "allow_character"
	CmdViewCharacter    = "view_character"
	CmdAddInventory     = "add_inventory"
	CmdEditInventory    = "edit_inventory"
	CmdRemoveInventory  = "remove_inventory"
	CmdAddStock         = "add_stock"
	CmdSeeInventory     = "see_inventory"
	CmdBuyItem          = "buy_item"
	CmdSpeakAs          = "speak_as"
	CmdInit             = "init"
	CmdExportCharacters = "export_characters"
	CmdLoadFromMessage  = "load_characters_from_message"
)

// Option names
const (
	OptName              = "name"
	OptCharacter         = "character"
	OptNewName           = "new_name"
	OptImageURL          = "image_url"
	OptBackground        = "background"
	OptUser              = "user"
	OptItemName          = "item_name"
	OptNewItemName       = "new_item_name"
	OptQuantity          = "quantity"
	OptInfo              = "info"
	OptPrice             = "price"
	OptDiscount          = "discount"
	OptDiscountThreshold = "discount_threshold"
	OptMessage           = "message"
	OptMessageID         = "message_id"
)

// Prompt button custom ids look like prompt:<uuid>:accept
const (
	promptPrefix  = "prompt"
	promptAccept  = "accept"
	promptDecline = "decline"
)

const (
	maxAutocompleteChoices = 25
	maxBackupBytes         = 1 << 20
	successDeleteDelay     = 2 * time.Second
	FooterNPC              = "NPC Bot"
)

// Log messages
const (
	LogMsgBotReady            = "Bot is ready"
	LogMsgBotRunning          = "Discord bot is now running. Press CTRL-C to exit."
	LogMsgRespondFailed       = "Failed to respond to interaction"
	LogMsgFollowupFailed      = "Failed to send followup message"
	LogMsgCommandFailed       = "Command failed"
	LogMsgUnknownComponent    = "Unhandled component interaction"
	LogMsgUnhandledAutoc      = "Unhandled autocomplete command"
	LogMsgAutocompleteFailed  = "Failed to load autocomplete choices"
	LogMsgAutoExportFailed    = "Automatic character export failed"
	LogMsgLedgerChannelFailed = "Failed to resolve transactions channel"
	LogMsgPromptSendFailed    = "Failed to send prompt"
	LogMsgWebhookFailed       = "Failed to send webhook message"
	LogMsgHealthServerStart   = "Starting Discord health server"
	LogMsgHealthServerFailed  = "Discord health server failed"
)

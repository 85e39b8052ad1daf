package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/npcbot/internal/domain"
	"github.com/osse101/npcbot/internal/inventory"
	"github.com/osse101/npcbot/internal/purchase"
)

// AddInventoryCommand returns the add_inventory command definition and handler
func AddInventoryCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdAddInventory,
		Description: "Add an item to a character's inventory",
		Options: []*discordgo.ApplicationCommandOption{
			characterOption(OptCharacter, "The character to add the item to"),
			stringOption(OptItemName, "The name of the item", true, domain.MaxItemNameLength),
			intOption(OptQuantity, "The number of items to add", true, 0),
			stringOption(OptInfo, "Additional information about the item", false, domain.MaxItemInfoLength),
			intOption(OptPrice, "The price of the item (default 1)", false, 0),
			intOption(OptDiscount, "The discount percentage for the item (default 0)", false, 0),
			intOption(OptDiscountThreshold, "The value players can roll to get a discount (default 0)", false, 0),
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svcs *Services) {
		if !deferResponse(s, i) || !requireGuild(s, i) {
			return
		}

		opts := getOptions(i)
		name := opts.String(OptCharacter)
		item := inventory.NewItem{
			Name:              opts.String(OptItemName),
			Quantity:          opts.Int(OptQuantity, 0),
			Info:              opts.String(OptInfo),
			Price:             opts.OptionalInt(OptPrice),
			DiscountPercent:   opts.Int(OptDiscount, 0),
			DiscountThreshold: opts.Int(OptDiscountThreshold, 0),
		}

		added, err := svcs.Inventory.AddItem(commandContext(i), i.GuildID, name, item, getInteractionUser(i).ID)
		if err != nil {
			respondServiceError(s, i, err, name, item.Name)
			return
		}
		respond(s, i, fmt.Sprintf(MsgItemAdded, added.Name, name))
	}

	return cmd, handler
}

// EditInventoryCommand returns the edit_inventory command definition and handler.
// Only the options passed are changed; passing 0 sets 0.
func EditInventoryCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdEditInventory,
		Description: "Edit an item from a character's inventory",
		Options: []*discordgo.ApplicationCommandOption{
			characterOption(OptCharacter, "The character that owns the item"),
			itemOption("The name of the item"),
			stringOption(OptNewItemName, "The new name of the item", false, domain.MaxItemNameLength),
			intOption(OptQuantity, "The number of items", false, 0),
			stringOption(OptInfo, "Additional information about the item", false, domain.MaxItemInfoLength),
			intOption(OptPrice, "The price of the item", false, 0),
			intOption(OptDiscount, "The discount percentage for the item", false, 0),
			intOption(OptDiscountThreshold, "The value players can roll to get a discount", false, 0),
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svcs *Services) {
		if !deferResponse(s, i) || !requireGuild(s, i) {
			return
		}

		opts := getOptions(i)
		name, itemName := opts.String(OptCharacter), opts.String(OptItemName)
		patch := domain.ItemPatch{
			NewName:           opts.OptionalString(OptNewItemName),
			Quantity:          opts.OptionalInt(OptQuantity),
			Info:              opts.OptionalString(OptInfo),
			Price:             opts.OptionalInt(OptPrice),
			DiscountPercent:   opts.OptionalInt(OptDiscount),
			DiscountThreshold: opts.OptionalInt(OptDiscountThreshold),
		}
		if patch.IsEmpty() {
			respond(s, i, MsgNothingToChange)
			return
		}

		if _, err := svcs.Inventory.EditItem(commandContext(i), i.GuildID, name, itemName, patch, getInteractionUser(i).ID); err != nil {
			shown := itemName
			if patch.NewName != nil {
				shown = *patch.NewName
			}
			respondServiceError(s, i, err, name, shown)
			return
		}
		respond(s, i, fmt.Sprintf(MsgItemEdited, itemName, name))
	}

	return cmd, handler
}

// RemoveInventoryCommand returns the remove_inventory command definition and handler
func RemoveInventoryCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdRemoveInventory,
		Description: "Remove an item from a character's inventory",
		Options: []*discordgo.ApplicationCommandOption{
			characterOption(OptCharacter, "The character to remove the item from"),
			itemOption("The name of the item"),
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svcs *Services) {
		if !deferResponse(s, i) || !requireGuild(s, i) {
			return
		}

		opts := getOptions(i)
		name, itemName := opts.String(OptCharacter), opts.String(OptItemName)
		if err := svcs.Inventory.RemoveItem(commandContext(i), i.GuildID, name, itemName, getInteractionUser(i).ID); err != nil {
			respondServiceError(s, i, err, name, itemName)
			return
		}
		respond(s, i, fmt.Sprintf(MsgItemRemoved, itemName, name))
	}

	return cmd, handler
}

// AddStockCommand returns the add_stock command definition and handler.
// A negative quantity takes stock away.
func AddStockCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdAddStock,
		Description: "Add stock to an item in a character's inventory",
		Options: []*discordgo.ApplicationCommandOption{
			characterOption(OptCharacter, "The character to add stock to"),
			itemOption("The name of the item"),
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        OptQuantity,
				Description: "The number of items to add (negative removes)",
				Required:    true,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svcs *Services) {
		if !deferResponse(s, i) || !requireGuild(s, i) {
			return
		}

		opts := getOptions(i)
		name, itemName := opts.String(OptCharacter), opts.String(OptItemName)
		item, err := svcs.Inventory.AddStock(commandContext(i), i.GuildID, name, itemName, opts.Int(OptQuantity, 0), getInteractionUser(i).ID)
		if err != nil {
			respondServiceError(s, i, err, name, itemName)
			return
		}
		respond(s, i, fmt.Sprintf(MsgStockAdded, item.Name, name, item.Quantity))
	}

	return cmd, handler
}

// SeeInventoryCommand lists a character's items. Prices and discounts are
// only shown to the character's allowed users.
func SeeInventoryCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdSeeInventory,
		Description: "See a character's inventory",
		Options: []*discordgo.ApplicationCommandOption{
			characterOption(OptCharacter, "The character to see the inventory of"),
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svcs *Services) {
		if !deferResponse(s, i) || !requireGuild(s, i) {
			return
		}

		name := getOptions(i).String(OptCharacter)
		view, err := svcs.Inventory.ListItems(commandContext(i), i.GuildID, name, getInteractionUser(i).ID)
		if err != nil {
			respondServiceError(s, i, err, name, "")
			return
		}

		if len(view.Items) == 0 {
			respond(s, i, view.String())
			return
		}
		respond(s, i, fmt.Sprintf(MsgInventoryHeader, view.Character, view.String()))
	}

	return cmd, handler
}

// BuyItemCommand buys from a character. Discounted items offer a barter
// roll through buttons first.
func BuyItemCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdBuyItem,
		Description: "Buy an item from a character's inventory",
		Options: []*discordgo.ApplicationCommandOption{
			characterOption(OptCharacter, "The character to buy the item from"),
			itemOption("The name of the item"),
			intOption(OptQuantity, "The number of items to buy (default 1)", false, 1),
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, svcs *Services) {
		if !deferResponse(s, i) || !requireGuild(s, i) {
			return
		}

		opts := getOptions(i)
		user := getInteractionUser(i)
		req := purchase.Request{
			TenantID:      i.GuildID,
			CharacterName: opts.String(OptCharacter),
			ItemName:      opts.String(OptItemName),
			Quantity:      opts.Int(OptQuantity, 1),
			BuyerID:       user.ID,
			BuyerName:     user.Username,
		}

		result, err := svcs.Purchases.Buy(commandContext(i), req, NewButtonPrompter(s, i.Interaction, svcs.Prompts))
		if err != nil {
			respondServiceError(s, i, err, req.CharacterName, req.ItemName)
			return
		}

		respond(s, i, purchaseSummary(req, result))
	}

	return cmd, handler
}

// purchaseSummary describes the barter outcome and the sale
func purchaseSummary(req purchase.Request, result *domain.PurchaseResult) string {
	bought := fmt.Sprintf(MsgItemBought, req.Quantity, req.ItemName, req.CharacterName, result.TotalPrice)
	if !result.Negotiated || result.Roll == nil {
		return bought
	}
	if result.GotDiscount {
		return fmt.Sprintf(MsgBarterSuccess, *result.Roll, result.UnitPrice) + "\n" + bought
	}
	return fmt.Sprintf(MsgBarterFailure, *result.Roll, result.UnitPrice) + "\n" + bought
}

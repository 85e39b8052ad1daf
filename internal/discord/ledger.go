package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/npcbot/internal/domain"
	"github.com/osse101/npcbot/internal/logger"
)

// ChannelLedger posts receipts to the guild's transactions channel,
// creating the channel when it is missing
type ChannelLedger struct {
	session *discordgo.Session
}

// NewChannelLedger creates a ledger sink backed by s
func NewChannelLedger(s *discordgo.Session) *ChannelLedger {
	return &ChannelLedger{session: s}
}

// Post implements ledger.Sink
func (l *ChannelLedger) Post(ctx context.Context, r domain.Receipt) error {
	ch, _, err := ensurePrivateChannel(l.session, r.TenantID, TransactionChannel, transactionChannelTopic)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgLedgerChannelFailed, "guild_id", r.TenantID, "error", err)
		return err
	}
	if _, err := l.session.ChannelMessageSend(ch.ID, r.String(), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to post receipt: %w", err)
	}
	return nil
}

// Package purchase sells items from a character's inventory, including the
// optional barter roll for discounted items.
package purchase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/npcbot/internal/domain"
	"github.com/osse101/npcbot/internal/ledger"
	"github.com/osse101/npcbot/internal/logger"
	"github.com/osse101/npcbot/internal/metrics"
	"github.com/osse101/npcbot/internal/prompt"
	"github.com/osse101/npcbot/internal/utils"
)

// Request is one buyer asking for quantity units of an item
type Request struct {
	TenantID      string `json:"tenant_id"`
	CharacterName string `json:"character_name"`
	ItemName      string `json:"item_name"`
	Quantity      int    `json:"quantity"`
	BuyerID       string `json:"buyer_id"`
	BuyerName     string `json:"buyer_name"`
}

// Catalog finds the character and item being bought
type Catalog interface {
	GetItem(ctx context.Context, tenantID, characterName, itemName string) (*domain.Character, *domain.InventoryItem, error)
}

// Stock removes sold units. repository.Inventory satisfies it.
type Stock interface {
	DecrementStock(ctx context.Context, itemID int64, quantity int) (int, error)
}

// Roller returns a d20 roll between domain.MinRoll and domain.MaxRoll
type Roller func() int

// D20 rolls a twenty-sided die
func D20() int {
	return utils.RollDie(domain.MaxRoll)
}

// Engine defines the interface for purchases
type Engine interface {
	// Buy sells the requested units. Discounted items first offer the buyer
	// a barter through p; no storage lock is held while waiting.
	Buy(ctx context.Context, req Request, p prompt.Prompter) (*domain.PurchaseResult, error)
	Shutdown(ctx context.Context) error
}

// Config tunes the engine
type Config struct {
	NegotiationTimeout time.Duration
	LedgerTimeout      time.Duration
}

// DefaultConfig returns the default engine configuration
func DefaultConfig() Config {
	return Config{
		NegotiationTimeout: domain.DefaultNegotiationTimeout,
		LedgerTimeout:      DefaultLedgerTimeout,
	}
}

type engine struct {
	catalog Catalog
	stock   Stock
	sink    ledger.Sink
	roll    Roller
	cfg     Config
	wg      sync.WaitGroup
}

// NewEngine creates a new purchase engine. A nil roll uses D20.
func NewEngine(catalog Catalog, stock Stock, sink ledger.Sink, roll Roller, cfg Config) Engine {
	if roll == nil {
		roll = D20
	}
	if cfg.NegotiationTimeout <= 0 {
		cfg.NegotiationTimeout = domain.DefaultNegotiationTimeout
	}
	if cfg.LedgerTimeout <= 0 {
		cfg.LedgerTimeout = DefaultLedgerTimeout
	}
	return &engine{
		catalog: catalog,
		stock:   stock,
		sink:    sink,
		roll:    roll,
		cfg:     cfg,
	}
}

func (e *engine) Buy(ctx context.Context, req Request, p prompt.Prompter) (*domain.PurchaseResult, error) {
	log := logger.FromContext(ctx)

	if req.Quantity <= 0 || req.Quantity > domain.MaxPurchaseQuantity {
		metrics.PurchasesTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, fmt.Errorf("%w: quantity must be between 1 and %d", domain.ErrInvalidInput, domain.MaxPurchaseQuantity)
	}

	c, item, err := e.catalog.GetItem(ctx, req.TenantID, req.CharacterName, req.ItemName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.PurchasesTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
		}
		return nil, err
	}

	if item.Quantity < req.Quantity {
		metrics.PurchasesTotal.WithLabelValues(metrics.OutcomeInsufficientStock).Inc()
		return nil, fmt.Errorf("%w: %s has %d %s", domain.ErrInsufficientStock, c.Name, item.Quantity, item.Name)
	}

	result := &domain.PurchaseResult{UnitPrice: item.Price}
	if item.HasDiscount() {
		e.negotiate(ctx, req, c, item, p, result)
	}
	result.TotalPrice = result.UnitPrice * req.Quantity

	remaining, err := e.stock.DecrementStock(ctx, item.ID, req.Quantity)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		log.Warn(LogMsgPurchaseFailed, "tenant_id", req.TenantID, "character", c.Name, "item", item.Name, "quantity", req.Quantity, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrPurchaseFailed, err)
	}
	result.RemainingStock = remaining

	result.Receipt = domain.Receipt{
		TenantID:      req.TenantID,
		BuyerID:       req.BuyerID,
		BuyerName:     req.BuyerName,
		CharacterName: c.Name,
		ItemName:      item.Name,
		Quantity:      req.Quantity,
		UnitPrice:     result.UnitPrice,
		TotalPrice:    result.TotalPrice,
		GotDiscount:   result.GotDiscount,
		Roll:          result.Roll,
		PurchasedAt:   time.Now(),
	}

	metrics.RecordPurchase(req.Quantity, result.TotalPrice)
	log.Info(LogMsgPurchaseCompleted,
		"tenant_id", req.TenantID,
		"buyer_id", req.BuyerID,
		"character", c.Name,
		"item", item.Name,
		"quantity", req.Quantity,
		"total_price", result.TotalPrice,
		"discount", result.GotDiscount,
		"remaining", remaining)

	e.post(ctx, result.Receipt)
	return result, nil
}

// negotiate offers the barter and, if accepted, rolls exactly once
func (e *engine) negotiate(ctx context.Context, req Request, c *domain.Character, item *domain.InventoryItem, p prompt.Prompter, result *domain.PurchaseResult) {
	choice := prompt.Ask(ctx, p, prompt.Question{
		Actor:        req.BuyerID,
		Text:         fmt.Sprintf(barterPromptFormat, c.Name, item.DiscountPercent, item.Name, item.DiscountThreshold),
		AcceptLabel:  barterAcceptLabel,
		DeclineLabel: barterDeclineLabel,
		Timeout:      e.cfg.NegotiationTimeout,
	})
	metrics.BarterOffersTotal.WithLabelValues(choice.String()).Inc()
	if choice != domain.ChoiceAccepted {
		return
	}

	roll := e.roll()
	result.Negotiated = true
	result.Roll = &roll
	success := item.BarterSucceeds(roll)
	metrics.RecordBarterRoll(success)
	logger.FromContext(ctx).Info(LogMsgBarterRolled, "buyer_id", req.BuyerID, "item", item.Name, "roll", roll, "threshold", item.DiscountThreshold, "success", success)

	if success {
		result.GotDiscount = true
		result.UnitPrice = item.DiscountedPrice()
	}
}

// post hands the receipt to the ledger in the background.
// The post outlives the request but not Shutdown.
func (e *engine) post(ctx context.Context, r domain.Receipt) {
	if e.sink == nil {
		return
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		postCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.LedgerTimeout)
		defer cancel()

		if err := e.sink.Post(postCtx, r); err != nil {
			metrics.LedgerPostFailures.Inc()
			logger.FromContext(postCtx).Error(LogMsgLedgerPostFailed, "tenant_id", r.TenantID, "receipt", r.String(), "error", err)
		}
	}()
}

func (e *engine) Shutdown(ctx context.Context) error {
	logger.FromContext(ctx).Info(LogMsgEngineShuttingDown)
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

package market

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReleaseWindowSeconds is the escrow release window rendered into every
// start_escrow instruction (seven days).
const ReleaseWindowSeconds = 604800

// TradeFilter selects which trade records ListTrades returns.
type TradeFilter int

const (
	TradesAll TradeFilter = iota
	TradesActive
)

// TradeTicket is the result of a purchase intent: the opaque tx id and the
// instructions the buyer must follow to open escrow.
type TradeTicket struct {
	TxID         string
	Fee          decimal.Decimal
	Instructions string
}

// Escrow mints trade records and renders the settlement-program call shape.
// It never talks to the chain; the instructions are text for the buyer's wallet.
type Escrow struct {
	mu        sync.Mutex
	catalog   *Catalog
	cfg       *ConfigStore
	programID string
	pending   map[int64][]TradeRecord
	confirmed map[int64][]TradeRecord
	seen      map[int64]struct{}
	now       func() time.Time
	newTxID   func() string
}

// NewEscrow builds the coordinator around the catalog and config store.
func NewEscrow(catalog *Catalog, cfg *ConfigStore, programID string) *Escrow {
	return &Escrow{
		catalog:   catalog,
		cfg:       cfg,
		programID: programID,
		pending:   make(map[int64][]TradeRecord),
		confirmed: make(map[int64][]TradeRecord),
		seen:      make(map[int64]struct{}),
		now:       time.Now,
		newTxID:   uuid.NewString,
	}
}

// AdminFee computes price * feePercent / 100. The divide-by-100 on a value
// already expressed as a percent matches the deployed bots and is observable
// behavior; do not change it.
func (e *Escrow) AdminFee(price decimal.Decimal) decimal.Decimal {
	return price.Mul(e.cfg.FeePercent()).Div(decimal.NewFromInt(100))
}

// InitiateTrade mints a pending trade for the buyer and returns escrow
// instructions. Fails with ErrNotFound when the listing does not exist.
func (e *Escrow) InitiateTrade(buyerID, listingID int64) (TradeTicket, error) {
	listing, err := e.catalog.GetByID(listingID)
	if err != nil {
		return TradeTicket{}, err
	}

	txID := e.newTxID()
	fee := e.AdminFee(listing.Price.Amount)
	ticket := TradeTicket{
		TxID:         txID,
		Fee:          fee,
		Instructions: e.renderOpenInstructions(listing, txID, fee),
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.seen[buyerID] = struct{}{}
	e.pending[buyerID] = append(e.pending[buyerID], TradeRecord{
		TxID:      txID,
		ItemID:    listing.ID,
		BuyerID:   buyerID,
		Amount:    listing.Price.Amount,
		CreatedAt: e.now(),
		Status:    TradePending,
	})
	return ticket, nil
}

// ConfirmTrade moves the buyer's pending trade to the confirmed archive and
// returns the confirm-receipt instruction. Fails with ErrNotFound when the
// buyer has no pending trade with that tx id.
func (e *Escrow) ConfirmTrade(buyerID int64, txID string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	records := e.pending[buyerID]
	for i, rec := range records {
		if rec.TxID != txID {
			continue
		}
		e.pending[buyerID] = append(records[:i], records[i+1:]...)
		rec.Status = TradeConfirmed
		e.confirmed[buyerID] = append(e.confirmed[buyerID], rec)
		return fmt.Sprintf("Call confirm_receipt with tx_id=%s using your wallet to release funds.", txID), nil
	}
	return "", fmt.Errorf("trade %s: %w", txID, ErrNotFound)
}

// ListTrades returns the user's trades, oldest first. TradesActive restricts
// the result to pending records.
func (e *Escrow) ListTrades(userID int64, filter TradeFilter) []TradeRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := append([]TradeRecord(nil), e.pending[userID]...)
	if filter == TradesActive {
		return out
	}
	out = append(out, e.confirmed[userID]...)
	return out
}

func (e *Escrow) renderOpenInstructions(listing Listing, txID string, fee decimal.Decimal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "To buy %s for %s:\n", listing.Title, listing.Price)
	fmt.Fprintf(&b, "1. Send %s %s to %s\n", fee, DefaultUnit, e.cfg.Wallet())
	b.WriteString("2. Use your wallet to call start_escrow with:\n")
	fmt.Fprintf(&b, "   - tx_id: %s\n", txID)
	fmt.Fprintf(&b, "   - rent: %s\n", listing.Price.Amount)
	b.WriteString("   - deposit: 0\n")
	fmt.Fprintf(&b, "   - release_secs: %d\n", ReleaseWindowSeconds)
	b.WriteString("   - token_mint: None")
	if !listing.Deposit.IsZero() {
		fmt.Fprintf(&b, "\nRefundable deposit held by the owner: %s", listing.Deposit)
	}
	if e.programID != "" {
		fmt.Fprintf(&b, "\nProgram: %s", e.programID)
	}
	return b.String()
}

// allRecords snapshots every trade record for the stats reporter.
func (e *Escrow) allRecords() []TradeRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []TradeRecord
	for _, recs := range e.pending {
		out = append(out, recs...)
	}
	for _, recs := range e.confirmed {
		out = append(out, recs...)
	}
	return out
}

// usersObserved counts distinct users that ever initiated a trade.
func (e *Escrow) usersObserved() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.seen)
}

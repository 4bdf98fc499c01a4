package market

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newTestEscrow(t *testing.T) (*Escrow, *Catalog, *ConfigStore) {
	t.Helper()
	catalog := NewCatalog("Electronics")
	cfg := newConfigStore(catalog)
	esc := NewEscrow(catalog, cfg, "")
	seq := 0
	esc.newTxID = func() string {
		seq++
		return fmt.Sprintf("tx-%d", seq)
	}
	esc.now = func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) }
	return esc, catalog, cfg
}

func TestInitiateTrade(t *testing.T) {
	esc, catalog, _ := newTestEscrow(t)
	listing, err := catalog.AddListing(ListingSpec{
		Category: "Electronics",
		Title:    "Phone",
		Price:    NewMoney(decimal.NewFromInt(100)),
		Kind:     KindDigital,
		OwnerID:  1,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	t.Run("fee follows the percent-over-100 formula", func(t *testing.T) {
		ticket, err := esc.InitiateTrade(buyerID, listing.ID)
		if err != nil {
			t.Fatalf("initiate: %v", err)
		}
		// price=100, feePercent=0.75 -> 100*0.75/100 = 0.75
		if !ticket.Fee.Equal(decimal.RequireFromString("0.75")) {
			t.Errorf("fee = %s, want 0.75", ticket.Fee)
		}
		for _, want := range []string{
			"To buy Phone for 100 SOL:",
			"Send 0.75 SOL to " + testAddr,
			"tx_id: " + ticket.TxID,
			"rent: 100",
			"deposit: 0",
			"release_secs: 604800",
			"token_mint: None",
		} {
			if !strings.Contains(ticket.Instructions, want) {
				t.Errorf("instructions missing %q:\n%s", want, ticket.Instructions)
			}
		}
	})

	t.Run("records a pending trade", func(t *testing.T) {
		trades := esc.ListTrades(buyerID, TradesActive)
		if len(trades) != 1 {
			t.Fatalf("pending = %d, want 1", len(trades))
		}
		rec := trades[0]
		if rec.ItemID != listing.ID || rec.Status != TradePending || !rec.Amount.Equal(decimal.NewFromInt(100)) {
			t.Errorf("record = %+v", rec)
		}
	})

	t.Run("unknown listing", func(t *testing.T) {
		if _, err := esc.InitiateTrade(buyerID, 9999); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("tx ids are unique", func(t *testing.T) {
		a, _ := esc.InitiateTrade(buyerID, listing.ID)
		b, _ := esc.InitiateTrade(buyerID, listing.ID)
		if a.TxID == b.TxID {
			t.Errorf("duplicate tx id %s", a.TxID)
		}
	})
}

func TestConfirmTrade(t *testing.T) {
	esc, catalog, _ := newTestEscrow(t)
	listing, _ := catalog.AddListing(ListingSpec{
		Category: "Electronics",
		Title:    "Phone",
		Price:    NewMoney(decimal.NewFromInt(100)),
		Kind:     KindDigital,
	})
	ticket, err := esc.InitiateTrade(buyerID, listing.ID)
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}

	t.Run("unknown tx id leaves pending untouched", func(t *testing.T) {
		if _, err := esc.ConfirmTrade(buyerID, "tx-nope"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
		if got := esc.ListTrades(buyerID, TradesActive); len(got) != 1 {
			t.Fatalf("pending = %d, want 1", len(got))
		}
	})

	t.Run("someone else's tx id does not confirm", func(t *testing.T) {
		if _, err := esc.ConfirmTrade(9001, ticket.TxID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("confirm archives the record", func(t *testing.T) {
		msg, err := esc.ConfirmTrade(buyerID, ticket.TxID)
		if err != nil {
			t.Fatalf("confirm: %v", err)
		}
		if !strings.Contains(msg, "confirm_receipt") || !strings.Contains(msg, ticket.TxID) {
			t.Errorf("instructions = %q", msg)
		}
		if got := esc.ListTrades(buyerID, TradesActive); len(got) != 0 {
			t.Errorf("pending after confirm = %d", len(got))
		}
		all := esc.ListTrades(buyerID, TradesAll)
		if len(all) != 1 || all[0].Status != TradeConfirmed {
			t.Errorf("all trades = %+v", all)
		}
	})
}

func TestStatsReporter(t *testing.T) {
	esc, catalog, _ := newTestEscrow(t)
	stats := NewStatsReporter(esc)
	listing, _ := catalog.AddListing(ListingSpec{
		Category: "Electronics",
		Title:    "Phone",
		Price:    NewMoney(decimal.NewFromInt(100)),
		Kind:     KindDigital,
	})

	if !stats.TotalTraded().IsZero() || stats.TotalUsers() != 0 {
		t.Fatalf("fresh stats = %s / %d", stats.TotalTraded(), stats.TotalUsers())
	}

	first, _ := esc.InitiateTrade(7, listing.ID)
	esc.InitiateTrade(7, listing.ID)
	esc.InitiateTrade(8, listing.ID)

	if got := stats.TotalTraded(); !got.Equal(decimal.NewFromInt(300)) {
		t.Errorf("total traded = %s, want 300", got)
	}
	if got := stats.TotalUsers(); got != 2 {
		t.Errorf("total users = %d, want 2", got)
	}

	// Confirmation keeps the amount in the books.
	if _, err := esc.ConfirmTrade(7, first.TxID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got := stats.TotalTraded(); !got.Equal(decimal.NewFromInt(300)) {
		t.Errorf("total traded after confirm = %s, want 300", got)
	}
	if got := stats.TotalUsers(); got != 2 {
		t.Errorf("total users after confirm = %d, want 2", got)
	}
}

package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemKind distinguishes physical items (which carry a location) from digital ones.
type ItemKind int

const (
	KindPhysical ItemKind = iota
	KindDigital
)

func (k ItemKind) String() string {
	if k == KindPhysical {
		return "physical"
	}
	return "digital"
}

// Listing is a sellable or rentable catalog entry belonging to exactly one category.
type Listing struct {
	ID          int64
	Category    string
	Title       string
	Price       Money
	Deposit     Money
	Kind        ItemKind
	Location    string
	Description string
	Links       []string
	OwnerID     int64
}

// ListingSpec carries the fields of a listing before the catalog assigns its id.
type ListingSpec struct {
	Category    string
	Title       string
	Price       Money
	Deposit     Money
	Kind        ItemKind
	Location    string
	Description string
	Links       []string
	OwnerID     int64
}

// TradeStatus tracks the lifecycle of a trade record.
type TradeStatus int

const (
	TradePending TradeStatus = iota
	TradeConfirmed
)

func (s TradeStatus) String() string {
	if s == TradeConfirmed {
		return "confirmed"
	}
	return "pending"
}

// TradeRecord is created on purchase intent and confirmed by the buyer.
type TradeRecord struct {
	TxID      string
	ItemID    int64
	BuyerID   int64
	Amount    decimal.Decimal
	CreatedAt time.Time
	Status    TradeStatus
}

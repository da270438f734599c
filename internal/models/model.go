package models

import "time"

// AuctionStatus is the lifecycle state of an auction.
// Valid transitions: PENDING -> ACTIVE -> ENDED, or -> CANCELLED from
// PENDING/ACTIVE. ENDED and CANCELLED are terminal.
type AuctionStatus string

const (
	StatusPending   AuctionStatus = "PENDING"
	StatusActive    AuctionStatus = "ACTIVE"
	StatusEnded     AuctionStatus = "ENDED"
	StatusCancelled AuctionStatus = "CANCELLED"
)

// Terminal reports whether the status allows no further bidding.
func (s AuctionStatus) Terminal() bool {
	return s == StatusEnded || s == StatusCancelled
}

// Auction represents a single listing open for bids.
// ReservePrice and BuyNowPrice are optional; zero means unset.
// Version is the optimistic concurrency token checked on every commit.
type Auction struct {
	AuctionID     string        `json:"auction_id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	SellerID      string        `json:"seller_id"`
	StartingPrice float64       `json:"starting_price"`
	ReservePrice  float64       `json:"reserve_price,omitempty"`
	BuyNowPrice   float64       `json:"buy_now_price,omitempty"`
	CurrentPrice  float64       `json:"current_price"`
	EndTime       time.Time     `json:"end_time"`
	Status        AuctionStatus `json:"status"`
	Version       int64         `json:"-"`
	Extensions    int           `json:"extensions"`
}

// Bid represents one recorded bid in the append-only ledger.
// MaxBid is the bidder's private proxy ceiling (zero = none) and is
// never serialized; only the placing bidder ever sees it, via the
// response DTO. IsWinning is derived and recomputed on every
// adjudication; at most one bid per auction carries it.
type Bid struct {
	BidID     string    `json:"bid_id"`
	AuctionID string    `json:"auction_id"`
	BidderID  string    `json:"bidder_id"`
	Amount    float64   `json:"amount"`
	MaxBid    float64   `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	IsWinning bool      `json:"is_winning"`
}

// LeaderState is the per-auction proxy bidding state: either no leader
// yet, or the current leader with their standing price and private
// ceiling. Present distinguishes the two explicitly so escalation and
// tie-break rules never have to reason about partially-set fields.
type LeaderState struct {
	Present  bool
	BidID    string
	BidderID string
	Price    float64
	Ceiling  float64
	Since    time.Time
}

// NoLeader returns the empty leader state for an auction with no bids.
func NoLeader() LeaderState {
	return LeaderState{}
}

// HasCeiling reports whether the leader left a proxy ceiling to defend.
func (l LeaderState) HasCeiling() bool {
	return l.Present && l.Ceiling > 0
}

// Outcome is the transient result of one bid adjudication. It is never
// persisted; it exists only for the request/response cycle.
type Outcome struct {
	Accepted         bool      `json:"accepted"`
	RejectionReason  string    `json:"rejection_reason,omitempty"`
	Bid              Bid       `json:"bid"`
	Auction          Auction   `json:"auction"`
	AutoBidTriggered bool      `json:"auto_bid_triggered"`
	Extended         bool      `json:"extended"`
	NewEndTime       time.Time `json:"new_end_time,omitempty"`
	ReserveMet       bool      `json:"reserve_met"`
	BuyNowTriggered  bool      `json:"buy_now_triggered"`
	NotifiedUserIDs  []string  `json:"notified_user_ids,omitempty"`
}

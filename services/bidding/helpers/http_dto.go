package helpers

// Request/Response DTOs
type PlaceBidRequest struct {
	BidderID       string  `json:"bidder_id" binding:"required"`
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	MaxBid         float64 `json:"max_bid" binding:"omitempty,gt=0"`
	IdempotencyKey string  `json:"idempotency_key"`
}

type BidResponse struct {
	BidID     string  `json:"bid_id"`
	AuctionID string  `json:"auction_id"`
	BidderID  string  `json:"bidder_id"`
	Amount    float64 `json:"amount"`
	// MaxBid is echoed only to the bidder who placed it; list endpoints
	// never carry it.
	MaxBid    float64 `json:"max_bid,omitempty"`
	CreatedAt string  `json:"created_at"`
	IsWinning bool    `json:"is_winning"`
}

type AuctionSnapshot struct {
	AuctionID    string  `json:"auction_id"`
	SellerID     string  `json:"seller_id"`
	CurrentPrice float64 `json:"current_price"`
	EndTime      string  `json:"end_time"`
	Status       string  `json:"status"`
	Extensions   int     `json:"extensions"`
}

type PlaceBidResponse struct {
	Accepted                bool            `json:"accepted"`
	RejectionReason         string          `json:"rejection_reason,omitempty"`
	Bid                     *BidResponse    `json:"bid,omitempty"`
	Auction                 AuctionSnapshot `json:"auction"`
	WasExtended             bool            `json:"was_extended"`
	NewEndTime              string          `json:"new_end_time,omitempty"`
	AutoBidTriggered        bool            `json:"auto_bid_triggered"`
	BuyNowTriggered         bool            `json:"buy_now_triggered"`
	ReserveMet              bool            `json:"reserve_met"`
	OutbidNotificationsSent int             `json:"outbid_notifications_sent"`
}

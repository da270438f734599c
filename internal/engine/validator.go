package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"bid-engine/internal/biddingerrors"
	"bid-engine/internal/config"
	"bid-engine/internal/models"
)

// IncrementSchedule is the configured minimum-increment step function
// of the current price. Tiers are checked in order; a tier with
// UpTo == 0 is open-ended and matches any price.
type IncrementSchedule []config.IncrementTier

// StepFor returns the minimum increment a bid must clear at the given
// current price.
func (s IncrementSchedule) StepFor(price float64) float64 {
	p := decimal.NewFromFloat(price)
	for _, tier := range s {
		if tier.UpTo == 0 {
			return tier.Step
		}
		if p.LessThanOrEqual(decimal.NewFromFloat(tier.UpTo)) {
			return tier.Step
		}
	}
	return 0
}

// MinimumNextBid returns the lowest amount the next bid must reach:
// the starting price for an auction with no leader, otherwise the
// current price plus one increment.
func (s IncrementSchedule) MinimumNextBid(a models.Auction, leader models.LeaderState) float64 {
	if !leader.Present {
		return a.StartingPrice
	}
	min := decimal.NewFromFloat(a.CurrentPrice).Add(decimal.NewFromFloat(s.StepFor(a.CurrentPrice)))
	f, _ := min.Float64()
	return f
}

// ValidateBid checks a candidate bid against auction state, in order,
// first failure wins. It is pure and has no side effects; callers may
// run it outside the lane as a pre-check, but the authoritative run is
// always inside the lane against freshly loaded state.
func ValidateBid(a models.Auction, leader models.LeaderState, req BidRequest, now time.Time, sched IncrementSchedule) error {
	if a.Status != models.StatusActive || !now.Before(a.EndTime) {
		return fmt.Errorf("auction %s status %s: %w", a.AuctionID, a.Status, biddingerrors.ErrAuctionNotLive)
	}

	if req.BidderID == a.SellerID {
		return fmt.Errorf("bidder %s owns auction %s: %w", req.BidderID, a.AuctionID, biddingerrors.ErrSellerCannotBid)
	}

	min := sched.MinimumNextBid(a, leader)
	if decimal.NewFromFloat(req.Amount).LessThan(decimal.NewFromFloat(min)) {
		return fmt.Errorf("bid %.2f below minimum %.2f: %w", req.Amount, min, biddingerrors.ErrBidTooLow)
	}

	if req.MaxBid > 0 && decimal.NewFromFloat(req.MaxBid).LessThan(decimal.NewFromFloat(req.Amount)) {
		return fmt.Errorf("ceiling %.2f below bid %.2f: %w", req.MaxBid, req.Amount, biddingerrors.ErrInvalidProxyCeiling)
	}

	return nil
}

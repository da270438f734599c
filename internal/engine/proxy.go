package engine

import (
	"github.com/shopspring/decimal"

	"bid-engine/internal/models"
)

// ProxyOutcome is the result of resolving one incoming bid against the
// current leader's proxy state.
type ProxyOutcome struct {
	Leader           models.LeaderState
	FinalPrice       float64
	AutoBidTriggered bool
	// OutbidUserID is the bidder who lost this resolution and should be
	// alerted: the previous leader on a leadership flip, or the incoming
	// bidder when the leader's proxy auto-raised over them.
	OutbidUserID string
}

// ResolveProxy applies English-auction proxy rules to an incoming bid
// that already passed validation.
//
// With no leader the incoming bidder leads at their bid amount. When the
// incoming amount does not beat the leader's ceiling, the leader's proxy
// auto-raises to min(ceiling, amount + increment) and the incoming bid
// is recorded without taking the lead. Otherwise leadership flips at the
// incoming amount. Equal ceilings resolve in arrival order: the earlier
// bid keeps leadership, so an identical later ceiling never unseats it.
func ResolveProxy(leader models.LeaderState, bid models.Bid, sched IncrementSchedule) ProxyOutcome {
	if !leader.Present {
		return ProxyOutcome{
			Leader: models.LeaderState{
				Present:  true,
				BidID:    bid.BidID,
				BidderID: bid.BidderID,
				Price:    bid.Amount,
				Ceiling:  bid.MaxBid,
				Since:    bid.CreatedAt,
			},
			FinalPrice: bid.Amount,
		}
	}

	amount := decimal.NewFromFloat(bid.Amount)
	ceiling := decimal.NewFromFloat(leader.Ceiling)

	// The lane feeds bids in arrival order, so the stored leader is
	// always earlier than the incoming bid. An incoming amount exactly
	// equal to the ceiling therefore loses the tie and the leader holds.
	if leader.HasCeiling() && amount.LessThanOrEqual(ceiling) {
		raised := amount.Add(decimal.NewFromFloat(sched.StepFor(bid.Amount)))
		if raised.GreaterThan(ceiling) {
			raised = ceiling
		}

		held := leader
		f, _ := raised.Float64()
		if f > held.Price {
			held.Price = f
		}
		return ProxyOutcome{
			Leader:           held,
			FinalPrice:       held.Price,
			AutoBidTriggered: true,
			OutbidUserID:     bid.BidderID,
		}
	}

	// Leadership flips: either the leader had no ceiling to defend or
	// the incoming amount beat it.
	return ProxyOutcome{
		Leader: models.LeaderState{
			Present:  true,
			BidID:    bid.BidID,
			BidderID: bid.BidderID,
			Price:    bid.Amount,
			Ceiling:  bid.MaxBid,
			Since:    bid.CreatedAt,
		},
		FinalPrice:   bid.Amount,
		OutbidUserID: leader.BidderID,
	}
}

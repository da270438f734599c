package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bid-engine/internal/biddingerrors"
	"bid-engine/internal/config"
	"bid-engine/internal/models"
	"bid-engine/internal/notify"
	"bid-engine/internal/repository"
)

// BidRequest is one candidate bid entering the engine. MaxBid (zero =
// none) is the bidder's proxy ceiling. IdempotencyKey, when set,
// coalesces duplicate submissions for the same auction onto a single
// adjudication.
type BidRequest struct {
	AuctionID      string
	BidderID       string
	Amount         float64
	MaxBid         float64
	IdempotencyKey string
}

// Engine is the auction bid engine: it routes every submission to the
// single serializer lane owning that auction id, so at most one
// adjudication per auction is ever in flight while unrelated auctions
// proceed fully in parallel.
type Engine struct {
	store    repository.AuctionStore
	notifier notify.Notifier
	cfg      config.EngineConfig
	sched    IncrementSchedule
	now      func() time.Time

	mu    sync.Mutex
	lanes map[string]*lane
}

// New creates an engine over the given store and notifier.
func New(store repository.AuctionStore, notifier notify.Notifier, cfg config.EngineConfig) *Engine {
	return &Engine{
		store:    store,
		notifier: notifier,
		cfg:      cfg,
		sched:    IncrementSchedule(cfg.IncrementTiers),
		now:      func() time.Time { return time.Now().UTC() },
		lanes:    make(map[string]*lane),
	}
}

// PlaceBid submits a bid and blocks until its turn in the auction's
// lane is adjudicated, or until the context (or the configured submit
// timeout) expires. On timeout the bid stays queued and is still
// adjudicated; resubmitting with the same idempotency key returns that
// outcome without creating a second bid row.
func (e *Engine) PlaceBid(ctx context.Context, req BidRequest) (models.Outcome, error) {
	if err := checkRequest(req); err != nil {
		return models.Outcome{Accepted: false, RejectionReason: reasonFor(err)}, err
	}

	sub := &submission{req: req, result: make(chan submitResult, 1)}

	for {
		l := e.laneFor(req.AuctionID)
		closed, full := l.enqueue(sub)
		if full {
			err := fmt.Errorf("auction %s: %w", req.AuctionID, biddingerrors.ErrEngineBusy)
			return models.Outcome{Accepted: false, RejectionReason: reasonFor(err)}, err
		}
		if !closed {
			break
		}
		// Lost a race against lane teardown; drop the stale entry and
		// let the next loop recreate it.
		e.dropLane(req.AuctionID, l)
	}

	if e.cfg.SubmitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.SubmitTimeout)
		defer cancel()
	}

	select {
	case res := <-sub.result:
		return res.outcome, res.err
	case <-ctx.Done():
		err := fmt.Errorf("auction %s: %w", req.AuctionID, biddingerrors.ErrTimeout)
		return models.Outcome{Accepted: false, RejectionReason: reasonFor(err)}, err
	}
}

// laneFor returns the live lane for an auction, spawning one on demand.
func (e *Engine) laneFor(auctionID string) *lane {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.lanes[auctionID]
	if !ok {
		l = newLane(e, auctionID)
		e.lanes[auctionID] = l
		go l.run()
	}
	return l
}

// dropLane removes a lane from the registry if it is still the
// registered one.
func (e *Engine) dropLane(auctionID string, l *lane) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lanes[auctionID] == l {
		delete(e.lanes, auctionID)
	}
}

// laneCount reports live lanes; used to verify idle teardown.
func (e *Engine) laneCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.lanes)
}

func checkRequest(req BidRequest) error {
	if req.AuctionID == "" || req.BidderID == "" {
		return fmt.Errorf("missing auction or bidder id: %w", biddingerrors.ErrInvalidBid)
	}
	if req.Amount <= 0 {
		return fmt.Errorf("non-positive bid amount: %w", biddingerrors.ErrInvalidBid)
	}
	return nil
}

// reasonFor maps a sentinel error to the stable rejection-reason code
// exposed in outcomes.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, biddingerrors.ErrAuctionNotFound):
		return "auction_not_found"
	case errors.Is(err, biddingerrors.ErrAuctionNotLive):
		return "auction_not_live"
	case errors.Is(err, biddingerrors.ErrSellerCannotBid):
		return "seller_cannot_bid"
	case errors.Is(err, biddingerrors.ErrBidTooLow):
		return "bid_too_low"
	case errors.Is(err, biddingerrors.ErrInvalidProxyCeiling):
		return "invalid_proxy_ceiling"
	case errors.Is(err, biddingerrors.ErrVersionConflict):
		return "conflict"
	case errors.Is(err, biddingerrors.ErrTimeout):
		return "still_processing"
	case errors.Is(err, biddingerrors.ErrEngineBusy):
		return "engine_busy"
	case errors.Is(err, biddingerrors.ErrStoreUnavailable):
		return "store_unavailable"
	case errors.Is(err, biddingerrors.ErrInvalidBid):
		return "invalid_bid"
	default:
		return "internal_error"
	}
}

package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"bid-engine/internal/biddingerrors"
	"bid-engine/internal/models"
	"bid-engine/internal/notify"
	"bid-engine/utils"
)

type submission struct {
	req BidRequest
	// result is buffered so the lane can always hand back an outcome
	// and move on, even when the caller timed out and left.
	result chan submitResult
}

type submitResult struct {
	outcome models.Outcome
	err     error
}

// lane is the per-auction serializer: one goroutine owns the queue and
// adjudicates submissions strictly in arrival order, one at a time.
// All lane fields below mu are owned by the run goroutine; mu only
// guards the closed flag against concurrent enqueues.
type lane struct {
	auctionID string
	e         *Engine
	queue     chan *submission

	mu     sync.Mutex
	closed bool

	// decided retains the outcome per idempotency key for the lane's
	// lifetime, so duplicate submissions coalesce onto the first
	// adjudication instead of producing a second bid row.
	decided map[string]submitResult

	// leader caches the auction's proxy state between submissions;
	// re-synced from the store after a version conflict.
	leader       models.LeaderState
	leaderLoaded bool

	terminal bool
}

func newLane(e *Engine, auctionID string) *lane {
	size := e.cfg.LaneQueueSize
	if size <= 0 {
		size = 256
	}
	return &lane{
		auctionID: auctionID,
		e:         e,
		queue:     make(chan *submission, size),
		decided:   make(map[string]submitResult),
	}
}

// enqueue admits a submission unless the lane is already closed or the
// queue is full. closed=false, full=false means admitted.
func (l *lane) enqueue(s *submission) (closed, full bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return true, false
	}
	select {
	case l.queue <- s:
		return false, false
	default:
		return false, true
	}
}

// run is the lane's owner goroutine. It exits after the idle timeout
// with an empty queue, or once the auction reaches a terminal status;
// the registry recreates the lane lazily on the next submission.
func (l *lane) run() {
	idleTimeout := l.e.cfg.LaneIdleTimeout
	if idleTimeout <= 0 {
		idleTimeout = 5 * time.Minute
	}
	idle := time.NewTimer(idleTimeout)
	defer idle.Stop()

	for {
		select {
		case s := <-l.queue:
			l.handle(s)
			if l.terminal {
				l.shutdown()
				return
			}
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(idleTimeout)
		case <-idle.C:
			if l.tryClose() {
				return
			}
			idle.Reset(idleTimeout)
		}
	}
}

// tryClose marks the lane closed if nothing is queued. A submission
// that raced in first keeps the lane alive.
func (l *lane) tryClose() bool {
	l.mu.Lock()
	if len(l.queue) > 0 {
		l.mu.Unlock()
		return false
	}
	l.closed = true
	l.mu.Unlock()
	l.e.dropLane(l.auctionID, l)
	return true
}

// shutdown closes the lane after a terminal auction status and drains
// whatever was admitted before the flag flipped. Drained submissions
// are still adjudicated; they reject against the terminal state.
func (l *lane) shutdown() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	for {
		select {
		case s := <-l.queue:
			l.handle(s)
		default:
			l.e.dropLane(l.auctionID, l)
			return
		}
	}
}

func (l *lane) handle(s *submission) {
	key := s.req.IdempotencyKey
	if key != "" {
		if res, ok := l.decided[key]; ok {
			s.result <- res
			return
		}
	}

	res := l.adjudicate(s.req)
	if key != "" {
		l.decided[key] = res
	}
	s.result <- res
}

// adjudicate runs the full decision once, and on a version conflict
// re-syncs against fresh state and retries exactly once. A stale
// decision is never applied.
func (l *lane) adjudicate(req BidRequest) submitResult {
	res, conflicted := l.attempt(req)
	if !conflicted {
		return res
	}

	l.leaderLoaded = false
	res, conflicted = l.attempt(req)
	if !conflicted {
		return res
	}

	err := fmt.Errorf("auction %s: %w", req.AuctionID, biddingerrors.ErrVersionConflict)
	return submitResult{
		outcome: models.Outcome{Accepted: false, RejectionReason: reasonFor(err)},
		err:     err,
	}
}

// attempt performs one load → validate → resolve → extend → commit
// pass. The second return value reports a commit-time version conflict.
func (l *lane) attempt(req BidRequest) (submitResult, bool) {
	now := l.e.now()

	a, err := l.e.store.LoadAuction(req.AuctionID)
	if err != nil {
		if errors.Is(err, biddingerrors.ErrAuctionNotFound) {
			return rejectWith(models.Auction{}, err), false
		}
		return storeFailure(req.AuctionID, err), false
	}

	if a.Status.Terminal() {
		l.terminal = true
		err := fmt.Errorf("auction %s status %s: %w", a.AuctionID, a.Status, biddingerrors.ErrAuctionNotLive)
		return rejectWith(a, err), false
	}

	if !l.leaderLoaded {
		l.syncLeader(a)
	}

	if err := ValidateBid(a, l.leader, req, now, l.e.sched); err != nil {
		return rejectWith(a, err), false
	}

	bid := models.Bid{
		BidID:     utils.GenerateID(),
		AuctionID: a.AuctionID,
		BidderID:  req.BidderID,
		Amount:    req.Amount,
		MaxBid:    req.MaxBid,
		CreatedAt: now,
	}

	p := ResolveProxy(l.leader, bid, l.e.sched)

	newState := a
	newState.CurrentPrice = p.FinalPrice

	extended, newEnd := MaybeExtend(a.EndTime, now, l.e.cfg.SnipeWindow, a.Extensions, l.e.cfg.MaxExtensions)
	if extended {
		newState.EndTime = newEnd
		newState.Extensions++
	}

	// A direct bid meeting buy-now wins on the spot. Proxy auto-raises
	// never trigger it, and once bidding has reached the buy-now price
	// the option is gone: committing it then would move the price
	// backwards.
	buyNow := false
	if !p.AutoBidTriggered && a.BuyNowPrice > 0 && a.CurrentPrice < a.BuyNowPrice && req.Amount >= a.BuyNowPrice {
		buyNow = true
		newState.CurrentPrice = a.BuyNowPrice
		newState.Status = models.StatusEnded
		newState.EndTime = now
		newState.Extensions = a.Extensions
		extended = false
		p.Leader.Price = a.BuyNowPrice
		p.FinalPrice = a.BuyNowPrice
	}

	bid.IsWinning = p.Leader.BidID == bid.BidID

	if err := l.e.store.CommitBid(a.AuctionID, a.Version, newState, bid); err != nil {
		if errors.Is(err, biddingerrors.ErrVersionConflict) {
			return submitResult{}, true
		}
		if errors.Is(err, biddingerrors.ErrAuctionNotFound) {
			return rejectWith(a, err), false
		}
		return storeFailure(req.AuctionID, err), false
	}

	l.leader = p.Leader
	l.leaderLoaded = true
	newState.Version = a.Version + 1
	if buyNow {
		l.terminal = true
	}

	var notified []string
	if p.OutbidUserID != "" {
		l.e.notifier.Enqueue(p.OutbidUserID, notify.OutbidEvent{
			AuctionID:  a.AuctionID,
			UserID:     p.OutbidUserID,
			NewPrice:   newState.CurrentPrice,
			OccurredAt: now,
		})
		notified = append(notified, p.OutbidUserID)
	}

	outcome := models.Outcome{
		Accepted:         true,
		Bid:              bid,
		Auction:          newState,
		AutoBidTriggered: p.AutoBidTriggered,
		Extended:         extended,
		ReserveMet:       a.ReservePrice > 0 && newState.CurrentPrice >= a.ReservePrice,
		BuyNowTriggered:  buyNow,
		NotifiedUserIDs:  notified,
	}
	if extended {
		outcome.NewEndTime = newState.EndTime
	}
	return submitResult{outcome: outcome}, false
}

// syncLeader bootstraps proxy state from the stored winning bid when a
// lane spins up (or re-syncs after a conflict).
func (l *lane) syncLeader(a models.Auction) {
	wb, err := l.e.store.GetWinningBid(a.AuctionID)
	if err != nil {
		if !errors.Is(err, biddingerrors.ErrNoBids) {
			utils.Warn("lane: winning bid lookup failed, assuming no leader", map[string]any{
				"auction_id": a.AuctionID,
				"error":      err.Error(),
			})
		}
		l.leader = models.NoLeader()
		l.leaderLoaded = true
		return
	}
	l.leader = models.LeaderState{
		Present:  true,
		BidID:    wb.BidID,
		BidderID: wb.BidderID,
		Price:    a.CurrentPrice,
		Ceiling:  wb.MaxBid,
		Since:    wb.CreatedAt,
	}
	l.leaderLoaded = true
}

func rejectWith(a models.Auction, err error) submitResult {
	return submitResult{
		outcome: models.Outcome{
			Accepted:        false,
			RejectionReason: reasonFor(err),
			Auction:         a,
		},
		err: err,
	}
}

func storeFailure(auctionID string, err error) submitResult {
	wrapped := fmt.Errorf("auction %s: %v: %w", auctionID, err, biddingerrors.ErrStoreUnavailable)
	return submitResult{
		outcome: models.Outcome{Accepted: false, RejectionReason: reasonFor(wrapped)},
		err:     wrapped,
	}
}

package repository

import (
	"fmt"
	"sync"

	"bid-engine/internal/biddingerrors"
	model "bid-engine/internal/models"
)

// AuctionStore defines the durable auction state and bid ledger.
// CommitBid is the only mutation path used during adjudication: it
// atomically checks the optimistic version token, replaces the auction
// state, appends the bid row, and recomputes the winning flag. A stale
// expectedVersion yields ErrVersionConflict so the caller can observe
// externally-induced changes (e.g. seller cancellation mid-flight).
type AuctionStore interface {
	LoadAuction(auctionID string) (model.Auction, error)
	CommitBid(auctionID string, expectedVersion int64, newState model.Auction, bid model.Bid) error
	GetBidsByAuction(auctionID string) ([]model.Bid, error)
	GetWinningBid(auctionID string) (model.Bid, error)
	CreateAuction(a model.Auction) error
	CancelAuction(auctionID string) error
}

// MemoryStore is a concurrency-safe in-memory implementation of AuctionStore
type MemoryStore struct {
	mu       sync.RWMutex
	auctions map[string]model.Auction // key: auctionID -> value: auction state
	bids     map[string][]model.Bid   // key: auctionID -> value: append-only bid ledger
}

// NewMemoryStore creates a new in-memory store instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		auctions: make(map[string]model.Auction),
		bids:     make(map[string][]model.Bid),
	}
}

// LoadAuction returns the current authoritative auction state
func (r *MemoryStore) LoadAuction(auctionID string) (model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("load auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}
	return a, nil
}

// CommitBid applies one adjudication result as a single atomic unit.
// When bid.IsWinning is set, every other bid for the auction has its
// winning flag cleared, so at most one row is ever winning.
func (r *MemoryStore) CommitBid(auctionID string, expectedVersion int64, newState model.Auction, bid model.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.auctions[auctionID]
	if !ok {
		return fmt.Errorf("commit bid for auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}
	if current.Version != expectedVersion {
		return fmt.Errorf("commit bid for auction %s: expected version %d, have %d: %w",
			auctionID, expectedVersion, current.Version, biddingerrors.ErrVersionConflict)
	}

	newState.AuctionID = auctionID
	newState.Version = expectedVersion + 1

	if bid.IsWinning {
		ledger := r.bids[auctionID]
		for i := range ledger {
			ledger[i].IsWinning = false
		}
	}

	r.auctions[auctionID] = newState
	r.bids[auctionID] = append(r.bids[auctionID], bid)
	return nil
}

// GetBidsByAuction returns the full bid ledger for an auction
func (r *MemoryStore) GetBidsByAuction(auctionID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids, ok := r.bids[auctionID]
	if !ok || len(bids) == 0 {
		return nil, fmt.Errorf("get bids for auction %s: %w", auctionID, biddingerrors.ErrNoBids)
	}
	return append([]model.Bid(nil), bids...), nil
}

// GetWinningBid returns the bid currently flagged as winning
func (r *MemoryStore) GetWinningBid(auctionID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids, ok := r.bids[auctionID]
	if !ok || len(bids) == 0 {
		return model.Bid{}, fmt.Errorf("get winning bid for auction %s: %w", auctionID, biddingerrors.ErrNoBids)
	}

	for i := len(bids) - 1; i >= 0; i-- {
		if bids[i].IsWinning {
			return bids[i], nil
		}
	}
	return model.Bid{}, fmt.Errorf("get winning bid for auction %s: %w", auctionID, biddingerrors.ErrNoBids)
}

// CreateAuction registers a new auction. CurrentPrice starts at the
// starting price and the version token at zero.
func (r *MemoryStore) CreateAuction(a model.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.auctions[a.AuctionID]; exists {
		return fmt.Errorf("create auction %s: already exists: %w", a.AuctionID, biddingerrors.ErrInvalidBid)
	}
	if a.CurrentPrice == 0 {
		a.CurrentPrice = a.StartingPrice
	}
	if a.Status == "" {
		a.Status = model.StatusActive
	}
	a.Version = 0
	r.auctions[a.AuctionID] = a
	return nil
}

// CancelAuction moves a non-terminal auction to CANCELLED and bumps the
// version token so in-flight adjudications hit a version conflict.
func (r *MemoryStore) CancelAuction(auctionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.auctions[auctionID]
	if !ok {
		return fmt.Errorf("cancel auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}
	if a.Status.Terminal() {
		return fmt.Errorf("cancel auction %s: status %s: %w", auctionID, a.Status, biddingerrors.ErrAuctionNotLive)
	}
	a.Status = model.StatusCancelled
	a.Version++
	r.auctions[auctionID] = a
	return nil
}

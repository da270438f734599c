package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"bid-engine/internal/biddingerrors"
	model "bid-engine/internal/models"
	"bid-engine/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/engine errors to HTTP status code and message.
// ErrTimeout maps to 202: the bid is still being adjudicated, not failed,
// and clients must not assume it was discarded.
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, biddingerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, biddingerrors.ErrAuctionNotLive):
		return http.StatusConflict, "auction is not accepting bids"
	case errors.Is(err, biddingerrors.ErrSellerCannotBid):
		return http.StatusForbidden, "sellers cannot bid on their own auction"
	case errors.Is(err, biddingerrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, biddingerrors.ErrInvalidProxyCeiling):
		return http.StatusBadRequest, "maximum bid must cover the bid amount"
	case errors.Is(err, biddingerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, biddingerrors.ErrVersionConflict):
		return http.StatusConflict, "auction changed, please retry"
	case errors.Is(err, biddingerrors.ErrTimeout):
		return http.StatusAccepted, "bid is still processing"
	case errors.Is(err, biddingerrors.ErrEngineBusy):
		return http.StatusServiceUnavailable, "auction is too busy, try again"
	case errors.Is(err, biddingerrors.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "auction store unavailable"
	case errors.Is(err, biddingerrors.ErrNoBids):
		return http.StatusOK, "no bids found for auction"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// BuildPlaceBidResponse converts an engine outcome into the public DTO.
// includeCeiling echoes the proxy ceiling back to the placing bidder
// only.
func BuildPlaceBidResponse(o model.Outcome, includeCeiling bool) PlaceBidResponse {
	resp := PlaceBidResponse{
		Accepted:                o.Accepted,
		RejectionReason:         o.RejectionReason,
		Auction:                 SnapshotOf(o.Auction),
		WasExtended:             o.Extended,
		AutoBidTriggered:        o.AutoBidTriggered,
		BuyNowTriggered:         o.BuyNowTriggered,
		ReserveMet:              o.ReserveMet,
		OutbidNotificationsSent: len(o.NotifiedUserIDs),
	}
	if o.Extended {
		resp.NewEndTime = o.NewEndTime.UTC().Format(time.RFC3339)
	}
	if o.Accepted {
		bid := BidOf(o.Bid)
		if includeCeiling {
			bid.MaxBid = o.Bid.MaxBid
		}
		resp.Bid = &bid
	}
	return resp
}

// SnapshotOf trims auction state down to the fields bidders may see.
func SnapshotOf(a model.Auction) AuctionSnapshot {
	snap := AuctionSnapshot{
		AuctionID:    a.AuctionID,
		SellerID:     a.SellerID,
		CurrentPrice: a.CurrentPrice,
		Status:       string(a.Status),
		Extensions:   a.Extensions,
	}
	if !a.EndTime.IsZero() {
		snap.EndTime = a.EndTime.UTC().Format(time.RFC3339)
	}
	return snap
}

// BidOf converts a ledger bid to its public DTO without the ceiling.
func BidOf(b model.Bid) BidResponse {
	return BidResponse{
		BidID:     b.BidID,
		AuctionID: b.AuctionID,
		BidderID:  b.BidderID,
		Amount:    b.Amount,
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
		IsWinning: b.IsWinning,
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

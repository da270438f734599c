package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"bid-engine/internal/biddingerrors"
	"bid-engine/internal/engine"
	"bid-engine/internal/identity"
	model "bid-engine/internal/models"
	"bid-engine/services/bidding/helpers"
	"bid-engine/utils"

	"github.com/gin-gonic/gin"
)

// BidEngineInterface is the adjudication entry point the handlers call.
type BidEngineInterface interface {
	PlaceBid(ctx context.Context, req engine.BidRequest) (model.Outcome, error)
}

// AuctionReaderInterface covers the read-only store queries the
// handlers serve directly.
type AuctionReaderInterface interface {
	LoadAuction(auctionID string) (model.Auction, error)
	GetBidsByAuction(auctionID string) ([]model.Bid, error)
	GetWinningBid(auctionID string) (model.Bid, error)
}

type BiddingHandler struct {
	engine   BidEngineInterface
	reader   AuctionReaderInterface
	verifier identity.Verifier
}

func NewBiddingHandler(eng BidEngineInterface, reader AuctionReaderInterface, verifier identity.Verifier) *BiddingHandler {
	return &BiddingHandler{engine: eng, reader: reader, verifier: verifier}
}

// PlaceBidHandler handles POST /auctions/:auction_id/bids
func (h *BiddingHandler) PlaceBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	eligible, err := h.verifier.Verify(req.BidderID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err, "identity verification failed")
		utils.Error("PlaceBidHandler: identity verification failed", map[string]any{
			"bidder_id": req.BidderID,
			"error":     err.Error(),
		})
		return
	}
	if !eligible {
		utils.JSONError(c, http.StatusForbidden, errors.New("bidder not eligible"), "bidder is not eligible to bid")
		utils.Warn("PlaceBidHandler: ineligible bidder", map[string]any{"bidder_id": req.BidderID})
		return
	}

	outcome, err := h.engine.PlaceBid(c.Request.Context(), engine.BidRequest{
		AuctionID:      auctionID,
		BidderID:       req.BidderID,
		Amount:         req.Amount,
		MaxBid:         req.MaxBid,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		resp := helpers.BuildPlaceBidResponse(outcome, false)
		if errors.Is(err, biddingerrors.ErrTimeout) {
			// Not a failure: the bid stays queued and will still be
			// adjudicated in arrival order.
			utils.JSONResponse(c, status, resp, message)
			utils.Info("PlaceBidHandler: bid still processing", map[string]any{
				"auction_id": auctionID,
				"bidder_id":  req.BidderID,
			})
			return
		}
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("PlaceBidHandler: bid rejected", map[string]any{
			"auction_id": auctionID,
			"bidder_id":  req.BidderID,
			"reason":     outcome.RejectionReason,
			"error":      err.Error(),
		})
		return
	}

	resp := helpers.BuildPlaceBidResponse(outcome, true)
	utils.JSONResponse(c, http.StatusCreated, resp, "bid adjudicated successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid adjudicated successfully", map[string]any{
		"auction_id":    auctionID,
		"bidder_id":     req.BidderID,
		"bid_id":        outcome.Bid.BidID,
		"current_price": outcome.Auction.CurrentPrice,
		"auto_bid":      outcome.AutoBidTriggered,
		"extended":      outcome.Extended,
	})
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *BiddingHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	a, err := h.reader.LoadAuction(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetAuctionHandler: error loading auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.SnapshotOf(a), "auction retrieved successfully")
}

// GetBidsByAuctionHandler handles GET /auctions/:auction_id/bids
func (h *BiddingHandler) GetBidsByAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bids, err := h.reader.GetBidsByAuction(auctionID)
	if err != nil && !errors.Is(err, biddingerrors.ErrNoBids) {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetBidsByAuctionHandler: error retrieving bids", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, b := range bids {
		resp = append(resp, helpers.BidOf(b))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
	helpers.LogSuccess("GetBidsByAuctionHandler", "bids retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"count":      len(resp),
	})
}

// GetWinningBidHandler handles GET /auctions/:auction_id/winning
func (h *BiddingHandler) GetWinningBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bid, err := h.reader.GetWinningBid(auctionID)
	if err != nil {
		if errors.Is(err, biddingerrors.ErrNoBids) {
			utils.JSONError(c, http.StatusNotFound, err, "no winning bid found")
			utils.Info("GetWinningBidHandler: no winning bid found", map[string]any{"auction_id": auctionID})
			return
		}
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetWinningBidHandler: winning bid error", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.BidOf(bid), "winning bid retrieved successfully")
	helpers.LogSuccess("GetWinningBidHandler", "winning bid retrieved successfully", map[string]any{
		"bid_id":     bid.BidID,
		"auction_id": auctionID,
		"bidder_id":  bid.BidderID,
		"amount":     bid.Amount,
	})
}

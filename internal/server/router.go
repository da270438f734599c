package server

import (
	"bid-engine/internal/identity"
	handler "bid-engine/services/bidding/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(eng handler.BidEngineInterface, reader handler.AuctionReaderInterface, verifier identity.Verifier) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	biddingHandler := handler.NewBiddingHandler(eng, reader, verifier)

	auctions := router.Group("/auctions")
	{
		auctions.GET("/:auction_id", biddingHandler.GetAuctionHandler)
		auctions.POST("/:auction_id/bids", biddingHandler.PlaceBidHandler)
		auctions.GET("/:auction_id/bids", biddingHandler.GetBidsByAuctionHandler)
		auctions.GET("/:auction_id/winning", biddingHandler.GetWinningBidHandler)
	}

	return router
}

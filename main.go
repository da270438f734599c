package main

import (
	"fmt"
	"os"
	"time"

	"bid-engine/internal/config"
	"bid-engine/internal/engine"
	"bid-engine/internal/identity"
	model "bid-engine/internal/models"
	"bid-engine/internal/notify"
	"bid-engine/internal/repository"
	"bid-engine/internal/server"
	"bid-engine/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	utils.ConfigureLogger(utils.LogSettings{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})

	store := repository.NewMemoryStore()
	prepopulateAuctions(store)

	dispatcher := notify.NewDispatcher(buildPublisher(cfg.Notify), cfg.Notify.PoolSize)
	defer dispatcher.Close()

	eng := engine.New(store, dispatcher, cfg.Engine)
	verifier := &identity.StaticVerifier{}

	router := server.SetupRouter(eng, store, verifier)

	utils.Info("Starting auction bid engine", map[string]any{"port": cfg.Server.Port})
	if err := router.Run(cfg.Server.Port); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// buildPublisher selects the AMQP publisher when a broker is configured,
// falling back to the log-only publisher.
func buildPublisher(cfg config.NotifyConfig) notify.Publisher {
	if cfg.AMQPUrl == "" {
		return notify.LogPublisher{}
	}
	pub, err := notify.NewAMQPPublisher(cfg.AMQPUrl, cfg.Exchange)
	if err != nil {
		utils.Warn("AMQP unavailable, falling back to log publisher", map[string]any{"error": err.Error()})
		return notify.LogPublisher{}
	}
	return pub
}

// prepopulateAuctions adds sample auctions to the in-memory store
func prepopulateAuctions(store *repository.MemoryStore) {
	now := time.Now().UTC()
	auctions := []model.Auction{
		{AuctionID: "auction1", Title: "Racing pigeon - Blue Star", SellerID: "seller1", StartingPrice: 100, EndTime: now.Add(24 * time.Hour), Status: model.StatusActive},
		{AuctionID: "auction2", Title: "Racing pigeon - Storm Queen", SellerID: "seller1", StartingPrice: 250, ReservePrice: 400, EndTime: now.Add(48 * time.Hour), Status: model.StatusActive},
		{AuctionID: "auction3", Title: "Breeding pair - Velocity line", SellerID: "seller2", StartingPrice: 500, BuyNowPrice: 2000, EndTime: now.Add(72 * time.Hour), Status: model.StatusActive},
	}

	for _, a := range auctions {
		if err := store.CreateAuction(a); err != nil {
			utils.Warn("failed to prepopulate auction", map[string]any{"auction_id": a.AuctionID, "error": err.Error()})
		}
	}
}

package perftests

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"bid-engine/internal/config"
	"bid-engine/internal/engine"
	model "bid-engine/internal/models"
	"bid-engine/internal/notify"
	"bid-engine/internal/repository"
)

// discardPublisher swallows outbid events so notification fan-out does
// not dominate the measurements.
type discardPublisher struct{}

func (discardPublisher) Publish(string, notify.OutbidEvent) error { return nil }

// benchConfig uses a flat one-unit increment so ladder-style bids always
// clear the minimum, and a deep lane queue so contention never rejects.
func benchConfig() config.EngineConfig {
	cfg := config.Default().Engine
	cfg.IncrementTiers = []config.IncrementTier{{UpTo: 0, Step: 1}}
	cfg.LaneQueueSize = 4096
	cfg.SubmitTimeout = 30 * time.Second
	return cfg
}

// setupEngine creates the store and engine with numAuctions live auctions.
func setupEngine(numAuctions int) (*repository.MemoryStore, *engine.Engine) {
	store := repository.NewMemoryStore()
	for i := 0; i < numAuctions; i++ {
		store.CreateAuction(model.Auction{
			AuctionID:     fmt.Sprintf("auction_%d", i),
			Title:         fmt.Sprintf("Benchmark Auction %d", i),
			SellerID:      "seller_bench",
			StartingPrice: 50,
			CurrentPrice:  50,
			EndTime:       time.Now().UTC().Add(time.Hour),
			Status:        model.StatusActive,
		})
	}
	eng := engine.New(store, notify.NewDispatcher(discardPublisher{}, 32), benchConfig())
	return store, eng
}

// Benchmark 1: PlaceBid - Isolated Auctions (Low Contention - Micro Benchmark)
func Benchmark_PlaceBid_Isolated(b *testing.B) {
	_, eng := setupEngine(b.N)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := eng.PlaceBid(ctx, engine.BidRequest{
			AuctionID: fmt.Sprintf("auction_%d", i),
			BidderID:  fmt.Sprintf("user_%d", i),
			Amount:    float64(51 + rand.Intn(100)),
		})
		if err != nil {
			b.Fatalf("failed to place bid: %v", err)
		}
	}
}

// Benchmark 2: PlaceBid - Shared Auction (High Contention - Concurrency Benchmark)
func Benchmark_PlaceBid_ConcurrentSharedAuction(b *testing.B) {
	store, eng := setupEngine(1)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	var lastBid int64 = 50

	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			// a climbing ladder keeps most bids above the minimum
			nextBid := atomic.AddInt64(&lastBid, int64(rnd.Intn(5)+1))
			_, _ = eng.PlaceBid(ctx, engine.BidRequest{
				AuctionID: "auction_0",
				BidderID:  fmt.Sprintf("user_parallel_%d", rnd.Int()),
				Amount:    float64(nextBid),
			})
		}
	})

	b.StopTimer()

	// however the race went, exactly one bid may hold the lead
	bids, err := store.GetBidsByAuction("auction_0")
	if err != nil {
		b.Fatalf("failed to read ledger: %v", err)
	}
	winners := 0
	for _, bid := range bids {
		if bid.IsWinning {
			winners++
		}
	}
	if winners != 1 {
		b.Fatalf("expected exactly one winning bid, got %d", winners)
	}
}

// Benchmark 3: GetWinningBid - Single-Threaded (Low Contention)
func Benchmark_GetWinningBid_SingleThreaded(b *testing.B) {
	store, eng := setupEngine(b.N)
	ctx := context.Background()

	for i := 0; i < b.N; i++ {
		auctionID := fmt.Sprintf("auction_%d", i)
		for j := 0; j < 10; j++ {
			_, _ = eng.PlaceBid(ctx, engine.BidRequest{
				AuctionID: auctionID,
				BidderID:  fmt.Sprintf("user_%d_%d", i, j),
				Amount:    float64(51 + j*10),
			})
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := store.GetWinningBid(fmt.Sprintf("auction_%d", i)); err != nil {
			b.Fatalf("failed to get winning bid: %v", err)
		}
	}
}

// Benchmark 4: GetWinningBid - Concurrent (High Contention)
func Benchmark_GetWinningBid_ConcurrentSharedAuction(b *testing.B) {
	store, eng := setupEngine(1)
	ctx := context.Background()

	for j := 0; j < 100; j++ {
		_, _ = eng.PlaceBid(ctx, engine.BidRequest{
			AuctionID: "auction_0",
			BidderID:  fmt.Sprintf("user_%d", j),
			Amount:    float64(51 + j),
		})
	}

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := store.GetWinningBid("auction_0"); err != nil {
				b.Fatalf("failed to get winning bid: %v", err)
			}
		}
	})
}

// Benchmark 5: Mixed Workload (Readers + Writers concurrently)
func Benchmark_MixedWorkload_SharedAuction(b *testing.B) {
	store, eng := setupEngine(1)
	ctx := context.Background()

	for j := 0; j < 50; j++ {
		_, _ = eng.PlaceBid(ctx, engine.BidRequest{
			AuctionID: "auction_0",
			BidderID:  fmt.Sprintf("user_seed_%d", j),
			Amount:    float64(51 + j*2),
		})
	}

	b.ReportAllocs()
	b.ResetTimer()

	var lastBid int64 = 160

	// Ratio: 70% readers, 30% writers
	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			opType := rnd.Intn(10)
			switch {
			case opType < 3:
				nextBid := atomic.AddInt64(&lastBid, int64(rnd.Intn(5)+1))
				_, _ = eng.PlaceBid(ctx, engine.BidRequest{
					AuctionID: "auction_0",
					BidderID:  fmt.Sprintf("user_writer_%d", rnd.Int()),
					Amount:    float64(nextBid),
				})
			default:
				_, _ = store.GetWinningBid("auction_0")
			}
		}
	})
}

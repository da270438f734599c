package integrationtests

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	model "bid-engine/internal/models"
	"bid-engine/services/bidding/helpers"

	"github.com/stretchr/testify/require"
)

// PlaceBidHandler Tests
func TestPlaceBid(t *testing.T) {
	tests := []struct {
		name       string
		auctions   []model.Auction
		url        string
		request    any
		wantStatus int
	}{
		{
			name:       "Valid_Bid",
			auctions:   []model.Auction{activeAuction("auction1", "seller1", 50)},
			url:        "/auctions/auction1/bids",
			request:    helpers.PlaceBidRequest{BidderID: "user1", Amount: 100},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Invalid_JSON",
			auctions:   []model.Auction{activeAuction("auction1", "seller1", 50)},
			url:        "/auctions/auction1/bids",
			request:    []byte("{bidder_id: 'missing quotes', amount: 100}"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Below_Starting_Price",
			auctions:   []model.Auction{activeAuction("auction1", "seller1", 50)},
			url:        "/auctions/auction1/bids",
			request:    helpers.PlaceBidRequest{BidderID: "user1", Amount: 10},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "Seller_On_Own_Auction",
			auctions:   []model.Auction{activeAuction("auction1", "seller1", 50)},
			url:        "/auctions/auction1/bids",
			request:    helpers.PlaceBidRequest{BidderID: "seller1", Amount: 100},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "Unknown_Auction",
			auctions:   []model.Auction{},
			url:        "/auctions/nonexistent/bids",
			request:    helpers.PlaceBidRequest{BidderID: "user1", Amount: 100},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "Ended_Auction",
			auctions: []model.Auction{{
				AuctionID: "auction1", SellerID: "seller1", StartingPrice: 50,
				CurrentPrice: 50, EndTime: time.Now().UTC().Add(time.Hour), Status: model.StatusEnded,
			}},
			url:        "/auctions/auction1/bids",
			request:    helpers.PlaceBidRequest{BidderID: "user1", Amount: 100},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := SetupTestRouter(tt.auctions...)
			resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, tt.url, tt.request)
			require.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusCreated {
				data := resp["data"].(map[string]any)
				require.Equal(t, true, data["accepted"])

				bid := data["bid"].(map[string]any)
				require.Equal(t, "user1", bid["bidder_id"])
				require.Equal(t, 100.0, bid["amount"])
				require.NotEmpty(t, bid["bid_id"])

				_, err := time.Parse(time.RFC3339, bid["created_at"].(string))
				require.NoError(t, err)

				auction := data["auction"].(map[string]any)
				require.Equal(t, 100.0, auction["current_price"])
			}
		})
	}
}

// Proxy auto-raise through the full stack: the standing leader's ceiling
// absorbs a lower challenge and the price rises by one increment.
func TestPlaceBid_ProxyAutoRaise(t *testing.T) {
	router, _ := SetupTestRouter(activeAuction("auction1", "seller1", 50))

	resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/auctions/auction1/bids",
		helpers.PlaceBidRequest{BidderID: "user1", Amount: 50, MaxBid: 100})
	require.Equal(t, http.StatusCreated, w.Code)

	// the ceiling comes back only to the bidder who set it
	data := resp["data"].(map[string]any)
	require.Equal(t, 100.0, data["bid"].(map[string]any)["max_bid"])

	resp, w = ExecuteRequestAndParse(t, router, http.MethodPost, "/auctions/auction1/bids",
		helpers.PlaceBidRequest{BidderID: "user2", Amount: 60})
	require.Equal(t, http.StatusCreated, w.Code)

	data = resp["data"].(map[string]any)
	require.Equal(t, true, data["accepted"])
	require.Equal(t, true, data["auto_bid_triggered"])
	require.Equal(t, 1.0, data["outbid_notifications_sent"])
	require.Equal(t, 65.0, data["auction"].(map[string]any)["current_price"])

	// user1's proxy defended the lead
	resp, w = ExecuteRequestAndParse(t, router, http.MethodGet, "/auctions/auction1/winning", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "user1", resp["data"].(map[string]any)["bidder_id"])
}

// A challenge above the ceiling flips the lead.
func TestPlaceBid_CeilingBeatenFlipsLead(t *testing.T) {
	router, _ := SetupTestRouter(activeAuction("auction1", "seller1", 50))

	_, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/auctions/auction1/bids",
		helpers.PlaceBidRequest{BidderID: "user1", Amount: 50, MaxBid: 100})
	require.Equal(t, http.StatusCreated, w.Code)

	resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/auctions/auction1/bids",
		helpers.PlaceBidRequest{BidderID: "user2", Amount: 150})
	require.Equal(t, http.StatusCreated, w.Code)

	data := resp["data"].(map[string]any)
	require.Equal(t, false, data["auto_bid_triggered"])
	require.Equal(t, 1.0, data["outbid_notifications_sent"])
	require.Equal(t, 150.0, data["auction"].(map[string]any)["current_price"])

	resp, w = ExecuteRequestAndParse(t, router, http.MethodGet, "/auctions/auction1/winning", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "user2", resp["data"].(map[string]any)["bidder_id"])
}

// A bid landing inside the snipe window pushes the close out.
func TestPlaceBid_SnipeExtension(t *testing.T) {
	a := activeAuction("auction1", "seller1", 50)
	a.EndTime = time.Now().UTC().Add(time.Second)
	router, _ := SetupTestRouter(a)

	resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/auctions/auction1/bids",
		helpers.PlaceBidRequest{BidderID: "user1", Amount: 100})
	require.Equal(t, http.StatusCreated, w.Code)

	data := resp["data"].(map[string]any)
	require.Equal(t, true, data["was_extended"])

	newEnd, err := time.Parse(time.RFC3339, data["new_end_time"].(string))
	require.NoError(t, err)
	require.True(t, newEnd.After(a.EndTime))

	// the snapshot reflects the extension
	resp, w = ExecuteRequestAndParse(t, router, http.MethodGet, "/auctions/auction1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1.0, resp["data"].(map[string]any)["extensions"])
}

// GetBidsByAuctionHandler Tests
func TestGetBidsByAuction(t *testing.T) {
	tests := []struct {
		name       string
		auctions   []model.Auction
		seedBids   []helpers.PlaceBidRequest
		auctionID  string
		wantCount  int
		wantStatus int
	}{
		{
			name:       "With_Bids",
			auctions:   []model.Auction{activeAuction("auction1", "seller1", 50)},
			seedBids:   []helpers.PlaceBidRequest{{BidderID: "user1", Amount: 100}},
			auctionID:  "auction1",
			wantCount:  1,
			wantStatus: http.StatusOK,
		},
		{
			name:       "No_Bids",
			auctions:   []model.Auction{activeAuction("auction2", "seller1", 30)},
			auctionID:  "auction2",
			wantCount:  0,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := SetupTestRouter(tt.auctions...)
			for _, bid := range tt.seedBids {
				_, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/auctions/"+tt.auctionID+"/bids", bid)
				require.Equal(t, http.StatusCreated, w.Code)
			}

			resp, w := ExecuteRequestAndParse(t, router, http.MethodGet, "/auctions/"+tt.auctionID+"/bids", nil)
			require.Equal(t, tt.wantStatus, w.Code)

			bids := resp["data"].([]any)
			require.Len(t, bids, tt.wantCount)
		})
	}
}

// GetWinningBidHandler Tests
func TestGetWinningBid(t *testing.T) {
	tests := []struct {
		name       string
		auctions   []model.Auction
		seedBids   []helpers.PlaceBidRequest
		auctionID  string
		wantUser   string
		wantAmount float64
		wantStatus int
	}{
		{
			name:     "With_Bids",
			auctions: []model.Auction{activeAuction("auction1", "seller1", 50)},
			seedBids: []helpers.PlaceBidRequest{
				{BidderID: "user1", Amount: 100},
				{BidderID: "user3", Amount: 120},
				{BidderID: "user2", Amount: 150},
			},
			auctionID:  "auction1",
			wantUser:   "user2",
			wantAmount: 150,
			wantStatus: http.StatusOK,
		},
		{
			name:       "No_Bids",
			auctions:   []model.Auction{activeAuction("auction2", "seller1", 30)},
			auctionID:  "auction2",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := SetupTestRouter(tt.auctions...)
			for _, bid := range tt.seedBids {
				_, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/auctions/"+tt.auctionID+"/bids", bid)
				require.Equal(t, http.StatusCreated, w.Code)
			}

			resp, w := ExecuteRequestAndParse(t, router, http.MethodGet, "/auctions/"+tt.auctionID+"/winning", nil)
			require.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				data := resp["data"].(map[string]any)
				require.Equal(t, tt.auctionID, data["auction_id"])
				require.Equal(t, tt.wantUser, data["bidder_id"])
				require.Equal(t, tt.wantAmount, data["amount"])
				_, err := time.Parse(time.RFC3339, data["created_at"].(string))
				require.NoError(t, err)
			}
		})
	}
}

// Concurrent bidders through the HTTP layer still leave exactly one
// winning bid, and the final price matches it.
func TestConcurrentBiddersSingleWinner(t *testing.T) {
	router, store := SetupTestRouter(activeAuction("auction1", "seller1", 50))

	const bidders = 20
	var wg sync.WaitGroup
	for i := 0; i < bidders; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/auctions/auction1/bids",
				helpers.PlaceBidRequest{BidderID: fmt.Sprintf("user%d", i), Amount: float64(100 + 50*i)})
			// arrival order decides which bids clear the increment bar
			if w.Code != http.StatusCreated && w.Code != http.StatusConflict {
				t.Errorf("unexpected status %d", w.Code)
			}
		}()
	}
	wg.Wait()

	bids, err := store.GetBidsByAuction("auction1")
	require.NoError(t, err)

	winners := 0
	var winningAmount float64
	for _, b := range bids {
		if b.IsWinning {
			winners++
			winningAmount = b.Amount
		}
	}
	require.Equal(t, 1, winners)

	a, err := store.LoadAuction("auction1")
	require.NoError(t, err)
	require.Equal(t, winningAmount, a.CurrentPrice)
}

package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"bid-engine/internal/config"
	"bid-engine/internal/engine"
	"bid-engine/internal/identity"
	model "bid-engine/internal/models"
	"bid-engine/internal/notify"
	"bid-engine/internal/repository"
	"bid-engine/internal/server"

	"github.com/gin-gonic/gin"
)

// testEngineConfig keeps windows short enough that snipe-extension
// scenarios run against real wall-clock time.
func testEngineConfig() config.EngineConfig {
	cfg := config.Default().Engine
	cfg.SnipeWindow = 2 * time.Second
	cfg.SubmitTimeout = 5 * time.Second
	return cfg
}

// SetupTestRouter wires the full stack (in-memory store, real engine,
// log-only notifier) and seeds the store with the given auctions.
func SetupTestRouter(auctions ...model.Auction) (*gin.Engine, *repository.MemoryStore) {
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	for _, a := range auctions {
		store.CreateAuction(a)
	}

	dispatcher := notify.NewDispatcher(notify.LogPublisher{}, 4)
	eng := engine.New(store, dispatcher, testEngineConfig())
	router := server.SetupRouter(eng, store, &identity.StaticVerifier{})
	return router, store
}

// ExecuteRequest executes an HTTP request and returns the response recorder.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	var reqBody []byte
	var err error

	switch v := body.(type) {
	case []byte:
		reqBody = v
	case nil:
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		if err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}

	return resp, w
}

// activeAuction builds a live auction ending comfortably in the future.
func activeAuction(auctionID, sellerID string, startingPrice float64) model.Auction {
	return model.Auction{
		AuctionID:     auctionID,
		Title:         auctionID + " title",
		SellerID:      sellerID,
		StartingPrice: startingPrice,
		CurrentPrice:  startingPrice,
		EndTime:       time.Now().UTC().Add(time.Hour),
		Status:        model.StatusActive,
	}
}

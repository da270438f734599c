package biddingerrors

import "errors"

// Store-level errors
var (
	ErrAuctionNotFound  = errors.New("auction not found")
	ErrNoBids           = errors.New("no bids found for auction")
	ErrVersionConflict  = errors.New("auction state changed concurrently")
	ErrStoreUnavailable = errors.New("auction store unavailable")
)

// Adjudication errors
var (
	ErrInvalidBid          = errors.New("invalid bid")
	ErrAuctionNotLive      = errors.New("auction is not live")
	ErrSellerCannotBid     = errors.New("seller cannot bid on own auction")
	ErrBidTooLow           = errors.New("bid amount too low")
	ErrInvalidProxyCeiling = errors.New("proxy ceiling below bid amount")
)

// Engine errors
var (
	// ErrTimeout means the caller's deadline expired before adjudication
	// finished. The bid is still queued and will be processed; it is
	// "still processing", not discarded.
	ErrTimeout = errors.New("bid adjudication still processing")

	// ErrEngineBusy means the auction's lane queue was full and the bid
	// was NOT admitted.
	ErrEngineBusy = errors.New("too many concurrent bids for auction")
)

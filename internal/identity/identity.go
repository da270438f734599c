package identity

// Verifier supplies the trusted bidder-eligibility decision. The bid
// engine does not re-derive eligibility; the delivery layer consults
// the verifier before submitting.
type Verifier interface {
	Verify(bidderID string) (bool, error)
}

// StaticVerifier is the default implementation: every bidder is
// eligible unless explicitly blocked.
type StaticVerifier struct {
	Blocked map[string]bool
}

// Verify reports whether the bidder may place bids.
func (v *StaticVerifier) Verify(bidderID string) (bool, error) {
	if v == nil || v.Blocked == nil {
		return true, nil
	}
	return !v.Blocked[bidderID], nil
}

package models

// SignatureStatus mirrors a document's position in the external signing lifecycle.
// A nil *SignatureStatus means the document was never sent for signature.
type SignatureStatus string

const (
	SignatureStatusPending         SignatureStatus = "pending"
	SignatureStatusPartiallySigned SignatureStatus = "partially_signed"
	SignatureStatusCompleted       SignatureStatus = "completed"
	SignatureStatusDeclined        SignatureStatus = "declined"
	SignatureStatusCancelled       SignatureStatus = "cancelled"
	SignatureStatusExpired         SignatureStatus = "expired"
	SignatureStatusError           SignatureStatus = "error"
)

// IsTerminal reports whether no further transition is allowed out of s
func (s SignatureStatus) IsTerminal() bool {
	switch s {
	case SignatureStatusCompleted, SignatureStatusDeclined, SignatureStatusCancelled,
		SignatureStatusExpired, SignatureStatusError:
		return true
	default:
		return false
	}
}

// rank orders statuses for the monotonicity check: nil < pending < partially_signed < terminal
func rank(s *SignatureStatus) int {
	if s == nil {
		return 0
	}
	switch *s {
	case SignatureStatusPending:
		return 1
	case SignatureStatusPartiallySigned:
		return 2
	default:
		return 3
	}
}

// CanTransition reports whether moving from -> to is a forward move.
// Terminal statuses never change and nothing moves backwards, so a stale event
// delivered after a newer one cannot regress the document.
func CanTransition(from *SignatureStatus, to SignatureStatus) bool {
	if from != nil && from.IsTerminal() {
		return false
	}
	return rank(&to) > rank(from)
}

// Signature provider event types
const (
	EventSignatureRequestSent      = "signature_request_sent"
	EventSignatureRequestViewed    = "signature_request_viewed"
	EventSignatureRequestSigned    = "signature_request_signed"
	EventSignatureRequestAllSigned = "signature_request_all_signed"
	EventSignatureRequestDeclined  = "signature_request_declined"
	EventSignatureRequestCanceled  = "signature_request_canceled"
	EventSignatureRequestExpired   = "signature_request_expired"
	EventSignatureRequestInvalid   = "signature_request_invalid"
	EventCallbackTest              = "callback_test"
)

// SignatureEvent is a provider-pushed lifecycle notification. It is never persisted;
// only the status it implies is folded into the document.
type SignatureEvent struct {
	EventType          string
	SignatureRequestID string
	AllSigned          bool // completeness flag carried by signature_request_signed
}

// NextStatus maps the event to the status it implies.
// ok is false for event types that leave the status unchanged.
func (e SignatureEvent) NextStatus() (status SignatureStatus, ok bool) {
	switch e.EventType {
	case EventSignatureRequestSent:
		return SignatureStatusPending, true
	case EventSignatureRequestSigned:
		if e.AllSigned {
			return SignatureStatusCompleted, true
		}
		return SignatureStatusPartiallySigned, true
	case EventSignatureRequestAllSigned:
		return SignatureStatusCompleted, true
	case EventSignatureRequestDeclined:
		return SignatureStatusDeclined, true
	case EventSignatureRequestCanceled:
		return SignatureStatusCancelled, true
	case EventSignatureRequestExpired:
		return SignatureStatusExpired, true
	case EventSignatureRequestInvalid:
		return SignatureStatusError, true
	default:
		// viewed, callback_test and unknown types
		return "", false
	}
}

package apperr

import (
	"encoding/json"
	"sync"
	"sync/atomic"
)

// CallToken is an opaque per-logical-thread token. Go has no stable,
// public goroutine id, so callers that need the ABI's "last error JSON"
// accessor mint one token per logical thread via NewCallToken and pass it
// into SetLastError/LastError. Pure in-process callers that never cross an
// FFI boundary can ignore tokens and use the returned error directly.
type CallToken uint64

var tokenCounter uint64

// NewCallToken mints a fresh, process-unique CallToken.
func NewCallToken() CallToken {
	return CallToken(atomic.AddUint64(&tokenCounter, 1))
}

var lastErrors sync.Map // map[CallToken]*Error

// SetLastError records err as the most recent error observed for token.
// A nil err clears the slot.
func SetLastError(token CallToken, err error) {
	if err == nil {
		lastErrors.Delete(token)
		return
	}
	var ae *Error
	if e, ok := err.(*Error); ok {
		ae = e
	} else {
		ae = Wrap(Unexpected, err, "non-apperr error")
	}
	lastErrors.Store(token, ae)
}

// lastErrorJSON is the wire shape returned by LastErrorJSON.
type lastErrorJSON struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// LastError returns the last error recorded for token, or nil.
func LastError(token CallToken) *Error {
	v, ok := lastErrors.Load(token)
	if !ok {
		return nil
	}
	return v.(*Error)
}

// LastErrorJSON renders the last error recorded for token as the ABI's
// "last error JSON" payload. Returns the success payload when there is none.
func LastErrorJSON(token CallToken) []byte {
	e := LastError(token)
	if e == nil {
		b, _ := json.Marshal(lastErrorJSON{Code: Success.Code(), Kind: Success.String(), Message: ""})
		return b
	}
	b, _ := json.Marshal(lastErrorJSON{Code: e.Kind.Code(), Kind: e.Kind.String(), Message: e.Message})
	return b
}

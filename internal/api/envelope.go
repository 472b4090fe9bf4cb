package api

// Envelope is the uniform shape of every remote API response. Failures of
// any kind (transport, decoding, business) are reported as Success=false
// with a human-readable Message.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (e *Envelope) envelope() *Envelope { return e }

// Err returns nil on success, otherwise an *Error carrying the message.
func (e Envelope) Err() error {
	if e.Success {
		return nil
	}
	return &Error{Message: e.Message}
}

// MessageOr returns the remote message, or fallback when it is empty.
func (e Envelope) MessageOr(fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

type Error struct {
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return "remote request failed"
	}
	return e.Message
}

type enveloper interface {
	envelope() *Envelope
}

func failure(msg string) Envelope {
	return Envelope{Success: false, Message: msg}
}

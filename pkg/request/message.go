package request

import (
	"errors"
	"fmt"
)

// ErrInternalServer is the body message for an unexpected server error.
var ErrInternalServer = errors.New("internal server error")

// Message represents a message response.
type Message struct {
	Message string `json:"Message"`
}

// NewMessage creates a new Message.
func NewMessage(message string, args ...any) *Message {
	var msg string
	if len(args) > 0 {
		msg = fmt.Sprintf(message, args...)
	} else {
		msg = message
	}
	return &Message{
		Message: msg,
	}
}

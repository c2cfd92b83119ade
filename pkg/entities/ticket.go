package entities

import (
	"errors"
	"time"

	"github.com/vixenbot/vixen/pkg/custom"
)

// TicketStatus is the lifecycle state of a ticket.
type TicketStatus string

const (
	// TicketStatusOpen means the ticket channel is live.
	TicketStatusOpen TicketStatus = "open"

	// TicketStatusClosed means the ticket has been resolved and its channel
	// deleted. Closed tickets stay on record for history and quota counting.
	TicketStatusClosed TicketStatus = "closed"
)

// ErrTicketClosed is returned when closing a ticket that is already closed.
var ErrTicketClosed = errors.New("ticket is already closed")

// Ticket is a single support ticket.
type Ticket struct {
	// ID is the ticket ID in the form YYYYMMDD-NNN, where NNN is the ticket's
	// sequence number for that day within the guild.
	ID string `json:"id" bson:"id"`

	// GuildID is the ID of the guild that the ticket is in.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// ChannelID is the ID of the channel that was created for the ticket.
	ChannelID string `json:"channel_id" bson:"channel_id"`

	// OwnerID is the ID of the user that opened the ticket.
	OwnerID string `json:"owner_id" bson:"owner_id"`

	// OwnerUsername is the username of the user that opened the ticket.
	OwnerUsername string `json:"owner_username" bson:"owner_username"`

	// Message is the issue description the user submitted when opening the
	// ticket.
	Message string `json:"message" bson:"message"`

	// Status is the lifecycle state of the ticket.
	Status TicketStatus `json:"status" bson:"status"`

	// CreatedAt is when the ticket was opened.
	CreatedAt custom.Datetime `json:"created_at" bson:"created_at"`

	// ClosedAt is when the ticket was closed. Set iff Status is closed.
	ClosedAt *custom.Datetime `json:"closed_at,omitempty" bson:"closed_at,omitempty"`

	// ClosedBy is the ID of the user that closed the ticket.
	ClosedBy string `json:"closed_by,omitempty" bson:"closed_by,omitempty"`

	// Resolution is the optional resolution message given on close.
	Resolution string `json:"resolution,omitempty" bson:"resolution,omitempty"`
}

// ChannelName is the name of the Discord channel for the ticket.
func (t *Ticket) ChannelName() string {
	return "ticket-" + t.ID
}

// Closed reports whether the ticket is closed.
func (t *Ticket) Closed() bool {
	return t.Status == TicketStatusClosed
}

// Close marks the ticket closed. Closing an already closed ticket returns
// ErrTicketClosed and changes nothing.
func (t *Ticket) Close(by, resolution string, at time.Time) error {
	if t.Closed() {
		return ErrTicketClosed
	}

	closedAt := custom.NewDatetime(at)
	t.Status = TicketStatusClosed
	t.ClosedAt = &closedAt
	t.ClosedBy = by
	t.Resolution = resolution
	return nil
}

// CreatedIn reports whether the ticket was created in the same UTC calendar
// month as the given time.
func (t *Ticket) CreatedIn(now time.Time) bool {
	created := t.CreatedAt.Time().UTC()
	now = now.UTC()
	return created.Year() == now.Year() && created.Month() == now.Month()
}

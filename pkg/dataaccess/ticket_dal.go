package dataaccess

import (
	"context"
	"log/slog"
	"time"

	"github.com/vixenbot/vixen/pkg/entities"
	"github.com/vixenbot/vixen/pkg/logging"
)

const ticketDalName = "ticket_dal"

// TicketDal is the data access layer for ticket records.
type TicketDal interface {
	// OpenTicket stores a new ticket, enforcing the guild's monthly per-user
	// limit. Returns ErrQuotaExceeded when the owner has already opened limit
	// tickets this calendar month.
	OpenTicket(ctx context.Context, ticket *entities.Ticket, limit int) error

	// SaveTicket saves an existing ticket.
	SaveTicket(ctx context.Context, ticket *entities.Ticket) error

	// GetTicketByChannel gets the ticket whose channel is the given channel.
	// Returns ErrNotFound when the channel is not a tracked ticket.
	GetTicketByChannel(ctx context.Context, guildID, channelID string) (*entities.Ticket, error)

	// ListUserTickets lists a user's tickets in the guild, oldest first.
	ListUserTickets(ctx context.Context, guildID, userID string) ([]*entities.Ticket, error)

	// ListGuildTickets lists every ticket in the guild, oldest first.
	ListGuildTickets(ctx context.Context, guildID string) ([]*entities.Ticket, error)

	// CountMonthlyTickets counts the user's tickets created in the same UTC
	// calendar month as now, regardless of status.
	CountMonthlyTickets(ctx context.Context, guildID, userID string, now time.Time) (int, error)

	// NextTicketID returns the next ticket ID for the guild, in the form
	// YYYYMMDD-NNN where NNN is the day's sequence number.
	NextTicketID(ctx context.Context, guildID string, now time.Time) (string, error)

	// DeleteUserTickets deletes all of a user's ticket records in the guild
	// and reports how many were removed.
	DeleteUserTickets(ctx context.Context, guildID, userID string) (int, error)

	// DeleteGuildTickets deletes every ticket record in the guild.
	DeleteGuildTickets(ctx context.Context, guildID string) error
}

// NewTicketDal creates a ticket data access layer over whichever backend was
// configured at startup.
func NewTicketDal(logger *slog.Logger) TicketDal {
	l := logger.With(slog.String(logging.KeyDal, ticketDalName))

	if MongoDB != nil {
		return &mongoTicketDal{
			l:      l,
			client: MongoDB,
		}
	}

	if FileStore == nil {
		l.Warn("No store configured, this can cause a panic. Proceeding...")
	}

	return &fileTicketDal{
		l:     l,
		store: FileStore,
	}
}

package dataaccess

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vixenbot/vixen/pkg/custom"
	"github.com/vixenbot/vixen/pkg/entities"
)

func newTestTicketDal(t *testing.T) *fileTicketDal {
	t.Helper()
	store, l := newTestFileStore(t)
	return &fileTicketDal{l: l, store: store}
}

func newTestTicket(guildID, ownerID string, createdAt time.Time, seq int) *entities.Ticket {
	return &entities.Ticket{
		ID:            fmt.Sprintf("%s-%03d", createdAt.UTC().Format("20060102"), seq),
		GuildID:       guildID,
		ChannelID:     fmt.Sprintf("chan-%s-%d", ownerID, seq),
		OwnerID:       ownerID,
		OwnerUsername: ownerID,
		Message:       "something broke",
		Status:        entities.TicketStatusOpen,
		CreatedAt:     custom.NewDatetime(createdAt),
	}
}

func TestFileTicketDal_OpenTicket_Quota(t *testing.T) {
	dal := newTestTicketDal(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)

	const limit = 2
	require.NoError(t, dal.OpenTicket(ctx, newTestTicket("g1", "u1", now, 1), limit))
	require.NoError(t, dal.OpenTicket(ctx, newTestTicket("g1", "u1", now, 2), limit))

	// Third ticket in the same month is rejected.
	err := dal.OpenTicket(ctx, newTestTicket("g1", "u1", now, 3), limit)
	require.ErrorIs(t, err, ErrQuotaExceeded)

	// A rejected open leaves no record behind.
	count, err := dal.CountMonthlyTickets(ctx, "g1", "u1", now)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	// Another user is not affected.
	require.NoError(t, dal.OpenTicket(ctx, newTestTicket("g1", "u2", now, 4), limit))
}

func TestFileTicketDal_OpenTicket_MonthRollover(t *testing.T) {
	dal := newTestTicketDal(t)
	ctx := context.Background()

	march := time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 1, 1, 0, 0, 0, time.UTC)

	const limit = 1
	require.NoError(t, dal.OpenTicket(ctx, newTestTicket("g1", "u1", march, 1), limit))
	require.ErrorIs(t, dal.OpenTicket(ctx, newTestTicket("g1", "u1", march, 2), limit), ErrQuotaExceeded)

	// The quota resets with the new calendar month.
	require.NoError(t, dal.OpenTicket(ctx, newTestTicket("g1", "u1", april, 1), limit))
}

func TestFileTicketDal_CountMonthlyTickets_IncludesClosed(t *testing.T) {
	dal := newTestTicketDal(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)

	ticket := newTestTicket("g1", "u1", now, 1)
	require.NoError(t, dal.OpenTicket(ctx, ticket, 5))

	require.NoError(t, ticket.Close("u1", "", now.Add(time.Hour)))
	require.NoError(t, dal.SaveTicket(ctx, ticket))

	// Closing a ticket does not refund quota.
	count, err := dal.CountMonthlyTickets(ctx, "g1", "u1", now)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestFileTicketDal_NextTicketID(t *testing.T) {
	dal := newTestTicketDal(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)

	id, err := dal.NextTicketID(ctx, "g1", now)
	require.NoError(t, err)
	require.Equal(t, "20240307-001", id)

	require.NoError(t, dal.OpenTicket(ctx, newTestTicket("g1", "u1", now, 1), 5))

	id, err = dal.NextTicketID(ctx, "g1", now)
	require.NoError(t, err)
	require.Equal(t, "20240307-002", id)

	// A new day starts its own sequence.
	id, err = dal.NextTicketID(ctx, "g1", now.Add(24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, "20240308-001", id)

	// Guilds are sequenced independently.
	id, err = dal.NextTicketID(ctx, "g2", now)
	require.NoError(t, err)
	require.Equal(t, "20240307-001", id)
}

func TestFileTicketDal_NextTicketID_AfterWipe(t *testing.T) {
	dal := newTestTicketDal(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)

	require.NoError(t, dal.OpenTicket(ctx, newTestTicket("g1", "u1", now, 1), 10))
	require.NoError(t, dal.OpenTicket(ctx, newTestTicket("g1", "u2", now, 2), 10))

	removed, err := dal.DeleteUserTickets(ctx, "g1", "u1")
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	// The freed sequence number must not be reissued while a later ticket of
	// the day survives.
	id, err := dal.NextTicketID(ctx, "g1", now)
	require.NoError(t, err)
	require.Equal(t, "20240307-003", id)

	require.NoError(t, dal.OpenTicket(ctx, newTestTicket("g1", "u3", now, 3), 10))

	// The surviving ticket is untouched.
	tickets, err := dal.ListUserTickets(ctx, "g1", "u2")
	require.NoError(t, err)
	require.Len(t, tickets, 1)

	tickets, err = dal.ListGuildTickets(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, tickets, 2)
}

func TestFileTicketDal_OpenTicket_DuplicateIDRefused(t *testing.T) {
	dal := newTestTicketDal(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)

	first := newTestTicket("g1", "u1", now, 1)
	require.NoError(t, dal.OpenTicket(ctx, first, 10))

	// Same day sequence, so the same ID.
	require.Error(t, dal.OpenTicket(ctx, newTestTicket("g1", "u2", now, 1), 10))

	// The original record survives the refused insert.
	got, err := dal.GetTicketByChannel(ctx, "g1", first.ChannelID)
	require.NoError(t, err)
	require.Equal(t, "u1", got.OwnerID)

	tickets, err := dal.ListGuildTickets(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
}

func TestFileTicketDal_GetTicketByChannel(t *testing.T) {
	dal := newTestTicketDal(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)

	ticket := newTestTicket("g1", "u1", now, 1)
	require.NoError(t, dal.OpenTicket(ctx, ticket, 5))

	got, err := dal.GetTicketByChannel(ctx, "g1", ticket.ChannelID)
	require.NoError(t, err)
	require.Equal(t, ticket.ID, got.ID)

	_, err = dal.GetTicketByChannel(ctx, "g1", "not-a-ticket-channel")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileTicketDal_ListUserTickets_SortedOldestFirst(t *testing.T) {
	dal := newTestTicketDal(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)

	// Insert newest first to make sure the listing sorts.
	require.NoError(t, dal.OpenTicket(ctx, newTestTicket("g1", "u1", base.Add(2*time.Hour), 3), 10))
	require.NoError(t, dal.OpenTicket(ctx, newTestTicket("g1", "u1", base, 1), 10))
	require.NoError(t, dal.OpenTicket(ctx, newTestTicket("g1", "u1", base.Add(time.Hour), 2), 10))
	require.NoError(t, dal.OpenTicket(ctx, newTestTicket("g1", "u2", base, 4), 10))

	tickets, err := dal.ListUserTickets(ctx, "g1", "u1")
	require.NoError(t, err)
	require.Len(t, tickets, 3)
	require.Equal(t, "20240307-001", tickets[0].ID)
	require.Equal(t, "20240307-002", tickets[1].ID)
	require.Equal(t, "20240307-003", tickets[2].ID)
}

func TestFileTicketDal_DeleteUserTickets(t *testing.T) {
	dal := newTestTicketDal(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)

	require.NoError(t, dal.OpenTicket(ctx, newTestTicket("g1", "u1", now, 1), 10))
	require.NoError(t, dal.OpenTicket(ctx, newTestTicket("g1", "u1", now, 2), 10))
	require.NoError(t, dal.OpenTicket(ctx, newTestTicket("g1", "u2", now, 3), 10))

	removed, err := dal.DeleteUserTickets(ctx, "g1", "u1")
	require.NoError(t, err)
	require.Equal(t, 2, removed)

	tickets, err := dal.ListUserTickets(ctx, "g1", "u1")
	require.NoError(t, err)
	require.Empty(t, tickets)

	// The other user's tickets survive, and the wiped user's quota is back.
	tickets, err = dal.ListUserTickets(ctx, "g1", "u2")
	require.NoError(t, err)
	require.Len(t, tickets, 1)

	count, err := dal.CountMonthlyTickets(ctx, "g1", "u1", now)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestFileTicketDal_DeleteGuildTickets(t *testing.T) {
	dal := newTestTicketDal(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)

	require.NoError(t, dal.OpenTicket(ctx, newTestTicket("g1", "u1", now, 1), 10))
	require.NoError(t, dal.OpenTicket(ctx, newTestTicket("g2", "u1", now, 2), 10))

	require.NoError(t, dal.DeleteGuildTickets(ctx, "g1"))

	tickets, err := dal.ListGuildTickets(ctx, "g1")
	require.NoError(t, err)
	require.Empty(t, tickets)

	// Other guilds are untouched.
	tickets, err = dal.ListGuildTickets(ctx, "g2")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
}

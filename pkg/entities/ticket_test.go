package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vixenbot/vixen/pkg/custom"
)

func TestTicket_Close(t *testing.T) {
	ticket := &Ticket{
		ID:        "20240307-001",
		GuildID:   "g1",
		OwnerID:   "u1",
		Status:    TicketStatusOpen,
		CreatedAt: custom.NewDatetime(time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC)),
	}

	require.Nil(t, ticket.ClosedAt)
	require.False(t, ticket.Closed())

	closedAt := time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC)
	require.NoError(t, ticket.Close("u2", "fixed it", closedAt))

	require.True(t, ticket.Closed())
	require.Equal(t, TicketStatusClosed, ticket.Status)
	require.NotNil(t, ticket.ClosedAt)
	require.True(t, closedAt.Equal(ticket.ClosedAt.Time()))
	require.Equal(t, "u2", ticket.ClosedBy)
	require.Equal(t, "fixed it", ticket.Resolution)
}

func TestTicket_Close_AlreadyClosed(t *testing.T) {
	ticket := &Ticket{
		ID:     "20240307-001",
		Status: TicketStatusOpen,
	}

	first := time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC)
	require.NoError(t, ticket.Close("u2", "fixed", first))

	// A second close must not overwrite anything.
	err := ticket.Close("u3", "again", first.Add(time.Hour))
	require.ErrorIs(t, err, ErrTicketClosed)
	require.Equal(t, "u2", ticket.ClosedBy)
	require.Equal(t, "fixed", ticket.Resolution)
	require.True(t, first.Equal(ticket.ClosedAt.Time()))
}

func TestTicket_ChannelName(t *testing.T) {
	ticket := &Ticket{ID: "20240307-012"}
	require.Equal(t, "ticket-20240307-012", ticket.ChannelName())
}

func TestTicket_CreatedIn(t *testing.T) {
	tests := []struct {
		name    string
		created time.Time
		now     time.Time
		want    bool
	}{
		{
			name:    "SameMonth",
			created: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			now:     time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC),
			want:    true,
		},
		{
			name:    "NextMonth",
			created: time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC),
			now:     time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			want:    false,
		},
		{
			name:    "SameMonthDifferentYear",
			created: time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC),
			now:     time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			want:    false,
		},
		{
			name:    "TimezoneNormalisedToUTC",
			created: time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC),
			now:     time.Date(2024, 4, 1, 1, 0, 0, 0, time.FixedZone("CEST", 2*60*60)), // 2024-03-31T23:00Z
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := &Ticket{CreatedAt: custom.NewDatetime(tt.created)}
			require.Equal(t, tt.want, ticket.CreatedIn(tt.now))
		})
	}
}

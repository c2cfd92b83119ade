package dataaccess

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vixenbot/vixen/pkg/dataaccess/jsonstore"
	"github.com/vixenbot/vixen/pkg/dataaccess/monitoring"
	"github.com/vixenbot/vixen/pkg/entities"
)

// guildTickets is the shape of tickets.json: guild ID -> ticket ID -> ticket.
type guildTickets map[string]map[string]*entities.Ticket

// fileTicketDal stores ticket records in tickets.json.
type fileTicketDal struct {
	// l is the logger.
	l *slog.Logger

	// store is the JSON file store.
	store *jsonstore.Store
}

func (d *fileTicketDal) observe(query string) func() {
	monitoring.StoreTotalRequests.WithLabelValues(ticketDalName, query, "file", ticketsDocument).Inc()
	t := prometheus.NewTimer(monitoring.StoreLatency.WithLabelValues(ticketDalName, query, "file", ticketsDocument))
	return func() { t.ObserveDuration() }
}

func (d *fileTicketDal) OpenTicket(_ context.Context, ticket *entities.Ticket, limit int) error {
	defer d.observe("open_ticket")()

	data := make(guildTickets)
	err := d.store.Update(ticketsDocument, &data, func() error {
		// Re-check the quota under the store lock so concurrent opens cannot
		// slip past the limit.
		count := 0
		for _, t := range data[ticket.GuildID] {
			if t.OwnerID == ticket.OwnerID && t.CreatedIn(ticket.CreatedAt.Time()) {
				count++
			}
		}
		if count >= limit {
			return ErrQuotaExceeded
		}

		// Never overwrite an existing record. A concurrent open may have won
		// the ID between allocation and insert.
		if _, ok := data[ticket.GuildID][ticket.ID]; ok {
			return fmt.Errorf("ticket %s already exists in guild %s", ticket.ID, ticket.GuildID)
		}

		if data[ticket.GuildID] == nil {
			data[ticket.GuildID] = make(map[string]*entities.Ticket)
		}
		data[ticket.GuildID][ticket.ID] = ticket
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

func (d *fileTicketDal) SaveTicket(_ context.Context, ticket *entities.Ticket) error {
	defer d.observe("save_ticket")()

	data := make(guildTickets)
	err := d.store.Update(ticketsDocument, &data, func() error {
		if data[ticket.GuildID] == nil {
			data[ticket.GuildID] = make(map[string]*entities.Ticket)
		}
		data[ticket.GuildID][ticket.ID] = ticket
		return nil
	})
	if err != nil {
		return fmt.Errorf("error saving ticket: %w", err)
	}
	return nil
}

func (d *fileTicketDal) GetTicketByChannel(_ context.Context, guildID, channelID string) (*entities.Ticket, error) {
	defer d.observe("get_ticket_by_channel")()

	data := make(guildTickets)
	if err := d.store.View(ticketsDocument, &data); err != nil {
		return nil, fmt.Errorf("error loading tickets: %w", err)
	}

	for _, t := range data[guildID] {
		if t.ChannelID == channelID {
			return t, nil
		}
	}
	return nil, ErrNotFound
}

func (d *fileTicketDal) ListUserTickets(_ context.Context, guildID, userID string) ([]*entities.Ticket, error) {
	defer d.observe("list_user_tickets")()

	data := make(guildTickets)
	if err := d.store.View(ticketsDocument, &data); err != nil {
		return nil, fmt.Errorf("error loading tickets: %w", err)
	}

	tickets := make([]*entities.Ticket, 0)
	for _, t := range data[guildID] {
		if t.OwnerID == userID {
			tickets = append(tickets, t)
		}
	}
	sortTickets(tickets)
	return tickets, nil
}

func (d *fileTicketDal) ListGuildTickets(_ context.Context, guildID string) ([]*entities.Ticket, error) {
	defer d.observe("list_guild_tickets")()

	data := make(guildTickets)
	if err := d.store.View(ticketsDocument, &data); err != nil {
		return nil, fmt.Errorf("error loading tickets: %w", err)
	}

	tickets := make([]*entities.Ticket, 0, len(data[guildID]))
	for _, t := range data[guildID] {
		tickets = append(tickets, t)
	}
	sortTickets(tickets)
	return tickets, nil
}

func (d *fileTicketDal) CountMonthlyTickets(_ context.Context, guildID, userID string, now time.Time) (int, error) {
	defer d.observe("count_monthly_tickets")()

	data := make(guildTickets)
	if err := d.store.View(ticketsDocument, &data); err != nil {
		return 0, fmt.Errorf("error loading tickets: %w", err)
	}

	count := 0
	for _, t := range data[guildID] {
		if t.OwnerID == userID && t.CreatedIn(now) {
			count++
		}
	}
	return count, nil
}

func (d *fileTicketDal) NextTicketID(_ context.Context, guildID string, now time.Time) (string, error) {
	defer d.observe("next_ticket_id")()

	data := make(guildTickets)
	if err := d.store.View(ticketsDocument, &data); err != nil {
		return "", fmt.Errorf("error loading tickets: %w", err)
	}

	// One past the highest surviving sequence for the day. Counting records
	// instead would reissue an ID freed by a wipe and overwrite a later
	// ticket.
	prefix := now.UTC().Format("20060102")
	seq := 0
	for id := range data[guildID] {
		if n, ok := ticketSeq(id, prefix); ok && n > seq {
			seq = n
		}
	}
	return fmt.Sprintf("%s-%03d", prefix, seq+1), nil
}

// ticketSeq extracts the sequence number from a ticket ID with the given day
// prefix.
func ticketSeq(id, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(id, prefix+"-")
	if !ok {
		return 0, false
	}

	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (d *fileTicketDal) DeleteUserTickets(_ context.Context, guildID, userID string) (int, error) {
	defer d.observe("delete_user_tickets")()

	removed := 0
	data := make(guildTickets)
	err := d.store.Update(ticketsDocument, &data, func() error {
		for id, t := range data[guildID] {
			if t.OwnerID == userID {
				delete(data[guildID], id)
				removed++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("error deleting user tickets: %w", err)
	}
	return removed, nil
}

func (d *fileTicketDal) DeleteGuildTickets(_ context.Context, guildID string) error {
	defer d.observe("delete_guild_tickets")()

	data := make(guildTickets)
	err := d.store.Update(ticketsDocument, &data, func() error {
		delete(data, guildID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("error deleting guild tickets: %w", err)
	}
	return nil
}

func sortTickets(tickets []*entities.Ticket) {
	sort.Slice(tickets, func(i, j int) bool {
		return tickets[i].CreatedAt.Time().Before(tickets[j].CreatedAt.Time())
	})
}

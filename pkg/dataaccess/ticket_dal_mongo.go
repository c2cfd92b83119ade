package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vixenbot/vixen/pkg/custom"
	"github.com/vixenbot/vixen/pkg/dataaccess/monitoring"
	"github.com/vixenbot/vixen/pkg/entities"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ticketsCollection = "tickets"

// mongoTicketDal stores ticket records in the tickets collection. Datetimes
// are stored as RFC3339 UTC strings, so range filters on created_at compare
// correctly as strings.
type mongoTicketDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database. This is a connection pool.
	client *mongo.Client
}

func (d *mongoTicketDal) collection() *mongo.Collection {
	return d.client.Database(mongoDatabase).Collection(ticketsCollection)
}

func (d *mongoTicketDal) observe(query string) func() {
	monitoring.StoreTotalRequests.WithLabelValues(ticketDalName, query, "mongo", ticketsCollection).Inc()
	t := prometheus.NewTimer(monitoring.StoreLatency.WithLabelValues(ticketDalName, query, "mongo", ticketsCollection))
	return func() { t.ObserveDuration() }
}

func (d *mongoTicketDal) OpenTicket(ctx context.Context, ticket *entities.Ticket, limit int) error {
	defer d.observe("open_ticket")()

	// Soft cap: count then insert. Good enough at human request rates.
	count, err := d.CountMonthlyTickets(ctx, ticket.GuildID, ticket.OwnerID, ticket.CreatedAt.Time())
	if err != nil {
		return err
	}
	if count >= limit {
		return ErrQuotaExceeded
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"guild_id": ticket.GuildID, "id": ticket.ID}
	if _, err := d.collection().UpdateOne(ctx, filter, bson.M{"$set": ticket}, opts); err != nil {
		return fmt.Errorf("error inserting ticket: %w", err)
	}
	return nil
}

func (d *mongoTicketDal) SaveTicket(ctx context.Context, ticket *entities.Ticket) error {
	defer d.observe("save_ticket")()

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"guild_id": ticket.GuildID, "id": ticket.ID}
	if _, err := d.collection().UpdateOne(ctx, filter, bson.M{"$set": ticket}, opts); err != nil {
		return fmt.Errorf("error updating ticket: %w", err)
	}
	return nil
}

func (d *mongoTicketDal) GetTicketByChannel(ctx context.Context, guildID, channelID string) (*entities.Ticket, error) {
	defer d.observe("get_ticket_by_channel")()

	var ticket entities.Ticket
	err := d.collection().FindOne(ctx, bson.M{
		"guild_id":   guildID,
		"channel_id": channelID,
	}).Decode(&ticket)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}
	return &ticket, nil
}

func (d *mongoTicketDal) ListUserTickets(ctx context.Context, guildID, userID string) ([]*entities.Ticket, error) {
	defer d.observe("list_user_tickets")()
	return d.list(ctx, bson.M{"guild_id": guildID, "owner_id": userID})
}

func (d *mongoTicketDal) ListGuildTickets(ctx context.Context, guildID string) ([]*entities.Ticket, error) {
	defer d.observe("list_guild_tickets")()
	return d.list(ctx, bson.M{"guild_id": guildID})
}

func (d *mongoTicketDal) list(ctx context.Context, filter bson.M) ([]*entities.Ticket, error) {
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cursor, err := d.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing tickets: %w", err)
	}

	tickets := make([]*entities.Ticket, 0)
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, fmt.Errorf("error decoding tickets: %w", err)
	}
	return tickets, nil
}

func (d *mongoTicketDal) CountMonthlyTickets(ctx context.Context, guildID, userID string, now time.Time) (int, error) {
	defer d.observe("count_monthly_tickets")()

	now = now.UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	count, err := d.collection().CountDocuments(ctx, bson.M{
		"guild_id": guildID,
		"owner_id": userID,
		"created_at": bson.M{
			"$gte": custom.NewDatetime(monthStart).String(),
			"$lt":  custom.NewDatetime(monthEnd).String(),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("error counting tickets: %w", err)
	}
	return int(count), nil
}

func (d *mongoTicketDal) NextTicketID(ctx context.Context, guildID string, now time.Time) (string, error) {
	defer d.observe("next_ticket_id")()

	// One past the highest surviving sequence for the day. Counting records
	// instead would reissue an ID freed by a wipe and overwrite a later
	// ticket. The zero padded suffix makes the string sort numeric.
	prefix := now.UTC().Format("20060102")
	opts := options.FindOne().SetSort(bson.M{"id": -1})
	var last entities.Ticket
	err := d.collection().FindOne(ctx, bson.M{
		"guild_id": guildID,
		"id":       primitive.Regex{Pattern: "^" + prefix + "-"},
	}, opts).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Sprintf("%s-%03d", prefix, 1), nil
	} else if err != nil {
		return "", fmt.Errorf("error getting last ticket: %w", err)
	}

	seq, ok := ticketSeq(last.ID, prefix)
	if !ok {
		return "", fmt.Errorf("malformed ticket ID %s", last.ID)
	}
	return fmt.Sprintf("%s-%03d", prefix, seq+1), nil
}

func (d *mongoTicketDal) DeleteUserTickets(ctx context.Context, guildID, userID string) (int, error) {
	defer d.observe("delete_user_tickets")()

	res, err := d.collection().DeleteMany(ctx, bson.M{"guild_id": guildID, "owner_id": userID})
	if err != nil {
		return 0, fmt.Errorf("error deleting user tickets: %w", err)
	}
	return int(res.DeletedCount), nil
}

func (d *mongoTicketDal) DeleteGuildTickets(ctx context.Context, guildID string) error {
	defer d.observe("delete_guild_tickets")()

	if _, err := d.collection().DeleteMany(ctx, bson.M{"guild_id": guildID}); err != nil {
		return fmt.Errorf("error deleting guild tickets: %w", err)
	}
	return nil
}

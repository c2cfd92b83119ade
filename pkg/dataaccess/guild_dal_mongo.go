package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vixenbot/vixen/pkg/dataaccess/monitoring"
	"github.com/vixenbot/vixen/pkg/entities"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const guildsCollection = "guilds"

// mongoGuildDal stores guild configurations in the guilds collection.
type mongoGuildDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database. This is a connection pool.
	client *mongo.Client
}

func (g *mongoGuildDal) GetGuildByID(ctx context.Context, id string) (*entities.Guild, error) {
	collection := g.client.Database(mongoDatabase).Collection(guildsCollection)

	monitoring.StoreTotalRequests.WithLabelValues(guildDalName, "get_guild_by_id", "mongo", guildsCollection).Inc()
	t := prometheus.NewTimer(monitoring.StoreLatency.WithLabelValues(guildDalName, "get_guild_by_id", "mongo", guildsCollection))
	defer t.ObserveDuration()

	guild := new(entities.Guild)
	err := collection.FindOne(ctx, bson.M{"id": id}).Decode(guild)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting guild: %w", err)
	}
	return guild, nil
}

func (g *mongoGuildDal) SaveGuild(ctx context.Context, guild *entities.Guild) error {
	collection := g.client.Database(mongoDatabase).Collection(guildsCollection)

	monitoring.StoreTotalRequests.WithLabelValues(guildDalName, "save_guild_config", "mongo", guildsCollection).Inc()
	t := prometheus.NewTimer(monitoring.StoreLatency.WithLabelValues(guildDalName, "save_guild_config", "mongo", guildsCollection))
	defer t.ObserveDuration()

	opts := options.Update().SetUpsert(true)
	if _, err := collection.UpdateOne(ctx, bson.M{"id": guild.ID}, bson.M{"$set": guild}, opts); err != nil {
		return fmt.Errorf("error updating guild: %w", err)
	}
	return nil
}

func (g *mongoGuildDal) DeleteGuild(ctx context.Context, id string) error {
	collection := g.client.Database(mongoDatabase).Collection(guildsCollection)

	monitoring.StoreTotalRequests.WithLabelValues(guildDalName, "delete_guild_config", "mongo", guildsCollection).Inc()
	t := prometheus.NewTimer(monitoring.StoreLatency.WithLabelValues(guildDalName, "delete_guild_config", "mongo", guildsCollection))
	defer t.ObserveDuration()

	if _, err := collection.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("error deleting guild: %w", err)
	}
	return nil
}

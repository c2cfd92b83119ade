package dataaccess

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vixenbot/vixen/pkg/dataaccess/jsonstore"
	"github.com/vixenbot/vixen/pkg/dataaccess/monitoring"
	"github.com/vixenbot/vixen/pkg/entities"
)

// fileGuildDal stores guild configurations in config.json, keyed by guild ID.
type fileGuildDal struct {
	// l is the logger.
	l *slog.Logger

	// store is the JSON file store.
	store *jsonstore.Store
}

func (g *fileGuildDal) GetGuildByID(_ context.Context, id string) (*entities.Guild, error) {
	monitoring.StoreTotalRequests.WithLabelValues(guildDalName, "get_guild_by_id", "file", configDocument).Inc()
	t := prometheus.NewTimer(monitoring.StoreLatency.WithLabelValues(guildDalName, "get_guild_by_id", "file", configDocument))
	defer t.ObserveDuration()

	guilds := make(map[string]*entities.Guild)
	if err := g.store.View(configDocument, &guilds); err != nil {
		return nil, fmt.Errorf("error loading guild configurations: %w", err)
	}

	guild, ok := guilds[id]
	if !ok {
		return nil, ErrNotFound
	}
	return guild, nil
}

func (g *fileGuildDal) SaveGuild(_ context.Context, guild *entities.Guild) error {
	monitoring.StoreTotalRequests.WithLabelValues(guildDalName, "save_guild_config", "file", configDocument).Inc()
	t := prometheus.NewTimer(monitoring.StoreLatency.WithLabelValues(guildDalName, "save_guild_config", "file", configDocument))
	defer t.ObserveDuration()

	guilds := make(map[string]*entities.Guild)
	err := g.store.Update(configDocument, &guilds, func() error {
		guilds[guild.ID] = guild
		return nil
	})
	if err != nil {
		return fmt.Errorf("error saving guild configuration: %w", err)
	}
	return nil
}

func (g *fileGuildDal) DeleteGuild(_ context.Context, id string) error {
	monitoring.StoreTotalRequests.WithLabelValues(guildDalName, "delete_guild_config", "file", configDocument).Inc()
	t := prometheus.NewTimer(monitoring.StoreLatency.WithLabelValues(guildDalName, "delete_guild_config", "file", configDocument))
	defer t.ObserveDuration()

	guilds := make(map[string]*entities.Guild)
	err := g.store.Update(configDocument, &guilds, func() error {
		delete(guilds, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("error deleting guild configuration: %w", err)
	}
	return nil
}

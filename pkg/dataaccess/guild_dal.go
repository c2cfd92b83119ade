package dataaccess

import (
	"context"
	"log/slog"

	"github.com/vixenbot/vixen/pkg/entities"
	"github.com/vixenbot/vixen/pkg/logging"
)

const guildDalName = "guild_dal"

// GuildDal is the data access layer for guild configurations.
type GuildDal interface {
	// GetGuildByID gets a guild configuration by ID. Returns ErrNotFound when
	// the guild has never been configured.
	GetGuildByID(ctx context.Context, id string) (*entities.Guild, error)

	// SaveGuild saves a guild configuration.
	SaveGuild(ctx context.Context, guild *entities.Guild) error

	// DeleteGuild deletes a guild configuration. Deleting a guild that does
	// not exist is a no-op.
	DeleteGuild(ctx context.Context, id string) error
}

// NewGuildDal creates a guild data access layer over whichever backend was
// configured at startup.
func NewGuildDal(logger *slog.Logger) GuildDal {
	l := logger.With(slog.String(logging.KeyDal, guildDalName))

	if MongoDB != nil {
		return &mongoGuildDal{
			l:      l,
			client: MongoDB,
		}
	}

	if FileStore == nil {
		l.Warn("No store configured, this can cause a panic. Proceeding...")
	}

	return &fileGuildDal{
		l:     l,
		store: FileStore,
	}
}

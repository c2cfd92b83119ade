package dataaccess

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vixenbot/vixen/pkg/dataaccess/jsonstore"
	"github.com/vixenbot/vixen/pkg/entities"
	"github.com/vixenbot/vixen/pkg/logging"
)

func newTestFileStore(t *testing.T) (*jsonstore.Store, *slog.Logger) {
	t.Helper()

	// Setup logger
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	store, err := jsonstore.New(t.TempDir(), l)
	require.NoError(t, err)
	return store, l
}

func TestFileGuildDal_RoundTrip(t *testing.T) {
	store, l := newTestFileStore(t)
	dal := &fileGuildDal{l: l, store: store}
	ctx := context.Background()

	guild := entities.NewGuild("g1")
	guild.Ticketing.Enabled = true
	guild.Ticketing.ChannelID = "c1"
	guild.Ticketing.AllowedRoleIDs = []string{"r1", "r2"}
	guild.Ticketing.SetMonthlyLimit(3)

	require.NoError(t, dal.SaveGuild(ctx, guild))

	got, err := dal.GetGuildByID(ctx, "g1")
	require.NoError(t, err)
	require.Equal(t, guild, got)
}

func TestFileGuildDal_GetGuildByID_NotFound(t *testing.T) {
	store, l := newTestFileStore(t)
	dal := &fileGuildDal{l: l, store: store}

	_, err := dal.GetGuildByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileGuildDal_DeleteGuild(t *testing.T) {
	store, l := newTestFileStore(t)
	dal := &fileGuildDal{l: l, store: store}
	ctx := context.Background()

	require.NoError(t, dal.SaveGuild(ctx, entities.NewGuild("g1")))
	require.NoError(t, dal.DeleteGuild(ctx, "g1"))

	_, err := dal.GetGuildByID(ctx, "g1")
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting a guild that does not exist is not an error.
	require.NoError(t, dal.DeleteGuild(ctx, "g1"))
}

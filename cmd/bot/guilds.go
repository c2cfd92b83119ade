package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/vixenbot/vixen/cmd/bot/monitoring"
	"github.com/vixenbot/vixen/pkg/dataaccess"
	"github.com/vixenbot/vixen/pkg/logging"
)

// guildJoinedHandler fires for each guild at connect and whenever the bot
// joins a new guild. It registers the guild's slash commands and makes sure
// the open ticket message still exists.
func guildJoinedHandler(a *App) func(s *discordgo.Session, g *discordgo.GuildCreate) {
	return func(_ *discordgo.Session, g *discordgo.GuildCreate) {
		a.Info(fmt.Sprintf("Joined guild %s", g.Name))

		// Increment the total number of guilds.
		monitoring.TotalDiscordGuilds.Inc()

		if err := a.registerGuildCommands(g.ID); err != nil {
			a.Error("Error registering guild commands",
				slog.String(logging.KeyGuild, g.ID),
				slog.String(logging.KeyError, err.Error()),
			)
		}

		if err := ensureOpenTicketMessage(a, g.ID); err != nil {
			a.Error("Error ensuring open ticket message",
				slog.String(logging.KeyGuild, g.ID),
				slog.String(logging.KeyError, err.Error()),
			)
		}
	}
}

func guildLeaveHandler(a *App) func(s *discordgo.Session, g *discordgo.GuildDelete) {
	return func(_ *discordgo.Session, g *discordgo.GuildDelete) {
		a.Info(fmt.Sprintf("Left guild %s", g.ID))

		// Decrement the total number of guilds.
		monitoring.TotalDiscordGuilds.Dec()
	}
}

// ensureOpenTicketMessage re-posts the open ticket button message if the
// stored one has been deleted. A guild with no configuration is skipped.
func ensureOpenTicketMessage(a IApp, guildID string) error {
	ctx := context.Background()

	guild, err := a.GuildDal().GetGuildByID(ctx, guildID)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return nil
	} else if err != nil {
		return fmt.Errorf("error getting guild configuration: %w", err)
	}

	if !guild.Ticketing.Enabled || guild.Ticketing.ChannelID == "" {
		return nil
	}

	if guild.Ticketing.OpenMessageID != "" {
		_, err := a.Session().ChannelMessage(guild.Ticketing.ChannelID, guild.Ticketing.OpenMessageID)
		if err == nil {
			return nil
		}

		restErr := new(discordgo.RESTError)
		if !errors.As(err, &restErr) || restErr.Message == nil ||
			(restErr.Message.Code != discordgo.ErrCodeUnknownMessage && restErr.Message.Code != discordgo.ErrCodeUnknownChannel) {
			return fmt.Errorf("error getting open ticket message: %w", err)
		}
		// The stored message is gone, fall through and post a new one.
	}

	msg, err := sendOpenTicketMessage(a, guild.Ticketing.ChannelID)
	if err != nil {
		return fmt.Errorf("error sending open ticket message: %w", err)
	}

	guild.Ticketing.OpenMessageID = msg.ID
	if err := a.GuildDal().SaveGuild(ctx, guild); err != nil {
		return fmt.Errorf("error saving guild configuration: %w", err)
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/vixenbot/vixen/pkg/custom"
	"github.com/vixenbot/vixen/pkg/dataaccess"
	"github.com/vixenbot/vixen/pkg/entities"
	"github.com/vixenbot/vixen/pkg/messages"
)

const (
	// setupCmdName is the command for all configuration commands.
	setupCmdName = "setup"

	// enableCmdName is the sub command that configures and enables ticketing.
	enableCmdName = "enable"

	// limitCmdName is the sub command that sets the monthly ticket limit.
	limitCmdName = "limit"

	// wipeConfigCmdName is the sub command that wipes the guild configuration.
	wipeConfigCmdName = "wipe"

	// channelOptName is the channel option on the enable sub command.
	channelOptName = "channel"

	// allowedOptName is the allowed roles/users option on the enable sub command.
	allowedOptName = "allowed"

	// pingOptName is the ping roles/users option on the enable sub command.
	pingOptName = "ping"

	// limitOptName is the limit option.
	limitOptName = "amount"
)

// setupCmd is the command for all configuration commands.
var setupCmd = &discordgo.ApplicationCommand{
	Name:        setupCmdName,
	Type:        discordgo.ChatApplicationCommand,
	Description: "This is the command for configuring the ticket system.",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:        enableCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "This enables ticketing and posts the open ticket button in the channel you specify.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        channelOptName,
					Type:        discordgo.ApplicationCommandOptionChannel,
					Description: "This is the channel the open ticket button will be posted in.",
					Required:    true,
				},
				{
					Name:        allowedOptName,
					Type:        discordgo.ApplicationCommandOptionString,
					Description: "Comma separated role/user mentions or IDs allowed to manage tickets.",
				},
				{
					Name:        pingOptName,
					Type:        discordgo.ApplicationCommandOptionString,
					Description: "Comma separated role/user mentions or IDs to ping when a ticket opens.",
				},
				{
					Name:        limitOptName,
					Type:        discordgo.ApplicationCommandOptionInteger,
					Description: fmt.Sprintf("Monthly ticket limit per user (default %d).", entities.DefaultMonthlyLimit),
				},
			},
		},
		{
			Name:        limitCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "This sets the monthly ticket limit per user.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        limitOptName,
					Type:        discordgo.ApplicationCommandOptionInteger,
					Description: "The new monthly ticket limit per user.",
					Required:    true,
				},
			},
		},
		{
			Name:        wipeConfigCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "This wipes the ticket configuration for this server. Ticket records are kept.",
		},
	},
}

func setupCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	subCmd := i.ApplicationCommandData().Options[0].Name

	switch subCmd {
	case enableCmdName:
		if !canManageGuild(i.Member) {
			return nil, respondEphemeral(a, i, messages.ErrAdminOnly)
		}
		return enableCmdProcessor, nil
	case limitCmdName:
		cfg := guildTicketingConfig(a, i.GuildID)
		if !isManager(i.Member, cfg) {
			return nil, respondEphemeral(a, i, messages.ErrNoPermission)
		}
		return limitCmdProcessor, nil
	case wipeConfigCmdName:
		if !isAdmin(i.Member) {
			return nil, respondEphemeral(a, i, messages.ErrAdminOnly)
		}
		return wipeConfigCmdProcessor, nil
	default:
		return nil, fmt.Errorf("unhandled sub command %s", subCmd)
	}
}

// enableCmdProcessor configures ticketing for the guild and posts the open
// ticket button message.
func enableCmdProcessor(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	opts := optionMap(i.ApplicationCommandData().Options[0].Options)

	channel := opts[channelOptName].ChannelValue(a.Session())
	if channel.Type != discordgo.ChannelTypeGuildText {
		return respondEphemeral(a, i, "You must provide a text channel for ticketing.")
	}

	guild, err := a.GuildDal().GetGuildByID(ctx, i.GuildID)
	if errors.Is(err, dataaccess.ErrNotFound) {
		guild = entities.NewGuild(i.GuildID)
	} else if err != nil {
		return fmt.Errorf("error getting guild: %w", err)
	}

	guild.Ticketing.Enabled = true
	guild.Ticketing.ChannelID = channel.ID

	if opt, ok := opts[allowedOptName]; ok {
		guild.Ticketing.AllowedRoleIDs, guild.Ticketing.AllowedUserIDs = custom.ParseMentionList(opt.StringValue())
	}
	if opt, ok := opts[pingOptName]; ok {
		guild.Ticketing.PingRoleIDs, guild.Ticketing.PingUserIDs = custom.ParseMentionList(opt.StringValue())
	}
	if opt, ok := opts[limitOptName]; ok {
		guild.Ticketing.SetMonthlyLimit(int(opt.IntValue()))
	}

	// Check whether the existing open ticket message is still around before
	// posting a new one.
	if guild.Ticketing.OpenMessageID != "" {
		if _, err := a.Session().ChannelMessage(channel.ID, guild.Ticketing.OpenMessageID); err != nil {
			restErr := new(discordgo.RESTError)
			if errors.As(err, &restErr) && restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownMessage {
				guild.Ticketing.OpenMessageID = ""
			} else {
				return fmt.Errorf("error getting open ticket message: %w", err)
			}
		}
	}

	if guild.Ticketing.OpenMessageID == "" {
		msg, err := sendOpenTicketMessage(a, channel.ID)
		if err != nil {
			return fmt.Errorf("error sending open ticket message: %w", err)
		}
		guild.Ticketing.OpenMessageID = msg.ID
	}

	if err := a.GuildDal().SaveGuild(ctx, guild); err != nil {
		return fmt.Errorf("error saving guild: %w", err)
	}

	return respondEphemeral(a, i, fmt.Sprintf("Ticketing has been enabled in channel <#%s>", channel.ID))
}

// limitCmdProcessor sets the monthly ticket limit for the guild.
func limitCmdProcessor(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	opts := optionMap(i.ApplicationCommandData().Options[0].Options)

	guild, err := a.GuildDal().GetGuildByID(ctx, i.GuildID)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return respondEphemeral(a, i, messages.ErrNotConfigured)
	} else if err != nil {
		return fmt.Errorf("error getting guild: %w", err)
	}

	guild.Ticketing.SetMonthlyLimit(int(opts[limitOptName].IntValue()))

	if err := a.GuildDal().SaveGuild(ctx, guild); err != nil {
		return fmt.Errorf("error saving guild: %w", err)
	}

	return respondEphemeral(a, i, fmt.Sprintf("Monthly ticket limit set to %d.", guild.Ticketing.MonthlyLimit))
}

// wipeConfigCmdProcessor deletes the guild configuration, keeping tickets.
func wipeConfigCmdProcessor(a IApp, i *discordgo.InteractionCreate) error {
	if err := a.GuildDal().DeleteGuild(context.Background(), i.GuildID); err != nil {
		return fmt.Errorf("error deleting guild configuration: %w", err)
	}
	return respondEphemeral(a, i, "Configuration wiped (tickets retained).")
}

// optionMap indexes sub command options by name.
func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

// guildTicketingConfig fetches the guild's ticketing configuration for
// permission checks. Missing configuration reads as nil.
func guildTicketingConfig(a IApp, guildID string) *entities.TicketingConfig {
	guild, err := a.GuildDal().GetGuildByID(context.Background(), guildID)
	if err != nil {
		return nil
	}
	return &guild.Ticketing
}

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/vixenbot/vixen/pkg/dataaccess"
	"github.com/vixenbot/vixen/pkg/entities"
	"github.com/vixenbot/vixen/pkg/messages"
)

const (
	// accessCmdName is the command for managing the allowed and ping lists.
	accessCmdName = "access"

	// allowAddCmdName adds a role or user to the allowed list.
	allowAddCmdName = "allow_add"

	// allowRemoveCmdName removes a role or user from the allowed list.
	allowRemoveCmdName = "allow_remove"

	// pingAddCmdName adds a role or user to the ping list.
	pingAddCmdName = "ping_add"

	// pingRemoveCmdName removes a role or user from the ping list.
	pingRemoveCmdName = "ping_remove"

	// targetOptName is the role-or-user option on every sub command.
	targetOptName = "target"
)

// accessCmd is the command for managing who may handle tickets and who gets
// pinged when one opens.
var accessCmd = &discordgo.ApplicationCommand{
	Name:        accessCmdName,
	Type:        discordgo.ChatApplicationCommand,
	Description: "This is the command for managing ticket access and ping lists.",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:        allowAddCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "This adds a role or user to the list allowed to manage tickets.",
			Options:     []*discordgo.ApplicationCommandOption{targetOption("The role or user to allow.")},
		},
		{
			Name:        allowRemoveCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "This removes a role or user from the list allowed to manage tickets.",
			Options:     []*discordgo.ApplicationCommandOption{targetOption("The role or user to remove.")},
		},
		{
			Name:        pingAddCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "This adds a role or user to the list pinged when a ticket opens.",
			Options:     []*discordgo.ApplicationCommandOption{targetOption("The role or user to ping.")},
		},
		{
			Name:        pingRemoveCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "This removes a role or user from the list pinged when a ticket opens.",
			Options:     []*discordgo.ApplicationCommandOption{targetOption("The role or user to remove.")},
		},
	},
}

func targetOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Name:        targetOptName,
		Type:        discordgo.ApplicationCommandOptionMentionable,
		Description: description,
		Required:    true,
	}
}

func accessCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	cfg := guildTicketingConfig(a, i.GuildID)
	if !isManager(i.Member, cfg) {
		return nil, respondEphemeral(a, i, messages.ErrNoPermission)
	}

	subCmd := i.ApplicationCommandData().Options[0].Name

	switch subCmd {
	case allowAddCmdName, allowRemoveCmdName, pingAddCmdName, pingRemoveCmdName:
		return accessCmdProcessor, nil
	default:
		return nil, fmt.Errorf("unhandled sub command %s", subCmd)
	}
}

// accessCmdProcessor applies one add/remove to the allowed or ping lists.
func accessCmdProcessor(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	data := i.ApplicationCommandData()
	subCmd := data.Options[0].Name

	targetID, isRole, ok := resolveMentionable(data)
	if !ok {
		return respondEphemeral(a, i, messages.ErrBadMention)
	}

	guild, err := a.GuildDal().GetGuildByID(ctx, i.GuildID)
	if errors.Is(err, dataaccess.ErrNotFound) {
		guild = entities.NewGuild(i.GuildID)
	} else if err != nil {
		return fmt.Errorf("error getting guild: %w", err)
	}

	var changed bool
	var reply string
	switch subCmd {
	case allowAddCmdName:
		if isRole {
			changed = guild.Ticketing.AddAllowedRole(targetID)
		} else {
			changed = guild.Ticketing.AddAllowedUser(targetID)
		}
		reply = "Added to allowed list."
	case allowRemoveCmdName:
		if isRole {
			changed = guild.Ticketing.RemoveAllowedRole(targetID)
		} else {
			changed = guild.Ticketing.RemoveAllowedUser(targetID)
		}
		reply = "Removed from allowed list."
	case pingAddCmdName:
		if isRole {
			changed = guild.Ticketing.AddPingRole(targetID)
		} else {
			changed = guild.Ticketing.AddPingUser(targetID)
		}
		reply = "Added to ping list."
	case pingRemoveCmdName:
		if isRole {
			changed = guild.Ticketing.RemovePingRole(targetID)
		} else {
			changed = guild.Ticketing.RemovePingUser(targetID)
		}
		reply = "Removed from ping list."
	}

	if changed {
		if err := a.GuildDal().SaveGuild(ctx, guild); err != nil {
			return fmt.Errorf("error saving guild: %w", err)
		}
	}

	return respondEphemeral(a, i, reply)
}

// resolveMentionable extracts the target of a mentionable option, reporting
// whether it is a role.
func resolveMentionable(data discordgo.ApplicationCommandInteractionData) (id string, isRole, ok bool) {
	opts := optionMap(data.Options[0].Options)
	opt, found := opts[targetOptName]
	if !found {
		return "", false, false
	}

	id, ok = opt.Value.(string)
	if !ok || id == "" {
		return "", false, false
	}

	if data.Resolved != nil {
		if _, isRole = data.Resolved.Roles[id]; isRole {
			return id, true, true
		}
	}
	return id, false, true
}

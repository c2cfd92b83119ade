package main

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/vixenbot/vixen/pkg/entities"
	"github.com/vixenbot/vixen/pkg/messages"
)

func respondError(a IApp, i *discordgo.InteractionCreate) error {
	return respondEphemeral(a, i, messages.ErrUserErrorProcessing)
}

func respondEphemeral(a IApp, i *discordgo.InteractionCreate, content string) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// splitCustomID splits a component custom ID into its prefix and argument.
// Custom IDs are either bare ("open_ticket_button") or carry one argument
// after a colon ("reset_confirm_button:123").
func splitCustomID(id string) (key, arg string) {
	if idx := strings.Index(id, ":"); idx >= 0 {
		return id[:idx], id[idx+1:]
	}
	return id, ""
}

// isAdmin reports whether the member has the administrator permission.
func isAdmin(member *discordgo.Member) bool {
	return member.Permissions&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator
}

// canManageGuild reports whether the member can manage the guild.
func canManageGuild(member *discordgo.Member) bool {
	return isAdmin(member) ||
		member.Permissions&discordgo.PermissionManageServer == discordgo.PermissionManageServer
}

// isManager reports whether the member may manage tickets: on the allowed
// user list, holding an allowed role, or able to manage the guild.
func isManager(member *discordgo.Member, cfg *entities.TicketingConfig) bool {
	if member == nil || member.User == nil {
		return false
	}

	if cfg != nil {
		if cfg.AllowsUser(member.User.ID) {
			return true
		}
		for _, roleID := range member.Roles {
			if cfg.AllowsRole(roleID) {
				return true
			}
		}
	}

	return canManageGuild(member)
}

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/vixenbot/vixen/cmd/bot/monitoring"
	"github.com/vixenbot/vixen/pkg/custom"
	"github.com/vixenbot/vixen/pkg/dataaccess"
	"github.com/vixenbot/vixen/pkg/entities"
	"github.com/vixenbot/vixen/pkg/logging"
	"github.com/vixenbot/vixen/pkg/messages"
)

const (
	// OpenTicketButtonID is the ID for the open ticket button.
	OpenTicketButtonID = "open_ticket_button"

	// ResetConfirmButtonID is the ID for the reset confirmation button. The
	// custom ID carries the invoker's user ID after a colon.
	ResetConfirmButtonID = "reset_confirm_button"

	// ResetCancelButtonID is the ID for the reset cancel button.
	ResetCancelButtonID = "reset_cancel_button"

	// TicketModalID is the ID for the ticket creation modal.
	TicketModalID = "ticket_issue_modal"

	// TicketIssueInputID is the ID for the issue text input on the modal.
	TicketIssueInputID = "ticket_issue_input"
)

const (
	// TicketEmoji is the emoji on the open ticket button. (Admission ticket)
	TicketEmoji = "\U0001F39F"

	// ConfirmEmoji is the emoji on the reset confirm button. (Check mark)
	ConfirmEmoji = "✅"

	// CancelEmoji is the emoji on the reset cancel button. (Cross)
	CancelEmoji = "❌"
)

const (
	// MaxTicketMessageLen is the longest issue description a ticket may carry.
	MaxTicketMessageLen = 500

	// TicketIssueFieldLabel is the label on the modal's issue field.
	TicketIssueFieldLabel = "Describe the problem (be concise)"

	// resetConfirmTimeout is how long a reset confirmation stays live.
	resetConfirmTimeout = 30 * time.Second
)

const (
	// TicketCmdName is the command for managing tickets.
	TicketCmdName = "ticket"

	// CloseCmdName is the sub command for closing the current ticket.
	CloseCmdName = "close"

	// HistoryCmdName is the sub command for viewing a user's ticket history.
	HistoryCmdName = "history"

	// WipeCmdName is the sub command for wiping a user's ticket records.
	WipeCmdName = "wipe"

	// ResetCmdName is the sub command for deleting all tickets and config.
	ResetCmdName = "reset"

	// resolutionOptName is the optional resolution option on close.
	resolutionOptName = "resolution"

	// userOptName is the user option on history and wipe.
	userOptName = "user"
)

// ticketCmd is the command for managing tickets.
var ticketCmd = &discordgo.ApplicationCommand{
	Name:        TicketCmdName,
	Type:        discordgo.ChatApplicationCommand,
	Description: "This is the command for managing tickets.",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:        CloseCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "This closes the ticket for the channel that the command was executed in.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        resolutionOptName,
					Type:        discordgo.ApplicationCommandOptionString,
					Description: "Optional resolution message to DM the ticket owner.",
				},
			},
		},
		{
			Name:        HistoryCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "This shows the ticket history for a user.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        userOptName,
					Type:        discordgo.ApplicationCommandOptionUser,
					Description: "The user to view tickets for.",
					Required:    true,
				},
			},
		},
		{
			Name:        WipeCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "This wipes the ticket records for a user. Configuration is kept.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        userOptName,
					Type:        discordgo.ApplicationCommandOptionUser,
					Description: "The user to wipe ticket records for.",
					Required:    true,
				},
			},
		},
		{
			Name:        ResetCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "This deletes ALL tickets and configuration for this server. Confirmation required.",
		},
	},
}

// resetTracker tracks pending reset confirmations per guild so that expired
// or duplicated confirmations are refused. Each confirmation carries a token;
// a newer reset in the same guild supersedes the old one, and the old
// confirmation (or its expiry timer) can no longer consume it.
type resetTracker struct {
	mu      sync.Mutex
	seq     uint64
	pending map[string]string // guild ID -> token
}

func newResetTracker() *resetTracker {
	return &resetTracker{pending: make(map[string]string)}
}

// begin registers a pending reset for the guild and returns its token,
// superseding any earlier pending reset.
func (r *resetTracker) begin(guildID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	token := strconv.FormatUint(r.seq, 10)
	r.pending[guildID] = token
	return token
}

// finish removes the pending reset for the guild if the token still owns it,
// reporting whether it did. Used by confirm, cancel, and expiry alike so only
// one of them wins.
func (r *resetTracker) finish(guildID, token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending[guildID] != token {
		return false
	}
	delete(r.pending, guildID)
	return true
}

// sendOpenTicketMessage posts the open ticket button message to the channel.
func sendOpenTicketMessage(a IApp, channelID string) (*discordgo.Message, error) {
	message := &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "Open a Ticket",
				Description: "Click the button below to open a ticket.",
				Color:       0x3498db,
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Open Ticket",
						Style:    discordgo.PrimaryButton,
						CustomID: OpenTicketButtonID,
						Emoji:    &discordgo.ComponentEmoji{Name: TicketEmoji},
					},
				},
			},
		},
	}

	msg, err := a.Session().ChannelMessageSendComplex(channelID, message)
	if err != nil {
		return nil, fmt.Errorf("error sending message: %w", err)
	}
	return msg, nil
}

// openTicketButtonHandler responds to the open ticket button with the issue
// modal. The button only works in the configured ticket channel.
func openTicketButtonHandler(a IApp, i *discordgo.InteractionCreate) error {
	guild, err := a.GuildDal().GetGuildByID(context.Background(), i.GuildID)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return respondEphemeral(a, i, messages.ErrNotConfigured)
	} else if err != nil {
		return fmt.Errorf("error getting guild configuration: %w", err)
	}

	if !guild.Ticketing.Enabled || guild.Ticketing.ChannelID != i.ChannelID {
		return respondEphemeral(a, i, messages.ErrButtonNotActive)
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: TicketModalID,
			Title:    "Create a Ticket",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:    TicketIssueInputID,
							Label:       TicketIssueFieldLabel,
							Style:       discordgo.TextInputParagraph,
							Placeholder: "Explain the issue in a few sentences...",
							Required:    true,
							MaxLength:   MaxTicketMessageLen,
						},
					},
				},
			},
		},
	})
}

// ticketModalHandler creates a ticket from the submitted modal: quota check,
// private channel, stored record, ping message.
func ticketModalHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	issue, err := modalIssueText(i.ModalSubmitData())
	if err != nil {
		return fmt.Errorf("error reading modal submission: %w", err)
	}
	if len(issue) > MaxTicketMessageLen {
		return respondEphemeral(a, i, fmt.Sprintf("Description too long (max %d).", MaxTicketMessageLen))
	}

	guild, err := a.GuildDal().GetGuildByID(ctx, i.GuildID)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return respondEphemeral(a, i, messages.ErrNotConfigured)
	} else if err != nil {
		return fmt.Errorf("error getting guild configuration: %w", err)
	}

	now := time.Now().UTC()
	limit := guild.Ticketing.MonthlyLimit

	// Cheap precheck before any channel is created. OpenTicket re-checks.
	count, err := a.TicketDal().CountMonthlyTickets(ctx, i.GuildID, i.Member.User.ID, now)
	if err != nil {
		return fmt.Errorf("error counting tickets: %w", err)
	}
	if count >= limit {
		monitoring.TotalQuotaRejections.Inc()
		return respondEphemeral(a, i, fmt.Sprintf("You have reached your monthly limit (%d).", limit))
	}

	ticketID, err := a.TicketDal().NextTicketID(ctx, i.GuildID, now)
	if err != nil {
		return fmt.Errorf("error getting next ticket ID: %w", err)
	}

	ticket := &entities.Ticket{
		ID:            ticketID,
		GuildID:       i.GuildID,
		OwnerID:       i.Member.User.ID,
		OwnerUsername: i.Member.User.Username,
		Message:       issue,
		Status:        entities.TicketStatusOpen,
		CreatedAt:     custom.NewDatetime(now),
	}

	// Create the ticket channel only the owner and the allowed roles/users
	// can see.
	channel, err := a.Session().GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
		Name:                 ticket.ChannelName(),
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("Ticket opened by %s", ticket.OwnerUsername),
		PermissionOverwrites: ticketChannelOverwrites(i.GuildID, ticket.OwnerID, &guild.Ticketing),
	})
	if err != nil {
		return fmt.Errorf("error creating ticket channel: %w", err)
	}
	ticket.ChannelID = channel.ID

	if err := a.TicketDal().OpenTicket(ctx, ticket, limit); err != nil {
		if errors.Is(err, dataaccess.ErrQuotaExceeded) {
			monitoring.TotalQuotaRejections.Inc()
			// A concurrent open won the last slot. Remove the channel again.
			if _, delErr := a.Session().ChannelDelete(channel.ID); delErr != nil {
				a.Log().Error("Error deleting channel after quota rejection",
					slog.String(logging.KeyError, delErr.Error()),
					slog.String(logging.KeyGuild, i.GuildID),
				)
			}
			return respondEphemeral(a, i, fmt.Sprintf("You have reached your monthly limit (%d).", limit))
		}
		return fmt.Errorf("error storing ticket: %w", err)
	}

	monitoring.TotalTicketsOpened.Inc()

	// Post the ticket embed, pinging the configured roles and users.
	if _, err := a.Session().ChannelMessageSendComplex(channel.ID, newTicketMessage(ticket, &guild.Ticketing)); err != nil {
		a.Log().Error("Error sending ticket embed",
			slog.String(logging.KeyError, err.Error()),
			slog.String(logging.KeyTicket, ticket.ID),
		)
	}

	return respondEphemeral(a, i, fmt.Sprintf("Ticket created: <#%s>", channel.ID))
}

// modalIssueText pulls the issue description out of the modal submission.
func modalIssueText(data discordgo.ModalSubmitInteractionData) (string, error) {
	for _, comp := range data.Components {
		row, ok := comp.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			input, ok := inner.(*discordgo.TextInput)
			if !ok || input.CustomID != TicketIssueInputID {
				continue
			}
			return strings.TrimSpace(input.Value), nil
		}
	}
	return "", fmt.Errorf("modal submission missing %s", TicketIssueInputID)
}

// ticketChannelOverwrites builds the permission overwrites for a ticket
// channel: hidden from @everyone, visible to the owner and the allowed
// roles/users.
func ticketChannelOverwrites(guildID, ownerID string, cfg *entities.TicketingConfig) []*discordgo.PermissionOverwrite {
	const memberAllow = discordgo.PermissionViewChannel |
		discordgo.PermissionSendMessages |
		discordgo.PermissionReadMessageHistory |
		discordgo.PermissionAttachFiles

	overwrites := []*discordgo.PermissionOverwrite{
		// Deny @everyone from seeing the ticket.
		{
			ID:   guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		// The owner of the ticket can see the ticket.
		{
			ID:    ownerID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: memberAllow,
		},
	}

	for _, roleID := range cfg.AllowedRoleIDs {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    roleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: memberAllow,
		})
	}
	for _, userID := range cfg.AllowedUserIDs {
		if userID == ownerID {
			continue
		}
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    userID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: memberAllow,
		})
	}
	return overwrites
}

// newTicketMessage builds the message posted into a fresh ticket channel.
func newTicketMessage(ticket *entities.Ticket, cfg *entities.TicketingConfig) *discordgo.MessageSend {
	pings := ""
	for _, roleID := range cfg.PingRoleIDs {
		pings += fmt.Sprintf("<@&%s> ", roleID)
	}
	for _, userID := range cfg.PingUserIDs {
		pings += fmt.Sprintf("<@%s> ", userID)
	}

	return &discordgo.MessageSend{
		Content: pings,
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{
				discordgo.AllowedMentionTypeRoles,
				discordgo.AllowedMentionTypeUsers,
			},
		},
		Embeds: []*discordgo.MessageEmbed{
			{
				Title: fmt.Sprintf("Ticket: %s", ticket.ID),
				Color: 0x2ecc71,
				Fields: []*discordgo.MessageEmbedField{
					{
						Name:  "Owner",
						Value: fmt.Sprintf("<@%s>", ticket.OwnerID),
					},
					{
						Name:  "Issue",
						Value: ticket.Message,
					},
				},
				Footer: &discordgo.MessageEmbedFooter{
					Text: "Support will respond here. Use /ticket close to close the ticket.",
				},
			},
		},
	}
}

func ticketCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	subCmd := i.ApplicationCommandData().Options[0].Name

	switch subCmd {
	case CloseCmdName:
		// Owner-or-manager is checked in the processor once the ticket is known.
		return closeTicketProcessor, nil
	case HistoryCmdName:
		return historyProcessor, nil
	case WipeCmdName:
		cfg := guildTicketingConfig(a, i.GuildID)
		if !isManager(i.Member, cfg) {
			return nil, respondEphemeral(a, i, messages.ErrNoPermission)
		}
		return wipeUserProcessor, nil
	case ResetCmdName:
		if !isAdmin(i.Member) {
			return nil, respondEphemeral(a, i, messages.ErrAdminOnly)
		}
		return resetProcessor, nil
	default:
		return nil, fmt.Errorf("unhandled sub command %s", subCmd)
	}
}

// closeTicketProcessor closes the ticket for the channel the command was run
// in and deletes the channel. The record is kept so history and the monthly
// quota still see it.
func closeTicketProcessor(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	ticket, err := a.TicketDal().GetTicketByChannel(ctx, i.GuildID, i.ChannelID)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return respondEphemeral(a, i, messages.ErrNotTicketChannel)
	} else if err != nil {
		return fmt.Errorf("error getting ticket: %w", err)
	}

	cfg := guildTicketingConfig(a, i.GuildID)
	if i.Member.User.ID != ticket.OwnerID && !isManager(i.Member, cfg) {
		return respondEphemeral(a, i, messages.ErrNoPermission)
	}

	resolution := ""
	if opts := optionMap(i.ApplicationCommandData().Options[0].Options); opts[resolutionOptName] != nil {
		resolution = opts[resolutionOptName].StringValue()
	}

	if err := ticket.Close(i.Member.User.ID, resolution, time.Now().UTC()); err != nil {
		if errors.Is(err, entities.ErrTicketClosed) {
			return respondEphemeral(a, i, messages.ErrTicketAlreadyClosed)
		}
		return fmt.Errorf("error closing ticket: %w", err)
	}

	if err := a.TicketDal().SaveTicket(ctx, ticket); err != nil {
		return fmt.Errorf("error saving ticket: %w", err)
	}

	monitoring.TotalTicketsClosed.Inc()

	// Answer the interaction before the channel disappears underneath it.
	if err := respondEphemeral(a, i, "Ticket closed and channel deleted."); err != nil {
		a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
	}

	if resolution != "" {
		dmTicketOwner(a, ticket, resolution)
	}

	if _, err := a.Session().ChannelDelete(ticket.ChannelID); err != nil {
		a.Log().Error("Error deleting ticket channel",
			slog.String(logging.KeyError, err.Error()),
			slog.String(logging.KeyTicket, ticket.ID),
		)
	}
	return nil
}

// dmTicketOwner sends the close resolution to the owner. DMs may be disabled,
// so failure is only logged.
func dmTicketOwner(a IApp, ticket *entities.Ticket, resolution string) {
	dm, err := a.Session().UserChannelCreate(ticket.OwnerID)
	if err != nil {
		a.Log().Warn("Could not open DM channel to ticket owner",
			slog.String(logging.KeyError, err.Error()),
			slog.String(logging.KeyUser, ticket.OwnerID),
		)
		return
	}

	text := fmt.Sprintf("Your ticket `%s` was closed. Resolution: %s", ticket.ID, resolution)
	if _, err := a.Session().ChannelMessageSend(dm.ID, text); err != nil {
		a.Log().Warn("Could not DM ticket owner",
			slog.String(logging.KeyError, err.Error()),
			slog.String(logging.KeyUser, ticket.OwnerID),
		)
	}
}

// historyProcessor shows a user's tickets: a small embed for up to five,
// otherwise an attached text file.
func historyProcessor(a IApp, i *discordgo.InteractionCreate) error {
	opts := optionMap(i.ApplicationCommandData().Options[0].Options)
	user := opts[userOptName].UserValue(a.Session())

	tickets, err := a.TicketDal().ListUserTickets(context.Background(), i.GuildID, user.ID)
	if err != nil {
		return fmt.Errorf("error listing tickets: %w", err)
	}

	if len(tickets) == 0 {
		return respondEphemeral(a, i, messages.NoTicketsFound)
	}

	if len(tickets) <= 5 {
		embed := &discordgo.MessageEmbed{
			Title: fmt.Sprintf("Ticket history: %s", user.Username),
		}
		for _, t := range tickets {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  fmt.Sprintf("Ticket %s (%s)", t.ID, t.CreatedAt),
				Value: t.Message,
			})
		}
		return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{embed},
			},
		})
	}

	buf := new(bytes.Buffer)
	for _, t := range tickets {
		fmt.Fprintf(buf, "ID: %s | Channel: %s | Status: %s | Created: %s\nMessage: %s\n---\n",
			t.ID, t.ChannelID, t.Status, t.CreatedAt, t.Message)
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Files: []*discordgo.File{
				{
					Name:        fmt.Sprintf("%s_tickets.txt", user.ID),
					ContentType: "text/plain",
					Reader:      buf,
				},
			},
		},
	})
}

// wipeUserProcessor removes all ticket records for a user.
func wipeUserProcessor(a IApp, i *discordgo.InteractionCreate) error {
	opts := optionMap(i.ApplicationCommandData().Options[0].Options)
	user := opts[userOptName].UserValue(a.Session())

	removed, err := a.TicketDal().DeleteUserTickets(context.Background(), i.GuildID, user.ID)
	if err != nil {
		return fmt.Errorf("error deleting user tickets: %w", err)
	}

	return respondEphemeral(a, i, fmt.Sprintf("Removed %d ticket records for %s.", removed, user.Username))
}

// resetProcessor asks the invoker to confirm before everything is deleted.
func resetProcessor(a IApp, i *discordgo.InteractionCreate) error {
	invokerID := i.Member.User.ID
	token := a.Resets().begin(i.GuildID)

	err := a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "⚠ Reset Confirmation",
					Description: "This will **delete ALL tickets and config** for this server.\n\nClick Confirm to proceed or Cancel to abort.",
					Color:       0xe74c3c,
				},
			},
			Components: []discordgo.MessageComponent{resetButtons(invokerID, token, false)},
		},
	})
	if err != nil {
		a.Resets().finish(i.GuildID, token)
		return fmt.Errorf("error responding to interaction: %w", err)
	}

	// Expire the confirmation if nobody presses a button in time. The token
	// keeps this timer from consuming a newer reset in the same guild.
	go func() {
		time.Sleep(resetConfirmTimeout)
		if !a.Resets().finish(i.GuildID, token) {
			return
		}

		content := "❌ Reset cancelled (timed out)."
		components := []discordgo.MessageComponent{resetButtons(invokerID, token, true)}
		embeds := make([]*discordgo.MessageEmbed, 0)
		if _, err := a.Session().InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
			Content:    &content,
			Embeds:     &embeds,
			Components: &components,
		}); err != nil {
			a.Log().Error("Error expiring reset confirmation", slog.String(logging.KeyError, err.Error()))
		}
	}()
	return nil
}

func resetButtons(invokerID, token string, disabled bool) discordgo.MessageComponent {
	arg := ":" + invokerID + ":" + token
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Confirm",
				Style:    discordgo.SuccessButton,
				Disabled: disabled,
				CustomID: ResetConfirmButtonID + arg,
				Emoji:    &discordgo.ComponentEmoji{Name: ConfirmEmoji},
			},
			discordgo.Button{
				Label:    "Cancel",
				Style:    discordgo.DangerButton,
				Disabled: disabled,
				CustomID: ResetCancelButtonID + arg,
				Emoji:    &discordgo.ComponentEmoji{Name: CancelEmoji},
			},
		},
	}
}

// resetConfirmHandler deletes every ticket channel and record plus the guild
// configuration.
func resetConfirmHandler(a IApp, i *discordgo.InteractionCreate) error {
	_, arg := splitCustomID(i.MessageComponentData().CustomID)
	invokerID, token, _ := strings.Cut(arg, ":")
	if i.Member.User.ID != invokerID {
		return respondEphemeral(a, i, "You cannot confirm this reset.")
	}

	if !a.Resets().finish(i.GuildID, token) {
		return respondEphemeral(a, i, "This confirmation has expired. Run /ticket reset again.")
	}

	ctx := context.Background()

	tickets, err := a.TicketDal().ListGuildTickets(ctx, i.GuildID)
	if err != nil {
		return fmt.Errorf("error listing tickets: %w", err)
	}

	for _, t := range tickets {
		if t.Closed() || t.ChannelID == "" {
			continue
		}
		if _, err := a.Session().ChannelDelete(t.ChannelID); err != nil {
			a.Log().Warn("Error deleting ticket channel during reset",
				slog.String(logging.KeyError, err.Error()),
				slog.String(logging.KeyTicket, t.ID),
			)
		}
	}

	if err := a.TicketDal().DeleteGuildTickets(ctx, i.GuildID); err != nil {
		return fmt.Errorf("error deleting guild tickets: %w", err)
	}
	if err := a.GuildDal().DeleteGuild(ctx, i.GuildID); err != nil {
		return fmt.Errorf("error deleting guild configuration: %w", err)
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title: "✅ Reset complete.",
					Color: 0x2ecc71,
				},
			},
			Components: []discordgo.MessageComponent{resetButtons(invokerID, token, true)},
		},
	})
}

// resetCancelHandler aborts a pending reset.
func resetCancelHandler(a IApp, i *discordgo.InteractionCreate) error {
	_, arg := splitCustomID(i.MessageComponentData().CustomID)
	invokerID, token, _ := strings.Cut(arg, ":")
	if i.Member.User.ID != invokerID {
		return respondEphemeral(a, i, "You cannot cancel this reset.")
	}

	if !a.Resets().finish(i.GuildID, token) {
		return respondEphemeral(a, i, "This confirmation has expired.")
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title: "❌ Reset cancelled.",
					Color: 0xe74c3c,
				},
			},
			Components: []discordgo.MessageComponent{resetButtons(invokerID, token, true)},
		},
	})
}

package main

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
	"github.com/vixenbot/vixen/pkg/entities"
)

func TestSplitCustomID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantKey string
		wantArg string
	}{
		{
			name:    "BareID",
			in:      OpenTicketButtonID,
			wantKey: OpenTicketButtonID,
			wantArg: "",
		},
		{
			name:    "WithArgument",
			in:      ResetConfirmButtonID + ":12345",
			wantKey: ResetConfirmButtonID,
			wantArg: "12345",
		},
		{
			name:    "ArgumentContainingColon",
			in:      "key:a:b",
			wantKey: "key",
			wantArg: "a:b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, arg := splitCustomID(tt.in)
			require.Equal(t, tt.wantKey, key)
			require.Equal(t, tt.wantArg, arg)
		})
	}
}

func TestIsAdmin(t *testing.T) {
	require.True(t, isAdmin(&discordgo.Member{Permissions: discordgo.PermissionAdministrator}))
	require.False(t, isAdmin(&discordgo.Member{Permissions: discordgo.PermissionManageServer}))
	require.False(t, isAdmin(&discordgo.Member{}))
}

func TestCanManageGuild(t *testing.T) {
	require.True(t, canManageGuild(&discordgo.Member{Permissions: discordgo.PermissionAdministrator}))
	require.True(t, canManageGuild(&discordgo.Member{Permissions: discordgo.PermissionManageServer}))
	require.False(t, canManageGuild(&discordgo.Member{Permissions: discordgo.PermissionSendMessages}))
}

func TestIsManager(t *testing.T) {
	cfg := &entities.TicketingConfig{
		AllowedRoleIDs: []string{"r1"},
		AllowedUserIDs: []string{"u1"},
	}

	tests := []struct {
		name   string
		member *discordgo.Member
		cfg    *entities.TicketingConfig
		want   bool
	}{
		{
			name:   "NilMember",
			member: nil,
			cfg:    cfg,
			want:   false,
		},
		{
			name:   "AllowedUser",
			member: &discordgo.Member{User: &discordgo.User{ID: "u1"}},
			cfg:    cfg,
			want:   true,
		},
		{
			name:   "AllowedRole",
			member: &discordgo.Member{User: &discordgo.User{ID: "u2"}, Roles: []string{"r1"}},
			cfg:    cfg,
			want:   true,
		},
		{
			name:   "GuildManagerWithoutConfig",
			member: &discordgo.Member{User: &discordgo.User{ID: "u2"}, Permissions: discordgo.PermissionManageServer},
			cfg:    nil,
			want:   true,
		},
		{
			name:   "PlainMember",
			member: &discordgo.Member{User: &discordgo.User{ID: "u2"}},
			cfg:    cfg,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, isManager(tt.member, tt.cfg))
		})
	}
}

func TestResetTracker(t *testing.T) {
	r := newResetTracker()

	require.False(t, r.finish("g1", "1"), "nothing pending yet")

	token := r.begin("g1")
	require.True(t, r.finish("g1", token))
	require.False(t, r.finish("g1", token), "finish should consume the pending reset")
}

func TestResetTracker_SupersededReset(t *testing.T) {
	r := newResetTracker()

	stale := r.begin("g1")
	fresh := r.begin("g1")

	// The superseded reset (or its expiry timer) must not consume the live
	// confirmation.
	require.False(t, r.finish("g1", stale))
	require.True(t, r.finish("g1", fresh))
}

func TestResetTracker_GuildsIndependent(t *testing.T) {
	r := newResetTracker()

	t1 := r.begin("g1")
	t2 := r.begin("g2")

	require.True(t, r.finish("g1", t1))
	require.True(t, r.finish("g2", t2))
}

func TestModalIssueText(t *testing.T) {
	data := discordgo.ModalSubmitInteractionData{
		CustomID: TicketModalID,
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					&discordgo.TextInput{
						CustomID: TicketIssueInputID,
						Value:    "  my bot is on fire \n",
					},
				},
			},
		},
	}

	issue, err := modalIssueText(data)
	require.NoError(t, err)
	require.Equal(t, "my bot is on fire", issue)
}

func TestModalIssueText_Missing(t *testing.T) {
	_, err := modalIssueText(discordgo.ModalSubmitInteractionData{CustomID: TicketModalID})
	require.Error(t, err)
}

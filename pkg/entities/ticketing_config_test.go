package entities

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewGuild(t *testing.T) {
	guild := NewGuild("g1")
	require.Equal(t, "g1", guild.ID)
	require.Equal(t, DefaultMonthlyLimit, guild.Ticketing.MonthlyLimit)
	require.False(t, guild.Ticketing.Enabled)
}

func TestTicketingConfig_SetMonthlyLimit(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{
			name: "Positive",
			in:   10,
			want: 10,
		},
		{
			name: "Zero",
			in:   0,
			want: 0,
		},
		{
			name: "NegativeClampedToZero",
			in:   -3,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &TicketingConfig{MonthlyLimit: DefaultMonthlyLimit}
			cfg.SetMonthlyLimit(tt.in)
			require.Equal(t, tt.want, cfg.MonthlyLimit)
		})
	}
}

func TestTicketingConfig_AllowedList(t *testing.T) {
	cfg := &TicketingConfig{}

	require.True(t, cfg.AddAllowedRole("r1"))
	require.False(t, cfg.AddAllowedRole("r1"), "adding twice should not change the list")
	require.True(t, cfg.AllowsRole("r1"))

	require.True(t, cfg.AddAllowedUser("u1"))
	require.True(t, cfg.AllowsUser("u1"))
	require.False(t, cfg.AllowsUser("u2"))

	require.True(t, cfg.RemoveAllowedRole("r1"))
	require.False(t, cfg.RemoveAllowedRole("r1"), "removing twice should not change the list")
	require.False(t, cfg.AllowsRole("r1"))

	require.True(t, cfg.RemoveAllowedUser("u1"))
	require.Empty(t, cfg.AllowedUserIDs)
}

func TestTicketingConfig_PingList(t *testing.T) {
	cfg := &TicketingConfig{}

	require.True(t, cfg.AddPingRole("r1"))
	require.True(t, cfg.AddPingUser("u1"))
	require.False(t, cfg.AddPingUser("u1"))

	require.Equal(t, []string{"r1"}, cfg.PingRoleIDs)
	require.Equal(t, []string{"u1"}, cfg.PingUserIDs)

	require.True(t, cfg.RemovePingRole("r1"))
	require.True(t, cfg.RemovePingUser("u1"))
	require.False(t, cfg.RemovePingUser("u1"))
	require.Empty(t, cfg.PingRoleIDs)
	require.Empty(t, cfg.PingUserIDs)
}

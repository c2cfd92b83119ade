package entities

// DefaultMonthlyLimit is the number of tickets a user may open per calendar
// month when the guild has not configured a limit.
const DefaultMonthlyLimit = 5

// TicketingConfig is the ticketing configuration for a guild.
type TicketingConfig struct {
	// Enabled is whether ticketing is enabled.
	Enabled bool `json:"enabled" bson:"enabled"`

	// ChannelID is the ID of the channel that the open ticket message is in.
	ChannelID string `json:"channel_id" bson:"channel_id"`

	// OpenMessageID is the ID of the open ticket message.
	OpenMessageID string `json:"open_message_id" bson:"open_message_id"`

	// AllowedRoleIDs are the roles that are allowed to manage tickets.
	AllowedRoleIDs []string `json:"allowed_role_ids" bson:"allowed_role_ids"`

	// AllowedUserIDs are the users that are allowed to manage tickets.
	AllowedUserIDs []string `json:"allowed_user_ids" bson:"allowed_user_ids"`

	// PingRoleIDs are the roles that are pinged when a ticket is opened.
	PingRoleIDs []string `json:"ping_role_ids" bson:"ping_role_ids"`

	// PingUserIDs are the users that are pinged when a ticket is opened.
	PingUserIDs []string `json:"ping_user_ids" bson:"ping_user_ids"`

	// MonthlyLimit is the number of tickets a user may open per calendar
	// month. Never negative; 0 means no tickets can be opened.
	MonthlyLimit int `json:"monthly_limit" bson:"monthly_limit"`
}

// SetMonthlyLimit sets the monthly ticket limit, clamping negatives to 0.
func (c *TicketingConfig) SetMonthlyLimit(n int) {
	if n < 0 {
		n = 0
	}
	c.MonthlyLimit = n
}

// AllowsRole reports whether the role is on the allowed list.
func (c *TicketingConfig) AllowsRole(id string) bool {
	return contains(c.AllowedRoleIDs, id)
}

// AllowsUser reports whether the user is on the allowed list.
func (c *TicketingConfig) AllowsUser(id string) bool {
	return contains(c.AllowedUserIDs, id)
}

// AddAllowedRole adds a role to the allowed list. It reports whether the list
// changed.
func (c *TicketingConfig) AddAllowedRole(id string) bool {
	return add(&c.AllowedRoleIDs, id)
}

// RemoveAllowedRole removes a role from the allowed list. It reports whether
// the list changed.
func (c *TicketingConfig) RemoveAllowedRole(id string) bool {
	return remove(&c.AllowedRoleIDs, id)
}

// AddAllowedUser adds a user to the allowed list. It reports whether the list
// changed.
func (c *TicketingConfig) AddAllowedUser(id string) bool {
	return add(&c.AllowedUserIDs, id)
}

// RemoveAllowedUser removes a user from the allowed list. It reports whether
// the list changed.
func (c *TicketingConfig) RemoveAllowedUser(id string) bool {
	return remove(&c.AllowedUserIDs, id)
}

// AddPingRole adds a role to the ping list. It reports whether the list changed.
func (c *TicketingConfig) AddPingRole(id string) bool {
	return add(&c.PingRoleIDs, id)
}

// RemovePingRole removes a role from the ping list. It reports whether the
// list changed.
func (c *TicketingConfig) RemovePingRole(id string) bool {
	return remove(&c.PingRoleIDs, id)
}

// AddPingUser adds a user to the ping list. It reports whether the list changed.
func (c *TicketingConfig) AddPingUser(id string) bool {
	return add(&c.PingUserIDs, id)
}

// RemovePingUser removes a user from the ping list. It reports whether the
// list changed.
func (c *TicketingConfig) RemovePingUser(id string) bool {
	return remove(&c.PingUserIDs, id)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func add(ids *[]string, id string) bool {
	if contains(*ids, id) {
		return false
	}
	*ids = append(*ids, id)
	return true
}

func remove(ids *[]string, id string) bool {
	for i, v := range *ids {
		if v == id {
			*ids = append((*ids)[:i], (*ids)[i+1:]...)
			return true
		}
	}
	return false
}

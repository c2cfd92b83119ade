// Package messages contains the user facing reply strings for the bot. They
// live in one place so that the tone of the bot stays consistent.
package messages

const (
	// ErrUserErrorProcessing is sent when a handler fails for a reason the
	// user cannot fix.
	ErrUserErrorProcessing = "Something went wrong processing your request. Please try again later."

	// ErrNoPermission is sent when the user is not a ticket manager.
	ErrNoPermission = "You do not have permission to do that."

	// ErrAdminOnly is sent when a command requires the administrator permission.
	ErrAdminOnly = "You must be an administrator to use this command."

	// ErrNotConfigured is sent when the guild has no ticketing configuration.
	ErrNotConfigured = "Ticketing has not been set up on this server. Ask an administrator to run /setup enable."

	// ErrNotTicketChannel is sent when a ticket command is used outside a
	// tracked ticket channel.
	ErrNotTicketChannel = "This channel is not a tracked ticket."

	// ErrTicketAlreadyClosed is sent when closing a ticket that is already closed.
	ErrTicketAlreadyClosed = "This ticket is already closed."

	// ErrButtonNotActive is sent when the open ticket button is pressed
	// outside the configured ticket channel.
	ErrButtonNotActive = "This button is not active here."

	// ErrRateLimited is sent when a user is interacting too quickly.
	ErrRateLimited = "You are doing that too quickly. Please wait a moment and try again."

	// ErrBadMention is sent when a mention or ID could not be parsed.
	ErrBadMention = "Could not parse that mention or ID."

	// NoTicketsFound is sent when a history lookup returns nothing.
	NoTicketsFound = "No tickets found."
)

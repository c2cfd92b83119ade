package logging

const (
	// KeyAppName is the key for the application name.
	KeyAppName = "app"

	// KeyError is the key for an error.
	KeyError = "err"

	// KeyDal is the key for a data access layer.
	KeyDal = "dal"

	// KeyGuild is the key for a guild ID.
	KeyGuild = "guild"

	// KeyUser is the key for a user ID.
	KeyUser = "user"

	// KeyTicket is the key for a ticket ID.
	KeyTicket = "ticket"
)

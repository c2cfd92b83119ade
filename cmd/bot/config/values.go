package config

const (
	// AppName is the name of the application.
	AppName = "vixen"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvApplicationId is the environment variable for the application ID.
	EnvApplicationId = `APPLICATION_ID`

	// EnvMongoUri is the environment variable for the MongoDB URI. Optional;
	// when unset the bot persists to JSON files under the data directory.
	EnvMongoUri = `MONGO_URI`

	// EnvDataDir is the environment variable for the JSON data directory.
	EnvDataDir = `DATA_DIR`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`
)

var (
	// BotToken is the token for the bot.
	BotToken string

	// ApplicationId is the ID of the application.
	ApplicationId string

	// MongoUri is the URI for the MongoDB database.
	MongoUri string

	// DataDir is the directory the JSON documents are stored in.
	DataDir string

	// MonitoringPort is the port for the monitoring server.
	MonitoringPort string
)

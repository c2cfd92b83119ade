package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/vixenbot/vixen/pkg/dataaccess"
	"github.com/vixenbot/vixen/pkg/dataaccess/connection"
	"github.com/vixenbot/vixen/pkg/dataaccess/jsonstore"
	"github.com/vixenbot/vixen/pkg/logging"
)

// Parse reads the configuration from the environment and connects the storage
// backend. A .env file in the working directory is loaded first if present.
func Parse(l *slog.Logger) {
	if err := godotenv.Load(); err != nil {
		l.Debug("No .env file loaded", slog.String(logging.KeyError, err.Error()))
	}

	if envBT := os.Getenv(EnvBotToken); envBT != "" {
		l.Debug("Found bot token in environment", slog.String("key", EnvBotToken))
		BotToken = envBT
	}

	if envAppId := os.Getenv(EnvApplicationId); envAppId != "" {
		l.Debug("Found application ID in environment", slog.String("key", EnvApplicationId))
		ApplicationId = envAppId
	}

	if envMongoUri := os.Getenv(EnvMongoUri); envMongoUri != "" {
		l.Debug("Found MongoDB URI in environment", slog.String("key", EnvMongoUri))
		MongoUri = envMongoUri
	}

	if envDataDir := os.Getenv(EnvDataDir); envDataDir != "" {
		l.Debug("Found data directory in environment", slog.String("key", EnvDataDir))
		DataDir = envDataDir
	} else {
		DataDir = "data"
		l.Info("No data directory provided in environment, defaulting to ./data", slog.String("key", EnvDataDir))
	}

	if envMonitoringPort := os.Getenv(EnvMonitoringPort); envMonitoringPort != "" {
		l.Debug("Found monitoring port in environment", slog.String("key", EnvMonitoringPort))
		MonitoringPort = envMonitoringPort
	} else {
		// Default to 8080 if not provided.
		MonitoringPort = "8080"
		l.Info("No monitoring port provided in environment, defaulting to 8080", slog.String("key", EnvMonitoringPort))
	}

	if BotToken == "" || ApplicationId == "" {
		l.Error("Not all required environment variables have been provided", slog.String(logging.KeyError, "Incomplete configuration"))
		os.Exit(1)
	}

	if MongoUri != "" {
		connectMongo(l)
		return
	}

	openFileStore(l)
}

func connectMongo(l *slog.Logger) {
	mongoConn := new(connection.MongoDB)
	mongoConn.ConnectionString = MongoUri

	db, err := mongoConn.Connect()
	if err != nil {
		l.Error("Error connecting to mongo", slog.String(logging.KeyError, err.Error()))
		os.Exit(1)
	} else if db == nil {
		l.Error("MongoDB came back nil", slog.String(logging.KeyError, "MongoDB came back nil"))
		os.Exit(1)
	}

	dataaccess.MongoDB = db
	l.Debug("Connected to MongoDB", slog.String("key", EnvMongoUri))
}

func openFileStore(l *slog.Logger) {
	store, err := jsonstore.New(DataDir, l)
	if err != nil {
		l.Error("Error opening JSON store", slog.String(logging.KeyError, err.Error()))
		os.Exit(1)
	}

	dataaccess.FileStore = store
	l.Debug("Opened JSON store", slog.String("dir", DataDir))
}

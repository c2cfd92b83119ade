package dataaccess

import (
	"github.com/vixenbot/vixen/pkg/dataaccess/jsonstore"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB is the Mongo client. Set during config parsing when MONGO_URI is
// provided; nil means the JSON file backend is in use.
var MongoDB *mongo.Client

// FileStore is the JSON file store. Set during config parsing when MongoDB is
// not configured.
var FileStore *jsonstore.Store

const mongoDatabase = "vixen"

const (
	// configDocument is the JSON document holding all guild configurations.
	configDocument = "config.json"

	// ticketsDocument is the JSON document holding all ticket records.
	ticketsDocument = "tickets.json"
)

// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"

	deletedstore "github.com/psalmeida/organregistry/internal/app/store/deleted"
	locationstore "github.com/psalmeida/organregistry/internal/app/store/locations"
	maintenancestore "github.com/psalmeida/organregistry/internal/app/store/maintenances"
	organstore "github.com/psalmeida/organregistry/internal/app/store/organs"
	"github.com/psalmeida/organregistry/internal/app/system/gate"
	"github.com/psalmeida/organregistry/internal/app/system/snapshot"
)

// DBDeps holds database and back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Organs       *organstore.Store
	Maintenances *maintenancestore.Store
	Deleted      *deletedstore.Store
	Locations    *locationstore.Store

	// Snapshot is the in-memory read model over the four collections.
	Snapshot *snapshot.Cache

	// Gate verifies the four-digit code challenges for destructive actions.
	Gate *gate.Gate
}

// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	deletedstore "github.com/psalmeida/organregistry/internal/app/store/deleted"
	locationstore "github.com/psalmeida/organregistry/internal/app/store/locations"
	maintenancestore "github.com/psalmeida/organregistry/internal/app/store/maintenances"
	organstore "github.com/psalmeida/organregistry/internal/app/store/organs"
	"github.com/psalmeida/organregistry/internal/app/system/gate"
	"github.com/psalmeida/organregistry/internal/app/system/snapshot"
	"github.com/psalmeida/organregistry/internal/domain/models"
)

// ConnectDB establishes the MongoDB connection and builds the stores,
// snapshot cache, and challenge gate that the rest of the app depends on.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("ping MongoDB: %w", err)
	}

	db := client.Database(appCfg.MongoDatabase)
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		Organs:        organstore.New(db),
		Maintenances:  maintenancestore.New(db),
		Deleted:       deletedstore.New(db),
		Locations:     locationstore.New(db),
		Gate:          gate.New([]byte(appCfg.GateKey), appCfg.GateChallengeTTL),
	}
	deps.Snapshot = snapshot.New(deps.Organs, deps.Maintenances, deps.Deleted, deps.Locations, logger)
	return deps, nil
}

// defaultLocations is the fixed catalog of church sites, grouped by
// administrative region. Locations are reference data: EnsureSchema inserts
// any that are missing and never touches existing documents, so renames done
// directly in the database survive restarts.
var defaultLocations = []models.Location{
	{ID: "central-se", Name: "Catedral da Sé", Adm: models.AdmCentral},
	{ID: "central-consolacao", Name: "Igreja da Consolação", Adm: models.AdmCentral},
	{ID: "central-liberdade", Name: "Igreja da Liberdade", Adm: models.AdmCentral},
	{ID: "norte-santana", Name: "Igreja de Santana", Adm: models.AdmNorte},
	{ID: "norte-tucuruvi", Name: "Igreja do Tucuruvi", Adm: models.AdmNorte},
	{ID: "norte-casa-verde", Name: "Igreja da Casa Verde", Adm: models.AdmNorte},
	{ID: "sul-santo-amaro", Name: "Igreja de Santo Amaro", Adm: models.AdmSul},
	{ID: "sul-ipiranga", Name: "Igreja do Ipiranga", Adm: models.AdmSul},
	{ID: "sul-jabaquara", Name: "Igreja do Jabaquara", Adm: models.AdmSul},
	{ID: "leste-penha", Name: "Igreja da Penha", Adm: models.AdmLeste},
	{ID: "leste-tatuape", Name: "Igreja do Tatuapé", Adm: models.AdmLeste},
	{ID: "leste-itaquera", Name: "Igreja de Itaquera", Adm: models.AdmLeste},
}

// EnsureSchema creates the indexes the query paths rely on and seeds the
// location catalog. Safe to run on every startup.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	indexes := map[string][]mongo.IndexModel{
		"organs": {
			{Keys: bson.D{{Key: "location_id", Value: 1}}},
		},
		"maintenances": {
			{Keys: bson.D{{Key: "organ_id", Value: 1}, {Key: "date", Value: -1}}},
		},
		"deletedItems": {
			{Keys: bson.D{{Key: "type", Value: 1}, {Key: "deleted_at", Value: -1}}},
			{Keys: bson.D{{Key: "deleted_at", Value: -1}}},
		},
		"locations": {
			{Keys: bson.D{{Key: "adm", Value: 1}}},
		},
	}

	for coll, ixs := range indexes {
		if _, err := deps.MongoDatabase.Collection(coll).Indexes().CreateMany(ctx, ixs); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}

	if err := deps.Locations.EnsureSeeded(ctx, defaultLocations); err != nil {
		return fmt.Errorf("seed locations: %w", err)
	}
	logger.Info("schema ensured", zap.Int("seed_locations", len(defaultLocations)))
	return nil
}

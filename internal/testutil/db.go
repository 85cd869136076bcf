// Package testutil provides database setup, fixtures and HTTP helpers for
// tests. Store tests need a running MongoDB; they skip when none is
// reachable.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoURIEnv names the environment variable that points store tests at a
// MongoDB instance. When unset, localhost is tried.
const MongoURIEnv = "ORGANREGISTRY_TEST_MONGO_URI"

var dbCounter int64

// SetupTestDB connects to the test MongoDB and returns a database unique to
// this test. The database is dropped and the client disconnected when the
// test finishes. Skips the test when no MongoDB is reachable.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv(MongoURIEnv)
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("mongodb not available at %s: %v", uri, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("mongodb not reachable at %s: %v", uri, err)
	}

	dbCounter++
	name := fmt.Sprintf("organregistry_test_%d_%d", time.Now().UnixNano(), dbCounter)
	db := client.Database(name)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return db
}

// TestContext returns a context with a generous timeout for store calls.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

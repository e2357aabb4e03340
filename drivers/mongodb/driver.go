// Package mongodb registers the "mongodb" lookup driver: a query-style
// driver whose Find key is "<database>.<collection>?<json filter>".
//
// Grounded on data/mongodb/driver.go's Connect/Close/Ping shape, but
// simplified from data/mongodb/manager.go's MongoManager (master/slave
// routing, weighted strategies, retry) down to a single mongo.Client
// connection — a lookup driver issues one read per Find call against a
// fixed URI, it has no write path and no need for replica-routing logic.
package mongodb

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ncobase/lookup/driver"
	"github.com/ncobase/lookup/registry"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Config holds the connection URI.
type Config struct {
	URI string
}

var activeConfig Config

// Configure sets the URI used by every subsequent Open.
func Configure(cfg Config) { activeConfig = cfg }

type mongodbDriver struct{}

func (d *mongodbDriver) Open(ctx context.Context, filename string) (any, error) {
	if activeConfig.URI == "" {
		return nil, fmt.Errorf("mongodb: no URI configured")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(activeConfig.URI))
	if err != nil {
		return nil, fmt.Errorf("mongodb: failed to connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb: ping failed: %w", err)
	}
	return client, nil
}

func (d *mongodbDriver) Check(ctx context.Context, args driver.CheckArgs) error { return nil }

// Find parses a key of the shape "database.collection?{json filter}" and
// runs FindOne, returning the matched document as compact JSON.
func (d *mongodbDriver) Find(ctx context.Context, args driver.FindArgs) driver.FindReply {
	client, ok := args.Handle.(*mongo.Client)
	if !ok {
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("mongodb: invalid handle type")}
	}

	dbColl, filterJSON, ok := strings.Cut(args.Key, "?")
	if !ok {
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("mongodb: key %q missing '?filter'", args.Key)}
	}
	database, collection, ok := strings.Cut(dbColl, ".")
	if !ok {
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("mongodb: key %q missing 'database.collection'", args.Key)}
	}

	var filter bson.M
	if err := json.Unmarshal([]byte(filterJSON), &filter); err != nil {
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("mongodb: invalid filter JSON: %w", err)}
	}

	var doc bson.M
	err := client.Database(database).Collection(collection).FindOne(ctx, filter).Decode(&doc)
	switch {
	case err == mongo.ErrNoDocuments:
		return driver.FindReply{Result: driver.Fail, TTL: driver.ForeverTTL}
	case err != nil:
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("mongodb: find: %w", err)}
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("mongodb: marshal result: %w", err)}
	}
	return driver.FindReply{Result: driver.OK, Payload: string(out), TTL: driver.ForeverTTL}
}

func (d *mongodbDriver) Close(handle any) error {
	client, ok := handle.(*mongo.Client)
	if !ok {
		return fmt.Errorf("mongodb: invalid connection type, expected *mongo.Client")
	}
	return client.Disconnect(context.Background())
}

func (d *mongodbDriver) Tidy() {}

func (d *mongodbDriver) Quote(s string) (string, bool) { return "", false }

func init() {
	registry.Register(registry.Descriptor{
		Name:         "mongodb",
		Style:        driver.StyleQuery,
		Capabilities: driver.Capabilities{},
		Driver:       &mongodbDriver{},
	})
}

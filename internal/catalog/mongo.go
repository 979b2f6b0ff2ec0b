package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stylemate/catalog-scraper/internal/types"
)

// MongoStore writes records to a MongoDB collection, one document per product
// identity.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	mu         sync.Mutex
	count      int
	logger     *slog.Logger
}

// NewMongoStore connects to MongoDB and verifies the connection. A failure
// here is a startup error; the crawl must not begin without a working store.
func NewMongoStore(uri, database, collection string, logger *slog.Logger) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger:     logger.With("component", "mongo_catalog"),
	}, nil
}

func (s *MongoStore) Name() string { return "mongo" }

// Upsert issues a merge-upsert keyed by the record's identity. Present fields
// overwrite the stored document, an empty color is omitted so a previously
// stored color survives, and scrapedAt is set to the server's current time.
func (s *MongoStore) Upsert(ctx context.Context, rec *types.ProductRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := Identity(rec.ProductURL)
	fields := recordFields(rec)

	opCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.collection.UpdateOne(opCtx,
		bson.M{"_id": id},
		bson.M{
			"$set":         fields,
			"$currentDate": bson.M{"scrapedAt": true},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Err: err}
	}

	s.count++
	s.logger.Debug("record upserted", "id", id, "url", rec.ProductURL, "total", s.count)
	return nil
}

// recordFields builds the $set document for a merge-upsert. An empty color
// is omitted so a color already stored for this product is not erased;
// scrapedAt is never set here, it is refreshed server-side on every write.
func recordFields(rec *types.ProductRecord) bson.M {
	fields := bson.M{
		"name":       rec.Name,
		"brand":      rec.Brand,
		"price":      rec.Price,
		"imageUrl":   rec.ImageURL,
		"productUrl": rec.ProductURL,
		"category":   string(rec.Category),
		"retailer": bson.M{
			"id":   rec.Retailer.ID,
			"name": rec.Retailer.Name,
		},
	}
	if rec.Color != "" {
		fields["color"] = rec.Color
	}
	return fields
}

func (s *MongoStore) Close(ctx context.Context) error {
	s.logger.Info("mongo catalog closing", "total_writes", s.count)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

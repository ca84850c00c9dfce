package audit

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// MongoSink inserts one document per event into a collection. Field names
// follow the Event bson tags, matching the NDJSON wire names. Compose it
// behind an AsyncSink so database latency stays off the request path.
type MongoSink struct {
	coll *mongo.Collection
}

// NewMongoSink creates a sink writing into the given collection.
func NewMongoSink(coll *mongo.Collection) *MongoSink {
	if coll == nil {
		panic("audit: mongo collection cannot be nil")
	}
	return &MongoSink{coll: coll}
}

// Write inserts the event document. Errors are returned to the caller, which
// owns the fail-open logging policy.
func (s *MongoSink) Write(ctx context.Context, event Event) error {
	if _, err := s.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/ims-console/internal/core/ports"
)

const sessionCollection = "console_sessions"

// SessionStorage keeps all session keys of one namespace in a single
// document, so multi-key writes are atomic.
type SessionStorage struct {
	coll      *mongo.Collection
	namespace string
}

var _ ports.DurableStore = (*SessionStorage)(nil)

func NewSessionStorage(db *mongo.Database, namespace string) *SessionStorage {
	if namespace == "" {
		namespace = "default"
	}
	return &SessionStorage{coll: db.Collection(sessionCollection), namespace: namespace}
}

type sessionDoc struct {
	ID        string            `bson:"_id"`
	Values    map[string]string `bson:"values"`
	UpdatedAt int64             `bson:"updated_at"`
}

func (s *SessionStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var doc sessionDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": s.namespace}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find session: %w", err)
	}
	v, ok := doc.Values[key]
	return v, ok, nil
}

func (s *SessionStorage) SetAll(ctx context.Context, entries map[string]string) error {
	set := bson.M{"updated_at": time.Now().Unix()}
	for k, v := range entries {
		set["values."+k] = v
	}
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": s.namespace},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *SessionStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	unset := bson.M{}
	for _, k := range keys {
		unset["values."+k] = ""
	}
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": s.namespace},
		bson.M{"$unset": unset, "$set": bson.M{"updated_at": time.Now().Unix()}},
	)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (s *SessionStorage) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

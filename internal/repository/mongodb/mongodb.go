// Package mongodb implements the user repository on MongoDB, for
// deployments that already run the document store the rest of the shop
// backend uses. Select it with STORE_DRIVER=mongodb.
//
// The layout is a single "users" collection keyed by our internal ID
// (stored as _id) with a unique index on the normalized email — the same
// shape the sqlite driver gives as a table plus a unique index.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Vanshsharma2405/Major-Project-Backend/internal/apperror"
	"github.com/Vanshsharma2405/Major-Project-Backend/internal/model"
	"github.com/Vanshsharma2405/Major-Project-Backend/internal/repository"
)

const usersCollection = "users"

// Store implements repository.UserRepository on a MongoDB database.
type Store struct {
	client *mongo.Client
	users  *mongo.Collection
}

var _ repository.UserRepository = (*Store)(nil)

// New connects to MongoDB and ensures the unique email index exists.
//
// The index is created up front, not lazily: it is the authoritative
// uniqueness guard under concurrent registration, so the store must never
// accept writes without it.
func New(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb: connecting: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb: pinging: %w", err)
	}

	users := client.Database(database).Collection(usersCollection)

	_, err = users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb: creating email index: %w", err)
	}

	return &Store{client: client, users: users}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Create inserts a new user, assigning the ID and timestamps in place.
// A duplicate-key error from the unique email index is translated to
// apperror.ErrDuplicateEmail.
func (s *Store) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.LastLoginAt = now

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.DuplicateEmail()
		}
		return fmt.Errorf("mongodb: inserting user (email=%s): %w", user.Email, err)
	}

	return nil
}

// GetByEmail retrieves a user by normalized email.
// Returns apperror.ErrNotFound if no user exists with that email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getUser(ctx, bson.M{"email": email})
}

// GetByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (s *Store) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.getUser(ctx, bson.M{"_id": id})
}

func (s *Store) getUser(ctx context.Context, filter bson.M) (*model.User, error) {
	var u model.User
	if err := s.users.FindOne(ctx, filter).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperror.NotFound("user not found")
		}
		return nil, fmt.Errorf("mongodb: getting user: %w", err)
	}
	return &u, nil
}

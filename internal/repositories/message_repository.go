package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/eonchat/server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository defines the interface for message data operations
type MessageRepository interface {
	CreateMessage(ctx context.Context, message *models.Message) error
	GetConversation(ctx context.Context, userID, otherID string) ([]models.Message, error)
	MarkConversationRead(ctx context.Context, readerID, otherID string) error
	DeleteConversation(ctx context.Context, userID, otherID string) error
	EnsureIndexes(ctx context.Context) error
}

// MongoMessageRepository implements MessageRepository for MongoDB
type MongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new MongoMessageRepository
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{collection: db.Collection("messages")}
}

// EnsureIndexes creates the compound (sender, receiver, timestamp) index so
// conversation fetches stay index-backed
func (r *MongoMessageRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "sender", Value: 1},
			{Key: "receiver", Value: 1},
			{Key: "timestamp", Value: 1},
		},
	})
	return err
}

// CreateMessage inserts a new message document
func (r *MongoMessageRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, message)
	return err
}

func conversationFilter(a, b primitive.ObjectID) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"sender": a, "receiver": b},
		bson.M{"sender": b, "receiver": a},
	}}
}

// GetConversation returns every message exchanged between the two users,
// oldest first
func (r *MongoMessageRepository) GetConversation(ctx context.Context, userID, otherID string) ([]models.Message, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}
	oid, err := primitive.ObjectIDFromHex(otherID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.collection.Find(ctx, conversationFilter(uid, oid), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkConversationRead flags every message the other user sent to the
// reader as read
func (r *MongoMessageRepository) MarkConversationRead(ctx context.Context, readerID, otherID string) error {
	rid, err := primitive.ObjectIDFromHex(readerID)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", err)
	}
	oid, err := primitive.ObjectIDFromHex(otherID)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", err)
	}

	_, err = r.collection.UpdateMany(ctx,
		bson.M{"sender": oid, "receiver": rid, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}})
	return err
}

// DeleteConversation removes every message between the two users. Called on
// unfriend so no message outlives the friendship it belongs to.
func (r *MongoMessageRepository) DeleteConversation(ctx context.Context, userID, otherID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", err)
	}
	oid, err := primitive.ObjectIDFromHex(otherID)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", err)
	}

	_, err = r.collection.DeleteMany(ctx, conversationFilter(uid, oid))
	return err
}

package repositories

import (
	"context"
	"time"

	"github.com/eonchat/server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OtpRepository defines the interface for verification-code operations
type OtpRepository interface {
	Replace(ctx context.Context, email, code string) error
	Verify(ctx context.Context, email, code string) error
	DeleteForEmail(ctx context.Context, email string) error
	EnsureIndexes(ctx context.Context) error
}

// MongoOtpRepository implements OtpRepository for MongoDB
type MongoOtpRepository struct {
	collection *mongo.Collection
}

// NewMongoOtpRepository creates a new MongoOtpRepository
func NewMongoOtpRepository(db *mongo.Database) *MongoOtpRepository {
	return &MongoOtpRepository{collection: db.Collection("otps")}
}

// EnsureIndexes creates the TTL index that garbage-collects expired codes
func (r *MongoOtpRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(models.OtpTTL.Seconds())),
	})
	return err
}

// Replace deletes any previous codes for the email and stores the new one
func (r *MongoOtpRepository) Replace(ctx context.Context, email, code string) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"email": email}); err != nil {
		return err
	}
	otp := models.Otp{
		ID:        primitive.NewObjectID(),
		Email:     email,
		Code:      code,
		CreatedAt: time.Now(),
	}
	_, err := r.collection.InsertOne(ctx, otp)
	return err
}

// Verify checks that a matching, unexpired code exists for the email. The
// expiry check also runs here because the TTL monitor only sweeps
// periodically.
func (r *MongoOtpRepository) Verify(ctx context.Context, email, code string) error {
	var otp models.Otp
	if err := r.collection.FindOne(ctx, bson.M{"email": email, "otp": code}).Decode(&otp); err != nil {
		return err
	}
	if otp.Expired(time.Now()) {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteForEmail removes all codes for the email (cleanup after use)
func (r *MongoOtpRepository) DeleteForEmail(ctx context.Context, email string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"email": email})
	return err
}

package repositories

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/eonchat/server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error
	SearchByUsernamePrefix(ctx context.Context, prefix, excludeID string, limit int64) ([]models.UserCompact, error)
	GetFriends(ctx context.Context, id string) ([]models.UserCompact, error)
	AddFriendEdge(ctx context.Context, userID, friendID string) error
	RemoveFriendEdge(ctx context.Context, userID, friendID string) error
	GetNetwork(ctx context.Context) ([]models.User, error)
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser inserts a new user document
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	if user.Friends == nil {
		user.Friends = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// GetUserByID retrieves a user by its hex id
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}

	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by exact username
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePasswordByEmail replaces the stored password hash for the account
// registered under email
func (r *MongoUserRepository) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"email": email},
		bson.M{"$set": bson.M{"passwordHash": passwordHash}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SearchByUsernamePrefix finds users whose username starts with prefix,
// case-insensitive, excluding the searching user. The anchored regex lets
// MongoDB use the username index.
func (r *MongoUserRepository) SearchByUsernamePrefix(ctx context.Context, prefix, excludeID string, limit int64) ([]models.UserCompact, error) {
	filter := bson.M{
		"username": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix), "$options": "i"},
	}
	if excludeID != "" {
		if objID, err := primitive.ObjectIDFromHex(excludeID); err == nil {
			filter["_id"] = bson.M{"$ne": objID}
		}
	}

	findOptions := options.Find().
		SetLimit(limit).
		SetProjection(bson.M{"username": 1, "email": 1})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.UserCompact{}
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetFriends resolves the user's adjacency list into public identities
func (r *MongoUserRepository) GetFriends(ctx context.Context, id string) ([]models.UserCompact, error) {
	user, err := r.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(user.Friends) == 0 {
		return []models.UserCompact{}, nil
	}

	findOptions := options.Find().SetProjection(bson.M{"username": 1, "email": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": user.Friends}}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	friends := []models.UserCompact{}
	if err = cursor.All(ctx, &friends); err != nil {
		return nil, err
	}
	return friends, nil
}

// AddFriendEdge registers the undirected friendship edge in both users'
// documents. $addToSet keeps the adjacency lists duplicate-free.
func (r *MongoUserRepository) AddFriendEdge(ctx context.Context, userID, friendID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", err)
	}
	fid, err := primitive.ObjectIDFromHex(friendID)
	if err != nil {
		return fmt.Errorf("invalid friend ID format: %w", err)
	}

	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": uid},
		bson.M{"$addToSet": bson.M{"friends": fid}}); err != nil {
		return err
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": fid},
		bson.M{"$addToSet": bson.M{"friends": uid}})
	return err
}

// RemoveFriendEdge pulls the edge from both adjacency lists
func (r *MongoUserRepository) RemoveFriendEdge(ctx context.Context, userID, friendID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", err)
	}
	fid, err := primitive.ObjectIDFromHex(friendID)
	if err != nil {
		return fmt.Errorf("invalid friend ID format: %w", err)
	}

	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": uid},
		bson.M{"$pull": bson.M{"friends": fid}}); err != nil {
		return err
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": fid},
		bson.M{"$pull": bson.M{"friends": uid}})
	return err
}

// GetNetwork fetches the full friendship snapshot (id, username, friends)
// used to build the recommendation graph
func (r *MongoUserRepository) GetNetwork(ctx context.Context) ([]models.User, error) {
	findOptions := options.Find().SetProjection(bson.M{"username": 1, "friends": 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongodb "milkledger/db/mongo"
	"milkledger/models"
)

type MongoUserRepo struct {
	DB *mongo.Database
}

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{DB: db}
}

func (r *MongoUserRepo) users() *mongo.Collection {
	return r.DB.Collection(mongodb.UsersCollection)
}

func (r *MongoUserRepo) CreateUser(ctx context.Context, user *models.AppUser) error {
	if user.Password == "" {
		return errors.New("password hash cannot be empty")
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now()
	}
	user.UpdatedAt = user.CreatedAt

	_, err := r.users().InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.AppUser, error) {
	user := &models.AppUser{}
	err := r.users().FindOne(ctx, filter).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *MongoUserRepo) GetUserByID(ctx context.Context, id string) (*models.AppUser, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepo) GetUserByUsername(ctx context.Context, username string) (*models.AppUser, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoUserRepo) ListUsers(ctx context.Context) ([]*models.AppUser, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "username", Value: 1}})
	cur, err := r.users().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []*models.AppUser
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoUserRepo) update(ctx context.Context, id string, set bson.M) (*models.AppUser, error) {
	set["updated_at"] = now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	user := &models.AppUser{}
	err := r.users().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *MongoUserRepo) UpdateUserStatus(ctx context.Context, id string, active bool) (*models.AppUser, error) {
	return r.update(ctx, id, bson.M{"is_active": active})
}

func (r *MongoUserRepo) UpdateUserRole(ctx context.Context, id, role string) (*models.AppUser, error) {
	return r.update(ctx, id, bson.M{"role": role})
}

func (r *MongoUserRepo) CountUsers(ctx context.Context) (int, error) {
	n, err := r.users().CountDocuments(ctx, bson.M{})
	return int(n), err
}

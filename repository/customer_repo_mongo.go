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

type MongoCustomerRepo struct {
	DB *mongo.Database
}

func NewMongoCustomerRepo(db *mongo.Database) *MongoCustomerRepo {
	return &MongoCustomerRepo{DB: db}
}

func (r *MongoCustomerRepo) customers() *mongo.Collection {
	return r.DB.Collection(mongodb.CustomersCollection)
}

func (r *MongoCustomerRepo) CreateCustomer(ctx context.Context, c *models.Customer) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now()
	}
	_, err := r.customers().InsertOne(ctx, c)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *MongoCustomerRepo) ListCustomers(ctx context.Context, userID string) ([]*models.Customer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := r.customers().Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	customers := []*models.Customer{}
	if err := cur.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *MongoCustomerRepo) GetCustomerByName(ctx context.Context, userID, name string) (*models.Customer, error) {
	c := &models.Customer{}
	err := r.customers().FindOne(ctx, bson.M{"user_id": userID, "name": name}).Decode(c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCustomer also unlinks the customer's milk entries, which keep the
// customer name.
func (r *MongoCustomerRepo) DeleteCustomer(ctx context.Context, userID, id string) (*models.Customer, error) {
	c := &models.Customer{}
	err := r.customers().FindOneAndDelete(ctx, bson.M{"_id": id, "user_id": userID}).Decode(c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	_, err = r.DB.Collection(mongodb.MilkEntriesCollection).UpdateMany(ctx,
		bson.M{"user_id": userID, "customer_id": id},
		bson.M{"$unset": bson.M{"customer_id": ""}},
	)
	return c, err
}

func (r *MongoCustomerRepo) CountCustomers(ctx context.Context) (int, error) {
	n, err := r.customers().CountDocuments(ctx, bson.M{})
	return int(n), err
}

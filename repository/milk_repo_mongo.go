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

type MongoMilkRepo struct {
	DB *mongo.Database
}

func NewMongoMilkRepo(db *mongo.Database) *MongoMilkRepo {
	return &MongoMilkRepo{DB: db}
}

func (r *MongoMilkRepo) entries() *mongo.Collection {
	return r.DB.Collection(mongodb.MilkEntriesCollection)
}

func (r *MongoMilkRepo) CreateEntry(ctx context.Context, e *models.MilkEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now()
	}
	e.UpdatedAt = e.CreatedAt
	_, err := r.entries().InsertOne(ctx, e)
	return err
}

func (r *MongoMilkRepo) GetEntry(ctx context.Context, userID, id string) (*models.MilkEntry, error) {
	e := &models.MilkEntry{}
	err := r.entries().FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func milkFilterDoc(f models.MilkFilter) bson.M {
	filter := bson.M{"user_id": f.UserID}
	date := bson.M{}
	if f.From != nil {
		date["$gte"] = *f.From
	}
	if f.To != nil {
		date["$lte"] = *f.To
	}
	if len(date) > 0 {
		filter["date"] = date
	}
	if f.CustomerName != "" {
		filter["customer_name"] = f.CustomerName
	}
	if f.MilkType != "" {
		filter["milk_type"] = f.MilkType
	}
	return filter
}

func (r *MongoMilkRepo) ListEntries(ctx context.Context, f models.MilkFilter) ([]*models.MilkEntry, error) {
	dir := -1
	if f.Ascending {
		dir = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: dir}, {Key: "created_at", Value: dir}})

	cur, err := r.entries().Find(ctx, milkFilterDoc(f), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []*models.MilkEntry{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoMilkRepo) UpdateEntry(ctx context.Context, e *models.MilkEntry) error {
	e.UpdatedAt = now()
	set := bson.M{
		"customer_name": e.CustomerName,
		"date":          e.Date,
		"milk_type":     e.MilkType,
		"liters":        e.Liters,
		"rate":          e.Rate,
		"amount":        e.Amount,
		"cash_received": e.CashReceived,
		"credit_due":    e.CreditDue,
		"updated_at":    e.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if e.CustomerID != nil {
		set["customer_id"] = *e.CustomerID
	} else {
		update["$unset"] = bson.M{"customer_id": ""}
	}

	res, err := r.entries().UpdateOne(ctx, bson.M{"_id": e.ID, "user_id": e.UserID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoMilkRepo) DeleteEntry(ctx context.Context, userID, id string) (*models.MilkEntry, error) {
	e := &models.MilkEntry{}
	err := r.entries().FindOneAndDelete(ctx, bson.M{"_id": id, "user_id": userID}).Decode(e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *MongoMilkRepo) Stats(ctx context.Context) (MilkStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "entries", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "sales", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
			{Key: "credit", Value: bson.D{{Key: "$sum", Value: "$credit_due"}}},
		}}},
	}
	cur, err := r.entries().Aggregate(ctx, pipeline)
	if err != nil {
		return MilkStats{}, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Entries int     `bson:"entries"`
		Sales   float64 `bson:"sales"`
		Credit  float64 `bson:"credit"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return MilkStats{}, err
	}
	if len(rows) == 0 {
		return MilkStats{}, nil
	}
	return MilkStats{Entries: rows[0].Entries, TotalSales: rows[0].Sales, TotalCredit: rows[0].Credit}, nil
}

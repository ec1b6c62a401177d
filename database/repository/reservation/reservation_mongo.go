package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"appointmint/database"
	"appointmint/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReservationRepo implements ReservationRepository using MongoDB.
type MongoReservationRepo struct {
	coll       *mongo.Collection
	tableColl  *mongo.Collection
	tenantColl *mongo.Collection
}

// NewMongoReservationRepo creates a new instance of ReservationRepository using MongoDB.
func NewMongoReservationRepo() ReservationRepository {
	db := database.DB()
	repo := &MongoReservationRepo{
		coll:       db.Collection("reservations"),
		tableColl:  db.Collection("tables"),
		tenantColl: db.Collection("tenants"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoReservationRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "table_id", Value: 1}, {Key: "date", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a reservation by its unique ID.
func (r *MongoReservationRepo) GetByID(id string) (*models.Reservation, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var res models.Reservation
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&res); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch reservation with id %s: %w", id, err)
	}
	return &res, nil
}

// ListByRestaurantDate retrieves all reservations for a restaurant on a date.
func (r *MongoReservationRepo) ListByRestaurantDate(restaurantID, date string) ([]models.Reservation, error) {
	return r.list(bson.M{"restaurant_id": restaurantID, "date": date})
}

// ListByStatus retrieves a restaurant-day's reservations filtered by status.
func (r *MongoReservationRepo) ListByStatus(restaurantID, date, status string) ([]models.Reservation, error) {
	return r.list(bson.M{"restaurant_id": restaurantID, "date": date, "status": status})
}

func (r *MongoReservationRepo) list(filter bson.M) ([]models.Reservation, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "time", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Reservation
	for cursor.Next(ctx) {
		var res models.Reservation
		if err := cursor.Decode(&res); err != nil {
			return nil, fmt.Errorf("failed to decode reservation: %w", err)
		}
		out = append(out, res)
	}
	return out, nil
}

// Create inserts a new reservation document.
func (r *MongoReservationRepo) Create(res *models.Reservation) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	res.CreatedAt = now
	res.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, res)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

// UpdateStatus transitions a reservation's status.
func (r *MongoReservationRepo) UpdateStatus(id, status string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update reservation %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("reservation with id %s not found", id)
	}
	return nil
}

// Cancel marks a reservation cancelled.
func (r *MongoReservationRepo) Cancel(id string) error {
	return r.UpdateStatus(id, models.ReservationCancelled)
}

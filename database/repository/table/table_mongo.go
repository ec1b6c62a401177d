package tableRepo

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

// MongoTableRepo implements TableRepository using MongoDB.
type MongoTableRepo struct {
	coll *mongo.Collection
}

// NewMongoTableRepo creates a new instance of TableRepository using MongoDB.
func NewMongoTableRepo() TableRepository {
	repo := &MongoTableRepo{coll: database.DB().Collection("tables")}
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
func (r *MongoTableRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "capacity", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a table by its unique ID.
func (r *MongoTableRepo) GetByID(id string) (*models.Table, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var table models.Table
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&table); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch table with id %s: %w", id, err)
	}
	return &table, nil
}

// ListByRestaurant retrieves all active tables for a restaurant, smallest first.
func (r *MongoTableRepo) ListByRestaurant(restaurantID string) ([]models.Table, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "capacity", Value: 1}, {Key: "id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"restaurant_id": restaurantID, "active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tables: %w", err)
	}
	defer cursor.Close(ctx)

	var tables []models.Table
	for cursor.Next(ctx) {
		var t models.Table
		if err := cursor.Decode(&t); err != nil {
			return nil, fmt.Errorf("failed to decode table: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// Create inserts a new table document.
func (r *MongoTableRepo) Create(table *models.Table) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	table.CreatedAt = now
	table.UpdatedAt = now
	if table.CurrentStatus == "" {
		table.CurrentStatus = models.TableStatusFree
	}

	_, err := r.coll.InsertOne(ctx, table)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Update modifies an existing table document.
func (r *MongoTableRepo) Update(table *models.Table) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	table.UpdatedAt = time.Now()
	filter := bson.M{"id": table.ID}
	update := bson.M{"$set": table}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update table with id %s: %w", table.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("table with id %s not found", table.ID)
	}
	return nil
}

// SetStatus updates a table's live status and occupant fields.
func (r *MongoTableRepo) SetStatus(id, status, reservationID, guestName string, guestCount int) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"current_status":         status,
		"current_reservation_id": reservationID,
		"current_guest_name":     guestName,
		"current_guest_count":    guestCount,
		"status_updated_at":      time.Now(),
	}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set status for table %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("table with id %s not found", id)
	}
	return nil
}

// ClearStatus frees a table, clearing occupant fields.
func (r *MongoTableRepo) ClearStatus(id, status string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"current_status":         status,
		"current_reservation_id": "",
		"current_guest_name":     "",
		"current_guest_count":    0,
		"status_updated_at":      time.Now(),
	}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to clear status for table %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("table with id %s not found", id)
	}
	return nil
}

package restaurantRepo

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

// MongoRestaurantRepo implements RestaurantRepository using MongoDB.
type MongoRestaurantRepo struct {
	coll       *mongo.Collection
	tenantColl *mongo.Collection
}

// NewMongoRestaurantRepo creates a new instance of RestaurantRepository using MongoDB.
func NewMongoRestaurantRepo() RestaurantRepository {
	db := database.DB()
	repo := &MongoRestaurantRepo{
		coll:       db.Collection("restaurants"),
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
func (r *MongoRestaurantRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "webhook_token", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a restaurant by its unique ID.
func (r *MongoRestaurantRepo) GetByID(id string) (*models.Restaurant, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var restaurant models.Restaurant
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&restaurant); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch restaurant with id %s: %w", id, err)
	}
	return &restaurant, nil
}

// GetByWebhookToken resolves the restaurant a chat-platform webhook belongs to.
func (r *MongoRestaurantRepo) GetByWebhookToken(token string) (*models.Restaurant, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var restaurant models.Restaurant
	if err := r.coll.FindOne(ctx, bson.M{"webhook_token": token}).Decode(&restaurant); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch restaurant by webhook token: %w", err)
	}
	return &restaurant, nil
}

// Create inserts a new restaurant document.
func (r *MongoRestaurantRepo) Create(restaurant *models.Restaurant) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	restaurant.CreatedAt = now
	restaurant.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, restaurant)
	if err != nil {
		return fmt.Errorf("failed to create restaurant: %w", err)
	}
	return nil
}

// Update modifies an existing restaurant document.
func (r *MongoRestaurantRepo) Update(restaurant *models.Restaurant) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	restaurant.UpdatedAt = time.Now()
	filter := bson.M{"id": restaurant.ID}
	update := bson.M{"$set": restaurant}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update restaurant with id %s: %w", restaurant.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("restaurant with id %s not found", restaurant.ID)
	}
	return nil
}

// GetTenant retrieves the owning tenant for a restaurant.
func (r *MongoRestaurantRepo) GetTenant(tenantID string) (*models.Tenant, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var tenant models.Tenant
	if err := r.tenantColl.FindOne(ctx, bson.M{"id": tenantID}).Decode(&tenant); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch tenant with id %s: %w", tenantID, err)
	}
	return &tenant, nil
}

package restaurantRepo

import "appointmint/models"

// RestaurantRepository defines methods for restaurant data access.
type RestaurantRepository interface {
	// GetByID retrieves a restaurant by its unique ID.
	GetByID(id string) (*models.Restaurant, error)
	// GetByWebhookToken resolves the restaurant a chat-platform webhook belongs to.
	GetByWebhookToken(token string) (*models.Restaurant, error)
	// Create inserts a new restaurant record.
	Create(restaurant *models.Restaurant) error
	// Update modifies an existing restaurant record.
	Update(restaurant *models.Restaurant) error
	// GetTenant retrieves the owning tenant for a restaurant.
	GetTenant(tenantID string) (*models.Tenant, error)
}

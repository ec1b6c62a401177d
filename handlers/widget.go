// File: appointmint/handlers/widget.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	restaurantRepoPkg "appointmint/database/repository/restaurant"
	"appointmint/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// widgetConfig is the public payload the embeddable widget boots from.
type widgetConfig struct {
	RestaurantID   string `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`
	WelcomeMessage string `json:"welcome_message"`
	Theme          struct {
		PrimaryColor string `json:"primary_color"`
		Position     string `json:"position"`
	} `json:"theme"`
	Features struct {
		VoiceEnabled bool `json:"voice_enabled"`
		TextEnabled  bool `json:"text_enabled"`
	} `json:"features"`
}

// WidgetConfigHandler serves the widget bootstrap config. The config is
// cached in Redis since the widget fetches it on every page load.
func WidgetConfigHandler(restaurants restaurantRepoPkg.RestaurantRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)
		restaurantID := c.Param("restaurantID")
		cacheKey := utils.WidgetConfigCachePrefix + restaurantID

		cache := utils.GetCacheClient()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if cached, err := cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			return
		}

		restaurant, err := restaurants.GetByID(restaurantID)
		if err != nil {
			logger.Error("restaurant lookup failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "restaurant lookup failed")
			return
		}
		if restaurant == nil || !restaurant.Active {
			utils.JSONError(c, http.StatusNotFound, "restaurant not found")
			return
		}
		if !restaurant.Widget.Enabled {
			utils.JSONError(c, http.StatusForbidden, "widget is disabled for this restaurant")
			return
		}

		var cfg widgetConfig
		cfg.RestaurantID = restaurant.ID
		cfg.RestaurantName = restaurant.Name
		cfg.WelcomeMessage = restaurant.Widget.WelcomeMessage
		if cfg.WelcomeMessage == "" {
			cfg.WelcomeMessage = fmt.Sprintf("Welcome to %s! I'm your reservation assistant. How can I help you today?", restaurant.Name)
		}
		cfg.Theme.PrimaryColor = restaurant.Widget.PrimaryColor
		if cfg.Theme.PrimaryColor == "" {
			cfg.Theme.PrimaryColor = "#2DD4BF"
		}
		cfg.Theme.Position = restaurant.Widget.Position
		cfg.Features.VoiceEnabled = true
		cfg.Features.TextEnabled = true

		payload, err := json.Marshal(cfg)
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "failed to encode config")
			return
		}
		if err := cache.Set(ctx, cacheKey, payload, utils.WidgetConfigCacheTTL).Err(); err != nil {
			logger.Warn("widget config cache write failed", zap.Error(err))
		}

		c.Data(http.StatusOK, "application/json", payload)
	}
}

// File: appointmint/handlers/table.go
package handlers

import (
	"net/http"

	tableRepoPkg "appointmint/database/repository/table"
	"appointmint/models"
	"appointmint/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListTablesHandler returns a restaurant's floor plan with live status.
func ListTablesHandler(tables tableRepoPkg.TableRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := tables.ListByRestaurant(c.Param("restaurantID"))
		if err != nil {
			getLogger(c).Error("table list failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "table list failed")
			return
		}
		c.JSON(http.StatusOK, gin.H{"tables": list})
	}
}

// CreateTableHandler adds a table to the floor plan.
func CreateTableHandler(tables tableRepoPkg.TableRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var table models.Table
		if err := c.ShouldBindJSON(&table); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid table payload", err.Error())
			return
		}
		if table.Capacity <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "capacity must be positive")
			return
		}
		table.RestaurantID = c.Param("restaurantID")
		if table.ID == "" {
			table.ID = uuid.New().String()
		}
		if err := tables.Create(&table); err != nil {
			getLogger(c).Error("table create failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "table create failed")
			return
		}
		c.JSON(http.StatusCreated, table)
	}
}

// SetTableStatusHandler updates a table's live status from the floor.
func SetTableStatusHandler(tables tableRepoPkg.TableRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Status        string `json:"status" binding:"required"`
			ReservationID string `json:"reservation_id"`
			GuestName     string `json:"guest_name"`
			GuestCount    int    `json:"guest_count"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "status is required")
			return
		}

		id := c.Param("id")
		var err error
		switch body.Status {
		case models.TableStatusFree, models.TableStatusCompleted:
			err = tables.ClearStatus(id, body.Status)
		case models.TableStatusReserved, models.TableStatusSeated:
			err = tables.SetStatus(id, body.Status, body.ReservationID, body.GuestName, body.GuestCount)
		default:
			utils.JSONError(c, http.StatusBadRequest, "invalid status "+body.Status)
			return
		}
		if err != nil {
			getLogger(c).Error("table status update failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "table status update failed")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": body.Status})
	}
}

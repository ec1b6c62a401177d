// File: appointmint/handlers/reservation.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	reservationRepoPkg "appointmint/database/repository/reservation"
	"appointmint/models"
	"appointmint/services/booking"
	"appointmint/services/staff"
	"appointmint/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CheckAvailabilityHandler resolves the best table for a date, time, and
// party size without committing anything.
func CheckAvailabilityHandler(svc booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID := c.Param("restaurantID")
		date := c.Query("date")
		timeStr := c.Query("time")
		partySize, err := strconv.Atoi(c.Query("party_size"))
		if date == "" || timeStr == "" || err != nil || partySize <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "missing required parameters: date, time, party_size")
			return
		}

		result, rerr := svc.FindTable(c.Request.Context(), restaurantID, date, timeStr, partySize)
		if rerr != nil {
			utils.JSONError(c, http.StatusBadRequest, rerr.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"restaurant_id": restaurantID,
			"date":          date,
			"time":          timeStr,
			"party_size":    partySize,
			"availability":  result,
		})
	}
}

// CreateReservationHandler books directly, bypassing the conversation flow.
// Staff use this for phone bookings; the table claim goes through the same
// resolver and transactional commit as the widget.
func CreateReservationHandler(svc booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Date            string `json:"date" binding:"required"`
			Time            string `json:"time" binding:"required"`
			PartySize       int    `json:"party_size" binding:"required"`
			CustomerName    string `json:"customer_name" binding:"required"`
			CustomerPhone   string `json:"customer_phone"`
			SpecialRequests string `json:"special_requests"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "date, time, party_size and customer_name are required")
			return
		}

		rec := &models.BookingRecord{
			Date:            body.Date,
			Time:            body.Time,
			PartySize:       body.PartySize,
			CustomerName:    body.CustomerName,
			CustomerPhone:   body.CustomerPhone,
			SpecialRequests: body.SpecialRequests,
		}
		res, err := svc.Commit(c.Request.Context(), c.Param("restaurantID"), rec, nil, "staff")
		if err != nil {
			if uerr, ok := err.(*booking.UnavailableError); ok {
				utils.JSONError(c, http.StatusConflict, uerr.Message, uerr.Reason)
				return
			}
			getLogger(c).Error("direct reservation failed", zap.Error(err))
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}

// GetReservationHandler fetches a single reservation by id.
func GetReservationHandler(reservations reservationRepoPkg.ReservationRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := reservations.GetByID(c.Param("id"))
		if err != nil {
			getLogger(c).Error("reservation lookup failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "reservation lookup failed")
			return
		}
		if res == nil {
			utils.JSONError(c, http.StatusNotFound, "reservation not found")
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// ListReservationsHandler lists a restaurant-day's reservations, optionally
// filtered by status.
func ListReservationsHandler(reservations reservationRepoPkg.ReservationRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID := c.Param("restaurantID")
		date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))

		var err error
		var list interface{}
		if status := c.Query("status"); status != "" {
			list, err = reservations.ListByStatus(restaurantID, date, status)
		} else {
			list, err = reservations.ListByRestaurantDate(restaurantID, date)
		}
		if err != nil {
			getLogger(c).Error("reservation list failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "reservation list failed")
			return
		}
		c.JSON(http.StatusOK, gin.H{"date": date, "reservations": list})
	}
}

// CancelReservationHandler cancels a reservation.
func CancelReservationHandler(svc staff.StaffService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.UpdateReservationStatus(c.Param("id"), "cancelled"); err != nil {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
	}
}

// UpdateReservationStatusHandler transitions a reservation's status and keeps
// the linked table's live state in sync.
func UpdateReservationStatusHandler(svc staff.StaffService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "status is required")
			return
		}
		if err := svc.UpdateReservationStatus(c.Param("id"), body.Status); err != nil {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": body.Status})
	}
}

// TodaysReservationsHandler lists today's reservations for the staff view.
func TodaysReservationsHandler(svc staff.StaffService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.TodaysReservations(c.Param("restaurantID"))
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"reservations": list})
	}
}

// UpcomingReservationsHandler lists reservations starting within the window
// (default two hours).
func UpcomingReservationsHandler(svc staff.StaffService) gin.HandlerFunc {
	return func(c *gin.Context) {
		hours, err := strconv.Atoi(c.DefaultQuery("hours", "2"))
		if err != nil || hours <= 0 {
			hours = 2
		}
		list, lerr := svc.UpcomingReservations(c.Param("restaurantID"), time.Duration(hours)*time.Hour)
		if lerr != nil {
			utils.JSONError(c, http.StatusInternalServerError, lerr.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"reservations": list})
	}
}

// TodaysStatsHandler aggregates today's booking stats.
func TodaysStatsHandler(svc staff.StaffService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.TodaysStats(c.Param("restaurantID"))
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, err.Error())
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// PendingBookingsHandler lists reservations awaiting staff follow-up.
func PendingBookingsHandler(svc staff.StaffService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.PendingBookings(c.Param("restaurantID"))
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"reservations": list})
	}
}

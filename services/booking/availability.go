// File: services/booking/availability.go
package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"appointmint/models"
)

// FindTable resolves the best candidate table for (date, time, party size).
// Candidates are ranked free-before-completed, then smallest capacity, then
// table id, so identical snapshots always pick the same table.
func (s *DefaultBookingService) FindTable(ctx context.Context, restaurantID, date, timeStr string, partySize int) (*models.TableAvailabilityResult, error) {
	loc := s.restaurantLocation(restaurantID)
	reqStart, err := time.ParseInLocation("2006-01-02 15:04", date+" "+timeStr, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date or time: %w", err)
	}
	reqEnd := reqStart.Add(s.duration())

	tables, err := s.Tables.ListByRestaurant(restaurantID)
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	if len(tables) == 0 {
		return &models.TableAvailabilityResult{
			Available:  false,
			Reason:     models.ReasonNoTables,
			ResolvedAt: time.Now(),
		}, nil
	}

	maxCapacity := 0
	var fitting []models.Table
	for _, t := range tables {
		if t.Capacity > maxCapacity {
			maxCapacity = t.Capacity
		}
		if t.Capacity >= partySize {
			fitting = append(fitting, t)
		}
	}
	if len(fitting) == 0 {
		return &models.TableAvailabilityResult{
			Available:  false,
			Reason:     models.ReasonPartyTooLarge,
			ResolvedAt: time.Now(),
			// MinutesUntilNext is unused here; the max capacity rides along
			// in the snapshot so callers can suggest splitting the party.
			Table: &models.TableSnapshot{Capacity: maxCapacity},
		}, nil
	}

	var bookable []models.Table
	for _, t := range fitting {
		if t.Bookable() {
			bookable = append(bookable, t)
		}
	}
	if len(bookable) == 0 {
		return &models.TableAvailabilityResult{
			Available:  false,
			Reason:     models.ReasonAllOccupied,
			ResolvedAt: time.Now(),
		}, nil
	}

	reservations, err := s.Reservations.ListByRestaurantDate(restaurantID, date)
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}
	byTable := make(map[string][]models.Reservation)
	for _, r := range reservations {
		if r.Occupying() {
			byTable[r.TableID] = append(byTable[r.TableID], r)
		}
	}

	type candidate struct {
		table models.Table
		next  time.Time // soonest reservation starting after the request
	}
	var survivors []candidate
	for _, t := range bookable {
		conflict := false
		var next time.Time
		for _, r := range byTable[t.ID] {
			resStart, perr := r.StartsAt(loc)
			if perr != nil {
				continue
			}
			resEnd, _ := r.EndsAt(loc)

			// Direct interval overlap.
			if resStart.Before(reqEnd) && resEnd.After(reqStart) {
				conflict = true
				break
			}
			// Turnover buffer: a later reservation too close to our start.
			if resStart.After(reqStart) {
				if resStart.Sub(reqStart) < s.buffer() {
					conflict = true
					break
				}
				if next.IsZero() || resStart.Before(next) {
					next = resStart
				}
			}
		}
		if !conflict {
			survivors = append(survivors, candidate{table: t, next: next})
		}
	}

	if len(survivors) == 0 {
		return &models.TableAvailabilityResult{
			Available:  false,
			Reason:     models.ReasonNoSlot,
			ResolvedAt: time.Now(),
		}, nil
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		a, b := survivors[i].table, survivors[j].table
		if (a.CurrentStatus == models.TableStatusFree) != (b.CurrentStatus == models.TableStatusFree) {
			return a.CurrentStatus == models.TableStatusFree
		}
		if a.Capacity != b.Capacity {
			return a.Capacity < b.Capacity
		}
		return a.ID < b.ID
	})

	winner := survivors[0]
	result := &models.TableAvailabilityResult{
		Available: true,
		Table: &models.TableSnapshot{
			TableID:   winner.table.ID,
			Name:      winner.table.Name,
			Number:    winner.table.Number,
			Capacity:  winner.table.Capacity,
			TableType: winner.table.TableType,
			Status:    winner.table.CurrentStatus,
		},
		ResolvedAt: time.Now(),
	}
	if !winner.next.IsZero() {
		result.NextReservationAt = winner.next.Format("15:04")
		result.MinutesUntilNext = int(winner.next.Sub(reqStart).Minutes())
	}
	return result, nil
}

// restaurantLocation resolves the restaurant timezone, defaulting to UTC.
func (s *DefaultBookingService) restaurantLocation(restaurantID string) *time.Location {
	restaurant, err := s.Restaurants.GetByID(restaurantID)
	if err != nil || restaurant == nil || restaurant.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(restaurant.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

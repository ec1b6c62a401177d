package booking

import (
	"context"
	"testing"
	"time"

	reservationRepo "appointmint/database/repository/reservation"
	"appointmint/models"
)

func completeRecord() *models.BookingRecord {
	return &models.BookingRecord{
		Date:          "2026-03-06",
		Time:          "19:00",
		PartySize:     4,
		CustomerName:  "Maria Schmidt",
		CustomerPhone: "+49 170 1234567",
	}
}

func TestCommitIncompleteRecord(t *testing.T) {
	svc, _ := newTestService([]models.Table{freeTable("t1", 1, 4)}, nil)
	_, err := svc.Commit(context.Background(), "r1", &models.BookingRecord{Date: "2026-03-06"}, nil, "widget")
	if err == nil {
		t.Fatal("expected error for incomplete record")
	}
}

func TestCommitResolvesWhenSnapshotMissing(t *testing.T) {
	svc, resRepo := newTestService([]models.Table{freeTable("t1", 1, 4)}, nil)

	res, err := svc.Commit(context.Background(), "r1", completeRecord(), nil, "widget")
	if err != nil {
		t.Fatal(err)
	}
	if res.TableID != "t1" || res.Status != models.ReservationConfirmed {
		t.Errorf("got %+v", res)
	}
	if res.Source != "widget" || res.DurationMinutes != 90 {
		t.Errorf("got %+v", res)
	}
	if len(resRepo.commits) != 1 {
		t.Fatalf("commits = %d", len(resRepo.commits))
	}
}

func TestCommitStaleSnapshotReresolved(t *testing.T) {
	svc, resRepo := newTestService([]models.Table{freeTable("t1", 1, 4)}, nil)

	stale := &models.TableAvailabilityResult{
		Available:  true,
		Table:      &models.TableSnapshot{TableID: "gone", Capacity: 4},
		ResolvedAt: time.Now().Add(-time.Minute),
	}
	res, err := svc.Commit(context.Background(), "r1", completeRecord(), stale, "widget")
	if err != nil {
		t.Fatal(err)
	}
	// The stale snapshot's table must be discarded for a fresh pick.
	if res.TableID != "t1" {
		t.Errorf("stale table id used: %+v", res)
	}
	_ = resRepo
}

func TestCommitRetriesOnceAfterConflict(t *testing.T) {
	svc, resRepo := newTestService([]models.Table{freeTable("t1", 1, 4), freeTable("t2", 2, 4)}, nil)
	resRepo.commitErrs = []error{reservationRepo.ErrTableTaken, nil}

	res, err := svc.Commit(context.Background(), "r1", completeRecord(), nil, "widget")
	if err != nil {
		t.Fatal(err)
	}
	if res == nil {
		t.Fatal("expected reservation after retry")
	}
	if len(resRepo.commits) != 1 {
		t.Errorf("commits = %d", len(resRepo.commits))
	}
}

func TestCommitGivesUpAfterSecondConflict(t *testing.T) {
	svc, resRepo := newTestService([]models.Table{freeTable("t1", 1, 4)}, nil)
	resRepo.commitErrs = []error{reservationRepo.ErrTableTaken, reservationRepo.ErrTableTaken}

	_, err := svc.Commit(context.Background(), "r1", completeRecord(), nil, "widget")
	if err == nil {
		t.Fatal("expected error after repeated conflicts")
	}
	if len(resRepo.commits) != 0 {
		t.Errorf("commits = %d", len(resRepo.commits))
	}
}

func TestCommitTrialLimitReached(t *testing.T) {
	svc, resRepo := newTestService([]models.Table{freeTable("t1", 1, 4)}, nil)
	svc.Restaurants = &fakeRestaurants{
		restaurant: &models.Restaurant{ID: "r1", TenantID: "tn1", Timezone: "UTC", Active: true},
		tenant: &models.Tenant{
			ID: "tn1", Plan: "trial", Active: true,
			TrialBookingLimit: 15, TrialBookingCount: 15,
		},
	}

	_, err := svc.Commit(context.Background(), "r1", completeRecord(), nil, "widget")
	if err == nil {
		t.Fatal("expected trial limit error")
	}
	if len(resRepo.commits) != 0 {
		t.Error("trial-limited tenant must not commit")
	}
}

func TestCommitMarksTrialBooking(t *testing.T) {
	svc, resRepo := newTestService([]models.Table{freeTable("t1", 1, 4)}, nil)
	svc.Restaurants = &fakeRestaurants{
		restaurant: &models.Restaurant{ID: "r1", TenantID: "tn1", Timezone: "UTC", Active: true},
		tenant: &models.Tenant{
			ID: "tn1", Plan: "trial", Active: true,
			TrialBookingLimit: 15, TrialBookingCount: 3,
		},
	}

	res, err := svc.Commit(context.Background(), "r1", completeRecord(), nil, "widget")
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsTrialBooking {
		t.Error("trial tenant booking not marked")
	}
	if len(resRepo.commits) != 1 {
		t.Errorf("commits = %d", len(resRepo.commits))
	}
}

func TestCommitUnavailableSurfacesReason(t *testing.T) {
	// Only table is occupied at resolve time.
	busy := freeTable("t1", 1, 4)
	busy.CurrentStatus = models.TableStatusSeated
	svc, _ := newTestService([]models.Table{busy}, nil)

	_, err := svc.Commit(context.Background(), "r1", completeRecord(), nil, "widget")
	if err == nil {
		t.Fatal("expected unavailable error")
	}
	uerr, ok := err.(*UnavailableError)
	if !ok {
		t.Fatalf("expected *UnavailableError, got %T: %v", err, err)
	}
	if uerr.Reason != models.ReasonAllOccupied {
		t.Errorf("reason = %s", uerr.Reason)
	}
}

func TestRecordLargeParty(t *testing.T) {
	svc, resRepo := newTestService([]models.Table{freeTable("t1", 1, 4)}, nil)

	rec := completeRecord()
	rec.PartySize = 12
	res, err := svc.RecordLargeParty(context.Background(), "r1", rec, "chatwoot")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != models.ReservationPending || res.TableID != "" {
		t.Errorf("got %+v", res)
	}
	if res.StaffNote == "" {
		t.Error("staff note missing")
	}
	if res.Source != "chatwoot" {
		t.Errorf("source = %s", res.Source)
	}
	if len(resRepo.created) != 1 {
		t.Errorf("created = %d", len(resRepo.created))
	}
}

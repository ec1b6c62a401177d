package models

import (
	"testing"
	"time"
)

func TestTenantCanMakeBooking(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		tenant Tenant
		want   bool
	}{
		{
			name:   "inactive tenant",
			tenant: Tenant{Active: false, Plan: "pro"},
			want:   false,
		},
		{
			name:   "paid plan",
			tenant: Tenant{Active: true, Plan: "pro"},
			want:   true,
		},
		{
			name: "trial under limit",
			tenant: Tenant{
				Active: true, Plan: "trial",
				TrialBookingLimit: 15, TrialBookingCount: 14,
				TrialDays: 14, TrialStartedAt: now.AddDate(0, 0, -7),
			},
			want: true,
		},
		{
			name: "trial booking limit reached",
			tenant: Tenant{
				Active: true, Plan: "trial",
				TrialBookingLimit: 15, TrialBookingCount: 15,
			},
			want: false,
		},
		{
			name: "trial period expired",
			tenant: Tenant{
				Active: true, Plan: "trial",
				TrialDays: 14, TrialStartedAt: now.AddDate(0, 0, -20),
			},
			want: false,
		},
		{
			name:   "empty plan counts as trial",
			tenant: Tenant{Active: true},
			want:   true,
		},
	}
	for _, tt := range tests {
		if got := tt.tenant.CanMakeBooking(now); got != tt.want {
			t.Errorf("%s: CanMakeBooking = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTableBookable(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{TableStatusFree, true},
		{TableStatusCompleted, true},
		{TableStatusReserved, false},
		{TableStatusSeated, false},
	}
	for _, tt := range tests {
		tb := Table{CurrentStatus: tt.status}
		if got := tb.Bookable(); got != tt.want {
			t.Errorf("Bookable(%s) = %v", tt.status, got)
		}
	}
}

func TestReservationOccupying(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{ReservationPending, true},
		{ReservationConfirmed, true},
		{ReservationSeated, true},
		{ReservationCancelled, false},
		{ReservationNoShow, false},
		{ReservationCompleted, false},
	}
	for _, tt := range tests {
		r := Reservation{Status: tt.status}
		if got := r.Occupying(); got != tt.want {
			t.Errorf("Occupying(%s) = %v", tt.status, got)
		}
	}
}

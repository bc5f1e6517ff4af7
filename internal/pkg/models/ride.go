package models

import (
	"time"

	"github.com/google/uuid"
)

// RideStatus represents the lifecycle state of a ride
type RideStatus string

const (
	RideStatusRequested  RideStatus = "requested"
	RideStatusAssigned   RideStatus = "assigned"
	RideStatusInProgress RideStatus = "in_progress"
	RideStatusCompleted  RideStatus = "completed"
	RideStatusCancelled  RideStatus = "cancelled"
)

// CancelReasonNoDrivers marks rides cancelled because matching exhausted its
// retry window without finding an eligible driver.
const CancelReasonNoDrivers = "no_drivers_available"

// Terminal reports whether no further transitions are allowed from s.
func (s RideStatus) Terminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// CanTransition reports whether the state machine permits moving from s to
// next. Cancellation is reachable from every non-terminal state; the happy
// path is requested -> assigned -> in_progress -> completed.
func (s RideStatus) CanTransition(next RideStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == RideStatusCancelled {
		return true
	}
	switch s {
	case RideStatusRequested:
		return next == RideStatusAssigned
	case RideStatusAssigned:
		return next == RideStatusInProgress
	case RideStatusInProgress:
		return next == RideStatusCompleted
	}
	return false
}

// Ride represents a ride record. Status and driver id are the only fields
// mutated after creation; rides are never deleted, only status-terminated.
type Ride struct {
	ID           uuid.UUID  `json:"ride_id" db:"id"`
	RiderID      string     `json:"rider_id" db:"rider_id"`
	DriverID     *string    `json:"driver_id,omitempty" db:"driver_id"`
	Pickup       Coordinate `json:"pickup"`
	Dropoff      Coordinate `json:"dropoff"`
	RequestedAt  time.Time  `json:"requested_at" db:"requested_at"`
	Status       RideStatus `json:"status" db:"status"`
	CancelReason string     `json:"cancel_reason,omitempty" db:"cancel_reason"`
	Fare         Fare       `json:"fare"`
}

// Fare is the price breakdown for a ride.
// Total = (base + distance + time) * surge, rounded half away from zero.
type Fare struct {
	BaseFare     float64 `json:"base_fare" db:"base_fare"`
	DistanceFare float64 `json:"distance_fare" db:"distance_fare"`
	TimeFare     float64 `json:"time_fare" db:"time_fare"`
	SurgeFactor  float64 `json:"surge_multiplier" db:"surge_factor"`
	Total        float64 `json:"total" db:"total_fare"`
	Currency     string  `json:"currency" db:"currency"`
	DistanceKm   float64 `json:"distance_km" db:"distance_km"`
	DurationMin  float64 `json:"duration_minutes" db:"duration_minutes"`
}

// RideRequest is the inbound payload for creating a ride
type RideRequest struct {
	RiderID          string  `json:"rider_id"`
	PickupLatitude   float64 `json:"pickup_latitude"`
	PickupLongitude  float64 `json:"pickup_longitude"`
	DropoffLatitude  float64 `json:"dropoff_latitude"`
	DropoffLongitude float64 `json:"dropoff_longitude"`
}

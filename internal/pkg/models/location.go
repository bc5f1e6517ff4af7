package models

import "time"

// Coordinate is a WGS84 latitude/longitude pair
type Coordinate struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// DriverLocation is the live position record for one driver. The geo index
// owns the live set; the drivers table is the store of record it is seeded
// from at startup.
type DriverLocation struct {
	DriverID  string    `json:"driver_id" db:"driver_id"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	Online    bool      `json:"online" db:"online"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DriverLocationEvent is the wire payload of drivers.location events
type DriverLocationEvent struct {
	DriverID  string    `json:"driver_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Online    bool      `json:"online"`
	Timestamp time.Time `json:"timestamp"`
}

// Candidate is one driver returned by a proximity query, ordered by
// ascending distance from the query point.
type Candidate struct {
	DriverID   string  `json:"driver_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKm float64 `json:"distance_km"`
}

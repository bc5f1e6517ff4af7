package constants

// Redis key formats
const (
	// Location Service
	KeyDriverGeo      = "drivers:geo"        // GEO set of online driver positions
	KeyDriverLocation = "driver:location:%s" // Format: driver:location:{driver_id}

	// Notification Service
	KeyNotifySeen = "notify:seen:%s:%s" // Format: notify:seen:{event_type}:{ride_id}
)

// Redis hash fields
const (
	FieldLatitude  = "lat"
	FieldLongitude = "lng"
	FieldTimestamp = "ts"
	FieldOnline    = "online"
)

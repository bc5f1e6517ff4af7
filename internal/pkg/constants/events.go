package constants

// Topics carried over the event bus. JetStream subjects append the partition
// key, so consumers subscribe to "<topic>.>".
const (
	TopicRideCreated   = "rides.created"
	TopicRideAssigned  = "rides.assigned"
	TopicRideStarted   = "rides.started"
	TopicRideCompleted = "rides.completed"
	TopicRideCancelled = "rides.cancelled"

	TopicDriverLocation = "drivers.location"

	TopicPaymentProcessed = "payments.processed"

	TopicNotificationSend = "notifications.send"
)

// Durable consumer group names, one per consuming service.
const (
	GroupDispatch     = "dispatch-service"
	GroupPayment      = "payment-service"
	GroupNotification = "notification-service"
)

// Event type strings carried in the event_type field.
const (
	EventRideCreated      = "ride.created"
	EventRideAssigned     = "ride.assigned"
	EventRideStarted      = "ride.started"
	EventRideCompleted    = "ride.completed"
	EventRideCancelled    = "ride.cancelled"
	EventDriverLocation   = "driver.location"
	EventPaymentProcessed = "payment.processed"
)

// Metadata keys shared by producers and consumers.
const (
	MetaDriverID      = "driver_id"
	MetaLatitude      = "latitude"
	MetaLongitude     = "longitude"
	MetaOnline        = "online"
	MetaCancelReason  = "cancel_reason"
	MetaFareTotal     = "fare_total"
	MetaCurrency      = "currency"
	MetaDistanceKm    = "distance_km"
	MetaStatus        = "status"
	MetaTransaction   = "transaction_ref"
	MetaAmount        = "amount"
	MetaPaymentMethod = "payment_method"
)

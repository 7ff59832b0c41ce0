package audit

type Action string

const (
	ActionPackageCreated        Action = "PACKAGE_CREATED"
	ActionPackageUpdated        Action = "PACKAGE_UPDATED"
	ActionPackageDeleted        Action = "PACKAGE_DELETED"
	ActionBookingStatusChanged  Action = "BOOKING_STATUS_CHANGED"
	ActionBookingPaymentApplied Action = "BOOKING_PAYMENT_APPLIED"
)

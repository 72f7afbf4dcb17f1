package production

// OrderStatus represents the status of a production order
type OrderStatus string

const (
	// OrderStatusScheduled is the initial status of an order whose
	// components were all covered by on-hand stock at creation
	OrderStatusScheduled OrderStatus = "SCHEDULED"
	// OrderStatusOpen is an order released to the shop floor
	OrderStatusOpen OrderStatus = "OPEN"
	// OrderStatusWaitingMaterial is an order created with at least one
	// component short of on-hand stock
	OrderStatusWaitingMaterial OrderStatus = "WAITING_MATERIAL"
	// OrderStatusClosed is a finished order
	OrderStatusClosed OrderStatus = "CLOSED"
	// OrderStatusCancelled is an abandoned order
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusScheduled, OrderStatusOpen, OrderStatusWaitingMaterial, OrderStatusClosed, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsActive returns true for statuses shown on dashboards and search
func (s OrderStatus) IsActive() bool {
	switch s {
	case OrderStatusScheduled, OrderStatusOpen, OrderStatusWaitingMaterial:
		return true
	}
	return false
}

// IsReservable returns true for statuses eligible to hold reservations
func (s OrderStatus) IsReservable() bool {
	return s == OrderStatusScheduled || s == OrderStatusOpen
}

// IsTerminal returns true for terminal statuses
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusClosed || s == OrderStatusCancelled
}

// ActiveStatuses returns the statuses used for dashboard and search filters
func ActiveStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusScheduled, OrderStatusOpen, OrderStatusWaitingMaterial}
}

package domain

type OrderStatus string

const (
	StatusCreated OrderStatus = "created"
	StatusPaid    OrderStatus = "paid"
	StatusShipped OrderStatus = "shipped"
)

var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusCreated: {StatusPaid},
	StatusPaid:    {StatusShipped},
	StatusShipped: {},
}

func (s OrderStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransition reports whether an order in status from may move to status to.
// Same-state and backward moves are never allowed.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Later returns every status an order in s can still reach, nearest first.
func (s OrderStatus) Later() []OrderStatus {
	var later []OrderStatus
	for next := allowedTransitions[s]; len(next) > 0; next = allowedTransitions[next[0]] {
		later = append(later, next[0])
	}
	return later
}

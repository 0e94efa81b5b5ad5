package kitchen

import (
	"time"

	"kitchensim/internal/models"
)

// OrderQueue is the ordered list of menu orders of one session. It is not
// safe for concurrent use; the owning GameSession serializes access.
type OrderQueue struct {
	orders []*models.MenuOrder
}

func newOrderQueue() *OrderQueue {
	return &OrderQueue{}
}

// Add appends a waiting order
func (q *OrderQueue) Add(id, menuName string, now time.Duration) *models.MenuOrder {
	order := &models.MenuOrder{
		ID:        id,
		MenuName:  menuName,
		EnteredAt: now,
		Status:    models.OrderStatusWaiting,
	}
	q.orders = append(q.orders, order)
	return order
}

// Get finds an order by id
func (q *OrderQueue) Get(id string) (*models.MenuOrder, bool) {
	for _, o := range q.orders {
		if o.ID == id {
			return o, true
		}
	}
	return nil, false
}

// Remove drops an order by id. Removing an unknown id is a no-op.
func (q *OrderQueue) Remove(id string) {
	for i, o := range q.orders {
		if o.ID == id {
			q.orders = append(q.orders[:i], q.orders[i+1:]...)
			return
		}
	}
}

// MarkCooking moves a waiting order onto a burner
func (q *OrderQueue) MarkCooking(id string, burner int) error {
	o, ok := q.Get(id)
	if !ok {
		return ErrOrderNotFound
	}
	if o.Status != models.OrderStatusWaiting {
		return ErrOrderNotWaiting
	}
	b := burner
	o.Status = models.OrderStatusCooking
	o.AssignedBurner = &b
	return nil
}

// Requeue puts a cooking order back to waiting, unassigned
func (q *OrderQueue) Requeue(id string) {
	if o, ok := q.Get(id); ok && o.Status == models.OrderStatusCooking {
		o.Status = models.OrderStatusWaiting
		o.AssignedBurner = nil
	}
}

// Complete marks an order served and schedules its removal
func (q *OrderQueue) Complete(id string, now, grace time.Duration) (*models.MenuOrder, bool) {
	o, ok := q.Get(id)
	if !ok {
		return nil, false
	}
	served := now
	removeAt := now + grace
	o.Status = models.OrderStatusCompleted
	o.AssignedBurner = nil
	o.ServedAt = &served
	o.RemoveAt = &removeAt
	return o, true
}

// Expired returns the open orders older than maxAge at session time now
func (q *OrderQueue) Expired(now, maxAge time.Duration) []models.MenuOrder {
	var out []models.MenuOrder
	for _, o := range q.orders {
		if o.IsOpen() && o.Age(now) > maxAge {
			out = append(out, *o)
		}
	}
	return out
}

// PruneServed removes completed orders whose display window has passed
func (q *OrderQueue) PruneServed(now time.Duration) int {
	kept := q.orders[:0]
	removed := 0
	for _, o := range q.orders {
		if o.Status == models.OrderStatusCompleted && o.RemoveAt != nil && now >= *o.RemoveAt {
			removed++
			continue
		}
		kept = append(kept, o)
	}
	q.orders = kept
	return removed
}

// List returns copies of every order in queue order
func (q *OrderQueue) List() []models.MenuOrder {
	out := make([]models.MenuOrder, 0, len(q.orders))
	for _, o := range q.orders {
		c := *o
		if o.AssignedBurner != nil {
			b := *o.AssignedBurner
			c.AssignedBurner = &b
		}
		out = append(out, c)
	}
	return out
}

// Len returns the number of orders in the queue
func (q *OrderQueue) Len() int {
	return len(q.orders)
}

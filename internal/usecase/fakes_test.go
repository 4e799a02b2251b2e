package usecase

import (
	"context"
	"errors"
	"sort"

	domain "github.com/vinagsv/quickbite-api/internal/entity"
)

type fakeOrderRepo struct {
	orders    map[string]*domain.Order
	byGateway map[string]string
	createErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*domain.Order{}, byGateway: map[string]string{}}
}

func (r *fakeOrderRepo) Create(_ context.Context, o *domain.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.byGateway[o.GatewayOrderID]; ok {
		return ErrDuplicate
	}
	cp := *o
	r.orders[o.ID] = &cp
	r.byGateway[o.GatewayOrderID] = o.ID
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) GetByGatewayOrderID(_ context.Context, gwOrderID string) (*domain.Order, error) {
	id, ok := r.byGateway[gwOrderID]
	if !ok {
		return nil, ErrNotFound
	}
	return r.GetByID(context.Background(), id)
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeOrderRepo) UpdateDeliveryStatusIf(_ context.Context, id string, from, to domain.DeliveryStatus) (bool, error) {
	o, ok := r.orders[id]
	if !ok || o.DeliveryStatus != from {
		return false, nil
	}
	o.DeliveryStatus = to
	return true, nil
}

type fakeRestaurantRepo struct {
	restaurants map[string]*domain.Restaurant
}

func (r *fakeRestaurantRepo) GetByID(_ context.Context, id string) (*domain.Restaurant, error) {
	rest, ok := r.restaurants[id]
	if !ok {
		return nil, ErrRestaurantNotFound
	}
	return rest, nil
}

type fakeCartStore struct {
	carts  map[string]*domain.Cart
	clears int
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: map[string]*domain.Cart{}}
}

func (s *fakeCartStore) Get(_ context.Context, userID string) (*domain.Cart, error) {
	if c, ok := s.carts[userID]; ok {
		return c, nil
	}
	return domain.NewCart(), nil
}

func (s *fakeCartStore) Save(_ context.Context, userID string, cart *domain.Cart) error {
	s.carts[userID] = cart
	return nil
}

func (s *fakeCartStore) Clear(_ context.Context, userID string) error {
	delete(s.carts, userID)
	s.clears++
	return nil
}

type fakeIdemStore struct {
	locks     map[string]bool
	vals      map[string]string
	recallErr error
}

func newFakeIdemStore() *fakeIdemStore {
	return &fakeIdemStore{locks: map[string]bool{}, vals: map[string]string{}}
}

func (s *fakeIdemStore) TryLock(_ context.Context, scope, key string) (bool, error) {
	if s.locks[scope+":"+key] {
		return false, nil
	}
	s.locks[scope+":"+key] = true
	return true, nil
}

func (s *fakeIdemStore) Remember(_ context.Context, scope, key, value string) error {
	s.vals[scope+":"+key] = value
	return nil
}

func (s *fakeIdemStore) Recall(_ context.Context, scope, key string) (string, bool, error) {
	if s.recallErr != nil {
		return "", false, s.recallErr
	}
	v, ok := s.vals[scope+":"+key]
	return v, ok, nil
}

func (s *fakeIdemStore) Release(_ context.Context, scope, key string) error {
	delete(s.locks, scope+":"+key)
	delete(s.vals, scope+":"+key)
	return nil
}

type fakeGateway struct {
	createCalls int
	createErr   error
	lastCreate  struct {
		amount   int64
		currency string
		receipt  string
		notes    map[string]string
	}
	payments map[string]*GatewayPayment
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{payments: map[string]*GatewayPayment{}}
}

func (g *fakeGateway) CreateOrder(_ context.Context, amountCents int64, currency, receipt string, notes map[string]string) (*GatewayOrder, error) {
	g.createCalls++
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.lastCreate.amount = amountCents
	g.lastCreate.currency = currency
	g.lastCreate.receipt = receipt
	g.lastCreate.notes = notes
	return &GatewayOrder{ID: "gw_order_1", AmountCents: amountCents, Currency: currency}, nil
}

func (g *fakeGateway) FetchPayment(_ context.Context, paymentID string) (*GatewayPayment, error) {
	p, ok := g.payments[paymentID]
	if !ok {
		return nil, errors.New("payment not found")
	}
	return p, nil
}

type fakePublisher struct {
	published []OrderPaidMsg
	err       error
}

func (p *fakePublisher) PublishOrderPaid(_ context.Context, msg OrderPaidMsg) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, msg)
	return nil
}

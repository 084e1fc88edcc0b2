// Package memory is an in-memory store.Store. It is safe for concurrent use
// and is intended for tests and local development.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/freshmart/grocery-api/internal/models"
	"github.com/freshmart/grocery-api/internal/store"
)

// Store serialises every call behind one mutex. A transaction works on a
// private copy of the data which replaces the live copy on commit, so a
// failed transaction leaves no trace.
type Store struct {
	mu   sync.Mutex
	data *dataset
}

var _ store.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{data: newDataset()}
}

// InTx runs fn against a snapshot. fn must only use the Querier it is given;
// calling back into the Store from fn deadlocks.
func (s *Store) InTx(ctx context.Context, fn func(q store.Querier) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.data.clone()
	if err := fn(snapshot); err != nil {
		return err
	}
	s.data = snapshot
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() error { return nil }

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.CreateUser(ctx, u)
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.GetUserByID(ctx, id)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.GetUserByUsername(ctx, username)
}

func (s *Store) UsernameTaken(ctx context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.UsernameTaken(ctx, username)
}

func (s *Store) EmailTaken(ctx context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.EmailTaken(ctx, email)
}

func (s *Store) ListAddresses(ctx context.Context, userID int64) ([]models.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.ListAddresses(ctx, userID)
}

func (s *Store) GetAddress(ctx context.Context, userID, id int64) (models.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.GetAddress(ctx, userID, id)
}

func (s *Store) CreateAddress(ctx context.Context, a *models.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.CreateAddress(ctx, a)
}

func (s *Store) UpdateAddress(ctx context.Context, a *models.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.UpdateAddress(ctx, a)
}

func (s *Store) DeleteAddress(ctx context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.DeleteAddress(ctx, userID, id)
}

func (s *Store) ClearDefaultAddresses(ctx context.Context, userID, exceptID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.ClearDefaultAddresses(ctx, userID, exceptID)
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.CreateCategory(ctx, c)
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.ListCategories(ctx)
}

func (s *Store) GetCategoryByName(ctx context.Context, name string) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.GetCategoryByName(ctx, name)
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.CreateProduct(ctx, p)
}

func (s *Store) ListProducts(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.ListProducts(ctx, f)
}

func (s *Store) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.GetProduct(ctx, id)
}

func (s *Store) GetProductForUpdate(ctx context.Context, id int64) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.GetProductForUpdate(ctx, id)
}

func (s *Store) DecrementStock(ctx context.Context, productID int64, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.DecrementStock(ctx, productID, qty)
}

func (s *Store) IncrementStock(ctx context.Context, productID int64, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.IncrementStock(ctx, productID, qty)
}

func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.CreateOrder(ctx, o)
}

func (s *Store) ListOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.ListOrders(ctx, userID)
}

func (s *Store) GetOrder(ctx context.Context, userID, id int64) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.GetOrder(ctx, userID, id)
}

func (s *Store) GetOrderForUpdate(ctx context.Context, userID, id int64) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.GetOrderForUpdate(ctx, userID, id)
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.UpdateOrderStatus(ctx, id, status)
}

// dataset holds the tables. Its methods assume the caller owns it.
type dataset struct {
	seq        map[string]int64
	users      map[int64]models.User
	addresses  map[int64]models.Address
	categories map[int64]models.Category
	products   map[int64]models.Product
	orders     map[int64]models.Order
}

var _ store.Querier = (*dataset)(nil)

func newDataset() *dataset {
	return &dataset{
		seq:        make(map[string]int64),
		users:      make(map[int64]models.User),
		addresses:  make(map[int64]models.Address),
		categories: make(map[int64]models.Category),
		products:   make(map[int64]models.Product),
		orders:     make(map[int64]models.Order),
	}
}

func (d *dataset) clone() *dataset {
	c := newDataset()
	for k, v := range d.seq {
		c.seq[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.addresses {
		c.addresses[k] = v
	}
	for k, v := range d.categories {
		c.categories[k] = v
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.orders {
		c.orders[k] = copyOrder(v)
	}
	return c
}

func (d *dataset) next(table string) int64 {
	d.seq[table]++
	return d.seq[table]
}

func copyOrder(o models.Order) models.Order {
	items := make([]models.OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}

// --- Users ---

func (d *dataset) CreateUser(_ context.Context, u *models.User) error {
	for _, existing := range d.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return store.ErrConflict
		}
	}
	u.ID = d.next("users")
	d.users[u.ID] = *u
	return nil
}

func (d *dataset) GetUserByID(_ context.Context, id int64) (models.User, error) {
	u, ok := d.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return u, nil
}

func (d *dataset) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	for _, u := range d.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (d *dataset) UsernameTaken(_ context.Context, username string) (bool, error) {
	for _, u := range d.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (d *dataset) EmailTaken(_ context.Context, email string) (bool, error) {
	for _, u := range d.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// --- Addresses ---

func (d *dataset) ListAddresses(_ context.Context, userID int64) ([]models.Address, error) {
	out := []models.Address{}
	for _, a := range d.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (d *dataset) GetAddress(_ context.Context, userID, id int64) (models.Address, error) {
	a, ok := d.addresses[id]
	if !ok || a.UserID != userID {
		return models.Address{}, store.ErrNotFound
	}
	return a, nil
}

func (d *dataset) CreateAddress(_ context.Context, a *models.Address) error {
	if _, ok := d.users[a.UserID]; !ok {
		return store.ErrNotFound
	}
	a.ID = d.next("addresses")
	d.addresses[a.ID] = *a
	return nil
}

func (d *dataset) UpdateAddress(_ context.Context, a *models.Address) error {
	existing, ok := d.addresses[a.ID]
	if !ok || existing.UserID != a.UserID {
		return store.ErrNotFound
	}
	d.addresses[a.ID] = *a
	return nil
}

func (d *dataset) DeleteAddress(_ context.Context, userID, id int64) error {
	existing, ok := d.addresses[id]
	if !ok || existing.UserID != userID {
		return store.ErrNotFound
	}
	delete(d.addresses, id)
	return nil
}

func (d *dataset) ClearDefaultAddresses(_ context.Context, userID, exceptID int64) error {
	for id, a := range d.addresses {
		if a.UserID == userID && id != exceptID && a.IsDefault {
			a.IsDefault = false
			d.addresses[id] = a
		}
	}
	return nil
}

// --- Catalog ---

func (d *dataset) CreateCategory(_ context.Context, c *models.Category) error {
	for _, existing := range d.categories {
		if existing.Name == c.Name {
			return store.ErrConflict
		}
	}
	c.ID = d.next("categories")
	d.categories[c.ID] = *c
	return nil
}

func (d *dataset) ListCategories(_ context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(d.categories))
	for _, c := range d.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (d *dataset) GetCategoryByName(_ context.Context, name string) (models.Category, error) {
	for _, c := range d.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return models.Category{}, store.ErrNotFound
}

func (d *dataset) CreateProduct(_ context.Context, p *models.Product) error {
	if _, ok := d.categories[p.CategoryID]; !ok {
		return store.ErrNotFound
	}
	p.ID = d.next("products")
	d.products[p.ID] = *p
	return nil
}

func (d *dataset) ListProducts(_ context.Context, f models.ProductFilter) ([]models.Product, error) {
	search := strings.ToLower(f.Search)
	matched := []models.Product{}
	for _, p := range d.products {
		if !p.IsActive {
			continue
		}
		if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
			continue
		}
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	if f.Limit <= 0 {
		return matched, nil
	}
	if f.Skip >= len(matched) {
		return []models.Product{}, nil
	}
	matched = matched[f.Skip:]
	if f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched, nil
}

func matchesSearch(p models.Product, lowered string) bool {
	if strings.Contains(strings.ToLower(p.Name), lowered) {
		return true
	}
	return p.Description != nil && strings.Contains(strings.ToLower(*p.Description), lowered)
}

func (d *dataset) GetProduct(_ context.Context, id int64) (models.Product, error) {
	p, ok := d.products[id]
	if !ok {
		return models.Product{}, store.ErrNotFound
	}
	return p, nil
}

func (d *dataset) GetProductForUpdate(ctx context.Context, id int64) (models.Product, error) {
	return d.GetProduct(ctx, id)
}

func (d *dataset) DecrementStock(_ context.Context, productID int64, qty int) error {
	p, ok := d.products[productID]
	if !ok || p.Stock < qty {
		return store.ErrInsufficientStock
	}
	p.Stock -= qty
	p.UpdatedAt = time.Now().UTC()
	d.products[productID] = p
	return nil
}

func (d *dataset) IncrementStock(_ context.Context, productID int64, qty int) error {
	p, ok := d.products[productID]
	if !ok {
		return nil
	}
	p.Stock += qty
	p.UpdatedAt = time.Now().UTC()
	d.products[productID] = p
	return nil
}

// --- Orders ---

func (d *dataset) CreateOrder(_ context.Context, o *models.Order) error {
	if _, ok := d.users[o.UserID]; !ok {
		return store.ErrNotFound
	}
	o.ID = d.next("orders")
	for i := range o.Items {
		o.Items[i].ID = d.next("order_items")
		o.Items[i].OrderID = o.ID
	}
	d.orders[o.ID] = copyOrder(*o)
	return nil
}

func (d *dataset) ListOrders(_ context.Context, userID int64) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range d.orders {
		if o.UserID == userID {
			out = append(out, copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (d *dataset) GetOrder(_ context.Context, userID, id int64) (models.Order, error) {
	o, ok := d.orders[id]
	if !ok || o.UserID != userID {
		return models.Order{}, store.ErrNotFound
	}
	return copyOrder(o), nil
}

func (d *dataset) GetOrderForUpdate(ctx context.Context, userID, id int64) (models.Order, error) {
	return d.GetOrder(ctx, userID, id)
}

func (d *dataset) UpdateOrderStatus(_ context.Context, id int64, status string) error {
	o, ok := d.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	d.orders[id] = o
	return nil
}

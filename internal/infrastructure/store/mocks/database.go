package mocks

import (
	"maps"
	"slices"
	"sync"

	"github.com/example/webstore/internal/infrastructure/store"
	"github.com/example/webstore/internal/model"
)

// Database is the in-memory state shared by the mock stores, so an order
// store and a product store built on the same Database see each other's rows.
type Database struct {
	mu       sync.RWMutex
	seq      int
	clients  map[int]model.Client
	products map[int]model.Product
	orders   map[int]model.Order
	users    map[int]model.User
	lookups  map[store.LookupKind]map[int]model.Lookup
}

// NewDatabase creates an empty Database
func NewDatabase() *Database {
	d := &Database{
		clients:  make(map[int]model.Client),
		products: make(map[int]model.Product),
		orders:   make(map[int]model.Order),
		users:    make(map[int]model.User),
		lookups:  make(map[store.LookupKind]map[int]model.Lookup),
	}
	for _, kind := range store.LookupKinds {
		d.lookups[kind] = make(map[int]model.Lookup)
	}
	return d
}

// nextID must be called with mu held
func (d *Database) nextID() int {
	d.seq++
	return d.seq
}

// AddClient seeds a client, assigning an id when zero
func (d *Database) AddClient(c model.Client) model.Client {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c.ID == 0 {
		c.ID = d.nextID()
	}
	d.clients[c.ID] = c
	return c
}

// AddProduct seeds a product, assigning an id when zero
func (d *Database) AddProduct(p model.Product) model.Product {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p.ID == 0 {
		p.ID = d.nextID()
	}
	d.products[p.ID] = p
	return p
}

// AddOrder seeds an order with its items, assigning ids when zero
func (d *Database) AddOrder(o model.Order) model.Order {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.insertOrder(&o)
	return o
}

func (d *Database) insertOrder(o *model.Order) {
	if o.ID == 0 {
		o.ID = d.nextID()
	}
	items := make([]model.OrderItem, len(o.Items))
	for i, item := range o.Items {
		if item.ID == 0 {
			item.ID = d.nextID()
		}
		item.OrderID = o.ID
		items[i] = item
	}
	o.Items = items
	d.orders[o.ID] = cloneOrder(*o)
}

// AddUser seeds a user, assigning an id when zero
func (d *Database) AddUser(u model.User) model.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	if u.ID == 0 {
		u.ID = d.nextID()
	}
	d.users[u.ID] = u
	return u
}

// AddLookup seeds a lookup row of the given kind
func (d *Database) AddLookup(kind store.LookupKind, name string) model.Lookup {
	d.mu.Lock()
	defer d.mu.Unlock()
	l := model.Lookup{ID: d.nextID(), Name: name}
	d.lookups[kind][l.ID] = l
	return l
}

// Order returns the stored order, for assertions
func (d *Database) Order(id int) (model.Order, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	o, ok := d.orders[id]
	return cloneOrder(o), ok
}

// OrderCount returns the number of stored orders
func (d *Database) OrderCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.orders)
}

// Client returns the stored client, for assertions
func (d *Database) Client(id int) (model.Client, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.clients[id]
	return c, ok
}

// Product returns the stored product, for assertions
func (d *Database) Product(id int) (model.Product, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.products[id]
	return p, ok
}

// User returns the stored user, for assertions
func (d *Database) User(id int) (model.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[id]
	return u, ok
}

func cloneOrder(o model.Order) model.Order {
	o.Items = slices.Clone(o.Items)
	return o
}

func sortedKeys[V any](m map[int]V) []int {
	return slices.Sorted(maps.Keys(m))
}

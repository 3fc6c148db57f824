package catalog

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"coffee-order-system/internal/apperr"
	"coffee-order-system/internal/database"
)

// In-memory stand-in for the menus and options tables.

type memMenu struct {
	name        string
	description string
	price       int
	imageURL    string
	stock       int
}

type memOption struct {
	id     int
	menuID int
	name   string
	price  int
}

type memDB struct {
	menus   map[int]memMenu
	options []memOption
}

var _ database.Querier = (*memDB)(nil)

func newMemDB() *memDB {
	return &memDB{menus: map[int]memMenu{}}
}

func (d *memDB) addMenu(id int, name string, price, stock int) {
	d.menus[id] = memMenu{name: name, price: price, stock: stock}
}

func (d *memDB) addOption(id, menuID int, name string, price int) {
	d.options = append(d.options, memOption{id: id, menuID: menuID, name: name, price: price})
}

func (d *memDB) Begin(ctx context.Context) (pgx.Tx, error) {
	panic("transactions not supported")
}

func (d *memDB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	switch sql {
	case database.GetMenuSQL:
		id := args[0].(int)
		m, ok := d.menus[id]
		if !ok {
			return memRow{err: pgx.ErrNoRows}
		}
		return memRow{vals: []interface{}{id, m.name, m.description, m.price, m.imageURL, m.stock}}
	case database.UpdateMenuStockSQL:
		stock, id := args[0].(int), args[1].(int)
		m, ok := d.menus[id]
		if !ok {
			return memRow{err: pgx.ErrNoRows}
		}
		m.stock = stock
		d.menus[id] = m
		return memRow{vals: []interface{}{stock}}
	}
	panic(fmt.Sprintf("unexpected query row: %s", sql))
}

func (d *memDB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	switch sql {
	case database.ListMenusSQL:
		ids := make([]int, 0, len(d.menus))
		for id := range d.menus {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		rows := &memRows{}
		for _, id := range ids {
			m := d.menus[id]
			rows.data = append(rows.data, []interface{}{id, m.name, m.description, m.price, m.imageURL, m.stock})
		}
		return rows, nil
	case database.ListAllOptionsSQL:
		return d.optionRows(func(memOption) bool { return true }), nil
	case database.ListMenuOptionsSQL:
		menuID := args[0].(int)
		return d.optionRows(func(o memOption) bool { return o.menuID == menuID }), nil
	}
	panic(fmt.Sprintf("unexpected query: %s", sql))
}

func (d *memDB) optionRows(keep func(memOption) bool) *memRows {
	rows := &memRows{}
	for _, o := range d.options {
		if !keep(o) {
			continue
		}
		rows.data = append(rows.data, []interface{}{o.id, o.menuID, o.name, o.price})
	}
	return rows
}

type memRow struct {
	vals []interface{}
	err  error
}

func (r memRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	return scanInto(r.vals, dest)
}

type memRows struct {
	data [][]interface{}
	pos  int
}

func (r *memRows) Next() bool {
	if r.pos < len(r.data) {
		r.pos++
		return true
	}
	return false
}

func (r *memRows) Scan(dest ...interface{}) error { return scanInto(r.data[r.pos-1], dest) }

func (r *memRows) Close()                                       {}
func (r *memRows) Err() error                                   { return nil }
func (r *memRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *memRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *memRows) Values() ([]interface{}, error)               { return nil, nil }
func (r *memRows) RawValues() [][]byte                          { return nil }
func (r *memRows) Conn() *pgx.Conn                              { return nil }

func scanInto(vals []interface{}, dest []interface{}) error {
	if len(vals) != len(dest) {
		return fmt.Errorf("scan: %d values into %d destinations", len(vals), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int:
			*p = vals[i].(int)
		case *string:
			*p = vals[i].(string)
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

func TestList_AttachesOptionsPerMenu(t *testing.T) {
	db := newMemDB()
	db.addMenu(1, "Americano (Ice)", 4000, 10)
	db.addMenu(2, "Caffe Latte", 5500, 5)
	db.addOption(1, 1, "Extra shot", 500)
	db.addOption(2, 1, "Decaf", 0)

	items, err := NewService(db).List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(items) != 2 || items[0].ID != 1 || items[1].ID != 2 {
		t.Fatalf("unexpected item order: %+v", items)
	}
	if len(items[0].Options) != 2 {
		t.Errorf("menu 1 got %d options, want 2", len(items[0].Options))
	}
	if items[1].Options == nil || len(items[1].Options) != 0 {
		t.Errorf("menu 2 options = %+v, want empty slice", items[1].Options)
	}
}

func TestGet_UnknownMenu(t *testing.T) {
	_, err := NewService(newMemDB()).Get(context.Background(), 99)
	if err == nil || apperr.From(err).Code != apperr.CodeMenuNotFound {
		t.Fatalf("expected MENU_NOT_FOUND, got %v", err)
	}
}

func TestSetStock_Idempotent(t *testing.T) {
	db := newMemDB()
	db.addMenu(1, "Americano (Ice)", 4000, 10)
	svc := NewService(db)

	for i := 0; i < 2; i++ {
		update, err := svc.SetStock(context.Background(), 1, 7)
		if err != nil {
			t.Fatalf("set stock (attempt %d) failed: %v", i+1, err)
		}
		if update.ID != 1 || update.Stock != 7 {
			t.Fatalf("set stock (attempt %d) = %+v, want {1 7}", i+1, update)
		}
	}

	item, err := svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if item.Stock != 7 {
		t.Errorf("stored stock = %d, want 7", item.Stock)
	}
}

func TestSetStock_ZeroAllowed(t *testing.T) {
	db := newMemDB()
	db.addMenu(1, "Americano (Ice)", 4000, 10)

	update, err := NewService(db).SetStock(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("set stock failed: %v", err)
	}
	if update.Stock != 0 {
		t.Errorf("stock = %d, want 0", update.Stock)
	}
	if got := db.menus[1].stock; got != 0 {
		t.Errorf("stored stock = %d, want 0", got)
	}
}

func TestSetStock_UnknownMenu(t *testing.T) {
	_, err := NewService(newMemDB()).SetStock(context.Background(), 99, 5)
	if err == nil || apperr.From(err).Code != apperr.CodeMenuNotFound {
		t.Fatalf("expected MENU_NOT_FOUND, got %v", err)
	}
}

package repos_test

import (
	"errors"
	"testing"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"merchline/internal/repos"
)

// An exhausted decrement and a broken database must stay distinguishable:
// only the former is ErrOutOfStock.
func TestDecrementStockErrors(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// one connection so the in-memory DB is shared across queries
	db.SetMaxOpenConns(1)
	prods := repos.NewProductRepo(db)

	// cap-snap OS seeds with stock 40
	if err := prods.DecrementStock("cap-snap", "OS", 41); !errors.Is(err, repos.ErrOutOfStock) {
		t.Fatalf("want ErrOutOfStock, got %v", err)
	}
	if err := prods.DecrementStock("cap-snap", "OS", 40); err != nil {
		t.Fatal(err)
	}
	if err := prods.DecrementStock("cap-snap", "OS", 1); !errors.Is(err, repos.ErrOutOfStock) {
		t.Fatalf("want ErrOutOfStock once drained, got %v", err)
	}

	_ = db.Close()
	if err := prods.DecrementStock("cap-snap", "OS", 1); err == nil || errors.Is(err, repos.ErrOutOfStock) {
		t.Fatalf("closed database must not report out of stock, got %v", err)
	}
}

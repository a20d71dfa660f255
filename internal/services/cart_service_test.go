package services_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"merchline/internal/repos"
	"merchline/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// one connection so the in-memory DB is shared across queries
	db.SetMaxOpenConns(1)
	return db
}

func TestCartAddRespectsStock(t *testing.T) {
	db := memdb(t)
	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	svc := services.NewCartService(cartRepo, prodRepo)

	// Size M of the retro tee has stock 2 (seed data)
	uid := "u-alice"
	if err := svc.Add(uid, "tee-retro", "M", "Black", 1); err != nil {
		t.Fatal(err)
	}
	if err := svc.Add(uid, "tee-retro", "M", "Black", 1); err != nil {
		t.Fatal(err)
	}
	err := svc.Add(uid, "tee-retro", "M", "Black", 1)
	if !errors.Is(err, services.ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock, got %v", err)
	}

	// The failed add left the line unchanged
	cv, err := svc.View(uid)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 1 || cv.Items[0].Qty != 2 {
		t.Fatalf("cart line changed by failed add: %+v", cv.Items)
	}
}

func TestCartAddRejectsBadSelection(t *testing.T) {
	db := memdb(t)
	svc := services.NewCartService(repos.NewCartRepo(db), repos.NewProductRepo(db))

	if err := svc.Add("u-alice", "no-such-product", "M", "Black", 1); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := svc.Add("u-alice", "tee-logo", "XXXL", "Black", 1); !errors.Is(err, services.ErrInvalidSelection) {
		t.Fatalf("want ErrInvalidSelection for size, got %v", err)
	}
	if err := svc.Add("u-alice", "tee-logo", "M", "Chartreuse", 1); !errors.Is(err, services.ErrInvalidSelection) {
		t.Fatalf("want ErrInvalidSelection for color, got %v", err)
	}
}

func TestCartAddIncrementsSameTuple(t *testing.T) {
	db := memdb(t)
	svc := services.NewCartService(repos.NewCartRepo(db), repos.NewProductRepo(db))

	uid := "u-bob"
	if err := svc.Add(uid, "tee-logo", "M", "Black", 2); err != nil {
		t.Fatal(err)
	}
	if err := svc.Add(uid, "tee-logo", "M", "Black", 3); err != nil {
		t.Fatal(err)
	}
	// Different color is a separate line
	if err := svc.Add(uid, "tee-logo", "M", "White", 1); err != nil {
		t.Fatal(err)
	}

	cv, err := svc.View(uid)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 2 {
		t.Fatalf("want 2 lines, got %d", len(cv.Items))
	}
	total := 0
	for _, l := range cv.Items {
		total += l.Qty
	}
	if total != 6 {
		t.Fatalf("want total qty 6, got %d", total)
	}
}

func TestCartUpdateChecksOwnershipAndStock(t *testing.T) {
	db := memdb(t)
	svc := services.NewCartService(repos.NewCartRepo(db), repos.NewProductRepo(db))

	if err := svc.Add("u-alice", "tee-retro", "S", "Sand", 1); err != nil {
		t.Fatal(err)
	}
	cv, _ := svc.View("u-alice")
	itemID := cv.Items[0].ID

	// Another user cannot touch the line
	if err := svc.Update("u-bob", itemID, 2); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("want ErrNotFound for foreign item, got %v", err)
	}
	// Stock for tee-retro S is 4
	if err := svc.Update("u-alice", itemID, 5); !errors.Is(err, services.ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock, got %v", err)
	}
	if err := svc.Update("u-alice", itemID, 4); err != nil {
		t.Fatal(err)
	}
}

func TestCartSubtotalUsesEffectivePrice(t *testing.T) {
	db := memdb(t)
	svc := services.NewCartService(repos.NewCartRepo(db), repos.NewProductRepo(db))

	// tee-retro is on sale: 24.99 instead of 34.99
	if err := svc.Add("u-alice", "tee-retro", "M", "Black", 2); err != nil {
		t.Fatal(err)
	}
	cv, err := svc.View("u-alice")
	if err != nil {
		t.Fatal(err)
	}
	if cv.Subtotal != 49.98 {
		t.Fatalf("want subtotal 49.98 (sale price), got %v", cv.Subtotal)
	}
}

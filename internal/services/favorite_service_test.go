package services_test

import (
	"errors"
	"testing"

	"merchline/internal/repos"
	"merchline/internal/services"
)

func TestFavoritesRejectUnknownProduct(t *testing.T) {
	db := memdb(t)
	svc := services.NewFavoriteService(repos.NewFavoriteRepo(db), repos.NewProductRepo(db))

	if err := svc.Add("u-alice", "ghost-001"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("want ErrNotFound for unknown product, got %v", err)
	}
	favs, err := svc.List("u-alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(favs) != 0 {
		t.Fatalf("rejected add left rows behind: %+v", favs)
	}

	if err := svc.Add("u-alice", "tee-logo"); err != nil {
		t.Fatal(err)
	}
	// Re-adding is a no-op, not an error
	if err := svc.Add("u-alice", "tee-logo"); err != nil {
		t.Fatal(err)
	}
	favs, err = svc.List("u-alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(favs) != 1 || favs[0].ProductID != "tee-logo" {
		t.Fatalf("unexpected favorites: %+v", favs)
	}
}

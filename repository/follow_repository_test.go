package repository

import (
	"errors"
	"testing"
)

func TestFollowLifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewFollowRepository(db)
	leo := mustUser(t, db, "leo")
	ann := mustUser(t, db, "ann")

	if err := repo.Create(bg, leo.ID, ann.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	ok, err := repo.Exists(bg, leo.ID, ann.ID)
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}
	if ok, _ := repo.Exists(bg, ann.ID, leo.ID); ok {
		t.Fatal("follow must not be symmetric")
	}

	if err := repo.Create(bg, leo.ID, ann.ID); !errors.Is(err, ErrAlreadyFollowing) {
		t.Fatalf("second follow err = %v", err)
	}
	if n, _ := repo.CountFollowers(bg, ann.ID); n != 1 {
		t.Fatalf("followers = %d, want 1", n)
	}
	if n, _ := repo.CountFollowing(bg, leo.ID); n != 1 {
		t.Fatalf("following = %d, want 1", n)
	}

	if err := repo.Delete(bg, leo.ID, ann.ID); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if ok, _ := repo.Exists(bg, leo.ID, ann.ID); ok {
		t.Fatal("relationship survived unfollow")
	}
	if err := repo.Delete(bg, leo.ID, ann.ID); !errors.Is(err, ErrFollowNotFound) {
		t.Fatalf("second unfollow err = %v", err)
	}
}

func TestFollowSelfIsRejected(t *testing.T) {
	db := newTestDB(t)
	repo := NewFollowRepository(db)
	leo := mustUser(t, db, "leo")

	if err := repo.Create(bg, leo.ID, leo.ID); !errors.Is(err, ErrSelfFollow) {
		t.Fatalf("self follow err = %v", err)
	}
	if ok, _ := repo.Exists(bg, leo.ID, leo.ID); ok {
		t.Fatal("self follow was stored")
	}
}

func TestUniqueFollowingIndex(t *testing.T) {
	db := newTestDB(t)
	leo := mustUser(t, db, "leo")
	ann := mustUser(t, db, "ann")

	if err := db.Exec("INSERT INTO follows (user_id, author_id) VALUES (?, ?)", leo.ID, ann.ID).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Exec("INSERT INTO follows (user_id, author_id) VALUES (?, ?)", leo.ID, ann.ID).Error; err == nil {
		t.Fatal("storage accepted a duplicate pair")
	}
}

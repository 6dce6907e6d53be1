package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleEntry(gameID string, score int) ReplayEntry {
	return ReplayEntry{
		GameID:   gameID,
		Player:   "tester",
		Seed:     42,
		TickRate: 60,
		Frames:   1200,
		Journal:  []byte("version: 1\ngame: " + gameID + "\n"),
		Score:    score,
		Lines:    score / 100,
		Level:    1,
	}
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndLoadReplay(t *testing.T) {
	store := openTestStore(t)

	in := sampleEntry("tetris", 700)
	id, err := store.SaveReplay(in)
	if err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}
	if id <= 0 {
		t.Fatalf("SaveReplay() id = %d, expected positive", id)
	}

	got, err := store.ReplayByID(id)
	if err != nil {
		t.Fatalf("ReplayByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("ReplayByID() returned nil for saved replay")
	}

	if got.ID != id {
		t.Errorf("ID = %d, expected %d", got.ID, id)
	}
	if got.GameID != in.GameID || got.Player != in.Player {
		t.Errorf("GameID/Player = %q/%q, expected %q/%q", got.GameID, got.Player, in.GameID, in.Player)
	}
	if got.Seed != in.Seed || got.TickRate != in.TickRate || got.Frames != in.Frames {
		t.Errorf("Seed/TickRate/Frames = %d/%d/%d, expected %d/%d/%d",
			got.Seed, got.TickRate, got.Frames, in.Seed, in.TickRate, in.Frames)
	}
	if string(got.Journal) != string(in.Journal) {
		t.Errorf("Journal = %q, expected %q", got.Journal, in.Journal)
	}
	if got.Score != 700 || got.Lines != 7 || got.Level != 1 {
		t.Errorf("Score/Lines/Level = %d/%d/%d, expected 700/7/1", got.Score, got.Lines, got.Level)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set by the database")
	}
}

func TestStoreReplayByIDMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.ReplayByID(999)
	if err != nil {
		t.Fatalf("ReplayByID() failed: %v", err)
	}
	if got != nil {
		t.Errorf("ReplayByID() = %+v, expected nil", got)
	}
}

func TestStoreRecentReplays(t *testing.T) {
	store := openTestStore(t)

	for i := range 5 {
		if _, err := store.SaveReplay(sampleEntry("tetris", i*100)); err != nil {
			t.Fatalf("SaveReplay() failed: %v", err)
		}
	}
	if _, err := store.SaveReplay(sampleEntry("tetris_fixed", 50)); err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}

	all, err := store.RecentReplays("", 10)
	if err != nil {
		t.Fatalf("RecentReplays() failed: %v", err)
	}
	if len(all) != 6 {
		t.Fatalf("Expected 6 replays, got %d", len(all))
	}
	// Newest first
	if all[0].GameID != "tetris_fixed" {
		t.Errorf("first replay = %q, expected tetris_fixed", all[0].GameID)
	}
	if all[0].Journal != nil {
		t.Error("listings should not load journals")
	}

	limited, err := store.RecentReplays("tetris", 3)
	if err != nil {
		t.Fatalf("RecentReplays() failed: %v", err)
	}
	if len(limited) != 3 {
		t.Fatalf("Expected 3 replays with limit, got %d", len(limited))
	}
	if limited[0].Score != 400 || limited[2].Score != 200 {
		t.Errorf("replays not newest first: %v", limited)
	}

	n, err := store.CountReplays("tetris")
	if err != nil {
		t.Fatalf("CountReplays() failed: %v", err)
	}
	if n != 5 {
		t.Errorf("CountReplays(tetris) = %d, expected 5", n)
	}
}

func TestStoreDeleteReplay(t *testing.T) {
	store := openTestStore(t)

	id, _ := store.SaveReplay(sampleEntry("tetris", 100))
	keep, _ := store.SaveReplay(sampleEntry("tetris", 200))

	deleted, err := store.DeleteReplay(id)
	if err != nil {
		t.Fatalf("DeleteReplay() failed: %v", err)
	}
	if !deleted {
		t.Error("DeleteReplay() = false, expected true")
	}

	deleted, err = store.DeleteReplay(id)
	if err != nil {
		t.Fatalf("DeleteReplay() failed: %v", err)
	}
	if deleted {
		t.Error("second DeleteReplay() should report nothing deleted")
	}

	if got, _ := store.ReplayByID(keep); got == nil {
		t.Error("other replays should not be affected")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/sereno-rh/internal/entity"
)

func TestSeeder_Seed(t *testing.T) {
	t.Parallel()

	t.Run("loads demo data into empty collections", func(t *testing.T) {
		t.Parallel()

		store := seededStore(t)
		if len(store.employees) != 3 || len(store.checkIns) != 16 || len(store.rewards) != 3 || len(store.goals) != 2 || len(store.credentials) != 3 {
			t.Fatalf("unexpected seed sizes: %d employees, %d check-ins, %d rewards, %d goals, %d credentials",
				len(store.employees), len(store.checkIns), len(store.rewards), len(store.goals), len(store.credentials))
		}
		for _, name := range entity.Collections() {
			if !store.initialized[name] {
				t.Fatalf("expected %s to be marked initialized", name)
			}
		}
		if got := store.credentials["emp-002"].SecretHash; got != "plain:empleado123" {
			t.Fatalf("expected hashed secret keyed by id, got %q", got)
		}
		if c := store.checkIns[entity.CheckInKey{EmployeeID: "emp-001", Date: "2024-10-24"}]; c.Punctual {
			t.Fatalf("expected 09:16 seed record to be not punctual")
		}
	})

	t.Run("leaves initialized collections untouched", func(t *testing.T) {
		t.Parallel()

		store := seededStore(t)
		delete(store.rewards, "rew-001")
		delete(store.employees, "emp-003")

		if err := NewSeeder(store, plainHasher, discardLogger()).Seed(context.Background()); err != nil {
			t.Fatalf("Seed failed: %v", err)
		}
		if len(store.rewards) != 2 || len(store.employees) != 2 {
			t.Fatalf("expected deletions to survive a second seed, got %d rewards %d employees", len(store.rewards), len(store.employees))
		}
	})

	t.Run("seeds only the missing collection", func(t *testing.T) {
		t.Parallel()

		store := seededStore(t)
		store.goals = map[string]entity.Goal{}
		delete(store.initialized, entity.CollectionGoals)

		if err := NewSeeder(store, plainHasher, discardLogger()).Seed(context.Background()); err != nil {
			t.Fatalf("Seed failed: %v", err)
		}
		if len(store.goals) != 2 {
			t.Fatalf("expected goals to be reseeded, got %d", len(store.goals))
		}
	})

	t.Run("propagates store failures", func(t *testing.T) {
		t.Parallel()

		expected := errors.New("read-only")
		store := newMemoryStore()
		store.err = expected
		if err := NewSeeder(store, plainHasher, discardLogger()).Seed(context.Background()); !errors.Is(err, expected) {
			t.Fatalf("expected %v, got %v", expected, err)
		}
	})
}

func TestFoldText(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"  José   PÉREZ ": "jose perez",
		"Marta López":     "marta lopez",
		"ÑANDÚ":           "nandu",
		"":                "",
	}
	for in, want := range cases {
		if got := foldText(in); got != want {
			t.Fatalf("foldText(%q): expected %q, got %q", in, want, got)
		}
	}
}

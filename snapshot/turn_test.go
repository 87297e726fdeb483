package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestFileTurnStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "playdata.txt")
	store := NewFileTurnStore(path)

	turn, err := store.Load(ctx)
	if err != nil || turn != 1 {
		t.Fatalf("expected a missing file to load as 1, got %d (%v)", turn, err)
	}
	next, err := Advance(ctx, store)
	if err != nil || next != 2 {
		t.Fatalf("expected Advance to return 2, got %d (%v)", next, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "2\n" {
		t.Fatalf("expected the file to hold 2, got %q", data)
	}
	if _, err := Advance(ctx, store); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if turn, _ := store.Load(ctx); turn != 3 {
		t.Fatalf("expected 3, got %d", turn)
	}
}

func TestFileTurnStoreUnparsable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playdata.txt")
	for _, content := range []string{"", "abc\n", "-4\n", "0"} {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		turn, err := NewFileTurnStore(path).Load(context.Background())
		if err != nil || turn != 1 {
			t.Fatalf("content %q: expected 1, got %d (%v)", content, turn, err)
		}
	}
}

func TestMemoryTurnStore(t *testing.T) {
	ctx := context.Background()
	var store MemoryTurnStore
	for want := 2; want <= 4; want++ {
		got, err := Advance(ctx, &store)
		if err != nil || got != want {
			t.Fatalf("expected %d, got %d (%v)", want, got, err)
		}
	}
}

func TestMemoryTurnStoreAdvanceIsAtomic(t *testing.T) {
	ctx := context.Background()
	var store MemoryTurnStore
	const callers = 50
	seen := make([]bool, callers+2)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			turn, err := Advance(ctx, &store)
			if err != nil || turn < 2 || turn > callers+1 {
				t.Errorf("unexpected advance result %d (%v)", turn, err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if seen[turn] {
				t.Errorf("turn %d handed out twice", turn)
			}
			seen[turn] = true
		}()
	}
	wg.Wait()
	if turn, _ := store.Load(ctx); turn != callers+1 {
		t.Fatalf("expected %d after %d advances, got %d", callers+1, callers, turn)
	}
}

func TestRedisKey(t *testing.T) {
	if got := RedisKey("abc"); got != "pente:turn:abc" {
		t.Fatalf("expected pente:turn:abc, got %s", got)
	}
}

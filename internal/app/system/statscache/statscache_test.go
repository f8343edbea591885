package statscache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCache_LoadsOnceWithinTTL(t *testing.T) {
	c := NewCache(time.Minute)
	calls := 0
	load := func(ctx context.Context) (StatsData, error) {
		calls++
		return StatsData{TotalUsers: 7}, nil
	}

	first, err := c.Get(context.Background(), load)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	second, err := c.Get(context.Background(), load)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if calls != 1 {
		t.Errorf("loader calls: got %d, want 1", calls)
	}
	if first.TotalUsers != 7 || second.TotalUsers != 7 {
		t.Errorf("unexpected data: %+v / %+v", first, second)
	}
	if second.GeneratedAt != first.GeneratedAt {
		t.Error("second read should return the cached snapshot")
	}
}

func TestCache_ReloadsAfterTTL(t *testing.T) {
	c := NewCache(time.Millisecond)
	calls := 0
	load := func(ctx context.Context) (StatsData, error) {
		calls++
		return StatsData{TotalUsers: int64(calls)}, nil
	}

	if _, err := c.Get(context.Background(), load); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	data, err := c.Get(context.Background(), load)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if calls != 2 {
		t.Errorf("loader calls: got %d, want 2", calls)
	}
	if data.TotalUsers != 2 {
		t.Errorf("TotalUsers: got %d, want 2", data.TotalUsers)
	}
}

func TestCache_LoaderErrorKeepsPrevious(t *testing.T) {
	c := NewCache(time.Millisecond)
	if _, err := c.Get(context.Background(), func(ctx context.Context) (StatsData, error) {
		return StatsData{TotalUsers: 3}, nil
	}); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	if _, err := c.Get(context.Background(), func(ctx context.Context) (StatsData, error) {
		return StatsData{}, errors.New("store down")
	}); err == nil {
		t.Fatal("expected loader error to surface")
	}
}

func TestCache_Invalidate(t *testing.T) {
	c := NewCache(time.Hour)
	calls := 0
	load := func(ctx context.Context) (StatsData, error) {
		calls++
		return StatsData{}, nil
	}

	_, _ = c.Get(context.Background(), load)
	c.Invalidate()
	_, _ = c.Get(context.Background(), load)

	if calls != 2 {
		t.Errorf("loader calls: got %d, want 2", calls)
	}
}

func TestFeed_NewestFirst(t *testing.T) {
	f := NewFeed(10)
	f.Record(Entry{Kind: "registration", Subject: "a"})
	f.Record(Entry{Kind: "approval", Subject: "b"})
	f.Record(Entry{Kind: "rejection", Subject: "c"})

	got := f.Recent()
	if len(got) != 3 {
		t.Fatalf("len: got %d, want 3", len(got))
	}
	if got[0].Subject != "c" || got[2].Subject != "a" {
		t.Errorf("order wrong: %+v", got)
	}
}

func TestFeed_FIFOEviction(t *testing.T) {
	f := NewFeed(3)
	for i := 0; i < 5; i++ {
		f.Record(Entry{Subject: fmt.Sprintf("e%d", i)})
	}

	got := f.Recent()
	if len(got) != 3 {
		t.Fatalf("len: got %d, want 3", len(got))
	}
	// e0 and e1 evicted; newest first
	want := []string{"e4", "e3", "e2"}
	for i, w := range want {
		if got[i].Subject != w {
			t.Errorf("entry %d: got %q, want %q", i, got[i].Subject, w)
		}
	}
}

func TestFeed_ConcurrentRecord(t *testing.T) {
	f := NewFeed(8)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			f.Record(Entry{Subject: fmt.Sprintf("e%d", n)})
		}(i)
	}
	wg.Wait()

	if got := len(f.Recent()); got != 8 {
		t.Errorf("len: got %d, want 8", got)
	}
}

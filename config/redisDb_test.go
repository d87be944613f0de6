package config

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// recordingHook answers pipelines locally and keeps the commands it saw.
type recordingHook struct {
	count int64
	seen  []redis.Cmder
}

func (h *recordingHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h *recordingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return next
}

func (h *recordingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		h.seen = append(h.seen, cmds...)
		for _, cmd := range cmds {
			if incr, ok := cmd.(*redis.IntCmd); ok && cmd.Name() == "incr" {
				incr.SetVal(h.count)
			}
		}
		return nil
	}
}

func TestIncrRedisWindow_SetsExpiryInSameTransaction(t *testing.T) {
	hook := &recordingHook{count: 3}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(hook)
	SetRedisDB(client)
	t.Cleanup(func() { SetRedisDB(nil) })

	n, err := IncrRedisWindow(context.Background(), "RateLimit:10.0.0.1", time.Minute)
	if err != nil {
		t.Fatalf("IncrRedisWindow: %v", err)
	}
	if n != 3 {
		t.Fatalf("count %d", n)
	}

	var names []string
	for _, cmd := range hook.seen {
		names = append(names, cmd.Name())
	}
	want := []string{"multi", "set", "incr", "exec"}
	if len(names) != len(want) {
		t.Fatalf("commands %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("commands %v, want %v", names, want)
		}
	}

	args := hook.seen[1].Args()
	var hasNX, hasTTL bool
	for i, a := range args {
		if a == "nx" {
			hasNX = true
		}
		if a == "ex" && i+1 < len(args) && args[i+1] == int64(60) {
			hasTTL = true
		}
	}
	if !hasNX || !hasTTL {
		t.Fatalf("window key must be created with its expiry: %v", args)
	}
}

func TestIncrRedisWindow_NoClient(t *testing.T) {
	SetRedisDB(nil)
	n, err := IncrRedisWindow(context.Background(), "RateLimit:x", time.Minute)
	if err != nil || n != 0 {
		t.Fatalf("got %d, %v", n, err)
	}
}

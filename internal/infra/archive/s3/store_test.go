package s3

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"broodcore/internal/archive/core"
)

func TestMockPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests()
	payload := []byte(`{"kind":"group_dissolved"}`)

	info, err := store.Put(ctx, "tenants/1/groups/7/events/a.json", payload)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "tenants/1/groups/7/events/a.json" || info.Size != int64(len(payload)) {
		t.Fatalf("unexpected info %+v", info)
	}

	got, err := store.Get(ctx, "tenants/1/groups/7/events/a.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: %q", got)
	}
}

func TestMockPutIsCreateOnly(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests()
	if _, err := store.Put(ctx, "entry.json", []byte("first")); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if _, err := store.Put(ctx, "entry.json", []byte("second")); !errors.Is(err, core.ErrExists) {
		t.Fatalf("overwrite should fail with ErrExists, got %v", err)
	}
}

func TestMockGetMissing(t *testing.T) {
	store := NewMockForTests()
	if _, err := store.Get(context.Background(), "absent.json"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMockListByPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests()
	for _, key := range []string{"a/2.json", "a/1.json", "b/1.json"} {
		if _, err := store.Put(ctx, key, []byte("{}")); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	infos, err := store.List(ctx, "a/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "a/1.json" || infos[1].Key != "a/2.json" {
		t.Fatalf("unexpected listing %+v", infos)
	}
	if store.Driver() != core.DriverS3 {
		t.Fatalf("unexpected driver %s", store.Driver())
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("missing bucket should fail")
	}
}

func TestOpenFromEnvRequiresBucket(t *testing.T) {
	t.Setenv("BROODCORE_ARCHIVE_S3_BUCKET", "")
	if _, err := OpenFromEnv(context.Background()); err == nil {
		t.Fatalf("missing bucket env should fail")
	}
}

package utils_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"alumni/session"
	"alumni/utils"
)

// exerciseStorage runs the same round trip against any backend.
func exerciseStorage(t *testing.T, s session.Storage) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.GetItem(ctx, session.TokenKey); err != nil || ok {
		t.Fatalf("GetItem() on empty storage = ok %v, err %v", ok, err)
	}

	sess := session.New(s)
	if err := sess.Begin(ctx, "abc", "jane"); err != nil {
		t.Fatalf("Begin() unexpected error: %v", err)
	}
	got, err := sess.Load(ctx)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if got.Token != "abc" || got.Username != "jane" {
		t.Errorf("Load() = %+v, want abc/jane", got)
	}

	if err := s.SetItem(ctx, session.TokenKey, "rotated"); err != nil {
		t.Fatalf("SetItem() unexpected error: %v", err)
	}
	if token, _ := sess.Token(ctx); token != "rotated" {
		t.Errorf("Token() = %q, want rotated", token)
	}

	if err := sess.Clear(ctx); err != nil {
		t.Fatalf("Clear() unexpected error: %v", err)
	}
	for _, key := range []string{session.TokenKey, session.UsernameKey} {
		if _, ok, err := s.GetItem(ctx, key); err != nil || ok {
			t.Errorf("GetItem(%s) after Clear = ok %v, err %v", key, ok, err)
		}
	}
	if err := s.RemoveItem(ctx, session.TokenKey); err != nil {
		t.Errorf("RemoveItem() of missing key error = %v", err)
	}
}

func TestRedisStorage(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := utils.OpenRedisPool("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("OpenRedisPool() unexpected error: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	exerciseStorage(t, utils.NewRedisStorage(client, "conformance", time.Hour))
}

func TestRedisStorageTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	ctx := context.Background()

	s := utils.NewRedisStorage(client, "alice", time.Hour)
	if s.Key() != "session:alice" {
		t.Errorf("Key() = %q, want session:alice", s.Key())
	}
	if err := s.SetItem(ctx, session.TokenKey, "abc"); err != nil {
		t.Fatalf("SetItem() unexpected error: %v", err)
	}
	if ttl := mr.TTL(s.Key()); ttl != time.Hour {
		t.Errorf("TTL = %v, want 1h", ttl)
	}
	if got := mr.HGet(s.Key(), session.TokenKey); got != "abc" {
		t.Errorf("hash field = %q, want abc", got)
	}

	mr.FastForward(2 * time.Hour)
	if _, ok, _ := s.GetItem(ctx, session.TokenKey); ok {
		t.Errorf("token survived TTL expiry")
	}

	other := utils.NewRedisStorage(client, "bob", 0)
	other.SetItem(ctx, session.TokenKey, "xyz")
	if got, _, _ := s.GetItem(ctx, session.TokenKey); got != "" {
		t.Errorf("namespaces leak: alice sees %q", got)
	}
}

func TestOpenRedisPoolErrors(t *testing.T) {
	if _, err := utils.OpenRedisPool("not a url"); err == nil {
		t.Errorf("OpenRedisPool() with bad dsn expected error")
	}
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	if _, err := utils.OpenRedisPool("redis://" + addr); err == nil {
		t.Errorf("OpenRedisPool() with stopped server expected error")
	}
}

func TestPostgresStorage(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := utils.OpenDB(dsn)
	if err != nil {
		t.Fatalf("OpenDB() unexpected error: %v", err)
	}
	t.Cleanup(db.Close)
	if err := utils.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("EnsureSchema() unexpected error: %v", err)
	}

	exerciseStorage(t, utils.NewPostgresStorage(db, "test-"+time.Now().Format("150405.000000")))
}

func TestFileStorage(t *testing.T) {
	tests := []struct {
		name   string
		secret string
	}{
		{name: "Plain", secret: ""},
		{name: "Sealed", secret: "correct horse battery staple"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "session.json")
			exerciseStorage(t, utils.NewFileStorage(path, tt.secret))

			if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("session file left behind after Clear: %v", err)
			}
		})
	}
}

func TestFileStorageSealing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()

	s := utils.NewFileStorage(path, "s3cret")
	if err := s.SetItem(ctx, session.TokenKey, "abc.def.ghi"); err != nil {
		t.Fatalf("SetItem() unexpected error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() unexpected error: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %v, want 0600", perm)
	}
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "abc.def.ghi") {
		t.Errorf("token stored in clear text: %s", data)
	}

	tests := []struct {
		name   string
		secret string
	}{
		{name: "Wrong key", secret: "guess"},
		{name: "No key", secret: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := utils.NewFileStorage(path, tt.secret).GetItem(ctx, session.TokenKey)
			if !errors.Is(err, utils.ErrSessionKey) {
				t.Errorf("GetItem() error = %v, want ErrSessionKey", err)
			}
		})
	}

	reopened := utils.NewFileStorage(path, "s3cret")
	if got, ok, err := reopened.GetItem(ctx, session.TokenKey); err != nil || !ok || got != "abc.def.ghi" {
		t.Errorf("GetItem() with right key = %q, %v, %v", got, ok, err)
	}
}

func TestFileStorageCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{oops"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := utils.NewFileStorage(path, "").GetItem(context.Background(), session.TokenKey); err == nil {
		t.Errorf("GetItem() on corrupt file expected error")
	}
}

func TestGenerateToken(t *testing.T) {
	a, err := utils.GenerateToken(32)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}
	b, _ := utils.GenerateToken(32)
	if a == b {
		t.Errorf("GenerateToken() returned the same value twice")
	}
	if len(a) != 44 {
		t.Errorf("len(GenerateToken(32)) = %d, want 44", len(a))
	}
}

package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"DuoChat/models"
	"DuoChat/pkg/testutil"
	tokenstore "DuoChat/pkg/token"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	// Whole seconds keep stored timestamps comparable as text in SQLite.
	return &testClock{t: time.Now().UTC().Truncate(time.Second)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// memArtifacts pretends every locator it was told about exists.
type memArtifacts struct {
	mu      sync.Mutex
	present map[string]bool
}

func newMemArtifacts() *memArtifacts {
	return &memArtifacts{present: map[string]bool{}}
}

func (m *memArtifacts) Save(ownerID uint, filename string, r io.Reader) (string, int64, error) {
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return "", 0, err
	}
	loc := fmt.Sprintf("%d/%s", ownerID, filename)
	m.put(loc)
	return loc, n, nil
}

func (m *memArtifacts) put(loc string) {
	m.mu.Lock()
	m.present[loc] = true
	m.mu.Unlock()
}

func (m *memArtifacts) Exists(loc string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.present[loc]
}

func (m *memArtifacts) Path(loc string) (string, error) { return "/mem/" + loc, nil }

func (m *memArtifacts) MediaType(_, declared string) string {
	if declared == "" {
		return "application/octet-stream"
	}
	return declared
}

func (m *memArtifacts) Remove(loc string) error {
	m.mu.Lock()
	delete(m.present, loc)
	m.mu.Unlock()
	return nil
}

type recordingAuditor struct {
	mu     sync.Mutex
	events []DownloadEvent
	err    error
}

func (a *recordingAuditor) RecordDownload(_ context.Context, ev DownloadEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
	return a.err
}

func (a *recordingAuditor) Events() []DownloadEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]DownloadEvent(nil), a.events...)
}

type harness struct {
	db        *gorm.DB
	core      *Core
	clock     *testClock
	artifacts *memArtifacts
	auditor   *recordingAuditor
	revoked   *tokenstore.MemoryStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.NewDB(t)
	clock := newTestClock()
	tokens := NewTokenIssuer("test-secret", time.Hour)
	tokens.now = clock.Now
	revoked := tokenstore.NewMemoryStore()
	t.Cleanup(revoked.Close)

	h := &harness{
		db:        db,
		clock:     clock,
		artifacts: newMemArtifacts(),
		auditor:   &recordingAuditor{},
		revoked:   revoked,
	}
	h.core = NewCore(db, Options{
		Hasher:    BcryptHasher{Cost: bcrypt.MinCost},
		Tokens:    tokens,
		Revoked:   revoked,
		Artifacts: h.artifacts,
		Auditor:   h.auditor,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:       clock.Now,
	})
	return h
}

func (h *harness) user(t *testing.T, name string) models.User {
	t.Helper()
	u := models.User{Email: name + "@example.com", Username: name, PasswordHash: "x"}
	require.NoError(t, h.db.Create(&u).Error)
	return u
}

func (h *harness) file(t *testing.T, owner uint, name string) *models.File {
	t.Helper()
	loc := fmt.Sprintf("%d/%s", owner, name)
	h.artifacts.put(loc)
	f, err := h.core.Files.RecordUpload(context.Background(), UploadInput{
		OwnerID:   owner,
		Name:      name,
		Locator:   loc,
		SizeBytes: 2048,
		MediaType: "text/plain",
	})
	require.NoError(t, err)
	return f
}

func ptr[T any](v T) *T { return &v }

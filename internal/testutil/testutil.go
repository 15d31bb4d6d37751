// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"minisocial/internal/adapters/database"
	"minisocial/internal/config"
	"minisocial/internal/ports/media"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewTestDB opens a private in-memory SQLite database with foreign keys on
// and the schema migrated. It is closed when the test ends.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", name)

	db, err := gorm.Open(sqlite.Open(dsn), config.GormConfig(zap.NewNop()))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start.UTC()}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and returns the new time.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// MockStorage is an in-memory media store. StoreErr and DeleteErr, when set,
// are returned instead of touching the map.
type MockStorage struct {
	mu        sync.Mutex
	files     map[string][]byte
	modTimes  map[string]time.Time
	StoreErr  error
	DeleteErr error
}

func NewMockStorage() *MockStorage {
	return &MockStorage{files: make(map[string][]byte), modTimes: make(map[string]time.Time)}
}

func (m *MockStorage) Store(_ context.Context, filename string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreErr != nil {
		return "", m.StoreErr
	}
	path := "/uploads/" + filename
	m.files[path] = append([]byte(nil), data...)
	m.modTimes[path] = time.Now()
	return path, nil
}

func (m *MockStorage) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.files, path)
	delete(m.modTimes, path)
	return nil
}

// Put seeds a file as if it had been stored earlier.
func (m *MockStorage) Put(path string, data []byte) {
	m.PutAt(path, data, time.Now())
}

// PutAt is Put with an explicit modification time.
func (m *MockStorage) PutAt(path string, data []byte, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	m.modTimes[path] = modTime
}

func (m *MockStorage) List(context.Context) ([]media.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]media.Object, 0, len(m.files))
	for path := range m.files {
		out = append(out, media.Object{Path: path, ModTime: m.modTimes[path]})
	}
	return out, nil
}

func (m *MockStorage) Has(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok
}

func (m *MockStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

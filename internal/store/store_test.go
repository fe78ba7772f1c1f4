package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatbox/internal/jsonx"
	"chatbox/internal/models"
)

type memBackend struct {
	mu       sync.Mutex
	docs     map[string][]byte
	reads    map[string]int
	writes   int
	writeErr error
}

func newMemBackend() *memBackend {
	return &memBackend{docs: map[string][]byte{}, reads: map[string]int{}}
}

func (m *memBackend) ReadDocument(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads[name]++
	data, ok := m.docs[name]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return data, nil
}

func (m *memBackend) WriteDocument(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.docs[name] = append([]byte(nil), data...)
	return nil
}

func (m *memBackend) doc(t *testing.T, name string) map[string]jsonx.RawMessage {
	t.Helper()
	m.mu.Lock()
	data, ok := m.docs[name]
	m.mu.Unlock()
	require.True(t, ok, "document %s not written", name)
	var out map[string]jsonx.RawMessage
	require.NoError(t, jsonx.Unmarshal(data, &out))
	return out
}

func (m *memBackend) readCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[name]
}

func (m *memBackend) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func TestRead_NoLegacyDocument(t *testing.T) {
	ctx := context.Background()
	current, legacy := newMemBackend(), newMemBackend()
	svc := NewService(Options{Backend: current, Legacy: legacy})

	_, ok := svc.Read(ctx, models.SettingsKey)
	assert.False(t, ok)
	assert.False(t, svc.Migrated())
	assert.Equal(t, 1, legacy.readCount(LegacyDocumentName))

	// A legacy document appearing later is still picked up.
	legacy.docs[LegacyDocumentName] = []byte(`{"settings":{"theme":"dark"}}`)
	_, ok = svc.Read(ctx, models.SettingsKey)
	assert.True(t, ok)
	assert.True(t, svc.Migrated())
}

func TestRead_MigratesLegacyDocumentOnce(t *testing.T) {
	ctx := context.Background()
	current, legacy := newMemBackend(), newMemBackend()
	legacy.docs[LegacyDocumentName] = []byte(`{"settings":{"theme":"dark","fontSize":14},"chat-sessions":[]}`)
	svc := NewService(Options{Backend: current, Legacy: legacy})

	raw, ok := svc.Read(ctx, models.SettingsKey)
	require.True(t, ok)
	assert.JSONEq(t, `{"theme":"dark","fontSize":14}`, string(raw))

	_, ok = svc.Read(ctx, "chat-sessions")
	assert.True(t, ok)
	_, ok = svc.Read(ctx, models.SettingsKey)
	assert.True(t, ok)

	assert.Equal(t, 1, legacy.readCount(LegacyDocumentName))
	assert.True(t, svc.Migrated())

	doc := current.doc(t, DocumentName)
	assert.JSONEq(t, `true`, string(doc[MigrationFlagKey]))
	assert.Contains(t, doc, models.SettingsKey)
}

func TestRead_AdoptsTopLevelLegacyKeys(t *testing.T) {
	ctx := context.Background()
	current, legacy := newMemBackend(), newMemBackend()
	legacy.docs[LegacyDocumentName] = []byte(`{"theme":"dark","fontSize":14}`)
	svc := NewService(Options{Backend: current, Legacy: legacy})

	raw, ok := svc.Read(ctx, "theme")
	require.True(t, ok)
	assert.JSONEq(t, `"dark"`, string(raw))

	raw, ok = svc.Read(ctx, "fontSize")
	require.True(t, ok)
	assert.JSONEq(t, `14`, string(raw))

	assert.True(t, svc.Migrated())
	doc := current.doc(t, DocumentName)
	assert.JSONEq(t, `"dark"`, string(doc["theme"]))
	assert.JSONEq(t, `true`, string(doc[MigrationFlagKey]))
}

func TestRead_MigrationKeepsExistingKeys(t *testing.T) {
	ctx := context.Background()
	current, legacy := newMemBackend(), newMemBackend()
	legacy.docs[LegacyDocumentName] = []byte(`{"settings":{"theme":"dark"},"other":1}`)
	svc := NewService(Options{Backend: current, Legacy: legacy})

	require.NoError(t, svc.Write(ctx, "other", 2))

	raw, ok := svc.Read(ctx, "other")
	require.True(t, ok)
	assert.JSONEq(t, `2`, string(raw))
}

func TestRead_MalformedLegacyIsIgnored(t *testing.T) {
	ctx := context.Background()
	current, legacy := newMemBackend(), newMemBackend()
	legacy.docs[LegacyDocumentName] = []byte(`{not json`)
	svc := NewService(Options{Backend: current, Legacy: legacy})

	_, ok := svc.Read(ctx, models.SettingsKey)
	assert.False(t, ok)
	assert.False(t, svc.Migrated())
}

func TestRead_NullIsAbsent(t *testing.T) {
	ctx := context.Background()
	svc := NewService(Options{Backend: newMemBackend()})

	require.NoError(t, svc.Write(ctx, "k", nil))
	_, ok := svc.Read(ctx, "k")
	assert.False(t, ok)

	found, err := svc.ReadInto(ctx, "k", new(int))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestWrite_SettingsFlushesSynchronously(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	svc := NewService(Options{Backend: NewFileBackend(dir)})

	s := models.Settings{AIProvider: "openai", Model: "gpt-4o-mini", Theme: models.ThemeDark, FontSize: 14}
	require.NoError(t, svc.Write(ctx, models.SettingsKey, s))

	data, err := os.ReadFile(filepath.Join(dir, DocumentName))
	require.NoError(t, err)

	var doc map[string]jsonx.RawMessage
	require.NoError(t, jsonx.Unmarshal(data, &doc))
	var got models.Settings
	require.NoError(t, jsonx.Unmarshal(doc[models.SettingsKey], &got))
	assert.Equal(t, s, got)
}

func TestWrite_OtherKeysWaitForFlush(t *testing.T) {
	ctx := context.Background()
	current := newMemBackend()
	svc := NewService(Options{Backend: current})

	require.NoError(t, svc.Write(ctx, "draft", "hello"))
	assert.Zero(t, current.writeCount())

	require.NoError(t, svc.Flush(ctx))
	assert.JSONEq(t, `"hello"`, string(current.doc(t, DocumentName)["draft"]))
}

func TestWrite_UnencodableValue(t *testing.T) {
	svc := NewService(Options{Backend: newMemBackend()})
	err := svc.Write(context.Background(), "bad", make(chan int))
	assert.Error(t, err)
}

func TestWrite_FlushFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	current := newMemBackend()
	current.writeErr = errors.New("disk full")
	svc := NewService(Options{Backend: current})

	require.NoError(t, svc.Write(ctx, models.SettingsKey, map[string]string{"theme": "light"}))

	raw, ok := svc.Read(ctx, models.SettingsKey)
	require.True(t, ok)
	assert.JSONEq(t, `{"theme":"light"}`, string(raw))
	assert.Error(t, svc.Flush(ctx))
}

func TestStart_LoadsDocumentAndSkipsMigratedLegacy(t *testing.T) {
	ctx := context.Background()
	current, legacy := newMemBackend(), newMemBackend()
	legacy.docs[LegacyDocumentName] = []byte(`{"settings":{"theme":"dark","fontSize":14}}`)

	first := NewService(Options{Backend: current, Legacy: legacy})
	first.Start(ctx)
	_, ok := first.Read(ctx, models.SettingsKey)
	require.True(t, ok)
	require.NoError(t, first.Write(ctx, models.SettingsKey, map[string]any{"theme": "light"}))
	first.Stop(ctx)

	second := NewService(Options{Backend: current, Legacy: legacy})
	second.Start(ctx)
	defer second.Stop(ctx)

	raw, ok := second.Read(ctx, models.SettingsKey)
	require.True(t, ok)
	assert.JSONEq(t, `{"theme":"light"}`, string(raw))
	assert.True(t, second.Migrated())
	assert.Equal(t, 1, legacy.readCount(LegacyDocumentName))
	assert.ElementsMatch(t, []string{MigrationFlagKey, models.SettingsKey}, second.Keys())
}

func TestStart_MalformedDocumentStartsEmpty(t *testing.T) {
	ctx := context.Background()
	current := newMemBackend()
	current.docs[DocumentName] = []byte(`[1,2`)
	svc := NewService(Options{Backend: current})

	svc.Start(ctx)
	defer svc.Stop(ctx)
	assert.Empty(t, svc.Keys())
}

func TestStop_FlushesPendingKeys(t *testing.T) {
	ctx := context.Background()
	current := newMemBackend()
	svc := NewService(Options{Backend: current, FlushInterval: time.Hour})
	svc.Start(ctx)

	require.NoError(t, svc.Write(ctx, "draft", 42))
	svc.Stop(ctx)

	assert.JSONEq(t, `42`, string(current.doc(t, DocumentName)["draft"]))
}

func TestStop_FlushesWithCancelledContext(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(Options{Backend: NewFileBackend(dir), FlushInterval: time.Hour})
	svc.Start(context.Background())
	require.NoError(t, svc.Write(context.Background(), "draft", "bye"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.Stop(ctx)

	data, err := os.ReadFile(filepath.Join(dir, DocumentName))
	require.NoError(t, err)
	var doc map[string]jsonx.RawMessage
	require.NoError(t, jsonx.Unmarshal(data, &doc))
	assert.JSONEq(t, `"bye"`, string(doc["draft"]))
}

func TestPeriodicFlush(t *testing.T) {
	ctx := context.Background()
	current := newMemBackend()
	svc := NewService(Options{Backend: current, FlushInterval: time.Second})
	svc.Start(ctx)
	defer svc.Stop(ctx)

	require.NoError(t, svc.Write(ctx, "draft", "tick"))
	assert.Eventually(t, func() bool {
		return current.writeCount() > 0
	}, 5*time.Second, 50*time.Millisecond)
}

func TestFileBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	b := NewFileBackend(dir)

	_, err := b.ReadDocument(ctx, "nested/doc.json")
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	require.NoError(t, b.WriteDocument(ctx, "nested/doc.json", []byte(`{"a":1}`)))
	require.NoError(t, b.WriteDocument(ctx, "nested/doc.json", []byte(`{"a":2}`)))

	data, err := b.ReadDocument(ctx, "nested/doc.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(data))

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "doc.json", entries[0].Name())
}

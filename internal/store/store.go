// Package store is the key-value persistence service behind the app's
// settings. Values live in memory and are mirrored to one JSON document:
// synchronously whenever the "settings" key is written, otherwise on a
// fixed interval. On first read the service imports a legacy document
// once.
//
// I/O failures are logged and swallowed; callers keep working with the
// in-memory state.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"chatbox/internal/jsonx"
	"chatbox/internal/models"
)

const (
	DocumentName       = "config.json"
	LegacyDocumentName = "chatbox/config.json"

	// MigrationFlagKey marks that the legacy document has been imported.
	MigrationFlagKey = "hasHandleCompatibilityV0_1"

	DefaultFlushInterval = 300 * time.Second
)

type Options struct {
	Backend  Backend
	Document string

	// Legacy is where the pre-migration document lives. A nil Legacy
	// disables migration.
	Legacy         Backend
	LegacyDocument string

	FlushInterval time.Duration
	Logger        *slog.Logger
}

type Service struct {
	backend        Backend
	document       string
	legacy         Backend
	legacyDocument string
	interval       time.Duration
	logger         *slog.Logger

	// flushMu orders snapshot+write pairs so the newest snapshot is the
	// last one written.
	flushMu sync.Mutex

	mu   sync.Mutex
	data map[string]jsonx.RawMessage
	cron *cron.Cron
}

func NewService(opts Options) *Service {
	if opts.Document == "" {
		opts.Document = DocumentName
	}
	if opts.LegacyDocument == "" {
		opts.LegacyDocument = LegacyDocumentName
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = DefaultFlushInterval
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{
		backend:        opts.Backend,
		document:       opts.Document,
		legacy:         opts.Legacy,
		legacyDocument: opts.LegacyDocument,
		interval:       opts.FlushInterval,
		logger:         log.With(slog.String("service", "store")),
		data:           make(map[string]jsonx.RawMessage),
	}
}

// Start loads the current document, if any, and schedules the periodic
// flush. Calling Start twice is a no-op.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cron != nil {
		s.mu.Unlock()
		return
	}
	s.cron = cron.New(
		cron.WithLogger(cron.PrintfLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelDebug))),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	s.cron.Schedule(cron.Every(s.interval), cron.FuncJob(func() {
		s.flushLogged(context.Background(), "interval")
	}))
	c := s.cron
	s.mu.Unlock()

	s.load(ctx)
	c.Start()
	s.logger.Info("store started", slog.String("document", s.document), slog.Duration("flush_interval", s.interval))
}

// Stop cancels the periodic flush, waits for a running flush to finish
// and writes the document one last time. The final write runs even when
// ctx is already cancelled.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c != nil {
		select {
		case <-c.Stop().Done():
		case <-ctx.Done():
			s.logger.Warn("store stop: periodic flush still running", slog.Any("error", ctx.Err()))
		}
	}
	s.flushLogged(context.WithoutCancel(ctx), "shutdown")
}

func (s *Service) load(ctx context.Context) {
	if s.backend == nil {
		return
	}
	data, err := s.backend.ReadDocument(ctx, s.document)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			s.logger.Debug("no stored document yet", slog.String("document", s.document))
			return
		}
		s.logger.Error("load stored document", slog.Any("error", err))
		return
	}
	doc, err := decodeDocument(data)
	if err != nil {
		s.logger.Error("load stored document", slog.Any("error", err))
		return
	}

	s.mu.Lock()
	for k, v := range doc {
		if _, exists := s.data[k]; !exists {
			s.data[k] = v
		}
	}
	s.mu.Unlock()
	s.logger.Debug("stored document loaded", slog.Int("keys", len(doc)))
}

// Write upserts key. Writing models.SettingsKey flushes the whole store
// before returning. Only an unencodable value is reported as an error.
func (s *Service) Write(ctx context.Context, key string, value any) error {
	raw, err := jsonx.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()

	if key == models.SettingsKey {
		s.flushLogged(ctx, "settings")
	}
	return nil
}

// Read returns the raw JSON stored under key. A JSON null counts as
// absent. The one-time legacy migration runs before the lookup.
func (s *Service) Read(ctx context.Context, key string) (jsonx.RawMessage, bool) {
	s.migrate(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[key]
	if !ok || isNull(raw) {
		return nil, false
	}
	out := make(jsonx.RawMessage, len(raw))
	copy(out, raw)
	return out, true
}

// ReadInto decodes the value under key into out. It reports false when
// the key is absent.
func (s *Service) ReadInto(ctx context.Context, key string, out any) (bool, error) {
	raw, ok := s.Read(ctx, key)
	if !ok {
		return false, nil
	}
	if err := jsonx.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Keys lists the stored keys in lexical order.
func (s *Service) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Migrated reports whether the legacy document has been imported.
func (s *Service) Migrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.migratedLocked()
}

func (s *Service) migratedLocked() bool {
	raw, ok := s.data[MigrationFlagKey]
	if !ok {
		return false
	}
	var done bool
	if err := jsonx.Unmarshal(raw, &done); err != nil {
		return false
	}
	return done
}

func (s *Service) migrate(ctx context.Context) {
	if s.legacy == nil || s.Migrated() {
		return
	}

	data, err := s.legacy.ReadDocument(ctx, s.legacyDocument)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			s.logger.Debug("no legacy document to migrate", slog.String("document", s.legacyDocument))
		} else {
			s.logger.Warn("read legacy document", slog.Any("error", err))
		}
		return
	}
	legacy, err := decodeDocument(data)
	if err != nil {
		s.logger.Warn("parse legacy document", slog.Any("error", err))
		return
	}

	s.mu.Lock()
	if s.migratedLocked() {
		s.mu.Unlock()
		return
	}
	imported := 0
	for k, v := range legacy {
		if _, exists := s.data[k]; exists {
			continue
		}
		s.data[k] = v
		imported++
	}
	s.data[MigrationFlagKey] = jsonx.RawMessage("true")
	s.mu.Unlock()

	s.logger.Info("legacy document migrated", slog.Int("keys", imported))
	s.flushLogged(ctx, "migration")
}

// Flush writes the whole store to the backend.
func (s *Service) Flush(ctx context.Context) error {
	if s.backend == nil {
		return fmt.Errorf("store backend not configured")
	}
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	data, err := jsonx.Marshal(s.data)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	if err := s.backend.WriteDocument(ctx, s.document, data); err != nil {
		return fmt.Errorf("flush store: %w", err)
	}
	return nil
}

func (s *Service) flushLogged(ctx context.Context, reason string) {
	if err := s.Flush(ctx); err != nil {
		s.logger.Error("store flush failed", slog.String("reason", reason), slog.Any("error", err))
		return
	}
	s.logger.Debug("store flushed", slog.String("reason", reason))
}

func decodeDocument(data []byte) (map[string]jsonx.RawMessage, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]jsonx.RawMessage{}, nil
	}
	var doc map[string]jsonx.RawMessage
	if err := jsonx.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if doc == nil {
		doc = map[string]jsonx.RawMessage{}
	}
	return doc, nil
}

func isNull(raw jsonx.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Package jsonl keeps cached records as one newline-delimited JSON file per
// entity type. Files are rewritten whole and swapped in with a rename, so a
// reader never sees a half-written file. There is no cross-process lock: two
// processes saving the same entity type concurrently can lose one update.
package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/vnda/vnda-cli/internal/domain"
	"github.com/vnda/vnda-cli/internal/ports"
)

const (
	cacheDirMode     = 0o700
	cacheFileMode    = 0o644
	quarantineMode   = 0o600
	quarantineSuffix = ".quarantine"
	tempFilePattern  = ".cache-*.tmp"
)

type entry struct {
	record domain.Record
	raw    []byte
}

// table is the in-memory view of one cache file. It is rebuilt when the
// file's size or mtime changes underneath us.
type table struct {
	entries []entry
	byID    map[int64]int
	modTime time.Time
	size    int64
	exists  bool
}

func newTable(entries []entry) *table {
	tbl := &table{entries: entries, byID: make(map[int64]int, len(entries))}
	for i, e := range entries {
		if _, ok := tbl.byID[e.record.ID]; !ok {
			tbl.byID[e.record.ID] = i
		}
	}
	return tbl
}

func (t *table) find(field string, value any) (entry, bool) {
	if field == keyID {
		id, ok := domain.AsInt64(value)
		if !ok {
			return entry{}, false
		}
		idx, ok := t.byID[id]
		if !ok {
			return entry{}, false
		}
		return t.entries[idx], true
	}

	for _, e := range t.entries {
		if matchesField(e.raw, field, value) {
			return e, true
		}
	}
	return entry{}, false
}

type Store struct {
	dir    string
	clock  ports.Clock
	maxAge time.Duration
	logger zerolog.Logger

	mu     sync.Mutex
	tables map[domain.EntityType]*table
}

var _ ports.CacheStore = (*Store)(nil)

func NewStore(dir string, clock ports.Clock, maxAge time.Duration, logger zerolog.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("cache directory is required")
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve cache directory: %w", err)
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if maxAge <= 0 {
		maxAge = domain.DefaultMaxAge
	}

	return &Store{
		dir:    filepath.Clean(absDir),
		clock:  clock,
		maxAge: maxAge,
		logger: logger.With().Str("component", "cache").Logger(),
		tables: make(map[domain.EntityType]*table),
	}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Path(t domain.EntityType) string {
	return filepath.Join(s.dir, string(t))
}

func (s *Store) QuarantinePath(t domain.EntityType) string {
	return s.Path(t) + quarantineSuffix
}

// Lookup returns the first record whose field equals value, provided it is
// valid for required. A stale or under-flagged record is a miss.
func (s *Store) Lookup(ctx context.Context, t domain.EntityType, field string, value any, required domain.Flags) (domain.Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Record{}, false, err
	}
	if !t.Valid() {
		return domain.Record{}, false, fmt.Errorf("%w: %q", domain.ErrUnknownEntityType, t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tbl, err := s.load(t)
	if err != nil {
		return domain.Record{}, false, err
	}

	found, ok := tbl.find(field, value)
	if !ok {
		return domain.Record{}, false, nil
	}

	if !found.record.ValidFor(required, s.clock.Now(), s.maxAge) {
		s.logger.Debug().
			Str("type", string(t)).
			Int64("id", found.record.ID).
			Str("flags", found.record.Flags.String()).
			Str("required", required.String()).
			Msg("cached record is stale or missing flags")
		return domain.Record{}, false, nil
	}

	return found.record, true, nil
}

// Save merges record into its entity file. An existing fresh record whose
// flags already cover the incoming ones is kept; otherwise the incoming
// record replaces it outright. Flags are never accumulated across saves.
func (s *Store) Save(ctx context.Context, record domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !record.Type.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownEntityType, record.Type)
	}

	incoming, err := encodeRecord(record)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, quarantined, err := s.merge(record, incoming)
	if err != nil {
		return err
	}

	if err := s.writeAtomically(record.Type, entries); err != nil {
		return err
	}

	if len(quarantined) > 0 {
		if err := s.quarantine(record.Type, quarantined); err != nil {
			s.logger.Warn().Err(err).Str("type", string(record.Type)).Msg("could not keep malformed cache lines")
		}
	}

	tbl := newTable(entries)
	s.fingerprint(record.Type, tbl)
	s.tables[record.Type] = tbl
	return nil
}

// List returns one record per id in file order, without any freshness check.
func (s *Store) List(ctx context.Context, t domain.EntityType) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEntityType, t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tbl, err := s.load(t)
	if err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(tbl.byID))
	for i, e := range tbl.entries {
		if tbl.byID[e.record.ID] != i {
			continue
		}
		records = append(records, e.record)
	}
	return records, nil
}

// merge walks the current file once and returns the lines to write back.
// Malformed lines are dropped from the result and handed back separately;
// duplicate ids left by older writers collapse to their first occurrence.
func (s *Store) merge(record domain.Record, incoming []byte) ([]entry, [][]byte, error) {
	var (
		entries     []entry
		quarantined [][]byte
		matched     bool
	)
	seen := make(map[int64]struct{})
	now := s.clock.Now()

	err := s.scan(record.Type, func(line []byte) {
		stored, err := decodeRecord(record.Type, line)
		if err != nil {
			quarantined = append(quarantined, line)
			return
		}
		if _, dup := seen[stored.ID]; dup {
			return
		}
		seen[stored.ID] = struct{}{}

		if stored.ID != record.ID {
			entries = append(entries, entry{record: stored, raw: line})
			return
		}

		matched = true
		if stored.ValidFor(record.Flags, now, s.maxAge) {
			entries = append(entries, entry{record: stored, raw: line})
			return
		}
		entries = append(entries, entry{record: record, raw: incoming})
	})
	if err != nil {
		return nil, nil, err
	}

	if !matched {
		entries = append(entries, entry{record: record, raw: incoming})
	}
	return entries, quarantined, nil
}

// load returns the cached table for t, re-reading the file when it changed.
func (s *Store) load(t domain.EntityType) (*table, error) {
	info, err := os.Stat(s.Path(t))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat %s cache: %w", t, err)
	}

	if cached, ok := s.tables[t]; ok {
		switch {
		case info == nil && !cached.exists:
			return cached, nil
		case info != nil && cached.exists && info.ModTime().Equal(cached.modTime) && info.Size() == cached.size:
			return cached, nil
		}
	}

	var (
		entries []entry
		skipped int
	)
	err = s.scan(t, func(line []byte) {
		record, err := decodeRecord(t, line)
		if err != nil {
			skipped++
			return
		}
		entries = append(entries, entry{record: record, raw: line})
	})
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		s.logger.Warn().Str("type", string(t)).Int("lines", skipped).Msg("skipped malformed cache lines")
	}

	tbl := newTable(entries)
	if info != nil {
		tbl.exists = true
		tbl.modTime = info.ModTime()
		tbl.size = info.Size()
	}
	s.tables[t] = tbl
	return tbl, nil
}

// scan calls fn with every non-blank line of the cache file. A missing file
// has no lines.
func (s *Store) scan(t domain.EntityType, fn func(line []byte)) error {
	file, err := os.Open(s.Path(t))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s cache: %w", t, err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	for {
		line, readErr := reader.ReadBytes('\n')
		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			fn(bytes.Clone(trimmed))
		}
		if errors.Is(readErr, io.EOF) {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("read %s cache: %w", t, readErr)
		}
	}
}

func (s *Store) writeAtomically(t domain.EntityType, entries []entry) error {
	if err := os.MkdirAll(s.dir, cacheDirMode); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	var buf bytes.Buffer
	for _, e := range entries {
		buf.Write(e.raw)
		buf.WriteByte('\n')
	}

	tempFile, err := os.CreateTemp(s.dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp %s cache: %w", t, err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(buf.Bytes()); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp %s cache: %w", t, err)
	}

	if err := tempFile.Chmod(cacheFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp %s cache: %w", t, err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp %s cache: %w", t, err)
	}

	if err := os.Rename(tempName, s.Path(t)); err != nil {
		return fmt.Errorf("replace %s cache: %w", t, err)
	}

	cleanup = false
	return nil
}

func (s *Store) quarantine(t domain.EntityType, lines [][]byte) error {
	file, err := os.OpenFile(s.QuarantinePath(t), os.O_CREATE|os.O_APPEND|os.O_WRONLY, quarantineMode)
	if err != nil {
		return fmt.Errorf("open quarantine file: %w", err)
	}
	defer file.Close()

	for _, line := range lines {
		if _, err := file.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("write quarantine file: %w", err)
		}
	}

	s.logger.Warn().
		Str("type", string(t)).
		Int("lines", len(lines)).
		Str("path", s.QuarantinePath(t)).
		Msg("moved malformed cache lines to quarantine")
	return nil
}

func (s *Store) fingerprint(t domain.EntityType, tbl *table) {
	info, err := os.Stat(s.Path(t))
	if err != nil {
		return
	}
	tbl.exists = true
	tbl.modTime = info.ModTime()
	tbl.size = info.Size()
}

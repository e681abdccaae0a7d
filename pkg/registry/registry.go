// Package registry persists a bijective mapping between caller-chosen custom
// ids and the int32 ids the settings wire protocol requires.
//
// The mapping lives in a flat text file, one `customId=numericId` pair per
// line. Blank lines and lines starting with `#` are ignored on read and never
// written. Every assignment rewrites the whole file so the on-disk state is
// always a consistent snapshot of the in-memory map.
//
// One file is kept per listening port (see PathFor) so several server
// instances on one host never share a mapping.
package registry

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-menuopts/pkg/nonce"
	"github.com/prometheus/client_golang/prometheus"
)

// FilePrefix is the registry file name prefix; the port and ".txt" follow.
const FilePrefix = "CustomIdRegistry-"

// MaxLineLength is the longest line load accepts; longer lines are skipped
// as malformed.
const MaxLineLength = 64 * 1024

var utf8BOM = []byte("\ufeff")

// IDSource draws candidate numeric ids. *nonce.Generator satisfies it.
type IDSource interface {
	GenerateNew() (int32, error)
}

// Entry is one persisted pair.
type Entry struct {
	CustomID  string
	NumericID int32
}

// Option configures a Registry.
type Option func(*Registry)

// WithGenerator replaces the default nonce.Generator.
func WithGenerator(src IDSource) Option {
	return func(r *Registry) {
		if src != nil {
			r.ids = src
		}
	}
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRegisterer exports registry metrics to reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(r *Registry) {
		r.metrics = newMetrics(reg)
	}
}

// Registry maps custom ids to numeric ids and keeps the backing file in sync.
// All methods are safe for concurrent use; Register holds the lock across the
// check, the draw, and the file rewrite.
type Registry struct {
	path    string
	ids     IDSource
	logger  *slog.Logger
	metrics *metrics

	mu       sync.RWMutex
	byCustom map[string]int32
	byID     map[int32]string

	watchMu sync.Mutex
	watch   *watcher
	closed  bool
}

// PathFor returns <configRoot>/<cacheDir>/CustomIdRegistry-<port>.txt.
func PathFor(configRoot, cacheDir string, port int) string {
	return filepath.Join(configRoot, cacheDir, fmt.Sprintf("%s%d.txt", FilePrefix, port))
}

// Open ensures the registry file exists and loads it. Malformed lines are
// logged and skipped; only I/O failures are returned.
func Open(path string, opts ...Option) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("registry: path is required")
	}
	r := &Registry{
		path:     path,
		logger:   slog.Default(),
		byCustom: make(map[string]int32),
		byID:     make(map[int32]string),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.ids == nil {
		r.ids = nonce.New()
	}

	r.logger.Debug("registry initialising", "path", path)
	if err := ensureFile(path); err != nil {
		return nil, err
	}
	merged, err := r.load()
	if err != nil {
		return nil, err
	}
	r.logger.Debug("registry loaded", "path", path, "entries", merged)
	return r, nil
}

// Path returns the backing file path.
func (r *Registry) Path() string {
	return r.path
}

// Register returns the numeric id mapped to customID, assigning and persisting
// a new one when the custom id is unknown. Repeated calls return the same id.
func (r *Registry) Register(customID string) (int32, error) {
	if err := validateCustomID(customID); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byCustom[customID]; ok {
		return existing, nil
	}

	// The generator only knows this session; ids loaded from a previous
	// session's file must be avoided here.
	numericID, err := r.drawLocked(customID)
	if err != nil {
		return 0, err
	}

	r.byCustom[customID] = numericID
	r.byID[numericID] = customID
	if err := r.writeLocked(); err != nil {
		delete(r.byCustom, customID)
		delete(r.byID, numericID)
		return 0, err
	}
	r.metrics.incAssigned()
	r.metrics.setEntries(len(r.byCustom))
	r.logger.Debug("registry assigned id", "custom_id", customID, "numeric_id", numericID)
	return numericID, nil
}

// drawLocked asks the generator for an id no persisted entry owns, giving up
// after nonce.DefaultMaxAttempts draws.
func (r *Registry) drawLocked(customID string) (int32, error) {
	for attempt := 0; attempt < nonce.DefaultMaxAttempts; attempt++ {
		numericID, err := r.ids.GenerateNew()
		if err != nil {
			return 0, fmt.Errorf("registry: assign %q: %w", customID, err)
		}
		if _, taken := r.byID[numericID]; !taken {
			return numericID, nil
		}
		r.metrics.incCollisions()
	}
	return 0, fmt.Errorf("registry: assign %q: %w after %d draws", customID, nonce.ErrExhausted, nonce.DefaultMaxAttempts)
}

// SeedHostIDs reserves numeric ids the host already owns so they are never
// handed out. It is a no-op when the generator cannot be seeded.
func (r *Registry) SeedHostIDs(ids ...int32) {
	seeder, ok := r.ids.(interface{ Seed(ids ...int32) })
	if !ok {
		r.logger.Debug("registry generator does not accept host ids", "count", len(ids))
		return
	}
	seeder.Seed(ids...)
	r.logger.Debug("registry seeded host ids", "count", len(ids))
}

// Get returns the numeric id for customID or a *NotFoundError.
func (r *Registry) Get(customID string) (int32, error) {
	if id, ok := r.TryGet(customID); ok {
		return id, nil
	}
	return 0, &NotFoundError{CustomID: customID}
}

// TryGet is the non-failing variant of Get.
func (r *Registry) TryGet(customID string) (int32, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byCustom[customID]
	return id, ok
}

// CustomID performs the reverse lookup, returning a *NotFoundError when
// numericID is not mapped.
func (r *Registry) CustomID(numericID int32) (string, error) {
	if customID, ok := r.TryCustomID(numericID); ok {
		return customID, nil
	}
	return "", &NotFoundError{NumericID: numericID, ByNumeric: true}
}

// TryCustomID is the non-failing variant of CustomID.
func (r *Registry) TryCustomID(numericID int32) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customID, ok := r.byID[numericID]
	return customID, ok
}

// Len returns the number of mappings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byCustom)
}

// Entries returns a snapshot sorted by custom id.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entriesLocked()
}

// Reload re-reads the file and merges entries added by another writer.
// Mappings already held never change; conflicting lines are logged and
// skipped. It returns the number of entries merged.
func (r *Registry) Reload() (int, error) {
	return r.load()
}

func (r *Registry) load() (int, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return 0, fmt.Errorf("registry: read %s: %w", r.path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	merged := 0
	raw = bytes.TrimPrefix(raw, utf8BOM)
	for i, text := range bytes.Split(raw, []byte("\n")) {
		lineNo := i + 1
		if len(text) > MaxLineLength {
			r.metrics.incMalformed()
			r.logger.Warn("registry skipping malformed line", "path", r.path, "line", lineNo,
				"error", &MalformedLineError{Path: r.path, Line: lineNo, Reason: fmt.Sprintf("longer than %d bytes", MaxLineLength)})
			continue
		}
		line := strings.TrimRight(string(text), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, perr := parseLine(r.path, lineNo, line)
		if perr != nil {
			r.metrics.incMalformed()
			r.logger.Warn("registry skipping malformed line", "path", r.path, "line", lineNo, "text", line, "error", perr)
			continue
		}
		if r.mergeLocked(entry, lineNo) {
			merged++
		}
	}
	r.metrics.setEntries(len(r.byCustom))
	return merged, nil
}

func (r *Registry) mergeLocked(entry Entry, lineNo int) bool {
	if current, ok := r.byCustom[entry.CustomID]; ok {
		if current != entry.NumericID {
			r.logger.Warn("registry ignoring remapped custom id",
				"path", r.path, "line", lineNo, "custom_id", entry.CustomID,
				"numeric_id", current, "ignored", entry.NumericID)
		}
		return false
	}
	if owner, ok := r.byID[entry.NumericID]; ok {
		r.logger.Warn("registry ignoring duplicate numeric id",
			"path", r.path, "line", lineNo, "custom_id", entry.CustomID,
			"numeric_id", entry.NumericID, "owner", owner)
		return false
	}
	r.byCustom[entry.CustomID] = entry.NumericID
	r.byID[entry.NumericID] = entry.CustomID
	return true
}

func parseLine(path string, lineNo int, line string) (Entry, error) {
	parts := strings.Split(line, "=")
	if len(parts) != 2 {
		return Entry{}, &MalformedLineError{Path: path, Line: lineNo, Text: line, Reason: "expected exactly one '='"}
	}
	if parts[0] == "" {
		return Entry{}, &MalformedLineError{Path: path, Line: lineNo, Text: line, Reason: "empty custom id"}
	}
	id, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 32)
	if err != nil {
		return Entry{}, &MalformedLineError{Path: path, Line: lineNo, Text: line, Reason: "numeric id is not an int32"}
	}
	return Entry{CustomID: parts[0], NumericID: int32(id)}, nil
}

func (r *Registry) entriesLocked() []Entry {
	entries := make([]Entry, 0, len(r.byCustom))
	for customID, id := range r.byCustom {
		entries = append(entries, Entry{CustomID: customID, NumericID: id})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CustomID < entries[j].CustomID
	})
	return entries
}

// writeLocked replaces the file through a sibling temp file and a rename.
func (r *Registry) writeLocked() error {
	var buf bytes.Buffer
	for _, entry := range r.entriesLocked() {
		fmt.Fprintf(&buf, "%s=%d\n", entry.CustomID, entry.NumericID)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("registry: write %s: %w", r.path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("registry: write %s: %w", r.path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("registry: sync %s: %w", r.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("registry: close %s: %w", r.path, err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("registry: replace %s: %w", r.path, err)
	}
	return nil
}

func ensureFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("registry: create directory for %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("registry: create %s: %w", path, err)
	}
	return f.Close()
}

func validateCustomID(customID string) error {
	switch {
	case customID == "":
		return fmt.Errorf("%w: empty", ErrInvalidCustomID)
	case strings.HasPrefix(customID, "#"):
		return fmt.Errorf("%w: %q starts with '#'", ErrInvalidCustomID, customID)
	case strings.ContainsAny(customID, "=\r\n"):
		return fmt.Errorf("%w: %q contains '=' or a line break", ErrInvalidCustomID, customID)
	case strings.TrimSpace(customID) == "":
		return fmt.Errorf("%w: blank", ErrInvalidCustomID)
	}
	return nil
}

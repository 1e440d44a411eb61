// Package store resolves plan documents to files under a trusted root and
// performs atomic, conflict-safe reads and writes. Plan files are the only
// record; the store keeps no index or cache beside them.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"

	"github.com/calvinalkan/planmd/internal/plan"
)

const (
	dirPerms  = 0o750
	filePerms = 0o600

	planExt = ".md"
)

// Storage failure modes.
var (
	ErrInvalidPlanID = errors.New("invalid plan id")
	ErrPlanNotFound  = errors.New("plan not found")
	ErrPlanExists    = errors.New("plan already exists")
	ErrOutsideRoot   = errors.New("plan path escapes root directory")
)

// Store maps plan ids to markdown files inside a documents subdirectory of a
// trusted root. It holds no mutable state; every operation is one pass over
// the filesystem.
type Store struct {
	root string
	docs string
}

// New creates a Store rooted at rootDir with plan files under docsDir
// (relative to the root unless absolute).
func New(rootDir, docsDir string) (*Store, error) {
	if rootDir == "" {
		return nil, errors.New("root directory is empty")
	}

	root, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}

	docs := docsDir
	if !filepath.IsAbs(docs) {
		docs = filepath.Join(root, docs)
	}

	return &Store{root: root, docs: docs}, nil
}

// Root returns the absolute root directory.
func (s *Store) Root() string {
	return s.root
}

// DocsDir returns the absolute documents directory.
func (s *Store) DocsDir() string {
	return s.docs
}

// PlanPath resolves a plan id to an absolute file path. Resolution is
// checked lexically against the root via relative-path components; symlink
// targets are intentionally not resolved, so a symlinked subtree may point
// outside the root.
func (s *Store) PlanPath(planID string) (string, error) {
	if !plan.IsValidID(planID) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlanID, planID)
	}

	path := filepath.Join(s.docs, planID+planExt)

	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, path)
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, path)
	}

	return path, nil
}

// Etag is the content hash used as the optimistic-concurrency token.
func Etag(text string) string {
	sum := sha256.Sum256([]byte(text))

	return hex.EncodeToString(sum[:])
}

// Read returns the plan's absolute path, raw text, and etag.
func (s *Store) Read(planID string) (path, text, etag string, err error) {
	path, err = s.PlanPath(planID)
	if err != nil {
		return "", "", "", err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path stays under the root by construction
	if errors.Is(err, fs.ErrNotExist) {
		return "", "", "", fmt.Errorf("%w: %q", ErrPlanNotFound, planID)
	}

	if err != nil {
		return "", "", "", fmt.Errorf("reading plan: %w", err)
	}

	text = string(data)

	return path, text, Etag(text), nil
}

// Exists reports whether a plan file is present.
func (s *Store) Exists(planID string) (bool, error) {
	path, err := s.PlanPath(planID)
	if err != nil {
		return false, err
	}

	_, statErr := os.Stat(path)
	if statErr == nil {
		return true, nil
	}

	if errors.Is(statErr, fs.ErrNotExist) {
		return false, nil
	}

	return false, fmt.Errorf("stat plan: %w", statErr)
}

// Write replaces the file at path atomically: sibling temp file, then
// rename. Readers never observe a partial document.
func (s *Store) Write(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerms); err != nil {
		return fmt.Errorf("creating plan directory: %w", err)
	}

	if err := atomic.WriteFile(path, strings.NewReader(text)); err != nil {
		return fmt.Errorf("writing plan: %w", err)
	}

	// atomic.WriteFile does not set permissions on new files.
	if err := os.Chmod(path, filePerms); err != nil {
		return fmt.Errorf("setting plan permissions: %w", err)
	}

	return nil
}

// Create writes path only if it does not exist yet, using link-then-unlink
// semantics: concurrent creators race safely and exactly one wins. The loser
// gets ErrPlanExists.
func (s *Store) Create(path, text string) error {
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, dirPerms); err != nil {
		return fmt.Errorf("creating plan directory: %w", err)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+".tmp-"+uuid.NewString())

	if err := os.WriteFile(tmp, []byte(text), filePerms); err != nil {
		return fmt.Errorf("writing temp plan: %w", err)
	}

	linkErr := os.Link(tmp, path)

	if rmErr := os.Remove(tmp); rmErr != nil && linkErr == nil {
		return fmt.Errorf("removing temp plan: %w", rmErr)
	}

	if errors.Is(linkErr, fs.ErrExist) {
		return fmt.Errorf("%w: %q", ErrPlanExists, path)
	}

	if linkErr != nil {
		return fmt.Errorf("linking plan into place: %w", linkErr)
	}

	return nil
}

// List returns the ids of every plan file in the documents directory,
// sorted. A missing directory means no plans.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.docs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading plan directory: %w", err)
	}

	var ids []string

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), planExt) {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), planExt)
		if !plan.IsValidID(id) {
			continue
		}

		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids, nil
}

// Package file provides a JSON-file persistence implementation. One
// directory per entity kind, one file per record. Suitable for local
// development and tests; production deployments use postgresql.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hireground/talentgate/pkg/persistence"
)

// Persistence implements persistence.Persistence on the file system.
type Persistence struct {
	root string

	workflowRepo    *WorkflowRepository
	stageRepo       *StageRepository
	ruleRepo        *ValidationRuleRepository
	applicationRepo *ApplicationRepository
	positionRepo    *JobPositionRepository
	fieldRepo       *CustomFieldRepository
}

// NewPersistence creates a file persistence rooted at the given
// directory. A "file://" prefix is tolerated so database URLs work.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)
	store := &store{root: cleanRoot}

	return &Persistence{
		root:            cleanRoot,
		workflowRepo:    &WorkflowRepository{store: store},
		stageRepo:       &StageRepository{store: store},
		ruleRepo:        &ValidationRuleRepository{store: store},
		applicationRepo: &ApplicationRepository{store: store},
		positionRepo:    &JobPositionRepository{store: store},
		fieldRepo:       &CustomFieldRepository{store: store},
	}
}

func (p *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return p.workflowRepo
}

func (p *Persistence) StageRepository() persistence.StageRepository {
	return p.stageRepo
}

func (p *Persistence) ValidationRuleRepository() persistence.ValidationRuleRepository {
	return p.ruleRepo
}

func (p *Persistence) ApplicationRepository() persistence.ApplicationRepository {
	return p.applicationRepo
}

func (p *Persistence) JobPositionRepository() persistence.JobPositionRepository {
	return p.positionRepo
}

func (p *Persistence) CustomFieldRepository() persistence.CustomFieldRepository {
	return p.fieldRepo
}

// HealthCheck verifies the root directory exists.
func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close is a no-op for file persistence.
func (p *Persistence) Close(_ context.Context) error {
	return nil
}

// store serializes concurrent access to the underlying files.
type store struct {
	root string
	mu   sync.RWMutex
}

func (s *store) write(kind, id string, record any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Join(s.root, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return persistence.NewStorageError("file.write", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return persistence.NewStorageError("file.write", err)
	}

	if err := os.WriteFile(filepath.Join(dir, id+".json"), data, 0o644); err != nil {
		return persistence.NewStorageError("file.write", err)
	}

	return nil
}

func (s *store) read(kind, id string, record any) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.root, kind, id+".json"))
	if os.IsNotExist(err) {
		return false, nil
	}

	if err != nil {
		return false, persistence.NewStorageError("file.read", err)
	}

	if err := json.Unmarshal(data, record); err != nil {
		return false, persistence.NewStorageError("file.read", err)
	}

	return true, nil
}

func (s *store) remove(kind, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(filepath.Join(s.root, kind, id+".json"))
	if os.IsNotExist(err) {
		return false, nil
	}

	if err != nil {
		return false, persistence.NewStorageError("file.delete", err)
	}

	return true, nil
}

// list decodes every record of a kind and appends it via the collect
// callback, which receives the raw JSON of one file.
func (s *store) list(kind string, collect func(data []byte) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dir := filepath.Join(s.root, kind)

	root := os.DirFS(dir)

	files, err := fs.Glob(root, "*.json")
	if err != nil {
		return persistence.NewStorageError("file.list", err)
	}

	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return persistence.NewStorageError("file.list", err)
		}

		if err := collect(data); err != nil {
			return fmt.Errorf("decoding %s: %w", name, err)
		}
	}

	return nil
}

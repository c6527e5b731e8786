// Package memory is an in-memory Store implementation. It backs the service
// tests and mirrors the semantics of the postgres store: owner-scoped reads,
// ErrNotFound on owner mismatch, ErrDuplicateName on name collisions.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/college-predictor/prompt-manager-be/internal/models"
	"github.com/college-predictor/prompt-manager-be/internal/store"
)

// New returns a Store backed by process memory.
func New() *store.Store {
	db := &db{
		projects:    make(map[uuid.UUID]models.Project),
		collections: make(map[uuid.UUID]models.Collection),
		folders:     make(map[uuid.UUID]models.Folder),
		prompts:     make(map[uuid.UUID]models.Prompt),
		llmModels:   make(map[string]models.LLMModel),
	}
	return &store.Store{
		Projects:    (*projectStore)(db),
		Collections: (*collectionStore)(db),
		Folders:     (*folderStore)(db),
		Prompts:     (*promptStore)(db),
		History:     (*historyStore)(db),
		Models:      (*modelStore)(db),
	}
}

type historyRow struct {
	entry models.HistoryEntry
	seq   int64
}

type db struct {
	mu          sync.RWMutex
	projects    map[uuid.UUID]models.Project
	collections map[uuid.UUID]models.Collection
	folders     map[uuid.UUID]models.Folder
	prompts     map[uuid.UUID]models.Prompt
	history     []historyRow
	historySeq  int64
	llmModels   map[string]models.LLMModel
}

type (
	projectStore    db
	collectionStore db
	folderStore     db
	promptStore     db
	historyStore    db
	modelStore      db
)

// -- projects --

func (s *projectStore) Insert(_ context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.projects {
		if existing.OwnerID == p.OwnerID && strings.EqualFold(existing.Name, p.Name) {
			return store.ErrDuplicateName
		}
	}
	s.projects[p.ID] = *p
	return nil
}

func (s *projectStore) Get(_ context.Context, id uuid.UUID, ownerID string) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok || p.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (s *projectStore) GetByName(_ context.Context, ownerID, name string) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.projects {
		if p.OwnerID == ownerID && strings.EqualFold(p.Name, name) {
			cp := p
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *projectStore) ListByOwner(_ context.Context, ownerID string) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Project
	for _, p := range s.projects {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *projectStore) Update(_ context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.projects[p.ID]
	if !ok || existing.OwnerID != p.OwnerID {
		return store.ErrNotFound
	}
	for id, other := range s.projects {
		if id != p.ID && other.OwnerID == p.OwnerID && strings.EqualFold(other.Name, p.Name) {
			return store.ErrDuplicateName
		}
	}
	s.projects[p.ID] = *p
	return nil
}

func (s *projectStore) Delete(_ context.Context, id uuid.UUID, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok || p.OwnerID != ownerID {
		return store.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

// -- collections --

func (s *collectionStore) Insert(_ context.Context, c *models.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.collections {
		if existing.ProjectID == c.ProjectID && strings.EqualFold(existing.Name, c.Name) {
			return store.ErrDuplicateName
		}
	}
	s.collections[c.ID] = cloneCollection(*c)
	return nil
}

func (s *collectionStore) Get(_ context.Context, id uuid.UUID, ownerID string) (*models.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[id]
	if !ok || c.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}
	cp := cloneCollection(c)
	return &cp, nil
}

func (s *collectionStore) GetByName(_ context.Context, projectID uuid.UUID, name string) (*models.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.collections {
		if c.ProjectID == projectID && strings.EqualFold(c.Name, name) {
			cp := cloneCollection(c)
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *collectionStore) ListByProject(_ context.Context, projectID uuid.UUID, ownerID string) ([]models.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Collection
	for _, c := range s.collections {
		if c.ProjectID == projectID && c.OwnerID == ownerID {
			out = append(out, cloneCollection(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *collectionStore) Update(_ context.Context, c *models.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.collections[c.ID]
	if !ok || existing.OwnerID != c.OwnerID {
		return store.ErrNotFound
	}
	for id, other := range s.collections {
		if id != c.ID && other.ProjectID == c.ProjectID && strings.EqualFold(other.Name, c.Name) {
			return store.ErrDuplicateName
		}
	}
	s.collections[c.ID] = cloneCollection(*c)
	return nil
}

func (s *collectionStore) Delete(_ context.Context, id uuid.UUID, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[id]
	if !ok || c.OwnerID != ownerID {
		return store.ErrNotFound
	}
	delete(s.collections, id)
	return nil
}

// -- folders --

func (s *folderStore) Insert(_ context.Context, f *models.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folders[f.ID] = cloneFolder(*f)
	return nil
}

func (s *folderStore) Get(_ context.Context, id uuid.UUID, ownerID string) (*models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.folders[id]
	if !ok || f.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}
	cp := cloneFolder(f)
	return &cp, nil
}

func (s *folderStore) ListRoots(_ context.Context, collectionID uuid.UUID, ownerID string) ([]models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Folder
	for _, f := range s.folders {
		if f.CollectionID == collectionID && f.OwnerID == ownerID && f.ParentFolderID == nil {
			out = append(out, cloneFolder(f))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *folderStore) ListByCollection(_ context.Context, collectionID uuid.UUID, ownerID string) ([]models.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Folder
	for _, f := range s.folders {
		if f.CollectionID == collectionID && f.OwnerID == ownerID {
			out = append(out, cloneFolder(f))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *folderStore) Update(_ context.Context, f *models.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.folders[f.ID]
	if !ok || existing.OwnerID != f.OwnerID {
		return store.ErrNotFound
	}
	s.folders[f.ID] = cloneFolder(*f)
	return nil
}

func (s *folderStore) Delete(_ context.Context, id uuid.UUID, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.folders[id]
	if !ok || f.OwnerID != ownerID {
		return store.ErrNotFound
	}
	delete(s.folders, id)
	return nil
}

// -- prompts --

func (s *promptStore) Insert(_ context.Context, p *models.Prompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.prompts {
		if existing.ProjectID == p.ProjectID && strings.EqualFold(existing.Title, p.Title) {
			return store.ErrDuplicateName
		}
	}
	s.prompts[p.ID] = clonePrompt(*p)
	return nil
}

func (s *promptStore) Get(_ context.Context, id uuid.UUID, ownerID string) (*models.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prompts[id]
	if !ok || p.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}
	cp := clonePrompt(p)
	return &cp, nil
}

func (s *promptStore) GetByTitle(_ context.Context, projectID uuid.UUID, title, ownerID string) (*models.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.prompts {
		if p.ProjectID == projectID && p.OwnerID == ownerID && strings.EqualFold(p.Title, title) {
			cp := clonePrompt(p)
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *promptStore) ListByCollection(_ context.Context, collectionID uuid.UUID, ownerID string) ([]models.Prompt, error) {
	return s.list(func(p models.Prompt) bool {
		return p.CollectionID == collectionID && p.OwnerID == ownerID
	})
}

func (s *promptStore) ListByProject(_ context.Context, projectID uuid.UUID, ownerID string) ([]models.Prompt, error) {
	return s.list(func(p models.Prompt) bool {
		return p.ProjectID == projectID && p.OwnerID == ownerID
	})
}

func (s *promptStore) ListByOwner(_ context.Context, ownerID string) ([]models.Prompt, error) {
	return s.list(func(p models.Prompt) bool { return p.OwnerID == ownerID })
}

func (s *promptStore) list(match func(models.Prompt) bool) ([]models.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Prompt
	for _, p := range s.prompts {
		if match(p) {
			out = append(out, clonePrompt(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *promptStore) Update(_ context.Context, p *models.Prompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.prompts[p.ID]
	if !ok || existing.OwnerID != p.OwnerID {
		return store.ErrNotFound
	}
	for id, other := range s.prompts {
		if id != p.ID && other.ProjectID == p.ProjectID && strings.EqualFold(other.Title, p.Title) {
			return store.ErrDuplicateName
		}
	}
	s.prompts[p.ID] = clonePrompt(*p)
	return nil
}

func (s *promptStore) Delete(_ context.Context, id uuid.UUID, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prompts[id]
	if !ok || p.OwnerID != ownerID {
		return store.ErrNotFound
	}
	delete(s.prompts, id)
	return nil
}

// -- history --

func (s *historyStore) Insert(_ context.Context, e *models.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.historySeq++
	cp := *e
	cp.Body = e.Body.Clone()
	cp.Config = e.Config.Clone()
	s.history = append(s.history, historyRow{entry: cp, seq: s.historySeq})
	return nil
}

func (s *historyStore) ListByPrompt(_ context.Context, promptID uuid.UUID) ([]models.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rows []historyRow
	for _, r := range s.history {
		if r.entry.PromptID == promptID {
			rows = append(rows, r)
		}
	}
	// Newest first; insertion sequence breaks timestamp ties.
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
	out := make([]models.HistoryEntry, len(rows))
	for i, r := range rows {
		out[i] = r.entry
		out[i].Body = r.entry.Body.Clone()
		out[i].Config = r.entry.Config.Clone()
	}
	return out, nil
}

func (s *historyStore) DeleteByPrompt(_ context.Context, promptID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.history[:0]
	deleted := 0
	for _, r := range s.history {
		if r.entry.PromptID == promptID {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.history = kept
	return deleted, nil
}

// -- llm models --

func (s *modelStore) Upsert(_ context.Context, m *models.LLMModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.llmModels[m.Name] = *m
	return nil
}

func (s *modelStore) GetByName(_ context.Context, name string) (*models.LLMModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.llmModels[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := m
	return &cp, nil
}

func (s *modelStore) List(_ context.Context, activeOnly bool) ([]models.LLMModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.LLMModel
	for _, m := range s.llmModels {
		if activeOnly && !m.Active {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *modelStore) ListByProvider(_ context.Context, provider models.Provider) ([]models.LLMModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.LLMModel
	for _, m := range s.llmModels {
		if m.Provider == provider {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// -- clones: stored rows must not alias caller slices/maps --

func cloneCollection(c models.Collection) models.Collection {
	return c
}

func cloneFolder(f models.Folder) models.Folder {
	f.SubfolderIDs = append([]uuid.UUID(nil), f.SubfolderIDs...)
	f.PromptIDs = append([]uuid.UUID(nil), f.PromptIDs...)
	return f
}

func clonePrompt(p models.Prompt) models.Prompt {
	p.Body = p.Body.Clone()
	p.Config = p.Config.Clone()
	p.Tags = append([]string(nil), p.Tags...)
	p.HistoryIDs = append([]uuid.UUID(nil), p.HistoryIDs...)
	return p
}

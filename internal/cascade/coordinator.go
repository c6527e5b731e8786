// Package cascade orchestrates recursive deletion across the hierarchy.
// Deletes are idempotent per step (a record already gone counts as removed by
// someone else, not a failure) and the containing entity is only removed after
// its children, so a partial failure never strands orphans under a deleted
// parent. The folder walker returns collected ids rather than "done" so the
// prompt domain can be cascaded by the caller without the folder tree knowing
// about prompts.
package cascade

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/college-predictor/prompt-manager-be/internal/models"
	"github.com/college-predictor/prompt-manager-be/internal/store"
)

type Coordinator struct {
	store *store.Store
}

func NewCoordinator(st *store.Store) *Coordinator {
	return &Coordinator{store: st}
}

// Counts tallies removed records per entity kind.
type Counts struct {
	Collections    int `json:"collections"`
	Folders        int `json:"folders"`
	Prompts        int `json:"prompts"`
	HistoryEntries int `json:"history_entries"`
}

// Result reports what a cascade actually removed against what it found to
// remove, so incomplete cleanup is visible to the caller.
type Result struct {
	Deleted  Counts `json:"deleted"`
	Expected Counts `json:"expected"`
}

func (r *Result) add(other Result) {
	r.Deleted.Collections += other.Deleted.Collections
	r.Deleted.Folders += other.Deleted.Folders
	r.Deleted.Prompts += other.Deleted.Prompts
	r.Deleted.HistoryEntries += other.Deleted.HistoryEntries
	r.Expected.Collections += other.Expected.Collections
	r.Expected.Folders += other.Expected.Folders
	r.Expected.Prompts += other.Expected.Prompts
	r.Expected.HistoryEntries += other.Expected.HistoryEntries
}

// Complete reports whether everything enumerated was removed.
func (r *Result) Complete() bool {
	return r.Deleted == r.Expected
}

// FolderDeletion is the outcome of a folder-tree delete: the depth-first
// collected folder ids (subfolders before their parent) and the prompt ids
// that were cascaded because they lived in those folders.
type FolderDeletion struct {
	FolderIDs []uuid.UUID `json:"folder_ids"`
	PromptIDs []uuid.UUID `json:"prompt_ids"`
}

// DeleteProject removes the project and everything transitively under it.
// The project record itself goes last.
func (c *Coordinator) DeleteProject(ctx context.Context, ownerID string, id uuid.UUID) (*Result, error) {
	if _, err := c.store.Projects.Get(ctx, id, ownerID); err != nil {
		return nil, err
	}

	collections, err := c.store.Collections.ListByProject(ctx, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("enumerate collections: %w", err)
	}

	// Each sub-result already carries its own expected counts, including the
	// collection row itself.
	result := &Result{}
	for _, coll := range collections {
		sub, err := c.DeleteCollection(ctx, ownerID, coll.ID)
		if sub != nil {
			result.add(*sub)
		}
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return result, fmt.Errorf("collection %s: %w", coll.ID, err)
		}
	}

	if err := c.store.Projects.Delete(ctx, id, ownerID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return result, fmt.Errorf("delete project: %w", err)
	}
	return result, nil
}

// DeleteCollection removes the collection's prompts (wherever they are
// nested), their history, its folder trees, and finally the collection row.
func (c *Coordinator) DeleteCollection(ctx context.Context, ownerID string, id uuid.UUID) (*Result, error) {
	if _, err := c.store.Collections.Get(ctx, id, ownerID); err != nil {
		return nil, err
	}

	result := &Result{}
	result.Expected.Collections = 1

	// Prompts carry their collection id regardless of folder nesting, so one
	// listing covers the whole subtree.
	prompts, err := c.store.Prompts.ListByCollection(ctx, id, ownerID)
	if err != nil {
		return result, fmt.Errorf("enumerate prompts: %w", err)
	}
	result.Expected.Prompts = len(prompts)
	for _, p := range prompts {
		result.Expected.HistoryEntries += len(p.HistoryIDs)
	}

	folders, err := c.store.Folders.ListByCollection(ctx, id, ownerID)
	if err != nil {
		return result, fmt.Errorf("enumerate folders: %w", err)
	}
	result.Expected.Folders = len(folders)

	for _, p := range prompts {
		removedHistory, removed, err := c.deletePromptRecord(ctx, ownerID, p.ID)
		result.Deleted.HistoryEntries += removedHistory
		if removed {
			result.Deleted.Prompts++
		}
		if err != nil {
			return result, fmt.Errorf("prompt %s: %w", p.ID, err)
		}
	}

	var roots []models.Folder
	for _, f := range folders {
		if f.ParentFolderID == nil {
			roots = append(roots, f)
		}
	}
	for _, root := range roots {
		ids, err := c.deleteFolderTree(ctx, ownerID, root.ID)
		result.Deleted.Folders += len(ids)
		if err != nil {
			return result, fmt.Errorf("folder tree %s: %w", root.ID, err)
		}
	}

	if err := c.store.Collections.Delete(ctx, id, ownerID); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return result, fmt.Errorf("delete collection: %w", err)
		}
	} else {
		result.Deleted.Collections++
	}
	return result, nil
}

// DeleteFolder removes a folder subtree and every prompt filed under it, and
// unlinks the folder from its parent.
func (c *Coordinator) DeleteFolder(ctx context.Context, ownerID string, id uuid.UUID) (*FolderDeletion, error) {
	f, err := c.store.Folders.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if f.ParentFolderID != nil {
		if parent, err := c.store.Folders.Get(ctx, *f.ParentFolderID, ownerID); err == nil {
			parent.SubfolderIDs = removeID(parent.SubfolderIDs, id)
			if err := c.store.Folders.Update(ctx, parent); err != nil && !errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("unlink from parent: %w", err)
			}
		}
	}

	// Prompt ids are gathered before the walk destroys the folder rows.
	promptIDs, err := c.collectPromptIDs(ctx, ownerID, f)
	if err != nil {
		return nil, err
	}

	folderIDs, err := c.deleteFolderTree(ctx, ownerID, id)
	if err != nil {
		return &FolderDeletion{FolderIDs: folderIDs}, err
	}

	deletion := &FolderDeletion{FolderIDs: folderIDs, PromptIDs: []uuid.UUID{}}
	for _, pid := range promptIDs {
		_, removed, err := c.deletePromptRecord(ctx, ownerID, pid)
		if removed {
			deletion.PromptIDs = append(deletion.PromptIDs, pid)
		}
		if err != nil {
			return deletion, fmt.Errorf("prompt %s: %w", pid, err)
		}
	}
	return deletion, nil
}

// DeletePrompt is the direct leaf deletion path: history first, then the
// prompt, then the folder back-reference. No cascade involved.
func (c *Coordinator) DeletePrompt(ctx context.Context, ownerID string, id uuid.UUID) error {
	p, err := c.store.Prompts.Get(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if _, _, err := c.deletePromptRecord(ctx, ownerID, id); err != nil {
		return err
	}

	if p.FolderID != nil {
		if folder, err := c.store.Folders.Get(ctx, *p.FolderID, ownerID); err == nil {
			folder.PromptIDs = removeID(folder.PromptIDs, id)
			if err := c.store.Folders.Update(ctx, folder); err != nil && !errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("unlink from folder: %w", err)
			}
		}
	}
	return nil
}

// deleteFolderTree removes the subtree depth-first and returns every folder id
// it deleted, subfolders before their parent. Sibling subtrees are walked
// concurrently; a failure is attributed to its subtree id.
func (c *Coordinator) deleteFolderTree(ctx context.Context, ownerID string, id uuid.UUID) ([]uuid.UUID, error) {
	f, err := c.store.Folders.Get(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var (
		mu  sync.Mutex
		ids []uuid.UUID
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, subID := range f.SubfolderIDs {
		g.Go(func() error {
			subIDs, err := c.deleteFolderTree(gctx, ownerID, subID)
			mu.Lock()
			ids = append(ids, subIDs...)
			mu.Unlock()
			if err != nil {
				return fmt.Errorf("subtree %s: %w", subID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ids, err
	}

	if err := c.store.Folders.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ids, nil
		}
		return ids, fmt.Errorf("delete folder %s: %w", id, err)
	}
	return append(ids, id), nil
}

// collectPromptIDs walks the subtree and gathers the prompt ids referenced by
// each folder.
func (c *Coordinator) collectPromptIDs(ctx context.Context, ownerID string, f *models.Folder) ([]uuid.UUID, error) {
	ids := append([]uuid.UUID(nil), f.PromptIDs...)
	for _, subID := range f.SubfolderIDs {
		sub, err := c.store.Folders.Get(ctx, subID, ownerID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		subIDs, err := c.collectPromptIDs(ctx, ownerID, sub)
		if err != nil {
			return nil, err
		}
		ids = append(ids, subIDs...)
	}
	return ids, nil
}

// deletePromptRecord removes a prompt's history then the prompt itself.
// Reports the number of history rows removed and whether the prompt row was
// removed by this call.
func (c *Coordinator) deletePromptRecord(ctx context.Context, ownerID string, id uuid.UUID) (int, bool, error) {
	removedHistory, err := c.store.History.DeleteByPrompt(ctx, id)
	if err != nil {
		return 0, false, fmt.Errorf("delete history: %w", err)
	}

	if err := c.store.Prompts.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return removedHistory, false, nil
		}
		return removedHistory, false, fmt.Errorf("delete prompt: %w", err)
	}
	return removedHistory, true, nil
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

package cascade

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/college-predictor/prompt-manager-be/internal/hierarchy"
	"github.com/college-predictor/prompt-manager-be/internal/models"
	"github.com/college-predictor/prompt-manager-be/internal/prompthistory"
	"github.com/college-predictor/prompt-manager-be/internal/store"
	"github.com/college-predictor/prompt-manager-be/internal/store/memory"
)

type fixture struct {
	store       *store.Store
	hierarchy   *hierarchy.Service
	history     *prompthistory.Service
	coordinator *Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	return &fixture{
		store:       st,
		hierarchy:   hierarchy.NewService(st),
		history:     prompthistory.NewService(st),
		coordinator: NewCoordinator(st),
	}
}

func (fx *fixture) project(t *testing.T, owner, name string) *models.Project {
	t.Helper()
	p, err := fx.hierarchy.CreateProject(context.Background(), owner, hierarchy.CreateProjectInput{Name: name})
	require.NoError(t, err)
	return p
}

func (fx *fixture) collection(t *testing.T, owner string, projectID uuid.UUID, name string) *models.Collection {
	t.Helper()
	c, err := fx.hierarchy.CreateCollection(context.Background(), owner, projectID, hierarchy.CreateCollectionInput{Name: name})
	require.NoError(t, err)
	return c
}

func (fx *fixture) folder(t *testing.T, owner string, collectionID uuid.UUID, name string, parentID *uuid.UUID) *models.Folder {
	t.Helper()
	f, err := fx.hierarchy.CreateFolder(context.Background(), owner, collectionID, hierarchy.CreateFolderInput{Name: name, ParentFolderID: parentID})
	require.NoError(t, err)
	return f
}

func (fx *fixture) prompt(t *testing.T, owner string, collectionID uuid.UUID, title string, folderID *uuid.UUID) *models.Prompt {
	t.Helper()
	p, err := fx.hierarchy.CreatePrompt(context.Background(), owner, collectionID, hierarchy.CreatePromptInput{
		Title:    title,
		Body:     models.MessageMap{models.RoleUser: {"v1 of " + title}},
		FolderID: folderID,
	})
	require.NoError(t, err)
	return p
}

// edit bumps the prompt body so a history entry exists.
func (fx *fixture) edit(t *testing.T, owner string, promptID uuid.UUID, version string) {
	t.Helper()
	_, err := fx.history.UpdatePrompt(context.Background(), owner, promptID, prompthistory.PromptPatch{
		Body: models.MessageMap{models.RoleUser: {version}},
	})
	require.NoError(t, err)
}

func TestDeleteProjectCascades(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	const owner = "owner-1"

	project := fx.project(t, owner, "alpha")
	c1 := fx.collection(t, owner, project.ID, "c1")
	c2 := fx.collection(t, owner, project.ID, "c2")

	root := fx.folder(t, owner, c1.ID, "root", nil)
	p1 := fx.prompt(t, owner, c1.ID, "p1", nil)
	p2 := fx.prompt(t, owner, c1.ID, "p2", &root.ID)
	p3 := fx.prompt(t, owner, c2.ID, "p3", nil)

	// Two history entries per prompt.
	for _, p := range []*models.Prompt{p1, p2, p3} {
		fx.edit(t, owner, p.ID, "v2")
		fx.edit(t, owner, p.ID, "v3")
	}

	result, err := fx.coordinator.DeleteProject(ctx, owner, project.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Deleted.Collections)
	assert.Equal(t, 1, result.Deleted.Folders)
	assert.Equal(t, 3, result.Deleted.Prompts)
	assert.Equal(t, 6, result.Deleted.HistoryEntries)
	assert.True(t, result.Complete())

	// Nothing survives.
	_, err = fx.store.Projects.Get(ctx, project.ID, owner)
	assert.ErrorIs(t, err, store.ErrNotFound)
	for _, p := range []*models.Prompt{p1, p2, p3} {
		_, err = fx.store.Prompts.Get(ctx, p.ID, owner)
		assert.ErrorIs(t, err, store.ErrNotFound)
		entries, err := fx.store.History.ListByPrompt(ctx, p.ID)
		require.NoError(t, err)
		assert.Empty(t, entries)
	}
}

func TestDeleteProjectOwnershipScoped(t *testing.T) {
	fx := newFixture(t)
	project := fx.project(t, "owner-1", "alpha")

	_, err := fx.coordinator.DeleteProject(context.Background(), "owner-2", project.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Still there for its real owner.
	_, err = fx.store.Projects.Get(context.Background(), project.ID, "owner-1")
	assert.NoError(t, err)
}

func TestDeleteCollectionCoversNestedPrompts(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	const owner = "owner-1"

	project := fx.project(t, owner, "alpha")
	coll := fx.collection(t, owner, project.ID, "c1")
	keep := fx.collection(t, owner, project.ID, "keep")

	root := fx.folder(t, owner, coll.ID, "root", nil)
	child := fx.folder(t, owner, coll.ID, "child", &root.ID)
	fx.prompt(t, owner, coll.ID, "at-root", nil)
	fx.prompt(t, owner, coll.ID, "in-folder", &child.ID)
	kept := fx.prompt(t, owner, keep.ID, "survivor", nil)

	result, err := fx.coordinator.DeleteCollection(ctx, owner, coll.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Deleted.Collections)
	assert.Equal(t, 2, result.Deleted.Folders)
	assert.Equal(t, 2, result.Deleted.Prompts)
	assert.True(t, result.Complete())

	// The sibling collection and its prompt are untouched.
	_, err = fx.store.Collections.Get(ctx, keep.ID, owner)
	assert.NoError(t, err)
	_, err = fx.store.Prompts.Get(ctx, kept.ID, owner)
	assert.NoError(t, err)
}

func TestDeleteFolderReturnsSubtreeIDs(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	const owner = "owner-1"

	project := fx.project(t, owner, "alpha")
	coll := fx.collection(t, owner, project.ID, "c1")

	root := fx.folder(t, owner, coll.ID, "root", nil)
	childA := fx.folder(t, owner, coll.ID, "child-a", &root.ID)
	childB := fx.folder(t, owner, coll.ID, "child-b", &root.ID)
	grand := fx.folder(t, owner, coll.ID, "grand", &childA.ID)

	pRoot := fx.prompt(t, owner, coll.ID, "p-root", &root.ID)
	pGrand := fx.prompt(t, owner, coll.ID, "p-grand", &grand.ID)
	pOutside := fx.prompt(t, owner, coll.ID, "p-outside", nil)

	deletion, err := fx.coordinator.DeleteFolder(ctx, owner, root.ID)
	require.NoError(t, err)

	assert.ElementsMatch(t, []uuid.UUID{root.ID, childA.ID, childB.ID, grand.ID}, deletion.FolderIDs)
	assert.ElementsMatch(t, []uuid.UUID{pRoot.ID, pGrand.ID}, deletion.PromptIDs)

	// Parent comes after its subfolders in the depth-first ordering.
	assert.Equal(t, root.ID, deletion.FolderIDs[len(deletion.FolderIDs)-1])

	// The collection and the prompt outside the folder survive.
	_, err = fx.store.Collections.Get(ctx, coll.ID, owner)
	assert.NoError(t, err)
	_, err = fx.store.Prompts.Get(ctx, pOutside.ID, owner)
	assert.NoError(t, err)
}

func TestDeleteSubfolderUnlinksFromParent(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	const owner = "owner-1"

	project := fx.project(t, owner, "alpha")
	coll := fx.collection(t, owner, project.ID, "c1")
	root := fx.folder(t, owner, coll.ID, "root", nil)
	child := fx.folder(t, owner, coll.ID, "child", &root.ID)

	_, err := fx.coordinator.DeleteFolder(ctx, owner, child.ID)
	require.NoError(t, err)

	reloaded, err := fx.store.Folders.Get(ctx, root.ID, owner)
	require.NoError(t, err)
	assert.NotContains(t, reloaded.SubfolderIDs, child.ID)
}

func TestDeletePromptUnlinksFolder(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	const owner = "owner-1"

	project := fx.project(t, owner, "alpha")
	coll := fx.collection(t, owner, project.ID, "c1")
	folder := fx.folder(t, owner, coll.ID, "root", nil)
	p := fx.prompt(t, owner, coll.ID, "p1", &folder.ID)
	fx.edit(t, owner, p.ID, "v2")

	require.NoError(t, fx.coordinator.DeletePrompt(ctx, owner, p.ID))

	_, err := fx.store.Prompts.Get(ctx, p.ID, owner)
	assert.ErrorIs(t, err, store.ErrNotFound)

	entries, err := fx.store.History.ListByPrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	reloaded, err := fx.store.Folders.Get(ctx, folder.ID, owner)
	require.NoError(t, err)
	assert.NotContains(t, reloaded.PromptIDs, p.ID)

	// The folder itself is untouched by a prompt delete.
	assert.NotNil(t, reloaded)
}

func TestDeleteEmptyProject(t *testing.T) {
	fx := newFixture(t)
	project := fx.project(t, "owner-1", "empty")

	result, err := fx.coordinator.DeleteProject(context.Background(), "owner-1", project.ID)
	require.NoError(t, err)
	assert.Equal(t, Counts{}, result.Deleted)
	assert.True(t, result.Complete())
}

package hierarchy

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/college-predictor/prompt-manager-be/internal/models"
	"github.com/college-predictor/prompt-manager-be/internal/store"
	"github.com/college-predictor/prompt-manager-be/internal/store/memory"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(memory.New())
}

func mustProject(t *testing.T, svc *Service, ownerID, name string) *models.Project {
	t.Helper()
	p, err := svc.CreateProject(context.Background(), ownerID, CreateProjectInput{Name: name})
	require.NoError(t, err)
	return p
}

func mustCollection(t *testing.T, svc *Service, ownerID string, projectID uuid.UUID, name string) *models.Collection {
	t.Helper()
	c, err := svc.CreateCollection(context.Background(), ownerID, projectID, CreateCollectionInput{Name: name})
	require.NoError(t, err)
	return c
}

func TestCreateProjectValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateProject(context.Background(), "owner-1", CreateProjectInput{Name: ""})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}

func TestCreateProjectDuplicateName(t *testing.T) {
	svc := newTestService(t)
	mustProject(t, svc, "owner-1", "alpha")

	_, err := svc.CreateProject(context.Background(), "owner-1", CreateProjectInput{Name: "alpha"})
	assert.ErrorIs(t, err, store.ErrDuplicateName)

	// Case differences do not dodge the rule.
	_, err = svc.CreateProject(context.Background(), "owner-1", CreateProjectInput{Name: "ALPHA"})
	assert.ErrorIs(t, err, store.ErrDuplicateName)
}

func TestSameProjectNameAcrossOwners(t *testing.T) {
	svc := newTestService(t)
	mustProject(t, svc, "owner-1", "alpha")

	// Uniqueness is per owner, so another owner can reuse the name.
	p, err := svc.CreateProject(context.Background(), "owner-2", CreateProjectInput{Name: "alpha"})
	require.NoError(t, err)
	assert.Equal(t, "owner-2", p.OwnerID)
}

func TestOwnershipIsolation(t *testing.T) {
	svc := newTestService(t)
	p := mustProject(t, svc, "owner-1", "alpha")

	_, err := svc.GetProject(context.Background(), "owner-2", p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	projects, err := svc.ListProjects(context.Background(), "owner-2")
	require.NoError(t, err)
	assert.Empty(t, projects)

	// A collection cannot be created under a foreign project.
	_, err = svc.CreateCollection(context.Background(), "owner-2", p.ID, CreateCollectionInput{Name: "c"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateProjectPartial(t *testing.T) {
	svc := newTestService(t)
	p := mustProject(t, svc, "owner-1", "alpha")

	desc := "new description"
	updated, err := svc.UpdateProject(context.Background(), "owner-1", p.ID, ProjectPatch{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "alpha", updated.Name)
	assert.Equal(t, "new description", updated.Description)
}

func TestUpdateProjectRenameToTakenName(t *testing.T) {
	svc := newTestService(t)
	mustProject(t, svc, "owner-1", "alpha")
	p := mustProject(t, svc, "owner-1", "beta")

	name := "alpha"
	_, err := svc.UpdateProject(context.Background(), "owner-1", p.ID, ProjectPatch{Name: &name})
	assert.ErrorIs(t, err, store.ErrDuplicateName)

	// Renaming to its own name is a no-op, not a conflict.
	name = "beta"
	updated, err := svc.UpdateProject(context.Background(), "owner-1", p.ID, ProjectPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "beta", updated.Name)
}

func TestCollectionNameUniquePerProject(t *testing.T) {
	svc := newTestService(t)
	p := mustProject(t, svc, "owner-1", "alpha")
	mustCollection(t, svc, "owner-1", p.ID, "shared")

	_, err := svc.CreateCollection(context.Background(), "owner-1", p.ID, CreateCollectionInput{Name: "shared"})
	assert.ErrorIs(t, err, store.ErrDuplicateName)

	// Same name under a different project is fine.
	p2 := mustProject(t, svc, "owner-1", "beta")
	_, err = svc.CreateCollection(context.Background(), "owner-1", p2.ID, CreateCollectionInput{Name: "shared"})
	assert.NoError(t, err)
}

func TestFolderParentValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	p := mustProject(t, svc, "owner-1", "alpha")
	c1 := mustCollection(t, svc, "owner-1", p.ID, "c1")
	c2 := mustCollection(t, svc, "owner-1", p.ID, "c2")

	parent, err := svc.CreateFolder(ctx, "owner-1", c1.ID, CreateFolderInput{Name: "root"})
	require.NoError(t, err)

	// Parent must exist.
	phantom := uuid.New()
	_, err = svc.CreateFolder(ctx, "owner-1", c1.ID, CreateFolderInput{Name: "child", ParentFolderID: &phantom})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "parent_folder_id", verr.Field)

	// Parent must live in the same collection.
	_, err = svc.CreateFolder(ctx, "owner-1", c2.ID, CreateFolderInput{Name: "child", ParentFolderID: &parent.ID})
	require.ErrorAs(t, err, &verr)

	// A valid nesting links the child into the parent.
	child, err := svc.CreateFolder(ctx, "owner-1", c1.ID, CreateFolderInput{Name: "child", ParentFolderID: &parent.ID})
	require.NoError(t, err)

	reloaded, err := svc.GetFolder(ctx, "owner-1", parent.ID)
	require.NoError(t, err)
	assert.Contains(t, reloaded.SubfolderIDs, child.ID)

	// Only the parentless folder is a root.
	roots, err := svc.ListRootFolders(ctx, "owner-1", c1.ID)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, parent.ID, roots[0].ID)
}

func TestPromptTitleUniquePerProject(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	p := mustProject(t, svc, "owner-1", "alpha")
	c1 := mustCollection(t, svc, "owner-1", p.ID, "c1")
	c2 := mustCollection(t, svc, "owner-1", p.ID, "c2")

	body := models.MessageMap{models.RoleUser: {"hello"}}
	_, err := svc.CreatePrompt(ctx, "owner-1", c1.ID, CreatePromptInput{Title: "greet", Body: body})
	require.NoError(t, err)

	// Uniqueness spans collections within the project.
	_, err = svc.CreatePrompt(ctx, "owner-1", c2.ID, CreatePromptInput{Title: "greet", Body: body})
	assert.ErrorIs(t, err, store.ErrDuplicateName)
}

func TestCreatePromptInFolder(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	p := mustProject(t, svc, "owner-1", "alpha")
	c := mustCollection(t, svc, "owner-1", p.ID, "c1")
	f, err := svc.CreateFolder(ctx, "owner-1", c.ID, CreateFolderInput{Name: "root"})
	require.NoError(t, err)

	body := models.MessageMap{models.RoleUser: {"hello"}}
	created, err := svc.CreatePrompt(ctx, "owner-1", c.ID, CreatePromptInput{Title: "greet", Body: body, FolderID: &f.ID})
	require.NoError(t, err)
	assert.Equal(t, p.ID, created.ProjectID)

	reloaded, err := svc.GetFolder(ctx, "owner-1", f.ID)
	require.NoError(t, err)
	assert.Contains(t, reloaded.PromptIDs, created.ID)
}

func TestCreatePromptFolderInOtherCollection(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	p := mustProject(t, svc, "owner-1", "alpha")
	c1 := mustCollection(t, svc, "owner-1", p.ID, "c1")
	c2 := mustCollection(t, svc, "owner-1", p.ID, "c2")
	f, err := svc.CreateFolder(ctx, "owner-1", c1.ID, CreateFolderInput{Name: "root"})
	require.NoError(t, err)

	body := models.MessageMap{models.RoleUser: {"hello"}}
	_, err = svc.CreatePrompt(ctx, "owner-1", c2.ID, CreatePromptInput{Title: "greet", Body: body, FolderID: &f.ID})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "folder_id", verr.Field)
}

func TestCreatePromptRequiresBody(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	p := mustProject(t, svc, "owner-1", "alpha")
	c := mustCollection(t, svc, "owner-1", p.ID, "c1")

	_, err := svc.CreatePrompt(ctx, "owner-1", c.ID, CreatePromptInput{Title: "greet"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "body", verr.Field)
}

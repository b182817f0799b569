package category

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilldesk/tilldesk-backend/internal/platform/apperr"
)

type fakeRepo struct {
	categories map[uuid.UUID]*Category
	productRef map[uuid.UUID]bool // category id -> has products
	createErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		categories: make(map[uuid.UUID]*Category),
		productRef: make(map[uuid.UUID]bool),
	}
}

func (f *fakeRepo) Create(ctx context.Context, c *Category) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.categories[c.ID] = c
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, apperr.NotFound("category not found")
	}
	return c, nil
}

func (f *fakeRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*Category, error) {
	var roots, children []*Category
	for _, c := range f.categories {
		if c.BusinessID != businessID {
			continue
		}
		if c.ParentID == nil {
			roots = append(roots, c)
		} else {
			children = append(children, c)
		}
	}
	// (level, sort_order) ordering like the real repository
	sortBySortOrder(roots)
	sortBySortOrder(children)
	return append(roots, children...), nil
}

func sortBySortOrder(cs []*Category) {
	for i := 1; i < len(cs); i++ {
		for j := i; j > 0 && cs[j-1].SortOrder > cs[j].SortOrder; j-- {
			cs[j-1], cs[j] = cs[j], cs[j-1]
		}
	}
}

func (f *fakeRepo) CountByBusiness(ctx context.Context, businessID uuid.UUID) (int, error) {
	n := 0
	for _, c := range f.categories {
		if c.BusinessID == businessID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	for _, c := range f.categories {
		if c.ParentID != nil && *c.ParentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) HasProducts(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.productRef[id], nil
}

func (f *fakeRepo) Update(ctx context.Context, c *Category) error {
	f.categories[c.ID] = c
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.categories, id)
	return nil
}

func TestCreateCategory_EmptyNameFailsBeforeAnyWrite(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = assert.AnError // would surface if Create were reached
	svc := NewService(repo)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := svc.CreateCategory(context.Background(), uuid.New(), CreateCategoryRequest{Name: name})
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	}
	assert.Empty(t, repo.categories)
}

func TestCreateCategory_LevelDerivation(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	businessID := uuid.New()

	root, err := svc.CreateCategory(context.Background(), businessID, CreateCategoryRequest{Name: "Drinks"})
	require.NoError(t, err)
	assert.Nil(t, root.ParentID)
	assert.Equal(t, 0, root.Level)

	child, err := svc.CreateCategory(context.Background(), businessID, CreateCategoryRequest{
		Name:     "Hot Drinks",
		ParentID: root.ID.String(),
	})
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, root.ID, *child.ParentID)
	assert.Equal(t, 1, child.Level)
}

func TestCreateCategory_RejectsNestingUnderSubcategory(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	businessID := uuid.New()

	root, err := svc.CreateCategory(context.Background(), businessID, CreateCategoryRequest{Name: "Food"})
	require.NoError(t, err)
	child, err := svc.CreateCategory(context.Background(), businessID, CreateCategoryRequest{
		Name: "Snacks", ParentID: root.ID.String(),
	})
	require.NoError(t, err)

	_, err = svc.CreateCategory(context.Background(), businessID, CreateCategoryRequest{
		Name: "Chips", ParentID: child.ID.String(),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateCategory_RejectsParentFromAnotherBusiness(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	other, err := svc.CreateCategory(context.Background(), uuid.New(), CreateCategoryRequest{Name: "Theirs"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(context.Background(), uuid.New(), CreateCategoryRequest{
		Name: "Mine", ParentID: other.ID.String(),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateCategory_SortOrderIsCountPlusOne(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	businessID := uuid.New()

	first, err := svc.CreateCategory(context.Background(), businessID, CreateCategoryRequest{Name: "A"})
	require.NoError(t, err)
	second, err := svc.CreateCategory(context.Background(), businessID, CreateCategoryRequest{Name: "B"})
	require.NoError(t, err)

	assert.Equal(t, 1, first.SortOrder)
	assert.Equal(t, 2, second.SortOrder)
}

func TestDeleteCategory_Guards(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	businessID := uuid.New()
	ctx := context.Background()

	root, err := svc.CreateCategory(ctx, businessID, CreateCategoryRequest{Name: "Menu"})
	require.NoError(t, err)
	child, err := svc.CreateCategory(ctx, businessID, CreateCategoryRequest{
		Name: "Mains", ParentID: root.ID.String(),
	})
	require.NoError(t, err)

	// Blocked: root still has a child; both survive.
	err = svc.DeleteCategory(ctx, businessID, root.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	list, err := svc.ListCategories(ctx, businessID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	// Blocked: child has products assigned.
	repo.productRef[child.ID] = true
	err = svc.DeleteCategory(ctx, businessID, child.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Unblocked child deletes, then the root follows.
	repo.productRef[child.ID] = false
	require.NoError(t, svc.DeleteCategory(ctx, businessID, child.ID))
	require.NoError(t, svc.DeleteCategory(ctx, businessID, root.ID))

	list, err = svc.ListCategories(ctx, businessID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateCategory_RefusesDemotingParentWithChildren(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	businessID := uuid.New()
	ctx := context.Background()

	a, err := svc.CreateCategory(ctx, businessID, CreateCategoryRequest{Name: "A"})
	require.NoError(t, err)
	b, err := svc.CreateCategory(ctx, businessID, CreateCategoryRequest{Name: "B"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, businessID, CreateCategoryRequest{Name: "A1", ParentID: a.ID.String()})
	require.NoError(t, err)

	_, err = svc.UpdateCategory(ctx, businessID, a.ID, CreateCategoryRequest{
		Name: "A", ParentID: b.ID.String(),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestCategoryTree_GroupsChildrenUnderRoots(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	businessID := uuid.New()
	ctx := context.Background()

	drinks, err := svc.CreateCategory(ctx, businessID, CreateCategoryRequest{Name: "Drinks"})
	require.NoError(t, err)
	food, err := svc.CreateCategory(ctx, businessID, CreateCategoryRequest{Name: "Food"})
	require.NoError(t, err)
	hot, err := svc.CreateCategory(ctx, businessID, CreateCategoryRequest{Name: "Hot", ParentID: drinks.ID.String()})
	require.NoError(t, err)
	cold, err := svc.CreateCategory(ctx, businessID, CreateCategoryRequest{Name: "Cold", ParentID: drinks.ID.String()})
	require.NoError(t, err)

	tree, err := svc.CategoryTree(ctx, businessID)
	require.NoError(t, err)
	require.Len(t, tree, 2)

	assert.Equal(t, drinks.ID, tree[0].ID)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, hot.ID, tree[0].Children[0].ID)
	assert.Equal(t, cold.ID, tree[0].Children[1].ID)

	assert.Equal(t, food.ID, tree[1].ID)
	assert.Empty(t, tree[1].Children)
}

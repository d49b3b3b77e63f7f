package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/homelab/items/internal/domain"
	"github.com/jbweber/homelab/items/internal/repository"
	"github.com/jbweber/homelab/items/internal/testutil"
)

// fakeItemRepository is an in-memory ItemRepository that records calls.
type fakeItemRepository struct {
	items   map[int64]domain.Item
	nextID  int64
	saves   int
	deletes []int64
	err     error
}

func newFakeItemRepository() *fakeItemRepository {
	return &fakeItemRepository{items: make(map[int64]domain.Item)}
}

func (f *fakeItemRepository) Save(_ context.Context, item domain.Item) (domain.Item, error) {
	f.saves++
	if f.err != nil {
		return domain.Item{}, f.err
	}
	if item.IsNew() {
		f.nextID++
		item.ID = f.nextID
	} else if _, ok := f.items[item.ID]; !ok {
		return domain.Item{}, fmt.Errorf("item with ID %d: %w", item.ID, repository.ErrNotFound)
	}
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeItemRepository) FindByID(_ context.Context, id int64) (domain.Item, error) {
	if f.err != nil {
		return domain.Item{}, f.err
	}
	item, ok := f.items[id]
	if !ok {
		return domain.Item{}, fmt.Errorf("item with ID %d: %w", id, repository.ErrNotFound)
	}
	return item, nil
}

func (f *fakeItemRepository) FindAll(_ context.Context) ([]domain.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	items := make([]domain.Item, 0, len(f.items))
	for id := int64(1); id <= f.nextID; id++ {
		if item, ok := f.items[id]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func (f *fakeItemRepository) DeleteByID(_ context.Context, id int64) error {
	f.deletes = append(f.deletes, id)
	delete(f.items, id)
	return nil
}

func (f *fakeItemRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	_, ok := f.items[id]
	return ok, nil
}

func newTestService(repo repository.ItemRepository) *ItemService {
	return NewItemService(repo, zerolog.Nop())
}

func TestItemService_Create_EmptyName(t *testing.T) {
	repo := newFakeItemRepository()
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), domain.NewItem("", "desc"))
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
	assert.Equal(t, "name: must not be empty", verr.Error())
	assert.Zero(t, repo.saves, "invalid item must not reach storage")
}

func TestItemService_Create(t *testing.T) {
	repo := newFakeItemRepository()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), domain.NewItem("Widget", ""))
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, "Widget", created.Name)
}

func TestItemService_Create_IgnoresCallerID(t *testing.T) {
	repo := newFakeItemRepository()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), domain.Item{ID: 500, Name: "Widget"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
}

func TestItemService_Create_StorageError(t *testing.T) {
	repo := newFakeItemRepository()
	repo.err = errors.New("disk full")
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), domain.NewItem("Widget", ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestItemService_FindByID_NotFound(t *testing.T) {
	svc := newTestService(newFakeItemRepository())

	_, err := svc.FindByID(context.Background(), 999999)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, int64(999999), nf.ID)
	assert.Contains(t, err.Error(), "999999")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestItemService_FindByID_StorageError(t *testing.T) {
	repo := newFakeItemRepository()
	repo.err = errors.New("connection refused")
	svc := newTestService(repo)

	_, err := svc.FindByID(context.Background(), 1)
	require.Error(t, err)

	var nf *NotFoundError
	assert.False(t, errors.As(err, &nf))
}

func TestItemService_Update(t *testing.T) {
	repo := newFakeItemRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.NewItem("A", "B"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, domain.Item{ID: created.ID, Name: "A", Description: "C"})
	require.NoError(t, err)
	assert.Equal(t, domain.Item{ID: created.ID, Name: "A", Description: "C"}, updated)

	stored, err := svc.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestItemService_Update_NotFound(t *testing.T) {
	repo := newFakeItemRepository()
	svc := newTestService(repo)

	_, err := svc.Update(context.Background(), domain.Item{ID: 42, Name: "x"})

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, int64(42), nf.ID)
	assert.Zero(t, repo.saves)
}

func TestItemService_Delete(t *testing.T) {
	repo := newFakeItemRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.NewItem("Widget", ""))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.FindByID(ctx, created.ID)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestItemService_Delete_NotFound(t *testing.T) {
	repo := newFakeItemRepository()
	svc := newTestService(repo)

	err := svc.Delete(context.Background(), 7)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Empty(t, repo.deletes, "missing item must not be deleted")
}

func TestItemService_FindAll(t *testing.T) {
	repo := newFakeItemRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	for _, name := range []string{"one", "two", "three"} {
		_, err := svc.Create(ctx, domain.NewItem(name, ""))
		require.NoError(t, err)
	}

	items, err := svc.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "one", items[0].Name)
	assert.Equal(t, "three", items[2].Name)
}

func TestItemService_WithSQLite(t *testing.T) {
	db, cleanup := testutil.SetupTestDBWithMigrations(t, t.Name())
	defer cleanup()

	repo := repository.NewItemRepository(db)
	defer repo.Close()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.NewItem("Widget", "blue"))
	require.NoError(t, err)

	first, err := svc.FindByID(ctx, created.ID)
	require.NoError(t, err)
	second, err := svc.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, first.Equal(second))

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.FindByID(ctx, created.ID)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

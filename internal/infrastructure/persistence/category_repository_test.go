package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	tops, err := catalog.NewCategory("Tops", "", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, tops))
	ankara, err := catalog.NewCategory("Ankara", "", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, ankara))

	t.Run("find by slug", func(t *testing.T) {
		got, err := repo.FindBySlug(ctx, "tops")
		require.NoError(t, err)
		assert.Equal(t, tops.ID, got.ID)
	})

	t.Run("missing category", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		dup, err := catalog.NewCategory("Tops again", "tops", "")
		require.NoError(t, err)
		err = repo.Save(ctx, dup)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, shared.CodeAlreadyExists, de.Code)
	})

	t.Run("ordered and limited", func(t *testing.T) {
		all, err := repo.FindAll(ctx, false, 0)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Ankara", all[0].Name)

		one, err := repo.FindAll(ctx, false, 1)
		require.NoError(t, err)
		assert.Len(t, one, 1)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, ankara.ID))
		assert.ErrorIs(t, repo.Delete(ctx, ankara.ID), shared.ErrNotFound)
	})
}

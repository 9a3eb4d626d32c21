package content

import (
	"context"
	"errors"
	"testing"

	"github.com/rankforge/site-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureUniqueExcludesSelf(t *testing.T) {
	owners := map[string]uint{"seo-tips": 7}
	taken := func(_ context.Context, value string, excludeID uint) (bool, error) {
		id, ok := owners[value]
		return ok && id != excludeID, nil
	}
	ctx := context.Background()

	assert.NoError(t, EnsureUnique(ctx, "category", "slug", "seo-tips", 7, taken))
	assert.NoError(t, EnsureUnique(ctx, "category", "slug", "fresh", 0, taken))

	err := EnsureUnique(ctx, "category", "slug", "seo-tips", 0, taken)
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))
	assert.Equal(t, "A category with this slug already exists", err.Error())
}

func TestEnsureUniquePropagatesLookupFailure(t *testing.T) {
	taken := func(context.Context, string, uint) (bool, error) { return false, errors.New("boom") }
	err := EnsureUnique(context.Background(), "author", "email", "a@b.co", 0, taken)
	require.Error(t, err)
	assert.False(t, errs.IsConflict(err))
}

func TestEnsureAuthorDeletable(t *testing.T) {
	count := func(_ context.Context, id uint) (int64, error) {
		if id == 1 {
			return 3, nil
		}
		return 0, nil
	}
	err := EnsureAuthorDeletable(context.Background(), 1, count)
	require.Error(t, err)
	assert.True(t, errs.IsPreconditionFailed(err))

	var apiErr *errs.ApiErr
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Cannot delete author. They have 3 article(s) assigned to them.", apiErr.Message())
	assert.Equal(t, 400, apiErr.StatusCode)

	assert.NoError(t, EnsureAuthorDeletable(context.Background(), 2, count))
}

func TestEnsureCategoryDeletable(t *testing.T) {
	count := func(context.Context, uint) (int64, error) { return 1, nil }
	err := EnsureCategoryDeletable(context.Background(), 4, count)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot delete category. It has 1 article(s) assigned to it.")
}

func TestEnsureExists(t *testing.T) {
	exists := func(_ context.Context, id uint) (bool, error) { return id == 1, nil }
	assert.NoError(t, EnsureExists(context.Background(), "author", "author_id", 1, exists))

	err := EnsureExists(context.Background(), "author", "author_id", 9, exists)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

package content

import (
	"context"
	"fmt"

	"github.com/rankforge/site-backend/errs"
)

// TakenFunc reports whether value is already used by a row other than excludeID.
// excludeID is zero on create.
type TakenFunc func(ctx context.Context, value string, excludeID uint) (bool, error)

// CountFunc counts the rows referencing id.
type CountFunc func(ctx context.Context, id uint) (int64, error)

// EnsureUnique returns a ConflictError naming field when value collides with another row.
// The check and the following write are not atomic; a concurrent writer can still trip the
// unique index, which surfaces through errs.NewDatabaseError as the same conflict.
func EnsureUnique(ctx context.Context, entity, field, value string, excludeID uint, taken TakenFunc) error {
	exists, err := taken(ctx, value, excludeID)
	if err != nil {
		return errs.NewDatabaseError("check "+field+" of", entity, err)
	}
	if exists {
		return errs.NewConflictError(entity, field)
	}
	return nil
}

// EnsureAuthorDeletable refuses to delete an author that still has articles.
func EnsureAuthorDeletable(ctx context.Context, authorID uint, count CountFunc) error {
	n, err := count(ctx, authorID)
	if err != nil {
		return errs.NewDatabaseError("count articles of", "author", err)
	}
	if n > 0 {
		return errs.NewPreconditionFailedError(
			fmt.Sprintf("Cannot delete author. They have %d article(s) assigned to them.", n))
	}
	return nil
}

// EnsureCategoryDeletable refuses to delete a category that still has articles.
func EnsureCategoryDeletable(ctx context.Context, categoryID uint, count CountFunc) error {
	n, err := count(ctx, categoryID)
	if err != nil {
		return errs.NewDatabaseError("count articles of", "category", err)
	}
	if n > 0 {
		return errs.NewPreconditionFailedError(
			fmt.Sprintf("Cannot delete category. It has %d article(s) assigned to it.", n))
	}
	return nil
}

// EnsureExists turns a missing referenced row into a ValidationError on field.
func EnsureExists(ctx context.Context, entity, field string, id uint, exists func(context.Context, uint) (bool, error)) error {
	ok, err := exists(ctx, id)
	if err != nil {
		return errs.NewDatabaseError("look up", entity, err)
	}
	if !ok {
		return errs.NewValidationError(field, fmt.Sprintf("Referenced %s does not exist", entity))
	}
	return nil
}

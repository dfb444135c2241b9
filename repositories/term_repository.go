package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/curatehub/chronicle-backend/models"
	"github.com/curatehub/chronicle-backend/repositories/dbmodels"
)

type TermRepository struct{}

func NewTermRepository() TermRepository {
	return TermRepository{}
}

func (repo TermRepository) PropertyIdByTerm(ctx context.Context, exec Executor, term string) (int64, bool, error) {
	return repo.idByTerm(ctx, exec, dbmodels.TABLE_PROPERTIES, term)
}

func (repo TermRepository) ClassIdByTerm(ctx context.Context, exec Executor, term string) (int64, bool, error) {
	return repo.idByTerm(ctx, exec, dbmodels.TABLE_RESOURCE_CLASSES, term)
}

func (repo TermRepository) idByTerm(ctx context.Context, exec Executor, table, term string) (int64, bool, error) {
	prefix, localName, found := strings.Cut(term, ":")
	if !found || prefix == "" || localName == "" {
		return 0, false, errors.Wrap(models.ErrUnknownField,
			fmt.Sprintf("%q is not a prefix:local_name term", term))
	}

	query := NewQueryBuilder().
		Select("t.id").
		From(table + " t").
		Join(dbmodels.TABLE_VOCABULARIES + " v ON v.id = t.vocabulary_id").
		Where(squirrel.Eq{"v.prefix": prefix}).
		Where(squirrel.Eq{"t.local_name": localName})

	id, err := SqlToOptionalRow(ctx, exec, query, func(row pgx.CollectableRow) (int64, error) {
		var id int64
		err := row.Scan(&id)
		return id, err
	})
	if err != nil {
		return 0, false, err
	}
	if id == nil {
		return 0, false, nil
	}
	return *id, true, nil
}

// TermResolver memoizes term lookups for the lifetime of one unit of work.
// Instantiate a fresh resolver per request; it is not safe for concurrent
// use.
type TermResolver struct {
	repo TermRepository
	exec Executor

	properties map[string]int64
	classes    map[string]int64
}

func NewTermResolver(repo TermRepository, exec Executor) *TermResolver {
	return &TermResolver{
		repo:       repo,
		exec:       exec,
		properties: map[string]int64{},
		classes:    map[string]int64{},
	}
}

func (r *TermResolver) PropertyId(ctx context.Context, term string) (int64, bool, error) {
	if id, ok := r.properties[term]; ok {
		return id, true, nil
	}
	id, found, err := r.repo.PropertyIdByTerm(ctx, r.exec, term)
	if err != nil || !found {
		return 0, found, err
	}
	r.properties[term] = id
	return id, true, nil
}

// Invalidate drops the memoized lookups, forcing the next calls to hit the
// database again.
func (r *TermResolver) Invalidate() {
	r.properties = map[string]int64{}
	r.classes = map[string]int64{}
}

func (r *TermResolver) ClassId(ctx context.Context, term string) (int64, bool, error) {
	if id, ok := r.classes[term]; ok {
		return id, true, nil
	}
	id, found, err := r.repo.ClassIdByTerm(ctx, r.exec, term)
	if err != nil || !found {
		return 0, found, err
	}
	r.classes[term] = id
	return id, true, nil
}

package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/querykit/querykit/dsl"
	"github.com/querykit/querykit/sqltemplate"
)

// RowMapper reconstructs a typed entity from a column-keyed result row.
// Generated Scan functions from the metamodel package satisfy this signature.
type RowMapper[T any] func(row map[string]any) (T, error)

// RepositoryConfig wires a Repository to one entity type.
type RepositoryConfig[T any, ID comparable] struct {
	// Table is the entity's table name.
	Table string

	// IDColumn is the primary key column.
	IDColumn string

	// ScanRow maps a result row onto an entity value.
	ScanRow RowMapper[T]

	// RowValues maps an entity onto column values for INSERT, including the
	// primary key column.
	RowValues func(T) map[string]any

	// IDOf extracts the primary key from an entity.
	IDOf func(T) ID

	// WithID returns a copy of the entity with the primary key set.
	// Required when NewID is set.
	WithID func(T, ID) T

	// NewID generates a primary key for entities saved with a zero-value
	// key. Optional; leave nil for caller-assigned keys. RandomID suits
	// string-keyed entities.
	NewID func() ID
}

// Repository is a thin CRUD façade over a Store for one entity type. It holds
// no nontrivial logic: every method builds a dsl query or plain statement,
// lowers it with sqltemplate and delegates execution to the Store.
type Repository[T any, ID comparable] struct {
	store *Store
	cfg   RepositoryConfig[T, ID]
}

// NewRepository creates a repository over the given store.
func NewRepository[T any, ID comparable](s *Store, cfg RepositoryConfig[T, ID]) (*Repository[T, ID], error) {
	if s == nil {
		return nil, fmt.Errorf("store: repository needs a store")
	}
	if cfg.Table == "" || cfg.IDColumn == "" {
		return nil, fmt.Errorf("store: repository needs a table and an id column")
	}
	if cfg.ScanRow == nil || cfg.RowValues == nil || cfg.IDOf == nil {
		return nil, fmt.Errorf("store: repository needs ScanRow, RowValues and IDOf")
	}
	if cfg.NewID != nil && cfg.WithID == nil {
		return nil, fmt.Errorf("store: NewID requires WithID")
	}
	return &Repository[T, ID]{store: s, cfg: cfg}, nil
}

// RandomID returns a random UUID string, suitable as RepositoryConfig.NewID
// for string-keyed entities.
func RandomID() string {
	return uuid.NewString()
}

// FindAll executes the given query and maps every row. A nil query selects
// the whole table.
func (r *Repository[T, ID]) FindAll(ctx context.Context, q *dsl.Query) ([]T, error) {
	if q == nil {
		q = dsl.From(r.cfg.Table)
	}
	rows, err := r.store.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	entities := make([]T, 0, len(rows))
	for _, row := range rows {
		entity, err := r.cfg.ScanRow(row)
		if err != nil {
			return nil, fmt.Errorf("store: map row: %w", err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// FindWhere returns all entities matching the predicate.
func (r *Repository[T, ID]) FindWhere(ctx context.Context, predicate dsl.Predicate) ([]T, error) {
	return r.FindAll(ctx, dsl.From(r.cfg.Table).Where(predicate))
}

// FindOne returns the first entity matching the predicate. The second return
// reports whether a match was found.
func (r *Repository[T, ID]) FindOne(ctx context.Context, predicate dsl.Predicate) (T, bool, error) {
	var zero T
	entities, err := r.FindAll(ctx, dsl.From(r.cfg.Table).Where(predicate).Limit(1))
	if err != nil {
		return zero, false, err
	}
	if len(entities) == 0 {
		return zero, false, nil
	}
	return entities[0], true, nil
}

// FindByID returns the entity with the given primary key.
func (r *Repository[T, ID]) FindByID(ctx context.Context, id ID) (T, bool, error) {
	return r.FindOne(ctx, dsl.NewSimplePredicate(r.cfg.IDColumn, dsl.OpEq, id))
}

// Count returns the number of entities matching the predicate. A nil
// predicate counts the whole table.
func (r *Repository[T, ID]) Count(ctx context.Context, predicate dsl.Predicate) (int64, error) {
	q := dsl.Select("COUNT(*) AS n").From(r.cfg.Table)
	if predicate != nil {
		q.Where(predicate)
	}
	rows, err := r.store.Query(ctx, q)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("store: count returned no rows")
	}
	n, ok := rows[0]["n"].(int64)
	if !ok {
		return 0, fmt.Errorf("store: count returned %T", rows[0]["n"])
	}
	return n, nil
}

// Exists reports whether any entity matches the predicate.
func (r *Repository[T, ID]) Exists(ctx context.Context, predicate dsl.Predicate) (bool, error) {
	n, err := r.Count(ctx, predicate)
	return n > 0, err
}

// ExistsByID reports whether an entity with the given primary key exists.
func (r *Repository[T, ID]) ExistsByID(ctx context.Context, id ID) (bool, error) {
	return r.Exists(ctx, dsl.NewSimplePredicate(r.cfg.IDColumn, dsl.OpEq, id))
}

// Save inserts or replaces an entity. When NewID is configured and the
// entity's key is the zero value, a fresh key is assigned first. The saved
// entity (with its final key) is returned.
func (r *Repository[T, ID]) Save(ctx context.Context, entity T) (T, error) {
	var zeroID ID
	if r.cfg.NewID != nil && r.cfg.IDOf(entity) == zeroID {
		entity = r.cfg.WithID(entity, r.cfg.NewID())
	}

	values := r.cfg.RowValues(entity)
	columns := make([]string, 0, len(values))
	for col := range values {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	placeholders := make([]string, len(columns))
	for i, col := range columns {
		placeholders[i] = "#{" + col + "}"
	}

	sqlText := fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		r.cfg.Table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "))

	if _, err := r.store.Exec(ctx, sqlText, values); err != nil {
		return entity, err
	}
	return entity, nil
}

// SaveAll saves entities in order and returns them with final keys.
func (r *Repository[T, ID]) SaveAll(ctx context.Context, entities []T) ([]T, error) {
	saved := make([]T, 0, len(entities))
	for _, entity := range entities {
		s, err := r.Save(ctx, entity)
		if err != nil {
			return saved, err
		}
		saved = append(saved, s)
	}
	return saved, nil
}

// DeleteByID removes the entity with the given primary key and reports
// whether a row was deleted.
func (r *Repository[T, ID]) DeleteByID(ctx context.Context, id ID) (bool, error) {
	n, err := r.DeleteWhere(ctx, dsl.NewSimplePredicate(r.cfg.IDColumn, dsl.OpEq, id))
	return n > 0, err
}

// Delete removes the given entity by primary key.
func (r *Repository[T, ID]) Delete(ctx context.Context, entity T) (bool, error) {
	return r.DeleteByID(ctx, r.cfg.IDOf(entity))
}

// DeleteWhere removes all entities matching the predicate and returns the
// number of deleted rows.
func (r *Repository[T, ID]) DeleteWhere(ctx context.Context, predicate dsl.Predicate) (int64, error) {
	if predicate == nil {
		return 0, fmt.Errorf("store: DeleteWhere needs a predicate; use DeleteAll to clear the table")
	}
	condition, params := sqltemplate.CompilePredicate(predicate)
	res, err := r.store.Exec(ctx, "DELETE FROM "+r.cfg.Table+" WHERE "+condition, params)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteAll removes every entity in the table.
func (r *Repository[T, ID]) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.store.Exec(ctx, "DELETE FROM "+r.cfg.Table, nil)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

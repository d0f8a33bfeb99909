package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"library-catalog/internal/domains/catalog/model"
)

const uniqueViolation = "23505"

// PostgresStore persists the catalog in PostgreSQL through database/sql.
type PostgresStore struct {
	db        *sql.DB
	authors   *sqlCollection[model.Author]
	genres    *sqlCollection[model.Genre]
	books     *sqlCollection[model.Book]
	instances *sqlCollection[model.BookInstance]
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	s := &PostgresStore{db: db}
	s.authors = &sqlCollection[model.Author]{db: db, table: authorsTable, expand: noExpansion[model.Author](model.KindAuthor)}
	s.genres = &sqlCollection[model.Genre]{db: db, table: genresTable, expand: noExpansion[model.Genre](model.KindGenre)}
	s.books = &sqlCollection[model.Book]{db: db, table: booksTable, expand: expandBooks(s)}
	s.instances = &sqlCollection[model.BookInstance]{db: db, table: instancesTable, expand: expandInstances(s)}
	return s
}

func (s *PostgresStore) Authors() Collection[model.Author]             { return s.authors }
func (s *PostgresStore) Genres() Collection[model.Genre]               { return s.genres }
func (s *PostgresStore) Books() Collection[model.Book]                 { return s.books }
func (s *PostgresStore) BookInstances() Collection[model.BookInstance] { return s.instances }

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

// table maps one kind onto its SQL table. columns[0] is always id and values
// returns the remaining columns in order.
type table[T any] struct {
	kind    model.Kind
	name    string
	columns []string
	// filters holds one predicate per filterable field; %s is the placeholder.
	filters map[string]string
	sorts   map[string]string
	scan    func(scanner) (T, error)
	values  func(T) []any
}

type sqlCollection[T document[T]] struct {
	db     *sql.DB
	table  table[T]
	expand expander[T]
}

func (c *sqlCollection[T]) fail(op string, err error) error {
	return model.NewStoreError(op, c.table.kind, err)
}

func (c *sqlCollection[T]) selectFrom() string {
	return "SELECT " + strings.Join(c.table.columns, ", ") + " FROM " + c.table.name
}

func (c *sqlCollection[T]) where(filter Filter) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}
	args := make([]any, 0, len(filter))
	conds := make([]string, 0, len(filter))
	for _, field := range slices.Sorted(maps.Keys(filter)) {
		pred, ok := c.table.filters[field]
		if !ok {
			return "", nil, fmt.Errorf("unknown filter field %q", field)
		}
		args = append(args, filter[field])
		conds = append(conds, fmt.Sprintf(pred, "$"+strconv.Itoa(len(args))))
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func (c *sqlCollection[T]) GetByID(ctx context.Context, id string) (*T, error) {
	row := c.db.QueryRowContext(ctx, c.selectFrom()+" WHERE id = $1", id)
	doc, err := c.table.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NotFound(c.table.kind, id)
	}
	if err != nil {
		return nil, c.fail("get", err)
	}
	return &doc, nil
}

func (c *sqlCollection[T]) Find(ctx context.Context, filter Filter, opts ...FindOption) ([]T, error) {
	o := buildOptions(opts)
	where, args, err := c.where(filter)
	if err != nil {
		return nil, c.fail("find", err)
	}
	query := c.selectFrom() + where
	if o.SortField != "" {
		col, ok := c.table.sorts[o.SortField]
		if !ok {
			return nil, c.fail("find", fmt.Errorf("unknown sort field %q", o.SortField))
		}
		dir := "DESC"
		if o.Ascending {
			dir = "ASC"
		}
		query += " ORDER BY " + col + " " + dir
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, c.fail("find", err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		doc, err := c.table.scan(rows)
		if err != nil {
			return nil, c.fail("find", err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, c.fail("find", err)
	}

	if err := c.expand(ctx, out, o.Expand); err != nil {
		return nil, err
	}
	if len(o.Fields) > 0 {
		for i := range out {
			out[i] = out[i].Project(o.Fields)
		}
	}
	return out, nil
}

func (c *sqlCollection[T]) Count(ctx context.Context, filter Filter) (int, error) {
	where, args, err := c.where(filter)
	if err != nil {
		return 0, c.fail("count", err)
	}
	var n int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table.name+where, args...).Scan(&n); err != nil {
		return 0, c.fail("count", err)
	}
	return n, nil
}

func (c *sqlCollection[T]) Insert(ctx context.Context, draft T) (*T, error) {
	doc := draft.WithID(uuid.NewString()).Bare()

	placeholders := make([]string, len(c.table.columns))
	for i := range placeholders {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		c.table.name, strings.Join(c.table.columns, ", "), strings.Join(placeholders, ", "))

	args := append([]any{doc.DocID()}, c.table.values(doc)...)
	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil, model.Duplicate(c.table.kind, doc.UniqueKey())
		}
		return nil, c.fail("insert", err)
	}
	return &doc, nil
}

func (c *sqlCollection[T]) UpdateByID(ctx context.Context, id string, draft T) (*T, error) {
	doc := draft.WithID(id).Bare()

	sets := make([]string, 0, len(c.table.columns)-1)
	for i, col := range c.table.columns[1:] {
		sets = append(sets, col+" = $"+strconv.Itoa(i+2))
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1", c.table.name, strings.Join(sets, ", "))

	args := append([]any{id}, c.table.values(doc)...)
	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.Duplicate(c.table.kind, doc.UniqueKey())
		}
		return nil, c.fail("update", err)
	}
	if err := c.requireRow(res, "update", id); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *sqlCollection[T]) DeleteByID(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, "DELETE FROM "+c.table.name+" WHERE id = $1", id)
	if err != nil {
		return c.fail("delete", err)
	}
	return c.requireRow(res, "delete", id)
}

func (c *sqlCollection[T]) requireRow(res sql.Result, op, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return c.fail(op, err)
	}
	if n == 0 {
		return model.NotFound(c.table.kind, id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

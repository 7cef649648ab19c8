package store

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when no record matches the key.
	ErrNotFound = errors.New("record not found")
	// ErrConditionFailed is returned by UpdateIf when the record exists
	// but the guard condition did not hold.
	ErrConditionFailed = errors.New("condition not met")
)

// Error is a backend failure. It carries the original error.
type Error struct {
	Op         string
	Collection string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

var tracer = otel.Tracer("github.com/ahmetcoskunkizilkaya/storefront-backend/internal/store")

// Collection is a typed view over one table addressed by a single key column.
type Collection[T any] struct {
	db   *gorm.DB
	name string
	key  string
}

func NewCollection[T any](db *gorm.DB, name, key string) *Collection[T] {
	return &Collection[T]{db: db, name: name, key: key}
}

func (c *Collection[T]) start(ctx context.Context, op string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "store."+op, trace.WithAttributes(
		attribute.String("store.collection", c.name),
	))
}

func (c *Collection[T]) fail(span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return &Error{Op: op, Collection: c.name, Err: err}
}

func (c *Collection[T]) byKey(key string) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: c.key}, Value: key}
}

// Get returns the record stored under key, or ErrNotFound.
func (c *Collection[T]) Get(ctx context.Context, key string) (*T, error) {
	ctx, span := c.start(ctx, "get")
	defer span.End()

	var rec T
	err := c.db.WithContext(ctx).Where(c.byKey(key)).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, c.fail(span, "get", err)
	}
	return &rec, nil
}

// Put writes the full record, replacing any existing one with the same key.
func (c *Collection[T]) Put(ctx context.Context, rec *T) error {
	ctx, span := c.start(ctx, "put")
	defer span.End()

	err := c.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(rec).Error
	if err != nil {
		return c.fail(span, "put", err)
	}
	return nil
}

// Insert appends a new record. Used by the log collections.
func (c *Collection[T]) Insert(ctx context.Context, rec *T) error {
	ctx, span := c.start(ctx, "insert")
	defer span.End()

	if err := c.db.WithContext(ctx).Create(rec).Error; err != nil {
		return c.fail(span, "insert", err)
	}
	return nil
}

// Scan reads the whole collection. orderBy is an ORDER BY fragment and
// must come from code, never from request input.
func (c *Collection[T]) Scan(ctx context.Context, orderBy string) ([]T, error) {
	ctx, span := c.start(ctx, "scan")
	defer span.End()

	out := make([]T, 0)
	q := c.db.WithContext(ctx)
	if orderBy != "" {
		q = q.Order(orderBy)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, c.fail(span, "scan", err)
	}
	span.SetAttributes(attribute.Int("store.count", len(out)))
	return out, nil
}

// ScanByField returns every record whose field equals value.
func (c *Collection[T]) ScanByField(ctx context.Context, field string, value any) ([]T, error) {
	ctx, span := c.start(ctx, "scan_by_field")
	defer span.End()
	span.SetAttributes(attribute.String("store.field", field))

	out := make([]T, 0)
	err := c.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: field}, Value: value}).
		Find(&out).Error
	if err != nil {
		return nil, c.fail(span, "scan_by_field", err)
	}
	return out, nil
}

// Update applies patch to the record under key and returns the record as
// stored afterwards. Patch values may be expressions such as Decrement.
func (c *Collection[T]) Update(ctx context.Context, key string, patch map[string]any) (*T, error) {
	return c.UpdateIf(ctx, key, nil, patch)
}

// UpdateIf is Update guarded by cond, evaluated by the backend in the
// same statement. A nil cond behaves like Update.
func (c *Collection[T]) UpdateIf(ctx context.Context, key string, cond clause.Expression, patch map[string]any) (*T, error) {
	ctx, span := c.start(ctx, "update")
	defer span.End()

	q := c.db.WithContext(ctx).Model(new(T)).Where(c.byKey(key))
	if cond != nil {
		q = q.Where(cond)
	}
	res := q.Updates(patch)
	if res.Error != nil {
		return nil, c.fail(span, "update", res.Error)
	}
	if res.RowsAffected == 0 {
		if cond == nil {
			return nil, ErrNotFound
		}
		if _, err := c.Get(ctx, key); err != nil {
			return nil, err
		}
		return nil, ErrConditionFailed
	}
	return c.Get(ctx, key)
}

// Delete removes the record under key, or returns ErrNotFound.
func (c *Collection[T]) Delete(ctx context.Context, key string) error {
	ctx, span := c.start(ctx, "delete")
	defer span.End()

	res := c.db.WithContext(ctx).Where(c.byKey(key)).Delete(new(T))
	if res.Error != nil {
		return c.fail(span, "delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Decrement is the patch value for "column = column - n".
func Decrement(column string, n int) clause.Expr {
	return gorm.Expr("? - ?", clause.Column{Name: column}, n)
}

// AtLeast is an UpdateIf guard for "column >= n".
func AtLeast(column string, n int) clause.Expression {
	return clause.Gte{Column: clause.Column{Name: column}, Value: n}
}

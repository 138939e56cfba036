package repository

import (
	"context"
	"errors"

	"taskrewards-platform/pkg/db/option"

	"gorm.io/gorm"
)

// Repository is a thin generic store over gorm. Conditions are expressed as
// partially-filled model structs; query shaping goes through option.QueryOption.
type Repository[T any] interface {
	// WithTrx rebinds the store to a transaction handle.
	WithTrx(tx *gorm.DB) Repository[T]

	// FindOne returns (nil, nil) when no row matches.
	FindOne(ctx context.Context, cond *T, opts ...option.QueryOption) (*T, error)
	Find(ctx context.Context, cond *T, opts ...option.QueryOption) ([]T, error)
	Count(ctx context.Context, cond *T, opts ...option.QueryOption) (int64, error)
	Create(ctx context.Context, row *T) error
	// Update applies values (struct or map) to the row with the given primary id.
	Update(ctx context.Context, id any, values any) error
	Delete(ctx context.Context, id any) error
}

type store[T any] struct {
	db *gorm.DB
}

func ProvideStore[T any](db *gorm.DB) Repository[T] {
	return &store[T]{db: db}
}

func (s *store[T]) WithTrx(tx *gorm.DB) Repository[T] {
	if tx == nil {
		return s
	}
	return &store[T]{db: tx}
}

func (s *store[T]) FindOne(ctx context.Context, cond *T, opts ...option.QueryOption) (*T, error) {
	var row T
	q := option.Apply(s.db.WithContext(ctx).Where(cond), opts...)
	if err := q.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *store[T]) Find(ctx context.Context, cond *T, opts ...option.QueryOption) ([]T, error) {
	var rows []T
	q := option.Apply(s.db.WithContext(ctx).Where(cond), opts...)
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *store[T]) Count(ctx context.Context, cond *T, opts ...option.QueryOption) (int64, error) {
	var n int64
	q := option.Apply(s.db.WithContext(ctx).Model(new(T)).Where(cond), opts...)
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (s *store[T]) Create(ctx context.Context, row *T) error {
	return s.db.WithContext(ctx).Create(row).Error
}

func (s *store[T]) Update(ctx context.Context, id any, values any) error {
	return s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(values).Error
}

func (s *store[T]) Delete(ctx context.Context, id any) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(new(T)).Error
}

// Package repository implements the data access layer on top of gorm.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

const saveBatchSize = 100

// BaseRepository carries the shared persistence plumbing for a single
// entity type. Write methods open their own transaction unless the
// context already carries one (see WithTransaction).
type BaseRepository[T any, F any] struct {
	DB *gorm.DB
}

func NewBaseRepository[T any, F any](db *gorm.DB) *BaseRepository[T, F] {
	return &BaseRepository[T, F]{DB: db}
}

// getDB resolves the connection for reads, preferring an ambient transaction.
func (r *BaseRepository[T, F]) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.DB
}

// getDBForWrite resolves the connection for writes. The returned bool is
// true when the call opened a fresh transaction the caller must finish.
func (r *BaseRepository[T, F]) getDBForWrite(ctx context.Context) (*gorm.DB, bool, error) {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx, false, nil
	}

	tx := r.DB.Begin()
	if tx.Error != nil {
		return nil, false, fmt.Errorf("begin transaction: %w", tx.Error)
	}
	return tx, true, nil
}

// finishWrite commits or rolls back a transaction opened by getDBForWrite.
func finishWrite(tx *gorm.DB, opened bool, err error) {
	if !opened {
		return
	}
	if err != nil {
		tx.Rollback()
		return
	}
	tx.Commit()
}

// ByID returns the entity with the given primary key, or nil when absent.
func (r *BaseRepository[T, F]) ByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	if err := r.getDB(ctx).Last(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load entity %d: %w", id, err)
	}
	return &entity, nil
}

// Save inserts a new entity.
func (r *BaseRepository[T, F]) Save(ctx context.Context, entity *T) (err error) {
	db, opened, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}
	defer func() { finishWrite(db, opened, err) }()

	if err = db.Create(entity).Error; err != nil {
		return fmt.Errorf("insert entity: %w", err)
	}
	return nil
}

// SaveBatch inserts entities in chunks of saveBatchSize.
func (r *BaseRepository[T, F]) SaveBatch(ctx context.Context, entities []*T) (err error) {
	if len(entities) == 0 {
		return nil
	}

	db, opened, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}
	defer func() { finishWrite(db, opened, err) }()

	if err = db.CreateInBatches(entities, saveBatchSize).Error; err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// WithTransaction runs fn inside a transaction and stashes the handle in the
// context so nested repository calls join it instead of opening their own.
func WithTransaction(ctx context.Context, db *gorm.DB, fn func(context.Context) error) (err error) {
	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			err = fmt.Errorf("panic in transaction: %v", r)
		}
	}()

	if err := fn(context.WithValue(ctx, TxContextKey, tx)); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

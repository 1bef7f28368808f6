package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/damon-houk/cnb-exchange-rates/internal/apperrors"
	"github.com/damon-houk/cnb-exchange-rates/internal/domain/entity"
	"github.com/dgraph-io/badger/v3"
)

// latestKey holds the only record: the most recent list that parsed successfully
var latestKey = []byte("bulletin:latest")

// BadgerExchangeListRepository implements the exchange list repository interface using BadgerDB
type BadgerExchangeListRepository struct {
	db *badger.DB
}

// NewBadgerExchangeListRepository creates a new BadgerDB exchange list repository
func NewBadgerExchangeListRepository(db *badger.DB) *BadgerExchangeListRepository {
	return &BadgerExchangeListRepository{db: db}
}

// Store overwrites the snapshot with list
func (r *BadgerExchangeListRepository) Store(ctx context.Context, list *entity.ExchangeList) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if list == nil {
		return errors.New("cannot store a nil exchange list")
	}

	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal exchange list: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(latestKey, data)
	})
	if err != nil {
		return fmt.Errorf("failed to store exchange list: %w", err)
	}

	return nil
}

// Latest returns the snapshot. The stored JSON is validated again on the way out, so a record
// written by an older build that no longer satisfies the rules is reported, not served.
func (r *BadgerExchangeListRepository) Latest(ctx context.Context) (*entity.ExchangeList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(latestKey)
		if err != nil {
			return err
		}

		data, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, apperrors.NotFound("no exchange list snapshot stored")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve exchange list: %w", err)
	}

	list, err := entity.ParseExchangeList(data)
	if err != nil {
		return nil, fmt.Errorf("stored exchange list is invalid: %w", err)
	}

	return list, nil
}

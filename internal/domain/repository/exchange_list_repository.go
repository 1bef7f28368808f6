// Package repository internal/domain/repository/exchange_list_repository.go
package repository

import (
	"context"

	"github.com/damon-houk/cnb-exchange-rates/internal/domain/entity"
)

// ExchangeListRepository keeps the last exchange list that parsed successfully
type ExchangeListRepository interface {
	// Latest returns the stored list, or an apperrors NotFound error when nothing was stored yet
	Latest(ctx context.Context) (*entity.ExchangeList, error)

	// Store replaces the stored list
	Store(ctx context.Context, list *entity.ExchangeList) error
}

// Package service internal/application/service/exchange_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/damon-houk/cnb-exchange-rates/internal/apperrors"
	"github.com/damon-houk/cnb-exchange-rates/internal/domain/bulletin"
	"github.com/damon-houk/cnb-exchange-rates/internal/domain/entity"
	"github.com/damon-houk/cnb-exchange-rates/internal/domain/repository"
	domainservice "github.com/damon-houk/cnb-exchange-rates/internal/domain/service"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/logger"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/middleware"
)

// ListCache stores parsed bulletins by the day they were requested for
type ListCache interface {
	Get(day time.Time) *entity.ExchangeList
	Put(list *entity.ExchangeList, day time.Time)
}

// RateQuote is one currency rate together with the date of the bulletin it comes from
type RateQuote struct {
	Date string              `json:"date"`
	Rate entity.CurrencyRate `json:"rate"`
}

// ExchangeRateService serves the current exchange list: from cache, from CNB, or from the last
// good snapshot when CNB cannot be reached
type ExchangeRateService struct {
	source    domainservice.BulletinSource
	snapshots repository.ExchangeListRepository
	cache     ListCache
	logger    logger.Logger
	now       func() time.Time
}

// ExchangeRateServiceOption configures an ExchangeRateService
type ExchangeRateServiceOption func(*ExchangeRateService)

// WithSnapshots enables the last-good snapshot; without it upstream failures are returned as is
func WithSnapshots(repo repository.ExchangeListRepository) ExchangeRateServiceOption {
	return func(s *ExchangeRateService) {
		s.snapshots = repo
	}
}

// WithCache serves repeated requests on the same day from c
func WithCache(c ListCache) ExchangeRateServiceOption {
	return func(s *ExchangeRateService) {
		s.cache = c
	}
}

// WithClock replaces time.Now for choosing the cache day
func WithClock(now func() time.Time) ExchangeRateServiceOption {
	return func(s *ExchangeRateService) {
		s.now = now
	}
}

// NewExchangeRateService creates a new exchange rate service
func NewExchangeRateService(source domainservice.BulletinSource, log logger.Logger, options ...ExchangeRateServiceOption) *ExchangeRateService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	s := &ExchangeRateService{
		source: source,
		logger: log,
		now:    time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// GetExchangeList returns today's exchange list. Parse errors are returned even when a snapshot
// exists: a bulletin CNB published but we cannot read is not hidden behind yesterday's data.
func (s *ExchangeRateService) GetExchangeList(ctx context.Context) (*entity.ExchangeList, error) {
	requestID := middleware.GetRequestID(ctx)
	day := s.now().UTC()

	if s.cache != nil {
		if cached := s.cache.Get(day); cached != nil {
			s.logger.Debug("Serving cached exchange list", map[string]interface{}{
				"request_id": requestID,
				"date":       cached.Date,
			})
			return cached, nil
		}
	}

	text, err := s.source.FetchBulletin(ctx)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindUnknown {
			err = apperrors.Upstream("failed to fetch CNB data", err)
		}

		s.logger.Error("Failed to fetch bulletin", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})

		if snapshot := s.latestSnapshot(ctx, requestID); snapshot != nil {
			return snapshot, nil
		}
		return nil, err
	}

	list, err := bulletin.Parse(text)
	if err != nil {
		s.logger.Error("Failed to parse bulletin", map[string]interface{}{
			"request_id": requestID,
			"kind":       apperrors.KindOf(err).String(),
			"error":      err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Bulletin parsed", map[string]interface{}{
		"request_id": requestID,
		"date":       list.Date,
		"rates":      len(list.Rates),
	})

	if s.cache != nil {
		s.cache.Put(list, day)
	}

	if s.snapshots != nil {
		if err := s.snapshots.Store(ctx, list); err != nil {
			s.logger.Warn("Failed to store exchange list snapshot", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
		}
	}

	return list, nil
}

func (s *ExchangeRateService) latestSnapshot(ctx context.Context, requestID string) *entity.ExchangeList {
	if s.snapshots == nil {
		return nil
	}

	snapshot, err := s.snapshots.Latest(ctx)
	if err != nil {
		s.logger.Warn("No usable exchange list snapshot", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		return nil
	}

	s.logger.Warn("Serving last good exchange list snapshot", map[string]interface{}{
		"request_id": requestID,
		"date":       snapshot.Date,
	})
	return snapshot
}

// GetRate returns the rate for a currency code, ignoring case
func (s *ExchangeRateService) GetRate(ctx context.Context, code string) (*RateQuote, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.InvalidRequest("currency code is required", apperrors.Violation{
			Field: "currency",
			Rule:  "required",
		})
	}

	list, err := s.GetExchangeList(ctx)
	if err != nil {
		return nil, err
	}

	rate, ok := list.FindRate(code)
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("currency %s is not listed in the bulletin of %s", strings.ToUpper(code), list.Date))
	}

	return &RateQuote{Date: list.Date, Rate: rate}, nil
}

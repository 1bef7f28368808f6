package internal

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/damon-houk/cnb-exchange-rates/internal/application/service"
	"github.com/damon-houk/cnb-exchange-rates/internal/domain/bulletin"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/cache"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/db"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// staticSource serves the same bulletin text on every fetch
type staticSource struct {
	text string
}

func (s staticSource) FetchBulletin(ctx context.Context) (string, error) {
	return s.text, ctx.Err()
}

// generateBulletin builds a well-formed bulletin with n currency lines
func generateBulletin(n int) (string, []string) {
	var b strings.Builder
	b.WriteString("30 Oct 2025 #211\n")
	b.WriteString("Country|Currency|Amount|Code|Rate\n")

	codes := make([]string, n)
	for i := 0; i < n; i++ {
		code := fmt.Sprintf("%c%c%c", 'A'+i/676%26, 'A'+i/26%26, 'A'+i%26)
		codes[i] = code
		amount := 1
		if i%7 == 0 {
			amount = 100
		}
		fmt.Fprintf(&b, "Country %d|unit|%d|%s|%d.%03d\n", i, amount, code, 1+rand.Intn(50), rand.Intn(1000))
	}
	return b.String(), codes
}

func TestPerformance(t *testing.T) {
	// Skip in short mode or CI
	if testing.Short() {
		t.Skip("Skipping performance test in short mode")
	}

	log := logger.NewJSONLogger(io.Discard, logger.ErrorLevel)

	badgerDB, err := db.OpenBadger(t.TempDir())
	require.NoError(t, err)
	defer badgerDB.Close()

	text, codes := generateBulletin(500)
	snapshots := db.NewBadgerExchangeListRepository(badgerDB)
	exchangeService := service.NewExchangeRateService(staticSource{text: text}, log,
		service.WithCache(cache.NewExchangeListCache(time.Hour)),
		service.WithSnapshots(snapshots),
	)
	conversionService := service.NewConversionService(exchangeService, log)

	// Performance test configuration
	numOperations := 1000
	concurrency := 10
	opsPerWorker := numOperations / concurrency

	measure := func(t *testing.T, name string, work func(workerID, j int) error) {
		startTime := time.Now()

		wg := sync.WaitGroup{}
		wg.Add(concurrency)

		for i := 0; i < concurrency; i++ {
			go func(workerID int) {
				defer wg.Done()
				for j := 0; j < opsPerWorker; j++ {
					if err := work(workerID, j); err != nil {
						t.Errorf("%s failed: %v", name, err)
						return
					}
				}
			}(i)
		}

		wg.Wait()
		duration := time.Since(startTime)

		// Calculate throughput
		throughput := float64(numOperations) / duration.Seconds()
		t.Logf("%s: %d operations in %v (%.2f ops/sec)", name, numOperations, duration, throughput)
	}

	t.Run("Bulletin Parsing", func(t *testing.T) {
		measure(t, "Bulletin parsing", func(_, _ int) error {
			list, err := bulletin.Parse(text)
			if err != nil {
				return err
			}
			if len(list.Rates) != len(codes) {
				return fmt.Errorf("got %d rates, want %d", len(list.Rates), len(codes))
			}
			return nil
		})
	})

	t.Run("Rate Lookup", func(t *testing.T) {
		ctx := context.Background()
		measure(t, "Rate lookup", func(workerID, j int) error {
			code := codes[(workerID*opsPerWorker+j)%len(codes)]
			_, err := exchangeService.GetRate(ctx, code)
			return err
		})
	})

	t.Run("Currency Conversion", func(t *testing.T) {
		ctx := context.Background()
		measure(t, "Currency conversion", func(workerID, j int) error {
			code := codes[(workerID*opsPerWorker+j)%len(codes)]
			amount := decimal.NewFromInt(int64(100 + rand.Intn(10000)))
			_, err := conversionService.Convert(ctx, amount, code)
			return err
		})
	})

	t.Run("Snapshot Round Trip", func(t *testing.T) {
		list, err := bulletin.Parse(text)
		require.NoError(t, err)

		ctx := context.Background()
		measure(t, "Snapshot round trip", func(_, j int) error {
			if j%2 == 0 {
				return snapshots.Store(ctx, list)
			}
			_, err := snapshots.Latest(ctx)
			return err
		})
	})
}

func BenchmarkParse(b *testing.B) {
	for _, n := range []int{31, 500} {
		text, _ := generateBulletin(n)
		b.Run(fmt.Sprintf("%d_rates", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := bulletin.Parse(text); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// Command fetch downloads or reads a CNB daily bulletin and prints it as an exchange list.
//
//	fetch                          # fetch today's bulletin from CNB
//	fetch -file daily.txt          # parse a saved bulletin
//	curl -s $URL | fetch -file -   # parse stdin
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/damon-houk/cnb-exchange-rates/internal/apperrors"
	"github.com/damon-houk/cnb-exchange-rates/internal/domain/bulletin"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/api"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var file string
	var url string
	var timeout time.Duration
	var verbose bool
	fs.StringVar(&file, "file", "", "parse a bulletin from this path instead of fetching it (- for stdin)")
	fs.StringVar(&url, "url", getenv("CNB_DAILY_URL", api.DefaultDailyURL), "CNB daily bulletin URL")
	fs.DurationVar(&timeout, "timeout", 15*time.Second, "request timeout")
	fs.BoolVar(&verbose, "v", false, "log fetch attempts to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := logger.ErrorLevel
	if verbose {
		level = logger.DebugLevel
	}
	log := logger.NewJSONLogger(stderr, level)

	text, err := readBulletin(file, url, timeout, stdin, log)
	if err != nil {
		return fail(stderr, err)
	}

	list, err := bulletin.Parse(text)
	if err != nil {
		return fail(stderr, err)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(list); err != nil {
		return fail(stderr, err)
	}
	return 0
}

func readBulletin(file, url string, timeout time.Duration, stdin io.Reader, log logger.Logger) (string, error) {
	switch file {
	case "":
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		client := api.NewCNBClient(
			api.WithBaseURL(url),
			api.WithHTTPClient(&http.Client{Timeout: timeout}),
			api.WithLogger(log),
		)
		return client.FetchBulletin(ctx)
	case "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	default:
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		return string(b), nil
	}
}

func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "fetch: %s: %v\n", apperrors.KindOf(err), err)
	return 1
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"smallcase/internal/logger"
	"smallcase/internal/pricing"
)

type quoteCmd struct {
	baseURL string
	timeout time.Duration
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "fetch current prices from Yahoo Finance" }
func (*quoteCmd) Usage() string {
	return `quote [-base-url <url>] [-timeout <duration>] SYMBOL...

  Prints the current price of each symbol, one per line.
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.baseURL, "base-url", "", "Chart API base URL (defaults to Yahoo Finance)")
	f.DurationVar(&c.timeout, "timeout", 10*time.Second, "Request timeout")
}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one symbol is required")
		return subcommands.ExitUsageError
	}
	symbols := make([]string, f.NArg())
	for i, s := range f.Args() {
		symbols[i] = strings.ToUpper(s)
	}

	source := pricing.NewYahooSource(&http.Client{Timeout: c.timeout}, c.baseURL)
	quotes, failures := source.FetchPrices(ctx, symbols)
	for _, q := range quotes {
		fmt.Printf("%-16s %12s %s\n", q.Symbol, q.Price.StringFixed(2), q.Currency)
	}
	for _, fe := range failures {
		logger.Get().Warnw("quote failed", "symbol", fe.Symbol, "error", fe.Err)
	}
	if len(quotes) == 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

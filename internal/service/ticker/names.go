package ticker

import (
	"context"
	"errors"
	"time"

	applogger "TrendLens/pkg/logger"

	pkgcache "TrendLens/pkg/cache"
)

// seedNames covers the tickers served without a provider round trip.
var seedNames = map[string]string{
	"AAPL":      "Apple Inc.",
	"MSFT":      "Microsoft Corporation",
	"GOOG":      "Alphabet Inc.",
	"AMZN":      "Amazon.com, Inc.",
	"NVDA":      "NVIDIA Corporation",
	"TSLA":      "Tesla, Inc.",
	"META":      "Meta Platforms, Inc.",
	"0700.HK":   "Tencent Holdings Limited",
	"9988.HK":   "Alibaba Group Holding Limited",
	"3690.HK":   "Meituan",
	"1810.HK":   "Xiaomi Corporation",
	"600519.SH": "Kweichow Moutai Co., Ltd.",
	"601318.SH": "Ping An Insurance",
	"600036.SH": "China Merchants Bank",
	"000001.SZ": "Ping An Bank",
	"000858.SZ": "Wuliangye Yibin",
	"300750.SZ": "Contemporary Amperex Technology",
	"BTC-USD":   "Bitcoin USD",
	"ETH-USD":   "Ethereum USD",
}

// NameResolver resolves display names for tickers, caching lookups.
type NameResolver struct {
	cache  pkgcache.Service
	ttl    time.Duration
	logger *applogger.Logger
}

// NewNameResolver creates a cached company name resolver.
func NewNameResolver(c pkgcache.Service, ttl time.Duration, lgr *applogger.Logger) *NameResolver {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &NameResolver{cache: c, ttl: ttl, logger: lgr}
}

// CompanyName returns a display name for the ticker. Unknown tickers
// resolve to the ticker itself so rendering never blocks on lookup failures.
func (r *NameResolver) CompanyName(ctx context.Context, ticker string) string {
	if ticker == "" {
		return ""
	}

	key := pkgcache.GenerateKey("company_name", ticker)
	var cached string
	if err := r.cache.Get(ctx, key, &cached); err == nil && cached != "" {
		return cached
	} else if err != nil && !errors.Is(err, pkgcache.ErrCacheMiss) {
		r.logger.Warn("company name cache read failed",
			applogger.String("ticker", ticker),
			applogger.Error(err))
	}

	name, ok := seedNames[ticker]
	if !ok {
		return ticker
	}
	if err := r.cache.Set(ctx, key, name, r.ttl); err != nil {
		r.logger.Warn("company name cache write failed",
			applogger.String("ticker", ticker),
			applogger.Error(err))
	}
	return name
}

// Known reports whether the ticker resolves to a seeded name. Used as the
// disambiguation predicate for bare numeric codes.
func (r *NameResolver) Known(ticker string) bool {
	_, ok := seedNames[ticker]
	return ok
}

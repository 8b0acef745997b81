package oracle

import (
	"sync"

	"leasevault/currency"
	"leasevault/price"
)

// ManualOracle is an in-memory PriceOracle/SwapPathResolver implementation
// for tests and local fixtures, adapted from native/swap.ManualOracle: a
// mutex-guarded map of quotes set directly by the caller instead of
// fetched from a feed.
type ManualOracle struct {
	mu     sync.RWMutex
	base   currency.Ticker
	quotes map[currency.Ticker]Quote
	paths  map[pathKey][]currency.Ticker
}

type pathKey struct{ from, to currency.Ticker }

// NewManualOracle constructs an empty manual oracle quoting every currency
// against base.
func NewManualOracle(base currency.Ticker) *ManualOracle {
	return &ManualOracle{
		base:   base,
		quotes: make(map[currency.Ticker]Quote),
		paths:  make(map[pathKey][]currency.Ticker),
	}
}

// Set records p as the current price of p.BaseTicker() in terms of the
// oracle's base currency.
func (m *ManualOracle) Set(p price.Price, observedAt Quote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[p.BaseTicker()] = Quote{Price: p, Timestamp: observedAt.Timestamp}
}

// SetPath records the swap route between two currencies for SwapPath
// queries.
func (m *ManualOracle) SetPath(from, to currency.Ticker, path []currency.Ticker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths[pathKey{from, to}] = append([]currency.Ticker(nil), path...)
}

func (m *ManualOracle) BaseCurrency() currency.Ticker { return m.base }

func (m *ManualOracle) PriceOf(c currency.Ticker) (price.Price, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quotes[c]
	if !ok {
		return price.Price{}, ErrNoQuote{Base: c, Quote: m.base}
	}
	return q.Price, nil
}

func (m *ManualOracle) SwapPath(from, to currency.Ticker) ([]currency.Ticker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path, ok := m.paths[pathKey{from, to}]
	if !ok {
		return []currency.Ticker{from, to}, nil
	}
	return append([]currency.Ticker(nil), path...), nil
}

func (m *ManualOracle) AddPriceAlarm(lease string, below price.Price, above *price.Price) error {
	return nil
}

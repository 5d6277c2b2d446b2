package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu               sync.Mutex
	requestCount     map[string]int64
	errorCount       map[string]int64
	issuedTokens     int64
	rateLimitedHits  map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:    make(map[string]int64),
		errorCount:      make(map[string]int64),
		rateLimitedHits: make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordIssuance counts a successfully issued token.
func (m *Metrics) RecordIssuance() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issuedTokens++
}

// RecordRateLimited counts a rejected issuance attempt per client key.
func (m *Metrics) RecordRateLimited(clientKey string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rateLimitedHits[clientKey]++
}

// IssuedTokens reports the number of tokens issued since startup.
func (m *Metrics) IssuedTokens() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.issuedTokens
}

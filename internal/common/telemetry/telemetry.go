// Package telemetry publishes lightweight expvar counters for the
// request paths worth watching: chat turns, provider latency and the
// timeline enrichment fan-out.
package telemetry

import (
	"expvar"
	"sync"
	"time"
)

var (
	initOnce sync.Once

	chatTurnsTotal    *expvar.Map
	chatFailuresTotal *expvar.Int
	chatLatencyMS     *expvar.Int

	enrichLookupsTotal *expvar.Int
	enrichMissesTotal  *expvar.Int
)

func ensureInit() {
	initOnce.Do(func() {
		chatTurnsTotal = expvar.NewMap("shala_chat_turns_total")
		chatFailuresTotal = expvar.NewInt("shala_chat_failures_total")
		chatLatencyMS = expvar.NewInt("shala_chat_provider_latency_ms")

		enrichLookupsTotal = expvar.NewInt("shala_enrichment_lookups_total")
		enrichMissesTotal = expvar.NewInt("shala_enrichment_misses_total")
	})
}

// RecordChatTurn counts a completed provider call per provider name and
// accumulates its latency.
func RecordChatTurn(provider string, elapsed time.Duration) {
	ensureInit()
	chatTurnsTotal.Add(provider, 1)
	chatLatencyMS.Add(elapsed.Milliseconds())
}

// RecordChatFailure counts a provider call that surfaced an error.
func RecordChatFailure() {
	ensureInit()
	chatFailuresTotal.Add(1)
}

// RecordEnrichmentLookup counts one plan lookup during timeline
// enrichment; found reports whether the referenced plan still exists.
func RecordEnrichmentLookup(found bool) {
	ensureInit()
	enrichLookupsTotal.Add(1)
	if !found {
		enrichMissesTotal.Add(1)
	}
}

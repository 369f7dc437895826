// Package wpmetrics provides optional Prometheus instrumentation for
// wordpack's encoders. Nothing in bitio, prefix, lz77, symtab, block or
// dict imports this package directly — it is injected through
// EncoderOptions.Metrics (decoders take no Recorder), so the core
// codec never carries a hard dependency on a metrics backend (see
// SPEC_FULL.md §4.4).
package wpmetrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder bundles wordpack's counters and histograms. The encoders
// update WordsEncoded and BytesIn (see EncoderOptions.Metrics); the other
// fields are registered but nothing in this module updates them.
// Construct one with NewRecorder and register it with whatever
// prometheus.Registerer the host application uses.
type Recorder struct {
	WordsEncoded      prometheus.Counter
	BytesIn           prometheus.Counter
	BytesOut          prometheus.Counter
	BlocksStored      prometheus.Counter
	BlocksCompressed  prometheus.Counter
	MatchLengths      prometheus.Histogram
	DictCandidates    prometheus.Counter
	DictAdmitted      prometheus.Counter
}

// NewRecorder builds a Recorder with metrics named under the "wordpack"
// namespace and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		WordsEncoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wordpack", Name: "words_encoded_total",
			Help: "Number of words passed to AddWord.",
		}),
		BytesIn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wordpack", Name: "bytes_in_total",
			Help: "Raw word bytes consumed.",
		}),
		BytesOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wordpack", Name: "bytes_out_total",
			Help: "Compressed bytes written to the sink.",
		}),
		BlocksStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wordpack", Name: "blocks_stored_total",
			Help: "Blocks emitted using the stored (uncompressed) representation.",
		}),
		BlocksCompressed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wordpack", Name: "blocks_compressed_total",
			Help: "Blocks emitted using the compressed representation.",
		}),
		MatchLengths: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wordpack", Name: "match_length_bytes",
			Help:    "Length of LZ77 matches found by the block encoder.",
			Buckets: []float64{3, 4, 8, 16, 32, 64, 128, 258},
		}),
		DictCandidates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wordpack", Name: "dict_candidates_total",
			Help: "Trie-derived candidate prefixes produced during dictionary training.",
		}),
		DictAdmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wordpack", Name: "dict_entries_admitted_total",
			Help: "Candidate prefixes admitted into the final static dictionary.",
		}),
	}
	if reg != nil {
		reg.MustRegister(r.WordsEncoded, r.BytesIn, r.BytesOut, r.BlocksStored,
			r.BlocksCompressed, r.MatchLengths, r.DictCandidates, r.DictAdmitted)
	}
	return r
}

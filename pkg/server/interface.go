/*
Package server exposes compiled corpora over msgpack IPC and HTTP.

Both transports share a Service, which resolves corpora by name through a
registry and applies the configured result and pattern limits.

# IPC

The IPC server reads msgpack messages from stdin and writes one msgpack
response per request to stdout. Every request carries an ID that is echoed
back, an action, and the fields that action needs:

	{"id": "q1", "action": "ngram", "c": "hansard", "p": "^nuna", "n": 20}
	{"id": "q2", "action": "morph_ngram", "s": ["^", "inuk/1n"]}
	{"id": "q3", "action": "word", "p": "nunavut"}
	{"id": "q4", "action": "top", "p": "taku", "n": 5}
	{"id": "q5", "action": "morpheme", "p": "juq/1v"}
	{"id": "q6", "action": "stats"}

An empty corpus name means the default empty corpus. Word list answers look like

	{"id": "q1", "w": ["nunavut"], "c": 1, "tot": 1, "t": 85}

where t is the time taken in microseconds. Failures come back as

	{"id": "q1", "e": "unknown corpus: nope", "c": 404}

using the same status codes as the HTTP server.

# HTTP

The HTTP server is a gin engine with one route group per corpus:

	GET /corpora/:name/ngram?p=^nuna&n=20
	GET /corpora/:name/morph-ngram?s=^,inuk/1n
	GET /corpora/:name/morpheme?m=juq/1v
	GET /corpora/:name/words/:word
	GET /corpora/:name/top?prefix=taku&n=5
	GET /corpora/:name/stats

plus /corpora and /health.
*/
package server

import "github.com/bastiangx/morphindex/pkg/corpus"

// IPC actions.
const (
	ActionNgram      = "ngram"
	ActionMorphNgram = "morph_ngram"
	ActionMorpheme   = "morpheme"
	ActionWord       = "word"
	ActionTop        = "top"
	ActionStats      = "stats"
	ActionCorpora    = "corpora"
	ActionHealth     = "health"
)

// Request - IPC query request
type Request struct {
	ID       string   `msgpack:"id"`
	Action   string   `msgpack:"action"`
	Corpus   string   `msgpack:"c,omitempty"`
	Pattern  string   `msgpack:"p,omitempty"`
	Segments []string `msgpack:"s,omitempty"`
	Limit    int      `msgpack:"n,omitempty"`
}

// WordsResponse - answer to ngram and morph_ngram
type WordsResponse struct {
	ID        string   `msgpack:"id"`
	Words     []string `msgpack:"w"`
	Count     int      `msgpack:"c"`
	Total     int      `msgpack:"tot"`
	TimeTaken int64    `msgpack:"t"`
}

// RankedResponse - answer to top and morpheme
type RankedResponse struct {
	ID        string                 `msgpack:"id"`
	Words     []corpus.WordFrequency `msgpack:"r"`
	Count     int                    `msgpack:"c"`
	Total     int                    `msgpack:"tot,omitempty"`
	TimeTaken int64                  `msgpack:"t"`
}

// WordResponse - answer to word
type WordResponse struct {
	ID           string           `msgpack:"id"`
	Info         *corpus.WordInfo `msgpack:"i"`
	Segmentation string           `msgpack:"seg"`
	TimeTaken    int64            `msgpack:"t"`
}

// StatsResponse - answer to stats
type StatsResponse struct {
	ID     string        `msgpack:"id"`
	Report corpus.Report `msgpack:"r"`
}

// StatusResponse - answer to health and corpora, also sent once at startup
type StatusResponse struct {
	ID      string   `msgpack:"id,omitempty"`
	Status  string   `msgpack:"status"`
	Corpora []string `msgpack:"corpora,omitempty"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

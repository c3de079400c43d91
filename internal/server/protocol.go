/*
Package server implements the msgpack IPC protocol of the lexis command.

Clients write one msgpack map per request to the server's input and read one
msgpack map per response from its output. Requests are handled in order, one
at a time, and every response echoes the request ID.

# Operations

Index a record, replacing any text previously stored under the key:

	{"id": "1", "op": "insert", "key": "nyc", "text": "New York City"}

Remove it again:

	{"id": "2", "op": "remove", "key": "nyc"}

Search, optionally choosing the kind ("keyword", "conjunctive", "live"), the
conjunction ("and", "or") and the number of results:

	{"id": "3", "op": "search", "q": "new york", "conj": "or", "k": 10}

Responses carry ranked keys, their count and the time taken in microseconds:

	{"id": "3", "r": [{"key": "nyc", "s": 2}], "c": 1, "t": 12}

Autocomplete the trailing keyword, with kind "keyword", "global" or
"contextual":

	{"id": "4", "op": "autocomplete", "q": "new y", "kind": "contextual"}
	{"id": "4", "a": [{"w": "york", "x": "new york", "keys": ["nyc"]}], "c": 1, "t": 9}

Index statistics and liveness:

	{"id": "5", "op": "stats"}
	{"id": "6", "op": "health"}

Failed requests get a response with the error message in "e".
*/
package server

import "github.com/wizenheimer/lexis"

// Operations understood by the server.
const (
	OpInsert       = "insert"
	OpRemove       = "remove"
	OpSearch       = "search"
	OpAutocomplete = "autocomplete"
	OpStats        = "stats"
	OpHealth       = "health"
)

// Request is a single client message.
type Request struct {
	ID          string `msgpack:"id"`
	Op          string `msgpack:"op"`
	Query       string `msgpack:"q,omitempty"`
	K           int    `msgpack:"k,omitempty"`
	Key         string `msgpack:"key,omitempty"`
	Text        string `msgpack:"text,omitempty"`
	Kind        string `msgpack:"kind,omitempty"`
	Conjunction string `msgpack:"conj,omitempty"`
}

// Result is one ranked search hit.
type Result struct {
	Key   string  `msgpack:"key"`
	Score float64 `msgpack:"s"`
}

// Completion is one autocomplete suggestion.
type Completion struct {
	Keyword string   `msgpack:"w"`
	Text    string   `msgpack:"x"`
	Keys    []string `msgpack:"keys"`
}

// Response answers one Request.
type Response struct {
	ID          string       `msgpack:"id"`
	Results     []Result     `msgpack:"r,omitempty"`
	Completions []Completion `msgpack:"a,omitempty"`
	Stats       *lexis.Stats `msgpack:"stats,omitempty"`
	Status      string       `msgpack:"status,omitempty"`
	Count       int          `msgpack:"c"`
	TimeTaken   int64        `msgpack:"t"`
	Error       string       `msgpack:"e,omitempty"`
}

/*
Package server implements msgpack IPC for keyboard suggestion services.

The server package provides a minimal interface for ranked suggestions using msgpack serialization over stdin/stdout.

The protocol uses binary msgpack encoding and supports suggestion requests, dictionary management ops, language switching, and selection feedback.
Messages are processed synchronously with timing info included in responses.

# IPC

The server operates on a request response model where clients send structured messages via stdin and receive responses through stdout.
Each message contains an ID field, a command, and other fields based on the operation type.

Suggestion requests use mainly this structure:

	{"id": "req_001", "cmd": "suggest", "q": "かみ", "ctx": "お祈りをする", "l": 5}

The server responds with ranked candidates:

	{"id": "req_001", "s": [{"w": "神", "r": 1, "src": "context"}, {"w": "紙", "r": 2, "src": "context"}], "c": 2, "t": 1}

Selection feedback drives the on-device reranking:

	{"id": "sel_001", "cmd": "select", "ctx": "お祈りをする", "sel": "神"}

Dict management enables runtime edits of the custom abbreviation set:

	{"id": "dict_001", "cmd": "dict_add", "k": "omw", "v": "on my way", "prio": 100}
	{"id": "dict_002", "cmd": "dict_info"}

Response structures include status information and error details when an op fails.

# Message Types

Request carries every command; unused fields stay empty on the wire via
omitempty. SuggestResponse handles the main ranked suggestion output with
word, rank, and source per candidate, plus timing data. StatusResponse
covers dictionary and lifecycle ops. ErrorResponse reports malformed or
rejected requests with an HTTP-like code.

msgpack encoding has ~30 to 50% smaller message sizes compared to JSON.
binary format enables faster parsing and generation, less errors and reducing latency in most cases.
*/
package server

// Request - a single client message; Cmd selects the operation
type Request struct {
	ID       string `msgpack:"id"`
	Cmd      string `msgpack:"cmd"`
	Input    string `msgpack:"q,omitempty"`
	Context  string `msgpack:"ctx,omitempty"`
	Limit    int    `msgpack:"l,omitempty"`
	Language string `msgpack:"lang,omitempty"`
	Key      string `msgpack:"k,omitempty"`
	Value    string `msgpack:"v,omitempty"`
	Priority int    `msgpack:"prio,omitempty"`
	Selected string `msgpack:"sel,omitempty"`
}

// Suggestion - minimal suggestion response
type Suggestion struct {
	Word   string `msgpack:"w"`
	Rank   uint16 `msgpack:"r"`
	Source string `msgpack:"src"`
}

// SuggestResponse - ranked suggestion response
type SuggestResponse struct {
	ID          string       `msgpack:"id"`
	Suggestions []Suggestion `msgpack:"s"`
	Count       int          `msgpack:"c"`
	TimeTaken   int64        `msgpack:"t"`
}

// StatusResponse - dictionary and lifecycle operation response
type StatusResponse struct {
	ID       string `msgpack:"id"`
	Status   string `msgpack:"status"`
	Error    string `msgpack:"error,omitempty"`
	Entries  int    `msgpack:"entries,omitempty"`
	Language string `msgpack:"lang,omitempty"`
}

// ErrorResponse holds basic error information for rejected requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

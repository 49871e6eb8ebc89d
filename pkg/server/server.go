package server

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/mizutok/kanakey/pkg/dictionary"
	"github.com/mizutok/kanakey/pkg/keyboard"
)

// Server handles the IPC for keyboard suggestions
type Server struct {
	handler *keyboard.Handler
	dict    *dictionary.Dictionary
	dec     *msgpack.Decoder
	enc     *msgpack.Encoder
}

// NewServer creates a suggestion server using stdin/stdout for IPC
func NewServer(handler *keyboard.Handler, dict *dictionary.Dictionary) *Server {
	return newServerIO(handler, dict, os.Stdin, os.Stdout)
}

func newServerIO(handler *keyboard.Handler, dict *dictionary.Dictionary, r io.Reader, w io.Writer) *Server {
	return &Server{
		handler: handler,
		dict:    dict,
		dec:     msgpack.NewDecoder(r),
		enc:     msgpack.NewEncoder(w),
	}
}

// Start begins listening for IPC requests
func (s *Server) Start() error {
	log.Debug("Starting Server.")

	// Signal that the server is ready
	s.sendResponse(StatusResponse{Status: "ready"})

	// incoming requests stdin
	for {
		var request Request
		if err := s.dec.Decode(&request); err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			return err
		}
		s.handleRequest(request)
	}
}

// handleRequest dispatches an incoming request by command
func (s *Server) handleRequest(request Request) {
	switch request.Cmd {
	case "suggest":
		s.handleSuggest(request)
	case "select":
		s.handleSelect(request)
	case "lang":
		s.handleLanguage(request)
	case "dict_add":
		s.handleDictAdd(request)
	case "dict_remove":
		s.handleDictRemove(request)
	case "dict_reload":
		s.handleDictReload(request)
	case "dict_info":
		s.sendResponse(StatusResponse{ID: request.ID, Status: "ok", Entries: s.dict.Len()})
	case "save":
		s.handleSave(request)
	case "health":
		s.sendResponse(StatusResponse{ID: request.ID, Status: "ok", Language: s.handler.Language()})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown command: %s", request.Cmd), 400)
	}
}

// sendResponse encodes the response onto the msgpack stream.
func (s *Server) sendResponse(response interface{}) {
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(ErrorResponse{
		ID:    id,
		Error: message,
		Code:  code,
	})
}

// handleSuggest serves a ranked suggestion request. It validates the
// request, queries the handler, and sends the response with timing. A
// missing limit falls back to the configured maximum.
func (s *Server) handleSuggest(request Request) {
	input := request.Input

	if input == "" {
		s.sendError(request.ID, "Missing 'q' parameter", 400)
		log.Debug("Input is empty in request")
		return
	}

	if len([]rune(input)) > 256 {
		s.sendError(request.ID, "Input exceeds maximum length of 256 characters", 400)
		log.Debug("Input is too long in request")
		return
	}

	start := time.Now()
	candidates := s.handler.GetSuggestions(input, request.Context, request.Limit)
	elapsed := time.Since(start)

	suggestions := make([]Suggestion, len(candidates))
	for i, c := range candidates {
		suggestions[i] = Suggestion{
			Word:   c.Surface,
			Rank:   uint16(i + 1),
			Source: c.Source.String(),
		}
	}

	s.sendResponse(SuggestResponse{
		ID:          request.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Milliseconds(),
	})
}

// handleSelect records an accepted candidate for reranking.
func (s *Server) handleSelect(request Request) {
	if request.Selected == "" {
		s.sendError(request.ID, "Missing 'sel' parameter", 400)
		return
	}
	s.handler.RecordSelection(request.Context, request.Selected)
	s.sendResponse(StatusResponse{ID: request.ID, Status: "ok"})
}

// handleLanguage switches the active language rules.
func (s *Server) handleLanguage(request Request) {
	if request.Language == "" {
		s.sendError(request.ID, "Missing 'lang' parameter", 400)
		return
	}
	if err := s.handler.SwitchLanguage(request.Language); err != nil {
		s.sendError(request.ID, err.Error(), 400)
		return
	}
	s.sendResponse(StatusResponse{ID: request.ID, Status: "ok", Language: request.Language})
}

func (s *Server) handleDictAdd(request Request) {
	if request.Key == "" || request.Value == "" {
		s.sendError(request.ID, "Missing 'k' or 'v' parameter", 400)
		return
	}
	s.dict.Add(request.Key, request.Value, request.Priority)
	if err := s.persistDict(); err != nil {
		s.sendResponse(StatusResponse{ID: request.ID, Status: "error", Error: err.Error()})
		return
	}
	s.sendResponse(StatusResponse{ID: request.ID, Status: "ok", Entries: s.dict.Len()})
}

func (s *Server) handleDictRemove(request Request) {
	if request.Key == "" {
		s.sendError(request.ID, "Missing 'k' parameter", 400)
		return
	}
	if !s.dict.Remove(request.Key) {
		s.sendResponse(StatusResponse{ID: request.ID, Status: "error", Error: "entry not found"})
		return
	}
	if err := s.persistDict(); err != nil {
		s.sendResponse(StatusResponse{ID: request.ID, Status: "error", Error: err.Error()})
		return
	}
	s.sendResponse(StatusResponse{ID: request.ID, Status: "ok", Entries: s.dict.Len()})
}

func (s *Server) handleDictReload(request Request) {
	if err := s.dict.Reload(); err != nil {
		s.sendResponse(StatusResponse{ID: request.ID, Status: "error", Error: err.Error()})
		return
	}
	s.sendResponse(StatusResponse{ID: request.ID, Status: "ok", Entries: s.dict.Len()})
}

func (s *Server) handleSave(request Request) {
	if err := s.handler.Save(); err != nil {
		s.sendResponse(StatusResponse{ID: request.ID, Status: "error", Error: err.Error()})
		return
	}
	if err := s.persistDict(); err != nil {
		s.sendResponse(StatusResponse{ID: request.ID, Status: "error", Error: err.Error()})
		return
	}
	s.sendResponse(StatusResponse{ID: request.ID, Status: "ok"})
}

// persistDict writes the dictionary back to its backing file. Dictionaries
// without one, like the builtin defaults, are memory only.
func (s *Server) persistDict() error {
	if s.dict.Path() == "" {
		return nil
	}
	return s.dict.Save(s.dict.Path())
}

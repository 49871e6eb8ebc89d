// Package cli handles cmd line input and suggestions for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mizutok/kanakey/pkg/keyboard"
	"github.com/mizutok/kanakey/pkg/predict"
)

// InputHandler processes user input from stdin, providing ranked
// suggestions. The current context and language are session state,
// adjusted with colon commands.
type InputHandler struct {
	handler      *keyboard.Handler
	suggestLimit int
	context      string
	last         []predict.Candidate
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(handler *keyboard.Handler, limit int) *InputHandler {
	return &InputHandler{
		handler:      handler,
		suggestLimit: limit,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to the handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	log.Print("kanakey CLI [BETA]")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type something and press Enter to see the suggestions (Ctrl+C to exit):")
	log.Print("commands: :lang <code>  :ctx <text>  :pick <n>")

	for {
		log.Print("> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, ":") {
			h.handleCommand(input)
			continue
		}
		h.handleInput(input)
	}
}

// handleCommand processes a colon command for session state.
func (h *InputHandler) handleCommand(input string) {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case ":lang":
		if err := h.handler.SwitchLanguage(arg); err != nil {
			log.Errorf("Switching language: %v", err)
			return
		}
		log.Printf("Language set to '%s'", arg)
	case ":ctx":
		h.context = arg
		log.Printf("Context set to '%s'", arg)
	case ":pick":
		h.handlePick(arg)
	default:
		log.Errorf("Unknown command: %s", cmd)
	}
}

// handlePick records the nth suggestion of the last request as accepted,
// feeding the on-device reranking.
func (h *InputHandler) handlePick(arg string) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(h.last) {
		log.Errorf("No suggestion at position '%s'", arg)
		return
	}
	selected := h.last[n-1].Surface
	h.handler.RecordSelection(h.context, selected)
	log.Printf("Recorded selection '%s'", selected)
}

// handleInput processes a single input to generate suggestions.
// Results are formatted and printed to the log.
func (h *InputHandler) handleInput(input string) {
	start := time.Now()

	log.Debug("Processing request for", "input", input, "context", h.context)
	suggestions := h.handler.GetSuggestions(input, h.context, h.suggestLimit)

	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for input '%s'", elapsed, input)

	if len(suggestions) == 0 {
		log.Warnf("No suggestions found for input: '%s'", input)
		return
	}

	h.last = suggestions
	log.Printf("Found %d suggestions for input '%s':", len(suggestions), input)
	for i, s := range suggestions {
		clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", s.Surface)
		log.Printf("%2d. %-40s (source: %-10s score: %.3f)", i+1, clWord, s.Source, s.Score)
	}
}

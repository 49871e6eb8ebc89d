// Copyright 2026 The kanakey Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the keyboard suggestion server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

kanakey provides ranked next-word suggestions for mobile keyboard frontends,
combining a user abbreviation dictionary, kanji homonym disambiguation from
the surrounding text, and an optional statistical scorer. It can operate as
a MessagePack IPC server for integration with keyboard processes, or as a
CLI application for testing and debugging.

Accepted suggestions are recorded per context and rerank future results, so
the engine converges on each user's habits without any cloud round trip.

# Usage

Start the server with default settings:

	kanakey

Use a custom kanji resource directory and enable debug mode:

	kanakey -data /path/to/resources -d

Run in CLI mode for interactive testing:

	kanakey -c -limit 10 -lang ja

The resource directory should contain kanji_dictionary.json,
compound_words.json, context_rules.json, and compound_rules.json. Missing
files fall back to the embedded resources.

# Configuration

Runtime configuration is managed through a TOML file that supports server
parameters, dictionary and tracker paths, and the context window:

	[server]
	max_suggestions = 5
	default_language = "en"

	[dict]
	path = "~/.config/kanakey/dictionary.json"
	enable_watcher = true

	[learn]
	flush_every = 10

The config file is automatically created with defaults if it doesn't exist.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Suggestion
requests are processed synchronously with timing information included in
responses.

Send a suggestion request:

	{"id": "req1", "cmd": "suggest", "q": "かみ", "ctx": "お祈りをする", "l": 5}

Receive ranked candidates:

	{"id": "req1", "s": [{"w": "神", "r": 1, "src": "context"}], "c": 1, "t": 1}

Selection feedback and dictionary management use the same stream:

	{"id": "sel1", "cmd": "select", "ctx": "お祈りをする", "sel": "神"}
	{"id": "dict1", "cmd": "dict_add", "k": "omw", "v": "on my way"}

# Server Mode

The default mode starts a MessagePack IPC server that processes suggestion
requests from stdin and writes responses to stdout. This design enables
integration with keyboard frontends through process communication.

	srv := server.NewServer(handler, dict)
	err := srv.Start()

# CLI Mode

CLI mode provides an interactive interface for testing and debugging the
suggestion pipeline. It reads input from stdin and displays ranked
candidates with their source and score. Session state is adjusted with
colon commands (:lang, :ctx, :pick).

	inputHandler := cli.NewInputHandler(handler, limit)
	err := inputHandler.Start()

This mode is primarily intended for development and testing new features
before deploying to server mode.

# Command Line Flags

The following flags control application behavior:

	-config string
	    Path to a config.toml (default: user config dir)
	-data string
	    Directory containing kanji resource files (default: embedded)
	-dict string
	    Path to the custom dictionary JSON (default: builtin defaults)
	-lang string
	    Initial language code (default from config)
	-limit int
	    Number of suggestions to return in CLI mode
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode

Paths given on the command line win over the config file, which wins over
the builtin defaults.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/mizutok/kanakey/internal/cli"
	"github.com/mizutok/kanakey/pkg/config"
	"github.com/mizutok/kanakey/pkg/dictionary"
	"github.com/mizutok/kanakey/pkg/kanji"
	"github.com/mizutok/kanakey/pkg/keyboard"
	"github.com/mizutok/kanakey/pkg/learn"
	"github.com/mizutok/kanakey/pkg/predict"
	"github.com/mizutok/kanakey/pkg/rules"
	"github.com/mizutok/kanakey/pkg/server"
)

const (
	Version = "0.3.0-beta"
	AppName = "kanakey"
	gh      = "https://github.com/mizutok/kanakey"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to a config.toml")
	dataDir := flag.String("data", "", "Directory containing kanji resource files (empty for embedded)")
	dictPath := flag.String("dict", "", "Path to the custom dictionary JSON (empty for builtin defaults)")
	langFlag := flag.String("lang", "", "Initial language code")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", 0, "Number of suggestions to return (0 for config default)")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", activePath)

	ruleEngine, err := buildRules(appConfig)
	if err != nil {
		log.Fatalf("Failed to load language rules: %v", err)
	}

	kanjiScorer, err := buildKanjiScorer(*dataDir, appConfig)
	if err != nil {
		log.Fatalf("Failed to load kanji resources: %v", err)
	}

	dict, err := buildDictionary(*dictPath, appConfig)
	if err != nil {
		log.Fatalf("Failed to load dictionary: %v", err)
	}

	if appConfig.Dict.EnableWatcher && dict.Path() != "" {
		stop, err := dict.Watch()
		if err != nil {
			log.Warnf("Dictionary watcher unavailable: %v", err)
		} else {
			defer stop()
		}
	}

	tracker, err := buildTracker(appConfig)
	if err != nil {
		log.Fatalf("Failed to load selection history: %v", err)
	}

	lang := appConfig.Server.DefaultLanguage
	if *langFlag != "" {
		lang = *langFlag
	}

	engine := predict.NewEngine(dict, predict.DisabledScorer{}, ruleEngine, kanjiScorer)
	handler := keyboard.NewHandler(engine, tracker, ruleEngine, keyboard.Config{
		MaxSuggestions:  appConfig.Server.MaxSuggestions,
		DefaultLanguage: appConfig.Server.DefaultLanguage,
		WindowRunes:     appConfig.Context.WindowRunes,
		Temperature:     appConfig.Server.Temperature,
	})
	defer handler.Close()

	if lang != handler.Language() {
		if err := handler.SwitchLanguage(lang); err != nil {
			log.Fatalf("Unknown language %q: %v", lang, err)
		}
	}

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		suggestLimit := *limit
		if suggestLimit <= 0 {
			suggestLimit = appConfig.Server.MaxSuggestions
		}
		inputHandler := cli.NewInputHandler(handler, suggestLimit)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(handler, dict)

	showStartupInfo(dict, lang)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildRules loads the YAML rule set from config, falling back to the
// builtin rules when no path is set.
func buildRules(appConfig *config.Config) (*rules.Engine, error) {
	cfg := rules.DefaultConfig()
	if appConfig.Rules.Path != "" {
		loaded, err := rules.LoadConfig(appConfig.Rules.Path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	return rules.NewEngine(cfg)
}

// buildKanjiScorer loads homonym resources from the flag or config dir,
// falling back to the embedded set.
func buildKanjiScorer(dataDir string, appConfig *config.Config) (*kanji.Scorer, error) {
	dir := dataDir
	if dir == "" {
		dir = appConfig.Kanji.Dir
	}
	var store *kanji.Store
	var err error
	if dir != "" {
		store, err = kanji.LoadStore(dir)
	} else {
		store, err = kanji.DefaultStore()
	}
	if err != nil {
		return nil, err
	}
	return kanji.NewScorer(store), nil
}

// buildDictionary opens the user dictionary from the flag or config path,
// falling back to the builtin abbreviation set.
func buildDictionary(dictPath string, appConfig *config.Config) (*dictionary.Dictionary, error) {
	path := dictPath
	if path == "" {
		path = appConfig.Dict.Path
	}
	if path != "" {
		return dictionary.Open(path)
	}
	return dictionary.Default()
}

// buildTracker opens the selection tracker at the configured path, or next
// to the config file when unset.
func buildTracker(appConfig *config.Config) (*learn.Tracker, error) {
	path := appConfig.Learn.Path
	if path == "" {
		configDir, err := config.GetConfigDir()
		if err != nil {
			log.Warnf("No writable selection history location: %v. Learning is session only.", err)
			path = ""
		} else {
			path = filepath.Join(configDir, "selections.json")
		}
	}
	policy := learn.DefaultFlushPolicy()
	if appConfig.Learn.FlushEvery > 0 {
		policy.EveryN = appConfig.Learn.FlushEvery
	}
	tracker := learn.NewTracker(path, policy)
	if err := tracker.Load(); err != nil {
		return nil, err
	}
	return tracker, nil
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()

	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ kanakey ] On-device keyboard suggestions!")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dict *dictionary.Dictionary, lang string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("=========")
	println(" kanakey ")
	println("=========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("dictionary entries: [ %d ]", dict.Len())
	log.Infof("language: ( %s )", lang)
	log.Info("status: ready")
	println("=========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}

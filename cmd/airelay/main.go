// Command airelay streams a prompt to a configured LLM provider and writes
// the response to stdout as it arrives. Ctrl-C cancels the in-flight
// request; the transport's abort error then resolves the call normally.
//
// Configuration: an optional YAML file (-config), AIRELAY_* environment
// variables, and provider credentials from the environment (a .env file is
// loaded automatically when present).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/leofalp/airelay/core/config"
	"github.com/leofalp/airelay/core/dispatch"
	"github.com/leofalp/airelay/core/spool"
	"github.com/leofalp/airelay/core/transport"
	"github.com/leofalp/airelay/providers/ai"
	"github.com/leofalp/airelay/providers/ai/anthropic"
	"github.com/leofalp/airelay/providers/ai/gemini"
	"github.com/leofalp/airelay/providers/ai/ollama"
	"github.com/leofalp/airelay/providers/ai/openai"
	"github.com/leofalp/airelay/providers/observability"
)

func main() {
	providerFlag := flag.String("provider", "", "provider key (overrides config)")
	configFlag := flag.String("config", "", "path to a YAML config file")
	systemFlag := flag.String("system", "", "system prompt")
	debugFlag := flag.Bool("debug", false, "retain spooled request bodies for inspection")
	verboseFlag := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	prompt := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if prompt == "" {
		fmt.Fprintln(os.Stderr, "usage: airelay [flags] <prompt>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	settings, err := config.Load(*configFlag)
	if err != nil {
		fatal(err)
	}
	if *providerFlag != "" {
		settings.Provider = *providerFlag
	}
	if *debugFlag {
		settings.Debug = true
	}

	registry := ai.NewRegistry()
	register(registry, "anthropic", func() ai.Adapter { return anthropic.New() })
	register(registry, "openai", func() ai.Adapter { return openai.New() })
	register(registry, "gemini", func() ai.Adapter { return gemini.New() })
	register(registry, "ollama", func() ai.Adapter { return ollama.New() })

	level := slog.LevelInfo
	if *verboseFlag {
		level = slog.LevelDebug
	}
	logger := observability.NewDeduper(observability.NewSlog(
		slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	))

	dispatcher := dispatch.New(registry,
		dispatch.WithStore(spool.New(settings.SpoolDir, settings.Debug)),
		dispatch.WithTransport(&transport.HTTPTransport{Timeout: settings.Timeout}),
		dispatch.WithLogger(logger),
	)

	exitCode := 0
	job, err := dispatcher.Start(context.Background(), &ai.PromptRequest{
		Provider: settings.Provider,
		System:   *systemFlag,
		Prompt:   []string{prompt},
	}, ai.Handlers{
		OnChunk: func(fragment ai.Fragment) {
			fmt.Print(fragment.Text)
		},
		OnComplete: func(err error) {
			if err != nil {
				fmt.Fprintf(os.Stderr, "\nairelay: %v\n", err)
				exitCode = 1
				return
			}
			fmt.Println()
		},
	})
	if err != nil {
		fatal(err)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-interrupt:
			dispatcher.CancelActive()
		case <-job.Done():
			os.Exit(exitCode)
		}
	}
}

func register(registry *ai.Registry, name string, factory ai.Factory) {
	if err := registry.Register(name, factory); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "airelay: %v\n", err)
	os.Exit(1)
}

// Command catalogue reads a network document, answers its stat requests and
// prints the responses as JSON.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"transitcatalogue.dev/internal/logging"
	"transitcatalogue.dev/internal/requests"
	"transitcatalogue.dev/internal/transit"
)

func main() {
	var input, logLevel string
	flag.StringVar(&input, "input", "", "Read the document from this file instead of stdin")
	flag.StringVar(&logLevel, "log-level", "warn", "Log level for stderr (debug|info|warn|error)")
	flag.Parse()

	logger := logging.NewStructuredLogger(os.Stderr, logging.ParseLevel(logLevel))

	if err := run(input, os.Stdin, os.Stdout, logger); err != nil {
		logging.LogError(logger, "catalogue failed", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(input string, stdin io.Reader, stdout io.Writer, logger *slog.Logger) (err error) {
	r := stdin
	if input != "" {
		f, openErr := os.Open(input)
		if openErr != nil {
			return fmt.Errorf("error opening input: %w", openErr)
		}
		defer logging.HandleDeferredError(&err, f.Close, logger, "close_input")
		r = f
	}

	doc, err := requests.Decode(r)
	if err != nil {
		return err
	}

	manager := transit.NewManager(logger)
	if err := manager.LoadDocument(doc); err != nil {
		return err
	}

	processor := requests.NewProcessor(manager, manager.RenderSettings(), logger)
	responses, err := processor.Process(doc.StatRequests)
	if err != nil {
		return err
	}
	return requests.WriteResponses(stdout, responses)
}

// cmd/tools/ask/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/BalRam15/Assignment-qa-services/internal/common/config"
	"github.com/BalRam15/Assignment-qa-services/internal/common/logger"
	"github.com/BalRam15/Assignment-qa-services/internal/common/messageapi"
	"github.com/BalRam15/Assignment-qa-services/internal/models"
	answerquestion "github.com/BalRam15/Assignment-qa-services/internal/workers/qa/answer-question"
)

type askOptions struct {
	file     string
	url      string
	timeout  time.Duration
	timezone string
	debug    bool
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := &askOptions{}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question about members from their messages",
		Long: `Answer a single question against a message collection.

Messages are read from --file (a JSON array, or an object with a "messages"
or "items" array) or fetched from --url. Without either, the public messages
endpoint is used.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd.Context(), cmd.OutOrStdout(), strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read messages from a JSON file")
	cmd.Flags().StringVarP(&opts.url, "url", "u", "", "Fetch messages from this URL")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Fetch timeout")
	cmd.Flags().StringVar(&opts.timezone, "timezone", "UTC", "Timezone for relative dates")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Print the resolved intent and entities")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log fetch details to stderr")
	cmd.MarkFlagsMutuallyExclusive("file", "url")

	return cmd
}

func runAsk(ctx context.Context, out io.Writer, question string, opts *askOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log := logger.NewNoOpLogger()
	if opts.verbose {
		log = logger.NewStructured("debug", "console", "stderr")
	}

	location, err := time.LoadLocation(opts.timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", opts.timezone, err)
	}

	workerCfg := answerquestion.LoadConfig()
	workerCfg.Timeout = opts.timeout
	workerCfg.Location = location

	input := &answerquestion.Input{Question: question}
	var source answerquestion.MessageSource

	if opts.file != "" {
		payload, err := os.ReadFile(opts.file)
		if err != nil {
			return fmt.Errorf("failed to read messages file: %w", err)
		}
		messages, err := models.DecodeMessages(payload)
		if err != nil {
			return fmt.Errorf("failed to decode messages file: %w", err)
		}
		input.Messages = messages
	} else {
		url := opts.url
		if url == "" {
			url = config.DefaultMessagesURL
		}
		source = messageapi.NewClient(messageapi.Config{URL: url, Timeout: opts.timeout}, log)
	}

	result, err := answerquestion.NewHandler(workerCfg, source, log).Execute(ctx, input)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, result.Answer)
	if opts.debug {
		fmt.Fprintf(out, "intent:   %s\n", result.Intent)
		fmt.Fprintf(out, "subject:  %s\n", result.Subject)
		fmt.Fprintf(out, "location: %s\n", result.Location)
		fmt.Fprintf(out, "found:    %t\n", result.Found)
		fmt.Fprintf(out, "scanned:  %d (%s)\n", result.MessagesScanned, result.Source)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

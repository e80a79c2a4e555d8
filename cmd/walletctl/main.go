// Command walletctl browses and edits a wallet from the terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"wallet/internal/client"
	"wallet/internal/logger"
)

const (
	defaultAPIURL  = "http://localhost:8080"
	defaultTimeout = 15 * time.Second
)

const usage = `usage: walletctl <command> [flags]

commands:
  entries   list one period's entries grouped by day
  delete    delete a transaction, updating the local view first
  simulate  preview an installment plan
  summary   income, expenses and balance for consecutive periods

environment:
  WALLET_API_URL  API base URL (default http://localhost:8080)
  WALLET_TOKEN    bearer access token
  WALLET_TIMEOUT  request timeout (default 15s)`

// settings is the environment walletctl runs with.
type settings struct {
	APIURL  string
	Token   string
	Timeout time.Duration
}

func loadSettings(getenv func(string) string) (settings, error) {
	s := settings{
		APIURL:  getenv("WALLET_API_URL"),
		Token:   getenv("WALLET_TOKEN"),
		Timeout: defaultTimeout,
	}
	if s.APIURL == "" {
		s.APIURL = defaultAPIURL
	}
	if raw := getenv("WALLET_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return settings{}, fmt.Errorf("invalid WALLET_TIMEOUT %q", raw)
		}
		s.Timeout = d
	}
	return s, nil
}

// app carries what every command needs.
type app struct {
	client *client.Client
	out    io.Writer
	log    *zap.SugaredLogger
}

func main() {
	logger.Init(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Getenv, os.Stdout); err != nil {
		logger.Get().Fatalf("walletctl: %v", err)
	}
}

func run(ctx context.Context, args []string, getenv func(string) string, out io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "help" {
		_, _ = fmt.Fprintln(out, usage)
		return nil
	}

	s, err := loadSettings(getenv)
	if err != nil {
		return err
	}
	a := &app{
		client: client.New(s.APIURL, s.Token, &http.Client{Timeout: s.Timeout}),
		out:    out,
		log:    logger.Named("walletctl"),
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "entries":
		return a.entries(ctx, rest)
	case "delete":
		return a.delete(ctx, rest)
	case "simulate":
		return a.simulate(rest)
	case "summary":
		return a.summary(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q (use %s)", cmd, strings.Join([]string{"entries", "delete", "simulate", "summary"}, ", "))
	}
}

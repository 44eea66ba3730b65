// Package cmd implements the rooms command line client.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/campus-oda/oda-rooms/internal/config"
	"github.com/campus-oda/oda-rooms/internal/logger"
	"github.com/campus-oda/oda-rooms/pkg/httpclient"
	"github.com/campus-oda/oda-rooms/pkg/oda"
	"github.com/campus-oda/oda-rooms/pkg/oda/rooms"
)

type rootOptions struct {
	baseURL string
	token   string
	timeout time.Duration
	params  []string
	verbose bool
}

// NewRootCmd builds the rooms command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "rooms",
		Short: "Query the rooms resource of the Open Data API",
		Long: `rooms lists rooms or fetches a single room from an Open Data API
endpoint and prints the decoded records as JSON.

Connection settings default to the same environment variables the
roomwatch daemon reads (ODA_BASE_URL, ODA_ACCESS_TOKEN, ...).`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "API base endpoint (overrides ODA_BASE_URL)")
	root.PersistentFlags().StringVar(&opts.token, "token", "", "bearer access token (overrides ODA_ACCESS_TOKEN)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "request timeout (overrides HTTP_TIMEOUT_SECONDS)")
	root.PersistentFlags().StringArrayVar(&opts.params, "param", nil, "query parameter as key=value, repeatable")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(newListCmd(opts))
	root.AddCommand(newGetCmd(opts))
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newClient builds a rooms client from config plus flag overrides.
func (o *rootOptions) newClient(ctx context.Context, stderr io.Writer) (*rooms.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	if o.token != "" {
		cfg.AccessToken = o.token
	}
	if o.timeout > 0 {
		cfg.HTTPTimeout = o.timeout
	}

	var log logger.Logger = &logger.NopLogger{}
	if o.verbose {
		cfg.LogLevel = "debug"
		log, err = logger.InitWriter(cfg, stderr)
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}

	hc := httpclient.New(httpclient.Options{
		Timeout:     cfg.HTTPTimeout,
		UserAgent:   cfg.UserAgent,
		TokenSource: httpclient.TokenSource(ctx, cfg.Auth()),
	})
	return rooms.New(cfg.BaseURL, hc, log)
}

// queryParams turns repeated --param key=value flags into ordered Params.
func (o *rootOptions) queryParams() (oda.Params, error) {
	var p oda.Params
	for _, raw := range o.params {
		parsed, err := oda.ParseParams(raw)
		if err != nil {
			return oda.Params{}, err
		}
		for _, kv := range parsed.All() {
			p.Add(kv.Key, kv.Value)
		}
	}
	return p, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/openpaws/openpaws/internal/auth/oauth"
	"github.com/openpaws/openpaws/internal/platforms"
	"github.com/openpaws/openpaws/internal/version"
)

const shutdownTimeout = 10 * time.Second

type serveCommand struct {
	Addr string `long:"addr" description:"Listen address (host:port); overrides HOST and PORT"`
}

func (c *serveCommand) Execute(_ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a, err := newApp(cfg, reg)
	if err != nil {
		return err
	}

	addr := cfg.Server.Address()
	if c.Addr != "" {
		addr = c.Addr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("app_url", cfg.AppURL).Str("env", cfg.AppEnv).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type connectCommand struct {
	Listen string `long:"listen" default:"127.0.0.1:0" description:"Address of the local callback server"`
	Args   struct {
		Platform string `positional-arg-name:"PLATFORM" description:"instagram, facebook, twitter, linkedin, youtube or tiktok"`
	} `positional-args:"yes" required:"yes"`
}

func (c *connectCommand) Execute(_ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, ok := platforms.Parse(c.Args.Platform)
	if !ok {
		return fmt.Errorf("unknown platform %q", c.Args.Platform)
	}

	conn := oauth.NewConnector(cfg.AppURL, oauth.WithHTTPClient(&http.Client{Timeout: cfg.OAuth.Timeout}))
	lb, err := oauth.StartLoopback(conn, c.Listen)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = lb.Close(ctx)
	}()

	flow, err := lb.Start(p)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Make sure %s is a registered redirect URI, then open:\n\n  %s\n\nWaiting up to %s for the callback...\n",
		flow.RedirectURI(), flow.URL, oauth.LoopbackTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	acct, err := flow.Wait(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(acct)
}

type platformsCommand struct{}

func (c *platformsCommand) Execute(_ []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}
	return writePlatformTable(os.Stdout)
}

func writePlatformTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLATFORM\tNAME\tCONFIGURED\tPKCE\tCHAR LIMIT\tENV")
	for _, p := range platforms.All() {
		cfg := platforms.Get(p)
		status := oauth.Status(p)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			p,
			platforms.DisplayName(p),
			yesNo(status.Configured),
			yesNo(cfg.RequiresPKCE),
			platforms.CharLimit(p),
			strings.Join([]string{cfg.ClientIDEnv, cfg.ClientSecretEnv}, ", "),
		)
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

type versionCommand struct{}

func (c *versionCommand) Execute(_ []string) error {
	fmt.Println("openpaws " + version.String())
	return nil
}

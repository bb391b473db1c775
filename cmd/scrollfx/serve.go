package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/buildworks/scrollfx/internal/contact"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the contact form API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	f := cmd.Flags()
	f.String("addr", ":8080", "listen address")
	f.String("inbox", "inquiries.db", "inquiry store (buntdb file, :memory: for none)")
	f.Duration("rate-every", 10*time.Second, "one submission per interval per client")
	f.Int("rate-burst", 3, "submissions a client may make at once")
	f.String("quote-url", "https://buildworks.ph/#quote", "URL encoded in /api/quote.png")
	f.Bool("trust-proxy", false, "take client addresses from X-Real-IP / X-Forwarded-For")
	a.bind(cmd, map[string]string{
		"server.addr":        "addr",
		"server.inbox":       "inbox",
		"server.rate_every":  "rate-every",
		"server.rate_burst":  "rate-burst",
		"server.quote_url":   "quote-url",
		"server.trust_proxy": "trust-proxy",
	})
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	log := a.sugar()
	cfg := a.cfg.Server

	inbox, err := contact.OpenInbox(cfg.InboxPath)
	if err != nil {
		return err
	}
	defer inbox.Close()

	submitters := contact.Multi{inbox}
	mail, err := contact.NewMailgunSubmitter(a.cfg.Mail, a.log)
	switch {
	case errors.Is(err, contact.ErrMailNotConfigured):
		log.Warnf("[!] %v; inquiries are only stored", err)
	case err != nil:
		return err
	default:
		submitters = append(submitters, mail)
	}

	api := contact.NewServer(submitters, contact.ServerOptions{
		RateEvery:  cfg.RateEvery,
		RateBurst:  cfg.RateBurst,
		QuoteURL:   cfg.QuoteURL,
		TrustProxy: cfg.TrustProxy,
	}, a.log)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("[*] Contact API listening on %s (inbox: %s)", cfg.Addr, cfg.InboxPath)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Infof("[*] Shutting down")
		return srv.Shutdown(shutdown)
	})
	return g.Wait()
}

package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	bmpfilter "github.com/rprtr258/bmpfilter/pkg"
)

func main() {
	if err := (&cli.App{
		Name:  "bmpfilterweb",
		Usage: "bitmap filters over http",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Value:   ":8080",
				EnvVars: []string{"BMPFILTER_ADDR"},
			},
			&cli.Int64Flag{
				Name:    "max-body",
				Usage:   "upload limit in bytes",
				Value:   32 << 20,
				EnvVars: []string{"BMPFILTER_MAX_BODY"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				EnvVars: []string{"BMPFILTER_LOG_LEVEL"},
			},
			&cli.IntFlag{
				Name:    "workers",
				Usage:   "goroutines per request for neighbourhood filters, 0 means GOMAXPROCS",
				EnvVars: []string{"BMPFILTER_WORKERS"},
			},
		},
		Action: func(ctx *cli.Context) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(ctx.String("log-level"))); err != nil {
				return fmt.Errorf("invalid log level %q: %w", ctx.String("log-level"), err)
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
			bmpfilter.SetLogger(logger)
			bmpfilter.SetMaxWorkers(ctx.Int("workers"))

			s := &http.Server{
				Addr:           ctx.String("addr"),
				Handler:        newHandler(ctx.Int64("max-body")),
				ReadTimeout:    10 * time.Second,
				WriteTimeout:   60 * time.Second,
				MaxHeaderBytes: 1 << 20,
			}
			slog.Info("listening", "addr", s.Addr)
			return s.ListenAndServe()
		},
	}).Run(os.Args); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

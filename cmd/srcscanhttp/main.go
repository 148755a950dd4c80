package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/crgimenes/goconfig"
	"github.com/quay/zlog"
	"github.com/rs/zerolog"

	"github.com/srcscan/srcscan"
	"github.com/srcscan/srcscan/download"
	"github.com/srcscan/srcscan/orchestrator"
	"github.com/srcscan/srcscan/resolver"
	"github.com/srcscan/srcscan/scanner"
	"github.com/srcscan/srcscan/store"
	"github.com/srcscan/srcscan/store/postgres"
)

// Config this struct is using the goconfig library for simple flag and env var
// parsing. See: https://github.com/crgimenes/goconfig
type Config struct {
	HTTPListenAddr  string `cfgDefault:"0.0.0.0:8080" cfg:"HTTP_LISTEN_ADDR"`
	ConnString      string `cfgDefault:"host=localhost port=5434 user=srcscan dbname=srcscan sslmode=disable" cfg:"CONNECTION_STRING" cfgHelper:"Connection string for the result store"`
	ScannerURL      string `cfgDefault:"" cfg:"SCANNER_URL" cfgHelper:"Base URL of a provenance-granular scanner service to dispatch scans to"`
	ScannerName     string `cfgDefault:"remote" cfg:"SCANNER_NAME" cfgHelper:"Name the remote scanner's results are stored under"`
	ScannerVersion  string `cfgDefault:"1" cfg:"SCANNER_VERSION" cfgHelper:"Version the remote scanner's results are stored under"`
	ScanConcurrency int    `cfgDefault:"10" cfg:"SCAN_CONCURRENCY" cfgHelper:"The number of scans dispatched concurrently per run"`
	ScanTimeout     string `cfgDefault:"0s" cfg:"SCAN_TIMEOUT" cfgHelper:"Per-invocation scanner timeout, e.g. 10m; 0s disables the bound"`
	ScratchDir      string `cfgDefault:"" cfg:"SCRATCH_DIR" cfgHelper:"Base directory for per-provenance scratch downloads; defaults to the system temp dir"`
	CheckoutDir     string `cfgDefault:"" cfg:"CHECKOUT_DIR" cfgHelper:"Base directory for cached VCS checkouts; defaults to the system temp dir"`
	LogLevel        string `cfgDefault:"debug" cfg:"LOG_LEVEL" cfgHelper:"Log levels: debug, info, warning, error, fatal, panic" `
}

func main() {
	ctx := context.Background()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, NoColor: true}).
		With().Timestamp().Caller().
		Logger()

	// parse our config
	conf := Config{}
	err := goconfig.Parse(&conf)
	if err != nil {
		log.Fatal().Msgf("failed to parse config: %v", err)
	}

	// configure logging
	log = log.Level(logLevel(conf))
	zlog.Set(&log)

	if conf.ScannerURL == "" {
		log.Fatal().Msg("SCANNER_URL must point at a scanner service")
	}
	if conf.ScratchDir == "" {
		conf.ScratchDir = os.TempDir()
	}
	if conf.CheckoutDir == "" {
		conf.CheckoutDir = os.TempDir()
	}

	st, err := postgres.Connect(ctx, conf.ConnString, "srcscan")
	if err != nil {
		log.Fatal().Msgf("failed to create db pool: %v", err)
	}
	defer st.Close(ctx)
	if err := st.Init(ctx); err != nil {
		log.Fatal().Msgf("failed to initialize store: %v", err)
	}

	var scanTimeout srcscan.Duration
	if err := scanTimeout.UnmarshalText([]byte(conf.ScanTimeout)); err != nil {
		log.Fatal().Msgf("failed to parse SCAN_TIMEOUT: %v", err)
	}

	backend := remoteBackend(conf, http.DefaultClient)

	o, err := orchestrator.New(ctx, orchestrator.Config{
		Scanners: []scanner.Backend{backend},
		Resolver: resolver.ValidatingResolver{
			Artifact: &resolver.HTTPArtifactValidator{Client: http.DefaultClient},
			VCS:      &resolver.CheckoutVCSValidator{Root: conf.CheckoutDir},
		},
		NestedResolver: &resolver.GitSubmoduleResolver{CheckoutRoot: conf.CheckoutDir},
		Downloader: download.Multi{
			Artifact: &download.HTTPArtifactDownloader{Client: http.DefaultClient},
			VCS:      &download.VCSArtifactDownloader{CacheRoot: conf.CheckoutDir},
		},
		Readers:     []store.Reader{st},
		Writers:     []store.Writer{st},
		Concurrency: conf.ScanConcurrency,
		ScanTimeout: scanTimeout,
		ScratchRoot: conf.ScratchDir,
	})
	if err != nil {
		log.Fatal().Msgf("failed to create orchestrator: %v", err)
	}

	h := orchestrator.NewHandler(o)
	srv := &http.Server{
		Addr:        conf.HTTPListenAddr,
		Handler:     h,
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	zlog.Info(ctx).Str("addr", conf.HTTPListenAddr).Msg("starting http server")
	err = srv.ListenAndServe()
	if err != nil {
		log.Fatal().Msgf("failed to start http server: %v", err)
	}
}

func logLevel(conf Config) zerolog.Level {
	if l, err := zerolog.ParseLevel(strings.ToLower(conf.LogLevel)); err == nil {
		return l
	}
	return zerolog.InfoLevel
}

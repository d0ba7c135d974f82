// Command urlnorm canonicalizes and deduplicates http and https URLs.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"urlnorm/internal/config"
	"urlnorm/internal/logging"
)

type cli struct {
	Config   string `help:"YAML configuration file." type:"path" env:"URLNORM_CONFIG" placeholder:"FILE"`
	LogLevel string `help:"Log level: debug, info, warn or error." env:"URLNORM_LOG_LEVEL" placeholder:"LEVEL"`

	Normalize normalizeCmd `cmd:"" help:"Normalize URLs given as arguments or read from stdin."`
	Dedup     dedupCmd     `cmd:"" help:"Normalize and deduplicate URL lists or HTML documents."`
}

// runtime is what every command's Run receives.
type runtime struct {
	ctx    context.Context
	cfg    *config.Config
	logger *zap.Logger
	stdin  io.Reader
	stdout io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintln(stderr, "urlnorm:", err)
		return 1
	}

	var app cli
	exitCode := -1
	parser, err := kong.New(&app,
		kong.Name("urlnorm"),
		kong.Description("Canonicalize http and https URLs for deduplication."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exitCode = code }),
		kong.UsageOnError(),
	)
	if err != nil {
		fmt.Fprintln(stderr, "urlnorm:", err)
		return 1
	}
	kctx, err := parser.Parse(args)
	if exitCode >= 0 {
		return exitCode
	}
	if err != nil {
		parser.Errorf("%s", err)
		return 1
	}

	cfg, err := config.LoadFile(app.Config)
	if err != nil {
		fmt.Fprintln(stderr, "urlnorm:", err)
		return 1
	}
	level := cfg.Log.Level
	if app.LogLevel != "" {
		level = app.LogLevel
	}
	logger, err := logging.New(level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintln(stderr, "urlnorm:", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	rt := &runtime{ctx: ctx, cfg: cfg, logger: logger, stdin: stdin, stdout: stdout}
	if err := kctx.Run(rt); err != nil {
		logger.Error("command failed", zap.String("command", kctx.Command()), zap.Error(err))
		return 1
	}
	return 0
}

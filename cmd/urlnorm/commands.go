package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"urlnorm/internal/dedup"
	"urlnorm/internal/urlnorm"
)

// normalizeFlags are shared by every command. A flag only switches a
// behavior on; the config file supplies the rest.
type normalizeFlags struct {
	Arg               []string `short:"a" sep:"none" placeholder:"NAME=VALUE" help:"Extra query argument merged into every URL (repeatable)."`
	KeepFragments     bool     `help:"Keep #fragments."`
	KeepBlankValues   bool     `help:"Keep query fields with empty values."`
	StrictQuery       bool     `help:"Reject query fields without '='."`
	KeepTrailingSlash bool     `help:"Keep a trailing slash on non-root paths."`
}

func (f normalizeFlags) options(rt *runtime) (urlnorm.Options, error) {
	opts := rt.cfg.NormalizeOptions()
	for _, raw := range f.Arg {
		name, value, ok := strings.Cut(raw, "=")
		if !ok {
			return opts, fmt.Errorf("query argument %q: want NAME=VALUE", raw)
		}
		opts.ExtraQueryArgs = append(opts.ExtraQueryArgs, urlnorm.QueryArg{Name: name, Value: value})
	}
	opts.KeepFragments = opts.KeepFragments || f.KeepFragments
	opts.KeepBlankValues = opts.KeepBlankValues || f.KeepBlankValues
	opts.StrictQuery = opts.StrictQuery || f.StrictQuery
	opts.KeepTrailingSlash = opts.KeepTrailingSlash || f.KeepTrailingSlash
	return opts, nil
}

type normalizeCmd struct {
	Flags normalizeFlags `embed:""`

	URLs        []string `arg:"" optional:"" name:"url" help:"URLs to normalize. Read one per line from stdin when omitted."`
	Hash        bool     `help:"Print the SHA-256 of each URL before it, tab separated."`
	KeepInvalid bool     `help:"Print an empty line for inputs that are not URLs."`
}

func (c *normalizeCmd) Run(rt *runtime) error {
	opts, err := c.Flags.options(rt)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(rt.stdout)
	defer out.Flush()

	invalid := 0
	emit := func(raw string) error {
		normalized, err := urlnorm.Normalize(raw, opts)
		if err != nil {
			invalid++
			rt.logger.Warn("not a url", zap.String("input", raw), zap.Error(err))
			if c.KeepInvalid {
				_, err = fmt.Fprintln(out, "")
				return err
			}
			return nil
		}
		if c.Hash {
			_, err = fmt.Fprintf(out, "%s\t%s\n", urlnorm.HashNormalized(normalized), normalized)
			return err
		}
		_, err = fmt.Fprintln(out, normalized)
		return err
	}

	if len(c.URLs) > 0 {
		for _, raw := range c.URLs {
			if err := emit(raw); err != nil {
				return err
			}
		}
	} else {
		scanner := bufio.NewScanner(rt.stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			if err := rt.ctx.Err(); err != nil {
				return err
			}
			if err := emit(scanner.Text()); err != nil {
				return err
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}
	if invalid > 0 {
		rt.logger.Info("normalization finished", zap.Int("invalid", invalid))
	}
	return nil
}

type dedupCmd struct {
	Flags normalizeFlags `embed:""`

	Files   []string `arg:"" optional:"" name:"file" type:"existingfile" help:"Files to read. Stdin when omitted."`
	Workers int      `env:"URLNORM_WORKERS" help:"Number of normalization workers."`
	Cache   string   `type:"path" env:"URLNORM_CACHE" placeholder:"FILE" help:"JSON file remembering URLs seen in earlier runs."`
	HTML    bool     `help:"Inputs are HTML documents; deduplicate their links."`
	Base    string   `placeholder:"URL" help:"Base URL for relative links in HTML mode."`
	Ext     []string `sep:"," placeholder:"EXT" help:"Only keep URLs whose path has one of these extensions."`
	Format  string   `enum:"text,json,yaml" default:"text" help:"Output format: text, json or yaml."`
}

func (c *dedupCmd) Run(rt *runtime) error {
	opts, err := c.Flags.options(rt)
	if err != nil {
		return err
	}

	cfg := dedup.Config{
		Workers:           rt.cfg.Dedup.Workers,
		Options:           opts,
		CachePath:         rt.cfg.Dedup.CachePath,
		AllowedExtensions: rt.cfg.Dedup.AllowedExtensions,
		HTML:              rt.cfg.Dedup.HTML || c.HTML,
		BaseURL:           rt.cfg.Dedup.BaseURL,
		Logger:            rt.logger,
	}
	if c.Workers > 0 {
		cfg.Workers = c.Workers
	}
	if c.Cache != "" {
		cfg.CachePath = c.Cache
	}
	if c.Base != "" {
		cfg.BaseURL = c.Base
	}
	if len(c.Ext) > 0 {
		cfg.AllowedExtensions = c.Ext
	}

	inputs, closeInputs, err := openInputs(c.Files, rt.stdin)
	if err != nil {
		return err
	}
	cfg.Inputs = inputs

	report, err := dedup.Run(rt.ctx, cfg)
	closeInputs()
	if err != nil {
		if errors.Is(err, rt.ctx.Err()) {
			return fmt.Errorf("dedup interrupted: %w", err)
		}
		return err
	}
	rt.logger.Info("dedup finished",
		zap.Int("records", report.Stats.Records),
		zap.Int("unique", report.Stats.Unique),
		zap.Int("duplicates", report.Stats.Duplicates),
		zap.Int("invalid", report.Stats.Invalid),
		zap.Int("skippedByCache", report.Stats.SkippedByCache),
		zap.Int("skippedByExtension", report.Stats.SkippedByExtension),
	)
	return report.Write(rt.stdout, c.Format)
}

// openInputs opens every named file, or falls back to stdin when there are
// none. The returned func closes whatever was opened.
func openInputs(names []string, stdin io.Reader) ([]dedup.Input, func(), error) {
	if len(names) == 0 {
		return []dedup.Input{{Name: "stdin", Reader: stdin}}, func() {}, nil
	}

	files := make([]*os.File, 0, len(names))
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}
	inputs := make([]dedup.Input, 0, len(names))
	for _, name := range names {
		f, err := os.Open(name)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		files = append(files, f)
		inputs = append(inputs, dedup.Input{Name: name, Reader: f})
	}
	return inputs, closeAll, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/trueabc/go/tools/dwrs/internal/config"
	"github.com/trueabc/go/tools/dwrs/internal/job"
	"github.com/trueabc/go/tools/dwrs/internal/l10n"
	"github.com/trueabc/go/tools/dwrs/internal/limiter"
	"github.com/trueabc/go/tools/dwrs/internal/progress"
	"github.com/trueabc/go/tools/dwrs/internal/scheduler"
	"github.com/trueabc/go/tools/dwrs/internal/transfer"
)

const (
	exitFailed = 1
	exitConfig = 2

	msgAbout       = "about"
	msgWrongFormat = "wrong-format-string"
	msgStrict      = "error-strict"
)

var errStyle = color.New(color.FgRed, color.Bold).SprintFunc()

func main() {
	if err := config.LoadEnv(".env"); err != nil {
		log.Println(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp(os.Stdout, os.Stderr)
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	// 帮助信息在解析参数前就要显示, 只能按环境变量或系统语言选择
	cat, err := l10n.New(os.Getenv("DWRS_LANG"))
	usage := msgAbout
	if err == nil {
		usage = cat.T(msgAbout)
	}

	return &cli.App{
		Name:      "dwrs",
		Usage:     usage,
		ArgsUsage: "[URL...]",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output `FILE` for the URL at the same position, repeatable",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Value:   1,
				Usage:   "number of downloads running at the same time",
				EnvVars: []string{"DWRS_JOBS"},
			},
			&cli.PathFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "read \"url [output]\" lines from `FILE`",
			},
			&cli.StringFlag{
				Name:    "progress",
				Value:   string(progress.ModeAuto),
				Usage:   "progress display: auto, pool, bar, plain or none",
				EnvVars: []string{"DWRS_PROGRESS"},
			},
			&cli.StringFlag{
				Name:    "lang",
				Value:   l10n.System,
				Usage:   "language of messages",
				EnvVars: []string{"DWRS_LANG"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "give up on connecting, on headers, or on a body that sends nothing for this long; 0 waits forever",
				EnvVars: []string{"DWRS_TIMEOUT"},
			},
			&cli.BoolFlag{
				Name:    "strict",
				Usage:   "exit with status 1 if any download failed",
				EnvVars: []string{"DWRS_STRICT"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log diagnostics to stderr, same as setting " + config.LogEnv,
			},
		},
		Action: func(c *cli.Context) error {
			return run(c, stderr)
		},
	}
}

func run(c *cli.Context, stderr io.Writer) error {
	cat, err := l10n.New(c.String("lang"))
	if err != nil {
		return err
	}

	in := config.Input{
		URLs:     c.Args().Slice(),
		Outputs:  c.StringSlice("output"),
		File:     c.Path("file"),
		Jobs:     c.Int("jobs"),
		Progress: c.String("progress"),
		Timeout:  c.Duration("timeout"),
		Strict:   c.Bool("strict"),
		Verbose:  c.Bool("verbose") || os.Getenv(config.LogEnv) != "",
	}
	cfg, err := config.Build(in, cat, stderr)
	if err != nil {
		var cerr *job.ConfigError
		if errors.As(err, &cerr) {
			return cli.Exit(configMessage(cat, cerr), exitConfig)
		}
		return err
	}
	cfg.Logger.Printf("sources: %s", strings.Join(cfg.Sequence.Sources(), " "))

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	sum, err := download(ctx, cfg, stderr)
	if err != nil {
		return err
	}
	if cfg.Strict && sum.Err != nil {
		cfg.Logger.Printf("first failure: %v", sum.Err)
		return cli.Exit(fmt.Sprintf("%s: %d/%d", errStyle(cat.T(msgStrict)), sum.Failed, sum.Total()), exitFailed)
	}
	return nil
}

func download(ctx context.Context, cfg *config.Config, stderr io.Writer) (scheduler.Summary, error) {
	rep, err := progress.New(progress.Options{
		Mode:   cfg.Progress,
		Out:    stderr,
		Lookup: cfg.Catalog.T,
		Logger: cfg.Logger,
	})
	if err != nil {
		return scheduler.Summary{}, err
	}
	for _, w := range cfg.Warnings {
		rep.Warn(msgWrongFormat, w.Text)
		cfg.Logger.Print(w)
	}

	lim, err := limiter.New(cfg.Jobs)
	if err != nil {
		rep.Close()
		return scheduler.Summary{}, err
	}
	worker := transfer.NewWorker(cfg.HTTPClient(), cfg.Logger).SetIdleTimeout(cfg.Timeout)
	sum := scheduler.New(lim, worker, rep, cfg.Logger).Run(ctx, cfg.Sequence)
	return sum, rep.Close()
}

func configMessage(cat *l10n.Catalog, err *job.ConfigError) string {
	text := errStyle(cat.T(err.MessageID))
	if err.Err == nil {
		return text
	}
	return fmt.Sprintf("%s: %v", text, err.Err)
}

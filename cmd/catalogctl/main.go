package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"library-catalog/internal/config"
	"library-catalog/internal/domains/catalog/model"
	"library-catalog/internal/domains/catalog/seed"
	"library-catalog/internal/domains/catalog/service"
	"library-catalog/pkg/container"
	"library-catalog/pkg/logger"
)

// CLI is the catalogctl command tree.
type CLI struct {
	Seed   SeedCmd   `cmd:"" help:"Load a YAML catalog through the form validation pipeline"`
	Stats  StatsCmd  `cmd:"" help:"Print the dashboard counts"`
	Export ExportCmd `cmd:"" help:"Write the book catalogue to an XLSX file"`
}

type SeedCmd struct {
	File   string `arg:"" type:"existingfile" help:"Path to the catalog YAML file"`
	Strict bool   `help:"Fail when any entry is skipped"`
}

type StatsCmd struct {
	Pool bool `help:"Also print database pool statistics"`
}

type ExportCmd struct {
	Output string `short:"o" help:"Destination file" default:"catalog.xlsx"`
}

// App is bound into every command's Run method.
type App struct {
	Ctx       context.Context
	Container *container.Container
	Out       io.Writer
}

func (s *SeedCmd) Run(app *App) error {
	ctx, c, out := app.Ctx, app.Container, app.Out

	f, err := os.Open(s.File)
	if err != nil {
		return err
	}
	defer f.Close()

	cat, err := seed.Parse(f)
	if err != nil {
		return err
	}

	report, err := seed.NewLoader(c.Store).Load(ctx, cat)
	if err != nil {
		return fmt.Errorf("seed aborted: %w", err)
	}
	if report.Total() > 0 {
		if err := c.Cache.Delete(ctx, service.CountsKey); err != nil {
			logger.Warn("failed to invalidate catalog counts", err)
		}
	}

	for _, kind := range model.Kinds {
		fmt.Fprintf(out, "%-13s created %d, existing %d\n", kind, report.Created[kind], report.Existing[kind])
	}
	for _, p := range report.Problems {
		fmt.Fprintf(out, "skipped %s\n", p)
	}
	if s.Strict && len(report.Problems) > 0 {
		return fmt.Errorf("%d entries skipped", len(report.Problems))
	}
	return nil
}

func (s *StatsCmd) Run(app *App) error {
	ctx, c, out := app.Ctx, app.Container, app.Out

	counts, err := c.Services.Index.Counts(ctx)
	if err != nil {
		return err
	}

	rows := map[string]int{
		"books":            counts.Books,
		"copies":           counts.Instances,
		"copies available": counts.InstancesAvailable,
		"authors":          counts.Authors,
		"genres":           counts.Genres,
	}
	names := make([]string, 0, len(rows))
	for name := range rows {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "%-17s %d\n", name, rows[name])
	}

	if s.Pool && c.DB != nil {
		stats, err := c.DB.Stats()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "pool              %d/%d acquired, %d idle, avg acquire %s\n",
			stats.AcquiredConns, stats.MaxConns, stats.IdleConns, stats.AvgAcquire())
	}
	return nil
}

func (e *ExportCmd) Run(app *App) error {
	ctx, c, out := app.Ctx, app.Container, app.Out

	f, err := c.Services.Books.Export(ctx)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(e.Output); err != nil {
		return fmt.Errorf("failed to save %s: %w", e.Output, err)
	}
	fmt.Fprintf(out, "wrote %s\n", e.Output)
	return nil
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("catalogctl"),
		kong.Description("Maintenance commands for the library catalog."),
		kong.UsageOnError(),
	}, options...)
	return kong.New(cli, options...)
}

// run parses args and executes the selected command against a container
// built from cfg.
func run(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	c, err := container.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Cleanup()

	return kctx.Run(&App{Ctx: ctx, Container: c, Out: out})
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:], os.Stdout); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

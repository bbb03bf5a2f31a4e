package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/mdxgen/internal/config"
	"github.com/example/mdxgen/internal/errors"
	"github.com/example/mdxgen/internal/extractor"
	"github.com/example/mdxgen/internal/generator"
	"github.com/example/mdxgen/internal/log"
	"github.com/example/mdxgen/internal/render"
)

// GenerateConfig holds the flags shared by generate, check and watch.
// Flags that are set override the values of the config file.
type GenerateConfig struct {
	Package    string
	ConfigPath string
	BaseDir    string
	NavPath    string
	Layout     string
	Mode       string
	LogLevel   string
}

func (c *GenerateConfig) bindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.Package, "package", "", "Name of the configured package to document")
	cmd.Flags().StringVar(&c.ConfigPath, "config", "", "Path to .mdxgen.yml (searched for upwards when empty)")
	cmd.Flags().StringVar(&c.BaseDir, "base-dir", "", "Directory source and output paths are relative to")
	cmd.Flags().StringVar(&c.NavPath, "nav", "", "Navigation manifest (docs.json) to patch")
	cmd.Flags().StringVar(&c.Layout, "layout", "", "Output layout: pages or aggregate")
	cmd.Flags().StringVar(&c.Mode, "mode", "", "Extraction mode: auto, ast or scan")
	cmd.Flags().StringVar(&c.LogLevel, "log-level", string(log.LevelInfo), "Log level: error, warn, info or debug")
}

func newGenerateCommand() *cobra.Command {
	var cfg GenerateConfig

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate MDX documentation for a package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Generate(cmd.Context(), &cfg, cmd.OutOrStdout())
		},
	}
	cfg.bindFlags(cmd)
	return cmd
}

func newCheckCommand() *cobra.Command {
	var cfg GenerateConfig

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report generated files that are out of date, without writing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Check(cmd.Context(), &cfg, cmd.OutOrStdout())
		},
	}
	cfg.bindFlags(cmd)
	return cmd
}

func newWatchCommand() *cobra.Command {
	var cfg GenerateConfig

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate documentation whenever a source file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return Watch(ctx, &cfg, cmd.OutOrStdout())
		},
	}
	cfg.bindFlags(cmd)
	return cmd
}

func newPackagesCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "packages",
		Short: "List the configured packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.Load(configPath)
			if err != nil {
				return err
			}
			for _, name := range conf.PackageNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to .mdxgen.yml (searched for upwards when empty)")
	return cmd
}

// Generate runs the pipeline once and prints the summary.
func Generate(ctx context.Context, cfg *GenerateConfig, out io.Writer) error {
	g, err := newGenerator(cfg, false, nil)
	if err != nil {
		return err
	}
	summary, err := g.Run(ctx)
	if err != nil {
		return err
	}
	for _, path := range summary.Written {
		log.Debug("written", "path", path)
	}
	fmt.Fprintln(out, summary.Render())
	return nil
}

// Check renders in memory, prints a diff for every file that differs from
// disk and fails when any does.
func Check(ctx context.Context, cfg *GenerateConfig, out io.Writer) error {
	g, err := newGenerator(cfg, true, out)
	if err != nil {
		return err
	}
	summary, err := g.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, summary.Render())
	if len(summary.Drift) > 0 {
		return errors.Errorf(errors.KindRender, "%d generated files are out of date; run mdxgen generate", len(summary.Drift))
	}
	return nil
}

// Watch regenerates on every source change until ctx is done.
func Watch(ctx context.Context, cfg *GenerateConfig, out io.Writer) error {
	g, err := newGenerator(cfg, false, nil)
	if err != nil {
		return err
	}
	log.Info("starting watch", "target", g.Describe())
	return g.Watch(ctx, func(summary *generator.Summary, err error) {
		if err != nil {
			log.Error("generation failed", "err", err)
			return
		}
		fmt.Fprintln(out, summary.Render())
	})
}

// newGenerator loads the config file, applies flag overrides and selects
// the package.
func newGenerator(cfg *GenerateConfig, check bool, diff io.Writer) (*generator.Generator, error) {
	if err := applyLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	conf, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	loadConfigFile(cfg, conf)

	pkg, err := conf.Package(cfg.Package)
	if err != nil {
		return nil, err
	}
	mode, err := extractor.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	if cfg.Layout != "" {
		if _, err := render.ForLayout(cfg.Layout); err != nil {
			return nil, err
		}
	}

	return generator.New(*pkg, generator.Options{
		BaseDir:    cfg.BaseDir,
		Navigation: cfg.NavPath,
		Mode:       mode,
		Layout:     cfg.Layout,
		Check:      check,
		Diff:       diff,
	}), nil
}

// loadConfigFile fills the flags that were not set from the config file.
func loadConfigFile(cfg *GenerateConfig, conf *config.Config) {
	if cfg.BaseDir == "" {
		cfg.BaseDir = conf.BaseDir
	}
	if cfg.NavPath == "" {
		cfg.NavPath = conf.Navigation
	}
	if cfg.Mode == "" {
		cfg.Mode = conf.Mode
	}
}

func applyLogLevel(level string) error {
	if level == "" {
		return nil
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return errors.Wrap(err, errors.KindConfig, "invalid --log-level")
	}
	return log.SetLevel(parsed)
}

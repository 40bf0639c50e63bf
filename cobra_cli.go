package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	cobradoc "github.com/spf13/cobra/doc"
)

const rootLongDesc = `
lazydocs generates markdown API documentation from Google-style docstrings
(Args/Returns/Raises sections), one markdown file per documented module plus an
optional API overview page. The output is plain markdown/MDX suited for static
site generators such as mkdocs or Docusaurus.

Symbols are resolved either from Go packages (default) or from a language-neutral
JSON descriptor tree passed via --descriptors, so any frontend able to describe
its modules, classes and functions can feed the generator.

Set --output-path stdout to print all markdown to the console instead of writing
files. An optional .lazydocs.yaml file in the working directory provides defaults
for every flag.
`

// cliApp carries the flag-bound generation options through command execution.
type cliApp struct {
	stdout io.Writer
	opts   options
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	app := &cliApp{stdout: stdout}
	var configPath string
	cmd := &cobra.Command{
		Use:           "lazydocs [flags] PATHS...",
		Short:         "Generate markdown API docs from Google-style docstrings",
		Long:          strings.TrimSpace(rootLongDesc),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.DisableAutoGenTag = true
	cmd.Version = Version
	cmd.SetOut(stdout)
	cmd.SetErr(io.Discard)
	cmd.CompletionOptions.DisableDefaultCmd = true

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.opts.outputPath, "output-path", "./docs", "output directory for the markdown files, or 'stdout'")
	pf.StringVar(&app.opts.outputFormat, "output-format", "md", "output file extension and format: md or mdx")
	pf.StringVar(&app.opts.srcBaseURL, "src-base-url", "", "base repository URL prefixed to all source links (include the branch)")
	pf.StringVar(&app.opts.srcRootPath, "src-root-path", "", "root folder containing all sources, used to relativize source links")
	pf.StringVar(&app.opts.urlLinePrefix, "url-line-prefix", "L", "line prefix for source link line anchors")
	pf.BoolVar(&app.opts.removePrefix, "remove-package-prefix", true, "strip the common package prefix from all display names")
	pf.StringSliceVar(&app.opts.ignoredModules, "ignored-modules", nil, "module names that should be ignored")
	pf.StringVar(&app.opts.overviewFile, "overview-file", "", "filename of the API overview file (omitted when empty)")
	pf.BoolVar(&app.opts.watermark, "watermark", true, "append a generation watermark to every file")
	pf.BoolVar(&app.opts.validate, "validate", false, "validate docstrings and abort on style violations")
	pf.BoolVar(&app.opts.privateSymbols, "private-symbols", false, "include private (underscore-prefixed) symbols")
	pf.BoolVar(&app.opts.includeTOC, "include-toc", false, "include a table of contents in every module file")
	pf.StringVar(&app.opts.descriptors, "descriptors", "", "JSON descriptor file to document instead of Go packages")
	pf.StringVar(&configPath, "config", "", "path to a YAML config file (default: .lazydocs.yaml if present)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts, log, err := app.prepare(cmd, configPath, args)
		if err != nil {
			return err
		}
		return newGenerator(opts, log).run(cmd.Context(), app.stdout)
	}

	cmd.AddCommand(newCompletionCmd(cmd))
	cmd.AddCommand(newDocsCmd(cmd))
	cmd.AddCommand(newServeCmd(app, &configPath))
	cmd.AddCommand(newWatchCmd(app, &configPath))
	return cmd
}

// prepare merges config file values under explicitly set flags and produces
// the final options plus the run logger.
func (app *cliApp) prepare(cmd *cobra.Command, configPath string, args []string) (options, *slog.Logger, error) {
	opts := app.opts
	opts.paths = args

	changed := func(name string) bool {
		return cmd.Root().PersistentFlags().Changed(name)
	}
	path := configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	if path != "" {
		cfg, err := loadConfig(path)
		if err != nil {
			return options{}, nil, err
		}
		cfg.apply(&opts, changed)
	}

	if opts.outputFormat != "md" && opts.outputFormat != "mdx" {
		return options{}, nil, fmt.Errorf("unsupported output format %q: choose either 'md' or 'mdx'", opts.outputFormat)
	}
	if len(opts.paths) == 0 && opts.descriptors == "" {
		return options{}, nil, errors.New("no input paths provided")
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil)).
		With(slog.String("run", uuid.NewString()[:8]))
	return opts, log, nil
}

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion scripts",
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return root.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return root.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return root.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return root.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell %q", args[0])
		}
	}
	return cmd
}

func newDocsCmd(root *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gen-docs [directory]",
		Short:         "Generate markdown reference docs for the CLI itself",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		target := args[0]
		if target == "" {
			return fmt.Errorf("target directory is required")
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return err
		}
		return cobradoc.GenMarkdownTree(root, target)
	}
	return cmd
}

func newServeCmd(app *cliApp, configPath *string) *cobra.Command {
	var (
		addr      string
		withWatch bool
	)
	cmd := &cobra.Command{
		Use:           "serve [flags] [PATHS...]",
		Short:         "Serve the generated documentation as HTML for local preview",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:8000", "address to serve the docs preview on")
	cmd.Flags().BoolVar(&withWatch, "watch", false, "regenerate the docs when source files change")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts, log, err := app.prepare(cmd, *configPath, args)
		if err != nil {
			return err
		}
		if opts.stdoutMode() {
			return errors.New("serve requires a file output path")
		}
		if err := newGenerator(opts, log).run(cmd.Context(), app.stdout); err != nil {
			return err
		}
		return runServe(cmd.Context(), opts, addr, withWatch, log)
	}
	return cmd
}

func newWatchCmd(app *cliApp, configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "watch [flags] PATHS...",
		Short:         "Regenerate the documentation whenever source files change",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts, log, err := app.prepare(cmd, *configPath, args)
		if err != nil {
			return err
		}
		if opts.stdoutMode() {
			return errors.New("watch requires a file output path")
		}
		if err := newGenerator(opts, log).run(cmd.Context(), app.stdout); err != nil {
			return err
		}
		return watchAndRegenerate(cmd.Context(), opts, log)
	}
	return cmd
}

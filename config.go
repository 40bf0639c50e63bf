package main

import (
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gopkg.in/yaml.v3"
)

// defaultConfigFile is picked up from the working directory when no
// --config flag is given.
const defaultConfigFile = ".lazydocs.yaml"

// fileConfig is the optional YAML configuration file. Every field mirrors a
// CLI flag; explicitly set flags win over file values.
type fileConfig struct {
	OutputPath          string      `yaml:"output_path"`
	OutputFormat        string      `yaml:"output_format"`
	SrcBaseURL          string      `yaml:"src_base_url"`
	SrcRootPath         string      `yaml:"src_root_path"`
	URLLinePrefix       string      `yaml:"url_line_prefix"`
	RemovePackagePrefix *bool       `yaml:"remove_package_prefix"`
	IgnoredModules      []string    `yaml:"ignored_modules"`
	OverviewFile        string      `yaml:"overview_file"`
	Watermark           *bool       `yaml:"watermark"`
	Validate            *bool       `yaml:"validate"`
	PrivateSymbols      *bool       `yaml:"private_symbols"`
	IncludeTOC          *bool       `yaml:"include_toc"`
	Serve               serveConfig `yaml:"serve"`
}

type serveConfig struct {
	Addr string `yaml:"addr"`
}

// validate validates the configuration file.
func (c *fileConfig) validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.OutputFormat, validation.In("md", "mdx")),
		validation.Field(&c.SrcBaseURL, is.URL),
	)
}

// loadConfig reads a YAML configuration file with environment variable
// expansion and validates it.
func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// apply overlays file values onto opts for every flag the user did not set
// explicitly. changed reports whether a flag was set on the command line.
func (c *fileConfig) apply(opts *options, changed func(string) bool) {
	if c.OutputPath != "" && !changed("output-path") {
		opts.outputPath = c.OutputPath
	}
	if c.OutputFormat != "" && !changed("output-format") {
		opts.outputFormat = c.OutputFormat
	}
	if c.SrcBaseURL != "" && !changed("src-base-url") {
		opts.srcBaseURL = c.SrcBaseURL
	}
	if c.SrcRootPath != "" && !changed("src-root-path") {
		opts.srcRootPath = c.SrcRootPath
	}
	if c.URLLinePrefix != "" && !changed("url-line-prefix") {
		opts.urlLinePrefix = c.URLLinePrefix
	}
	if c.RemovePackagePrefix != nil && !changed("remove-package-prefix") {
		opts.removePrefix = *c.RemovePackagePrefix
	}
	if len(c.IgnoredModules) > 0 && !changed("ignored-modules") {
		opts.ignoredModules = c.IgnoredModules
	}
	if c.OverviewFile != "" && !changed("overview-file") {
		opts.overviewFile = c.OverviewFile
	}
	if c.Watermark != nil && !changed("watermark") {
		opts.watermark = *c.Watermark
	}
	if c.Validate != nil && !changed("validate") {
		opts.validate = *c.Validate
	}
	if c.PrivateSymbols != nil && !changed("private-symbols") {
		opts.privateSymbols = *c.PrivateSymbols
	}
	if c.IncludeTOC != nil && !changed("include-toc") {
		opts.includeTOC = *c.IncludeTOC
	}
}

// lazydocs generates markdown API documentation from Google-style
// docstrings.
//
// It resolves a set of modules, classes, functions and methods, parses their
// docstrings (summary, description, Args/Returns/Raises and friends), and
// writes one markdown file per module plus an optional API overview page. The
// output is plain markdown or MDX and works with mkdocs, Docusaurus, or any
// other static site generator.
//
// Usage:
//
//	lazydocs [flags] PATHS...
//
// PATHS are Go package paths or directories; each matched package becomes one
// documented module. Alternatively a language-neutral JSON descriptor tree can
// be documented via --descriptors, which is how non-Go frontends feed the
// generator.
//
// Flags:
//
//	--output-path            output directory, or 'stdout' (default "./docs")
//	--output-format          md or mdx (default "md")
//	--src-base-url           repository base URL for source badges
//	--src-root-path          root folder used to relativize source links
//	--url-line-prefix        line anchor prefix for source links (default "L")
//	--remove-package-prefix  strip the shared package prefix (default true)
//	--ignored-modules        module names to skip, including submodules
//	--overview-file          filename of the generated API overview page
//	--watermark              append a generation watermark (default true)
//	--validate               lint docstrings and abort on violations
//	--private-symbols        document underscore-prefixed symbols
//	--include-toc            add a table of contents to each module file
//	--descriptors            JSON descriptor file to document
//	--config                 YAML config file (default ".lazydocs.yaml")
//
// Every generated file starts with a markdownlint-disable preamble, symbol
// headings carry a <kbd> kind tag and a shields.io source badge, and output
// bytes are stable across runs so regenerated docs diff cleanly.
//
// Subcommands:
//
//	serve       preview the generated docs as HTML on localhost
//	watch       regenerate whenever source files change
//	gen-docs    generate markdown reference docs for this CLI
//	completion  generate shell completion scripts
//
// A .lazydocs.yaml in the working directory (or --config) supplies defaults
// for all flags; values set on the command line always win. Environment
// variables in the config file are expanded.
package main

// Command uienhance decorates HTML files for the ui-enhance stylesheet.
//
//	uienhance [-config file] [-out dir] [-css] [-v] pattern...
//
// Patterns may use ** to match directories recursively. Files are rewritten
// in place unless -out is given.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/boxesandglue/uienhance"
)

type options struct {
	configFile string
	outDir     string
	writeCSS   bool
	verbose    bool
	patterns   []string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("uienhance", flag.ContinueOnError)
	fs.StringVar(&opts.configFile, "config", "", "YAML configuration file")
	fs.StringVar(&opts.outDir, "out", "", "write results to this directory instead of in place")
	fs.BoolVar(&opts.writeCSS, "css", false, "write the bundled stylesheet next to the pages if missing")
	fs.BoolVar(&opts.verbose, "v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.patterns = fs.Args()
	if len(opts.patterns) == 0 {
		return opts, fmt.Errorf("no input files, want at least one pattern")
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if err := run(opts, logger); err != nil {
		logger.Error("uienhance failed", "error", err)
		os.Exit(1)
	}
}

func run(opts options, logger *slog.Logger) error {
	cfg := uienhance.DefaultConfig()
	if opts.configFile != "" {
		var err error
		if cfg, err = uienhance.LoadConfigFile(opts.configFile); err != nil {
			return err
		}
	}
	enh, err := uienhance.New(cfg, uienhance.WithLogger(logger))
	if err != nil {
		return err
	}
	files, err := expandPatterns(opts.patterns)
	if err != nil {
		return err
	}
	cssDirs := map[string]bool{}
	for _, fn := range files {
		dest := fn
		if opts.outDir != "" {
			dest = filepath.Join(opts.outDir, relativeTo(fn))
		}
		if err := processFile(enh, fn, dest, logger); err != nil {
			return err
		}
		if opts.writeCSS {
			cssDirs[filepath.Dir(dest)] = true
		}
	}
	for dir := range cssDirs {
		written, err := uienhance.WriteStylesheet(dir, cfg.Stylesheet)
		if err != nil {
			return fmt.Errorf("write stylesheet: %w", err)
		}
		if written {
			logger.Info("stylesheet written", "dir", dir, "file", cfg.Stylesheet)
			continue
		}
		checkStylesheet(filepath.Join(dir, cfg.Stylesheet), logger)
	}
	return nil
}

// expandPatterns returns the files matching the patterns, each file once.
func expandPatterns(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	return files, nil
}

// relativeTo strips a leading volume or root so that absolute inputs land
// inside the output directory.
func relativeTo(fn string) string {
	fn = filepath.Clean(fn)
	fn = fn[len(filepath.VolumeName(fn)):]
	for len(fn) > 0 && os.IsPathSeparator(fn[0]) {
		fn = fn[1:]
	}
	return fn
}

func processFile(enh *uienhance.Enhancer, src, dest string, logger *slog.Logger) error {
	doc, err := uienhance.ParseHTMLFile(src)
	if err != nil {
		return err
	}
	rep := enh.Enhance(doc)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return fmt.Errorf("render %s: %w", dest, err)
	}
	if err := replaceFile(dest, buf.Bytes()); err != nil {
		return err
	}
	logger.Info("enhanced", "file", src, "out", dest,
		"stylesheet", rep.StylesheetInjected, "hover", rep.Hovered, "contrast", rep.Contrast)
	return nil
}

// replaceFile writes data to a temporary file next to fn and renames it to
// fn, so fn is either the old or the new content. An existing file keeps its
// permissions.
func replaceFile(fn string, data []byte) error {
	perm := os.FileMode(0o644)
	if fi, err := os.Stat(fn); err == nil {
		perm = fi.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(fn), "."+filepath.Base(fn)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", fn, err)
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), fn)
}

// checkStylesheet warns when an existing stylesheet lacks the hover class.
func checkStylesheet(fn string, logger *slog.Logger) {
	data, err := os.ReadFile(fn)
	if err != nil {
		logger.Warn("cannot read stylesheet", "file", fn, "error", err)
		return
	}
	if !uienhance.DefinesClass(string(data), uienhance.HoverClass) {
		logger.Warn("stylesheet does not style the hover class", "file", fn, "class", uienhance.HoverClass)
	}
}

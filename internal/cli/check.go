package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"sansls/internal/config"
	"sansls/internal/diagnostics"
	"sansls/internal/document"
	"sansls/internal/lexer"
	"sansls/internal/scanner"
)

// ErrFoundErrors is returned by check when any file has an error
// diagnostic.
var ErrFoundErrors = errors.New("errors found")

type fileResult struct {
	path  string
	diags []diagnostics.Diagnostic
}

func runCheck(w io.Writer, configPath string, args []string) error {
	if configPath == "" {
		configPath = config.FileName
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	var results []fileResult
	analyze := func(path string, data []byte) {
		diags := diagnostics.Analyze(document.Build(string(data)))
		results = append(results, fileResult{path, diagnostics.Filter(diags, cfg.DisabledChecks)})
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", arg, err)
		}
		if info.IsDir() {
			scanner.Scan(arg, cfg.HasExtension, nil, analyze)
			continue
		}
		data, err := os.ReadFile(arg)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", arg, err)
		}
		analyze(arg, data)
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].path < results[j].path })

	failed := 0
	for _, r := range results {
		for _, d := range r.diags {
			fmt.Fprintf(w, "%s:%s\n", r.path, d)
		}
		if diagnostics.HasErrors(r.diags) {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w in %d of %d files", ErrFoundErrors, failed, len(results))
	}
	return nil
}

// loadConfig reads a JSON file (the editor's options format) or the YAML
// workspace file, chosen by extension.
func loadConfig(path string) (config.Config, error) {
	if filepath.Ext(path) != ".json" {
		return config.LoadFile(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	cfg, err := config.LoadFromJSON(f)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

func runTokens(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc := document.Build(string(data))
	for _, toks := range doc.Tokens {
		for _, tok := range toks {
			if tok.Kind == lexer.Whitespace {
				continue
			}
			fmt.Fprintf(w, "%d:%d-%d\t%s\t%q\n", tok.Line+1, tok.Start+1, tok.End+1, tok.Kind, tok.Text)
		}
	}
	return nil
}

package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"sansls/internal/config"
	"sansls/internal/document"
	"sansls/internal/index"
	"sansls/internal/scanner"
	"sansls/internal/scheduler"
	"sansls/internal/semantic"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const pruneInterval = 5 * time.Minute

func rootFrom(params *protocol.InitializeParams) string {
	if params.RootURI != nil && *params.RootURI != "" {
		if u, err := url.Parse(*params.RootURI); err == nil && u.Path != "" {
			return filepath.FromSlash(u.Path)
		}
	}
	if params.RootPath != nil {
		return *params.RootPath
	}
	return ""
}

func (s *Server) initialize(
	context *glsp.Context,
	params *protocol.InitializeParams,
) (any, error) {
	s.remember(context)
	root := rootFrom(params)

	// Workspace file first, then the client's options on top.
	cfg := config.Default()
	if root != "" {
		fileCfg, err := config.LoadFile(filepath.Join(root, config.FileName))
		if err != nil {
			log.Warningf("ignoring %s: %s", config.FileName, err)
		} else {
			cfg = fileCfg
		}
	}
	cfg, err := config.Load(cfg, params.InitializationOptions)
	if err != nil {
		return nil, fmt.Errorf("invalid initialization options: %w", err)
	}

	s.mu.Lock()
	s.config = cfg
	s.options = params.InitializationOptions
	s.root = root
	s.mu.Unlock()
	log.Infof("root %q, config %+v", root, cfg)

	if root != "" {
		s.startBackground(root, cfg)
	}

	syncKind := protocol.TextDocumentSyncKindFull

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: &protocol.False},
	}
	capabilities.SemanticTokensProvider = &protocol.SemanticTokensOptions{
		Legend: protocol.SemanticTokensLegend{
			TokenTypes:     semantic.TokenTypes,
			TokenModifiers: semantic.TokenModifiers,
		},
		Full: true,
	}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{CommandCallGraph},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    Name,
			Version: &Version,
		},
	}, nil
}

// startBackground opens the workspace index, scans the root and starts
// the config watcher. A failing index only disables workspace symbols.
func (s *Server) startBackground(root string, cfg config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go func() {
		err := config.Watch(ctx, filepath.Join(root, config.FileName), s.reloadConfig)
		if err != nil {
			log.Errorf("config watcher: %s", err)
		}
	}()

	if !cfg.Index {
		return
	}

	dbPath := cfg.IndexPath
	if dbPath == "" {
		p, err := indexPathFor(root)
		if err != nil {
			log.Errorf("index disabled: %s", err)
			return
		}
		dbPath = p
	}
	ix, err := index.Open(dbPath)
	if err != nil {
		log.Errorf("index disabled: %s", err)
		return
	}
	s.index = ix
	log.Infof("index at %s", dbPath)

	s.scheduler = scheduler.NewScheduler(64)
	s.scheduler.RunScheduler()

	err = s.scheduler.ScheduleHighPriorityTask(scheduler.Task{
		Name:    "scan workspace",
		Execute: func() error { s.scanWorkspace(root, cfg); return nil },
	})
	if err != nil {
		log.Errorf("scheduling scan: %s", err)
	}

	s.scheduler.SchedulePeriodicTask(pruneInterval, scheduler.Task{
		Name:    "prune index",
		Execute: s.pruneIndex,
	})
}

// scanWorkspace indexes every source file under root whose modification
// time is newer than its index entry, then drops entries for files that
// are gone.
func (s *Server) scanWorkspace(root string, cfg config.Config) {
	seen := map[string]struct{}{}
	skip := func(path string, info fs.FileInfo) bool {
		seen[path] = struct{}{}
		indexedAt, err := s.index.IndexedAt(path)
		if err != nil {
			return false
		}
		return indexedAt.After(info.ModTime())
	}

	count := 0
	start := time.Now()
	scanner.Scan(root, cfg.HasExtension, skip, func(path string, data []byte) {
		if err := s.indexFile(path, string(data), start); err != nil {
			log.Warning(err.Error())
			return
		}
		count++
	})
	log.Infof("indexed %d changed files in %s", count, time.Since(start))

	paths, err := s.index.Paths()
	if err != nil {
		log.Errorf("listing index: %s", err)
		return
	}
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		if err := s.index.Remove(p); err != nil {
			log.Errorf("removing %s: %s", p, err)
		}
	}
}

func (s *Server) indexFile(path, text string, at time.Time) error {
	doc := document.Build(text)
	if err := s.index.Replace(path, index.Extract(path, doc), at); err != nil {
		return fmt.Errorf("failed to index %s: %w", path, err)
	}
	return nil
}

// refreshFile re-reads one file from disk into the index, or removes it
// when it no longer exists.
func (s *Server) refreshFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s.index.Remove(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return s.indexFile(path, string(data), time.Now())
}

func (s *Server) pruneIndex() error {
	paths, err := s.index.Paths()
	if err != nil {
		return err
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			log.Debugf("pruning %s", p)
			if err := s.index.Remove(p); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Server) initialized(
	context *glsp.Context,
	params *protocol.InitializedParams,
) error {
	s.remember(context)
	log.Info("client initialized")
	return nil
}

func (s *Server) setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) shutdown(context *glsp.Context) error {
	s.manager.CloseAll()
	if s.cancel != nil {
		s.cancel()
	}
	if s.scheduler != nil {
		s.scheduler.StopScheduler()
	}
	if err := s.graph.Close(); err != nil {
		log.Warningf("closing graph view: %s", err)
	}
	if s.index != nil {
		if err := s.index.Close(); err != nil {
			return fmt.Errorf("failed to close index: %w", err)
		}
	}
	return nil
}

package server

import (
	"fmt"
	"path/filepath"

	"sansls/internal/config"
	"sansls/internal/index"
	"sansls/internal/lexer"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) workspaceSymbol(
	context *glsp.Context,
	params *protocol.WorkspaceSymbolParams,
) ([]protocol.SymbolInformation, error) {
	if s.index == nil {
		return nil, nil
	}
	hits, err := s.index.Search(params.Query, s.currentConfig().MaxWorkspaceSymbols)
	if err != nil {
		return nil, fmt.Errorf("workspace symbols: %w", err)
	}

	symbols := make([]protocol.SymbolInformation, 0, len(hits))
	for _, h := range hits {
		kind := protocol.SymbolKindVariable
		if h.Kind == index.KindFunction {
			kind = protocol.SymbolKindFunction
		}
		symbols = append(symbols, protocol.SymbolInformation{
			Name: h.Name,
			Kind: kind,
			Location: protocol.Location{
				URI: pathToURI(h.Path),
				Range: protocol.Range{
					Start: protocol.Position{Line: protocol.UInteger(h.Line), Character: protocol.UInteger(h.Column)},
					End:   protocol.Position{Line: protocol.UInteger(h.Line), Character: protocol.UInteger(h.Column + lexer.Width(h.Name))},
				},
			},
		})
	}
	return symbols, nil
}

// clientSettings unwraps settings sent as {"sansls": {...}}.
func clientSettings(v any) any {
	if m, ok := v.(map[string]any); ok {
		if inner, ok := m[Name]; ok {
			return inner
		}
	}
	return v
}

func (s *Server) workspaceDidChangeConfiguration(
	context *glsp.Context,
	params *protocol.DidChangeConfigurationParams,
) error {
	s.remember(context)
	settings := clientSettings(params.Settings)

	base := config.Default()
	if root := s.workspaceRoot(); root != "" {
		fileCfg, err := config.LoadFile(filepath.Join(root, config.FileName))
		if err != nil {
			log.Warningf("ignoring %s: %s", config.FileName, err)
		} else {
			base = fileCfg
		}
	}
	cfg, err := config.Load(base, settings)
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	s.mu.Lock()
	s.options = settings
	s.config = cfg
	s.mu.Unlock()
	log.Infof("settings changed: %+v", cfg)
	s.republish()
	return nil
}

// reloadConfig takes a freshly read workspace file, keeps the client's
// options on top of it and re-publishes diagnostics.
func (s *Server) reloadConfig(fileCfg config.Config) {
	s.mu.RLock()
	options := s.options
	s.mu.RUnlock()

	cfg, err := config.Load(fileCfg, options)
	if err != nil {
		log.Warningf("keeping previous config: %s", err)
		return
	}
	s.setConfig(cfg)
	log.Infof("reloaded %s: %+v", config.FileName, cfg)
	s.republish()
}

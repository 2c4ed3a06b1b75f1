// Package server wires the SansScript analysis packages to the Language
// Server Protocol through glsp.
package server

import (
	"context"
	"sync"

	"sansls/internal/config"
	"sansls/internal/graph"
	"sansls/internal/index"
	"sansls/internal/manager"
	"sansls/internal/scheduler"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

var log = commonlog.GetLogger("sansls.server")

const Name = "sansls"

// Version is overridden at link time.
var Version = "0.1.0"

type Server struct {
	handler protocol.Handler
	manager *manager.DocumentManager

	mu      sync.RWMutex
	config  config.Config
	options any // last settings sent by the client
	root    string
	notify  glsp.NotifyFunc

	index     *index.Index
	scheduler *scheduler.Scheduler
	cancel    context.CancelFunc

	graphMu  sync.Mutex
	graph    *graph.View
	graphURI string
}

// New creates a server with every handler registered. Nothing is started
// until the client sends initialize.
func New() *Server {
	s := &Server{
		manager: manager.NewDocumentManager(),
		config:  config.Default(),
		graph:   graph.NewView(),
	}
	s.handler = protocol.Handler{
		Initialize:                      s.initialize,
		Initialized:                     s.initialized,
		Shutdown:                        s.shutdown,
		SetTrace:                        s.setTrace,
		TextDocumentDidOpen:             s.textDocumentDidOpen,
		TextDocumentDidChange:           s.textDocumentDidChange,
		TextDocumentDidSave:             s.textDocumentDidSave,
		TextDocumentDidClose:            s.textDocumentDidClose,
		TextDocumentCompletion:          s.textDocumentCompletion,
		TextDocumentHover:               s.textDocumentHover,
		TextDocumentDefinition:          s.textDocumentDefinition,
		TextDocumentDocumentSymbol:      s.textDocumentDocumentSymbol,
		TextDocumentSemanticTokensFull:  s.textDocumentSemanticTokensFull,
		WorkspaceSymbol:                 s.workspaceSymbol,
		WorkspaceDidChangeConfiguration: s.workspaceDidChangeConfiguration,
		WorkspaceExecuteCommand:         s.workspaceExecuteCommand,
	}
	return s
}

// NewServer returns a glsp server ready to run over stdio, TCP or a
// websocket.
func NewServer(debug bool) *server.Server {
	s := New()
	return server.NewServer(&s.handler, Name, debug)
}

func (s *Server) currentConfig() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

func (s *Server) setConfig(cfg config.Config) {
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
}

func (s *Server) workspaceRoot() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root
}

// remember keeps the latest notify function so that background work can
// reach the client after the request that started it has returned.
func (s *Server) remember(ctx *glsp.Context) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	s.mu.Lock()
	s.notify = ctx.Notify
	s.mu.Unlock()
}

func (s *Server) notifyClient(method string, params any) {
	s.mu.RLock()
	notify := s.notify
	s.mu.RUnlock()
	if notify != nil {
		notify(method, params)
	}
}

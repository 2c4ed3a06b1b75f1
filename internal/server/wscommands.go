package server

import (
	"fmt"

	"sansls/internal/features"
	"sansls/internal/graph"
	"sansls/internal/manager"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// showCallGraph starts the graph view if needed, points it at uri and
// asks the client to open the page. The page follows later edits of the
// same document.
func (s *Server) showCallGraph(context *glsp.Context, uri string) (any, error) {
	entry, err := s.manager.Get(uri)
	if err != nil {
		return nil, err
	}

	addr, err := s.graph.Start(s.currentConfig().GraphAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to start graph view: %w", err)
	}

	s.graphMu.Lock()
	s.graphURI = uri
	s.graphMu.Unlock()
	drawGraph(s.graph, entry)

	context.Notify(
		protocol.ServerWindowShowDocument,
		protocol.ShowDocumentParams{
			URI:      protocol.URI(addr),
			External: &protocol.True,
		},
	)
	return addr, nil
}

// refreshGraph redraws the view when entry is the document it shows.
func (s *Server) refreshGraph(entry *manager.Entry) {
	s.graphMu.Lock()
	shown := s.graphURI
	s.graphMu.Unlock()
	if shown == entry.URI {
		drawGraph(s.graph, entry)
	}
}

func drawGraph(view *graph.View, entry *manager.Entry) {
	names, calls := features.CallGraph(entry.Doc)
	edges := make([]graph.Edge, len(calls))
	for i, c := range calls {
		edges[i] = graph.Edge{From: c.Caller, To: c.Callee}
	}
	view.Show(entry.URI, names, edges)
}

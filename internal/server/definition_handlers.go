package server

import (
	"sansls/internal/document"
	"sansls/internal/features"
	"sansls/internal/semantic"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// documentFor returns the cached model of uri, or nil when the document
// is not open. Handlers answer "no result" in that case.
func (s *Server) documentFor(uri protocol.DocumentUri) *document.Document {
	doc, err := s.manager.Document(uri)
	if err != nil {
		log.Debugf("%s", err)
		return nil
	}
	return doc
}

func (s *Server) textDocumentCompletion(
	context *glsp.Context,
	params *protocol.CompletionParams,
) (any, error) {
	doc := s.documentFor(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	pos := params.Position
	return features.Complete(doc, int(pos.Line), int(pos.Character)), nil
}

func (s *Server) textDocumentHover(
	context *glsp.Context,
	params *protocol.HoverParams,
) (*protocol.Hover, error) {
	doc := s.documentFor(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	pos := params.Position
	return features.Hover(doc, int(pos.Line), int(pos.Character)), nil
}

func (s *Server) textDocumentDefinition(
	context *glsp.Context,
	params *protocol.DefinitionParams,
) (any, error) {
	uri := params.TextDocument.URI
	doc := s.documentFor(uri)
	if doc == nil {
		return nil, nil
	}
	pos := params.Position
	loc, ok := features.Definition(doc, uri, int(pos.Line), int(pos.Character))
	if !ok {
		return nil, nil
	}
	return loc, nil
}

func (s *Server) textDocumentDocumentSymbol(
	context *glsp.Context,
	params *protocol.DocumentSymbolParams,
) (any, error) {
	doc := s.documentFor(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return features.DocumentSymbols(doc), nil
}

func (s *Server) textDocumentSemanticTokensFull(
	context *glsp.Context,
	params *protocol.SemanticTokensParams,
) (*protocol.SemanticTokens, error) {
	doc := s.documentFor(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return &protocol.SemanticTokens{Data: semantic.Encode(doc)}, nil
}

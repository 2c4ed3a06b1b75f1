package server

import (
	"fmt"

	"sansls/internal/diagnostics"
	"sansls/internal/manager"
	"sansls/internal/scheduler"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentDidOpen(
	context *glsp.Context,
	params *protocol.DidOpenTextDocumentParams,
) error {
	s.remember(context)
	doc := params.TextDocument
	entry := s.manager.Update(doc.URI, doc.Version, doc.Text)
	s.publish(context.Notify, entry)
	s.refreshGraph(entry)
	return nil
}

func (s *Server) textDocumentDidChange(
	context *glsp.Context,
	params *protocol.DidChangeTextDocumentParams,
) error {
	s.remember(context)
	var text *string
	for _, raw := range params.ContentChanges {
		change, ok := raw.(protocol.TextDocumentContentChangeEventWhole)
		if !ok {
			return fmt.Errorf("unexpected change event type %T", raw)
		}
		text = &change.Text
	}
	if text == nil {
		return nil
	}
	uri := params.TextDocument.URI
	entry := s.manager.Update(uri, params.TextDocument.Version, *text)
	s.publish(context.Notify, entry)
	s.refreshGraph(entry)
	return nil
}

func (s *Server) textDocumentDidSave(
	context *glsp.Context,
	params *protocol.DidSaveTextDocumentParams,
) error {
	if s.index == nil || s.scheduler == nil {
		return nil
	}
	path := uriToPath(params.TextDocument.URI)
	if !s.currentConfig().HasExtension(path) {
		return nil
	}
	err := s.scheduler.ScheduleHighPriorityTask(scheduler.Task{
		Name:    "refresh " + path,
		Execute: func() error { return s.refreshFile(path) },
	})
	if err != nil {
		log.Warningf("refresh %s: %s", path, err)
	}
	return nil
}

func (s *Server) textDocumentDidClose(
	context *glsp.Context,
	params *protocol.DidCloseTextDocumentParams,
) error {
	uri := params.TextDocument.URI
	s.manager.Release(uri)
	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

// publish analyzes entry and sends the diagnostics that are not disabled.
// An empty list is sent too, so that fixed problems disappear.
func (s *Server) publish(notify glsp.NotifyFunc, entry *manager.Entry) {
	notify(protocol.ServerTextDocumentPublishDiagnostics, s.diagnosticParams(entry))
}

func (s *Server) diagnosticParams(entry *manager.Entry) protocol.PublishDiagnosticsParams {
	diags := diagnostics.Filter(diagnostics.Analyze(entry.Doc), s.currentConfig().DisabledChecks)
	version := protocol.UInteger(entry.Version)
	return protocol.PublishDiagnosticsParams{
		URI:         entry.URI,
		Version:     &version,
		Diagnostics: toProtocol(diags),
	}
}

// isCurrent reports whether entry is still the stored state of its URI.
func (s *Server) isCurrent(entry *manager.Entry) bool {
	cur, err := s.manager.Get(entry.URI)
	return err == nil && cur == entry
}

// republish sends diagnostics for every open document, after the set of
// disabled checks may have changed. Documents edited or closed while
// their diagnostics were computed are skipped; the edit published its own.
func (s *Server) republish() {
	s.mu.RLock()
	notify := s.notify
	s.mu.RUnlock()
	if notify == nil {
		return
	}
	for _, uri := range s.manager.URIs() {
		entry, err := s.manager.Get(uri)
		if err != nil {
			continue
		}
		params := s.diagnosticParams(entry)
		if !s.isCurrent(entry) {
			log.Debugf("skipping stale diagnostics for %s", uri)
			continue
		}
		notify(protocol.ServerTextDocumentPublishDiagnostics, params)
	}
}

func toProtocol(diags []diagnostics.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		severity := protocol.DiagnosticSeverityError
		if d.Severity == diagnostics.Warning {
			severity = protocol.DiagnosticSeverityWarning
		}
		source := Name
		out = append(out, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: protocol.UInteger(d.Range.Line), Character: protocol.UInteger(d.Range.Start)},
				End:   protocol.Position{Line: protocol.UInteger(d.Range.Line), Character: protocol.UInteger(d.Range.End)},
			},
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: d.Code},
			Source:   &source,
			Message:  d.Message,
		})
	}
	return out
}

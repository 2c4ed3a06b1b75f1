package server

import (
	"errors"
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// CommandCallGraph opens the call graph of the document given as the
// first argument.
const CommandCallGraph = "sansls.callGraph"

var errMissingURI = errors.New("missing document uri argument")

func (s *Server) workspaceExecuteCommand(
	context *glsp.Context,
	params *protocol.ExecuteCommandParams,
) (any, error) {
	log.Debugf("execute %s %v", params.Command, params.Arguments)
	switch params.Command {
	case CommandCallGraph:
		uri, err := uriArgument(params.Arguments)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", params.Command, err)
		}
		return s.showCallGraph(context, uri)
	}
	return nil, fmt.Errorf("unknown command %q", params.Command)
}

// uriArgument accepts either a bare URI string or {"uri": ...}.
func uriArgument(args []any) (string, error) {
	if len(args) == 0 {
		return "", errMissingURI
	}
	switch v := args[0].(type) {
	case string:
		if v != "" {
			return v, nil
		}
	case map[string]any:
		if uri, ok := v["uri"].(string); ok && uri != "" {
			return uri, nil
		}
	}
	return "", errMissingURI
}

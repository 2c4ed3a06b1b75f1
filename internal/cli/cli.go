// Package cli holds the sansls command line.
package cli

import (
	"fmt"
	"io"

	"sansls/internal/config"
	"sansls/internal/server"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

const (
	CmdServe   = "serve"
	CmdCheck   = "check"
	CmdTokens  = "tokens"
	CmdVersion = "version"

	FlagVerbose   = "verbose"
	FlagLogFile   = "log-file"
	FlagTCP       = "tcp"
	FlagWebSocket = "websocket"
	FlagDebug     = "debug"
	FlagConfig    = "config"
)

type options struct {
	verbose   int
	logFile   string
	tcp       string
	websocket string
	debug     bool
	config    string
}

// NewRootCommand builds the command tree. Each call gets its own flags.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   server.Name,
		Short: "Language server for SansScript",
		Long: `sansls serves SansScript diagnostics, completion, hover, definitions,
document and workspace symbols, semantic tokens and a live call graph to
any editor speaking the Language Server Protocol.

  sansls serve                 # stdio, what editors launch
  sansls check src/            # lint files from the shell`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(opts)
		},
	}
	root.PersistentFlags().CountVarP(&opts.verbose, FlagVerbose, "v", "Log more (repeatable)")
	root.PersistentFlags().StringVar(&opts.logFile, FlagLogFile, "", "Write logs to this file instead of stderr")

	serveCmd := &cobra.Command{
		Use:   CmdServe,
		Short: "Run the language server (stdio by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}
	serveCmd.Flags().StringVar(&opts.tcp, FlagTCP, "", "Listen on a TCP address instead of stdio")
	serveCmd.Flags().StringVar(&opts.websocket, FlagWebSocket, "", "Listen for websocket connections on an address")
	serveCmd.Flags().BoolVar(&opts.debug, FlagDebug, false, "Log every protocol message")
	serveCmd.MarkFlagsMutuallyExclusive(FlagTCP, FlagWebSocket)

	checkCmd := &cobra.Command{
		Use:   CmdCheck + " <file|dir>...",
		Short: "Print diagnostics for files and directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), opts.config, args)
		},
	}
	checkCmd.Flags().StringVarP(&opts.config, FlagConfig, "c", "", "Configuration file, YAML or .json (default ./"+config.FileName+")")

	tokensCmd := &cobra.Command{
		Use:   CmdTokens + " <file>",
		Short: "Print the token stream of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd.OutOrStdout(), args[0])
		},
	}

	versionCmd := &cobra.Command{
		Use:   CmdVersion,
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd.OutOrStdout())
		},
	}

	root.AddCommand(serveCmd, checkCmd, tokensCmd, versionCmd)
	return root
}

// Execute runs the command line against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

func configureLogging(opts *options) {
	var path *string
	if opts.logFile != "" {
		path = &opts.logFile
	}
	commonlog.Configure(1+opts.verbose, path)
}

func runServe(opts *options) error {
	s := server.NewServer(opts.debug)
	switch {
	case opts.tcp != "":
		return s.RunTCP(opts.tcp)
	case opts.websocket != "":
		return s.RunWebSocket(opts.websocket)
	}
	return s.RunStdio()
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", server.Name, server.Version)
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quill/internal/actions"
	"quill/internal/citations"
	"quill/internal/config"
	"quill/internal/engine"
	"quill/internal/listener"
	"quill/internal/llm_client"
	"quill/internal/logger"
)

var (
	cfg      *config.Config
	registry *actions.Registry
	provider llm_client.Provider
	citmgr   citations.Manager
)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "AI-assisted text editing from the terminal",
	Long:  `Quill runs AI editing actions (rewrite, tighten, summarize, ...) over selected text, with custom actions loaded from a plain-text config.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := listener.Init(); err != nil {
			fmt.Println("Failed to init terminal input:", err)
			os.Exit(1)
		}
		defer listener.Close()
		runSession()
	},
}

// Execute wires the engine collaborators from cfg and runs the CLI.
func Execute(c *config.Config) {
	cfg = c

	registry = actions.NewRegistry(actions.Builtins(), actions.FileLoader{Path: cfg.ActionsFile})
	if err := registry.Reload(); err != nil {
		logger.Log.Printf("[CLI] custom actions unavailable: %v", err)
	}

	var err error
	provider, err = llm_client.New(llm_client.Config{
		Backend:    cfg.LLM.Backend,
		Model:      cfg.LLM.Model,
		OllamaHost: cfg.LLM.OllamaHost,
	})
	if err != nil {
		// run without a provider; invocations surface ErrProviderUnavailable
		logger.Log.Printf("[CLI] completion provider unavailable: %v", err)
		provider = nil
	}

	if cfg.CitationEndpoint != "" {
		citmgr = citations.NewHTTPManager(cfg.CitationEndpoint)
	} else {
		citmgr = citations.Noop{}
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// newCoordinator binds the current registry snapshot to a fresh coordinator.
func newCoordinator(opts ...engine.Option) *engine.Coordinator {
	return engine.NewCoordinator(registry.Snapshot(), provider, citmgr, opts...)
}

func init() {
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(runCmd)
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/contentgate/internal/httpgate"
)

var (
	serveAddr     string
	serveConfig   string
	serveTree     string
	serveAuditLog string
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "HTTP listen address")
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to security config YAML")
	serveCmd.Flags().StringVar(&serveTree, "tree", "", "Path to content tree YAML (optional)")
	serveCmd.Flags().StringVar(&serveAuditLog, "audit-log", "", "Path to decision log JSONL file")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP authorization gate",
	Long: "Runs the engine behind an HTTP server: a decision API under /v1\n" +
		"and a demo content tree under /content guarded by the request\n" +
		"middleware. Supports hot-reload of the security config file.",
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	var tree *httpgate.Tree
	if serveTree != "" {
		var err error
		tree, err = httpgate.LoadTree(serveTree)
		if err != nil {
			return fmt.Errorf("failed to load content tree: %w", err)
		}
	}

	gate, err := httpgate.New(serveConfig, serveAuditLog, tree)
	if err != nil {
		return fmt.Errorf("failed to create gate: %w", err)
	}
	defer gate.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start hot-reload watcher for the security config file
	if reloader, err := httpgate.NewReloader(gate, serveConfig); err != nil {
		fmt.Fprintf(os.Stderr, "warning: hot-reload disabled: %v\n", err)
	} else {
		go func() {
			if err := reloader.Run(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "reloader error: %v\n", err)
			}
		}()
	}

	fmt.Fprintf(os.Stderr, "contentgate listening on %s (config %s)\n", serveAddr, gate.ConfigHash())

	errCh := make(chan error, 1)
	go func() {
		errCh <- gate.Router().Run(serveAddr)
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

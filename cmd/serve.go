package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/flowdoc/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve saved flows over a local HTTP API",
	Long: `Starts a local HTTP server exposing flows previously saved with
` + "`flowdoc generate --save`" + `. The API is read-only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Serve.Port = port
		}
		allowAll, _ := cmd.Flags().GetBool("allow-all-origins")

		store, err := openFlowStore(cfg.Serve.DataDir)
		if err != nil {
			return err
		}

		srv := server.New(server.Config{
			Port:     cfg.Serve.Port,
			AllowAll: allowAll,
		}, store)

		// Shut down cleanly on SIGINT/SIGTERM.
		done := make(chan os.Signal, 1)
		signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-done
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
			}
		}()

		fmt.Printf("flowdoc serving flows on http://localhost:%d\n", cfg.Serve.Port)
		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (overrides config)")
	serveCmd.Flags().Bool("allow-all-origins", false, "allow all CORS origins")
	rootCmd.AddCommand(serveCmd)
}

package main

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/imicap/icap/internal/gateway"
	verdictstore "github.com/imicap/icap/pkg/verdict-store"
)

var gatewayPortFlag int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP scan gateway",
	Long: `serve starts an HTTP server that accepts file uploads on POST /scan
and returns the ICAP verdict as JSON. Verdicts are cached by payload
hash in the configured store.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&gatewayPortFlag, "listen", 8080, "Port to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	port := config.Gateway.Port
	if cmd.Flags().Changed("listen") || port == 0 {
		port = gatewayPortFlag
	}

	var store verdictstore.StoreProvider
	switch config.Gateway.Store {
	case "", "memory":
		store = verdictstore.NewMemStore()
	case "sqlite":
		dbFile := config.Gateway.DBFile
		if dbFile == "" {
			dbFile = "verdicts.db"
		}
		store = verdictstore.NewSQLiteStore(dbFile)
	default:
		return fmt.Errorf("unsupported store provider: %s", config.Gateway.Store)
	}

	g := gateway.New(gateway.Config{
		ICAP:  config.ICAP,
		Store: store,
	})

	log.Info().Msgf("Gateway on port %d scanning via icap://%s:%d/%s",
		port, config.ICAP.Host, config.ICAP.Port, config.ICAP.Service)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), g.Handler())
}

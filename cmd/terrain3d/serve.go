package main

import (
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	serveAddr string
	serveDir  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the mesh pipeline over HTTP.

  POST /api/mesh       grid JSON in, STL out
  POST /api/validate   grid JSON in, report and print settings out
  GET  /data/...       saved models and reports
  GET  /events/log     server log as server-sent events`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":9091", "Address to bind the server to.")
	serveCmd.Flags().StringVar(&serveDir, "dir", "./data", "Data directory to use.")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadPrinterConfig(printerFile)
	if err != nil {
		return err
	}

	api := newAPI(serveDir, cfg)

	log.Printf("listening on %s", serveAddr)
	return http.ListenAndServe(serveAddr, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		log.Printf("%s %s - %s", req.Method, req.URL.Path, req.RemoteAddr)
		api.ServeHTTP(w, req)
	}))
}

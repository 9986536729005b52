package cmd

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the generated report artifacts over HTTP",
	Long: `Serve the output directory (index.html and friends) plus the raw
report at /report.json. Intended for previewing a scan locally; the
published site is deployed as static files by CI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port := viper.GetInt("port")
		outDir := viper.GetString("output.dir")

		r := chi.NewRouter()
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)

		r.Get("/report.json", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			http.ServeFile(w, req, filepath.Join(outDir, "report.json"))
		})
		r.Handle("/*", http.FileServer(http.Dir(outDir)))

		addr := fmt.Sprintf(":%d", port)
		ui.Info("Serving %s at http://localhost%s", outDir, addr)
		return http.ListenAndServe(addr, r)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	viper.SetDefault("port", 8080)
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
}

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/maplabs/warehouse-mapper/internal/geo"
	"github.com/maplabs/warehouse-mapper/internal/server"
	"github.com/maplabs/warehouse-mapper/internal/table"
)

// Options defines all CLI flags and env vars for the mapper server.
// Flags: --host, --port, --log-level, --log-format
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_LOG_LEVEL, SERVICE_LOG_FORMAT
type Options struct {
	Host      string `doc:"Host to bind to" default:"0.0.0.0"`
	Port      int    `doc:"Port to listen on" short:"p" default:"8087"`
	LogLevel  string `doc:"Log level (debug, info, warn, error)" default:"info"`
	LogFormat string `doc:"Log format (text or json)" default:"text"`
}

func newServer(opts *Options) *server.Server {
	return server.New(server.Config{
		Host:      opts.Host,
		Port:      fmt.Sprintf("%d", opts.Port),
		LogLevel:  opts.LogLevel,
		LogFormat: opts.LogFormat,
	})
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		srv := newServer(opts)

		hooks.OnStart(func() {
			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			fmt.Println()
			fmt.Printf("warehouse-mapper API server starting...\n")
			fmt.Printf("  Server:  %s\n", baseURL)
			fmt.Println()
			fmt.Printf("  Docs:    %s/docs\n", baseURL)
			fmt.Printf("  OpenAPI: %s/openapi.json\n", baseURL)
			fmt.Println()

			if err := http.ListenAndServe(addr, srv); err != nil {
				log.Fatalf("Server error: %v", err)
			}
		})
	})

	cli.Root().Use = "mapper"
	cli.Root().Short = "Map CSV point locations with per-point colors"
	cli.Root().Version = "0.1.0"

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv := newServer(opts)
			spec := srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			var err error
			if useYAML {
				output, err = yaml.Marshal(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	// convert subcommand: one-shot CSV -> CSV/GeoJSON without the server
	convertCmd := &cobra.Command{
		Use:   "convert <input.csv>",
		Short: "Convert a CSV of point locations to colored CSV or GeoJSON",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			latCol, _ := cmd.Flags().GetString("lat-col")
			lonCol, _ := cmd.Flags().GetString("lon-col")
			format, _ := cmd.Flags().GetString("format")
			outPath, _ := cmd.Flags().GetString("output")

			if err := convert(args[0], latCol, lonCol, format, outPath); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		},
	}
	convertCmd.Flags().String("lat-col", "", "Latitude column name (default: first column)")
	convertCmd.Flags().String("lon-col", "", "Longitude column name (default: second column)")
	convertCmd.Flags().StringP("format", "f", "geojson", "Output format: geojson or csv")
	convertCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	cli.Root().AddCommand(convertCmd)

	cli.Run()
}

// convert runs the load, coerce, export pipeline against a local file. When
// no columns are named it falls back to the first two, matching the upload
// flow's suggestion.
func convert(path, latCol, lonCol, format, outPath string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	t, err := table.Load(data)
	if err != nil {
		return err
	}

	columns := t.Columns()
	if latCol == "" {
		if len(columns) < 1 {
			return fmt.Errorf("no columns in %s", path)
		}
		latCol = columns[0]
	}
	if lonCol == "" {
		if len(columns) < 2 {
			return fmt.Errorf("fewer than two columns in %s", path)
		}
		lonCol = columns[1]
	}

	coerced, err := geo.Coerce(t, latCol, lonCol)
	if err != nil {
		return err
	}

	var out []byte
	switch format {
	case "geojson":
		out, err = geo.ToGeoJSON(geo.Points(coerced, latCol, lonCol, nil))
	case "csv":
		out, err = table.WriteCSV(coerced, []string{latCol, lonCol, geo.ColorColumn})
	default:
		return fmt.Errorf("unknown format %q (want geojson or csv)", format)
	}
	if err != nil {
		return err
	}

	if outPath == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(outPath, out, 0644)
}

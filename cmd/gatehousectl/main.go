// Package main implements gatehousectl, a command line client for the
// Gatehouse visitor management API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	gatehouse "github.com/gatehouse-hq/gatehouse-go"
)

var (
	flagServer  string
	flagToken   string
	flagTenant  string
	flagTimeout time.Duration
	flagVerbose bool
	flagJSON    bool
)

var rootCmd = &cobra.Command{
	Use:   "gatehousectl",
	Short: "Command line client for the Gatehouse visitor management platform",
	Long: `gatehousectl talks to a Gatehouse server: register and check in
visits, manage the security watchlist, inspect audit trails and watch the
cross-tenant dashboard.

The server address and token can also come from the environment:
  GATEHOUSE_SERVER, GATEHOUSE_TOKEN, GATEHOUSE_TENANT`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagServer, "server", "http://localhost:8080", "server base URL")
	pf.StringVar(&flagToken, "token", "", "bearer token")
	pf.StringVar(&flagTenant, "tenant", "", "scope requests to one tenant ID")
	pf.DurationVar(&flagTimeout, "timeout", 30*time.Second, "per-command timeout")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "log requests")
	pf.BoolVar(&flagJSON, "json", false, "print raw JSON instead of tables")

	viper.SetEnvPrefix("GATEHOUSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, name := range []string{"server", "token", "tenant"} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}
}

// newAPIClient builds the API client from flags and environment.
func newAPIClient() (*gatehouse.Client, error) {
	opts := []gatehouse.Option{
		gatehouse.WithUserAgent("gatehousectl/1.0"),
		gatehouse.WithTimeout(flagTimeout),
	}
	if token := viper.GetString("token"); token != "" {
		opts = append(opts, gatehouse.WithToken(token))
	}
	if tenant := viper.GetString("tenant"); tenant != "" {
		opts = append(opts, gatehouse.WithTenant(tenant))
	}
	if flagVerbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		opts = append(opts, gatehouse.WithLogger(logger))
	}
	return gatehouse.NewClient(viper.GetString("server"), opts...)
}

// commandContext returns a context bounded by the --timeout flag.
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), flagTimeout)
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if apiErr, ok := gatehouse.AsAPIError(err); ok {
			fmt.Fprintf(os.Stderr, "Error: %s (HTTP %d, %s)\n", apiErr.Message, apiErr.StatusCode, apiErr.Code)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/imicap/icap"
)

var (
	// CLI flags
	serverFlag    string
	portFlag      int
	serviceFlag   string
	userAgentFlag string
	configFlag    string
	verboseFlag   bool
	noColorFlag   bool

	// this is set by goreleaser
	version string
)

var rootCmd = &cobra.Command{
	Use:   "icap-scan [flags] <file>...",
	Short: "Scan files against an ICAP adaptation service",
	Long: `icap-scan submits files to an ICAP (RFC 3507) server, such as an
antivirus scanner, and reports the verdict per file.

Capabilities (REQMOD/RESPMOD, preview, 204) are negotiated once with
an OPTIONS exchange when the connection is established.`,
	Example: `  icap-scan -s icap.example.org -n avscan report.pdf
  icap-scan --config icap.yml *.docx
  icap-scan serve --config icap.yml`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		return loadConfig(cmd)
	},
	RunE: runScan,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverFlag, "server", "s", "", "ICAP server host")
	rootCmd.PersistentFlags().IntVarP(&portFlag, "port", "p", 1344, "ICAP server port")
	rootCmd.PersistentFlags().StringVarP(&serviceFlag, "service", "n", "avscan", "ICAP service name")
	rootCmd.PersistentFlags().StringVar(&userAgentFlag, "user-agent", "", "User-Agent to send")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "vv", false, "Verbosity: trace logging")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(serveCmd)

	if version == "" {
		version = "DEV"
	}
	rootCmd.Version = version
}

// config holds the effective settings after merging the config file
// and flags; flags win.
var config icap.Config

func loadConfig(cmd *cobra.Command) error {
	if configFlag != "" {
		loaded, err := icap.LoadConfig(configFlag)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		config = loaded
	}
	if cmd.Flags().Changed("server") || config.ICAP.Host == "" {
		config.ICAP.Host = serverFlag
	}
	if cmd.Flags().Changed("port") || config.ICAP.Port == 0 {
		config.ICAP.Port = portFlag
	}
	if cmd.Flags().Changed("service") || config.ICAP.Service == "" {
		config.ICAP.Service = serviceFlag
	}
	if cmd.Flags().Changed("user-agent") {
		config.ICAP.UserAgent = userAgentFlag
	}
	if config.ICAP.Host == "" {
		return fmt.Errorf("please specify the ICAP server (-s or config file)")
	}
	return nil
}

func setupLogging() {
	logLevel := zerolog.DebugLevel
	if verboseFlag {
		logLevel = zerolog.TraceLevel
	}
	log.Logger = log.Level(logLevel).Output(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Str("version", version).Logger()
	if noColorFlag {
		color.NoColor = true
	}
}

// anyBlocked records a blocked verdict across the scan run; main
// turns it into the exit code once all deferred cleanup has run.
var anyBlocked bool

func runScan(cmd *cobra.Command, args []string) error {
	client, err := icap.DialSettings(config.ICAP.Settings())
	if err != nil {
		return err
	}
	defer client.Close()

	anyBlocked, err = scanPaths(client, args, os.Stdout)
	return err
}

type fileScanner interface {
	ScanFile(path string) (bool, error)
}

// scanPaths scans each path in turn, printing a per-file verdict
// line, and reports whether any file was blocked.
func scanPaths(scanner fileScanner, paths []string, out io.Writer) (bool, error) {
	clean := color.New(color.FgGreen)
	blocked := color.New(color.FgRed, color.Bold)

	var foundBlocked bool
	for _, path := range paths {
		ok, err := scanner.ScanFile(path)
		if err != nil {
			return foundBlocked, fmt.Errorf("scanning %s: %w", path, err)
		}
		if ok {
			clean.Fprintf(out, "%s: clean\n", path)
		} else {
			blocked.Fprintf(out, "%s: blocked\n", path)
			foundBlocked = true
		}
	}
	return foundBlocked, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Scan failed")
		os.Exit(2)
	}
	if anyBlocked {
		os.Exit(1)
	}
}

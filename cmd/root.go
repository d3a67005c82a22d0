package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gfscan/gfscan/report"
	"github.com/gfscan/gfscan/scan"
	"github.com/gfscan/gfscan/session"
	"github.com/gfscan/gfscan/version"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var debug bool
var timeoutMS = int(scan.DefaultTimeout / time.Millisecond)
var probeTimeoutMS = int(scan.DefaultProbeTimeout / time.Millisecond)
var parallelism = scan.DefaultWorkers
var portSelection string
var proberName = "auto"
var skipPing bool
var outputPath = report.DefaultLogPath
var showProgress bool
var showStatus bool
var openOnly bool
var versionRequested bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&versionRequested, "version", "", versionRequested, "Output version information and exit")
	rootCmd.PersistentFlags().BoolVarP(&debug, "verbose", "v", debug, "Enable verbose logging")
	rootCmd.PersistentFlags().IntVarP(&timeoutMS, "timeout-ms", "t", timeoutMS, "Connect timeout per port in MS")
	rootCmd.PersistentFlags().IntVarP(&probeTimeoutMS, "probe-timeout-ms", "", probeTimeoutMS, "Liveness probe timeout in MS")
	rootCmd.PersistentFlags().IntVarP(&parallelism, "workers", "w", parallelism, "Concurrent connect attempts")
	rootCmd.PersistentFlags().StringVarP(&portSelection, "ports", "p", portSelection, "Ports to scan. Comma separated, can use hyphens e.g. 22,80,443,8080-8090 (default 1-1025)")
	rootCmd.PersistentFlags().StringVarP(&proberName, "prober", "", proberName, "Liveness probe. Must be one of auto, icmp, ping, none")
	rootCmd.PersistentFlags().BoolVarP(&skipPing, "skip-ping", "P", skipPing, "Treat the host as alive without probing it")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", outputPath, "Scan log file, overwritten on each run")
	rootCmd.Flags().BoolVarP(&showProgress, "progress", "", showProgress, "Show a progress bar and only print open ports")
	rootCmd.Flags().BoolVarP(&showStatus, "status", "s", showStatus, "Print status updates to stderr")
	rootCmd.Flags().BoolVarP(&openOnly, "open-only", "O", openOnly, "Only print open ports; the log file still lists every port")
}

func buildConfig() (session.Config, error) {
	ports, err := scan.ParsePorts(portSelection)
	if err != nil {
		return session.Config{}, err
	}

	name := proberName
	if skipPing {
		name = "none"
	}
	prober, err := scan.NewProber(name)
	if err != nil {
		return session.Config{}, err
	}

	return session.Config{
		Ports:        ports,
		ProbeTimeout: time.Millisecond * time.Duration(probeTimeoutMS),
		Resolver:     scan.NewResolver(),
		Prober:       prober,
		Scanner:      scan.NewConnectScanner(time.Millisecond*time.Duration(timeoutMS), parallelism),
		Neighbours:   scan.LookupNeighbour,
		Now:          time.Now,
	}, nil
}

func setup() error {
	if debug {
		log.SetLevel(log.DebugLevel)
	}
	if parallelism < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if timeoutMS < 1 || probeTimeoutMS < 1 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

var rootCmd = &cobra.Command{
	Use:   "gfscan [host]",
	Short: "gfscan is a TCP connect port scanner",
	Long: `Checks that a host responds, then attempts a TCP connection to every port
in the selected range and reports each as open or closed. Results are printed
and written to a log file. Without a host argument an interactive prompt is
started; enter 'quit' to exit.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {

		if versionRequested {
			v := version.Version
			if v == "" {
				v = "development version"
			}
			fmt.Printf("gfscan %s\n", v)
			return nil
		}

		if err := setup(); err != nil {
			return err
		}

		cfg, err := buildConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		logFile, err := report.OpenLogFile(outputPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := logFile.Close(); err != nil {
				log.Errorf("Failed to close %s: %s", outputPath, err)
			}
		}()

		if len(args) == 1 {
			if state := runScan(ctx, cfg, logFile, args[0]); state == session.Failed {
				return fmt.Errorf("scan of '%s' failed", args[0])
			}
			return nil
		}

		return prompt(ctx, cfg, logFile, os.Stdin, os.Stdout)
	},
}

// prompt asks for hosts until one is scanned, the user types quit, or input
// ends. Every attempt is appended to the same log.
func prompt(ctx context.Context, cfg session.Config, logFile *report.LogFile, in io.Reader, out io.Writer) error {
	reader := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Enter a host to scan or 'quit' to exit : ")
		if !reader.Scan() {
			fmt.Fprintln(out)
			return reader.Err()
		}
		host := reader.Text()

		if strings.EqualFold(strings.TrimSpace(host), "quit") {
			fmt.Fprintln(out, "Quitting at user request")
			logFile.WriteLine("Quitting at user request")
			return nil
		}

		if runScan(ctx, cfg, logFile, host) != session.Failed {
			return nil
		}
	}
}

func runScan(ctx context.Context, cfg session.Config, logFile *report.LogFile, host string) session.State {

	var display report.Sink
	if showProgress {
		display = report.NewProgress(os.Stdout)
	} else {
		console := report.NewConsole()
		console.ShowStatus = showStatus
		console.OnlyOpen = openOnly
		display = console
	}

	log.Debugf("Scanning %d ports on '%s' with %d workers...", len(cfg.Ports), host, parallelism)

	s := session.New(cfg, host)
	report.Drain(s.Run(ctx), report.Multi{logFile, display})

	return s.State()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

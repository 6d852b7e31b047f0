// Package main provides the digestius binary entry point.
// Digestius condenses a proposal corpus into length-bounded digests.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/gops/agent"
	"github.com/spf13/cobra"

	// Register cloud storage schemes (gs://, s3://) via init()
	_ "github.com/viant/afsc/gs"
	_ "github.com/viant/afsc/s3"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "digestius"
)

func main() {
	startGops()
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Proposal corpus digests",
		Long: `Digestius extracts metadata and key sections from a corpus of
standardized proposal documents (EIP, ERC) and writes condensed digests
at fixed size tiers (short, medium, long).`,
		SilenceUsage: true,
	}
	cmd.AddCommand(summarizeCmd(), watchCmd(), serveCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})
	return cmd
}

func progressPrinter(enabled bool) func(corpus, tier string, current, total int, path string) {
	if !enabled {
		return nil
	}
	lastLen := 0
	return func(corpus, tier string, current, total int, path string) {
		if total == 0 {
			fmt.Fprintf(os.Stderr, "corpus=%s tier=%s summarized=0\n", corpus, tier)
			return
		}
		if path == "" {
			path = "-"
		}
		line := fmt.Sprintf("corpus=%s tier=%s summarized %d/%d %s", corpus, tier, current, total, path)
		if lastLen > len(line) {
			line = line + strings.Repeat(" ", lastLen-len(line))
		}
		lastLen = len(line)
		fmt.Fprintf(os.Stderr, "\r%s", line)
		if current == total {
			fmt.Fprintln(os.Stderr)
			lastLen = 0
		}
	}
}

func maybeDebugSleep(cmd string, seconds int) {
	if seconds <= 0 {
		seconds = debugSleepFromEnv()
	}
	if seconds <= 0 {
		return
	}
	log.Printf("%s: debug sleep %ds (pid=%d)", cmd, seconds, os.Getpid())
	time.Sleep(time.Duration(seconds) * time.Second)
}

func startGops() {
	if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
		log.Printf("gops: %v", err)
	}
}

func debugSleepFromEnv() int {
	val := strings.TrimSpace(os.Getenv("DIGESTIUS_DEBUG_SLEEP"))
	if val == "" {
		return 0
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

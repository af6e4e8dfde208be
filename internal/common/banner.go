package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the application startup banner to stderr.
func PrintBanner(config *Config) {
	serviceURL := fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)

	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite

	const width = 64
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	fmt.Fprintln(os.Stderr, hr)
	fmt.Fprintf(os.Stderr, "%s  PAPERFOLIO%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(os.Stderr, "%s  Simulated Portfolio Ledger%s\n", textColor, banner.ColorReset)
	fmt.Fprintln(os.Stderr, hr)

	for _, kv := range [][2]string{
		{"version", GetFullVersion()},
		{"environment", config.Environment},
		{"service", serviceURL},
		{"ledger", config.Storage.Path},
	} {
		fmt.Fprintf(os.Stderr, "%s  %-12s %s%s\n", textColor, kv[0], kv[1], banner.ColorReset)
	}
	fmt.Fprintln(os.Stderr, hr)
}

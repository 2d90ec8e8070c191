package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorCyan   = "\x1b[36m"
	colorGray   = "\x1b[90m"
)

// console prints timestamped, colored progress lines honoring --quiet and --debug
type console struct {
	out   io.Writer
	quiet bool
	debug bool
}

func newConsole(cmd *cobra.Command) *console {
	quiet, _ := cmd.Flags().GetBool("quiet")
	debug, _ := cmd.Flags().GetBool("debug")
	return &console{out: cmd.OutOrStdout(), quiet: quiet, debug: debug}
}

func (c *console) log(message, color string) {
	if c.quiet {
		return
	}
	timestamp := time.Now().Format("15:04:05")
	if color == "" {
		color = colorReset
	}
	fmt.Fprintf(c.out, "%s[%s] %s%s\n", color, timestamp, message, colorReset)
}

func (c *console) info(message string)    { c.log(message, colorCyan) }
func (c *console) success(message string) { c.log(message, colorGreen) }
func (c *console) warn(message string)    { c.log(message, colorYellow) }

// fail is printed even in quiet mode
func (c *console) fail(message string) {
	timestamp := time.Now().Format("15:04:05")
	fmt.Fprintf(c.out, "%s[%s] %s%s\n", colorRed, timestamp, message, colorReset)
}

func (c *console) debugf(format string, args ...interface{}) {
	if c.debug {
		c.log(fmt.Sprintf(format, args...), colorGray)
	}
}

func (c *console) warnings(warnings []string) {
	for _, w := range warnings {
		c.warn("⚠️  " + w)
	}
}

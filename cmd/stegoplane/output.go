package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	// Color printers
	infoColor    = color.New(color.FgBlue).SprintFunc()
	successColor = color.New(color.FgGreen).SprintFunc()
	warningColor = color.New(color.FgYellow).SprintFunc()
	errorColor   = color.New(color.FgRed).SprintFunc()
	alertColor   = color.New(color.FgRed, color.Bold).SprintFunc()
)

// console writes prefixed, coloured status lines
type console struct {
	out     io.Writer
	err     io.Writer
	verbose bool
}

func (c *console) printInfo(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "%s %s\n", infoColor("[*]"), fmt.Sprintf(format, args...))
}

func (c *console) printSuccess(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "%s %s\n", successColor("[+]"), fmt.Sprintf(format, args...))
}

func (c *console) printWarning(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "%s %s\n", warningColor("[!]"), fmt.Sprintf(format, args...))
}

func (c *console) printError(format string, args ...interface{}) {
	fmt.Fprintf(c.err, "%s %s\n", errorColor("[-]"), fmt.Sprintf(format, args...))
}

func (c *console) printAlert(format string, args ...interface{}) {
	fmt.Fprintf(c.out, "%s %s\n", alertColor("[!!!]"), fmt.Sprintf(format, args...))
}

// printVerbose prints only when --verbose is set
func (c *console) printVerbose(format string, args ...interface{}) {
	if c.verbose {
		c.printInfo(format, args...)
	}
}

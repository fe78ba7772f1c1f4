package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	keyPrefix     = color.New(color.FgCyan).SprintFunc()
	successPrefix = color.New(color.FgGreen).SprintFunc()
	warnPrefix    = color.New(color.FgYellow).SprintFunc()
	errorPrefix   = color.New(color.FgRed).SprintFunc()
	dimText       = color.New(color.Faint).SprintFunc()
)

type printer struct {
	out io.Writer
}

func (p printer) field(name string, value any) {
	fmt.Fprintf(p.out, "%s %v\n", keyPrefix(fmt.Sprintf("%-15s", name)), value)
}

func (p printer) success(msg string) {
	fmt.Fprintln(p.out, successPrefix("[OK]")+" "+msg)
}

func (p printer) warn(msg string) {
	fmt.Fprintln(p.out, warnPrefix("[WARN]")+" "+msg)
}

func (p printer) line(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func maskKey(key string) string {
	if key == "" {
		return dimText("(not set)")
	}
	if len(key) <= 8 {
		return "********"
	}
	return key[:3] + "..." + key[len(key)-4:]
}

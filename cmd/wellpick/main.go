// Command wellpick is a terminal picker for oilfield / block / well trees.
//
// Run it without arguments to pick wells interactively; the confirmed
// selection is printed on stdout so it composes with shell pipelines:
//
//	wells=$(wellpick --filter 大庆油田 --separator ,)
//
// The tree and flat subcommands print the (optionally filtered) dataset
// without a terminal UI.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := New().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

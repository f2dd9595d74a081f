package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	command := os.Args[1]

	// Dispatch to subcommand
	switch command {
	case "validate":
		runValidate(ctx, os.Args[2:])
	case "inspect":
		runInspect(ctx, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`trustgate - macOS installer trust validation gate

Usage:
  trustgate <command> [options]

Commands:
  validate   Validate an installer package, disk image, or application bundle
  inspect    Inspect the signing identity of a package or component

Use "trustgate <command> --help" for more information about a command.`)
}

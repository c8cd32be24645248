package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/kidnamedtony/van-app-sheets/commands"
)

var cli = []commands.Command{
	&commands.VersionCmd,
	&commands.SyncCmd,
	&commands.GetCmd,
	&commands.PutCmd,
}

var options = commands.Options{
	Config: commands.DEFAULT_CONFIG,
	Debug:  false,
}

func main() {
	flag.StringVar(&options.Config, "config", options.Config, "Configuration file")
	flag.BoolVar(&options.Debug, "debug", options.Debug, "Enable debugging information")
	flag.CommandLine.SetInterspersed(false)
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	if args[0] == "help" {
		help(args[1:])
		os.Exit(0)
	}

	cmd := lookup(args[0])
	if cmd == nil {
		fmt.Printf("\nError parsing command line: unknown command '%v'\n\n", args[0])
		os.Exit(1)
	}

	flagset := cmd.FlagSet()
	if err := flagset.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			cmd.Help()
			os.Exit(0)
		}

		fmt.Printf("\nError parsing command line: %v\n\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx, &options)
	cancel()

	switch {
	case err == nil:
		os.Exit(0)

	case errors.Is(err, commands.ErrIncomplete):
		log.Printf("%-5s %v", "WARN", err)
		os.Exit(2)

	default:
		log.Printf("%-5s %v", "ERROR", err)
		os.Exit(1)
	}
}

func lookup(name string) commands.Command {
	for _, c := range cli {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

func usage() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] <command> [options]\n", commands.APP)
	fmt.Println()
	fmt.Println("  Commands:")
	fmt.Println()

	for _, c := range cli {
		fmt.Printf("    %-8s %s\n", c.Name(), c.Description())
	}

	fmt.Println()
	fmt.Printf("    %-8s %s\n", "help", "Displays the help for a command")
	fmt.Println()
	fmt.Println("  Options:")
	fmt.Println()
	fmt.Printf("    --config <file>  Configuration file (defaults to %s)\n", commands.DEFAULT_CONFIG)
	fmt.Println("    --debug          Displays internal information for diagnosing errors")
	fmt.Println()
}

func help(args []string) {
	if len(args) > 0 {
		if cmd := lookup(args[0]); cmd != nil {
			cmd.Help()
			return
		}
	}

	usage()
}

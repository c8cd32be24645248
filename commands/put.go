package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/kidnamedtony/van-app-sheets/config"
	"github.com/kidnamedtony/van-app-sheets/table"
)

var PutCmd = Put{
	command: command{
		secrets: "",
		url:     "",
		debug:   false,
	},

	table:      "",
	file:       "",
	incomplete: false,
}

type Put struct {
	command
	table      string
	file       string
	incomplete bool
}

func (cmd *Put) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("put")

	flagset.StringVar(&cmd.table, "table", cmd.table, "Table to publish ('folders', 'turfs' or 'metadata')")
	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file")
	flagset.BoolVar(&cmd.incomplete, "incomplete", cmd.incomplete, "Stamps the worksheet as incomplete")

	return flagset
}

func (cmd *Put) Execute(ctx context.Context, options *Options) error {
	conf, secrets, err := cmd.configure(options)
	if err != nil {
		return err
	}

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	destination, ok := conf.Spreadsheet.Destination(cmd.table)
	if !ok {
		return fmt.Errorf("invalid --table '%s' - expected 'folders', 'turfs' or 'metadata'", cmd.table)
	}

	spreadsheet, err := openSpreadsheet(ctx, secrets.GoogleServiceAccount, conf.Spreadsheet.URL, cmd.debug)
	if err != nil {
		return err
	}

	return cmd.put(ctx, conf, spreadsheet, destination)
}

func (cmd *Put) put(ctx context.Context, conf *config.Config, spreadsheet Spreadsheet, destination config.Destination) error {
	location, err := conf.Location()
	if err != nil {
		return err
	}

	f, err := os.Open(cmd.file)
	if err != nil {
		return err
	}

	defer f.Close()

	t, err := table.ReadTSV(f, cmd.table)
	if err != nil {
		return fmt.Errorf("invalid TSV file (%w)", err)
	}

	publisher := Publisher{
		Spreadsheet: spreadsheet,
		Location:    location,
		Now:         time.Now,
		Debug:       cmd.debug,
	}

	if err := publisher.Publish(ctx, t, destination, cmd.incomplete); err != nil {
		return err
	}

	infof("Uploaded TSV file %v to Google Sheets %v", cmd.file, destination.Sheet)

	return nil
}

func (cmd *Put) Name() string {
	return "put"
}

func (cmd *Put) Description() string {
	return "Uploads a TSV file to a table's Google Sheets worksheet"
}

func (cmd *Put) Usage() string {
	return "[--url <url>] --table <table> --file <file>"
}

func (cmd *Put) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [options] put --table <table> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Replaces the contents of a table's worksheet with a TSV file e.g. a snapshot saved by 'sync'")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println()
	fmt.Printf("    %s --debug put --url \"https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms\" \\\n", APP)
	fmt.Println(`                           --table turfs \`)
	fmt.Println(`                           --file "snapshots/gotv_import_turfs.tsv"`)
	fmt.Println()
}

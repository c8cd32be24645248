package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"

	"github.com/kidnamedtony/van-app-sheets/config"
	"github.com/kidnamedtony/van-app-sheets/table"
)

var GetCmd = Get{
	command: command{
		secrets: "",
		url:     "",
		debug:   false,
	},

	area:  "",
	table: "",
	file:  time.Now().Format("2006-01-02T150405.tsv"),
}

type Get struct {
	command
	area  string
	table string
	file  string
}

func (cmd *Get) Name() string {
	return "get"
}

func (cmd *Get) Description() string {
	return "Retrieves a table from a Google Sheets worksheet and stores it to a local TSV file"
}

func (cmd *Get) Usage() string {
	return "[--url <url>] --range <range> | --table <table> --file <file>"
}

func (cmd *Get) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] get [options] --range <range> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Downloads a Google Sheets worksheet to a TSV file")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s --debug get --url \"https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms\" \\\n", APP)
	fmt.Println(`                           --range "gotv_import_turfs!A1:J" \`)
	fmt.Println(`                           --file "turfs.tsv"`)
	fmt.Println()
	fmt.Printf("    %s get --table metadata --file \"metadata.tsv\"\n", APP)
	fmt.Println()
}

func (cmd *Get) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("get")

	flagset.StringVar(&cmd.area, "range", cmd.area, "Spreadsheet range e.g. 'gotv_import_turfs!A1:J'")
	flagset.StringVar(&cmd.table, "table", cmd.table, "Destination worksheet of a table ('folders', 'turfs' or 'metadata'), used if --range is not set")
	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file name. Defaults to '<yyyy-mm-ddTHHmmss>.tsv'")

	return flagset
}

func (cmd *Get) Execute(ctx context.Context, options *Options) error {
	conf, secrets, err := cmd.configure(options)
	if err != nil {
		return err
	}

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	area, err := cmd.resolve(conf)
	if err != nil {
		return err
	}

	spreadsheet, err := openSpreadsheet(ctx, secrets.GoogleServiceAccount, conf.Spreadsheet.URL, cmd.debug)
	if err != nil {
		return err
	}

	return cmd.get(ctx, spreadsheet, area)
}

func (cmd *Get) resolve(conf *config.Config) (string, error) {
	if strings.TrimSpace(cmd.area) != "" {
		return cmd.area, nil
	}

	if strings.TrimSpace(cmd.table) == "" {
		return "", fmt.Errorf("--range or --table is a required option")
	}

	destination, ok := conf.Spreadsheet.Destination(cmd.table)
	if !ok {
		return "", fmt.Errorf("invalid --table '%s' - expected 'folders', 'turfs' or 'metadata'", cmd.table)
	}

	return destination.Range(destination.Anchor) + ":ZZ", nil
}

func (cmd *Get) get(ctx context.Context, spreadsheet Spreadsheet, area string) error {
	if cmd.debug {
		debugf("Retrieving range %s", area)
	}

	values, err := spreadsheet.Get(ctx, area)
	if err != nil {
		return err
	}

	if len(values) == 0 {
		return fmt.Errorf("no data in spreadsheet/range")
	}

	t, err := table.FromValues(sheetName(area), values)
	if err != nil {
		return fmt.Errorf("invalid worksheet data (%w)", err)
	}

	var b bytes.Buffer
	if err := table.WriteTSV(&b, t); err != nil {
		return fmt.Errorf("error creating TSV file (%w)", err)
	}

	dir := filepath.Dir(cmd.file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	if err := atomic.WriteFile(cmd.file, &b); err != nil {
		return err
	}

	infof("Retrieved %d record(s) from %s to file %s", len(t.Records), area, cmd.file)

	return nil
}

package commands

import (
	"context"
	"fmt"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/kidnamedtony/van-app-sheets/config"
	"github.com/kidnamedtony/van-app-sheets/pipeline"
	"github.com/kidnamedtony/van-app-sheets/table"
	"github.com/kidnamedtony/van-app-sheets/van"
)

var SyncCmd = Sync{
	command: command{
		secrets: "",
		url:     "",
		debug:   false,
	},

	generatedAfter: "",
	snapshots:      "",
	dryRun:         false,
}

type Sync struct {
	command
	generatedAfter string
	snapshots      string
	dryRun         bool
}

func (cmd *Sync) Name() string {
	return "sync"
}

func (cmd *Sync) Description() string {
	return "Fetches the GOTV folders, turf lists and folder metadata from VAN and publishes them to Google Sheets"
}

func (cmd *Sync) Usage() string {
	return "[--url <url>] [--generated-after <date>] [--snapshots <dir>] [--dry-run]"
}

func (cmd *Sync) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] sync [options]\n", APP)
	fmt.Println()
	fmt.Println("  Fetches the allow-listed VAN folders, the turf lists generated in each folder since")
	fmt.Println("  yesterday and the saved list metadata of each folder, and replaces the contents of the")
	fmt.Println("  folders, turfs and metadata worksheets")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Exit codes:")
	fmt.Println("    0  all tables fetched and published")
	fmt.Println("    1  usage, configuration or publishing error")
	fmt.Println("    2  published, but at least one table is incomplete")
	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s --debug sync --url \"https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms\"\n", APP)
	fmt.Printf("    %s --config van-app-sheets.yaml sync --generated-after 2024-11-01 --dry-run\n", APP)
	fmt.Println()
}

func (cmd *Sync) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("sync")

	flagset.StringVar(&cmd.generatedAfter, "generated-after", cmd.generatedAfter, "Turf list 'generatedAfter' date (YYYY-MM-DD). Defaults to yesterday in the configured time zone")
	flagset.StringVar(&cmd.snapshots, "snapshots", cmd.snapshots, "Directory for TSV snapshots of the published tables")
	flagset.BoolVar(&cmd.dryRun, "dry-run", cmd.dryRun, "Fetches and tabulates the records without publishing them")

	return flagset
}

func (cmd *Sync) Execute(ctx context.Context, options *Options) error {
	conf, secrets, err := cmd.configure(options)
	if err != nil {
		return err
	}

	location, err := conf.Location()
	if err != nil {
		return err
	}

	date := cmd.generatedAfter
	if date == "" {
		date = pipeline.ReferenceDate(time.Now(), location)
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid --generated-after date '%s' - expected YYYY-MM-DD", date)
	}

	if !cmd.dryRun {
		if _, err := spreadsheetID(conf.Spreadsheet.URL); err != nil {
			return err
		}
	}

	credentials := van.Credentials{
		ApplicationName: secrets.VAN.ApplicationName,
		APIKey:          secrets.VAN.APIKey,
		DatabaseMode:    conf.VAN.DatabaseMode,
	}

	client := van.NewClient(credentials, van.Options{
		BaseURL:  conf.VAN.BaseURL,
		Timeout:  conf.VAN.Timeout,
		MaxPages: conf.VAN.MaxPages,
		Debug:    cmd.debug,
	})

	open := func(ctx context.Context) (Spreadsheet, error) {
		return openSpreadsheet(ctx, secrets.GoogleServiceAccount, conf.Spreadsheet.URL, cmd.debug)
	}

	return cmd.sync(ctx, conf, client, open, date)
}

// sync runs the fetch passes and publishes the tables. Tables are published even if a pass
// did not complete, in which case the tables are stamped as incomplete and ErrIncomplete is
// returned.
func (cmd *Sync) sync(ctx context.Context, conf *config.Config, source pipeline.Source, open func(context.Context) (Spreadsheet, error), date string) error {
	location, err := conf.Location()
	if err != nil {
		return err
	}

	result := pipeline.Run(ctx, source, pipeline.Options{
		Folders:        conf.Folders,
		GeneratedAfter: date,
		Debug:          cmd.debug,
	})

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("sync interrupted (%w)", err)
	}

	tables := []struct {
		pass        pipeline.PassResult
		name        string
		mapping     table.Mapping
		destination config.Destination
	}{
		{result.FolderRecords, "folders", table.FoldersMapping, conf.Spreadsheet.Folders},
		{result.Turfs, "turfs", table.TurfsMapping, conf.Spreadsheet.Turfs},
		{result.Metadata, "metadata", table.MetadataMapping, conf.Spreadsheet.Metadata},
	}

	for _, t := range tables {
		if t.pass.Status != pipeline.Complete {
			warnf("%v: %v (%v)", t.name, t.pass.Status, t.pass.Err)
		}
	}

	if cmd.dryRun {
		for _, t := range tables {
			tt, err := table.FromRecords(t.name, t.pass.Records, t.mapping, conf.Style())
			if err != nil {
				return err
			}

			infof("%v: %d column(s) %q, %d record(s) -> %v", t.name, len(tt.Header), tt.Header, len(tt.Records), t.destination.Sheet)
		}
	} else {
		pipeline.Transition(pipeline.Publish)

		spreadsheet, err := open(ctx)
		if err != nil {
			return err
		}

		publisher := Publisher{
			Spreadsheet: spreadsheet,
			Location:    location,
			Snapshots:   cmd.snapshots,
			Debug:       cmd.debug,
		}

		for _, t := range tables {
			tt, err := table.FromRecords(t.name, t.pass.Records, t.mapping, conf.Style())
			if err != nil {
				return err
			}

			if err := publisher.Publish(ctx, tt, t.destination, t.pass.Status != pipeline.Complete); err != nil {
				return err
			}
		}
	}

	pipeline.Transition(pipeline.Done)

	if !result.Complete() {
		return ErrIncomplete
	}

	return nil
}

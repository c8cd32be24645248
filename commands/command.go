package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/kidnamedtony/van-app-sheets/config"
)

const APP = "van-app-sheets"

const SHEETS = "https://www.googleapis.com/auth/spreadsheets"

// ErrIncomplete is returned by a command that published its tables but had at least one
// fetch pass that did not complete.
var ErrIncomplete = errors.New("one or more passes did not complete")

type Options struct {
	Config string
	Debug  bool
}

// Command is the interface implemented by the CLI subcommands.
type Command interface {
	Name() string
	Description() string
	Usage() string
	Help()
	FlagSet() *flag.FlagSet
	Execute(ctx context.Context, options *Options) error
}

// command holds the options common to the commands that access the spreadsheet.
type command struct {
	secrets string
	url     string
	debug   bool
}

var spreadsheetURL = regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`)

func (c *command) flagset(name string) *flag.FlagSet {
	flagset := flag.NewFlagSet(name, flag.ContinueOnError)

	flagset.StringVar(&c.secrets, "secrets", c.secrets, "Secrets file, used if the secrets environment variable is not set")
	flagset.StringVar(&c.url, "url", c.url, "Spreadsheet URL. Defaults to 'spreadsheet.url' from the configuration file")

	return flagset
}

// configure loads the configuration and secrets for a command.
func (c *command) configure(options *Options) (*config.Config, *config.Secrets, error) {
	c.debug = options.Debug

	conf, err := loadConfig(options.Config)
	if err != nil {
		return nil, nil, err
	}

	secrets, err := config.LoadSecrets(conf.Secrets, c.secrets)
	if err != nil {
		return nil, nil, err
	}

	if strings.TrimSpace(c.url) != "" {
		conf.Spreadsheet.URL = c.url
	}

	return conf, secrets, nil
}

// loadConfig falls back to the built-in defaults if the default configuration file does
// not exist. An explicitly specified file must exist.
func loadConfig(path string) (*config.Config, error) {
	if path == DEFAULT_CONFIG {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return config.Load("")
		}
	}

	return config.Load(path)
}

func spreadsheetID(url string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("missing spreadsheet URL - use --url or set 'spreadsheet.url' in the configuration file")
	}

	match := spreadsheetURL.FindStringSubmatch(url)
	if len(match) < 2 || match[1] == "" {
		return "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'")
	}

	return match[1], nil
}

// getSheet returns the title of the worksheet matching the name, ignoring case and
// surrounding whitespace.
func getSheet(worksheets []string, name string) (string, error) {
	for _, title := range worksheets {
		if strings.EqualFold(strings.TrimSpace(title), strings.TrimSpace(name)) {
			return title, nil
		}
	}

	return "", fmt.Errorf("unable to identify worksheet '%s'", name)
}

// sheetName extracts the worksheet name from an A1 notation range e.g. 'Turfs'!A1:J.
func sheetName(area string) string {
	name, _, _ := strings.Cut(area, "!")
	if len(name) > 1 && strings.HasPrefix(name, "'") && strings.HasSuffix(name, "'") {
		name = strings.ReplaceAll(name[1:len(name)-1], "''", "'")
	}

	return name
}

func helpOptions(flagset *flag.FlagSet) {
	count := 0
	flagset.VisitAll(func(f *flag.Flag) {
		count++
		fmt.Printf("    --%-16s %s\n", f.Name, f.Usage)
	})

	if count > 0 {
		fmt.Println()
	}

	fmt.Println("  Options:")
	fmt.Println()
	fmt.Println("    --config <file>  Configuration file")
	fmt.Println("    --debug          Displays internal information for diagnosing errors")
}

func debugf(format string, args ...any) {
	log.Printf("%-5s %s", "DEBUG", fmt.Sprintf(format, args...))
}

func infof(format string, args ...any) {
	log.Printf("%-5s %s", "INFO", fmt.Sprintf(format, args...))
}

func warnf(format string, args ...any) {
	log.Printf("%-5s %s", "WARN", fmt.Sprintf(format, args...))
}

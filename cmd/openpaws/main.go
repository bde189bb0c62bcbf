package main

import (
	"errors"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/openpaws/openpaws/internal/config"
	"github.com/openpaws/openpaws/internal/logging"
)

// options are shared by every command.
type options struct {
	Config string `short:"c" long:"config" description:"Path to a YAML config file" env:"OPENPAWS_CONFIG"`
}

var opts options

// loadConfig reads the configuration and applies its logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}

func main() {
	logging.Setup("info", "json")

	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "OpenPaws"
	parser.LongDescription = "Social account connector and AI content service"

	commands := []struct {
		name, short, long string
		data              any
	}{
		{"serve", "Run the HTTP server", "Serve the connect, AI and metrics endpoints.", &serveCommand{}},
		{"connect", "Connect an account from the terminal", "Run the OAuth flow through a local callback server and print the account JSON.", &connectCommand{}},
		{"platforms", "Show platform configuration", "List every platform and whether its OAuth credentials are set.", &platformsCommand{}},
		{"version", "Print version information", "Print the build version, commit and time.", &versionCommand{}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			log.Fatal().Err(err).Str("command", c.name).Msg("Failed to register command")
		}
	}

	// flags.Default prints the error, including those returned by commands.
	if _, err := parser.Parse(); err != nil {
		var fe *flags.Error
		if errors.As(err, &fe) && fe.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

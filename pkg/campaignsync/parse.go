package campaignsync

import (
	"flag"
	"fmt"
	"io"
)

const usage = `subcommand required

Usage: campaignsync [flags] <command>

Commands:
  run       Start the campaign API server
  migrate   Create or update the durable store schema

Examples:
  campaignsync run                                   # memory stores, port 8080
  campaignsync -config campaignsync.yaml run         # settings from a YAML file
  campaignsync -backend postgres migrate             # create the campaigns table
  campaignsync -backend surrealdb -drafts redis run  # SurrealDB records, Redis drafts
  campaignsync -read-only run                        # reject every durable write`

// Parse parses command line arguments and returns the command to execute and
// the layered application configuration. Only flags given explicitly
// override the file and environment layers.
func Parse(args []string) (Command, *Config, error) {
	flagSet := flag.NewFlagSet("campaignsync", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var (
		configPath = flagSet.String("config", "", "YAML configuration file")
		envFile    = flagSet.String("env-file", ".env", "dotenv file read before the environment")
		port       = flagSet.String("port", "", "Server port")
		backend    = flagSet.String("backend", "", "Durable store: memory, postgres, surrealdb, supabase")
		drafts     = flagSet.String("drafts", "", "Draft store: memory, bolt, redis")
		readOnly   = flagSet.Bool("read-only", false, "Reject every durable write")
		logLevel   = flagSet.String("log-level", "", "Log level: debug, info, warn, error")
	)

	if err := flagSet.Parse(args); err != nil {
		return nil, nil, err
	}

	remainingArgs := flagSet.Args()
	if len(remainingArgs) == 0 {
		return nil, nil, fmt.Errorf(usage)
	}

	var cmd Command
	switch remainingArgs[0] {
	case "run":
		cmd = &RunCommand{}
	case "migrate":
		cmd = &MigrateCommand{}
	default:
		return nil, nil, fmt.Errorf("unknown command: %s\n\nValid commands: run, migrate", remainingArgs[0])
	}

	config := Defaults()
	if *configPath != "" {
		if err := config.LoadFile(*configPath); err != nil {
			return nil, nil, err
		}
	}
	if err := config.LoadEnv(*envFile); err != nil {
		return nil, nil, err
	}

	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			config.Server.Port = *port
		case "backend":
			config.Backend = *backend
		case "drafts":
			config.Drafts = *drafts
		case "read-only":
			config.ReadOnly = *readOnly
		case "log-level":
			config.Log.Level = *logLevel
		}
	})

	if err := config.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cmd, config, nil
}

package campaignsync

// Command is one operation selected on the command line. Shared settings
// live in [Config]; a command carries only what is specific to it.
type Command interface {
	// Name returns the sub-command name that selects the command.
	Name() string
}

// MigrateCommand creates or extends the durable store's schema. It is safe
// to run repeatedly.
//
//	campaignsync -backend postgres migrate
type MigrateCommand struct{}

func (c *MigrateCommand) Name() string {
	return "migrate"
}

// RunCommand serves the HTTP API until the context is cancelled.
//
//	campaignsync run
//	campaignsync -backend surrealdb -drafts redis run
//	campaignsync -read-only run
type RunCommand struct{}

func (c *RunCommand) Name() string {
	return "run"
}

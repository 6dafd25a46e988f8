package cli

var (
	verbose bool

	// for server start and run
	configPath  string
	sinkChoice  string
	displaySize string

	// for client commands talking to a running server
	serverAddr string
)

package meta

const (
	// CLIName is the name of the command line tool
	CLIName = "takeoffctl"
	// ProductName is the commercial name of the product the CLI manages
	ProductName = "Kinetta Takeoff"
	// DefaultAPIBaseURL is the backend used when the profile does not
	// configure one
	DefaultAPIBaseURL = "https://api.kinetta.cl"
)

package context

import "errors"

var (
	// ErrNotInContext - error you get when you ask for something not in the context
	ErrNotInContext = errors.New("failed to get value, not in context")
	// ErrValueWrongType - error you get when you ask for something and it is not the type you expect
	ErrValueWrongType = errors.New("failed to get value, wrong type")
)

// CTXKey - a type for context keys
type CTXKey string

const (
	// EnvironmentCTXKey - the key used for the service environment
	EnvironmentCTXKey CTXKey = "environment"
	// DebugLoggingCTXKey - context key for debug logging
	DebugLoggingCTXKey CTXKey = "debug_logging"
	// LogLevelCTXKey - context key for our log level
	LogLevelCTXKey CTXKey = "log_level"
	// LogWriterCTXKey - context key for a log writer override
	LogWriterCTXKey CTXKey = "log_writer"

	// VersionCTXKey - context key for version of code
	VersionCTXKey CTXKey = "version"
	// CommitCTXKey - context key for the commit of the code
	CommitCTXKey CTXKey = "commit"
	// BuildTimeCTXKey - context key for the build time of code
	BuildTimeCTXKey CTXKey = "build_time"

	// SquareServerCTXKey - the context key for getting the square api server
	SquareServerCTXKey CTXKey = "square_server"
	// SquareAccessTokenCTXKey - the context key for getting the square access token
	SquareAccessTokenCTXKey CTXKey = "square_access_token"
	// SquareLocationCTXKey - the context key for getting the merchant location id
	SquareLocationCTXKey CTXKey = "square_location"
	// SquareClientCTXKey - the context key for a pre-built square client
	SquareClientCTXKey CTXKey = "square_client"
)

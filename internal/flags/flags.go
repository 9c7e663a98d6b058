package flags

// Package flags defines canonical CLI flag names shared across commands.
// IMPORTANT: These are flag *names* without leading dashes.
const (
	FlagVerbose = "verbose"
	FlagAddr    = "addr"
	FlagModel   = "model"
)

package prog

import (
	"flag"

	"src.cmdl.sh/pkg/config"
)

// FlagSet wraps a [flag.FlagSet] and provides methods to register flags and
// settings shared by several subprograms.
type FlagSet struct {
	*flag.FlagSet
	json   *bool
	config *config.Config
}

// JSON returns a pointer to the value of the -json flag, registering it if
// needed.
func (fs *FlagSet) JSON() *bool {
	if fs.json == nil {
		var json bool
		fs.BoolVar(&json, "json", false,
			"Show the output from -buildinfo or -compileonly in JSON")
		fs.json = &json
	}
	return fs.json
}

// Config returns the configuration loaded from the file named by -config. It
// is filled in after flags are parsed and before the program runs; without
// -config, it stays the zero value.
func (fs *FlagSet) Config() *config.Config {
	return fs.config
}

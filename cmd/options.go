package cmd

// Options is the root of the dict-cli command line. Struct tags are
// interpreted by github.com/jessevdk/go-flags.
type Options struct {
	Config    string `short:"f" long:"config" description:"YAML configuration path"`
	File      string `short:"x" long:"file" description:"Execute commands from file and exit"`
	LogLevel  string `short:"l" long:"log-level" description:"Log level: debug, info, warn or error"`
	MaxMemory *int64 `short:"m" long:"max-memory" description:"Memory budget of the dictionary in bytes (0 = unbounded)"`
	Version   bool   `short:"v" long:"version" description:"Output version and exit"`
}

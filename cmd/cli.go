package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/fzft/go-dict/deps/linenoise"
	"github.com/fzft/go-dict/log"
	"github.com/jessevdk/go-flags"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"go.uber.org/zap"
)

var DictCliVersion = "1.0.0"

// BuildInfo identifies the binary.
type BuildInfo struct {
	GitSHA1  string
	GitDirty string
}

func (b BuildInfo) String() string {
	version := DictCliVersion
	// Add git commit and working tree status when available
	if sha1Int, err := strconv.ParseInt(b.GitSHA1, 16, 64); err == nil && sha1Int != 0 {
		version = fmt.Sprintf("%s (git:%s", version, b.GitSHA1)
		if dirtyInt, err := strconv.ParseInt(b.GitDirty, 10, 64); err == nil && dirtyInt != 0 {
			version = fmt.Sprintf("%s-dirty", version)
		}
		version = fmt.Sprintf("%s)", version)
	}
	return version
}

// DictCli is the dict-cli program. Nil streams default to the process ones.
type DictCli struct {
	Build  BuildInfo
	Stdin  io.Reader
	Stdout io.Writer
}

func (cli *DictCli) stdin() io.Reader {
	if cli.Stdin == nil {
		return os.Stdin
	}
	return cli.Stdin
}

func (cli *DictCli) stdout() io.Writer {
	if cli.Stdout == nil {
		return os.Stdout
	}
	return cli.Stdout
}

// Run parses args and executes, in order of precedence: a command given as
// positional arguments, the commands of --file, an interactive session when
// stdin is a terminal, or the commands read from stdin.
func (cli *DictCli) Run(args []string) error {
	opts := &Options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "dict-cli"
	parser.Usage = "[OPTIONS] [command [arg ...]]"
	rest, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(cli.stdout(), flagsErr.Message)
			return nil
		}
		return err
	}

	if opts.Version {
		fmt.Fprintf(cli.stdout(), "dict-cli %s\n", cli.Build)
		return nil
	}

	cfg, err := LoadConfig(opts.Config)
	if err != nil {
		return err
	}
	if err := cfg.override(opts); err != nil {
		return err
	}

	if err := log.InitLogger(cfg.LogLevel); err != nil {
		return err
	}
	defer func() { _ = log.Logger.Sync() }()

	session, err := NewSession(log.Logger, cfg.MaxMemory)
	if err != nil {
		return err
	}
	defer session.Close()

	switch {
	case len(rest) > 0:
		reply, err := session.ExecArgs(rest)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		writeReply(cli.stdout(), reply, err)
		return err
	case opts.File != "":
		f, err := os.Open(opts.File)
		if err != nil {
			return err
		}
		defer f.Close()
		return session.RunBatch(f, cli.stdout())
	case cli.interactive():
		return cli.repl(session, cfg)
	default:
		return session.RunBatch(cli.stdin(), cli.stdout())
	}
}

func (cli *DictCli) interactive() bool {
	f, ok := cli.stdin().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (cli *DictCli) repl(session *Session, cfg *Config) error {
	line := linenoise.New()
	defer line.Close()

	if cfg.HistoryFile != "" {
		if err := line.HistoryLoad(cfg.HistoryFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Logger.Warn("load history", zap.String("file", cfg.HistoryFile), zap.Error(err))
		}
	}
	out := cli.stdout()
	session.width = outputWidth(out)

	for {
		text, err := line.Prompt(cfg.Prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		argv, err := splitArgs(text)
		if err != nil {
			fmt.Fprintln(out, "Invalid argument(s)")
			line.AppendHistory(text)
			continue
		}
		if len(argv) == 0 {
			continue
		}
		line.AppendHistory(text)

		if len(argv) == 1 && strings.EqualFold(argv[0], "clear") {
			if err := line.ClearScreen(); err != nil {
				log.Logger.Debug("clear screen", zap.Error(err))
			}
			continue
		}

		reply, err := session.ExecArgs(argv)
		if errors.Is(err, ErrQuit) {
			break
		}
		writeReply(out, reply, err)
	}

	if cfg.HistoryFile != "" {
		if err := line.HistorySave(cfg.HistoryFile); err != nil {
			log.Logger.Warn("save history", zap.String("file", cfg.HistoryFile), zap.Error(err))
		}
	}
	return nil
}

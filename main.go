package main

import (
	"fmt"
	"os"

	"github.com/fzft/go-dict/cmd"
)

func main() {
	cli := &cmd.DictCli{
		Build: cmd.BuildInfo{GitSHA1: DictGitSHA1(), GitDirty: DictGitDirty()},
	}
	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

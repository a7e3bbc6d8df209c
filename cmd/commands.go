package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fzft/go-dict/db"
)

// command describes one session command. arity counts the command name.
type command struct {
	name    string
	params  string
	summary string
	arity   int
	proc    func(s *Session, args []string) (string, error)
}

var commands []*command

func init() {
	commands = []*command{
		{"put", "key value", "Store value under key, replacing and discarding any previous value.", 3, putCommand},
		{"get", "key", "Return the value stored under key, or (nil).", 2, getCommand},
		{"del", "key", "Remove key and discard its value. Replies 1 if the key existed, 0 otherwise.", 2, delCommand},
		{"pop", "key", "Remove key and return its value without discarding it, or (nil).", 2, popCommand},
		{"exists", "key", "Reply 1 if key is present, 0 otherwise.", 2, existsCommand},
		{"size", "", "Number of keys in the dictionary.", 1, sizeCommand},
		{"info", "", "Size, capacity, tombstones, resize counters and estimated memory of the dictionary.", 1, infoCommand},
		{"help", "", "Show this help.", 1, helpCommand},
		{"clear", "", "Clear the screen (interactive mode only).", 1, clearCommand},
		{"quit", "", "Leave the session.", 1, quitCommand},
		{"exit", "", "Leave the session.", 1, quitCommand},
	}
}

func lookupCommand(name string) *command {
	for _, c := range commands {
		if strings.EqualFold(c.name, name) {
			return c
		}
	}
	return nil
}

func integerReply(n int) string {
	return fmt.Sprintf("(integer) %d", n)
}

func boolReply(b bool) string {
	if b {
		return integerReply(1)
	}
	return integerReply(0)
}

func valueReply(v any) string {
	if str, ok := v.(string); ok {
		return strconv.Quote(str)
	}
	return fmt.Sprint(v)
}

func putCommand(s *Session, args []string) (string, error) {
	if err := s.dict.Put(args[0], args[1]); err != nil {
		return "", err
	}
	return "OK", nil
}

func getCommand(s *Session, args []string) (string, error) {
	v, err := s.dict.Get(args[0])
	if errors.Is(err, db.ErrNotFound) {
		return "(nil)", nil
	}
	if err != nil {
		return "", err
	}
	return valueReply(v), nil
}

func delCommand(s *Session, args []string) (string, error) {
	err := s.dict.Delete(args[0])
	if errors.Is(err, db.ErrNotFound) {
		return boolReply(false), nil
	}
	if err != nil {
		return "", err
	}
	return boolReply(true), nil
}

func popCommand(s *Session, args []string) (string, error) {
	v, err := s.dict.Pop(args[0])
	if errors.Is(err, db.ErrNotFound) {
		return "(nil)", nil
	}
	if err != nil {
		return "", err
	}
	return valueReply(v), nil
}

func existsCommand(s *Session, args []string) (string, error) {
	if args[0] == "" {
		return "", db.ErrInvalidArgument
	}
	return boolReply(s.dict.Contains(args[0])), nil
}

func sizeCommand(s *Session, _ []string) (string, error) {
	return integerReply(s.dict.Size()), nil
}

func infoCommand(s *Session, _ []string) (string, error) {
	st := s.dict.Stats()
	lines := []string{
		fmt.Sprintf("size:%d", st.Size),
		fmt.Sprintf("capacity:%d", st.Capacity),
		fmt.Sprintf("tombstones:%d", st.Tombstones),
		fmt.Sprintf("resizes:%d", st.Resizes),
		fmt.Sprintf("compactions:%d", st.Compactions),
		fmt.Sprintf("used_memory:%d", st.UsedMemory),
		fmt.Sprintf("discarded_values:%d", s.discarded),
	}
	return strings.Join(lines, "\n"), nil
}

func helpCommand(s *Session, _ []string) (string, error) {
	return renderHelp(s.width), nil
}

func clearCommand(*Session, []string) (string, error) {
	return "", nil
}

func quitCommand(*Session, []string) (string, error) {
	return "", ErrQuit
}

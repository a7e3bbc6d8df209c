package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fzft/go-dict/db"
	"go.uber.org/zap"
)

// ErrQuit is returned by Exec when the session was asked to end.
var ErrQuit = errors.New("quit")

var errInvalidArgs = errors.New("invalid argument(s)")

// maxRepeat bounds the leading repeat count of a command line.
const maxRepeat = 1 << 16

// Session is one client of a string-valued dictionary.
type Session struct {
	dict   *db.Dict
	logger *zap.Logger
	width  int

	discarded int
}

// NewSession creates a session over an empty dictionary bounded by maxMemory
// bytes (0 = unbounded).
func NewSession(logger *zap.Logger, maxMemory int64) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{logger: logger, width: defaultTermWidth}
	dict, err := db.NewDict(s.discard, db.WithLogger(logger), db.WithMaxMemory(maxMemory))
	if err != nil {
		return nil, fmt.Errorf("create dictionary: %w", err)
	}
	s.dict = dict
	return s, nil
}

func (s *Session) discard(value any) {
	s.discarded++
	s.logger.Debug("value discarded", zap.Any("value", value))
}

// Close releases the dictionary and every value still in it.
func (s *Session) Close() {
	s.dict.Release()
	s.logger.Debug("session closed", zap.Int("discarded", s.discarded))
}

// Exec runs one command line and returns its reply.
func (s *Session) Exec(line string) (string, error) {
	argv, err := splitArgs(line)
	if err != nil {
		return "", err
	}
	return s.ExecArgs(argv)
}

// ExecArgs runs an already split command. A leading positive integer repeats
// the command that many times.
func (s *Session) ExecArgs(argv []string) (string, error) {
	if len(argv) == 0 {
		return "", nil
	}

	repeat := 1
	if n, err := strconv.Atoi(argv[0]); err == nil && len(argv) > 1 {
		if n <= 0 || n > maxRepeat {
			return "", fmt.Errorf("invalid repeat count, must be between 1 and %d", maxRepeat)
		}
		repeat = n
		argv = argv[1:]
	}

	c := lookupCommand(argv[0])
	if c == nil {
		return "", fmt.Errorf("unknown command '%s'", argv[0])
	}
	if c.arity != len(argv) {
		return "", fmt.Errorf("wrong number of arguments for '%s' command", c.name)
	}

	var replies strings.Builder
	for i := 0; i < repeat; i++ {
		reply, err := c.proc(s, argv[1:])
		if err != nil {
			return replies.String(), err
		}
		if i > 0 {
			replies.WriteByte('\n')
		}
		replies.WriteString(reply)
	}
	return replies.String(), nil
}

// RunBatch executes every line of r, writing replies to w. Blank lines and
// lines starting with '#' are skipped. Failing lines do not stop the batch;
// their errors are returned together.
func (s *Session) RunBatch(r io.Reader, w io.Writer) error {
	var errs error
	lineNo := 0
	err := forEachLine(r, func(line string) bool {
		lineNo++
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			return true
		}
		reply, err := s.Exec(trimmed)
		if errors.Is(err, ErrQuit) {
			return false
		}
		writeReply(w, reply, err)
		if err != nil {
			errs = appendLineErr(errs, lineNo, err)
		}
		return true
	})
	if err != nil {
		return err
	}
	return errs
}

func writeReply(w io.Writer, reply string, err error) {
	if reply != "" {
		fmt.Fprintln(w, reply)
	}
	if err != nil {
		fmt.Fprintf(w, "(error) ERR %v\n", err)
	}
}

// splitArgs splits a line on whitespace. Double quoted arguments may hold
// spaces and the escapes \" and \\; "" is an empty argument.
func splitArgs(line string) ([]string, error) {
	var (
		argv    []string
		cur     strings.Builder
		inArg   bool
		inQuote bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inQuote:
			switch c {
			case '\\':
				if i+1 < len(line) && (line[i+1] == '"' || line[i+1] == '\\') {
					i++
					cur.WriteByte(line[i])
				} else {
					cur.WriteByte(c)
				}
			case '"':
				inQuote = false
				// a closing quote must end the argument
				if i+1 < len(line) && !isSpace(line[i+1]) {
					return nil, errInvalidArgs
				}
			default:
				cur.WriteByte(c)
			}
		case isSpace(c):
			if inArg {
				argv = append(argv, cur.String())
				cur.Reset()
				inArg = false
			}
		case c == '"' && !inArg:
			inArg = true
			inQuote = true
		default:
			inArg = true
			cur.WriteByte(c)
		}
	}
	if inQuote {
		return nil, errInvalidArgs
	}
	if inArg {
		argv = append(argv, cur.String())
	}
	return argv, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

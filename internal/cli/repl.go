package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/htable/pkg/htable"
)

const replPrompt = "htable> "

var errUsage = errors.New("usage")

var replCommands = []string{
	"insert", "put", "get", "erase", "del", "delete",
	"clear", "print", "ls", "slots", "len", "cap", "home",
	"save", "help", "exit", "quit", "q",
}

// ReplCmd returns the repl command.
func ReplCmd(cfg *Config, workDir string, logger logrus.FieldLogger, in io.Reader) *Command {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.IntP("capacity", "n", cfg.CapacityOrDefault(), "Table capacity (slots)")

	return &Command{
		Flags: fs,
		Usage: "repl [flags]",
		Short: "Interactive table session",
		Long: `Start an interactive session on an empty string-valued table.
Type 'help' at the prompt for the list of commands. An interrupt or
termination signal ends the session even while waiting for input.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			capacity, _ := fs.GetInt("capacity")

			return execRepl(ctx, o, cfg, workDir, logger, in, capacity)
		},
	}
}

func execRepl(
	ctx context.Context, o *IO, cfg *Config, workDir string, logger logrus.FieldLogger, in io.Reader, capacity int,
) error {
	opts, err := cfg.TableOptions()
	if err != nil {
		return err
	}

	table, err := htable.New[string](capacity, append(opts, htable.WithLogger(logger))...)
	if err != nil {
		return err
	}

	reader := newLineReader(in, resolvePath(workDir, cfg.HistoryFile), o)
	defer reader.Close()

	session := &replSession{table: table, o: o, workDir: workDir, logger: logger}

	for {
		line, err := promptContext(ctx, reader)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		reader.AppendHistory(line)

		if session.exec(line) {
			return nil
		}
	}
}

type promptResult struct {
	line string
	err  error
}

// promptContext waits for the next line or for ctx to be done, whichever
// comes first. On cancellation the pending read is abandoned.
func promptContext(ctx context.Context, r lineReader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ch := make(chan promptResult, 1)

	go func() {
		line, err := r.Prompt(replPrompt)
		ch <- promptResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		return res.line, res.err
	}
}

// lineReader abstracts liner so scripted input works without a terminal.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

func newLineReader(in io.Reader, historyPath string, o *IO) lineReader {
	if f, ok := in.(*os.File); ok && f == os.Stdin && liner.TerminalSupported() {
		return newLinerReader(historyPath, o)
	}

	if in == nil {
		in = strings.NewReader("")
	}

	return &scanReader{scanner: bufio.NewScanner(in)}
}

type scanReader struct {
	scanner *bufio.Scanner
}

func (r *scanReader) Prompt(string) (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}

	if err := r.scanner.Err(); err != nil {
		return "", err
	}

	return "", io.EOF
}

func (r *scanReader) AppendHistory(string) {}

func (r *scanReader) Close() error { return nil }

type linerReader struct {
	*liner.State

	historyPath string
	o           *IO
}

func newLinerReader(historyPath string, o *IO) *linerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetCompleter(completeCommand)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = state.ReadHistory(f)
			_ = f.Close()
		}
	}

	return &linerReader{State: state, historyPath: historyPath, o: o}
}

// Close saves history and restores the terminal.
func (r *linerReader) Close() error {
	if r.historyPath != "" {
		var buf strings.Builder

		_, _ = r.WriteHistory(&buf)

		if err := writeFileAtomic(r.historyPath, buf.String(), historyPerms); err != nil {
			r.o.Warn("could not save history", err.Error())
		}
	}

	return r.State.Close()
}

func completeCommand(line string) []string {
	var completions []string

	lower := strings.ToLower(line)
	for _, cmd := range replCommands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}

	return completions
}

type replSession struct {
	table   *htable.Table[string]
	o       *IO
	workDir string
	logger  logrus.FieldLogger
}

// exec runs one REPL line. Returns true when the session should end.
func (s *replSession) exec(line string) bool {
	parts := strings.Fields(line)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error

	switch cmd {
	case "exit", "quit", "q":
		return true
	case "help", "?":
		s.printHelp()
	case "insert", "put":
		err = s.cmdInsert(args)
	case "get":
		err = s.cmdGet(args)
	case "erase", "del", "delete":
		err = s.cmdErase(args)
	case "clear":
		s.table.Clear()
		s.o.Println("ok")
	case "print", "ls":
		if out := s.table.String(); out != "" {
			s.o.Println(out)
		}
	case "slots":
		s.cmdSlots()
	case "len":
		s.o.Println(s.table.Len())
	case "cap":
		s.o.Println(s.table.Cap())
	case "home":
		err = s.cmdHome(args)
	case "save":
		err = s.cmdSave(args)
	default:
		s.o.Printf("unknown command: %s (type 'help' for commands)\n", cmd)
	}

	if err != nil {
		s.o.Println("error:", err)
	}

	return false
}

func (s *replSession) cmdInsert(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: insert <key> <value>", errUsage)
	}

	collided, err := s.table.Insert(args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}

	if collided {
		s.o.Println("ok (collision)")
	} else {
		s.o.Println("ok")
	}

	return nil
}

func (s *replSession) cmdGet(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: get <key>", errUsage)
	}

	value, err := s.table.Get(args[0])
	if err != nil {
		return err
	}

	s.o.Println(value)

	return nil
}

func (s *replSession) cmdErase(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: erase <key>", errUsage)
	}

	if err := s.table.Erase(args[0]); err != nil {
		return err
	}

	s.o.Println("ok")

	return nil
}

func (s *replSession) cmdHome(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: home <key>", errUsage)
	}

	home, err := s.table.Home(args[0])
	if err != nil {
		return err
	}

	s.o.Println(home)

	return nil
}

func (s *replSession) cmdSlots() {
	for _, slot := range s.table.Slots() {
		s.o.Printf("%d\t%s\t%s\t%s\n", slot.Index, slot.State, slot.Key, slot.Value)
	}
}

func (s *replSession) cmdSave(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: save <path>", errUsage)
	}

	path := resolvePath(s.workDir, args[0])

	content := s.table.String()
	if content != "" {
		content += "\n"
	}

	if err := writeFileAtomic(path, content, outputPerms); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	s.logger.WithField("path", path).Debug("table saved")
	s.o.Println("saved", path)

	return nil
}

func (s *replSession) printHelp() {
	s.o.Println(`Commands:
  insert <key> <value>   Store value under key (alias: put)
  get <key>              Print the value stored under key
  erase <key>            Remove key (aliases: del, delete)
  clear                  Empty every slot
  print                  Show every slot as (key, value) (alias: ls)
  slots                  Show index, state, key and value per slot
  len                    Count occupied slots
  cap                    Show capacity
  home <key>             Show the slot key hashes to
  save <path>            Write the print output to path atomically
  help                   Show this help
  exit / quit / q        Exit`)
}

func resolvePath(workDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(workDir, path)
}

package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/htable/pkg/htable"
)

const demoCapacity = 7

type groceryItem struct {
	name string
	qty  int
}

var groceries = []groceryItem{
	{"egg", 1},
	{"bread", 2},
	{"milk", 3},
	{"flour", 4},
	{"sugar", 5},
	{"chocolate", 6},
	{"cream", 7},
}

// DemoCmd returns the demo command.
func DemoCmd(cfg *Config, workDir string, logger logrus.FieldLogger) *Command {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	fs.IntP("capacity", "n", demoCapacity, "Table capacity (slots)")
	fs.StringP("out", "o", "", "Also write the transcript to `file` (atomic replace)")

	return &Command{
		Flags: fs,
		Usage: "demo [flags]",
		Short: "Run the shopping-list scenario",
		Long: `Fill a shopping list table, overflow it, look up, erase and clear it,
printing the table after every step. Hash and duplicate policy come from the
configuration. The capacity does not: the scenario is written for 7 slots,
so use --capacity to change it.`,
		Exec: func(_ context.Context, io *IO, _ []string) error {
			capacity, _ := fs.GetInt("capacity")
			out, _ := fs.GetString("out")

			return execDemo(io, cfg, workDir, logger, capacity, out)
		},
	}
}

func execDemo(io *IO, cfg *Config, workDir string, logger logrus.FieldLogger, capacity int, outPath string) error {
	opts, err := cfg.TableOptions()
	if err != nil {
		return err
	}

	opts = append(opts, htable.WithLogger(logger))

	transcript, err := runDemo(capacity, opts)
	if err != nil {
		return err
	}

	io.Printf("%s", transcript)

	if outPath == "" {
		return nil
	}

	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(workDir, outPath)
	}

	if err := writeFileAtomic(outPath, transcript, outputPerms); err != nil {
		return fmt.Errorf("writing transcript: %w", err)
	}

	logger.WithField("path", outPath).Debug("transcript written")

	return nil
}

// runDemo returns the transcript of the scenario. Table errors are part of
// the transcript; only construction errors are returned.
func runDemo(capacity int, opts []htable.Option) (string, error) {
	var b strings.Builder

	section := func(title string) {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}

		fmt.Fprintf(&b, "# %s\n", title)
	}

	render := func(table *htable.Table[int]) {
		if s := table.String(); s != "" {
			b.WriteString(s)
			b.WriteByte('\n')
		}
	}

	list, err := htable.New[int](capacity, opts...)
	if err != nil {
		return "", err
	}

	section(fmt.Sprintf("create (capacity %d)", capacity))
	render(list)

	section("insert")

	for _, item := range groceries {
		collided, err := list.Insert(item.name, item.qty)
		if err != nil {
			fmt.Fprintf(&b, "error: %v\n", err)

			continue
		}

		fmt.Fprintf(&b, "%s=%d collided=%t\n", item.name, item.qty, collided)
	}

	render(list)

	section("insert banana")

	if _, err := list.Insert("banana", 8); err != nil {
		fmt.Fprintf(&b, "error: %v\n", err)
	} else {
		b.WriteString("banana=8 stored\n")
	}

	section("get")

	for _, name := range []string{"milk", "banana"} {
		qty, err := list.Get(name)
		if err != nil {
			fmt.Fprintf(&b, "error: %v\n", err)

			continue
		}

		fmt.Fprintf(&b, "%s: %d\n", name, qty)
	}

	section("erase milk")

	if err := list.Erase("milk"); err != nil {
		fmt.Fprintf(&b, "error: %v\n", err)
	}

	render(list)

	section("erase milk again")

	if err := list.Erase("milk"); err != nil {
		fmt.Fprintf(&b, "error: %v\n", err)
	}

	section("clear")
	list.Clear()
	render(list)

	section("clear zero-capacity table")

	empty, err := htable.New[int](0, opts...)
	if err != nil {
		return "", err
	}

	empty.Clear()
	fmt.Fprintf(&b, "len=%d cap=%d\n", empty.Len(), empty.Cap())

	return b.String(), nil
}

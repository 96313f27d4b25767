package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/example/rasterpad/internal/canvas"
	"github.com/example/rasterpad/internal/menu"
	"github.com/example/rasterpad/internal/palette"
)

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// interactiveCmd holds one canvas for the whole session and routes typed
// commands through the menus.
type interactiveCmd struct {
	r      *root
	fs     *flag.FlagSet
	execs  commandList
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	editor *menu.Editor
	ui     *termPresenter
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	i := &interactiveCmd{r: r, fs: fs, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	fs.Usage = usageFunc(i)
	fs.Var(&i.execs, "e", "execute interactive command in immediate mode (may be specified multiple times)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return i, nil
}

func (i *interactiveCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func (i *interactiveCmd) Program() string {
	if i.r == nil {
		return "rasterpad"
	}
	return i.r.Program()
}

func (i *interactiveCmd) session() *root {
	if i.r == nil {
		i.r = &root{program: "rasterpad"}
	}
	return i.r
}

// start creates the session canvas and the editor bound to it.
func (i *interactiveCmd) start(in *bufio.Scanner) error {
	r := i.session()
	opts, err := r.editorOptions()
	if err != nil {
		return err
	}
	if dir := r.settings().SaveDir; dir != "" {
		opts = append(opts, menu.WithSaveDir(dir))
	}
	i.ui = &termPresenter{in: in, out: i.stdout, errOut: i.stderr, colors: r.colors()}
	i.editor = menu.New(canvas.New(r.settings().SurfaceOptions()...), i.ui, opts...)
	return nil
}

func (i *interactiveCmd) Run() error {
	scanner := bufio.NewScanner(i.stdin)
	if err := i.start(scanner); err != nil {
		return err
	}
	if len(i.execs) > 0 {
		for _, cmd := range i.execs {
			done, err := i.executeLine(cmd)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	fmt.Fprintln(i.stdout, "Enter commands (type 'exit' to quit)")
	for {
		fmt.Fprint(i.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := i.executeLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(i.stderr, err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}

// executeLine runs one typed command. done reports a request to leave the
// session.
func (i *interactiveCmd) executeLine(line string) (done bool, err error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false, nil
	}
	name := strings.ToLower(args[0])
	rest := args[1:]
	i.ui.setArgs(rest)
	defer i.redraw()

	switch name {
	case "exit", "quit":
		return true, nil
	case "help":
		fmt.Fprint(i.stdout, (&UsageError{of: i}).Error())
		return false, nil
	case "menu":
		return false, i.menu(rest)
	case "info":
		i.info()
		return false, nil
	case "line":
		pts, err := parsePoints(rest)
		if err != nil {
			return false, err
		}
		return false, i.editor.Draw(pts)
	}
	if err := i.editor.Dispatch(name); err != nil {
		return false, err
	}
	return false, i.ui.lastErr
}

// menu lists the menu bar, or runs an item by its two mnemonics.
func (i *interactiveCmd) menu(args []string) error {
	if len(args) == 2 {
		return i.editor.Accelerate(firstRune(args[0]), firstRune(args[1]))
	}
	if len(args) != 0 {
		return fmt.Errorf("menu takes no arguments or two mnemonics")
	}
	for _, m := range i.editor.Menus() {
		fmt.Fprintf(i.stdout, "%s (%c)\n", m.Name, m.Mnemonic)
		for _, it := range m.Items {
			if it.Separator() {
				fmt.Fprintln(i.stdout, "  ----")
				continue
			}
			fmt.Fprintf(i.stdout, "  %s (%c)\n", it.Name, it.Mnemonic)
		}
	}
	return nil
}

func (i *interactiveCmd) info() {
	s := i.editor.Surface()
	b := s.Bounds()
	st := s.ActiveStroke()
	fmt.Fprintf(i.stdout, "canvas %dx%d brush %s width %s\n",
		b.Dx(), b.Dy(), palette.Hex(s.ActiveColor()), strconv.FormatFloat(st.Width, 'g', -1, 64))
}

// redraw reports a changed canvas once per command.
func (i *interactiveCmd) redraw() {
	if !i.editor.Dirty() {
		return
	}
	b := i.editor.Surface().Bounds()
	fmt.Fprintf(i.stdout, "canvas %dx%d updated\n", b.Dx(), b.Dy())
	i.editor.MarkClean()
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

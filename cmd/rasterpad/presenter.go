package main

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/example/rasterpad/internal/choice"
	"github.com/example/rasterpad/internal/menu"
	"github.com/example/rasterpad/internal/palette"
)

// scriptPresenter answers every picker from values fixed up front. An empty
// path or nil color answers "cancelled". Info notices are dropped and the
// first error notice is kept so one-shot commands can fail with it.
type scriptPresenter struct {
	openPath string
	savePath string
	color    *color.NRGBA
	width    float64
	err      error
}

func (p *scriptPresenter) ChooseOpenPath() choice.Choice[string] {
	return pathChoice(p.openPath)
}

func (p *scriptPresenter) ChooseSavePath() choice.Choice[string] {
	return pathChoice(p.savePath)
}

func (p *scriptPresenter) ChooseColor(string, color.Color) choice.Choice[color.Color] {
	if p.color == nil {
		return choice.Cancelled[color.Color]()
	}
	return choice.Chosen[color.Color](*p.color)
}

func (p *scriptPresenter) ChooseWidth(float64) choice.Choice[float64] {
	if p.width <= 0 {
		return choice.Cancelled[float64]()
	}
	return choice.Chosen(p.width)
}

func (p *scriptPresenter) Show(n menu.Notice) {
	if n.Kind == menu.NoticeError && p.err == nil {
		p.err = noticeError(n)
	}
}

func pathChoice(path string) choice.Choice[string] {
	if strings.TrimSpace(path) == "" {
		return choice.Cancelled[string]()
	}
	return choice.Chosen(path)
}

func noticeError(n menu.Notice) error {
	if n.Err == nil {
		return errors.New(n.Message)
	}
	return fmt.Errorf("%s %w", n.Message, n.Err)
}

// termPresenter is the dialog layer of the interactive session. Pickers take
// their answer from the arguments typed after the command; when there are none
// they prompt, and an empty answer cancels. Error notices are kept in lastErr
// for the session to report.
type termPresenter struct {
	in      *bufio.Scanner
	out     io.Writer
	errOut  io.Writer
	colors  *palette.Palette
	args    []string
	lastErr error
}

// setArgs supplies the arguments typed after the current command.
func (p *termPresenter) setArgs(args []string) {
	p.args = args
	p.lastErr = nil
}

func (p *termPresenter) answer(prompt string) string {
	if len(p.args) > 0 {
		a := strings.Join(p.args, " ")
		p.args = nil
		return strings.TrimSpace(a)
	}
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		return ""
	}
	return strings.TrimSpace(p.in.Text())
}

func (p *termPresenter) ChooseOpenPath() choice.Choice[string] {
	return pathChoice(p.answer("open file (empty to cancel): "))
}

func (p *termPresenter) ChooseSavePath() choice.Choice[string] {
	return pathChoice(p.answer("save as (empty to cancel): "))
}

func (p *termPresenter) ChooseColor(title string, seed color.Color) choice.Choice[color.Color] {
	spec := p.answer(fmt.Sprintf("%s [%s] (\"-\" to cancel): ", title, palette.Hex(seed)))
	switch spec {
	case "-":
		return choice.Cancelled[color.Color]()
	case "":
		return choice.Chosen(seed)
	}
	c, err := p.colors.Resolve(spec)
	if err != nil {
		fmt.Fprintln(p.errOut, err)
		return choice.Cancelled[color.Color]()
	}
	return choice.Chosen[color.Color](c)
}

func (p *termPresenter) ChooseWidth(current float64) choice.Choice[float64] {
	s := p.answer(fmt.Sprintf("stroke width [%g] (empty to cancel): ", current))
	if s == "" {
		return choice.Cancelled[float64]()
	}
	w, err := strconv.ParseFloat(s, 64)
	if err != nil {
		fmt.Fprintf(p.errOut, "invalid width %q\n", s)
		return choice.Cancelled[float64]()
	}
	return choice.Chosen(w)
}

func (p *termPresenter) Show(n menu.Notice) {
	if n.Kind == menu.NoticeError {
		p.lastErr = noticeError(n)
		return
	}
	fmt.Fprintln(p.out, n.Message)
}

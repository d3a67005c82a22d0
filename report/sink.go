package report

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/gfscan/gfscan/scan"
	"github.com/gfscan/gfscan/session"
	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"
)

const DefaultLogPath = "gfscan_outfile.txt"

// Sink consumes session events.
type Sink interface {
	Handle(e session.Event)
}

type Multi []Sink

func (m Multi) Handle(e session.Event) {
	for _, s := range m {
		s.Handle(e)
	}
}

// Drain feeds every event to sink until the stream closes.
func Drain(events <-chan session.Event, sink Sink) {
	for e := range events {
		sink.Handle(e)
	}
}

// LogFile writes the flat scan log. Each line is flushed as it arrives so the
// file reflects progress during long scans.
type LogFile struct {
	w      *bufio.Writer
	closer io.Closer
}

func NewLogFile(w io.Writer) *LogFile {
	l := &LogFile{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		l.closer = c
	}
	return l
}

// OpenLogFile truncates path and returns a LogFile writing to it.
func OpenLogFile(path string) (*LogFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return NewLogFile(f), nil
}

func (l *LogFile) Handle(e session.Event) {
	for _, line := range Lines(e) {
		l.WriteLine(line)
	}
}

func (l *LogFile) WriteLine(line string) {
	if _, err := l.w.WriteString(line + "\n"); err != nil {
		log.Errorf("Failed writing scan log: %s", err)
		return
	}
	if err := l.w.Flush(); err != nil {
		log.Errorf("Failed writing scan log: %s", err)
	}
}

func (l *LogFile) Close() error {
	if err := l.w.Flush(); err != nil {
		return err
	}
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// Console prints events the way the interactive scanner always has: every
// log line, with open ports highlighted and annotated with a service name.
type Console struct {
	Out        io.Writer
	Status     io.Writer
	ShowStatus bool
	OnlyOpen   bool
}

func NewConsole() *Console {
	return &Console{Out: color.Output, Status: color.Error}
}

func (c *Console) Handle(e session.Event) {
	switch e.Kind {
	case session.StatusUpdate:
		if c.ShowStatus && e.Progress == nil {
			fmt.Fprintln(c.Status, color.CyanString("%s", e.Text))
		}
		return
	case session.PortResult:
		if c.OnlyOpen && !e.Result.IsOpen() {
			return
		}
		if e.Result.IsOpen() {
			fmt.Fprintln(c.Out, color.GreenString("%s", withService(e.Result)))
			return
		}
	case session.Error:
		fmt.Fprintln(c.Out, color.RedString("%s", e.Text))
		return
	}
	for _, line := range Lines(e) {
		fmt.Fprintln(c.Out, line)
	}
}

func withService(r scan.PortResult) string {
	if service := scan.DescribePort(r.Port); service != "" {
		return fmt.Sprintf("%s  (%s)", r, service)
	}
	return r.String()
}

// Progress renders a progress bar and prints only open ports above it.
type Progress struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func NewProgress(out io.Writer) *Progress {
	return &Progress{out: out}
}

func (p *Progress) Handle(e session.Event) {
	switch e.Kind {
	case session.Banner:
		fmt.Fprintln(p.out, e.Text)
	case session.PortResult:
		if e.Result.IsOpen() {
			if p.bar != nil {
				_ = p.bar.Clear()
			}
			fmt.Fprintln(p.out, color.GreenString("%s", withService(e.Result)))
		}
	case session.StatusUpdate:
		if e.Progress == nil {
			return
		}
		if p.bar == nil {
			p.bar = progressbar.NewOptions(e.Progress.Total,
				progressbar.OptionSetWriter(p.out),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(30),
				progressbar.OptionSetDescription("[cyan]Scanning[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
			)
		}
		_ = p.bar.Set(e.Progress.Done)
	case session.Error:
		fmt.Fprintln(p.out, color.RedString("%s", e.Text))
	case session.SummaryComplete:
		if p.bar != nil {
			_ = p.bar.Finish()
			fmt.Fprintln(p.out)
		}
		for _, line := range Lines(e) {
			fmt.Fprintln(p.out, line)
		}
	}
}

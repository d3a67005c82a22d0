package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/gfscan/gfscan/scan"
	"github.com/gfscan/gfscan/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

var (
	started = time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
	ended   = started.Add(65*time.Second + 250*time.Millisecond)
)

func completedRun() []session.Event {
	return []session.Event{
		{Kind: session.StatusUpdate, Text: "Resolving host..."},
		{Kind: session.StatusUpdate, Text: "Scanning underway..."},
		{Kind: session.Banner, Text: "Please wait, scanning remote host: localhost IP: 127.0.0.1"},
		{Kind: session.Banner, Text: "Scan Start time: " + FormatTime(started), Start: started},
		{Kind: session.PortResult, Result: scan.PortResult{Port: 21, State: scan.PortClosed}},
		{Kind: session.StatusUpdate, Text: "Scanned 1 of 2 ports", Progress: &session.Progress{Done: 1, Total: 2}},
		{Kind: session.PortResult, Result: scan.PortResult{Port: 22, State: scan.PortOpen}},
		{Kind: session.StatusUpdate, Text: "Scanned 2 of 2 ports", Progress: &session.Progress{Done: 2, Total: 2}},
		{Kind: session.StatusUpdate, Text: "Scan Complete"},
		{Kind: session.SummaryComplete, Start: started, End: ended, Elapsed: ended.Sub(started)},
	}
}

const expectedLog = `============================================================
Please wait, scanning remote host: localhost IP: 127.0.0.1
============================================================
============================================================
Scan Start time: 03/09/2024 14:05:07
============================================================
Port: 21  Is Closed
Port: 22  Is Open
============================================================
Scanning Complete at : 03/09/2024 14:06:12
Elapsed Scan Time: 0:01:05.250000
============================================================
`

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "0:00:00", FormatElapsed(0))
	assert.Equal(t, "0:00:05", FormatElapsed(5*time.Second))
	assert.Equal(t, "0:00:05.000001", FormatElapsed(5*time.Second+time.Microsecond))
	assert.Equal(t, "1:02:03.400000", FormatElapsed(time.Hour+2*time.Minute+3*time.Second+400*time.Millisecond))
	assert.Equal(t, "1 day, 0:00:01", FormatElapsed(24*time.Hour+time.Second))
	assert.Equal(t, "2 days, 3:00:00", FormatElapsed(51*time.Hour))
}

func TestLogFileFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewLogFile(buf)
	for _, e := range completedRun() {
		l.Handle(e)
	}
	require.Nil(t, l.Close())
	assert.Equal(t, expectedLog, buf.String())
}

func TestLogFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.Nil(t, os.WriteFile(path, []byte("previous run\n"), 0o644))

	l, err := OpenLogFile(path)
	require.Nil(t, err)
	l.Handle(session.Event{Kind: session.Error, ErrorKind: session.ErrorInvalidInput, Text: "You entered a blank server name"})
	require.Nil(t, l.Close())

	data, err := os.ReadFile(path)
	require.Nil(t, err)
	assert.Equal(t, "You entered a blank server name\n", string(data))
}

func TestConsole(t *testing.T) {
	out := &bytes.Buffer{}
	status := &bytes.Buffer{}
	c := &Console{Out: out, Status: status, ShowStatus: true}

	Drain(feed(completedRun()), c)

	assert.Contains(t, out.String(), "Port: 21  Is Closed\n")
	assert.Contains(t, out.String(), "Port: 22  Is Open  (ssh)\n")
	assert.Contains(t, out.String(), "Elapsed Scan Time: 0:01:05.250000\n")
	assert.Contains(t, status.String(), "Scanning underway...\n")
	assert.NotContains(t, status.String(), "Scanned 1 of 2 ports")
}

func TestConsoleOnlyOpen(t *testing.T) {
	out := &bytes.Buffer{}
	c := &Console{Out: out, Status: &bytes.Buffer{}, OnlyOpen: true}

	Drain(feed(completedRun()), c)

	assert.NotContains(t, out.String(), "Is Closed")
	assert.Contains(t, out.String(), "Port: 22  Is Open")
}

func TestMultiAndProgress(t *testing.T) {
	logBuf := &bytes.Buffer{}
	progressBuf := &bytes.Buffer{}
	l := NewLogFile(logBuf)

	Drain(feed(completedRun()), Multi{l, NewProgress(progressBuf)})

	assert.Equal(t, expectedLog, logBuf.String())
	assert.Contains(t, progressBuf.String(), "Port: 22  Is Open  (ssh)")
	assert.NotContains(t, progressBuf.String(), "Is Closed")
	assert.Contains(t, progressBuf.String(), "Scanning Complete at : 03/09/2024 14:06:12")
}

func feed(events []session.Event) <-chan session.Event {
	ch := make(chan session.Event)
	go func() {
		defer close(ch)
		for _, e := range events {
			ch <- e
		}
	}()
	return ch
}

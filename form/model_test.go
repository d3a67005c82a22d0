package form

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gfscan/gfscan/report"
	"github.com/gfscan/gfscan/scan"
	"github.com/gfscan/gfscan/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(ports []int) session.Config {
	return session.Config{
		Ports:        ports,
		ProbeTimeout: time.Second,
		Resolver: &scan.Resolver{Lookup: func(ctx context.Context, host string) ([]net.IP, error) {
			return []net.IP{net.ParseIP("127.0.0.1")}, nil
		}},
		Prober:  scan.SkipProber{},
		Scanner: scan.NewConnectScanner(time.Second, 4),
	}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func typeHost(t *testing.T, m Model, host string) Model {
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(host)})
}

func pump(t *testing.T, m Model) Model {
	for m.Running() {
		m = update(t, m, waitForEvent(m.events)())
	}
	return m
}

func TestBlankHost(t *testing.T) {
	m := New(context.Background(), testConfig([]int{1}), nil)
	m = typeHost(t, m, "   ")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.Running())

	m = pump(t, m)
	assert.Contains(t, m.Status(), "You entered a blank server name")
	assert.Equal(t, []string{"You entered a blank server name"}, m.Lines())
}

func TestScanWritesLogAndPane(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.Nil(t, err)
	defer l.Close()
	port := l.Addr().(*net.TCPAddr).Port

	buf := &bytes.Buffer{}
	m := New(context.Background(), testConfig([]int{port}), func() (*report.LogFile, error) {
		return report.NewLogFile(buf), nil
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = typeHost(t, m, "localhost")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = pump(t, m)

	assert.Equal(t, "Scan Complete", m.Status())
	assert.Contains(t, buf.String(), "Please wait, scanning remote host: localhost IP: 127.0.0.1")
	assert.Contains(t, buf.String(), "Is Open")
	assert.Contains(t, buf.String(), "Elapsed Scan Time: ")
	assert.Contains(t, strings.Join(m.Lines(), "\n"), "Is Open")
	assert.Contains(t, m.View(), "Port Scanner")
}

func TestEscStopsScan(t *testing.T) {
	m := New(context.Background(), testConfig(scan.PortRange(1, 1025)), nil)
	m = typeHost(t, m, "127.0.0.1")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = pump(t, m)

	assert.False(t, m.Running())
	assert.Equal(t, "Scan cancelled", m.Status())
	assert.NotContains(t, strings.Join(m.Lines(), "\n"), "Scanning Complete")
}

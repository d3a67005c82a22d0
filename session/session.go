package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gfscan/gfscan/scan"
	log "github.com/sirupsen/logrus"
)

var (
	ErrHostUnresponsive = errors.New("host is not responding")
	ErrAlreadyRun       = errors.New("session has already been run")
)

const DateFormat = "01/02/2006 15:04:05"

type State uint8

const (
	Idle State = iota
	Resolving
	Probing
	Scanning
	Complete
	Failed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Resolving:
		return "resolving"
	case Probing:
		return "probing"
	case Scanning:
		return "scanning"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

func (s State) Terminal() bool {
	return s == Complete || s == Failed || s == Cancelled
}

type Config struct {
	Ports        []int
	ProbeTimeout time.Duration
	Resolver     *scan.Resolver
	Prober       scan.Prober
	Scanner      scan.Scanner
	Neighbours   scan.NeighbourLookup
	Now          func() time.Time
}

// DefaultConfig scans 1-1025 with the connect scanner and the automatic prober.
func DefaultConfig() Config {
	return Config{
		Ports:        scan.DefaultPorts(),
		ProbeTimeout: scan.DefaultProbeTimeout,
		Resolver:     scan.NewResolver(),
		Prober:       scan.NewAutoProber(),
		Scanner:      scan.NewConnectScanner(scan.DefaultTimeout, scan.DefaultWorkers),
		Neighbours:   scan.LookupNeighbour,
		Now:          time.Now,
	}
}

// Session is a single scan run. It is not reusable: once Run has reached a
// terminal state a new Session is required.
type Session struct {
	cfg      Config
	hostname string

	mu      sync.Mutex
	state   State
	target  scan.Target
	start   time.Time
	end     time.Time
	results []scan.PortResult
	err     error
	used    bool
	cancel  context.CancelFunc
	stopped bool
}

func New(cfg Config, hostname string) *Session {
	defaults := DefaultConfig()
	if cfg.Ports == nil {
		cfg.Ports = defaults.Ports
	} else {
		ports := scan.NormalizePorts(cfg.Ports)
		if len(ports) != len(cfg.Ports) {
			log.Debugf("Dropped %d duplicate or out of range ports", len(cfg.Ports)-len(ports))
		}
		cfg.Ports = ports
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = defaults.ProbeTimeout
	}
	if cfg.Resolver == nil {
		cfg.Resolver = defaults.Resolver
	}
	if cfg.Prober == nil {
		cfg.Prober = defaults.Prober
	}
	if cfg.Scanner == nil {
		cfg.Scanner = defaults.Scanner
	}
	if cfg.Now == nil {
		cfg.Now = defaults.Now
	}
	return &Session{cfg: cfg, hostname: hostname}
}

// Run drives the session to a terminal state, streaming events on the
// returned channel. The channel is closed once the session is terminal and
// must be drained by the caller.
func (s *Session) Run(ctx context.Context) <-chan Event {
	events := make(chan Event)

	s.mu.Lock()
	if s.used {
		s.mu.Unlock()
		go func() {
			events <- Event{Kind: Error, ErrorKind: ErrorSessionUsed, Err: ErrAlreadyRun, Text: ErrAlreadyRun.Error()}
			close(events)
		}()
		return events
	}
	s.used = true
	ctx, s.cancel = context.WithCancel(ctx)
	if s.stopped {
		s.cancel()
	}
	s.mu.Unlock()

	go func() {
		defer close(events)
		defer s.cancel()
		s.run(ctx, events)
	}()

	return events
}

// Stop halts dispatch of further ports. Results already collected are still
// delivered and no summary is emitted.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Session) run(ctx context.Context, events chan<- Event) {

	emit := func(e Event) {
		events <- e
	}
	status := func(text string) {
		emit(Event{Kind: StatusUpdate, Text: text})
	}

	s.setState(Resolving)
	status("Resolving host...")

	target, err := s.cfg.Resolver.Resolve(ctx, s.hostname)
	if err != nil {
		if ctx.Err() != nil {
			s.setState(Cancelled)
			status("Scan cancelled")
			return
		}
		s.fail(emit, err)
		return
	}
	s.mu.Lock()
	s.target = target
	s.mu.Unlock()
	log.Debugf("Resolved %s to %s", target.Hostname, target.Address)

	s.setState(Probing)
	status("Check that host responds....")

	if s.cfg.Prober.Probe(ctx, target.Address, s.cfg.ProbeTimeout) != scan.Alive {
		if ctx.Err() != nil {
			s.setState(Cancelled)
			status("Scan cancelled")
			return
		}
		s.fail(emit, fmt.Errorf("%w: %s", ErrHostUnresponsive, target.Address))
		return
	}

	if s.cfg.Neighbours != nil {
		if n, ok := s.cfg.Neighbours(target.Address); ok {
			status(n.String())
		}
	}

	s.setState(Scanning)
	status("Scanning underway...")
	emit(Event{Kind: Banner, Text: fmt.Sprintf("Please wait, scanning remote host: %s IP: %s", target.Hostname, target.Address)})

	start := s.cfg.Now()
	s.mu.Lock()
	s.start = start
	s.mu.Unlock()
	emit(Event{Kind: Banner, Text: "Scan Start time: " + start.Format(DateFormat), Start: start})

	total := len(s.cfg.Ports)
	done := 0
	for result := range s.cfg.Scanner.Scan(ctx, target.Address, s.cfg.Ports) {
		s.mu.Lock()
		s.results = append(s.results, result)
		s.mu.Unlock()
		done++
		emit(Event{Kind: PortResult, Result: result, Text: result.String()})
		emit(Event{Kind: StatusUpdate, Text: fmt.Sprintf("Scanned %d of %d ports", done, total), Progress: &Progress{Done: done, Total: total}})
	}

	end := s.cfg.Now()
	s.mu.Lock()
	s.end = end
	s.mu.Unlock()

	if done < total {
		log.Debugf("Scan of %s cancelled after %d of %d ports", target.Address, done, total)
		s.setState(Cancelled)
		status("Scan cancelled")
		return
	}

	s.setState(Complete)
	status("Scan Complete")
	emit(Event{Kind: SummaryComplete, Start: start, End: end, Elapsed: end.Sub(start)})
}

func (s *Session) fail(emit func(Event), err error) {
	kind, text := s.classify(err)
	s.mu.Lock()
	s.err = err
	s.state = Failed
	s.mu.Unlock()
	log.Debugf("Session for '%s' failed: %s", s.hostname, err)
	emit(Event{Kind: Error, ErrorKind: kind, Err: err, Text: text})
}

func (s *Session) classify(err error) (ErrorKind, string) {
	switch {
	case errors.Is(err, scan.ErrInvalidInput):
		return ErrorInvalidInput, "You entered a blank server name"
	case errors.Is(err, scan.ErrHostNotFound):
		return ErrorHostNotFound, fmt.Sprintf("The host named: %s could not be found", s.hostname)
	case errors.Is(err, ErrHostUnresponsive):
		return ErrorHostUnresponsive, fmt.Sprintf("Host IP : %s is not responding", s.Target().Address)
	}
	return ErrorNone, err.Error()
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Terminal() {
		return
	}
	s.state = state
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Target() scan.Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

// Results returns a copy of the results collected so far.
func (s *Session) Results() []scan.PortResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]scan.PortResult, len(s.results))
	copy(out, s.results)
	return out
}

func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Times returns the start and end of the scanning phase; zero until set.
func (s *Session) Times() (start, end time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.start, s.end
}

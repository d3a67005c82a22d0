package scan

import (
	"context"
	"net"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultTimeout = 5 * time.Second
	DefaultWorkers = 50
)

type portJob struct {
	index int
	port  int
}

type portDone struct {
	index  int
	result PortResult
}

type dialFunc func(ctx context.Context, network, address string) (net.Conn, error)

type ConnectScanner struct {
	timeout     time.Duration
	maxRoutines int
	dial        dialFunc
}

func NewConnectScanner(timeout time.Duration, paralellism int) *ConnectScanner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if paralellism <= 0 {
		paralellism = 1
	}
	dialer := &net.Dialer{
		Timeout:   timeout,
		KeepAlive: -1,
	}
	return &ConnectScanner{
		timeout:     timeout,
		maxRoutines: paralellism,
		dial:        dialer.DialContext,
	}
}

func (s *ConnectScanner) Workers() int {
	return s.maxRoutines
}

// ScanPort attempts a full TCP handshake. Anything other than a completed
// handshake is reported as closed.
func (s *ConnectScanner) ScanPort(ctx context.Context, target net.IP, port int) PortState {

	addr := net.JoinHostPort(target.String(), strconv.Itoa(port))

	conn, err := s.dial(ctx, "tcp", addr)
	if err != nil {
		log.Debugf("Connect to %s failed: %s", addr, err)
		return PortClosed
	}
	_ = conn.Close()
	return PortOpen
}

// Scan connects to each port with at most Workers() attempts in flight. Ports
// must be ascending; results are delivered in the same order regardless of
// completion order. Once ctx is cancelled no further ports are dispatched,
// attempts already in flight run to completion and are still delivered. The
// returned channel is closed when every dispatched port has been delivered
// and must be drained by the caller.
func (s *ConnectScanner) Scan(ctx context.Context, target net.IP, ports []int) <-chan PortResult {

	out := make(chan PortResult)
	doneChan := make(chan portDone, s.maxRoutines)
	dispatched := make(chan int, 1)

	go func() {
		sem := semaphore.NewWeighted(int64(s.maxRoutines))
		count := 0
		for i, port := range ports {
			if ctx.Err() != nil {
				break
			}
			if err := sem.Acquire(ctx, 1); err != nil {
				break
			}
			count++
			go func(job portJob) {
				defer sem.Release(1)
				// in-flight attempts are bounded by the dial timeout, not by ctx
				state := s.ScanPort(context.Background(), target, job.port)
				doneChan <- portDone{
					index:  job.index,
					result: PortResult{Port: job.port, State: state},
				}
			}(portJob{index: i, port: port})
		}
		if count < len(ports) {
			log.Debugf("Dispatch stopped after %d of %d ports", count, len(ports))
		}
		dispatched <- count
	}()

	go func() {
		defer close(out)

		pending := map[int]PortResult{}
		next := 0
		total := -1
		countChan := dispatched

		for total < 0 || next < total {
			select {
			case done := <-doneChan:
				pending[done.index] = done.result
			case total = <-countChan:
				countChan = nil
				continue
			}
			for {
				result, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				out <- result
				next++
			}
		}
	}()

	return out
}

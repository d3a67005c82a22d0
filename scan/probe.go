package scan

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	log "github.com/sirupsen/logrus"
)

const DefaultProbeTimeout = 5 * time.Second

type Liveness uint8

const (
	Unresponsive Liveness = iota
	Alive
)

func (l Liveness) String() string {
	if l == Alive {
		return "alive"
	}
	return "unresponsive"
}

// Prober checks whether an address answers before a scan is committed to it.
// Implementations make exactly one attempt.
type Prober interface {
	Probe(ctx context.Context, target net.IP, timeout time.Duration) Liveness
}

var errICMPUnavailable = errors.New("icmp socket unavailable")

// ICMPProber sends a single ICMP echo request over a raw socket.
type ICMPProber struct {
	serializeOptions gopacket.SerializeOptions
	id               uint16
}

func NewICMPProber() *ICMPProber {
	return &ICMPProber{
		serializeOptions: gopacket.SerializeOptions{
			FixLengths:       true,
			ComputeChecksums: true,
		},
		id: uint16(os.Getpid() & 0xffff),
	}
}

func (p *ICMPProber) Probe(ctx context.Context, target net.IP, timeout time.Duration) Liveness {
	alive, err := p.echo(ctx, target, timeout)
	if err != nil {
		log.Debugf("ICMP probe of %s failed: %s", target, err)
	}
	if alive {
		return Alive
	}
	return Unresponsive
}

func (p *ICMPProber) echo(ctx context.Context, target net.IP, timeout time.Duration) (bool, error) {

	ip4 := target.To4()
	if ip4 == nil {
		return false, fmt.Errorf("%w: %s is not an IPv4 address", errICMPUnavailable, target)
	}

	conn, err := net.ListenPacket("ip4:icmp", "0.0.0.0")
	if err != nil {
		return false, fmt.Errorf("%w: %s", errICMPUnavailable, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return false, err
	}

	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	request := layers.ICMPv4{
		TypeCode: layers.CreateICMPv4TypeCode(layers.ICMPv4TypeEchoRequest, 0),
		Id:       p.id,
		Seq:      1,
	}
	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, p.serializeOptions, &request, gopacket.Payload("gfscan")); err != nil {
		return false, err
	}
	if _, err := conn.WriteTo(buf.Bytes(), &net.IPAddr{IP: ip4}); err != nil {
		return false, err
	}

	data := make([]byte, 1500)
	for {
		n, from, err := conn.ReadFrom(data)
		if err != nil {
			return false, err
		}
		if addr, ok := from.(*net.IPAddr); !ok || !addr.IP.Equal(ip4) {
			continue
		}
		if p.isReply(data[:n]) {
			return true, nil
		}
	}
}

func (p *ICMPProber) isReply(data []byte) bool {
	packet := gopacket.NewPacket(data, layers.LayerTypeICMPv4, gopacket.NoCopy)
	icmpLayer := packet.Layer(layers.LayerTypeICMPv4)
	if icmpLayer == nil {
		return false
	}
	reply := icmpLayer.(*layers.ICMPv4)
	return reply.TypeCode.Type() == layers.ICMPv4TypeEchoReply && reply.Id == p.id
}

// CommandProber runs the operating system's ping utility once.
type CommandProber struct {
	Command string
	Args    func(target net.IP) []string
}

func NewCommandProber() *CommandProber {
	return &CommandProber{
		Command: "ping",
		Args: func(target net.IP) []string {
			count := "-c"
			if runtime.GOOS == "windows" {
				count = "-n"
			}
			return []string{count, "1", target.String()}
		},
	}
}

func (p *CommandProber) Probe(ctx context.Context, target net.IP, timeout time.Duration) Liveness {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var args []string
	if p.Args != nil {
		args = p.Args(target)
	}

	cmd := exec.CommandContext(ctx, p.Command, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		log.Debugf("%s %v failed: %s: %s", p.Command, args, err, output)
		return Unresponsive
	}
	return Alive
}

// AutoProber prefers a native ICMP echo and falls back to the ping command
// when a raw socket cannot be used.
type AutoProber struct {
	icmp     *ICMPProber
	fallback Prober
}

func NewAutoProber() *AutoProber {
	return &AutoProber{
		icmp:     NewICMPProber(),
		fallback: NewCommandProber(),
	}
}

func (p *AutoProber) Probe(ctx context.Context, target net.IP, timeout time.Duration) Liveness {
	alive, err := p.icmp.echo(ctx, target, timeout)
	if errors.Is(err, errICMPUnavailable) {
		log.Debugf("Falling back to ping command: %s", err)
		return p.fallback.Probe(ctx, target, timeout)
	}
	if err != nil {
		log.Debugf("ICMP probe of %s failed: %s", target, err)
	}
	if alive {
		return Alive
	}
	return Unresponsive
}

// SkipProber treats every host as alive.
type SkipProber struct{}

func (SkipProber) Probe(context.Context, net.IP, time.Duration) Liveness {
	return Alive
}

// NewProber returns the prober registered under name.
func NewProber(name string) (Prober, error) {
	switch name {
	case "", "auto":
		return NewAutoProber(), nil
	case "icmp":
		return NewICMPProber(), nil
	case "ping", "command":
		return NewCommandProber(), nil
	case "none", "skip":
		return SkipProber{}, nil
	}
	return nil, fmt.Errorf("unknown prober '%s'", name)
}

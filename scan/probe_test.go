package scan

import (
	"context"
	"net"
	"os/exec"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commandProber(t *testing.T, command string, args ...string) *CommandProber {
	if _, err := exec.LookPath(command); err != nil {
		t.Skipf("%s not available", command)
	}
	return &CommandProber{
		Command: command,
		Args:    func(net.IP) []string { return args },
	}
}

func TestCommandProberExitStatus(t *testing.T) {
	alive := commandProber(t, "true")
	assert.Equal(t, Alive, alive.Probe(context.Background(), loopback, time.Second))

	dead := commandProber(t, "false")
	assert.Equal(t, Unresponsive, dead.Probe(context.Background(), loopback, time.Second))
}

func TestCommandProberTimeout(t *testing.T) {
	slow := commandProber(t, "sleep", "5")

	start := time.Now()
	assert.Equal(t, Unresponsive, slow.Probe(context.Background(), loopback, 100*time.Millisecond))
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestSkipProber(t *testing.T) {
	assert.Equal(t, Alive, SkipProber{}.Probe(context.Background(), net.ParseIP("192.0.2.1"), time.Millisecond))
}

func TestNewProber(t *testing.T) {
	for name, expected := range map[string]interface{}{
		"":     &AutoProber{},
		"auto": &AutoProber{},
		"icmp": &ICMPProber{},
		"ping": &CommandProber{},
		"none": SkipProber{},
	} {
		p, err := NewProber(name)
		require.Nil(t, err)
		assert.IsType(t, expected, p, "prober %q", name)
	}

	_, err := NewProber("carrier-pigeon")
	assert.NotNil(t, err)
}

func TestICMPProberRejectsIPv6(t *testing.T) {
	_, err := NewICMPProber().echo(context.Background(), net.ParseIP("::1"), time.Second)
	assert.ErrorIs(t, err, errICMPUnavailable)
}

func TestICMPReplyMatching(t *testing.T) {
	p := NewICMPProber()

	encode := func(typ uint8, id uint16) []byte {
		msg := layers.ICMPv4{
			TypeCode: layers.CreateICMPv4TypeCode(typ, 0),
			Id:       id,
			Seq:      1,
		}
		buf := gopacket.NewSerializeBuffer()
		require.Nil(t, gopacket.SerializeLayers(buf, p.serializeOptions, &msg, gopacket.Payload("gfscan")))
		return buf.Bytes()
	}

	assert.True(t, p.isReply(encode(layers.ICMPv4TypeEchoReply, p.id)))
	assert.False(t, p.isReply(encode(layers.ICMPv4TypeEchoRequest, p.id)))
	assert.False(t, p.isReply(encode(layers.ICMPv4TypeEchoReply, p.id+1)))
	assert.False(t, p.isReply([]byte{0x01}))
}

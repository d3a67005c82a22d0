package scan

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	ErrInvalidInput = errors.New("blank hostname")
	ErrHostNotFound = errors.New("host not found")
)

// Target is the host being scanned. Address is set once by the Resolver.
type Target struct {
	Hostname string
	Address  net.IP
}

type LookupFunc func(ctx context.Context, host string) ([]net.IP, error)

type Resolver struct {
	Lookup     LookupFunc
	PreferIPv4 bool
}

func NewResolver() *Resolver {
	return &Resolver{
		Lookup: func(ctx context.Context, host string) ([]net.IP, error) {
			return net.DefaultResolver.LookupIP(ctx, "ip", host)
		},
		PreferIPv4: true,
	}
}

// Resolve turns user input into a Target with exactly one address.
func (r *Resolver) Resolve(ctx context.Context, hostname string) (Target, error) {

	hostname = strings.TrimSpace(hostname)
	if hostname == "" {
		return Target{}, ErrInvalidInput
	}

	target := Target{Hostname: hostname}

	if ip := net.ParseIP(hostname); ip != nil {
		target.Address = ip
		return target, nil
	}

	ips, err := r.Lookup(ctx, hostname)
	if err != nil {
		return target, fmt.Errorf("%w: '%s': %s", ErrHostNotFound, hostname, err)
	}
	if len(ips) == 0 {
		return target, fmt.Errorf("%w: lookup failed for '%s'", ErrHostNotFound, hostname)
	}

	target.Address = pick(ips, r.PreferIPv4)
	return target, nil
}

func pick(ips []net.IP, preferIPv4 bool) net.IP {
	if preferIPv4 {
		for _, ip := range ips {
			if v4 := ip.To4(); v4 != nil {
				return v4
			}
		}
	}
	tIP := make(net.IP, len(ips[0]))
	copy(tIP, ips[0])
	return tIP
}

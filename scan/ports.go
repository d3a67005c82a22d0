package scan

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultRangeStart = 1
	DefaultRangeEnd   = 1025
	MaxPort           = 65535
)

// DefaultPorts is the inclusive range 1-1025.
func DefaultPorts() []int {
	return PortRange(DefaultRangeStart, DefaultRangeEnd)
}

func PortRange(start, end int) []int {
	ports := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		ports = append(ports, i)
	}
	return ports
}

func DescribePort(port int) string {
	if s, ok := knownPorts[port]; ok {
		return s
	}

	return ""
}

// ParsePorts reads a selection such as "22,80,8000-8100". The result is
// sorted ascending with duplicates removed. An empty selection yields the
// default range.
func ParsePorts(selection string) ([]int, error) {
	if strings.TrimSpace(selection) == "" {
		return DefaultPorts(), nil
	}
	seen := map[int]struct{}{}
	ranges := strings.Split(selection, ",")
	for _, r := range ranges {
		r = strings.TrimSpace(r)
		if strings.Contains(r, "-") {
			parts := strings.Split(r, "-")
			if len(parts) != 2 {
				return nil, fmt.Errorf("invalid port selection segment: '%s'", r)
			}

			p1, err := parsePort(parts[0])
			if err != nil {
				return nil, err
			}

			p2, err := parsePort(parts[1])
			if err != nil {
				return nil, err
			}

			if p1 > p2 {
				return nil, fmt.Errorf("invalid port range: %d-%d", p1, p2)
			}

			for i := p1; i <= p2; i++ {
				seen[i] = struct{}{}
			}

		} else {
			port, err := parsePort(r)
			if err != nil {
				return nil, err
			}
			seen[port] = struct{}{}
		}
	}

	ports := make([]int, 0, len(seen))
	for port := range seen {
		ports = append(ports, port)
	}
	return NormalizePorts(ports), nil
}

// NormalizePorts returns a sorted copy of ports with duplicates and values
// outside 1-65535 removed.
func NormalizePorts(ports []int) []int {
	out := make([]int, 0, len(ports))
	for _, port := range ports {
		if port < 1 || port > MaxPort {
			continue
		}
		out = append(out, port)
	}
	sort.Ints(out)

	unique := out[:0]
	for _, port := range out {
		if len(unique) > 0 && port == unique[len(unique)-1] {
			continue
		}
		unique = append(unique, port)
	}
	return unique
}

func parsePort(s string) (int, error) {
	s = strings.TrimSpace(s)
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port number: '%s'", s)
	}
	if port < 1 || port > MaxPort {
		return 0, fmt.Errorf("port out of range: %d", port)
	}
	return port, nil
}

package scan

import (
	"context"
	"net"
)

// Scanner streams port results for a single resolved address, ascending by port.
type Scanner interface {
	Scan(ctx context.Context, target net.IP, ports []int) <-chan PortResult
}

package scan

import (
	"fmt"
	"net"

	"github.com/google/gopacket/macs"
	"github.com/mostlygeek/arp"
)

// Neighbour describes a host found in the local ARP cache.
type Neighbour struct {
	MAC          net.HardwareAddr
	Manufacturer string
}

func (n Neighbour) String() string {
	if n.Manufacturer == "" {
		return fmt.Sprintf("Hardware address: %s", n.MAC)
	}
	return fmt.Sprintf("Hardware address: %s (%s)", n.MAC, n.Manufacturer)
}

type NeighbourLookup func(ip net.IP) (Neighbour, bool)

// LookupNeighbour reads the ARP cache, so it only finds hosts on a directly
// attached network that have been contacted recently.
func LookupNeighbour(ip net.IP) (Neighbour, bool) {
	return neighbourFromMAC(arp.Search(ip.String()))
}

func neighbourFromMAC(macStr string) (Neighbour, bool) {
	if macStr == "" || macStr == "00:00:00:00:00:00" {
		return Neighbour{}, false
	}

	mac, err := net.ParseMAC(macStr)
	if err != nil || len(mac) < 3 {
		return Neighbour{}, false
	}

	n := Neighbour{MAC: mac}

	prefix := [3]byte{
		mac[0],
		mac[1],
		mac[2],
	}

	if manufacturer, ok := macs.ValidMACPrefixMap[prefix]; ok {
		n.Manufacturer = manufacturer
	}

	return n, true
}

package enrich

import (
	"bufio"
	"io"
	"net"
	"os"
	"strings"

	"github.com/endobit/oui"
)

// incompleteMAC is what the kernel reports for unresolved neighbours.
const incompleteMAC = "00:00:00:00:00:00"

// LoadARPTable reads an ARP table in /proc/net/arp format from path.
func LoadARPTable(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseARPTable(f)
}

// ParseARPTable maps IPv4 address to MAC for every complete entry. The
// first line is a header.
//
//	IP address       HW type     Flags       HW address            Mask     Device
//	192.168.1.1      0x1         0x2         a4:91:b1:00:11:22     *        eth0
func ParseARPTable(r io.Reader) (map[string]string, error) {
	table := make(map[string]string)
	sc := bufio.NewScanner(r)

	header := true
	for sc.Scan() {
		if header {
			header = false
			continue
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 {
			continue
		}
		if mac := NormalizeMAC(fields[3]); mac != "" && mac != incompleteMAC {
			table[fields[0]] = mac
		}
	}
	return table, sc.Err()
}

// NormalizeMAC returns mac as lower-case colon-separated hex, or "" when
// it is not a 48-bit hardware address.
func NormalizeMAC(mac string) string {
	hw, err := net.ParseMAC(strings.TrimSpace(mac))
	if err != nil || len(hw) != 6 {
		return ""
	}
	return hw.String()
}

// Vendor returns the registered organisation for mac's OUI, or "".
func Vendor(mac string) string {
	mac = NormalizeMAC(mac)
	if mac == "" {
		return ""
	}
	return oui.Vendor(mac)
}

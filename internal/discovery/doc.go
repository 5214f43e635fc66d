// Package discovery finds scan candidates with multicast DNS.
//
// Printers and many embedded web consoles advertise themselves over mDNS.
// Browsing for their service types finds hosts outside the scanned
// pattern, which the scan command then appends to its address list.
//
// # Discovery Process
//
//  1. One resolver per service type browses the local network
//  2. Entries with an IPv4 address become Hosts, keyed by address
//  3. A host seen for several services is reported once with all of them
//  4. After the timeout the hosts are returned in first-seen order
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	scanner.Timeout = 3 * time.Second
//	hosts, err := scanner.Browse(ctx)
//	if err != nil {
//	    return err
//	}
//	addrs, added := discovery.MergeAddresses(addrs, hosts)
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Hosts must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery

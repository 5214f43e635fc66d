// Package subnet expands address patterns into concrete IPv4 addresses and
// splits them into per-worker chunks.
//
// Patterns use "x" for an octet that should take every value from 1 to 255:
//
//	addrs, err := subnet.Expand("10.0.x.1") // 10.0.1.1 ... 10.0.255.1
//
// CIDR notation ("192.168.1.0/24") is accepted as well. Partition then
// divides the list into one contiguous chunk per worker.
package subnet

// Package enrich adds network identity to found devices after a scan:
// the PTR name from DNS, the MAC address from the local ARP table and the
// vendor registered for the MAC's OUI.
//
// MAC addresses are only known for hosts on the local segment that the
// kernel has recently talked to, which after a scan includes every host
// that answered.
package enrich

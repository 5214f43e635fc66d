// Package fingerprint classifies embedded web interfaces from the body of
// their landing page.
//
// # Variants
//
// A classification is a Variant: a closed set of comparable types such as
// CiscoRouter{}, HPPrinter{Model: LaserJetM605} or
// DellRemoteAccess{Generation: DellNine}. Its String method is the display
// name written to result files ("Cisco Router", "HP Printer LaserJet M605").
//
// # Matching
//
// DefaultTable is an ordered list of Entry values. Table.Classify walks it
// in order and returns the first entry whose substring occurs in the body.
// Some fingerprints embed the device's own address (a link back to
// https://{address}/ng), so entries may be templated on the probed address.
//
// Order matters. Several fingerprints are generic HTML fragments, so rare
// identity-controller signatures are checked before vendor banners. If the
// table has no match, three legacy HP banners are tried ("HP LaserJet",
// "HP OfficeJet", "/framework/Unified.css") before the result falls back to
// Unidentified.
//
//	v := fingerprint.Classify("10.0.5.1", body)
//	if fingerprint.Identified(v) {
//	    fmt.Println(v) // "Cisco Router"
//	}
package fingerprint

package fingerprint

import (
	"errors"
	"fmt"
	"strings"
)

// AddressPlaceholder is replaced with the probed address in templated matchers.
const AddressPlaceholder = "{address}"

// Legacy banners checked only after the whole table has failed to match.
const (
	fallbackLaserJet   = "HP LaserJet"
	fallbackOfficeJet  = "HP OfficeJet"
	fallbackJavascript = "/framework/Unified.css"
)

// validationAddress stands in for the probed address when comparing
// templated matchers against each other.
const validationAddress = "192.0.2.1"

// Entry pairs a variant with the response substring that identifies it.
type Entry struct {
	Variant Variant
	// Match is the substring to look for. When Templated is set, every
	// AddressPlaceholder in Match is replaced with the probed address.
	Match     string
	Templated bool
}

// Needle returns the substring to search for when probing addr.
func (e Entry) Needle(addr string) string {
	if !e.Templated {
		return e.Match
	}
	return strings.ReplaceAll(e.Match, AddressPlaceholder, addr)
}

// Table is an ordered list of fingerprints. Classification is first match
// wins, so the order of entries is part of its behaviour.
type Table []Entry

// DefaultTable lists every known fingerprint. Identity controllers and
// building-operations pages come before vendor banners, and longer printer
// model names precede their prefixes (M402dne before M402dn).
var DefaultTable = buildDefaultTable()

func buildDefaultTable() Table {
	t := Table{
		{Variant: DellRemoteAccess{DellEight}, Match: `<a href="https://{address}/start.html">here</a>`, Templated: true},
		{Variant: DellRemoteAccess{DellNine}, Match: `<a href="https://{address}/restgui/start.html">here</a>`, Templated: true},
		{Variant: BuildingOperations{BuildingController}, Match: `h5.02c.518 0 .918-.187 1.255-.56.12-.147.28`},
		{Variant: BuildingOperations{BuildingLogin}, Match: `<button type="submit" id="login"></button></label>`},
		{Variant: CiscoRouter{}, Match: `<script>window.onload=function(){ url ='/webui';window.location.href=url;}</script>`},
		{Variant: FileMaker{}, Match: "FileMaker Database Server Website"},
		{Variant: MitsubishiAC{}, Match: "MITSUBISHI Air Conditioning Control System"},
		{Variant: VirataEmWeb{}, Match: "Access Denied. Your IP Address cannot access this device"},
		{Variant: MiVoice{}, Match: "MiVoice Office Communications Platform"},
		{Variant: Fortinet{}, Match: `<a href="https://{address}/ng">here</a>.</p`, Templated: true},
	}

	// Printer pages are recognised by their model name.
	for _, model := range CatalogueModels() {
		t = append(t, Entry{Variant: HPPrinter{model}, Match: model.String()})
	}

	return t
}

// Classify returns the variant of the first entry whose needle occurs in
// body. When nothing matches, the legacy HP banners are tried before
// falling back to Unidentified. It never fails.
func (t Table) Classify(addr, body string) Variant {
	for _, e := range t {
		if strings.Contains(body, e.Needle(addr)) {
			return e.Variant
		}
	}

	switch {
	case strings.Contains(body, fallbackLaserJet):
		return HPPrinter{UnknownLaserJet}
	case strings.Contains(body, fallbackOfficeJet):
		return HPPrinter{UnknownOfficeJet}
	case strings.Contains(body, fallbackJavascript):
		return HPPrinter{UnknownJavascriptPrinter}
	}

	return Unidentified{}
}

// Classify classifies body against DefaultTable.
func Classify(addr, body string) Variant {
	return DefaultTable.Classify(addr, body)
}

// Validate checks that every entry can be matched: matchers must be
// non-empty, variants unique, and no entry may be shadowed by an earlier
// entry whose needle is contained in its own.
func (t Table) Validate() error {
	var errs []error
	seen := make(map[Variant]int, len(t))

	for i, e := range t {
		if e.Variant == nil {
			errs = append(errs, fmt.Errorf("entry %d: missing variant", i))
			continue
		}
		if _, ok := e.Variant.(Unidentified); ok {
			errs = append(errs, fmt.Errorf("entry %d: Unidentified cannot have a fingerprint", i))
		}
		if strings.TrimSpace(e.Match) == "" {
			errs = append(errs, fmt.Errorf("entry %d (%s): empty matcher", i, e.Variant))
			continue
		}
		if prev, dup := seen[e.Variant]; dup {
			errs = append(errs, fmt.Errorf("entry %d (%s): duplicates entry %d", i, e.Variant, prev))
		}
		seen[e.Variant] = i

		needle := e.Needle(validationAddress)
		for j := 0; j < i; j++ {
			if t[j].Match == "" {
				continue
			}
			if strings.Contains(needle, t[j].Needle(validationAddress)) {
				errs = append(errs, fmt.Errorf("entry %d (%s): shadowed by entry %d (%s)", i, e.Variant, j, t[j].Variant))
				break
			}
		}
	}

	return errors.Join(errs...)
}

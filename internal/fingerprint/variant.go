package fingerprint

import "fmt"

// Variant is a device classification. The set of cases is closed: new
// device kinds are added as new types here plus rows in DefaultTable.
//
// Every Variant is a comparable value, so two classifications can be
// compared with ==.
type Variant interface {
	fmt.Stringer
	variant()
}

// DellGeneration is the iDRAC firmware generation.
type DellGeneration int

const (
	DellEight DellGeneration = iota + 8
	DellNine
)

// BuildingPage is the building-operations page that answered the probe.
type BuildingPage int

const (
	BuildingController BuildingPage = iota
	BuildingLogin
)

func (p BuildingPage) String() string {
	switch p {
	case BuildingController:
		return "Controller"
	case BuildingLogin:
		return "Login"
	default:
		return fmt.Sprintf("BuildingPage(%d)", int(p))
	}
}

// PrinterModel is an HP printer from the catalogue, or one of the three
// "unknown" models recognised only by the generic fallbacks.
type PrinterModel int

const (
	LaserJetMFPM528 PrinterModel = iota
	LaserJet600M602
	OfficeJetPro8702
	ColorLaserJetMFPM577
	ColorLaserJetM750
	LaserJetM402dne
	LaserJetM402dn
	LaserJetM605
	LaserJetProMFPM521dn
	ColorLaserJetCP5520Series
	LaserJetM506
	LaserJetM402n
	LaserJetMFPM527
	LaserJetMFPM227fdw
	LaserJet500MFPM525
	ColorLaserJetFlowMFPM681
	LaserJetM203dw
	LaserJetMFPM426fdw
	LaserJetMFPM635
	OfficeJetPro8720

	UnknownJavascriptPrinter
	UnknownLaserJet
	UnknownOfficeJet
)

var printerModelNames = map[PrinterModel]string{
	LaserJetMFPM528:           "LaserJet MFP M528",
	LaserJet600M602:           "LaserJet 600 M602",
	OfficeJetPro8702:          "OfficeJet Pro 8702",
	ColorLaserJetMFPM577:      "Color LaserJet MFP M577",
	ColorLaserJetM750:         "Color LaserJet M750",
	LaserJetM402dne:           "LaserJet M402dne",
	LaserJetM402dn:            "LaserJet M402dn",
	LaserJetM605:              "LaserJet M605",
	LaserJetProMFPM521dn:      "LaserJet Pro MFP M521dn",
	ColorLaserJetCP5520Series: "Color LaserJet CP5520 Series",
	LaserJetM506:              "LaserJet M506",
	LaserJetM402n:             "LaserJet M402n",
	LaserJetMFPM527:           "LaserJet MFP M527",
	LaserJetMFPM227fdw:        "LaserJet MFP M227fdw",
	LaserJet500MFPM525:        "LaserJet 500 MFP M525",
	ColorLaserJetFlowMFPM681:  "Color LaserJet FlowMFP M681",
	LaserJetM203dw:            "LaserJet M203dw",
	LaserJetMFPM426fdw:        "LaserJet MFP M426fdw",
	LaserJetMFPM635:           "LaserJet MFP M635",
	OfficeJetPro8720:          "OfficeJet Pro 8720",
	UnknownJavascriptPrinter:  "Unknown Javascript Printer",
	UnknownLaserJet:           "Unknown LaserJet",
	UnknownOfficeJet:          "Unknown OfficeJet",
}

func (m PrinterModel) String() string {
	if name, ok := printerModelNames[m]; ok {
		return name
	}
	return fmt.Sprintf("PrinterModel(%d)", int(m))
}

// Unknown reports whether the model was inferred from a generic banner
// rather than a catalogue fingerprint.
func (m PrinterModel) Unknown() bool {
	switch m {
	case UnknownJavascriptPrinter, UnknownLaserJet, UnknownOfficeJet:
		return true
	default:
		return false
	}
}

// CatalogueModels returns the fingerprinted printer models in table order.
func CatalogueModels() []PrinterModel {
	models := make([]PrinterModel, 0, int(OfficeJetPro8720)+1)
	for m := LaserJetMFPM528; m <= OfficeJetPro8720; m++ {
		models = append(models, m)
	}
	return models
}

type (
	DellRemoteAccess   struct{ Generation DellGeneration }
	BuildingOperations struct{ Page BuildingPage }
	CiscoRouter        struct{}
	FileMaker          struct{}
	MitsubishiAC       struct{}
	VirataEmWeb        struct{}
	MiVoice            struct{}
	Fortinet           struct{}
	HPPrinter          struct{ Model PrinterModel }
	Unidentified       struct{}
)

func (DellRemoteAccess) variant()   {}
func (BuildingOperations) variant() {}
func (CiscoRouter) variant()        {}
func (FileMaker) variant()          {}
func (MitsubishiAC) variant()       {}
func (VirataEmWeb) variant()        {}
func (MiVoice) variant()            {}
func (Fortinet) variant()           {}
func (HPPrinter) variant()          {}
func (Unidentified) variant()       {}

func (v DellRemoteAccess) String() string {
	return fmt.Sprintf("Integrated Dell Remote Access Controller %d", int(v.Generation))
}

func (v BuildingOperations) String() string { return "Building Operations " + v.Page.String() }
func (CiscoRouter) String() string          { return "Cisco Router" }
func (FileMaker) String() string            { return "FileMaker Database Server Website" }
func (MitsubishiAC) String() string         { return "Mitsubishi Air Conditioning" }
func (VirataEmWeb) String() string          { return "Virata EmWeb" }
func (MiVoice) String() string              { return "MiVoice" }
func (Fortinet) String() string             { return "Fortinet" }
func (v HPPrinter) String() string          { return "HP Printer " + v.Model.String() }
func (Unidentified) String() string         { return "Unidentified" }

// Identified reports whether v is anything other than Unidentified.
func Identified(v Variant) bool {
	_, unidentified := v.(Unidentified)
	return v != nil && !unidentified
}

// Category returns a stable machine-readable name for v, used in JSON
// exports and published messages.
func Category(v Variant) string {
	switch v.(type) {
	case DellRemoteAccess:
		return "dell_idrac"
	case BuildingOperations:
		return "building_operations"
	case CiscoRouter:
		return "cisco_router"
	case FileMaker:
		return "filemaker"
	case MitsubishiAC:
		return "mitsubishi_ac"
	case VirataEmWeb:
		return "virata_emweb"
	case MiVoice:
		return "mivoice"
	case Fortinet:
		return "fortinet"
	case HPPrinter:
		return "hp_printer"
	default:
		return "unidentified"
	}
}

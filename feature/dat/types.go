package dat

import (
	"encoding/xml"

	"dat-matcher/core/reconcile"
)

// datafile is the root element of a Logiqx-style DAT document.
type datafile struct {
	XMLName  xml.Name `xml:"datafile"`
	Header   header   `xml:"header"`
	Games    []game   `xml:"game"`
	Machines []game   `xml:"machine"`
}

type header struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Version     string `xml:"version"`
}

type game struct {
	Name string `xml:"name,attr"`
	Roms []rom  `xml:"rom"`
}

type rom struct {
	Name string `xml:"name,attr"`
	Size string `xml:"size,attr"`
	CRC  string `xml:"crc,attr"`
	MD5  string `xml:"md5,attr"`
	SHA1 string `xml:"sha1,attr"`
}

// Catalog is a parsed DAT: its header metadata and one entry per rom, in document
// order.
type Catalog struct {
	// Name is the header name (e.g., "Nintendo - Nintendo Entertainment System").
	Name string

	// Description is the header description.
	Description string

	// Version is the header version string.
	Version string

	// Games is the number of game (or machine) elements.
	Games int

	// Entries holds one catalog entry per rom.
	Entries []reconcile.Entry
}

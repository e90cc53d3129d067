package dat

import (
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"dat-matcher/core/reconcile"
)

// Load reads and parses the DAT file at path.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, reconcile.Wrap(reconcile.ErrConfig, "open catalog", path, err)
	}
	defer f.Close()

	cat, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes a DAT document. Every rom becomes one entry; a game without roms, or
// a rom without a name or a valid MD5, makes the whole catalog invalid.
func Parse(r io.Reader) (*Catalog, error) {
	var doc datafile
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, reconcile.Wrap(reconcile.ErrCatalog, "decode", "", err)
	}

	games := append(doc.Games, doc.Machines...)
	cat := &Catalog{
		Name:        strings.TrimSpace(doc.Header.Name),
		Description: strings.TrimSpace(doc.Header.Description),
		Version:     strings.TrimSpace(doc.Header.Version),
		Games:       len(games),
		Entries:     make([]reconcile.Entry, 0, len(games)),
	}

	for i, g := range games {
		if len(g.Roms) == 0 {
			return nil, reconcile.Wrap(reconcile.ErrCatalog, "validate", fmt.Sprintf("game %d (%q) has no rom", i+1, g.Name), nil)
		}
		for _, rm := range g.Roms {
			name := strings.TrimSpace(rm.Name)
			if name == "" {
				return nil, reconcile.Wrap(reconcile.ErrCatalog, "validate", fmt.Sprintf("game %q has a rom without a name", g.Name), nil)
			}
			md5 := reconcile.NormalizeHash(rm.MD5)
			if !validHex(md5, 32) {
				return nil, reconcile.Wrap(reconcile.ErrCatalog, "validate", fmt.Sprintf("rom %q has invalid md5 %q", name, rm.MD5), nil)
			}

			cat.Entries = append(cat.Entries, reconcile.Entry{
				Name:       name,
				Hash:       md5,
				SHA1:       strings.TrimSpace(rm.SHA1),
				CatalogMD5: strings.TrimSpace(rm.MD5),
				Game:       strings.TrimSpace(g.Name),
			})
		}
	}

	return cat, nil
}

func validHex(s string, size int) bool {
	if len(s) != size {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

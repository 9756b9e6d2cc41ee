// Package formularyparser loads the medication formulary: the catalog of
// medications and the tablet strengths they are dispensed in. The catalog
// can come from a bundled default set, a local TSV file, or a download;
// files are accepted in UTF-8 or Latin-1.
package formularyparser

import (
	"fmt"
	"os"
	"strings"

	"github.com/giygas/posologie-api/formularyparser/entities"
	"github.com/giygas/posologie-api/interfaces"
	"github.com/giygas/posologie-api/logging"
)

// Compile-time check to ensure FormularyParser implements CatalogParser
var _ interfaces.CatalogParser = (*FormularyParser)(nil)

// FormularyParser loads the catalog from its configured source.
type FormularyParser struct {
	path string // local TSV path; empty means bundled defaults only
	url  string // optional download source refreshed into path
}

// NewFormularyParser creates a parser for the given source. Both arguments
// may be empty, in which case the bundled catalog is served.
func NewFormularyParser(path, url string) *FormularyParser {
	return &FormularyParser{path: path, url: url}
}

// ParseFormulary loads the catalog and returns the medication list with a
// lower-cased name index. Resolution order: download (when a URL is
// configured), local file, bundled defaults.
func (p *FormularyParser) ParseFormulary() ([]entities.Medication, map[string]entities.Medication, error) {
	if p.url != "" && p.path != "" {
		if err := downloadFormulary(p.path, p.url); err != nil {
			// A failed refresh is not fatal while a previous file exists.
			logging.Warn("Formulary download failed, falling back to local file", "error", err)
		}
	}

	var medications []entities.Medication
	if p.path != "" {
		parsed, err := parseFormularyFile(p.path)
		switch {
		case err == nil:
			medications = parsed
		case os.IsNotExist(err) && p.url == "":
			logging.Warn("Formulary file missing, serving bundled catalog", "path", p.path)
		case os.IsNotExist(err):
			logging.Warn("Formulary file missing after download, serving bundled catalog", "path", p.path)
		default:
			return nil, nil, fmt.Errorf("failed to parse formulary %s: %w", p.path, err)
		}
	}

	if len(medications) == 0 {
		medications = defaultCatalog()
	}

	return medications, buildIndex(medications), nil
}

// buildIndex keys medications by lower-cased name for O(1) lookups.
func buildIndex(medications []entities.Medication) map[string]entities.Medication {
	index := make(map[string]entities.Medication, len(medications))
	for _, med := range medications {
		index[strings.ToLower(med.Name)] = med
	}
	return index
}

package zonage

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Guillaume-Bsst/Time4-ZRR-QPV/internal/model"
)

// The ZRR source file reserves five metadata rows before the header.
const zrrPreambleRows = 5

// ZRR source columns.
const (
	colCodGeo  = "CODGEO"
	colLibGeo  = "LIBGEO"
	colZRRSimp = "ZRR_SIMP"
)

// RuralEntry is one commune row of the ZRR source table.
type RuralEntry struct {
	Code           string // commune code, zero-padded to 5 characters
	Label          string // commune name
	Classification string // ZRR classification code
}

// RuralRegistry is the immutable ZRR commune registry: a membership
// set for O(1) lookups plus the retained table for label resolution.
type RuralRegistry struct {
	members map[string]struct{}
	labels  map[string]string
}

// NewRuralRegistry builds a registry from entries. A commune is a ZRR
// member when its classification starts with "C" (classée) or "P"
// (partiellement classée). Codes are normalized before insertion.
func NewRuralRegistry(entries []RuralEntry) (*RuralRegistry, error) {
	if len(entries) == 0 {
		return nil, eris.New("zonage: ZRR registry is empty")
	}

	r := &RuralRegistry{
		members: make(map[string]struct{}, len(entries)),
		labels:  make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		code := PadCommuneCode(e.Code)
		if code == "" {
			continue
		}
		r.labels[code] = e.Label
		if strings.HasPrefix(e.Classification, "C") || strings.HasPrefix(e.Classification, "P") {
			r.members[code] = struct{}{}
		}
	}
	return r, nil
}

// LoadRuralRegistry reads the ZRR CSV at path, skipping the preamble
// rows before the header.
func LoadRuralRegistry(path string) (*RuralRegistry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "zonage: open ZRR table %s", path)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	for i := 0; i < zrrPreambleRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, eris.Wrapf(err, "zonage: ZRR table %s: preamble row %d", path, i+1)
		}
	}

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "zonage: ZRR table %s: read header", path)
	}
	codeIdx, labelIdx, clsIdx := -1, -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case colCodGeo:
			codeIdx = i
		case colLibGeo:
			labelIdx = i
		case colZRRSimp:
			clsIdx = i
		}
	}
	if codeIdx < 0 || clsIdx < 0 || labelIdx < 0 {
		return nil, eris.Errorf("zonage: ZRR table %s missing required columns (%s, %s, %s)", path, colCodGeo, colLibGeo, colZRRSimp)
	}

	var entries []RuralEntry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "zonage: ZRR table %s: read row", path)
		}
		if codeIdx >= len(record) || clsIdx >= len(record) || labelIdx >= len(record) {
			continue
		}
		entries = append(entries, RuralEntry{
			Code:           strings.TrimSpace(record[codeIdx]),
			Label:          strings.TrimSpace(record[labelIdx]),
			Classification: strings.TrimSpace(record[clsIdx]),
		})
	}

	registry, err := NewRuralRegistry(entries)
	if err != nil {
		return nil, eris.Wrapf(err, "zonage: ZRR table %s", path)
	}
	zap.L().Info("ZRR registry loaded",
		zap.String("path", path),
		zap.Int("communes", len(registry.labels)),
		zap.Int("members", len(registry.members)),
	)
	return registry, nil
}

// Check reports ZRR membership for a commune code. An empty code means
// the commune is unknown and yields Unknown, never No.
func (r *RuralRegistry) Check(code string) model.Tristate {
	if code == "" {
		return model.Unknown
	}
	_, ok := r.members[PadCommuneCode(code)]
	return model.TristateOf(ok)
}

// Label returns the commune name for a member code, or "" when the
// retained table has no matching row.
func (r *RuralRegistry) Label(code string) string {
	return r.labels[PadCommuneCode(code)]
}

// PadCommuneCode normalizes a commune code to the fixed 5-character
// zero-padded form used as the registry key.
func PadCommuneCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	for len(code) < 5 {
		code = "0" + code
	}
	return code
}

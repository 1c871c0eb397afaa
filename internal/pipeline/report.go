package pipeline

import (
	"github.com/Guillaume-Bsst/Time4-ZRR-QPV/internal/model"
	"github.com/Guillaume-Bsst/Time4-ZRR-QPV/internal/zonage"
)

// GeocodeFailedMessage is the user-visible explanation set on reports
// whose address could not be geocoded.
const GeocodeFailedMessage = "Impossible de géocoder l'adresse."

// AssembleReport combines the pipeline outputs into the final report.
// A nil xref means the address could not be geocoded: every QPV field
// stays absent and Message explains why. That is a normal terminal
// state, not an error; the ZRR fields are filled either way since they
// derive from the commune code alone.
func AssembleReport(siret, nomEntreprise, nomDirigeant string, addr model.Address, codeCommune string, inZRR model.Tristate, zrrLabel string, xref *zonage.CrossReferenceResult) *model.Report {
	r := &model.Report{
		SIRET:           siret,
		NomEntreprise:   nomEntreprise,
		NomDirigeant:    nomDirigeant,
		Adresse:         addr.Line,
		CodeCommune:     codeCommune,
		InZRR:           inZRR,
		ZRRLabel:        zrrLabel,
		QPVDansLesquels: []model.ZoneRecord{},
	}

	if xref == nil {
		r.EstDansQPV = model.Unknown
		r.AMoins500mQPV = model.Unknown
		r.Message = GeocodeFailedMessage
		return r
	}

	r.EstDansQPV = model.TristateOf(xref.Inside)
	r.AMoins500mQPV = model.TristateOf(xref.Within500m)
	km := xref.DistanceKM
	r.DistanceKM = &km
	if len(xref.ContainingZones) > 0 {
		r.QPVDansLesquels = xref.ContainingZones
	}
	nearest := xref.Nearest
	r.QPVPlusProche = &nearest
	return r
}

// Package pipeline orchestrates one SIRET check: identifier
// validation, SIRENE resolution, ZRR membership, BAN geocoding, and
// the QPV cross-reference, assembled into a single report.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Guillaume-Bsst/Time4-ZRR-QPV/internal/model"
	"github.com/Guillaume-Bsst/Time4-ZRR-QPV/internal/zonage"
	"github.com/Guillaume-Bsst/Time4-ZRR-QPV/pkg/ban"
	"github.com/Guillaume-Bsst/Time4-ZRR-QPV/pkg/sirene"
)

// Checker runs the check pipeline against shared, read-only reference
// datasets. It is safe for concurrent use; each Check is strictly
// sequential internally, since every step feeds the next.
type Checker struct {
	sirene sirene.Client
	ban    ban.Client
	data   *zonage.Datasets
}

// NewChecker wires the two upstream clients and the loaded datasets.
func NewChecker(sc sirene.Client, bc ban.Client, ds *zonage.Datasets) *Checker {
	return &Checker{sirene: sc, ban: bc, data: ds}
}

// Check validates and normalizes rawSIRET, then runs the full
// pipeline. Validation failures return a *ValidationError before any
// network call. A SIRENE failure is the request's terminal error. A
// geocoding miss is not: the report comes back with the QPV fields
// absent and a message instead.
func (c *Checker) Check(ctx context.Context, rawSIRET string) (*model.Report, error) {
	siret, err := NormalizeSIRET(rawSIRET)
	if err != nil {
		return nil, err
	}
	log := zap.L().With(zap.String("siret", siret))

	etab, err := c.sirene.Etablissement(ctx, siret)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: resolve establishment")
	}

	addr := AssembleAddress(etab)
	nomEntreprise, nomDirigeant := ResolveNames(etab)

	codeCommune := etab.Adresse.CodeCommune
	if codeCommune != "" {
		codeCommune = zonage.PadCommuneCode(codeCommune)
	}
	inZRR := c.data.ZRR.Check(codeCommune)
	var zrrLabel string
	if inZRR == model.Yes {
		zrrLabel = c.data.ZRR.Label(codeCommune)
	}

	pos, err := c.ban.Search(ctx, addr.Line, addr.PostalCode, addr.Commune)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: geocode address")
	}

	var xref *zonage.CrossReferenceResult
	if pos == nil {
		log.Info("address could not be geocoded", zap.String("adresse", addr.Line))
	} else {
		xref, err = zonage.CrossReference(pos.Lon, pos.Lat, c.data.QPV)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: cross-reference")
		}
		log.Debug("cross-reference complete",
			zap.Bool("inside", xref.Inside),
			zap.Float64("distance_km", xref.DistanceKM),
		)
	}

	return AssembleReport(siret, nomEntreprise, nomDirigeant, addr, codeCommune, inZRR, zrrLabel, xref), nil
}

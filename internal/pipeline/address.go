package pipeline

import (
	"strings"

	"github.com/Guillaume-Bsst/Time4-ZRR-QPV/internal/model"
	"github.com/Guillaume-Bsst/Time4-ZRR-QPV/pkg/sirene"
)

// AssembleAddress builds the geocoding query from the raw SIRENE
// address sub-fields: street number, way type and way name joined with
// spaces, the address complement appended after a comma, then postal
// code and commune. This is the canonical normalization step before
// geocoding.
func AssembleAddress(etab *sirene.Etablissement) model.Address {
	adr := etab.Adresse

	line := joinNonEmpty(" ", adr.NumeroVoie, adr.TypeVoie, adr.LibelleVoie)
	if adr.ComplementAdresse != "" {
		line = line + ", " + adr.ComplementAdresse
	}

	return model.Address{
		Line:       joinNonEmpty(" ", line, adr.CodePostal, adr.LibelleCommune),
		PostalCode: adr.CodePostal,
		Commune:    adr.LibelleCommune,
	}
}

// ResolveNames extracts the entity name and, when the legal unit is a
// natural person, the responsible individual's name. The entity name
// prefers the establishment's usual trade name, then falls back
// through the legal unit's denomination fields down to the bare family
// name. The person name requires both a first and a last name.
func ResolveNames(etab *sirene.Etablissement) (nomEntreprise, nomDirigeant string) {
	ul := etab.UniteLegale

	nomEntreprise = firstNonEmpty(
		etab.DenominationUsuelle,
		ul.DenominationUsuelle1,
		ul.Denomination,
		ul.Nom,
	)

	prenom := firstNonEmpty(ul.PrenomUsuel, ul.Prenom1)
	if ul.Nom != "" && prenom != "" {
		nomDirigeant = prenom + " " + ul.Nom
	}
	return nomEntreprise, nomDirigeant
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, strings.TrimSpace(p))
		}
	}
	return strings.Join(kept, sep)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

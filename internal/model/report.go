// Package model holds the shared domain types: the final check report,
// zone records, addresses, and the three-valued answer type.
package model

// ZoneRecord identifies one QPV polygon by its administrative labels.
type ZoneRecord struct {
	CodeQP    string `json:"code_qp"`
	LibQP     string `json:"lib_qp"`
	CommuneQP string `json:"commune_qp"`
}

// NearestZone is the QPV closest to the checked address, with the
// minimum distance in kilometers.
type NearestZone struct {
	ZoneRecord
	DistanceKM float64 `json:"distance_km"`
}

// Address is the normalized postal address assembled from SIRENE
// fields; Line is the full geocoding query.
type Address struct {
	Line       string
	PostalCode string
	Commune    string
}

// Report is the immutable outcome of one SIRET check. QPV fields are
// null when the address could not be geocoded; Message carries the
// human-readable explanation in that case. JSON field names follow the
// established output format of the check.
type Report struct {
	SIRET           string       `json:"siret"`
	NomEntreprise   string       `json:"nom_entreprise"`
	NomDirigeant    string       `json:"nom_dirigeant"`
	Adresse         string       `json:"adresse"`
	CodeCommune     string       `json:"code_commune"`
	InZRR           Tristate     `json:"in_zrr"`
	ZRRLabel        string       `json:"zrr_label"`
	EstDansQPV      Tristate     `json:"est_dans_qpv"`
	DistanceKM      *float64     `json:"distance_km"`
	AMoins500mQPV   Tristate     `json:"a_moins_500m_qpv"`
	QPVDansLesquels []ZoneRecord `json:"qpv_dans_lesquels"`
	QPVPlusProche   *NearestZone `json:"qpv_plus_proche"`
	Message         string       `json:"message"`
}

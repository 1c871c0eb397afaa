package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTristateMarshalJSON(t *testing.T) {
	cases := []struct {
		value Tristate
		want  string
	}{
		{Yes, "true"},
		{No, "false"},
		{Unknown, "null"},
	}

	for _, tc := range cases {
		data, err := json.Marshal(tc.value)
		require.NoError(t, err)
		assert.Equal(t, tc.want, string(data))
	}
}

func TestTristateUnmarshalJSON(t *testing.T) {
	var v Tristate

	require.NoError(t, json.Unmarshal([]byte("true"), &v))
	assert.Equal(t, Yes, v)

	require.NoError(t, json.Unmarshal([]byte("false"), &v))
	assert.Equal(t, No, v)

	require.NoError(t, json.Unmarshal([]byte("null"), &v))
	assert.Equal(t, Unknown, v)

	assert.Error(t, json.Unmarshal([]byte(`"oui"`), &v))
}

func TestTristateOf(t *testing.T) {
	assert.Equal(t, Yes, TristateOf(true))
	assert.Equal(t, No, TristateOf(false))
}

func TestTristateKnown(t *testing.T) {
	assert.True(t, Yes.Known())
	assert.True(t, No.Known())
	assert.False(t, Unknown.Known())
}

func TestReportJSONFields(t *testing.T) {
	km := 1.25
	r := Report{
		SIRET:         "12345678900011",
		NomEntreprise: "BOULANGERIE DUPONT",
		Adresse:       "12 RUE DE LA PAIX 75002 PARIS",
		InZRR:         No,
		EstDansQPV:    Yes,
		DistanceKM:    &km,
		AMoins500mQPV: No,
		QPVDansLesquels: []ZoneRecord{
			{CodeQP: "QP075001", LibQP: "Porte de Clignancourt", CommuneQP: "Paris"},
		},
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "12345678900011", decoded["siret"])
	assert.Equal(t, false, decoded["in_zrr"])
	assert.Equal(t, true, decoded["est_dans_qpv"])
	assert.InDelta(t, 1.25, decoded["distance_km"], 1e-9)
	// Absent nearest zone stays an explicit null, not an empty object.
	assert.Nil(t, decoded["qpv_plus_proche"])
}

func TestReportJSONAlwaysCarriesAllKeys(t *testing.T) {
	// Every key of the output dict is present even on a zero report.
	data, err := json.Marshal(Report{})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	keys := []string{
		"siret", "nom_entreprise", "nom_dirigeant", "adresse",
		"code_commune", "in_zrr", "zrr_label", "est_dans_qpv",
		"distance_km", "a_moins_500m_qpv", "qpv_dans_lesquels",
		"qpv_plus_proche", "message",
	}
	assert.Len(t, decoded, len(keys))
	for _, k := range keys {
		assert.Contains(t, decoded, k)
	}
	assert.Equal(t, "", decoded["zrr_label"])
	assert.Equal(t, "", decoded["message"])
}

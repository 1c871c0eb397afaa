package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Guillaume-Bsst/Time4-ZRR-QPV/internal/model"
)

var checkJSON bool

var checkCmd = &cobra.Command{
	Use:   "check <siret>",
	Short: "Check whether an establishment sits in a ZRR or QPV zone",
	Long:  "Resolves a SIRET via the SIRENE API, geocodes the establishment address via the Base Adresse Nationale, then reports ZRR membership and QPV containment and proximity.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initChecker("check")
		if err != nil {
			return err
		}

		// SIRETs are often pasted with grouping spaces; accept them as
		// separate args too.
		report, err := env.Checker.Check(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		if checkJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		printReport(cmd, report)
		return nil
	},
}

// printReport renders the human-readable summary, one section per
// zoning scheme.
func printReport(cmd *cobra.Command, r *model.Report) {
	cmd.Println("Entreprise")
	cmd.Printf("  SIRET     : %s\n", r.SIRET)
	if r.NomEntreprise != "" {
		cmd.Printf("  Nom       : %s\n", r.NomEntreprise)
	}
	if r.NomDirigeant != "" {
		cmd.Printf("  Dirigeant : %s\n", r.NomDirigeant)
	}
	cmd.Printf("  Adresse   : %s\n", r.Adresse)
	if r.CodeCommune != "" {
		cmd.Printf("  Commune   : %s\n", r.CodeCommune)
	}

	cmd.Println("ZRR")
	cmd.Printf("  Classée en ZRR : %s\n", ouiNon(r.InZRR))
	if r.ZRRLabel != "" {
		cmd.Printf("  Commune        : %s\n", r.ZRRLabel)
	}

	cmd.Println("QPV")
	if r.Message != "" {
		cmd.Printf("  %s\n", r.Message)
		return
	}
	cmd.Printf("  Dans un QPV       : %s\n", ouiNon(r.EstDansQPV))
	for _, z := range r.QPVDansLesquels {
		cmd.Printf("    - %s (%s, %s)\n", z.CodeQP, z.LibQP, z.CommuneQP)
	}
	if r.DistanceKM != nil {
		cmd.Printf("  Distance          : %.3f km\n", *r.DistanceKM)
	}
	cmd.Printf("  À moins de 500 m  : %s\n", ouiNon(r.AMoins500mQPV))
	if r.QPVPlusProche != nil {
		cmd.Printf("  QPV le plus proche: %s (%s, %s) à %.3f km\n",
			r.QPVPlusProche.CodeQP, r.QPVPlusProche.LibQP, r.QPVPlusProche.CommuneQP, r.QPVPlusProche.DistanceKM)
	}
}

func ouiNon(t model.Tristate) string {
	switch t {
	case model.Yes:
		return "oui"
	case model.No:
		return "non"
	default:
		return "inconnu"
	}
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "output the full report as JSON")
	rootCmd.AddCommand(checkCmd)
}

package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var (
	checkLat     float64
	checkLon     float64
	checkCountry string
	checkID      string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Classify the plausibility of a coordinate for a country",
	RunE: func(cmd *cobra.Command, args []string) error {
		checker, err := newChecker()
		if err != nil {
			return err
		}

		verdict := checker.Check(checkID, checkLat, checkLon, checkCountry)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(verdict)
	},
}

func init() {
	checkCmd.Flags().Float64Var(&checkLat, "lat", 0, "latitude")
	checkCmd.Flags().Float64Var(&checkLon, "lon", 0, "longitude")
	checkCmd.Flags().StringVar(&checkCountry, "country", "", "ISO alpha-3 country code")
	checkCmd.Flags().StringVar(&checkID, "id", "", "facility id (enables the curated known-fix lookup)")
	_ = checkCmd.MarkFlagRequired("lat")
	_ = checkCmd.MarkFlagRequired("lon")
	_ = checkCmd.MarkFlagRequired("country")
	rootCmd.AddCommand(checkCmd)
}

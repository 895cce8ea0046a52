package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/terralode/facility-cli/internal/model"
	"github.com/terralode/facility-cli/internal/store"
)

var (
	auditCountry string
	auditFix     bool
	auditWorkers int
)

// auditFinding pairs a facility with its coordinate verdict.
type auditFinding struct {
	FacilityID string                  `json:"facility_id"`
	Name       string                  `json:"name"`
	Country    string                  `json:"country_code"`
	Verdict    model.CoordinateVerdict `json:"verdict"`
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit stored facility coordinates against country bounds",
	Long:  "Runs the plausibility checker over every stored facility with a coordinate. With --fix, mechanically repairable coordinates (sign errors, axis swaps, curated fixes) are written back to the store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		checker, err := newChecker()
		if err != nil {
			return err
		}

		facilities, err := st.ListFacilities(ctx, store.FacilityFilter{CountryCode: auditCountry})
		if err != nil {
			return err
		}

		workers := auditWorkers
		if workers <= 0 {
			workers = cfg.Audit.Workers
		}

		// The checker is pure, so facilities are checked concurrently with
		// each worker writing its own slot.
		findings := make([]*auditFinding, len(facilities))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i := range facilities {
			g.Go(func() error {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				f := &facilities[i]
				if f.Coordinate == nil {
					return nil
				}
				verdict := checker.Check(f.ID, f.Coordinate.Lat, f.Coordinate.Lon, f.CountryCode)
				if verdict.Status == model.VerdictValid {
					return nil
				}
				findings[i] = &auditFinding{
					FacilityID: f.ID,
					Name:       f.Name,
					Country:    f.CountryCode,
					Verdict:    verdict,
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		var flagged []auditFinding
		counts := make(map[model.VerdictStatus]int)
		for _, finding := range findings {
			if finding == nil {
				continue
			}
			flagged = append(flagged, *finding)
			counts[finding.Verdict.Status]++

			if auditFix && finding.Verdict.SuggestedFix != nil {
				if err := st.UpdateCoordinate(ctx, finding.FacilityID, finding.Verdict.SuggestedFix); err != nil {
					zap.L().Warn("audit: failed to apply fix",
						zap.String("facility_id", finding.FacilityID),
						zap.Error(err),
					)
					continue
				}
				zap.L().Info("audit: applied suggested fix",
					zap.String("facility_id", finding.FacilityID),
					zap.String("status", string(finding.Verdict.Status)),
				)
			}
		}

		zap.L().Info("audit: complete",
			zap.Int("facilities", len(facilities)),
			zap.Int("flagged", len(flagged)),
			zap.Any("by_status", counts),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(flagged)
	},
}

func init() {
	auditCmd.Flags().StringVar(&auditCountry, "country", "", "restrict the audit to one country")
	auditCmd.Flags().BoolVar(&auditFix, "fix", false, "write suggested fixes back to the store")
	auditCmd.Flags().IntVar(&auditWorkers, "workers", 0, "concurrent checkers (default from config)")
	rootCmd.AddCommand(auditCmd)
}

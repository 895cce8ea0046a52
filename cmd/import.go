package main

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/terralode/facility-cli/internal/dedupe"
	"github.com/terralode/facility-cli/internal/model"
	"github.com/terralode/facility-cli/internal/resolver"
	"github.com/terralode/facility-cli/internal/store"
)

var importDryRun bool

var importCmd = &cobra.Command{
	Use:   "import <csv file>",
	Short: "Import facility records from CSV",
	Long: `Imports facilities from a CSV with header
name,country_code,lat,lon,aliases,commodities (aliases and commodities are
semicolon-separated; lat/lon may be empty). Rows that duplicate an existing
record are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return eris.Wrap(err, "import: open csv")
		}
		defer f.Close()

		existing, err := st.ListFacilities(ctx, store.FacilityFilter{})
		if err != nil {
			return err
		}

		reader := csv.NewReader(f)
		header, err := reader.Read()
		if err != nil {
			return eris.Wrap(err, "import: read header")
		}
		col := columnIndex(header)

		var created, skipped int
		for {
			row, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return eris.Wrap(err, "import: read row")
			}

			record, err := rowToFacility(row, col)
			if err != nil {
				zap.L().Warn("import: skipping malformed row", zap.Error(err))
				skipped++
				continue
			}

			if match := dedupe.FindDuplicate(record.ID, record.Name, record.Coordinate, existing); match != nil {
				zap.L().Info("import: skipping duplicate",
					zap.String("name", record.Name),
					zap.String("matched_id", match.MatchedID),
					zap.String("reason", string(match.Reason)),
				)
				skipped++
				continue
			}

			// A normalized-name collision is not a duplicate under the
			// case-sensitive policy, but it is worth a review flag.
			warnNormalizedCollision(record, existing)

			if !importDryRun {
				if err := st.CreateFacility(ctx, record); err != nil {
					return err
				}
			}
			existing = append(existing, *record)
			created++
		}

		zap.L().Info("import: complete",
			zap.Int("created", created),
			zap.Int("skipped", skipped),
			zap.Bool("dry_run", importDryRun),
		)
		return nil
	},
}

// columnIndex maps the expected header names to their positions.
func columnIndex(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return col
}

func rowToFacility(row []string, col map[string]int) (*model.FacilityRecord, error) {
	get := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	name := get("name")
	country := get("country_code")
	if name == "" || country == "" {
		return nil, eris.New("import: name and country_code are required")
	}

	record := &model.FacilityRecord{
		ID:          uuid.New().String(),
		Name:        name,
		CountryCode: strings.ToUpper(country),
		Aliases:     splitList(get("aliases")),
		Commodities: splitList(get("commodities")),
	}

	latStr, lonStr := get("lat"), get("lon")
	if (latStr == "") != (lonStr == "") {
		return nil, eris.Errorf("import: partial coordinate pair for %q", name)
	}
	if latStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return nil, eris.Wrapf(err, "import: parse lat for %q", name)
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return nil, eris.Wrapf(err, "import: parse lon for %q", name)
		}
		record.Coordinate = &model.Coordinate{Lat: lat, Lon: lon}
	}

	return record, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func warnNormalizedCollision(record *model.FacilityRecord, existing []model.FacilityRecord) {
	norm := resolver.NormalizeName(record.Name)
	for i := range existing {
		if existing[i].Name != record.Name && resolver.NormalizeName(existing[i].Name) == norm {
			zap.L().Warn("import: normalized name collision, flag for review",
				zap.String("name", record.Name),
				zap.String("existing_id", existing[i].ID),
				zap.String("existing_name", existing[i].Name),
			)
			return
		}
	}
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "parse and report without writing")
	rootCmd.AddCommand(importCmd)
}

package resolver

import (
	"regexp"
	"strings"
)

// legalSuffixes lists common legal entity suffixes to strip during name normalization.
var legalSuffixes = []string{
	" LLC", " L.L.C.", " L.L.C",
	" INC", " INC.", " INCORPORATED",
	" CORP", " CORP.", " CORPORATION",
	" PTY LTD", " PTY",
	" LTD", " LTD.", " LIMITED",
	" PLC", " P.L.C.",
	" SA", " S.A.", " S.A",
	" AG", " A.G.",
	" NV", " N.V.",
	" AB", " A.B.",
	" CO", " CO.",
	" GROUP", " HOLDINGS",
}

var multiSpaceRe = regexp.MustCompile(`\s{2,}`)

// NormalizeName standardizes a company name for matching by:
//  1. Trimming whitespace
//  2. Converting to uppercase
//  3. Removing common legal suffixes (LLC, Ltd, Plc, SA, etc.)
//  4. Stripping punctuation (commas, periods, dashes, ampersands)
//  5. Collapsing multiple spaces into single spaces
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	name = strings.ToUpper(name)

	for _, suffix := range legalSuffixes {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSuffix(name, suffix)
			break
		}
	}

	name = strings.NewReplacer(
		",", "",
		".", "",
		"'", "",
		"\"", "",
		"&", "AND",
		"-", " ",
	).Replace(name)

	name = multiSpaceRe.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)

	return name
}

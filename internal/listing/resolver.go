// Package listing resolves free-text listing names ("Avalon D.3 - Sea view
// studio") into canonical building and unit codes. Resolution is pure;
// catalog persistence is the gateway's concern.
package listing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// listingPattern captures the building name (letters, digits, spaces) and
// the unit token ("D.3", "5.3", "12", "A12").
var listingPattern = regexp.MustCompile(`^\s*([\p{L}\p{N} ]+)\s+([A-Za-z0-9]+(\.[A-Za-z0-9]+)?)`)

// unitShortOverrides maps known irregular unit tokens to their short code
var unitShortOverrides = map[string]string{
	"D.3": "403",
}

// Resolution is the outcome of resolving one listing string. Fields stay
// nil when the text could not be parsed; the row is still emitted with the
// raw text preserved.
type Resolution struct {
	BuildingName  *string `json:"building_name"`
	BuildingCode  *string `json:"building_code"`
	UnitNumber    *string `json:"unit_number"`
	UnitShort     *string `json:"unit_short"`
	PropertyShort *string `json:"property_short"`
}

// Resolve maps a raw listing string to canonical codes. The per-upload
// override table wins over pattern parsing: its values are canonical
// property shorts ("AVA-503") split into building code and unit short.
func Resolve(listingRaw string, overrides map[string]string) *Resolution {
	res := &Resolution{}
	if strings.TrimSpace(listingRaw) == "" {
		return res
	}

	// The raw prefix still names the building even when an override decides
	// the codes.
	buildingName, unitNumber := parseListing(listingRaw)
	if buildingName != "" {
		res.BuildingName = &buildingName
	}

	if short, ok := matchOverride(listingRaw, overrides); ok {
		res.PropertyShort = &short
		if code, unit, ok := strings.Cut(short, "-"); ok {
			res.BuildingCode = &code
			res.UnitShort = &unit
		}
		if unitNumber != "" {
			res.UnitNumber = &unitNumber
		}
		return res
	}

	if unitNumber == "" {
		return res
	}
	res.UnitNumber = &unitNumber

	if code := buildingCode(buildingName); code != "" {
		res.BuildingCode = &code
	}
	if short := unitShort(unitNumber); short != "" {
		res.UnitShort = &short
	}
	if res.BuildingCode != nil && res.UnitShort != nil {
		propertyShort := *res.BuildingCode + "-" + *res.UnitShort
		res.PropertyShort = &propertyShort
	}

	return res
}

// matchOverride tries exact, then case-insensitive exact, then substring
// match in either direction against the per-upload override table.
func matchOverride(listingRaw string, overrides map[string]string) (string, bool) {
	if len(overrides) == 0 {
		return "", false
	}

	if v, ok := overrides[listingRaw]; ok {
		return v, true
	}

	lower := strings.ToLower(listingRaw)
	for k, v := range overrides {
		if strings.ToLower(k) == lower {
			return v, true
		}
	}

	for k, v := range overrides {
		kl := strings.ToLower(k)
		if strings.Contains(lower, kl) || strings.Contains(kl, lower) {
			return v, true
		}
	}

	return "", false
}

func parseListing(listingRaw string) (buildingName, unitNumber string) {
	match := listingPattern.FindStringSubmatch(listingRaw)
	if match == nil {
		return "", ""
	}
	return strings.TrimSpace(match[1]), match[2]
}

// buildingCode is the first three letters of the name, uppercased, with
// digits and spaces dropped ("Avalon" → "AVA", "Sunrise City 2" → "SUN")
func buildingCode(buildingName string) string {
	var letters []rune
	for _, r := range buildingName {
		if unicode.IsLetter(r) {
			letters = append(letters, unicode.ToUpper(r))
			if len(letters) == 3 {
				break
			}
		}
	}
	return string(letters)
}

// unitShort normalizes a unit token: known overrides first, then numeric
// floor.room tokens ("5.3" → "503"), then a plain dot strip
func unitShort(unitNumber string) string {
	if short, ok := unitShortOverrides[unitNumber]; ok {
		return short
	}

	if floor, room, ok := strings.Cut(unitNumber, "."); ok {
		f, ferr := strconv.Atoi(floor)
		r, rerr := strconv.Atoi(room)
		if ferr == nil && rerr == nil {
			return fmt.Sprintf("%d%02d", f, r)
		}
	}

	return strings.ReplaceAll(unitNumber, ".", "")
}

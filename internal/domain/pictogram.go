package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// PictogramCode is one of the nine canonical GHS pictogram identifiers.
type PictogramCode string

const (
	PictogramExplosive     PictogramCode = "GHS-01"
	PictogramFlammable     PictogramCode = "GHS-02"
	PictogramOxidizing     PictogramCode = "GHS-03"
	PictogramGas           PictogramCode = "GHS-04"
	PictogramCorrosive     PictogramCode = "GHS-05"
	PictogramToxic         PictogramCode = "GHS-06"
	PictogramHarmful       PictogramCode = "GHS-07"
	PictogramHealthHazard  PictogramCode = "GHS-08"
	PictogramEnvironmental PictogramCode = "GHS-09"
)

// Pictogram describes a canonical pictogram and its default artwork.
type Pictogram struct {
	Code       PictogramCode `json:"code"`
	Label      string        `json:"label"`
	LabelJA    string        `json:"label_ja"`
	DefaultURL string        `json:"default_url"`
}

var pictogramTable = []Pictogram{
	{PictogramExplosive, "Explosive", "爆発物", "https://upload.wikimedia.org/wikipedia/commons/thumb/d/d3/GHS-pictogram-explos.svg/300px-GHS-pictogram-explos.svg.png"},
	{PictogramFlammable, "Flammable", "引火性", "https://upload.wikimedia.org/wikipedia/commons/thumb/2/23/GHS-pictogram-flamm.svg/300px-GHS-pictogram-flamm.svg.png"},
	{PictogramOxidizing, "Oxidizing", "酸化性", "https://upload.wikimedia.org/wikipedia/commons/thumb/c/cd/GHS-pictogram-oxidiz.svg/300px-GHS-pictogram-oxidiz.svg.png"},
	{PictogramGas, "Compressed Gas", "高圧ガス", "https://upload.wikimedia.org/wikipedia/commons/thumb/9/96/GHS-pictogram-cylind.svg/300px-GHS-pictogram-cylind.svg.png"},
	{PictogramCorrosive, "Corrosive", "腐食性", "https://upload.wikimedia.org/wikipedia/commons/thumb/3/30/GHS-pictogram-acid.svg/300px-GHS-pictogram-acid.svg.png"},
	{PictogramToxic, "Toxic", "毒性", "https://upload.wikimedia.org/wikipedia/commons/thumb/a/a1/GHS-pictogram-skull.svg/300px-GHS-pictogram-skull.svg.png"},
	{PictogramHarmful, "Harmful / Irritant", "有害性・刺激性", "https://upload.wikimedia.org/wikipedia/commons/thumb/6/61/GHS-pictogram-exclam.svg/300px-GHS-pictogram-exclam.svg.png"},
	{PictogramHealthHazard, "Health Hazard", "健康有害性", "https://upload.wikimedia.org/wikipedia/commons/thumb/1/1a/GHS-pictogram-silhouette.svg/300px-GHS-pictogram-silhouette.svg.png"},
	{PictogramEnvironmental, "Environmental", "環境有害性", "https://upload.wikimedia.org/wikipedia/commons/thumb/f/f0/GHS-pictogram-pollut.svg/300px-GHS-pictogram-pollut.svg.png"},
}

// Pictograms returns the nine canonical pictograms in code order.
func Pictograms() []Pictogram {
	out := make([]Pictogram, len(pictogramTable))
	copy(out, pictogramTable)
	return out
}

// LookupPictogram returns the table entry for code.
func LookupPictogram(code PictogramCode) (Pictogram, bool) {
	for _, p := range pictogramTable {
		if p.Code == code {
			return p, true
		}
	}
	return Pictogram{}, false
}

// ParsePictogramCode accepts only an exact canonical code such as "GHS-03".
// Free text from the extraction backend goes through ClassifyPictogram instead.
func ParsePictogramCode(s string) (PictogramCode, error) {
	code := PictogramCode(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := LookupPictogram(code); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPictogram, s)
	}
	return code, nil
}

var digitRun = regexp.MustCompile(`[0-9]+`)

type pictogramKeywords struct {
	code  PictogramCode
	terms []string
}

// Order matters: the first class with a matching term wins.
var keywordTable = []pictogramKeywords{
	{PictogramExplosive, []string{"爆発", "explos"}},
	{PictogramFlammable, []string{"引火", "flam"}},
	{PictogramOxidizing, []string{"酸化", "oxidiz"}},
	{PictogramGas, []string{"ガス", "gas"}},
	{PictogramCorrosive, []string{"腐食", "corros"}},
	{PictogramToxic, []string{"毒", "toxic"}},
	{PictogramHarmful, []string{"有害", "刺激", "harm"}},
	{PictogramHealthHazard, []string{"健康", "health"}},
	{PictogramEnvironmental, []string{"環境", "environ"}},
}

// ClassifyPictogram maps a raw hazard token (a number, a Japanese or English
// class name, or free text) to a canonical code. The first digit run wins over
// any keyword when it parses to 1..9. Unrecognized input yields ("", false).
func ClassifyPictogram(raw string) (PictogramCode, bool) {
	input := strings.ToLower(raw)

	if digits := digitRun.FindString(input); digits != "" {
		if n, err := strconv.Atoi(digits); err == nil && n >= 1 && n <= 9 {
			return PictogramCode(fmt.Sprintf("GHS-%02d", n)), true
		}
	}

	for _, k := range keywordTable {
		for _, term := range k.terms {
			if strings.Contains(input, term) {
				return k.code, true
			}
		}
	}
	return "", false
}

// PictogramOverrides maps a code to a caller-owned image reference that
// shadows the default artwork. The core only reads it.
type PictogramOverrides map[PictogramCode]string

// PictogramSource tells where a resolved image reference came from.
type PictogramSource string

const (
	PictogramSourceOverride PictogramSource = "override"
	PictogramSourceDefault  PictogramSource = "default"
)

// PictogramImage resolves the image for code: override first, then the
// default table. ok is false when neither has an image, in which case the
// slot must be omitted.
func PictogramImage(code PictogramCode, overrides PictogramOverrides) (ref string, source PictogramSource, ok bool) {
	if ref := overrides[code]; ref != "" {
		return ref, PictogramSourceOverride, true
	}
	if p, found := LookupPictogram(code); found && p.DefaultURL != "" {
		return p.DefaultURL, PictogramSourceDefault, true
	}
	return "", "", false
}

// ResolvedPictogram is a renderable pictogram slot.
type ResolvedPictogram struct {
	Code     PictogramCode   `json:"code" yaml:"code"`
	Label    string          `json:"label" yaml:"label"`
	ImageURL string          `json:"image_url" yaml:"image_url"`
	Source   PictogramSource `json:"source" yaml:"source"`
}

// ResolvePictograms turns raw backend tokens into renderable slots. Tokens
// that do not classify, and codes without any image, are dropped. A code
// reached by more than one token appears once, at its first position.
func ResolvePictograms(tokens []string, overrides PictogramOverrides) []ResolvedPictogram {
	out := make([]ResolvedPictogram, 0, len(tokens))
	seen := make(map[PictogramCode]bool, len(tokens))
	for _, token := range tokens {
		code, ok := ClassifyPictogram(token)
		if !ok || seen[code] {
			continue
		}
		ref, source, ok := PictogramImage(code, overrides)
		if !ok {
			continue
		}
		seen[code] = true

		label := string(code)
		if p, found := LookupPictogram(code); found {
			label = p.Label
		}
		out = append(out, ResolvedPictogram{
			Code:     code,
			Label:    label,
			ImageURL: ref,
			Source:   source,
		})
	}
	return out
}

package domain

// Placeholders substituted for missing text, per language.
const (
	PlaceholderJA = "記載なし"
	PlaceholderEN = "N/A"
	PlaceholderVI = "N/A"
)

// SafeText returns t with every empty language replaced by its placeholder.
// A nil t yields all placeholders.
func SafeText(t *MultilingualText) MultilingualText {
	if t == nil {
		return fillText(MultilingualText{})
	}
	return fillText(*t)
}

func fillText(t MultilingualText) MultilingualText {
	if t.JA == "" {
		t.JA = PlaceholderJA
	}
	if t.EN == "" {
		t.EN = PlaceholderEN
	}
	if t.VI == "" {
		t.VI = PlaceholderVI
	}
	return t
}

// AssembleRecord turns a raw extraction result into a record that is safe to
// present: every MultilingualText has all three languages. Ingredients and
// pictogram tokens pass through as-is (an empty slice when absent). It never
// fails; a nil raw yields a record made entirely of placeholders.
func AssembleRecord(raw *HazardRecord) HazardRecord {
	var r HazardRecord
	if raw != nil {
		r = *raw
	}

	out := HazardRecord{
		BasicInfo: BasicInfo{
			ProductName: fillText(r.BasicInfo.ProductName),
			CompanyName: fillText(r.BasicInfo.CompanyName),
		},
		Hazards: Hazards{
			GHSClass:                fillText(r.Hazards.GHSClass),
			GHSPictograms:           append([]string{}, r.Hazards.GHSPictograms...),
			HazardStatements:        fillText(r.Hazards.HazardStatements),
			PrecautionaryStatements: fillText(r.Hazards.PrecautionaryStatements),
		},
		Composition: Composition{
			Ingredients: make([]Ingredient, 0, len(r.Composition.Ingredients)),
		},
		FirstAid: FirstAid{
			Inhaled:   fillText(r.FirstAid.Inhaled),
			Skin:      fillText(r.FirstAid.Skin),
			Eyes:      fillText(r.FirstAid.Eyes),
			Swallowed: fillText(r.FirstAid.Swallowed),
		},
		Firefighting: Firefighting{
			ExtinguishingMedia: fillText(r.Firefighting.ExtinguishingMedia),
			Precautions:        fillText(r.Firefighting.Precautions),
		},
		HandlingStorage: HandlingStorage{
			Handling: fillText(r.HandlingStorage.Handling),
			Storage:  fillText(r.HandlingStorage.Storage),
		},
		Disposal: Disposal{
			Method: fillText(r.Disposal.Method),
		},
	}

	for _, ing := range r.Composition.Ingredients {
		out.Composition.Ingredients = append(out.Composition.Ingredients, Ingredient{
			Name:          fillText(ing.Name),
			Concentration: ing.Concentration,
		})
	}
	return out
}

package domain

import "time"

// MultilingualText carries the same content in Japanese, English and Vietnamese.
type MultilingualText struct {
	JA string `json:"ja" yaml:"ja"`
	EN string `json:"en" yaml:"en"`
	VI string `json:"vi" yaml:"vi"`
}

// In returns the text for the given language, or "" for an unknown language.
func (t MultilingualText) In(lang Language) string {
	switch lang {
	case LanguageJA:
		return t.JA
	case LanguageEN:
		return t.EN
	case LanguageVI:
		return t.VI
	default:
		return ""
	}
}

// BasicInfo identifies the product and its supplier.
type BasicInfo struct {
	ProductName MultilingualText `json:"productName" yaml:"productName"`
	CompanyName MultilingualText `json:"companyName" yaml:"companyName"`
}

// Hazards summarizes the GHS classification. GHSPictograms holds the raw
// tokens emitted by the extraction backend; they are untrusted free text and
// must go through ClassifyPictogram before lookup.
type Hazards struct {
	GHSClass                MultilingualText `json:"ghsClass" yaml:"ghsClass"`
	GHSPictograms           []string         `json:"ghsPictograms" yaml:"ghsPictograms"`
	HazardStatements        MultilingualText `json:"hazardStatements" yaml:"hazardStatements"`
	PrecautionaryStatements MultilingualText `json:"precautionaryStatements" yaml:"precautionaryStatements"`
}

// Ingredient is a single entry of the composition table.
type Ingredient struct {
	Name          MultilingualText `json:"name" yaml:"name"`
	Concentration string           `json:"concentration" yaml:"concentration"`
}

// Composition lists the declared ingredients in document order.
type Composition struct {
	Ingredients []Ingredient `json:"ingredients" yaml:"ingredients"`
}

// FirstAid holds the measures per exposure route.
type FirstAid struct {
	Inhaled   MultilingualText `json:"inhaled" yaml:"inhaled"`
	Skin      MultilingualText `json:"skin" yaml:"skin"`
	Eyes      MultilingualText `json:"eyes" yaml:"eyes"`
	Swallowed MultilingualText `json:"swallowed" yaml:"swallowed"`
}

// Measure returns the first-aid text for a category. The second return value
// is false only for a category outside FirstAidCategories.
func (f FirstAid) Measure(category FirstAidCategory) (MultilingualText, bool) {
	switch category {
	case FirstAidInhaled:
		return f.Inhaled, true
	case FirstAidSkin:
		return f.Skin, true
	case FirstAidEyes:
		return f.Eyes, true
	case FirstAidSwallowed:
		return f.Swallowed, true
	default:
		return MultilingualText{}, false
	}
}

// Firefighting covers extinguishing media and fire precautions.
type Firefighting struct {
	ExtinguishingMedia MultilingualText `json:"extinguishingMedia" yaml:"extinguishingMedia"`
	Precautions        MultilingualText `json:"precautions" yaml:"precautions"`
}

// HandlingStorage covers safe handling and storage conditions.
type HandlingStorage struct {
	Handling MultilingualText `json:"handling" yaml:"handling"`
	Storage  MultilingualText `json:"storage" yaml:"storage"`
}

// Disposal covers waste treatment.
type Disposal struct {
	Method MultilingualText `json:"method" yaml:"method"`
}

// HazardRecord is the structured summary extracted from one safety data sheet.
// It lives only in memory for the duration of a session and is never persisted.
type HazardRecord struct {
	BasicInfo       BasicInfo       `json:"basicInfo" yaml:"basicInfo"`
	Hazards         Hazards         `json:"hazards" yaml:"hazards"`
	Composition     Composition     `json:"composition" yaml:"composition"`
	FirstAid        FirstAid        `json:"firstAid" yaml:"firstAid"`
	Firefighting    Firefighting    `json:"firefighting" yaml:"firefighting"`
	HandlingStorage HandlingStorage `json:"handlingStorage" yaml:"handlingStorage"`
	Disposal        Disposal        `json:"disposal" yaml:"disposal"`
}

// PictogramOverride records a custom image that replaces the default artwork
// for one pictogram code.
type PictogramOverride struct {
	Code        PictogramCode `db:"code" json:"code"`
	S3Bucket    string        `db:"s3_bucket" json:"-"`
	S3Key       string        `db:"s3_key" json:"-"`
	ContentType string        `db:"content_type" json:"content_type"`
	FileSize    int64         `db:"file_size" json:"file_size"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// Clone returns a copy of r that shares no slices with it.
func (r HazardRecord) Clone() HazardRecord {
	out := r
	if r.Hazards.GHSPictograms != nil {
		out.Hazards.GHSPictograms = append([]string(nil), r.Hazards.GHSPictograms...)
	}
	if r.Composition.Ingredients != nil {
		out.Composition.Ingredients = append([]Ingredient(nil), r.Composition.Ingredients...)
	}
	return out
}

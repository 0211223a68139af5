package domain

// Language identifies one of the three languages every text field is produced in.
type Language string

const (
	LanguageJA Language = "ja"
	LanguageEN Language = "en"
	LanguageVI Language = "vi"
)

// Languages lists the supported languages in display order.
func Languages() []Language {
	return []Language{LanguageJA, LanguageEN, LanguageVI}
}

// FirstAidCategory enumerates the exposure routes covered by the first-aid section.
type FirstAidCategory string

const (
	FirstAidInhaled   FirstAidCategory = "inhaled"
	FirstAidSkin      FirstAidCategory = "skin"
	FirstAidEyes      FirstAidCategory = "eyes"
	FirstAidSwallowed FirstAidCategory = "swallowed"
)

// FirstAidCategories lists every first-aid category in poster order.
func FirstAidCategories() []FirstAidCategory {
	return []FirstAidCategory{FirstAidInhaled, FirstAidSkin, FirstAidEyes, FirstAidSwallowed}
}

// Title returns the trilingual heading for the category.
func (c FirstAidCategory) Title() MultilingualText {
	switch c {
	case FirstAidInhaled:
		return MultilingualText{JA: "吸入した場合", EN: "If inhaled", VI: "Nếu hít phải"}
	case FirstAidSkin:
		return MultilingualText{JA: "皮膚に付着した場合", EN: "On skin contact", VI: "Nếu dính vào da"}
	case FirstAidEyes:
		return MultilingualText{JA: "眼に入った場合", EN: "On eye contact", VI: "Nếu dính vào mắt"}
	case FirstAidSwallowed:
		return MultilingualText{JA: "飲み込んだ場合", EN: "If swallowed", VI: "Nếu nuốt phải"}
	default:
		return MultilingualText{JA: string(c), EN: string(c), VI: string(c)}
	}
}

// AllowedDocumentTypes are the MIME types the extraction backends accept for SDS uploads.
var AllowedDocumentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/heic":      true,
	"image/heif":      true,
}

// AllowedPictogramImageTypes maps accepted custom pictogram MIME types to a file extension.
var AllowedPictogramImageTypes = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/gif":     ".gif",
}

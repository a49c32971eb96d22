package model

// Tag is a bilingual media label users attach to uploads.
type Tag struct {
	ID           int64  `json:"id"`
	NameEn       string `json:"name"`
	NameRu       string `json:"nameRu,omitempty"`
	HelpTextEn   string `json:"help_text"`
	HelpTextRu   string `json:"helpTextRu,omitempty"`
	UserWhoAdded int64  `json:"-"`
}

// TagCreateRequest is the API request body for adding a tag.
type TagCreateRequest struct {
	NameEn     string `json:"name"`
	NameRu     string `json:"nameRu"`
	HelpTextEn string `json:"helpText"`
	HelpTextRu string `json:"helpTextRu"`
}

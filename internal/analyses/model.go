package analyses

// Analysis is the structured summary of a résumé for one position.
type Analysis struct {
	Position   string   `json:"position"`
	Skills     []string `json:"skills"`
	Experience []string `json:"experience"`
	Education  []string `json:"education"`
	Summary    string   `json:"summary"`
}

// Input carries either pasted résumé text or an uploaded file. The file wins
// when both are present.
type Input struct {
	ResumeText string
	Position   string
	File       *Upload
}

// Upload is a résumé file received over HTTP.
type Upload struct {
	FileName string
	MimeType string
	Data     []byte
}

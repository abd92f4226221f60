package models

// Word is a single recognized token with its start offset in milliseconds.
type Word struct {
	Text  string `json:"text"`
	Start int64  `json:"start"`
}

// Transcript is the full text plus word-level timing returned by a provider.
type Transcript struct {
	Text  string `json:"text"`
	Words []Word `json:"words"`
}

// FormattedLine is one timestamped sentence of a formatted transcript.
type FormattedLine struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

// String renders the line the way it appears in formatted_text.
func (l FormattedLine) String() string {
	return l.Timestamp + " " + l.Text
}

// TranscribeResponse is returned by both transcription endpoints.
type TranscribeResponse struct {
	Text          string `json:"text"`
	FormattedText string `json:"formatted_text"`
}

// TranscribeURLRequest defines the JSON body for transcribing remote audio.
type TranscribeURLRequest struct {
	URL      string `json:"url" validate:"required,http_url"`
	Language string `json:"language" validate:"omitempty,langcode"`
}

// ErrorResponse documents the error body shape for the API docs.
type ErrorResponse struct {
	Status string `json:"status" example:"error"`
	Detail string `json:"detail" example:"Transcription failed: invalid audio"`
}

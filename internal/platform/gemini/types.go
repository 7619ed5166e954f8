package gemini

// promptData represents the data passed to the prompt template
type promptData struct {
	Text string
}

// ResponseSchema represents the expected structure of a model reply
type ResponseSchema struct {
	// Pairs is the array of question/answer pairs found in the text
	Pairs []PairSchema `json:"pairs"`
}

// PairSchema represents a single pair in the API response
type PairSchema struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

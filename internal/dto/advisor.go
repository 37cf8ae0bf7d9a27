package dto

// AskRequest is the body of POST /advisor/ask.
type AskRequest struct {
	Question string `json:"question" binding:"required,max=1000"`
}

// ParseReceiptRequest is the body of POST /receipts/parse.
type ParseReceiptRequest struct {
	Text string `json:"text" binding:"required,max=20000"`
}

// ImportResponse reports a CSV import.
type ImportResponse struct {
	Imported int `json:"imported"`
}

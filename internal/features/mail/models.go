package mail

// Message is a plain-text email waiting in the outbox.
type Message struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Text     string `json:"text"`
	Attempts int    `json:"attempts"`
}

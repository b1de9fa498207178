package advisor

// Request captures the payload accepted by the chat advisor.
type Request struct {
	Message             string    `json:"message"`
	ConversationHistory []Message `json:"conversationHistory"`
	UserProfile         Profile   `json:"userProfile"`
}

// Message is one prior turn of the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Profile is optional traveller context.
type Profile struct {
	Name        string   `json:"name"`
	Destination string   `json:"destination"`
	Budget      string   `json:"budget"`
	Group       string   `json:"group"`
	Interests   []string `json:"interests"`
}

// Response is serialized back to API consumers.
type Response struct {
	Success     bool     `json:"success"`
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions"`
	AIPowered   bool     `json:"ai_powered"`
}

// Config wires runtime limits of the advisor.
type Config struct {
	HistoryTurns   int
	MaxSuggestions int
	MaxMessageLen  int
}

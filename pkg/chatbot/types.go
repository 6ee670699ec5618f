package chatbot

// Generation is one backend generation event: several alternative answers
// for a single user turn, sharing one answer id. The answer id stays valid
// until the user picks a candidate or discards the whole set.
type Generation struct {
	Messages []string `json:"messages"`
	AnswerID string   `json:"answer_id"`
}

// Turn is a single role-tagged entry of a user's conversation history.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"context"`
}

// User is the backend's user record.
type User struct {
	Context []Turn `json:"context"`
}

type createUserRequest struct {
	Username string `json:"username"`
	UserID   string `json:"user_id"`
	ChatID   string `json:"chat_id"`
}

type generateRequest struct {
	Text string `json:"text"`
}

type registerCandidatesRequest struct {
	PossibleContextsIDs []string `json:"possible_contexts_ids"`
}

type persistChoiceRequest struct {
	MessageID string `json:"message_id"`
}

type persistChoiceResponse struct {
	Text string `json:"text"`
}

type customAnswerRequest struct {
	MessageID  string `json:"message_id"`
	CustomText string `json:"custom_text"`
}

package model

type SendMessageRequest struct {
	PartyID string `json:"party_id"`
	Content string `json:"content"`
	ReplyTo int64  `json:"reply_to"`
}

type SendMessageResponse struct {
	Message Message `json:"message"`
}

type GetMessagesRequest struct {
	PartyID string `json:"party_id"`
	Before  int64  `json:"before"`
	Limit   int    `json:"limit"`
}

type GetMessagesResponse struct {
	Messages []Message `json:"messages"`
}

type DeleteMessageRequest struct {
	PartyID   string `json:"party_id"`
	MessageID int64  `json:"message_id"`
}

type DeleteMessageResponse struct{}

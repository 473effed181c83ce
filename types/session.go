package types

// ChatSession is one entry of the server-side session list.
type ChatSession struct {
	SessionID   string `json:"sessionId"`
	Name        string `json:"name"`
	LastMessage string `json:"lastMessage,omitempty"`
	LastAt      string `json:"lastAt,omitempty"`
	UnreadCount int    `json:"unreadCount"`
	IsPinned    bool   `json:"isPinned"`
	IsMuted     bool   `json:"isMuted"`
}

// ChatMessage is one message of a conversation page.
type ChatMessage struct {
	ID             string `json:"id"`
	SessionID      string `json:"sessionId"`
	SenderID       string `json:"senderId"`
	SenderName     string `json:"senderName"`
	Content        string `json:"content"`
	CreatedDate    string `json:"createdDate"`
	IsMine         bool   `json:"isMine"`
	UnreadByOthers int    `json:"unreadByOthers"`
	ReplyToID      string `json:"replyToId,omitempty"`
}

// Participant is one member of a conversation.
type Participant struct {
	UserID     string `json:"userId"`
	UserName   string `json:"userName"`
	LastReadAt string `json:"lastReadAt,omitempty"`
	IsMuted    bool   `json:"isMuted"`
	IsPinned   bool   `json:"isPinned"`
}

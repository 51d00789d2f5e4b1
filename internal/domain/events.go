package domain

// EventType discriminates payloads on the realtime channel.
type EventType string

const (
	EventJoin            EventType = "join"
	EventInitialMessages EventType = "initial_messages"
	EventNewMessage      EventType = "new_message"
	EventSentimentUpdate EventType = "sentiment_update"
	EventUserJoined      EventType = "user_joined"
	EventUserLeft        EventType = "user_left"
)

// Event is a server-to-client payload. Each concrete event carries its own
// type tag so the payload can be marshaled exactly once per broadcast.
type Event interface {
	Kind() EventType
}

// ClientEvent is the inbound client-to-server payload. Only join is
// understood today; anything else is logged and ignored.
type ClientEvent struct {
	Type     EventType `json:"type"`
	UserID   string    `json:"userId"`
	Username string    `json:"username"`
}

type InitialMessagesEvent struct {
	Type     EventType `json:"type"`
	Messages []Message `json:"messages"`
}

func (InitialMessagesEvent) Kind() EventType { return EventInitialMessages }

// NewInitialMessagesEvent builds the history snapshot sent to a joining
// connection. A nil history marshals as an empty array, not null.
func NewInitialMessagesEvent(messages []Message) InitialMessagesEvent {
	if messages == nil {
		messages = []Message{}
	}
	return InitialMessagesEvent{Type: EventInitialMessages, Messages: messages}
}

type NewMessageEvent struct {
	Type    EventType `json:"type"`
	Message Message   `json:"message"`
}

func (NewMessageEvent) Kind() EventType { return EventNewMessage }

func NewNewMessageEvent(message Message) NewMessageEvent {
	return NewMessageEvent{Type: EventNewMessage, Message: message}
}

type SentimentUpdateEvent struct {
	Type      EventType `json:"type"`
	MessageID int64     `json:"messageId"`
	Sentiment Sentiment `json:"sentiment"`
}

func (SentimentUpdateEvent) Kind() EventType { return EventSentimentUpdate }

func NewSentimentUpdateEvent(messageID int64, sentiment Sentiment) SentimentUpdateEvent {
	return SentimentUpdateEvent{Type: EventSentimentUpdate, MessageID: messageID, Sentiment: sentiment}
}

type UserJoinedEvent struct {
	Type        EventType `json:"type"`
	Username    string    `json:"username"`
	OnlineCount int       `json:"onlineCount"`
}

func (UserJoinedEvent) Kind() EventType { return EventUserJoined }

func NewUserJoinedEvent(username string, onlineCount int) UserJoinedEvent {
	return UserJoinedEvent{Type: EventUserJoined, Username: username, OnlineCount: onlineCount}
}

type UserLeftEvent struct {
	Type        EventType `json:"type"`
	Username    string    `json:"username"`
	OnlineCount int       `json:"onlineCount"`
}

func (UserLeftEvent) Kind() EventType { return EventUserLeft }

func NewUserLeftEvent(username string, onlineCount int) UserLeftEvent {
	return UserLeftEvent{Type: EventUserLeft, Username: username, OnlineCount: onlineCount}
}

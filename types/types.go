package types

const (
	USER_ROLE_ADMIN = "admin"
	USER_ROLE_USER  = "user"
)

const (
	TypeWebsocketPing  = "ping"
	TypeWebsocketPong  = "pong"
	TypeWebsocketChat  = "chat"
	TypeWebsocketError = "error"
)

type WebsocketRequest struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebsocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebsocketChatPayload struct {
	Message string `json:"message"`
}

type WebsocketErrorPayload struct {
	Message string `json:"message"`
}

// User is an account in the tenant directory. A user's documents are only
// ever visible to that user.
type User struct {
	ID       string `json:"id" bson:"_id,omitempty"`
	Username string `json:"username" bson:"username"`
	Password string `json:"password" bson:"password"`
	FullName string `json:"full_name" bson:"full_name"`
	Role     string `json:"role" bson:"role"`
	CreateAt int64  `json:"created_at" bson:"created_at"`
	UpdateAt int64  `json:"updated_at" bson:"updated_at"`
}

package types

type ChatRequest struct {
	Message string `json:"message"`
}

type CrawlRequest struct {
	URL string `json:"url"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type DeleteUserRequest struct {
	ID string `json:"id"`
}

type PaginateUserRequest struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
}

type DeleteDocumentRequest struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
}

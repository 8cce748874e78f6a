package types

type DataResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type ChatResponse struct {
	Response string   `json:"response"`
	Sources  []string `json:"sources"`
}

type IngestResponse struct {
	Status          string `json:"status"`
	Source          string `json:"source"`
	ChunksProcessed int    `json:"chunks_processed"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

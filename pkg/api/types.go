package api

// APIResponse is the standard JSON envelope for non-binary responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Bind   string
	Port   int
	Strict bool // strict codec policy for /decode and /encode
}

// Inventory is the store surface the handlers need; satisfied by
// *store.Store.
type Inventory interface {
	Create(data []byte) (string, error)
	Put(id string, data []byte) error
	Get(id string) ([]byte, error)
	Delete(id string) error
	List() ([]string, error)
}

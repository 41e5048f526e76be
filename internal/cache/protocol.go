package cache

// Simple JSON protocol for the cache daemon over a unix domain socket.
// One request -> one response using json.Encoder/Decoder per connection.

type Request struct {
	Op        string `json:"op"` // "get" | "put" | "delete" | "clearcat" | "stats"
	Key       string `json:"key,omitempty"`
	Value     []byte `json:"value,omitempty"`
	Category  string `json:"category,omitempty"`
	TTLMillis int64  `json:"ttl_millis,omitempty"`
}

type Response struct {
	OK    bool   `json:"ok"`
	Value []byte `json:"value,omitempty"`
	Stats *Stats `json:"stats,omitempty"`
	Error string `json:"error,omitempty"`
}

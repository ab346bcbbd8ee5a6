package config

type StorageConfig interface {
	GetTokenStore() string
	GetRedisAddr() string
	GetTabID() string
}

const (
	TokenStoreMemory = "memory"
	TokenStoreRedis  = "redis"
)

type Storage struct{}

var _ StorageConfig = Storage{}

// GetTokenStore selects the token repo: "memory" (default) or "redis".
func (Storage) GetTokenStore() string {
	return GetEnv("TOKEN_STORE", TokenStoreMemory)
}

func (Storage) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

// GetTabID returns a fixed tab id, or "" to generate one per process.
func (Storage) GetTabID() string {
	return GetEnv("TAB_ID", "")
}

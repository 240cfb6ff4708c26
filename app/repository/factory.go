package repository

import (
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	DriverRedis = "redis"
	DriverMySQL = "mysql"
)

// Factory selects and memoizes the configured lead store.
type Factory struct {
	driver string
	prefix string
	redis  *redis.Client
	db     *gorm.DB
	store  LeadStore
	once   sync.Once
}

// NewFactory creates a new repository factory. db may be nil unless driver is mysql.
func NewFactory(driver, prefix string, redisClient *redis.Client, db *gorm.DB) *Factory {
	return &Factory{
		driver: strings.ToLower(strings.TrimSpace(driver)),
		prefix: prefix,
		redis:  redisClient,
		db:     db,
	}
}

// GetLeadStore returns a singleton lead store for the configured driver
func (f *Factory) GetLeadStore() LeadStore {
	f.once.Do(func() {
		switch f.driver {
		case DriverMySQL:
			if f.db == nil {
				log.Warn("[Repository] LEAD_STORE=mysql without database, falling back to redis")
				f.store = NewRedisLeadStore(f.redis, f.prefix)
				return
			}
			f.store = NewGormLeadStore(f.db)
		default:
			f.store = NewRedisLeadStore(f.redis, f.prefix)
		}
	})
	return f.store
}

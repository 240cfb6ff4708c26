package session

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"

	"github.com/ManuelReschke/JobFox/internal/pkg/cache"
	"github.com/ManuelReschke/JobFox/internal/pkg/env"
)

var sessionStore *session.Store

func NewSessionStore() *session.Store {
	// Get Redis client configuration from existing cache setup
	cacheClient := cache.GetClient()
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	// Sessions live in database 1, leads and queues in the cache database
	storage := redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})

	return NewSessionStoreWithStorage(storage)
}

// NewSessionStoreWithStorage builds the store on any fiber storage; nil means in-memory.
func NewSessionStoreWithStorage(storage fiber.Storage) *session.Store {
	sessionStore = session.New(session.Config{
		Storage:        storage,
		CookieHTTPOnly: true,
		CookieSecure:   !env.IsDev() && env.GetEnvBool("COOKIE_SECURE", false),
		Expiration:     time.Hour * 24,
		KeyLookup:      "cookie:jobfox_session",
	})
	return sessionStore
}

func GetSessionStore() *session.Store {
	return sessionStore
}

// ID returns the session ID of the request, persisting a fresh session so the
// cookie reaches the browser.
func ID(c *fiber.Ctx) (string, error) {
	if sessionStore == nil {
		return "", fmt.Errorf("session store not initialized")
	}
	sess, err := sessionStore.Get(c)
	if err != nil {
		return "", fmt.Errorf("failed to get session: %v", err)
	}
	id := sess.ID()
	if sess.Fresh() {
		// Save releases the session, so the ID is read first
		sess.Set("started_at", time.Now().Unix())
		if err := sess.Save(); err != nil {
			return "", fmt.Errorf("failed to save session: %v", err)
		}
	}
	return id, nil
}

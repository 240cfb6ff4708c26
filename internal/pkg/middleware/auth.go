package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"golang.org/x/crypto/bcrypt"

	"github.com/ManuelReschke/JobFox/internal/pkg/env"
)

// Credentials is one operator login. Hash is a bcrypt hash of the password.
type Credentials struct {
	User string
	Hash string
}

// CredentialsFromEnv reads the user from userKey and the bcrypt hash from hashKey.
func CredentialsFromEnv(userKey, hashKey string) Credentials {
	return Credentials{
		User: env.GetEnv(userKey, "admin"),
		Hash: env.GetEnv(hashKey, ""),
	}
}

// HashPassword is used by operators to produce the *_PASSWORD_HASH values.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// RequireOperator guards operator pages with HTTP basic auth. Without a
// configured hash the pages stay open in dev and are refused otherwise.
func RequireOperator(creds Credentials) fiber.Handler {
	if creds.Hash == "" {
		if env.IsDev() {
			log.Warn("[Auth] No operator password configured, operator routes are open (dev)")
			return func(c *fiber.Ctx) error { return c.Next() }
		}
		log.Warn("[Auth] No operator password configured, operator routes are disabled")
		return func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusForbidden).SendString("Forbidden")
		}
	}

	return basicauth.New(basicauth.Config{
		Realm: "JobFox",
		Authorizer: func(user, pass string) bool {
			if user != creds.User {
				return false
			}
			return bcrypt.CompareHashAndPassword([]byte(creds.Hash), []byte(pass)) == nil
		},
	})
}

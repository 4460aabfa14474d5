package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ValidatePlatformSignature validates that a webhook request was signed
// by the messaging platform. The signature header carries a hex HMAC-SHA256
// of the raw request body keyed with the app secret.
func ValidatePlatformSignature() fiber.Handler {
	return func(c *fiber.Ctx) error {
		signature := c.Get("X-Hub-Signature-256")
		if signature == "" {
			return c.Status(401).JSON(fiber.Map{
				"error": "Missing signature",
			})
		}

		appSecret := os.Getenv("APP_SECRET")
		if appSecret == "" {
			// Log error but don't expose to client
			log.Println("ERROR: APP_SECRET not set")
			return c.Status(500).JSON(fiber.Map{
				"error": "Server configuration error",
			})
		}

		expected := calculateBodySignature(appSecret, c.Body())
		provided := strings.TrimPrefix(signature, "sha256=")

		if !hmac.Equal([]byte(provided), []byte(expected)) {
			return c.Status(401).JSON(fiber.Map{
				"error": "Invalid signature",
			})
		}

		return c.Next()
	}
}

// calculateBodySignature calculates the expected body signature
func calculateBodySignature(secret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

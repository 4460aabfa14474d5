package handlers

import (
	"encoding/json"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/siamware/chatshop-backend/internal/bot"
)

// WebhookHandler receives messaging-platform events
type WebhookHandler struct {
	engine *bot.Engine
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(engine *bot.Engine) *WebhookHandler {
	return &WebhookHandler{engine: engine}
}

// HandleVerify answers the platform's webhook subscription handshake
func (h *WebhookHandler) HandleVerify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == os.Getenv("WEBHOOK_VERIFY_TOKEN") {
		return c.SendString(challenge)
	}
	return c.SendStatus(fiber.StatusForbidden)
}

// webhookPayload is the platform's event envelope
type webhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		Messaging []messagingEvent `json:"messaging"`
	} `json:"entry"`
}

type messagingEvent struct {
	Sender struct {
		ID string `json:"id"`
	} `json:"sender"`
	Message *struct {
		IsEcho     bool   `json:"is_echo"`
		Text       string `json:"text"`
		QuickReply *struct {
			Payload string `json:"payload"`
		} `json:"quick_reply"`
		Attachments []struct {
			Type    string `json:"type"`
			Payload struct {
				URL string `json:"url"`
			} `json:"payload"`
		} `json:"attachments"`
	} `json:"message"`
	Postback *struct {
		Payload string `json:"payload"`
	} `json:"postback"`
	Delivery json.RawMessage `json:"delivery"`
	Read     json.RawMessage `json:"read"`
}

// HandleWebhook processes incoming messaging events
func (h *WebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	var payload webhookPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	if payload.Object != "page" {
		return c.SendStatus(fiber.StatusNotFound)
	}

	for _, entry := range payload.Entry {
		for _, msg := range entry.Messaging {
			h.engine.HandleEvent(toEvent(msg))
		}
	}

	// Acknowledge webhook receipt
	return c.SendStatus(fiber.StatusOK)
}

// toEvent normalizes one platform event for the engine
func toEvent(msg messagingEvent) bot.Event {
	ev := bot.Event{SenderID: msg.Sender.ID}

	if msg.Delivery != nil || msg.Read != nil {
		ev.IsReceipt = true
		return ev
	}
	if msg.Postback != nil {
		ev.IsPostback = true
		ev.Payload = msg.Postback.Payload
		return ev
	}
	if msg.Message != nil {
		ev.IsEcho = msg.Message.IsEcho
		ev.Text = msg.Message.Text
		if msg.Message.QuickReply != nil {
			ev.IsQuickReply = true
			ev.Payload = msg.Message.QuickReply.Payload
		}
		for _, att := range msg.Message.Attachments {
			if att.Type == "image" && att.Payload.URL != "" {
				ev.AttachmentURL = att.Payload.URL
				break
			}
		}
	}
	return ev
}

// TestWebhookPayload is a simplified payload for development testing
type TestWebhookPayload struct {
	From    string `json:"from"`
	Message string `json:"message"`
	Payload string `json:"payload"`
}

// HandleTestWebhook processes test messages (for development)
func (h *WebhookHandler) HandleTestWebhook(c *fiber.Ctx) error {
	var payload TestWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test payload",
		})
	}

	log.Printf("🧪 Test webhook from %s: %q (payload %q)", payload.From, payload.Message, payload.Payload)

	h.engine.HandleEvent(bot.Event{
		SenderID:     payload.From,
		Text:         payload.Message,
		Payload:      payload.Payload,
		IsQuickReply: payload.Payload != "",
	})

	return c.JSON(fiber.Map{"success": true})
}

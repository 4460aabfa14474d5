package services

// Message payload builders for the messaging platform's Send API.
// The platform caps quick replies at 11 choices and carousels at 10
// cards; builders truncate rather than fail so a long catalog degrades
// to "show more" style paging instead of a delivery error.

const (
	// MaxQuickReplies is the platform's cap on choices per prompt.
	MaxQuickReplies = 11
	// MaxCarouselCards is the platform's cap on cards per carousel.
	MaxCarouselCards = 10
	// MaxCardButtons is the platform's cap on buttons per card.
	MaxCardButtons = 3
)

// Message is one outbound message payload.
type Message struct {
	Text         string       `json:"text,omitempty"`
	QuickReplies []QuickReply `json:"quick_replies,omitempty"`
	Attachment   *Attachment  `json:"attachment,omitempty"`
}

// QuickReply is a suggested-reply choice attached to a message.
type QuickReply struct {
	ContentType string `json:"content_type"`
	Title       string `json:"title,omitempty"`
	Payload     string `json:"payload,omitempty"`
}

// Attachment wraps a structured template (carousel).
type Attachment struct {
	Type    string            `json:"type"`
	Payload AttachmentPayload `json:"payload"`
}

// AttachmentPayload holds the template body.
type AttachmentPayload struct {
	TemplateType string         `json:"template_type,omitempty"`
	Elements     []CarouselCard `json:"elements,omitempty"`
}

// CarouselCard is one card in a carousel template.
type CarouselCard struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	Buttons  []Button `json:"buttons,omitempty"`
}

// Button is a postback button on a carousel card.
type Button struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Payload string `json:"payload,omitempty"`
}

// TextMessage builds a plain text message.
func TextMessage(text string) Message {
	return Message{Text: text}
}

// Choice builds one text quick reply.
func Choice(title string, payload string) QuickReply {
	return QuickReply{ContentType: "text", Title: title, Payload: payload}
}

// QuickReplyMessage builds a text message with quick-reply choices,
// truncated to the platform cap.
func QuickReplyMessage(text string, choices ...QuickReply) Message {
	if len(choices) > MaxQuickReplies {
		choices = choices[:MaxQuickReplies]
	}
	return Message{Text: text, QuickReplies: choices}
}

// PhoneRequestMessage builds the structured "share phone" prompt.
func PhoneRequestMessage(text string) Message {
	return Message{
		Text:         text,
		QuickReplies: []QuickReply{{ContentType: "user_phone_number"}},
	}
}

// PostbackButton builds a fixed-payload button.
func PostbackButton(title string, payload string) Button {
	return Button{Type: "postback", Title: title, Payload: payload}
}

// CarouselMessage builds a card carousel, truncated to the platform caps.
func CarouselMessage(cards ...CarouselCard) Message {
	if len(cards) > MaxCarouselCards {
		cards = cards[:MaxCarouselCards]
	}
	for i := range cards {
		if len(cards[i].Buttons) > MaxCardButtons {
			cards[i].Buttons = cards[i].Buttons[:MaxCardButtons]
		}
	}
	return Message{
		Attachment: &Attachment{
			Type: "template",
			Payload: AttachmentPayload{
				TemplateType: "generic",
				Elements:     cards,
			},
		},
	}
}

package prompts

import (
	"fmt"
	"strings"
)

const FallbackPrompt = `You are a helpful, friendly %s supermarket assistant.
User asked: "%s"
We couldn't find specific data about this in our inventory or FAQs.

Please provide a helpful response. You can:
- Suggest products we might have
- Provide general shopping or grocery tips
- Answer general questions about shopping
- Suggest they visit our store for specific items
- Be conversational and helpful

Keep your response friendly, helpful, and under 80 words.
Use emojis where appropriate to make it engaging.`

// FallbackMessage is shown whenever the generated reply is unavailable.
const FallbackMessage = "I'd be happy to help! 😊\n\nI can assist you with:\n• Product locations and prices\n• Store timings\n• Payment methods\n• Return policy\n• Delivery options\n\nCould you tell me a bit more about what you're looking for?"

const ClarifyMessage = "🤔 Could you tell me a little more? Try a product name like \"milk\" or ask about store hours, payments or returns."

const ThinkingMessage = "🤔 Let me check that for you..."

func WelcomeMessage(storeName string) string {
	return fmt.Sprintf("Hello! 👋 I'm your %s AI assistant. I can help you find products, answer questions about our store, and assist with any queries you have!\n\n💡 Try asking:\n• Where is Men Cotton T-Shirt?\n• Store timings?\n• Return policy?\n• What vegetables do you have?", storeName)
}

func BuildFallbackPrompt(storeName, userText string) string {
	return fmt.Sprintf(FallbackPrompt, storeName, userText)
}

func FAQSummary(answer string) string {
	return "✅ " + answer
}

func ProductSummary(count int, userText string) string {
	return fmt.Sprintf("I found %d item(s) for %q:", count, strings.TrimSpace(userText))
}

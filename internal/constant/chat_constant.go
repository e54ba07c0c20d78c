package constant

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "assistant"
)

// Apology shown whenever the recommendation pipeline short-circuits. The
// formatter must never produce anything else on a failed run.
const RecommendationApology = "I apologize, but I encountered an issue searching for products. " +
	"Could you please rephrase your request or try browsing our categories?"

// Fallback when an agent fails entirely and no partial answer exists.
const GenericAgentApology = "I apologize, but I encountered an error. How else can I help you?"

const PurchaseAgentApology = "I apologize, but I'm having trouble processing your purchase request.\n\n" +
	"Could you please specify which product you'd like to purchase? " +
	"You can say something like 'I want to buy the [product name]' or " +
	"'Add [product name] to cart'."

const ComplaintAgentApology = "I sincerely apologize for the inconvenience. I'm having trouble processing your complaint right now.\n\n" +
	"Please provide:\n" +
	"1. Your Order ID (format: order_xxxxx)\n" +
	"2. Description of the issue\n\n" +
	"I'll make sure your concern is addressed immediately."

const EmptyResponseFallback = "I apologize, but I couldn't complete your request. " +
	"Please try rephrasing or let me know how I can help!"

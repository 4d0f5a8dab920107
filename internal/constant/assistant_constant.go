package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// Fixed oversampling pool for the retrieve-then-rerank pipeline. The
	// vector index always returns up to this many candidates regardless of
	// the caller's topK; reranking decides the final order.
	RetrievalPoolSize = 20

	// Fallback answer when the classification backend is unreachable. The
	// gate fails closed with this text instead of forwarding an
	// unclassified query downstream.
	GateUnavailableFallback = "I could not understand your request right now. Please rephrase your question and try again."

	// Fallback answer when no tool is available at all.
	GateNoToolsFallback = "No assistant capabilities are currently available. Please try again later."
)

// Topic values accepted by the retrieval metadata filter.
const (
	TopicPollution = "pollution"
	TopicHealth    = "health"
	TopicClimate   = "climate"
	TopicDisaster  = "disaster"
)

// Country values accepted by the retrieval metadata filter.
const (
	CountryGlobal = "global"
	CountryIndia  = "india"
)

// ToolCatalog maps every tool the downstream agent can invoke to a
// natural-language capability description. The gate classifies intent
// against these descriptions.
var ToolCatalog = map[string]string{
	"rag_query":                "Query air pollution, health, climate or disaster related information from WHO and India policy documents.",
	"data_analysis":            "Perform time-series analysis on a CSV file and save the results to the shared folder.",
	"data_visualization":       "Plot graphs from a CSV file and save them to the shared folder.",
	"weather_lookup":           "Get current weather conditions for a city mentioned in the query.",
	"nearby_places":            "Find nearby places such as hospitals, police stations or pharmacies around a given location.",
	"environmental_data_fetch": "Fetch historical environmental data for a place and date range and store it as CSV in the shared folder.",
}

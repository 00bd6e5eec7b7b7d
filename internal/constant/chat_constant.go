package constant

const (
	// Storage buckets
	BucketChatUploads   = "chat-uploads"
	BucketProviderLogos = "provider-logos"

	// Feed tables
	TableConversations = "conversations"
	TableMessages      = "messages"
	TableProviders     = "providers"

	// Watermill topic carrying freshly stored client messages to the
	// auto-reply worker.
	TopicClientMessages = "CLIENT_MESSAGES"

	// Redis channel bridging hub instances.
	FeedClusterChannel = "cluster_feed"
)

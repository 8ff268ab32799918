package config

import "time"

const (
	// MaxTokens is the context window of the large summary model.
	MaxTokens = 16385

	// LargeModelThreshold is the context window of the standard model.
	// Conversations above it are sent to the large model.
	LargeModelThreshold = 4097

	// TitleKeywordRetries is how many extra attempts title/keyword
	// extraction gets when the model ignores the output format.
	TitleKeywordRetries = 2

	// DefaultFanOutLimit bounds concurrent detail fetches per request.
	// A list page is at most MaxTake ids, so this mostly protects the upstream API.
	DefaultFanOutLimit = 10

	// DefaultThrottleLimit and DefaultThrottleWindow define the fixed window
	// applied to summary endpoints per caller.
	DefaultThrottleLimit  = 4
	DefaultThrottleWindow = 60 * time.Second

	// MaxLogFiles is how many server log files are kept in LOG_DIR.
	MaxLogFiles = 10
)

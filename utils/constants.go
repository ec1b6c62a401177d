// File: utils/constants.go
package utils

import "time"

// ConversationStatePrefix is the prefix used for Redis conversation state keys.
const ConversationStatePrefix = "convstate:"

// WidgetConfigCachePrefix is the prefix for cached widget configuration.
const WidgetConfigCachePrefix = "widgetcfg:"

// WidgetConfigCacheTTL is the time-to-live for cached widget configuration.
const WidgetConfigCacheTTL = 10 * time.Minute

package redis

const (
	// KeyPrefixBookmark is the prefix for bookmark record keys
	KeyPrefixBookmark = "hoard:bookmark:"
	// KeyPrefixUserBookmarks is the prefix for per-user bookmark id sets
	KeyPrefixUserBookmarks = "hoard:user:bookmarks:"
	// KeyPrefixURLIndex is the prefix for per-user normalized-URL -> id hashes
	KeyPrefixURLIndex = "hoard:user:urls:"
	// KeyPrefixURLOwners is the prefix for normalized-URL -> owning bookmark id sets
	KeyPrefixURLOwners = "hoard:url:"

	// KeyPrefixTag is the prefix for tag record keys
	KeyPrefixTag = "hoard:tag:"
	// KeyPrefixTagCount is the prefix for atomic tag usage counters
	KeyPrefixTagCount = "hoard:tag:count:"
	// KeyTagNames is the hash mapping lower-cased tag names to tag ids
	KeyTagNames = "hoard:tags:names"
	// KeyPrefixBookmarkTags is the prefix for bookmark -> tag link hashes
	KeyPrefixBookmarkTags = "hoard:bookmark:tags:"

	// KeyPrefixInsight is the prefix for per-bookmark insight records
	KeyPrefixInsight = "hoard:insight:"

	// KeyPrefixNotes is the prefix for per-bookmark note lists
	KeyPrefixNotes = "hoard:notes:"
	// KeyPrefixHighlights is the prefix for per-bookmark highlight lists
	KeyPrefixHighlights = "hoard:highlights:"
	// KeyPrefixScreenshots is the prefix for per-bookmark screenshot lists
	KeyPrefixScreenshots = "hoard:screenshots:"

	// KeyActivities is the global append-only activity list
	KeyActivities = "hoard:activities:all"
	// KeyPrefixUserActivities is the prefix for per-user activity lists
	KeyPrefixUserActivities = "hoard:user:activities:"

	// anonPartition keys anonymous bookmarks in per-user indexes
	anonPartition = "~anon"
)

func userPartition(userID string) string {
	if userID == "" {
		return anonPartition
	}
	return userID
}

// BookmarkKey returns the Redis key for a bookmark record
func BookmarkKey(id string) string {
	return KeyPrefixBookmark + id
}

// UserBookmarksKey returns the key for a user's bookmark id set
func UserBookmarksKey(userID string) string {
	return KeyPrefixUserBookmarks + userPartition(userID)
}

// URLIndexKey returns the key for a user's normalized-URL index hash
func URLIndexKey(userID string) string {
	return KeyPrefixURLIndex + userPartition(userID)
}

// URLOwnersKey returns the key for the set of bookmark ids saved under a
// normalized URL, across all users
func URLOwnersKey(normalizedURL string) string {
	return KeyPrefixURLOwners + normalizedURL
}

// TagKey returns the Redis key for a tag record
func TagKey(id string) string {
	return KeyPrefixTag + id
}

// TagCountKey returns the key for a tag's atomic usage counter
func TagCountKey(id string) string {
	return KeyPrefixTagCount + id
}

// BookmarkTagsKey returns the key for a bookmark's tag link hash
func BookmarkTagsKey(bookmarkID string) string {
	return KeyPrefixBookmarkTags + bookmarkID
}

// InsightKey returns the Redis key for a bookmark's insight record
func InsightKey(bookmarkID string) string {
	return KeyPrefixInsight + bookmarkID
}

// NotesKey returns the key for a bookmark's note list
func NotesKey(bookmarkID string) string {
	return KeyPrefixNotes + bookmarkID
}

// HighlightsKey returns the key for a bookmark's highlight list
func HighlightsKey(bookmarkID string) string {
	return KeyPrefixHighlights + bookmarkID
}

// ScreenshotsKey returns the key for a bookmark's screenshot list
func ScreenshotsKey(bookmarkID string) string {
	return KeyPrefixScreenshots + bookmarkID
}

// UserActivitiesKey returns the key for a user's activity list
func UserActivitiesKey(userID string) string {
	return KeyPrefixUserActivities + userPartition(userID)
}

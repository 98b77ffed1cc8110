package socialapi

import "regexp"

var (
	communityURLRe = regexp.MustCompile(`(?i)^https?://(?:[a-z0-9-]+\.)?reddit\.com/r/([^/?#]+)`)
	threadPathRe   = regexp.MustCompile(`/comments/([0-9a-z]+)`)
)

// threadKindPrefix marks an explicit thread-post identifier ("fullname")
// as carried in community feed guids.
const threadKindPrefix = "t3_"

// IsCommunityFeedURL reports whether u points at a community feed.
func IsCommunityFeedURL(u string) bool {
	return communityURLRe.MatchString(u)
}

// CommunityFromURL extracts the community name from a community feed URL,
// or "" when u is not one.
func CommunityFromURL(u string) string {
	m := communityURLRe.FindStringSubmatch(u)
	if m == nil {
		return ""
	}
	return m[1]
}

// ThreadID resolves a thread-post identifier, preferring an explicit
// prefixed identifier over deriving one from the permalink. The
// derivation assumes the /comments/<id>/ path shape and is best effort.
func ThreadID(explicit, permalink string) string {
	if len(explicit) > len(threadKindPrefix) && explicit[:len(threadKindPrefix)] == threadKindPrefix {
		return explicit
	}
	m := threadPathRe.FindStringSubmatch(permalink)
	if m == nil {
		return ""
	}
	return m[1]
}

package custom

import "strings"

// MentionKind is the kind of entity a mention refers to.
type MentionKind int

const (
	// MentionRole is a role mention, e.g. <@&123>.
	MentionRole MentionKind = iota

	// MentionUser is a user mention, e.g. <@123> or <@!123>.
	MentionUser

	// MentionID is a raw snowflake with no mention syntax. The caller decides
	// whether it refers to a role or a user.
	MentionID
)

// ParseMention parses a Discord mention or raw snowflake ID. It returns the
// kind, the ID, and whether the input could be parsed.
func ParseMention(item string) (MentionKind, string, bool) {
	item = strings.TrimSpace(item)
	if item == "" {
		return 0, "", false
	}

	switch {
	case strings.HasPrefix(item, "<@&") && strings.HasSuffix(item, ">"):
		id := item[3 : len(item)-1]
		if !isSnowflake(id) {
			return 0, "", false
		}
		return MentionRole, id, true
	case strings.HasPrefix(item, "<@!") && strings.HasSuffix(item, ">"):
		id := item[3 : len(item)-1]
		if !isSnowflake(id) {
			return 0, "", false
		}
		return MentionUser, id, true
	case strings.HasPrefix(item, "<@") && strings.HasSuffix(item, ">"):
		id := item[2 : len(item)-1]
		if !isSnowflake(id) {
			return 0, "", false
		}
		return MentionUser, id, true
	case isSnowflake(item):
		return MentionID, item, true
	default:
		return 0, "", false
	}
}

// ParseMentionList parses a comma separated list of mentions or IDs. Entries
// that cannot be parsed are skipped, matching how lenient the setup command
// should be with hand typed input.
func ParseMentionList(raw string) (roleIDs, userIDs []string) {
	for _, item := range strings.Split(raw, ",") {
		kind, id, ok := ParseMention(item)
		if !ok {
			continue
		}

		switch kind {
		case MentionRole:
			roleIDs = append(roleIDs, id)
		case MentionUser, MentionID:
			userIDs = append(userIDs, id)
		}
	}
	return roleIDs, userIDs
}

func isSnowflake(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

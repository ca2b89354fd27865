// Package naming converts source repository names into GitHub-compliant
// repository names and topics.
package naming

import (
	"strings"
	"unicode"

	"github.com/spiffcs/bbmigrate/internal/model"
)

// Slug converts a repository name into a lower-case, hyphen-delimited slug.
// Underscores become hyphens and camel-case boundaries start new segments.
// A run of upper-case letters is kept as one segment, so "ServiceAPI" gives
// "service-api" and "APIServer" gives "api-server".
func Slug(name string) string {
	name = strings.ReplaceAll(name, "_", "-")

	var segments []string
	runes := []rune(name)
	start := 0
	for i := 1; i < len(runes); i++ {
		if !unicode.IsUpper(runes[i]) {
			continue
		}
		prev := runes[i-1]
		nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
			segments = append(segments, string(runes[start:i]))
			start = i
		}
	}
	segments = append(segments, string(runes[start:]))

	for i, s := range segments {
		segments[i] = strings.ToLower(s)
	}
	return sanitize(strings.Join(segments, "-"), isNameRune)
}

// maxTopicLength is the longest topic GitHub accepts.
const maxTopicLength = 50

// isNameRune reports whether r may appear in a GitHub repository name.
func isNameRune(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.')
}

// isTopicRune reports whether r may appear in a GitHub topic.
func isTopicRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
}

// sanitize replaces every rune rejected by valid with a hyphen and
// collapses the result ("core platform" -> "core-platform").
func sanitize(s string, valid func(rune) bool) string {
	return collapseHyphens(strings.Map(func(r rune) rune {
		if valid(r) {
			return r
		}
		return '-'
	}, s))
}

// collapseHyphens squeezes runs of hyphens left by consecutive separators
// ("Some__Name" -> "some-name").
func collapseHyphens(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastHyphen := false
	for _, r := range s {
		if r == '-' {
			if lastHyphen {
				continue
			}
			lastHyphen = true
		} else {
			lastHyphen = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DestinationName returns the destination repository name for a source
// repository, prefixed with the upper-cased project name when one is given.
func DestinationName(name, project string) string {
	slug := Slug(name)
	prefix := strings.Trim(sanitize(strings.ToUpper(project), isNameRune), "-")
	if prefix == "" {
		return slug
	}
	return prefix + "-" + slug
}

// Topic returns the repository topic derived from the project name: lower
// case letters, digits and single hyphens, starting with a letter or digit
// and at most 50 characters. It is empty when there is no project or no
// valid character in it.
func Topic(project string) string {
	topic := strings.Trim(sanitize(strings.ToLower(project), isTopicRune), "-")
	if len(topic) > maxTopicLength {
		topic = strings.TrimRight(topic[:maxTopicLength], "-")
	}
	return topic
}

// Target derives the migration target for a listed repository.
func Target(repo model.RepositoryDescriptor) model.MigrationTarget {
	return model.MigrationTarget{
		SourceName:      repo.Name,
		DestinationName: DestinationName(repo.Name, repo.ProjectName),
		DefaultBranch:   repo.DefaultBranch,
		Topic:           Topic(repo.ProjectName),
	}
}

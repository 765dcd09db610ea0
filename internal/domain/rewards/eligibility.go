package rewards

import "strings"

// minValidCommentLength is the comment length that on its own makes a
// review a real contribution.
const minValidCommentLength = 20

// ContentInput is what the validity check looks at.
type ContentInput struct {
	Comment   string
	Tags      []string
	HasRating bool
}

// ContentValid reports whether a review counts as a contribution at all.
// Any one of a substantial comment, a tag, or a rating qualifies. Ratings
// are mandatory at the API boundary, so this is mostly a safety net.
func ContentValid(in ContentInput) bool {
	if len(strings.TrimSpace(in.Comment)) >= minValidCommentLength {
		return true
	}
	if len(in.Tags) > 0 {
		return true
	}
	return in.HasRating
}

// Classify decides which contribution type a review earns, if any.
// reviewCount is the author's review count including the one being
// evaluated. Pure: same inputs, same answer, no side effects.
//
//	count == 1  -> first_review
//	count >= 3  -> milestone_achievement
//	otherwise   -> no card
//
// community_approval is never decided here; it reacts to helpful votes,
// not to review creation.
func Classify(contentValid bool, reviewCount int) (ContributionType, bool) {
	if !contentValid {
		return "", false
	}
	switch {
	case reviewCount == 1:
		return ContributionFirstReview, true
	case reviewCount >= 3:
		return ContributionMilestone, true
	default:
		return "", false
	}
}

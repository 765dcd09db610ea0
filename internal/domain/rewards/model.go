package rewards

import "time"

// ContributionType classifies what earned a card.
// @Enum first_review, community_approval, milestone_achievement
type ContributionType string

const (
	ContributionFirstReview ContributionType = "first_review"
	ContributionMilestone   ContributionType = "milestone_achievement"

	// ContributionCommunityApproval is reserved. Awarding it depends on
	// helpful-vote thresholds that are not specified yet; nothing mints
	// cards of this type today.
	ContributionCommunityApproval ContributionType = "community_approval"
)

// RewardCard is a collectible minted for a qualifying contribution.
// Immutable after creation except HelpfulCount.
type RewardCard struct {
	ID string

	LocationName string
	ImageURL     string
	Caption      string

	HelpfulCount int

	EarnedBy         string
	ContributionType ContributionType

	ReviewID string
	PlaceID  string

	CreatedAt time.Time
}

package rewards

import "fmt"

// captionTemplates interpolate (user name, place name), keyed by
// contribution type.
var captionTemplates = map[ContributionType][]string{
	ContributionFirstReview: {
		"%s broke the ice at %s!",
		"First paw prints: %s reviewed %s",
		"%s put %s on the map",
	},
	ContributionMilestone: {
		"%s is a regular voice for %s and beyond",
		"Milestone unlocked: %s keeps the community posted on %s",
		"Three and counting: %s reviewed %s",
	},
	ContributionCommunityApproval: {
		"The community loved what %s said about %s",
		"%s's take on %s won everyone over",
	},
}

// pickCaption chooses a caption pseudo-randomly from the per-type set.
func pickCaption(randInt func(int) int, ctype ContributionType, userName, placeName string) string {
	templates, ok := captionTemplates[ctype]
	if !ok || len(templates) == 0 {
		templates = captionTemplates[ContributionFirstReview]
	}
	return fmt.Sprintf(templates[randInt(len(templates))], userName, placeName)
}

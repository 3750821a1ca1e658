package risk

import "math"

// maxScore is the upper bound of the overall risk score
const maxScore = 100

// Score computes the overall 0-100 risk score from a reduced finding set.
// Each present category contributes severity x weight; the weights sum to
// 100, so the weighted sum scaled by 100/(10 x sum of weights) simplifies to
// dividing by MaxSeverity. The result is rounded to the nearest integer and
// clamped to [0,100]. Pure and deterministic: identical finding sets always
// produce identical scores, and an empty set scores 0.
func Score(findings []Finding) int {
	if len(findings) == 0 {
		return 0
	}

	weighted := 0

	for _, f := range findings {
		severity := ClampSeverity(f.Severity)

		switch f.Category {
		case CategoryDataSharing, CategoryMandatoryArbitration, CategoryAutoRenewal,
			CategoryLimitedLiability, CategoryTrackingAdvertising, CategoryContentRights,
			CategoryAccountTermination:
			weighted += severity * f.Category.Weight()
		default:
			// unknown categories never survive reduction
			continue
		}
	}

	score := int(math.Round(float64(weighted) / float64(MaxSeverity)))

	if score < 0 {
		return 0
	}

	if score > maxScore {
		return maxScore
	}

	return score
}

// Package risk defines the fixed risk category set for legal documents and
// the pure finding-reduction and score-aggregation logic built on it.
package risk

// Category identifies one of the seven fixed risk categories. The set is
// defined once at process start and never changes at runtime.
type Category string

const (
	// CategoryDataSharing flags sharing of personal data with third parties
	CategoryDataSharing Category = "data_sharing"
	// CategoryMandatoryArbitration flags clauses forcing disputes into binding arbitration
	CategoryMandatoryArbitration Category = "mandatory_arbitration"
	// CategoryAutoRenewal flags automatic subscription renewal and recurring billing
	CategoryAutoRenewal Category = "auto_renewal"
	// CategoryLimitedLiability flags clauses limiting or excluding company liability
	CategoryLimitedLiability Category = "limited_liability"
	// CategoryTrackingAdvertising flags behavioral tracking and advertising terms
	CategoryTrackingAdvertising Category = "tracking_advertising"
	// CategoryContentRights flags claims over user-created or uploaded content
	CategoryContentRights Category = "content_rights"
	// CategoryAccountTermination flags termination or suspension at the company's discretion
	CategoryAccountTermination Category = "account_termination"
)

const (
	// MinSeverity is the lowest valid finding severity
	MinSeverity = 1
	// MaxSeverity is the highest valid finding severity
	MaxSeverity = 10
)

// Definition describes what qualifies for a category and how heavily it
// weighs in the overall score.
type Definition struct {
	// Category is the category this definition describes
	Category Category
	// Name is the human-readable category label
	Name string
	// Description is the plain-language explanation of what qualifies
	Description string
	// Weight is the category's contribution weight to the overall score.
	// Weights across all categories sum to 100 so that every category at
	// maximum severity yields a score of exactly 100.
	Weight int
}

// definitions is the ordered category table. Order is the canonical output
// order for reduced findings.
var definitions = []Definition{
	{
		Category:    CategoryDataSharing,
		Name:        "Data Sharing with Third Parties",
		Description: "Your personal data may be shared with external companies",
		Weight:      20,
	},
	{
		Category:    CategoryMandatoryArbitration,
		Name:        "Mandatory Arbitration",
		Description: "You cannot sue the company in court, only through arbitration",
		Weight:      25,
	},
	{
		Category:    CategoryAutoRenewal,
		Name:        "Automatic Subscription Renewal",
		Description: "Your subscription will automatically renew and charge you",
		Weight:      15,
	},
	{
		Category:    CategoryLimitedLiability,
		Name:        "Limited Company Liability",
		Description: "Company limits or excludes their liability for damages",
		Weight:      15,
	},
	{
		Category:    CategoryTrackingAdvertising,
		Name:        "Extensive Tracking & Advertising",
		Description: "Comprehensive tracking of your behavior for advertising",
		Weight:      10,
	},
	{
		Category:    CategoryContentRights,
		Name:        "Content Rights and Ownership",
		Description: "Company claims rights to content you create or upload",
		Weight:      10,
	},
	{
		Category:    CategoryAccountTermination,
		Name:        "Account Termination Rights",
		Description: "Company can terminate your account without notice",
		Weight:      5,
	},
}

// definitionIndex maps a category to its position in the definitions table
var definitionIndex = func() map[Category]int {
	idx := make(map[Category]int, len(definitions))
	for i, d := range definitions {
		idx[d.Category] = i
	}

	return idx
}()

// Definitions returns the ordered category definition table
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)

	return out
}

// Parse returns the category matching the given identifier, or false when
// the identifier names no known category.
func Parse(s string) (Category, bool) {
	c := Category(s)
	if _, ok := definitionIndex[c]; !ok {
		return "", false
	}

	return c, true
}

// Definition returns the definition for this category. Unknown categories
// yield a zero definition; callers are expected to hold parsed categories.
func (c Category) Definition() Definition {
	i, ok := definitionIndex[c]
	if !ok {
		return Definition{}
	}

	return definitions[i]
}

// Weight returns the scoring weight for this category
func (c Category) Weight() int {
	return c.Definition().Weight
}

// ClampSeverity forces a severity into the valid [MinSeverity, MaxSeverity] range
func ClampSeverity(severity int) int {
	if severity < MinSeverity {
		return MinSeverity
	}

	if severity > MaxSeverity {
		return MaxSeverity
	}

	return severity
}

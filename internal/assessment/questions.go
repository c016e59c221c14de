package assessment

// Category is one of the four fixed assessment dimensions.
type Category string

const (
	CategoryStrategy Category = "Strategy & Leadership"
	CategorySkills   Category = "Skills & Talent"
	CategoryData     Category = "Data & Infrastructure"
	CategoryCulture  Category = "Culture & Adoption"
)

// Categories lists the dimensions in presentation order.
var Categories = []Category{
	CategoryStrategy,
	CategorySkills,
	CategoryData,
	CategoryCulture,
}

type Question struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Text     string   `json:"text"`
	Options  []string `json:"options"`
}

// Questions is the fixed ten-question assessment. The list is static and
// must never be mutated at runtime.
var Questions = []Question{
	{
		ID:       "q1",
		Category: CategoryStrategy,
		Text:     "Does your organization have a formal AI strategy in place?",
		Options:  []string{"No formal strategy", "In development", "Partially implemented", "Fully implemented and integrated"},
	},
	{
		ID:       "q2",
		Category: CategoryStrategy,
		Text:     "How would you rate your leadership's understanding of AI capabilities and implications?",
		Options:  []string{"Very limited understanding", "Basic awareness", "Good understanding", "Expert level understanding"},
	},
	{
		ID:       "q3",
		Category: CategoryStrategy,
		Text:     "Is AI transformation included in your organization's strategic priorities?",
		Options:  []string{"Not considered", "Discussed occasionally", "Part of strategic discussions", "Core strategic priority"},
	},
	{
		ID:       "q4",
		Category: CategorySkills,
		Text:     "How would you rate your current workforce's AI literacy?",
		Options:  []string{"Very low literacy", "Basic awareness", "Intermediate skills", "Advanced AI competency"},
	},
	{
		ID:       "q5",
		Category: CategorySkills,
		Text:     "Does your organization have dedicated AI talent or teams?",
		Options:  []string{"No dedicated AI talent", "Few individuals with AI skills", "Small AI team", "Multiple dedicated AI teams"},
	},
	{
		ID:       "q6",
		Category: CategoryData,
		Text:     "How mature is your data infrastructure for AI applications?",
		Options:  []string{"No dedicated infrastructure", "Basic data storage", "Structured data systems", "Advanced AI-ready infrastructure"},
	},
	{
		ID:       "q7",
		Category: CategoryData,
		Text:     "What is the quality and accessibility of your data for AI training?",
		Options:  []string{"Poor data quality", "Limited data access", "Good data quality", "Excellent data infrastructure"},
	},
	{
		ID:       "q8",
		Category: CategoryCulture,
		Text:     "How would you describe your organization's attitude toward AI adoption?",
		Options:  []string{"Resistant to change", "Cautiously interested", "Open to adoption", "Proactively embracing AI"},
	},
	{
		ID:       "q9",
		Category: CategoryCulture,
		Text:     "What is the level of employee engagement with AI initiatives?",
		Options:  []string{"Very low engagement", "Limited engagement", "Good engagement", "High engagement and enthusiasm"},
	},
	{
		ID:       "q10",
		Category: CategoryCulture,
		Text:     "How would you rate the collaboration between business and technical teams on AI initiatives?",
		Options:  []string{"Poor collaboration", "Limited collaboration", "Good collaboration", "Excellent cross-functional collaboration"},
	},
}

// optionValues maps every option phrasing to its maturity band value. The
// bands are positional in the question lists (lowest to highest maturity),
// but scoring matches on the exact phrasing, so the table is keyed by text.
var optionValues = mustBuildOptionValues()

func mustBuildOptionValues() map[string]int {
	bands := [4]int{0, 25, 50, 75}
	values := map[string]int{}
	for _, q := range Questions {
		if len(q.Options) != len(bands) {
			panic("assessment: question " + q.ID + " does not have four options")
		}
		for i, opt := range q.Options {
			if existing, ok := values[opt]; ok && existing != bands[i] {
				panic("assessment: option phrasing " + opt + " maps to conflicting values")
			}
			values[opt] = bands[i]
		}
	}
	return values
}

// QuestionByID returns the question with the given id, or false when no
// such question exists.
func QuestionByID(id string) (Question, bool) {
	for _, q := range Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

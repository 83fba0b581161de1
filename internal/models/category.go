package models

// Category represents a topical grouping for stories
type Category struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Slug        string `json:"slug" db:"slug"`
	Description string `json:"description" db:"description"`
	Icon        string `json:"icon" db:"icon"`
	Gradient    string `json:"gradient" db:"gradient"`
}

// CategoryInput is the payload used to create a category
type CategoryInput struct {
	Name        string `json:"name" validate:"required,notblank"`
	Slug        string `json:"slug" validate:"required,slug"`
	Description string `json:"description" validate:"required"`
	Icon        string `json:"icon" validate:"required"`
	Gradient    string `json:"gradient" validate:"required"`
}

// CategoryWithCount is a category annotated with its approved story count
type CategoryWithCount struct {
	Category
	StoryCount int `json:"storyCount"`
}

// DefaultCategories are seeded on first run when no categories exist
var DefaultCategories = []CategoryInput{
	{
		Name:        "Social Justice",
		Slug:        "social-justice",
		Description: "Stories of resilience and fighting for equality",
		Icon:        "fas fa-fist-raised",
		Gradient:    "from-primary to-sage",
	},
	{
		Name:        "Identity & Culture",
		Slug:        "identity-culture",
		Description: "Celebrating diverse identities and traditions",
		Icon:        "fas fa-heart",
		Gradient:    "from-secondary to-accent",
	},
	{
		Name:        "Community Impact",
		Slug:        "community-impact",
		Description: "Local heroes making a difference",
		Icon:        "fas fa-users",
		Gradient:    "from-sage to-primary",
	},
	{
		Name:        "Overcoming Challenges",
		Slug:        "overcoming-challenges",
		Description: "Stories of triumph and personal growth",
		Icon:        "fas fa-seedling",
		Gradient:    "from-accent to-secondary",
	},
}

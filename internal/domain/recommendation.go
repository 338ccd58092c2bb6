package domain

// ItemKind is the category of a recommendation card. The backend routes
// swipes on category cards and dish cards differently.
type ItemKind string

const (
	KindCategory      ItemKind = "category"
	KindPersonal      ItemKind = "personal"
	KindCategoryBased ItemKind = "category_based"
	KindFood          ItemKind = "food"
)

// Valid reports whether k is one of the known item kinds.
func (k ItemKind) Valid() bool {
	switch k {
	case KindCategory, KindPersonal, KindCategoryBased, KindFood:
		return true
	}
	return false
}

type RecommendationItem struct {
	ID          int64    `json:"id" validate:"gte=0"`
	Name        string   `json:"name" validate:"required"`
	Ingredients []string `json:"ingredients,omitempty"`
	Kind        ItemKind `json:"type" validate:"required,oneof=category personal category_based food"`
}

// Batch is one fetch worth of items. An empty batch means the recommender
// has nothing left for the session.
type Batch []RecommendationItem

func (b Batch) Empty() bool {
	return len(b) == 0
}

package models

// Ingredient belongs to exactly one Recipe and is removed with it.
type Ingredient struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	RecipeID uint   `gorm:"not null;index" json:"recipe_id"`
	Name     string `gorm:"type:varchar(250);not null" json:"name"`
}

package models

// Recipe is a stored recipe row. The title is persisted in the "name" column.
type Recipe struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(250);not null" json:"title"`
	Ingredients []Ingredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`
}

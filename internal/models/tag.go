package models

// Tag общий ярлык без владельца
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

package models

import "time"

// Todo представляет задачу.
// OwnerID == nil означает задачу без владельца (создана без авторизации).
type Todo struct {
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
	DueDate   *time.Time `json:"dueDate"`
	TagID     *string    `json:"tagId"`
	TagName   *string    `json:"tagName"` // только для чтения, из JOIN с tag
	OwnerID   *string    `json:"ownerId"`
	ID        string     `json:"id"`
	TodoText  string     `json:"todoText"`
	IsDone    bool       `json:"isDone"`
}

// TodoSort порядок выдачи списка задач
type TodoSort int

const (
	// SortByCreatedDesc сначала новые
	SortByCreatedDesc TodoSort = iota
	// SortByDueDateAsc по сроку, задачи без срока в конце
	SortByDueDateAsc
)

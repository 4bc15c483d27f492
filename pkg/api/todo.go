package api

// TodoCreateRequest тело PUT /todo
type TodoCreateRequest struct {
	TagID    *string `json:"tagId"`
	DueDate  *string `json:"dueDate"` // RFC 3339 или YYYY-MM-DD
	TodoText string  `json:"todoText"`
}

// TodoUpdateRequest тело PATCH /todo.
// Отсутствующие tagId и dueDate сбрасывают значения
type TodoUpdateRequest struct {
	TagID    *string `json:"tagId"`
	DueDate  *string `json:"dueDate"`
	ID       string  `json:"id"`
	TodoText string  `json:"todoText"`
}

// TodoStatusRequest тело PATCH /todo/status.
// IsDone указатель, чтобы отличить false от отсутствующего поля
type TodoStatusRequest struct {
	IsDone *bool  `json:"isDone"`
	ID     string `json:"id"`
}

// TodoStatusResponse данные ответа PATCH /todo/status
type TodoStatusResponse struct {
	ID     string `json:"id"`
	IsDone bool   `json:"isDone"`
}

// TodoDeleteRequest тело DELETE /todo
type TodoDeleteRequest struct {
	ID string `json:"id"`
}

// IDResponse данные ответа на удаление
type IDResponse struct {
	ID string `json:"id"`
}

// DeletedCountResponse данные ответа POST /todo/all
type DeletedCountResponse struct {
	DeletedCount int `json:"deletedCount"`
}

// TagCreateRequest тело POST /tags
type TagCreateRequest struct {
	Name string `json:"name"`
}

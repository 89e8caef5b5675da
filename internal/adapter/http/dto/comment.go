package dto

type CommentItem struct {
	ID        string      `json:"id"`
	TaskID    string      `json:"taskId"`
	Text      string      `json:"text"`
	Author    UserSummary `json:"author"`
	CreatedAt string      `json:"createdAt"`
	UpdatedAt *string     `json:"updatedAt,omitempty"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

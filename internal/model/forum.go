package model

type FaqCategory struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// ForumQuestion 问答社区的问题，作者与分类由服务端内联返回
type ForumQuestion struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Body      string      `json:"body"`
	Category  FaqCategory `json:"category"`
	Author    Profile     `json:"author"`
	ImageURL  string      `json:"image_url,omitempty"`
	CreatedAt string      `json:"created_at"`
	UpdatedAt string      `json:"updated_at,omitempty"`
}

type ForumAnswer struct {
	ID         string  `json:"id"`
	QuestionID string  `json:"question_id"`
	Body       string  `json:"body"`
	Author     Profile `json:"author"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at,omitempty"`
}

package model

// Quiz 单个测验题目。Answers 仅在已通过的测验中由服务端回填。
type Quiz struct {
	ID               string   `json:"id"`
	Question         string   `json:"question"`
	Options          []string `json:"options"`
	IsMultipleChoice bool     `json:"is_multiple_choice"`
	Answers          []bool   `json:"answers,omitempty"`
}

// TopicQuizzes GET /courses/{id}/topic/{id}/quizzes 的返回结构
type TopicQuizzes struct {
	Quizzes []Quiz `json:"quizzes"`
	Passed  bool   `json:"passed"`
}

// QuizAnswer 提交测验时的单题答案
type QuizAnswer struct {
	QuestionID string `json:"question_id"`
	Answer     []bool `json:"answer"`
}

package model

// Task 编程任务。StarterCode 为传输态（转义后的单行字符串）。
type Task struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	StarterCode     string `json:"starter_code"`
	DifficultyLevel string `json:"difficulty_level,omitempty"`
}

type ExecutionResult struct {
	Output string `json:"output"`
}

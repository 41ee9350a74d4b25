package model

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Course struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
}

type Topic struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
}

// CourseDetail GET /courses/{id} 的返回结构
type CourseDetail struct {
	Course Course  `json:"course"`
	Topics []Topic `json:"topics"`
}

// Enrollment GET /courses/enrollments 返回的选课记录
type Enrollment struct {
	ID     string `json:"id"`
	Course Course `json:"course"`
	Status string `json:"status,omitempty"`
}

type TopicContent struct {
	ID                  string   `json:"id"`
	Content             string   `json:"content"`
	VideoURLs           []string `json:"video_urls"`
	ImageURLs           []string `json:"image_urls"`
	AdditionalResources []string `json:"additional_resources"`
}

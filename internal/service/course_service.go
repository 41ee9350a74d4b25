package service

import (
	"context"
	"fmt"

	"coder_edu_client/internal/gateway"
	"coder_edu_client/internal/model"
)

// CourseService 课程目录、选课与主题内容
type CourseService struct {
	Gateway *gateway.Gateway
}

func NewCourseService(gw *gateway.Gateway) *CourseService {
	return &CourseService{Gateway: gw}
}

// ListCourses 拉取课程目录，categoryIDs 为空表示全部分类
func (s *CourseService) ListCourses(ctx context.Context, categoryIDs []string, limit, offset int) ([]model.Course, error) {
	if categoryIDs == nil {
		categoryIDs = []string{}
	}
	if limit < 1 {
		limit = 10
	}

	var resp struct {
		Courses []model.Course `json:"courses"`
	}
	payload := map[string]interface{}{
		"categories_ids": categoryIDs,
		"limit":          limit,
		"offset":         offset,
	}
	if err := s.Gateway.Post(ctx, "/courses", payload, &resp); err != nil {
		return nil, err
	}
	return resp.Courses, nil
}

func (s *CourseService) GetCourse(ctx context.Context, courseID string) (*model.CourseDetail, error) {
	var detail model.CourseDetail
	if err := s.Gateway.Get(ctx, "/courses/"+courseID, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *CourseService) Categories(ctx context.Context) ([]model.Category, error) {
	var resp struct {
		Categories []model.Category `json:"categories"`
	}
	if err := s.Gateway.Get(ctx, "/courses/categories", &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

func (s *CourseService) Enroll(ctx context.Context, courseID string) error {
	return s.Gateway.Post(ctx, "/courses/enroll", map[string]string{"course_id": courseID}, nil)
}

// MyCourses 当前用户的选课记录
func (s *CourseService) MyCourses(ctx context.Context) ([]model.Enrollment, error) {
	var resp struct {
		Enrollments []model.Enrollment `json:"enrollments"`
	}
	if err := s.Gateway.Get(ctx, "/courses/enrollments", &resp); err != nil {
		return nil, err
	}
	return resp.Enrollments, nil
}

func (s *CourseService) TopicContent(ctx context.Context, courseID, topicID string) (*model.TopicContent, error) {
	var content model.TopicContent
	path := fmt.Sprintf("/courses/%s/topic/%s/content", courseID, topicID)
	if err := s.Gateway.Get(ctx, path, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

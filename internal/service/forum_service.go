package service

import (
	"context"
	"fmt"

	"coder_edu_client/internal/gateway"
	"coder_edu_client/internal/model"
)

// ForumService 问答社区
type ForumService struct {
	Gateway *gateway.Gateway
}

func NewForumService(gw *gateway.Gateway) *ForumService {
	return &ForumService{Gateway: gw}
}

// Categories 分类列表，服务端直接返回数组（无包裹对象）
func (s *ForumService) Categories(ctx context.Context) ([]model.FaqCategory, error) {
	var categories []model.FaqCategory
	if err := s.Gateway.Get(ctx, "/faq/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Questions 拉取问题列表。筛选条件走 POST 请求体，
// categoryIDs 为空表示全部分类。
func (s *ForumService) Questions(ctx context.Context, categoryIDs []string, limit, offset int) ([]model.ForumQuestion, error) {
	if categoryIDs == nil {
		categoryIDs = []string{}
	}
	if limit < 1 {
		limit = 10
	}

	var resp struct {
		Questions []model.ForumQuestion `json:"questions"`
	}
	payload := map[string]interface{}{
		"category_ids": categoryIDs,
		"limit":        limit,
		"offset":       offset,
	}
	if err := s.Gateway.Post(ctx, "/faq/questions", payload, &resp); err != nil {
		return nil, err
	}
	return resp.Questions, nil
}

func (s *ForumService) Question(ctx context.Context, questionID string) (*model.ForumQuestion, error) {
	var resp struct {
		Question model.ForumQuestion `json:"question"`
	}
	if err := s.Gateway.Get(ctx, "/faq/questions/"+questionID, &resp); err != nil {
		return nil, err
	}
	return &resp.Question, nil
}

// Ask 发布新问题，服务端只返回操作状态
func (s *ForumService) Ask(ctx context.Context, title, body, categoryID, imageURL string) error {
	payload := map[string]string{
		"title":       title,
		"body":        body,
		"category_id": categoryID,
		"image_url":   imageURL,
	}
	return s.Gateway.Post(ctx, "/faq/questions/post", payload, nil)
}

func (s *ForumService) Answers(ctx context.Context, questionID string, limit, offset int) ([]model.ForumAnswer, error) {
	if limit < 1 {
		limit = 10
	}
	var resp struct {
		Answers []model.ForumAnswer `json:"answers"`
	}
	path := fmt.Sprintf("/faq/answers?question_id=%s&limit=%d&offset=%d", questionID, limit, offset)
	if err := s.Gateway.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Answers, nil
}

// PostAnswer 发布回答，服务端只返回操作状态
func (s *ForumService) PostAnswer(ctx context.Context, questionID, body string) error {
	payload := map[string]string{"question_id": questionID, "body": body}
	return s.Gateway.Post(ctx, "/faq/answers/post", payload, nil)
}

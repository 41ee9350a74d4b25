package service

import (
	"context"
	"fmt"

	"coder_edu_client/internal/gateway"
	"coder_edu_client/internal/model"
	"coder_edu_client/internal/util"
)

// AssessmentSession 一个主题的测验作答状态。已通过（locked）的测验
// 保存的是服务端记录的答案，任何本地修改都会被拒绝。
type AssessmentSession struct {
	quizzes []model.Quiz
	answers map[string][]bool
	locked  bool
}

// NewAssessmentSession 从题目列表构建作答状态。passed 为 true 时锁定会话，
// 答案取自服务端回填的 quiz.Answers；否则全部初始化为未选。
func NewAssessmentSession(quizzes []model.Quiz, passed bool) *AssessmentSession {
	s := &AssessmentSession{
		quizzes: quizzes,
		answers: make(map[string][]bool, len(quizzes)),
		locked:  passed,
	}
	for _, q := range quizzes {
		selected := make([]bool, len(q.Options))
		if passed && q.Answers != nil {
			copy(selected, q.Answers)
		}
		s.answers[q.ID] = selected
	}
	return s
}

func (s *AssessmentSession) Locked() bool {
	return s.locked
}

func (s *AssessmentSession) Quizzes() []model.Quiz {
	return s.quizzes
}

func (s *AssessmentSession) Empty() bool {
	return len(s.quizzes) == 0
}

// Answers 返回某题当前选择的副本
func (s *AssessmentSession) Answers(quizID string) []bool {
	selected, ok := s.answers[quizID]
	if !ok {
		return nil
	}
	out := make([]bool, len(selected))
	copy(out, selected)
	return out
}

// Toggle 切换某题某选项。单选题遵循最后写入生效：先清空其余选项。
func (s *AssessmentSession) Toggle(quizID string, optionIndex int) error {
	if s.locked {
		return util.ErrQuizLocked
	}

	var quiz *model.Quiz
	for i := range s.quizzes {
		if s.quizzes[i].ID == quizID {
			quiz = &s.quizzes[i]
			break
		}
	}
	if quiz == nil {
		return util.ErrQuizNotFound
	}

	selected := s.answers[quizID]
	if optionIndex < 0 || optionIndex >= len(selected) {
		return util.ErrInvalidOption
	}

	if quiz.IsMultipleChoice {
		selected[optionIndex] = !selected[optionIndex]
		return nil
	}

	for i := range selected {
		selected[i] = false
	}
	selected[optionIndex] = true
	return nil
}

// WireAnswers 按加载顺序生成提交载荷
func (s *AssessmentSession) WireAnswers() []model.QuizAnswer {
	out := make([]model.QuizAnswer, 0, len(s.quizzes))
	for _, q := range s.quizzes {
		answer := make([]bool, len(s.answers[q.ID]))
		copy(answer, s.answers[q.ID])
		out = append(out, model.QuizAnswer{QuestionID: q.ID, Answer: answer})
	}
	return out
}

// Reset 解锁并清空全部选择。只应在远端重置成功后调用，
// 而且调用方必须重新拉取题目——重置会使服务端的已通过快照失效。
func (s *AssessmentSession) Reset() {
	s.locked = false
	for id, selected := range s.answers {
		s.answers[id] = make([]bool, len(selected))
	}
}

// AssessmentService 测验的远程操作
type AssessmentService struct {
	Gateway *gateway.Gateway
}

func NewAssessmentService(gw *gateway.Gateway) *AssessmentService {
	return &AssessmentService{Gateway: gw}
}

// LoadTopicQuizzes 拉取主题测验并构建作答状态
func (s *AssessmentService) LoadTopicQuizzes(ctx context.Context, courseID, topicID string) (*AssessmentSession, error) {
	var resp model.TopicQuizzes
	path := fmt.Sprintf("/courses/%s/topic/%s/quizzes", courseID, topicID)
	if err := s.Gateway.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return NewAssessmentSession(resp.Quizzes, resp.Passed), nil
}

// Submit 提交作答。模型层不做去重，重复提交由服务端裁决。
func (s *AssessmentService) Submit(ctx context.Context, courseID, topicID string, session *AssessmentSession) error {
	path := fmt.Sprintf("/courses/%s/topic/%s/quiz/submit", courseID, topicID)
	payload := map[string]interface{}{"answers": session.WireAnswers()}
	return s.Gateway.Post(ctx, path, payload, nil)
}

// ResetQuiz 重置远端测验进度。成功后调用方应重新 LoadTopicQuizzes。
func (s *AssessmentService) ResetQuiz(ctx context.Context, courseID, topicID string) error {
	path := fmt.Sprintf("/courses/%s/topic/%s/quiz/reset", courseID, topicID)
	return s.Gateway.Put(ctx, path, nil, nil)
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"coder_edu_client/internal/model"
	"coder_edu_client/internal/util"
)

func twoQuizzes() []model.Quiz {
	return []model.Quiz{
		{ID: "q1", Question: "pick one", Options: []string{"a", "b", "c"}},
		{ID: "q2", Question: "pick many", Options: []string{"x", "y"}, IsMultipleChoice: true},
	}
}

func TestNewSessionStartsUnselected(t *testing.T) {
	s := NewAssessmentSession(twoQuizzes(), false)
	if s.Locked() {
		t.Fatal("fresh session must not be locked")
	}
	for _, q := range s.Quizzes() {
		for i, selected := range s.Answers(q.ID) {
			if selected {
				t.Fatalf("quiz %s option %d selected before any toggle", q.ID, i)
			}
		}
	}
}

func TestPassedSessionIsLocked(t *testing.T) {
	quizzes := []model.Quiz{
		{ID: "q1", Options: []string{"a", "b"}, IsMultipleChoice: true, Answers: []bool{true, false}},
		{ID: "q2", Options: []string{"x", "y"}, IsMultipleChoice: true, Answers: []bool{false, true}},
	}
	s := NewAssessmentSession(quizzes, true)

	if !s.Locked() {
		t.Fatal("passed session must be locked")
	}

	want := []model.QuizAnswer{
		{QuestionID: "q1", Answer: []bool{true, false}},
		{QuestionID: "q2", Answer: []bool{false, true}},
	}
	if got := s.WireAnswers(); !reflect.DeepEqual(got, want) {
		t.Fatalf("WireAnswers() = %+v, want %+v", got, want)
	}

	if err := s.Toggle("q1", 1); !errors.Is(err, util.ErrQuizLocked) {
		t.Fatalf("expected ErrQuizLocked, got %v", err)
	}
	if got := s.WireAnswers(); !reflect.DeepEqual(got, want) {
		t.Fatalf("rejected toggle must leave answers unchanged, got %+v", got)
	}
}

func TestSingleChoiceExclusivity(t *testing.T) {
	s := NewAssessmentSession(twoQuizzes(), false)

	sequence := []int{0, 2, 1, 1, 0}
	for _, idx := range sequence {
		if err := s.Toggle("q1", idx); err != nil {
			t.Fatalf("Toggle(q1, %d) returned error: %v", idx, err)
		}
		trueCount := 0
		for _, selected := range s.Answers("q1") {
			if selected {
				trueCount++
			}
		}
		if trueCount != 1 {
			t.Fatalf("single choice quiz has %d selected options after toggling %d", trueCount, idx)
		}
	}

	// 最后写入生效
	if got := s.Answers("q1"); !got[0] || got[1] || got[2] {
		t.Fatalf("expected only option 0 selected, got %v", got)
	}
}

func TestMultiChoiceTogglesIndependently(t *testing.T) {
	s := NewAssessmentSession(twoQuizzes(), false)

	s.Toggle("q2", 0)
	s.Toggle("q2", 1)
	if got := s.Answers("q2"); !got[0] || !got[1] {
		t.Fatalf("expected both options selected, got %v", got)
	}

	s.Toggle("q2", 0)
	if got := s.Answers("q2"); got[0] || !got[1] {
		t.Fatalf("expected only option 1 selected after re-toggle, got %v", got)
	}
}

func TestToggleValidation(t *testing.T) {
	s := NewAssessmentSession(twoQuizzes(), false)

	if err := s.Toggle("missing", 0); !errors.Is(err, util.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
	if err := s.Toggle("q1", -1); !errors.Is(err, util.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption for -1, got %v", err)
	}
	if err := s.Toggle("q1", 3); !errors.Is(err, util.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption for out of range, got %v", err)
	}
}

func TestResetUnlocksAndClears(t *testing.T) {
	quizzes := []model.Quiz{
		{ID: "q1", Options: []string{"a", "b"}, Answers: []bool{true, false}},
	}
	s := NewAssessmentSession(quizzes, true)

	s.Reset()
	if s.Locked() {
		t.Fatal("Reset must unlock the session")
	}
	for _, selected := range s.Answers("q1") {
		if selected {
			t.Fatal("Reset must clear all answers")
		}
	}
	if err := s.Toggle("q1", 0); err != nil {
		t.Fatalf("toggle after reset returned error: %v", err)
	}
}

func TestEmptySession(t *testing.T) {
	s := NewAssessmentSession(nil, false)
	if !s.Empty() {
		t.Fatal("session without quizzes must report Empty")
	}
	if got := s.WireAnswers(); len(got) != 0 {
		t.Fatalf("empty session produced payload %+v", got)
	}
}

func TestLoadSubmitAndReset(t *testing.T) {
	var submitted struct {
		Answers []model.QuizAnswer `json:"answers"`
	}
	var resetMethod string

	mux := http.NewServeMux()
	mux.HandleFunc("/courses/c1/topic/t1/quizzes", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.TopicQuizzes{
			Quizzes: twoQuizzes(),
			Passed:  false,
		})
	})
	mux.HandleFunc("/courses/c1/topic/t1/quiz/submit", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&submitted); err != nil {
			t.Errorf("decode submission: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	})
	mux.HandleFunc("/courses/c1/topic/t1/quiz/reset", func(w http.ResponseWriter, r *http.Request) {
		resetMethod = r.Method
		json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	})

	svc := NewAssessmentService(newTestGateway(t, mux))

	session, err := svc.LoadTopicQuizzes(context.Background(), "c1", "t1")
	if err != nil {
		t.Fatalf("LoadTopicQuizzes returned error: %v", err)
	}
	if session.Locked() || session.Empty() {
		t.Fatalf("unexpected session state: locked=%v empty=%v", session.Locked(), session.Empty())
	}

	session.Toggle("q1", 1)
	session.Toggle("q2", 0)

	if err := svc.Submit(context.Background(), "c1", "t1", session); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	want := []model.QuizAnswer{
		{QuestionID: "q1", Answer: []bool{false, true, false}},
		{QuestionID: "q2", Answer: []bool{true, false}},
	}
	if !reflect.DeepEqual(submitted.Answers, want) {
		t.Fatalf("submitted %+v, want %+v", submitted.Answers, want)
	}

	if err := svc.ResetQuiz(context.Background(), "c1", "t1"); err != nil {
		t.Fatalf("ResetQuiz returned error: %v", err)
	}
	if resetMethod != http.MethodPut {
		t.Fatalf("quiz reset must use PUT, got %s", resetMethod)
	}
}

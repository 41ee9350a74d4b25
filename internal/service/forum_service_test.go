package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"coder_edu_client/internal/model"
)

func TestFaqCategoriesAreABareArray(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/faq/categories", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]model.FaqCategory{{ID: "cat-1", Name: "Go"}})
	})

	svc := NewForumService(newTestGateway(t, mux))
	categories, err := svc.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories returned error: %v", err)
	}
	if len(categories) != 1 || categories[0].ID != "cat-1" {
		t.Fatalf("unexpected categories %+v", categories)
	}
}

func TestQuestionsPostsFilterBody(t *testing.T) {
	var query struct {
		CategoryIDs []string `json:"category_ids"`
		Limit       int      `json:"limit"`
		Offset      int      `json:"offset"`
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/faq/questions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("questions must use POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
			t.Errorf("decode filter body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string][]model.ForumQuestion{
			"questions": {{ID: "f1", Title: "How do slices grow?"}},
		})
	})

	svc := NewForumService(newTestGateway(t, mux))
	questions, err := svc.Questions(context.Background(), nil, 0, 0)
	if err != nil {
		t.Fatalf("Questions returned error: %v", err)
	}
	if len(questions) != 1 || questions[0].ID != "f1" {
		t.Fatalf("unexpected questions %+v", questions)
	}
	// nil 分类变成空数组，非法 limit 回退到默认值
	if query.CategoryIDs == nil || len(query.CategoryIDs) != 0 {
		t.Fatalf("category_ids must be an empty array, got %v", query.CategoryIDs)
	}
	if query.Limit != 10 || query.Offset != 0 {
		t.Fatalf("unexpected paging %d/%d", query.Limit, query.Offset)
	}
}

func TestQuestionUnwrapsEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/faq/questions/f1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]model.ForumQuestion{
			"question": {
				ID:       "f1",
				Title:    "Deadlocks",
				Author:   model.Profile{Name: "Jo", LastName: "Doe"},
				Category: model.FaqCategory{ID: "cat-1", Name: "Go"},
			},
		})
	})

	svc := NewForumService(newTestGateway(t, mux))
	q, err := svc.Question(context.Background(), "f1")
	if err != nil {
		t.Fatalf("Question returned error: %v", err)
	}
	if q.ID != "f1" || q.Author.Name != "Jo" || q.Category.ID != "cat-1" {
		t.Fatalf("unexpected question %+v", q)
	}
}

func TestAskAndAnswerUsePostEndpoints(t *testing.T) {
	var asked, answered map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/faq/questions/post", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&asked)
		json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	})
	mux.HandleFunc("/faq/answers/post", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&answered)
		json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	})

	svc := NewForumService(newTestGateway(t, mux))

	if err := svc.Ask(context.Background(), "Deadlocks", "Why does this hang?", "cat-1", ""); err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}
	if asked["title"] != "Deadlocks" || asked["category_id"] != "cat-1" || asked["body"] != "Why does this hang?" {
		t.Fatalf("unexpected ask payload %+v", asked)
	}

	if err := svc.PostAnswer(context.Background(), "f1", "Unbuffered channel, no reader."); err != nil {
		t.Fatalf("PostAnswer returned error: %v", err)
	}
	if answered["question_id"] != "f1" || answered["body"] != "Unbuffered channel, no reader." {
		t.Fatalf("unexpected answer payload %+v", answered)
	}
}

func TestAnswersQueryByQuestionID(t *testing.T) {
	var gotPath string
	mux := http.NewServeMux()
	mux.HandleFunc("/faq/answers", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		json.NewEncoder(w).Encode(map[string][]model.ForumAnswer{
			"answers": {{ID: "a1", QuestionID: "f1", Body: "use a mutex"}},
		})
	})

	svc := NewForumService(newTestGateway(t, mux))
	answers, err := svc.Answers(context.Background(), "f1", 0, 0)
	if err != nil {
		t.Fatalf("Answers returned error: %v", err)
	}
	if len(answers) != 1 || answers[0].ID != "a1" {
		t.Fatalf("unexpected answers %+v", answers)
	}
	if gotPath != "/faq/answers?question_id=f1&limit=10&offset=0" {
		t.Fatalf("unexpected request path %q", gotPath)
	}
}

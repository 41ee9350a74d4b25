package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"coder_edu_client/internal/model"
)

func TestListCoursesSendsCatalogQuery(t *testing.T) {
	var query struct {
		CategoriesIDs []string `json:"categories_ids"`
		Limit         int      `json:"limit"`
		Offset        int      `json:"offset"`
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/courses", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
			t.Errorf("decode catalog query: %v", err)
		}
		json.NewEncoder(w).Encode(map[string][]model.Course{
			"courses": {{ID: "c1", Title: "Go basics"}},
		})
	})

	svc := NewCourseService(newTestGateway(t, mux))
	courses, err := svc.ListCourses(context.Background(), nil, 0, 5)
	if err != nil {
		t.Fatalf("ListCourses returned error: %v", err)
	}
	if len(courses) != 1 || courses[0].ID != "c1" {
		t.Fatalf("unexpected courses %+v", courses)
	}
	// nil 分类变成空数组，非法 limit 回退到默认值
	if query.CategoriesIDs == nil || len(query.CategoriesIDs) != 0 {
		t.Fatalf("categories_ids must be an empty array, got %v", query.CategoriesIDs)
	}
	if query.Limit != 10 || query.Offset != 5 {
		t.Fatalf("unexpected paging %d/%d", query.Limit, query.Offset)
	}
}

func TestGetCourseWithTopics(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/courses/c1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.CourseDetail{
			Course: model.Course{ID: "c1", Title: "Go basics"},
			Topics: []model.Topic{{ID: "t1", Title: "Syntax", Order: 1}},
		})
	})

	svc := NewCourseService(newTestGateway(t, mux))
	detail, err := svc.GetCourse(context.Background(), "c1")
	if err != nil {
		t.Fatalf("GetCourse returned error: %v", err)
	}
	if detail.Course.Title != "Go basics" || len(detail.Topics) != 1 {
		t.Fatalf("unexpected detail %+v", detail)
	}
}

func TestEnroll(t *testing.T) {
	var enrolled string
	mux := http.NewServeMux()
	mux.HandleFunc("/courses/enroll", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		enrolled = body["course_id"]
		json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	})

	svc := NewCourseService(newTestGateway(t, mux))
	if err := svc.Enroll(context.Background(), "c1"); err != nil {
		t.Fatalf("Enroll returned error: %v", err)
	}
	if enrolled != "c1" {
		t.Fatalf("server saw course_id %q", enrolled)
	}
}

func TestMyCoursesUnwrapsEnrollments(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/courses/enrollments", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string][]model.Enrollment{
			"enrollments": {{
				ID:     "e1",
				Course: model.Course{ID: "c1", Title: "Go basics"},
				Status: "active",
			}},
		})
	})

	svc := NewCourseService(newTestGateway(t, mux))
	enrollments, err := svc.MyCourses(context.Background())
	if err != nil {
		t.Fatalf("MyCourses returned error: %v", err)
	}
	if len(enrollments) != 1 || enrollments[0].Course.ID != "c1" || enrollments[0].Status != "active" {
		t.Fatalf("unexpected enrollments %+v", enrollments)
	}
}

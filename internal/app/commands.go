package app

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"coder_edu_client/internal/service"
	"coder_edu_client/internal/util"
)

const usage = `usage: coder_edu_client [-config dir] <command> [args]

auth:
  login <email> <password>
  register <email> <password> <password_confirm>
  confirm <email> <code>
  reset-password <email> <password> <password_confirm>
  confirm-reset <email> <code>
  logout
  whoami

courses:
  categories
  courses [limit [offset]]
  course <course_id>
  enroll <course_id>
  my-courses
  content <course_id> <topic_id>

quizzes:
  quizzes <course_id> <topic_id>
  quiz-submit <course_id> <topic_id> <quiz_index:option_index> ...
  quiz-reset <course_id> <topic_id>

tasks:
  task <course_id> <topic_id> <order>
  task-exec <course_id> <topic_id> <order> <code_file>
  task-submit <course_id> <topic_id> <order> <code_file>
  task-reset <course_id> <topic_id> <order>

forum:
  faq-categories
  questions [category_id ...]
  question <question_id>
  ask <category_id> <title> <body>
  answers <question_id>
  answer <question_id> <body>

profile:
  profile
  profile-update <name> <last_name>`

func (a *App) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println(usage)
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.cmdLogin(ctx, rest)
	case "register":
		return a.cmdRegister(ctx, rest)
	case "confirm":
		return a.cmdConfirm(ctx, rest)
	case "reset-password":
		return a.cmdResetPassword(ctx, rest)
	case "confirm-reset":
		return a.cmdConfirmReset(ctx, rest)
	case "logout":
		a.Session.Logout()
		fmt.Println("logged out")
		return nil
	case "whoami":
		return a.cmdWhoami()
	case "categories":
		return a.cmdCategories(ctx)
	case "courses":
		return a.cmdCourses(ctx, rest)
	case "course":
		return a.cmdCourse(ctx, rest)
	case "enroll":
		return a.cmdEnroll(ctx, rest)
	case "my-courses":
		return a.cmdMyCourses(ctx)
	case "content":
		return a.cmdContent(ctx, rest)
	case "quizzes":
		return a.cmdQuizzes(ctx, rest)
	case "quiz-submit":
		return a.cmdQuizSubmit(ctx, rest)
	case "quiz-reset":
		return a.cmdQuizReset(ctx, rest)
	case "task":
		return a.cmdTask(ctx, rest)
	case "task-exec":
		return a.cmdTaskExec(ctx, rest)
	case "task-submit":
		return a.cmdTaskSubmit(ctx, rest)
	case "task-reset":
		return a.cmdTaskReset(ctx, rest)
	case "faq-categories":
		return a.cmdFaqCategories(ctx)
	case "questions":
		return a.cmdQuestions(ctx, rest)
	case "question":
		return a.cmdQuestion(ctx, rest)
	case "ask":
		return a.cmdAsk(ctx, rest)
	case "answers":
		return a.cmdAnswers(ctx, rest)
	case "answer":
		return a.cmdAnswer(ctx, rest)
	case "profile":
		return a.cmdProfile(ctx)
	case "profile-update":
		return a.cmdProfileUpdate(ctx, rest)
	default:
		fmt.Println(usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func requireArgs(args []string, n int, usage string) error {
	if len(args) < n {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

func (a *App) cmdLogin(ctx context.Context, args []string) error {
	if err := requireArgs(args, 2, "login <email> <password>"); err != nil {
		return err
	}
	if err := a.Session.Login(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("logged in as %s\n", args[0])
	return nil
}

func (a *App) cmdRegister(ctx context.Context, args []string) error {
	if err := requireArgs(args, 3, "register <email> <password> <password_confirm>"); err != nil {
		return err
	}
	if err := a.Session.Register(ctx, args[0], args[1], args[2]); err != nil {
		return err
	}
	fmt.Println("registered, check your email for a confirmation code")
	return nil
}

func (a *App) cmdConfirm(ctx context.Context, args []string) error {
	if err := requireArgs(args, 2, "confirm <email> <code>"); err != nil {
		return err
	}
	if err := a.Session.ConfirmRegister(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("registration confirmed, logged in as %s\n", args[0])
	return nil
}

func (a *App) cmdResetPassword(ctx context.Context, args []string) error {
	if err := requireArgs(args, 3, "reset-password <email> <password> <password_confirm>"); err != nil {
		return err
	}
	if err := a.Session.ResetPassword(ctx, args[0], args[1], args[2]); err != nil {
		return err
	}
	fmt.Println("reset requested, check your email for a confirmation code")
	return nil
}

func (a *App) cmdConfirmReset(ctx context.Context, args []string) error {
	if err := requireArgs(args, 2, "confirm-reset <email> <code>"); err != nil {
		return err
	}
	if err := a.Session.ConfirmResetPassword(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Println("password reset confirmed")
	return nil
}

func (a *App) cmdWhoami() error {
	user := a.Session.CurrentUser()
	if user == nil || !a.Session.Authenticated() {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Println(user.Email)
	return nil
}

func (a *App) cmdCategories(ctx context.Context) error {
	categories, err := a.services.course.Categories(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		fmt.Printf("%s\t%s\n", c.ID, c.Name)
	}
	return nil
}

func (a *App) cmdCourses(ctx context.Context, args []string) error {
	limit, offset := 10, 0
	var err error
	if len(args) > 0 {
		if limit, err = strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("bad limit %q", args[0])
		}
	}
	if len(args) > 1 {
		if offset, err = strconv.Atoi(args[1]); err != nil {
			return fmt.Errorf("bad offset %q", args[1])
		}
	}
	courses, err := a.services.course.ListCourses(ctx, nil, limit, offset)
	if err != nil {
		return err
	}
	for _, c := range courses {
		fmt.Printf("%s\t%s\n", c.ID, c.Title)
	}
	return nil
}

func (a *App) cmdCourse(ctx context.Context, args []string) error {
	if err := requireArgs(args, 1, "course <course_id>"); err != nil {
		return err
	}
	detail, err := a.services.course.GetCourse(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s\n\ntopics:\n", detail.Course.Title, detail.Course.Description)
	for _, t := range detail.Topics {
		fmt.Printf("  %s\t%s\n", t.ID, t.Title)
	}
	return nil
}

func (a *App) cmdEnroll(ctx context.Context, args []string) error {
	if err := requireArgs(args, 1, "enroll <course_id>"); err != nil {
		return err
	}
	if err := a.services.course.Enroll(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println("enrolled")
	return nil
}

func (a *App) cmdMyCourses(ctx context.Context) error {
	enrollments, err := a.services.course.MyCourses(ctx)
	if err != nil {
		return err
	}
	for _, e := range enrollments {
		fmt.Printf("%s\t%s\t%s\n", e.Course.ID, e.Course.Title, e.Status)
	}
	return nil
}

func (a *App) cmdContent(ctx context.Context, args []string) error {
	if err := requireArgs(args, 2, "content <course_id> <topic_id>"); err != nil {
		return err
	}
	content, err := a.services.course.TopicContent(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Println(content.Content)
	return nil
}

func (a *App) cmdQuizzes(ctx context.Context, args []string) error {
	if err := requireArgs(args, 2, "quizzes <course_id> <topic_id>"); err != nil {
		return err
	}
	sess, err := a.services.assessment.LoadTopicQuizzes(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if sess.Empty() {
		fmt.Println("no quizzes for this topic")
		return nil
	}
	if sess.Locked() {
		fmt.Println("✅ quiz already passed (answers are read-only)")
	}
	for i, q := range sess.Quizzes() {
		kind := "single choice"
		if q.IsMultipleChoice {
			kind = "multiple choice"
		}
		fmt.Printf("[%d] %s (%s)\n", i, q.Question, kind)
		answers := sess.Answers(q.ID)
		for j, opt := range q.Options {
			mark := " "
			if answers[j] {
				mark = "x"
			}
			fmt.Printf("    [%s] %d. %s\n", mark, j, opt)
		}
	}
	return nil
}

// quiz-submit 在一次调用里完成加载、选择、提交
func (a *App) cmdQuizSubmit(ctx context.Context, args []string) error {
	if err := requireArgs(args, 3, "quiz-submit <course_id> <topic_id> <quiz_index:option_index> ..."); err != nil {
		return err
	}
	courseID, topicID := args[0], args[1]

	sess, err := a.services.assessment.LoadTopicQuizzes(ctx, courseID, topicID)
	if err != nil {
		return err
	}
	quizzes := sess.Quizzes()

	for _, pick := range args[2:] {
		parts := strings.SplitN(pick, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("bad selection %q, want quiz_index:option_index", pick)
		}
		qi, err := strconv.Atoi(parts[0])
		if err != nil || qi < 0 || qi >= len(quizzes) {
			return fmt.Errorf("bad quiz index in %q", pick)
		}
		oi, err := strconv.Atoi(parts[1])
		if err != nil {
			return fmt.Errorf("bad option index in %q", pick)
		}
		if err := sess.Toggle(quizzes[qi].ID, oi); err != nil {
			if err == util.ErrQuizLocked {
				return fmt.Errorf("quiz already passed; run quiz-reset first")
			}
			return err
		}
	}

	if err := a.services.assessment.Submit(ctx, courseID, topicID, sess); err != nil {
		return err
	}
	fmt.Println("answers submitted")
	return nil
}

func (a *App) cmdQuizReset(ctx context.Context, args []string) error {
	if err := requireArgs(args, 2, "quiz-reset <course_id> <topic_id>"); err != nil {
		return err
	}
	if err := a.services.assessment.ResetQuiz(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Println("quiz reset; reload with the quizzes command")
	return nil
}

func (a *App) loadWorkbench(ctx context.Context, args []string) (*service.TaskWorkbench, error) {
	order, err := strconv.Atoi(args[2])
	if err != nil {
		return nil, fmt.Errorf("bad task order %q", args[2])
	}
	wb := service.NewTaskWorkbench(a.Gateway)
	if _, err := wb.Load(ctx, args[0], args[1], order); err != nil {
		return nil, err
	}
	return wb, nil
}

func (a *App) cmdTask(ctx context.Context, args []string) error {
	if err := requireArgs(args, 3, "task <course_id> <topic_id> <order>"); err != nil {
		return err
	}
	wb, err := a.loadWorkbench(ctx, args)
	if err != nil {
		return err
	}
	task := wb.Task()
	fmt.Printf("%s\n%s\n\n--- starter code ---\n%s\n", task.Title, task.Description, wb.Code())
	return nil
}

func (a *App) cmdTaskExec(ctx context.Context, args []string) error {
	if err := requireArgs(args, 4, "task-exec <course_id> <topic_id> <order> <code_file>"); err != nil {
		return err
	}
	wb, err := a.loadWorkbench(ctx, args)
	if err != nil {
		return err
	}
	code, err := os.ReadFile(args[3])
	if err != nil {
		return err
	}
	wb.Edit(string(code))
	output, err := wb.Execute(ctx)
	if err != nil {
		return err
	}
	fmt.Println(output)
	return nil
}

func (a *App) cmdTaskSubmit(ctx context.Context, args []string) error {
	if err := requireArgs(args, 4, "task-submit <course_id> <topic_id> <order> <code_file>"); err != nil {
		return err
	}
	wb, err := a.loadWorkbench(ctx, args)
	if err != nil {
		return err
	}
	code, err := os.ReadFile(args[3])
	if err != nil {
		return err
	}
	wb.Edit(string(code))
	outcome := wb.Submit(ctx)
	if outcome.OK {
		fmt.Printf("✅ %s\n", outcome.Message)
	} else {
		fmt.Printf("❌ %s\n", outcome.Message)
	}
	return nil
}

func (a *App) cmdTaskReset(ctx context.Context, args []string) error {
	if err := requireArgs(args, 3, "task-reset <course_id> <topic_id> <order>"); err != nil {
		return err
	}
	wb, err := a.loadWorkbench(ctx, args)
	if err != nil {
		return err
	}
	if _, err := wb.Reset(ctx); err != nil {
		return err
	}
	fmt.Println("task reset to original starter code")
	return nil
}

func (a *App) cmdFaqCategories(ctx context.Context) error {
	categories, err := a.services.forum.Categories(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		fmt.Printf("%s\t%s\n", c.ID, c.Name)
	}
	return nil
}

func (a *App) cmdQuestions(ctx context.Context, args []string) error {
	var categoryIDs []string
	if len(args) > 0 {
		categoryIDs = args
	}
	questions, err := a.services.forum.Questions(ctx, categoryIDs, 20, 0)
	if err != nil {
		return err
	}
	for _, q := range questions {
		fmt.Printf("%s\t%s\n", q.ID, q.Title)
	}
	return nil
}

func (a *App) cmdQuestion(ctx context.Context, args []string) error {
	if err := requireArgs(args, 1, "question <question_id>"); err != nil {
		return err
	}
	q, err := a.services.forum.Question(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s\n\n%s\n", q.Title, q.Body)
	return nil
}

func (a *App) cmdAsk(ctx context.Context, args []string) error {
	if err := requireArgs(args, 3, "ask <category_id> <title> <body>"); err != nil {
		return err
	}
	if err := a.services.forum.Ask(ctx, args[1], strings.Join(args[2:], " "), args[0], ""); err != nil {
		return err
	}
	fmt.Println("question posted")
	return nil
}

func (a *App) cmdAnswers(ctx context.Context, args []string) error {
	if err := requireArgs(args, 1, "answers <question_id>"); err != nil {
		return err
	}
	answers, err := a.services.forum.Answers(ctx, args[0], 20, 0)
	if err != nil {
		return err
	}
	for _, ans := range answers {
		fmt.Printf("%s %s\t%s\n", ans.Author.Name, ans.Author.LastName, ans.Body)
	}
	return nil
}

func (a *App) cmdAnswer(ctx context.Context, args []string) error {
	if err := requireArgs(args, 2, "answer <question_id> <body>"); err != nil {
		return err
	}
	if err := a.services.forum.PostAnswer(ctx, args[0], strings.Join(args[1:], " ")); err != nil {
		return err
	}
	fmt.Println("answer posted")
	return nil
}

func (a *App) cmdProfile(ctx context.Context) error {
	profile, err := a.services.user.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s <%s>\n", profile.Name, profile.LastName, profile.Email)
	return nil
}

func (a *App) cmdProfileUpdate(ctx context.Context, args []string) error {
	if err := requireArgs(args, 2, "profile-update <name> <last_name>"); err != nil {
		return err
	}
	if err := a.services.user.UpdateMe(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Println("profile updated")
	return nil
}

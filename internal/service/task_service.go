package service

import (
	"context"
	"errors"
	"fmt"

	"coder_edu_client/internal/gateway"
	"coder_edu_client/internal/model"
	"coder_edu_client/internal/util"
)

// SubmissionOutcome 一次提交的结果记录
type SubmissionOutcome struct {
	OK      bool
	Message string
}

// TaskWorkbench 单个编程任务的生命周期：起始代码 → 本地编辑 →
// 远程执行/提交/重置。编辑态始终保存真实换行与制表符，
// 传输态只在出站调用的瞬间生成。
type TaskWorkbench struct {
	Gateway *gateway.Gateway

	courseID string
	topicID  string
	order    int

	task     *model.Task
	editable string
	output   string
	outcome  *SubmissionOutcome
}

func NewTaskWorkbench(gw *gateway.Gateway) *TaskWorkbench {
	return &TaskWorkbench{Gateway: gw}
}

// Load 拉取任务并把起始代码解码为编辑态
func (w *TaskWorkbench) Load(ctx context.Context, courseID, topicID string, order int) (*model.Task, error) {
	var task model.Task
	path := fmt.Sprintf("/courses/%s/topic/%s/tasks/%d", courseID, topicID, order)
	if err := w.Gateway.Get(ctx, path, &task); err != nil {
		return nil, err
	}
	if task.ID == "" {
		return nil, fmt.Errorf("task %d of topic %s has no id", order, topicID)
	}

	w.courseID = courseID
	w.topicID = topicID
	w.order = order
	w.task = &task
	w.editable = util.DecodeWireCode(task.StarterCode)
	w.output = ""
	w.outcome = nil
	return &task, nil
}

func (w *TaskWorkbench) Task() *model.Task {
	return w.task
}

// Edit 原样替换编辑态代码，不做任何转换
func (w *TaskWorkbench) Edit(text string) {
	w.editable = text
}

func (w *TaskWorkbench) Code() string {
	return w.editable
}

func (w *TaskWorkbench) LastOutput() string {
	return w.output
}

func (w *TaskWorkbench) LastOutcome() *SubmissionOutcome {
	return w.outcome
}

// Execute 把当前代码编码后发给远程执行服务，返回运行输出。
// 不改动编辑态代码。
func (w *TaskWorkbench) Execute(ctx context.Context) (string, error) {
	if w.task == nil {
		return "", util.ErrTaskNotLoaded
	}

	var result model.ExecutionResult
	path := fmt.Sprintf("/courses/%s/topic/%s/task/%s/execute", w.courseID, w.topicID, w.task.ID)
	payload := map[string]string{"input": util.EncodeWireCode(w.editable)}
	if err := w.Gateway.Post(ctx, path, payload, &result); err != nil {
		var httpErr *util.HTTPError
		if errors.As(err, &httpErr) {
			return "", &util.ExecutionError{Message: httpErr.Message}
		}
		return "", err
	}

	w.output = result.Output
	return result.Output, nil
}

// Submit 提交最终答案。始终返回结果记录而不向上抛错，
// 成功与否都会写入 LastOutcome。
func (w *TaskWorkbench) Submit(ctx context.Context) SubmissionOutcome {
	if w.task == nil {
		w.outcome = &SubmissionOutcome{OK: false, Message: util.ErrTaskNotLoaded.Error()}
		return *w.outcome
	}

	path := fmt.Sprintf("/courses/%s/topic/%s/task/%s/submit", w.courseID, w.topicID, w.task.ID)
	payload := map[string]string{"input": util.EncodeWireCode(w.editable)}
	if err := w.Gateway.Post(ctx, path, payload, nil); err != nil {
		w.outcome = &SubmissionOutcome{OK: false, Message: err.Error()}
	} else {
		w.outcome = &SubmissionOutcome{OK: true, Message: "Submission successful"}
	}
	return *w.outcome
}

// Reset 丢弃远端保存的进度，重新拉取原始起始代码，
// 并清空上次的执行输出与提交结果
func (w *TaskWorkbench) Reset(ctx context.Context) (*model.Task, error) {
	if w.task == nil {
		return nil, util.ErrTaskNotLoaded
	}

	path := fmt.Sprintf("/courses/%s/topic/%s/task/%s/reset", w.courseID, w.topicID, w.task.ID)
	if err := w.Gateway.Delete(ctx, path, nil); err != nil {
		return nil, err
	}
	return w.Load(ctx, w.courseID, w.topicID, w.order)
}

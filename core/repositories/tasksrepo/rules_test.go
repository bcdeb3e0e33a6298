package tasksrepo_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jrazmi/todokeeper/core/repositories/tasksrepo"
	"github.com/jrazmi/todokeeper/sdk/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) tasksrepo.Input {
	t.Helper()
	var in tasksrepo.Input
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return in
}

func messages(t *testing.T, err error) []string {
	t.Helper()
	var verr *tasksrepo.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Messages
}

func TestValidateForCreate(t *testing.T) {
	nt, err := tasksrepo.ValidateForCreate(decode(t, `{"title":"  Buy milk  ","dueDate":"2025-09-15","progress":80,"completed":true}`))
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", nt.Title)
	require.NotNil(t, nt.DueDate)
	assert.Equal(t, "2025-09-15", *nt.DueDate)

	nt, err = tasksrepo.ValidateForCreate(decode(t, `{"title":"No date","dueDate":null}`))
	require.NoError(t, err)
	assert.Nil(t, nt.DueDate)
}

func TestValidateForCreateCollectsAllErrors(t *testing.T) {
	_, err := tasksrepo.ValidateForCreate(decode(t, `{"dueDate":"15/09/2025"}`))
	msgs := messages(t, err)
	assert.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], "title is required")
	assert.Contains(t, msgs[1], "dueDate")
}

func TestValidateForCreateTitleRules(t *testing.T) {
	tests := []struct {
		name  string
		title any
		want  string
	}{
		{"missing", nil, "title is required"},
		{"blank", "   ", "title cannot be empty"},
		{"not a string", 42, "title must be a string"},
		{"too long", strings.Repeat("a", 501), "500 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tasksrepo.Input{}
			if tt.title != nil {
				in["title"] = tt.title
			}
			_, err := tasksrepo.ValidateForCreate(in)
			msgs := messages(t, err)
			require.Len(t, msgs, 1)
			assert.Contains(t, msgs[0], tt.want)
		})
	}
}

func TestValidateForCreateTitleLengthCountsCharacters(t *testing.T) {
	title := strings.Repeat("あ", 500)
	nt, err := tasksrepo.ValidateForCreate(tasksrepo.Input{"title": "  " + title + "  "})
	require.NoError(t, err)
	assert.Equal(t, title, nt.Title)
}

func TestValidateForCreateRejectsImpossibleDate(t *testing.T) {
	_, err := tasksrepo.ValidateForCreate(tasksrepo.Input{"title": "T", "dueDate": "2025-02-30"})
	assert.Len(t, messages(t, err), 1)
}

func TestValidateForUpdate(t *testing.T) {
	ut, err := tasksrepo.ValidateForUpdate(decode(t, `{}`))
	require.NoError(t, err)
	assert.True(t, ut.Empty())

	ut, err = tasksrepo.ValidateForUpdate(decode(t, `{"title":" New ","progress":40,"completed":false,"dueDate":null}`))
	require.NoError(t, err)
	assert.Equal(t, "New", *ut.Title)
	assert.Equal(t, 40, *ut.Progress)
	assert.False(t, *ut.Completed)
	assert.True(t, ut.ClearsDueDate())
}

func TestValidateForUpdateFieldErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"progress string", `{"progress":"50"}`, []string{"progress must be a number"}},
		{"progress range", `{"progress":150}`, []string{"progress must be between 0 and 100"}},
		{"progress negative", `{"progress":-1}`, []string{"progress must be between 0 and 100"}},
		{"progress fraction", `{"progress":50.5}`, []string{"progress must be an integer"}},
		{"progress null", `{"progress":null}`, []string{"progress must be a number"}},
		{"completed string", `{"completed":"yes"}`, []string{"completed must be a boolean"}},
		{"title null", `{"title":null}`, []string{"title must be a string"}},
		{"title blank", `{"title":""}`, []string{"title cannot be empty"}},
		{"date format", `{"dueDate":"2025/09/15"}`, []string{"dueDate must be a valid date"}},
		{"date type", `{"dueDate":20250915}`, []string{"dueDate must be a string"}},
		{
			"several",
			`{"title":"","progress":101,"completed":1}`,
			[]string{"title cannot be empty", "progress must be between 0 and 100", "completed must be a boolean"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tasksrepo.ValidateForUpdate(decode(t, tt.body))
			msgs := messages(t, err)
			require.Len(t, msgs, len(tt.want))
			for i, want := range tt.want {
				assert.Contains(t, msgs[i], want)
			}
		})
	}
}

func TestEnforceBusinessRules(t *testing.T) {
	p := validation.IntPtr
	b := validation.BoolPtr

	tests := []struct {
		name          string
		in            tasksrepo.UpdateTask
		wantProgress  *int
		wantCompleted *bool
	}{
		{"empty", tasksrepo.UpdateTask{}, nil, nil},
		{"progress 100 completes", tasksrepo.UpdateTask{Progress: p(100)}, p(100), b(true)},
		{"progress 100 explicit false kept", tasksrepo.UpdateTask{Progress: p(100), Completed: b(false)}, p(100), b(false)},
		{"completed forces progress", tasksrepo.UpdateTask{Completed: b(true)}, p(100), b(true)},
		{"completed overrides low progress", tasksrepo.UpdateTask{Progress: p(30), Completed: b(true)}, p(100), b(true)},
		{"uncompleting leaves progress alone", tasksrepo.UpdateTask{Completed: b(false)}, nil, b(false)},
		{"low progress leaves completed alone", tasksrepo.UpdateTask{Progress: p(40)}, p(40), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tasksrepo.EnforceBusinessRules(tt.in)
			assert.Equal(t, tt.wantProgress, got.Progress)
			assert.Equal(t, tt.wantCompleted, got.Completed)

			again := tasksrepo.EnforceBusinessRules(got)
			assert.Equal(t, got, again, "rule must be idempotent")
		})
	}
}

func TestEnforceBusinessRulesIdempotentExhaustive(t *testing.T) {
	progresses := []*int{nil}
	for _, v := range []int{0, 1, 50, 99, 100} {
		progresses = append(progresses, validation.IntPtr(v))
	}
	completes := []*bool{nil, validation.BoolPtr(true), validation.BoolPtr(false)}

	for _, pr := range progresses {
		for _, c := range completes {
			once := tasksrepo.EnforceBusinessRules(tasksrepo.UpdateTask{Progress: pr, Completed: c})
			twice := tasksrepo.EnforceBusinessRules(once)
			assert.Equal(t, once, twice)
		}
	}
}

func TestEnforceBusinessRulesDoesNotMutateInput(t *testing.T) {
	progress := 20
	in := tasksrepo.UpdateTask{Progress: &progress, Completed: validation.BoolPtr(true)}
	_ = tasksrepo.EnforceBusinessRules(in)
	assert.Equal(t, 20, progress)
}

func TestTouch(t *testing.T) {
	now := time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)

	var empty tasksrepo.UpdateTask
	empty.Touch(now)
	assert.Nil(t, empty.UpdatedAt)

	u := tasksrepo.UpdateTask{Title: validation.StringPtr("x")}
	u.Touch(now)
	require.NotNil(t, u.UpdatedAt)
	assert.Equal(t, now, *u.UpdatedAt)

	var nt tasksrepo.NewTask
	nt.Touch(now)
	assert.Equal(t, now, nt.CreatedAt)
	assert.Equal(t, now, nt.UpdatedAt)
}

func TestParseTaskID(t *testing.T) {
	id, err := tasksrepo.ParseTaskID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"0", "-3", "abc", "", "1.5"} {
		_, err := tasksrepo.ParseTaskID(bad)
		assert.Len(t, messages(t, err), 1, bad)
	}
}

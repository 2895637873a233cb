package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateSetRejectsUnknownColumns(t *testing.T) {
	set := UserUpdate()

	err := set.Set("role = 'admin' --", "x")
	require.Error(t, err)
	assert.True(t, set.Empty())

	require.Error(t, set.Set("user_id", "other"))
	require.Error(t, ProjectUpdate().Set("leader_id", "s1"))
}

func TestUpdateSetCollectsValues(t *testing.T) {
	set := NoticeUpdate()
	require.NoError(t, set.Set("title", "Exam"))
	require.NoError(t, set.SetNull("target_id"))

	assert.False(t, set.Empty())
	assert.Equal(t, []string{"target_id", "title"}, set.Columns())

	v, ok := set.Value("target_id")
	assert.True(t, ok)
	assert.Nil(t, v)

	_, ok = set.Value("content")
	assert.False(t, ok)
}

func TestSubmissionUpdateColumns(t *testing.T) {
	set := SubmissionUpdate()
	require.NoError(t, set.Set("status", "Reviewed"))
	require.NoError(t, set.Set("feedback", "ok"))
	assert.Error(t, set.Set("file_path", "/etc/passwd"))
}

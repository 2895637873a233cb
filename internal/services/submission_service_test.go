package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/HaseevAhmad/project-pilot/internal/models"
	"github.com/HaseevAhmad/project-pilot/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSubmissions struct {
	repository.SubmissionRepository
}

func (failingSubmissions) Create(context.Context, *models.Submission) error {
	return errors.New("insert failed")
}

func TestSubmissionCreate(t *testing.T) {
	e := newTestEnv(t)
	p := e.project(t, "P", "3rd Semester", "")
	a := e.student(t, "Ali", "3rd Semester")

	sub := e.upload(t, p.ProjectID, a.UserID, "proposal.pdf")
	assert.Equal(t, models.SubmissionStatusSubmitted, sub.Status)
	assert.Equal(t, time.Now().Format(models.DateLayout), sub.SubmissionDate)
	assert.Equal(t, "proposal.pdf", sub.FileName)
	assert.Nil(t, sub.Feedback)
	assert.True(t, e.files.Exists(sub.FilePath))
	assert.NotContains(t, filepath.Base(sub.FilePath), "proposal")
}

func TestSubmissionCreateValidation(t *testing.T) {
	e := newTestEnv(t)
	p := e.project(t, "P", "3rd Semester", "")
	a := e.student(t, "Ali", "3rd Semester")

	_, err := e.submissions.Create(e.ctx, CreateSubmissionInput{ProjectID: p.ProjectID, StudentID: a.UserID})
	requireKind(t, err, ErrValidation, "File is required.")

	_, err = e.submissions.Create(e.ctx, CreateSubmissionInput{
		ProjectID: "ghost", StudentID: a.UserID, FileName: "x.txt", Content: strings.NewReader("x"),
	})
	requireKind(t, err, ErrValidation, "Project not found.")

	_, err = e.submissions.Create(e.ctx, CreateSubmissionInput{
		ProjectID: p.ProjectID, StudentID: a.UserID, FileName: "big.bin",
		Content: strings.NewReader(strings.Repeat("x", 1<<20+1)),
	})
	requireKind(t, err, ErrValidation, "File is too large.")
}

func TestSubmissionCreateRemovesFileWhenInsertFails(t *testing.T) {
	e := newTestEnv(t)
	p := e.project(t, "P", "3rd Semester", "")
	a := e.student(t, "Ali", "3rd Semester")

	e.store.Submissions = failingSubmissions{e.store.Submissions}

	_, err := e.submissions.Create(e.ctx, CreateSubmissionInput{
		ProjectID: p.ProjectID, StudentID: a.UserID, FileName: "x.txt", Content: strings.NewReader("x"),
	})
	requireKind(t, err, ErrPersistence, "")

	entries, err := os.ReadDir(filepath.Join(e.uploads, "submissions"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSubmissionReview(t *testing.T) {
	e := newTestEnv(t)
	p := e.project(t, "P", "3rd Semester", "")
	a := e.student(t, "Ali", "3rd Semester")
	sub := e.upload(t, p.ProjectID, a.UserID, "r.pdf")

	_, err := e.submissions.Update(e.ctx, sub.SubmissionID, models.SubmissionPatch{})
	requireKind(t, err, ErrValidation, "No fields to update.")

	_, err = e.submissions.Update(e.ctx, sub.SubmissionID, models.SubmissionPatch{Status: models.Some(models.SubmissionStatus("Graded"))})
	requireKind(t, err, ErrValidation, "")

	_, err = e.submissions.Update(e.ctx, "ghost", models.SubmissionPatch{Status: models.Some(models.SubmissionStatusReviewed)})
	requireKind(t, err, ErrNotFound, "Submission not found.")

	got, err := e.submissions.Update(e.ctx, sub.SubmissionID, models.SubmissionPatch{
		Status:   models.Some(models.SubmissionStatusReviewed),
		Feedback: models.Some("Good work"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusReviewed, got.Status)
	require.NotNil(t, got.Feedback)
	assert.Equal(t, "Good work", *got.Feedback)

	got, err = e.submissions.Update(e.ctx, sub.SubmissionID, models.SubmissionPatch{Feedback: models.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, got.Feedback)
	assert.Equal(t, models.SubmissionStatusReviewed, got.Status)
}

func TestSubmissionDeleteAndDownload(t *testing.T) {
	e := newTestEnv(t)
	p := e.project(t, "P", "3rd Semester", "")
	a := e.student(t, "Ali", "3rd Semester")
	sub := e.upload(t, p.ProjectID, a.UserID, "r.pdf")
	lost := e.upload(t, p.ProjectID, a.UserID, "lost.pdf")

	got, err := e.submissions.Download(e.ctx, sub.SubmissionID)
	require.NoError(t, err)
	assert.Equal(t, sub.FilePath, got.FilePath)

	require.NoError(t, os.Remove(lost.FilePath))
	_, err = e.submissions.Download(e.ctx, lost.SubmissionID)
	requireKind(t, err, ErrNotFound, "File not found on server.")

	require.NoError(t, e.submissions.Delete(e.ctx, sub.SubmissionID))
	assert.False(t, e.files.Exists(sub.FilePath))

	err = e.submissions.Delete(e.ctx, sub.SubmissionID)
	requireKind(t, err, ErrNotFound, "Submission not found.")

	// Файла уже нет, строка все равно удаляется
	require.NoError(t, e.submissions.Delete(e.ctx, lost.SubmissionID))
}

func TestSubmissionListFilters(t *testing.T) {
	e := newTestEnv(t)
	p := e.project(t, "P", "3rd Semester", "")
	q := e.project(t, "Q", "3rd Semester", "")
	a := e.student(t, "Ali", "3rd Semester")
	b := e.student(t, "Bilal", "3rd Semester")
	e.upload(t, p.ProjectID, a.UserID, "1.pdf")
	e.upload(t, p.ProjectID, b.UserID, "2.pdf")
	e.upload(t, q.ProjectID, b.UserID, "3.pdf")

	all, err := e.submissions.List(e.ctx, repository.SubmissionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byProject, err := e.submissions.List(e.ctx, repository.SubmissionFilter{ProjectID: p.ProjectID})
	require.NoError(t, err)
	assert.Len(t, byProject, 2)

	byBoth, err := e.submissions.List(e.ctx, repository.SubmissionFilter{ProjectID: p.ProjectID, StudentID: b.UserID})
	require.NoError(t, err)
	require.Len(t, byBoth, 1)
	assert.Equal(t, "2.pdf", byBoth[0].FileName)
}

package services

import (
	"encoding/json"
	"testing"

	"github.com/HaseevAhmad/project-pilot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreateAndGetRoundTrip(t *testing.T) {
	e := newTestEnv(t)

	u, err := e.users.Create(e.ctx, CreateUserInput{
		Name: "Sara", Email: "sara@uni.test", Password: "pw", Role: models.RoleStudent,
		RollNumber: "BSCS-7", Semester: "2nd Semester",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.UserID)

	got, err := e.users.Get(e.ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Sara", got.Name)
	assert.Equal(t, "sara@uni.test", got.Email)
	assert.Equal(t, models.RoleStudent, got.Role)
	assert.Equal(t, "BSCS-7", *got.RollNumber)
	assert.Equal(t, "2nd Semester", *got.Semester)
	assert.Nil(t, got.ProjectID)
	assert.NotEqual(t, "pw", got.PasswordHash)

	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "password")
	assert.NotContains(t, string(data), got.PasswordHash)
}

func TestUserCreateRules(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.users.Create(e.ctx, CreateUserInput{Name: "X", Email: "x@uni.test", Role: models.RoleAdmin})
	requireKind(t, err, ErrValidation, "")

	_, err = e.users.Create(e.ctx, CreateUserInput{Name: "X", Email: "x@uni.test", Password: "p", Role: "dean"})
	requireKind(t, err, ErrValidation, "")

	_, err = e.users.Create(e.ctx, CreateUserInput{Name: "X", Email: "x@uni.test", Password: "p", Role: models.RoleStudent})
	requireKind(t, err, ErrValidation, "Semester is required for students.")
	_, err = e.users.Create(e.ctx, CreateUserInput{Name: "X", Email: "x@uni.test", Password: "p", Role: models.RoleStudent, Semester: "   "})
	requireKind(t, err, ErrValidation, "Semester is required for students.")

	st, err := e.users.Create(e.ctx, CreateUserInput{Name: "Y", Email: "y@uni.test", Password: "p", Role: models.RoleStudent, Semester: " 2nd Semester "})
	require.NoError(t, err)
	require.NotNil(t, st.Semester)
	assert.Equal(t, "2nd Semester", *st.Semester)

	_, err = e.users.Update(e.ctx, st.UserID, models.UserPatch{Semester: models.Some("  ")})
	requireKind(t, err, ErrValidation, "Semester is required for students.")

	sup, err := e.users.Create(e.ctx, CreateUserInput{
		Name: "Khan", Email: "khan@uni.test", Password: "p", Role: models.RoleSupervisor,
		RollNumber: "R1", Semester: "1st Semester",
	})
	require.NoError(t, err)
	assert.Nil(t, sup.RollNumber)
	assert.Nil(t, sup.Semester)

	_, err = e.users.Create(e.ctx, CreateUserInput{Name: "Dup", Email: "khan@uni.test", Password: "p", Role: models.RoleAdmin})
	requireKind(t, err, ErrConflict, "Email already exists.")
}

func TestUserListByRole(t *testing.T) {
	e := newTestEnv(t)
	e.staff(t, "Khan", models.RoleSupervisor)
	a := e.student(t, "Ali", "1st Semester")
	e.student(t, "Bilal", "1st Semester")
	p := e.project(t, "P", "1st Semester", "")
	require.NoError(t, e.projects.AddMember(e.ctx, p.ProjectID, a.UserID))

	students, err := e.users.List(e.ctx, models.RoleStudent)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Ali", students[0].Name)
	require.NotNil(t, students[0].ProjectID)
	assert.Equal(t, p.ProjectID, *students[0].ProjectID)
	assert.Nil(t, students[1].ProjectID)

	all, err := e.users.List(e.ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = e.users.List(e.ctx, "dean")
	requireKind(t, err, ErrValidation, "")
}

func TestLoginSameMessageForUnknownEmailAndWrongPassword(t *testing.T) {
	e := newTestEnv(t)
	a := e.student(t, "Ali", "3rd Semester")
	p := e.project(t, "P", "3rd Semester", "")
	require.NoError(t, e.projects.AddMember(e.ctx, p.ProjectID, a.UserID))

	res, err := e.auth.Login(e.ctx, "ali@uni.test", "secret")
	require.NoError(t, err)
	assert.Equal(t, a.UserID, res.User.UserID)
	require.NotNil(t, res.User.ProjectID)
	assert.Equal(t, p.ProjectID, *res.User.ProjectID)
	assert.NotEmpty(t, res.Token)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "password")

	_, wrongPass := e.auth.Login(e.ctx, "ali@uni.test", "nope")
	_, unknown := e.auth.Login(e.ctx, "ghost@uni.test", "secret")
	requireKind(t, wrongPass, ErrAuth, "Invalid email or password.")
	requireKind(t, unknown, ErrAuth, "Invalid email or password.")
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestTokenRoundTrip(t *testing.T) {
	e := newTestEnv(t)
	sup := e.staff(t, "Khan", models.RoleSupervisor)

	res, err := e.auth.Login(e.ctx, "khan@uni.test", "secret")
	require.NoError(t, err)

	u, err := e.auth.ValidateToken(e.ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, sup.UserID, u.UserID)

	other := NewAuthService(e.users, "another-secret", 0)
	_, err = other.ValidateToken(e.ctx, res.Token)
	assert.Error(t, err)

	_, err = e.auth.ValidateToken(e.ctx, "garbage")
	assert.Error(t, err)
}

func TestUserUpdate(t *testing.T) {
	e := newTestEnv(t)
	a := e.student(t, "Ali", "3rd Semester")
	e.staff(t, "Khan", models.RoleSupervisor)

	_, err := e.users.Update(e.ctx, a.UserID, models.UserPatch{})
	requireKind(t, err, ErrValidation, "No fields to update.")

	_, err = e.users.Update(e.ctx, "ghost", models.UserPatch{Name: models.Some("x")})
	requireKind(t, err, ErrNotFound, "User not found.")

	_, err = e.users.Update(e.ctx, a.UserID, models.UserPatch{Email: models.Some("khan@uni.test")})
	requireKind(t, err, ErrConflict, "Email already exists.")

	got, err := e.users.Update(e.ctx, a.UserID, models.UserPatch{
		Name:       models.Some("Ali Raza"),
		RollNumber: models.Some("R-9"),
		Password:   models.Some(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ali Raza", got.Name)
	assert.Equal(t, "R-9", *got.RollNumber)

	// Пустой пароль не меняет текущий
	_, err = e.users.Authenticate(e.ctx, "ali@uni.test", "secret")
	require.NoError(t, err)

	got, err = e.users.Update(e.ctx, a.UserID, models.UserPatch{RollNumber: models.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, got.RollNumber)

	_, err = e.users.Update(e.ctx, a.UserID, models.UserPatch{Password: models.Some("new-secret")})
	require.NoError(t, err)
	_, err = e.users.Authenticate(e.ctx, "ali@uni.test", "new-secret")
	require.NoError(t, err)
}

func TestRoleChangeReleasesMembership(t *testing.T) {
	e := newTestEnv(t)
	a := e.student(t, "Ali", "3rd Semester")
	p := e.project(t, "P", "3rd Semester", "")
	require.NoError(t, e.projects.AddMember(e.ctx, p.ProjectID, a.UserID))

	got, err := e.users.Update(e.ctx, a.UserID, models.UserPatch{Role: models.Some(models.RoleSupervisor)})
	require.NoError(t, err)
	assert.Equal(t, models.RoleSupervisor, got.Role)
	assert.Nil(t, got.ProjectID)
	assert.Nil(t, got.Semester)

	gotP, err := e.projects.Get(e.ctx, p.ProjectID)
	require.NoError(t, err)
	assert.Empty(t, gotP.Students)

	// Обратно в студенты только с семестром
	_, err = e.users.Update(e.ctx, a.UserID, models.UserPatch{Role: models.Some(models.RoleStudent)})
	requireKind(t, err, ErrValidation, "Semester is required for students.")

	got, err = e.users.Update(e.ctx, a.UserID, models.UserPatch{
		Role:     models.Some(models.RoleStudent),
		Semester: models.Some("4th Semester"),
	})
	require.NoError(t, err)
	assert.Equal(t, "4th Semester", *got.Semester)
}

func TestUserDeleteCascades(t *testing.T) {
	e := newTestEnv(t)
	sup := e.staff(t, "Khan", models.RoleSupervisor)
	a := e.student(t, "Ali", "3rd Semester")
	p := e.project(t, "P", "3rd Semester", sup.UserID)
	require.NoError(t, e.projects.AddMember(e.ctx, p.ProjectID, a.UserID))
	sub := e.upload(t, p.ProjectID, a.UserID, "draft.docx")

	n, err := e.notices.Create(e.ctx, nil, CreateNoticeInput{
		Title: "Hi", Content: "Team", AudienceType: models.AudienceSpecificProject,
		TargetID: p.ProjectID, AuthorID: sup.UserID,
	})
	require.NoError(t, err)

	require.NoError(t, e.users.Delete(e.ctx, a.UserID))
	_, err = e.users.Get(e.ctx, a.UserID)
	requireKind(t, err, ErrNotFound, "")
	_, err = e.submissions.Get(e.ctx, sub.SubmissionID)
	requireKind(t, err, ErrNotFound, "")
	assert.False(t, e.files.Exists(sub.FilePath))
	gotP, err := e.projects.Get(e.ctx, p.ProjectID)
	require.NoError(t, err)
	assert.Empty(t, gotP.Students)

	require.NoError(t, e.users.Delete(e.ctx, sup.UserID))
	gotP, err = e.projects.Get(e.ctx, p.ProjectID)
	require.NoError(t, err)
	assert.Nil(t, gotP.SupervisorID)
	_, err = e.notices.Get(e.ctx, n.NoticeID)
	requireKind(t, err, ErrNotFound, "")
}

func TestUserDeleteMissingRollsBack(t *testing.T) {
	e := newTestEnv(t)
	p := e.project(t, "P", "3rd Semester", "")

	// Строки с ключом несуществующего пользователя
	require.NoError(t, e.db.Create(&models.ProjectMember{ProjectID: p.ProjectID, StudentID: "ghost"}).Error)
	orphan := &models.Notice{
		Title: "Old", Content: "Left over", NoticeDate: "2024-01-01", AuthorID: "ghost",
		AudienceType: models.AudienceAll,
	}
	require.NoError(t, e.db.Create(orphan).Error)

	err := e.users.Delete(e.ctx, "ghost")
	requireKind(t, err, ErrNotFound, "User not found.")

	gotP, err := e.projects.Get(e.ctx, p.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ghost"}, gotP.Students)
	_, err = e.notices.Get(e.ctx, orphan.NoticeID)
	assert.NoError(t, err)
}

func TestUserDeleteRollsBackOnFailure(t *testing.T) {
	e := newTestEnv(t)
	sup := e.staff(t, "Khan", models.RoleSupervisor)
	a := e.student(t, "Ali", "3rd Semester")
	p := e.project(t, "P", "3rd Semester", sup.UserID)
	require.NoError(t, e.projects.AddMember(e.ctx, p.ProjectID, a.UserID))
	sub := e.upload(t, p.ProjectID, a.UserID, "draft.docx")

	// Удаление объявлений автора идет после членства, работ и руководства
	e.breakNotices(t)

	err := e.users.Delete(e.ctx, a.UserID)
	requireKind(t, err, ErrPersistence, "")

	got, err := e.users.Get(e.ctx, a.UserID)
	require.NoError(t, err)
	require.NotNil(t, got.ProjectID)
	assert.Equal(t, p.ProjectID, *got.ProjectID)
	_, err = e.submissions.Get(e.ctx, sub.SubmissionID)
	require.NoError(t, err)
	assert.True(t, e.files.Exists(sub.FilePath))

	err = e.users.Delete(e.ctx, sup.UserID)
	requireKind(t, err, ErrPersistence, "")

	gotP, err := e.projects.Get(e.ctx, p.ProjectID)
	require.NoError(t, err)
	require.NotNil(t, gotP.SupervisorID)
	assert.Equal(t, sup.UserID, *gotP.SupervisorID)
	_, err = e.users.Get(e.ctx, sup.UserID)
	assert.NoError(t, err)
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/khoahotran/custom-catalogs/internal/domain/user"
	"github.com/khoahotran/custom-catalogs/pkg/apperror"
	"github.com/khoahotran/custom-catalogs/pkg/auth"
	"github.com/khoahotran/custom-catalogs/pkg/logger"
)

type fakeUserRepo struct {
	users map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*user.User)}
}

func (r *fakeUserRepo) Save(ctx context.Context, u *user.User) error {
	if _, exists := r.users[u.Email]; exists {
		return apperror.NewConflict("user", "email", u.Email)
	}
	r.users[u.Email] = u
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, apperror.NewNotFound("user", email)
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", id.String())
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*user.User, error) {
	users := make([]*user.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, nil
}

func testLogger() logger.Logger {
	return logger.NewZapLogger("development")
}

func Test_Register_NormalizesEmail(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewRegisterUseCase(repo, testLogger())

	output, err := uc.Execute(context.Background(), RegisterInput{
		Email:    "  User@Example.COM ",
		Password: "longenoughpassword",
	})

	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, output.UserID)

	stored, err := repo.FindByEmail(context.Background(), "user@example.com")
	assert.NoError(t, err)
	assert.NotEqual(t, "longenoughpassword", stored.PasswordHash)
}

func Test_Register_RejectsShortPassword(t *testing.T) {
	uc := NewRegisterUseCase(newFakeUserRepo(), testLogger())

	_, err := uc.Execute(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "short",
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func Test_Register_RejectsMissingEmail(t *testing.T) {
	uc := NewRegisterUseCase(newFakeUserRepo(), testLogger())

	_, err := uc.Execute(context.Background(), RegisterInput{
		Email:    "   ",
		Password: "longenoughpassword",
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func Test_Register_DuplicateEmailConflicts(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewRegisterUseCase(repo, testLogger())

	_, err := uc.Execute(context.Background(), RegisterInput{Email: "user@example.com", Password: "longenoughpassword"})
	assert.NoError(t, err)

	_, err = uc.Execute(context.Background(), RegisterInput{Email: "USER@example.com", Password: "otherlongpassword"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func Test_Login_Flow(t *testing.T) {
	repo := newFakeUserRepo()
	hash, err := auth.HashPassword("correct-password")
	assert.NoError(t, err)
	repo.users["user@example.com"] = &user.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: hash,
	}

	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	uc := NewLoginUseCase(repo, jwtSvc, testLogger())

	output, err := uc.Execute(context.Background(), LoginInput{
		Email:    "user@example.com",
		Password: "correct-password",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, output.AccessToken)

	claims, err := jwtSvc.ValidateToken(output.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, repo.users["user@example.com"].ID, claims.OwnerID)
}

func Test_Login_WrongPasswordIsUnauthorized(t *testing.T) {
	repo := newFakeUserRepo()
	hash, _ := auth.HashPassword("correct-password")
	repo.users["user@example.com"] = &user.User{ID: uuid.New(), Email: "user@example.com", PasswordHash: hash}

	uc := NewLoginUseCase(repo, auth.NewJWTService("test-secret", time.Hour), testLogger())

	_, err := uc.Execute(context.Background(), LoginInput{Email: "user@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func Test_Login_UnknownEmailIsUnauthorized(t *testing.T) {
	uc := NewLoginUseCase(newFakeUserRepo(), auth.NewJWTService("test-secret", time.Hour), testLogger())

	_, err := uc.Execute(context.Background(), LoginInput{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

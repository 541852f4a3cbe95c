package auth

import (
	"context"
	"errors"

	"github.com/SeakMengs/CadetTrack/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserFinder interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// PasswordVerifier checks bcrypt password hashes stored on users.
type PasswordVerifier struct {
	users UserFinder
	cost  int
}

func NewPasswordVerifier(users UserFinder) *PasswordVerifier {
	return &PasswordVerifier{users: users, cost: bcrypt.DefaultCost}
}

func (pv PasswordVerifier) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), pv.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify returns nil, nil for an unknown email or a wrong password.
func (pv PasswordVerifier) Verify(ctx context.Context, email, secret string) (*model.User, error) {
	user, err := pv.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(secret)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/SeakMengs/CadetTrack/internal/constant"
	"github.com/SeakMengs/CadetTrack/internal/model"
)

const (
	MinPasswordLength      = 6
	// bcrypt rejects longer secrets
	MaxPasswordBytes       = 72
	MinAcademicGroupLength = 2
)

type UserService struct {
	*baseService
	credentials CredentialVerifier
}

type RegisterParams struct {
	FirstName     string
	LastName      string
	Patronymic    string
	Email         string
	Password      string
	AcademicGroup string
}

// RegisterCurator is the public sign up; only curators register themselves.
func (us UserService) RegisterCurator(ctx context.Context, params RegisterParams) (*model.User, error) {
	params.AcademicGroup = ""
	return us.register(ctx, params, constant.UserRoleCurator)
}

func (us UserService) RegisterCadet(ctx context.Context, principal Principal, params RegisterParams) (*model.User, error) {
	if !principal.IsCurator() {
		return nil, newForbidden("user", "")
	}

	group := strings.TrimSpace(params.AcademicGroup)
	if utf8.RuneCountInString(group) < MinAcademicGroupLength {
		return nil, newValidationError("academicGroup", errors.New("academic group must be at least 2 characters"))
	}
	params.AcademicGroup = group

	user, err := us.register(ctx, params, constant.UserRoleCadet)
	if err != nil {
		return nil, err
	}
	us.logger.Infow("Cadet registered", "userId", user.ID, "curatorId", principal.ID)
	return user, nil
}

func (us UserService) register(ctx context.Context, params RegisterParams, role constant.UserRole) (*model.User, error) {
	user := &model.User{
		FirstName:     strings.TrimSpace(params.FirstName),
		LastName:      strings.TrimSpace(params.LastName),
		Patronymic:    strings.TrimSpace(params.Patronymic),
		Email:         strings.ToLower(strings.TrimSpace(params.Email)),
		Role:          role,
		AcademicGroup: params.AcademicGroup,
		RegisteredAt:  us.now(),
	}

	switch {
	case user.FirstName == "":
		return nil, newValidationError("firstName", errors.New("first name is required"))
	case user.LastName == "":
		return nil, newValidationError("lastName", errors.New("last name is required"))
	case !strings.Contains(user.Email, "@"):
		return nil, newValidationError("email", errors.New("email is invalid"))
	case utf8.RuneCountInString(params.Password) < MinPasswordLength:
		return nil, newValidationError("password", errors.New("password must be at least 6 characters"))
	case len(params.Password) > MaxPasswordBytes:
		return nil, newValidationError("password", errors.New("password must be at most 72 bytes"))
	}

	hash, err := us.credentials.Hash(params.Password)
	if err != nil {
		return nil, &Error{Kind: KindStorageFailure, Entity: "user", Err: err}
	}
	user.PasswordHash = hash

	err = us.store.WithTx(ctx, func(store Store) error {
		_, err := store.GetUserByEmail(ctx, user.Email)
		if err == nil {
			return newValidationError("email", errors.New("email is already registered"))
		}
		if err = wrapStoreError(err, "user", ""); !errors.Is(err, ErrNotFound) {
			return err
		}

		return wrapStoreError(store.CreateUser(ctx, user), "user", "")
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListCadets is curator only. filter.Group NoAcademicGroup selects cadets
// without a group.
func (us UserService) ListCadets(ctx context.Context, principal Principal, filter CadetFilter) ([]model.User, error) {
	if !principal.IsCurator() {
		return nil, newForbidden("user", "")
	}

	filter.Search = strings.TrimSpace(filter.Search)
	filter.Group = strings.TrimSpace(filter.Group)
	cadets, err := us.store.ListCadets(ctx, filter)
	if err != nil {
		return nil, wrapStoreError(err, "user", "")
	}
	return cadets, nil
}

// Authenticate verifies the credentials. A non-empty role must match the
// account's role, mirroring the login form's curator/cadet switch.
func (us UserService) Authenticate(ctx context.Context, email, password string, role constant.UserRole) (*model.User, error) {
	user, err := us.credentials.Verify(ctx, strings.ToLower(strings.TrimSpace(email)), password)
	if err != nil {
		if err = wrapStoreError(err, "user", ""); !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	if user == nil || (role != "" && user.Role != role) {
		us.logger.Debugf("Authentication failed for %s", email)
		return nil, &Error{Kind: KindUnauthenticated, Entity: "user"}
	}
	return user, nil
}

func (us UserService) GetUserById(ctx context.Context, id string) (*model.User, error) {
	user, err := us.store.GetUserById(ctx, id)
	if err != nil {
		return nil, wrapStoreError(err, "user", id)
	}
	return user, nil
}

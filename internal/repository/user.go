package repository

import (
	"context"

	"github.com/SeakMengs/CadetTrack/internal/constant"
	"github.com/SeakMengs/CadetTrack/internal/model"
	"gorm.io/gorm"
)

type UserRepository struct {
	*baseRepository
}

func (ur UserRepository) GetById(ctx context.Context, tx *gorm.DB, userId string) (*model.User, error) {
	ur.logger.Debugf("Get user by id: %s \n", userId)

	db := ur.getDB(tx)
	var user *model.User

	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userId).First(&user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

func (ur UserRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*model.User, error) {
	ur.logger.Debugf("Get user by email: %s \n", email)

	db := ur.getDB(tx)
	var user *model.User

	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	// email is citext, comparison is case insensitive
	if err := db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

func (ur UserRepository) Create(ctx context.Context, tx *gorm.DB, user *model.User) error {
	ur.logger.Debugf("Create user with email: %s role: %s \n", user.Email, user.Role)

	db := ur.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return db.WithContext(ctx).Model(&model.User{}).Create(user).Error
}

// ListCadets searches names and email. group "" matches any group and
// noGroup selects cadets without one.
func (ur UserRepository) ListCadets(ctx context.Context, tx *gorm.DB, search, group, noGroup string) ([]model.User, error) {
	ur.logger.Debugf("List cadets with search: %s group: %s \n", search, group)

	db := ur.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	query := db.WithContext(ctx).Model(&model.User{}).Where("role = ?", constant.UserRoleCadet)

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"(last_name ILIKE ? OR first_name ILIKE ? OR patronymic ILIKE ? OR email ILIKE ? OR concat_ws(' ', last_name, first_name, patronymic) ILIKE ?)",
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	switch {
	case group == "":
	case group == noGroup:
		query = query.Where("(academic_group IS NULL OR academic_group = '')")
	default:
		query = query.Where("academic_group = ?", group)
	}

	var cadets []model.User
	if err := query.Order("last_name, first_name").Find(&cadets).Error; err != nil {
		return nil, err
	}

	return cadets, nil
}

package repository

import (
	"context"
	"errors"

	"lms/models"
	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// GormStore keeps LMS data in a relational database
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Users() UserRepository               { return gormUsers{s.db} }
func (s *GormStore) Courses() CourseRepository           { return gormCourses{s.db} }
func (s *GormStore) Progress() ProgressRepository        { return gormProgress{s.db} }
func (s *GormStore) Certificates() CertificateRepository { return gormCertificates{s.db} }
func (s *GormStore) Quizzes() QuizRepository             { return gormQuizzes{s.db} }
func (s *GormStore) Permissions() PermissionRepository   { return gormPermissions{s.db} }

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// translate maps gorm errors onto the repository sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

type gormUsers struct{ db *gorm.DB }

func (r gormUsers) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("created_at asc, id asc").Find(&users).Error
	return users, translate(err)
}

func (r gormUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r gormUsers) Save(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Save(user).Error)
}

func (r gormUsers) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			return translate(err)
		}
		// Relational variant cascades; no FK constraints so sqlite behaves the same
		for _, model := range []interface{}{
			&courseModels.Progress{},
			&courseModels.Certificate{},
			&models.Permission{},
			&models.LoginTracking{},
		} {
			if err := tx.Where("user_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&user).Error
	})
}

func (r gormUsers) AddXP(ctx context.Context, id string, amount int) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			return translate(err)
		}
		if err := tx.Model(&models.User{}).Where("id = ?", id).
			UpdateColumn("xp", gorm.Expr("xp + ?", amount)).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r gormUsers) SetCategory(ctx context.Context, id, category string) (*models.User, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(user).Update("category", category).Error; err != nil {
		return nil, translate(err)
	}
	user.Category = category
	return user, nil
}

func (r gormUsers) Ranking(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	q := r.db.WithContext(ctx).Order("xp desc, name asc, id asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&users).Error
	return users, translate(err)
}

func (r gormUsers) RecordLogin(ctx context.Context, entry *models.LoginTracking) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

func (r gormUsers) Logins(ctx context.Context, userID string) ([]models.LoginTracking, error) {
	var entries []models.LoginTracking
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("timestamp desc").Find(&entries).Error
	return entries, translate(err)
}

type gormPermissions struct{ db *gorm.DB }

func (r gormPermissions) Grant(ctx context.Context, userID, role string, permissions []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Permission{}).Error; err != nil {
			return err
		}
		if len(permissions) == 0 {
			return nil
		}

		records := make([]models.Permission, 0, len(permissions))
		for _, p := range permissions {
			records = append(records, models.Permission{UserID: userID, Role: role, Permission: p})
		}
		return translate(tx.Create(&records).Error)
	})
}

func (r gormPermissions) Has(ctx context.Context, userID, permission string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Permission{}).
		Where("user_id = ? AND permission = ?", userID, permission).
		Count(&count).Error
	return count > 0, translate(err)
}

func (r gormPermissions) ListByUser(ctx context.Context, userID string) ([]models.Permission, error) {
	var perms []models.Permission
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("permission asc").Find(&perms).Error
	return perms, translate(err)
}

type gormProgress struct{ db *gorm.DB }

func (r gormProgress) Find(ctx context.Context, userID, lessonID string) (*courseModels.Progress, error) {
	var p courseModels.Progress
	err := r.db.WithContext(ctx).Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r gormProgress) Save(ctx context.Context, progress *courseModels.Progress) error {
	return translate(r.db.WithContext(ctx).Save(progress).Error)
}

func (r gormProgress) ListByUser(ctx context.Context, userID string) ([]courseModels.Progress, error) {
	var rows []courseModels.Progress
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at asc").Find(&rows).Error
	return rows, translate(err)
}

func (r gormProgress) List(ctx context.Context) ([]courseModels.Progress, error) {
	var rows []courseModels.Progress
	err := r.db.WithContext(ctx).Order("user_id asc, created_at asc").Find(&rows).Error
	return rows, translate(err)
}

type gormCertificates struct{ db *gorm.DB }

func (r gormCertificates) Create(ctx context.Context, cert *courseModels.Certificate) error {
	return translate(r.db.WithContext(ctx).Create(cert).Error)
}

func (r gormCertificates) ListByUser(ctx context.Context, userID string) ([]courseModels.Certificate, error) {
	var certs []courseModels.Certificate
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("issued_at desc").Find(&certs).Error
	return certs, translate(err)
}

func (r gormCertificates) List(ctx context.Context) ([]courseModels.Certificate, error) {
	var certs []courseModels.Certificate
	err := r.db.WithContext(ctx).Order("issued_at desc").Find(&certs).Error
	return certs, translate(err)
}

type gormQuizzes struct{ db *gorm.DB }

func (r gormQuizzes) List(ctx context.Context) ([]courseModels.Quiz, error) {
	var quizzes []courseModels.Quiz
	err := r.db.WithContext(ctx).Order("created_at asc, id asc").Find(&quizzes).Error
	return quizzes, translate(err)
}

func (r gormQuizzes) FindByID(ctx context.Context, id string) (*courseModels.Quiz, error) {
	var quiz courseModels.Quiz
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&quiz).Error; err != nil {
		return nil, translate(err)
	}
	return &quiz, nil
}

func (r gormQuizzes) Create(ctx context.Context, quiz *courseModels.Quiz) error {
	return translate(r.db.WithContext(ctx).Create(quiz).Error)
}

func (r gormQuizzes) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&courseModels.Quiz{}).Count(&count).Error
	return count, translate(err)
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/skilltrack/certification-service/internal/models"
	"github.com/skilltrack/certification-service/internal/repositories"
	"gorm.io/gorm"
)

type CertificatePostgreSQL struct {
	db *gorm.DB
}

func NewCertificatePostgreSQL(db *gorm.DB) repositories.CertificateRepository {
	return &CertificatePostgreSQL{db: db}
}

func (c CertificatePostgreSQL) Create(ctx context.Context, cert *models.Certificate) error {
	return c.db.WithContext(ctx).Create(cert).Error
}

func (c CertificatePostgreSQL) Update(ctx context.Context, cert *models.Certificate) error {
	return c.db.WithContext(ctx).Save(cert).Error
}

func (c CertificatePostgreSQL) GetByLearnerAndCourse(ctx context.Context, learnerID, courseID uint) (*models.Certificate, error) {
	var cert models.Certificate
	if err := c.db.WithContext(ctx).
		Where("learner_id = ? AND course_id = ?", learnerID, courseID).
		First(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

func (c CertificatePostgreSQL) GetByNumber(ctx context.Context, number string) (*models.Certificate, error) {
	var cert models.Certificate
	if err := c.db.WithContext(ctx).
		Where("certificate_number = ?", number).
		First(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

func (c CertificatePostgreSQL) HighestNumberForYear(ctx context.Context, year int) (string, error) {
	var cert models.Certificate
	prefix := fmt.Sprintf("CERT-%d-", year)
	if err := c.db.WithContext(ctx).
		Where("certificate_number LIKE ?", prefix+"%").
		Order("certificate_number DESC").
		First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return cert.CertificateNumber, nil
}

func (c CertificatePostgreSQL) ListByCourse(ctx context.Context, courseID uint) ([]*models.Certificate, error) {
	var certs []*models.Certificate
	if err := c.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("learner_id ASC").
		Find(&certs).Error; err != nil {
		return nil, err
	}
	return certs, nil
}

func (c CertificatePostgreSQL) ListPendingVisibility(ctx context.Context) ([]*models.Certificate, error) {
	var certs []*models.Certificate
	if err := c.db.WithContext(ctx).
		Where("can_view = false").
		Find(&certs).Error; err != nil {
		return nil, err
	}
	return certs, nil
}

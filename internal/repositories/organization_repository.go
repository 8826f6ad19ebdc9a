package repositories

import (
	"context"

	"mutralo/internal/models"

	"gorm.io/gorm"
)

// OrganizationRepository stores directions, agencies and restaurants.
type OrganizationRepository interface {
	CreateDirection(ctx context.Context, direction *models.Direction) error
	CreateAgency(ctx context.Context, agency *models.Agency) error
	CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) error

	GetAgency(ctx context.Context, id uint) (*models.Agency, error)
	GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error)

	ListAgencies(ctx context.Context) ([]models.Agency, error)
	ListRestaurants(ctx context.Context) ([]models.Restaurant, error)
}

type organizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) CreateDirection(ctx context.Context, direction *models.Direction) error {
	return translate(conn(ctx, r.db).Create(direction).Error)
}

func (r *organizationRepository) CreateAgency(ctx context.Context, agency *models.Agency) error {
	return translate(conn(ctx, r.db).Create(agency).Error)
}

func (r *organizationRepository) CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) error {
	return translate(conn(ctx, r.db).Create(restaurant).Error)
}

func (r *organizationRepository) GetAgency(ctx context.Context, id uint) (*models.Agency, error) {
	var agency models.Agency
	if err := conn(ctx, r.db).First(&agency, id).Error; err != nil {
		return nil, translate(err)
	}
	return &agency, nil
}

func (r *organizationRepository) GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := conn(ctx, r.db).First(&restaurant, id).Error; err != nil {
		return nil, translate(err)
	}
	return &restaurant, nil
}

func (r *organizationRepository) ListAgencies(ctx context.Context) ([]models.Agency, error) {
	var agencies []models.Agency
	if err := conn(ctx, r.db).Where("active = ?", true).Order("name").Find(&agencies).Error; err != nil {
		return nil, translate(err)
	}
	return agencies, nil
}

func (r *organizationRepository) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	if err := conn(ctx, r.db).Order("name").Find(&restaurants).Error; err != nil {
		return nil, translate(err)
	}
	return restaurants, nil
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/shop-booking/internal/models"
	"github.com/BruksfildServices01/shop-booking/internal/notify"
)

type ContactsGormRepository struct {
	db *gorm.DB
}

var _ notify.Directory = (*ContactsGormRepository)(nil)

func NewContactsGormRepository(db *gorm.DB) *ContactsGormRepository {
	return &ContactsGormRepository{db: db}
}

func (r *ContactsGormRepository) Contacts(
	ctx context.Context,
	shopID uint,
	vehicleID uint,
) (notify.Contacts, error) {

	var c notify.Contacts

	var shop models.Shop
	if err := r.db.WithContext(ctx).Select("phone").First(&shop, shopID).Error; err != nil {
		return c, notFound(err)
	}
	c.ShopPhone = shop.Phone

	var v models.Vehicle
	if err := r.db.WithContext(ctx).Select("owner_phone").First(&v, vehicleID).Error; err != nil {
		return c, notFound(err)
	}
	c.OwnerPhone = v.OwnerPhone

	return c, nil
}

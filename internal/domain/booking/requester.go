package booking

import "github.com/BruksfildServices01/shop-booking/internal/models"

const (
	RoleCustomer = "customer"
	RoleShop     = "shop"
)

// Requester is the authenticated caller as asserted by the identity provider.
type Requester struct {
	UserID uint
	ShopID uint
	Role   string
}

func (r Requester) IsShopStaff(shopID uint) bool {
	return r.Role == RoleShop && r.ShopID != 0 && r.ShopID == shopID
}

func (r Requester) Owns(b *models.Booking) bool {
	return b.UserID == r.UserID
}

// Party names the side of the booking the requester is acting for.
func (r Requester) Party(b *models.Booking) (string, error) {
	switch {
	case r.IsShopStaff(b.ShopID):
		return RoleShop, nil
	case r.Owns(b):
		return RoleCustomer, nil
	}
	return "", ErrForbidden
}

package pricing

import (
	"strings"

	"github.com/BruksfildServices01/shop-booking/internal/httperr"
)

// Method is how the service is delivered to the customer.
type Method string

const (
	MethodInShop Method = "IN_SHOP"
	MethodTowing Method = "TOWING"
	MethodMobile Method = "MOBILE"
)

var ErrInvalidMethod = httperr.ErrBusiness("invalid_method")

// ParseMethod accepts the canonical names as well as "in-shop" style input.
func ParseMethod(s string) (Method, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	switch Method(norm) {
	case MethodInShop, MethodTowing, MethodMobile:
		return Method(norm), nil
	case "INSHOP":
		return MethodInShop, nil
	}
	return "", ErrInvalidMethod
}

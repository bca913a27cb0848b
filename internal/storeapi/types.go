package storeapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ID is a backend identifier. The API is not consistent about sending ids as
// numbers or strings, so both decode into ID. Ids that are valid JSON
// integers encode back as numbers; "007" stays a string.
type ID string

func (id ID) String() string { return string(id) }

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("storeapi: id %s: %w", b, err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if isDigits(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func isDigits(s string) bool {
	if s == "" || len(s) > 18 {
		return false
	}
	// JSON numbers have no leading zeros.
	if s[0] == '0' && s != "0" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

type Product struct {
	ID          ID              `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"imageUrl"`
}

// ProductInput carries the editable product fields for create and update.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImageURL    string
}

type CartItem struct {
	ID          ID              `json:"id"`
	CartID      ID              `json:"cartId"`
	ProductID   ID              `json:"productId"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	ProductName string          `json:"productName,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

// Subtotal is quantity × unit price for this line.
func (it CartItem) Subtotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// NewCartItem is the body of an add-to-cart request.
type NewCartItem struct {
	ProductID ID
	Quantity  int
	UnitPrice decimal.Decimal
}

// RegisterProfile is the registration form after local validation.
type RegisterProfile struct {
	FullName string
	Email    string
	Password string
}

// UserIdentity is the login response. The user id may arrive under several
// names depending on the backend build.
type UserIdentity struct {
	ID     ID `json:"id"`
	UserID ID `json:"userId"`
	OID    ID `json:"_id"`
	User   *struct {
		ID ID `json:"id"`
	} `json:"user"`
}

// UserKey returns the first non-empty identifier in the login response.
func (u UserIdentity) UserKey() ID {
	switch {
	case u.ID != "":
		return u.ID
	case u.UserID != "":
		return u.UserID
	case u.OID != "":
		return u.OID
	case u.User != nil && u.User.ID != "":
		return u.User.ID
	}
	return ""
}

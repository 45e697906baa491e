// Package password: hash bcrypt de passwords y política de complejidad para altas.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost se usa cuando la config trae costo 0.
const DefaultCost = 10

var ErrEmptyPassword = errors.New("password: empty password")

// Hasher hashea con un costo bcrypt fijo.
type Hasher struct {
	cost int
}

// NewHasher: cost 0 = DefaultCost; fuera del rango de bcrypt se recorta.
func NewHasher(cost int) *Hasher {
	switch {
	case cost == 0:
		cost = DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Cost() int { return h.cost }

func (h *Hasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compara en tiempo constante.
func (h *Hasher) Verify(plain, hash string) bool {
	if plain == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

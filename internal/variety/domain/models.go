package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind identifies one of the four variety entity sets. The sets share a shape
// but live in distinct tables; Kind carries the mapping.
type Kind string

const (
	KindBaseFruit Kind = "base_fruit"
	KindAdditive  Kind = "additive"
	KindJuice     Kind = "juice"
	KindPackaging Kind = "packaging"
)

var kindTables = map[Kind]string{
	KindBaseFruit: "base_fruit_varieties",
	KindAdditive:  "additive_varieties",
	KindJuice:     "juice_varieties",
	KindPackaging: "packaging_varieties",
}

var kindLinkTables = map[Kind]string{
	KindBaseFruit: "vendor_base_fruit_varieties",
	KindAdditive:  "vendor_additive_varieties",
	KindJuice:     "vendor_juice_varieties",
	KindPackaging: "vendor_packaging_varieties",
}

func Kinds() []Kind {
	return []Kind{KindBaseFruit, KindAdditive, KindJuice, KindPackaging}
}

// ParseKind accepts both snake_case and the hyphenated form used in URLs.
func ParseKind(raw string) (Kind, error) {
	value := Kind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_"))
	if _, ok := kindTables[value]; !ok {
		return "", ErrInvalidKind
	}
	return value, nil
}

func (k Kind) Valid() bool {
	_, ok := kindTables[k]
	return ok
}

func (k Kind) TableName() string { return kindTables[k] }

func (k Kind) LinkTableName() string { return kindLinkTables[k] }

// HasCategory reports whether the kind carries a category sub-field.
func (k Kind) HasCategory() bool {
	return k == KindAdditive || k == KindPackaging
}

type Variety struct {
	ID        uuid.UUID  `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	Category  *string    `json:"category,omitempty"`
	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (v Variety) Live() bool { return v.DeletedAt == nil }

package models

// Field is the top level of the organizational hierarchy.
type Field struct {
	Base
	Name      string     `gorm:"not null;uniqueIndex" json:"name" validate:"required,min=2"`
	Districts []District `gorm:"foreignKey:FieldID;references:ID" json:"districts,omitempty"`
}

// District groups churches inside a field.
type District struct {
	Base
	Name     string   `gorm:"not null" json:"name" validate:"required,min=2"`
	FieldID  string   `gorm:"type:uuid;not null" json:"fieldId" validate:"required,uuid"`
	Field    *Field   `json:"field,omitempty"`
	Churches []Church `gorm:"foreignKey:DistrictID;references:ID" json:"churches,omitempty"`
}

// Church is the organizational unit every data scope resolves to.
type Church struct {
	Base
	Name       string    `gorm:"not null" json:"name" validate:"required,min=2"`
	FieldID    string    `gorm:"type:uuid;not null;index" json:"fieldId" validate:"required,uuid"`
	Field      *Field    `json:"field,omitempty"`
	DistrictID string    `gorm:"type:uuid;not null;index" json:"districtId" validate:"required,uuid"`
	District   *District `json:"district,omitempty"`
	Address    string    `json:"address"`
	Members    []Member  `gorm:"foreignKey:ChurchID;references:ID" json:"members,omitempty"`
}

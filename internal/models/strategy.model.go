package models

type Strategy struct {
	BaseUUIDModel
	Name        string `gorm:"type:text;not null"             json:"name"        yaml:"name"`
	Slug        string `gorm:"type:varchar(100);uniqueIndex"  json:"slug"        yaml:"slug"`
	Description string `gorm:"type:text"                      json:"description" yaml:"description"`
	IsActive    bool   `gorm:"type:bool;not null"             json:"isActive"    yaml:"isActive"`
	SortOrder   int    `gorm:"not null;default:0"             json:"sortOrder"   yaml:"sortOrder"`
}

type ThematicCategory struct {
	BaseUUIDModel
	Name      string `gorm:"type:text;not null"            json:"name"      yaml:"name"`
	Slug      string `gorm:"type:varchar(100);uniqueIndex" json:"slug"      yaml:"slug"`
	SortOrder int    `gorm:"not null;default:0"            json:"sortOrder" yaml:"sortOrder"`
	IsActive  bool   `gorm:"type:bool;not null"            json:"isActive"  yaml:"isActive"`
}

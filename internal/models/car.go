package models

import "time"

// Car is a single classified listing. Listings are never physically removed:
// takedown and owner delete both flip IsActive, and inactive listings are
// invisible on every public read path.
type Car struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(150);not null" json:"title"`
	Brand     string    `gorm:"type:varchar(80);not null" json:"brand"`
	Model     string    `gorm:"type:varchar(80);not null" json:"model"`
	Year      int       `gorm:"not null" json:"year"`
	Price     float64   `gorm:"not null" json:"price"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Images   []CarImage   `gorm:"foreignKey:CarID;constraint:OnDelete:CASCADE" json:"images"`
	Features []CarFeature `gorm:"foreignKey:CarID;constraint:OnDelete:CASCADE" json:"features"`
	User     User         `gorm:"foreignKey:UserID" json:"-"`
}

// CarImage is one uploaded photo of a listing. SortOrder drives display sort
// only; at most one image per listing carries IsMain.
type CarImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CarID     uint      `gorm:"not null;index" json:"car_id"`
	ImageURL  string    `gorm:"type:varchar(255);not null" json:"image_url"`
	IsMain    bool      `gorm:"not null;default:false" json:"is_main"`
	SortOrder int       `gorm:"not null;default:0" json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

// CarFeature is a free-text key/value pair ("Fuel": "Diesel"). The whole set
// is replaced on every listing update.
type CarFeature struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CarID     uint      `gorm:"not null;index" json:"car_id"`
	Key       string    `gorm:"type:varchar(80);not null" json:"key"`
	Value     string    `gorm:"type:varchar(255);not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

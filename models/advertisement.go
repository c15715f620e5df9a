// models/advertisement.go
package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Advertisement statuses
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// Advertisement model
type Advertisement struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	Brand       string             `json:"brand" bson:"brand"`
	Model       string             `json:"model" bson:"model"`
	Year        int                `json:"year" bson:"year"`
	Color       string             `json:"color" bson:"color"`
	Mileage     int                `json:"mileage" bson:"mileage"`
	Engine      string             `json:"engine" bson:"engine"`
	Price       float64            `json:"price" bson:"price"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Status      string             `json:"status" bson:"status"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	ApprovedAt  *time.Time         `json:"approvedAt,omitempty" bson:"approvedAt,omitempty"`
}

// AdvertisementImage model
type AdvertisementImage struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AdvertisementID primitive.ObjectID `json:"advertisementId" bson:"advertisementId"`
	ImagePath       string             `json:"imagePath" bson:"imagePath"`
	IsMainImage     bool               `json:"isMainImage" bson:"isMainImage"`
	DisplayOrder    int                `json:"displayOrder" bson:"displayOrder"`
	UploadedAt      time.Time          `json:"uploadedAt" bson:"uploadedAt"`
}

// AdvertisementInput carries the listing fields submitted on create and update.
// Multipart form values are parsed into it on create; updates bind it from JSON.
type AdvertisementInput struct {
	Brand       string  `json:"brand" form:"Brand"`
	Model       string  `json:"model" form:"Model"`
	Year        int     `json:"year" form:"Year"`
	Color       string  `json:"color" form:"Color"`
	Mileage     int     `json:"mileage" form:"Mileage"`
	Engine      string  `json:"engine" form:"Engine"`
	Price       float64 `json:"price" form:"Price"`
	Description string  `json:"description" form:"Description"`
}

// ApplyEdit overwrites the listing fields with the submitted input and sends
// the listing back to moderation: status resets to Pending and the approval
// timestamp is cleared, whatever state it was in.
func (a *Advertisement) ApplyEdit(in AdvertisementInput) {
	a.Brand = in.Brand
	a.Model = in.Model
	a.Year = in.Year
	a.Color = in.Color
	a.Mileage = in.Mileage
	a.Engine = in.Engine
	a.Price = RoundPrice(in.Price)
	a.Description = in.Description
	a.Status = StatusPending
	a.ApprovedAt = nil
}

// Approve transitions the listing to Approved and stamps the approval time.
func (a *Advertisement) Approve(now time.Time) {
	a.Status = StatusApproved
	a.ApprovedAt = &now
}

// Reject transitions the listing to Rejected. The approval timestamp is
// cleared so that approvedAt is set exactly when the status is Approved.
func (a *Advertisement) Reject() {
	a.Status = StatusRejected
	a.ApprovedAt = nil
}

// RoundPrice normalises a price to two decimal places.
func RoundPrice(p float64) float64 {
	return math.Round(p*100) / 100
}

// AdvertisementView is a listing joined with its owner's username and images,
// as returned by the public feed and the moderation queue.
type AdvertisementView struct {
	Advertisement `bson:",inline"`
	Username      string               `json:"username,omitempty"`
	MainImage     string               `json:"mainImage,omitempty"`
	Images        []AdvertisementImage `json:"images,omitempty"`
}

// utils/valid.go
package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/autoflow/autoflow_backend/models"
)

// Listing field bounds
const (
	MaxBrandLength       = 100
	MaxModelLength       = 100
	MaxColorLength       = 50
	MaxEngineLength      = 100
	MaxDescriptionLength = 1000
	MinYear              = 1900
	MaxYear              = 2100
	MaxMileage           = 999999999
	MinPrice             = 0.01

	MinImageCount    = 1
	MaxImageCount    = 10
	maxImageFileSize = 10 * 1024 * 1024
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// FieldError reports the first field that failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// ValidateAdvertisementInput checks the listing fields in submission order and
// returns the first violation.
func ValidateAdvertisementInput(in models.AdvertisementInput) *FieldError {
	if strings.TrimSpace(in.Brand) == "" {
		return &FieldError{Field: "brand", Message: "Brand is required"}
	}
	if len(in.Brand) > MaxBrandLength {
		return &FieldError{Field: "brand", Message: fmt.Sprintf("Brand must be at most %d characters", MaxBrandLength)}
	}
	if strings.TrimSpace(in.Model) == "" {
		return &FieldError{Field: "model", Message: "Model is required"}
	}
	if len(in.Model) > MaxModelLength {
		return &FieldError{Field: "model", Message: fmt.Sprintf("Model must be at most %d characters", MaxModelLength)}
	}
	if in.Year < MinYear || in.Year > MaxYear {
		return &FieldError{Field: "year", Message: fmt.Sprintf("Year must be between %d and %d", MinYear, MaxYear)}
	}
	if strings.TrimSpace(in.Color) == "" {
		return &FieldError{Field: "color", Message: "Color is required"}
	}
	if len(in.Color) > MaxColorLength {
		return &FieldError{Field: "color", Message: fmt.Sprintf("Color must be at most %d characters", MaxColorLength)}
	}
	if in.Mileage < 0 || in.Mileage > MaxMileage {
		return &FieldError{Field: "mileage", Message: fmt.Sprintf("Mileage must be between 0 and %d", MaxMileage)}
	}
	if strings.TrimSpace(in.Engine) == "" {
		return &FieldError{Field: "engine", Message: "Engine is required"}
	}
	if len(in.Engine) > MaxEngineLength {
		return &FieldError{Field: "engine", Message: fmt.Sprintf("Engine must be at most %d characters", MaxEngineLength)}
	}
	if in.Price < MinPrice {
		return &FieldError{Field: "price", Message: "Price must be at least 0.01"}
	}
	if len(in.Description) > MaxDescriptionLength {
		return &FieldError{Field: "description", Message: fmt.Sprintf("Description must be at most %d characters", MaxDescriptionLength)}
	}
	return nil
}

// ValidateImageCount bounds the number of files attached to a listing.
func ValidateImageCount(count int) *FieldError {
	if count < MinImageCount {
		return &FieldError{Field: "images", Message: "At least one image is required"}
	}
	if count > MaxImageCount {
		return &FieldError{Field: "images", Message: fmt.Sprintf("At most %d images are allowed", MaxImageCount)}
	}
	return nil
}

// ValidateImageFile checks an uploaded file's extension and size.
func ValidateImageFile(file *multipart.FileHeader) *FieldError {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return &FieldError{Field: "images", Message: "Unsupported image format. Allowed formats: jpg, jpeg, png, gif, webp"}
	}
	if file.Size > maxImageFileSize {
		return &FieldError{Field: "images", Message: fmt.Sprintf("Image too large. Maximum size is %d bytes", maxImageFileSize)}
	}
	return nil
}

// NormalizeMainImageIndex resolves the caller-supplied main image index.
// Missing, malformed or out-of-range values fall back to the first image.
func NormalizeMainImageIndex(raw string, count int) int {
	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || idx < 0 || idx >= count {
		return 0
	}
	return idx
}

// SanitizeInput trims surrounding whitespace and strips control characters.
// Text is stored as submitted; escaping is the renderer's job, and mangling
// it here would also throw off the length bounds.
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)

	// Remove control characters
	input = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)

	return input
}

// SanitizeAdvertisementInput sanitizes the free-text fields of a listing
// submission in place.
func SanitizeAdvertisementInput(in *models.AdvertisementInput) {
	in.Brand = SanitizeInput(in.Brand)
	in.Model = SanitizeInput(in.Model)
	in.Color = SanitizeInput(in.Color)
	in.Engine = SanitizeInput(in.Engine)
	in.Description = SanitizeInput(in.Description)
}

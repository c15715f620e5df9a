package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/autoflow/autoflow_backend/middleware"
	"github.com/autoflow/autoflow_backend/models"
	"github.com/autoflow/autoflow_backend/repositories"
	"github.com/autoflow/autoflow_backend/utils"
)

// AdvertisementController handles the listing lifecycle: creation with image
// attachments, public feed, owner views, edits and deletion.
type AdvertisementController struct {
	Ads   repositories.AdvertisementRepository
	Users repositories.UserRepository
	Store *utils.ImageStore
}

// NewAdvertisementController creates a new advertisement controller
func NewAdvertisementController(ads repositories.AdvertisementRepository, users repositories.UserRepository, store *utils.ImageStore) *AdvertisementController {
	return &AdvertisementController{Ads: ads, Users: users, Store: store}
}

// parseAdvertisementForm reads the listing fields out of a multipart form.
// Unparsable numeric values are mapped to out-of-range sentinels so the field
// validator reports them with the right field name.
func parseAdvertisementForm(c echo.Context) models.AdvertisementInput {
	in := models.AdvertisementInput{
		Brand:       c.FormValue("Brand"),
		Model:       c.FormValue("Model"),
		Color:       c.FormValue("Color"),
		Engine:      c.FormValue("Engine"),
		Description: c.FormValue("Description"),
	}

	var err error
	if in.Year, err = strconv.Atoi(c.FormValue("Year")); err != nil {
		in.Year = -1
	}
	if in.Mileage, err = strconv.Atoi(c.FormValue("Mileage")); err != nil {
		in.Mileage = -1
	}
	if in.Price, err = strconv.ParseFloat(c.FormValue("Price"), 64); err != nil {
		in.Price = 0
	}
	return in
}

// CreateWithImages handles POST /Advertisement/CreateWithImages: a multipart
// submission of listing fields plus 1-10 image files. The advertisement row
// is inserted first so the image files can be stored under its identifier; if
// anything in the second phase fails, the row and any written files are
// removed again.
func (ac *AdvertisementController) CreateWithImages(c echo.Context) error {
	caller := middleware.CallerFromContext(c)

	in := parseAdvertisementForm(c)
	utils.SanitizeAdvertisementInput(&in)
	if ferr := utils.ValidateAdvertisementInput(in); ferr != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "field": ferr.Field, "message": ferr.Message})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Multipart form data is required"})
	}
	files := form.File["Images"]
	if ferr := utils.ValidateImageCount(len(files)); ferr != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "field": ferr.Field, "message": ferr.Message})
	}
	for _, file := range files {
		if ferr := utils.ValidateImageFile(file); ferr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "field": ferr.Field, "message": ferr.Message})
		}
	}
	mainIndex := utils.NormalizeMainImageIndex(c.FormValue("MainImageIndex"), len(files))

	now := time.Now().UTC()
	ad := &models.Advertisement{
		UserID:      caller.ID,
		Brand:       in.Brand,
		Model:       in.Model,
		Year:        in.Year,
		Color:       in.Color,
		Mileage:     in.Mileage,
		Engine:      in.Engine,
		Price:       models.RoundPrice(in.Price),
		Description: in.Description,
		Status:      models.StatusPending,
		CreatedAt:   now,
	}

	ctx := c.Request().Context()
	adID, err := ac.Ads.Insert(ctx, ad)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to create advertisement"})
	}

	images := make([]models.AdvertisementImage, 0, len(files))
	for i, file := range files {
		path, err := ac.Store.SaveAdvertisementImage(adID.Hex(), file)
		if err != nil {
			ac.rollbackCreate(c, adID)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to store images"})
		}
		images = append(images, models.AdvertisementImage{
			AdvertisementID: adID,
			ImagePath:       path,
			IsMainImage:     i == mainIndex,
			DisplayOrder:    i,
			UploadedAt:      now,
		})
	}

	if err := ac.Ads.InsertImages(ctx, images); err != nil {
		ac.rollbackCreate(c, adID)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to store images"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":         true,
		"message":         "Advertisement submitted and awaiting review",
		"advertisementId": adID,
	})
}

// rollbackCreate undoes a half-finished create: image rows, the advertisement
// row and any files already on disk.
func (ac *AdvertisementController) rollbackCreate(c echo.Context, adID primitive.ObjectID) {
	ctx := c.Request().Context()
	if err := ac.Ads.DeleteImages(ctx, adID); err != nil {
		c.Logger().Errorf("rollback: failed to delete image records for %s: %v", adID.Hex(), err)
	}
	if err := ac.Ads.Delete(ctx, adID); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		c.Logger().Errorf("rollback: failed to delete advertisement %s: %v", adID.Hex(), err)
	}
	if err := ac.Store.RemoveAdvertisementFiles(adID.Hex()); err != nil {
		c.Logger().Errorf("rollback: failed to remove files for %s: %v", adID.Hex(), err)
	}
}

// GetAll handles GET /Advertisement/GetAll: the public feed of approved
// listings, newest first, with owner username and resolved main image.
func (ac *AdvertisementController) GetAll(c echo.Context) error {
	ctx := c.Request().Context()

	ads, err := ac.Ads.ListByStatus(ctx, models.StatusApproved)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch advertisements"})
	}

	views, err := ac.buildViews(c, ads, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch advertisements"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "advertisements": views})
}

// MyAdvertisements handles GET /Advertisement/MyAdvertisements: the caller's
// own listings in every status.
func (ac *AdvertisementController) MyAdvertisements(c echo.Context) error {
	caller := middleware.CallerFromContext(c)
	ctx := c.Request().Context()

	ads, err := ac.Ads.ListByOwner(ctx, caller.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch advertisements"})
	}

	views, err := ac.buildViews(c, ads, false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch advertisements"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "advertisements": views})
}

// Details handles GET /Advertisement/Details/:id. Listings that the caller is
// not allowed to see answer 404, never their content.
func (ac *AdvertisementController) Details(c echo.Context) error {
	adID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid advertisement ID"})
	}

	ctx := c.Request().Context()
	ad, err := ac.Ads.FindByID(ctx, adID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Advertisement not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch advertisement"})
	}

	caller := middleware.CallerFromContext(c)
	if decision := utils.CanViewAdvertisement(caller, ad); !decision.Allowed {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Advertisement not found"})
	}

	views, err := ac.buildViews(c, []models.Advertisement{*ad}, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch advertisement"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "advertisement": views[0]})
}

// Update handles PUT /Advertisement/Update/:id. Owner only; a successful edit
// sends the listing back to moderation.
func (ac *AdvertisementController) Update(c echo.Context) error {
	caller := middleware.CallerFromContext(c)

	adID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid advertisement ID"})
	}

	ctx := c.Request().Context()
	ad, err := ac.Ads.FindByID(ctx, adID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Advertisement not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch advertisement"})
	}

	if decision := utils.CanEditAdvertisement(caller, ad); !decision.Allowed {
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Only the owner can edit this advertisement"})
	}

	var in models.AdvertisementInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid request body"})
	}
	utils.SanitizeAdvertisementInput(&in)
	if ferr := utils.ValidateAdvertisementInput(in); ferr != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "field": ferr.Field, "message": ferr.Message})
	}

	ad.ApplyEdit(in)
	if err := ac.Ads.Update(ctx, ad); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to update advertisement"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Advertisement updated and awaiting review"})
}

// Delete handles DELETE /Advertisement/Delete/:id. Owner or admin; image
// records and stored files are removed with the listing.
func (ac *AdvertisementController) Delete(c echo.Context) error {
	caller := middleware.CallerFromContext(c)

	adID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid advertisement ID"})
	}

	ctx := c.Request().Context()
	ad, err := ac.Ads.FindByID(ctx, adID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Advertisement not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch advertisement"})
	}

	if decision := utils.CanDeleteAdvertisement(caller, ad); !decision.Allowed {
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Only the owner or an admin can delete this advertisement"})
	}

	if err := ac.Ads.DeleteImages(ctx, adID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to delete advertisement"})
	}
	if err := ac.Ads.Delete(ctx, adID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to delete advertisement"})
	}
	if err := ac.Store.RemoveAdvertisementFiles(adID.Hex()); err != nil {
		c.Logger().Errorf("failed to remove files for %s: %v", adID.Hex(), err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Advertisement deleted successfully"})
}

// buildViews joins listings with their image records and, when asked, the
// owners' usernames.
func (ac *AdvertisementController) buildViews(c echo.Context, ads []models.Advertisement, withUsernames bool) ([]models.AdvertisementView, error) {
	ctx := c.Request().Context()

	adIDs := make([]primitive.ObjectID, len(ads))
	userIDs := make([]primitive.ObjectID, 0, len(ads))
	seen := make(map[primitive.ObjectID]bool)
	for i, ad := range ads {
		adIDs[i] = ad.ID
		if withUsernames && !seen[ad.UserID] {
			seen[ad.UserID] = true
			userIDs = append(userIDs, ad.UserID)
		}
	}

	imagesByAd, err := ac.Ads.ImagesByAdvertisements(ctx, adIDs)
	if err != nil {
		return nil, err
	}

	usernames := map[primitive.ObjectID]string{}
	if withUsernames {
		if usernames, err = ac.Users.UsernamesByIDs(ctx, userIDs); err != nil {
			return nil, err
		}
	}

	views := make([]models.AdvertisementView, len(ads))
	for i, ad := range ads {
		views[i] = models.AdvertisementView{
			Advertisement: ad,
			Username:      usernames[ad.UserID],
			Images:        imagesByAd[ad.ID],
			MainImage:     resolveMainImage(imagesByAd[ad.ID]),
		}
	}
	return views, nil
}

// resolveMainImage picks the flagged main image, falling back to the first
// upload. Listings can legitimately have zero images after a crash between
// the two insert phases; they render without a photo.
func resolveMainImage(images []models.AdvertisementImage) string {
	if len(images) == 0 {
		return ""
	}
	for _, image := range images {
		if image.IsMainImage {
			return image.ImagePath
		}
	}
	return images[0].ImagePath
}

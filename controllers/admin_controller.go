package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/autoflow/autoflow_backend/middleware"
	"github.com/autoflow/autoflow_backend/models"
	"github.com/autoflow/autoflow_backend/repositories"
	"github.com/autoflow/autoflow_backend/utils"
)

// AdminController handles user management and listing moderation. Every route
// it serves sits behind the RequireAdmin middleware.
type AdminController struct {
	Users repositories.UserRepository
	Ads   repositories.AdvertisementRepository
	Store *utils.ImageStore
}

// NewAdminController creates a new admin controller
func NewAdminController(users repositories.UserRepository, ads repositories.AdvertisementRepository, store *utils.ImageStore) *AdminController {
	return &AdminController{Users: users, Ads: ads, Store: store}
}

// GetUsers handles GET /Admin/GetUsers.
func (ac *AdminController) GetUsers(c echo.Context) error {
	users, err := ac.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch users"})
	}

	summaries := make([]models.UserSummary, len(users))
	for i, user := range users {
		summaries[i] = models.UserSummary{
			ID:        user.ID,
			Username:  user.Username,
			Role:      user.Role,
			CreatedAt: user.CreatedAt,
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "users": summaries})
}

// UpdateUserRole handles PUT /Admin/UpdateUserRole. The role must be exactly
// User or Admin, and admins cannot change their own role.
func (ac *AdminController) UpdateUserRole(c echo.Context) error {
	var req models.UpdateUserRoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Role must be 'User' or 'Admin'"})
	}

	targetID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid user ID"})
	}

	caller := middleware.CallerFromContext(c)
	if decision := utils.CanTargetUser(caller, targetID); !decision.Allowed {
		if decision.Reason == utils.ReasonSelfTarget {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "You cannot change your own role"})
		}
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Admin access required"})
	}

	ctx := c.Request().Context()
	if _, err := ac.Users.FindByID(ctx, targetID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "User does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch user"})
	}

	if err := ac.Users.UpdateRole(ctx, targetID, req.NewRole); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to update user role"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "User role has been updated"})
}

// DeleteUser handles DELETE /Admin/DeleteUser/:id. Admins cannot delete their
// own account. The user's listings, image records and stored files go with
// the account.
func (ac *AdminController) DeleteUser(c echo.Context) error {
	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid user ID"})
	}

	caller := middleware.CallerFromContext(c)
	if decision := utils.CanTargetUser(caller, targetID); !decision.Allowed {
		if decision.Reason == utils.ReasonSelfTarget {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "You cannot delete your own account"})
		}
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Admin access required"})
	}

	ctx := c.Request().Context()
	if _, err := ac.Users.FindByID(ctx, targetID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "User does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch user"})
	}

	adIDs, err := ac.Ads.IDsByOwner(ctx, targetID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to delete user"})
	}
	for _, adID := range adIDs {
		if err := ac.Ads.DeleteImages(ctx, adID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to delete user"})
		}
		if err := ac.Ads.Delete(ctx, adID); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to delete user"})
		}
		if err := ac.Store.RemoveAdvertisementFiles(adID.Hex()); err != nil {
			c.Logger().Errorf("failed to remove files for %s: %v", adID.Hex(), err)
		}
	}

	if err := ac.Users.Delete(ctx, targetID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to delete user"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "User has been deleted"})
}

// GetPendingAdvertisements handles GET /Admin/GetPendingAdvertisements: the
// moderation queue, newest first, with owner usernames joined in.
func (ac *AdminController) GetPendingAdvertisements(c echo.Context) error {
	ctx := c.Request().Context()

	ads, err := ac.Ads.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch advertisements"})
	}

	adController := AdvertisementController{Ads: ac.Ads, Users: ac.Users, Store: ac.Store}
	views, err := adController.buildViews(c, ads, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch advertisements"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "advertisements": views})
}

// ApproveAdvertisement handles PUT /Admin/ApproveAdvertisement/:id.
func (ac *AdminController) ApproveAdvertisement(c echo.Context) error {
	ad, errResp := ac.findAdvertisement(c)
	if ad == nil {
		return errResp
	}

	ad.Approve(time.Now().UTC())
	if err := ac.Ads.Update(c.Request().Context(), ad); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to approve advertisement"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Advertisement has been approved"})
}

// RejectAdvertisement handles PUT /Admin/RejectAdvertisement/:id.
func (ac *AdminController) RejectAdvertisement(c echo.Context) error {
	ad, errResp := ac.findAdvertisement(c)
	if ad == nil {
		return errResp
	}

	ad.Reject()
	if err := ac.Ads.Update(c.Request().Context(), ad); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to reject advertisement"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Advertisement has been rejected"})
}

// DeleteAdvertisement handles DELETE /Admin/DeleteAdvertisement/:id: removes
// any listing regardless of owner, cascading image records and files.
func (ac *AdminController) DeleteAdvertisement(c echo.Context) error {
	ad, errResp := ac.findAdvertisement(c)
	if ad == nil {
		return errResp
	}

	ctx := c.Request().Context()
	if err := ac.Ads.DeleteImages(ctx, ad.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to delete advertisement"})
	}
	if err := ac.Ads.Delete(ctx, ad.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to delete advertisement"})
	}
	if err := ac.Store.RemoveAdvertisementFiles(ad.ID.Hex()); err != nil {
		c.Logger().Errorf("failed to remove files for %s: %v", ad.ID.Hex(), err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Advertisement has been deleted"})
}

// findAdvertisement resolves the :id path parameter to a listing, writing the
// error response itself when the ID is malformed or the listing is gone.
func (ac *AdminController) findAdvertisement(c echo.Context) (*models.Advertisement, error) {
	adID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid advertisement ID"})
	}

	ad, err := ac.Ads.FindByID(c.Request().Context(), adID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Advertisement does not exist"})
		}
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch advertisement"})
	}
	return ad, nil
}

// utils/authz.go
package utils

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/autoflow/autoflow_backend/models"
)

// Reason codes attached to authorization decisions.
const (
	ReasonAllowed          = "allowed"
	ReasonNotAuthenticated = "not_authenticated"
	ReasonNotOwner         = "not_owner"
	ReasonNotAdmin         = "not_admin"
	ReasonNotVisible       = "not_visible"
	ReasonSelfTarget       = "self_target"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true, Reason: ReasonAllowed}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// CanViewAdvertisement decides listing visibility: Approved listings are
// public, anything else is visible only to the owner or an admin.
func CanViewAdvertisement(caller *models.Caller, ad *models.Advertisement) Decision {
	if ad.Status == models.StatusApproved {
		return allow()
	}
	if caller == nil {
		return deny(ReasonNotVisible)
	}
	if caller.IsAdmin() || caller.ID == ad.UserID {
		return allow()
	}
	return deny(ReasonNotVisible)
}

// CanEditAdvertisement allows only the owner to edit a listing.
func CanEditAdvertisement(caller *models.Caller, ad *models.Advertisement) Decision {
	if caller == nil {
		return deny(ReasonNotAuthenticated)
	}
	if caller.ID == ad.UserID {
		return allow()
	}
	return deny(ReasonNotOwner)
}

// CanDeleteAdvertisement allows the owner or an admin to delete a listing.
func CanDeleteAdvertisement(caller *models.Caller, ad *models.Advertisement) Decision {
	if caller == nil {
		return deny(ReasonNotAuthenticated)
	}
	if caller.IsAdmin() || caller.ID == ad.UserID {
		return allow()
	}
	return deny(ReasonNotOwner)
}

// CanModerate gates the admin surface: user management and listing review.
func CanModerate(caller *models.Caller) Decision {
	if caller == nil {
		return deny(ReasonNotAuthenticated)
	}
	if caller.IsAdmin() {
		return allow()
	}
	return deny(ReasonNotAdmin)
}

// CanTargetUser decides whether an admin may act on a user account. Acting on
// the caller's own account is refused.
func CanTargetUser(caller *models.Caller, targetID primitive.ObjectID) Decision {
	if d := CanModerate(caller); !d.Allowed {
		return d
	}
	if caller.ID == targetID {
		return deny(ReasonSelfTarget)
	}
	return allow()
}

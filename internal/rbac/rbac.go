package rbac

// Role constants
const (
	RoleReviewer = "reviewer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

// Permission constants
const (
	PermSubmitReview     = "submit_review"
	PermManageSubAccount = "manage_sub_account"
	PermReserveCampaign  = "reserve_campaign"
	PermOrderTraffic     = "order_traffic"
	PermSearchRank       = "search_rank"
	PermUpload           = "upload"
)

// RolePermissions defines what each role can do. Admins pass every check.
var RolePermissions = map[string][]string{
	RoleReviewer: {
		PermSubmitReview, PermManageSubAccount, PermUpload,
	},
	RoleSeller: {
		PermReserveCampaign, PermOrderTraffic, PermSearchRank, PermUpload,
		// Seller CANNOT: PermSubmitReview, PermManageSubAccount
	},
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role, permission string) bool {
	if role == RoleAdmin {
		return true
	}
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}

func IsValidRole(role string) bool {
	return role == RoleReviewer || role == RoleSeller || role == RoleAdmin
}

package rbac

import "testing"

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role string
		perm string
		want bool
	}{
		{RoleReviewer, PermSubmitReview, true},
		{RoleReviewer, PermReserveCampaign, false},
		{RoleSeller, PermReserveCampaign, true},
		{RoleSeller, PermSearchRank, true},
		{RoleSeller, PermManageSubAccount, false},
		{RoleAdmin, PermReserveCampaign, true},
		{RoleAdmin, PermSubmitReview, true},
		{"ghost", PermUpload, false},
	}
	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.perm, func(t *testing.T) {
			if got := HasPermission(tt.role, tt.perm); got != tt.want {
				t.Errorf("HasPermission(%q, %q) = %v, want %v", tt.role, tt.perm, got, tt.want)
			}
		})
	}
}

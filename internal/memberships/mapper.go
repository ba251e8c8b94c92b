package memberships

import (
	"github.com/amaldonado/fixpoint-backend/pkg/db/models"
	"github.com/amaldonado/fixpoint-backend/pkg/enums"
)

type membershipWithOrgRow struct {
	models.Membership
	OrgName string        `gorm:"column:org_name"`
	OrgKind enums.OrgKind `gorm:"column:org_kind"`
}

func membershipWithOrgFromRow(row membershipWithOrgRow) MembershipWithOrg {
	return MembershipWithOrg{
		MembershipID:    row.ID,
		OrgID:           row.OrgID,
		UserID:          row.UserID,
		OrgName:         row.OrgName,
		OrgKind:         row.OrgKind,
		Role:            row.Role,
		Status:          row.Status,
		InvitedByUserID: copyUUIDPointer(row.InvitedByUserID),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func membershipRowsToDTO(rows []membershipWithOrgRow) []MembershipWithOrg {
	out := make([]MembershipWithOrg, 0, len(rows))
	for _, row := range rows {
		out = append(out, membershipWithOrgFromRow(row))
	}
	return out
}

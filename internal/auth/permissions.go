package auth

import (
	"fmt"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

// Action is a permission-gated capability inside a family.
type Action string

const (
	ActionManageFamily      Action = "manage_family"
	ActionManageMembers     Action = "manage_members"
	ActionEditEvents        Action = "edit_events"
	ActionPostMessages      Action = "post_messages"
	ActionManageMedications Action = "manage_medications"
	ActionLogMedications    Action = "log_medications"
	ActionViewPay           Action = "view_pay"
	ActionManagePay         Action = "manage_pay"
	ActionLogTime           Action = "log_time"
)

// rolePermissions is the whole authorization model: a static role → action
// set. Unknown roles and unknown actions deny.
var rolePermissions = map[string]map[Action]bool{
	model.RoleOwner: {
		ActionManageFamily:      true,
		ActionManageMembers:     true,
		ActionEditEvents:        true,
		ActionPostMessages:      true,
		ActionManageMedications: true,
		ActionLogMedications:    true,
		ActionViewPay:           true,
		ActionManagePay:         true,
		ActionLogTime:           true,
	},
	model.RoleMember: {
		ActionManageMembers:     true,
		ActionEditEvents:        true,
		ActionPostMessages:      true,
		ActionManageMedications: true,
		ActionLogMedications:    true,
		ActionViewPay:           true,
		ActionLogTime:           true,
	},
	model.RoleCaregiver: {
		ActionEditEvents:     true,
		ActionPostMessages:   true,
		ActionLogMedications: true,
		ActionViewPay:        true,
		ActionLogTime:        true,
	},
}

// CheckPermission reports whether the role may perform the action. Fail
// closed: anything unrecognized is denied.
func CheckPermission(role string, action Action) bool {
	return rolePermissions[role][action]
}

// PermissionError is surfaced to clients as 403.
type PermissionError struct {
	Role   string
	Action Action
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("role %q may not %s", e.Role, e.Action)
}

// RequirePermission returns a PermissionError when the role lacks the action.
func RequirePermission(role string, action Action) error {
	if !CheckPermission(role, action) {
		return &PermissionError{Role: role, Action: action}
	}
	return nil
}

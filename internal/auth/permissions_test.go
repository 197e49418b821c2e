package auth

import (
	"errors"
	"testing"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

func TestOwnerHasAllActions(t *testing.T) {
	actions := []Action{
		ActionManageFamily, ActionManageMembers, ActionEditEvents,
		ActionPostMessages, ActionManageMedications, ActionLogMedications,
		ActionViewPay, ActionManagePay, ActionLogTime,
	}
	for _, action := range actions {
		if !CheckPermission(model.RoleOwner, action) {
			t.Errorf("owner denied %s", action)
		}
	}
}

func TestMemberCannotManageFamilyOrPay(t *testing.T) {
	if CheckPermission(model.RoleMember, ActionManageFamily) {
		t.Error("member should not manage family")
	}
	if CheckPermission(model.RoleMember, ActionManagePay) {
		t.Error("member should not manage pay")
	}
	if !CheckPermission(model.RoleMember, ActionEditEvents) {
		t.Error("member should edit events")
	}
}

func TestCaregiverPermissions(t *testing.T) {
	allowed := []Action{ActionEditEvents, ActionPostMessages, ActionLogMedications, ActionViewPay, ActionLogTime}
	for _, action := range allowed {
		if !CheckPermission(model.RoleCaregiver, action) {
			t.Errorf("caregiver denied %s", action)
		}
	}
	denied := []Action{ActionManageFamily, ActionManageMembers, ActionManageMedications, ActionManagePay}
	for _, action := range denied {
		if CheckPermission(model.RoleCaregiver, action) {
			t.Errorf("caregiver allowed %s", action)
		}
	}
}

func TestCheckPermissionFailsClosed(t *testing.T) {
	if CheckPermission("", ActionEditEvents) {
		t.Error("empty role should deny")
	}
	if CheckPermission("superuser", ActionEditEvents) {
		t.Error("unknown role should deny")
	}
	if CheckPermission(model.RoleOwner, Action("reboot")) {
		t.Error("unknown action should deny")
	}
}

func TestRequirePermission(t *testing.T) {
	if err := RequirePermission(model.RoleOwner, ActionManagePay); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := RequirePermission(model.RoleCaregiver, ActionManagePay)
	if err == nil {
		t.Fatal("expected error")
	}
	var pe *PermissionError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PermissionError, got %T", err)
	}
	if pe.Role != model.RoleCaregiver || pe.Action != ActionManagePay {
		t.Errorf("unexpected fields: %+v", pe)
	}
}

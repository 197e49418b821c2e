package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

func TestMedicationCaregiverCannotManage(t *testing.T) {
	f := newFixture(t)
	h := NewMedicationHandler(f.store, f.hub, testLogger())
	emma := f.seedMember(t, "Emma")
	rose := f.addUser(t, "user-rose", model.RoleCaregiver)

	body := map[string]string{"member_id": emma.ID, "name": "Amoxicillin"}
	w := httptest.NewRecorder()
	h.Create(w, f.request(t, rose.ID, "POST", "/api/medications?family_id="+f.family.ID, body))
	wantStatus(t, w, http.StatusForbidden)

	w = httptest.NewRecorder()
	h.Create(w, f.request(t, f.owner.ID, "POST", "/api/medications?family_id="+f.family.ID, body))
	wantStatus(t, w, http.StatusCreated)
}

func TestMedicationLogStatusValidation(t *testing.T) {
	f := newFixture(t)
	h := NewMedicationHandler(f.store, f.hub, testLogger())
	emma := f.seedMember(t, "Emma")
	rose := f.addUser(t, "user-rose", model.RoleCaregiver)

	w := httptest.NewRecorder()
	h.Create(w, f.request(t, f.owner.ID, "POST", "/api/medications?family_id="+f.family.ID, map[string]string{"member_id": emma.ID, "name": "Amoxicillin"}))
	wantStatus(t, w, http.StatusCreated)
	var med model.Medication
	decodeBody(t, w, &med)

	logDose := func(status string) *httptest.ResponseRecorder {
		r := f.request(t, rose.ID, "POST", "/api/medications/"+med.ID+"/logs?family_id="+f.family.ID, map[string]string{"status": status})
		r.SetPathValue("id", med.ID)
		w := httptest.NewRecorder()
		h.CreateLog(w, r)
		return w
	}

	// Caregivers hold log_medications.
	wantStatus(t, logDose("given"), http.StatusCreated)
	wantStatus(t, logDose("refused"), http.StatusCreated)
	wantStatus(t, logDose("lost"), http.StatusBadRequest)
}

func TestMedicationDeactivateKeepsHistory(t *testing.T) {
	f := newFixture(t)
	h := NewMedicationHandler(f.store, f.hub, testLogger())
	emma := f.seedMember(t, "Emma")

	w := httptest.NewRecorder()
	h.Create(w, f.request(t, f.owner.ID, "POST", "/api/medications?family_id="+f.family.ID, map[string]string{"member_id": emma.ID, "name": "Amoxicillin"}))
	var med model.Medication
	decodeBody(t, w, &med)

	r := f.request(t, f.owner.ID, "POST", "/api/medications/"+med.ID+"/logs?family_id="+f.family.ID, map[string]string{"status": "given"})
	r.SetPathValue("id", med.ID)
	w = httptest.NewRecorder()
	h.CreateLog(w, r)
	wantStatus(t, w, http.StatusCreated)

	r = f.request(t, f.owner.ID, "DELETE", "/api/medications/"+med.ID+"?family_id="+f.family.ID, nil)
	r.SetPathValue("id", med.ID)
	w = httptest.NewRecorder()
	h.Deactivate(w, r)
	wantStatus(t, w, http.StatusNoContent)

	// Default list hides it; include_inactive shows it.
	w = httptest.NewRecorder()
	h.List(w, f.request(t, f.owner.ID, "GET", "/api/medications?family_id="+f.family.ID, nil))
	wantStatus(t, w, http.StatusOK)
	var meds []model.Medication
	decodeBody(t, w, &meds)
	if len(meds) != 0 {
		t.Errorf("active list = %d, want 0", len(meds))
	}

	w = httptest.NewRecorder()
	h.List(w, f.request(t, f.owner.ID, "GET", "/api/medications?family_id="+f.family.ID+"&include_inactive=true", nil))
	decodeBody(t, w, &meds)
	if len(meds) != 1 {
		t.Errorf("full list = %d, want 1", len(meds))
	}

	// Logs survive the deactivation.
	r = f.request(t, f.owner.ID, "GET", "/api/medications/"+med.ID+"/logs?family_id="+f.family.ID, nil)
	r.SetPathValue("id", med.ID)
	w = httptest.NewRecorder()
	h.ListLogs(w, r)
	wantStatus(t, w, http.StatusOK)
	var logs []model.MedicationLog
	decodeBody(t, w, &logs)
	if len(logs) != 1 {
		t.Errorf("logs = %d, want 1", len(logs))
	}
}

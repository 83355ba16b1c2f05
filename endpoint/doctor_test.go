package endpoint_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ariebrainware/monorec/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDoctors_RequiresAuthentication(t *testing.T) {
	r, db := SetupTestServer(t)
	seedDoctor(t, db, "Dr. X")

	w, resp := performRequest(t, r, requestSpec{method: http.MethodGet, path: "/doctor"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, resp.Success)

	token := issueToken(t, db, "patient-1", model.RolePatient)
	w, resp = performRequest(t, r, requestSpec{method: http.MethodGet, path: "/doctor", token: token})
	require.Equal(t, http.StatusOK, w.Code)

	var doctors []model.Doctor
	decodeData(t, resp, &doctors)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Dr. X", doctors[0].DoctorName)
}

func TestCreateAndGetDoctor(t *testing.T) {
	r, _ := SetupTestServer(t)

	w, resp := performRequest(t, r, requestSpec{method: http.MethodPost, path: "/doctor/Dr.%20%20X"})
	require.Equal(t, http.StatusOK, w.Code, resp.Msg)
	var created model.Doctor
	decodeData(t, resp, &created)
	assert.NotZero(t, created.DoctorID)
	assert.Equal(t, "Dr. X", created.DoctorName)

	w, resp = performRequest(t, r, requestSpec{method: http.MethodGet, path: fmt.Sprintf("/doctor/%d", created.DoctorID)})
	require.Equal(t, http.StatusOK, w.Code)
	var fetched model.Doctor
	decodeData(t, resp, &fetched)
	assert.Equal(t, created.DoctorID, fetched.DoctorID)
	assert.Nil(t, fetched.DoctorEmail)
}

func TestGetDoctor_Errors(t *testing.T) {
	r, _ := SetupTestServer(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "missing doctor", path: "/doctor/999", wantStatus: http.StatusNotFound},
		{name: "non numeric id", path: "/doctor/abc", wantStatus: http.StatusBadRequest},
		{name: "zero id", path: "/doctor/0", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := performRequest(t, r, requestSpec{method: http.MethodGet, path: tt.path})
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.False(t, resp.Success)
		})
	}
}

func TestCreateDoctor_BlankName(t *testing.T) {
	r, _ := SetupTestServer(t)

	w, _ := performRequest(t, r, requestSpec{method: http.MethodPost, path: "/doctor/%20%20"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDoctorPatientAssociationLifecycle(t *testing.T) {
	r, db := SetupTestServer(t)
	doctor := seedDoctor(t, db, "Dr. X")
	patient := seedPatient(t, db, "Y")
	token := issueToken(t, db, "doctor-1", model.RoleDoctor)

	assocPath := fmt.Sprintf("/doctor/%d/patient/%d", doctor.DoctorID, patient.PatientID)
	listPath := fmt.Sprintf("/doctor/%d/patient", doctor.DoctorID)

	w, resp := performRequest(t, r, requestSpec{method: http.MethodPost, path: assocPath})
	require.Equal(t, http.StatusOK, w.Code, resp.Msg)
	var added model.Patient
	decodeData(t, resp, &added)
	assert.Equal(t, patient.PatientID, added.PatientID)

	w, _ = performRequest(t, r, requestSpec{method: http.MethodPost, path: assocPath})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, resp = performRequest(t, r, requestSpec{method: http.MethodGet, path: listPath, token: token})
	require.Equal(t, http.StatusOK, w.Code)
	var patients []model.Patient
	decodeData(t, resp, &patients)
	require.Len(t, patients, 1)
	assert.Equal(t, "Y", patients[0].PatientName)

	w, _ = performRequest(t, r, requestSpec{method: http.MethodDelete, path: assocPath})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = performRequest(t, r, requestSpec{method: http.MethodDelete, path: assocPath})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, resp = performRequest(t, r, requestSpec{method: http.MethodGet, path: listPath, token: token})
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, resp, &patients)
	assert.Empty(t, patients)
}

func TestAddPatientToDoctor_MissingEntities(t *testing.T) {
	r, db := SetupTestServer(t)
	doctor := seedDoctor(t, db, "Dr. X")

	w, _ := performRequest(t, r, requestSpec{method: http.MethodPost, path: fmt.Sprintf("/doctor/%d/patient/42", doctor.DoctorID)})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = performRequest(t, r, requestSpec{method: http.MethodPost, path: "/doctor/42/patient/1"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	require.NoError(t, db.Model(&model.DoctorPatient{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListPatientsForDoctor_RoleGuard(t *testing.T) {
	r, db := SetupTestServer(t)
	doctor := seedDoctor(t, db, "Dr. X")
	path := fmt.Sprintf("/doctor/%d/patient", doctor.DoctorID)

	w, _ := performRequest(t, r, requestSpec{method: http.MethodGet, path: path})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	patientToken := issueToken(t, db, "patient-1", model.RolePatient)
	w, _ = performRequest(t, r, requestSpec{method: http.MethodGet, path: path, token: patientToken})
	assert.Equal(t, http.StatusForbidden, w.Code)

	doctorToken := issueToken(t, db, "doctor-1", model.RoleDoctor)
	w, _ = performRequest(t, r, requestSpec{method: http.MethodGet, path: path, token: doctorToken})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = performRequest(t, r, requestSpec{method: http.MethodGet, path: "/doctor/999/patient", token: doctorToken})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

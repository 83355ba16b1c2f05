package endpoint

import (
	"fmt"
	"strconv"

	"github.com/ariebrainware/monorec/middleware"
	"github.com/ariebrainware/monorec/model"
	"github.com/ariebrainware/monorec/repository"
	"github.com/ariebrainware/monorec/util"
	"github.com/gin-gonic/gin"
)

// ListPatients godoc
// @Summary      List patients
// @Description  With currentUserOnly=true only the caller's own patient record is returned.
// @Description  Otherwise doctors see every patient and other callers get an empty list.
// @Tags         Patient
// @Produce      json
// @Security     BearerAuth
// @Param        currentUserOnly query bool false "Only the caller's own record"
// @Success      200 {object} util.APIResponse{data=[]model.Patient} "Patients retrieved"
// @Failure      400 {object} util.APIResponse "Invalid currentUserOnly"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /patient [get]
func ListPatients(c *gin.Context) {
	currentUserOnly := false
	if raw := c.Query("currentUserOnly"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			util.CallUserError(c, util.APIErrorParams{Msg: "Invalid currentUserOnly value", Err: err})
			return
		}
		currentUserOnly = v
	}

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Authentication required", Err: fmt.Errorf("no principal")})
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	repo := repository.NewPatientRepository(db)
	var (
		patients []model.Patient
		err      error
	)
	switch {
	case currentUserOnly:
		patients, err = repo.ListPatientsByUser(c.Request.Context(), principal.Subject)
	case principal.HasRole(model.RoleDoctor):
		patients, err = repo.ListPatients(c.Request.Context())
	default:
		// Non-doctors asking for the full list see nothing rather than an error.
		patients = []model.Patient{}
	}
	if err != nil {
		respondRepositoryError(c, err, "Failed to retrieve patients")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patients retrieved", Data: patients})
}

// GetMyPatient godoc
// @Summary      Get the caller's patient record
// @Tags         Patient
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      403 {object} util.APIResponse "Patient role required"
// @Failure      404 {object} util.APIResponse "No patient record for this account"
// @Router       /patient/me [get]
func GetMyPatient(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Authentication required", Err: fmt.Errorf("no principal")})
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patient, err := repository.NewPatientRepository(db).GetPatientByUser(c.Request.Context(), principal.Subject)
	if err != nil {
		respondRepositoryError(c, err, "Patient record not found")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patient retrieved", Data: patient})
}

// GetPatient godoc
// @Summary      Get a patient
// @Tags         Patient
// @Produce      json
// @Param        id path int true "Patient ID"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient retrieved"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Router       /patient/{id} [get]
func GetPatient(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "patient")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patient, err := repository.NewPatientRepository(db).GetPatient(c.Request.Context(), id)
	if err != nil {
		respondRepositoryError(c, err, "Patient not found")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patient retrieved", Data: patient})
}

// CreatePatient godoc
// @Summary      Create a patient
// @Description  The path segment after /patient is the new patient's name.
// @Tags         Patient
// @Produce      json
// @Param        id path string true "Patient name"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient created"
// @Failure      400 {object} util.APIResponse "Invalid patient name"
// @Router       /patient/{id} [post]
func CreatePatient(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patient, err := repository.NewPatientRepository(db).CreatePatient(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondRepositoryError(c, err, "Failed to create patient")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patient created", Data: patient})
}

// ListDoctorsForPatient godoc
// @Summary      List a patient's doctors
// @Tags         Patient
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Patient ID"
// @Success      200 {object} util.APIResponse{data=[]model.Doctor} "Doctors retrieved"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Router       /patient/{id}/doctor [get]
func ListDoctorsForPatient(c *gin.Context) {
	patientID, ok := parseIDParam(c, "id", "patient")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	doctors, err := repository.NewPatientRepository(db).ListDoctorsForPatient(c.Request.Context(), patientID)
	if err != nil {
		respondRepositoryError(c, err, "Failed to retrieve doctors for patient")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Doctors retrieved", Data: doctors})
}

// AddDoctorToPatient godoc
// @Summary      Associate a doctor with a patient
// @Tags         Patient
// @Produce      json
// @Param        id path int true "Patient ID"
// @Param        docId path int true "Doctor ID"
// @Success      200 {object} util.APIResponse{data=model.Doctor} "Doctor added"
// @Failure      404 {object} util.APIResponse "Patient or doctor not found"
// @Failure      409 {object} util.APIResponse "Already associated"
// @Router       /patient/{id}/doctor/{docId} [post]
func AddDoctorToPatient(c *gin.Context) {
	patientID, ok := parseIDParam(c, "id", "patient")
	if !ok {
		return
	}
	doctorID, ok := parseIDParam(c, "docId", "doctor")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	doctor, err := repository.NewPatientRepository(db).AddDoctorToPatient(c.Request.Context(), patientID, doctorID)
	if err != nil {
		respondRepositoryError(c, err, "Failed to add doctor to patient")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Doctor added to patient", Data: doctor})
}

// RemoveDoctorFromPatient godoc
// @Summary      Remove a doctor from a patient
// @Tags         Patient
// @Produce      json
// @Param        id path int true "Patient ID"
// @Param        docId path int true "Doctor ID"
// @Success      200 {object} util.APIResponse{data=model.Doctor} "Doctor removed"
// @Failure      404 {object} util.APIResponse "Patient, doctor or association not found"
// @Router       /patient/{id}/doctor/{docId} [delete]
func RemoveDoctorFromPatient(c *gin.Context) {
	patientID, ok := parseIDParam(c, "id", "patient")
	if !ok {
		return
	}
	doctorID, ok := parseIDParam(c, "docId", "doctor")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	doctor, err := repository.NewPatientRepository(db).RemoveDoctorFromPatient(c.Request.Context(), patientID, doctorID)
	if err != nil {
		respondRepositoryError(c, err, "Failed to remove doctor from patient")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Doctor removed from patient", Data: doctor})
}

package endpoint

import (
	"github.com/ariebrainware/monorec/repository"
	"github.com/ariebrainware/monorec/util"
	"github.com/gin-gonic/gin"
)

// ListDoctors godoc
// @Summary      List all doctors
// @Tags         Doctor
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=[]model.Doctor} "Doctors retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /doctor [get]
func ListDoctors(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	doctors, err := repository.NewDoctorRepository(db).ListDoctors(c.Request.Context())
	if err != nil {
		respondRepositoryError(c, err, "Failed to retrieve doctors")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Doctors retrieved", Data: doctors})
}

// GetDoctor godoc
// @Summary      Get a doctor
// @Tags         Doctor
// @Produce      json
// @Param        id path int true "Doctor ID"
// @Success      200 {object} util.APIResponse{data=model.Doctor} "Doctor retrieved"
// @Failure      400 {object} util.APIResponse "Invalid doctor ID"
// @Failure      404 {object} util.APIResponse "Doctor not found"
// @Router       /doctor/{id} [get]
func GetDoctor(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "doctor")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	doctor, err := repository.NewDoctorRepository(db).GetDoctor(c.Request.Context(), id)
	if err != nil {
		respondRepositoryError(c, err, "Doctor not found")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Doctor retrieved", Data: doctor})
}

// CreateDoctor godoc
// @Summary      Create a doctor
// @Description  The path segment after /doctor is the new doctor's name.
// @Tags         Doctor
// @Produce      json
// @Param        id path string true "Doctor name"
// @Success      200 {object} util.APIResponse{data=model.Doctor} "Doctor created"
// @Failure      400 {object} util.APIResponse "Invalid doctor name"
// @Router       /doctor/{id} [post]
func CreateDoctor(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	doctor, err := repository.NewDoctorRepository(db).CreateDoctor(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondRepositoryError(c, err, "Failed to create doctor")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Doctor created", Data: doctor})
}

// ListPatientsForDoctor godoc
// @Summary      List a doctor's patients
// @Tags         Doctor
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Doctor ID"
// @Success      200 {object} util.APIResponse{data=[]model.Patient} "Patients retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      403 {object} util.APIResponse "Doctor role required"
// @Failure      404 {object} util.APIResponse "Doctor not found"
// @Router       /doctor/{id}/patient [get]
func ListPatientsForDoctor(c *gin.Context) {
	doctorID, ok := parseIDParam(c, "id", "doctor")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patients, err := repository.NewDoctorRepository(db).ListPatientsForDoctor(c.Request.Context(), doctorID)
	if err != nil {
		respondRepositoryError(c, err, "Failed to retrieve patients for doctor")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patients retrieved", Data: patients})
}

// AddPatientToDoctor godoc
// @Summary      Associate a patient with a doctor
// @Tags         Doctor
// @Produce      json
// @Param        id path int true "Doctor ID"
// @Param        patId path int true "Patient ID"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient added"
// @Failure      404 {object} util.APIResponse "Doctor or patient not found"
// @Failure      409 {object} util.APIResponse "Already associated"
// @Router       /doctor/{id}/patient/{patId} [post]
func AddPatientToDoctor(c *gin.Context) {
	doctorID, ok := parseIDParam(c, "id", "doctor")
	if !ok {
		return
	}
	patientID, ok := parseIDParam(c, "patId", "patient")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patient, err := repository.NewDoctorRepository(db).AddPatientToDoctor(c.Request.Context(), doctorID, patientID)
	if err != nil {
		respondRepositoryError(c, err, "Failed to add patient to doctor")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patient added to doctor", Data: patient})
}

// RemovePatientFromDoctor godoc
// @Summary      Remove a patient from a doctor
// @Tags         Doctor
// @Produce      json
// @Param        id path int true "Doctor ID"
// @Param        patId path int true "Patient ID"
// @Success      200 {object} util.APIResponse{data=model.Patient} "Patient removed"
// @Failure      404 {object} util.APIResponse "Doctor, patient or association not found"
// @Router       /doctor/{id}/patient/{patId} [delete]
func RemovePatientFromDoctor(c *gin.Context) {
	doctorID, ok := parseIDParam(c, "id", "doctor")
	if !ok {
		return
	}
	patientID, ok := parseIDParam(c, "patId", "patient")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	patient, err := repository.NewDoctorRepository(db).RemovePatientFromDoctor(c.Request.Context(), doctorID, patientID)
	if err != nil {
		respondRepositoryError(c, err, "Failed to remove patient from doctor")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patient removed from doctor", Data: patient})
}

package endpoint

import (
	"github.com/ariebrainware/monorec/model"
	"github.com/ariebrainware/monorec/repository"
	"github.com/ariebrainware/monorec/util"
	"github.com/gin-gonic/gin"
)

// ListVisits godoc
// @Summary      List all visits
// @Tags         Visit
// @Produce      json
// @Success      200 {object} util.APIResponse{data=[]model.Visit} "Visits retrieved"
// @Router       /visit [get]
func ListVisits(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	visits, err := repository.NewVisitRepository(db).ListVisits(c.Request.Context())
	if err != nil {
		respondRepositoryError(c, err, "Failed to retrieve visits")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Visits retrieved", Data: visits})
}

// ListUpcomingVisits godoc
// @Summary      List visits from today onwards
// @Tags         Visit
// @Produce      json
// @Success      200 {object} util.APIResponse{data=[]model.Visit} "Upcoming visits retrieved"
// @Router       /visit/upcoming [get]
func ListUpcomingVisits(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	visits, err := repository.NewVisitRepository(db).ListUpcomingVisits(c.Request.Context())
	if err != nil {
		respondRepositoryError(c, err, "Failed to retrieve upcoming visits")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Upcoming visits retrieved", Data: visits})
}

// GetVisit godoc
// @Summary      Get a visit
// @Tags         Visit
// @Produce      json
// @Param        id path int true "Visit ID"
// @Success      200 {object} util.APIResponse{data=model.Visit} "Visit retrieved"
// @Failure      404 {object} util.APIResponse "Visit not found"
// @Router       /visit/{id} [get]
func GetVisit(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "visit")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	visit, err := repository.NewVisitRepository(db).GetVisit(c.Request.Context(), id)
	if err != nil {
		respondRepositoryError(c, err, "Visit not found")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Visit retrieved", Data: visit})
}

// ListVisitsByPatient godoc
// @Summary      List a patient's visits
// @Tags         Visit
// @Produce      json
// @Param        patId path int true "Patient ID"
// @Success      200 {object} util.APIResponse{data=[]model.Visit} "Visits retrieved"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Router       /visit/patient/{patId} [get]
func ListVisitsByPatient(c *gin.Context) {
	patientID, ok := parseIDParam(c, "patId", "patient")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	visits, err := repository.NewVisitRepository(db).ListVisitsByPatient(c.Request.Context(), patientID)
	if err != nil {
		respondRepositoryError(c, err, "Failed to retrieve visits for patient")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Visits retrieved", Data: visits})
}

// ListVisitsByDoctor godoc
// @Summary      List a doctor's visits
// @Tags         Visit
// @Produce      json
// @Param        docId path int true "Doctor ID"
// @Success      200 {object} util.APIResponse{data=[]model.Visit} "Visits retrieved"
// @Failure      404 {object} util.APIResponse "Doctor not found"
// @Router       /visit/doctor/{docId} [get]
func ListVisitsByDoctor(c *gin.Context) {
	doctorID, ok := parseIDParam(c, "docId", "doctor")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	visits, err := repository.NewVisitRepository(db).ListVisitsByDoctor(c.Request.Context(), doctorID)
	if err != nil {
		respondRepositoryError(c, err, "Failed to retrieve visits for doctor")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Visits retrieved", Data: visits})
}

// ListVisitsByDoctorAndPatient godoc
// @Summary      List visits between one doctor and one patient
// @Tags         Visit
// @Produce      json
// @Param        docId path int true "Doctor ID"
// @Param        patId path int true "Patient ID"
// @Success      200 {object} util.APIResponse{data=[]model.Visit} "Visits retrieved"
// @Failure      404 {object} util.APIResponse "Doctor or patient not found"
// @Router       /visit/doctor/{docId}/patient/{patId} [get]
func ListVisitsByDoctorAndPatient(c *gin.Context) {
	doctorID, ok := parseIDParam(c, "docId", "doctor")
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

	visits, err := repository.NewVisitRepository(db).ListVisitsByDoctorAndPatient(c.Request.Context(), doctorID, patientID)
	if err != nil {
		respondRepositoryError(c, err, "Failed to retrieve visits")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Visits retrieved", Data: visits})
}

// CreateVisit godoc
// @Summary      Record a visit
// @Description  The first path parameter is the patient, the second the doctor. The visit is dated now.
// @Tags         Visit
// @Produce      json
// @Param        id path int true "Patient ID"
// @Param        docId path int true "Doctor ID"
// @Success      200 {object} util.APIResponse{data=model.Visit} "Visit created"
// @Failure      404 {object} util.APIResponse "Patient or doctor not found"
// @Router       /visit/{id}/{docId} [post]
func CreateVisit(c *gin.Context) {
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

	visit, err := repository.NewVisitRepository(db).CreateVisit(c.Request.Context(), patientID, doctorID)
	if err != nil {
		respondRepositoryError(c, err, "Failed to create visit")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Visit created", Data: visit})
}

// UpdateVisit godoc
// @Summary      Update a visit's date or note
// @Tags         Visit
// @Accept       json
// @Produce      json
// @Param        id path int true "Visit ID"
// @Param        request body model.UpdateVisitRequest true "Fields to change"
// @Success      200 {object} util.APIResponse{data=model.Visit} "Visit updated"
// @Failure      400 {object} util.APIResponse "Invalid request body"
// @Failure      404 {object} util.APIResponse "Visit not found"
// @Router       /visit/{id} [put]
func UpdateVisit(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "visit")
	if !ok {
		return
	}
	var req model.UpdateVisitRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	visit, err := repository.NewVisitRepository(db).UpdateVisit(c.Request.Context(), id, repository.VisitUpdate{
		Date: req.VisitDate,
		Note: req.VisitNote,
	})
	if err != nil {
		respondRepositoryError(c, err, "Failed to update visit")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Visit updated", Data: visit})
}

// DeleteVisit godoc
// @Summary      Delete a visit
// @Tags         Visit
// @Produce      json
// @Param        id path int true "Visit ID"
// @Success      200 {object} util.APIResponse{data=model.Visit} "Visit deleted"
// @Failure      404 {object} util.APIResponse "Visit not found"
// @Router       /visit/{id} [delete]
func DeleteVisit(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "visit")
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	visit, err := repository.NewVisitRepository(db).DeleteVisit(c.Request.Context(), id)
	if err != nil {
		respondRepositoryError(c, err, "Failed to delete visit")
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Visit deleted", Data: visit})
}

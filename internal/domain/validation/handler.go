package validation

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medguard/medguard/internal/domain/allergy"
	"github.com/medguard/medguard/internal/domain/prescription"
	"github.com/medguard/medguard/internal/platform/auth"
	"github.com/medguard/medguard/internal/platform/metrics"
)

// PrescriptionSource supplies a patient's current medication list.
type PrescriptionSource interface {
	ListActiveByPatient(ctx context.Context, patientID uuid.UUID) ([]*prescription.Prescription, error)
}

// AllergySource supplies a patient's documented allergies.
type AllergySource interface {
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*allergy.Allergy, error)
}

type Handler struct {
	svc           *Service
	prescriptions PrescriptionSource
	allergies     AllergySource
}

func NewHandler(svc *Service, prescriptions PrescriptionSource, allergies AllergySource) *Handler {
	return &Handler{svc: svc, prescriptions: prescriptions, allergies: allergies}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "physician", "pharmacist"))
	g.POST("/validations/prescription", h.ValidatePrescription)
	g.POST("/validations/patient-record", h.ValidatePatientRecord)
	g.POST("/validations/vital-signs", h.ValidateVitalSigns)
	g.POST("/patients/:id/safety-check", h.SafetyCheck)
}

type validatePrescriptionRequest struct {
	PatientID uuid.UUID          `json:"patient_id"`
	Candidate prescription.Input `json:"candidate"`
}

func (h *Handler) ValidatePrescription(c echo.Context) error {
	var req validatePrescriptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()

	existing, err := h.prescriptions.ListActiveByPatient(ctx, req.PatientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	allergies, err := h.allergies.ListByPatient(ctx, req.PatientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	report, err := h.svc.ValidateNewPrescription(ctx, req.PatientID, req.Candidate, existing, allergies)
	if err != nil {
		metrics.RecordValidation("failed")
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	if report.IsValid {
		metrics.RecordValidation("valid")
	} else {
		metrics.RecordValidation("invalid")
	}
	if report.Interactions != nil {
		for range report.Interactions.CriticalInteractions {
			metrics.RecordCriticalInteraction()
		}
	}
	for _, conflict := range report.AllergyConflicts {
		metrics.RecordAllergyConflict(string(conflict.Risk))
	}

	return c.JSON(http.StatusOK, report)
}

type validatePatientRequest struct {
	PatientInput
}

func (h *Handler) ValidatePatientRecord(c echo.Context) error {
	var req validatePatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, ValidatePatientRecord(req.PatientInput))
}

type validateVitalsRequest struct {
	VitalsInput
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

func (h *Handler) ValidateVitalSigns(c echo.Context) error {
	var req validateVitalsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, ValidateVitalSigns(req.VitalsInput, req.Age, Gender(req.Gender)))
}

type safetyCheckRequest struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

func (h *Handler) SafetyCheck(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	var req safetyCheckRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()

	record := ValidatePatientRecord(PatientInput{
		ID: patientID, Name: req.Name, Age: req.Age, Gender: req.Gender,
	})
	if !record.IsValid {
		return c.JSON(http.StatusUnprocessableEntity, record)
	}

	prescriptions, err := h.prescriptions.ListActiveByPatient(ctx, patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	record.Patient.Allergies, err = h.allergies.ListByPatient(ctx, patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	report, err := h.svc.PerformComprehensiveSafetyCheck(ctx, record.Patient, prescriptions)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}

package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/fonsecars/fonsecars-backend/internal/middleware"
	"github.com/fonsecars/fonsecars-backend/internal/model"
	"github.com/fonsecars/fonsecars-backend/internal/response"
	"github.com/fonsecars/fonsecars-backend/internal/service"
	"github.com/fonsecars/fonsecars-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// VehicleHandler handles the public catalog and listing management.
type VehicleHandler struct {
	vehicleService *service.VehicleService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(vehicleService *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// ListVehicles godoc
// GET /api/v1/vehicles?category=&condition=&brand=&q=
// Lists catalog entries, newest first.
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	var filter model.VehicleFilter
	if fields := validator.BindQuery(c, &filter); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	vehicles, err := h.vehicleService.List(c.Request.Context(), filter)
	if err != nil {
		response.FailFromError(c, err)
		return
	}
	if vehicles == nil {
		vehicles = []model.Vehicle{}
	}

	response.Success(c, http.StatusOK, gin.H{"vehicles": vehicles})
}

// GetVehicle godoc
// GET /api/v1/vehicles/:id
// Returns a single listing.
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	vehicle, err := h.vehicleService.Get(c.Request.Context(), id)
	if err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, vehicle)
}

// CreateVehicle godoc
// POST /api/v1/admin/vehicles
// Creates a listing from a multipart form with up to three photos (image1..image3).
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var req model.CreateVehicleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	vehicle, err := h.vehicleService.Create(c.Request.Context(), middleware.GetIdentity(c), req, formImages(c))
	if err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, vehicle)
}

// DeleteVehicle godoc
// DELETE /api/v1/admin/vehicles/:id
// Deletes a listing and its photos.
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.vehicleService.Delete(c.Request.Context(), middleware.GetIdentity(c), id); err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// formImages collects the image1..imageN file fields in order, skipping empty slots.
func formImages(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}

	var images []*multipart.FileHeader
	for i := 1; i <= model.MaxVehicleImages; i++ {
		if files := form.File[fmt.Sprintf("image%d", i)]; len(files) > 0 {
			images = append(images, files[0])
		}
	}
	return images
}

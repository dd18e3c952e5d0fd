package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/fonsecars/fonsecars-backend/internal/logger"
	"github.com/fonsecars/fonsecars-backend/internal/model"
	"github.com/fonsecars/fonsecars-backend/internal/repository"
	"github.com/rs/zerolog"
)

// VehicleStore persists catalog listings.
type VehicleStore interface {
	List(ctx context.Context, f model.VehicleFilter) ([]model.Vehicle, error)
	GetByID(ctx context.Context, id int) (*model.Vehicle, error)
	Create(ctx context.Context, v *model.Vehicle) error
	Delete(ctx context.Context, id int) error
}

// VehicleService handles the public catalog and listing management.
type VehicleService struct {
	vehicles VehicleStore
	media    *MediaService
	log      zerolog.Logger
}

// NewVehicleService creates a new VehicleService.
func NewVehicleService(vehicles VehicleStore, media *MediaService, log zerolog.Logger) *VehicleService {
	return &VehicleService{
		vehicles: vehicles,
		media:    media,
		log:      logger.Component(log, "vehicle_service"),
	}
}

// List returns the catalog filtered by f.
func (s *VehicleService) List(ctx context.Context, f model.VehicleFilter) ([]model.Vehicle, error) {
	f.Category = strings.TrimSpace(f.Category)
	f.Condition = strings.TrimSpace(f.Condition)
	f.Brand = strings.TrimSpace(f.Brand)
	f.Query = strings.TrimSpace(f.Query)
	return s.vehicles.List(ctx, f)
}

// Get returns a single listing.
func (s *VehicleService) Get(ctx context.Context, id int) (*model.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return v, nil
}

// Create stores a new listing along with up to three photos. All photos are
// validated before any is written.
func (s *VehicleService) Create(ctx context.Context, actor *model.Identity, req model.CreateVehicleRequest, images []*multipart.FileHeader) (*model.Vehicle, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if len(images) > model.MaxVehicleImages {
		images = images[:model.MaxVehicleImages]
	}
	for _, h := range images {
		if err := s.media.Validate(h); err != nil {
			return nil, err
		}
	}

	urls := make([]string, 0, len(images))
	for _, h := range images {
		url, err := s.media.SaveVehicleImage(h)
		if err != nil {
			s.removeImages(urls)
			return nil, err
		}
		urls = append(urls, url)
	}

	v := &model.Vehicle{
		Brand:     strings.TrimSpace(req.Brand),
		Model:     strings.TrimSpace(req.Model),
		Price:     strings.TrimSpace(req.Price),
		Images:    urls,
		Condition: strings.TrimSpace(req.Condition),
		Category:  strings.TrimSpace(req.Category),
		Specs:     strings.TrimSpace(req.Specs),
	}
	if err := s.vehicles.Create(ctx, v); err != nil {
		s.removeImages(urls)
		return nil, fmt.Errorf("insert vehicle: %w", err)
	}

	s.log.Info().Str("actor", actor.Username).Int("vehicle_id", v.ID).Msg("Vehicle created")
	return v, nil
}

// Delete removes a listing and its photos.
func (s *VehicleService) Delete(ctx context.Context, actor *model.Identity, id int) error {
	if actor == nil {
		return ErrUnauthenticated
	}

	v, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.vehicles.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrVehicleNotFound
		}
		return fmt.Errorf("delete vehicle: %w", err)
	}
	s.removeImages(v.Images)

	s.log.Info().Str("actor", actor.Username).Int("vehicle_id", id).Msg("Vehicle deleted")
	return nil
}

func (s *VehicleService) removeImages(urls []string) {
	for _, url := range urls {
		if err := s.media.Remove(url); err != nil {
			s.log.Warn().Err(err).Str("url", url).Msg("Failed to remove vehicle image")
		}
	}
}

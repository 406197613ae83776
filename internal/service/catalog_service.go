package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/admission-backend/internal/config"
	"github.com/stemsi/admission-backend/internal/model"
	"github.com/stemsi/admission-backend/internal/repository"
	"github.com/stemsi/admission-backend/internal/response"
)

const universityCacheTTL = 5 * time.Minute

type CatalogService interface {
	ListUniversities(ctx context.Context) ([]model.University, error)
	ListMajors(ctx context.Context, universityID int) ([]model.Major, error)
	ListAdmissionMethods(ctx context.Context) ([]model.AdmissionMethod, error)
	ListSubjectGroups(ctx context.Context) ([]model.SubjectGroup, error)
	ListCombinations(ctx context.Context, majorID, year int) ([]model.EligibilityLinkView, error)

	ListLinks(ctx context.Context, filter model.EligibilityLinkFilter) ([]model.EligibilityLinkView, error)
	CreateLink(ctx context.Context, req model.EligibilityLinkRequest, adminID int) (*model.EligibilityLink, error)
	UpdateLink(ctx context.Context, id int, req model.EligibilityLinkRequest, adminID int) (*model.EligibilityLink, error)
	SetActive(ctx context.Context, kind model.CatalogKind, id int, active bool, adminID int) error
}

// CatalogRepos groups the catalog repositories.
type CatalogRepos struct {
	Universities  repository.UniversityRepository
	Majors        repository.MajorRepository
	Methods       repository.AdmissionMethodRepository
	SubjectGroups repository.SubjectGroupRepository
	Links         repository.EligibilityLinkRepository
	Activity      repository.CatalogActivityRepository
}

type catalogService struct {
	repos CatalogRepos
	cache KeyValueStore
	log   zerolog.Logger
}

func NewCatalogService(repos CatalogRepos, cache KeyValueStore, log zerolog.Logger) CatalogService {
	return &catalogService{
		repos: repos,
		cache: cache,
		log:   log.With().Str("component", "catalog_service").Logger(),
	}
}

// ─── Public reads ───────────────────────────────────────────────────────────

func (s *catalogService) ListUniversities(ctx context.Context) ([]model.University, error) {
	key := config.CacheKey.ActiveUniversitiesKey()
	data, err := s.cache.Get(ctx, key).Bytes()
	if err == nil {
		var cached []model.University
		if json.Unmarshal(data, &cached) == nil {
			return cached, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("University cache read failed")
	}

	list, err := s.repos.Universities.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.University{}
	}
	if payload, err := json.Marshal(list); err == nil {
		if err := s.cache.Set(ctx, key, payload, universityCacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("University cache write failed")
		}
	}
	return list, nil
}

func (s *catalogService) ListMajors(ctx context.Context, universityID int) ([]model.Major, error) {
	u, err := s.repos.Universities.GetByID(ctx, universityID)
	if err := requireActive(u, err, response.ErrInvalidUniversity); err != nil {
		return nil, err
	}
	list, err := s.repos.Majors.ListActiveByUniversity(ctx, universityID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.Major{}
	}
	return list, nil
}

func (s *catalogService) ListAdmissionMethods(ctx context.Context) ([]model.AdmissionMethod, error) {
	list, err := s.repos.Methods.ListActive(ctx)
	if list == nil && err == nil {
		list = []model.AdmissionMethod{}
	}
	return list, err
}

func (s *catalogService) ListSubjectGroups(ctx context.Context) ([]model.SubjectGroup, error) {
	list, err := s.repos.SubjectGroups.ListActive(ctx)
	if list == nil && err == nil {
		list = []model.SubjectGroup{}
	}
	return list, err
}

// ListCombinations returns the active links offered by an active major in year.
func (s *catalogService) ListCombinations(ctx context.Context, majorID, year int) ([]model.EligibilityLinkView, error) {
	m, err := s.repos.Majors.GetByID(ctx, majorID)
	if err := requireActive(m, err, response.ErrInvalidMajor); err != nil {
		return nil, err
	}
	return s.ListLinks(ctx, model.EligibilityLinkFilter{MajorID: majorID, Year: year, ActiveOnly: true})
}

// ─── Administration ─────────────────────────────────────────────────────────

func (s *catalogService) ListLinks(ctx context.Context, filter model.EligibilityLinkFilter) ([]model.EligibilityLinkView, error) {
	list, err := s.repos.Links.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.EligibilityLinkView{}
	}
	return list, nil
}

func (s *catalogService) CreateLink(ctx context.Context, req model.EligibilityLinkRequest, adminID int) (*model.EligibilityLink, error) {
	if err := s.checkLinkRefs(ctx, req); err != nil {
		return nil, err
	}
	link := &model.EligibilityLink{
		MajorID:           req.MajorID,
		AdmissionMethodID: req.AdmissionMethodID,
		SubjectGroupID:    req.SubjectGroupID,
		Year:              req.Year,
		MinScoreRequired:  req.MinScoreRequired,
		Activity:          model.Activity{IsActive: req.IsActive == nil || *req.IsActive},
		Audit:             model.Audit{CreatedBy: &adminID, UpdatedBy: &adminID},
	}
	if err := s.repos.Links.Create(ctx, link); err != nil {
		return nil, linkWriteError(err)
	}
	return link, nil
}

func (s *catalogService) UpdateLink(ctx context.Context, id int, req model.EligibilityLinkRequest, adminID int) (*model.EligibilityLink, error) {
	link, err := s.repos.Links.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.checkLinkRefs(ctx, req); err != nil {
		return nil, err
	}

	link.MajorID = req.MajorID
	link.AdmissionMethodID = req.AdmissionMethodID
	link.SubjectGroupID = req.SubjectGroupID
	link.Year = req.Year
	link.MinScoreRequired = req.MinScoreRequired
	if req.IsActive != nil {
		link.IsActive = *req.IsActive
	}
	link.UpdatedBy = &adminID

	if err := s.repos.Links.Update(ctx, link); err != nil {
		return nil, linkWriteError(err)
	}
	return link, nil
}

func (s *catalogService) SetActive(ctx context.Context, kind model.CatalogKind, id int, active bool, adminID int) error {
	if _, ok := kind.Table(); !ok {
		return newDomainError(response.ErrInvalidPayload, fmt.Sprintf("Loại danh mục %q không hợp lệ.", kind))
	}
	if err := s.repos.Activity.SetActive(ctx, kind, id, active, adminID); err != nil {
		return linkWriteError(err)
	}

	if kind == model.CatalogUniversities {
		if err := s.cache.Del(ctx, config.CacheKey.ActiveUniversitiesKey()).Err(); err != nil {
			s.log.Warn().Err(err).Msg("University cache invalidation failed")
		}
	}
	s.log.Info().Str("kind", string(kind)).Int("id", id).Bool("is_active", active).Int("admin_id", adminID).Msg("Catalog entity toggled")
	return nil
}

// checkLinkRefs verifies the referenced catalog rows exist. Inactive rows may
// still be linked.
func (s *catalogService) checkLinkRefs(ctx context.Context, req model.EligibilityLinkRequest) error {
	if _, err := s.repos.Majors.GetByID(ctx, req.MajorID); err != nil {
		return refError(err, response.ErrInvalidMajor)
	}
	if _, err := s.repos.Methods.GetByID(ctx, req.AdmissionMethodID); err != nil {
		return refError(err, response.ErrInvalidMethod)
	}
	if req.SubjectGroupID != nil {
		if _, err := s.repos.SubjectGroups.GetByID(ctx, *req.SubjectGroupID); err != nil {
			return refError(err, response.ErrInvalidSubjectGroup)
		}
	}
	return nil
}

func refError(err error, code response.ErrCode) error {
	if errors.Is(err, repository.ErrNotFound) {
		return newDomainError(code, "")
	}
	return err
}

func linkWriteError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateLink):
		return newDomainError(response.ErrDuplicateLink, "")
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	}
	return err
}

package store

import (
	"context"

	apperrors "tour-backoffice/internal/common/errors"
	"tour-backoffice/internal/common/logger"
	"tour-backoffice/internal/common/metrics"
	"tour-backoffice/internal/models"
)

// Hook normalizes or rejects a full document before it is written.
type Hook func(data map[string]interface{}) (map[string]interface{}, error)

// Service validates payloads, writes through a Repository and keeps the
// supplier index in step.
type Service struct {
	repo    Repository
	schemas *Schemas
	hooks   map[models.Resource]Hook
	indexer Indexer
	logger  logger.Logger
}

type ServiceOption func(*Service)

// WithIndexer mirrors supplier writes into idx.
func WithIndexer(idx Indexer) ServiceOption {
	return func(s *Service) { s.indexer = idx }
}

// WithHook registers a write hook for resource.
func WithHook(resource models.Resource, hook Hook) ServiceOption {
	return func(s *Service) { s.hooks[resource] = hook }
}

func NewService(repo Repository, log logger.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		repo:    repo,
		schemas: NewSchemas(),
		hooks:   make(map[models.Resource]Hook),
		logger:  log.WithFields(map[string]interface{}{"component": "record-service"}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(ctx context.Context, resource models.Resource) ([]Record, error) {
	recs, err := s.repo.List(ctx, resource)
	s.track(resource, "list", err)
	return recs, err
}

func (s *Service) Get(ctx context.Context, resource models.Resource, id string) (*Record, error) {
	rec, err := s.repo.Get(ctx, resource, id)
	s.track(resource, "get", err)
	return rec, err
}

func (s *Service) Create(ctx context.Context, resource models.Resource, data map[string]interface{}) (*Record, error) {
	doc, err := s.prepare(resource, data)
	if err != nil {
		s.track(resource, "create", err)
		return nil, err
	}

	rec, err := s.repo.Create(ctx, resource, doc)
	s.track(resource, "create", err)
	if err != nil {
		return nil, err
	}
	s.index(ctx, *rec)
	return rec, nil
}

// CreateMany validates every document first; nothing is written unless all
// of them pass.
func (s *Service) CreateMany(ctx context.Context, resource models.Resource, docs []map[string]interface{}) ([]Record, error) {
	prepared := make([]map[string]interface{}, 0, len(docs))
	for i, data := range docs {
		doc, err := s.prepare(resource, data)
		if err != nil {
			s.track(resource, "create_many", err)
			return nil, apperrors.Normalize(err).WithMetadata("index", i)
		}
		prepared = append(prepared, doc)
	}

	recs, err := s.repo.CreateMany(ctx, resource, prepared)
	s.track(resource, "create_many", err)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		s.index(ctx, rec)
	}
	return recs, nil
}

// Patch validates the merged document, so a patch can never leave a record
// that Create would have rejected.
func (s *Service) Patch(ctx context.Context, resource models.Resource, id string, data map[string]interface{}) (*Record, error) {
	existing, err := s.repo.Get(ctx, resource, id)
	if err != nil {
		s.track(resource, "patch", err)
		return nil, err
	}

	patch, err := ToData(data)
	if err != nil {
		return nil, apperrors.NewInvalidArgumentError("data", err.Error())
	}
	doc, err := s.prepare(resource, merge(existing.Data, patch))
	if err != nil {
		s.track(resource, "patch", err)
		return nil, err
	}

	rec, err := s.repo.Patch(ctx, resource, id, doc)
	s.track(resource, "patch", err)
	if err != nil {
		return nil, err
	}
	s.index(ctx, *rec)
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, resource models.Resource, id string) error {
	err := s.repo.Delete(ctx, resource, id)
	s.track(resource, "delete", err)
	if err != nil {
		return err
	}
	if resource == models.ResourceSuppliers && s.indexer != nil {
		if err := s.indexer.Remove(ctx, id); err != nil {
			s.logger.Warn("supplier index removal failed", map[string]interface{}{
				"id":    id,
				"error": err.Error(),
			})
		}
	}
	return nil
}

// prepare round-trips data through JSON, applies the resource hook and
// validates the result.
func (s *Service) prepare(resource models.Resource, data map[string]interface{}) (map[string]interface{}, error) {
	doc, err := ToData(data)
	if err != nil {
		return nil, apperrors.NewInvalidArgumentError("data", err.Error())
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	if err := s.schemas.Validate(resource, doc); err != nil {
		return nil, err
	}
	if hook, ok := s.hooks[resource]; ok {
		if doc, err = hook(doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (s *Service) index(ctx context.Context, rec Record) {
	if rec.Resource != models.ResourceSuppliers || s.indexer == nil {
		return
	}
	if err := s.indexer.Index(ctx, rec); err != nil {
		s.logger.Warn("supplier indexing failed", map[string]interface{}{
			"id":    rec.ID,
			"error": err.Error(),
		})
	}
}

func (s *Service) track(resource models.Resource, operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(apperrors.Normalize(err).Code)
	}
	metrics.RecordOperations.WithLabelValues(string(resource), operation, outcome).Inc()
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/limaJavier/schedulebuilder/internal/apperrors"
	"github.com/limaJavier/schedulebuilder/pkg/model"
	"github.com/limaJavier/schedulebuilder/pkg/provider"
)

// PlannerConfig governs the search budget and the optional constraints of every plan.
type PlannerConfig struct {
	MaxNodes      uint64
	Timeout       time.Duration
	LinkSections  bool
	ExcludeClosed bool
}

// PlannerService runs provider fetch, domain building, search and reporting for one request.
type PlannerService struct {
	provider  provider.Provider
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	cfg       PlannerConfig
}

func NewPlannerService(
	source provider.Provider,
	validate *validator.Validate,
	logger *zap.Logger,
	metrics *MetricsService,
	cfg PlannerConfig,
) *PlannerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlannerService{
		provider:  source,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		cfg:       cfg,
	}
}

// Plan returns a feasible plan, an infeasible plan when no combination of sections fits, or an *apperrors.Error.
func (s *PlannerService) Plan(ctx context.Context, req model.ScheduleRequest) (*model.Plan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrValidation, "invalid schedule request")
	}

	window, err := model.ParseTimeWindow(req.TimeConstraints)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidWindow, "")
	}

	//** Fetch every course before searching
	catalog, err := provider.Fetch(ctx, s.provider, req.Courses)
	if err != nil {
		s.metrics.ObserveSolve(OutcomeError, 0, 0)
		return nil, apperrors.Wrap(err, apperrors.ErrProvider, "")
	}

	builder := model.NewDomainBuilder(s.logger, model.BuilderOptions{ExcludeClosed: s.cfg.ExcludeClosed})
	problem, err := builder.Build(req.Courses, catalog)
	if err != nil {
		s.metrics.ObserveSolve(OutcomeInfeasibleDomain, 0, 0)
		var domainErr *model.InfeasibleDomainError
		if errors.As(err, &domainErr) {
			return nil, apperrors.Wrap(err, apperrors.ErrInfeasibleDomain, domainErr.Error())
		}
		return nil, apperrors.Wrap(err, apperrors.ErrInternal, "")
	}

	//** Search under the configured budget
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	scheduler := model.NewBacktrackingScheduler(model.SolverOptions{
		OptimizeByRating: req.OptimizeByRating,
		Window:           window,
		MaxNodes:         s.cfg.MaxNodes,
		LinkSections:     s.cfg.LinkSections,
	})
	assignment, stats, err := scheduler.Solve(ctx, problem)
	if errors.Is(err, model.ErrSearchLimit) {
		s.metrics.ObserveSolve(OutcomeLimit, stats.Nodes, stats.Duration)
		s.logger.Warn("schedule search cut off",
			zap.Strings("courses", req.Courses),
			zap.Uint64("nodes", stats.Nodes),
			zap.Duration("duration", stats.Duration),
			zap.Error(err),
		)
		return nil, apperrors.Wrap(err, apperrors.ErrSearchLimit, "")
	} else if err != nil {
		s.metrics.ObserveSolve(OutcomeError, stats.Nodes, stats.Duration)
		return nil, apperrors.Wrap(err, apperrors.ErrInternal, "")
	} else if assignment != nil && !scheduler.Verify(assignment, problem) {
		s.metrics.ObserveSolve(OutcomeError, stats.Nodes, stats.Duration)
		return nil, apperrors.Clone(apperrors.ErrInternal, "solver returned an invalid assignment")
	}

	plan := model.NewPlan(uuid.NewString(), assignment, stats)

	outcome := OutcomeFound
	if !plan.Feasible {
		outcome = OutcomeExhausted
	}
	s.metrics.ObserveSolve(outcome, stats.Nodes, stats.Duration)
	s.logger.Info("schedule planned",
		zap.String("plan_id", plan.ID),
		zap.Strings("courses", req.Courses),
		zap.String("outcome", outcome),
		zap.Uint64("nodes", stats.Nodes),
		zap.Duration("duration", stats.Duration),
	)

	return &plan, nil
}

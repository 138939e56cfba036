package assignment

import (
	"context"
	"errors"

	"taskrewards-platform/pkg/errutil"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeDailyAssignment is the asynq task type consumed by the worker.
const TypeDailyAssignment = "assignment:daily"

func NewDailyAssignmentTask() *asynq.Task {
	return asynq.NewTask(TypeDailyAssignment, nil)
}

// HandleDailyAssignment runs the daily assigner. Domain rejections, such
// as an empty product pool, are logged and swallowed so asynq does not
// retry a task that cannot succeed until an operator intervenes.
func (s *Service) HandleDailyAssignment(ctx context.Context, t *asynq.Task) error {
	result, err := s.AssignDailyTasks(ctx, nil)
	if err != nil {
		var be errutil.BaseError
		if errors.As(err, &be) && be.Code != errutil.StatusInternal {
			zap.L().Warn("daily assignment skipped", zap.Error(err))
			return nil
		}
		return err
	}

	zap.L().Info("daily assignment task finished",
		zap.Int("users_assigned", result.UsersAssigned),
		zap.Int("assignments", result.Assignments))
	return nil
}

func RegisterTaskHandler(mux *asynq.ServeMux, svc *Service) {
	mux.HandleFunc(TypeDailyAssignment, svc.HandleDailyAssignment)
}

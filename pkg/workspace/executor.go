package workspace

import (
	"context"
	"fmt"
	"time"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/gostage/pkg/errors"
	"github.com/arthur-debert/gostage/pkg/logging"
)

// OpStatus is the executed state of a planned operation
type OpStatus string

const (
	StatusDone   OpStatus = "done"
	StatusFailed OpStatus = "failed"
	StatusWould  OpStatus = "would"
)

// OpResult reports one executed operation
type OpResult struct {
	Op       Op
	Status   OpStatus
	Error    error
	Duration time.Duration
}

// ExecutorOptions contains options for the executor
type ExecutorOptions struct {
	DryRun          bool
	DisableRollback bool
}

// Executor materializes staging plans through synthfs. With rollback
// enabled (the default) a failed run undoes the operations it already
// applied instead of leaving a half-written tree behind.
type Executor struct {
	logger         zerolog.Logger
	dryRun         bool
	filesystem     filesystem.FullFileSystem
	enableRollback bool
}

// NewExecutor creates a new executor
func NewExecutor(opts ExecutorOptions) *Executor {
	// Use PathAwareFileSystem to handle absolute paths directly
	osfs := filesystem.NewOSFileSystem("/")
	pathAwareFS := synthfs.NewPathAwareFileSystem(osfs, "/").WithAbsolutePaths()

	return &Executor{
		logger:         logging.GetLogger("workspace.exec"),
		dryRun:         opts.DryRun,
		filesystem:     pathAwareFS,
		enableRollback: !opts.DisableRollback,
	}
}

// Apply runs every operation in the plan, in plan order. Skipped
// operations are not touched. The returned results cover whatever
// synthfs reported on, including failures.
func (e *Executor) Apply(ctx context.Context, plan *Plan) ([]OpResult, error) {
	if len(plan.Ops) == 0 {
		e.logger.Debug().Int("skipped", len(plan.Skipped)).Msg("Nothing to execute")
		return []OpResult{}, nil
	}

	if e.dryRun {
		return e.applyDryRun(plan), nil
	}

	sfs := synthfs.New()
	synthfsOps := make([]synthfs.Operation, 0, len(plan.Ops))
	opMap := make(map[synthfs.OperationID]Op)

	for _, op := range plan.Ops {
		var sop synthfs.Operation
		switch op.Kind {
		case OpMkdir:
			sop = sfs.CreateDirWithID(op.ID, op.Dst, op.Mode)
		case OpCopy:
			sop = sfs.CopyWithID(op.ID, op.Src, op.Dst)
		case OpSymlink:
			sop = sfs.CreateSymlinkWithID(op.ID, op.Src, op.Dst)
		case OpChmodExec:
			sop = sfs.ShellCommandWithID(op.ID, fmt.Sprintf("chmod +x %q", op.Dst))
		default:
			return nil, errors.Newf(errors.ErrStageExecute, "unknown operation kind %q", op.Kind)
		}
		synthfsOps = append(synthfsOps, sop)
		opMap[sop.ID()] = op
	}

	options := synthfs.DefaultPipelineOptions()
	options.RollbackOnError = e.enableRollback

	e.logger.Info().
		Int("operationCount", len(synthfsOps)).
		Bool("rollbackEnabled", e.enableRollback).
		Msg("Executing staging operations")

	result, err := synthfs.RunWithOptions(ctx, e.filesystem, options, synthfsOps...)
	results := e.convertResults(result, opMap)
	if err != nil {
		return results, errors.Wrapf(err, errors.ErrStageExecute, "failed to execute staging plan")
	}
	return results, nil
}

// applyDryRun handles dry run mode
func (e *Executor) applyDryRun(plan *Plan) []OpResult {
	results := make([]OpResult, 0, len(plan.Ops))
	for _, op := range plan.Ops {
		e.logger.Info().
			Str("kind", string(op.Kind)).
			Str("dst", op.Dst).
			Msg("Would execute operation")
		results = append(results, OpResult{Op: op, Status: StatusWould})
	}
	return results
}

// convertResults converts synthfs results to operation results
func (e *Executor) convertResults(result *synthfs.Result, opMap map[synthfs.OperationID]Op) []OpResult {
	if result == nil {
		return []OpResult{}
	}

	statusMap := map[synthfs.OperationStatus]OpStatus{
		synthfs.StatusSuccess:    StatusDone,
		synthfs.StatusFailure:    StatusFailed,
		synthfs.StatusValidation: StatusFailed,
	}

	var results []OpResult
	for _, opResult := range result.GetOperations() {
		synthfsResult, ok := opResult.(synthfs.OperationResult)
		if !ok {
			continue
		}
		op, exists := opMap[synthfsResult.OperationID]
		if !exists {
			e.logger.Warn().
				Str("operationID", string(synthfsResult.OperationID)).
				Msg("Could not find planned operation for synthfs result")
			continue
		}

		status := statusMap[synthfsResult.Status]
		if status == "" {
			status = StatusFailed
		}
		results = append(results, OpResult{
			Op:       op,
			Status:   status,
			Error:    synthfsResult.Error,
			Duration: synthfsResult.Duration,
		})
	}
	return results
}

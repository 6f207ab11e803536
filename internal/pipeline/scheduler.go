// =============================================================================
// Sales Pipeline - Stage Scheduler
// =============================================================================
//
// The scheduler runs a directed acyclic graph of named stages. Each stage
// declares the stages it requires and an output whose existence marks it done.
//
// STATE MACHINE (per stage):
//
//   PENDING --(output exists)--------------------> DONE (skipped)
//   PENDING --> RUNNING --(Run ok)---------------> DONE
//                       --(Run error)------------> FAILED
//
//   A stage leaves PENDING only once every dependency is DONE. A stage whose
//   dependency failed stays PENDING and the run as a whole fails.
//
// Stages run one at a time in dependency order. There are no retries: fix the
// cause, remove stale outputs, and run again.
//
// =============================================================================

package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JLuisHub/flujo-de-datosV2/internal/logger"
)

// =============================================================================
// STAGE CONTRACT
// =============================================================================

// Stage is one unit of pipeline work.
type Stage interface {
	// Name uniquely identifies the stage.
	Name() string

	// Requires lists the names of the stages that must be DONE first.
	Requires() []string

	// Output describes the artifact whose existence marks the stage done.
	Output() string

	// Complete reports whether the output already exists.
	Complete() (bool, error)

	// Run performs the stage's work and produces its output.
	Run() error
}

// State is the lifecycle state of a stage within one run.
type State int

const (
	Pending State = iota
	Running
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case Running:
		return "RUNNING"
	case Done:
		return "DONE"
	case Failed:
		return "FAILED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Errors returned while planning.
var (
	ErrUnknownStage   = errors.New("unknown stage")
	ErrDuplicateStage = errors.New("duplicate stage")
	ErrCycle          = errors.New("dependency cycle")
)

// =============================================================================
// RUN REPORT
// =============================================================================

// StageResult is the outcome of one stage in a run.
type StageResult struct {
	Name  string
	State State

	// Skipped is true when the stage was DONE because its output existed.
	Skipped bool

	// Blocked names the failed dependency that kept the stage PENDING.
	Blocked string

	Err      error
	Duration time.Duration
}

// Report summarizes a run.
type Report struct {
	RunID   string
	Started time.Time
	Elapsed time.Duration
	Stages  []StageResult
}

// Failed reports whether any stage did not reach DONE.
func (r *Report) Failed() bool {
	for _, s := range r.Stages {
		if s.State != Done {
			return true
		}
	}
	return false
}

// Result returns the outcome for the named stage.
func (r *Report) Result(name string) (StageResult, bool) {
	for _, s := range r.Stages {
		if s.Name == name {
			return s, true
		}
	}
	return StageResult{}, false
}

// Executed returns the names of the stages whose Run was called.
func (r *Report) Executed() []string {
	var names []string
	for _, s := range r.Stages {
		if !s.Skipped && (s.State == Done || s.State == Failed) {
			names = append(names, s.Name)
		}
	}
	return names
}

// =============================================================================
// SCHEDULER
// =============================================================================

// Scheduler holds the registered stages.
type Scheduler struct {
	stages map[string]Stage
	order  []string
	logger logger.Logger
}

// New creates an empty Scheduler.
func New(log logger.Logger) *Scheduler {
	return &Scheduler{
		stages: make(map[string]Stage),
		logger: log,
	}
}

// Register adds stages. Names must be unique.
func (s *Scheduler) Register(stages ...Stage) error {
	for _, st := range stages {
		name := st.Name()
		if _, ok := s.stages[name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateStage, name)
		}
		s.stages[name] = st
		s.order = append(s.order, name)
	}
	return nil
}

// Stages returns the registered stages in registration order.
func (s *Scheduler) Stages() []Stage {
	out := make([]Stage, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.stages[name])
	}
	return out
}

// Plan returns the targets and their transitive dependencies in an order where
// every stage follows its dependencies. With no targets, all registered stages
// are planned.
func (s *Scheduler) Plan(targets ...string) ([]Stage, error) {
	if len(targets) == 0 {
		targets = s.order
	}

	const (
		unvisited = iota
		visiting
		visited
	)
	marks := make(map[string]int)
	var plan []Stage

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		st, ok := s.stages[name]
		if !ok {
			if len(path) > 0 {
				return fmt.Errorf("%w: %s (required by %s)", ErrUnknownStage, name, path[len(path)-1])
			}
			return fmt.Errorf("%w: %s", ErrUnknownStage, name)
		}

		switch marks[name] {
		case visited:
			return nil
		case visiting:
			return fmt.Errorf("%w: %v", ErrCycle, append(path, name))
		}

		marks[name] = visiting
		for _, dep := range st.Requires() {
			if err := visit(dep, append(path, name)); err != nil {
				return err
			}
		}
		marks[name] = visited
		plan = append(plan, st)
		return nil
	}

	for _, name := range targets {
		if err := visit(name, nil); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

// Run executes the plan for targets and returns its report together with the
// first stage error. Planning errors return a nil report.
func (s *Scheduler) Run(targets ...string) (*Report, error) {
	plan, err := s.Plan(targets...)
	if err != nil {
		return nil, err
	}

	report := &Report{RunID: uuid.NewString(), Started: time.Now()}
	log := s.logger
	log.Info("pipeline run started", "run", report.RunID, "stages", len(plan))

	states := make(map[string]State, len(plan))
	var firstErr error

	for _, st := range plan {
		result := s.runStage(st, states, report.RunID)
		states[st.Name()] = result.State
		report.Stages = append(report.Stages, result)

		if result.Err != nil && firstErr == nil {
			firstErr = fmt.Errorf("stage %s failed: %w", st.Name(), result.Err)
		}
	}

	report.Elapsed = time.Since(report.Started)
	if report.Failed() {
		log.Error("pipeline run failed", "run", report.RunID, "elapsed", report.Elapsed)
		if firstErr == nil {
			firstErr = errors.New("pipeline run failed")
		}
		return report, firstErr
	}

	log.Info("pipeline run finished", "run", report.RunID, "elapsed", report.Elapsed)
	return report, nil
}

// runStage drives one stage through its state machine.
func (s *Scheduler) runStage(st Stage, states map[string]State, runID string) StageResult {
	name := st.Name()
	result := StageResult{Name: name, State: Pending}

	for _, dep := range st.Requires() {
		if states[dep] != Done {
			result.Blocked = dep
			s.logger.Warn("stage not run", "run", runID, "stage", name, "blocked_by", dep)
			return result
		}
	}

	done, err := st.Complete()
	if err != nil {
		result.State = Failed
		result.Err = fmt.Errorf("failed to check output %s: %w", st.Output(), err)
		s.logger.Error("stage failed", "run", runID, "stage", name, "err", result.Err)
		return result
	}
	if done {
		result.State = Done
		result.Skipped = true
		s.logger.Info("stage already complete", "run", runID, "stage", name, "output", st.Output())
		return result
	}

	result.State = Running
	s.logger.Info("stage started", "run", runID, "stage", name)
	start := time.Now()
	err = st.Run()
	result.Duration = time.Since(start)

	if err != nil {
		result.State = Failed
		result.Err = err
		s.logger.Error("stage failed", "run", runID, "stage", name, "err", err)
		return result
	}

	result.State = Done
	s.logger.Info("stage finished", "run", runID, "stage", name, "duration", result.Duration)
	return result
}

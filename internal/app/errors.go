package app

import "fmt"

// Stage names one step of the configure pipeline.
type Stage string

const (
	StageEnvironment   Stage = "environment"
	StageBuildGraph    Stage = "build-graph"
	StageInterpret     Stage = "interpret"
	StageSelectBackend Stage = "select-backend"
	StageGenerate      Stage = "generate"
)

// Stages lists the pipeline in execution order.
var Stages = []Stage{StageEnvironment, StageBuildGraph, StageInterpret, StageSelectBackend, StageGenerate}

// StageError tags a pipeline failure with the stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// InterpreterFailure wraps any error returned by the interpreter.
type InterpreterFailure struct {
	Err error
}

func (e *InterpreterFailure) Error() string {
	return fmt.Sprintf("interpreter failed: %v", e.Err)
}

func (e *InterpreterFailure) Unwrap() error {
	return e.Err
}

// GeneratorFailure wraps any error returned by a backend generator.
type GeneratorFailure struct {
	Generator string
	Err       error
}

func (e *GeneratorFailure) Error() string {
	return fmt.Sprintf("%s generator failed: %v", e.Generator, e.Err)
}

func (e *GeneratorFailure) Unwrap() error {
	return e.Err
}

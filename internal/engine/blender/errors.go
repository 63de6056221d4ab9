package blender

import (
	"errors"
	"fmt"
	"os/exec"
	"regexp"

	"github.com/backmassage/skinforge/internal/engine"
)

// Pre-compiled regexes classifying Blender stderr into the engine error
// taxonomy. The first match wins, checked fatal-first so a crash that also
// prints a scene error still aborts the batch. Patterns cover both the
// RuntimeError messages raised by pythonExpr and Blender's native output.
var (
	reFatal = regexp.MustCompile(
		`(?i)Segmentation fault|EXCEPTION_ACCESS_VIOLATION|` +
			`Fatal Python error|Blender quit unexpectedly|` +
			`cannot read file .*\.blend|blend file is corrupt`)

	reMissingTexture = regexp.MustCompile(
		`(?i)cannot read .*image|failed to load image|` +
			`No such file or directory.*\.(png|jpe?g)`)

	reMissingImageSlot = regexp.MustCompile(
		`image slot .* not found`)

	reMissingLighting = regexp.MustCompile(
		`lighting collection .* not found`)

	reMissingMask = regexp.MustCompile(
		`mask material not found`)

	reDeviceFailure = regexp.MustCompile(
		`(?i)CUDA error|OPTIX error|HIP error|out of (GPU )?memory|` +
			`failed to create CUDA context|device .* not available`)
)

// Classify maps a failed invocation (stderr + process error) to the engine
// error taxonomy. An unlaunchable binary is fatal: every subsequent job would
// fail the same way.
func Classify(stderr string, runErr error) error {
	var execErr *exec.Error
	if errors.As(runErr, &execErr) {
		return fmt.Errorf("%w: %v", engine.ErrFatal, runErr)
	}

	switch {
	case reFatal.MatchString(stderr):
		return fmt.Errorf("%w: %s", engine.ErrFatal, firstLine(stderr))
	case reMissingImageSlot.MatchString(stderr):
		return fmt.Errorf("%w: %s", engine.ErrMissingImageSlot, firstMatch(reMissingImageSlot, stderr))
	case reMissingLighting.MatchString(stderr):
		return fmt.Errorf("%w: %s", engine.ErrMissingLightingCollection, firstMatch(reMissingLighting, stderr))
	case reMissingMask.MatchString(stderr):
		return fmt.Errorf("%w: %s", engine.ErrMissingMaskMaterial, firstMatch(reMissingMask, stderr))
	case reMissingTexture.MatchString(stderr):
		return fmt.Errorf("%w: %s", engine.ErrMissingSourceTexture, firstMatch(reMissingTexture, stderr))
	case reDeviceFailure.MatchString(stderr):
		return fmt.Errorf("%w: %s", engine.ErrRenderFailed, firstMatch(reDeviceFailure, stderr))
	default:
		return fmt.Errorf("%w: %v", engine.ErrRenderFailed, runErr)
	}
}

func firstMatch(re *regexp.Regexp, s string) string {
	return re.FindString(s)
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
